/*
Copyright © 2021 the griddata authors.
This file is part of griddata.

griddata is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

griddata is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with griddata.  If not, see <http://www.gnu.org/licenses/>.
*/

package table

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	goshp "github.com/jonas-p/go-shp"

	"github.com/spatialmodel/griddata/plot"
	"github.com/spatialmodel/griddata/resample"
)

func checkLengths(queries []resample.QueryPoint, names []string, values [][]float64) {
	if len(names) != len(values) {
		panic(fmt.Errorf("table: %d column names but %d value arrays", len(names), len(values)))
	}
	for i, v := range values {
		if len(v) != len(queries) {
			panic(fmt.Errorf("table: column %s has %d values for %d locations", names[i], len(v), len(queries)))
		}
	}
}

// WriteCSV writes the query locations and the named value arrays,
// which must each have one value per query, as comma-separated text
// with columns x, y, and then the names.
func WriteCSV(w io.Writer, queries []resample.QueryPoint, names []string, values ...[]float64) error {
	checkLengths(queries, names, values)
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"x", "y"}, names...)); err != nil {
		return fmt.Errorf("table: writing csv: %v", err)
	}
	rec := make([]string, len(names)+2)
	for i, q := range queries {
		rec[0] = formatFloat(q.X)
		rec[1] = formatFloat(q.Y)
		for j, v := range values {
			rec[j+2] = formatFloat(v[i])
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("table: writing csv: %v", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("table: writing csv: %v", err)
	}
	return nil
}

// WriteShp writes the query locations to a point shapefile at path,
// with one field for each of the named value arrays.
func WriteShp(path string, queries []resample.QueryPoint, names []string, values ...[]float64) error {
	checkLengths(queries, names, values)
	base := strings.TrimSuffix(path, filepath.Ext(path))
	for _, ext := range []string{".shp", ".prj", ".dbf", ".shx"} {
		os.Remove(base + ext)
	}
	fields := make([]goshp.Field, len(names))
	for i, n := range names {
		fields[i] = goshp.FloatField(n, 20, 8)
	}
	e, err := shp.NewEncoderFromFields(base+".shp", goshp.POINT, fields...)
	if err != nil {
		return fmt.Errorf("table: %v", err)
	}
	data := make([]interface{}, len(names))
	for i, q := range queries {
		for j, v := range values {
			data[j] = v[i]
		}
		if err := e.EncodeFields(geom.Point{X: q.X, Y: q.Y}, data...); err != nil {
			return fmt.Errorf("table: %v", err)
		}
	}
	e.Close()
	return nil
}

// WriteText writes one "x y value" line for each query, in the
// whitespace-separated form that ReadText reads.
func WriteText(w io.Writer, queries []resample.QueryPoint, values []float64) error {
	x := make([]float64, len(queries))
	y := make([]float64, len(queries))
	for i, q := range queries {
		x[i], y[i] = q.X, q.Y
	}
	b := bufio.NewWriter(w)
	for _, p := range plot.NewXYZs(x, y, values) {
		fmt.Fprintf(b, "%s %s %s\n", formatFloat(p.X), formatFloat(p.Y), formatFloat(p.Z))
	}
	if err := b.Flush(); err != nil {
		return fmt.Errorf("table: writing text: %v", err)
	}
	return nil
}

// WriteOutlines writes polygon outlines as comma-separated text with
// columns cell, x and y, one row per outline vertex.
func WriteOutlines(w io.Writer, outlines []plot.XYs) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"cell", "x", "y"})
	for i, o := range outlines {
		for _, p := range o {
			cw.Write([]string{strconv.Itoa(i), formatFloat(p.X), formatFloat(p.Y)})
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("table: writing outlines: %v", err)
	}
	return nil
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
