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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	"github.com/ctessum/geom/proj"

	"github.com/spatialmodel/griddata/resample"
)

// ReadShp reads source points from a shapefile. Polygon shapes are
// represented by their centroids, and each point of a multi-point
// shape gets the value of its record. Only the Value or ValueExpr
// fields of c are used. sr is the spatial reference of the shapefile,
// or nil if it has no .prj file.
func ReadShp(path string, c Columns) (points []resample.SourcePoint, sr *proj.SR, err error) {
	c = c.withDefaults()
	d, err := shp.NewDecoder(path)
	if err != nil {
		return nil, nil, fmt.Errorf("table: %v", err)
	}
	defer d.Close()
	if _, err := os.Stat(strings.TrimSuffix(path, filepath.Ext(path)) + ".prj"); err == nil {
		if sr, err = d.SR(); err != nil {
			return nil, nil, fmt.Errorf("table: %v", err)
		}
	}

	value, need, err := c.valueFunc()
	if err != nil {
		return nil, nil, err
	}
	for {
		g, fields, more := d.DecodeRowFields(need...)
		if !more {
			break
		}
		for _, n := range need {
			if _, ok := fields[n]; !ok {
				return nil, nil, fmt.Errorf("table: loading shapefile %s: missing attribute column %s", path, n)
			}
		}
		v := value(func(name string) string { return fields[name] })
		switch gg := g.(type) {
		case geom.Point:
			points = append(points, resample.SourcePoint{X: gg.X, Y: gg.Y, Value: v})
		case *geom.Point:
			points = append(points, resample.SourcePoint{X: gg.X, Y: gg.Y, Value: v})
		case geom.MultiPoint:
			for _, p := range gg {
				points = append(points, resample.SourcePoint{X: p.X, Y: p.Y, Value: v})
			}
		case geom.Polygonal:
			p := gg.Centroid()
			points = append(points, resample.SourcePoint{X: p.X, Y: p.Y, Value: v})
		default:
			return nil, nil, fmt.Errorf("table: loading shapefile %s: unsupported shape type %T", path, g)
		}
	}
	if err := d.Error(); err != nil {
		return nil, nil, fmt.Errorf("table: loading shapefile %s: %v", path, err)
	}
	if len(points) == 0 {
		return nil, nil, ErrNoData
	}
	return points, sr, nil
}
