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

// Package table reads scattered source points from tabular files and
// writes resampled values back out as tables.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/Knetic/govaluate"

	"github.com/spatialmodel/griddata/resample"
)

// ErrNoData is returned when a table has no data rows.
var ErrNoData = errors.New("table: no data rows")

// Columns specifies which columns of a table hold the point
// locations and values.
type Columns struct {
	// X and Y are the names of the location columns.
	// They default to "x" and "y".
	X, Y string

	// Value is the name of the column that holds the values.
	// It defaults to "z" and is ignored if ValueExpr is set.
	Value string

	// ValueExpr, if set, is an arithmetic expression over the
	// numeric columns of each row, such as "(ztop - zbot) * 10",
	// whose result is used as the value.
	ValueExpr string

	// Comma is the field separator for delimited text.
	// It defaults to ','.
	Comma rune
}

func (c Columns) withDefaults() Columns {
	if c.X == "" {
		c.X = "x"
	}
	if c.Y == "" {
		c.Y = "y"
	}
	if c.Value == "" {
		c.Value = "z"
	}
	if c.Comma == 0 {
		c.Comma = ','
	}
	return c
}

// parseFloat converts a table cell to a number. Cells that are
// not numbers are NaN.
func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// valuer returns the value of a row, given a function that returns
// the contents of the named column.
type valuer func(cell func(string) string) float64

// valueFunc returns a function that calculates the value for a row,
// and the names of the columns that the value depends on.
func (c Columns) valueFunc() (valuer, []string, error) {
	if c.ValueExpr == "" {
		return func(cell func(string) string) float64 {
			return parseFloat(cell(c.Value))
		}, []string{c.Value}, nil
	}
	expr, err := govaluate.NewEvaluableExpression(c.ValueExpr)
	if err != nil {
		return nil, nil, fmt.Errorf("table: value expression %q: %v", c.ValueExpr, err)
	}
	vars := expr.Vars()
	return func(cell func(string) string) float64 {
		params := make(map[string]interface{}, len(vars))
		for _, v := range vars {
			params[v] = parseFloat(cell(v))
		}
		r, err := expr.Evaluate(params)
		if err != nil {
			return math.NaN()
		}
		f, ok := r.(float64)
		if !ok {
			return math.NaN()
		}
		return f
	}, vars, nil
}

// Points converts the rows of a table with the given header into
// source points. Cells that are not numbers become NaN.
func (c Columns) Points(header []string, rows [][]string) ([]resample.SourcePoint, error) {
	c = c.withDefaults()
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(h)] = i
	}
	value, need, err := c.valueFunc()
	if err != nil {
		return nil, err
	}
	for _, n := range append([]string{c.X, c.Y}, need...) {
		if _, ok := index[n]; !ok {
			return nil, fmt.Errorf("table: missing column %q", n)
		}
	}
	if len(rows) == 0 {
		return nil, ErrNoData
	}
	o := make([]resample.SourcePoint, len(rows))
	for i, row := range rows {
		cell := func(name string) string {
			j := index[name]
			if j >= len(row) {
				return ""
			}
			return row[j]
		}
		o[i] = resample.SourcePoint{
			X:     parseFloat(cell(c.X)),
			Y:     parseFloat(cell(c.Y)),
			Value: value(cell),
		}
	}
	return o, nil
}

func readCSV(r io.Reader, comma rune) (header []string, rows [][]string, err error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'
	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("table: reading delimited text: %v", err)
	}
	if len(records) == 0 {
		return nil, nil, ErrNoData
	}
	return records[0], records[1:], nil
}

// ReadCSV reads source points from delimited text with a header row.
func ReadCSV(r io.Reader, c Columns) ([]resample.SourcePoint, error) {
	c = c.withDefaults()
	header, rows, err := readCSV(r, c.Comma)
	if err != nil {
		return nil, err
	}
	return c.Points(header, rows)
}

// ReadQueriesCSV reads query locations from delimited text with a
// header row. Only the X and Y columns are used. A file with a header
// but no rows gives no queries.
func ReadQueriesCSV(r io.Reader, c Columns) ([]resample.QueryPoint, error) {
	c = c.withDefaults()
	header, rows, err := readCSV(r, c.Comma)
	if err != nil {
		return nil, err
	}
	c.ValueExpr = ""
	c.Value = c.X
	p, err := c.Points(header, rows)
	if err == ErrNoData {
		return []resample.QueryPoint{}, nil
	} else if err != nil {
		return nil, err
	}
	o := make([]resample.QueryPoint, len(p))
	for i, pp := range p {
		o[i] = resample.QueryPoint{X: pp.X, Y: pp.Y}
	}
	return o, nil
}
