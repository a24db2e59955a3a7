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

	"github.com/tealeg/xlsx"

	"github.com/spatialmodel/griddata/resample"
)

// ReadXLSX reads source points from the named sheet of an Excel
// spreadsheet, or from the first sheet if sheet is empty. The first
// non-empty row of the sheet is the header.
func ReadXLSX(path, sheet string, c Columns) ([]resample.SourcePoint, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("table: %v", err)
	}
	var s *xlsx.Sheet
	if sheet == "" {
		if len(f.Sheets) == 0 {
			return nil, ErrNoData
		}
		s = f.Sheets[0]
	} else {
		var ok bool
		if s, ok = f.Sheet[sheet]; !ok {
			return nil, fmt.Errorf("table: %s has no sheet named %q", path, sheet)
		}
	}

	var header []string
	var rows [][]string
	for _, row := range s.Rows {
		if row == nil || len(row.Cells) == 0 {
			continue
		}
		r := make([]string, len(row.Cells))
		for i, cell := range row.Cells {
			r[i] = cell.Value
		}
		if header == nil {
			header = r
			continue
		}
		rows = append(rows, r)
	}
	if header == nil {
		return nil, ErrNoData
	}
	return c.Points(header, rows)
}
