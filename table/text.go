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

	ptable "github.com/phil-mansfield/table"

	"github.com/spatialmodel/griddata/resample"
)

// TextColumns gives the zero-based positions of the location and
// value columns in a whitespace-separated numeric table.
type TextColumns struct {
	X, Y, Value int
}

// DefaultTextColumns reads x, y and value from the first three columns.
var DefaultTextColumns = TextColumns{X: 0, Y: 1, Value: 2}

// ReadText reads source points from a whitespace-separated numeric
// table without a header, such as an XYZ export.
func ReadText(path string, c TextColumns) ([]resample.SourcePoint, error) {
	cols, err := ptable.ReadTable(path, []int{c.X, c.Y, c.Value}, nil)
	if err != nil {
		return nil, fmt.Errorf("table: reading %s: %v", path, err)
	}
	if len(cols) != 3 || len(cols[0]) == 0 {
		return nil, ErrNoData
	}
	xs, ys, vs := cols[0], cols[1], cols[2]
	o := make([]resample.SourcePoint, len(xs))
	for i := range o {
		o[i] = resample.SourcePoint{X: xs[i], Y: ys[i], Value: vs[i]}
	}
	return o, nil
}
