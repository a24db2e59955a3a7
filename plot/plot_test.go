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

package plot

import "testing"

func TestXYZs(t *testing.T) {
	p := NewXYZs([]float64{1, 2}, []float64{3, 4}, []float64{5, 6})
	if p.Len() != 2 {
		t.Fatalf("length %d != 2", p.Len())
	}
	if x, y, z := p.XYZ(1); x != 2 || y != 4 || z != 6 {
		t.Errorf("XYZ(1) = %g, %g, %g", x, y, z)
	}
	if x, y := p.XY(0); x != 1 || y != 3 {
		t.Errorf("XY(0) = %g, %g", x, y)
	}
}

func TestNewXYZsMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("mismatched lengths should panic")
		}
	}()
	NewXYZs([]float64{1}, nil, nil)
}
