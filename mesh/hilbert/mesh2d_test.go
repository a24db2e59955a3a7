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

package hilbert

import (
	"testing"

	"github.com/golang/geo/s2"

	"github.com/spatialmodel/griddata/mesh"
)

func TestMesh2D(t *testing.T) {
	b := RectFromDegrees(-100, 40, -99.5, 40.5)
	m := NewMesh2D(b, 10)
	if m.Len() == 0 {
		t.Fatal("no cells")
	}
	if m.Dims() != 2 {
		t.Errorf("dims %d != 2", m.Dims())
	}
	// The covering is slightly larger than the rectangle.
	for i, c := range mesh.Centroids(m) {
		if c.X < -100.2 || c.X > -99.3 || c.Y < 39.8 || c.Y > 40.7 {
			t.Errorf("centroid %d (%v) is too far from the bounds", i, c)
		}
	}

	var boundary int
	for i := 0; i < m.Faces(); i++ {
		f := m.Face(i)
		if f.Lesser() == nil && f.Greater() == nil {
			t.Fatalf("face %d has no cells", i)
		}
		if f.Lesser() == nil || f.Greater() == nil {
			boundary++
		}
	}
	if boundary == 0 {
		t.Error("there should be faces on the edge of the mesh")
	}
	// Every cell edge is either shared by two cells or on the boundary.
	if shared := m.Faces() - boundary; 2*shared+boundary != 4*m.Len() {
		t.Errorf("%d shared and %d boundary faces for %d cells", shared, boundary, m.Len())
	}

	area := mesh.TotalMeasure(m)
	if area < 1.0e9 || area > 1.0e10 {
		t.Errorf("area %g m² is not near the area of the bounds", area)
	}
}

func TestMesh2DPlot(t *testing.T) {
	m := NewMesh2D(RectFromDegrees(10, 10, 10.2, 10.2), 11)
	p := s2.NewPlateCarreeProjection(180)
	cells := m.PlotCells(p)
	if len(cells) != m.Len() {
		t.Fatalf("%d cell outlines; want %d", len(cells), m.Len())
	}
	for i, c := range cells {
		if c.Len() < 4 {
			t.Errorf("cell %d outline has %d points", i, c.Len())
		}
	}
}
