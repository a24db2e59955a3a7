/*
Copyright © 2020 the griddata authors.
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

// Package hilbert provides a quasi-rectangular geographic mesh made of
// S2 cells, which are ordered along a Hilbert curve. Cell locations
// are in degrees, with longitude as X and latitude as Y.
package hilbert

import (
	"github.com/spatialmodel/griddata/mesh"
	"github.com/spatialmodel/griddata/plot"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/s2"
)

// EarthRadius is the radius of the Earth at the equator.
const EarthRadius = 6.3781e6 // meters

// Make sure our mesh fulfills the interface.
var _ mesh.FaceMesh = &Mesh2D{}

// Mesh2D represents a 2D quasi-rectangular mesh.
type Mesh2D struct {
	cells []s2.CellID
	faces []*face1D
	index map[s2.CellID]int
}

// RectFromDegrees returns the latitude-longitude rectangle with
// the given corners.
func RectFromDegrees(minLng, minLat, maxLng, maxLat float64) s2.Rect {
	r := s2.RectFromLatLng(s2.LatLngFromDegrees(minLat, minLng))
	return r.AddPoint(s2.LatLngFromDegrees(maxLat, maxLng))
}

// NewMesh2D returns a new 2D mesh at the specified resolution level,
// approximately covering the area specified by b.
// Information regarding resolution levels is available at
// https://s2geometry.io/resources/s2cell_statistics.html.
func NewMesh2D(b s2.Rect, level int) *Mesh2D {
	rc := &s2.RegionCoverer{
		MinLevel: level,
		MaxLevel: level,
		MaxCells: 1 << 30,
	}
	m := &Mesh2D{
		cells: rc.Covering(b),
	}
	m.build()
	return m
}

// cellEdges lists, for each S2 edge neighbor direction (down, right,
// up, left), the cell vertices at the ends of the shared edge and
// whether the neighbor is on the lesser side.
var cellEdges = [4]struct {
	v0, v1        int
	neighborLower bool
}{
	{0, 1, true},
	{1, 2, false},
	{2, 3, false},
	{3, 0, true},
}

// build indexes the cells and creates one face for each cell edge.
// Edges between two mesh cells are only created once; edges on the
// outside of the mesh reference a neighbor that is not in the index.
func (m *Mesh2D) build() {
	m.index = make(map[s2.CellID]int, len(m.cells))
	for i, c := range m.cells {
		m.index[c] = i
	}
	m.faces = m.faces[:0]

	for i, c := range m.cells {
		cell := s2.CellFromCellID(c)
		for k, nbc := range c.EdgeNeighbors() {
			if j, inside := m.index[nbc]; inside && j < i {
				continue // already added from the other side
			}
			ce := cellEdges[k]
			f := &face1D{
				Edge:    s2.Edge{V0: cell.Vertex(ce.v0), V1: cell.Vertex(ce.v1)},
				lesser:  c,
				greater: nbc,
				m:       m,
			}
			if ce.neighborLower {
				f.lesser, f.greater = nbc, c
			}
			m.faces = append(m.faces, f)
		}
	}
}

// Dims returns that this mesh is 2D.
func (m *Mesh2D) Dims() int { return 2 }

// Len returns the number of cells in this mesh.
func (m *Mesh2D) Len() int { return len(m.cells) }

// Cell returns the cell at the given index (where i < Len())
func (m *Mesh2D) Cell(i int) mesh.Cell { return cell2D(m.cells[i]) }

// Faces returns the total number of faces in the mesh
func (m *Mesh2D) Faces() int { return len(m.faces) }

// Face returns the face at the given index, where i < Faces().
// The face has 1 dimension.
func (m *Mesh2D) Face(i int) mesh.Face { return m.faces[i] }


type cell2D s2.CellID

func degrees(p s2.Point) mesh.XY {
	ll := s2.LatLngFromPoint(p)
	return mesh.XY{X: ll.Lng.Degrees(), Y: ll.Lat.Degrees()}
}

// Centroid returns the center of the cell in degrees.
func (c cell2D) Centroid() mesh.Point {
	return degrees(s2.CellFromCellID(s2.CellID(c)).Center())
}

// Points returns the number of cell vertices, which is 4.
func (c cell2D) Points() int { return 4 }

// Point returns vertex i of the cell in degrees, counter-clockwise
// from the lower left.
func (c cell2D) Point(i int) mesh.Point {
	return degrees(s2.CellFromCellID(s2.CellID(c)).Vertex(i))
}

// Measure returns the area of the cell in square meters.
func (c cell2D) Measure() float64 {
	return s2.CellFromCellID(s2.CellID(c)).ApproxArea() * EarthRadius * EarthRadius
}

type face1D struct {
	s2.Edge
	lesser, greater s2.CellID
	m               *Mesh2D
}

// Points returns the number of end points of the face, which is 2.
func (f *face1D) Points() int { return 2 }

// Point returns end point i of the face in degrees.
func (f *face1D) Point(i int) mesh.Point {
	if i == 0 {
		return degrees(f.Edge.V0)
	}
	return degrees(f.Edge.V1)
}

func (f *face1D) cell(id s2.CellID) mesh.Cell {
	if _, ok := f.m.index[id]; !ok {
		return nil
	}
	return cell2D(id)
}

// Lesser returns the cell that is on the lesser side
// of this face (the side that has a lower value in whatever
// coordinate system is being used).
func (f *face1D) Lesser() mesh.Cell { return f.cell(f.lesser) }

// Greater returns the cell that is
// on the greater side of this face.
func (f *face1D) Greater() mesh.Cell { return f.cell(f.greater) }

// PlotCells returns the outlines of the mesh cells under projection p.
func (m *Mesh2D) PlotCells(p s2.Projection) []plot.XYs {
	return plotCells(p, m.cells)
}

// tessellate projects the closed loop through pts, adding points where
// needed so that geodesic edges stay curved after projection.
func tessellate(e *s2.EdgeTessellator, pts ...s2.Point) plot.XYs {
	var v []r2.Point
	for i := 0; i+1 < len(pts); i++ {
		v = e.AppendProjected(pts[i], pts[i+1], v)
	}
	if len(pts) > 2 {
		v = e.AppendProjected(pts[len(pts)-1], pts[0], v)
	}
	o := make(plot.XYs, len(v))
	for i, vi := range v {
		o[i] = plot.XY{X: vi.X, Y: vi.Y}
	}
	return o
}

func plotCells(p s2.Projection, cells []s2.CellID) []plot.XYs {
	e := s2.NewEdgeTessellator(p, 1.0e-5)
	o := make([]plot.XYs, len(cells))
	for i, c := range cells {
		o[i] = tessellate(e, s2.LoopFromCell(s2.CellFromCellID(c)).Vertices()...)
	}
	return o
}
