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

// Package tin provides a triangulated irregular network mesh whose
// cells are the Delaunay triangles of a set of scattered points.
package tin

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	goshp "github.com/jonas-p/go-shp"

	"github.com/spatialmodel/griddata/mesh"
	"github.com/spatialmodel/griddata/plot"
	"github.com/spatialmodel/griddata/resample"
)

// Make sure our mesh fulfills the interface.
var _ mesh.FaceMesh = &Mesh{}

// Mesh is a triangulated irregular network.
type Mesh struct {
	tri   *resample.Triangulation
	faces []*edge
}

// New returns a mesh with one cell for each triangle in tri.
func New(tri *resample.Triangulation) *Mesh {
	m := &Mesh{tri: tri}
	m.build()
	return m
}

// FromSources triangulates the given source points and returns
// the resulting mesh.
func FromSources(sources []resample.SourcePoint) *Mesh {
	return New(resample.Triangulate(sources))
}

// build creates the mesh faces. Each edge shared by two triangles
// is stored once, with the lower-numbered triangle on its lesser side.
func (m *Mesh) build() {
	type key struct{ a, b int }
	index := make(map[key]*edge)
	for i, t := range m.tri.Triangles {
		for k := 0; k < 3; k++ {
			a, b := t[k], t[(k+1)%3]
			kk := key{a, b}
			if b < a {
				kk = key{b, a}
			}
			if e, ok := index[kk]; ok {
				e.greater = i
				continue
			}
			e := &edge{m: m, v0: a, v1: b, lesser: i, greater: -1}
			index[kk] = e
			m.faces = append(m.faces, e)
		}
	}
}

// Dims returns that this mesh is 2D.
func (m *Mesh) Dims() int { return 2 }

// Len returns the number of triangles in the mesh.
func (m *Mesh) Len() int { return len(m.tri.Triangles) }

// Cell returns the triangle at index i.
func (m *Mesh) Cell(i int) mesh.Cell { return &cell{m: m, i: i} }

// Faces returns the number of distinct triangle edges.
func (m *Mesh) Faces() int { return len(m.faces) }

// Face returns the edge at index i.
func (m *Mesh) Face(i int) mesh.Face { return m.faces[i] }

// Triangulation returns the triangulation the mesh was created from.
func (m *Mesh) Triangulation() *resample.Triangulation { return m.tri }

type cell struct {
	m *Mesh
	i int
}

func (c *cell) point(j int) geom.Point {
	return c.m.tri.Points[c.m.tri.Triangles[c.i][j]]
}

// Centroid returns the center of mass of the triangle.
func (c *cell) Centroid() mesh.Point {
	a, b, d := c.point(0), c.point(1), c.point(2)
	return mesh.XY{X: (a.X + b.X + d.X) / 3, Y: (a.Y + b.Y + d.Y) / 3}
}

func (c *cell) Points() int { return 3 }

func (c *cell) Point(j int) mesh.Point {
	p := c.point(j)
	return mesh.XY{X: p.X, Y: p.Y}
}

// Measure returns the area of the triangle.
func (c *cell) Measure() float64 {
	a, b, d := c.point(0), c.point(1), c.point(2)
	return math.Abs((b.X-a.X)*(d.Y-a.Y)-(b.Y-a.Y)*(d.X-a.X)) / 2
}

// Polygon returns the triangle as a closed polygon.
func (c *cell) Polygon() geom.Polygon {
	return geom.Polygon{{c.point(0), c.point(1), c.point(2), c.point(0)}}
}

type edge struct {
	m               *Mesh
	v0, v1          int
	lesser, greater int
}

func (e *edge) Points() int { return 2 }

func (e *edge) Point(i int) mesh.Point {
	v := e.v0
	if i == 1 {
		v = e.v1
	}
	p := e.m.tri.Points[v]
	return mesh.XY{X: p.X, Y: p.Y}
}

// Lesser returns the lower-numbered triangle that shares the edge.
func (e *edge) Lesser() mesh.Cell { return e.m.Cell(e.lesser) }

// Greater returns the other triangle that shares the edge, or nil
// if the edge is on the convex hull.
func (e *edge) Greater() mesh.Cell {
	if e.greater < 0 {
		return nil
	}
	return e.m.Cell(e.greater)
}

// WriteToShp writes the triangles of the mesh to the shapefile at
// path, with a "cell" field holding the triangle index and one
// field for each of the given named value arrays, which must each
// have one value per triangle.
func (m *Mesh) WriteToShp(path string, names []string, values ...[]float64) error {
	if len(names) != len(values) {
		panic(fmt.Errorf("tin: %d field names but %d value arrays", len(names), len(values)))
	}
	for i, v := range values {
		if len(v) != m.Len() {
			return fmt.Errorf("tin: field %s has %d values; the mesh has %d cells", names[i], len(v), m.Len())
		}
	}
	base := strings.TrimSuffix(path, filepath.Ext(path))
	for _, ext := range []string{".shp", ".prj", ".dbf", ".shx"} {
		os.Remove(base + ext)
	}
	fields := make([]goshp.Field, len(names)+1)
	fields[0] = goshp.NumberField("cell", 10)
	for i, n := range names {
		fields[i+1] = goshp.FloatField(n, 20, 8)
	}
	shpf, err := shp.NewEncoderFromFields(base+".shp", goshp.POLYGON, fields...)
	if err != nil {
		return fmt.Errorf("tin: %v", err)
	}
	data := make([]interface{}, len(fields))
	for i := 0; i < m.Len(); i++ {
		data[0] = i
		for j, v := range values {
			data[j+1] = v[i]
		}
		if err = shpf.EncodeFields(m.Cell(i).(*cell).Polygon(), data...); err != nil {
			return fmt.Errorf("tin: %v", err)
		}
	}
	shpf.Close()
	return nil
}

// PlotCells returns the outlines of the triangles for plotting.
func (m *Mesh) PlotCells() []plot.XYs {
	o := make([]plot.XYs, m.Len())
	for i := range o {
		c := &cell{m: m, i: i}
		xy := make(plot.XYs, 4)
		for j := range xy {
			p := c.point(j % 3)
			xy[j] = plot.XY{X: p.X, Y: p.Y}
		}
		o[i] = xy
	}
	return o
}
