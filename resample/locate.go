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

package resample

import (
	"math"
	"sort"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
	"github.com/ctessum/geom/proj"
)

// baryTolerance is how far below zero a barycentric weight may
// fall for a point on a shared edge to still count as inside.
const baryTolerance = 1.0e-12

// triHolder holds the bounds of a triangle for
// storage in a spatial index.
type triHolder struct {
	i int
	b geom.Bounds
}

func (t *triHolder) Bounds() *geom.Bounds { return &t.b }
func (t *triHolder) Len() int             { return 2 }

// Points returns the corners of the triangle's bounding box.
func (t *triHolder) Points() func() geom.Point {
	i := 0
	return func() geom.Point {
		i++
		if i == 1 {
			return t.b.Min
		}
		return t.b.Max
	}
}

func (t *triHolder) Similar(geom.Geom, float64) bool { panic("not implemented") }
func (t *triHolder) Transform(proj.Transformer) (geom.Geom, error) { panic("not implemented") }

var _ geom.Geom = &triHolder{}

func (t *Triangulation) buildIndex() {
	t.index = rtree.NewTree(25, 50)
	if len(t.Triangles) == 0 {
		return
	}
	b := geom.NewBounds()
	for _, p := range t.Points {
		b.Extend(p.Bounds())
	}
	t.eps = math.Max(b.Max.X-b.Min.X, b.Max.Y-b.Min.Y) * 1.0e-12

	for i, tri := range t.Triangles {
		h := &triHolder{i: i, b: *geom.NewBounds()}
		for _, v := range tri {
			h.b.Extend(t.Points[v].Bounds())
		}
		t.index.Insert(h)
	}
}

// Locate finds the triangle containing the point (x, y) and returns
// its index in Triangles together with the barycentric weights of
// its three vertices. ok is false if the point is outside the
// convex hull or the triangulation is degenerate. When the point
// is on an edge shared by several triangles, the one with the
// lowest index is returned.
func (t *Triangulation) Locate(x, y float64) (tri int, w [3]float64, ok bool) {
	if len(t.Triangles) == 0 || !isFinite(x) || !isFinite(y) {
		return -1, w, false
	}
	search := &geom.Bounds{
		Min: geom.Point{X: x - t.eps, Y: y - t.eps},
		Max: geom.Point{X: x + t.eps, Y: y + t.eps},
	}
	found := t.index.SearchIntersect(search)
	candidates := make([]int, len(found))
	for i, f := range found {
		candidates[i] = f.(*triHolder).i
	}
	sort.Ints(candidates)
	for _, i := range candidates {
		if w, ok := t.barycentric(i, x, y); ok {
			return i, w, true
		}
	}
	return -1, w, false
}

// barycentric returns the barycentric weights of (x, y) with respect
// to triangle i, and whether the point is within the triangle.
func (t *Triangulation) barycentric(i int, x, y float64) (w [3]float64, ok bool) {
	tri := t.Triangles[i]
	p1, p2, p3 := t.Points[tri[0]], t.Points[tri[1]], t.Points[tri[2]]
	den := (p2.Y-p3.Y)*(p1.X-p3.X) + (p3.X-p2.X)*(p1.Y-p3.Y)
	if den == 0 {
		return w, false
	}
	w[0] = ((p2.Y-p3.Y)*(x-p3.X) + (p3.X-p2.X)*(y-p3.Y)) / den
	w[1] = ((p3.Y-p1.Y)*(x-p3.X) + (p1.X-p3.X)*(y-p3.Y)) / den
	w[2] = 1 - w[0] - w[1]
	ok = w[0] >= -baryTolerance && w[1] >= -baryTolerance && w[2] >= -baryTolerance
	return w, ok
}

// Interpolate returns the linearly interpolated value at (x, y),
// or NaN if the point is outside the convex hull of the points.
// A point that coincides with a vertex gets that vertex's value.
func (t *Triangulation) Interpolate(x, y float64) float64 {
	i, w, ok := t.Locate(x, y)
	if !ok {
		return math.NaN()
	}
	tri := t.Triangles[i]
	for _, v := range tri {
		if p := t.Points[v]; p.X == x && p.Y == y {
			return t.Values[v]
		}
	}
	return w[0]*t.Values[tri[0]] + w[1]*t.Values[tri[1]] + w[2]*t.Values[tri[2]]
}
