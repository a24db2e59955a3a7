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

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
	"github.com/fogleman/delaunay"
)

// Triangulation is a Delaunay triangulation of the (x, y) projection
// of a set of source points. It is read-only once created and
// can be shared among goroutines.
type Triangulation struct {
	// Points are the unique, finite source locations, in the order
	// they appear in the sources.
	Points []geom.Point

	// Values holds the attribute value of each point in Points.
	Values []float64

	// Source holds the index in the source slice of each point
	// in Points.
	Source []int

	// Triangles holds the indices into Points of the vertices
	// of each triangle, in counter-clockwise order.
	Triangles [][3]int

	hull  []int
	index *rtree.Rtree
	eps   float64
}

// Triangulate creates a Delaunay triangulation of sources.
// Sources with non-finite coordinates are ignored. When more than
// one source shares the same location, the one that comes first
// in sources is kept.
// If fewer than three non-collinear sources remain, the returned
// triangulation has no triangles; see Degenerate.
func Triangulate(sources []SourcePoint) *Triangulation {
	t := new(Triangulation)
	seen := make(map[geom.Point]bool, len(sources))
	for i, s := range sources {
		if !isFinite(s.X) || !isFinite(s.Y) {
			continue
		}
		p := geom.Point{X: s.X, Y: s.Y}
		if seen[p] {
			continue // duplicate location
		}
		seen[p] = true
		t.Points = append(t.Points, p)
		t.Values = append(t.Values, s.Value)
		t.Source = append(t.Source, i)
	}

	if len(t.Points) >= 3 {
		pts := make([]delaunay.Point, len(t.Points))
		for i, p := range t.Points {
			pts[i] = delaunay.Point{X: p.X, Y: p.Y}
		}
		// An error means all of the points are collinear, which
		// leaves the triangulation degenerate.
		if d, err := delaunay.Triangulate(pts); err == nil {
			t.fromHalfedges(d.Triangles, d.Halfedges)
		}
	}
	t.buildIndex()
	return t
}

// fromHalfedges fills in the triangles and the hull from a
// half-edge triangle list, in which triangle k is made of half-edges
// 3k, 3k+1 and 3k+2 and edges with no twin are on the hull.
// All triangles in the list share one orientation, which is turned
// counter-clockwise here. Triangles with no area are dropped.
func (t *Triangulation) fromHalfedges(tris, halfedges []int) {
	flip := false
	for k := 0; k+2 < len(tris); k += 3 {
		if o := orient(t.Points[tris[k]], t.Points[tris[k+1]], t.Points[tris[k+2]]); o != 0 {
			flip = o < 0
			break
		}
	}
	for k := 0; k+2 < len(tris); k += 3 {
		tr := [3]int{tris[k], tris[k+1], tris[k+2]}
		if flip {
			tr[1], tr[2] = tr[2], tr[1]
		}
		if orient(t.Points[tr[0]], t.Points[tr[1]], t.Points[tr[2]]) <= 0 {
			continue
		}
		t.Triangles = append(t.Triangles, tr)
	}
	if len(t.Triangles) == 0 {
		return
	}

	next := make(map[int]int)
	start := -1
	for e, twin := range halfedges {
		if twin >= 0 {
			continue
		}
		a, b := tris[e], tris[nextHalfedge(e)]
		if flip {
			a, b = b, a
		}
		next[a] = b
		if start < 0 {
			start = a
		}
	}
	for v := start; ; {
		t.hull = append(t.hull, v)
		nv, ok := next[v]
		if !ok || nv == start || len(t.hull) > len(next) {
			break
		}
		v = nv
	}
}

func nextHalfedge(e int) int {
	if e%3 == 2 {
		return e - 2
	}
	return e + 1
}

// Degenerate reports whether the triangulation has no triangles,
// which happens when there are fewer than three non-collinear
// source points.
func (t *Triangulation) Degenerate() bool { return len(t.Triangles) == 0 }

// Hull returns the indices into Points of the convex hull vertices
// in counter-clockwise order. Vertices lying on a straight
// stretch of the hull may be included.
func (t *Triangulation) Hull() []int {
	o := make([]int, len(t.hull))
	copy(o, t.hull)
	return o
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// orient returns twice the signed area of triangle abc; it is
// positive when abc are in counter-clockwise order.
func orient(a, b, c geom.Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}
