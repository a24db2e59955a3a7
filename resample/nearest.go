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
)

// sourceHolder is a source location stored in a spatial index,
// together with its position in the source slice.
type sourceHolder struct {
	geom.Point
	i int
}

// pointIndex is a spatial index of the sources with finite
// coordinates.
type pointIndex struct {
	sources []SourcePoint
	tree    *rtree.Rtree
	bounds  *geom.Bounds
	n       int

	// step is the typical spacing between sources and is used as
	// the starting search radius.
	step float64
}

func newPointIndex(sources []SourcePoint) *pointIndex {
	idx := &pointIndex{
		sources: sources,
		tree:    rtree.NewTree(25, 50),
		bounds:  geom.NewBounds(),
	}
	for i, s := range sources {
		if !isFinite(s.X) || !isFinite(s.Y) {
			continue
		}
		h := &sourceHolder{Point: geom.Point{X: s.X, Y: s.Y}, i: i}
		idx.tree.Insert(h)
		idx.bounds.Extend(h.Bounds())
		idx.n++
	}
	if idx.n > 0 {
		area := (idx.bounds.Max.X - idx.bounds.Min.X) * (idx.bounds.Max.Y - idx.bounds.Min.Y)
		idx.step = math.Sqrt(area / float64(idx.n))
		if idx.step == 0 {
			idx.step = math.Max(idx.bounds.Max.X-idx.bounds.Min.X, idx.bounds.Max.Y-idx.bounds.Min.Y) / float64(idx.n)
		}
		if idx.step == 0 {
			idx.step = 1
		}
	}
	return idx
}

func squareAround(x, y, r float64) *geom.Bounds {
	return &geom.Bounds{
		Min: geom.Point{X: x - r, Y: y - r},
		Max: geom.Point{X: x + r, Y: y + r},
	}
}

// outsideDistance returns the distance from (x, y) to the bounding
// box of the sources, which is zero if the point is inside it.
func (idx *pointIndex) outsideDistance(x, y float64) float64 {
	dx := math.Max(0, math.Max(idx.bounds.Min.X-x, x-idx.bounds.Max.X))
	dy := math.Max(0, math.Max(idx.bounds.Min.Y-y, y-idx.bounds.Max.Y))
	return math.Hypot(dx, dy)
}

// closest returns the position in the source slice of the source
// nearest to (x, y) among those within the square of half-width r,
// and its squared distance. Ties go to the source that comes first.
func (idx *pointIndex) closest(x, y, r float64) (best int, bestD2 float64) {
	best, bestD2 = -1, math.Inf(1)
	for _, g := range idx.tree.SearchIntersect(squareAround(x, y, r)) {
		h := g.(*sourceHolder)
		dx, dy := h.X-x, h.Y-y
		d2 := dx*dx + dy*dy
		if d2 < bestD2 || (d2 == bestD2 && h.i < best) {
			best, bestD2 = h.i, d2
		}
	}
	return best, bestD2
}

// nearest returns the position in the source slice of the source
// closest to (x, y), or -1 if there are no usable sources or the
// point is not finite.
func (idx *pointIndex) nearest(x, y float64) int {
	if idx.n == 0 || !isFinite(x) || !isFinite(y) {
		return -1
	}
	r := idx.outsideDistance(x, y) + idx.step
	for iter := 0; iter < 64; iter++ {
		best, d2 := idx.closest(x, y, r)
		if best < 0 {
			r *= 2
			continue
		}
		// A closer source may lie outside the square but inside
		// the circle through the best candidate.
		if d := math.Sqrt(d2); d > r {
			best, _ = idx.closest(x, y, d*(1+1.0e-12))
		}
		return best
	}
	return -1
}

// within returns the positions in the source slice of the sources
// no farther than radius from (x, y), and their distances.
func (idx *pointIndex) within(x, y, radius float64) (is []int, ds []float64) {
	if idx.n == 0 || !isFinite(x) || !isFinite(y) {
		return nil, nil
	}
	for _, g := range idx.tree.SearchIntersect(squareAround(x, y, radius)) {
		h := g.(*sourceHolder)
		if d := math.Hypot(h.X-x, h.Y-y); d <= radius {
			is = append(is, h.i)
			ds = append(ds, d)
		}
	}
	return is, ds
}
