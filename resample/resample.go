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

// Package resample moves attribute values from scattered source points
// onto arbitrary query locations, such as grid cell centers or
// mesh vertices.
//
// Linear interpolation is carried out over a Delaunay triangulation
// of the sources. Queries outside the convex hull of the sources
// get NaN rather than an extrapolated value; use FillNearest or the
// Nearest method where full coverage is needed.
package resample

import (
	"fmt"
	"math"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// SourcePoint is a sample location and its attribute value.
type SourcePoint struct {
	X, Y, Value float64
}

// QueryPoint is a location to estimate a value at.
type QueryPoint struct {
	X, Y float64
}

// Method specifies an interpolation method.
type Method int

const (
	// Linear interpolates with barycentric weights within the
	// Delaunay triangle that contains the query.
	Linear Method = iota

	// Nearest takes the value of the closest source point.
	Nearest

	// Shepard takes the inverse-distance weighted average of the
	// source points within the search radius.
	Shepard
)

func (m Method) String() string {
	switch m {
	case Linear:
		return "linear"
	case Nearest:
		return "nearest"
	case Shepard:
		return "shepard"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod returns the method with the given name.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linear", "":
		return Linear, nil
	case "nearest":
		return Nearest, nil
	case "shepard", "idw":
		return Shepard, nil
	default:
		return 0, fmt.Errorf("resample: invalid method %q", s)
	}
}

// Options holds optional settings for a Resampler.
type Options struct {
	// Workers is the number of goroutines that queries are spread
	// across. Zero means runtime.GOMAXPROCS(0).
	Workers int

	// Radius is the search radius for the Shepard method.
	// Zero means twice the typical source spacing.
	Radius float64

	// Power is the inverse-distance exponent for the Shepard
	// method. Zero means 2.
	Power float64

	// Log receives warnings and debugging information.
	// The standard logrus logger is used if it is nil.
	Log logrus.FieldLogger
}

// Resampler interpolates values from a fixed set of source points.
// The spatial indexes it needs are created the first time they
// are used and are never modified afterwards, so a Resampler can
// be used from several goroutines at once.
type Resampler struct {
	sources []SourcePoint
	opts    Options

	triOnce sync.Once
	tri     *Triangulation

	nnOnce sync.Once
	nn     *pointIndex
}

// New returns a Resampler for sources. sources must not be modified
// while the Resampler is in use.
func New(sources []SourcePoint, opts Options) *Resampler {
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}
	return &Resampler{sources: sources, opts: opts}
}

// Resample interpolates sources at each of queries with the given
// method. The returned slice has the same length and order as
// queries. Values that cannot be estimated are NaN.
func Resample(sources []SourcePoint, queries []QueryPoint, method Method) []float64 {
	return New(sources, Options{}).Resample(queries, method)
}

// Triangulation returns the Delaunay triangulation of the sources.
func (r *Resampler) Triangulation() *Triangulation {
	r.triOnce.Do(func() {
		r.tri = Triangulate(r.sources)
		if r.tri.Degenerate() {
			r.opts.Log.WithField("sources", len(r.tri.Points)).Warn(
				"resample: fewer than 3 non-collinear source points; linear interpolation will return NaN")
			return
		}
		r.opts.Log.WithFields(logrus.Fields{
			"sources":   len(r.tri.Points),
			"triangles": len(r.tri.Triangles),
			"hull":      len(r.tri.Hull()),
		}).Debug("resample: triangulated sources")
	})
	return r.tri
}

func (r *Resampler) index() *pointIndex {
	r.nnOnce.Do(func() {
		r.nn = newPointIndex(r.sources)
	})
	return r.nn
}

// At returns the interpolated value at a single query location.
func (r *Resampler) At(q QueryPoint, method Method) float64 {
	switch method {
	case Linear:
		return r.Triangulation().Interpolate(q.X, q.Y)
	case Nearest:
		i := r.index().nearest(q.X, q.Y)
		if i < 0 {
			return math.NaN()
		}
		return r.sources[i].Value
	case Shepard:
		return r.shepard(q)
	default:
		panic(fmt.Errorf("resample: invalid method %v", method))
	}
}

func (r *Resampler) shepard(q QueryPoint) float64 {
	idx := r.index()
	radius := r.opts.Radius
	if radius <= 0 {
		radius = 2 * idx.step
	}
	power := r.opts.Power
	if power == 0 {
		power = 2
	}
	is, ds := idx.within(q.X, q.Y, radius)
	if len(is) == 0 {
		return math.NaN()
	}
	order := make([]int, len(is))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return is[order[a]] < is[order[b]] })

	var sum, wsum float64
	for _, k := range order {
		if ds[k] == 0 {
			return r.sources[is[k]].Value
		}
		w := 1 / math.Pow(ds[k], power)
		sum += w * r.sources[is[k]].Value
		wsum += w
	}
	return sum / wsum
}

func (r *Resampler) workers(n int) int {
	w := r.opts.Workers
	if w <= 0 {
		w = runtime.GOMAXPROCS(0)
	}
	if w > n {
		w = n
	}
	return w
}

// prepare builds the index needed by method before the
// workers start. It panics if method is not valid.
func (r *Resampler) prepare(method Method) {
	switch method {
	case Linear:
		r.Triangulation()
	case Nearest, Shepard:
		r.index()
	default:
		panic(fmt.Errorf("resample: invalid method %v", method))
	}
}

// Resample interpolates the sources at each of queries. The returned
// slice has the same length and order as queries. It panics if method
// is not valid.
func (r *Resampler) Resample(queries []QueryPoint, method Method) []float64 {
	r.prepare(method)
	o := make([]float64, len(queries))
	if len(queries) == 0 {
		return o
	}
	nprocs := r.workers(len(queries))
	r.opts.Log.WithFields(logrus.Fields{
		"sources": len(r.sources),
		"queries": len(queries),
		"method":  method,
		"workers": nprocs,
	}).Debug("resample: interpolating")

	var wg sync.WaitGroup
	wg.Add(nprocs)
	for p := 0; p < nprocs; p++ {
		go func(p int) {
			defer wg.Done()
			for i := p; i < len(queries); i += nprocs {
				o[i] = r.At(queries[i], method)
			}
		}(p)
	}
	wg.Wait()
	return o
}

// FillNearest replaces each NaN in values, which correspond to
// queries, with the value of the nearest source point.
// It returns the number of values that were replaced.
func (r *Resampler) FillNearest(queries []QueryPoint, values []float64) int {
	if len(queries) != len(values) {
		panic(fmt.Errorf("resample: %d queries but %d values", len(queries), len(values)))
	}
	var n int
	for i, v := range values {
		if !math.IsNaN(v) {
			continue
		}
		if j := r.index().nearest(queries[i].X, queries[i].Y); j >= 0 {
			values[i] = r.sources[j].Value
			n++
		}
	}
	return n
}
