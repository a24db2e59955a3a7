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
	"fmt"
	"math"
	"math/rand"
	"reflect"
	"testing"
)

func TestResampleTriangle(t *testing.T) {
	sources := []SourcePoint{{0, 0, 0}, {10, 0, 0}, {0, 10, 10}}
	tests := []struct {
		q    QueryPoint
		want float64
	}{
		{q: QueryPoint{0, 0}, want: 0},
		{q: QueryPoint{10, 0}, want: 0},
		{q: QueryPoint{0, 10}, want: 10},
		// The plane through the sources is z = y.
		{q: QueryPoint{3, 3}, want: 3},
		{q: QueryPoint{5, 5}, want: 5},
		{q: QueryPoint{100, 100}, want: math.NaN()},
		{q: QueryPoint{-1, 5}, want: math.NaN()},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%v", test.q), func(t *testing.T) {
			v := Resample(sources, []QueryPoint{test.q}, Linear)
			if len(v) != 1 {
				t.Fatalf("length %d != 1", len(v))
			}
			if math.IsNaN(test.want) {
				if !math.IsNaN(v[0]) {
					t.Errorf("%g should be NaN", v[0])
				}
				return
			}
			if different(v[0], test.want, 1.0e-12) {
				t.Errorf("%g != %g", v[0], test.want)
			}
		})
	}
}

func TestResampleDegenerate(t *testing.T) {
	queries := []QueryPoint{{0, 0}, {0.5, 0}, {1, 0}, {5, 5}}
	tests := []struct {
		name    string
		sources []SourcePoint
	}{
		{name: "empty"},
		{name: "one", sources: []SourcePoint{{0, 0, 1}}},
		{name: "two", sources: []SourcePoint{{0, 0, 1}, {1, 0, 1}}},
		{name: "collinear", sources: []SourcePoint{{0, 0, 1}, {1, 0, 1}, {2, 0, 3}, {3, 0, 1}}},
		{name: "duplicates", sources: []SourcePoint{{0, 0, 1}, {0, 0, 2}, {1, 1, 1}, {1, 1, 5}}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			v := Resample(test.sources, queries, Linear)
			if len(v) != len(queries) {
				t.Fatalf("length %d != %d", len(v), len(queries))
			}
			for i, vv := range v {
				if !math.IsNaN(vv) {
					t.Errorf("query %d: %g should be NaN", i, vv)
				}
			}
		})
	}
}

func TestResampleEmptyQueries(t *testing.T) {
	sources := []SourcePoint{{0, 0, 0}, {10, 0, 0}, {0, 10, 10}}
	for _, m := range []Method{Linear, Nearest, Shepard} {
		v := Resample(sources, nil, m)
		if v == nil || len(v) != 0 {
			t.Errorf("%v: %v should be empty", m, v)
		}
	}
}

func TestResampleInvalidMethod(t *testing.T) {
	sources := []SourcePoint{{0, 0, 0}, {10, 0, 0}, {0, 10, 10}}
	for _, queries := range [][]QueryPoint{nil, {{1, 1}, {2, 2}, {3, 3}}} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("%d queries: expected a panic for an invalid method", len(queries))
				}
			}()
			New(sources, Options{Workers: 2}).Resample(queries, Method(99))
		}()
	}
}

func TestNearest(t *testing.T) {
	sources := []SourcePoint{{0, 0, 1}, {10, 0, 2}, {0, 10, 3}, {10, 10, 4}}
	queries := []QueryPoint{
		{1, 1},
		{9, 1},
		{100, 100},
		{-50, 9},
		{5, 0},  // tie between the first two sources
		{5, 5},  // tie between all four
		{0, 10}, // coincident
	}
	want := []float64{1, 2, 4, 3, 1, 1, 3}
	have := Resample(sources, queries, Nearest)
	if !reflect.DeepEqual(have, want) {
		t.Errorf("%v != %v", have, want)
	}
}

func TestNearestDuplicates(t *testing.T) {
	sources := []SourcePoint{{1, 1, 7}, {0, 0, 5}, {1, 1, 8}}
	have := Resample(sources, []QueryPoint{{2, 2}, {1, 1}}, Nearest)
	want := []float64{7, 7}
	if !reflect.DeepEqual(have, want) {
		t.Errorf("%v != %v", have, want)
	}
}

func TestLinearDuplicates(t *testing.T) {
	sources := []SourcePoint{{0, 0, 1}, {10, 0, 2}, {0, 10, 3}, {0, 0, 100}}
	have := Resample(sources, []QueryPoint{{0, 0}}, Linear)
	if have[0] != 1 {
		t.Errorf("%g != 1", have[0])
	}
}

func TestNonFinite(t *testing.T) {
	sources := []SourcePoint{
		{0, 0, 0}, {10, 0, 0}, {0, 10, 10}, {10, 10, math.NaN()},
		{math.NaN(), 5, 100}, {math.Inf(1), 0, 100},
	}
	queries := []QueryPoint{
		{1, 1},            // in the triangle without the NaN value
		{9, 9},            // touches the NaN value
		{math.NaN(), 1},   // bad query
		{5, math.Inf(-1)}, // bad query
		{0, 10},           // coincident with a good source
	}
	r := New(sources, Options{})
	lin := r.Resample(queries, Linear)
	if different(lin[0], 1, 1.0e-12) {
		t.Errorf("lin[0] = %g", lin[0])
	}
	for _, i := range []int{1, 2, 3} {
		if !math.IsNaN(lin[i]) {
			t.Errorf("lin[%d] = %g should be NaN", i, lin[i])
		}
	}
	if lin[4] != 10 {
		t.Errorf("lin[4] = %g", lin[4])
	}

	nn := r.Resample(queries, Nearest)
	if nn[0] != 0 || !math.IsNaN(nn[1]) || !math.IsNaN(nn[2]) || !math.IsNaN(nn[3]) || nn[4] != 10 {
		t.Errorf("nearest: %v", nn)
	}
}

func randomSources(rnd *rand.Rand, n int) []SourcePoint {
	s := make([]SourcePoint, n)
	for i := range s {
		s[i] = SourcePoint{
			X:     rnd.Float64() * 100,
			Y:     rnd.Float64() * 50,
			Value: rnd.Float64()*20 - 10,
		}
	}
	return s
}

func TestCoincidentQueries(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	sources := randomSources(rnd, 300)
	queries := make([]QueryPoint, len(sources))
	for i, s := range sources {
		queries[i] = QueryPoint{s.X, s.Y}
	}
	for _, m := range []Method{Linear, Nearest, Shepard} {
		v := Resample(sources, queries, m)
		for i, s := range sources {
			if v[i] != s.Value {
				t.Errorf("%v: query %d: %g != %g", m, i, v[i], s.Value)
			}
		}
	}
}

func TestBounded(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))
	sources := randomSources(rnd, 200)
	tri := Triangulate(sources)
	for i, tr := range tri.Triangles {
		a, b, c := tri.Points[tr[0]], tri.Points[tr[1]], tri.Points[tr[2]]
		// An interior point: the centroid.
		x, y := (a.X+b.X+c.X)/3, (a.Y+b.Y+c.Y)/3
		v := tri.Interpolate(x, y)
		lo := math.Min(tri.Values[tr[0]], math.Min(tri.Values[tr[1]], tri.Values[tr[2]]))
		hi := math.Max(tri.Values[tr[0]], math.Max(tri.Values[tr[1]], tri.Values[tr[2]]))
		if !(v > lo && v < hi) {
			t.Errorf("triangle %d: %g not in (%g, %g)", i, v, lo, hi)
		}
	}
}

func TestAffineExact(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	sources := randomSources(rnd, 100)
	f := func(x, y float64) float64 { return 2*x - 3*y + 7 }
	for i := range sources {
		sources[i].Value = f(sources[i].X, sources[i].Y)
	}
	queries := make([]QueryPoint, 500)
	for i := range queries {
		queries[i] = QueryPoint{rnd.Float64() * 100, rnd.Float64() * 50}
	}
	v := Resample(sources, queries, Linear)
	for i, q := range queries {
		if math.IsNaN(v[i]) {
			continue // outside the hull
		}
		if different(v[i], f(q.X, q.Y), 1.0e-9) {
			t.Errorf("query %d: %g != %g", i, v[i], f(q.X, q.Y))
		}
	}
}

func TestOutsideHull(t *testing.T) {
	rnd := rand.New(rand.NewSource(4))
	sources := randomSources(rnd, 50)
	queries := []QueryPoint{{-10, 25}, {110, 25}, {50, -10}, {50, 60}, {-1e6, 1e6}}
	lin := Resample(sources, queries, Linear)
	nn := Resample(sources, queries, Nearest)
	for i, q := range queries {
		if !math.IsNaN(lin[i]) {
			t.Errorf("linear %v: %g should be NaN", q, lin[i])
		}
		want := bruteNearest(sources, q)
		if nn[i] != want {
			t.Errorf("nearest %v: %g != %g", q, nn[i], want)
		}
	}
}

func bruteNearest(sources []SourcePoint, q QueryPoint) float64 {
	best, bestD := -1, math.Inf(1)
	for i, s := range sources {
		d := math.Hypot(s.X-q.X, s.Y-q.Y)
		if d < bestD {
			best, bestD = i, d
		}
	}
	return sources[best].Value
}

func TestNearestRandom(t *testing.T) {
	rnd := rand.New(rand.NewSource(5))
	sources := randomSources(rnd, 500)
	queries := make([]QueryPoint, 1000)
	for i := range queries {
		queries[i] = QueryPoint{rnd.Float64()*300 - 100, rnd.Float64()*150 - 50}
	}
	v := Resample(sources, queries, Nearest)
	for i, q := range queries {
		if want := bruteNearest(sources, q); v[i] != want {
			t.Errorf("query %d: %g != %g", i, v[i], want)
		}
	}
}

func TestIdempotentAndOrdered(t *testing.T) {
	rnd := rand.New(rand.NewSource(6))
	sources := randomSources(rnd, 400)
	queries := make([]QueryPoint, 2000)
	for i := range queries {
		queries[i] = QueryPoint{rnd.Float64() * 100, rnd.Float64() * 50}
	}
	serial := New(sources, Options{Workers: 1})
	parallel := New(sources, Options{Workers: 7})
	for _, m := range []Method{Linear, Nearest, Shepard} {
		a := serial.Resample(queries, m)
		b := parallel.Resample(queries, m)
		c := parallel.Resample(queries, m)
		if len(a) != len(queries) {
			t.Fatalf("%v: length %d != %d", m, len(a), len(queries))
		}
		for i := range a {
			if !same(a[i], b[i]) || !same(b[i], c[i]) {
				t.Fatalf("%v: query %d: %g, %g, %g", m, i, a[i], b[i], c[i])
			}
			// Each result must match evaluating that query on its own.
			if i%97 == 0 {
				if single := serial.At(queries[i], m); !same(single, a[i]) {
					t.Errorf("%v: query %d: %g != %g", m, i, single, a[i])
				}
			}
		}
	}
}

func TestShepard(t *testing.T) {
	sources := []SourcePoint{{0, 0, 0}, {2, 0, 10}, {100, 100, 1000}}
	r := New(sources, Options{Radius: 5})
	v := r.Resample([]QueryPoint{{1, 0}, {0.5, 0}, {50, 50}, {2, 0}}, Shepard)
	if different(v[0], 5, 1.0e-12) {
		t.Errorf("midpoint: %g != 5", v[0])
	}
	// weights 1/0.25 and 1/2.25
	want := (10 / 2.25) / (1/0.25 + 1/2.25)
	if different(v[1], want, 1.0e-12) {
		t.Errorf("quarter point: %g != %g", v[1], want)
	}
	if !math.IsNaN(v[2]) {
		t.Errorf("no sources in radius: %g should be NaN", v[2])
	}
	if v[3] != 10 {
		t.Errorf("coincident: %g != 10", v[3])
	}
}

func TestFillNearest(t *testing.T) {
	sources := []SourcePoint{{0, 0, 0}, {10, 0, 0}, {0, 10, 10}}
	queries := []QueryPoint{{1, 1}, {20, 0}, {-5, 12}}
	r := New(sources, Options{})
	v := r.Resample(queries, Linear)
	if n := r.FillNearest(queries, v); n != 2 {
		t.Errorf("filled %d != 2", n)
	}
	want := []float64{1, 0, 10}
	for i := range want {
		if different(v[i], want[i], 1.0e-12) {
			t.Errorf("%d: %g != %g", i, v[i], want[i])
		}
	}
}

func TestParseMethod(t *testing.T) {
	for _, m := range []Method{Linear, Nearest, Shepard} {
		p, err := ParseMethod(m.String())
		if err != nil {
			t.Fatal(err)
		}
		if p != m {
			t.Errorf("%v != %v", p, m)
		}
	}
	if _, err := ParseMethod("cubic"); err == nil {
		t.Error("expected an error for an unsupported method")
	}
}

func different(a, b, tolerance float64) bool {
	return math.Abs(a-b) > tolerance*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func same(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}
