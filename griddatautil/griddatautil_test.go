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

package griddatautil

import (
	"bytes"
	"context"
	"io/ioutil"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kr/pretty"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/spatialmodel/griddata/grid"
	"github.com/spatialmodel/griddata/table"
)

func plane(x, y float64) float64 { return 2*x + y + 1 }

func quietLog() logrus.FieldLogger {
	l := logrus.New()
	l.Out = ioutil.Discard
	return l
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{1, math.NaN(), 3, math.Inf(1), 5})
	want := Summary{N: 5, Missing: 2, Min: 1, Max: 5, Mean: 3, StdDev: math.Sqrt(8. / 3)}
	if math.Abs(s.StdDev-want.StdDev) < 1.0e-12 {
		s.StdDev = want.StdDev
	}
	if s != want {
		t.Errorf("%+v != %+v", s, want)
	}
	s = Summarize([]float64{math.NaN()})
	if s.N != 1 || s.Missing != 1 || !math.IsNaN(s.Mean) || !math.IsNaN(s.StdDev) {
		t.Errorf("%+v", s)
	}
}

func TestJobGrid(t *testing.T) {
	out := filepath.Join(t.TempDir(), "plane.asc")
	j := &Job{Name: "plane", Input: "testdata/plane.csv", Dx: 10, Dy: 10, Output: out}
	s, err := j.Run(context.Background(), nil, quietLog())
	if err != nil {
		t.Fatal(err)
	}
	if s.N != 16 || s.Missing != 0 {
		t.Errorf("summary %+v", s)
	}

	g, err := grid.ReadASCII(out)
	if err != nil {
		t.Fatal(err)
	}
	for i, c := range g.Centers() {
		if want := plane(c.X, c.Y); math.Abs(g.Values[i]-want) > 1.0e-6 {
			t.Errorf("cell %d (%v): %g != %g", i, c, g.Values[i], want)
		}
	}
}

func TestJobTargets(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		job     Job
		n       int
		missing int
	}{
		{name: "tin", job: Job{Target: "tin", Output: "tin.shp"}, n: 32},
		{name: "centered", job: Job{Target: "centered", CenterX: 20, CenterY: 20, SizeX: 60, SizeY: 60, Nx: 6, Ny: 6, Output: "c.nc"}, n: 36, missing: 20},
		{name: "centered filled", job: Job{Target: "centered", CenterX: 20, CenterY: 20, SizeX: 60, SizeY: 60, Nx: 6, Ny: 6, Fill: true, Output: "c.csv"}, n: 36},
		{name: "points", job: Job{Target: "points", Points: "testdata/queries.csv", Output: "p.csv"}, n: 2, missing: 1},
		{name: "points nearest", job: Job{Target: "points", Points: "testdata/queries.csv", Method: "nearest", Output: "p.shp"}, n: 2},
		{name: "s2", job: Job{Target: "s2", Level: 5, Fill: true, Output: "s2.csv"}, n: -1},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			j := test.job
			j.Name = test.name
			j.Input = "testdata/plane.csv"
			j.Output = filepath.Join(dir, j.Output)
			s, err := j.Run(context.Background(), nil, quietLog())
			if err != nil {
				t.Fatal(err)
			}
			if test.n >= 0 && s.N != test.n {
				t.Errorf("%d values; want %d", s.N, test.n)
			}
			if s.Missing != test.missing {
				t.Errorf("%d missing values; want %d", s.Missing, test.missing)
			}
			if _, err := os.Stat(j.Output); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestJobPointsOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "p.csv")
	j := &Job{Input: "testdata/plane.csv", Target: "points", Points: "testdata/queries.csv", Output: out}
	if _, err := j.Run(context.Background(), nil, quietLog()); err != nil {
		t.Fatal(err)
	}
	b, err := ioutil.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	want := "x,y,value\n5,5,16\n100,100,NaN\n"
	if string(b) != want {
		t.Errorf("%q != %q", b, want)
	}
}

func TestJobTINVertices(t *testing.T) {
	dir := t.TempDir()
	j := &Job{
		Name:     "vertices",
		Input:    "testdata/plane.csv",
		Target:   "tin-vertices",
		Points:   "testdata/nodes.csv",
		Output:   filepath.Join(dir, "v.xyz"),
		Outlines: filepath.Join(dir, "cells.csv"),
	}
	s, err := j.Run(context.Background(), nil, quietLog())
	if err != nil {
		t.Fatal(err)
	}
	if s.N != 4 || s.Missing != 0 {
		t.Errorf("summary %+v", s)
	}
	v, err := table.ReadText(j.Output, table.DefaultTextColumns)
	if err != nil {
		t.Fatal(err)
	}
	if len(v) != 4 {
		t.Fatalf("%d vertices; want 4", len(v))
	}
	for _, p := range v {
		if want := plane(p.X, p.Y); math.Abs(p.Value-want) > 1.0e-9 {
			t.Errorf("vertex (%g, %g): %g != %g", p.X, p.Y, p.Value, want)
		}
	}

	b, err := ioutil.ReadFile(j.Outlines)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	// Three triangles with a closing point each.
	if lines[0] != "cell,x,y" || len(lines) != 1+3*4 {
		t.Errorf("outlines:\n%s", b)
	}
}

func TestJobCDFInput(t *testing.T) {
	dir := t.TempDir()
	nc := filepath.Join(dir, "plane.nc")
	j := &Job{Name: "grid", Input: "testdata/plane.csv", Dx: 10, Dy: 10, Output: nc}
	if _, err := j.Run(context.Background(), nil, quietLog()); err != nil {
		t.Fatal(err)
	}
	j2 := &Job{Name: "points", Input: nc, Target: "points", Points: "testdata/queries.csv", Output: filepath.Join(dir, "p.csv")}
	s, err := j2.Run(context.Background(), nil, quietLog())
	if err != nil {
		t.Fatal(err)
	}
	if s.N != 2 || s.Missing != 1 {
		t.Errorf("summary %+v", s)
	}
	if want := plane(5, 5); math.Abs(s.Min-want) > 1.0e-4 || s.Min != s.Max {
		t.Errorf("value %g; want %g", s.Min, want)
	}
}

func TestJobS2Projected(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "utm.csv")
	data := "x,y,z\n42991,4510000,1\n91041,4510000,2\n60000,4560000,3\n"
	if err := ioutil.WriteFile(in, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	j := &Job{Input: in, Target: "s2", Level: 5, Output: filepath.Join(dir, "s2.csv")}
	_, err := j.Run(context.Background(), nil, quietLog())
	if err == nil || !strings.Contains(err.Error(), "OutputSR") {
		t.Errorf("unexpected error %v", err)
	}
}

func TestJobCoverageWarning(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name   string
		x0, y0 float64
		warn   bool
	}{
		{name: "inside", x0: 0, y0: 0},
		{name: "outside", x0: 1000, y0: 1000, warn: true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			log, hook := logtest.NewNullLogger()
			j := &Job{Name: test.name, Input: "testdata/plane.csv", Nx: 2, Ny: 2, Dx: 10, Dy: 10,
				X0: test.x0, Y0: test.y0, Output: filepath.Join(dir, test.name+".csv")}
			if _, err := j.Run(context.Background(), nil, log); err != nil {
				t.Fatal(err)
			}
			var warned bool
			for _, e := range hook.AllEntries() {
				if e.Level == logrus.WarnLevel && strings.Contains(e.Message, "within the grid") {
					warned = true
				}
			}
			if warned != test.warn {
				t.Errorf("warned: %v; want %v", warned, test.warn)
			}
		})
	}
}

func TestJobOutlinesNeedMesh(t *testing.T) {
	dir := t.TempDir()
	j := &Job{Input: "testdata/plane.csv", Dx: 10, Dy: 10, Output: filepath.Join(dir, "g.csv"), Outlines: filepath.Join(dir, "o.csv")}
	if _, err := j.Run(context.Background(), nil, quietLog()); err == nil {
		t.Error("outlines of a grid target should be an error")
	}
}

func TestJobErrors(t *testing.T) {
	dir := t.TempDir()
	for name, j := range map[string]Job{
		"method":      {Input: "testdata/plane.csv", Method: "cubic", Output: filepath.Join(dir, "a.csv"), Dx: 1, Dy: 1},
		"no output":   {Input: "testdata/plane.csv", Dx: 1, Dy: 1},
		"input type":  {Input: "testdata/plane.json", Dx: 1, Dy: 1, Output: filepath.Join(dir, "b.csv")},
		"no input":    {Input: "testdata/missing.csv", Dx: 1, Dy: 1, Output: filepath.Join(dir, "c.csv")},
		"target":      {Input: "testdata/plane.csv", Target: "hexagons", Output: filepath.Join(dir, "d.csv")},
		"cell size":   {Input: "testdata/plane.csv", Output: filepath.Join(dir, "e.csv")},
		"asc of tin":  {Input: "testdata/plane.csv", Target: "tin", Output: filepath.Join(dir, "f.asc")},
		"unknown sr":  {Input: "testdata/plane.csv", Dx: 1, Dy: 1, OutputSR: "+proj=longlat", Output: filepath.Join(dir, "g.csv")},
		"output type": {Input: "testdata/plane.csv", Dx: 1, Dy: 1, Output: filepath.Join(dir, "h.json")},
	} {
		j := j
		if _, err := j.Run(context.Background(), nil, quietLog()); err == nil {
			t.Errorf("%s: should be an error", name)
		}
	}
}

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	input, err := filepath.Abs("testdata/plane.csv")
	if err != nil {
		t.Fatal(err)
	}
	batch := `
[[Job]]
Name = "linear"
Input = "` + filepath.ToSlash(input) + `"
Dx = 10.0
Dy = 10.0
Output = "linear.csv"

[[Job]]
Input = "` + filepath.ToSlash(input) + `"
Method = "nearest"
Dx = 5.0
Dy = 5.0
Output = "nearest.asc"
`
	path := filepath.Join(dir, "jobs.toml")
	if err := ioutil.WriteFile(path, []byte(batch), 0644); err != nil {
		t.Fatal(err)
	}
	b, err := ReadBatch(path)
	if err != nil {
		t.Fatal(err)
	}
	want := []*Job{
		{Name: "linear", Input: input, Dx: 10, Dy: 10, Output: filepath.Join(dir, "linear.csv")},
		{Name: "job1", Input: input, Method: "nearest", Dx: 5, Dy: 5, Output: filepath.Join(dir, "nearest.asc")},
	}
	if diff := pretty.Diff(b.Job, want); len(diff) > 0 {
		t.Errorf("jobs differ: %v", diff)
	}
	sums, err := b.Run(context.Background(), 2, quietLog())
	if err != nil {
		t.Fatal(err)
	}
	if sums[0].N != 16 || sums[1].N != 64 || sums[0].Missing != 0 || sums[1].Missing != 0 {
		t.Errorf("summaries %+v", sums)
	}
	for _, f := range []string{"linear.csv", "nearest.asc"} {
		if _, err := os.Stat(filepath.Join(dir, f)); err != nil {
			t.Error(err)
		}
	}
}

func TestReadBatchUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.toml")
	if err := ioutil.WriteFile(path, []byte("[[Job]]\nInputFile = \"x.csv\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadBatch(path); err == nil {
		t.Error("an unknown key should be an error")
	}
}

func TestCommandVersion(t *testing.T) {
	cfg := InitializeConfig()
	var b bytes.Buffer
	cfg.Root.SetOutput(&b)
	cfg.Root.SetArgs([]string{"version"})
	if err := cfg.Root.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(b.String(), Version) {
		t.Errorf("%q does not contain the version", b.String())
	}
}

func TestCommandResample(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.csv")
	os.Setenv("GRIDDATA_VALUE_EXPR", "z * 0")
	defer os.Unsetenv("GRIDDATA_VALUE_EXPR")

	cfg := InitializeConfig()
	cfg.Root.SetOutput(ioutil.Discard)
	cfg.Root.SetArgs([]string{"resample", "-i", "testdata/plane.csv", "-o", out,
		"--dx", "20", "--dy", "20", "--log-level", "error"})
	if err := cfg.Root.Execute(); err != nil {
		t.Fatal(err)
	}
	b, err := ioutil.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 5 || lines[0] != "x,y,value" {
		t.Fatalf("output: %q", b)
	}
	for _, l := range lines[1:] {
		if !strings.HasSuffix(l, ",0") {
			t.Errorf("value expression not applied: %q", l)
		}
	}
}

func TestCommandResampleNoInput(t *testing.T) {
	cfg := InitializeConfig()
	cfg.Root.SetOutput(ioutil.Discard)
	cfg.Root.SetArgs([]string{"resample", "-o", "x.csv"})
	if err := cfg.Root.Execute(); err == nil {
		t.Error("a missing input should be an error")
	}
}
