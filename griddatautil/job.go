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
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/proj"
	"github.com/ctessum/requestcache"
	"github.com/golang/geo/s2"
	"github.com/sirupsen/logrus"

	"github.com/spatialmodel/griddata/grid"
	"github.com/spatialmodel/griddata/mesh"
	"github.com/spatialmodel/griddata/mesh/hilbert"
	"github.com/spatialmodel/griddata/mesh/tin"
	"github.com/spatialmodel/griddata/plot"
	"github.com/spatialmodel/griddata/resample"
	"github.com/spatialmodel/griddata/table"
)

// Job describes one resampling run: where the source points come
// from, what they are resampled onto, and where the result goes.
type Job struct {
	// Name identifies the job in log messages.
	Name string

	// Input is the source data file. Its type is determined by its
	// extension: .csv, .xlsx, .shp, .asc, .nc, or .txt/.xyz/.dat for
	// whitespace-separated tables. A .txt file that starts with an
	// ESRI ASCII grid header is read as a grid. For .nc files written
	// by this program, ValueCol names the variable; it may be left
	// unmatched if the file holds only one.
	Input string

	// Sheet is the spreadsheet sheet for .xlsx input.
	Sheet string

	// XCol, YCol and ValueCol are the column names for tabular input.
	XCol, YCol, ValueCol string

	// ValueExpr is an expression over the input columns that is
	// used instead of ValueCol, such as "ztop - 1800".
	ValueExpr string

	// Separator is the field separator for delimited text input.
	Separator string

	// Stride keeps only every Stride'th source point.
	Stride int

	// InputSR and OutputSR are proj4 spatial references. If
	// OutputSR is set the sources are reprojected into it before
	// resampling. InputSR may be omitted for shapefiles that have
	// a .prj file.
	InputSR, OutputSR string

	// Method is the interpolation method: linear, nearest or shepard.
	Method string

	// Fill replaces values that cannot be interpolated with the
	// value of the nearest source.
	Fill bool

	// Workers, Radius and Power are passed to the resampler.
	Workers       int
	Radius, Power float64

	// Target is what to resample onto: grid, centered, tin,
	// tin-vertices, s2 or points. The tin targets use the centers or
	// the vertices of the Delaunay triangles of the Points file if it
	// is set, or of the sources otherwise.
	Target string

	// Grid settings. For the grid target, a grid with cells of size
	// Dx by Dy covering the sources is used unless Nx and Ny are set,
	// in which case X0 and Y0 are its lower left corner. For the
	// centered target, the grid has Nx by Ny cells, is SizeX by SizeY,
	// and is centered on (CenterX, CenterY).
	Dx, Dy                         float64
	Nx, Ny                         int
	X0, Y0                         float64
	CenterX, CenterY, SizeX, SizeY float64

	// Level is the S2 cell level for the s2 target.
	Level int

	// Points is a delimited text file of query locations for the
	// points target, or of mesh nodes for the tin targets.
	Points string

	// Output is the result file. Its type is determined by its
	// extension: .csv, .shp, .xyz, or, for grid targets, .asc or .nc.
	Output string

	// Outlines, if set, is a CSV file that the cell outlines of a
	// tin or s2 target are written to for plotting.
	Outlines string
}

// source is a loaded and indexed set of source points.
type source struct {
	points []resample.SourcePoint
	r      *resample.Resampler
}

// columns returns the table column settings for the job.
func (j *Job) columns() table.Columns {
	c := table.Columns{X: j.XCol, Y: j.YCol, Value: j.ValueCol, ValueExpr: j.ValueExpr}
	switch j.Separator {
	case "":
	case `\t`, "tab":
		c.Comma = '\t'
	default:
		c.Comma = []rune(j.Separator)[0]
	}
	return c
}

// sourceKey identifies the source points and resampler settings of
// the job, for caching.
func (j *Job) sourceKey() string {
	return fmt.Sprintf("%s|%s|%s|%s|%s|%s|%s|%d|%s|%s|%d|%g|%g", j.Input, j.Sheet, j.XCol, j.YCol,
		j.ValueCol, j.ValueExpr, j.Separator, j.Stride, j.InputSR, j.OutputSR, j.Workers, j.Radius, j.Power)
}

// isASCIIGrid reports whether the file at path starts with an ESRI
// ASCII grid header.
func isASCIIGrid(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	b := make([]byte, 5)
	n, _ := f.Read(b)
	return strings.EqualFold(string(b[:n]), "ncols")
}

// loadSources reads the source points of the job, reprojecting them
// if requested.
func (j *Job) loadSources() ([]resample.SourcePoint, error) {
	var pts []resample.SourcePoint
	var sr *proj.SR
	var err error
	ext := strings.ToLower(filepath.Ext(j.Input))
	if ext == ".txt" && isASCIIGrid(j.Input) {
		ext = ".asc"
	}
	switch ext {
	case ".csv", ".tsv":
		var f *os.File
		if f, err = os.Open(j.Input); err != nil {
			return nil, fmt.Errorf("griddata: %v", err)
		}
		pts, err = table.ReadCSV(f, j.columns())
		f.Close()
	case ".nc":
		pts, err = readCDFSources(j.Input, j.ValueCol)
	case ".txt", ".xyz", ".dat":
		pts, err = table.ReadText(j.Input, table.DefaultTextColumns)
	case ".xlsx":
		pts, err = table.ReadXLSX(j.Input, j.Sheet, j.columns())
	case ".shp":
		pts, sr, err = table.ReadShp(j.Input, j.columns())
	case ".asc":
		var g *grid.ASCIIGrid
		if g, err = grid.ReadASCII(j.Input); err == nil {
			pts = g.Points(j.Stride)
		}
	default:
		return nil, fmt.Errorf("griddata: unsupported input file type %q", j.Input)
	}
	if err != nil {
		return nil, fmt.Errorf("griddata: loading %s: %v", j.Input, err)
	}
	if j.Stride > 1 && ext != ".asc" {
		pts = decimate(pts, j.Stride)
	}

	if j.OutputSR == "" {
		return pts, nil
	}
	if j.InputSR != "" {
		if sr, err = proj.Parse(j.InputSR); err != nil {
			return nil, fmt.Errorf("griddata: input spatial reference: %v", err)
		}
	}
	if sr == nil {
		return nil, fmt.Errorf("griddata: the spatial reference of %s is unknown; set InputSR", j.Input)
	}
	to, err := proj.Parse(j.OutputSR)
	if err != nil {
		return nil, fmt.Errorf("griddata: output spatial reference: %v", err)
	}
	return grid.Reproject(pts, sr, to)
}

// readCDFSources reads the cell centers and values of a NetCDF grid
// as source points, skipping cells without data.
func readCDFSources(path, name string) ([]resample.SourcePoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	g, vars, err := grid.ReadCDF(f)
	if err != nil {
		return nil, err
	}
	v, ok := vars[name]
	if !ok {
		if len(vars) != 1 {
			return nil, fmt.Errorf("no variable %q", name)
		}
		for _, vv := range vars {
			v = vv
		}
	}
	var o []resample.SourcePoint
	for i, c := range g.Centers() {
		if math.IsNaN(v[i]) {
			continue
		}
		o = append(o, resample.SourcePoint{X: c.X, Y: c.Y, Value: v[i]})
	}
	return o, nil
}

func decimate(p []resample.SourcePoint, stride int) []resample.SourcePoint {
	o := make([]resample.SourcePoint, 0, (len(p)+stride-1)/stride)
	for i := 0; i < len(p); i += stride {
		o = append(o, p[i])
	}
	return o
}

// sources returns the loaded source points of the job. If c is not
// nil, sources are shared among jobs with the same input settings.
func (j *Job) sources(ctx context.Context, c *requestcache.Cache, log logrus.FieldLogger) (*source, error) {
	if c == nil {
		return j.newSource(log)
	}
	r := c.NewRequest(ctx, j, j.sourceKey())
	resultI, err := r.Result()
	if err != nil {
		return nil, err
	}
	return resultI.(*source), nil
}

func (j *Job) newSource(log logrus.FieldLogger) (*source, error) {
	pts, err := j.loadSources()
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{"job": j.Name, "input": j.Input, "sources": len(pts)}).Info("griddata: loaded sources")
	return &source{
		points: pts,
		r: resample.New(pts, resample.Options{
			Workers: j.Workers,
			Radius:  j.Radius,
			Power:   j.Power,
			Log:     log,
		}),
	}, nil
}

// target is a set of query locations and the structure they came from.
type target struct {
	queries  []resample.QueryPoint
	grid     *grid.GridDef
	tin      *tin.Mesh
	outlines []plot.XYs
}

func sourceBounds(pts []resample.SourcePoint) (*geom.Bounds, error) {
	b := geom.NewBounds()
	var n int
	for _, p := range pts {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			continue
		}
		b.Extend(geom.Point{X: p.X, Y: p.Y}.Bounds())
		n++
	}
	if n == 0 {
		return nil, fmt.Errorf("griddata: no source points with finite locations")
	}
	return b, nil
}

// target creates the query locations of the job.
func (j *Job) target(s *source, log logrus.FieldLogger) (*target, error) {
	t := new(target)
	switch kind := strings.ToLower(j.Target); kind {
	case "", "grid":
		if j.Nx > 0 && j.Ny > 0 {
			if j.Dx <= 0 || j.Dy <= 0 {
				return nil, grid.ErrNotRegular
			}
			t.grid = grid.NewGridRegular(j.Name, j.Nx, j.Ny, j.Dx, j.Dy, j.X0, j.Y0, nil)
		} else {
			b, err := sourceBounds(s.points)
			if err != nil {
				return nil, err
			}
			if t.grid, err = grid.NewGridCovering(j.Name, b, j.Dx, j.Dy, nil); err != nil {
				return nil, err
			}
		}
		j.checkCoverage(t.grid, s.points, log)
		t.queries = t.grid.Centers()
	case "centered":
		if j.Nx <= 0 || j.Ny <= 0 || j.SizeX <= 0 || j.SizeY <= 0 {
			return nil, grid.ErrNotRegular
		}
		t.grid = grid.NewGridCentered(j.Name, j.CenterX, j.CenterY, j.SizeX, j.SizeY, j.Nx, j.Ny, nil)
		j.checkCoverage(t.grid, s.points, log)
		t.queries = t.grid.Centers()
	case "tin", "tin-vertices":
		m, err := j.tinMesh(s)
		if err != nil {
			return nil, err
		}
		if m.Len() == 0 {
			return nil, fmt.Errorf("griddata: job %s: the mesh nodes are degenerate", j.Name)
		}
		if kind == "tin" {
			t.tin = m
			t.queries = mesh.Centroids(m)
		} else {
			t.queries, _ = mesh.Vertices(m)
		}
		t.outlines = m.PlotCells()
		log.WithFields(logrus.Fields{"job": j.Name, "cells": m.Len(), "faces": m.Faces(), "area": mesh.TotalMeasure(m)}).Debug("griddata: created mesh")
	case "s2":
		b, err := sourceBounds(s.points)
		if err != nil {
			return nil, err
		}
		if b.Min.X < -180 || b.Max.X > 180 || b.Min.Y < -90 || b.Max.Y > 90 {
			return nil, fmt.Errorf("griddata: job %s: the s2 target needs longitude and latitude in degrees, "+
				"but the sources span x %g to %g and y %g to %g; set OutputSR to a longitude-latitude reference",
				j.Name, b.Min.X, b.Max.X, b.Min.Y, b.Max.Y)
		}
		m := hilbert.NewMesh2D(hilbert.RectFromDegrees(b.Min.X, b.Min.Y, b.Max.X, b.Max.Y), j.Level)
		if m.Len() == 0 {
			return nil, fmt.Errorf("griddata: job %s: the s2 mesh has no cells", j.Name)
		}
		t.queries = mesh.Centroids(m)
		t.outlines = m.PlotCells(s2.NewPlateCarreeProjection(180))
		log.WithFields(logrus.Fields{"job": j.Name, "cells": m.Len(), "faces": m.Faces(), "area": mesh.TotalMeasure(m)}).Debug("griddata: created mesh")
	case "points":
		q, err := j.readPoints()
		if err != nil {
			return nil, err
		}
		t.queries = q
	default:
		return nil, fmt.Errorf("griddata: invalid target %q", j.Target)
	}
	return t, nil
}

func (j *Job) readPoints() ([]resample.QueryPoint, error) {
	f, err := os.Open(j.Points)
	if err != nil {
		return nil, fmt.Errorf("griddata: %v", err)
	}
	defer f.Close()
	q, err := table.ReadQueriesCSV(f, j.columns())
	if err != nil {
		return nil, fmt.Errorf("griddata: loading points from %s: %v", j.Points, err)
	}
	return q, nil
}

// tinMesh triangulates the Points file, or the sources if there is
// no Points file.
func (j *Job) tinMesh(s *source) (*tin.Mesh, error) {
	if j.Points == "" {
		return tin.New(s.r.Triangulation()), nil
	}
	q, err := j.readPoints()
	if err != nil {
		return nil, err
	}
	nodes := make([]resample.SourcePoint, len(q))
	for i, p := range q {
		nodes[i] = resample.SourcePoint{X: p.X, Y: p.Y}
	}
	return tin.FromSources(nodes), nil
}

// checkCoverage logs a warning if none of the sources fall within g,
// which usually means the grid or the sources are in the wrong place.
func (j *Job) checkCoverage(g *grid.GridDef, pts []resample.SourcePoint, log logrus.FieldLogger) {
	for _, p := range pts {
		if _, _, in := g.GetIndex(p.X, p.Y); in {
			return
		}
	}
	log.WithField("job", j.Name).Warn("griddata: none of the source points are within the grid")
}

// write writes the values to path in the format given by its
// extension.
func (t *target) write(path, name string, v []float64) (err error) {
	ext := strings.ToLower(filepath.Ext(path))
	needGrid := func() error {
		if t.grid == nil {
			return fmt.Errorf("griddata: %s output needs a grid target", ext)
		}
		return nil
	}
	create := func(write func(f *os.File) error) error {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("griddata: %v", err)
		}
		if err := write(f); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}
	switch ext {
	case ".csv":
		return create(func(f *os.File) error { return table.WriteCSV(f, t.queries, []string{name}, v) })
	case ".xyz":
		return create(func(f *os.File) error { return table.WriteText(f, t.queries, v) })
	case ".asc":
		if err = needGrid(); err != nil {
			return err
		}
		return grid.WriteASCII(path, t.grid, v, grid.DefaultNoData)
	case ".nc":
		if err = needGrid(); err != nil {
			return err
		}
		return create(func(f *os.File) error { return t.grid.WriteCDF(f, []string{name}, v) })
	case ".shp":
		switch {
		case t.grid != nil:
			g := *t.grid
			g.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			return g.WriteToShp(filepath.Dir(path), []string{name}, v)
		case t.tin != nil:
			return t.tin.WriteToShp(path, []string{name}, v)
		default:
			return table.WriteShp(path, t.queries, []string{name}, v)
		}
	default:
		return fmt.Errorf("griddata: unsupported output file type %q", path)
	}
}

func (t *target) writeOutlines(path string) error {
	if t.outlines == nil {
		return fmt.Errorf("griddata: cell outlines need a tin or s2 target")
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("griddata: %v", err)
	}
	if err := table.WriteOutlines(f, t.outlines); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Run carries out the job. c, which may be nil, holds source data
// shared among jobs.
func (j *Job) Run(ctx context.Context, c *requestcache.Cache, log logrus.FieldLogger) (Summary, error) {
	method, err := resample.ParseMethod(j.Method)
	if err != nil {
		return Summary{}, fmt.Errorf("griddata: job %s: %v", j.Name, err)
	}
	if j.Output == "" {
		return Summary{}, fmt.Errorf("griddata: job %s: no output file", j.Name)
	}
	s, err := j.sources(ctx, c, log)
	if err != nil {
		return Summary{}, err
	}
	t, err := j.target(s, log)
	if err != nil {
		return Summary{}, err
	}

	v := s.r.Resample(t.queries, method)
	if j.Fill {
		n := s.r.FillNearest(t.queries, v)
		log.WithFields(logrus.Fields{"job": j.Name, "filled": n}).Debug("griddata: filled missing values")
	}
	sum := Summarize(v)
	log.WithFields(logrus.Fields{
		"job":     j.Name,
		"method":  method,
		"queries": sum.N,
		"missing": sum.Missing,
		"min":     sum.Min,
		"max":     sum.Max,
		"mean":    sum.Mean,
		"stddev":  sum.StdDev,
	}).Info("griddata: resampled")

	if err = t.write(j.Output, "value", v); err != nil {
		return sum, err
	}
	if j.Outlines != "" {
		if err = t.writeOutlines(j.Outlines); err != nil {
			return sum, err
		}
	}
	return sum, nil
}
