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

// Package grid provides regular rectangular grids that scattered data
// can be resampled onto, and readers and writers for gridded data.
package grid

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	"github.com/ctessum/geom/index/rtree"
	"github.com/ctessum/geom/proj"
	"github.com/ctessum/sparse"
	goshp "github.com/jonas-p/go-shp"

	"github.com/spatialmodel/griddata/mesh"
	"github.com/spatialmodel/griddata/resample"
)

// ErrNotRegular is returned when an operation needs a grid with a
// positive number of cells and a positive cell size.
var ErrNotRegular = errors.New("grid: the grid must have at least one cell and a positive cell size")

// Make sure our grid fulfills the interface.
var _ mesh.Mesh = &GridDef{}

// GridDef specifies a regular grid that values are resampled onto.
// Cells are ordered row by row, starting from the lower left corner.
type GridDef struct {
	Name   string
	Nx, Ny int
	Dx, Dy float64
	X0, Y0 float64
	Cells  []*GridCell
	SR     *proj.SR
	rtree  *rtree.Rtree
}

// GridCell defines an individual cell in a grid.
type GridCell struct {
	geom.Polygonal
	Row, Col int
}

// NewGridRegular creates a new regular grid, where all grid cells are the
// same size. X0 and Y0 are the coordinates of the lower left corner of
// the grid, and sr is its spatial reference, which may be nil.
func NewGridRegular(Name string, Nx, Ny int, Dx, Dy, X0, Y0 float64, sr *proj.SR) (grid *GridDef) {
	grid = new(GridDef)
	grid.Name = Name
	grid.Nx, grid.Ny = Nx, Ny
	grid.Dx, grid.Dy = Dx, Dy
	grid.X0, grid.Y0 = X0, Y0
	grid.SR = sr
	grid.rtree = rtree.NewTree(25, 50)
	// Create geometry
	if Nx <= 0 || Ny <= 0 {
		return
	}
	grid.Cells = make([]*GridCell, grid.Nx*grid.Ny)
	i := 0
	for iy := 0; iy < grid.Ny; iy++ {
		for ix := 0; ix < grid.Nx; ix++ {
			cell := new(GridCell)
			x := grid.X0 + float64(ix)*grid.Dx
			y := grid.Y0 + float64(iy)*grid.Dy
			cell.Row, cell.Col = iy, ix
			cell.Polygonal = geom.Polygon([]geom.Path{{
				{X: x, Y: y}, {X: x + grid.Dx, Y: y},
				{X: x + grid.Dx, Y: y + grid.Dy}, {X: x, Y: y + grid.Dy}, {X: x, Y: y}}})
			grid.rtree.Insert(cell)
			grid.Cells[i] = cell
			i++
		}
	}
	return
}

// NewGridCentered creates a regular grid of resx by resy cells that is
// sx wide and sy tall and is centered on (cx, cy).
func NewGridCentered(Name string, cx, cy, sx, sy float64, resx, resy int, sr *proj.SR) *GridDef {
	var dx, dy float64
	if resx > 0 {
		dx = sx / float64(resx)
	}
	if resy > 0 {
		dy = sy / float64(resy)
	}
	return NewGridRegular(Name, resx, resy, dx, dy, cx-sx/2, cy-sy/2, sr)
}

// NewGridCovering creates a regular grid with cells of size dx by dy
// whose lower left corner is at the minimum of b and that covers all
// of b.
func NewGridCovering(Name string, b *geom.Bounds, dx, dy float64, sr *proj.SR) (*GridDef, error) {
	if dx <= 0 || dy <= 0 || b == nil {
		return nil, ErrNotRegular
	}
	nx := int(math.Ceil((b.Max.X - b.Min.X) / dx))
	ny := int(math.Ceil((b.Max.Y - b.Min.Y) / dy))
	if nx < 1 {
		nx = 1
	}
	if ny < 1 {
		ny = 1
	}
	return NewGridRegular(Name, nx, ny, dx, dy, b.Min.X, b.Min.Y, sr), nil
}

// Bounds returns the extent of the grid.
func (grid *GridDef) Bounds() *geom.Bounds {
	return &geom.Bounds{
		Min: geom.Point{X: grid.X0, Y: grid.Y0},
		Max: geom.Point{X: grid.X0 + grid.Dx*float64(grid.Nx), Y: grid.Y0 + grid.Dy*float64(grid.Ny)},
	}
}

// GetIndex returns the row and column indices of the cells that
// contain the point (x, y). inGrid is false if the point is not within
// the grid. Usually there will be only one row and column for each
// point, but if the point lies on a shared edge among multiple grid
// cells, all of the overlapping grid cells will be returned.
func (grid *GridDef) GetIndex(x, y float64) (rows, cols []int, inGrid bool) {
	p := geom.Point{X: x, Y: y}
	for _, cI := range grid.rtree.SearchIntersect(p.Bounds()) {
		c := cI.(*GridCell)
		rows = append(rows, c.Row)
		cols = append(cols, c.Col)
	}
	return rows, cols, len(rows) > 0
}

// Dims returns that the grid is 2D.
func (grid *GridDef) Dims() int { return 2 }

// Len returns the number of cells in the grid.
func (grid *GridDef) Len() int { return len(grid.Cells) }

// Cell returns the cell at index i.
func (grid *GridDef) Cell(i int) mesh.Cell { return cellView{grid.Cells[i]} }

// Centers returns the centers of the grid cells in cell order.
func (grid *GridDef) Centers() []resample.QueryPoint { return mesh.Centroids(grid) }

// cellView presents a grid cell as a mesh cell.
type cellView struct{ c *GridCell }

func (v cellView) Centroid() mesh.Point {
	p := v.c.Polygonal.Centroid()
	return mesh.XY{X: p.X, Y: p.Y}
}

func (v cellView) Points() int { return 4 }

func (v cellView) Point(i int) mesh.Point {
	p := v.c.Polygons()[0][0][i]
	return mesh.XY{X: p.X, Y: p.Y}
}

// Measure returns the cell area in the units of the grid squared.
func (v cellView) Measure() float64 { return v.c.Area() }

func (grid *GridDef) checkLen(values []float64) error {
	if len(values) != grid.Len() {
		return fmt.Errorf("grid: %d values for a grid with %d cells", len(values), grid.Len())
	}
	return nil
}

// Dense arranges values, which hold one value per cell in cell order,
// into an array with shape [Ny, Nx].
func (grid *GridDef) Dense(values []float64) (*sparse.DenseArray, error) {
	if err := grid.checkLen(values); err != nil {
		return nil, err
	}
	o := sparse.ZerosDense(grid.Ny, grid.Nx)
	for i, c := range grid.Cells {
		o.Set(values[i], c.Row, c.Col)
	}
	return o, nil
}

// WriteToShp writes the grid cells to a shapefile in directory outdir,
// with "row" and "col" fields and one field for each of the named
// value arrays, which each hold one value per cell.
func (grid *GridDef) WriteToShp(outdir string, names []string, values ...[]float64) error {
	if len(names) != len(values) {
		panic(fmt.Errorf("grid: %d field names but %d value arrays", len(names), len(values)))
	}
	for _, v := range values {
		if err := grid.checkLen(v); err != nil {
			return err
		}
	}
	var err error
	for _, ext := range []string{".shp", ".prj", ".dbf", ".shx"} {
		os.Remove(filepath.Join(outdir, grid.Name+ext))
	}
	fields := make([]goshp.Field, 2, len(names)+2)
	fields[0] = goshp.NumberField("row", 10)
	fields[1] = goshp.NumberField("col", 10)
	for _, n := range names {
		fields = append(fields, goshp.FloatField(n, 20, 8))
	}
	var shpf *shp.Encoder
	shpf, err = shp.NewEncoderFromFields(filepath.Join(outdir, grid.Name+".shp"),
		goshp.POLYGON, fields...)
	if err != nil {
		return fmt.Errorf("grid: %v", err)
	}
	data := make([]interface{}, len(fields))
	for i, cell := range grid.Cells {
		data[0], data[1] = cell.Row, cell.Col
		for j, v := range values {
			data[j+2] = v[i]
		}
		err = shpf.EncodeFields(cell.Polygonal, data...)
		if err != nil {
			return fmt.Errorf("grid: %v", err)
		}
	}
	shpf.Close()
	return nil
}

// Reproject returns a copy of points with the coordinates converted
// from spatial reference from to spatial reference to. Points that
// cannot be converted are given NaN coordinates.
func Reproject(points []resample.SourcePoint, from, to *proj.SR) ([]resample.SourcePoint, error) {
	ct, err := from.NewTransform(to)
	if err != nil {
		return nil, fmt.Errorf("grid: reprojecting points: %v", err)
	}
	o := make([]resample.SourcePoint, len(points))
	for i, p := range points {
		o[i].Value = p.Value
		x, y, err := ct(p.X, p.Y)
		if err != nil {
			x, y = math.NaN(), math.NaN()
		}
		o[i].X, o[i].Y = x, y
	}
	return o, nil
}
