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


package grid

import (
	"fmt"
	"math"

	"github.com/jblindsay/go-spatial/geospatialfiles/raster"

	"github.com/spatialmodel/griddata/resample"
)

// DefaultNoData is the value written for cells without data when
// none is specified.
const DefaultNoData = -9999.

// ASCIIGrid is a raster in ESRI ASCII grid format.
type ASCIIGrid struct {
	*GridDef

	// NoData is the value that marks cells without data in the file.
	NoData float64

	// Values holds one value per grid cell in cell order, starting
	// from the lower left. Cells without data are NaN.
	Values []float64
}

// ReadASCII reads the ESRI ASCII grid at path.
func ReadASCII(path string) (*ASCIIGrid, error) {
	r, err := raster.CreateRasterFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("grid: reading ASCII grid %s: %v", path, err)
	}
	nx, ny := r.Columns, r.Rows
	if nx < 1 || ny < 1 || r.East <= r.West || r.North <= r.South {
		return nil, ErrNotRegular
	}
	dx := (r.East - r.West) / float64(nx)
	dy := (r.North - r.South) / float64(ny)
	g := &ASCIIGrid{
		GridDef: NewGridRegular("", nx, ny, dx, dy, r.West, r.South, nil),
		NoData:  r.NoDataValue,
		Values:  make([]float64, nx*ny),
	}
	// Raster rows run from the top of the grid to the bottom.
	for row := 0; row < ny; row++ {
		for col := 0; col < nx; col++ {
			v := r.Value(row, col)
			if v == g.NoData {
				v = math.NaN()
			}
			g.Values[(ny-1-row)*nx+col] = v
		}
	}
	return g, nil
}

// Points returns the cells that have data as source points located
// at the cell centers. Only every stride'th cell, counted in file
// order, is used; a stride less than 2 uses every cell.
func (g *ASCIIGrid) Points(stride int) []resample.SourcePoint {
	if stride < 1 {
		stride = 1
	}
	var o []resample.SourcePoint
	for n := 0; n < len(g.Values); n += stride {
		row := g.Ny - 1 - n/g.Nx
		col := n % g.Nx
		v := g.Values[row*g.Nx+col]
		if math.IsNaN(v) {
			continue
		}
		o = append(o, resample.SourcePoint{
			X:     g.X0 + (float64(col)+0.5)*g.Dx,
			Y:     g.Y0 + (float64(row)+0.5)*g.Dy,
			Value: v,
		})
	}
	return o
}

// WriteASCII writes values, which hold one value per cell of grid in
// cell order, to path as an ESRI ASCII grid. NaN values are written
// as nodata. The grid cells must be square.
func WriteASCII(path string, grid *GridDef, values []float64, nodata float64) error {
	if err := grid.checkLen(values); err != nil {
		return err
	}
	if grid.Dx != grid.Dy || grid.Dx <= 0 {
		return fmt.Errorf("grid: ASCII grids need square cells; dx=%g, dy=%g", grid.Dx, grid.Dy)
	}
	config := raster.NewDefaultRasterConfig()
	config.DataType = raster.DT_FLOAT64
	config.NoDataValue = nodata
	config.InitialValue = nodata
	b := grid.Bounds()
	r, err := raster.CreateNewRaster(path, grid.Ny, grid.Nx, b.Max.Y, b.Min.Y, b.Max.X, b.Min.X, config)
	if err != nil {
		return fmt.Errorf("grid: creating ASCII grid %s: %v", path, err)
	}
	for row := 0; row < grid.Ny; row++ {
		for col := 0; col < grid.Nx; col++ {
			v := values[(grid.Ny-1-row)*grid.Nx+col]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				v = nodata
			}
			r.SetValue(row, col, v)
		}
	}
	if err := r.Save(); err != nil {
		return fmt.Errorf("grid: writing ASCII grid %s: %v", path, err)
	}
	return nil
}
