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

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// WriteCDF writes the named value arrays, which each hold one value per
// grid cell, to w in NetCDF format as variables with dimensions
// [y, x]. The grid geometry is stored in the global attributes
// x0, y0, dx, dy, nx and ny.
func (grid *GridDef) WriteCDF(w cdf.ReaderWriterAt, names []string, values ...[]float64) error {
	if len(names) != len(values) {
		panic(fmt.Errorf("grid: %d variable names but %d value arrays", len(names), len(values)))
	}
	data := make([]*sparse.DenseArray, len(values))
	for i, v := range values {
		d, err := grid.Dense(v)
		if err != nil {
			return fmt.Errorf("grid: writing variable %s: %v", names[i], err)
		}
		data[i] = d
	}

	h := cdf.NewHeader([]string{"y", "x"}, []int{grid.Ny, grid.Nx})
	h.AddAttribute("", "comment", "resampled gridded data")
	h.AddAttribute("", "x0", []float64{grid.X0})
	h.AddAttribute("", "y0", []float64{grid.Y0})
	h.AddAttribute("", "dx", []float64{grid.Dx})
	h.AddAttribute("", "dy", []float64{grid.Dy})
	h.AddAttribute("", "nx", []int32{int32(grid.Nx)})
	h.AddAttribute("", "ny", []int32{int32(grid.Ny)})
	if grid.Name != "" {
		h.AddAttribute("", "name", grid.Name)
	}
	for _, name := range names {
		h.AddVariable(name, []string{"y", "x"}, []float32{0})
		h.AddAttribute(name, "description", name+" resampled onto the grid")
	}
	h.Define()

	f, err := cdf.Create(w, h) // writes the header to w
	if err != nil {
		return fmt.Errorf("grid: %v", err)
	}
	for i, name := range names {
		if err = writeNCF(f, name, data[i]); err != nil {
			return fmt.Errorf("grid: writing variable %s to netcdf file: %v", name, err)
		}
	}
	return nil
}

func writeNCF(f *cdf.File, Var string, data *sparse.DenseArray) error {
	data32 := make([]float32, len(data.Elements))
	for i, e := range data.Elements {
		data32[i] = float32(e)
	}
	end := f.Header.Lengths(Var)
	start := make([]int, len(end))
	w := f.Writer(Var, start, end)
	_, err := w.Write(data32)
	return err
}

// ReadCDF reads a file written by WriteCDF, returning the grid it
// describes and the values of each variable in cell order.
func ReadCDF(rw cdf.ReaderWriterAt) (*GridDef, map[string][]float64, error) {
	f, err := cdf.Open(rw)
	if err != nil {
		return nil, nil, fmt.Errorf("grid: reading netcdf file: %v", err)
	}
	floatAttr := func(name string) (float64, error) {
		v, ok := f.Header.GetAttribute("", name).([]float64)
		if !ok || len(v) != 1 {
			return 0, fmt.Errorf("grid: reading netcdf file: missing attribute %s", name)
		}
		return v[0], nil
	}
	intAttr := func(name string) (int, error) {
		v, ok := f.Header.GetAttribute("", name).([]int32)
		if !ok || len(v) != 1 {
			return 0, fmt.Errorf("grid: reading netcdf file: missing attribute %s", name)
		}
		return int(v[0]), nil
	}
	var g [4]float64
	for i, name := range []string{"x0", "y0", "dx", "dy"} {
		if g[i], err = floatAttr(name); err != nil {
			return nil, nil, err
		}
	}
	nx, err := intAttr("nx")
	if err != nil {
		return nil, nil, err
	}
	ny, err := intAttr("ny")
	if err != nil {
		return nil, nil, err
	}
	grid := NewGridRegular("", nx, ny, g[2], g[3], g[0], g[1], nil)

	o := make(map[string][]float64)
	for _, v := range f.Header.Variables() {
		dims := f.Header.Lengths(v)
		if len(dims) != 2 || dims[0] != ny || dims[1] != nx {
			return nil, nil, fmt.Errorf("grid: reading netcdf file: variable %s has dimensions %v; want [%d %d]", v, dims, ny, nx)
		}
		tmp := make([]float32, nx*ny)
		r := f.Reader(v, nil, nil)
		if _, err = r.Read(tmp); err != nil {
			return nil, nil, fmt.Errorf("grid: reading netcdf variable %s: %v", v, err)
		}
		vals := make([]float64, len(tmp))
		for i, x := range tmp {
			vals[i] = float64(x)
		}
		o[v] = vals
	}
	return grid, o, nil
}
