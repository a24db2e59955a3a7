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

// Package plot holds the coordinate types used to hand resampled
// data and mesh geometry to gonum.org/v1/plot.
package plot

import "fmt"

// XYs implements the gonum.org/v1/plot/plotter.XYer interface.
type XYs []XY

// XY is an x and y value.
type XY struct{ X, Y float64 }

// Len returns the number of X,Y pairs.
func (xys XYs) Len() int {
	return len(xys)
}

// XY return the x and y values at index i, where i < Len()
func (xys XYs) XY(i int) (float64, float64) {
	return xys[i].X, xys[i].Y
}

// XYZs implements the gonum.org/v1/plot/plotter.XYZer interface.
type XYZs []XYZ

// XYZ is an x, y and z value.
type XYZ struct{ X, Y, Z float64 }

// Len returns the number of X,Y,Z triples.
func (xyzs XYZs) Len() int {
	return len(xyzs)
}

// XYZ returns the x, y and z values at index i, where i < Len().
func (xyzs XYZs) XYZ(i int) (float64, float64, float64) {
	return xyzs[i].X, xyzs[i].Y, xyzs[i].Z
}

// XY returns the x and y values at index i, where i < Len().
func (xyzs XYZs) XY(i int) (float64, float64) {
	return xyzs[i].X, xyzs[i].Y
}

// NewXYZs pairs locations with values. Pairs whose value is NaN are
// kept so that the indices of the result match the inputs.
func NewXYZs(x, y, z []float64) XYZs {
	if len(x) != len(y) || len(x) != len(z) {
		panic(fmt.Errorf("plot: mismatched lengths %d, %d, %d", len(x), len(y), len(z)))
	}
	o := make(XYZs, len(x))
	for i := range o {
		o[i] = XYZ{X: x[i], Y: y[i], Z: z[i]}
	}
	return o
}
