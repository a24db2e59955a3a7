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
	"math"

	"github.com/GaryBoone/GoStats/stats"
	"gonum.org/v1/gonum/floats"
)

// Summary holds statistics of a set of resampled values.
type Summary struct {
	// N is the number of values and Missing is the number of them
	// that are NaN or infinite.
	N, Missing int

	// Min, Max, Mean and StdDev (the population standard deviation)
	// are calculated from the finite values. They are NaN if there
	// are none.
	Min, Max, Mean, StdDev float64
}

// Summarize calculates statistics of v.
func Summarize(v []float64) Summary {
	finite := make([]float64, 0, len(v))
	for _, x := range v {
		if !math.IsNaN(x) && !math.IsInf(x, 0) {
			finite = append(finite, x)
		}
	}
	s := Summary{N: len(v), Missing: len(v) - len(finite)}
	if len(finite) == 0 {
		s.Min, s.Max, s.Mean, s.StdDev = math.NaN(), math.NaN(), math.NaN(), math.NaN()
		return s
	}
	s.Min = floats.Min(finite)
	s.Max = floats.Max(finite)
	s.Mean = floats.Sum(finite) / float64(len(finite))
	s.StdDev = stats.StatsPopulationStandardDeviation(finite)
	return s
}
