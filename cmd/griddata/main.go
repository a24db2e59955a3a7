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

// Command griddata resamples scattered data onto grids, meshes and
// points.
package main

import (
	"os"

	"github.com/spatialmodel/griddata/griddatautil"
)

func main() {
	cfg := griddatautil.InitializeConfig()
	if err := cfg.Root.Execute(); err != nil {
		os.Exit(1)
	}
}
