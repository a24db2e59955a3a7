/*
Copyright © 2019 the griddata authors.
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

/*Package mesh defines interfaces for spatial meshes whose cells
and vertices are used as interpolation targets.*/
package mesh

import (
	"fmt"

	"github.com/spatialmodel/griddata/resample"
)

// Mesh describes a spatial mesh.
type Mesh interface {
	// Dims returns the number of spatial dimensions
	// in this mesh.
	Dims() int

	// Len is the total number of cells in this Mesh.
	Len() int

	// Cell returns the mesh cell at index i (where i < Len()).
	Cell(i int) Cell
}

// FaceMesh is a mesh that also keeps track of the faces
// between its cells.
type FaceMesh interface {
	Mesh

	// Faces returns the total number of faces in the mesh.
	Faces() int

	// Face returns the face at index i (where i < Faces()).
	Face(i int) Face
}

// Cell specifies a cell in a mesh
type Cell interface {
	// Centroid returns the centroid of this cell.
	Centroid() Point

	// Points returns the number of vertices of the cell.
	Points() int

	// Point returns the vertex at the given index.
	Point(int) Point

	// Measure returns the area (in 2 dimensions) of the cell.
	// Implementations document its units.
	Measure() float64
}

// Face represents the planar face of a cell. Lesser and Greater
// return nil for a side of the face that is outside the mesh.
type Face interface {
	// Points returns the number of points that
	// comprise this face.
	Points() int

	// Point returns the point at the given index.
	Point(int) Point

	// Lesser returns the cell that is on the lesser side
	// of this face (the side that has a lower value in whatever
	// coordinate system is being used).
	Lesser() Cell

	// Greater returns the cell that is
	// on the greater side of this face.
	Greater() Cell
}

// Point represents a point in vector space.
type Point interface {
	// Len returns the number of dimensions of this point.
	Len() int

	// D returns the point value in the specified dimension.
	D(int) float64
}

// XY is a point in two dimensions.
type XY struct{ X, Y float64 }

// Len returns 2.
func (p XY) Len() int { return 2 }

// D returns X for dimension 0 and Y for dimension 1.
func (p XY) D(i int) float64 {
	switch i {
	case 0:
		return p.X
	case 1:
		return p.Y
	default:
		panic(fmt.Errorf("mesh: dimension %d out of range for a 2-D point", i))
	}
}

func query(p Point) resample.QueryPoint {
	return resample.QueryPoint{X: p.D(0), Y: p.D(1)}
}

func check2D(m Mesh) {
	if m.Dims() != 2 {
		panic(fmt.Errorf("mesh: %d-D meshes cannot be used as query points", m.Dims()))
	}
}

// Centroids returns the centroids of the cells in m, in cell order,
// as query points for resampling.
func Centroids(m Mesh) []resample.QueryPoint {
	check2D(m)
	o := make([]resample.QueryPoint, m.Len())
	for i := range o {
		o[i] = query(m.Cell(i).Centroid())
	}
	return o
}

// Vertices returns the distinct vertices of the cells in m, in
// the order they are first encountered, as query points for
// resampling. index holds, for each cell, the position in the
// returned slice of each of its vertices.
func Vertices(m Mesh) (points []resample.QueryPoint, index [][]int) {
	check2D(m)
	seen := make(map[resample.QueryPoint]int)
	index = make([][]int, m.Len())
	for i := range index {
		c := m.Cell(i)
		index[i] = make([]int, c.Points())
		for j := range index[i] {
			q := query(c.Point(j))
			k, ok := seen[q]
			if !ok {
				k = len(points)
				seen[q] = k
				points = append(points, q)
			}
			index[i][j] = k
		}
	}
	return points, index
}

// TotalMeasure returns the sum of the measures of the cells in m.
func TotalMeasure(m Mesh) float64 {
	var sum float64
	for i := 0; i < m.Len(); i++ {
		sum += m.Cell(i).Measure()
	}
	return sum
}
