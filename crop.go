/*
Copyright © 2024 the SeaMap authors.
This file is part of SeaMap.

SeaMap is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

SeaMap is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with SeaMap.  If not, see <http://www.gnu.org/licenses/>.
*/

package seamap

import "math"

// snapTol is the fraction of a cell below which a coordinate is
// treated as lying on a cell edge.
const snapTol = 1e-9

func floorSnap(v float64) int {
	if r := math.Round(v); math.Abs(v-r) < snapTol {
		return int(r)
	}
	return int(math.Floor(v))
}

func ceilSnap(v float64) int {
	if r := math.Round(v); math.Abs(v-r) < snapTol {
		return int(r)
	}
	return int(math.Ceil(v))
}

// Crop returns the part of r that lies within e. The extent of the
// result is the intersection of the extent of r and e. All cells of r
// that overlap the intersection are kept with their values and
// resolution unchanged. An *EmptyResultError is returned if
// e does not overlap r.
func (r *Raster) Crop(e Extent) (*Raster, error) {
	ix, ok := r.Extent.Intersection(e)
	if !ok {
		return nil, &EmptyResultError{Raster: r.Extent, Target: e}
	}
	i0 := floorSnap((ix.MinX - r.X0) / r.Dx)
	i1 := ceilSnap((ix.MaxX - r.X0) / r.Dx)
	j0 := floorSnap((r.Y0 - ix.MaxY) / r.Dy)
	j1 := ceilSnap((r.Y0 - ix.MinY) / r.Dy)
	i0, i1 = clampInt(i0, 0, r.Nx-1), clampInt(i1, 1, r.Nx)
	j0, j1 = clampInt(j0, 0, r.Ny-1), clampInt(j1, 1, r.Ny)
	if i1 <= i0 || j1 <= j0 {
		return nil, &EmptyResultError{Raster: r.Extent, Target: e}
	}

	o := &Raster{
		Name:   r.Name,
		Nx:     i1 - i0,
		Ny:     j1 - j0,
		X0:     r.X0 + float64(i0)*r.Dx,
		Y0:     r.Y0 - float64(j0)*r.Dy,
		Dx:     r.Dx,
		Dy:     r.Dy,
		Extent: ix,
		SR:     r.SR,
	}
	o.Data = make([]float64, 0, o.Nx*o.Ny)
	for j := j0; j < j1; j++ {
		o.Data = append(o.Data, r.Data[j*r.Nx+i0:j*r.Nx+i1]...)
	}
	return o, nil
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
