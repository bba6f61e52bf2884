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

// Rotate converts a raster with longitudes in the range 0 to 360
// to the range -180 to 180. Rasters lying entirely east of 180°
// are shifted; rasters spanning the whole globe have their columns
// rolled so that the western hemisphere comes first. Other rasters
// are returned unchanged.
func (r *Raster) Rotate() *Raster {
	g := r.GridBounds()
	switch {
	case r.Extent.MinX >= 180:
		o := r.Copy()
		o.X0 -= 360
		o.Extent.MinX -= 360
		o.Extent.MaxX -= 360
		return o
	case g.MaxX > 180 && math.Abs(g.Width()-360) < r.Dx/2:
		// First column whose centre is east of 180°.
		c := int(math.Ceil((180-r.X0)/r.Dx - 0.5))
		if c <= 0 || c >= r.Nx {
			return r.Copy()
		}
		o := r.Copy()
		for j := 0; j < r.Ny; j++ {
			row := r.Data[j*r.Nx : (j+1)*r.Nx]
			dst := o.Data[j*r.Nx : (j+1)*r.Nx]
			n := copy(dst, row[c:])
			copy(dst[n:], row[:c])
		}
		o.X0 = r.X0 + float64(c)*r.Dx - 360
		b := o.GridBounds()
		o.Extent.MinX, o.Extent.MaxX = b.MinX, b.MaxX
		return o
	default:
		return r.Copy()
	}
}
