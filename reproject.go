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

import (
	"fmt"
	"math"

	"github.com/ctessum/geom/proj"
)

// Interpolation is a method for sampling a raster at arbitrary points.
type Interpolation int

const (
	// Nearest uses the value of the cell containing the point.
	Nearest Interpolation = iota
	// Bilinear interpolates between the centres of the four cells
	// surrounding the point.
	Bilinear
)

func (m Interpolation) String() string {
	switch m {
	case Nearest:
		return "nearest"
	case Bilinear:
		return "bilinear"
	default:
		return fmt.Sprintf("Interpolation(%d)", int(m))
	}
}

// ParseInterpolation returns the interpolation method with the given name.
func ParseInterpolation(s string) (Interpolation, error) {
	switch s {
	case "nearest", "":
		return Nearest, nil
	case "bilinear":
		return Bilinear, nil
	default:
		return Nearest, fmt.Errorf("seamap: invalid interpolation method %q; valid options are 'nearest' and 'bilinear'", s)
	}
}

// ParseSR parses a spatial reference in proj4 or WKT format, or one
// of the codes EPSG:4326, WGS84, EPSG:3857 or EPSG:900913. An
// *UnsupportedCRSError is returned if the spatial reference cannot be
// parsed or no transformation is available for its projection.
func ParseSR(code string) (*proj.SR, error) {
	def := code
	if d, ok := srAliases[code]; ok {
		def = d
	}
	sr, err := proj.Parse(def)
	if err != nil {
		return nil, &UnsupportedCRSError{SR: code, Err: err}
	}
	if _, _, err = sr.Transformers(); err != nil {
		return nil, &UnsupportedCRSError{SR: code, Err: err}
	}
	return sr, nil
}

// edgeSamples is the number of points sampled along each edge of an
// extent when transforming it.
const edgeSamples = 50

// TransformExtent returns the smallest extent in the to spatial
// reference that contains e, which is in the from spatial reference.
func TransformExtent(e Extent, from, to string) (Extent, error) {
	src, err := ParseSR(from)
	if err != nil {
		return Extent{}, err
	}
	dst, err := ParseSR(to)
	if err != nil {
		return Extent{}, err
	}
	if src.Equal(dst, 3) {
		return e, nil
	}
	ct, err := src.NewTransform(dst)
	if err != nil {
		return Extent{}, &UnsupportedCRSError{SR: to, Err: err}
	}
	if src.Name == "longlat" {
		ct = wrapForward(ct)
	}
	return transformExtent(e, ct)
}

// wrapForward returns a transform from geographic coordinates that
// first moves longitudes outside of -180 to 180 into that range, as
// most projections reject them.
func wrapForward(ct proj.Transformer) proj.Transformer {
	return func(x, y float64) (float64, float64, error) {
		if x > 180 || x < -180 {
			x = math.Mod(x+180, 360)
			if x < 0 {
				x += 360
			}
			x -= 180
		}
		return ct(x, y)
	}
}

func transformExtent(e Extent, ct proj.Transformer) (Extent, error) {
	o := Extent{MinX: math.Inf(1), MaxX: math.Inf(-1), MinY: math.Inf(1), MaxY: math.Inf(-1)}
	add := func(x, y float64) {
		tx, ty, err := ct(x, y)
		if err != nil || !finite(tx) || !finite(ty) {
			return
		}
		o.MinX = math.Min(o.MinX, tx)
		o.MaxX = math.Max(o.MaxX, tx)
		o.MinY = math.Min(o.MinY, ty)
		o.MaxY = math.Max(o.MaxY, ty)
	}
	for k := 0; k <= edgeSamples; k++ {
		f := float64(k) / edgeSamples
		x := e.MinX + f*e.Width()
		y := e.MinY + f*e.Height()
		add(x, e.MinY)
		add(x, e.MaxY)
		add(e.MinX, y)
		add(e.MaxX, y)
	}
	if !o.Valid() {
		return o, fmt.Errorf("seamap: extent %v could not be transformed", e)
	}
	return o, nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Reproject returns r resampled onto a regular grid in the targetSR
// spatial reference. The new grid covers the transformed extent of r
// and has as many cells as r has within its extent. Points
// outside of the extent of r are set to no-data. If targetSR is
// equivalent to the spatial reference of r, a copy of r is returned.
func (r *Raster) Reproject(targetSR string, method Interpolation) (*Raster, error) {
	src, err := ParseSR(r.SR)
	if err != nil {
		return nil, err
	}
	dst, err := ParseSR(targetSR)
	if err != nil {
		return nil, err
	}
	if method != Nearest && method != Bilinear {
		return nil, fmt.Errorf("seamap: reprojecting %s: invalid interpolation method %v", r.Name, method)
	}
	if src.Equal(dst, 3) {
		o := r.Copy()
		o.SR = targetSR
		return o, nil
	}
	fwd, err := src.NewTransform(dst)
	if err != nil {
		return nil, &UnsupportedCRSError{SR: targetSR, Err: err}
	}
	geographic := src.Name == "longlat"
	if geographic {
		fwd = wrapForward(fwd)
	}
	inv, err := dst.NewTransform(src)
	if err != nil {
		return nil, &UnsupportedCRSError{SR: r.SR, Err: err}
	}
	te, err := transformExtent(r.Extent, fwd)
	if err != nil {
		return nil, fmt.Errorf("seamap: reprojecting %s: %v", r.Name, err)
	}
	nx := clampInt(ceilSnap(r.Extent.Width()/r.Dx), 1, math.MaxInt32)
	ny := clampInt(ceilSnap(r.Extent.Height()/r.Dy), 1, math.MaxInt32)
	o := NewRaster(nx, ny, te, targetSR)
	o.Name = r.Name

	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			x, y := o.CellCenter(i, j)
			sx, sy, err := inv(x, y)
			if err != nil {
				continue
			}
			if geographic {
				sx = r.wrapLongitude(sx, sy)
			}
			if !r.Extent.Contains(sx, sy) {
				continue
			}
			switch method {
			case Nearest:
				o.Set(i, j, r.nearest(sx, sy))
			case Bilinear:
				o.Set(i, j, r.bilinear(sx, sy))
			}
		}
	}
	return o, nil
}

// wrapLongitude shifts longitude x by a full turn if that moves
// it into the extent of r.
func (r *Raster) wrapLongitude(x, y float64) float64 {
	if r.Extent.Contains(x, y) {
		return x
	}
	for _, s := range []float64{360, -360} {
		if r.Extent.Contains(x+s, y) {
			return x + s
		}
	}
	return x
}

func (r *Raster) nearest(x, y float64) float64 {
	i, j, ok := r.Index(x, y)
	if !ok {
		return math.NaN()
	}
	return r.At(i, j)
}

// bilinear interpolates between cell centres. Points between the
// outermost cell centres and the grid edge take the edge values.
// The result is NaN if any neighbour with a non-zero weight is no-data.
func (r *Raster) bilinear(x, y float64) float64 {
	fx := (x-r.X0)/r.Dx - 0.5
	fy := (r.Y0-y)/r.Dy - 0.5
	i0, tx := neighbor(fx, r.Nx)
	j0, ty := neighbor(fy, r.Ny)
	i1, j1 := i0, j0
	if tx > 0 {
		i1 = i0 + 1
	}
	if ty > 0 {
		j1 = j0 + 1
	}

	v00, v10 := r.At(i0, j0), r.At(i1, j0)
	v01, v11 := r.At(i0, j1), r.At(i1, j1)
	if math.IsNaN(v00) || math.IsNaN(v10) || math.IsNaN(v01) || math.IsNaN(v11) {
		return math.NaN()
	}
	v := (v00*(1-tx)+v10*tx)*(1-ty) + (v01*(1-tx)+v11*tx)*ty
	lo := math.Min(math.Min(v00, v10), math.Min(v01, v11))
	hi := math.Max(math.Max(v00, v10), math.Max(v01, v11))
	return math.Max(lo, math.Min(hi, v))
}

// neighbor returns the lower neighbour index of fractional position f
// in a dimension of length n, and the weight of the upper neighbour.
func neighbor(f float64, n int) (int, float64) {
	i := int(math.Floor(f))
	if i < 0 {
		return 0, 0
	}
	if i >= n-1 {
		return n - 1, 0
	}
	return i, f - float64(i)
}
