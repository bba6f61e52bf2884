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

// Package seamap turns gridded oceanographic data (sea-surface temperature,
// chlorophyll, bathymetry) and sampling-station tables into colourised,
// georeferenced overlays for a slippy-map viewer.
package seamap

import (
	"fmt"
	"math"

	"github.com/ctessum/geom"
)

// Version gives the version number.
const Version = "0.3.0"

// Spatial references used by the renderer.
const (
	// LongLat is the geographic spatial reference most gridded ocean
	// products are distributed in.
	LongLat = "+proj=longlat +datum=WGS84 +no_defs"

	// WebMercator is the spatial reference of slippy-map tiles.
	WebMercator = "+proj=merc +a=6378137 +b=6378137 +lat_ts=0.0 +lon_0=0.0 +x_0=0.0 +y_0=0 +k=1.0 +units=m +no_defs"
)

// srAliases maps commonly used codes to proj4 definitions.
var srAliases = map[string]string{
	"EPSG:4326":   LongLat,
	"WGS84":       LongLat,
	"EPSG:3857":   WebMercator,
	"EPSG:900913": WebMercator,
}

// Extent is an axis-aligned bounding box in the units of a spatial
// reference.
type Extent struct {
	MinX, MaxX, MinY, MaxY float64
}

// Valid returns whether min < max on both axes.
func (e Extent) Valid() bool {
	return e.MinX < e.MaxX && e.MinY < e.MaxY
}

// Width returns the east-west size of e.
func (e Extent) Width() float64 { return e.MaxX - e.MinX }

// Height returns the north-south size of e.
func (e Extent) Height() float64 { return e.MaxY - e.MinY }

// Intersection returns the overlap of e and o. ok is false
// if the overlap has no area.
func (e Extent) Intersection(o Extent) (ix Extent, ok bool) {
	ix = Extent{
		MinX: math.Max(e.MinX, o.MinX),
		MaxX: math.Min(e.MaxX, o.MaxX),
		MinY: math.Max(e.MinY, o.MinY),
		MaxY: math.Min(e.MaxY, o.MaxY),
	}
	return ix, ix.Valid()
}

// Overlaps returns whether e and o share a region with non-zero area.
func (e Extent) Overlaps(o Extent) bool {
	_, ok := e.Intersection(o)
	return ok
}

// Contains returns whether the point (x, y) lies within e,
// including its edges.
func (e Extent) Contains(x, y float64) bool {
	return x >= e.MinX && x <= e.MaxX && y >= e.MinY && y <= e.MaxY
}

// Bounds converts e to a geometry bounding box.
func (e Extent) Bounds() *geom.Bounds {
	return &geom.Bounds{
		Min: geom.Point{X: e.MinX, Y: e.MinY},
		Max: geom.Point{X: e.MaxX, Y: e.MaxY},
	}
}

// ExtentFromBounds converts a geometry bounding box to an Extent.
func ExtentFromBounds(b *geom.Bounds) Extent {
	return Extent{MinX: b.Min.X, MaxX: b.Max.X, MinY: b.Min.Y, MaxY: b.Max.Y}
}

func (e Extent) String() string {
	return fmt.Sprintf("(%g, %g, %g, %g)", e.MinX, e.MaxX, e.MinY, e.MaxY)
}

// NoData returns the value used to mark cells without a valid
// measurement.
func NoData() float64 { return math.NaN() }

// IsNoData returns whether v marks a cell without a valid measurement.
func IsNoData(v float64) bool { return math.IsNaN(v) }

// Raster is a regular grid of cell values.
//
// Cell (i, j) is column i counted from the west and row j counted
// from the north, so that the data are laid out the way an image is.
// The grid is anchored at its north-west corner (X0, Y0) and has
// cells of size Dx by Dy. Extent is the region the data are valid in;
// it lies within the grid bounds and is smaller than them after a
// crop that does not fall on cell edges.
type Raster struct {
	// Name is the variable the raster was read from.
	Name string

	Nx, Ny int
	X0, Y0 float64
	Dx, Dy float64

	// Data holds Nx*Ny values in row-major order. No-data cells are NaN.
	Data []float64

	Extent Extent

	// SR is the spatial reference in proj4 or WKT format.
	SR string
}

// NewRaster returns a raster filled with no-data that
// exactly covers e with nx by ny cells.
func NewRaster(nx, ny int, e Extent, sr string) *Raster {
	r := &Raster{
		Nx:     nx,
		Ny:     ny,
		X0:     e.MinX,
		Y0:     e.MaxY,
		Dx:     e.Width() / float64(nx),
		Dy:     e.Height() / float64(ny),
		Data:   make([]float64, nx*ny),
		Extent: e,
		SR:     sr,
	}
	for i := range r.Data {
		r.Data[i] = math.NaN()
	}
	return r
}

// NewRasterFromRows creates a raster from rows of data ordered
// from north to south.
func NewRasterFromRows(rows [][]float64, e Extent, sr string) (*Raster, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("seamap: creating raster: no data")
	}
	r := NewRaster(len(rows[0]), len(rows), e, sr)
	for j, row := range rows {
		if len(row) != r.Nx {
			return nil, fmt.Errorf("seamap: creating raster: row %d has %d values but row 0 has %d",
				j, len(row), r.Nx)
		}
		copy(r.Data[j*r.Nx:(j+1)*r.Nx], row)
	}
	return r, r.Check()
}

// Check makes sure the raster is internally consistent.
func (r *Raster) Check() error {
	if r.Nx <= 0 || r.Ny <= 0 {
		return fmt.Errorf("seamap: raster %s has invalid dimensions %dx%d", r.Name, r.Nx, r.Ny)
	}
	if len(r.Data) != r.Nx*r.Ny {
		return fmt.Errorf("seamap: raster %s has %d values but should have %d",
			r.Name, len(r.Data), r.Nx*r.Ny)
	}
	if !(r.Dx > 0) || !(r.Dy > 0) {
		return fmt.Errorf("seamap: raster %s has invalid resolution %gx%g", r.Name, r.Dx, r.Dy)
	}
	if !r.Extent.Valid() {
		return fmt.Errorf("seamap: raster %s has invalid extent %v", r.Name, r.Extent)
	}
	g := r.GridBounds()
	const tol = 1e-9
	if r.Extent.MinX < g.MinX-tol*r.Dx || r.Extent.MaxX > g.MaxX+tol*r.Dx ||
		r.Extent.MinY < g.MinY-tol*r.Dy || r.Extent.MaxY > g.MaxY+tol*r.Dy {
		return fmt.Errorf("seamap: raster %s extent %v is outside of its grid %v", r.Name, r.Extent, g)
	}
	return nil
}

// GridBounds returns the outer edges of the grid cells.
func (r *Raster) GridBounds() Extent {
	return Extent{
		MinX: r.X0,
		MaxX: r.X0 + float64(r.Nx)*r.Dx,
		MinY: r.Y0 - float64(r.Ny)*r.Dy,
		MaxY: r.Y0,
	}
}

// At returns the value of cell (i, j).
func (r *Raster) At(i, j int) float64 { return r.Data[j*r.Nx+i] }

// Set sets the value of cell (i, j).
func (r *Raster) Set(i, j int, v float64) { r.Data[j*r.Nx+i] = v }

// CellCenter returns the coordinates of the center of cell (i, j).
func (r *Raster) CellCenter(i, j int) (x, y float64) {
	return r.X0 + (float64(i)+0.5)*r.Dx, r.Y0 - (float64(j)+0.5)*r.Dy
}

// Index returns the cell containing the point (x, y). ok is false
// if the point is outside of the grid.
func (r *Raster) Index(x, y float64) (i, j int, ok bool) {
	fi := math.Floor((x - r.X0) / r.Dx)
	fj := math.Floor((r.Y0 - y) / r.Dy)
	// Points on the far edges belong to the last cell.
	if fi == float64(r.Nx) && x <= r.X0+float64(r.Nx)*r.Dx {
		fi--
	}
	if fj == float64(r.Ny) && y >= r.Y0-float64(r.Ny)*r.Dy {
		fj--
	}
	if fi < 0 || fj < 0 || fi >= float64(r.Nx) || fj >= float64(r.Ny) {
		return 0, 0, false
	}
	return int(fi), int(fj), true
}

// Copy returns a deep copy of r.
func (r *Raster) Copy() *Raster {
	o := *r
	o.Data = make([]float64, len(r.Data))
	copy(o.Data, r.Data)
	return &o
}

// empty returns a raster with the same geometry as r, filled with no-data.
func (r *Raster) empty() *Raster {
	o := *r
	o.Data = make([]float64, len(r.Data))
	for i := range o.Data {
		o.Data[i] = math.NaN()
	}
	return &o
}

// Values returns the valid (not no-data) values in r.
func (r *Raster) Values() []float64 {
	o := make([]float64, 0, len(r.Data))
	for _, v := range r.Data {
		if !math.IsNaN(v) {
			o = append(o, v)
		}
	}
	return o
}

// Range returns the minimum and maximum finite values in r.
// ok is false if r contains no finite values.
func (r *Raster) Range() (min, max float64, ok bool) {
	return valueRange(r.Data)
}

// valueRange returns the minimum and maximum of the finite values in vals.
func valueRange(vals []float64) (min, max float64, ok bool) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		ok = true
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if !ok {
		return math.NaN(), math.NaN(), false
	}
	return min, max, true
}

// NumNoData returns the number of no-data cells in r.
func (r *Raster) NumNoData() int {
	var n int
	for _, v := range r.Data {
		if math.IsNaN(v) {
			n++
		}
	}
	return n
}
