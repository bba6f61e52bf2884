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
	"os"
	"sort"

	"github.com/ctessum/cdf"
)

// Names that identify latitude and longitude dimensions.
var (
	latNames = map[string]bool{"lat": true, "latitude": true, "y": true}
	lonNames = map[string]bool{"lon": true, "longitude": true, "x": true}
)

// VariableInfo describes a variable in a NetCDF file.
type VariableInfo struct {
	Name       string
	Dimensions []string
	Lengths    []int
	Units      string
	LongName   string
}

// Gridded returns whether the variable can be read with ReadNetCDF.
func (v VariableInfo) Gridded() bool {
	n := len(v.Dimensions)
	if n != 2 && n != 3 {
		return false
	}
	return latNames[v.Dimensions[n-2]] && lonNames[v.Dimensions[n-1]]
}

func openNetCDF(path string) (*os.File, *cdf.File, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil, &InputNotFoundError{Path: path, Err: err}
	} else if err != nil {
		return nil, nil, fmt.Errorf("seamap: opening NetCDF file %s: %v", path, err)
	}
	nc, err := cdf.Open(f)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("seamap: opening NetCDF file %s: %v", path, err)
	}
	return f, nc, nil
}

// NetCDFVariables returns information about the variables in a
// NetCDF classic file, sorted by name.
func NetCDFVariables(path string) ([]VariableInfo, error) {
	f, nc, err := openNetCDF(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var o []VariableInfo
	for _, v := range nc.Header.Variables() {
		o = append(o, VariableInfo{
			Name:       v,
			Dimensions: nc.Header.Dimensions(v),
			Lengths:    nc.Header.Lengths(v),
			Units:      stringAttribute(nc, v, "units"),
			LongName:   stringAttribute(nc, v, "long_name"),
		})
	}
	sort.Slice(o, func(i, j int) bool { return o[i].Name < o[j].Name })
	return o, nil
}

// ReadNetCDF reads a gridded variable from a NetCDF classic file.
// The variable must have dimensions [lat, lon] or [time, lat, lon];
// timeIndex selects the time step of 3-D variables. Packed values are
// unpacked using the scale_factor and add_offset attributes, and
// _FillValue and missing_value cells are set to no-data. The 1-D
// coordinate variables give the cell centres, which must be regularly
// spaced.
func ReadNetCDF(path, variable string, timeIndex int) (*Raster, error) {
	f, nc, err := openNetCDF(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h := nc.Header
	if !hasVariable(h.Variables(), variable) {
		avail := h.Variables()
		sort.Strings(avail)
		return nil, &VariableNotFoundError{Path: path, Variable: variable, Available: avail}
	}
	dims := h.Dimensions(variable)
	lengths := h.Lengths(variable)
	nd := len(dims)
	if (nd != 2 && nd != 3) || !latNames[dims[nd-2]] || !lonNames[dims[nd-1]] {
		return nil, fmt.Errorf("seamap: variable %s in %s has dimensions %v but should have [lat, lon] or [time, lat, lon]",
			variable, path, dims)
	}
	ny, nx := lengths[nd-2], lengths[nd-1]

	var begin, end []int
	n := -1
	if nd == 3 {
		nt := lengths[0]
		if h.IsRecordVariable(variable) {
			fi, err := f.Stat()
			if err != nil {
				return nil, fmt.Errorf("seamap: reading %s: %v", path, err)
			}
			nt = int(h.NumRecs(fi.Size()))
		}
		if timeIndex < 0 || timeIndex >= nt {
			return nil, fmt.Errorf("seamap: time index %d of variable %s in %s is out of range [0, %d)",
				timeIndex, variable, path, nt)
		}
		begin = []int{timeIndex, 0, 0}
		end = []int{timeIndex, ny - 1, nx - 1}
		n = nx * ny
	}
	data, err := readNetCDFVar(nc, variable, begin, end, n)
	if err != nil {
		return nil, fmt.Errorf("seamap: reading variable %s from %s: %v", variable, path, err)
	}
	if len(data) != nx*ny {
		return nil, fmt.Errorf("seamap: reading variable %s from %s: read %d values but expected %d",
			variable, path, len(data), nx*ny)
	}

	lats, err := readCoordinate(nc, dims[nd-2], ny)
	if err != nil {
		return nil, fmt.Errorf("seamap: reading %s: %v", path, err)
	}
	lons, err := readCoordinate(nc, dims[nd-1], nx)
	if err != nil {
		return nil, fmt.Errorf("seamap: reading %s: %v", path, err)
	}
	dy, err := gridSpacing(lats)
	if err != nil {
		return nil, fmt.Errorf("seamap: reading %s: coordinate %s: %v", path, dims[nd-2], err)
	}
	dx, err := gridSpacing(lons)
	if err != nil {
		return nil, fmt.Errorf("seamap: reading %s: coordinate %s: %v", path, dims[nd-1], err)
	}

	r := &Raster{
		Name: variable,
		Nx:   nx,
		Ny:   ny,
		Dx:   math.Abs(dx),
		Dy:   math.Abs(dy),
		Data: data,
		SR:   LongLat,
	}
	// Row 0 must be the northern-most row and column 0 the western-most.
	if dy > 0 {
		flipRows(r)
	}
	if dx < 0 {
		flipColumns(r)
	}
	r.X0 = math.Min(lons[0], lons[nx-1]) - r.Dx/2
	r.Y0 = math.Max(lats[0], lats[ny-1]) + r.Dy/2
	r.Extent = r.GridBounds()
	return r, r.Check()
}

// readNetCDFVar reads a numeric variable and converts it to float64,
// applying the CF packing and missing value attributes.
func readNetCDFVar(nc *cdf.File, v string, begin, end []int, n int) ([]float64, error) {
	r := nc.Reader(v, begin, end)
	if r == nil {
		return nil, fmt.Errorf("variable %s does not exist", v)
	}
	dataI := r.Zero(n)
	if _, ok := dataI.(string); ok {
		return nil, fmt.Errorf("variable %s is not numeric", v)
	}
	if _, err := r.Read(dataI); err != nil {
		return nil, err
	}
	data := toFloat64s(dataI)
	if data == nil {
		return nil, fmt.Errorf("variable %s has unsupported type %T", v, dataI)
	}

	var missing []float64
	for _, a := range []string{"_FillValue", "missing_value"} {
		missing = append(missing, floatAttribute(nc, v, a)...)
	}
	scale, offset := 1., 0.
	if s := floatAttribute(nc, v, "scale_factor"); len(s) > 0 {
		scale = s[0]
	}
	if o := floatAttribute(nc, v, "add_offset"); len(o) > 0 {
		offset = o[0]
	}
	for i, d := range data {
		for _, m := range missing {
			if d == m || float32(d) == float32(m) {
				d = math.NaN()
				break
			}
		}
		data[i] = d*scale + offset
	}
	return data, nil
}

func hasVariable(vars []string, v string) bool {
	for _, n := range vars {
		if n == v {
			return true
		}
	}
	return false
}

func readCoordinate(nc *cdf.File, dim string, n int) ([]float64, error) {
	l := nc.Header.Lengths(dim)
	if !hasVariable(nc.Header.Variables(), dim) || len(l) != 1 || l[0] != n {
		return nil, fmt.Errorf("missing coordinate variable %s of length %d", dim, n)
	}
	c, err := readNetCDFVar(nc, dim, nil, nil, -1)
	if err != nil {
		return nil, err
	}
	for _, v := range c {
		if math.IsNaN(v) {
			return nil, fmt.Errorf("coordinate variable %s contains missing values", dim)
		}
	}
	return c, nil
}

// gridSpacing returns the signed spacing between coordinates, which
// must be regular to within 1%.
func gridSpacing(c []float64) (float64, error) {
	if len(c) < 2 {
		return 0, fmt.Errorf("need at least 2 grid points but have %d", len(c))
	}
	d := (c[len(c)-1] - c[0]) / float64(len(c)-1)
	if d == 0 {
		return 0, fmt.Errorf("grid spacing is zero")
	}
	for i := 1; i < len(c); i++ {
		if math.Abs((c[i]-c[i-1])-d) > 0.01*math.Abs(d) {
			return 0, fmt.Errorf("grid points are not regularly spaced")
		}
	}
	return d, nil
}

func flipRows(r *Raster) {
	for j := 0; j < r.Ny/2; j++ {
		a := r.Data[j*r.Nx : (j+1)*r.Nx]
		b := r.Data[(r.Ny-1-j)*r.Nx : (r.Ny-j)*r.Nx]
		for i := range a {
			a[i], b[i] = b[i], a[i]
		}
	}
}

func flipColumns(r *Raster) {
	for j := 0; j < r.Ny; j++ {
		row := r.Data[j*r.Nx : (j+1)*r.Nx]
		for i, k := 0, len(row)-1; i < k; i, k = i+1, k-1 {
			row[i], row[k] = row[k], row[i]
		}
	}
}

func toFloat64s(v interface{}) []float64 {
	switch t := v.(type) {
	case []float64:
		return t
	case []float32:
		o := make([]float64, len(t))
		for i, x := range t {
			o[i] = float64(x)
		}
		return o
	case []int32:
		o := make([]float64, len(t))
		for i, x := range t {
			o[i] = float64(x)
		}
		return o
	case []int16:
		o := make([]float64, len(t))
		for i, x := range t {
			o[i] = float64(x)
		}
		return o
	case []uint8:
		o := make([]float64, len(t))
		for i, x := range t {
			o[i] = float64(x)
		}
		return o
	}
	return nil
}

func floatAttribute(nc *cdf.File, v, a string) []float64 {
	return toFloat64s(nc.Header.GetAttribute(v, a))
}

func stringAttribute(nc *cdf.File, v, a string) string {
	s, _ := nc.Header.GetAttribute(v, a).(string)
	return s
}
