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
	"bufio"
	"fmt"
	"io"
	"io/ioutil"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ReadASCIIGrid reads an ESRI ASCII grid file. If a file with the same
// name and the extension .prj exists, it is read as the spatial
// reference of the grid; otherwise the grid is assumed to be in
// longitude and latitude.
func ReadASCIIGrid(path string) (*Raster, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, &InputNotFoundError{Path: path, Err: err}
	} else if err != nil {
		return nil, fmt.Errorf("seamap: opening ASCII grid %s: %v", path, err)
	}
	defer f.Close()
	r, err := DecodeASCIIGrid(f)
	if err != nil {
		return nil, fmt.Errorf("seamap: reading ASCII grid %s: %v", path, err)
	}
	r.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	prj := strings.TrimSuffix(path, filepath.Ext(path)) + ".prj"
	if b, err := ioutil.ReadFile(prj); err == nil {
		r.SR = strings.TrimSpace(string(b))
	}
	return r, nil
}

// DecodeASCIIGrid decodes an ESRI ASCII grid.
func DecodeASCIIGrid(rd io.Reader) (*Raster, error) {
	s := bufio.NewScanner(rd)
	s.Buffer(make([]byte, 64*1024), 1024*1024)
	s.Split(bufio.ScanWords)

	hdr := make(map[string]float64)
	var first string
	for s.Scan() {
		key := strings.ToLower(s.Text())
		if _, err := strconv.ParseFloat(key, 64); err == nil {
			first = key
			break
		}
		if !s.Scan() {
			return nil, fmt.Errorf("missing value for header %s", key)
		}
		v, err := strconv.ParseFloat(s.Text(), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value for header %s: %v", key, err)
		}
		hdr[key] = v
	}
	if err := s.Err(); err != nil {
		return nil, err
	}

	nx, ny := int(hdr["ncols"]), int(hdr["nrows"])
	if nx <= 0 || ny <= 0 {
		return nil, fmt.Errorf("invalid grid size %dx%d", nx, ny)
	}
	dx, dy := hdr["cellsize"], hdr["cellsize"]
	if v, ok := hdr["dx"]; ok {
		dx = v
	}
	if v, ok := hdr["dy"]; ok {
		dy = v
	}
	if !(dx > 0) || !(dy > 0) {
		return nil, fmt.Errorf("invalid cell size %gx%g", dx, dy)
	}
	var x0, y0 float64
	switch {
	case has(hdr, "xllcorner") && has(hdr, "yllcorner"):
		x0, y0 = hdr["xllcorner"], hdr["yllcorner"]
	case has(hdr, "xllcenter") && has(hdr, "yllcenter"):
		x0, y0 = hdr["xllcenter"]-dx/2, hdr["yllcenter"]-dy/2
	default:
		return nil, fmt.Errorf("missing lower-left corner coordinates")
	}
	noData, hasNoData := hdr["nodata_value"]

	e := Extent{MinX: x0, MaxX: x0 + float64(nx)*dx, MinY: y0, MaxY: y0 + float64(ny)*dy}
	r := NewRaster(nx, ny, e, LongLat)
	r.Dx, r.Dy = dx, dy

	i := 0
	parse := func(w string) error {
		if i >= len(r.Data) {
			return fmt.Errorf("more than %d values", len(r.Data))
		}
		v, err := strconv.ParseFloat(w, 64)
		if err != nil {
			return fmt.Errorf("invalid value at cell %d: %v", i, err)
		}
		if hasNoData && v == noData {
			v = math.NaN()
		}
		r.Data[i] = v
		i++
		return nil
	}
	if first != "" {
		if err := parse(first); err != nil {
			return nil, err
		}
	}
	for s.Scan() {
		if err := parse(s.Text()); err != nil {
			return nil, err
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	if i != len(r.Data) {
		return nil, fmt.Errorf("read %d values but expected %d", i, len(r.Data))
	}
	return r, r.Check()
}

func has(m map[string]float64, k string) bool {
	_, ok := m[k]
	return ok
}
