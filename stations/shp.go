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

package stations

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	"github.com/ctessum/geom/proj"
	"github.com/seamap/seamap"
)

// readShapefile reads stations from a point shapefile. Points are
// converted to longitude and latitude if the shapefile has a
// .prj file.
func readShapefile(path string) (*Table, error) {
	d, err := shp.NewDecoder(path)
	if err != nil {
		return nil, err
	}
	defer d.Close()

	var ct proj.Transformer
	if src, err := d.SR(); err == nil {
		dst, err := seamap.ParseSR(seamap.LongLat)
		if err != nil {
			return nil, err
		}
		if ct, err = src.NewTransform(dst); err != nil {
			return nil, err
		}
	}

	var names []string
	for _, f := range d.Fields() {
		names = append(names, string(bytes.Trim(f.Name[:], "\x00")))
	}
	h := newHeader(names)
	var fields []string
	for c := range h {
		if h[c] >= 0 {
			fields = append(fields, names[h[c]])
		}
	}

	t := new(Table)
	for rowNum := 1; ; rowNum++ {
		g, vals, more := d.DecodeRowFields(fields...)
		if !more {
			break
		}
		row := make([]string, len(names))
		for _, n := range fields {
			row[indexOf(names, n)] = vals[n]
		}
		var s seamap.Station
		s.ID = h.get(row, ID)
		if s.ID == "" {
			s.ID = fmt.Sprintf("row %d", rowNum)
		}
		s.Category = h.get(row, Category)
		s.Date = h.get(row, Date)
		s.Note = h.get(row, Note)

		p, ok := g.(geom.Point)
		if !ok {
			t.reject(rowNum, fmt.Sprintf("geometry is %T, not a point", g))
			continue
		}
		if ct != nil {
			if p.X, p.Y, err = ct(p.X, p.Y); err != nil {
				t.reject(rowNum, fmt.Sprintf("converting coordinates: %v", err))
				continue
			}
		}
		s.Lon, s.Lat = p.X, p.Y
		t.addStation(s, rowNum)
	}
	if err := d.Error(); err != nil {
		return nil, err
	}
	return t, nil
}

func indexOf(names []string, n string) int {
	for i, v := range names {
		if strings.EqualFold(v, n) {
			return i
		}
	}
	return -1
}
