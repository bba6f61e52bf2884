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
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

func readCSV(path string, opts Options) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decodeCSV(f, opts)
}

func decodeCSV(rd io.Reader, opts Options) (*Table, error) {
	r := csv.NewReader(rd)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	if opts.Comma != 0 {
		r.Comma = opts.Comma
	}
	names, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty table")
	} else if err != nil {
		return nil, err
	}
	h := newHeader(names)
	if err := h.require(Latitude, Longitude); err != nil {
		return nil, err
	}
	t := new(Table)
	for rowNum := 2; ; rowNum++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		if blank(row) {
			continue
		}
		t.add(h, row, rowNum)
	}
	return t, nil
}

func blank(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}
