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
	"fmt"

	"github.com/tealeg/xlsx"
)

func readXLSX(path string, opts Options) (*Table, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, err
	}
	var sheet *xlsx.Sheet
	if opts.Sheet == "" {
		if len(f.Sheets) == 0 {
			return nil, fmt.Errorf("no worksheets")
		}
		sheet = f.Sheets[0]
	} else {
		var ok bool
		if sheet, ok = f.Sheet[opts.Sheet]; !ok {
			return nil, fmt.Errorf("missing worksheet %s", opts.Sheet)
		}
	}
	if len(sheet.Rows) == 0 {
		return nil, fmt.Errorf("worksheet %s is empty", sheet.Name)
	}
	h := newHeader(rowValues(sheet.Rows[0]))
	if err := h.require(Latitude, Longitude); err != nil {
		return nil, err
	}
	t := new(Table)
	for i, r := range sheet.Rows[1:] {
		row := rowValues(r)
		if blank(row) {
			continue
		}
		t.add(h, row, i+2)
	}
	return t, nil
}

func rowValues(r *xlsx.Row) []string {
	if r == nil {
		return nil
	}
	o := make([]string, len(r.Cells))
	for i, c := range r.Cells {
		o[i] = c.Value
	}
	return o
}
