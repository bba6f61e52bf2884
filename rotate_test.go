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
	"reflect"
	"testing"
)

func TestRotate(t *testing.T) {
	tests := []struct {
		name   string
		e      Extent
		data   []float64
		want   []float64
		wantE  Extent
		wantX0 float64
	}{
		{
			name:   "east",
			e:      Extent{MinX: 200, MaxX: 240, MinY: 0, MaxY: 10},
			data:   []float64{1, 2},
			want:   []float64{1, 2},
			wantE:  Extent{MinX: -160, MaxX: -120, MinY: 0, MaxY: 10},
			wantX0: -160,
		},
		{
			name:   "global",
			e:      Extent{MinX: 0, MaxX: 360, MinY: -90, MaxY: 90},
			data:   []float64{1, 2, 3, 4},
			want:   []float64{3, 4, 1, 2},
			wantE:  Extent{MinX: -180, MaxX: 180, MinY: -90, MaxY: 90},
			wantX0: -180,
		},
		{
			name:   "already rotated",
			e:      Extent{MinX: -10, MaxX: 10, MinY: 0, MaxY: 10},
			data:   []float64{1, 2},
			want:   []float64{1, 2},
			wantE:  Extent{MinX: -10, MaxX: 10, MinY: 0, MaxY: 10},
			wantX0: -10,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r, err := NewRasterFromRows([][]float64{test.data}, test.e, LongLat)
			if err != nil {
				t.Fatal(err)
			}
			o := r.Rotate()
			if !reflect.DeepEqual(o.Data, test.want) {
				t.Errorf("data: have %v, want %v", o.Data, test.want)
			}
			if o.Extent != test.wantE {
				t.Errorf("extent: have %v, want %v", o.Extent, test.wantE)
			}
			if o.X0 != test.wantX0 {
				t.Errorf("X0: have %g, want %g", o.X0, test.wantX0)
			}
			if err := o.Check(); err != nil {
				t.Error(err)
			}
		})
	}
}
