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
	"errors"
	"math"
	"math/rand"
	"testing"
)

func rowRaster(t *testing.T, vals ...float64) *Raster {
	r, err := NewRasterFromRows([][]float64{vals}, Extent{MinX: 0, MaxX: float64(len(vals)), MinY: 0, MaxY: 1}, LongLat)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestTransformLog10Finite(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))
	vals := []float64{0, 1e-300, 1, 1e300}
	for i := 0; i < 100; i++ {
		vals = append(vals, rnd.ExpFloat64()*10)
	}
	r := rowRaster(t, vals...)
	for _, eps := range []float64{1e-6, 0.01, 1} {
		o, err := r.Transform("log10", Log10(eps))
		if err != nil {
			t.Errorf("epsilon %g: %v", eps, err)
		}
		for i, v := range o.Data {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Errorf("epsilon %g: log10(%g) is not finite", eps, vals[i])
			}
		}
	}
}

func TestTransformHealsNonFinite(t *testing.T) {
	r := rowRaster(t, -1, 0, 1, math.NaN(), 100)
	o, err := r.Transform("log10", Log10(0))
	var de *DomainError
	if !errors.As(err, &de) {
		t.Fatalf("have error %v, want *DomainError", err)
	}
	if de.Healed != 2 || de.Op != "log10" {
		t.Errorf("domain error: have %+v, want Op log10 and Healed 2", de)
	}
	if o == nil {
		t.Fatal("result should be returned along with a domain error")
	}
	want := []float64{math.NaN(), math.NaN(), 0, math.NaN(), 2}
	if !floatsEqual(o.Data, want, 1e-12) {
		t.Errorf("have %v, want %v", o.Data, want)
	}
	if r.Data[0] != -1 {
		t.Error("transform modified its input")
	}
}

func TestTransformInverse(t *testing.T) {
	r := rowRaster(t, 0, 0.05, 1.5, 30)
	const eps = 0.01
	l, err := r.Transform("log10", Log10(eps))
	if err != nil {
		t.Fatal(err)
	}
	back, err := l.Transform("inverse log10", InverseLog10(eps))
	if err != nil {
		t.Fatal(err)
	}
	if !floatsEqual(back.Data, r.Data, 1e-12) {
		t.Errorf("have %v, want %v", back.Data, r.Data)
	}
	twice, _ := l.Transform("log10", Log10(eps))
	if floatsEqual(twice.Data, l.Data, 1e-6) {
		t.Error("log10 should not be idempotent")
	}
}

func TestRescale(t *testing.T) {
	r := rowRaster(t, 0, 5, math.NaN(), 10)
	o, err := r.Transform("rescale", Rescale(0, 10, -100, 0))
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{-100, -50, math.NaN(), 0}
	if !floatsEqual(o.Data, want, 1e-12) {
		t.Errorf("have %v, want %v", o.Data, want)
	}
	if v := Rescale(3, 3, 7, 9)(3); v != 7 {
		t.Errorf("degenerate range: have %g, want 7", v)
	}
}

func TestExpression(t *testing.T) {
	tests := []struct {
		name   string
		expr   string
		params map[string]float64
		in     []float64
		want   []float64
		healed int
	}{
		{
			name:   "log10",
			expr:   "log10(x + eps)",
			params: map[string]float64{"eps": 0.01},
			in:     []float64{0.99, 9.99},
			want:   []float64{0, 1},
		},
		{
			name: "normalize",
			expr: "(x - min) / (max - min)",
			in:   []float64{2, 4, math.NaN(), 6},
			want: []float64{0, 0.5, math.NaN(), 1},
		},
		{
			name: "functions",
			expr: "sqrt(abs(x)) + pow(x, 2) - exp(0) + log(1)",
			in:   []float64{-4, 3},
			want: []float64{17, 9.732050807568877},
		},
		{
			name:   "non-finite",
			expr:   "log(x)",
			in:     []float64{-1, 0, 1},
			want:   []float64{math.NaN(), math.NaN(), 0},
			healed: 2,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			e, err := NewExpression(test.expr, test.params)
			if err != nil {
				t.Fatal(err)
			}
			r := rowRaster(t, test.in...)
			o, err := ExpressionStep(e)(r)
			var de *DomainError
			if test.healed > 0 {
				if !errors.As(err, &de) || de.Healed != test.healed {
					t.Errorf("have error %v, want %d healed cells", err, test.healed)
				}
			} else if err != nil {
				t.Fatal(err)
			}
			if !floatsEqual(o.Data, test.want, 1e-12) {
				t.Errorf("have %v, want %v", o.Data, test.want)
			}
		})
	}
}

func TestExpressionErrors(t *testing.T) {
	if _, err := NewExpression("x + depth", nil); err == nil {
		t.Error("undefined variable should cause an error")
	}
	if _, err := NewExpression("x +* 2", nil); err == nil {
		t.Error("invalid syntax should cause an error")
	}
}
