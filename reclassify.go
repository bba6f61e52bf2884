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
)

// Bucket is a reclassification rule: values v with Min <= v < Max
// are replaced with Value. A Bucket whose Max is +Inf also matches +Inf.
// A Value of NaN turns matching cells into no-data.
type Bucket struct {
	Min, Max, Value float64
}

// Contains returns whether v falls in b.
func (b Bucket) Contains(v float64) bool {
	if math.IsInf(b.Max, 1) && math.IsInf(v, 1) {
		return true
	}
	return v >= b.Min && v < b.Max
}

// Reclassify returns a copy of r with each valid cell replaced by the
// Value of the first bucket that contains it. Cells that no bucket
// contains become no-data.
func (r *Raster) Reclassify(buckets []Bucket) (*Raster, error) {
	if len(buckets) == 0 {
		return nil, fmt.Errorf("seamap: reclassifying %s: no buckets", r.Name)
	}
	for i, b := range buckets {
		if math.IsNaN(b.Min) || math.IsNaN(b.Max) || b.Min >= b.Max {
			return nil, fmt.Errorf("seamap: reclassifying %s: bucket %d has invalid bounds [%g, %g)",
				r.Name, i, b.Min, b.Max)
		}
	}
	o := r.Copy()
	for i, v := range o.Data {
		if math.IsNaN(v) {
			continue
		}
		o.Data[i] = math.NaN()
		for _, b := range buckets {
			if b.Contains(v) {
				o.Data[i] = b.Value
				break
			}
		}
	}
	return o, nil
}
