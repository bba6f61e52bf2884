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
	"image/color"
	"math"
	"strconv"
)

// LegendTicks is the number of labelled entries in the legend of a
// continuous colour mapping.
const LegendTicks = 5

// LabelTransform converts a value from the units of the mapped data
// to the units shown in a legend. It is only ever applied to legend
// labels.
type LabelTransform func(float64) float64

// Identity returns v unchanged.
func Identity(v float64) float64 { return v }

// InverseLog10Labels returns a label transform that undoes Log10(epsilon).
func InverseLog10Labels(epsilon float64) LabelTransform {
	return LabelTransform(InverseLog10(epsilon))
}

// RoundLabels returns a label transform that rounds to the given
// number of decimal digits.
func RoundLabels(digits int) LabelTransform {
	p := math.Pow(10, float64(digits))
	return func(v float64) float64 { return math.Round(v*p) / p }
}

// LegendEntry is a labelled colour in a legend.
type LegendEntry struct {
	Label string
	Color color.NRGBA
}

// Legend describes a colour mapping for display.
type Legend struct {
	Title   string
	Entries []LegendEntry

	// Gradient is true if the colours vary continuously between
	// the entries.
	Gradient bool

	// Ticks are the labelled positions along a colour bar drawn
	// for Mapping.
	Ticks []LegendTick

	Mapping *ColorMapping
}

// LegendTick is a labelled value on a colour bar.
type LegendTick struct {
	Value float64
	Label string
}

// NewLegend creates a legend for m. Labels are created by applying t
// to the domain values or bucket edges of m; m is not modified.
// A nil t is the same as Identity.
func NewLegend(m *ColorMapping, title string, t LabelTransform) *Legend {
	if t == nil {
		t = Identity
	}
	l := &Legend{Title: title, Mapping: m}
	switch {
	case m.Kind() == Binned:
		colors := m.BinColors()
		for i := 0; i < len(m.breaks)-1; i++ {
			l.Entries = append(l.Entries, LegendEntry{
				Label: fmt.Sprintf("%s to %s", FormatLabel(t(m.breaks[i])), FormatLabel(t(m.breaks[i+1]))),
				Color: color.NRGBAModel.Convert(colors[i]).(color.NRGBA),
			})
		}
		for _, b := range m.breaks {
			l.Ticks = append(l.Ticks, LegendTick{Value: b, Label: FormatLabel(t(b))})
		}
	case m.Degenerate():
		l.Entries = []LegendEntry{{Label: FormatLabel(t(m.Min())), Color: m.Color(m.Min())}}
		l.Ticks = []LegendTick{{Value: m.Min(), Label: l.Entries[0].Label}}
	default:
		l.Gradient = true
		for i := 0; i < LegendTicks; i++ {
			v := m.Min() + float64(i)*(m.Max()-m.Min())/float64(LegendTicks-1)
			if i == LegendTicks-1 {
				v = m.Max()
			}
			l.Entries = append(l.Entries, LegendEntry{Label: FormatLabel(t(v)), Color: m.Color(v)})
			l.Ticks = append(l.Ticks, LegendTick{Value: v, Label: l.Entries[i].Label})
		}
	}
	return l
}

// FormatLabel formats v with up to 6 significant digits.
func FormatLabel(v float64) string {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	a := math.Abs(v)
	if a >= 1e6 || a < 1e-4 {
		return strconv.FormatFloat(v, 'g', 3, 64)
	}
	p := math.Pow(10, 5-math.Floor(math.Log10(a)))
	return strconv.FormatFloat(math.Round(v*p)/p, 'f', -1, 64)
}
