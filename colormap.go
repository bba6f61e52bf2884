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
	"sort"

	"gonum.org/v1/plot/palette"
)

// MappingKind specifies how values are assigned colours.
type MappingKind int

const (
	// Continuous mappings interpolate smoothly between palette colours
	// across the value domain.
	Continuous MappingKind = iota
	// Binned mappings assign one discrete colour per bucket.
	Binned
)

func (k MappingKind) String() string {
	switch k {
	case Continuous:
		return "continuous"
	case Binned:
		return "binned"
	default:
		return fmt.Sprintf("MappingKind(%d)", int(k))
	}
}

// ParseMappingKind returns the mapping kind with the given name.
func ParseMappingKind(s string) (MappingKind, error) {
	switch s {
	case "continuous", "":
		return Continuous, nil
	case "binned":
		return Binned, nil
	default:
		return Continuous, fmt.Errorf("seamap: invalid mapping kind %q; valid options are 'continuous' and 'binned'", s)
	}
}

// ColorMapping assigns colours to raster values. No-data values are
// assigned a transparent colour. ColorMapping implements
// palette.ColorMap so it can be drawn as a colour bar.
type ColorMapping struct {
	kind     MappingKind
	colors   []color.NRGBA
	min, max float64
	alpha    float64
	noData   color.NRGBA

	// Binned mappings only.
	bins      int
	breaks    []float64
	binColors []color.NRGBA
	explicit  bool

	domainSet bool
}

// MappingOption configures a ColorMapping.
type MappingOption func(*ColorMapping) error

// WithDomain sets the value domain instead of computing it from the data.
func WithDomain(min, max float64) MappingOption {
	return func(m *ColorMapping) error {
		if !finite(min) || !finite(max) || min > max {
			return fmt.Errorf("seamap: invalid colour domain [%g, %g]", min, max)
		}
		m.min, m.max = min, max
		m.domainSet = true
		return nil
	}
}

// WithBins sets the number of evenly sized buckets of a binned mapping.
// By default there is one bucket per palette colour.
func WithBins(n int) MappingOption {
	return func(m *ColorMapping) error {
		if n < 1 {
			return fmt.Errorf("seamap: invalid number of colour bins %d", n)
		}
		m.bins = n
		return nil
	}
}

// WithBreaks sets explicit bucket edges for a binned mapping. The
// edges must be strictly increasing. They also set the domain.
func WithBreaks(breaks ...float64) MappingOption {
	return func(m *ColorMapping) error {
		if len(breaks) < 2 {
			return fmt.Errorf("seamap: need at least 2 colour breaks but have %d", len(breaks))
		}
		for i, b := range breaks {
			if !finite(b) {
				return fmt.Errorf("seamap: colour break %g is not finite", b)
			}
			if i > 0 && !(b > breaks[i-1]) {
				return fmt.Errorf("seamap: colour breaks %v are not strictly increasing", breaks)
			}
		}
		m.breaks = append([]float64(nil), breaks...)
		m.bins = len(breaks) - 1
		m.min, m.max = breaks[0], breaks[len(breaks)-1]
		m.explicit = true
		m.domainSet = true
		return nil
	}
}

// WithNoDataColor sets the colour no-data values are assigned.
// The default is fully transparent.
func WithNoDataColor(c color.Color) MappingOption {
	return func(m *ColorMapping) error {
		m.noData = color.NRGBAModel.Convert(c).(color.NRGBA)
		return nil
	}
}

// NewColorMapping creates a colour mapping from palette colours.
// Unless a domain or breaks are given as options, the domain is the
// range of the valid values.
func NewColorMapping(values []float64, colors []color.Color, kind MappingKind, opts ...MappingOption) (*ColorMapping, error) {
	if len(colors) == 0 {
		return nil, fmt.Errorf("seamap: creating colour mapping: no palette colours")
	}
	if kind != Continuous && kind != Binned {
		return nil, fmt.Errorf("seamap: creating colour mapping: invalid kind %v", kind)
	}
	m := &ColorMapping{
		kind:   kind,
		colors: make([]color.NRGBA, len(colors)),
		alpha:  1,
	}
	for i, c := range colors {
		m.colors[i] = color.NRGBAModel.Convert(c).(color.NRGBA)
	}
	for _, o := range opts {
		if err := o(m); err != nil {
			return nil, err
		}
	}
	if !m.domainSet {
		min, max, ok := valueRange(values)
		if !ok {
			return nil, fmt.Errorf("seamap: creating colour mapping: no finite values")
		}
		m.min, m.max = min, max
	}
	if kind == Binned {
		if m.bins == 0 {
			m.bins = len(colors)
		}
		m.setupBins()
	}
	return m, nil
}

func (m *ColorMapping) setupBins() {
	if !m.explicit {
		m.breaks = make([]float64, m.bins+1)
		for i := range m.breaks {
			m.breaks[i] = m.min + float64(i)*(m.max-m.min)/float64(m.bins)
		}
		m.breaks[m.bins] = m.max
	}
	m.binColors = make([]color.NRGBA, m.bins)
	if len(m.colors) == m.bins {
		copy(m.binColors, m.colors)
		return
	}
	for i := range m.binColors {
		var t float64
		if m.bins > 1 {
			t = float64(i) / float64(m.bins-1)
		}
		m.binColors[i] = m.interpolate(t)
	}
}

// Kind returns the kind of the mapping.
func (m *ColorMapping) Kind() MappingKind { return m.kind }

// Breaks returns the bucket edges of a binned mapping, or the
// domain bounds of a continuous mapping.
func (m *ColorMapping) Breaks() []float64 {
	if m.kind == Binned {
		return append([]float64(nil), m.breaks...)
	}
	return []float64{m.min, m.max}
}

// BinColors returns the colour of each bucket of a binned mapping.
func (m *ColorMapping) BinColors() []color.Color {
	o := make([]color.Color, len(m.binColors))
	for i, c := range m.binColors {
		o[i] = m.applyAlpha(c)
	}
	return o
}

// NoDataColor returns the colour no-data values are assigned.
func (m *ColorMapping) NoDataColor() color.Color { return m.noData }

// Degenerate returns whether the domain has zero width, in which case
// every valid value is assigned the first colour.
func (m *ColorMapping) Degenerate() bool { return m.max == m.min }

// Color returns the colour for v. Values outside of the domain,
// including infinities, are assigned the colour of the nearest
// domain bound.
func (m *ColorMapping) Color(v float64) color.NRGBA {
	if math.IsNaN(v) {
		return m.noData
	}
	if m.kind == Binned {
		return m.applyAlpha(m.binColors[m.bin(v)])
	}
	if m.Degenerate() {
		return m.applyAlpha(m.colors[0])
	}
	var t float64
	switch {
	case math.IsInf(v, 1):
		t = 1
	case math.IsInf(v, -1):
		t = 0
	default:
		t = (v - m.min) / (m.max - m.min)
	}
	return m.applyAlpha(m.interpolate(t))
}

// bin returns the bucket index for v: breaks[i] <= v < breaks[i+1],
// with the last bucket closed. Out-of-domain values are clamped.
func (m *ColorMapping) bin(v float64) int {
	if m.Degenerate() || v < m.breaks[0] {
		return 0
	}
	i := sort.Search(m.bins, func(i int) bool { return m.breaks[i+1] > v })
	if i >= m.bins {
		return m.bins - 1
	}
	return i
}

// interpolate returns the palette colour at fraction t of the way
// through the palette, interpolating linearly between control colours.
func (m *ColorMapping) interpolate(t float64) color.NRGBA {
	n := len(m.colors)
	if n == 1 || t <= 0 || math.IsNaN(t) {
		return m.colors[0]
	}
	if t >= 1 {
		return m.colors[n-1]
	}
	f := t * float64(n-1)
	i := int(f)
	if i >= n-1 {
		return m.colors[n-1]
	}
	frac := f - float64(i)
	c1, c2 := m.colors[i], m.colors[i+1]
	lerp := func(a, b uint8) uint8 {
		return uint8(math.Round(float64(a) + frac*(float64(b)-float64(a))))
	}
	return color.NRGBA{R: lerp(c1.R, c2.R), G: lerp(c1.G, c2.G), B: lerp(c1.B, c2.B), A: lerp(c1.A, c2.A)}
}

func (m *ColorMapping) applyAlpha(c color.NRGBA) color.NRGBA {
	if m.alpha < 1 {
		c.A = uint8(math.Round(float64(c.A) * m.alpha))
	}
	return c
}

// At implements palette.ColorMap. It returns palette.ErrUnderflow or
// palette.ErrOverflow, along with the clamped colour, for values
// outside of the domain.
func (m *ColorMapping) At(v float64) (color.Color, error) {
	c := m.Color(v)
	switch {
	case v < m.min:
		return c, palette.ErrUnderflow
	case v > m.max:
		return c, palette.ErrOverflow
	}
	return c, nil
}

// Min implements palette.ColorMap.
func (m *ColorMapping) Min() float64 { return m.min }

// Max implements palette.ColorMap.
func (m *ColorMapping) Max() float64 { return m.max }

// SetMin implements palette.ColorMap.
func (m *ColorMapping) SetMin(v float64) {
	m.min = v
	m.resetBins()
}

// SetMax implements palette.ColorMap.
func (m *ColorMapping) SetMax(v float64) {
	m.max = v
	m.resetBins()
}

func (m *ColorMapping) resetBins() {
	if m.kind == Binned && !m.explicit && m.min <= m.max {
		m.setupBins()
	}
}

// Alpha implements palette.ColorMap.
func (m *ColorMapping) Alpha() float64 { return m.alpha }

// SetAlpha implements palette.ColorMap. alpha must be in the range [0, 1].
func (m *ColorMapping) SetAlpha(alpha float64) {
	m.alpha = math.Max(0, math.Min(1, alpha))
}

// Palette implements palette.ColorMap, returning n colours for values
// evenly spaced across the domain.
func (m *ColorMapping) Palette(n int) palette.Palette {
	o := make(colorList, n)
	for i := range o {
		v := m.min
		if n > 1 {
			v = m.min + float64(i)*(m.max-m.min)/float64(n-1)
		}
		o[i] = m.Color(v)
	}
	return o
}

type colorList []color.Color

func (c colorList) Colors() []color.Color { return c }
