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
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
)

// paletteSamples is the number of control colours taken from
// gonum color maps.
const paletteSamples = 16

func fromColorMap(cm palette.ColorMap) []color.Color {
	cm.SetMin(0)
	cm.SetMax(1)
	return cm.Palette(paletteSamples).Colors()
}

func rgb(vals ...uint8) []color.Color {
	o := make([]color.Color, len(vals)/3)
	for i := range o {
		o[i] = color.NRGBA{R: vals[3*i], G: vals[3*i+1], B: vals[3*i+2], A: 255}
	}
	return o
}

var namedPalettes = map[string]func() []color.Color{
	"blackbody":         func() []color.Color { return fromColorMap(moreland.BlackBody()) },
	"extendedblackbody": func() []color.Color { return fromColorMap(moreland.ExtendedBlackBody()) },
	"kindlmann":         func() []color.Color { return fromColorMap(moreland.Kindlmann()) },
	"extendedkindlmann": func() []color.Color { return fromColorMap(moreland.ExtendedKindlmann()) },
	"smoothbluered":     func() []color.Color { return fromColorMap(moreland.SmoothBlueRed()) },
	"heat":              func() []color.Color { return palette.Heat(paletteSamples, 1).Colors() },
	"rainbow": func() []color.Color {
		return palette.Rainbow(paletteSamples, 2./3, 0, 1, 1, 1).Colors()
	},
	"viridis": func() []color.Color {
		return rgb(68, 1, 84, 72, 35, 116, 64, 67, 135, 52, 94, 141, 41, 120, 142,
			32, 144, 140, 34, 167, 132, 68, 190, 112, 121, 209, 81, 189, 222, 38, 253, 231, 37)
	},
	"plasma": func() []color.Color {
		return rgb(13, 8, 135, 75, 3, 161, 125, 3, 168, 168, 34, 150, 203, 70, 121,
			229, 107, 93, 248, 148, 65, 253, 195, 40, 240, 249, 33)
	},
	"inferno": func() []color.Color {
		return rgb(0, 0, 4, 40, 11, 84, 101, 21, 110, 159, 42, 99, 212, 72, 66,
			245, 125, 21, 250, 193, 39, 252, 255, 164)
	},
	"magma": func() []color.Color {
		return rgb(0, 0, 4, 28, 16, 68, 79, 18, 123, 129, 37, 129, 181, 54, 122,
			229, 80, 100, 251, 135, 97, 254, 194, 135, 252, 253, 191)
	},
	"blues": func() []color.Color {
		return rgb(247, 251, 255, 222, 235, 247, 198, 219, 239, 158, 202, 225, 107, 174, 214,
			66, 146, 198, 33, 113, 181, 8, 81, 156, 8, 48, 107)
	},
}

// PaletteNames returns the names of the built-in palettes.
func PaletteNames() []string {
	o := make([]string, 0, len(namedPalettes))
	for n := range namedPalettes {
		o = append(o, n)
	}
	sort.Strings(o)
	return o
}

// Palette returns the control colours of a palette. name is either
// the name of a built-in palette or a comma-separated list of
// hexadecimal colours such as "#08306b,#6baed6,#f7fbff".
// If reverse is true the colour order is reversed.
func Palette(name string, reverse bool) ([]color.Color, error) {
	var colors []color.Color
	if f, ok := namedPalettes[strings.ToLower(strings.TrimSpace(name))]; ok {
		colors = f()
	} else if strings.HasPrefix(strings.TrimSpace(name), "#") {
		for _, s := range strings.Split(name, ",") {
			c, err := ParseHexColor(s)
			if err != nil {
				return nil, err
			}
			colors = append(colors, c)
		}
	} else {
		return nil, fmt.Errorf("seamap: invalid palette %q; valid options are %v or a list of hex colours",
			name, PaletteNames())
	}
	if reverse {
		for i, j := 0, len(colors)-1; i < j; i, j = i+1, j-1 {
			colors[i], colors[j] = colors[j], colors[i]
		}
	}
	return colors, nil
}

// ParseHexColor parses a colour in the format #rrggbb or #rrggbbaa.
func ParseHexColor(s string) (color.NRGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 && len(s) != 8 {
		return color.NRGBA{}, fmt.Errorf("seamap: invalid colour %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("seamap: invalid colour %q: %v", s, err)
	}
	if len(s) == 6 {
		v = v<<8 | 0xff
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// HexColor formats c as #rrggbb, or #rrggbbaa if it is not opaque.
func HexColor(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A)
}
