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

package webmap

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/seamap/seamap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Legend colour bar image size.
const (
	LegendWidth  = 300
	LegendHeight = 40
)

// Overlay is a toggleable image layer.
type Overlay struct {
	Name  string `json:"name"`
	Group string `json:"group,omitempty"`

	// Image is the overlay as a PNG data URI.
	Image   string       `json:"image"`
	Bounds  LatLngBounds `json:"bounds"`
	Opacity float64      `json:"opacity"`
	Legend  Legend       `json:"legend"`
}

// Legend is the key of an overlay.
type Legend struct {
	Title    string        `json:"title"`
	Gradient bool          `json:"gradient"`
	Entries  []LegendEntry `json:"entries"`

	// ColorBar is a PNG data URI of the colour scale. It is empty
	// if the overlay has a single value.
	ColorBar string `json:"colorBar,omitempty"`
}

// LegendEntry is a labelled colour.
type LegendEntry struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// AddOverlay adds a rendered overlay to d. opacity must be
// within [0, 1].
func (d *Document) AddOverlay(o *seamap.Overlay, opacity float64) error {
	if !(opacity >= 0 && opacity <= 1) {
		return fmt.Errorf("webmap: overlay %s opacity %g is outside of [0, 1]", o.Name, opacity)
	}
	if o.Raster == nil || o.Mapping == nil || o.Legend == nil {
		return fmt.Errorf("webmap: overlay %s has not been rendered", o.Name)
	}
	// The image covers whole grid cells.
	b, err := seamap.TransformExtent(o.Raster.GridBounds(), o.Raster.SR, seamap.LongLat)
	if err != nil {
		return fmt.Errorf("webmap: overlay %s: %v", o.Name, err)
	}
	img, err := EncodePNG(RasterImage(o.Raster, o.Mapping))
	if err != nil {
		return fmt.Errorf("webmap: overlay %s: %v", o.Name, err)
	}
	l := Legend{Title: o.Legend.Title, Gradient: o.Legend.Gradient}
	for _, e := range o.Legend.Entries {
		l.Entries = append(l.Entries, LegendEntry{Label: e.Label, Color: seamap.HexColor(e.Color)})
	}
	if !o.Mapping.Degenerate() {
		if l.ColorBar, err = ColorBar(o.Legend); err != nil {
			return fmt.Errorf("webmap: overlay %s: %v", o.Name, err)
		}
	}
	d.Overlays = append(d.Overlays, Overlay{
		Name:    o.Name,
		Group:   o.Group,
		Image:   img,
		Bounds:  boundsFromExtent(b),
		Opacity: opacity,
		Legend:  l,
	})
	return nil
}

// RasterImage draws r with one pixel per grid cell. No-data cells
// get the no-data colour of m.
func RasterImage(r *seamap.Raster, m *seamap.ColorMapping) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, r.Nx, r.Ny))
	for j := 0; j < r.Ny; j++ {
		for i := 0; i < r.Nx; i++ {
			img.SetNRGBA(i, j, m.Color(r.At(i, j)))
		}
	}
	return img
}

// EncodePNG encodes img as a PNG data URI.
func EncodePNG(img image.Image) (string, error) {
	b := new(bytes.Buffer)
	if err := png.Encode(b, img); err != nil {
		return "", err
	}
	return dataURI(b.Bytes()), nil
}

func dataURI(b []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(b)
}

// ColorBar draws the colour scale of l as a PNG data URI.
func ColorBar(l *seamap.Legend) (string, error) {
	p, err := plot.New()
	if err != nil {
		return "", err
	}
	p.Add(&plotter.ColorBar{ColorMap: l.Mapping})
	p.HideY()
	p.X.Padding = 0
	p.X.Tick.Marker = legendTicks(l.Ticks)

	img := vgimg.New(LegendWidth, LegendHeight)
	dc := draw.New(img)
	p.Draw(dc)
	b := new(bytes.Buffer)
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(b); err != nil {
		return "", err
	}
	return dataURI(b.Bytes()), nil
}

// legendTicks labels a colour bar axis with legend labels.
type legendTicks []seamap.LegendTick

func (lt legendTicks) Ticks(min, max float64) []plot.Tick {
	o := make([]plot.Tick, len(lt))
	for i, t := range lt {
		o[i] = plot.Tick{Value: t.Value, Label: t.Label}
	}
	return o
}
