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

// Package webmap assembles rendered overlays and station markers into
// the description of an interactive web map. The description is
// written as JSON for a map widget to display.
package webmap

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/seamap/seamap"
)

// LatLng is a geographic position in degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// LatLngBounds is a geographic bounding box in degrees.
type LatLngBounds struct {
	SouthWest LatLng `json:"southWest"`
	NorthEast LatLng `json:"northEast"`
}

func boundsFromExtent(e seamap.Extent) LatLngBounds {
	return LatLngBounds{
		SouthWest: LatLng{Lat: e.MinY, Lng: e.MinX},
		NorthEast: LatLng{Lat: e.MaxY, Lng: e.MaxX},
	}
}

func (b LatLngBounds) extent() seamap.Extent {
	return seamap.Extent{MinX: b.SouthWest.Lng, MaxX: b.NorthEast.Lng, MinY: b.SouthWest.Lat, MaxY: b.NorthEast.Lat}
}

// TileLayer is a base map made of image tiles.
type TileLayer struct {
	Name string `json:"name"`

	// URL is the tile URL template, e.g.
	// https://tile.openstreetmap.org/{z}/{x}/{y}.png.
	URL         string `json:"url"`
	Attribution string `json:"attribution,omitempty"`
	MaxZoom     int    `json:"maxZoom,omitempty"`
}

// DefaultBaseLayer is the base map used when none is configured.
var DefaultBaseLayer = TileLayer{
	Name:        "OpenStreetMap",
	URL:         "https://tile.openstreetmap.org/{z}/{x}/{y}.png",
	Attribution: "&copy; OpenStreetMap contributors",
	MaxZoom:     19,
}

// Control is a fixed user interface element of the map.
type Control struct {
	Type     string                 `json:"type"`
	Position string                 `json:"position,omitempty"`
	Options  map[string]interface{} `json:"options,omitempty"`
}

// Control types.
const (
	ScaleControl   = "scale"
	MiniMapControl = "minimap"
	MeasureControl = "measure"
	ResetControl   = "reset"
	LocateControl  = "locate"
	LayersControl  = "layers"
)

// Document is the description of an interactive web map.
type Document struct {
	Title      string        `json:"title"`
	Center     LatLng        `json:"center"`
	Zoom       int           `json:"zoom"`
	BaseLayers []TileLayer   `json:"baseLayers"`
	Overlays   []Overlay     `json:"overlays"`
	Markers    []MarkerGroup `json:"markers"`
	Controls   []Control     `json:"controls"`
}

// NewDocument returns a document with the default base layer and
// the fixed map controls: a scale bar, an overview inset map, a
// distance and area measurement tool, a view reset button, a
// geolocation button and a layer switcher.
func NewDocument(title string) *Document {
	return &Document{
		Title:      title,
		Zoom:       2,
		BaseLayers: []TileLayer{DefaultBaseLayer},
		Controls: []Control{
			{Type: ScaleControl, Position: "bottomleft", Options: map[string]interface{}{"metric": true, "imperial": false}},
			{Type: MiniMapControl, Position: "bottomright", Options: map[string]interface{}{"toggleDisplay": true}},
			{Type: MeasureControl, Position: "topleft", Options: map[string]interface{}{
				"primaryLengthUnit": "kilometers",
				"primaryAreaUnit":   "sqkilometers",
			}},
			{Type: ResetControl, Position: "topleft"},
			{Type: LocateControl, Position: "topleft"},
			{Type: LayersControl, Position: "topright", Options: map[string]interface{}{"collapsed": false}},
		},
	}
}

// Control returns the control of type typ, or nil if
// the document does not have one.
func (d *Document) Control(typ string) *Control {
	for i := range d.Controls {
		if d.Controls[i].Type == typ {
			return &d.Controls[i]
		}
	}
	return nil
}

// SetBaseLayers replaces the base layers of d.
func (d *Document) SetBaseLayers(layers ...TileLayer) { d.BaseLayers = layers }

// FitBounds centres the view on the overlays and markers in d and picks
// a zoom level that shows all of them. d is unchanged if it has
// neither.
func (d *Document) FitBounds() {
	e, ok := d.bounds()
	if !ok {
		return
	}
	d.Center = LatLng{Lat: (e.MinY + e.MaxY) / 2, Lng: (e.MinX + e.MaxX) / 2}
	d.Zoom = zoomFor(e)
	if c := d.Control(ResetControl); c != nil {
		c.Options = map[string]interface{}{"center": d.Center, "zoom": d.Zoom}
	}
}

func (d *Document) bounds() (seamap.Extent, bool) {
	e := seamap.Extent{MinX: math.Inf(1), MaxX: math.Inf(-1), MinY: math.Inf(1), MaxY: math.Inf(-1)}
	ok := false
	grow := func(x, y float64) {
		ok = true
		e.MinX, e.MaxX = math.Min(e.MinX, x), math.Max(e.MaxX, x)
		e.MinY, e.MaxY = math.Min(e.MinY, y), math.Max(e.MaxY, y)
	}
	for _, o := range d.Overlays {
		b := o.Bounds.extent()
		grow(b.MinX, b.MinY)
		grow(b.MaxX, b.MaxY)
	}
	for _, g := range d.Markers {
		for _, m := range g.Markers {
			grow(m.Position.Lng, m.Position.Lat)
		}
	}
	return e, ok
}

// zoomFor returns the largest slippy-map zoom level at which e fits
// in a view of about 1000 by 600 pixels.
func zoomFor(e seamap.Extent) int {
	const maxZoom = 18
	const tile = 256.0
	w := math.Max(e.Width(), 1e-6)
	h := math.Max(e.Height(), 1e-6)
	zx := math.Log2(1000 * 360 / (w * tile))
	zy := math.Log2(600 * 170 / (h * tile))
	z := int(math.Floor(math.Min(zx, zy)))
	if z < 0 {
		return 0
	}
	if z > maxZoom {
		return maxZoom
	}
	return z
}

// WriteJSON writes d to w as indented JSON.
func (d *Document) WriteJSON(w io.Writer) error {
	e := json.NewEncoder(w)
	e.SetIndent("", "  ")
	if err := e.Encode(d); err != nil {
		return fmt.Errorf("webmap: writing document: %v", err)
	}
	return nil
}
