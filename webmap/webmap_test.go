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
	"encoding/json"
	"image/color"
	"image/png"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/seamap/seamap"
)

var (
	black = color.NRGBA{A: 255}
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

func testOverlay(t *testing.T, rows [][]float64) *seamap.Overlay {
	r, err := seamap.NewRasterFromRows(rows, seamap.Extent{MinX: -10, MaxX: 10, MinY: 40, MaxY: 50}, seamap.LongLat)
	if err != nil {
		t.Fatal(err)
	}
	o := &seamap.OverlayRenderer{
		Name:   "sst",
		Group:  "Temperature",
		Colors: []color.Color{black, white},
	}
	ov, err := o.Render(r)
	if err != nil {
		t.Fatal(err)
	}
	return ov
}

func decodeDataURI(t *testing.T, uri string) []byte {
	const prefix = "data:image/png;base64,"
	if !strings.HasPrefix(uri, prefix) {
		t.Fatalf("%.40s is not a PNG data URI", uri)
	}
	b, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, prefix))
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestAddOverlay(t *testing.T) {
	nan := math.NaN()
	ov := testOverlay(t, [][]float64{{0, 1}, {nan, 0.5}})
	d := NewDocument("test")
	if err := d.AddOverlay(ov, 0.7); err != nil {
		t.Fatal(err)
	}
	if len(d.Overlays) != 1 {
		t.Fatalf("have %d overlays, want 1", len(d.Overlays))
	}
	o := d.Overlays[0]
	wantBounds := LatLngBounds{SouthWest: LatLng{Lat: 40, Lng: -10}, NorthEast: LatLng{Lat: 50, Lng: 10}}
	if o.Bounds != wantBounds {
		t.Errorf("bounds: have %+v, want %+v", o.Bounds, wantBounds)
	}
	if o.Name != "sst" || o.Group != "Temperature" || o.Opacity != 0.7 {
		t.Errorf("have %+v", o)
	}

	img, err := png.Decode(bytes.NewReader(decodeDataURI(t, o.Image)))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 2 || b.Dy() != 2 {
		t.Fatalf("image size %v, want 2x2", b)
	}
	for _, test := range []struct {
		x, y int
		want color.NRGBA
	}{
		{0, 0, black},
		{1, 0, white},
		{0, 1, color.NRGBA{}},
	} {
		have := color.NRGBAModel.Convert(img.At(test.x, test.y)).(color.NRGBA)
		if have != test.want {
			t.Errorf("pixel (%d, %d): have %v, want %v", test.x, test.y, have, test.want)
		}
	}

	if !o.Legend.Gradient || o.Legend.Title != "sst" {
		t.Errorf("legend: have %+v", o.Legend)
	}
	if len(o.Legend.Entries) != seamap.LegendTicks {
		t.Fatalf("have %d legend entries, want %d", len(o.Legend.Entries), seamap.LegendTicks)
	}
	if e := o.Legend.Entries[0]; e.Label != "0" || e.Color != "#000000" {
		t.Errorf("first legend entry: have %+v", e)
	}
	if _, err := png.Decode(bytes.NewReader(decodeDataURI(t, o.Legend.ColorBar))); err != nil {
		t.Errorf("colour bar: %v", err)
	}
}

func TestAddOverlayDegenerate(t *testing.T) {
	ov := testOverlay(t, [][]float64{{3, 3}})
	d := NewDocument("test")
	if err := d.AddOverlay(ov, 1); err != nil {
		t.Fatal(err)
	}
	l := d.Overlays[0].Legend
	if l.ColorBar != "" {
		t.Error("a single-valued overlay should not have a colour bar")
	}
	if len(l.Entries) != 1 || l.Entries[0].Label != "3" {
		t.Errorf("have %+v", l.Entries)
	}
}

func TestAddOverlayErrors(t *testing.T) {
	d := NewDocument("test")
	ov := testOverlay(t, [][]float64{{0, 1}})
	if err := d.AddOverlay(ov, 1.5); err == nil {
		t.Error("expected an opacity error")
	}
	if err := d.AddOverlay(&seamap.Overlay{Name: "empty"}, 1); err == nil {
		t.Error("expected an error for an unrendered overlay")
	}
	if len(d.Overlays) != 0 {
		t.Errorf("have %d overlays, want 0", len(d.Overlays))
	}
}

func TestAddStations(t *testing.T) {
	d := NewDocument("test")
	err := d.AddStations("Stations", []seamap.Station{
		{ID: "A", Lat: 45, Lon: 300, Category: "TARA"},
		{ID: "B", Lat: -10, Lon: 20},
	})
	if err != nil {
		t.Fatal(err)
	}
	g := d.Markers[0]
	if g.Name != "Stations" || len(g.Markers) != 2 {
		t.Fatalf("have %+v", g)
	}
	want := Marker{ID: "A", Position: LatLng{Lat: 45, Lng: -60}, Color: seamap.Green,
		Popup: seamap.Station{ID: "A", Lat: 45, Lon: 300, Category: "TARA"}.Popup()}
	if !reflect.DeepEqual(g.Markers[0], want) {
		t.Errorf("have %+v, want %+v", g.Markers[0], want)
	}
	if g.Markers[1].Color != seamap.Red {
		t.Errorf("uncategorised marker colour %s, want red", g.Markers[1].Color)
	}

	f := g.GeoJSON.Features[1]
	if f.Geometry.Type != "Point" || !reflect.DeepEqual(f.Geometry.Coordinates, []float64{20, -10}) {
		t.Errorf("have geometry %+v", f.Geometry)
	}
	if f.Properties["category"] != seamap.UnknownCategory {
		t.Errorf("have category %q", f.Properties["category"])
	}

	if err := d.AddStations("bad", []seamap.Station{{ID: "C", Lat: 100}}); err == nil {
		t.Error("expected an error for an invalid station")
	}
}

func TestControls(t *testing.T) {
	d := NewDocument("test")
	for _, typ := range []string{ScaleControl, MiniMapControl, MeasureControl, ResetControl, LocateControl} {
		if d.Control(typ) == nil {
			t.Errorf("missing %s control", typ)
		}
	}
	if d.Control("compass") != nil {
		t.Error("unexpected compass control")
	}
}

func TestFitBounds(t *testing.T) {
	d := NewDocument("test")
	d.FitBounds()
	if d.Center != (LatLng{}) || d.Zoom != 2 {
		t.Errorf("empty document view changed to %v, %d", d.Center, d.Zoom)
	}
	if err := d.AddOverlay(testOverlay(t, [][]float64{{0, 1}}), 1); err != nil {
		t.Fatal(err)
	}
	if err := d.AddStations("s", []seamap.Station{{ID: "A", Lat: 60, Lon: 10}}); err != nil {
		t.Fatal(err)
	}
	d.FitBounds()
	if want := (LatLng{Lat: 50, Lng: 0}); d.Center != want {
		t.Errorf("center: have %v, want %v", d.Center, want)
	}
	if d.Zoom < 2 || d.Zoom > 6 {
		t.Errorf("zoom %d is not reasonable for a 20 by 20 degree region", d.Zoom)
	}
	if c := d.Control(ResetControl); c.Options["zoom"] != d.Zoom {
		t.Errorf("reset control options %v", c.Options)
	}
}

func TestWriteJSON(t *testing.T) {
	d := NewDocument("Cruise 2019")
	if err := d.AddStations("s", []seamap.Station{{ID: "A", Lat: 1, Lon: 2}}); err != nil {
		t.Fatal(err)
	}
	b := new(bytes.Buffer)
	if err := d.WriteJSON(b); err != nil {
		t.Fatal(err)
	}
	var have map[string]interface{}
	if err := json.Unmarshal(b.Bytes(), &have); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"title", "center", "zoom", "baseLayers", "overlays", "markers", "controls"} {
		if _, ok := have[k]; !ok {
			t.Errorf("missing key %s", k)
		}
	}
	if have["title"] != "Cruise 2019" {
		t.Errorf("title: have %v", have["title"])
	}
}
