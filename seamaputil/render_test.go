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

package seamaputil

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/ioutil"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/seamap/seamap"
	"github.com/seamap/seamap/webmap"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

const testGrid = `ncols 4
nrows 2
xllcorner -10
yllcorner 40
cellsize 5
NODATA_value -9999
1 2 3 4
5 6 -9999 8
`

const testStations = `id,lat,lon,category
A,45,-5,TARA
B,47,5,TREC
C,91,0,TARA
`

func writeTestFiles(t *testing.T) (dir string) {
	dir, err := ioutil.TempDir("", "seamaputil")
	if err != nil {
		t.Fatal(err)
	}
	for name, contents := range map[string]string{
		"grid.asc":     testGrid,
		"stations.csv": testStations,
	} {
		if err := ioutil.WriteFile(filepath.Join(dir, name), []byte(contents), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func testRenderConfig(dir string) *RenderConfig {
	return &RenderConfig{
		OutputFile:   filepath.Join(dir, "out.json"),
		Title:        "test",
		StationFile:  filepath.Join(dir, "stations.csv"),
		StationGroup: "Stations",
		Region:       seamap.Extent{MinX: -180, MaxX: 360, MinY: -90, MaxY: 90},
		DisplaySR:    "EPSG:4326",
		Opacity:      0.5,
		CacheSize:    2,
		Layers: []LayerConfig{
			{Name: "depth", File: filepath.Join(dir, "grid.asc")},
			{Name: "zones", File: filepath.Join(dir, "grid.asc"), Kind: "binned", Bins: 2, Palette: "blues"},
		},
	}
}

func TestRender(t *testing.T) {
	dir := writeTestFiles(t)
	defer os.RemoveAll(dir)
	c := testRenderConfig(dir)
	log, hook := test.NewNullLogger()

	if err := Render(context.Background(), c, log); err != nil {
		t.Fatal(err)
	}
	b, err := ioutil.ReadFile(c.OutputFile)
	if err != nil {
		t.Fatal(err)
	}
	var d webmap.Document
	if err := json.Unmarshal(b, &d); err != nil {
		t.Fatal(err)
	}
	if len(d.Overlays) != 2 {
		t.Fatalf("have %d overlays, want 2", len(d.Overlays))
	}
	want := webmap.LatLngBounds{
		SouthWest: webmap.LatLng{Lat: 40, Lng: -10},
		NorthEast: webmap.LatLng{Lat: 50, Lng: 10},
	}
	if d.Overlays[0].Bounds != want {
		t.Errorf("bounds: have %+v, want %+v", d.Overlays[0].Bounds, want)
	}
	if l := d.Overlays[1].Legend; len(l.Entries) != 2 || l.Entries[0].Label != "1 to 4.5" {
		t.Errorf("binned legend: have %+v", l.Entries)
	}
	if len(d.Markers) != 1 || len(d.Markers[0].Markers) != 2 {
		t.Fatalf("have markers %+v, want 2 in one group", d.Markers)
	}
	if d.Markers[0].Markers[1].Color != seamap.Orange {
		t.Errorf("TREC marker colour: have %s", d.Markers[0].Markers[1].Color)
	}

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Data["row"] == 4 {
			warned = true
		}
	}
	if !warned {
		t.Error("the rejected station was not logged")
	}
}

func TestRenderMissingLayer(t *testing.T) {
	dir := writeTestFiles(t)
	defer os.RemoveAll(dir)
	c := testRenderConfig(dir)
	c.Layers[1].File = filepath.Join(dir, "missing.asc")
	log, _ := test.NewNullLogger()

	err := Render(context.Background(), c, log)
	var nf *seamap.InputNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("have %v, want InputNotFoundError", err)
	}
	if !strings.Contains(err.Error(), "zones") {
		t.Errorf("error %q does not name the layer", err)
	}
	if _, err := os.Stat(c.OutputFile); !os.IsNotExist(err) {
		t.Error("output file should not be written when a layer fails")
	}
}

// mercatorGrid covers about 71.9W to 26.9W and 40.9N to 66.5N.
const mercatorGrid = `ncols 2
nrows 2
xllcorner -8000000
yllcorner 5000000
cellsize 2500000
NODATA_value -9999
1 2
3 4
`

func TestRenderProjectedGrid(t *testing.T) {
	dir := writeTestFiles(t)
	defer os.RemoveAll(dir)
	for name, contents := range map[string]string{
		"mercator.asc": mercatorGrid,
		"mercator.prj": seamap.WebMercator,
	} {
		if err := ioutil.WriteFile(filepath.Join(dir, name), []byte(contents), 0644); err != nil {
			t.Fatal(err)
		}
	}
	c := testRenderConfig(dir)
	c.StationFile = ""
	c.Region = seamap.Extent{MinX: -65, MaxX: -38, MinY: 50, MaxY: 68}
	c.Layers = []LayerConfig{{Name: "sst", File: filepath.Join(dir, "mercator.asc")}}
	log, _ := test.NewNullLogger()

	if err := Render(context.Background(), c, log); err != nil {
		t.Fatal(err)
	}
	b, err := ioutil.ReadFile(c.OutputFile)
	if err != nil {
		t.Fatal(err)
	}
	var d webmap.Document
	if err := json.Unmarshal(b, &d); err != nil {
		t.Fatal(err)
	}
	if len(d.Overlays) != 1 {
		t.Fatalf("have %d overlays, want 1", len(d.Overlays))
	}
	bounds := d.Overlays[0].Bounds
	near := func(a, b float64) bool { return math.Abs(a-b) < 1e-6 }
	if !near(bounds.SouthWest.Lng, -65) || !near(bounds.NorthEast.Lng, -38) || !near(bounds.SouthWest.Lat, 50) {
		t.Errorf("bounds: have %+v, want the region clipped to the grid", bounds)
	}
	// The grid ends south of the region.
	if lat := bounds.NorthEast.Lat; lat < 66 || lat > 67 {
		t.Errorf("northern edge: have %g, want about 66.5", lat)
	}
}

func TestRasterCache(t *testing.T) {
	dir := writeTestFiles(t)
	defer os.RemoveAll(dir)
	c := NewRasterCache(1)
	path := filepath.Join(dir, "grid.asc")
	r1, err := c.Raster(context.Background(), path, "", 0)
	if err != nil {
		t.Fatal(err)
	}
	r1.Set(0, 0, 100)
	r2, err := c.Raster(context.Background(), path, "", 0)
	if err != nil {
		t.Fatal(err)
	}
	if r2.At(0, 0) != 1 {
		t.Errorf("cached raster was modified: have %g, want 1", r2.At(0, 0))
	}
	if _, err := c.Raster(context.Background(), filepath.Join(dir, "grid.tif"), "", 0); err == nil {
		t.Error("expected an error for an unsupported file")
	}
}

func TestInspect(t *testing.T) {
	dir := writeTestFiles(t)
	defer os.RemoveAll(dir)
	b := new(bytes.Buffer)
	if err := Inspect(b, filepath.Join(dir, "grid.asc")); err != nil {
		t.Fatal(err)
	}
	want := "grid: 4x2 cells of 5x5, extent (-10, 10, 40, 50), range [1, 8], 1 no-data cells\n"
	if b.String() != want {
		t.Errorf("have %q, want %q", b.String(), want)
	}
}

func TestVersion(t *testing.T) {
	b := new(bytes.Buffer)
	Root.SetOutput(b)
	Root.SetArgs([]string{"version"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	if want := "SeaMap v" + seamap.Version + "\n"; b.String() != want {
		t.Errorf("have %q, want %q", b.String(), want)
	}
}

func TestVerboseConfigFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "seamaputil")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "config.toml")
	if err := ioutil.WriteFile(path, []byte("verbose = true\n"), 0644); err != nil {
		t.Fatal(err)
	}
	defer func() {
		Root.PersistentFlags().Set("config", "")
		Cfg.Set("verbose", false)
		logrus.SetLevel(logrus.InfoLevel)
	}()

	Root.SetOutput(new(bytes.Buffer))
	Root.SetArgs([]string{"version", "--config", path})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	if have := logrus.GetLevel(); have != logrus.DebugLevel {
		t.Errorf("level: have %v, want %v", have, logrus.DebugLevel)
	}
}
