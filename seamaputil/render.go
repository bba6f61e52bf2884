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
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/BurntSushi/toml"
	"github.com/lnashier/viper"
	"github.com/seamap/seamap"
	"github.com/seamap/seamap/stations"
	"github.com/seamap/seamap/webmap"
	"github.com/sirupsen/logrus"
	"github.com/skratchdot/open-golang/open"
)

// RenderConfig holds the settings for creating a map document.
type RenderConfig struct {
	OutputFile string `toml:"OutputFile"`
	Title      string `toml:"Title"`

	StationFile  string `toml:"StationFile"`
	StationSheet string `toml:"StationSheet"`
	StationGroup string `toml:"StationGroup"`

	// Region is the region of interest in degrees.
	Region seamap.Extent `toml:"Region"`

	DisplaySR       string  `toml:"DisplaySR"`
	BaseTiles       string  `toml:"BaseTiles"`
	BaseAttribution string  `toml:"BaseAttribution"`
	Opacity         float64 `toml:"Opacity"`
	CacheSize       int     `toml:"CacheSize"`

	Layers []LayerConfig `toml:"Layers"`

	// Open specifies whether to open OutputFile after writing it.
	Open bool `toml:"-"`
}

// RenderConfigFrom reads a RenderConfig from cfg and checks it.
func RenderConfigFrom(cfg *viper.Viper) (*RenderConfig, error) {
	c := &RenderConfig{
		OutputFile:   os.ExpandEnv(cfg.GetString("OutputFile")),
		Title:        cfg.GetString("Title"),
		StationFile:  os.ExpandEnv(cfg.GetString("StationFile")),
		StationSheet: cfg.GetString("StationSheet"),
		StationGroup: cfg.GetString("StationGroup"),
		Region: seamap.Extent{
			MinX: cfg.GetFloat64("Region.MinX"),
			MaxX: cfg.GetFloat64("Region.MaxX"),
			MinY: cfg.GetFloat64("Region.MinY"),
			MaxY: cfg.GetFloat64("Region.MaxY"),
		},
		DisplaySR:       cfg.GetString("DisplaySR"),
		BaseTiles:       cfg.GetString("BaseTiles"),
		BaseAttribution: cfg.GetString("BaseAttribution"),
		Opacity:         cfg.GetFloat64("Opacity"),
		CacheSize:       cfg.GetInt("CacheSize"),
		Open:            cfg.GetBool("open"),
	}
	var err error
	if c.Layers, err = LayersConfig(cfg); err != nil {
		return nil, err
	}
	if err := c.check(); err != nil {
		return nil, err
	}
	return c, nil
}

// check makes sure the configuration is usable before any file is read.
func (c *RenderConfig) check() error {
	if c.OutputFile == "" {
		return fmt.Errorf(`seamaputil: you need to specify an output file configuration variable (for example: OutputFile="seamap.json")`)
	}
	if _, err := os.Stat(filepath.Dir(c.OutputFile)); err != nil {
		return fmt.Errorf("seamaputil: the OutputFile directory doesn't exist: %v", err)
	}
	if !c.Region.Valid() {
		return fmt.Errorf("seamaputil: invalid Region %v", c.Region)
	}
	if _, err := seamap.ParseSR(c.DisplaySR); err != nil {
		return fmt.Errorf("seamaputil: DisplaySR: %w", err)
	}
	if !(c.Opacity >= 0 && c.Opacity <= 1) {
		return fmt.Errorf("seamaputil: Opacity %g is outside of [0, 1]", c.Opacity)
	}
	if len(c.Layers) == 0 && c.StationFile == "" {
		return fmt.Errorf("seamaputil: there are no Layers and no StationFile, so there is nothing to map")
	}
	return nil
}

// Render creates the map document described by c and writes it to
// c.OutputFile. Nothing is written if any layer or the station table
// cannot be read.
func Render(ctx context.Context, c *RenderConfig, log logrus.FieldLogger) error {
	d := webmap.NewDocument(c.Title)
	base := webmap.DefaultBaseLayer
	if c.BaseTiles != "" && c.BaseTiles != base.URL {
		base = webmap.TileLayer{Name: "Base map", URL: c.BaseTiles, Attribution: c.BaseAttribution}
	} else if c.BaseAttribution != "" {
		base.Attribution = c.BaseAttribution
	}
	d.SetBaseLayers(base)

	cache := NewRasterCache(c.CacheSize)
	for _, l := range c.Layers {
		o, err := l.Renderer(c.Region, c.DisplaySR, log)
		if err != nil {
			return err
		}
		log.WithFields(logrus.Fields{"overlay": l.Name, "file": l.File, "variable": l.Variable}).Debug("reading raster")
		r, err := cache.Raster(ctx, l.File, l.Variable, l.TimeIndex)
		if err != nil {
			return fmt.Errorf("seamaputil: layer %s: %w", l.Name, err)
		}
		ov, err := o.Render(r)
		if err != nil {
			return err
		}
		if err := d.AddOverlay(ov, c.Opacity); err != nil {
			return err
		}
	}

	if c.StationFile != "" {
		t, err := stations.Read(c.StationFile, stations.Options{Sheet: c.StationSheet})
		if err != nil {
			return err
		}
		for _, r := range t.Rejected {
			log.WithFields(logrus.Fields{"file": c.StationFile, "row": r.Row}).Warnf("skipping station: %s", r.Reason)
		}
		if err := d.AddStations(c.StationGroup, t.Stations); err != nil {
			return err
		}
		log.WithFields(logrus.Fields{"file": c.StationFile, "stations": len(t.Stations)}).Info("read stations")
	}
	d.FitBounds()

	f, err := os.Create(c.OutputFile)
	if err != nil {
		return fmt.Errorf("seamaputil: %v", err)
	}
	if err := d.WriteJSON(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("seamaputil: %v", err)
	}
	log.WithFields(logrus.Fields{"file": c.OutputFile, "overlays": len(d.Overlays)}).Info("wrote map document")

	if c.Open {
		if err := open.Run(c.OutputFile); err != nil {
			return fmt.Errorf("seamaputil: opening %s: %v", c.OutputFile, err)
		}
	}
	return nil
}

// Inspect writes a description of the raster file path to w.
func Inspect(w io.Writer, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".asc", ".txt":
		r, err := seamap.ReadASCIIGrid(path)
		if err != nil {
			return err
		}
		min, max, _ := r.Range()
		fmt.Fprintf(w, "%s: %dx%d cells of %gx%g, extent %v, range [%g, %g], %d no-data cells\n",
			r.Name, r.Nx, r.Ny, r.Dx, r.Dy, r.Extent, min, max, r.NumNoData())
		return nil
	}
	vars, err := seamap.NetCDFVariables(path)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "variable\tdimensions\tunits\tdescription")
	for _, v := range vars {
		dims := make([]string, len(v.Dimensions))
		for i, d := range v.Dimensions {
			dims[i] = d
			if i < len(v.Lengths) {
				dims[i] = fmt.Sprintf("%s=%d", d, v.Lengths[i])
			}
		}
		name := v.Name
		if v.Gridded() {
			name += "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", name, strings.Join(dims, ","), v.Units, v.LongName)
	}
	return tw.Flush()
}

// ExampleConfig returns a configuration with the default settings
// and an example overlay for each common data product.
func ExampleConfig() *RenderConfig {
	return &RenderConfig{
		OutputFile:      "${SEAMAP_OUT}/seamap.json",
		Title:           "SeaMap",
		StationFile:     "${SEAMAP_DATA}/stations.xlsx",
		StationGroup:    "Stations",
		Region:          seamap.Extent{MinX: -65, MaxX: -38, MinY: 50, MaxY: 68},
		DisplaySR:       "EPSG:3857",
		BaseTiles:       webmap.DefaultBaseLayer.URL,
		BaseAttribution: webmap.DefaultBaseLayer.Attribution,
		Opacity:         0.8,
		CacheSize:       8,
		Layers: []LayerConfig{
			{
				Name:     "Sea-surface temperature",
				Group:    "Physics",
				Title:    "SST [°C]",
				File:     "${SEAMAP_DATA}/sst.nc",
				Variable: "sst",
				Rotate:   true,
				Palette:  "extendedkindlmann",
			},
			{
				Name:           "Chlorophyll",
				Group:          "Biology",
				Title:          "Chlorophyll-a [mg/m³]",
				File:           "${SEAMAP_DATA}/chl.nc",
				Variable:       "chlor_a",
				Transform:      "log10",
				Epsilon:        0.001,
				Rotate:         true,
				Interpolation:  "bilinear",
				Palette:        "viridis",
				LabelTransform: "inverselog10",
			},
			// Shelf, slope and deep ocean. Land matches no bucket and is not shown.
			{
				Name:       "Depth zones",
				Group:      "Physics",
				Title:      "Depth zone",
				File:       "${SEAMAP_DATA}/bathymetry.asc",
				Reclassify: [][]float64{{-200, 0, 0}, {-1000, -200, 1}, {-11000, -1000, 2}},
				Rotate:     true,
				Palette:    "blues",
				Kind:       "binned",
				Breaks:     []float64{-0.5, 0.5, 1.5, 2.5},
			},
		},
	}
}

// WriteExampleConfig writes ExampleConfig to w in TOML format.
func WriteExampleConfig(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(ExampleConfig()); err != nil {
		return fmt.Errorf("seamaputil: writing configuration: %v", err)
	}
	return nil
}
