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
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/lnashier/viper"
	"github.com/seamap/seamap"
	"github.com/sirupsen/logrus"
)

// LayerConfig holds the configuration of one raster overlay.
type LayerConfig struct {
	// Name is the overlay name shown in the layer switcher.
	Name  string `toml:"Name"`
	Group string `toml:"Group,omitempty"`

	// Title is the legend title. It defaults to Name.
	Title string `toml:"Title,omitempty"`

	// File is a NetCDF (.nc) or ESRI ASCII grid (.asc) file.
	// Environment variables are expanded.
	File      string `toml:"File"`
	Variable  string `toml:"Variable,omitempty"`
	TimeIndex int    `toml:"TimeIndex,omitempty"`

	// Transform is applied to the values after cropping:
	// "log10" or "inverselog10". Epsilon is added before taking
	// the logarithm.
	Transform string  `toml:"Transform,omitempty"`
	Epsilon   float64 `toml:"Epsilon,omitempty"`

	// Expression is an arithmetic expression of x (the cell value) and
	// min and max (the raster range), applied after Transform.
	Expression string             `toml:"Expression,omitempty"`
	Params     map[string]float64 `toml:"Params,omitempty"`

	// Rescale linearly maps the raster range to [Rescale[0], Rescale[1]].
	Rescale []float64 `toml:"Rescale,omitempty"`

	// Reclassify holds [min, max, value] buckets.
	Reclassify [][]float64 `toml:"Reclassify,omitempty"`

	// Rotate shifts longitudes in [0, 360] to [-180, 180] before
	// the raster is cropped, so that the region can be given in
	// [-180, 180].
	Rotate bool `toml:"Rotate,omitempty"`

	// Interpolation is "nearest" or "bilinear".
	Interpolation string `toml:"Interpolation,omitempty"`

	Palette     string    `toml:"Palette,omitempty"`
	Reverse     bool      `toml:"Reverse,omitempty"`
	Kind        string    `toml:"Kind,omitempty"`
	Bins        int       `toml:"Bins,omitempty"`
	Breaks      []float64 `toml:"Breaks,omitempty"`
	Domain      []float64 `toml:"Domain,omitempty"`
	NoDataColor string    `toml:"NoDataColor,omitempty"`

	// LabelTransform converts legend labels: "inverselog10" or "round".
	LabelTransform string `toml:"LabelTransform,omitempty"`
	LabelDigits    int    `toml:"LabelDigits,omitempty"`
}

// LayersConfig returns the layer configurations in cfg, accounting
// for the fact that they might be a JSON array if they were set from
// a command line argument.
func LayersConfig(cfg *viper.Viper) ([]LayerConfig, error) {
	var layers []LayerConfig
	switch v := cfg.Get("Layers").(type) {
	case nil:
	case string:
		if strings.TrimSpace(v) == "" {
			break
		}
		if err := json.Unmarshal([]byte(v), &layers); err != nil {
			return nil, fmt.Errorf("seamaputil: parsing Layers: %v", err)
		}
	default:
		if err := cfg.UnmarshalKey("Layers", &layers); err != nil {
			return nil, fmt.Errorf("seamaputil: parsing Layers: %v", err)
		}
	}
	for i := range layers {
		if layers[i].Name == "" {
			return nil, fmt.Errorf("seamaputil: layer %d has no Name", i)
		}
		if layers[i].File == "" {
			return nil, fmt.Errorf("seamaputil: layer %s has no File", layers[i].Name)
		}
		layers[i].File = os.ExpandEnv(layers[i].File)
	}
	return layers, nil
}

// Renderer creates an overlay renderer for l. The raster is cropped
// to region, which is in longitude and latitude, transformed, reclassified and reprojected to displaySR,
// in that order.
func (l LayerConfig) Renderer(region seamap.Extent, displaySR string, log logrus.FieldLogger) (*seamap.OverlayRenderer, error) {
	o := &seamap.OverlayRenderer{
		Name:  l.Name,
		Group: l.Group,
		Title: l.Title,
		Log:   log,
	}
	prefix := fmt.Sprintf("seamaputil: layer %s", l.Name)

	if l.Rotate {
		o.Steps = append(o.Steps, seamap.RotateStep())
	}
	o.Steps = append(o.Steps, seamap.RegionCropStep(region, seamap.LongLat))
	switch strings.ToLower(l.Transform) {
	case "", "none":
	case "log10":
		o.Steps = append(o.Steps, seamap.TransformStep("log10", seamap.Log10(l.Epsilon)))
	case "inverselog10":
		o.Steps = append(o.Steps, seamap.TransformStep("inverselog10", seamap.InverseLog10(l.Epsilon)))
	default:
		return nil, fmt.Errorf("%s: invalid Transform %q; valid options are 'log10' and 'inverselog10'", prefix, l.Transform)
	}
	if l.Expression != "" {
		e, err := seamap.NewExpression(l.Expression, l.Params)
		if err != nil {
			return nil, fmt.Errorf("%s: %v", prefix, err)
		}
		o.Steps = append(o.Steps, seamap.ExpressionStep(e))
	}
	if len(l.Rescale) != 0 {
		if len(l.Rescale) != 2 {
			return nil, fmt.Errorf("%s: Rescale needs 2 values but has %d", prefix, len(l.Rescale))
		}
		o.Steps = append(o.Steps, seamap.RescaleStep(l.Rescale[0], l.Rescale[1]))
	}
	if len(l.Reclassify) != 0 {
		buckets := make([]seamap.Bucket, len(l.Reclassify))
		for i, b := range l.Reclassify {
			if len(b) != 3 {
				return nil, fmt.Errorf("%s: Reclassify bucket %d needs [min, max, value] but has %v", prefix, i, b)
			}
			buckets[i] = seamap.Bucket{Min: b[0], Max: b[1], Value: b[2]}
		}
		o.Steps = append(o.Steps, seamap.ReclassifyStep(buckets))
	}
	method, err := seamap.ParseInterpolation(l.Interpolation)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", prefix, err)
	}
	o.Steps = append(o.Steps, seamap.ReprojectStep(displaySR, method))

	palette := l.Palette
	if palette == "" {
		palette = "viridis"
	}
	if o.Colors, err = seamap.Palette(palette, l.Reverse); err != nil {
		return nil, fmt.Errorf("%s: %v", prefix, err)
	}
	if o.Kind, err = seamap.ParseMappingKind(strings.ToLower(l.Kind)); err != nil {
		return nil, fmt.Errorf("%s: %v", prefix, err)
	}
	if len(l.Domain) != 0 {
		if len(l.Domain) != 2 {
			return nil, fmt.Errorf("%s: Domain needs 2 values but has %d", prefix, len(l.Domain))
		}
		o.MappingOptions = append(o.MappingOptions, seamap.WithDomain(l.Domain[0], l.Domain[1]))
	}
	if l.Bins != 0 {
		o.MappingOptions = append(o.MappingOptions, seamap.WithBins(l.Bins))
	}
	if len(l.Breaks) != 0 {
		o.MappingOptions = append(o.MappingOptions, seamap.WithBreaks(l.Breaks...))
	}
	if l.NoDataColor != "" {
		c, err := seamap.ParseHexColor(l.NoDataColor)
		if err != nil {
			return nil, fmt.Errorf("%s: %v", prefix, err)
		}
		o.MappingOptions = append(o.MappingOptions, seamap.WithNoDataColor(c))
	}

	switch strings.ToLower(l.LabelTransform) {
	case "", "identity":
	case "inverselog10":
		o.LabelTransform = seamap.InverseLog10Labels(l.Epsilon)
	case "round":
		o.LabelTransform = seamap.RoundLabels(l.LabelDigits)
	default:
		return nil, fmt.Errorf("%s: invalid LabelTransform %q; valid options are 'inverselog10' and 'round'", prefix, l.LabelTransform)
	}
	return o, nil
}
