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

// Package seamaputil holds the command-line interface and configuration
// handling for SeaMap.
package seamaputil

import (
	"context"
	"fmt"
	"time"

	"github.com/lnashier/viper"
	"github.com/seamap/seamap"
	"github.com/seamap/seamap/webmap"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to SeaMap.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "verbose",
			usage: `
              verbose specifies whether to log debugging information.`,
			shorthand:  "v",
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "open",
			usage: `
              open specifies whether to open the map document with the
              default application after it is written.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{renderCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile specifies the path to the map document to write.`,
			shorthand:  "o",
			defaultVal: "seamap.json",
			flagsets:   []*pflag.FlagSet{renderCmd.Flags()},
		},
		{
			name: "Title",
			usage: `
              Title specifies the map title.`,
			defaultVal: "SeaMap",
			flagsets:   []*pflag.FlagSet{renderCmd.Flags()},
		},
		{
			name: "StationFile",
			usage: `
              StationFile specifies a table of sampling stations to mark on
              the map, in CSV (.csv), Excel (.xlsx) or shapefile (.shp) format.
              No stations are shown if it is empty.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{renderCmd.Flags()},
		},
		{
			name: "StationSheet",
			usage: `
              StationSheet specifies the worksheet to read stations from if
              StationFile is an Excel file. The first worksheet is used if it
              is empty.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{renderCmd.Flags()},
		},
		{
			name: "StationGroup",
			usage: `
              StationGroup specifies the layer switcher name of the station markers.`,
			defaultVal: "Stations",
			flagsets:   []*pflag.FlagSet{renderCmd.Flags()},
		},
		{
			name: "Region.MinX",
			usage: `
              Region.MinX specifies the western edge of the region of interest,
              in degrees longitude.`,
			defaultVal: -180.0,
			flagsets:   []*pflag.FlagSet{renderCmd.Flags()},
		},
		{
			name: "Region.MaxX",
			usage: `
              Region.MaxX specifies the eastern edge of the region of interest,
              in degrees longitude. Values up to 360 can be used for rasters
              with longitudes in [0, 360].`,
			defaultVal: 360.0,
			flagsets:   []*pflag.FlagSet{renderCmd.Flags()},
		},
		{
			name: "Region.MinY",
			usage: `
              Region.MinY specifies the southern edge of the region of interest,
              in degrees latitude.`,
			defaultVal: -90.0,
			flagsets:   []*pflag.FlagSet{renderCmd.Flags()},
		},
		{
			name: "Region.MaxY",
			usage: `
              Region.MaxY specifies the northern edge of the region of interest,
              in degrees latitude.`,
			defaultVal: 90.0,
			flagsets:   []*pflag.FlagSet{renderCmd.Flags()},
		},
		{
			name: "DisplaySR",
			usage: `
              DisplaySR specifies the spatial reference overlays are
              reprojected to, in proj4 format or as EPSG:3857 or EPSG:4326.`,
			defaultVal: "EPSG:3857",
			flagsets:   []*pflag.FlagSet{renderCmd.Flags()},
		},
		{
			name: "BaseTiles",
			usage: `
              BaseTiles specifies the URL template of the base map tiles.`,
			defaultVal: webmap.DefaultBaseLayer.URL,
			flagsets:   []*pflag.FlagSet{renderCmd.Flags()},
		},
		{
			name: "BaseAttribution",
			usage: `
              BaseAttribution specifies the attribution of the base map tiles.`,
			defaultVal: webmap.DefaultBaseLayer.Attribution,
			flagsets:   []*pflag.FlagSet{renderCmd.Flags()},
		},
		{
			name: "Opacity",
			usage: `
              Opacity specifies the opacity of the raster overlays, between 0 and 1.`,
			defaultVal: 0.8,
			flagsets:   []*pflag.FlagSet{renderCmd.Flags()},
		},
		{
			name: "CacheSize",
			usage: `
              CacheSize specifies the number of rasters to keep in memory
              so that layers reading the same file do not read it again.`,
			defaultVal: 8,
			flagsets:   []*pflag.FlagSet{renderCmd.Flags()},
		},
		{
			name: "Layers",
			usage: `
              Layers specifies the raster overlays. In a configuration file it is
              an array of tables; on the command line it is a JSON array. Run
              'seamap config' for an example.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{renderCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("SEAMAP")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(renderCmd)
	Root.AddCommand(inspectCmd)
	Root.AddCommand(configCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("seamaputil: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// setLogging configures the standard logger.
func setLogging(verbose bool) {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339Nano,
		DisableSorting:  true,
	})
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "seamap",
	Short: "Oceanographic rasters and stations on a web map.",
	Long: `SeaMap turns gridded oceanographic data such as sea-surface temperature,
chlorophyll and bathymetry, together with tables of sampling stations, into
the description of an interactive web map with toggleable overlays, colour
legends and station markers.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'SEAMAP_var' where 'var' is the
name of the variable to be set. File paths are allowed to contain environment
variables within them.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	SilenceUsage:      true,
	PersistentPreRunE: func(*cobra.Command, []string) error {
		if err := setConfig(); err != nil {
			return err
		}
		setLogging(Cfg.GetBool("verbose"))
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of SeaMap.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("SeaMap v%s\n", seamap.Version)
	},
	DisableAutoGenTag: true,
}

// renderCmd is a command that creates a map document.
var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Create a map document.",
	Long: `render reads the configured raster layers and station table, renders
them as overlays and markers, and writes the map document to OutputFile as JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := RenderConfigFrom(Cfg)
		if err != nil {
			return err
		}
		return Render(context.TODO(), c, logrus.StandardLogger())
	},
	DisableAutoGenTag: true,
}

// inspectCmd is a command that describes a raster file.
var inspectCmd = &cobra.Command{
	Use:   "inspect file",
	Short: "Describe the variables in a raster file.",
	Long: `inspect prints the variables in a NetCDF file, with their dimensions and
units, or a summary of an ESRI ASCII grid. Use it to find the Variable to
configure for a layer.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return Inspect(cmd.OutOrStdout(), args[0])
	},
	DisableAutoGenTag: true,
}

// configCmd is a command that prints an example configuration file.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print an example configuration file.",
	Long: `config prints an example configuration file in TOML format, with the
default settings and an overlay for each of sea-surface temperature,
chlorophyll and bathymetry.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return WriteExampleConfig(cmd.OutOrStdout())
	},
	DisableAutoGenTag: true,
}
