/*
Copyright © 2021 the griddata authors.
This file is part of griddata.

griddata is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

griddata is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with griddata.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package griddatautil contains the command-line interface for griddata.
package griddatautil

import (
	"context"
	"fmt"
	"strings"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Version is the version of the griddata program.
const Version = "0.1.0"

// Cfg holds configuration information.
type Cfg struct {
	*viper.Viper

	// Root is the main command.
	Root *cobra.Command

	resampleCmd, batchCmd, versionCmd *cobra.Command

	log *logrus.Logger
}

// InitializeConfig prepares the commands and their flags, and binds
// the flags to configuration keys. Each key can also be set in a
// configuration file given with --config or in an environment
// variable named GRIDDATA_ followed by the upper-case key with
// dashes replaced by underscores.
func InitializeConfig() *Cfg {
	cfg := &Cfg{
		Viper: viper.New(),
		log:   logrus.New(),
	}

	cfg.Root = &cobra.Command{
		Use:   "griddata",
		Short: "Resample scattered data onto grids, meshes and points.",
		Long: `griddata interpolates values measured at scattered locations onto
regular grids, triangular or S2 meshes, or lists of points. Linear
interpolation over a Delaunay triangulation gives no value outside the
convex hull of the data; the nearest and shepard methods, or the
--fill option, can be used where full coverage is needed.`,
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return cfg.setConfig()
		},
	}

	cfg.versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Long:  "version prints the version number of this version of griddata.",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "griddata v%s\n", Version)
		},
		DisableAutoGenTag: true,
	}

	cfg.resampleCmd = &cobra.Command{
		Use:   "resample",
		Short: "Resample one data set.",
		Long: `resample reads scattered data from --input, interpolates it onto the
chosen --target, and writes the result to --output.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := cfg.job()
			if err != nil {
				return err
			}
			_, err = j.Run(context.Background(), nil, cfg.log)
			return err
		},
		DisableAutoGenTag: true,
	}

	cfg.batchCmd = &cobra.Command{
		Use:   "batch jobs.toml",
		Short: "Run the resampling jobs in a TOML file.",
		Long: `batch runs each [[Job]] in the given TOML file. The keys of a job are
the field names of griddatautil.Job. Jobs that read the same data
share it rather than each loading and triangulating it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := ReadBatch(args[0])
			if err != nil {
				return err
			}
			size, err := cast.ToIntE(cfg.Get("cache-size"))
			if err != nil {
				return fmt.Errorf("griddata: cache-size: %v", err)
			}
			_, err = b.Run(context.Background(), size, cfg.log)
			return err
		},
		DisableAutoGenTag: true,
	}

	cfg.Root.AddCommand(cfg.versionCmd, cfg.resampleCmd, cfg.batchCmd)

	options := []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name:       "config",
			usage:      "config specifies the configuration file location.",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.Root.PersistentFlags()},
		},
		{
			name:       "log-level",
			usage:      "log-level is the logging level: debug, info, warn or error.",
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{cfg.Root.PersistentFlags()},
		},
		{
			name:       "cache-size",
			usage:      "cache-size is the number of loaded data sets to keep in memory.",
			defaultVal: 10,
			flagsets:   []*pflag.FlagSet{cfg.batchCmd.Flags()},
		},
		{
			name:       "input",
			shorthand:  "i",
			usage:      "input is the source data file (.csv, .xlsx, .shp, .asc, .nc, .txt).",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.resampleCmd.Flags()},
		},
		{
			name:       "output",
			shorthand:  "o",
			usage:      "output is the result file (.csv, .shp, .asc, .nc, .xyz).",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.resampleCmd.Flags()},
		},
		{
			name:       "sheet",
			usage:      "sheet is the spreadsheet sheet to read; the first sheet is used if it is empty.",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.resampleCmd.Flags()},
		},
		{
			name:       "x-col",
			usage:      "x-col is the name of the x column of tabular input.",
			defaultVal: "x",
			flagsets:   []*pflag.FlagSet{cfg.resampleCmd.Flags()},
		},
		{
			name:       "y-col",
			usage:      "y-col is the name of the y column of tabular input.",
			defaultVal: "y",
			flagsets:   []*pflag.FlagSet{cfg.resampleCmd.Flags()},
		},
		{
			name:       "value-col",
			usage:      "value-col is the name of the value column of tabular input.",
			defaultVal: "z",
			flagsets:   []*pflag.FlagSet{cfg.resampleCmd.Flags()},
		},
		{
			name:       "value-expr",
			usage:      "value-expr is an expression over the input columns to use as the value, such as 'z - 1800'.",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.resampleCmd.Flags()},
		},
		{
			name:       "separator",
			usage:      "separator is the field separator of delimited text input.",
			defaultVal: ",",
			flagsets:   []*pflag.FlagSet{cfg.resampleCmd.Flags()},
		},
		{
			name:       "stride",
			usage:      "stride keeps only every stride'th source point.",
			defaultVal: 1,
			flagsets:   []*pflag.FlagSet{cfg.resampleCmd.Flags()},
		},
		{
			name:       "input-sr",
			usage:      "input-sr is the proj4 spatial reference of the input.",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.resampleCmd.Flags()},
		},
		{
			name:       "output-sr",
			usage:      "output-sr is the proj4 spatial reference to resample in. The input is not reprojected if it is empty.",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.resampleCmd.Flags()},
		},
		{
			name:       "method",
			shorthand:  "m",
			usage:      "method is the interpolation method: linear, nearest or shepard.",
			defaultVal: "linear",
			flagsets:   []*pflag.FlagSet{cfg.resampleCmd.Flags()},
		},
		{
			name:       "fill",
			usage:      "fill replaces values outside the data with the nearest source value.",
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{cfg.resampleCmd.Flags()},
		},
		{
			name:       "workers",
			usage:      "workers is the number of interpolation goroutines; 0 means one per processor.",
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{cfg.resampleCmd.Flags()},
		},
		{
			name:       "radius",
			usage:      "radius is the search radius of the shepard method; 0 means twice the typical point spacing.",
			defaultVal: 0.,
			flagsets:   []*pflag.FlagSet{cfg.resampleCmd.Flags()},
		},
		{
			name:       "power",
			usage:      "power is the inverse distance exponent of the shepard method; 0 means 2.",
			defaultVal: 0.,
			flagsets:   []*pflag.FlagSet{cfg.resampleCmd.Flags()},
		},
		{
			name:       "target",
			shorthand:  "t",
			usage:      "target is what to resample onto: grid, centered, tin, tin-vertices, s2 or points.",
			defaultVal: "grid",
			flagsets:   []*pflag.FlagSet{cfg.resampleCmd.Flags()},
		},
		{name: "dx", usage: "dx is the grid cell width.", defaultVal: 0., flagsets: []*pflag.FlagSet{cfg.resampleCmd.Flags()}},
		{name: "dy", usage: "dy is the grid cell height.", defaultVal: 0., flagsets: []*pflag.FlagSet{cfg.resampleCmd.Flags()}},
		{name: "nx", usage: "nx is the number of grid columns.", defaultVal: 0, flagsets: []*pflag.FlagSet{cfg.resampleCmd.Flags()}},
		{name: "ny", usage: "ny is the number of grid rows.", defaultVal: 0, flagsets: []*pflag.FlagSet{cfg.resampleCmd.Flags()}},
		{name: "x0", usage: "x0 is the left edge of the grid.", defaultVal: 0., flagsets: []*pflag.FlagSet{cfg.resampleCmd.Flags()}},
		{name: "y0", usage: "y0 is the bottom edge of the grid.", defaultVal: 0., flagsets: []*pflag.FlagSet{cfg.resampleCmd.Flags()}},
		{name: "center-x", usage: "center-x is the x center of a centered grid.", defaultVal: 0., flagsets: []*pflag.FlagSet{cfg.resampleCmd.Flags()}},
		{name: "center-y", usage: "center-y is the y center of a centered grid.", defaultVal: 0., flagsets: []*pflag.FlagSet{cfg.resampleCmd.Flags()}},
		{name: "size-x", usage: "size-x is the width of a centered grid.", defaultVal: 0., flagsets: []*pflag.FlagSet{cfg.resampleCmd.Flags()}},
		{name: "size-y", usage: "size-y is the height of a centered grid.", defaultVal: 0., flagsets: []*pflag.FlagSet{cfg.resampleCmd.Flags()}},
		{name: "level", usage: "level is the S2 cell level of the s2 target.", defaultVal: 10, flagsets: []*pflag.FlagSet{cfg.resampleCmd.Flags()}},
		{name: "points", usage: "points is a delimited text file of query locations for the points target.", defaultVal: "", flagsets: []*pflag.FlagSet{cfg.resampleCmd.Flags()}},
		{name: "outlines", usage: "outlines is a CSV file to write the tin or s2 cell outlines to.", defaultVal: "", flagsets: []*pflag.FlagSet{cfg.resampleCmd.Flags()}},
	}

	// Set up the configuration options.
	for _, option := range options {
		for _, set := range option.flagsets {
			if option.shorthand == "" {
				switch option.defaultVal.(type) {
				case string:
					set.String(option.name, option.defaultVal.(string), option.usage)
				case bool:
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				case int:
					set.Int(option.name, option.defaultVal.(int), option.usage)
				case float64:
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				default:
					panic("invalid argument type")
				}
			} else {
				switch option.defaultVal.(type) {
				case string:
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				case bool:
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				case int:
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				case float64:
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				default:
					panic("invalid argument type")
				}
			}
			cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
	cfg.SetEnvPrefix("GRIDDATA")
	cfg.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	cfg.AutomaticEnv()
	return cfg
}

// setConfig reads in the configuration file, if there is one, and
// sets up logging.
func (cfg *Cfg) setConfig() error {
	if cfgpath := cfg.GetString("config"); cfgpath != "" {
		cfg.SetConfigFile(cfgpath)
		if err := cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("griddata: problem reading configuration file: %v", err)
		}
	}
	level, err := logrus.ParseLevel(cfg.GetString("log-level"))
	if err != nil {
		return fmt.Errorf("griddata: %v", err)
	}
	cfg.log.SetLevel(level)
	cfg.log.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	cfg.log.Out = cfg.Root.OutOrStderr()
	return nil
}

// job creates a job from the configuration. Values are converted
// with cast because ones from environment variables and some
// configuration file formats arrive as strings.
func (cfg *Cfg) job() (*Job, error) {
	var err error
	str := func(key string) string { return cast.ToString(cfg.Get(key)) }
	num := func(key string) float64 {
		if err != nil {
			return 0
		}
		var v float64
		if v, err = cast.ToFloat64E(cfg.Get(key)); err != nil {
			err = fmt.Errorf("griddata: %s: %v", key, err)
		}
		return v
	}
	integer := func(key string) int {
		if err != nil {
			return 0
		}
		var v int
		if v, err = cast.ToIntE(cfg.Get(key)); err != nil {
			err = fmt.Errorf("griddata: %s: %v", key, err)
		}
		return v
	}
	j := &Job{
		Name:      "resample",
		Input:     str("input"),
		Sheet:     str("sheet"),
		XCol:      str("x-col"),
		YCol:      str("y-col"),
		ValueCol:  str("value-col"),
		ValueExpr: str("value-expr"),
		Separator: str("separator"),
		Stride:    integer("stride"),
		InputSR:   str("input-sr"),
		OutputSR:  str("output-sr"),
		Method:    str("method"),
		Workers:   integer("workers"),
		Radius:    num("radius"),
		Power:     num("power"),
		Target:    str("target"),
		Dx:        num("dx"),
		Dy:        num("dy"),
		Nx:        integer("nx"),
		Ny:        integer("ny"),
		X0:        num("x0"),
		Y0:        num("y0"),
		CenterX:   num("center-x"),
		CenterY:   num("center-y"),
		SizeX:     num("size-x"),
		SizeY:     num("size-y"),
		Level:     integer("level"),
		Points:    str("points"),
		Output:    str("output"),
		Outlines:  str("outlines"),
	}
	if err != nil {
		return nil, err
	}
	if j.Fill, err = cast.ToBoolE(cfg.Get("fill")); err != nil {
		return nil, fmt.Errorf("griddata: fill: %v", err)
	}
	if j.Input == "" {
		return nil, fmt.Errorf("griddata: no input file")
	}
	return j, nil
}
