/*
Copyright © 2026 the OSPrep authors.
This file is part of OSPrep.

OSPrep is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

OSPrep is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with OSPrep.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package ospreputil holds the command-line interface and configuration
// handling for OSPrep.
package ospreputil

import (
	"fmt"
	"strings"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/osprep"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information and the command tree that uses it.
type Cfg struct {
	*viper.Viper

	Root *cobra.Command

	// Log is set up from the LogLevel option before each command runs.
	Log *logrus.Logger

	versionCmd, generateCmd, expandCmd, runCmd *cobra.Command
}

type option struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

// InitializeConfig creates the command tree and its configuration.
func InitializeConfig() *Cfg {
	cfg := &Cfg{
		Viper: viper.New(),
		Log:   logrus.New(),
	}

	cfg.Root = &cobra.Command{
		Use:   "osprep",
		Short: "Prepare input data for OSeMOSYS energy system models.",
		Long: `OSPrep builds the input data of an OSeMOSYS energy system model from a
scenario definition, either as one CSV file per parameter or as a single
YAML model document, and expands wildcard entries into explicit records.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'OSPREP_var' where 'var' is the
name of the variable to be set, with '.' replaced by '_'.`,
		DisableAutoGenTag: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := setConfig(cfg); err != nil {
				return err
			}
			return cfg.setLog(cmd)
		},
	}

	cfg.versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Long:  "version prints the version number of this version of OSPrep.",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("OSPrep v%s\n", osprep.Version)
		},
		DisableAutoGenTag: true,
	}

	cfg.generateCmd = &cobra.Command{
		Use:   "generate",
		Short: "Generate model input data",
		Long: `generate assembles every model parameter from the scenario definition and
the demand workbook and writes them to OutputDir, either as a YAML model
document named after the scenario (Format=yaml) or as SETS.csv plus one
CSV file per parameter (Format=csv). Demand commodities that are missing
from the workbook get a default growth curve.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cfg.generate(cmd)
		},
		DisableAutoGenTag: true,
	}

	cfg.expandCmd = &cobra.Command{
		Use:   "expand <file.csv> [output.csv] | expand --all <directory>",
		Short: "Expand wildcards in CSV parameter files",
		Long: `expand replaces the wildcard entries ('*') of a CSV parameter file with
explicit records. Year wildcards expand to the years given by the Years
option, or else to the YEAR set of the SETS.csv file next to the input, or
else to 2015-2050. Files without a YEAR column are left unchanged.
With --all, every CSV file in the directory except SETS.csv is expanded in
place, and a failing file does not stop the others.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cfg.expand(cmd, args)
		},
		DisableAutoGenTag: true,
	}

	cfg.runCmd = &cobra.Command{
		Use:   "run [model.yaml]",
		Short: "Solve a model document",
		Long: `run loads a YAML model document, checks it, and solves it with the
external solver program given by Solver.Command, if Solver.Available is
set. The solution variable named by View is printed, and every variable
can be exported to Excel files in ResultsDir/xlsx.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cfg.run(cmd, args)
		},
		DisableAutoGenTag: true,
	}

	cfg.Root.AddCommand(cfg.versionCmd, cfg.generateCmd, cfg.expandCmd, cfg.runCmd)

	// Options are the configuration options available to OSPrep.
	options := []option{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.Root.PersistentFlags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel is the minimum level of log messages to print
              (debug, info, warning or error).`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{cfg.Root.PersistentFlags()},
		},
		{
			name: "Scenario",
			usage: `
              Scenario is the path to a TOML scenario definition. If it is
              empty, the built-in Israel energy sector scenario is used.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.generateCmd.Flags()},
		},
		{
			name: "OutputDir",
			usage: `
              OutputDir is the directory the model data is written to.`,
			shorthand:  "o",
			defaultVal: "osemosys_data",
			flagsets:   []*pflag.FlagSet{cfg.generateCmd.Flags()},
		},
		{
			name: "Format",
			usage: `
              Format is the output format: yaml for a single model document
              or csv for one file per parameter.`,
			defaultVal: "yaml",
			flagsets:   []*pflag.FlagSet{cfg.generateCmd.Flags()},
		},
		{
			name: "DecayRate",
			usage: `
              DecayRate is the yearly factor applied to capital costs to
              represent technology learning.`,
			defaultVal: 0.98,
			flagsets:   []*pflag.FlagSet{cfg.generateCmd.Flags()},
		},
		{
			name: "Diurnal.Categories",
			usage: `
              Diurnal.Categories lists the technology name fragments whose
              capacity factors depend on the time of day.`,
			defaultVal: []string{"Solar"},
			flagsets:   []*pflag.FlagSet{cfg.generateCmd.Flags()},
		},
		{
			name: "Diurnal.DayTag",
			usage: `
              Diurnal.DayTag marks daytime time slices.`,
			defaultVal: "DAY",
			flagsets:   []*pflag.FlagSet{cfg.generateCmd.Flags()},
		},
		{
			name: "Diurnal.NightTag",
			usage: `
              Diurnal.NightTag marks night time slices, where diurnal
              technologies have no capacity.`,
			defaultVal: "NIGHT",
			flagsets:   []*pflag.FlagSet{cfg.generateCmd.Flags()},
		},
		{
			name: "Diurnal.DayMultiplier",
			usage: `
              Diurnal.DayMultiplier scales the capacity factors of diurnal
              technologies in daytime time slices.`,
			defaultVal: 1.5,
			flagsets:   []*pflag.FlagSet{cfg.generateCmd.Flags()},
		},
		{
			name: "Demand.File",
			usage: `
              Demand.File is the Excel workbook holding one sheet of
              annual demand per demand commodity. It can contain environment
              variables.`,
			defaultVal: "demand_data.xlsx",
			flagsets:   []*pflag.FlagSet{cfg.generateCmd.Flags()},
		},
		{
			name: "Demand.Base",
			usage: `
              Demand.Base is the start-year value of the default demand
              growth curve.`,
			defaultVal: 1000.0,
			flagsets:   []*pflag.FlagSet{cfg.generateCmd.Flags()},
		},
		{
			name: "Demand.GrowthRate",
			usage: `
              Demand.GrowthRate is the yearly growth factor of the default
              demand growth curve.`,
			defaultVal: 1.02,
			flagsets:   []*pflag.FlagSet{cfg.generateCmd.Flags()},
		},
		{
			name: "Demand.Template",
			usage: `
              Demand.Template, if set, is the path of an Excel workbook
              that the demand in use is written to, in the layout of
              Demand.File.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.generateCmd.Flags()},
		},
		{
			name: "all",
			usage: `
              all specifies that the argument is a directory whose CSV
              files should all be expanded.`,
			shorthand:  "a",
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{cfg.expandCmd.Flags()},
		},
		{
			name: "Years",
			usage: `
              Years lists the years that year wildcards expand to. If it is
              empty, the years are read from SETS.csv.`,
			defaultVal: []int{},
			flagsets:   []*pflag.FlagSet{cfg.expandCmd.Flags()},
		},
		{
			name: "ModelFile",
			usage: `
              ModelFile is the model document to solve when none is given
              as an argument.`,
			defaultVal: "osemosys_data/israel_energy_model.yaml",
			flagsets:   []*pflag.FlagSet{cfg.runCmd.Flags()},
		},
		{
			name: "Solver.Available",
			usage: `
              Solver.Available specifies whether a solver backend is
              installed. If false, run only checks the model.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{cfg.runCmd.Flags()},
		},
		{
			name: "Solver.Command",
			usage: `
              Solver.Command is the solver program to run.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.runCmd.Flags()},
		},
		{
			name: "Solver.Args",
			usage: `
              Solver.Args are the arguments of the solver program. {model},
              {solver} and {results} are replaced by the model file, the
              solver name and ResultsDir.`,
			defaultVal: []string{"{model}", "{results}", "{solver}"},
			flagsets:   []*pflag.FlagSet{cfg.runCmd.Flags()},
		},
		{
			name: "Solver.Name",
			usage: `
              Solver.Name is the solver to use (for example highs, cbc or
              glpk). If it is empty, the default solver is used.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.runCmd.Flags()},
		},
		{
			name: "Solver.Supported",
			usage: `
              Solver.Supported lists the solver names the solver program
              accepts.`,
			defaultVal: []string{"highs", "cbc", "glpk"},
			flagsets:   []*pflag.FlagSet{cfg.runCmd.Flags()},
		},
		{
			name: "ResultsDir",
			usage: `
              ResultsDir is the directory the solver writes its results to.`,
			defaultVal: "results",
			flagsets:   []*pflag.FlagSet{cfg.runCmd.Flags()},
		},
		{
			name: "View",
			usage: `
              View is the solution variable to print.`,
			defaultVal: "NewCapacity",
			flagsets:   []*pflag.FlagSet{cfg.runCmd.Flags()},
		},
		{
			name: "ExportExcel",
			usage: `
              ExportExcel specifies whether to export every solution
              variable to an Excel file in ResultsDir/xlsx.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{cfg.runCmd.Flags()},
		},
	}

	// Set the prefix for configuration environment variables.
	cfg.SetEnvPrefix("OSPREP")
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

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
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case []int:
				if option.shorthand == "" {
					set.IntSlice(option.name, option.defaultVal.([]int), option.usage)
				} else {
					set.IntSliceP(option.name, option.shorthand, option.defaultVal.([]int), option.usage)
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
			cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
	return cfg
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig(cfg *Cfg) error {
	if cfgpath := cfg.GetString("config"); cfgpath != "" {
		cfg.SetConfigFile(cfgpath)
		if err := cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("osprep: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// setLog sets up the logger to write to the output of cmd at the
// configured level.
func (cfg *Cfg) setLog(cmd *cobra.Command) error {
	level, err := logrus.ParseLevel(cfg.GetString("LogLevel"))
	if err != nil {
		return fmt.Errorf("osprep: invalid LogLevel: %v", err)
	}
	cfg.Log.Out = cmd.OutOrStderr()
	cfg.Log.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	cfg.Log.Level = level
	return nil
}
