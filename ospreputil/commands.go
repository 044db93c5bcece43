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

package ospreputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/osprep/demand"
	"github.com/spatialmodel/osprep/modelio"
	"github.com/spatialmodel/osprep/params"
	"github.com/spatialmodel/osprep/solve"
	"github.com/spatialmodel/osprep/wildcard"
	"github.com/spf13/cobra"
)

func (cfg *Cfg) generate(cmd *cobra.Command) error {
	format, err := checkFormat(cfg.GetString("Format"))
	if err != nil {
		return err
	}
	def, err := loadDefinition(cfg.GetString("Scenario"))
	if err != nil {
		return err
	}
	base := cfg.GetFloat64("Demand.Base")
	growth := cfg.GetFloat64("Demand.GrowthRate")

	loader := demand.NewLoader(os.ExpandEnv(cfg.GetString("Demand.File")), def.Years(), def.StartYear)
	loader.Base = base
	loader.GrowthRate = growth
	loader.Log = cfg.Log
	proj, err := loader.Load(def.DemandCommodities)
	if err != nil {
		return err
	}
	if tmpl := cfg.GetString("Demand.Template"); tmpl != "" {
		if err := demand.WriteWorkbook(os.ExpandEnv(tmpl), def.DemandCommodities, proj); err != nil {
			return err
		}
		cfg.Log.WithField("file", tmpl).Info("wrote demand workbook")
	}

	a, err := params.NewAssembler(def, proj,
		params.DecayRate(cfg.GetFloat64("DecayRate")),
		params.WithDiurnal(diurnalConfig(cfg.Viper)),
		params.DefaultDemand(base, growth),
		params.Log(cfg.Log),
	)
	if err != nil {
		return err
	}
	_, err = Generate(context.Background(), a, os.ExpandEnv(cfg.GetString("OutputDir")), format, cmd.OutOrStdout(), cfg.Log)
	return err
}

// Generate assembles every parameter of a and writes them to dir in the
// given format, printing a summary of the tables to w. It returns the
// path of the model document, or of dir for CSV output.
//
// A YAML document is read back after it is written, and an error is
// returned if it does not expand to the same tables.
func Generate(ctx context.Context, a *params.Assembler, dir, format string, w io.Writer, log logrus.FieldLogger) (string, error) {
	format, err := checkFormat(format)
	if err != nil {
		return "", err
	}
	tables, err := a.AssembleAll(ctx)
	if err != nil {
		return "", err
	}
	out := dir
	switch format {
	case FormatCSV:
		if err := modelio.WriteDirectory(dir, a.Registry(), tables); err != nil {
			return "", err
		}
	case FormatYAML:
		doc, err := a.Document()
		if err != nil {
			return "", err
		}
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return "", err
		}
		out = filepath.Join(dir, a.Definition().ID+".yaml")
		if err := modelio.SaveDocument(out, doc); err != nil {
			return "", err
		}
		if err := verifyDocument(out, tables); err != nil {
			return "", err
		}
	}
	log.WithFields(logrus.Fields{
		"format": format,
		"output": out,
		"tables": len(tables),
	}).Info("model data written")
	if _, err := tables.Summary().Tabbed(w); err != nil {
		return "", err
	}
	return out, nil
}

// verifyDocument checks that the document in file expands to tables.
func verifyDocument(file string, tables params.Tables) error {
	doc, err := modelio.LoadDocument(file)
	if err != nil {
		return err
	}
	kinds := make([]params.Kind, 0, len(tables))
	for _, k := range params.Kinds() {
		if _, ok := tables[k]; ok {
			kinds = append(kinds, k)
		}
	}
	again, err := doc.Tables(kinds...)
	if err != nil {
		return fmt.Errorf("osprep: verifying %s: %w", file, err)
	}
	for _, k := range kinds {
		if again[k].Fingerprint() != tables[k].Fingerprint() {
			return fmt.Errorf("osprep: verifying %s: %s does not match the assembled table", file, k)
		}
	}
	return nil
}

func (cfg *Cfg) expand(cmd *cobra.Command, args []string) error {
	years, err := toIntSliceE(cfg.Get("Years"))
	if err != nil {
		return fmt.Errorf("osprep: reading 'Years': %v", err)
	}
	if cfg.GetBool("all") {
		if len(args) != 1 {
			return fmt.Errorf("osprep: expand --all takes a single directory")
		}
		e, err := wildcard.NewExpander(args[0], years, cfg.Log)
		if err != nil {
			return err
		}
		sums, err := e.ExpandDir(args[0])
		if err != nil {
			return err
		}
		_, err = wildcard.SummaryTable(sums).Tabbed(cmd.OutOrStdout())
		return err
	}
	var out string
	if len(args) > 1 {
		out = args[1]
	}
	e, err := wildcard.NewExpander(filepath.Dir(args[0]), years, cfg.Log)
	if err != nil {
		return err
	}
	s, err := e.ExpandFile(args[0], out)
	if _, werr := wildcard.SummaryTable([]*wildcard.Summary{s}).Tabbed(cmd.OutOrStdout()); werr != nil && err == nil {
		err = werr
	}
	return err
}

func (cfg *Cfg) run(cmd *cobra.Command, args []string) error {
	model := os.ExpandEnv(cfg.GetString("ModelFile"))
	if len(args) == 1 {
		model = args[0]
	}
	command := cfg.GetString("Solver.Command")
	results := os.ExpandEnv(cfg.GetString("ResultsDir"))
	r := &solve.Runner{
		Solver: &solve.Command{
			Path:       command,
			Args:       cfg.GetStringSlice("Solver.Args"),
			ResultsDir: results,
			Solvers:    cfg.GetStringSlice("Solver.Supported"),
			Log:        cfg.Log,
		},
		Available: cfg.GetBool("Solver.Available") && command != "",
		Log:       cfg.Log,
	}
	sol, err := r.Run(context.Background(), model, cfg.GetString("Solver.Name"))
	if errors.Is(err, solve.ErrSolverUnavailable) && !r.Available {
		cfg.Log.WithField("model", model).Warn("model checked; no solver is available to solve it")
		return nil
	} else if err != nil {
		return fmt.Errorf("%w\n%s", err, solve.Hint(err))
	}
	if err := sol.View(cmd.OutOrStdout(), cfg.GetString("View")); err != nil {
		cfg.Log.Warn(err)
	}
	if cfg.GetBool("ExportExcel") {
		files, err := sol.ExportExcel(filepath.Join(results, "xlsx"))
		if err != nil {
			return err
		}
		cfg.Log.WithField("files", len(files)).Info("exported solution")
	}
	return nil
}
