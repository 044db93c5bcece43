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

package solve

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/osprep/modelio"
	"github.com/spatialmodel/osprep/params"
)

// Runner loads a model document and passes it to a Solver.
type Runner struct {
	Solver Solver

	// Available reports whether a solver backend can be used at all.
	Available bool

	Log logrus.FieldLogger
}

// Load reads and checks the model document in file.
func Load(file string) (*params.Document, error) {
	if _, err := os.Stat(file); err != nil {
		return nil, fmt.Errorf("solve: model file not found: %v", err)
	}
	doc, err := modelio.LoadDocument(file)
	if err != nil {
		return nil, err
	}
	if _, err := doc.Tables(params.Kinds()...); err != nil {
		return nil, fmt.Errorf("solve: invalid model %s: %w", file, err)
	}
	return doc, nil
}

// Run loads the model in file and solves it.
func (r *Runner) Run(ctx context.Context, file, solverName string) (*Solution, error) {
	log := r.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	doc, err := Load(file)
	if err != nil {
		return nil, err
	}
	m := doc.Model
	regions := make([]string, len(m.Regions))
	for i, reg := range m.Regions {
		regions[i] = reg.ID
	}
	log.WithFields(logrus.Fields{
		"id":           m.ID,
		"horizon":      fmt.Sprintf("%d-%d", m.TimeDefinition.StartYear, m.TimeDefinition.EndYear),
		"regions":      regions,
		"technologies": len(m.Technologies),
		"commodities":  len(m.Commodities),
	}).Info("model loaded")

	if !r.Available || r.Solver == nil {
		return nil, ErrSolverUnavailable
	}
	sol, err := r.Solver.Solve(ctx, file, solverName)
	if err != nil {
		return nil, err
	}
	log.WithField("variables", len(sol.Variables)).Info("model solved")
	return sol, nil
}
