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

// Package solve runs an external optimization solver on a model document
// and reads back its solution. No solver is linked into this package:
// whether one is available is decided once, by the caller.
package solve

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
)

// Solver failure categories. Errors returned by a Solver wrap one of
// these where the failure can be classified.
var (
	ErrSolverUnavailable = errors.New("solve: no solver backend is available")
	ErrUnknownSolver     = errors.New("solve: solver not found or not supported")
	ErrInfeasible        = errors.New("solve: model is infeasible")
	ErrUnbounded         = errors.New("solve: model is unbounded")
)

// A Solver solves the model in modelFile using the named solver, or a
// default solver if solverName is empty.
type Solver interface {
	Solve(ctx context.Context, modelFile, solverName string) (*Solution, error)
}

// Command is a Solver that runs an external program. The placeholders
// {model}, {solver} and {results} in Args are replaced by the model file,
// the solver name and ResultsDir. The program is expected to write one
// CSV file per solution variable to ResultsDir.
type Command struct {
	Path       string
	Args       []string
	ResultsDir string

	// Solvers lists the solver names the program accepts. If it is empty,
	// any name is passed through.
	Solvers []string

	Log logrus.FieldLogger
}

// Solve implements the Solver interface.
func (c *Command) Solve(ctx context.Context, modelFile, solverName string) (*Solution, error) {
	if c.Path == "" {
		return nil, ErrSolverUnavailable
	}
	path, err := exec.LookPath(c.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSolverUnavailable, err)
	}
	if solverName != "" && len(c.Solvers) > 0 {
		ok := false
		for _, s := range c.Solvers {
			ok = ok || strings.EqualFold(s, solverName)
		}
		if !ok {
			return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnknownSolver, solverName, strings.Join(c.Solvers, ", "))
		}
	}
	if err := os.MkdirAll(c.ResultsDir, os.ModePerm); err != nil {
		return nil, err
	}
	r := strings.NewReplacer("{model}", modelFile, "{solver}", solverName, "{results}", c.ResultsDir)
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = r.Replace(a)
	}
	log := c.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	log.WithFields(logrus.Fields{
		"command": path,
		"args":    args,
		"solver":  solverName,
	}).Info("running solver")

	cmd := exec.CommandContext(ctx, path, args...)
	o, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, Classify(string(o), err)
	}
	log.WithField("output", strings.TrimSpace(string(o))).Debug("solver finished")
	return ReadSolution(c.ResultsDir)
}

// Classify returns an error describing a failed solver run with the given
// output, wrapping the matching failure category if there is one.
func Classify(output string, err error) error {
	msg := strings.TrimSpace(output)
	if i := strings.LastIndex(msg, "\n"); i >= 0 {
		msg = msg[i+1:]
	}
	lower := strings.ToLower(output)
	switch {
	case strings.Contains(lower, "infeasible"):
		return fmt.Errorf("%w: %s", ErrInfeasible, msg)
	case strings.Contains(lower, "unbounded"):
		return fmt.Errorf("%w: %s", ErrUnbounded, msg)
	case strings.Contains(lower, "solver") &&
		(strings.Contains(lower, "not found") || strings.Contains(lower, "unknown") || strings.Contains(lower, "not available")):
		return fmt.Errorf("%w: %s", ErrUnknownSolver, msg)
	}
	if msg == "" {
		return fmt.Errorf("solve: solver failed: %v", err)
	}
	return fmt.Errorf("solve: solver failed: %v: %s", err, msg)
}

// Hint returns advice for the user about the given solver error.
func Hint(err error) string {
	switch {
	case errors.Is(err, ErrSolverUnavailable):
		return "install a solver (for example HiGHS, CBC or GLPK) and set the solver command"
	case errors.Is(err, ErrUnknownSolver):
		return "check the solver name or let the default solver be used"
	case errors.Is(err, ErrInfeasible):
		return "the constraints cannot be met; check that capacity can meet demand and that no input data is missing"
	case errors.Is(err, ErrUnbounded):
		return "the objective can improve without limit; check for missing cost parameters or capacity limits"
	}
	return "check the model file and the solver installation"
}
