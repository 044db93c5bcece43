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
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/osprep/modelio"
	"github.com/spatialmodel/osprep/params"
	"github.com/tealeg/xlsx"
)

const tinyTOML = `
id = "tiny"
start_year = 2015
end_year = 2016
regions = ["R1"]
time_slices = ["ALL"]
modes_of_operation = [1]
demand_region = "R1"
demand_commodities = ["Elec"]

[[commodity_groups]]
name = "all"
values = ["Gas", "Elec"]

[[technology_groups]]
name = "power"
values = ["GasPlant"]

[capacity_factor]
GasPlant = 0.9

[input_activity_ratio]
GasPlant = { Gas = 2.0 }

[output_activity_ratio]
GasPlant = { Elec = 1.0 }
`

func discard() logrus.FieldLogger {
	log := logrus.New()
	log.Out = ioutil.Discard
	return log
}

// writeModel writes a small model document to dir and returns its path.
func writeModel(t *testing.T, dir string) string {
	def, err := params.ReadDefinition(strings.NewReader(tinyTOML))
	if err != nil {
		t.Fatal(err)
	}
	a, err := params.NewAssembler(def, nil, params.Log(discard()))
	if err != nil {
		t.Fatal(err)
	}
	doc, err := a.Document()
	if err != nil {
		t.Fatal(err)
	}
	file := filepath.Join(dir, "tiny.yaml")
	if err := modelio.SaveDocument(file, doc); err != nil {
		t.Fatal(err)
	}
	return file
}

// writeScript writes an executable shell script to dir.
func writeScript(t *testing.T, dir, body string) string {
	file := filepath.Join(dir, "solver.sh")
	if err := ioutil.WriteFile(file, []byte("#!/bin/sh\n"+body), 0755); err != nil {
		t.Fatal(err)
	}
	return file
}

func TestClassify(t *testing.T) {
	failed := errors.New("exit status 1")
	tests := []struct {
		output string
		want   error
	}{
		{"Presolve: problem is INFEASIBLE\n", ErrInfeasible},
		{"Model status: Unbounded", ErrUnbounded},
		{"Solver 'gurobi' not found", ErrUnknownSolver},
		{"unknown solver name xyz", ErrUnknownSolver},
		{"segmentation fault", nil},
	}
	for _, test := range tests {
		err := Classify(test.output, failed)
		if test.want == nil {
			for _, e := range []error{ErrInfeasible, ErrUnbounded, ErrUnknownSolver, ErrSolverUnavailable} {
				if errors.Is(err, e) {
					t.Errorf("%q: should not be classified as %v", test.output, e)
				}
			}
			if !strings.Contains(err.Error(), "segmentation fault") {
				t.Errorf("%q: error should include the output: %v", test.output, err)
			}
			continue
		}
		if !errors.Is(err, test.want) {
			t.Errorf("%q: have %v, want %v", test.output, err, test.want)
		}
		if Hint(err) == Hint(errors.New("other")) {
			t.Errorf("%q: want a specific hint", test.output)
		}
	}
}

func TestRun(t *testing.T) {
	dir, err := ioutil.TempDir("", "osprep_solve")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	model := writeModel(t, dir)
	results := filepath.Join(dir, "results")
	script := writeScript(t, dir, `test -f "$1" || exit 2
printf 'REGION,TECHNOLOGY,YEAR,VALUE\nR1,GasPlant,2015,3.5\nR1,GasPlant,2016,0\n' > "$2/NewCapacity.csv"
printf 'REGION,VALUE\nR1,1234.5\n' > "$2/TotalDiscountedCost.csv"
`)

	r := &Runner{
		Solver: &Command{
			Path:       script,
			Args:       []string{"{model}", "{results}", "{solver}"},
			ResultsDir: results,
			Solvers:    []string{"highs", "cbc", "glpk"},
			Log:        discard(),
		},
		Available: true,
		Log:       discard(),
	}
	sol, err := r.Run(context.Background(), model, "highs")
	if err != nil {
		t.Fatal(err)
	}
	if have, want := strings.Join(sol.Names(), ","), "NewCapacity,TotalDiscountedCost"; have != want {
		t.Errorf("variables: have %s, want %s", have, want)
	}

	var b bytes.Buffer
	if err := sol.View(&b, DefaultVariable); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	if len(lines) != 4 || lines[0] != "NewCapacity:" || !strings.Contains(lines[2], "3.5") {
		t.Errorf("unexpected view:\n%s", b.String())
	}
	if err := sol.View(&b, "Missing"); err == nil || !strings.Contains(err.Error(), "TotalDiscountedCost") {
		t.Errorf("want error listing the available variables, have %v", err)
	}

	files, err := sol.ExportExcel(filepath.Join(results, "xlsx"))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("have %d files, want 2", len(files))
	}
	f, err := xlsx.OpenFile(files[0])
	if err != nil {
		t.Fatal(err)
	}
	rows := f.Sheets[0].Rows
	if len(rows) != 3 || rows[1].Cells[2].Value != "2015" || rows[1].Cells[3].Value != "3.5" {
		t.Errorf("unexpected workbook contents")
	}

	if _, err := r.Run(context.Background(), model, "gurobi"); !errors.Is(err, ErrUnknownSolver) {
		t.Errorf("have %v, want ErrUnknownSolver", err)
	}
}

func TestRunFailures(t *testing.T) {
	dir, err := ioutil.TempDir("", "osprep_solve")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	model := writeModel(t, dir)

	r := &Runner{Available: false, Log: discard()}
	if _, err := r.Run(context.Background(), model, ""); !errors.Is(err, ErrSolverUnavailable) {
		t.Errorf("no capability: have %v, want ErrSolverUnavailable", err)
	}

	r = &Runner{
		Solver:    &Command{Path: filepath.Join(dir, "no-such-solver"), ResultsDir: dir, Log: discard()},
		Available: true,
		Log:       discard(),
	}
	if _, err := r.Run(context.Background(), model, ""); !errors.Is(err, ErrSolverUnavailable) {
		t.Errorf("missing program: have %v, want ErrSolverUnavailable", err)
	}

	for output, want := range map[string]error{
		"Model status: Infeasible": ErrInfeasible,
		"Model status: Unbounded":  ErrUnbounded,
	} {
		script := writeScript(t, dir, fmt.Sprintf("echo '%s'\nexit 1\n", output))
		r.Solver = &Command{Path: script, ResultsDir: filepath.Join(dir, "results"), Log: discard()}
		if _, err := r.Run(context.Background(), model, ""); !errors.Is(err, want) {
			t.Errorf("have %v, want %v", err, want)
		}
	}

	if _, err := r.Run(context.Background(), filepath.Join(dir, "missing.yaml"), ""); err == nil {
		t.Error("want error for a missing model file")
	}
	bad := filepath.Join(dir, "bad.yaml")
	content := "model:\n  id: bad\n  regions: [{id: R1}]\n  technologies:\n    - id: T1\n      capex: {'1990': 5}\n"
	if err := ioutil.WriteFile(bad, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("want error for a model with unknown years")
	}
}
