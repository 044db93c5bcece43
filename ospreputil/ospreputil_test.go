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
	"bytes"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/spatialmodel/osprep"
	"github.com/spatialmodel/osprep/modelio"
)

func tempDir(t *testing.T) string {
	dir, err := ioutil.TempDir("", "osprep_cmd")
	if err != nil {
		t.Fatal(err)
	}
	return dir
}

// execute runs the command line args and returns its output.
func execute(t *testing.T, cfg *Cfg, args ...string) (string, error) {
	var b bytes.Buffer
	cfg.Root.SetOutput(&b)
	cfg.Root.SetArgs(args)
	err := cfg.Root.Execute()
	return b.String(), err
}

func TestVersion(t *testing.T) {
	cfg := InitializeConfig()
	out, err := execute(t, cfg, "version")
	if err != nil {
		t.Fatal(err)
	}
	if want := fmt.Sprintf("OSPrep v%s\n", osprep.Version); out != want {
		t.Errorf("have %q, want %q", out, want)
	}
}

func TestGenerateYAML(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)

	cfg := InitializeConfig()
	cfg.Set("OutputDir", dir)
	cfg.Set("Demand.File", filepath.Join(dir, "missing.xlsx"))
	cfg.Set("Demand.Template", filepath.Join(dir, "demand.xlsx"))
	out, err := execute(t, cfg, "generate")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"CapacityFactor", "SpecifiedAnnualDemand", "demand workbook not found", "model data written"} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q:\n%s", want, out)
		}
	}
	doc, err := modelio.LoadDocument(filepath.Join(dir, "israel_energy_model.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Model.Technologies) != 80 {
		t.Errorf("have %d technologies, want 80", len(doc.Model.Technologies))
	}

	// The template holds the default demand, so reading it back
	// should give the same model.
	cfg = InitializeConfig()
	cfg.Set("OutputDir", filepath.Join(dir, "again"))
	cfg.Set("Demand.File", filepath.Join(dir, "demand.xlsx"))
	out, err = execute(t, cfg, "generate")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "not found") {
		t.Errorf("the demand template should be used:\n%s", out)
	}
	b1, err := ioutil.ReadFile(filepath.Join(dir, "israel_energy_model.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	b2, err := ioutil.ReadFile(filepath.Join(dir, "again", "israel_energy_model.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b1, b2) {
		t.Error("documents differ")
	}
}

func TestGenerateCSVAndExpand(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)
	data := filepath.Join(dir, "data")

	cfg := InitializeConfig()
	if _, err := execute(t, cfg, "generate", "--Format=csv", "--OutputDir="+data,
		"--Demand.File="+filepath.Join(dir, "missing.xlsx")); err != nil {
		t.Fatal(err)
	}
	for _, f := range []string{"SETS.csv", "CapacityFactor.csv", "SpecifiedAnnualDemand.csv"} {
		if _, err := os.Stat(filepath.Join(data, f)); err != nil {
			t.Error(err)
		}
	}

	cfg = InitializeConfig()
	out, err := execute(t, cfg, "expand", "--all", data)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "expanded") || strings.Contains(out, "failed") || !strings.Contains(out, "unchanged") {
		t.Errorf("generated files have no wildcards:\n%s", out)
	}
	if strings.Contains(out, "SETS.csv") {
		t.Errorf("the sets file should be skipped:\n%s", out)
	}
}

func TestExpandFile(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)
	in := filepath.Join(dir, "FixedCost.csv")
	if err := ioutil.WriteFile(in, []byte("REGION,TECHNOLOGY,YEAR,VALUE\nR1,T1,*,20\n"), 0644); err != nil {
		t.Fatal(err)
	}
	outFile := filepath.Join(dir, "out.csv")

	cfg := InitializeConfig()
	out, err := execute(t, cfg, "expand", "--Years=2020,2030", in, outFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "expanded") {
		t.Errorf("unexpected report:\n%s", out)
	}
	b, err := ioutil.ReadFile(outFile)
	if err != nil {
		t.Fatal(err)
	}
	if want := "REGION,TECHNOLOGY,YEAR,VALUE\nR1,T1,2020,20\nR1,T1,2030,20\n"; string(b) != want {
		t.Errorf("have\n%s\nwant\n%s", b, want)
	}

	cfg = InitializeConfig()
	if _, err := execute(t, cfg, "expand", filepath.Join(dir, "missing.csv")); err == nil {
		t.Error("want error for a missing file")
	}
}

func TestConfigFile(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)
	config := filepath.Join(dir, "config.toml")
	content := fmt.Sprintf(`Format = "csv"
OutputDir = %q

[Demand]
File = %q
Base = 500.0
`, filepath.Join(dir, "data"), filepath.Join(dir, "missing.xlsx"))
	if err := ioutil.WriteFile(config, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := InitializeConfig()
	if _, err := execute(t, cfg, "generate", "--config="+config); err != nil {
		t.Fatal(err)
	}
	b, err := ioutil.ReadFile(filepath.Join(dir, "data", "SpecifiedAnnualDemand.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "ISRAEL,ElecResidential,2015,500\n") {
		t.Errorf("configured demand base not used:\n%.300s", b)
	}

	cfg = InitializeConfig()
	if _, err := execute(t, cfg, "generate", "--config="+filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("want error for a missing configuration file")
	}
}

func TestEnvironment(t *testing.T) {
	os.Setenv("OSPREP_FORMAT", "xml")
	defer os.Unsetenv("OSPREP_FORMAT")
	cfg := InitializeConfig()
	if _, err := execute(t, cfg, "generate"); err == nil || !strings.Contains(err.Error(), "xml") {
		t.Errorf("have %v, want invalid format error", err)
	}
}

func TestRun(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)
	cfg := InitializeConfig()
	cfg.Set("OutputDir", dir)
	cfg.Set("Demand.File", filepath.Join(dir, "missing.xlsx"))
	if _, err := execute(t, cfg, "generate"); err != nil {
		t.Fatal(err)
	}
	model := filepath.Join(dir, "israel_energy_model.yaml")

	t.Run("check only", func(t *testing.T) {
		cfg := InitializeConfig()
		out, err := execute(t, cfg, "run", model)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out, "model loaded") || !strings.Contains(out, "no solver") {
			t.Errorf("unexpected output:\n%s", out)
		}
	})

	t.Run("missing model", func(t *testing.T) {
		cfg := InitializeConfig()
		if _, err := execute(t, cfg, "run", filepath.Join(dir, "missing.yaml")); err == nil {
			t.Error("want error")
		}
	})

	script := filepath.Join(dir, "solver.sh")
	body := "#!/bin/sh\nprintf 'REGION,TECHNOLOGY,YEAR,VALUE\\nISRAEL,PWR_NGCC,2015,12.5\\n' > \"$2/NewCapacity.csv\"\n"
	if err := ioutil.WriteFile(script, []byte(body), 0755); err != nil {
		t.Fatal(err)
	}
	results := filepath.Join(dir, "results")

	t.Run("solve", func(t *testing.T) {
		cfg := InitializeConfig()
		out, err := execute(t, cfg, "run", model, "--Solver.Available", "--Solver.Command="+script,
			"--ResultsDir="+results, "--ExportExcel")
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out, "NewCapacity:") || !strings.Contains(out, "12.5") {
			t.Errorf("solution not shown:\n%s", out)
		}
		if _, err := os.Stat(filepath.Join(results, "xlsx", "NewCapacity.xlsx")); err != nil {
			t.Error(err)
		}
	})

	t.Run("unknown solver", func(t *testing.T) {
		cfg := InitializeConfig()
		_, err := execute(t, cfg, "run", model, "--Solver.Available", "--Solver.Command="+script,
			"--ResultsDir="+results, "--Solver.Name=gurobi")
		if err == nil || !strings.Contains(err.Error(), "solver name") {
			t.Errorf("have %v, want unknown solver error with hint", err)
		}
	})
}

func TestToIntSliceE(t *testing.T) {
	tests := []struct {
		in   interface{}
		want []int
	}{
		{in: []interface{}{int64(2015), int64(2016)}, want: []int{2015, 2016}},
		{in: "[2015,2016]", want: []int{2015, 2016}},
		{in: "2015, 2020", want: []int{2015, 2020}},
		{in: "[]", want: nil},
		{in: nil, want: nil},
		{in: []int{1}, want: []int{1}},
	}
	for _, test := range tests {
		have, err := toIntSliceE(test.in)
		if err != nil {
			t.Errorf("%v: %v", test.in, err)
			continue
		}
		if !reflect.DeepEqual(have, test.want) {
			t.Errorf("%v: have %v, want %v", test.in, have, test.want)
		}
	}
	if _, err := toIntSliceE("2015,soon"); err == nil {
		t.Error("want error")
	}
}
