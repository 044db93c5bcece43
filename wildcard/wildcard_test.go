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

package wildcard

import (
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/osprep"
)

const testSets = "SET,VALUE\nREGION,ISRAEL\nTECHNOLOGY,T1\nTECHNOLOGY,T2\nYEAR,2015\nYEAR,2016\nYEAR,2017\n"

func discard() logrus.FieldLogger {
	log := logrus.New()
	log.Out = ioutil.Discard
	return log
}

// testDir creates a directory holding the given files.
func testDir(t *testing.T, files map[string]string) string {
	dir, err := ioutil.TempDir("", "osprep_wildcard")
	if err != nil {
		t.Fatal(err)
	}
	for name, content := range files {
		if err := ioutil.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func readFile(t *testing.T, path string) string {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestNewExpander(t *testing.T) {
	dir := testDir(t, map[string]string{"SETS.csv": testSets})
	defer os.RemoveAll(dir)
	e, err := NewExpander(dir, nil, discard())
	if err != nil {
		t.Fatal(err)
	}
	if want := []int{2015, 2016, 2017}; !reflect.DeepEqual(e.Years, want) {
		t.Errorf("years from sets: have %v, want %v", e.Years, want)
	}
	e, err = NewExpander(dir, []int{2020}, discard())
	if err != nil {
		t.Fatal(err)
	}
	if want := []int{2020}; !reflect.DeepEqual(e.Years, want) {
		t.Errorf("explicit years: have %v, want %v", e.Years, want)
	}

	empty := testDir(t, nil)
	defer os.RemoveAll(empty)
	e, err = NewExpander(empty, nil, discard())
	if err != nil {
		t.Fatal(err)
	}
	if len(e.Years) != 36 || e.Years[0] != 2015 || e.Years[35] != 2050 || e.Sets != nil {
		t.Errorf("default years: have %v", e.Years)
	}

	bad := testDir(t, map[string]string{"SETS.csv": "SET,VALUE\nYEAR,2015\nYEAR,2015\n"})
	defer os.RemoveAll(bad)
	if _, err := NewExpander(bad, nil, discard()); err == nil {
		t.Error("want error for invalid sets file")
	}
}

func TestExpandFile(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   string
		status Status
	}{
		{
			name:   "year wildcard with literal override",
			in:     "REGION,TECHNOLOGY,YEAR,VALUE\nISRAEL,T1,*,1\nISRAEL,T1,2016,5\n",
			want:   "REGION,TECHNOLOGY,YEAR,VALUE\nISRAEL,T1,2015,1\nISRAEL,T1,2016,5\nISRAEL,T1,2017,1\n",
			status: Expanded,
		},
		{
			name:   "wildcard in a set column",
			in:     "TECHNOLOGY,YEAR,VALUE\n*,2015,0.25\n",
			want:   "TECHNOLOGY,YEAR,VALUE\nT1,2015,0.25\nT2,2015,0.25\n",
			status: Expanded,
		},
		{
			name:   "column not in sets",
			in:     "TECHNOLOGY,FUEL,YEAR,VALUE\nT2,Gas,*,2\nT1,Coal,*,3\n",
			want:   "TECHNOLOGY,FUEL,YEAR,VALUE\nT1,Coal,2015,3\nT1,Coal,2016,3\nT1,Coal,2017,3\nT2,Gas,2015,2\nT2,Gas,2016,2\nT2,Gas,2017,2\n",
			status: Expanded,
		},
		{
			name:   "value column first",
			in:     "VALUE,TECHNOLOGY,YEAR\n4,T2,*\n",
			want:   "VALUE,TECHNOLOGY,YEAR\n4,T2,2015\n4,T2,2016\n4,T2,2017\n",
			status: Expanded,
		},
		{
			name:   "columns after value",
			in:     "TECHNOLOGY,YEAR,VALUE,UNIT\nT1,*,1,PJ\n",
			want:   "TECHNOLOGY,YEAR,VALUE,UNIT\nT1,2015,1,PJ\nT1,2016,1,PJ\nT1,2017,1,PJ\n",
			status: Expanded,
		},
		{
			name:   "no value column",
			in:     "REGION,YEAR\nISRAEL,*\n",
			want:   "REGION,YEAR\nISRAEL,2015\nISRAEL,2016\nISRAEL,2017\n",
			status: Expanded,
		},
		{
			name:   "no wildcards",
			in:     "TECHNOLOGY,YEAR,VALUE\nT2,2016,0.20\nT1,2015,1\n",
			want:   "TECHNOLOGY,YEAR,VALUE\nT2,2016,0.20\nT1,2015,1\n",
			status: Unchanged,
		},
		{
			name:   "no year column",
			in:     "TECHNOLOGY,VALUE\n*,1\nT1,2\n",
			want:   "TECHNOLOGY,VALUE\n*,1\nT1,2\n",
			status: Skipped,
		},
	}
	dir := testDir(t, map[string]string{"SETS.csv": testSets})
	defer os.RemoveAll(dir)
	e, err := NewExpander(dir, nil, discard())
	if err != nil {
		t.Fatal(err)
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			file := filepath.Join(dir, "Param.csv")
			if err := ioutil.WriteFile(file, []byte(test.in), 0644); err != nil {
				t.Fatal(err)
			}
			s, err := e.ExpandFile(file, "")
			if err != nil {
				t.Fatal(err)
			}
			if s.Status != test.status {
				t.Errorf("status: have %s, want %s", s.Status, test.status)
			}
			if have := readFile(t, file); have != test.want {
				t.Errorf("have\n%s\nwant\n%s", have, test.want)
			}
		})
	}
}

func TestExpandFileEmptySets(t *testing.T) {
	// No MODE_OF_OPERATION or FUEL rows, so those sets are read as empty.
	dir := testDir(t, map[string]string{
		"SETS.csv":  testSets,
		"Ratio.csv": "REGION,TECHNOLOGY,FUEL,MODE_OF_OPERATION,YEAR,VALUE\nISRAEL,T1,Gas,1,*,10\n",
	})
	defer os.RemoveAll(dir)
	e, err := NewExpander(dir, nil, discard())
	if err != nil {
		t.Fatal(err)
	}
	if !e.Sets.Has(osprep.ModeOfOperation) {
		t.Fatal("model sets missing from the sets file should be registered as empty")
	}
	file := filepath.Join(dir, "Ratio.csv")
	s, err := e.ExpandFile(file, "")
	if err != nil {
		t.Fatal(err)
	}
	if s.Status != Expanded {
		t.Errorf("status: have %s, want %s", s.Status, Expanded)
	}
	want := "REGION,TECHNOLOGY,FUEL,MODE_OF_OPERATION,YEAR,VALUE\n" +
		"ISRAEL,T1,Gas,1,2015,10\nISRAEL,T1,Gas,1,2016,10\nISRAEL,T1,Gas,1,2017,10\n"
	if have := readFile(t, file); have != want {
		t.Errorf("have\n%s\nwant\n%s", have, want)
	}

	if err := ioutil.WriteFile(file, []byte("TECHNOLOGY,MODE_OF_OPERATION,YEAR,VALUE\nT1,*,2015,1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := e.ExpandFile(file, ""); err == nil {
		t.Error("a wildcard against an empty set should fail")
	}
}

func TestExpandFileOutput(t *testing.T) {
	dir := testDir(t, map[string]string{
		"SETS.csv":  testSets,
		"Plain.csv": "TECHNOLOGY,YEAR,VALUE\nT1,2015,1\n",
		"Wild.csv":  "TECHNOLOGY,YEAR,VALUE\nT1,*,1\n",
	})
	defer os.RemoveAll(dir)
	e, err := NewExpander(dir, nil, discard())
	if err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out.csv")
	s, err := e.ExpandFile(filepath.Join(dir, "Plain.csv"), out)
	if err != nil {
		t.Fatal(err)
	}
	if s.Status != Unchanged || readFile(t, out) != "TECHNOLOGY,YEAR,VALUE\nT1,2015,1\n" {
		t.Errorf("unchanged file should be copied to the output: %s", readFile(t, out))
	}
	s, err = e.ExpandFile(filepath.Join(dir, "Wild.csv"), out)
	if err != nil {
		t.Fatal(err)
	}
	if s.Rows != 1 || s.Wildcards != 1 || s.Written != 3 {
		t.Errorf("summary: %+v", s)
	}
	if have := readFile(t, filepath.Join(dir, "Wild.csv")); have != "TECHNOLOGY,YEAR,VALUE\nT1,*,1\n" {
		t.Errorf("input should not change when writing elsewhere: %s", have)
	}
}

func TestExpandFileErrors(t *testing.T) {
	dir := testDir(t, nil)
	defer os.RemoveAll(dir)
	e := &Expander{Years: []int{2015, 2016}, Log: discard()}
	tests := map[string]string{
		"unknown year":     "TECHNOLOGY,YEAR,VALUE\nT1,*,1\nT1,1990,2\n",
		"conflict":         "TECHNOLOGY,YEAR,VALUE\nT1,*,1\nT1,*,2\n",
		"no set":           "TECHNOLOGY,YEAR,VALUE\n*,*,1\n",
		"bad value":        "TECHNOLOGY,YEAR,VALUE\nT1,*,x\n",
		"duplicate column": "TECHNOLOGY,YEAR,TECHNOLOGY,VALUE\nT1,*,T1,1\n",
	}
	for name, in := range tests {
		file := filepath.Join(dir, "Param.csv")
		if err := ioutil.WriteFile(file, []byte(in), 0644); err != nil {
			t.Fatal(err)
		}
		s, err := e.ExpandFile(file, "")
		if err == nil || s.Status != Failed || s.Err == nil {
			t.Errorf("%s: want failure, have %+v", name, s)
		}
		if readFile(t, file) != in {
			t.Errorf("%s: failed file was modified", name)
		}
	}

	file := filepath.Join(dir, "Param.csv")
	if err := ioutil.WriteFile(file, []byte(tests["unknown year"]), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := e.ExpandFile(file, "")
	var unk *osprep.UnknownIdentifierError
	if !errors.As(err, &unk) || unk.Value != "1990" {
		t.Errorf("have %v, want UnknownIdentifierError for 1990", err)
	}
}

func TestExpandDir(t *testing.T) {
	dir := testDir(t, map[string]string{
		"SETS.csv":             testSets,
		"CapacityFactor.csv":   "TECHNOLOGY,YEAR,VALUE\nT1,*,0.5\n",
		"Broken.csv":           "TECHNOLOGY,YEAR,VALUE\nT1,*,1\nT1,*,2\n",
		"Notes.csv":            "NOTE,VALUE\nhello,1\n",
		"ResidualCapacity.csv": "TECHNOLOGY,YEAR,VALUE\nT1,2015,8\n",
	})
	defer os.RemoveAll(dir)
	e, err := NewExpander(dir, nil, discard())
	if err != nil {
		t.Fatal(err)
	}
	sums, err := e.ExpandDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var have []string
	for _, s := range sums {
		have = append(have, filepath.Base(s.File)+":"+s.Status.String())
	}
	want := []string{"Broken.csv:failed", "CapacityFactor.csv:expanded", "Notes.csv:skipped", "ResidualCapacity.csv:unchanged"}
	if !reflect.DeepEqual(have, want) {
		t.Errorf("have %v, want %v", have, want)
	}
	if readFile(t, filepath.Join(dir, "SETS.csv")) != testSets {
		t.Error("the sets file should not be touched")
	}

	report := SummaryTable(sums)
	if len(report) != 5 {
		t.Fatalf("have %d report lines, want 5", len(report))
	}
	if want := []string{"CapacityFactor.csv", "expanded", "1", "1", "3", ""}; !reflect.DeepEqual(report[2], want) {
		t.Errorf("report row: have %v, want %v", report[2], want)
	}
	if !strings.Contains(report[1][5], "both expand to") {
		t.Errorf("report should include the error: %v", report[1])
	}

	if _, err := e.ExpandDir(filepath.Join(dir, "missing")); err == nil {
		t.Error("want error for a missing directory")
	}
}
