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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spatialmodel/osprep"
	"github.com/spatialmodel/osprep/modelio"
	"github.com/tealeg/xlsx"
)

// DefaultVariable is the variable shown when none is chosen.
const DefaultVariable = "NewCapacity"

// A Variable is one solution variable.
type Variable struct {
	Name   string
	Schema osprep.Schema
	Rows   []osprep.Row
}

// TextTable returns the receiver as a table with a header row.
func (v *Variable) TextTable() osprep.TextTable {
	h := make([]string, 0, len(v.Schema)+1)
	for _, d := range v.Schema {
		h = append(h, string(d))
	}
	t := osprep.TextTable{append(h, modelio.ValueColumn)}
	for _, r := range v.Rows {
		line := append(append([]string{}, r.Key...), strconv.FormatFloat(r.Value, 'f', -1, 64))
		t = append(t, line)
	}
	return t
}

// A Solution holds the variables written by a solver, sorted by name.
type Solution struct {
	Dir       string
	Variables []*Variable
}

// ReadSolution reads every CSV file in dir as a solution variable named
// after the file.
func ReadSolution(dir string) (*Solution, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("solve: reading solution: %v", err)
	}
	files, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	s := &Solution{Dir: dir}
	for _, file := range files {
		v, err := readVariable(file)
		if err != nil {
			return nil, err
		}
		s.Variables = append(s.Variables, v)
	}
	return s, nil
}

func readVariable(file string) (*Variable, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	schema, recs, err := modelio.ReadRecords(f)
	if err != nil {
		return nil, fmt.Errorf("solve: %s: %w", file, err)
	}
	v := &Variable{
		Name:   strings.TrimSuffix(filepath.Base(file), filepath.Ext(file)),
		Schema: schema,
		Rows:   make([]osprep.Row, len(recs)),
	}
	for i, rec := range recs {
		key := make([]string, len(rec.Key))
		for j, c := range rec.Key {
			key[j] = c.String()
		}
		v.Rows[i] = osprep.Row{Key: key, Value: rec.Value}
	}
	return v, nil
}

// Names returns the names of the solution variables.
func (s *Solution) Names() []string {
	o := make([]string, len(s.Variables))
	for i, v := range s.Variables {
		o[i] = v.Name
	}
	return o
}

// Variable returns the variable with the given name.
func (s *Solution) Variable(name string) (*Variable, error) {
	for _, v := range s.Variables {
		if v.Name == name {
			return v, nil
		}
	}
	return nil, fmt.Errorf("solve: variable %q not found; available variables: %s",
		name, strings.Join(s.Names(), ", "))
}

// View writes the named variable to w as an aligned table.
func (s *Solution) View(w io.Writer, name string) error {
	v, err := s.Variable(name)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s:\n", name); err != nil {
		return err
	}
	_, err = v.TextTable().Tabbed(w)
	return err
}

// ExportExcel writes each variable to <dir>/<name>.xlsx and returns the
// files it wrote.
func (s *Solution) ExportExcel(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, err
	}
	var files []string
	for _, v := range s.Variables {
		f := xlsx.NewFile()
		sheet, err := f.AddSheet("Sheet1")
		if err != nil {
			return nil, err
		}
		h := sheet.AddRow()
		for _, d := range v.Schema {
			h.AddCell().SetString(string(d))
		}
		h.AddCell().SetString(modelio.ValueColumn)
		for _, r := range v.Rows {
			row := sheet.AddRow()
			for i, k := range r.Key {
				if n, err := strconv.Atoi(k); err == nil && v.Schema[i].Numeric() {
					row.AddCell().SetInt(n)
				} else {
					row.AddCell().SetString(k)
				}
			}
			row.AddCell().SetFloat(r.Value)
		}
		file := filepath.Join(dir, v.Name+".xlsx")
		if err := f.Save(file); err != nil {
			return nil, fmt.Errorf("solve: exporting %s: %v", v.Name, err)
		}
		files = append(files, file)
	}
	return files, nil
}
