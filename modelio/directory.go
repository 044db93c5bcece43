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

package modelio

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spatialmodel/osprep"
	"github.com/spatialmodel/osprep/params"
)

// TableFile returns the name of the file holding parameter kind k.
func TableFile(k params.Kind) string { return string(k) + ".csv" }

// WriteDirectory writes the sets file and one CSV file per table to dir,
// creating it if necessary.
func WriteDirectory(dir string, reg *osprep.Registry, tables params.Tables) error {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return fmt.Errorf("modelio: %v", err)
	}
	if err := writeFile(filepath.Join(dir, SetsFile), func(f *os.File) error {
		return WriteSets(f, reg)
	}); err != nil {
		return err
	}
	for _, k := range params.Kinds() {
		t, ok := tables[k]
		if !ok {
			continue
		}
		if err := writeFile(filepath.Join(dir, TableFile(k)), func(f *os.File) error {
			return WriteTable(f, t)
		}); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("modelio: %v", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("modelio: writing %s: %v", path, err)
	}
	return f.Close()
}

// ReadDirectory reads a data set written by WriteDirectory. Table files
// may contain wildcards; they are expanded against the sets file. Kinds
// without a file are left out of the returned tables.
func ReadDirectory(dir string) (*osprep.Registry, params.Tables, error) {
	f, err := os.Open(filepath.Join(dir, SetsFile))
	if err != nil {
		return nil, nil, fmt.Errorf("modelio: %v", err)
	}
	reg, err := ReadSets(f)
	f.Close()
	if err != nil {
		return nil, nil, err
	}
	tables := make(params.Tables)
	for _, k := range params.Kinds() {
		t, err := readTable(filepath.Join(dir, TableFile(k)), k, reg)
		if os.IsNotExist(err) {
			continue
		} else if err != nil {
			return nil, nil, err
		}
		tables[k] = t
	}
	return reg, tables, nil
}

func readTable(path string, k params.Kind, reg *osprep.Registry) (*osprep.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	schema, recs, err := ReadRecords(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if schema.String() != k.Schema().String() {
		return nil, fmt.Errorf("modelio: %s has columns %s; want %s", path, schema, k.Schema())
	}
	t, err := osprep.Expand(reg, k.Schema(), recs)
	if err != nil {
		return nil, fmt.Errorf("modelio: %s: %w", path, err)
	}
	return t, nil
}
