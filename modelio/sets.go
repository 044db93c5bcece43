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
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/spatialmodel/osprep"
)

// SetsFile is the name of the file listing the registered values of each
// dimension.
const SetsFile = "SETS.csv"

// WriteSets writes the values of every registered model dimension as
// SET,VALUE rows.
func WriteSets(w io.Writer, reg *osprep.Registry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"SET", ValueColumn}); err != nil {
		return err
	}
	for _, d := range osprep.Dimensions {
		if !reg.Has(d) {
			continue
		}
		vals, err := reg.ValuesOf(d)
		if err != nil {
			return err
		}
		for _, v := range vals {
			if err := cw.Write([]string{string(d), v}); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadSets reads a sets file into a sealed registry. Sets are registered
// in the order they first appear. Model dimensions without any values
// are registered as empty.
func ReadSets(r io.Reader) (*osprep.Registry, error) {
	lines, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("modelio: reading sets: %v", err)
	}
	if len(lines) == 0 || len(lines[0]) != 2 ||
		strings.TrimSpace(lines[0][0]) != "SET" || strings.TrimSpace(lines[0][1]) != ValueColumn {
		return nil, fmt.Errorf("modelio: sets header must be SET,%s", ValueColumn)
	}
	var order []osprep.Dimension
	values := make(map[osprep.Dimension][]string)
	for _, line := range lines[1:] {
		d := osprep.Dimension(strings.TrimSpace(line[0]))
		if _, ok := values[d]; !ok {
			order = append(order, d)
		}
		values[d] = append(values[d], strings.TrimSpace(line[1]))
	}
	for _, d := range osprep.Dimensions {
		if _, ok := values[d]; !ok {
			order = append(order, d)
			values[d] = nil
		}
	}
	reg := osprep.NewRegistry()
	for _, d := range order {
		if err := reg.Register(d, values[d]); err != nil {
			return nil, fmt.Errorf("modelio: reading sets: %w", err)
		}
	}
	reg.Seal()
	return reg, nil
}
