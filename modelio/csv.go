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

// Package modelio reads and writes model input data sets: per-parameter
// CSV tables with a SETS.csv file, or a single YAML document.
package modelio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spatialmodel/osprep"
)

// ValueColumn is the name of the value column of a parameter table.
const ValueColumn = "VALUE"

// FormatValue formats the value of a VALUE cell.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func header(schema osprep.Schema) []string {
	h := make([]string, len(schema)+1)
	for i, d := range schema {
		h[i] = string(d)
	}
	h[len(schema)] = ValueColumn
	return h
}

// WriteTable writes t as CSV with a header row of its schema followed
// by VALUE.
func WriteTable(w io.Writer, t *osprep.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header(t.Schema)); err != nil {
		return err
	}
	line := make([]string, len(t.Schema)+1)
	for _, r := range t.Rows {
		copy(line, r.Key)
		line[len(t.Schema)] = FormatValue(r.Value)
		if err := cw.Write(line); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRecords writes sparse records as CSV, with wildcards written as
// "*". Records are written in the order given.
func WriteRecords(w io.Writer, schema osprep.Schema, recs []osprep.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header(schema)); err != nil {
		return err
	}
	for _, rec := range recs {
		if len(rec.Key) != len(schema) {
			return fmt.Errorf("modelio: key %s does not match schema %s", rec.Key, schema)
		}
		line := make([]string, 0, len(schema)+1)
		for _, c := range rec.Key {
			line = append(line, c.String())
		}
		line = append(line, FormatValue(rec.Value))
		if err := cw.Write(line); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadRecords reads a CSV parameter table. The last column must be VALUE
// and the others are taken as the schema. Key cells holding "*" are
// wildcards.
func ReadRecords(r io.Reader) (osprep.Schema, []osprep.Record, error) {
	lines, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("modelio: %v", err)
	}
	if len(lines) == 0 {
		return nil, nil, fmt.Errorf("modelio: missing header row")
	}
	schema, err := ParseHeader(lines[0])
	if err != nil {
		return nil, nil, err
	}
	recs := make([]osprep.Record, 0, len(lines)-1)
	for i, line := range lines[1:] {
		rec := osprep.Record{Key: make(osprep.Key, len(schema))}
		for j := range schema {
			rec.Key[j] = osprep.ParseComponent(line[j])
		}
		if rec.Value, err = ParseValue(line[len(schema)]); err != nil {
			return nil, nil, fmt.Errorf("modelio: line %d: %v", i+2, err)
		}
		recs = append(recs, rec)
	}
	return schema, recs, nil
}

// ParseHeader returns the key schema of a table with the given header
// row, which must end with VALUE.
func ParseHeader(h []string) (osprep.Schema, error) {
	if len(h) == 0 || strings.TrimSpace(h[len(h)-1]) != ValueColumn {
		return nil, fmt.Errorf("modelio: last column of header %v must be %s", h, ValueColumn)
	}
	schema := make(osprep.Schema, len(h)-1)
	for i, c := range h[:len(h)-1] {
		schema[i] = osprep.Dimension(strings.TrimSpace(c))
	}
	return schema, nil
}

// ParseValue parses the text of a VALUE cell.
func ParseValue(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q", s)
	}
	return v, nil
}
