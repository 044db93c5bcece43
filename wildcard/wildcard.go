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

// Package wildcard expands the wildcard entries of CSV parameter files,
// one file at a time or for a whole directory.
package wildcard

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/osprep"
	"github.com/spatialmodel/osprep/modelio"
)

// DefaultYears returns the years used when no year list is given and no
// sets file is available.
func DefaultYears() []int {
	years := make([]int, 0, 36)
	for y := 2015; y <= 2050; y++ {
		years = append(years, y)
	}
	return years
}

// An Expander expands wildcards in CSV parameter files. Wildcards in the
// YEAR column expand to Years. Wildcards in other columns expand to the
// values of that set in Sets. Literal values in columns that are not in
// Sets, or whose set is empty, are taken as they are.
//
// A file may have its VALUE column anywhere, or none at all; every other
// column is part of the key and the column order is kept on output.
type Expander struct {
	Years []int
	Sets  *osprep.Registry
	Log   logrus.FieldLogger
}

func (e *Expander) log() logrus.FieldLogger {
	if e.Log == nil {
		return logrus.StandardLogger()
	}
	return e.Log
}

// NewExpander returns an expander using the sets file in dir, if there is
// one. If years is empty, the years are taken from the sets file, or from
// DefaultYears if it is absent.
func NewExpander(dir string, years []int, log logrus.FieldLogger) (*Expander, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	e := &Expander{Years: years, Log: log}
	setsPath := filepath.Join(dir, modelio.SetsFile)
	f, err := os.Open(setsPath)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("wildcard: %v", err)
	default:
		e.Sets, err = modelio.ReadSets(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("wildcard: %s: %w", setsPath, err)
		}
	}
	if len(e.Years) > 0 {
		return e, nil
	}
	if e.Sets != nil {
		if e.Years, err = e.Sets.Ints(osprep.Year); err != nil {
			return nil, fmt.Errorf("wildcard: %s: %w", setsPath, err)
		}
	}
	if len(e.Years) == 0 {
		e.Years = DefaultYears()
		log.WithError(&osprep.MissingSourceDataError{
			Source:  setsPath,
			Default: fmt.Sprintf("years %d-%d", e.Years[0], e.Years[len(e.Years)-1]),
		}).Warn("no year set found")
	}
	return e, nil
}

// A Status is the outcome of processing one file.
type Status int

// File outcomes.
const (
	// Unchanged files have no wildcards.
	Unchanged Status = iota

	// Expanded files had wildcards and were rewritten.
	Expanded

	// Skipped files have no YEAR column and are left alone.
	Skipped

	// Failed files could not be processed.
	Failed
)

func (s Status) String() string {
	switch s {
	case Unchanged:
		return "unchanged"
	case Expanded:
		return "expanded"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Summary describes what was done to one file.
type Summary struct {
	File      string
	Status    Status
	Rows      int // Data rows read.
	Wildcards int // Rows holding at least one wildcard.
	Written   int // Rows written.
	Err       error
}

// ExpandFile expands the wildcards in file in and writes the result to
// out, or back to in if out is empty. The returned summary is never nil.
func (e *Expander) ExpandFile(in, out string) (*Summary, error) {
	s := &Summary{File: in}
	if err := e.expandFile(s, in, out); err != nil {
		s.Status = Failed
		s.Err = err
		e.log().WithField("file", in).WithError(err).Error("expanding wildcards")
		return s, err
	}
	e.log().WithFields(logrus.Fields{
		"file":      in,
		"status":    s.Status,
		"rows":      s.Rows,
		"wildcards": s.Wildcards,
		"written":   s.Written,
	}).Info("processed file")
	return s, nil
}

func (e *Expander) expandFile(s *Summary, in, out string) error {
	if out == "" {
		out = in
	}
	b, err := ioutil.ReadFile(in)
	if err != nil {
		return fmt.Errorf("wildcard: %v", err)
	}
	lines, err := csv.NewReader(bytes.NewReader(b)).ReadAll()
	if err != nil {
		return fmt.Errorf("wildcard: %s: %v", in, err)
	}
	if len(lines) == 0 {
		return fmt.Errorf("wildcard: %s: missing header row", in)
	}
	s.Rows = len(lines) - 1

	yearCol := -1
	for i, c := range lines[0] {
		if osprep.Dimension(strings.TrimSpace(c)) == osprep.Year {
			yearCol = i
		}
	}
	if yearCol < 0 {
		s.Status = Skipped
		e.log().WithField("file", in).Warn("no YEAR column; file unchanged")
		return nil
	}
	l, err := newLayout(lines[0])
	if err != nil {
		return fmt.Errorf("wildcard: %s: %w", in, err)
	}

	recs := make([]osprep.Record, len(lines)-1)
	for i, line := range lines[1:] {
		rec := osprep.Record{Key: make(osprep.Key, len(l.schema))}
		wild := false
		for j, c := range l.keyCols {
			rec.Key[j] = osprep.ParseComponent(line[c])
			wild = wild || rec.Key[j].IsWildcard()
		}
		if wild {
			s.Wildcards++
		}
		if l.valueCol >= 0 {
			if rec.Value, err = modelio.ParseValue(line[l.valueCol]); err != nil {
				return fmt.Errorf("wildcard: %s line %d: %v", in, i+2, err)
			}
		}
		recs[i] = rec
	}

	if s.Wildcards == 0 {
		s.Status = Unchanged
		s.Written = s.Rows
		if out != in {
			if err := ioutil.WriteFile(out, b, 0644); err != nil {
				return fmt.Errorf("wildcard: %v", err)
			}
		}
		return nil
	}

	reg, err := e.registry(l.schema, recs)
	if err != nil {
		return fmt.Errorf("wildcard: %s: %w", in, err)
	}
	t, err := osprep.Expand(reg, l.schema, recs)
	if err != nil {
		return fmt.Errorf("wildcard: %s: %w", in, err)
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("wildcard: %v", err)
	}
	if err := l.write(f, lines[0], t); err != nil {
		f.Close()
		return fmt.Errorf("wildcard: writing %s: %v", out, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	s.Status = Expanded
	s.Written = t.Len()
	return nil
}

// layout locates the key and value columns of a file. Every column
// other than VALUE is a key column, in file order.
type layout struct {
	keyCols  []int
	valueCol int // -1 if there is no VALUE column.
	schema   osprep.Schema
}

func newLayout(header []string) (*layout, error) {
	l := &layout{valueCol: -1}
	seen := make(map[osprep.Dimension]bool)
	for i, c := range header {
		name := strings.TrimSpace(c)
		if name == modelio.ValueColumn && l.valueCol < 0 {
			l.valueCol = i
			continue
		}
		d := osprep.Dimension(name)
		if seen[d] {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		seen[d] = true
		l.keyCols = append(l.keyCols, i)
		l.schema = append(l.schema, d)
	}
	return l, nil
}

// write writes t with the columns in the order of header.
func (l *layout) write(w io.Writer, header []string, t *osprep.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	line := make([]string, len(header))
	for _, r := range t.Rows {
		for j, c := range l.keyCols {
			line[c] = r.Key[j]
		}
		if l.valueCol >= 0 {
			line[l.valueCol] = modelio.FormatValue(r.Value)
		}
		if err := cw.Write(line); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// registry returns the registry to expand recs against.
func (e *Expander) registry(schema osprep.Schema, recs []osprep.Record) (*osprep.Registry, error) {
	reg := osprep.NewRegistry()
	for i, d := range schema {
		switch {
		case d == osprep.Year:
			if err := reg.RegisterInts(d, e.Years); err != nil {
				return nil, err
			}
		case len(e.setValues(d)) > 0:
			if err := reg.Register(d, e.setValues(d)); err != nil {
				return nil, err
			}
		default:
			var vals []string
			seen := make(map[string]bool)
			for _, rec := range recs {
				c := rec.Key[i]
				if c.IsWildcard() {
					return nil, fmt.Errorf("no %s set to expand a wildcard against", d)
				}
				if !seen[c.Value()] {
					seen[c.Value()] = true
					vals = append(vals, c.Value())
				}
			}
			if err := reg.Register(d, vals); err != nil {
				return nil, err
			}
		}
	}
	reg.Seal()
	return reg, nil
}

// setValues returns the values of set d in Sets. Sets that are absent or
// empty give nil, so the column is treated as if it were not a set.
func (e *Expander) setValues(d osprep.Dimension) []string {
	if e.Sets == nil || !e.Sets.Has(d) {
		return nil
	}
	vals, _ := e.Sets.ValuesOf(d)
	return vals
}

// ExpandDir expands every CSV file in dir other than the sets file.
// A failing file does not stop the others; its error is recorded in its
// summary. The returned error is only for failures to list dir.
func (e *Expander) ExpandDir(dir string) ([]*Summary, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("wildcard: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("wildcard: %v", err)
	}
	sort.Strings(files)
	var o []*Summary
	for _, f := range files {
		if filepath.Base(f) == modelio.SetsFile {
			continue
		}
		s, _ := e.ExpandFile(f, "")
		o = append(o, s)
	}
	return o, nil
}

// SummaryTable returns a report of the given summaries.
func SummaryTable(sums []*Summary) osprep.TextTable {
	t := osprep.TextTable{{"File", "Status", "Rows", "Wildcards", "Written", "Error"}}
	for _, s := range sums {
		var msg string
		if s.Err != nil {
			msg = s.Err.Error()
		}
		t = append(t, []string{
			filepath.Base(s.File), s.Status.String(),
			strconv.Itoa(s.Rows), strconv.Itoa(s.Wildcards), strconv.Itoa(s.Written), msg,
		})
	}
	return t
}
