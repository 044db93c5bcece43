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

package osprep

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spatialmodel/osprep/internal/hash"
)

// A Row is one fully explicit record of an expanded table.
type Row struct {
	Key   []string
	Value float64
}

// A Table is a fully expanded parameter table: every key is concrete and
// unique, and rows are sorted by key in schema order. Tables are not
// modified after they are created.
type Table struct {
	Schema Schema
	Rows   []Row
}

// newTable sorts rows and wraps them in a table.
func newTable(schema Schema, rows []Row) *Table {
	sort.Slice(rows, func(i, j int) bool {
		return compareKeys(schema, rows[i].Key, rows[j].Key) < 0
	})
	return &Table{Schema: schema, Rows: rows}
}

// compareKeys compares two concrete keys lexicographically in schema
// order, comparing numeric dimensions as integers.
func compareKeys(schema Schema, a, b []string) int {
	for i, d := range schema {
		if c := compareValues(d, a[i], b[i]); c != 0 {
			return c
		}
	}
	return 0
}

func compareValues(d Dimension, a, b string) int {
	if d.Numeric() {
		ai, errA := strconv.Atoi(a)
		bi, errB := strconv.Atoi(b)
		if errA == nil && errB == nil {
			switch {
			case ai < bi:
				return -1
			case ai > bi:
				return 1
			}
			return 0
		}
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Len returns the number of rows in the receiver.
func (t *Table) Len() int { return len(t.Rows) }

// Lookup returns the value stored at the given concrete key.
func (t *Table) Lookup(key ...string) (float64, bool) {
	if len(key) != len(t.Schema) {
		return 0, false
	}
	ck := make([]string, len(key))
	for i, d := range t.Schema {
		v, err := d.canonical(key[i])
		if err != nil {
			return 0, false
		}
		ck[i] = v
	}
	i := sort.Search(len(t.Rows), func(i int) bool {
		return compareKeys(t.Schema, t.Rows[i].Key, ck) >= 0
	})
	if i < len(t.Rows) && compareKeys(t.Schema, t.Rows[i].Key, ck) == 0 {
		return t.Rows[i].Value, true
	}
	return 0, false
}

// Values returns the values of the receiver in row order.
func (t *Table) Values() []float64 {
	o := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		o[i] = r.Value
	}
	return o
}

// MapValues returns a new table with the same keys as the receiver and
// values computed by f. The receiver is not modified.
func (t *Table) MapValues(f func(key []string, v float64) (float64, error)) (*Table, error) {
	rows := make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		v, err := f(r.Key, r.Value)
		if err != nil {
			return nil, fmt.Errorf("osprep: transforming row %v: %w", r.Key, err)
		}
		rows[i] = Row{Key: r.Key, Value: v}
	}
	return &Table{Schema: t.Schema, Rows: rows}, nil
}

// Fingerprint returns a digest of the contents of the receiver that is
// stable across runs and processes.
func (t *Table) Fingerprint() string {
	return hash.Sum(t)
}
