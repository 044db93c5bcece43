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
	"io"
	"math/bits"
	"sort"
	"strings"
)

// Expand expands the sparse records of a parameter table with the given
// key schema into a fully explicit table.
//
// Each wildcard position of a record is replaced by every registered
// value of its dimension. Literal positions must hold registered values,
// otherwise an *UnknownIdentifierError is returned.
//
// When several records expand to the same concrete key, the most
// specific one wins: a record wins over another if its wildcard positions
// are a strict subset of the other's, so a literal always wins over any
// wildcard. Records with identical patterns and values are merged. Any
// other collision returns a *ConflictingExpansionError.
//
// The result is sorted by key in schema order, with years and modes of
// operation compared numerically. An empty input gives an empty table.
func Expand(reg *Registry, schema Schema, records []Record) (*Table, error) {
	if len(schema) > 64 {
		return nil, fmt.Errorf("osprep: schema %s has too many dimensions", schema)
	}
	for _, d := range schema {
		if !reg.Has(d) {
			return nil, &UnknownDimensionError{Dimension: d}
		}
	}
	for _, rec := range records {
		if len(rec.Key) != len(schema) {
			return nil, fmt.Errorf("osprep: key %s has %d components but schema %s has %d",
				rec.Key, len(rec.Key), schema, len(schema))
		}
		for i, c := range rec.Key {
			if !c.IsWildcard() && !reg.Contains(schema[i], c.Value()) {
				return nil, &UnknownIdentifierError{Dimension: schema[i], Value: c.Value()}
			}
		}
	}

	// Records with fewer wildcards are placed first so that whenever a
	// record reaches a key that is already taken, the holder is at least
	// as specific as any record that will arrive later.
	order := make([]int, len(records))
	masks := make([]uint64, len(records))
	for i, rec := range records {
		order[i] = i
		masks[i] = rec.Key.wildcards()
	}
	sort.SliceStable(order, func(i, j int) bool {
		return bits.OnesCount64(masks[order[i]]) < bits.OnesCount64(masks[order[j]])
	})

	type holder struct {
		key    []string
		record int
	}
	taken := make(map[string]holder)
	var rows []Row

	for _, ri := range order {
		rec := records[ri]
		mask := masks[ri]
		var wildDims []Dimension
		var wildPos []int
		base := make([]string, len(schema))
		for i, c := range rec.Key {
			if c.IsWildcard() {
				wildDims = append(wildDims, schema[i])
				wildPos = append(wildPos, i)
				continue
			}
			base[i], _ = schema[i].canonical(c.Value()) // Already validated.
		}
		next, err := reg.CrossProduct(wildDims...)
		if err != nil {
			return nil, err
		}
		for {
			sub, err := next()
			if err == io.EOF {
				break
			} else if err != nil {
				return nil, err
			}
			key := make([]string, len(schema))
			copy(key, base)
			for i, p := range wildPos {
				key[p] = sub[i]
			}
			id := strings.Join(key, "\x1f")
			h, ok := taken[id]
			if !ok {
				taken[id] = holder{key: key, record: ri}
				rows = append(rows, Row{Key: key, Value: rec.Value})
				continue
			}
			prev := records[h.record]
			pm := masks[h.record]
			switch {
			case pm == mask && prev.Value == rec.Value:
				// Duplicate record.
			case pm != mask && pm&mask == pm:
				// The holder is more specific.
			default:
				return nil, &ConflictingExpansionError{
					Schema:      schema,
					Key:         key,
					First:       prev.Key,
					FirstValue:  prev.Value,
					Second:      rec.Key,
					SecondValue: rec.Value,
				}
			}
		}
	}
	return newTable(schema, rows), nil
}
