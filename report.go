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
	"text/tabwriter"

	"gonum.org/v1/gonum/floats"
)

// A TextTable holds a text representation of report data. The first row
// is the header.
type TextTable [][]string

// Tabbed writes the receiver as a tab-aligned table.
func (t TextTable) Tabbed(w io.Writer) (n int, err error) {
	ww := new(tabwriter.Writer)
	ww.Init(w, 0, 2, 0, '\t', 0)
	var nn int
	for _, l := range t {
		for _, r := range l {
			nn, err = fmt.Fprint(ww, r+"\t")
			if err != nil {
				return
			}
			n += nn
		}
		nn, err = fmt.Fprint(ww, "\n")
		if err != nil {
			return
		}
		n += nn
	}
	err = ww.Flush()
	return
}

// SummaryTable returns a table with one row per named table giving its
// row count, the total, minimum and maximum of its values, and its
// fingerprint. names and tables must be the same length.
func SummaryTable(names []string, tables []*Table) TextTable {
	t := TextTable{{"Parameter", "Rows", "Total", "Min", "Max", "Fingerprint"}}
	for i, tbl := range tables {
		vals := tbl.Values()
		var sum, min, max string
		if len(vals) > 0 {
			sum = fmt.Sprintf("%g", floats.Sum(vals))
			min = fmt.Sprintf("%g", floats.Min(vals))
			max = fmt.Sprintf("%g", floats.Max(vals))
		}
		t = append(t, []string{
			names[i], fmt.Sprint(tbl.Len()), sum, min, max, tbl.Fingerprint(),
		})
	}
	return t
}
