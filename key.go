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
	"strconv"
	"strings"
)

// WildcardMarker is the textual form of a wildcard in tabular files and
// hierarchical documents.
const WildcardMarker = "*"

// A Component is one position of a record key. It is either a literal
// value or a wildcard standing for every registered value of the
// position's dimension.
type Component struct {
	value    string
	wildcard bool
}

// Wildcard is the component matching all values of a dimension.
var Wildcard = Component{wildcard: true}

// Literal returns a component holding value.
// Literal("*") is a literal, not a wildcard.
func Literal(value string) Component { return Component{value: value} }

// LiteralInt returns a component holding an integer value such as a
// year or a mode of operation.
func LiteralInt(value int) Component { return Component{value: strconv.Itoa(value)} }

// ParseComponent interprets the wildcard marker in textual input.
// It should only be used by codecs reading files.
func ParseComponent(s string) Component {
	s = strings.TrimSpace(s)
	if s == WildcardMarker {
		return Wildcard
	}
	return Literal(s)
}

// IsWildcard returns whether the receiver is a wildcard.
func (c Component) IsWildcard() bool { return c.wildcard }

// Value returns the literal value of the receiver, or "" for a wildcard.
func (c Component) Value() string { return c.value }

func (c Component) String() string {
	if c.wildcard {
		return WildcardMarker
	}
	return c.value
}

// A Key is the key of a sparse record, with one component per schema
// dimension.
type Key []Component

// K is shorthand for creating a key from its textual form, where "*"
// is a wildcard.
func K(components ...string) Key {
	k := make(Key, len(components))
	for i, c := range components {
		k[i] = ParseComponent(c)
	}
	return k
}

func (k Key) String() string {
	o := make([]string, len(k))
	for i, c := range k {
		o[i] = c.String()
	}
	return "(" + strings.Join(o, ",") + ")"
}

// wildcards returns a bit mask of the wildcard positions of the receiver.
func (k Key) wildcards() uint64 {
	var m uint64
	for i, c := range k {
		if c.wildcard {
			m |= 1 << uint(i)
		}
	}
	return m
}

// A Record is one row of a sparse parameter table.
type Record struct {
	Key   Key
	Value float64
}
