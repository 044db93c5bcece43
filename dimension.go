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
	"strconv"
	"strings"
)

// A Dimension is one axis of the parameter key space. The names match
// the OSeMOSYS set names so that they can be used directly as column
// headers.
type Dimension string

// Model dimensions.
const (
	Region          Dimension = "REGION"
	Technology      Dimension = "TECHNOLOGY"
	Fuel            Dimension = "FUEL"
	TimeSlice       Dimension = "TIMESLICE"
	Year            Dimension = "YEAR"
	ModeOfOperation Dimension = "MODE_OF_OPERATION"
	Emission        Dimension = "EMISSION"
)

// Dimensions lists the model dimensions in the order they are written
// to a sets file.
var Dimensions = []Dimension{Region, Technology, Fuel, TimeSlice, Year, ModeOfOperation, Emission}

// Numeric returns whether values of the receiver are integers that
// should be compared numerically.
func (d Dimension) Numeric() bool {
	return d == Year || d == ModeOfOperation
}

// canonical returns v in the form it is stored in the registry.
func (d Dimension) canonical(v string) (string, error) {
	v = strings.TrimSpace(v)
	if !d.Numeric() {
		return v, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return "", fmt.Errorf("osprep: %s value %q is not an integer", d, v)
	}
	return strconv.Itoa(i), nil
}

// A Schema is the ordered list of dimensions making up the key of a
// parameter table.
type Schema []Dimension

func (s Schema) String() string {
	o := make([]string, len(s))
	for i, d := range s {
		o[i] = string(d)
	}
	return strings.Join(o, ",")
}

// Index returns the position of d in the receiver, or -1 if it is not
// present.
func (s Schema) Index(d Dimension) int {
	for i, sd := range s {
		if sd == d {
			return i
		}
	}
	return -1
}

// Registry holds the canonical, ordered sets of valid values for each
// dimension. It is filled once at startup and is read-only after it has
// been sealed.
type Registry struct {
	values  map[Dimension][]string
	members map[Dimension]map[string]struct{}
	sealed  bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		values:  make(map[Dimension][]string),
		members: make(map[Dimension]map[string]struct{}),
	}
}

// Register sets the values of dimension d. The order of values is
// preserved and determines the order of expanded output.
// Values of numeric dimensions must be integers.
func (r *Registry) Register(d Dimension, values []string) error {
	if r.sealed {
		return fmt.Errorf("osprep: registering %s: registry is sealed", d)
	}
	if _, ok := r.values[d]; ok {
		return fmt.Errorf("osprep: dimension %s is already registered", d)
	}
	vals := make([]string, 0, len(values))
	members := make(map[string]struct{}, len(values))
	for _, v := range values {
		cv, err := d.canonical(v)
		if err != nil {
			return err
		}
		if cv == WildcardMarker {
			return fmt.Errorf("osprep: %s value %q is reserved for wildcards", d, cv)
		}
		if _, ok := members[cv]; ok {
			return &DuplicateIdentifierError{Dimension: d, Value: cv}
		}
		members[cv] = struct{}{}
		vals = append(vals, cv)
	}
	r.values[d] = vals
	r.members[d] = members
	return nil
}

// RegisterInts is a convenience wrapper around Register for numeric
// dimensions.
func (r *Registry) RegisterInts(d Dimension, values []int) error {
	s := make([]string, len(values))
	for i, v := range values {
		s[i] = strconv.Itoa(v)
	}
	return r.Register(d, s)
}

// Seal prevents any further registration.
func (r *Registry) Seal() { r.sealed = true }

// Has returns whether dimension d has been registered.
func (r *Registry) Has(d Dimension) bool {
	_, ok := r.values[d]
	return ok
}

// ValuesOf returns a copy of the ordered values of dimension d.
func (r *Registry) ValuesOf(d Dimension) ([]string, error) {
	v, err := r.valuesOf(d)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), v...), nil
}

// valuesOf returns the stored values of dimension d without copying.
func (r *Registry) valuesOf(d Dimension) ([]string, error) {
	v, ok := r.values[d]
	if !ok {
		return nil, &UnknownDimensionError{Dimension: d}
	}
	return v, nil
}

// Ints returns the values of a numeric dimension as integers.
func (r *Registry) Ints(d Dimension) ([]int, error) {
	vals, err := r.valuesOf(d)
	if err != nil {
		return nil, err
	}
	o := make([]int, len(vals))
	for i, v := range vals {
		if o[i], err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("osprep: %s is not a numeric dimension", d)
		}
	}
	return o, nil
}

// Contains returns whether value is a registered value of dimension d.
// Unregistered dimensions contain nothing.
func (r *Registry) Contains(d Dimension, value string) bool {
	m, ok := r.members[d]
	if !ok {
		return false
	}
	cv, err := d.canonical(value)
	if err != nil {
		return false
	}
	_, ok = m[cv]
	return ok
}

// CrossProduct returns a generator of the Cartesian product of the values
// of the given dimensions. The first dimension is the outermost loop and
// the last dimension is the innermost. The generator returns io.EOF after
// the last tuple. Each returned tuple is a new slice.
// The product of zero dimensions is a single empty tuple.
func (r *Registry) CrossProduct(dims ...Dimension) (func() ([]string, error), error) {
	sets := make([][]string, len(dims))
	for i, d := range dims {
		v, err := r.valuesOf(d)
		if err != nil {
			return nil, err
		}
		sets[i] = v
	}
	idx := make([]int, len(dims))
	done := false
	for _, s := range sets {
		if len(s) == 0 {
			done = true
		}
	}
	return func() ([]string, error) {
		if done {
			return nil, io.EOF
		}
		o := make([]string, len(sets))
		for i, s := range sets {
			o[i] = s[idx[i]]
		}
		// Advance the odometer, innermost dimension first.
		i := len(idx) - 1
		for ; i >= 0; i-- {
			idx[i]++
			if idx[i] < len(sets[i]) {
				break
			}
			idx[i] = 0
		}
		if i < 0 {
			done = true
		}
		return o, nil
	}, nil
}
