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
	"strings"
)

// UnknownDimensionError is returned when a schema references a dimension
// that was never registered.
type UnknownDimensionError struct {
	Dimension Dimension
}

func (e *UnknownDimensionError) Error() string {
	return fmt.Sprintf("osprep: unknown dimension %s", e.Dimension)
}

// UnknownIdentifierError is returned when a key component is not a member
// of the registered values of its dimension.
type UnknownIdentifierError struct {
	Dimension Dimension
	Value     string
}

func (e *UnknownIdentifierError) Error() string {
	return fmt.Sprintf("osprep: %q is not a registered %s value", e.Value, e.Dimension)
}

// DuplicateIdentifierError is returned when a value is registered more
// than once within the same dimension.
type DuplicateIdentifierError struct {
	Dimension Dimension
	Value     string
}

func (e *DuplicateIdentifierError) Error() string {
	return fmt.Sprintf("osprep: duplicate %s value %q", e.Dimension, e.Value)
}

// ConflictingExpansionError is returned when two records expand to the
// same concrete key and neither is more specific than the other.
type ConflictingExpansionError struct {
	Schema Schema

	// Key is the concrete key both records expand to.
	Key []string

	// First and Second are the patterns of the colliding records.
	First, Second Key

	FirstValue, SecondValue float64
}

func (e *ConflictingExpansionError) Error() string {
	return fmt.Sprintf("osprep: records %s=%g and %s=%g both expand to %s(%s)",
		e.First, e.FirstValue, e.Second, e.SecondValue,
		e.Schema, strings.Join(e.Key, ","))
}

// MissingSourceDataError describes boundary data that could not be found.
// It is not fatal: the caller substitutes a documented default and logs
// the error as a warning.
type MissingSourceDataError struct {
	// Source names the missing data, for example a file or a sheet.
	Source string

	// Default describes the value that was substituted.
	Default string

	Err error
}

func (e *MissingSourceDataError) Error() string {
	msg := fmt.Sprintf("osprep: missing source data %s; using %s", e.Source, e.Default)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MissingSourceDataError) Unwrap() error { return e.Err }
