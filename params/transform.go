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

package params

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spatialmodel/osprep"
)

// Context holds the global values a Transform may depend on.
type Context struct {
	StartYear int
}

// A Transform computes the final value of one expanded row from its key
// and base value. It is applied exactly once per row, after expansion.
type Transform func(schema osprep.Schema, key []string, v float64, ctx Context) (float64, error)

// LearningDecay returns a transform that reduces a cost geometrically
// over the model horizon: v × rate^(year − start year).
func LearningDecay(rate float64) Transform {
	return func(schema osprep.Schema, key []string, v float64, ctx Context) (float64, error) {
		i := schema.Index(osprep.Year)
		if i < 0 {
			return 0, fmt.Errorf("params: learning decay needs a %s dimension, schema is %s", osprep.Year, schema)
		}
		year, err := strconv.Atoi(key[i])
		if err != nil {
			return 0, fmt.Errorf("params: learning decay: %v", err)
		}
		return v * math.Pow(rate, float64(year-ctx.StartYear)), nil
	}
}

// Diurnal describes the day/night adjustment of capacity factors for
// technologies that only produce during daylight.
type Diurnal struct {
	// Categories are matched as substrings of technology identifiers.
	Categories []string

	// DayTag and NightTag are matched as substrings of time slice
	// identifiers. NightTag is checked first.
	DayTag, NightTag string

	// DayMultiplier scales the capacity factor of day time slices.
	DayMultiplier float64
}

// DefaultDiurnal returns the adjustment used for solar technologies.
func DefaultDiurnal() Diurnal {
	return Diurnal{
		Categories:    []string{"Solar"},
		DayTag:        "DAY",
		NightTag:      "NIGHT",
		DayMultiplier: 1.5,
	}
}

// Applies returns whether technology tech is in one of the receiver's
// categories.
func (d Diurnal) Applies(tech string) bool {
	for _, c := range d.Categories {
		if c != "" && strings.Contains(tech, c) {
			return true
		}
	}
	return false
}

// Adjust returns the capacity factor v adjusted for time slice ts.
func (d Diurnal) Adjust(ts string, v float64) float64 {
	switch {
	case d.NightTag != "" && strings.Contains(ts, d.NightTag):
		return 0
	case d.DayTag != "" && strings.Contains(ts, d.DayTag):
		return v * d.DayMultiplier
	}
	return v
}
