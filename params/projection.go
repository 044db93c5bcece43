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

import "math"

// YearValue is the value of a projection in one year.
type YearValue struct {
	Year  int
	Value float64
}

// A Projection is an annual series ordered by year.
type Projection []YearValue

// DefaultProjection returns the growth curve used when no demand data is
// available: base × growthRate^(year − startYear) for each year.
func DefaultProjection(years []int, startYear int, base, growthRate float64) Projection {
	p := make(Projection, len(years))
	for i, y := range years {
		p[i] = YearValue{Year: y, Value: base * math.Pow(growthRate, float64(y-startYear))}
	}
	return p
}
