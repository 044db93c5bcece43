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

// Package osprep prepares input data sets for OSeMOSYS-style energy system
// optimization models.
//
// The package holds the canonical sets of valid values for each model
// dimension (the Registry) and the engine that expands sparse parameter
// records, where any key position may hold a wildcard, into complete,
// explicit and deterministically ordered tables. Composition of the
// individual parameter tables is handled by the params sub-package.
package osprep

// Version gives the version number.
const Version = "0.3.0"
