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

// Package israel holds the reference scenario of the Israeli energy
// sector from 2015 to 2050.
package israel

import (
	"bytes"
	_ "embed"

	"github.com/spatialmodel/osprep/params"
)

//go:embed israel.toml
var scenario []byte

// Definition returns a new copy of the scenario definition.
func Definition() (*params.Definition, error) {
	return params.ReadDefinition(bytes.NewReader(scenario))
}
