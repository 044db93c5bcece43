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

// Command osprep is a command-line interface for preparing OSeMOSYS
// energy system model input data.
package main

import (
	"fmt"
	"os"

	"github.com/spatialmodel/osprep/ospreputil"
)

func main() {
	cfg := ospreputil.InitializeConfig()
	if err := cfg.Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}
