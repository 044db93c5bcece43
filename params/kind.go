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

	"github.com/spatialmodel/osprep"
)

// A Kind is a named category of model input with its own key schema.
// Kind names are the OSeMOSYS parameter names.
type Kind string

// Parameter kinds.
const (
	CapacityFactor        Kind = "CapacityFactor"
	InputActivityRatio    Kind = "InputActivityRatio"
	OutputActivityRatio   Kind = "OutputActivityRatio"
	CapitalCost           Kind = "CapitalCost"
	FixedCost             Kind = "FixedCost"
	VariableCost          Kind = "VariableCost"
	EmissionActivityRatio Kind = "EmissionActivityRatio"
	ResidualCapacity      Kind = "ResidualCapacity"
	SpecifiedAnnualDemand Kind = "SpecifiedAnnualDemand"
)

// level is where the values of a kind are placed in a Document.
type level int

const (
	technologyLevel level = iota
	modeLevel
	demandLevel
)

type kindInfo struct {
	schema osprep.Schema
	docKey string
	level  level
}

var kindInfos = map[Kind]kindInfo{
	CapacityFactor: {
		schema: osprep.Schema{osprep.Region, osprep.Technology, osprep.TimeSlice, osprep.Year},
		docKey: "capacity_factor",
	},
	InputActivityRatio: {
		schema: osprep.Schema{osprep.Region, osprep.Technology, osprep.Fuel, osprep.ModeOfOperation, osprep.Year},
		docKey: "input_activity_ratio",
		level:  modeLevel,
	},
	OutputActivityRatio: {
		schema: osprep.Schema{osprep.Region, osprep.Technology, osprep.Fuel, osprep.ModeOfOperation, osprep.Year},
		docKey: "output_activity_ratio",
		level:  modeLevel,
	},
	CapitalCost: {
		schema: osprep.Schema{osprep.Region, osprep.Technology, osprep.Year},
		docKey: "capex",
	},
	FixedCost: {
		schema: osprep.Schema{osprep.Region, osprep.Technology, osprep.Year},
		docKey: "opex_fixed",
	},
	VariableCost: {
		schema: osprep.Schema{osprep.Region, osprep.Technology, osprep.ModeOfOperation, osprep.Year},
		docKey: "opex_variable",
		level:  modeLevel,
	},
	EmissionActivityRatio: {
		schema: osprep.Schema{osprep.Region, osprep.Technology, osprep.Emission, osprep.ModeOfOperation, osprep.Year},
		docKey: "emission_activity_ratio",
		level:  modeLevel,
	},
	ResidualCapacity: {
		schema: osprep.Schema{osprep.Region, osprep.Technology, osprep.Year},
		docKey: "residual_capacity",
	},
	SpecifiedAnnualDemand: {
		schema: osprep.Schema{osprep.Region, osprep.Fuel, osprep.Year},
		docKey: "specified_demand",
		level:  demandLevel,
	},
}

// Kinds returns every parameter kind in output order.
func Kinds() []Kind {
	return []Kind{
		CapacityFactor,
		InputActivityRatio,
		OutputActivityRatio,
		CapitalCost,
		FixedCost,
		VariableCost,
		EmissionActivityRatio,
		ResidualCapacity,
		SpecifiedAnnualDemand,
	}
}

// ParseKind returns the kind with the given name.
func ParseKind(name string) (Kind, error) {
	k := Kind(name)
	if _, ok := kindInfos[k]; !ok {
		return "", fmt.Errorf("params: unknown parameter kind %q", name)
	}
	return k, nil
}

// Schema returns the key schema of the receiver.
func (k Kind) Schema() osprep.Schema { return kindInfos[k].schema }

// DocumentKey returns the key the receiver is stored under in a Document.
func (k Kind) DocumentKey() string { return kindInfos[k].docKey }
