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
	"io"
	"math"

	"github.com/BurntSushi/toml"
	"github.com/spatialmodel/osprep"
)

// A Group is a named, ordered list of identifiers. Groups only organize
// the scenario file; the model sees their concatenation.
type Group struct {
	Name   string   `toml:"name"`
	Values []string `toml:"values"`
}

// Definition holds the static description of a scenario: the model sets
// and the sparse per-technology parameter values. It is read once and is
// not modified afterwards.
type Definition struct {
	ID        string `toml:"id"`
	StartYear int    `toml:"start_year"`
	EndYear   int    `toml:"end_year"`

	Regions          []string `toml:"regions"`
	TimeSlices       []string `toml:"time_slices"`
	ModesOfOperation []int    `toml:"modes_of_operation"`
	Emissions        []string `toml:"emissions"`

	CommodityGroups  []Group `toml:"commodity_groups"`
	TechnologyGroups []Group `toml:"technology_groups"`

	// DemandRegion is the region that specified demands are assigned to.
	DemandRegion string `toml:"demand_region"`

	// DemandCommodities are the commodities with an exogenous annual
	// demand, in the order their projections are loaded.
	DemandCommodities []string `toml:"demand_commodities"`

	// Values by technology.
	CapacityFactor   map[string]float64 `toml:"capacity_factor"`
	CapitalCost      map[string]float64 `toml:"capital_cost"`
	FixedCost        map[string]float64 `toml:"fixed_cost"`
	VariableCost     map[string]float64 `toml:"variable_cost"`
	ResidualCapacity map[string]float64 `toml:"residual_capacity"`

	// Values by technology and then by commodity or emission.
	InputActivityRatio    map[string]map[string]float64 `toml:"input_activity_ratio"`
	OutputActivityRatio   map[string]map[string]float64 `toml:"output_activity_ratio"`
	EmissionActivityRatio map[string]map[string]float64 `toml:"emission_activity_ratio"`
}

// ReadDefinition decodes a scenario definition in TOML format and checks
// that it describes a usable model horizon.
func ReadDefinition(r io.Reader) (*Definition, error) {
	d := new(Definition)
	if _, err := toml.DecodeReader(r, d); err != nil {
		return nil, fmt.Errorf("params: decoding scenario definition: %v", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Validate checks the parts of the receiver that the registry cannot
// check by itself.
func (d *Definition) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("params: scenario definition has no id")
	}
	if d.EndYear < d.StartYear {
		return fmt.Errorf("params: end year %d is before start year %d", d.EndYear, d.StartYear)
	}
	if len(d.Regions) == 0 {
		return fmt.Errorf("params: scenario %s has no regions", d.ID)
	}
	if len(d.ModesOfOperation) == 0 {
		return fmt.Errorf("params: scenario %s has no modes of operation", d.ID)
	}
	if len(d.DemandCommodities) > 0 && d.DemandRegion == "" {
		return fmt.Errorf("params: scenario %s has demand commodities but no demand region", d.ID)
	}
	for _, m := range []map[string]float64{d.CapacityFactor, d.CapitalCost, d.FixedCost, d.VariableCost, d.ResidualCapacity} {
		for t, v := range m {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("params: technology %s has a non-finite value", t)
			}
		}
	}
	for _, m := range []map[string]map[string]float64{d.InputActivityRatio, d.OutputActivityRatio, d.EmissionActivityRatio} {
		for t, sub := range m {
			for k, v := range sub {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					return fmt.Errorf("params: technology %s has a non-finite value for %s", t, k)
				}
			}
		}
	}
	return nil
}

// Years returns the years of the model horizon in ascending order.
func (d *Definition) Years() []int {
	o := make([]int, 0, d.EndYear-d.StartYear+1)
	for y := d.StartYear; y <= d.EndYear; y++ {
		o = append(o, y)
	}
	return o
}

// Commodities returns the commodities of all groups in order.
func (d *Definition) Commodities() []string { return flatten(d.CommodityGroups) }

// Technologies returns the technologies of all groups in order.
func (d *Definition) Technologies() []string { return flatten(d.TechnologyGroups) }

func flatten(groups []Group) []string {
	var o []string
	for _, g := range groups {
		o = append(o, g.Values...)
	}
	return o
}

// Registry builds the sealed dimension registry described by the receiver.
func (d *Definition) Registry() (*osprep.Registry, error) {
	r := osprep.NewRegistry()
	for _, s := range []struct {
		dim    osprep.Dimension
		values []string
	}{
		{osprep.Region, d.Regions},
		{osprep.Technology, d.Technologies()},
		{osprep.Fuel, d.Commodities()},
		{osprep.TimeSlice, d.TimeSlices},
		{osprep.Emission, d.Emissions},
	} {
		if err := r.Register(s.dim, s.values); err != nil {
			return nil, err
		}
	}
	if err := r.RegisterInts(osprep.Year, d.Years()); err != nil {
		return nil, err
	}
	if err := r.RegisterInts(osprep.ModeOfOperation, d.ModesOfOperation); err != nil {
		return nil, err
	}
	r.Seal()
	return r, nil
}
