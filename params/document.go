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
	"sort"
	"strconv"

	"github.com/spatialmodel/osprep"
)

// Document is the nested representation of a scenario: each technology
// entry holds its own parameter values, grouped by operating mode where
// the parameter depends on the mode.
//
// A parameter value is a nested map over the dimensions of its kind other
// than region, technology and mode of operation, in schema order. The key
// "*" stands for every value of its dimension, and a value found before
// the last dimension applies to every value of the remaining dimensions.
type Document struct {
	Model Model `yaml:"model"`
}

// Model is the body of a Document.
type Model struct {
	ID              string         `yaml:"id"`
	TimeDefinition  TimeDefinition `yaml:"time_definition"`
	Regions         []Entry        `yaml:"regions"`
	Commodities     []Entry        `yaml:"commodities"`
	TimeSlices      []Entry        `yaml:"time_slices"`
	Emissions       []Entry        `yaml:"emissions,omitempty"`
	Technologies    []Technology   `yaml:"technologies"`
	SpecifiedDemand []Demand       `yaml:"specified_demand,omitempty"`
}

// TimeDefinition is the model horizon.
type TimeDefinition struct {
	StartYear int   `yaml:"start_year"`
	EndYear   int   `yaml:"end_year"`
	Years     []int `yaml:"years,flow"`
}

// Entry is a set member.
type Entry struct {
	ID string `yaml:"id"`
}

// Technology holds the parameters of one technology.
type Technology struct {
	ID             string                 `yaml:"id"`
	OperatingModes []OperatingMode        `yaml:"operating_modes"`
	Params         map[string]interface{} `yaml:",inline"`
}

// OperatingMode holds the mode-dependent parameters of a technology.
type OperatingMode struct {
	ID     int                    `yaml:"id"`
	Params map[string]interface{} `yaml:",inline"`
}

// Demand is the specified annual demand of one commodity.
type Demand struct {
	Region    string          `yaml:"region"`
	Commodity string          `yaml:"commodity"`
	Demand    map[int]float64 `yaml:"demand"`
}

func entries(reg *osprep.Registry, d osprep.Dimension) ([]Entry, error) {
	vals, err := reg.ValuesOf(d)
	if err != nil {
		return nil, err
	}
	o := make([]Entry, len(vals))
	for i, v := range vals {
		o[i] = Entry{ID: v}
	}
	return o, nil
}

// Document returns the nested representation of the scenario. Kinds
// without a post-expansion transform keep their wildcards; the others
// are written with their explicit transformed values, which must not
// differ between regions.
func (a *Assembler) Document() (*Document, error) {
	d := a.def
	m := Model{
		ID: d.ID,
		TimeDefinition: TimeDefinition{
			StartYear: d.StartYear,
			EndYear:   d.EndYear,
			Years:     d.Years(),
		},
	}
	var err error
	for _, s := range []struct {
		dim osprep.Dimension
		dst *[]Entry
	}{
		{osprep.Region, &m.Regions},
		{osprep.Fuel, &m.Commodities},
		{osprep.TimeSlice, &m.TimeSlices},
		{osprep.Emission, &m.Emissions},
	} {
		if *s.dst, err = entries(a.reg, s.dim); err != nil {
			return nil, err
		}
	}

	techs, err := a.reg.ValuesOf(osprep.Technology)
	if err != nil {
		return nil, err
	}
	modes, err := a.reg.Ints(osprep.ModeOfOperation)
	if err != nil {
		return nil, err
	}
	m.Technologies = make([]Technology, len(techs))
	for i, t := range techs {
		om := make([]OperatingMode, len(modes))
		for j, id := range modes {
			om[j] = OperatingMode{ID: id}
		}
		m.Technologies[i] = Technology{ID: t, OperatingModes: om}
	}
	p := placer{model: &m, techs: techs, modes: modes}

	for _, k := range Kinds() {
		if kindInfos[k].level == demandLevel {
			continue
		}
		var recs []osprep.Record
		if a.transform(k) != nil {
			t, err := a.Assemble(k)
			if err != nil {
				return nil, err
			}
			if recs, err = regionless(k, t); err != nil {
				return nil, err
			}
		} else if recs, err = a.Records(k); err != nil {
			return nil, err
		}
		for _, rec := range recs {
			if err := p.place(k, rec); err != nil {
				return nil, err
			}
		}
	}

	for _, c := range d.DemandCommodities {
		dm := Demand{Region: d.DemandRegion, Commodity: c, Demand: make(map[int]float64)}
		for _, yv := range a.demand[c] {
			dm.Demand[yv.Year] = yv.Value
		}
		m.SpecifiedDemand = append(m.SpecifiedDemand, dm)
	}
	return &Document{Model: m}, nil
}

// regionless converts an expanded table into records with a wildcard
// region.
func regionless(k Kind, t *osprep.Table) ([]osprep.Record, error) {
	ri := t.Schema.Index(osprep.Region)
	type seen struct {
		region string
		value  float64
	}
	first := make(map[string]seen)
	var recs []osprep.Record
	for _, row := range t.Rows {
		key := make(osprep.Key, len(row.Key))
		for i, v := range row.Key {
			key[i] = osprep.Literal(v)
		}
		key[ri] = osprep.Wildcard
		id := key.String()
		if s, ok := first[id]; ok {
			if s.value != row.Value {
				return nil, fmt.Errorf("params: %s differs between regions %s and %s at %s; "+
					"regional values cannot be written to a document", k, s.region, row.Key[ri], id)
			}
			continue
		}
		first[id] = seen{region: row.Key[ri], value: row.Value}
		recs = append(recs, osprep.Record{Key: key, Value: row.Value})
	}
	return recs, nil
}

type placer struct {
	model *Model
	techs []string
	modes []int
}

// place stores rec in the parameters of every technology and mode it
// applies to.
func (p placer) place(k Kind, rec osprep.Record) error {
	info := kindInfos[k]
	schema := info.schema
	ri, ti, mi := schema.Index(osprep.Region), schema.Index(osprep.Technology), schema.Index(osprep.ModeOfOperation)
	if !rec.Key[ri].IsWildcard() {
		return fmt.Errorf("params: %s record %s is specific to a region and cannot be written to a document", k, rec.Key)
	}
	var rest []osprep.Component
	for i, c := range rec.Key {
		if i != ri && i != ti && i != mi {
			rest = append(rest, c)
		}
	}
	path := documentPath(rest)

	techs := p.techs
	if c := rec.Key[ti]; !c.IsWildcard() {
		techs = []string{c.Value()}
	}
	for _, t := range techs {
		te := p.technology(t)
		if te == nil {
			return &osprep.UnknownIdentifierError{Dimension: osprep.Technology, Value: t}
		}
		if info.level == technologyLevel {
			if err := setParam(&te.Params, info.docKey, path, rec.Value); err != nil {
				return fmt.Errorf("params: %s of %s: %v", k, t, err)
			}
			continue
		}
		modes := p.modes
		if c := rec.Key[mi]; !c.IsWildcard() {
			id, err := strconv.Atoi(c.Value())
			if err != nil {
				return &osprep.UnknownIdentifierError{Dimension: osprep.ModeOfOperation, Value: c.Value()}
			}
			modes = []int{id}
		}
		for _, id := range modes {
			om := te.mode(id)
			if om == nil {
				return &osprep.UnknownIdentifierError{Dimension: osprep.ModeOfOperation, Value: strconv.Itoa(id)}
			}
			if err := setParam(&om.Params, info.docKey, path, rec.Value); err != nil {
				return fmt.Errorf("params: %s of %s mode %d: %v", k, t, id, err)
			}
		}
	}
	return nil
}

func (p placer) technology(id string) *Technology {
	for i := range p.model.Technologies {
		if p.model.Technologies[i].ID == id {
			return &p.model.Technologies[i]
		}
	}
	return nil
}

func (t *Technology) mode(id int) *OperatingMode {
	for i := range t.OperatingModes {
		if t.OperatingModes[i].ID == id {
			return &t.OperatingModes[i]
		}
	}
	return nil
}

// documentPath returns the map keys under which a value with the given
// key components is stored. A run of trailing wildcards becomes a single
// "*".
func documentPath(rest []osprep.Component) []string {
	last := -1
	for i, c := range rest {
		if !c.IsWildcard() {
			last = i
		}
	}
	path := make([]string, 0, last+2)
	for _, c := range rest[:last+1] {
		path = append(path, c.String())
	}
	if last+1 < len(rest) || len(path) == 0 {
		path = append(path, osprep.WildcardMarker)
	}
	return path
}

func setParam(params *map[string]interface{}, docKey string, path []string, v float64) error {
	if *params == nil {
		*params = make(map[string]interface{})
	}
	root, ok := (*params)[docKey].(map[string]interface{})
	if !ok {
		root = make(map[string]interface{})
		(*params)[docKey] = root
	}
	return insert(root, path, v)
}

// insert stores v at path. A value stored above deeper values is moved
// under a "*" key, which has the same meaning.
func insert(m map[string]interface{}, path []string, v float64) error {
	k := path[0]
	if len(path) == 1 {
		switch old := m[k].(type) {
		case nil:
			m[k] = v
		case float64:
			if old != v {
				return fmt.Errorf("conflicting values %g and %g at %q", old, v, k)
			}
		case map[string]interface{}:
			return insert(old, []string{osprep.WildcardMarker}, v)
		}
		return nil
	}
	switch old := m[k].(type) {
	case nil:
		sub := make(map[string]interface{})
		m[k] = sub
		return insert(sub, path[1:], v)
	case float64:
		sub := map[string]interface{}{osprep.WildcardMarker: old}
		m[k] = sub
		return insert(sub, path[1:], v)
	case map[string]interface{}:
		return insert(old, path[1:], v)
	default:
		return fmt.Errorf("unexpected %T at %q", old, k)
	}
}

// Registry builds the registry described by the receiver. Modes of
// operation are collected from the technologies in the order they are
// first seen.
func (d *Document) Registry() (*osprep.Registry, error) {
	ids := func(e []Entry) []string {
		o := make([]string, len(e))
		for i, v := range e {
			o[i] = v.ID
		}
		return o
	}
	techs := make([]string, len(d.Model.Technologies))
	var modes []int
	seenMode := make(map[int]bool)
	for i, t := range d.Model.Technologies {
		techs[i] = t.ID
		for _, m := range t.OperatingModes {
			if !seenMode[m.ID] {
				seenMode[m.ID] = true
				modes = append(modes, m.ID)
			}
		}
	}
	years := d.Model.TimeDefinition.Years
	if len(years) == 0 {
		for y := d.Model.TimeDefinition.StartYear; y <= d.Model.TimeDefinition.EndYear; y++ {
			years = append(years, y)
		}
	}
	r := osprep.NewRegistry()
	for _, s := range []struct {
		dim    osprep.Dimension
		values []string
	}{
		{osprep.Region, ids(d.Model.Regions)},
		{osprep.Technology, techs},
		{osprep.Fuel, ids(d.Model.Commodities)},
		{osprep.TimeSlice, ids(d.Model.TimeSlices)},
		{osprep.Emission, ids(d.Model.Emissions)},
	} {
		if err := r.Register(s.dim, s.values); err != nil {
			return nil, err
		}
	}
	if err := r.RegisterInts(osprep.Year, years); err != nil {
		return nil, err
	}
	if err := r.RegisterInts(osprep.ModeOfOperation, modes); err != nil {
		return nil, err
	}
	r.Seal()
	return r, nil
}

// Records returns the sparse records of kind k held by the receiver.
// Values are taken as written: transforms are not applied again.
func (d *Document) Records(k Kind) ([]osprep.Record, error) {
	info, ok := kindInfos[k]
	if !ok {
		return nil, fmt.Errorf("params: unknown parameter kind %q", k)
	}
	schema := info.schema
	var recs []osprep.Record
	emit := func(key osprep.Key, v float64) {
		recs = append(recs, osprep.Record{Key: key, Value: v})
	}

	if info.level == demandLevel {
		for _, dm := range d.Model.SpecifiedDemand {
			years := make([]int, 0, len(dm.Demand))
			for y := range dm.Demand {
				years = append(years, y)
			}
			sort.Ints(years)
			for _, y := range years {
				emit(osprep.Key{osprep.Literal(dm.Region), osprep.Literal(dm.Commodity), osprep.LiteralInt(y)}, dm.Demand[y])
			}
		}
		return recs, nil
	}

	ri, ti, mi := schema.Index(osprep.Region), schema.Index(osprep.Technology), schema.Index(osprep.ModeOfOperation)
	var free []int
	for i := range schema {
		if i != ri && i != ti && i != mi {
			free = append(free, i)
		}
	}
	for _, t := range d.Model.Technologies {
		base := make(osprep.Key, len(schema))
		base[ri] = osprep.Wildcard
		base[ti] = osprep.Literal(t.ID)
		if info.level == technologyLevel {
			if v, ok := t.Params[info.docKey]; ok {
				if err := walk(v, base, free, 0, emit); err != nil {
					return nil, fmt.Errorf("params: %s of %s: %v", k, t.ID, err)
				}
			}
			continue
		}
		for _, m := range t.OperatingModes {
			v, ok := m.Params[info.docKey]
			if !ok {
				continue
			}
			mb := append(osprep.Key{}, base...)
			mb[mi] = osprep.LiteralInt(m.ID)
			if err := walk(v, mb, free, 0, emit); err != nil {
				return nil, fmt.Errorf("params: %s of %s mode %d: %v", k, t.ID, m.ID, err)
			}
		}
	}
	return recs, nil
}

// walk emits a record for every value below v. Key positions free[depth:]
// are filled from the map keys; positions left over when a value is
// reached are wildcards.
func walk(v interface{}, key osprep.Key, free []int, depth int, emit func(osprep.Key, float64)) error {
	var children map[string]interface{}
	switch x := v.(type) {
	case map[string]interface{}:
		children = x
	case map[interface{}]interface{}:
		children = make(map[string]interface{}, len(x))
		for k, c := range x {
			children[fmt.Sprint(k)] = c
		}
	default:
		f, err := toFloat(v)
		if err != nil {
			return err
		}
		k := append(osprep.Key{}, key...)
		for _, p := range free[depth:] {
			k[p] = osprep.Wildcard
		}
		emit(k, f)
		return nil
	}
	if depth == len(free) {
		return fmt.Errorf("values are nested more than %d levels deep", len(free))
	}
	names := make([]string, 0, len(children))
	for name := range children {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		k := append(osprep.Key{}, key...)
		k[free[depth]] = osprep.ParseComponent(name)
		if err := walk(children[name], k, free, depth+1, emit); err != nil {
			return err
		}
	}
	return nil
}

func toFloat(v interface{}) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	}
	return 0, fmt.Errorf("value %v of type %T is not a number", v, v)
}

// Tables expands the given kinds from the receiver.
func (d *Document) Tables(kinds ...Kind) (Tables, error) {
	reg, err := d.Registry()
	if err != nil {
		return nil, err
	}
	o := make(Tables, len(kinds))
	for _, k := range kinds {
		recs, err := d.Records(k)
		if err != nil {
			return nil, err
		}
		t, err := osprep.Expand(reg, k.Schema(), recs)
		if err != nil {
			return nil, fmt.Errorf("params: expanding %s from document: %w", k, err)
		}
		o[k] = t
	}
	return o, nil
}
