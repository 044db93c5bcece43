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

// Package params assembles the complete set of parameter tables of an
// OSeMOSYS scenario from its sparse definition.
//
// Each parameter kind has a key schema and a sparse source: the static
// per-technology values of a Definition, or the demand projections
// supplied by a demand loader. The Assembler turns each source into
// wildcard records, expands them against the scenario's registry and
// applies any post-expansion transform. The same sources feed both the
// flat per-kind tables and the nested Document.
package params

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/osprep"
	"golang.org/x/sync/errgroup"
)

// An Option configures an Assembler.
type Option func(*Assembler)

// DecayRate sets the annual technology-learning rate applied to capital
// costs. The default is 0.98.
func DecayRate(rate float64) Option {
	return func(a *Assembler) { a.decayRate = rate }
}

// WithDiurnal sets the day/night capacity factor adjustment. The default
// is DefaultDiurnal().
func WithDiurnal(d Diurnal) Option {
	return func(a *Assembler) { a.diurnal = d }
}

// DefaultDemand sets the growth curve used for demand commodities that
// have no projection. The defaults are 1000 and 1.02.
func DefaultDemand(base, growthRate float64) Option {
	return func(a *Assembler) {
		a.demandBase = base
		a.demandGrowth = growthRate
	}
}

// Log sets the logger. The default is the logrus standard logger.
func Log(l logrus.FieldLogger) Option {
	return func(a *Assembler) { a.log = l }
}

// Assembler builds the parameter tables of one scenario. It is safe for
// concurrent use once created.
type Assembler struct {
	def    *Definition
	reg    *osprep.Registry
	demand map[string]Projection

	decayRate                float64
	diurnal                  Diurnal
	demandBase, demandGrowth float64

	log logrus.FieldLogger
}

// NewAssembler returns an assembler for def. demand holds the annual
// demand projection of each demand commodity; commodities that are
// missing from it get the default growth curve and a warning.
func NewAssembler(def *Definition, demand map[string]Projection, opts ...Option) (*Assembler, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	reg, err := def.Registry()
	if err != nil {
		return nil, err
	}
	a := &Assembler{
		def:          def,
		reg:          reg,
		demand:       make(map[string]Projection, len(def.DemandCommodities)),
		decayRate:    0.98,
		diurnal:      DefaultDiurnal(),
		demandBase:   1000,
		demandGrowth: 1.02,
		log:          logrus.StandardLogger(),
	}
	for _, o := range opts {
		o(a)
	}
	for _, c := range def.DemandCommodities {
		if p, ok := demand[c]; ok {
			a.demand[c] = p
			continue
		}
		a.log.WithFields(logrus.Fields{"commodity": c}).WithError(&osprep.MissingSourceDataError{
			Source:  "demand projection for " + c,
			Default: fmt.Sprintf("%g growing at %g per year", a.demandBase, a.demandGrowth),
		}).Warn("using default demand projection")
		a.demand[c] = DefaultProjection(def.Years(), def.StartYear, a.demandBase, a.demandGrowth)
	}
	return a, nil
}

// Registry returns the sealed registry of the scenario.
func (a *Assembler) Registry() *osprep.Registry { return a.reg }

// Definition returns the scenario definition.
func (a *Assembler) Definition() *Definition { return a.def }

// transform returns the post-expansion transform of kind k, or nil.
func (a *Assembler) transform(k Kind) Transform {
	if k == CapitalCost {
		return LearningDecay(a.decayRate)
	}
	return nil
}

// Records returns the sparse records of kind k.
func (a *Assembler) Records(k Kind) ([]osprep.Record, error) {
	w := osprep.Wildcard
	var recs []osprep.Record
	switch k {
	case CapacityFactor:
		slices, err := a.reg.ValuesOf(osprep.TimeSlice)
		if err != nil {
			return nil, err
		}
		for _, t := range sortedKeys(a.def.CapacityFactor) {
			v := a.def.CapacityFactor[t]
			if !a.diurnal.Applies(t) {
				recs = append(recs, osprep.Record{Key: osprep.Key{w, osprep.Literal(t), w, w}, Value: v})
				continue
			}
			// One literal per time slice, since a single wildcard value
			// cannot depend on the time slice.
			for _, ts := range slices {
				recs = append(recs, osprep.Record{
					Key:   osprep.Key{w, osprep.Literal(t), osprep.Literal(ts), w},
					Value: a.diurnal.Adjust(ts, v),
				})
			}
		}
	case InputActivityRatio:
		recs = ratioRecords(a.def.InputActivityRatio)
	case OutputActivityRatio:
		recs = ratioRecords(a.def.OutputActivityRatio)
	case EmissionActivityRatio:
		recs = ratioRecords(a.def.EmissionActivityRatio)
	case CapitalCost:
		recs = technologyRecords(a.def.CapitalCost, w)
	case FixedCost:
		recs = technologyRecords(a.def.FixedCost, w)
	case VariableCost:
		recs = technologyRecords(a.def.VariableCost, w, w)
	case ResidualCapacity:
		recs = technologyRecords(a.def.ResidualCapacity, osprep.LiteralInt(a.def.StartYear))
	case SpecifiedAnnualDemand:
		for _, c := range a.def.DemandCommodities {
			for _, yv := range a.demand[c] {
				recs = append(recs, osprep.Record{
					Key: osprep.Key{
						osprep.Literal(a.def.DemandRegion),
						osprep.Literal(c),
						osprep.LiteralInt(yv.Year),
					},
					Value: yv.Value,
				})
			}
		}
	default:
		return nil, fmt.Errorf("params: unknown parameter kind %q", k)
	}
	return recs, nil
}

// technologyRecords returns one record per technology, with a wildcard
// region followed by the technology and then rest.
func technologyRecords(m map[string]float64, rest ...osprep.Component) []osprep.Record {
	recs := make([]osprep.Record, 0, len(m))
	for _, t := range sortedKeys(m) {
		k := append(osprep.Key{osprep.Wildcard, osprep.Literal(t)}, rest...)
		recs = append(recs, osprep.Record{Key: k, Value: m[t]})
	}
	return recs
}

// ratioRecords returns records keyed by region, technology, commodity or
// emission, mode of operation and year, with every position other than
// the technology and the commodity wildcarded.
func ratioRecords(m map[string]map[string]float64) []osprep.Record {
	var recs []osprep.Record
	w := osprep.Wildcard
	for _, t := range sortedKeys(m) {
		for _, f := range sortedKeys(m[t]) {
			recs = append(recs, osprep.Record{
				Key:   osprep.Key{w, osprep.Literal(t), osprep.Literal(f), w, w},
				Value: m[t][f],
			})
		}
	}
	return recs
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Assemble returns the expanded table of kind k.
func (a *Assembler) Assemble(k Kind) (*osprep.Table, error) {
	recs, err := a.Records(k)
	if err != nil {
		return nil, err
	}
	schema := k.Schema()
	t, err := osprep.Expand(a.reg, schema, recs)
	if err != nil {
		return nil, fmt.Errorf("params: assembling %s: %w", k, err)
	}
	if tf := a.transform(k); tf != nil {
		ctx := Context{StartYear: a.def.StartYear}
		t, err = t.MapValues(func(key []string, v float64) (float64, error) {
			return tf(schema, key, v, ctx)
		})
		if err != nil {
			return nil, fmt.Errorf("params: assembling %s: %w", k, err)
		}
	}
	a.log.WithFields(logrus.Fields{
		"kind":    k,
		"records": len(recs),
		"rows":    t.Len(),
	}).Debug("assembled parameter table")
	return t, nil
}

// Tables holds one expanded table per parameter kind.
type Tables map[Kind]*osprep.Table

// Summary returns a report of the receiver in kind order.
func (t Tables) Summary() osprep.TextTable {
	var names []string
	var tables []*osprep.Table
	for _, k := range Kinds() {
		if tbl, ok := t[k]; ok {
			names = append(names, string(k))
			tables = append(tables, tbl)
		}
	}
	return osprep.SummaryTable(names, tables)
}

// AssembleAll assembles every parameter kind. Kinds are expanded
// concurrently; the first error cancels the remaining work.
func (a *Assembler) AssembleAll(ctx context.Context) (Tables, error) {
	kinds := Kinds()
	out := make([]*osprep.Table, len(kinds))
	g, ctx := errgroup.WithContext(ctx)
	for i, k := range kinds {
		i, k := i, k
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t, err := a.Assemble(k)
			if err != nil {
				return err
			}
			out[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	tables := make(Tables, len(kinds))
	for i, k := range kinds {
		tables[k] = out[i]
	}
	return tables, nil
}
