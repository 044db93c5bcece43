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

// Package demand loads annual demand projections from a Microsoft Excel
// workbook with one sheet per demand commodity.
//
// Each sheet has a header row naming a Year column and, optionally, an
// AnnualDemand column. Missing workbooks and sheets are not errors: the
// affected commodities get a default growth curve and a warning is logged.
package demand

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/osprep"
	"github.com/spatialmodel/osprep/params"
	"github.com/tealeg/xlsx"
)

const (
	yearColumn   = "Year"
	demandColumn = "AnnualDemand"
)

// Loader reads demand projections.
type Loader struct {
	// File is the path to the workbook.
	File string

	// Years are the years of the model horizon. Rows for other years are
	// ignored. If Years is empty, every row is kept.
	Years []int

	// StartYear, Base and GrowthRate define the default projection
	// Base × GrowthRate^(year − StartYear) used for missing data.
	// Base is also used for sheets without an AnnualDemand column.
	StartYear  int
	Base       float64
	GrowthRate float64

	Log logrus.FieldLogger
}

// NewLoader returns a loader for file with the default growth curve of
// 1000 growing by 2% per year.
func NewLoader(file string, years []int, startYear int) *Loader {
	return &Loader{
		File:       file,
		Years:      years,
		StartYear:  startYear,
		Base:       1000,
		GrowthRate: 1.02,
		Log:        logrus.StandardLogger(),
	}
}

func (l *Loader) log() logrus.FieldLogger {
	if l.Log == nil {
		return logrus.StandardLogger()
	}
	return l.Log
}

func (l *Loader) defaultProjection() params.Projection {
	return params.DefaultProjection(l.Years, l.StartYear, l.Base, l.GrowthRate)
}

func (l *Loader) defaultDescription() string {
	return fmt.Sprintf("default growth curve (%g × %g^(year−%d))", l.Base, l.GrowthRate, l.StartYear)
}

// Load returns the projection of each of the given commodities.
func (l *Loader) Load(commodities []string) (map[string]params.Projection, error) {
	o := make(map[string]params.Projection, len(commodities))
	if _, err := os.Stat(l.File); os.IsNotExist(err) {
		l.log().WithError(&osprep.MissingSourceDataError{
			Source:  l.File,
			Default: l.defaultDescription(),
			Err:     err,
		}).Warn("demand workbook not found")
		for _, c := range commodities {
			o[c] = l.defaultProjection()
		}
		return o, nil
	} else if err != nil {
		return nil, fmt.Errorf("demand: %v", err)
	}

	f, err := loadWorkbook(l.File)
	if err != nil {
		return nil, err
	}
	for _, c := range commodities {
		s, ok := f.Sheet[c]
		if !ok {
			l.log().WithError(&osprep.MissingSourceDataError{
				Source:  fmt.Sprintf("sheet %s of %s", c, l.File),
				Default: l.defaultDescription(),
			}).Warn("demand sheet not found")
			o[c] = l.defaultProjection()
			continue
		}
		p, err := l.readSheet(s)
		if err != nil {
			return nil, fmt.Errorf("demand: sheet %s of %s: %v", c, l.File, err)
		}
		l.log().WithFields(logrus.Fields{
			"commodity": c,
			"years":     len(p),
		}).Info("loaded demand")
		o[c] = p
	}
	return o, nil
}

func (l *Loader) readSheet(s *xlsx.Sheet) (params.Projection, error) {
	if len(s.Rows) == 0 {
		return nil, fmt.Errorf("no header row")
	}
	yearCol, demandCol := -1, -1
	for i, c := range s.Rows[0].Cells {
		switch {
		case c == nil:
		case strings.EqualFold(strings.TrimSpace(c.Value), yearColumn):
			yearCol = i
		case strings.EqualFold(strings.TrimSpace(c.Value), demandColumn):
			demandCol = i
		}
	}
	if yearCol < 0 {
		return nil, fmt.Errorf("no %s column", yearColumn)
	}
	if demandCol < 0 {
		l.log().WithFields(logrus.Fields{"sheet": s.Name, "value": l.Base}).
			Warnf("no %s column; using the base value", demandColumn)
	}

	inHorizon := make(map[int]bool, len(l.Years))
	for _, y := range l.Years {
		inHorizon[y] = true
	}
	seen := make(map[int]bool)
	var p params.Projection
	skipped := 0
	for i, row := range s.Rows[1:] {
		ys := cellValue(row, yearCol)
		if ys == "" {
			continue // Blank row.
		}
		yf, err := strconv.ParseFloat(ys, 64)
		if err != nil || yf != math.Trunc(yf) {
			return nil, fmt.Errorf("row %d: invalid year %q", i+2, ys)
		}
		year := int(yf)
		if len(l.Years) > 0 && !inHorizon[year] {
			skipped++
			continue
		}
		if seen[year] {
			return nil, fmt.Errorf("row %d: duplicate year %d", i+2, year)
		}
		seen[year] = true
		v := l.Base
		if demandCol >= 0 {
			vs := cellValue(row, demandCol)
			if v, err = strconv.ParseFloat(vs, 64); err != nil {
				return nil, fmt.Errorf("row %d: invalid %s %q", i+2, demandColumn, vs)
			}
		}
		p = append(p, params.YearValue{Year: year, Value: v})
	}
	if skipped > 0 {
		l.log().WithFields(logrus.Fields{"sheet": s.Name, "rows": skipped}).
			Warn("ignoring demand outside the model horizon")
	}
	sort.Slice(p, func(i, j int) bool { return p[i].Year < p[j].Year })
	return p, nil
}
