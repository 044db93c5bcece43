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

package ospreputil

import (
	"fmt"
	"os"
	"strings"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/osprep/data/israel"
	"github.com/spatialmodel/osprep/params"
	"github.com/spf13/cast"
)

// Output formats.
const (
	FormatYAML = "yaml"
	FormatCSV  = "csv"
)

func checkFormat(f string) (string, error) {
	switch f = strings.ToLower(strings.TrimSpace(f)); f {
	case FormatYAML, FormatCSV:
		return f, nil
	}
	return "", fmt.Errorf("osprep: invalid Format %q; must be %s or %s", f, FormatYAML, FormatCSV)
}

// loadDefinition reads the scenario definition at path, or returns the
// built-in scenario if path is empty.
func loadDefinition(path string) (*params.Definition, error) {
	if path == "" {
		return israel.Definition()
	}
	f, err := os.Open(os.ExpandEnv(path))
	if err != nil {
		return nil, fmt.Errorf("osprep: opening scenario: %v", err)
	}
	defer f.Close()
	d, err := params.ReadDefinition(f)
	if err != nil {
		return nil, fmt.Errorf("osprep: reading scenario %s: %v", path, err)
	}
	return d, nil
}

// diurnalConfig returns the day/night capacity factor settings.
func diurnalConfig(cfg *viper.Viper) params.Diurnal {
	return params.Diurnal{
		Categories:    cfg.GetStringSlice("Diurnal.Categories"),
		DayTag:        cfg.GetString("Diurnal.DayTag"),
		NightTag:      cfg.GetString("Diurnal.NightTag"),
		DayMultiplier: cfg.GetFloat64("Diurnal.DayMultiplier"),
	}
}

// toIntSliceE converts a list of integers given in a configuration file,
// as a command-line argument ("[2015,2016]" or "2015,2016") or as an
// environment variable to a []int.
func toIntSliceE(s interface{}) ([]int, error) {
	if v, ok := s.(string); ok {
		v = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(v), "["), "]"))
		if v == "" {
			return nil, nil
		}
		parts := strings.Split(v, ",")
		for i, p := range parts {
			parts[i] = strings.TrimSpace(p)
		}
		return cast.ToIntSliceE(parts)
	}
	if s == nil {
		return nil, nil
	}
	return cast.ToIntSliceE(s)
}
