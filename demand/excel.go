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

package demand

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/ctessum/requestcache"
	"github.com/spatialmodel/osprep/params"
	"github.com/tealeg/xlsx"
)

// workbookCache holds previously opened workbooks to avoid reading the
// same file more than once.
var workbookCache *requestcache.Cache

var loadWorkbookCacheOnce sync.Once

// loadWorkbook loads a Microsoft Excel file from disk, using a cache keyed
// by the file's path and modification time. The returned file must not be
// modified.
func loadWorkbook(fileName string) (*xlsx.File, error) {
	loadWorkbookCacheOnce.Do(func() {
		workbookCache = requestcache.NewCache(func(ctx context.Context, req interface{}) (interface{}, error) {
			filename := req.(string)
			f, err := xlsx.OpenFile(filename)
			if err != nil {
				return nil, fmt.Errorf("demand: opening xlsx file: %v", err)
			}
			return f, nil
		}, runtime.GOMAXPROCS(-1), requestcache.Memory(100))
	})
	abs, err := filepath.Abs(fileName)
	if err != nil {
		return nil, err
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("%s@%d", abs, fi.ModTime().UnixNano())
	r := workbookCache.NewRequest(context.Background(), abs, key)
	fI, err := r.Result()
	if err != nil {
		return nil, err
	}
	return fI.(*xlsx.File), nil
}

// cellValue returns the trimmed text of cell i of row, or "" if the row
// is shorter than that.
func cellValue(row *xlsx.Row, i int) string {
	if row == nil || i < 0 || i >= len(row.Cells) || row.Cells[i] == nil {
		return ""
	}
	return strings.TrimSpace(row.Cells[i].Value)
}

// WriteWorkbook writes a workbook with one sheet per commodity holding
// its projection, in the layout Load reads.
func WriteWorkbook(fileName string, commodities []string, projections map[string]params.Projection) error {
	f := xlsx.NewFile()
	for _, c := range commodities {
		s, err := f.AddSheet(c)
		if err != nil {
			return fmt.Errorf("demand: writing workbook: %v", err)
		}
		h := s.AddRow()
		h.AddCell().SetString(yearColumn)
		h.AddCell().SetString(demandColumn)
		for _, yv := range projections[c] {
			r := s.AddRow()
			r.AddCell().SetInt(yv.Year)
			r.AddCell().SetFloat(yv.Value)
		}
	}
	if err := f.Save(fileName); err != nil {
		return fmt.Errorf("demand: saving workbook: %v", err)
	}
	return nil
}
