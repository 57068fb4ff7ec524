// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Command gridbench exercises the Indexed Data Store, Sort Engine, and
// Viewport end to end over a synthetic dataset,
// reporting wall-clock time for the operations a real grid issues in a
// scroll-and-sort session.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/sneller-grid/gridcore"
	"github.com/sneller-grid/gridcore/sorting"
	"github.com/sneller-grid/gridcore/store"
	"github.com/sneller-grid/gridcore/viewport"
)

func fatalf(f string, args ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", args...)
	os.Exit(1)
}

type benchRow struct {
	ID    int
	Name  string
	Score float64
}

func syntheticRows(n int) []any {
	names := []string{"Alpha", "Bravo", "Charlie", "Delta", "Echo", "Foxtrot", "Golf", "Hotel"}
	rng := rand.New(rand.NewSource(1))
	rows := make([]any, n)
	for i := 0; i < n; i++ {
		rows[i] = benchRow{
			ID:    i,
			Name:  names[rng.Intn(len(names))],
			Score: rng.Float64() * 1000,
		}
	}
	return rows
}

func getRowID(row any) any { return row.(benchRow).ID }

func getField(row any, path string) gridcore.Value {
	r := row.(benchRow)
	switch path {
	case "Name":
		return gridcore.StringValue(r.Name)
	case "Score":
		return gridcore.FloatValue(r.Score)
	default:
		return gridcore.Null()
	}
}

func timed(label string, fn func()) {
	start := time.Now()
	fn()
	fmt.Printf("%-28s %v\n", label, time.Since(start))
}

func main() {
	var (
		rows      int
		pageSize  int
		sortField string
		workers   int
	)
	flag.IntVar(&rows, "rows", 500_000, "row count to load")
	flag.IntVar(&pageSize, "page", 100, "page size for the simulated query loop")
	flag.StringVar(&sortField, "sort", "Score", "field to sort by")
	flag.IntVar(&workers, "workers", 0, "sort worker count (0 = GOMAXPROCS)")
	flag.Parse()

	if rows <= 0 {
		fatalf("usage: %s [-rows N] [-page N] [-sort field] [-workers N]", os.Args[0])
	}

	data := syntheticRows(rows)

	var s *store.Store
	timed("load", func() {
		var err error
		s, err = store.New(data, store.Options{
			GetRowID:      getRowID,
			GetFieldValue: getField,
			Workers:       workers,
		})
		if err != nil {
			fatalf("store.New: %s", err)
		}
	})

	timed("sort by "+sortField, func() {
		s.SetSortModel([]sorting.Key{{ColumnID: sortField, Direction: sorting.Ascending}})
	})

	timed("paged query sweep", func() {
		total := s.GetVisibleRowCount()
		pages := (total + pageSize - 1) / pageSize
		for p := 0; p < pages; p++ {
			s.Query(store.Request{
				Pagination: store.Pagination{PageIndex: p, PageSize: pageSize},
			})
		}
	})

	var vp *viewport.Viewport
	timed("viewport scroll sweep", func() {
		vp = viewport.New(viewport.Options{RowHeight: 32, HeaderHeight: 40, Overscan: 5})
		provider := storeRowProvider{s}
		vp.SetTotalRows(s.GetVisibleRowCount(), provider)
		vp.SetViewportSize(1200, 800, provider)
		for top := 0.0; top < 9_000_000; top += 3200 {
			vp.SetScroll(top, 0, provider)
		}
	})

	first, last := vp.VisibleRange()
	fmt.Printf("rows=%d visible=[%d,%d] slots=%d\n", rows, first, last, vp.SlotCount())
}

type storeRowProvider struct{ s *store.Store }

func (p storeRowProvider) RowAt(idx int) any { return p.s.GetRowByIndex(idx) }
