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

package store

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/sneller-grid/gridcore"
	"github.com/sneller-grid/gridcore/internal/field"
	"github.com/sneller-grid/gridcore/internal/filter"
	"github.com/sneller-grid/gridcore/sorting"
)

func getRowID(row any) any {
	return row.(map[string]any)["id"]
}

func people() []any {
	return []any{
		map[string]any{"id": 1, "name": "Alice", "age": 30},
		map[string]any{"id": 2, "name": "Bob", "age": 25},
		map[string]any{"id": 3, "name": "Charlie", "age": 35},
		map[string]any{"id": 4, "name": "Diana", "age": 28},
		map[string]any{"id": 5, "name": "Eve", "age": 22},
	}
}

func names(rows []any) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.(map[string]any)["name"].(string)
	}
	return out
}

// TestQuerySortThenPaginate implements end-to-end scenario S1.
func TestQuerySortThenPaginate(t *testing.T) {
	s, err := New(people(), Options{GetRowID: getRowID})
	if err != nil {
		t.Fatal(err)
	}
	sortModel := []sorting.Key{{ColumnID: "age", Direction: sorting.Ascending}}

	res := s.Query(Request{Pagination: Pagination{0, 2}, Sort: sortModel})
	if got := names(res.Rows); !reflect.DeepEqual(got, []string{"Eve", "Bob"}) {
		t.Fatalf("page 0: got %v", got)
	}
	if res.TotalRows != 5 {
		t.Fatalf("totalRows = %d, want 5", res.TotalRows)
	}

	res = s.Query(Request{Pagination: Pagination{1, 2}, Sort: sortModel})
	if got := names(res.Rows); !reflect.DeepEqual(got, []string{"Diana", "Alice"}) {
		t.Fatalf("page 1: got %v", got)
	}

	res = s.Query(Request{Pagination: Pagination{2, 2}, Sort: sortModel})
	if got := names(res.Rows); !reflect.DeepEqual(got, []string{"Charlie"}) {
		t.Fatalf("page 2: got %v", got)
	}
}

// TestQueryFilterAndSort implements end-to-end scenario S2.
func TestQueryFilterAndSort(t *testing.T) {
	s, err := New(people(), Options{GetRowID: getRowID})
	if err != nil {
		t.Fatal(err)
	}

	model := filter.Model{
		"name": {Conditions: []filter.Condition{{Kind: filter.KindText, Op: filter.OpContains, Value: gridcore.StringValue("a")}}},
		"age":  {Conditions: []filter.Condition{{Kind: filter.KindNumber, Op: filter.OpGreaterThanOrEqual, Value: gridcore.IntValue(28)}}},
	}
	sortModel := []sorting.Key{{ColumnID: "age", Direction: sorting.Descending}}

	res := s.Query(Request{Pagination: Pagination{0, 10}, Sort: sortModel, Filter: model})
	if got := names(res.Rows); !reflect.DeepEqual(got, []string{"Charlie", "Alice", "Diana"}) {
		t.Fatalf("got %v", got)
	}
	if res.TotalRows != 3 {
		t.Fatalf("totalRows = %d, want 3", res.TotalRows)
	}
}

// TestIncrementalInsertPreservesSort implements end-to-end scenario S3.
func TestIncrementalInsertPreservesSort(t *testing.T) {
	s, err := New(people(), Options{GetRowID: getRowID})
	if err != nil {
		t.Fatal(err)
	}
	sortModel := []sorting.Key{{ColumnID: "age", Direction: sorting.Ascending}}
	s.Query(Request{Pagination: Pagination{0, 10}, Sort: sortModel})

	s.AddRows([]any{map[string]any{"id": 6, "name": "Zed", "age": 27}})

	res := s.Query(Request{Pagination: Pagination{0, 10}, Sort: sortModel})
	ages := make([]int, len(res.Rows))
	for i, r := range res.Rows {
		ages[i] = r.(map[string]any)["age"].(int)
	}
	want := []int{22, 25, 27, 28, 30, 35}
	if !reflect.DeepEqual(ages, want) {
		t.Fatalf("ages = %v, want %v", ages, want)
	}
}

// TestStringSortCollisionFallback implements end-to-end scenario S4.
func TestStringSortCollisionFallback(t *testing.T) {
	rows := []any{
		map[string]any{"id": 1, "name": "Person Giuseppe"},
		map[string]any{"id": 2, "name": "Person Giovanni"},
		map[string]any{"id": 3, "name": "Person Giorgio"},
		map[string]any{"id": 4, "name": "Person Giacomo"},
	}
	s, err := New(rows, Options{GetRowID: getRowID})
	if err != nil {
		t.Fatal(err)
	}
	sortModel := []sorting.Key{{ColumnID: "name", Direction: sorting.Ascending}}
	res := s.Query(Request{Pagination: Pagination{0, 10}, Sort: sortModel})
	want := []string{"Person Giacomo", "Person Giorgio", "Person Giovanni", "Person Giuseppe"}
	if got := names(res.Rows); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestDuplicateAddIsSkipped(t *testing.T) {
	s, err := New(people(), Options{GetRowID: getRowID})
	if err != nil {
		t.Fatal(err)
	}
	before := s.GetTotalRowCount()
	s.AddRows([]any{map[string]any{"id": 1, "name": "Alice2", "age": 99}})
	if s.GetTotalRowCount() != before {
		t.Fatalf("duplicate add changed row count: %d -> %d", before, s.GetTotalRowCount())
	}
	if s.GetRowById(1).(map[string]any)["name"] != "Alice" {
		t.Fatal("duplicate add overwrote the original row")
	}
}

func TestRemoveUnknownIsNoop(t *testing.T) {
	s, err := New(people(), Options{GetRowID: getRowID})
	if err != nil {
		t.Fatal(err)
	}
	before := s.GetTotalRowCount()
	s.RemoveRows([]any{999})
	if s.GetTotalRowCount() != before {
		t.Fatal("removing an unknown id changed row count")
	}
}

func TestDistinctValuesMonotonic(t *testing.T) {
	s, err := New(people(), Options{GetRowID: getRowID})
	if err != nil {
		t.Fatal(err)
	}
	before := s.GetDistinctValues("name")
	if len(before) != 5 {
		t.Fatalf("expected 5 distinct names, got %d", len(before))
	}
	s.AddRows([]any{map[string]any{"id": 6, "name": "Zed", "age": 27}})
	after := s.GetDistinctValues("name")
	if len(after) != 6 {
		t.Fatalf("expected 6 distinct names after add, got %d", len(after))
	}
	for _, v := range before {
		found := false
		for _, v2 := range after {
			if v.Key() == v2.Key() {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("distinct value %v was lost", v)
		}
	}
}

// TestIncrementalEqualsBulk implements Testable Property 4: a randomized
// sequence of add/remove/update operations, applied incrementally,
// yields the same visible sequence as rebuilding the store from scratch.
func TestIncrementalEqualsBulk(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	sortModel := []sorting.Key{{ColumnID: "age", Direction: sorting.Ascending}}

	s, err := New(people(), Options{GetRowID: getRowID})
	if err != nil {
		t.Fatal(err)
	}
	s.SetSortModel(sortModel)

	nextID := 6
	live := map[int]int{1: 30, 2: 25, 3: 35, 4: 28, 5: 22} // id -> age

	for i := 0; i < 50; i++ {
		switch rng.Intn(3) {
		case 0:
			id := nextID
			nextID++
			age := rng.Intn(60)
			s.AddRows([]any{map[string]any{"id": id, "name": "R", "age": age}})
			live[id] = age
		case 1:
			if len(live) == 0 {
				continue
			}
			var victim int
			n := rng.Intn(len(live))
			for id := range live {
				if n == 0 {
					victim = id
					break
				}
				n--
			}
			s.RemoveRows([]any{victim})
			delete(live, victim)
		case 2:
			if len(live) == 0 {
				continue
			}
			var target int
			n := rng.Intn(len(live))
			for id := range live {
				if n == 0 {
					target = id
					break
				}
				n--
			}
			age := rng.Intn(60)
			s.UpdateCell(target, "age", gridcore.IntValue(int64(age)))
			live[target] = age
		}
	}

	got := s.Query(Request{Pagination: Pagination{0, len(live) + 1}, Sort: sortModel})

	rebuiltRows := make([]any, 0, len(live))
	for id, age := range live {
		rebuiltRows = append(rebuiltRows, map[string]any{"id": id, "name": "R", "age": age})
	}
	rebuilt, err := New(rebuiltRows, Options{GetRowID: getRowID})
	if err != nil {
		t.Fatal(err)
	}
	want := rebuilt.Query(Request{Pagination: Pagination{0, len(live) + 1}, Sort: sortModel})

	if got.TotalRows != want.TotalRows {
		t.Fatalf("totalRows = %d, want %d", got.TotalRows, want.TotalRows)
	}
	gotAges := make([]int64, len(got.Rows))
	for i, r := range got.Rows {
		// UpdateCell writes ages back as int64, added rows hold int.
		gotAges[i] = field.Default(r, "age").AsInt()
	}
	wantAges := make([]int64, len(want.Rows))
	for i, r := range want.Rows {
		wantAges[i] = int64(r.(map[string]any)["age"].(int))
	}
	if !reflect.DeepEqual(gotAges, wantAges) {
		t.Fatalf("incremental ages = %v, want bulk-rebuilt %v", gotAges, wantAges)
	}
}
