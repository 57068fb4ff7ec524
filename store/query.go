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
	"github.com/sneller-grid/gridcore/internal/filter"
	"github.com/sneller-grid/gridcore/sorting"
)

// Pagination selects one page of the visible sequence.
type Pagination struct {
	PageIndex int
	PageSize  int
}

// Request is a single query (spec section 4.1, "query(request)").
type Request struct {
	Pagination Pagination
	Sort       []sorting.Key
	Filter     filter.Model
}

// Result is query's response: one page of rows plus the total count of
// rows passing the filter.
type Result struct {
	Rows      []any
	TotalRows int
}

// Query updates the sort/filter state (SetSortModel is a no-op if the
// sort model is unchanged; SetFilterModel always rebuilds
// filteredIndices) then returns the pageIndex-th window
// of pageSize rows from the visible sequence (spec section 4.1).
// Out-of-range pages return an empty window with a correct TotalRows.
func (s *Store) Query(req Request) Result {
	s.SetSortModel(req.Sort)
	s.SetFilterModel(req.Filter)

	total := s.GetVisibleRowCount()
	if req.Pagination.PageSize <= 0 {
		return Result{Rows: []any{}, TotalRows: total}
	}

	start := req.Pagination.PageIndex * req.Pagination.PageSize
	if start < 0 || start >= total {
		return Result{Rows: []any{}, TotalRows: total}
	}
	end := start + req.Pagination.PageSize
	if end > total {
		end = total
	}

	rows := make([]any, 0, end-start)
	if s.filterModel.Empty() {
		for _, idx := range s.sortedIndices[start:end] {
			rows = append(rows, s.rows[idx].data)
		}
		return Result{Rows: rows, TotalRows: total}
	}

	// Walk sortedIndices in order, keeping only indices present in
	// filteredIndices, until [start,end) of the visible sequence is
	// collected.
	pos := 0
	for _, idx := range s.sortedIndices {
		if !s.isFiltered(idx) {
			continue
		}
		if pos >= start && pos < end {
			rows = append(rows, s.rows[idx].data)
		}
		pos++
		if pos >= end {
			break
		}
	}
	return Result{Rows: rows, TotalRows: total}
}
