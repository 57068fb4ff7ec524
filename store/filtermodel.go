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
	"sort"

	"github.com/sneller-grid/gridcore"
	"github.com/sneller-grid/gridcore/internal/filter"
)

// SetFilterModel installs model and rebuilds filteredIndices from
// scratch. An empty model means "all rows pass" and filteredIndices is
// not materialized (spec section 3).
func (s *Store) SetFilterModel(model filter.Model) {
	s.filterModel = model
	s.rebuildFilteredIndices()
}

func (s *Store) rebuildFilteredIndices() {
	if s.filterModel.Empty() {
		s.filteredIndices = nil
		return
	}
	filtered := make([]int, 0, len(s.rows))
	for idx, r := range s.rows {
		if r == nil || r.tombstone {
			continue
		}
		if s.matchesFilter(r.data) {
			filtered = append(filtered, idx)
		}
	}
	s.filteredIndices = filtered
}

func (s *Store) matchesFilter(row any) bool {
	return filter.Matches(s.filterModel, func(colID string) gridcore.Value {
		return s.getField(row, colID)
	})
}

func (s *Store) isFiltered(idx int) bool {
	pos := sort.SearchInts(s.filteredIndices, idx)
	return pos < len(s.filteredIndices) && s.filteredIndices[pos] == idx
}

// filteredInsert inserts idx into filteredIndices if row passes the
// active filter model and isn't already present.
func (s *Store) filteredInsert(idx int, row any) {
	if s.filterModel.Empty() {
		return
	}
	if !s.matchesFilter(row) {
		return
	}
	pos := sort.SearchInts(s.filteredIndices, idx)
	if pos < len(s.filteredIndices) && s.filteredIndices[pos] == idx {
		return
	}
	s.filteredIndices = append(s.filteredIndices, 0)
	copy(s.filteredIndices[pos+1:], s.filteredIndices[pos:])
	s.filteredIndices[pos] = idx
}

func (s *Store) filteredRemove(idx int) {
	if s.filterModel.Empty() {
		return
	}
	pos := sort.SearchInts(s.filteredIndices, idx)
	if pos >= len(s.filteredIndices) || s.filteredIndices[pos] != idx {
		return
	}
	s.filteredIndices = append(s.filteredIndices[:pos], s.filteredIndices[pos+1:]...)
}
