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
	"github.com/sneller-grid/gridcore"
	"github.com/sneller-grid/gridcore/internal/field"
)

// AddRows inserts rows, skipping (with a logged warning) any whose id
// already exists (spec section 4.1, "Failure semantics": "Adding a row
// whose id already exists logs a warning and is skipped").
func (s *Store) AddRows(rows []any) {
	for _, row := range rows {
		id := s.getRowID(row)
		if _, exists := s.rowByID[id]; exists {
			s.logger.Printf("store: duplicate row id %v: add skipped", id)
			continue
		}

		idx := s.allocSlot()
		seq := s.nextSeq
		s.nextSeq++
		s.rows[idx] = &rowEntry{id: id, data: row, seq: seq}
		s.rowByID[id] = idx

		s.cacheRowForSort(idx, row)
		s.sortedInsert(idx)
		s.filteredInsert(idx, row)
		s.noteDistinctForRow(row)
	}
}

// RemoveRows removes every row named by ids. An unknown id is logged and
// otherwise a no-op (spec section 4.1, "Failure semantics").
func (s *Store) RemoveRows(ids []any) {
	for _, id := range ids {
		idx, ok := s.rowByID[id]
		if !ok {
			s.logger.Printf("store: unknown row id %v: remove skipped", id)
			continue
		}
		s.removeRowAt(id, idx)
	}
}

func (s *Store) removeRowAt(id any, idx int) {
	s.sortedRemove(idx)
	s.filteredRemove(idx)
	delete(s.rowByID, id)

	if s.hashCache != nil {
		s.hashCache[idx] = nil
	}
	if s.stringCache != nil {
		s.stringCache[idx] = ""
		s.stringNull[idx] = false
	}
	s.rows[idx] = &rowEntry{tombstone: true}
	s.freeList = append(s.freeList, idx)
}

// UpdateCell writes value at fieldPath on the row identified by id. An
// unknown id is logged and otherwise a no-op (spec section 4.1, "Failure
// semantics"). If
// fieldPath participates in the active sort or filter, the
// corresponding index is incrementally updated; distinctValues only
// ever gains entries (spec section 4.1, "Cell update").
func (s *Store) UpdateCell(id any, fieldPath string, value gridcore.Value) {
	idx, ok := s.rowByID[id]
	if !ok {
		s.logger.Printf("store: unknown row id %v: update skipped", id)
		return
	}
	row := s.rows[idx].data
	field.Set(row, fieldPath, value)

	if s.participatesInSort(fieldPath) {
		s.sortedRemove(idx)
		s.cacheRowForSort(idx, row)
		s.sortedInsert(idx)
	}

	if s.participatesInFilter(fieldPath) {
		was := s.isFiltered(idx)
		now := s.matchesFilter(row)
		switch {
		case was && !now:
			s.filteredRemove(idx)
		case !was && now:
			s.filteredInsert(idx, row)
		}
	}

	s.noteDistinct(fieldPath, value)
}

// UpdateRow applies one updateCell per entry of partial (spec section
// 4.1, "updateRow expands to one updateCell per field", shared with the
// transaction manager's ordering rule in spec section 4.3).
func (s *Store) UpdateRow(id any, partial map[string]gridcore.Value) {
	for fieldPath, value := range partial {
		s.UpdateCell(id, fieldPath, value)
	}
}

func (s *Store) participatesInSort(fieldPath string) bool {
	for _, k := range s.sortModel {
		if k.ColumnID == fieldPath {
			return true
		}
	}
	return false
}

func (s *Store) participatesInFilter(fieldPath string) bool {
	if s.filterModel == nil {
		return false
	}
	_, ok := s.filterModel[fieldPath]
	return ok
}
