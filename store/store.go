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

// Package store implements the Indexed Data Store: a content-addressable
// table with fast lookup by row identity, an incrementally maintained
// sort order, filter predicates, and distinct-value indexes. It is the
// central dependency of the transaction manager and the viewport
// (spec section 2, "dependency order").
package store

import (
	"errors"
	"sync"

	"github.com/sneller-grid/gridcore"
	"github.com/sneller-grid/gridcore/internal/field"
	"github.com/sneller-grid/gridcore/internal/filter"
	"github.com/sneller-grid/gridcore/sorting"
)

// DefaultParallelThreshold is the row count above which a sort model
// change dispatches to the parallel sort engine rather than sorting on
// the owner goroutine (spec section 4.2, "recommended ~200,000 rows").
const DefaultParallelThreshold = 200_000

// rowEntry is one storage slot. A tombstoned entry's data is cleared but
// the slot itself is retained (and its index recorded in the store's
// free-list) so removal never requires renumbering rowById (spec section
// 9, "Implicit index rebuilds on remove").
type rowEntry struct {
	id        any
	data      any
	seq       int64
	tombstone bool
}

// Options configures a new Store.
type Options struct {
	// GetRowID extracts a row's unique, comparable identity. Required.
	GetRowID func(row any) any

	// GetFieldValue overrides the default dotted-path accessor
	// (field.Default). Optional.
	GetFieldValue field.Getter

	// Logger receives DuplicateRowId/UnknownRowId warnings. Defaults to
	// gridcore.DefaultLogger().
	Logger gridcore.Logger

	// ParallelThreshold is the row count above which sort-model changes
	// are dispatched to the parallel sort engine. Zero uses
	// DefaultParallelThreshold; a negative value disables parallel sort.
	ParallelThreshold int

	// Workers is the worker-goroutine count passed to sorting.Parallel.
	// Zero lets the sort engine choose (runtime.GOMAXPROCS(0)).
	Workers int
}

// Store is the Indexed Data Store.
type Store struct {
	// mu guards the hash-cache buffers shared with an in-flight parallel
	// sort (spec section 4.1 expansion, "Concurrency"). All other state
	// is single-threaded-cooperative per spec section 5 and is not
	// guarded by mu.
	mu sync.Mutex

	rows     []*rowEntry
	rowByID  map[any]int
	freeList []int
	nextSeq  int64

	getRowID func(row any) any
	getField field.Getter

	sortModel []sorting.Key
	sortHash  string
	hashCache []sorting.HashVector // aligned with rows by storage index

	// singleString is true when sortModel is exactly one key over a
	// string-valued column, in which case sorting is driven by
	// stringCache/stringNull rather than hashCache (spec section 4.2:
	// single-key string sort uses the chunked-hash-plus-locale-fallback
	// algorithm, distinct from the hash-only multi-key comparator).
	singleString bool
	stringColumn string
	stringCache  []string // aligned with rows by storage index
	stringNull   []bool   // aligned with rows by storage index

	filterModel filter.Model

	sortedIndices   []int // permutation of live storage indices
	filteredIndices []int // live storage indices passing filterModel, ascending

	distinctValues map[string]map[string]gridcore.Value
	trackedFields  map[string]bool

	parallelThreshold int
	workers           int

	logger gridcore.Logger
}

// New bulk-loads initial and builds all indexes.
func New(initial []any, opts Options) (*Store, error) {
	if opts.GetRowID == nil {
		return nil, &gridcore.ConfigError{Field: "GetRowID", Err: errors.New("required")}
	}

	getField := opts.GetFieldValue
	if getField == nil {
		getField = field.Default
	}

	threshold := opts.ParallelThreshold
	if threshold == 0 {
		threshold = DefaultParallelThreshold
	}

	s := &Store{
		rowByID:           make(map[any]int),
		getRowID:          opts.GetRowID,
		getField:          getField,
		distinctValues:    make(map[string]map[string]gridcore.Value),
		trackedFields:     make(map[string]bool),
		parallelThreshold: threshold,
		workers:           opts.Workers,
		logger:            opts.Logger,
	}
	if s.logger == nil {
		s.logger = gridcore.DefaultLogger()
	}

	s.AddRows(initial)
	return s, nil
}

// GetRowById returns the row with the given id, or nil if none exists.
func (s *Store) GetRowById(id any) any {
	idx, ok := s.rowByID[id]
	if !ok {
		return nil
	}
	return s.rows[idx].data
}

// GetRowByIndex returns the row at the idx-th position of sortedIndices,
// or nil if idx is out of range.
func (s *Store) GetRowByIndex(idx int) any {
	if idx < 0 || idx >= len(s.sortedIndices) {
		return nil
	}
	return s.rows[s.sortedIndices[idx]].data
}

// GetAllRows returns every live row, in sortedIndices order.
func (s *Store) GetAllRows() []any {
	out := make([]any, 0, len(s.sortedIndices))
	for _, idx := range s.sortedIndices {
		out = append(out, s.rows[idx].data)
	}
	return out
}

// GetTotalRowCount returns the number of live rows, irrespective of any
// filter.
func (s *Store) GetTotalRowCount() int {
	return len(s.sortedIndices)
}

// GetVisibleRowCount returns the number of rows passing the active
// filter model (all rows, if the filter model is empty).
func (s *Store) GetVisibleRowCount() int {
	if s.filterModel.Empty() {
		return len(s.sortedIndices)
	}
	return len(s.filteredIndices)
}

// GetSortModel returns the active sort model.
func (s *Store) GetSortModel() []sorting.Key {
	return s.sortModel
}

// GetFilterModel returns the active filter model.
func (s *Store) GetFilterModel() filter.Model {
	return s.filterModel
}

// clear drops all data and indexes, returning the store to its
// zero-row state (spec section 3, "Lifecycle").
func (s *Store) clear() {
	s.rows = nil
	s.rowByID = make(map[any]int)
	s.freeList = nil
	s.nextSeq = 0
	s.sortModel = nil
	s.sortHash = ""
	s.hashCache = nil
	s.singleString = false
	s.stringColumn = ""
	s.stringCache = nil
	s.stringNull = nil
	s.filterModel = nil
	s.sortedIndices = nil
	s.filteredIndices = nil
	s.distinctValues = make(map[string]map[string]gridcore.Value)
	s.trackedFields = make(map[string]bool)
}

// Clear drops all data and indexes.
func (s *Store) Clear() {
	s.clear()
}

func (s *Store) allocSlot() int {
	if n := len(s.freeList); n > 0 {
		idx := s.freeList[n-1]
		s.freeList = s.freeList[:n-1]
		return idx
	}
	s.rows = append(s.rows, nil)
	if s.hashCache != nil {
		s.hashCache = append(s.hashCache, nil)
	}
	if s.stringCache != nil {
		s.stringCache = append(s.stringCache, "")
		s.stringNull = append(s.stringNull, false)
	}
	return len(s.rows) - 1
}
