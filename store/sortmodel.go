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
	"strconv"
	"strings"

	"github.com/sneller-grid/gridcore"
	"github.com/sneller-grid/gridcore/internal/locale"
	"github.com/sneller-grid/gridcore/internal/sorthash"
	"github.com/sneller-grid/gridcore/sorting"
)

// SetSortModel installs model. If its stringified hash matches the
// current one the call is a no-op (spec section 4.1, "Sort model change
// protocol" and Testable Property 3, "idempotent sort"). Otherwise the
// comparison cache is rebuilt for every row and sortedIndices is fully
// re-sorted.
func (s *Store) SetSortModel(model []sorting.Key) {
	hash := hashSortModel(model)
	if hash == s.sortHash {
		return
	}
	s.sortModel = model
	s.sortHash = hash
	s.detectSingleStringSort()
	if s.singleString {
		s.rebuildStringCache()
	} else {
		s.rebuildHashCache()
	}
	s.rebuildSortedIndices()
}

func hashSortModel(model []sorting.Key) string {
	var b strings.Builder
	for i, k := range model {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(k.ColumnID)
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(int(k.Direction)))
	}
	return b.String()
}

func dirsOf(model []sorting.Key) []sorting.Direction {
	dirs := make([]sorting.Direction, len(model))
	for i, k := range model {
		dirs[i] = k.Direction
	}
	return dirs
}

// sortValues fetches one row's field values in sort-key order.
func (s *Store) sortValues(row any) []gridcore.Value {
	values := make([]gridcore.Value, len(s.sortModel))
	for i, k := range s.sortModel {
		values[i] = s.getField(row, k.ColumnID)
	}
	return values
}

// detectSingleStringSort decides whether the active sort model is a
// single key over string-valued data, in which case the chunked-hash
// plus locale-fallback algorithm applies instead of the generic hash
// vector (spec section 4.2, "single-key string sort" vs. "multi-key
// sort"). A single string column is identified by sampling the first
// live row; an empty store or a non-string sample falls back to the
// hash-vector path, which is also exactly right for single-key numeric
// and timestamp sorts.
func (s *Store) detectSingleStringSort() {
	s.singleString = false
	s.stringColumn = ""
	if len(s.sortModel) != 1 {
		return
	}
	col := s.sortModel[0].ColumnID
	for _, r := range s.rows {
		if r == nil || r.tombstone {
			continue
		}
		if s.getField(r.data, col).Kind() == gridcore.KindString {
			s.singleString = true
			s.stringColumn = col
		}
		return
	}
}

// rebuildHashCache recomputes the hash vector for every live row against
// the current sort model. A nil model clears the cache entirely; there
// is nothing to accelerate comparisons against.
func (s *Store) rebuildHashCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stringCache = nil
	s.stringNull = nil
	if len(s.sortModel) == 0 {
		s.hashCache = nil
		return
	}
	s.hashCache = make([]sorting.HashVector, len(s.rows))
	for idx, r := range s.rows {
		if r == nil || r.tombstone {
			continue
		}
		s.hashCache[idx] = sorting.BuildVector(s.sortValues(r.data))
	}
}

// rebuildStringCache fills stringCache/stringNull for the single-key
// string sort path, in place of rebuildHashCache.
func (s *Store) rebuildStringCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hashCache = nil
	s.stringCache = make([]string, len(s.rows))
	s.stringNull = make([]bool, len(s.rows))
	for idx, r := range s.rows {
		if r == nil || r.tombstone {
			continue
		}
		v := s.getField(r.data, s.stringColumn)
		if v.IsNull() {
			s.stringNull[idx] = true
			continue
		}
		s.stringCache[idx] = v.AsString()
	}
}

// cacheRowForSort fills idx's entry in whichever comparison cache the
// active sort model uses. Called on insert and on update of a field
// that participates in the sort; a no-op if no sort model is active.
func (s *Store) cacheRowForSort(idx int, row any) {
	if len(s.sortModel) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.singleString {
		v := s.getField(row, s.stringColumn)
		if v.IsNull() {
			s.stringNull[idx] = true
			s.stringCache[idx] = ""
		} else {
			s.stringNull[idx] = false
			s.stringCache[idx] = v.AsString()
		}
		return
	}
	s.hashCache[idx] = sorting.BuildVector(s.sortValues(row))
}

// liveIndicesBySeq returns every live storage index, ordered by
// insertion sequence. This is the base permutation handed to the sort
// engine: since the engine's sorts are stable, ties after comparison
// preserve this insertion order (Testable Property 2).
func (s *Store) liveIndicesBySeq() []int {
	live := make([]int, 0, len(s.rows))
	for idx, r := range s.rows {
		if r != nil && !r.tombstone {
			live = append(live, idx)
		}
	}
	sort.Slice(live, func(i, j int) bool {
		return s.rows[live[i]].seq < s.rows[live[j]].seq
	})
	return live
}

// rebuildSortedIndices fully re-sorts sortedIndices using the sort
// engine (spec section 4.2), dispatching to the single-key string path,
// the parallel worker pool above parallelThreshold, or the stable
// multi-key sort.
func (s *Store) rebuildSortedIndices() {
	base := s.liveIndicesBySeq()
	if len(s.sortModel) == 0 {
		s.sortedIndices = base
		return
	}

	if s.singleString {
		values := make([]string, len(base))
		isNull := make([]bool, len(base))
		for i, idx := range base {
			values[i] = s.stringCache[idx]
			isNull[i] = s.stringNull[idx]
		}
		result := sorting.SortSingleString(values, isNull, s.sortModel[0].Direction)
		sortedIndices := make([]int, len(result.Permutation))
		for i, p := range result.Permutation {
			sortedIndices[i] = base[p]
		}
		s.sortedIndices = sortedIndices
		return
	}

	vectors := make([]sorting.HashVector, len(base))
	for i, idx := range base {
		vectors[i] = s.hashCache[idx]
	}
	dirs := dirsOf(s.sortModel)

	var perm []uint32
	if s.parallelThreshold >= 0 && len(base) > s.parallelThreshold {
		perm = sorting.Parallel(vectors, dirs, s.workers)
	} else {
		perm = sorting.SortMulti(vectors, dirs)
	}

	sortedIndices := make([]int, len(perm))
	for i, p := range perm {
		sortedIndices[i] = base[p]
	}
	s.sortedIndices = sortedIndices
}

// compareRows defines the total order sortedIndices is maintained
// under: the single-key string comparator when singleString is active,
// otherwise precomputed hash vectors per the active sort model. Either
// way, ties (and the no-sort-model case) fall back to insertion
// sequence.
func (s *Store) compareRows(i, j int) int {
	if s.singleString {
		return s.compareSingleString(i, j)
	}
	if len(s.sortModel) > 0 {
		if c := sorting.CompareVectors(s.hashCache[i], s.hashCache[j], dirsOf(s.sortModel)); c != 0 {
			return c
		}
	}
	return s.compareSeq(i, j)
}

// compareSingleString mirrors sorting.SortSingleString's comparator:
// chunked-hash triple first, then a locale-aware fallback on the
// original strings for any pair that ties on every chunk (spec section
// 4.2, "collision pairs"). Nulls always sort last regardless of
// direction.
func (s *Store) compareSingleString(i, j int) int {
	aNull, bNull := s.stringNull[i], s.stringNull[j]
	sign := int(s.sortModel[0].Direction.Sign())
	switch {
	case aNull && bNull:
		return s.compareSeq(i, j)
	case aNull:
		return 1
	case bNull:
		return -1
	}

	a := sorthash.ChunkedKey(s.stringCache[i])
	b := sorthash.ChunkedKey(s.stringCache[j])
	for k := 0; k < 3; k++ {
		if a[k] == b[k] {
			continue
		}
		if a[k] < b[k] {
			return -sign
		}
		return sign
	}

	if c := locale.Compare(s.stringCache[i], s.stringCache[j]); c != 0 {
		if sign < 0 {
			return -c
		}
		return c
	}
	return s.compareSeq(i, j)
}

func (s *Store) compareSeq(i, j int) int {
	switch {
	case s.rows[i].seq < s.rows[j].seq:
		return -1
	case s.rows[i].seq > s.rows[j].seq:
		return 1
	default:
		return 0
	}
}

// sortedInsert binary-searches sortedIndices for idx's position under
// compareRows and splices it in (spec section 4.1, "Incremental
// insert").
func (s *Store) sortedInsert(idx int) {
	pos := sort.Search(len(s.sortedIndices), func(i int) bool {
		return s.compareRows(s.sortedIndices[i], idx) >= 0
	})
	s.sortedIndices = append(s.sortedIndices, 0)
	copy(s.sortedIndices[pos+1:], s.sortedIndices[pos:])
	s.sortedIndices[pos] = idx
}

// sortedRemove removes idx from sortedIndices (spec section 4.1,
// "Incremental removal").
func (s *Store) sortedRemove(idx int) {
	pos := sort.Search(len(s.sortedIndices), func(i int) bool {
		return s.compareRows(s.sortedIndices[i], idx) >= 0
	})
	for pos < len(s.sortedIndices) && s.sortedIndices[pos] != idx {
		pos++
	}
	if pos >= len(s.sortedIndices) {
		return
	}
	s.sortedIndices = append(s.sortedIndices[:pos], s.sortedIndices[pos+1:]...)
}
