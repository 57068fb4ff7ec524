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

package sorting

import (
	"github.com/sneller-grid/gridcore/sorting/heap"
)

// Ktop keeps the limit smallest rows seen so far, ordered by dirs, so a
// caller never has to materialize more than limit rows (spec section
// 4.2, "bounded top-k"). Neither Parallel nor the store's sort paths use
// it; it is a standalone collector.
type Ktop struct {
	// indirect is a heap ordering over rowIdx/vectors; indices into
	// those slices are reordered instead of the (larger) row data.
	indirect []int
	rowIdx   []uint32
	vectors  []HashVector

	dirs  []Direction
	limit int
}

// NewKtop constructs a Ktop bounded to limit entries, ordered by dirs.
func NewKtop(limit int, dirs []Direction) *Ktop {
	return &Ktop{
		dirs:  dirs,
		limit: limit,
	}
}

// Add tries to add rowIndex/vec to the collection.
//
// Returns true if the row was kept (either there was still room, or it
// displaced the current greatest entry).
func (k *Ktop) Add(rowIndex uint32, vec HashVector) bool {
	if len(k.rowIdx) < k.limit {
		n := len(k.rowIdx)
		k.rowIdx = append(k.rowIdx, rowIndex)
		k.vectors = append(k.vectors, vec)
		heap.PushSlice(&k.indirect, n, k.greater)
		return true
	}

	// new row less than the current greatest -> overwrite it and fix
	// the heap to restore the ordering invariant
	top := k.indirect[0]
	if CompareVectors(vec, k.vectors[top], k.dirs) < 0 {
		k.rowIdx[top] = rowIndex
		k.vectors[top] = vec
		heap.FixSlice(k.indirect, 0, k.greater)
		return true
	}

	return false
}

// Full returns true if there are as many entries in the heap as limit.
func (k *Ktop) Full() bool {
	return len(k.indirect) == k.limit
}

// Capture returns the row indices in sorted order (per dirs) and resets
// the collection.
func (k *Ktop) Capture() []uint32 {
	result := make([]uint32, len(k.indirect))
	i := len(k.indirect) - 1
	for len(k.indirect) > 0 {
		pos := heap.PopSlice(&k.indirect, k.greater)
		result[i] = k.rowIdx[pos]
		i--
	}
	k.rowIdx = nil
	k.vectors = nil
	return result
}

// greater reports whether row li sorts after row ri under dirs, which is
// the max-heap ordering Ktop needs so the root is always the row that
// would be evicted first.
func (k *Ktop) greater(li, ri int) bool {
	return CompareVectors(k.vectors[li], k.vectors[ri], k.dirs) > 0
}
