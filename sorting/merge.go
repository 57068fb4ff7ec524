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

import "github.com/sneller-grid/gridcore/sorting/heap"

// mergeCursor is one shard's position in its own sorted permutation; the
// k-way merge keeps one of these per shard in a min-heap keyed by the
// row currently at the cursor's head (spec section 4.2: "a k-way merge
// (min-heap of per-shard heads)").
type mergeCursor struct {
	shard int
	pos   int
	row   uint32
}

// mergeShards merges already-sorted per-shard permutations (each a
// slice of global row indices, in shard-local sorted order) into one
// globally-sorted permutation, using vectors/dirs to compare heads.
// Ties between shards preserve the lower shard index first, which in
// turn preserves original row order for equal keys since shardBounds
// assigns rows to shards in increasing index order (stability, spec
// testable property 2).
func mergeShards(vectors []HashVector, dirs []Direction, shards [][]uint32) []uint32 {
	total := 0
	for _, s := range shards {
		total += len(s)
	}
	result := make([]uint32, 0, total)

	less := func(a, b mergeCursor) bool {
		c := CompareVectors(vectors[a.row], vectors[b.row], dirs)
		if c != 0 {
			return c < 0
		}
		return a.shard < b.shard
	}

	var cursors []mergeCursor
	for i, s := range shards {
		if len(s) == 0 {
			continue
		}
		heap.PushSlice(&cursors, mergeCursor{shard: i, pos: 0, row: s[0]}, less)
	}

	for len(cursors) > 0 {
		top := heap.PopSlice(&cursors, less)
		result = append(result, top.row)

		next := top.pos + 1
		if next < len(shards[top.shard]) {
			heap.PushSlice(&cursors, mergeCursor{shard: top.shard, pos: next, row: shards[top.shard][next]}, less)
		}
	}

	return result
}
