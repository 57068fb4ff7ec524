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
	"sort"

	"github.com/sneller-grid/gridcore/internal/locale"
	"github.com/sneller-grid/gridcore/internal/sorthash"
)

// CollisionPair names two row indices whose three-chunk hash keys tied
// on every chunk and therefore required the locale-aware string
// fallback to order correctly (spec section 4.2, "collision pairs").
// This is also the wire shape used across the worker-pool boundary for
// boundary-adjacent shard collisions (spec section 6).
type CollisionPair struct {
	A, B uint32
}

// StringSortResult is the outcome of a single-key string sort.
type StringSortResult struct {
	Permutation []uint32
	Collisions  []CollisionPair
}

// chunkRows is the per-row three-chunk hash key plus a null flag, built
// once per string-sort call.
type chunkRows struct {
	chunks [][3]float64
	null   []bool
	values []string
}

func buildChunkRows(values []string, isNull []bool) chunkRows {
	cr := chunkRows{
		chunks: make([][3]float64, len(values)),
		null:   isNull,
		values: values,
	}
	for i, s := range values {
		if isNull != nil && isNull[i] {
			cr.chunks[i] = [3]float64{sorthash.Sentinel, sorthash.Sentinel, sorthash.Sentinel}
			continue
		}
		cr.chunks[i] = sorthash.ChunkedKey(s)
	}
	return cr
}

type permChunks struct {
	rows    chunkRows
	indices []uint32
	sign    int8
}

func (p *permChunks) Len() int { return len(p.indices) }

func (p *permChunks) isNull(i int) bool {
	return p.rows.null != nil && p.rows.null[p.indices[i]]
}

func (p *permChunks) Less(i, j int) bool {
	aNull, bNull := p.isNull(i), p.isNull(j)
	switch {
	case aNull && bNull:
		return false
	case aNull:
		return false
	case bNull:
		return true
	}
	a := p.rows.chunks[p.indices[i]]
	b := p.rows.chunks[p.indices[j]]
	for k := 0; k < 3; k++ {
		if a[k] == b[k] {
			continue
		}
		if p.sign < 0 {
			return a[k] > b[k]
		}
		return a[k] < b[k]
	}
	return false
}

func (p *permChunks) Swap(i, j int) {
	p.indices[i], p.indices[j] = p.indices[j], p.indices[i]
}

func (p *permChunks) tripleEqual(i, j int) bool {
	if p.isNull(i) || p.isNull(j) {
		return false
	}
	a := p.rows.chunks[p.indices[i]]
	b := p.rows.chunks[p.indices[j]]
	return a == b
}

// SortSingleString builds the three chunked key arrays, sorts the
// permutation lexicographically over them, then resolves every maximal
// run of all-three-chunks-equal indices with a locale-aware fallback
// compare on the original strings (spec section 4.2, "single-key string
// sort"). isNull may be nil if no row is null.
func SortSingleString(values []string, isNull []bool, dir Direction) StringSortResult {
	rows := buildChunkRows(values, isNull)
	indices := identity(len(values))
	p := &permChunks{rows: rows, indices: indices, sign: dir.Sign()}
	sort.Stable(p)

	var collisions []CollisionPair
	n := len(indices)
	for start := 0; start < n; {
		end := start + 1
		for end < n && p.tripleEqual(end-1, end) {
			end++
		}
		if end-start > 1 {
			for i := start; i < end; i++ {
				for j := i + 1; j < end; j++ {
					collisions = append(collisions, CollisionPair{A: indices[i], B: indices[j]})
				}
			}
			resolveCollisionRun(values, indices[start:end], dir)
		}
		start = end
	}

	return StringSortResult{Permutation: indices, Collisions: collisions}
}

// resolveCollisionRun re-sorts a contiguous run of colliding indices by
// locale-aware comparison of their original strings, honoring dir.
func resolveCollisionRun(values []string, run []uint32, dir Direction) {
	sign := dir.Sign()
	sort.SliceStable(run, func(i, j int) bool {
		c := locale.Compare(values[run[i]], values[run[j]])
		if sign < 0 {
			return c > 0
		}
		return c < 0
	})
}
