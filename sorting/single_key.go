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

	"github.com/sneller-grid/gridcore/internal/sorthash"
)

// permFloat64 sorts an index permutation by parallel key values. Nulls
// (sorthash.Sentinel) always sort last, regardless of sign, which is
// why direction can't be implemented by simply flipping Less (a blind
// reversal would move the sentinel to the front on a descending sort).
type permFloat64 struct {
	keys    []float64
	indices []uint32
	sign    int8
}

func (s *permFloat64) Len() int { return len(s.indices) }

func (s *permFloat64) Less(i, j int) bool {
	a, b := s.keys[s.indices[i]], s.keys[s.indices[j]]
	switch {
	case a == sorthash.Sentinel && b == sorthash.Sentinel:
		return false
	case a == sorthash.Sentinel:
		return false
	case b == sorthash.Sentinel:
		return true
	case s.sign < 0:
		return a > b
	default:
		return a < b
	}
}

func (s *permFloat64) Swap(i, j int) {
	s.indices[i], s.indices[j] = s.indices[j], s.indices[i]
}

// SortSingleNumeric builds a dense hash array's identity permutation and
// sorts it with a stable comparator, per spec section 4.2 ("single-key
// numeric sort"). Ties fall back to insertion order because sort.Stable
// preserves the relative order of indices whose Less reports neither
// side smaller.
func SortSingleNumeric(keys []float64, dir Direction) []uint32 {
	indices := identity(len(keys))
	sort.Stable(&permFloat64{keys: keys, indices: indices, sign: dir.Sign()})
	return indices
}

func identity(n int) []uint32 {
	idx := make([]uint32, n)
	for i := range idx {
		idx[i] = uint32(i)
	}
	return idx
}
