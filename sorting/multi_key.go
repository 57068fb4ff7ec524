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

import "sort"

// permMulti sorts an index permutation by comparing each row's full
// hash vector across every sort key in priority order. No string
// fallback is applied here: ties across every key preserve the input
// (insertion) order, per spec section 4.2 ("multi-key sort").
type permMulti struct {
	vectors []HashVector
	indices []uint32
	dirs    []Direction
}

func (p *permMulti) Len() int { return len(p.indices) }

func (p *permMulti) Less(i, j int) bool {
	return CompareVectors(p.vectors[p.indices[i]], p.vectors[p.indices[j]], p.dirs) < 0
}

func (p *permMulti) Swap(i, j int) {
	p.indices[i], p.indices[j] = p.indices[j], p.indices[i]
}

// SortMulti sorts the identity permutation of vectors by dirs, in key
// priority order. vectors[i] must have len(dirs) entries.
func SortMulti(vectors []HashVector, dirs []Direction) []uint32 {
	indices := identity(len(vectors))
	sort.Stable(&permMulti{vectors: vectors, indices: indices, dirs: dirs})
	return indices
}
