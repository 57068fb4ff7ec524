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
	"github.com/sneller-grid/gridcore"
	"github.com/sneller-grid/gridcore/internal/locale"
	"github.com/sneller-grid/gridcore/internal/sorthash"
)

// HashVector is one row's precomputed hash key per sort key, in the same
// order as the sort model's Keys. It is the row's entry in the store's
// rowSortCache (spec section 3).
type HashVector []float64

// EncodeValue produces the hashable key for v (spec section 4.2). Null
// becomes the sentinel above any real value so it always sorts last.
func EncodeValue(v gridcore.Value) float64 {
	switch v.Kind() {
	case gridcore.KindNull:
		return sorthash.Sentinel
	case gridcore.KindBool:
		if v.AsBool() {
			return 1
		}
		return 0
	case gridcore.KindInt, gridcore.KindFloat:
		return sorthash.EncodeNumber(v.AsFloat())
	case gridcore.KindString:
		return sorthash.Key1(v.AsString())
	case gridcore.KindTime:
		return sorthash.EncodeTimestamp(v.AsTime())
	case gridcore.KindArray:
		return sorthash.Key1(v.String())
	default:
		return sorthash.EncodeNumber(0)
	}
}

// BuildVector computes the hash vector for a row given its values in
// sort-key order.
func BuildVector(values []gridcore.Value) HashVector {
	hv := make(HashVector, len(values))
	for i, v := range values {
		hv[i] = EncodeValue(v)
	}
	return hv
}

// CompareVectors compares two rows' hash vectors over the given
// directions, stopping at the first non-equal key. Direction is applied
// by negating the per-key comparator result, except when one side is
// the null sentinel: nulls always sort last regardless of direction, so
// a sentinel is never subject to the sign flip.
func CompareVectors(a, b HashVector, dirs []Direction) int {
	for i := range dirs {
		if i >= len(a) || i >= len(b) {
			break
		}
		aNull := a[i] == sorthash.Sentinel
		bNull := b[i] == sorthash.Sentinel
		switch {
		case aNull && bNull:
			continue
		case aNull:
			return 1
		case bNull:
			return -1
		}
		if a[i] < b[i] {
			return -int(dirs[i].Sign())
		}
		if a[i] > b[i] {
			return int(dirs[i].Sign())
		}
	}
	return 0
}

// CompareValues is the direct, hash-free comparison of two values (spec
// section 4.1, "sort comparator"). The store does not call it: its
// comparators always read the precomputed hash cache. Its rules are:
//
//   - both null => equal
//   - one null => non-null is smaller (null sorts last regardless of direction)
//   - both arrays => compare their comma-joined sorted string renderings, locale-aware
//   - both numeric-coercible => numeric subtraction
//   - both timestamps => instant comparison
//   - otherwise => locale-aware string comparison
//
// The result is pre-direction (as if comparing ascending); callers apply
// Direction.Sign() themselves, mirroring CompareVectors.
func CompareValues(a, b gridcore.Value) int {
	aNull, bNull := a.IsNull(), b.IsNull()
	switch {
	case aNull && bNull:
		return 0
	case aNull:
		return 1
	case bNull:
		return -1
	}

	if a.Kind() == gridcore.KindArray && b.Kind() == gridcore.KindArray {
		return locale.Compare(a.String(), b.String())
	}
	if a.NumericCoercible() && b.NumericCoercible() {
		switch d := a.AsFloat() - b.AsFloat(); {
		case d < 0:
			return -1
		case d > 0:
			return 1
		default:
			return 0
		}
	}
	if a.Kind() == gridcore.KindTime && b.Kind() == gridcore.KindTime {
		switch {
		case a.AsTime().Before(b.AsTime()):
			return -1
		case a.AsTime().After(b.AsTime()):
			return 1
		default:
			return 0
		}
	}
	return locale.Compare(a.String(), b.String())
}
