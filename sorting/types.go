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

// Direction encodes a sort key's direction. Sign is the multiplier
// applied to a key comparison result (spec: "direction is applied by
// negating the per-key comparator result").
type Direction int8

const (
	Ascending  Direction = 1
	Descending Direction = -1
)

// Sign returns +1 for Ascending, -1 for Descending.
func (d Direction) Sign() int8 {
	if d == Descending {
		return -1
	}
	return 1
}

// Key describes one entry of a multi-key sort model: the column whose
// hash vector slot this is, and its direction. Nulls always sort last
// regardless of Direction (spec section 4.1), so there is no
// NullsFirst/NullsLast configuration to carry here.
type Key struct {
	ColumnID  string
	Direction Direction
}
