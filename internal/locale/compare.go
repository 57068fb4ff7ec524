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

// Package locale provides the single locale-aware string comparison used
// throughout the sort engine's collision-fallback and direct-comparison
// paths (spec section 4.1, "locale-aware compare"). The teacher never
// needed this concern (Ion sorting compares raw bytes); x/text/collate
// is the standard ecosystem library for it and is used here directly
// rather than hand-rolling a Unicode collation order.
package locale

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var collator = collate.New(language.Und)

// Compare returns a negative number, zero, or a positive number as a is
// less than, equal to, or greater than b under locale-aware collation.
func Compare(a, b string) int {
	return collator.CompareString(a, b)
}
