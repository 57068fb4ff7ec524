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

package viewport

import "github.com/sneller-grid/gridcore/ints"

// CellDataType names how a column's values should be interpreted for
// editing and filtering (spec section 6, "Column definition").
type CellDataType int

const (
	CellText CellDataType = iota
	CellNumber
	CellBoolean
	CellDate
	CellDateString
	CellDateTime
	CellDateTimeString
	CellObject
)

// ColumnDef describes one grid column (spec section 6).
type ColumnDef struct {
	Field    string
	ColID    string // defaults to Field when empty
	DataType CellDataType

	Width    int
	MinWidth int
	MaxWidth int

	HeaderName string
	Sortable   bool
	Filterable bool
	Editable   bool
	Movable    bool
	Resizable  bool
	Hidden     bool
	Pinned     bool
}

// id returns ColID, defaulting to Field.
func (c ColumnDef) id() string {
	if c.ColID != "" {
		return c.ColID
	}
	return c.Field
}

// Position is one column's horizontal placement in the visible layout.
type Position struct {
	ColID         string
	OriginalIndex int // index into the full (including-hidden) column list
	Left          int
	Width         int
}

// Layout computes column positions (spec section 4.4, "Column
// positions"): a prefix-sum of widths over the visible (non-hidden)
// columns, proportionally scaled to fill availableWidth when the
// natural sum is smaller, honoring each column's min/max width.
// Hidden columns are skipped but every Position retains its
// OriginalIndex so a renderer can map visible <-> original indices.
func Layout(columns []ColumnDef, availableWidth int) []Position {
	type visible struct {
		col           ColumnDef
		originalIndex int
	}
	var vis []visible
	natural := 0
	for i, c := range columns {
		if c.Hidden {
			continue
		}
		vis = append(vis, visible{col: c, originalIndex: i})
		natural += c.Width
	}
	if len(vis) == 0 {
		return nil
	}

	scale := 1.0
	if natural > 0 && availableWidth > natural {
		scale = float64(availableWidth) / float64(natural)
	}

	out := make([]Position, len(vis))
	left := 0
	for i, v := range vis {
		w := v.col.Width
		if scale != 1.0 {
			w = int(float64(w) * scale)
		}
		if v.col.MinWidth > 0 {
			w = ints.Max(w, v.col.MinWidth)
		}
		if v.col.MaxWidth > 0 {
			w = ints.Min(w, v.col.MaxWidth)
		}
		out[i] = Position{ColID: v.col.id(), OriginalIndex: v.originalIndex, Left: left, Width: w}
		left += w
	}
	return out
}
