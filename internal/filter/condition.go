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

// Package filter implements the column filter model (spec section 3,
// "Filter model") and its left-to-right, per-condition evaluation
// (spec section 3, "ColumnFilter").
package filter

import "github.com/sneller-grid/gridcore"

// Kind tags which condition family a Condition belongs to.
type Kind int

const (
	KindText Kind = iota
	KindNumber
	KindDate
)

// Operator is a condition's comparison operator. Not every operator is
// valid for every Kind; the evaluator treats an operator/kind mismatch
// as "condition never matches" rather than erroring (tolerant of
// data-shape variance, per spec section 7).
type Operator int

const (
	OpContains Operator = iota
	OpNotContains
	OpEquals
	OpNotEquals
	OpStartsWith
	OpEndsWith
	OpBlank
	OpNotBlank
	OpLessThan
	OpLessThanOrEqual
	OpGreaterThan
	OpGreaterThanOrEqual
	OpInRange
	OpBetween
	OpBefore
	OpAfter
)

// Combinator joins two conditions or a condition and a ColumnFilter's
// default combination.
type Combinator int

const (
	CombinatorAnd Combinator = iota
	CombinatorOr
)

// Condition is a single predicate within a ColumnFilter.
type Condition struct {
	Kind Kind
	Op   Operator

	Value      gridcore.Value
	SecondValue gridcore.Value // only meaningful for Between/InRange

	// Selected, when non-nil, restricts matches to this set of values
	// (checkbox-style filtering), keyed by gridcore.Value.Key() since
	// Value itself is not map-key comparable. When set it is evaluated
	// in addition to Op/Value via logical AND, layering a coarse
	// allow-list filter under a fine-grained operator filter.
	Selected map[string]struct{}

	// NextOperator combines this condition with the following sibling
	// in the ColumnFilter.Conditions slice. It is only read when there
	// is a following sibling; the ColumnFilter's own Combination is used
	// as the default when this is not set (spec section 3).
	NextOperator *Combinator
}

// ColumnFilter is the filter configuration for a single column.
type ColumnFilter struct {
	Conditions  []Condition
	Combination Combinator
}

// Model maps columnId -> ColumnFilter. An empty (nil or zero-length)
// model means "all rows pass" and need not be materialized as a
// filtered-index set (spec section 3).
type Model map[string]ColumnFilter

// Empty reports whether m has no active column filters.
func (m Model) Empty() bool {
	return len(m) == 0
}
