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

package filter

import (
	"strings"

	"github.com/sneller-grid/gridcore"
)

// Matches reports whether the value at each of model's columns (fetched
// via get) passes every column's filter. An empty model matches
// everything.
func Matches(model Model, get func(colID string) gridcore.Value) bool {
	for colID, cf := range model {
		if !matchesColumn(cf, get(colID)) {
			return false
		}
	}
	return true
}

// matchesColumn evaluates a single column's conditions left to right,
// combining adjacent results with the condition's NextOperator (falling
// back to the ColumnFilter's Combination when NextOperator is absent),
// per spec section 3.
func matchesColumn(cf ColumnFilter, v gridcore.Value) bool {
	if len(cf.Conditions) == 0 {
		return true
	}

	result := evalCondition(cf.Conditions[0], v)
	for i := 1; i < len(cf.Conditions); i++ {
		comb := cf.Combination
		if prev := cf.Conditions[i-1].NextOperator; prev != nil {
			comb = *prev
		}
		next := evalCondition(cf.Conditions[i], v)
		if comb == CombinatorOr {
			result = result || next
		} else {
			result = result && next
		}
	}
	return result
}

func evalCondition(c Condition, v gridcore.Value) bool {
	if c.Selected != nil {
		if _, ok := c.Selected[v.Key()]; !ok {
			return false
		}
	}

	switch c.Kind {
	case KindText:
		return evalText(c, v)
	case KindNumber:
		return evalNumber(c, v)
	case KindDate:
		return evalDate(c, v)
	default:
		return false
	}
}

func evalText(c Condition, v gridcore.Value) bool {
	s := strings.ToLower(v.AsString())
	target := strings.ToLower(c.Value.AsString())

	switch c.Op {
	case OpContains:
		return strings.Contains(s, target)
	case OpNotContains:
		return !strings.Contains(s, target)
	case OpEquals:
		return s == target
	case OpNotEquals:
		return s != target
	case OpStartsWith:
		return strings.HasPrefix(s, target)
	case OpEndsWith:
		return strings.HasSuffix(s, target)
	case OpBlank:
		return v.IsNull() || s == ""
	case OpNotBlank:
		return !v.IsNull() && s != ""
	default:
		return false
	}
}

func evalNumber(c Condition, v gridcore.Value) bool {
	if v.IsNull() {
		return c.Op == OpBlank
	}
	n := v.AsFloat()
	target := c.Value.AsFloat()

	switch c.Op {
	case OpEquals:
		return n == target
	case OpNotEquals:
		return n != target
	case OpLessThan:
		return n < target
	case OpLessThanOrEqual:
		return n <= target
	case OpGreaterThan:
		return n > target
	case OpGreaterThanOrEqual:
		return n >= target
	case OpBetween, OpInRange:
		lo, hi := target, c.SecondValue.AsFloat()
		if lo > hi {
			lo, hi = hi, lo
		}
		return n >= lo && n <= hi
	case OpBlank:
		return false
	case OpNotBlank:
		return true
	default:
		return false
	}
}

func evalDate(c Condition, v gridcore.Value) bool {
	if v.IsNull() {
		return c.Op == OpBlank
	}
	t := v.AsTime()
	target := c.Value.AsTime()

	switch c.Op {
	case OpEquals:
		return t.Equal(target)
	case OpNotEquals:
		return !t.Equal(target)
	case OpBefore, OpLessThan:
		return t.Before(target)
	case OpAfter, OpGreaterThan:
		return t.After(target)
	case OpLessThanOrEqual:
		return !t.After(target)
	case OpGreaterThanOrEqual:
		return !t.Before(target)
	case OpBetween, OpInRange:
		lo, hi := target, c.SecondValue.AsTime()
		if lo.After(hi) {
			lo, hi = hi, lo
		}
		return !t.Before(lo) && !t.After(hi)
	case OpBlank:
		return false
	case OpNotBlank:
		return true
	default:
		return false
	}
}
