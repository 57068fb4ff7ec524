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

// Package field implements dotted-path traversal over opaque row records,
// the leaf dependency of the store and filter evaluator (spec section
// "dependency order: field accessor -> ... -> Indexed Data Store").
package field

import (
	"strings"
	"time"

	"github.com/sneller-grid/gridcore"
)

// Getter extracts the value at a dotted field path from a row record.
// A caller may supply its own Getter (e.g. reflection over a struct type)
// via Options.GetFieldValue; Default implements the documented traversal
// over map[string]any records.
type Getter func(row any, path string) gridcore.Value

// Default walks path component by component. At every step the current
// value must be a non-nil map, else the result is null. Arrays are
// opaque: traversal never descends into them.
func Default(row any, path string) gridcore.Value {
	cur := row
	parts := strings.Split(path, ".")
	for i, part := range parts {
		m, ok := cur.(map[string]any)
		if !ok {
			return gridcore.Null()
		}
		v, ok := m[part]
		if !ok {
			return gridcore.Null()
		}
		if i == len(parts)-1 {
			return wrap(v)
		}
		cur = v
	}
	return gridcore.Null()
}

// Set writes value at the dotted field path on row, walking intermediate
// maps the same way Default reads them. It does not create intermediate
// objects: every component but the last must already resolve to a
// map[string]any, else Set is a no-op and returns false. Used by the
// store's cell-update path (spec section 4.1, "Cell update").
func Set(row any, path string, value gridcore.Value) bool {
	m, ok := row.(map[string]any)
	if !ok {
		return false
	}
	parts := strings.Split(path, ".")
	for i, part := range parts {
		if i == len(parts)-1 {
			m[part] = unwrap(value)
			return true
		}
		next, ok := m[part].(map[string]any)
		if !ok {
			return false
		}
		m = next
	}
	return false
}

// unwrap converts a tagged Value back into the plain Go value wrap would
// have produced from it, so repeated read/write round-trips are stable.
func unwrap(v gridcore.Value) any {
	switch v.Kind() {
	case gridcore.KindNull:
		return nil
	case gridcore.KindBool:
		return v.AsBool()
	case gridcore.KindInt:
		return v.AsInt()
	case gridcore.KindFloat:
		return v.AsFloat()
	case gridcore.KindString:
		return v.AsString()
	case gridcore.KindTime:
		return v.AsTime()
	case gridcore.KindArray:
		return v.AsArray()
	default:
		return v.AsObject()
	}
}

// wrap converts a raw Go value produced by map traversal into a tagged
// Value. Arrays are carried as opaque Values (their elements are wrapped
// but never themselves traversed by further path lookups).
func wrap(v any) gridcore.Value {
	switch x := v.(type) {
	case nil:
		return gridcore.Null()
	case gridcore.Value:
		return x
	case bool:
		return gridcore.BoolValue(x)
	case int:
		return gridcore.IntValue(int64(x))
	case int64:
		return gridcore.IntValue(x)
	case float64:
		return gridcore.FloatValue(x)
	case float32:
		return gridcore.FloatValue(float64(x))
	case string:
		return gridcore.StringValue(x)
	case time.Time:
		return gridcore.TimeValue(x)
	case []any:
		vs := make([]gridcore.Value, len(x))
		for i, e := range x {
			vs[i] = wrap(e)
		}
		return gridcore.ArrayValue(vs)
	case []gridcore.Value:
		return gridcore.ArrayValue(x)
	case map[string]any:
		return gridcore.ObjectValue(x)
	default:
		return gridcore.ObjectValue(x)
	}
}
