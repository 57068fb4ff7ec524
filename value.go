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

// Package gridcore implements a headless, framework-agnostic data grid
// engine: an indexed in-memory row store, a hash-accelerated sort engine,
// a throttled transaction manager, and a virtual-scroll viewport kernel.
package gridcore

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Kind tags the concrete type carried by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindTime
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindTime:
		return "time"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a tagged cell value. Exactly one of the typed fields is
// meaningful, selected by kind; reading the wrong accessor returns the
// zero value rather than panicking (the engine tolerates data-shape
// variance, it never panics on it).
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	t    time.Time
	arr  []Value
	obj  any
}

func Null() Value                { return Value{kind: KindNull} }
func BoolValue(b bool) Value     { return Value{kind: KindBool, b: b} }
func IntValue(i int64) Value     { return Value{kind: KindInt, i: i} }
func FloatValue(f float64) Value { return Value{kind: KindFloat, f: f} }
func StringValue(s string) Value { return Value{kind: KindString, s: s} }
func TimeValue(t time.Time) Value {
	return Value{kind: KindTime, t: t}
}
func ArrayValue(vs []Value) Value { return Value{kind: KindArray, arr: vs} }
func ObjectValue(v any) Value     { return Value{kind: KindObject, obj: v} }

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) AsBool() bool {
	if v.kind != KindBool {
		return false
	}
	return v.b
}

func (v Value) AsInt() int64 {
	if v.kind != KindInt {
		return 0
	}
	return v.i
}

func (v Value) AsFloat() float64 {
	switch v.kind {
	case KindFloat:
		return v.f
	case KindInt:
		return float64(v.i)
	default:
		return 0
	}
}

func (v Value) AsString() string {
	if v.kind != KindString {
		return ""
	}
	return v.s
}

func (v Value) AsTime() time.Time {
	if v.kind != KindTime {
		return time.Time{}
	}
	return v.t
}

func (v Value) AsArray() []Value {
	if v.kind != KindArray {
		return nil
	}
	return v.arr
}

func (v Value) AsObject() any {
	if v.kind != KindObject {
		return nil
	}
	return v.obj
}

// NumericCoercible reports whether v can be treated as a number for sort
// and comparison purposes.
func (v Value) NumericCoercible() bool {
	return v.kind == KindInt || v.kind == KindFloat
}

// joinedString renders an array as a comma-joined, element-sorted string,
// used by the sort comparator's array fallback path (spec section 4.1).
func (v Value) joinedString() string {
	if v.kind != KindArray {
		return ""
	}
	parts := make([]string, len(v.arr))
	for i, e := range v.arr {
		parts[i] = e.renderString()
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

func (v Value) renderString() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindBool:
		return fmt.Sprintf("%v", v.b)
	case KindInt:
		return fmt.Sprintf("%d", v.i)
	case KindFloat:
		return fmt.Sprintf("%v", v.f)
	case KindString:
		return v.s
	case KindTime:
		return v.t.Format(time.RFC3339Nano)
	case KindArray:
		return v.joinedString()
	default:
		return fmt.Sprintf("%v", v.obj)
	}
}

// String implements fmt.Stringer for debugging and test failure output.
func (v Value) String() string {
	return v.renderString()
}

// Key returns a canonical, comparable identity for v suitable for use as
// a map key (distinct-value sets, checkbox-filter selections). Value
// itself is not comparable because of its array field, so callers that
// need set/map semantics key on Key() and keep the Value alongside it.
func (v Value) Key() string {
	if v.kind == KindNull {
		return "n:"
	}
	return v.kind.String() + ":" + v.renderString()
}
