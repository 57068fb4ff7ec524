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

// Package sorthash implements the hashable key encoding used to
// accelerate sort comparisons (spec section 4.2). Strings are packed
// into monotonic base-36 integers over fixed-width character windows;
// numbers and timestamps pass through (nearly) unchanged; null becomes a
// sentinel above any real value so nulls always sort last.
package sorthash

import (
	"math"
	"strings"
	"time"
)

// ChunkLen is the number of characters packed into a single chunk. Ten
// characters of base-36 digits fit below the 2^53 safe-integer boundary
// (36^10 ~= 3.66e15).
const ChunkLen = 10

// Sentinel is the hash assigned to null, placing it after every real
// value regardless of sort direction. It sits comfortably above the
// largest possible chunk value (36^10) and is exactly 2^53.
const Sentinel = float64(1 << 53)

// charCode maps a single rune to its base-36 digit. a-z -> 0-25,
// 0-9 -> 26-35, everything else (including padding) -> 0.
func charCode(r rune) int64 {
	switch {
	case r >= 'a' && r <= 'z':
		return int64(r - 'a')
	case r >= '0' && r <= '9':
		return 26 + int64(r-'0')
	default:
		return 0
	}
}

// packChunk packs up to ChunkLen runes of runes[start:] into a single
// monotonic base-36 integer. Missing positions (string shorter than the
// window) are treated as the zero-mapped character, which is exactly
// what makes "a" sort before "ab": the padded tail of "a" is all zeros,
// and "ab"'s second digit is non-zero.
func packChunk(runes []rune, start int) float64 {
	var v int64
	for i := 0; i < ChunkLen; i++ {
		var code int64
		if idx := start + i; idx < len(runes) {
			code = charCode(runes[idx])
		}
		v = v*36 + code
	}
	return float64(v)
}

// Key1 returns the hash of the first ChunkLen characters of s, used as
// the single sort key for strings participating in a multi-key sort
// (spec: "multi-key sort ... no string fallback is applied").
func Key1(s string) float64 {
	runes := []rune(strings.ToLower(s))
	return packChunk(runes, 0)
}

// ChunkedKey splits s into three consecutive ChunkLen-rune windows (30
// characters total) for the single-key string sort path. Because the
// windows are right-padded with zero-mapped characters even when the
// source string is shorter than 30 characters, any two strings that are
// identical in their first 30 characters always produce an all-equal
// chunk triple, which SortSingleString (string_key.go) treats as a collision requiring
// fallback locale compare.
func ChunkedKey(s string) [3]float64 {
	runes := []rune(strings.ToLower(s))
	var out [3]float64
	for i := 0; i < 3; i++ {
		out[i] = packChunk(runes, i*ChunkLen)
	}
	return out
}

// EncodeNumber passes a finite number through unchanged; non-finite
// values (NaN, +-Inf) collapse to 0 since the sort engine has no
// defined total order for them beyond "not crashing".
func EncodeNumber(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// EncodeTimestamp converts t to its epoch-millisecond representation.
func EncodeTimestamp(t time.Time) float64 {
	return float64(t.UnixMilli())
}
