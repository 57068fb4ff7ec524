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
	"math/rand"
	"testing"
)

func TestParallelMatchesSortMulti(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	const n = 2000
	vectors := make([]HashVector, n)
	for i := range vectors {
		vectors[i] = HashVector{float64(rng.Intn(50)), rng.Float64()}
	}
	dirs := []Direction{Ascending, Descending}

	want := SortMulti(append([]HashVector(nil), vectors...), dirs)
	got := Parallel(vectors, dirs, 4)

	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		cmp := CompareVectors(vectors[got[i]], vectors[want[i]], dirs)
		if cmp != 0 {
			t.Fatalf("position %d: rows differ by key order (cmp=%d)", i, cmp)
		}
	}
}

func TestParallelSingleThread(t *testing.T) {
	vectors := []HashVector{{3}, {1}, {2}}
	dirs := []Direction{Ascending}
	got := Parallel(vectors, dirs, 1)
	want := []uint32{1, 2, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestParallelEmpty(t *testing.T) {
	if got := Parallel(nil, []Direction{Ascending}, 4); got != nil {
		t.Fatalf("expected nil for empty input, got %v", got)
	}
}

func TestShardBoundsNonEmpty(t *testing.T) {
	bounds := shardBounds(10, 4)
	for i := 0; i < len(bounds)-1; i++ {
		if bounds[i+1] <= bounds[i] {
			t.Fatalf("shard %d is empty: %v", i, bounds)
		}
	}
	if bounds[len(bounds)-1] != 10 {
		t.Fatalf("bounds do not cover full range: %v", bounds)
	}
}
