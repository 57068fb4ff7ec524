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
	"sort"
	"testing"
)

func TestKtopAscendingKeepsSmallest(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	const n = 500
	const limit = 10

	k := NewKtop(limit, []Direction{Ascending})
	values := make(map[uint32]float64, n)
	for i := uint32(0); i < n; i++ {
		v := rng.Float64() * 1000
		values[i] = v
		k.Add(i, HashVector{v})
	}
	if !k.Full() {
		t.Fatal("expected Ktop to be full after n >= limit adds")
	}

	result := k.Capture()
	if len(result) != limit {
		t.Fatalf("expected %d results, got %d", limit, len(result))
	}

	all := make([]float64, 0, n)
	for _, v := range values {
		all = append(all, v)
	}
	sort.Float64s(all)
	want := all[:limit]

	for i, idx := range result {
		if values[idx] != want[i] {
			t.Fatalf("position %d: got %v, want %v", i, values[idx], want[i])
		}
	}
}

func TestKtopDescendingKeepsLargest(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	const n = 300
	const limit = 5

	k := NewKtop(limit, []Direction{Descending})
	values := make(map[uint32]float64, n)
	for i := uint32(0); i < n; i++ {
		v := rng.Float64() * 1000
		values[i] = v
		k.Add(i, HashVector{v})
	}

	result := k.Capture()
	all := make([]float64, 0, n)
	for _, v := range values {
		all = append(all, v)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(all)))
	want := all[:limit]

	for i, idx := range result {
		if values[idx] != want[i] {
			t.Fatalf("position %d: got %v, want %v", i, values[idx], want[i])
		}
	}
}

func TestKtopBelowLimitReturnsAll(t *testing.T) {
	k := NewKtop(10, []Direction{Ascending})
	for i := uint32(0); i < 3; i++ {
		k.Add(i, HashVector{float64(3 - i)})
	}
	if k.Full() {
		t.Fatal("expected Ktop to not be full with fewer adds than limit")
	}
	result := k.Capture()
	if len(result) != 3 {
		t.Fatalf("expected 3 results, got %d", len(result))
	}
	if result[0] != 2 || result[1] != 1 || result[2] != 0 {
		t.Fatalf("unexpected order: %v", result)
	}
}
