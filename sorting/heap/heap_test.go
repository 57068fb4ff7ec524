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

package heap

import (
	"math/rand"
	"sort"
	"testing"
)

func TestHeapPushPop(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	x := make([]int, 0, 1000)
	less := func(a, b int) bool { return a < b }
	for len(x) < cap(x) {
		PushSlice(&x, rng.Int(), less)
	}

	sorted := make([]int, 0, len(x))
	for len(x) > 0 {
		sorted = append(sorted, PopSlice(&x, less))
	}
	if !sort.IntsAreSorted(sorted) {
		t.Fatal("heap did not produce a sorted sequence")
	}
}

func TestHeapFixSlice(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	x := make([]int, 0, 200)
	less := func(a, b int) bool { return a < b }
	for len(x) < cap(x) {
		PushSlice(&x, rng.Int(), less)
	}

	x[len(x)/2] = -1
	FixSlice(x, len(x)/2, less)

	sorted := make([]int, 0, len(x))
	for len(x) > 0 {
		sorted = append(sorted, PopSlice(&x, less))
	}
	if !sort.IntsAreSorted(sorted) {
		t.Fatal("heap did not produce a sorted sequence after FixSlice")
	}
}

func TestOrderSlice(t *testing.T) {
	x := []int{5, 3, 8, 1, 9, 2}
	less := func(a, b int) bool { return a < b }
	OrderSlice(x, less)
	if x[0] != 1 {
		t.Fatalf("expected smallest element at root, got %d", x[0])
	}
}
