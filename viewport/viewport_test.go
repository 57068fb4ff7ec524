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

import "testing"

type fakeRows struct{ n int }

func (f fakeRows) RowAt(idx int) any { return idx }

// TestSlotPoolMinimality implements Testable Property 6: after a sync,
// the live slot count equals the number of required rows, and every
// translateY is exactly rowIndex*rowHeight+headerHeight in natural
// (unvirtualized) coordinates.
func TestSlotPoolMinimality(t *testing.T) {
	v := New(Options{RowHeight: 30, HeaderHeight: 10, Overscan: 2})
	rows := fakeRows{n: 1000}
	v.SetTotalRows(1000, rows)
	v.SetViewportSize(400, 300, rows)

	first, last := v.VisibleRange()
	want := last - first + 1
	if got := v.SlotCount(); got != want {
		t.Fatalf("slot count = %d, want %d (required rows)", got, want)
	}

	for idx := first; idx <= last; idx++ {
		s := v.pool.Slot(idx)
		if s == nil {
			t.Fatalf("no slot assigned to required row %d", idx)
		}
		want := float64(idx)*30 + 10
		if s.TranslateY != want {
			t.Fatalf("row %d translateY = %v, want %v", idx, s.TranslateY, want)
		}
	}
}

// TestSlotPoolRecyclesOnScroll verifies scrolling doesn't grow the slot
// pool beyond the required window and reassigns rather than leaking ids.
func TestSlotPoolRecyclesOnScroll(t *testing.T) {
	v := New(Options{RowHeight: 30, HeaderHeight: 0, Overscan: 0})
	rows := fakeRows{n: 1000}
	v.SetTotalRows(1000, rows)
	v.SetViewportSize(300, 90, rows) // 3 visible rows

	before := v.SlotCount()
	v.SetScroll(3000, 0, rows) // scroll down 100 rows
	after := v.SlotCount()

	if before != after {
		t.Fatalf("slot count changed across scroll: %d -> %d", before, after)
	}
	first, _ := v.VisibleRange()
	if first != 100 {
		t.Fatalf("firstVisible = %d, want 100", first)
	}
}

// TestVirtualScrollBounds implements Testable Property 7 and scenario
// S5: at extreme dataset size, every emitted translateY stays within
// [0, publishedHeight], and the visible range reaches the last row.
func TestVirtualScrollBounds(t *testing.T) {
	v := New(Options{RowHeight: 32, HeaderHeight: 40, Overscan: 5})
	rows := fakeRows{n: 500_000}
	v.SetTotalRows(500_000, rows)
	v.SetViewportSize(800, 600, rows)

	_, publishedHeight, ratio := v.ContentSize()
	if publishedHeight != MaxScrollableHeight {
		t.Fatalf("published height = %v, want %v", publishedHeight, MaxScrollableHeight)
	}
	if ratio >= 1 {
		t.Fatalf("expected scrollRatio < 1 for a 500k-row dataset, got %v", ratio)
	}

	v.SetScroll(9_999_400, 0, rows)

	_, last := v.VisibleRange()
	if last != 499_999 {
		t.Fatalf("lastVisible = %d, want 499999 (last row)", last)
	}

	for _, s := range v.pool.slots {
		if s.TranslateY < 0 || s.TranslateY > MaxScrollableHeight {
			t.Fatalf("slot %d translateY = %v out of [0, %v]", s.ID, s.TranslateY, MaxScrollableHeight)
		}
	}
}

func TestRedundantCallEmitsNoInstructions(t *testing.T) {
	v := New(Options{RowHeight: 30, HeaderHeight: 0, Overscan: 0})
	rows := fakeRows{n: 100}
	v.SetTotalRows(100, rows)
	v.SetViewportSize(300, 90, rows)

	var batches int
	v.SubscribeBatch(func(b []Instruction) { batches++ })
	v.Refresh(rows) // nothing changed
	if batches != 0 {
		t.Fatalf("redundant refresh emitted %d batches, want 0", batches)
	}
}

func TestColumnLayoutProportionalScaling(t *testing.T) {
	cols := []ColumnDef{
		{Field: "a", Width: 100},
		{Field: "b", Width: 100, Hidden: true},
		{Field: "c", Width: 200, MaxWidth: 250},
	}
	positions := Layout(cols, 600) // natural visible sum = 300, scale 2x
	if len(positions) != 2 {
		t.Fatalf("positions = %d, want 2 (hidden column excluded)", len(positions))
	}
	if positions[0].OriginalIndex != 0 || positions[1].OriginalIndex != 2 {
		t.Fatalf("original indices = %v, %v, want 0, 2", positions[0].OriginalIndex, positions[1].OriginalIndex)
	}
	if positions[1].Width != 250 {
		t.Fatalf("scaled+clamped width = %d, want 250 (MaxWidth)", positions[1].Width)
	}
}
