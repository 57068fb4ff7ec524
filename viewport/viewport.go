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

// Package viewport implements the Viewport / Slot Pool: the
// virtual-scroll kernel that maps a scroll position and viewport size to
// a small recycled pool of row slots, emitting a minimal, declarative
// instruction stream and compressing scroll coordinates for datasets
// whose natural pixel height would exceed platform scroll limits (spec
// section 4.4).
package viewport

import (
	"math"

	"github.com/sneller-grid/gridcore/ints"
)

// RowProvider resolves a live row index to its current data snapshot,
// the same contract the Indexed Data Store exposes through
// GetRowByIndex.
type RowProvider interface {
	RowAt(rowIndex int) any
}

// Options configures a new Viewport.
type Options struct {
	RowHeight    float64
	HeaderHeight float64
	Overscan     int
}

// Viewport is the Viewport / Slot Pool.
type Viewport struct {
	rowHeight    float64
	headerHeight float64
	overscan     int

	scrollTop      float64 // reported, i.e. virtual/compressed coordinates
	scrollLeft     float64
	viewportWidth  float64
	viewportHeight float64
	totalRows      int

	contentW, contentH float64
	scrollRatio        float64

	firstVisible, lastVisible int

	pool    *SlotPool
	emitter *Emitter
}

// New constructs a Viewport with no rows and a zero-size viewport; the
// first SetViewportSize/SetTotalRows call establishes real state.
func New(opts Options) *Viewport {
	v := &Viewport{
		rowHeight:    opts.RowHeight,
		headerHeight: opts.HeaderHeight,
		overscan:     opts.Overscan,
		scrollRatio:  1,
		lastVisible:  -1,
		pool:         NewSlotPool(),
		emitter:      NewEmitter(),
	}
	return v
}

// SubscribeBatch registers a batch instruction listener.
func (v *Viewport) SubscribeBatch(fn func([]Instruction)) func() { return v.emitter.SubscribeBatch(fn) }

// Subscribe registers a single-instruction listener.
func (v *Viewport) Subscribe(fn func(Instruction)) func() { return v.emitter.Subscribe(fn) }

// SlotCount returns the number of live slots, for Testable Property 6
// ("slot-pool minimality").
func (v *Viewport) SlotCount() int { return v.pool.Len() }

// VisibleRange returns the current [firstVisible, lastVisible] window.
func (v *Viewport) VisibleRange() (first, last int) { return v.firstVisible, v.lastVisible }

// ContentSize returns the published (possibly compressed) content
// width/height and the active scroll ratio.
func (v *Viewport) ContentSize() (width, height, scrollRatio float64) {
	return v.contentW, v.contentH, v.scrollRatio
}

// SetTotalRows updates the row count (a data refresh) and re-syncs.
func (v *Viewport) SetTotalRows(n int, rows RowProvider) {
	v.totalRows = n
	v.recompute(rows)
}

// SetViewportSize updates the visible pixel dimensions and re-syncs.
func (v *Viewport) SetViewportSize(width, height float64, rows RowProvider) {
	v.viewportWidth = width
	v.viewportHeight = height
	v.recompute(rows)
}

// SetScroll updates the reported (virtual-coordinate) scroll position
// and re-syncs.
func (v *Viewport) SetScroll(top, left float64, rows RowProvider) {
	v.scrollTop = top
	v.scrollLeft = left
	v.recompute(rows)
}

// Refresh re-syncs against the current state without changing any
// dimension, e.g. after a transaction drain that mutated row data in
// place without changing totalRows.
func (v *Viewport) Refresh(rows RowProvider) { v.recompute(rows) }

// visibleWindow implements spec section 4.4's literal firstVisible /
// lastVisible formulas.
func visibleWindow(scrollTop, viewportHeight, rowHeight float64, overscan, totalRows int) (first, last int) {
	if totalRows <= 0 || rowHeight <= 0 {
		return 0, -1
	}
	first = ints.Max(int(math.Floor(scrollTop/rowHeight))-overscan, 0)
	last = ints.Min(int(math.Ceil((scrollTop+viewportHeight)/rowHeight))+overscan, totalRows-1)
	return first, last
}

// recompute is the single entry point for every state-changing method:
// it updates content size, the visible window, and the slot pool, in
// that order, emitting exactly the instructions that changed anything
// (spec section 9: "state-based diffing produces empty instruction sets
// for redundant calls").
func (v *Viewport) recompute(rows RowProvider) {
	var batch []Instruction

	newH, newRatio := contentHeight(v.totalRows, v.rowHeight, v.headerHeight)
	if newH != v.contentH || v.viewportWidth != v.contentW {
		v.contentH = newH
		v.scrollRatio = newRatio
		v.contentW = v.viewportWidth
		batch = append(batch, Instruction{Kind: SetContentSize, Width: v.contentW, Height: v.contentH})
	}

	effTop := effectiveScrollTop(v.scrollTop, v.scrollRatio)
	first, last := visibleWindow(effTop, v.viewportHeight, v.rowHeight, v.overscan, v.totalRows)
	if first != v.firstVisible || last != v.lastVisible {
		v.firstVisible, v.lastVisible = first, last
		batch = append(batch, Instruction{Kind: UpdateVisibleRange, Start: first, End: last})
	}

	required := make([]int, 0, last-first+1)
	for idx := first; idx <= last; idx++ {
		required = append(required, idx)
	}

	slotInstrs := v.pool.Sync(required,
		func(idx int) any { return rows.RowAt(idx) },
		func(idx int) float64 {
			return translateY(idx, v.rowHeight, v.headerHeight, effTop, v.scrollRatio)
		},
	)
	batch = append(batch, slotInstrs...)

	v.emitter.Emit(batch)
}
