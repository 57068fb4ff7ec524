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

import "sort"

// SlotState is one recyclable rendering seat (spec section 3, "Viewport
// slot"). Slot identity is stable across row reassignment.
type SlotState struct {
	ID         int
	RowIndex   int
	RowData    any
	TranslateY float64
}

// SlotPool owns the live slot set and the rowIndex -> slotID reverse
// map. Slot ids are a monotonic counter and are never reused once
// destroyed (spec section 4.4, "Invariants").
type SlotPool struct {
	slots  map[int]*SlotState
	byRow  map[int]int
	nextID int
}

// NewSlotPool constructs an empty pool.
func NewSlotPool() *SlotPool {
	return &SlotPool{slots: make(map[int]*SlotState), byRow: make(map[int]int)}
}

// Len returns the number of live slots.
func (p *SlotPool) Len() int { return len(p.slots) }

// Slot returns the slot assigned to rowIndex, or nil if none.
func (p *SlotPool) Slot(rowIndex int) *SlotState {
	id, ok := p.byRow[rowIndex]
	if !ok {
		return nil
	}
	return p.slots[id]
}

// Sync runs the slot synchronization algorithm (spec section 4.4,
// "Slot synchronization algorithm", steps 1-5; step 6, instruction
// delivery, is the caller's Emitter). rowData and rowTranslateY
// resolve a required row index to its current snapshot and vertical
// position respectively.
func (p *SlotPool) Sync(required []int, rowData func(rowIndex int) any, rowTranslateY func(rowIndex int) float64) []Instruction {
	need := make(map[int]bool, len(required))
	for _, idx := range required {
		need[idx] = true
	}

	var kept, recycle []*SlotState
	for _, s := range p.slots {
		if need[s.RowIndex] {
			kept = append(kept, s)
			delete(need, s.RowIndex)
		} else {
			recycle = append(recycle, s)
		}
	}
	sort.Slice(recycle, func(i, j int) bool { return recycle[i].ID < recycle[j].ID })

	missing := make([]int, 0, len(need))
	for idx := range need {
		missing = append(missing, idx)
	}
	sort.Ints(missing)

	var out []Instruction
	ri := 0
	for _, idx := range missing {
		ty := rowTranslateY(idx)
		data := rowData(idx)
		if ri < len(recycle) {
			s := recycle[ri]
			ri++
			delete(p.byRow, s.RowIndex)
			s.RowIndex, s.RowData, s.TranslateY = idx, data, ty
			p.byRow[idx] = s.ID
			out = append(out,
				Instruction{Kind: AssignSlot, SlotID: s.ID, RowIndex: idx, RowData: data},
				Instruction{Kind: MoveSlot, SlotID: s.ID, TranslateY: ty},
			)
			continue
		}
		s := &SlotState{ID: p.nextID, RowIndex: idx, RowData: data, TranslateY: ty}
		p.nextID++
		p.slots[s.ID] = s
		p.byRow[idx] = s.ID
		out = append(out,
			Instruction{Kind: CreateSlot, SlotID: s.ID},
			Instruction{Kind: AssignSlot, SlotID: s.ID, RowIndex: idx, RowData: data},
			Instruction{Kind: MoveSlot, SlotID: s.ID, TranslateY: ty},
		)
	}

	for ; ri < len(recycle); ri++ {
		s := recycle[ri]
		delete(p.slots, s.ID)
		delete(p.byRow, s.RowIndex)
		out = append(out, Instruction{Kind: DestroySlot, SlotID: s.ID})
	}

	for _, s := range kept {
		ty := rowTranslateY(s.RowIndex)
		if ty != s.TranslateY {
			s.TranslateY = ty
			out = append(out, Instruction{Kind: MoveSlot, SlotID: s.ID, TranslateY: ty})
		}
	}

	return out
}
