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

import "github.com/sneller-grid/gridcore/internal/filter"

// Kind tags one Instruction (spec section 4.4, "Instructions
// (declarative)"). The engine never mutates the UI directly; it emits a
// totally-ordered stream of these.
type Kind string

const (
	CreateSlot         Kind = "CREATE_SLOT"
	DestroySlot        Kind = "DESTROY_SLOT"
	AssignSlot         Kind = "ASSIGN_SLOT"
	MoveSlot           Kind = "MOVE_SLOT"
	SetActiveCell      Kind = "SET_ACTIVE_CELL"
	SetSelectionRange  Kind = "SET_SELECTION_RANGE"
	UpdateVisibleRange Kind = "UPDATE_VISIBLE_RANGE"
	SetContentSize     Kind = "SET_CONTENT_SIZE"
	UpdateHeader       Kind = "UPDATE_HEADER"
	StartEdit          Kind = "START_EDIT"
	StopEdit           Kind = "STOP_EDIT"
	CommitEdit         Kind = "COMMIT_EDIT"
	StartFill          Kind = "START_FILL"
	UpdateFill         Kind = "UPDATE_FILL"
	CommitFill         Kind = "COMMIT_FILL"
	CancelFill         Kind = "CANCEL_FILL"
	OpenFilterPopup    Kind = "OPEN_FILTER_POPUP"
	CloseFilterPopup   Kind = "CLOSE_FILTER_POPUP"
	DataLoading        Kind = "DATA_LOADING"
	DataLoaded         Kind = "DATA_LOADED"
	DataError          Kind = "DATA_ERROR"
	RowsAdded          Kind = "ROWS_ADDED"
	RowsRemoved        Kind = "ROWS_REMOVED"
	RowsUpdated        Kind = "ROWS_UPDATED"
	TransactionProcessed Kind = "TRANSACTION_PROCESSED"
)

// CellPosition names one cell by row index and column id.
type CellPosition struct {
	RowIndex int
	ColID    string
}

// SelectionRange names a rectangular cell range.
type SelectionRange struct {
	StartRow, EndRow int
	StartCol, EndCol string
}

// Anchor is the screen rectangle a popup should be positioned against.
type Anchor struct {
	X, Y, Width, Height float64
}

// Instruction is one self-contained, declarative UI command. Only the
// fields relevant to Kind are populated; the rest are left zero.
type Instruction struct {
	Kind Kind

	// CREATE_SLOT, DESTROY_SLOT, ASSIGN_SLOT, MOVE_SLOT
	SlotID     int
	RowIndex   int
	RowData    any
	TranslateY float64

	// SET_ACTIVE_CELL
	ActiveCell *CellPosition

	// SET_SELECTION_RANGE
	Selection *SelectionRange

	// UPDATE_VISIBLE_RANGE
	Start, End int

	// SET_CONTENT_SIZE
	Width, Height float64

	// UPDATE_HEADER
	ColIndex   int
	Column     *ColumnDef
	SortDir    int8
	SortActive bool
	Filter     *filter.ColumnFilter

	// START_EDIT / STOP_EDIT / COMMIT_EDIT
	ColID    string
	OldValue any
	NewValue any

	// START_FILL / UPDATE_FILL / COMMIT_FILL / CANCEL_FILL
	SourceRange *SelectionRange
	FillRange   *SelectionRange
	FilledCells map[string]any

	// OPEN_FILTER_POPUP / CLOSE_FILTER_POPUP
	PopupColumn   *ColumnDef
	PopupAnchor   Anchor
	DistinctValues []any
	CurrentFilter *filter.ColumnFilter

	// DATA_LOADING / DATA_LOADED / DATA_ERROR
	Total   int
	Message string

	// ROWS_ADDED / ROWS_REMOVED / ROWS_UPDATED / TRANSACTION_PROCESSED
	Added, Removed, Updated int
}

// Emitter fans a batch of instructions out to subscribers: batch
// listeners receive the whole slice, single-instruction listeners
// receive each element in the batch's order (spec section 4.4, step 6).
type Emitter struct {
	batchListeners  map[int]func([]Instruction)
	singleListeners map[int]func(Instruction)
	nextID          int
}

// NewEmitter constructs an empty Emitter.
func NewEmitter() *Emitter {
	return &Emitter{
		batchListeners:  make(map[int]func([]Instruction)),
		singleListeners: make(map[int]func(Instruction)),
	}
}

// SubscribeBatch registers fn to receive every emitted instruction
// batch, returning a function that removes the registration.
func (e *Emitter) SubscribeBatch(fn func([]Instruction)) (unsubscribe func()) {
	id := e.nextID
	e.nextID++
	e.batchListeners[id] = fn
	return func() { delete(e.batchListeners, id) }
}

// Subscribe registers fn to receive every instruction individually, in
// batch order, returning a function that removes the registration.
func (e *Emitter) Subscribe(fn func(Instruction)) (unsubscribe func()) {
	id := e.nextID
	e.nextID++
	e.singleListeners[id] = fn
	return func() { delete(e.singleListeners, id) }
}

// Emit delivers batch to every batch listener, then replays its
// elements in order to every single-instruction listener. An empty
// batch is not delivered (spec section 9, "a superseded viewport
// setViewport is implicit because state-based diffing produces empty
// instruction sets for redundant calls").
func (e *Emitter) Emit(batch []Instruction) {
	if len(batch) == 0 {
		return
	}
	for _, fn := range e.batchListeners {
		fn(batch)
	}
	for _, instr := range batch {
		for _, fn := range e.singleListeners {
			fn(instr)
		}
	}
}
