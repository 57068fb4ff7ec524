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

// Package txn implements the Transaction Manager: a throttled queue that
// batches row mutations and applies them to the Indexed Data Store in
// enqueue order, double-buffering pending and in-flight work the way
// the teacher's db.QueueRunner gathers and runs batches (spec section
// 4.3).
package txn

import (
	"fmt"
	"sync"
	"time"

	"github.com/sneller-grid/gridcore"
)

// Applier is the subset of *store.Store the manager drives. Its method
// shapes match store.Store exactly, so a *store.Store satisfies Applier
// with no adapter.
type Applier interface {
	AddRows(rows []any)
	RemoveRows(ids []any)
	UpdateCell(id any, field string, value gridcore.Value)
}

// Result reports what a completed drain did (spec section 4.3,
// "Post-drain notification").
type Result struct {
	Added   int
	Removed int
	Updated int
}

// Options configures a new Manager.
type Options struct {
	// ThrottleWindow is the minimum delay between drains. Zero means
	// synchronous: every enqueue drains immediately (spec section 4.3).
	ThrottleWindow time.Duration

	// Logger receives a message whenever a drain halts on a failing
	// operation. Defaults to gridcore.DefaultLogger().
	Logger gridcore.Logger
}

// Manager is the Transaction Manager.
type Manager struct {
	store  Applier
	window time.Duration
	logger gridcore.Logger

	mu      sync.Mutex
	pending []mutation
	timer   *time.Timer
	inFlush *Future

	subMu       sync.Mutex
	onResult    func(Result)
	subscribers map[int]func(Result)
	nextSubID   int
}

// New constructs a Manager draining into store.
func New(store Applier, opts Options) *Manager {
	return &Manager{
		store:       store,
		window:      opts.ThrottleWindow,
		logger:      logOrDefault(opts.Logger),
		subscribers: make(map[int]func(Result)),
	}
}

func logOrDefault(l gridcore.Logger) gridcore.Logger {
	if l == nil {
		return gridcore.DefaultLogger()
	}
	return l
}

// OnResult registers the single callback notified after every drain,
// replacing any previous registration.
func (m *Manager) OnResult(fn func(Result)) {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	m.onResult = fn
}

// Subscribe registers fn to be notified after every drain and returns a
// function that removes the registration.
func (m *Manager) Subscribe(fn func(Result)) (unsubscribe func()) {
	m.subMu.Lock()
	id := m.nextSubID
	m.nextSubID++
	m.subscribers[id] = fn
	m.subMu.Unlock()
	return func() {
		m.subMu.Lock()
		delete(m.subscribers, id)
		m.subMu.Unlock()
	}
}

// AddRows enqueues one add mutation per row.
func (m *Manager) AddRows(rows []any) *Future {
	muts := make([]mutation, len(rows))
	for i, r := range rows {
		muts[i] = mutation{kind: kindAdd, row: r}
	}
	return m.enqueue(muts)
}

// RemoveRows enqueues one remove mutation per id.
func (m *Manager) RemoveRows(ids []any) *Future {
	muts := make([]mutation, len(ids))
	for i, id := range ids {
		muts[i] = mutation{kind: kindRemove, id: id}
	}
	return m.enqueue(muts)
}

// UpdateCell enqueues a single cell update.
func (m *Manager) UpdateCell(id any, field string, value gridcore.Value) *Future {
	return m.enqueue([]mutation{{kind: kindUpdateCell, id: id, field: field, value: value}})
}

// UpdateRow expands partial into one updateCell mutation per field and
// enqueues all of them (spec section 4.3, "Ordering").
func (m *Manager) UpdateRow(id any, partial map[string]gridcore.Value) *Future {
	muts := make([]mutation, 0, len(partial))
	for field, value := range partial {
		muts = append(muts, mutation{kind: kindUpdateCell, id: id, field: field, value: value})
	}
	return m.enqueue(muts)
}

// HasPendingTransactions reports whether any mutation is queued or a
// drain is currently in flight.
func (m *Manager) HasPendingTransactions() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending) > 0
}

// enqueue appends muts to the pending queue. A zero throttle window
// drains synchronously on the caller's goroutine; otherwise a timer is
// armed (if one isn't already) and subsequent enqueues join the
// already-scheduled drain rather than resetting it (spec section 4.3,
// "throttle, not debounce").
func (m *Manager) enqueue(muts []mutation) *Future {
	m.mu.Lock()
	m.pending = append(m.pending, muts...)
	if m.inFlush == nil {
		m.inFlush = newFuture()
	}
	f := m.inFlush

	if m.window <= 0 {
		m.mu.Unlock()
		m.drain()
		return f
	}
	if m.timer == nil {
		m.timer = time.AfterFunc(m.window, m.drain)
	}
	m.mu.Unlock()
	return f
}

// Flush cancels any pending timer and drains immediately, returning the
// future that resolves when that drain completes (spec section 4.3,
// "Flush").
func (m *Manager) Flush() *Future {
	m.mu.Lock()
	if m.inFlush == nil {
		m.inFlush = newFuture()
	}
	f := m.inFlush
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.mu.Unlock()
	m.drain()
	return f
}

// drain applies every pending mutation in enqueue order. On failure it
// halts, leaving the failing mutation and everything after it at the
// head of the queue for a subsequent attempt (spec section 4.3,
// "Failure").
func (m *Manager) drain() {
	m.mu.Lock()
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	ops := m.pending
	m.pending = nil
	f := m.inFlush
	m.inFlush = nil
	m.mu.Unlock()

	if len(ops) == 0 {
		if f != nil {
			f.resolve(nil)
		}
		return
	}

	result, err, halted, remaining := m.apply(ops)
	if halted {
		m.mu.Lock()
		m.pending = append(remaining, m.pending...)
		m.mu.Unlock()
		m.logger.Printf("txn: drain halted: %s", err)
	}

	m.notify(result)
	if f != nil {
		f.resolve(err)
	}
}

// apply runs ops against the store, stopping at the first panic (the Go
// analogue of the source engine's mid-drain exception: a caller-supplied
// getRowId or accessor misbehaving on malformed row data). On halt it
// reports the operation that failed plus every operation from that
// point on, unapplied.
func (m *Manager) apply(ops []mutation) (result Result, err error, halted bool, remaining []mutation) {
	for i, op := range ops {
		if applyErr := m.applyOne(op, &result); applyErr != nil {
			return result, &gridcore.TransactionError{Op: op.name(), Err: applyErr}, true, ops[i:]
		}
	}
	return result, nil, false, nil
}

func (m *Manager) applyOne(op mutation, result *Result) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	switch op.kind {
	case kindAdd:
		m.store.AddRows([]any{op.row})
		result.Added++
	case kindRemove:
		m.store.RemoveRows([]any{op.id})
		result.Removed++
	case kindUpdateCell:
		m.store.UpdateCell(op.id, op.field, op.value)
		result.Updated++
	}
	return nil
}

func (m *Manager) notify(result Result) {
	m.subMu.Lock()
	onResult := m.onResult
	subs := make([]func(Result), 0, len(m.subscribers))
	for _, fn := range m.subscribers {
		subs = append(subs, fn)
	}
	m.subMu.Unlock()

	if onResult != nil {
		onResult(result)
	}
	for _, fn := range subs {
		fn(result)
	}
}
