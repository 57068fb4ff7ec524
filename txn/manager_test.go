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

package txn

import (
	"sync"
	"testing"
	"time"

	"github.com/sneller-grid/gridcore"
)

// fakeApplier is a minimal Applier recording calls in order, used so
// tests can assert on ordering and failure without a real store.
type fakeApplier struct {
	mu      sync.Mutex
	adds    []any
	removes []any
	updates []string // "id.field=value" in application order
	failOn  string   // field name that triggers a panic from UpdateCell
}

func (f *fakeApplier) AddRows(rows []any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.adds = append(f.adds, rows...)
}

func (f *fakeApplier) RemoveRows(ids []any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removes = append(f.removes, ids...)
}

func (f *fakeApplier) UpdateCell(id any, field string, value gridcore.Value) {
	if field == f.failOn {
		panic("boom")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, field)
}

func TestSynchronousThrottleDrainsImmediately(t *testing.T) {
	app := &fakeApplier{}
	m := New(app, Options{})
	f := m.AddRows([]any{map[string]any{"id": 1}})
	if err := f.Wait(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(app.adds) != 1 {
		t.Fatalf("adds = %d, want 1", len(app.adds))
	}
}

// TestThrottleCoalescing implements scenario S6: many updates enqueued
// inside one throttle window drain exactly once.
func TestThrottleCoalescing(t *testing.T) {
	app := &fakeApplier{}
	var results []Result
	var mu sync.Mutex
	m := New(app, Options{ThrottleWindow: 50 * time.Millisecond})
	m.OnResult(func(r Result) {
		mu.Lock()
		results = append(results, r)
		mu.Unlock()
	})

	var futures []*Future
	for i := 0; i < 200; i++ {
		futures = append(futures, m.UpdateCell(1, "x", gridcore.IntValue(int64(i))))
	}
	for _, f := range futures {
		if err := f.Wait(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if len(results) != 1 {
		t.Fatalf("drains = %d, want 1", len(results))
	}
	if results[0].Updated != 200 {
		t.Fatalf("updated = %d, want 200", results[0].Updated)
	}
}

func TestUpdateRowExpandsToPerFieldUpdateCell(t *testing.T) {
	app := &fakeApplier{}
	m := New(app, Options{})
	f := m.UpdateRow(1, map[string]gridcore.Value{
		"name": gridcore.StringValue("Alice"),
		"age":  gridcore.IntValue(30),
	})
	if err := f.Wait(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(app.updates) != 2 {
		t.Fatalf("updates = %d, want 2", len(app.updates))
	}
}

// TestDrainHaltsAtFailureAndPreservesRemaining implements spec section
// 4.3's failure policy: the drain stops at the failing op, and
// everything from that point on (including the failing op itself)
// stays queued for a subsequent attempt.
func TestDrainHaltsAtFailureAndPreservesRemaining(t *testing.T) {
	app := &fakeApplier{failOn: "bad"}
	m := New(app, Options{})

	f1 := m.UpdateCell(1, "good", gridcore.IntValue(1))
	if err := f1.Wait(); err != nil {
		t.Fatalf("unexpected error on first update: %v", err)
	}

	m.mu.Lock()
	m.pending = append(m.pending,
		mutation{kind: kindUpdateCell, id: 1, field: "bad", value: gridcore.IntValue(2)},
		mutation{kind: kindUpdateCell, id: 1, field: "after", value: gridcore.IntValue(3)},
	)
	m.mu.Unlock()

	f2 := m.Flush()
	err := f2.Wait()
	if err == nil {
		t.Fatal("expected an error from the halted drain")
	}
	txErr, ok := err.(*gridcore.TransactionError)
	if !ok {
		t.Fatalf("error type = %T, want *gridcore.TransactionError", err)
	}
	if txErr.Op != "updateCell" {
		t.Fatalf("failed op = %q, want updateCell", txErr.Op)
	}

	if !m.HasPendingTransactions() {
		t.Fatal("expected the failing op and its successor to remain queued")
	}
	m.mu.Lock()
	pendingCount := len(m.pending)
	m.mu.Unlock()
	if pendingCount != 2 {
		t.Fatalf("pending = %d, want 2 (the failing op plus \"after\")", pendingCount)
	}

	app.failOn = ""
	f3 := m.Flush()
	if err := f3.Wait(); err != nil {
		t.Fatalf("retry should succeed once the failure condition clears: %v", err)
	}
	if len(app.updates) != 3 {
		t.Fatalf("updates = %v, want 3 entries", app.updates)
	}
}
