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
	"context"

	"github.com/sneller-grid/gridcore"
)

// kind tags one queued mutation.
type kind int8

const (
	kindAdd kind = iota
	kindRemove
	kindUpdateCell
)

// mutation is a single row-level operation, the unit the queue is
// ordered by. updateRow is expanded into one mutation per field at
// enqueue time (spec section 4.3, "updateRow expands to one updateCell
// per field"), so two mutations touching the same row within a drain
// are naturally ordered and the later one wins.
type mutation struct {
	kind  kind
	row   any           // kindAdd
	id    any           // kindRemove, kindUpdateCell
	field string        // kindUpdateCell
	value gridcore.Value // kindUpdateCell
}

func (m mutation) name() string {
	switch m.kind {
	case kindAdd:
		return "add"
	case kindRemove:
		return "remove"
	case kindUpdateCell:
		return "updateCell"
	default:
		return "unknown"
	}
}

// Future is the queue's promise/future for a pending drain. Concurrent
// flush callers share a single Future (spec section 4.3, "Concurrent
// callers share a single promise").
type Future struct {
	done chan struct{}
	err  error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

func (f *Future) resolve(err error) {
	f.err = err
	close(f.done)
}

// Wait blocks until the drain this future represents has completed,
// returning the TransactionError (if any) that halted it.
func (f *Future) Wait() error {
	<-f.done
	return f.err
}

// WaitContext blocks until the drain completes or ctx is done, whichever
// comes first.
func (f *Future) WaitContext(ctx context.Context) error {
	select {
	case <-f.done:
		return f.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
