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

package datasource

import (
	"context"
	"sync"
	"time"

	"github.com/sneller-grid/gridcore"
	"github.com/sneller-grid/gridcore/store"
	"github.com/sneller-grid/gridcore/txn"
)

// StoreDataSource is the in-process MutableDataSource backed directly by
// an Indexed Data Store and a Transaction Manager (spec section 6,
// "in-memory, same-process implementation"). Every mutation goes through
// the transaction manager; every read goes straight to the store.
type StoreDataSource struct {
	store *store.Store
	txn   *txn.Manager

	mu        sync.Mutex
	listeners map[int]func()
	nextSubID int
	unsub     func()
}

// NewStoreDataSource builds a StoreDataSource over a fresh Store and
// Manager. throttleWindow mirrors the transaction manager's throttle
// window (spec section 4.3); zero means every mutation drains
// synchronously.
func NewStoreDataSource(initial []any, storeOpts store.Options, throttleWindow time.Duration) (*StoreDataSource, error) {
	s, err := store.New(initial, storeOpts)
	if err != nil {
		return nil, err
	}

	ds := &StoreDataSource{
		store:     s,
		listeners: make(map[int]func()),
	}
	ds.txn = txn.New(s, txn.Options{
		ThrottleWindow: throttleWindow,
		Logger:         storeOpts.Logger,
	})
	ds.unsub = ds.txn.Subscribe(func(txn.Result) { ds.notify() })
	return ds, nil
}

// Fetch runs one query against the store (spec section 4.1's
// query(request), exposed through the data source contract). Any
// transactions still queued or in flight are flushed first, so a fetch
// always sees every mutation enqueued before it was called (spec
// section 5, "fetch called while transactions are pending must first
// flush").
func (d *StoreDataSource) Fetch(ctx context.Context, req Request) (Response, error) {
	if d.txn.HasPendingTransactions() {
		if err := d.txn.Flush().WaitContext(ctx); err != nil {
			return Response{}, err
		}
	}
	res := d.store.Query(store.Request{
		Pagination: store.Pagination(req.Pagination),
		Sort:       req.Sort,
		Filter:     req.Filter,
	})
	return Response{Rows: res.Rows, TotalRows: res.TotalRows}, nil
}

// Subscribe registers listener to run after every transaction drain.
func (d *StoreDataSource) Subscribe(listener func()) (unsubscribe func()) {
	d.mu.Lock()
	id := d.nextSubID
	d.nextSubID++
	d.listeners[id] = listener
	d.mu.Unlock()
	return func() {
		d.mu.Lock()
		delete(d.listeners, id)
		d.mu.Unlock()
	}
}

func (d *StoreDataSource) notify() {
	d.mu.Lock()
	fns := make([]func(), 0, len(d.listeners))
	for _, fn := range d.listeners {
		fns = append(fns, fn)
	}
	d.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Destroy unsubscribes from the transaction manager.
func (d *StoreDataSource) Destroy() {
	if d.unsub != nil {
		d.unsub()
	}
}

func (d *StoreDataSource) AddRows(rows []any)   { d.txn.AddRows(rows) }
func (d *StoreDataSource) RemoveRows(ids []any) { d.txn.RemoveRows(ids) }

func (d *StoreDataSource) UpdateCell(id any, field string, value gridcore.Value) {
	d.txn.UpdateCell(id, field, value)
}

func (d *StoreDataSource) UpdateRow(id any, partial map[string]gridcore.Value) {
	d.txn.UpdateRow(id, partial)
}

// FlushTransactions forces an immediate drain and waits for it to
// complete or ctx to be cancelled.
func (d *StoreDataSource) FlushTransactions(ctx context.Context) error {
	return d.txn.Flush().WaitContext(ctx)
}

func (d *StoreDataSource) HasPendingTransactions() bool { return d.txn.HasPendingTransactions() }

func (d *StoreDataSource) GetDistinctValues(field string) []gridcore.Value {
	return d.store.GetDistinctValues(field)
}

func (d *StoreDataSource) GetRowById(id any) any { return d.store.GetRowById(id) }
func (d *StoreDataSource) GetTotalRowCount() int { return d.store.GetTotalRowCount() }
