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
	"time"

	"github.com/sneller-grid/gridcore"
	"github.com/sneller-grid/gridcore/store"
)

// Fetcher performs a single Request/Response round trip. A RemoteDataSource
// never opens a connection itself; the caller supplies this function,
// following the teacher's tenant/tnproto convention of separating a
// request/response wire shape from its transport (SPEC_FULL.md section 6:
// network transport is an explicit non-goal here, so Fetcher is used
// purely as an interface shape).
type Fetcher func(ctx context.Context, req Request) (Response, error)

// RemoteDataSource is a MutableDataSource whose authoritative data lives
// behind a caller-supplied Fetcher. Mutations are applied optimistically
// to a local Indexed Data Store so the grid has something to read back
// immediately; the Fetcher is responsible for eventually reconciling
// real state (e.g. on the next Fetch after a server round trip).
type RemoteDataSource struct {
	fetch Fetcher
	cache *StoreDataSource
}

// NewRemoteDataSource builds a RemoteDataSource. cacheRowID extracts a
// row's identity for the optimistic local cache, the same contract as
// store.Options.GetRowID.
func NewRemoteDataSource(fetch Fetcher, cacheRowID func(row any) any, logger gridcore.Logger) (*RemoteDataSource, error) {
	cache, err := NewStoreDataSource(nil, store.Options{GetRowID: cacheRowID, Logger: logger}, 0)
	if err != nil {
		return nil, err
	}
	return &RemoteDataSource{fetch: fetch, cache: cache}, nil
}

// Fetch flushes any pending optimistic mutations against the local cache
// (spec section 5, "fetch called while transactions are pending must
// first flush") and then delegates to the configured Fetcher, wrapping
// any transport failure in a *gridcore.DataSourceError so the caller can
// surface a DATA_ERROR instruction while keeping the previously fetched
// page.
func (r *RemoteDataSource) Fetch(ctx context.Context, req Request) (Response, error) {
	if r.cache.HasPendingTransactions() {
		if err := r.cache.FlushTransactions(ctx); err != nil {
			return Response{}, err
		}
	}
	resp, err := r.fetch(ctx, req)
	if err != nil {
		return Response{}, &gridcore.DataSourceError{Err: err}
	}
	return resp, nil
}

// Subscribe registers listener against the optimistic local cache; a
// Fetcher has no independent push channel (non-goal: network transport).
func (r *RemoteDataSource) Subscribe(listener func()) (unsubscribe func()) {
	return r.cache.Subscribe(listener)
}

func (r *RemoteDataSource) Destroy() { r.cache.Destroy() }

func (r *RemoteDataSource) AddRows(rows []any)   { r.cache.AddRows(rows) }
func (r *RemoteDataSource) RemoveRows(ids []any) { r.cache.RemoveRows(ids) }

func (r *RemoteDataSource) UpdateCell(id any, field string, value gridcore.Value) {
	r.cache.UpdateCell(id, field, value)
}

func (r *RemoteDataSource) UpdateRow(id any, partial map[string]gridcore.Value) {
	r.cache.UpdateRow(id, partial)
}

func (r *RemoteDataSource) FlushTransactions(ctx context.Context) error {
	return r.cache.FlushTransactions(ctx)
}

func (r *RemoteDataSource) HasPendingTransactions() bool { return r.cache.HasPendingTransactions() }

func (r *RemoteDataSource) GetDistinctValues(field string) []gridcore.Value {
	return r.cache.GetDistinctValues(field)
}

func (r *RemoteDataSource) GetRowById(id any) any { return r.cache.GetRowById(id) }
func (r *RemoteDataSource) GetTotalRowCount() int { return r.cache.GetTotalRowCount() }

// defaultFetchTimeout bounds a Fetcher call issued without an explicit
// deadline already on ctx (FetchWithTimeout helper below).
const defaultFetchTimeout = 30 * time.Second

// FetchWithTimeout is a convenience wrapper for Fetcher implementations
// that call out over a real transport: it applies defaultFetchTimeout
// when ctx carries no deadline of its own.
func FetchWithTimeout(ctx context.Context, fetch Fetcher, req Request) (Response, error) {
	if _, ok := ctx.Deadline(); ok {
		return fetch(ctx, req)
	}
	ctx, cancel := context.WithTimeout(ctx, defaultFetchTimeout)
	defer cancel()
	return fetch(ctx, req)
}
