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
	"testing"
	"time"

	"github.com/sneller-grid/gridcore"
	"github.com/sneller-grid/gridcore/store"
)

func getRowID(row any) any { return row.(map[string]any)["id"] }

func people() []any {
	return []any{
		map[string]any{"id": 1, "name": "Alice"},
		map[string]any{"id": 2, "name": "Bob"},
	}
}

// TestFetchFlushesPendingTransactions implements spec section 5's
// ordering guarantee: a fetch issued while a throttled mutation is
// still queued must see that mutation's effect, not the pre-mutation
// state.
func TestFetchFlushesPendingTransactions(t *testing.T) {
	ds, err := NewStoreDataSource(people(), store.Options{GetRowID: getRowID}, time.Hour)
	if err != nil {
		t.Fatalf("NewStoreDataSource: %v", err)
	}
	defer ds.Destroy()

	ds.AddRows([]any{map[string]any{"id": 3, "name": "Charlie"}})
	if !ds.HasPendingTransactions() {
		t.Fatal("expected the add to still be queued under a one-hour throttle window")
	}

	resp, err := ds.Fetch(context.Background(), Request{Pagination: Pagination{PageIndex: 0, PageSize: 10}})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if resp.TotalRows != 3 {
		t.Fatalf("TotalRows = %d, want 3 (Fetch should have flushed the pending add)", resp.TotalRows)
	}
	if ds.HasPendingTransactions() {
		t.Fatal("expected no pending transactions after Fetch flushed the queue")
	}
}

// TestRemoteFetchFlushesLocalCache mirrors
// TestFetchFlushesPendingTransactions for RemoteDataSource: its
// optimistic local cache must also be flushed before delegating to the
// configured Fetcher.
func TestRemoteFetchFlushesLocalCache(t *testing.T) {
	fetchCalls := 0
	fetch := func(ctx context.Context, req Request) (Response, error) {
		fetchCalls++
		return Response{Rows: []any{}, TotalRows: 0}, nil
	}
	rds, err := NewRemoteDataSource(fetch, getRowID, nil)
	if err != nil {
		t.Fatalf("NewRemoteDataSource: %v", err)
	}
	defer rds.Destroy()

	rds.AddRows([]any{map[string]any{"id": 1, "name": "Alice"}})
	if !rds.HasPendingTransactions() {
		t.Fatal("expected the add to still be queued")
	}

	if _, err := rds.Fetch(context.Background(), Request{}); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if fetchCalls != 1 {
		t.Fatalf("fetchCalls = %d, want 1", fetchCalls)
	}
	if rds.HasPendingTransactions() {
		t.Fatal("expected no pending transactions after Fetch flushed the local cache")
	}
	if rds.GetTotalRowCount() != 1 {
		t.Fatalf("cache row count = %d, want 1", rds.GetTotalRowCount())
	}
}

// TestFetchPropagatesTransactionFailure checks that a flush failure
// triggered by Fetch surfaces as Fetch's own error rather than being
// swallowed. getRowID panics on a row that isn't a map[string]any (a
// malformed caller-supplied row), the Go analogue of a mid-drain
// exception (spec section 4.3).
func TestFetchPropagatesTransactionFailure(t *testing.T) {
	ds, err := NewStoreDataSource(people(), store.Options{GetRowID: getRowID}, time.Hour)
	if err != nil {
		t.Fatalf("NewStoreDataSource: %v", err)
	}
	defer ds.Destroy()

	ds.AddRows([]any{"not a row"})

	_, err = ds.Fetch(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected Fetch to surface the transaction failure")
	}
	if _, ok := err.(*gridcore.TransactionError); !ok {
		t.Fatalf("error type = %T, want *gridcore.TransactionError", err)
	}
}
