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

// Package datasource implements the external data source contract (spec
// section 6): the interface between the grid engine and whatever owns
// the actual rows, plus two concrete providers (StoreDataSource,
// RemoteDataSource).
package datasource

import (
	"context"

	"github.com/sneller-grid/gridcore"
	"github.com/sneller-grid/gridcore/internal/filter"
	"github.com/sneller-grid/gridcore/sorting"
)

// Pagination selects one page of a result.
type Pagination struct {
	PageIndex int
	PageSize  int
}

// Request is a single fetch/query (spec section 6).
type Request struct {
	Pagination Pagination
	Sort       []sorting.Key
	Filter     filter.Model
}

// Response is a fetch/query result.
type Response struct {
	Rows      []any
	TotalRows int
}

// DataSource is the contract between the grid and a data provider (spec
// section 6, "Data source interface").
type DataSource interface {
	Fetch(ctx context.Context, req Request) (Response, error)

	// Subscribe registers listener to be called when the source's data
	// changes out of band (e.g. a mutable source draining a
	// transaction). It returns an unsubscribe function. A DataSource
	// that never changes out of band may return a no-op unsubscribe.
	Subscribe(listener func()) (unsubscribe func())

	// Destroy releases any resources held by the source.
	Destroy()
}

// MutableDataSource extends DataSource with the transaction-manager-
// backed mutation surface (spec section 6, "Mutable data source").
type MutableDataSource interface {
	DataSource

	AddRows(rows []any)
	RemoveRows(ids []any)
	UpdateCell(id any, field string, value gridcore.Value)
	UpdateRow(id any, partial map[string]gridcore.Value)

	FlushTransactions(ctx context.Context) error
	HasPendingTransactions() bool

	GetDistinctValues(field string) []gridcore.Value
	GetRowById(id any) any
	GetTotalRowCount() int
}
