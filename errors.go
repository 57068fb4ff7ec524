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

package gridcore

import "fmt"

// DataSourceError wraps a failed fetch. The previous successful dataset
// remains cached by the caller; this error only carries the message that
// should be surfaced via a DATA_ERROR instruction.
type DataSourceError struct {
	Err error
}

func (e *DataSourceError) Error() string { return fmt.Sprintf("data source: %s", e.Err) }
func (e *DataSourceError) Unwrap() error { return e.Err }

// TransactionError is returned by Flush when a drain halts mid-queue.
// The remaining operations stay queued for a subsequent attempt.
type TransactionError struct {
	Op  string
	Err error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("transaction: applying %s: %s", e.Op, e.Err)
}
func (e *TransactionError) Unwrap() error { return e.Err }

// WorkerError indicates a sort worker pool failure. Callers fall back to
// a synchronous sort on the owner goroutine.
type WorkerError struct {
	Err error
}

func (e *WorkerError) Error() string { return fmt.Sprintf("sort worker: %s", e.Err) }
func (e *WorkerError) Unwrap() error { return e.Err }

// ConfigError is returned from constructors when required configuration
// is missing (e.g. a mutable source built without GetRowID).
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Err)
}
func (e *ConfigError) Unwrap() error { return e.Err }
