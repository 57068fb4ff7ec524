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

package sorting

// Design:
//
// A ThreadPool runs SortingFunctions that each sort one shard, given as
// the [start:end] range passed to them. The coordinator (worker_pool.go)
// Closes the pool once every shard has reported completion; the k-way
// merge then produces the final permutation.

// SortingFunction sorts a range of indices given as the first two
// arguments. Any additional arguments are implementation-defined and
// carried by the args parameter.
type SortingFunction func(start, end int, args any, pool ThreadPool)

// ThreadPool runs SortingFunctions on a fixed set of worker goroutines.
type ThreadPool interface {
	Enqueue(start, end int, fun SortingFunction, args any)
	Close(error)
	Wait() error
}
