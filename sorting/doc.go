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

/*
Package sorting implements the grid engine's hash-accelerated, optionally
parallel multi-key sort (spec section 4.2 of the grid engine design).

Overview

Three sort shapes are supported:

 1. Single-key numeric/timestamp sort: a dense hash array plus an
    identity permutation, sorted by a stable comparator over the hashes.

 2. Single-key string sort: three 10-character chunk arrays (30
    characters total) sorted lexicographically chunk by chunk; ties
    across all three chunks are collision candidates resolved by a
    locale-aware fallback comparison on the original strings.

 3. Multi-key sort: one dense hash array per key, compared in order with
    a per-key direction sign; no string fallback is applied, so ties
    across every key preserve input (insertion) order.

Null values are encoded as a sentinel hash above any real value, so they
always sort last regardless of direction.

Design

For datasets above a configurable row-count threshold, sorting is
dispatched across a fixed worker pool (ThreadPool): the index range is
partitioned into roughly equal shards, each worker sorts its shard
in-place with the same comparator, and a k-way merge (package
sorting/heap) produces the final permutation. Shards are sorted by
hash vectors alone; no collision candidates are collected across shard
boundaries, and single-key string sorts (SortSingleString) do not run
on the pool.

Ktop keeps only the k smallest/largest rows in a bounded heap instead of
producing a full permutation, which is much faster and scales better
than a full sort for the small k values that accompany a LIMIT clause.

The ThreadPool scheduling primitive (request queue drained by a fixed
set of condition-variable-waited workers) is unchanged from the
teacher's Ion row sorter; what changed is the sort subject, which moved
from lazily-decoded on-wire Ion tuples to precomputed in-memory hash
vectors, and the parallel strategy, which moved from recursive
partition-quicksort to shard-and-merge (required by spec section 4.2).
*/
package sorting
