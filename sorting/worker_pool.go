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

import (
	"runtime"
	"sync"
)

// shardResult is one worker's locally-sorted permutation, still in
// global row-index space. Shards are sorted with SortMulti, so
// collisions is never populated.
type shardResult struct {
	perm       []uint32
	collisions []CollisionPair
}

// shardArgs is the args value passed through ThreadPool.Enqueue to each
// shard's SortingFunction.
type shardArgs struct {
	vectors []HashVector
	dirs    []Direction
	results []shardResult
}

// Parallel sorts vectors (indexed 0..len(vectors)) by dirs using
// threads worker goroutines, one shard per goroutine, then merges the
// per-shard permutations into a single global permutation with a k-way
// merge (spec section 4.2, "parallel multi-key sort": "partition rows
// into roughly-equal shards... sort each shard independently... merge
// the sorted shards with a k-way merge").
//
// If threads <= 0, runtime.GOMAXPROCS(0) is used. If there are fewer
// rows than shards, shards are shrunk so that none is empty.
func Parallel(vectors []HashVector, dirs []Direction, threads int) []uint32 {
	n := len(vectors)
	if n == 0 {
		return nil
	}
	if threads <= 0 {
		threads = runtime.GOMAXPROCS(0)
	}
	if threads > n {
		threads = n
	}
	if threads <= 1 {
		return SortMulti(vectors, dirs)
	}

	bounds := shardBounds(n, threads)
	args := &shardArgs{
		vectors: vectors,
		dirs:    dirs,
		results: make([]shardResult, len(bounds)-1),
	}

	pool := NewThreadPool(threads)
	var done sync.WaitGroup
	done.Add(len(bounds) - 1)
	for i := 0; i < len(bounds)-1; i++ {
		pool.Enqueue(bounds[i], bounds[i+1], func(start, end int, a any, p ThreadPool) {
			defer done.Done()
			sortShard(start, end, a, p)
		}, shardCall{args, i})
	}
	// Workers stop at Close even with requests still queued, so the pool
	// is closed only after every shard has been sorted.
	done.Wait()
	pool.Close(nil)
	pool.Wait()

	shards := make([][]uint32, len(args.results))
	for i, r := range args.results {
		shards[i] = r.perm
	}
	return mergeShards(vectors, dirs, shards)
}

// shardCall bundles the shared shardArgs with the index of the shard
// this particular SortingFunction invocation is responsible for; it is
// passed as the args parameter of SortingFunction.
type shardCall struct {
	shared *shardArgs
	index  int
}

// sortShard is the SortingFunction run per shard: it sorts the
// [start:end) slice of global row indices by the shared dirs and stores
// the resulting global-index permutation back into shared.results.
func sortShard(start, end int, rawArgs any, _ ThreadPool) {
	call := rawArgs.(shardCall)
	args := call.shared

	width := end - start
	local := make([]HashVector, width)
	copy(local, args.vectors[start:end])

	localPerm := SortMulti(local, args.dirs)
	globalPerm := make([]uint32, width)
	for i, li := range localPerm {
		globalPerm[i] = uint32(start) + li
	}

	args.results[call.index] = shardResult{perm: globalPerm}
}

// shardBounds divides [0, n) into up to shards roughly-equal, non-empty
// pieces and returns the boundary offsets (len(result) == pieces+1).
func shardBounds(n, shards int) []int {
	bounds := make([]int, 0, shards+1)
	base := n / shards
	rem := n % shards
	pos := 0
	bounds = append(bounds, pos)
	for i := 0; i < shards; i++ {
		size := base
		if i < rem {
			size++
		}
		if size == 0 {
			continue
		}
		pos += size
		bounds = append(bounds, pos)
	}
	return bounds
}
