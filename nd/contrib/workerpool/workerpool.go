// Copyright 2025 go-stencil Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package workerpool runs region work units on a persistent set of worker
// goroutines.
//
// A Pool is created once and reused across many updates, so an evolution
// loop does not pay goroutine spawn costs every time step. Every call blocks
// until all of its units have finished: the return is the join barrier after
// which results written by the units may be read. A unit always runs to
// completion; there is no cancellation.
//
// Usage:
//
//	pool := workerpool.New(runtime.GOMAXPROCS(0))
//	defer pool.Close()
//
//	parts, _ := partition.Split(region, pool.NumWorkers())
//	partial := make([]float64, len(parts))
//	pool.ForEachRegion(parts, func(i int, r nd.Region) {
//	    partial[i] = process(r)
//	})
package workerpool

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/ajroetker/go-stencil/nd"
)

// Pool is a persistent worker pool. Workers are spawned once at creation and
// reused by every call.
type Pool struct {
	numWorkers int
	workC      chan workItem
	closeOnce  sync.Once
	closed     atomic.Bool
}

type workItem struct {
	fn      func()
	barrier *barrier
}

// barrier joins the items of one call and records the first panic raised
// by any of them.
type barrier struct {
	wg       sync.WaitGroup
	panicked atomic.Pointer[unitPanic]
}

type unitPanic struct {
	value any
}

func (b *barrier) run(fn func()) {
	defer b.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			b.panicked.CompareAndSwap(nil, &unitPanic{value: r})
		}
	}()
	fn()
}

// wait blocks until every item finished, then re-raises a unit panic in the
// calling goroutine.
func (b *barrier) wait() {
	b.wg.Wait()
	if p := b.panicked.Load(); p != nil {
		panic(fmt.Sprintf("workerpool: work unit panicked: %v", p.value))
	}
}

// New creates a pool with numWorkers workers; numWorkers <= 0 uses
// GOMAXPROCS.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	p := &Pool{
		numWorkers: numWorkers,
		workC:      make(chan workItem, numWorkers*2),
	}
	for range numWorkers {
		go p.worker()
	}
	nd.Logger().Debug("workerpool: started", "workers", numWorkers)
	return p
}

func (p *Pool) worker() {
	for item := range p.workC {
		item.barrier.run(item.fn)
	}
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Close shuts the pool down after pending work completes. It is safe to call
// more than once; later calls run their work on the caller's goroutine.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.workC)
		nd.Logger().Debug("workerpool: closed", "workers", p.numWorkers)
	})
}

// submit runs items on the pool, or inline when the pool is closed or a
// single item is given, and waits for all of them.
func (p *Pool) submit(fns []func()) {
	b := &barrier{}
	b.wg.Add(len(fns))
	if p.closed.Load() || len(fns) == 1 {
		for _, fn := range fns {
			b.run(fn)
		}
	} else {
		for _, fn := range fns {
			p.workC <- workItem{fn: fn, barrier: b}
		}
	}
	b.wait()
}

// ForEach calls fn(i) for every i in [0, n). Workers claim indices
// atomically, so uneven units balance across the pool.
func (p *Pool) ForEach(n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	workers := min(p.numWorkers, n)
	var next atomic.Int64
	fns := make([]func(), workers)
	for w := range fns {
		fns[w] = func() {
			for {
				i := int(next.Add(1)) - 1
				if i >= n {
					return
				}
				fn(i)
			}
		}
	}
	p.submit(fns)
}

// ForEachRegion calls fn once per region. Regions must be disjoint when fn
// writes to a shared buffer.
func (p *Pool) ForEachRegion(parts []nd.Region, fn func(i int, r nd.Region)) {
	p.ForEach(len(parts), func(i int) {
		fn(i, parts[i])
	})
}
