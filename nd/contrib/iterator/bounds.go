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

package iterator

import "github.com/ajroetker/go-stencil/nd"

// BoundsCache remembers whether a window position lies inside the inner
// bounds, overall and per dimension. The zero value is invalid.
type BoundsCache struct {
	valid bool
	all   bool
	dims  []bool
}

// Resolve returns whether innerLow[d] <= loop[d] < innerHigh[d] holds for
// every dimension, and a valid cache describing loop. A valid receiver is
// returned unchanged. The result may reuse the receiver's storage.
func (c BoundsCache) Resolve(loop nd.Index, innerLow, innerHigh []int) (bool, BoundsCache) {
	if c.valid {
		return c.all, c
	}
	dims := c.dims
	if len(dims) != len(loop) {
		dims = make([]bool, len(loop))
	}
	all := true
	for d := range loop {
		in := loop[d] >= innerLow[d] && loop[d] < innerHigh[d]
		dims[d] = in
		all = all && in
	}
	return all, BoundsCache{valid: true, all: all, dims: dims}
}

// Invalidate returns the cache marked stale, keeping its storage.
func (c BoundsCache) Invalidate() BoundsCache {
	c.valid = false
	return c
}

// Valid reports whether the cache describes the current position.
func (c BoundsCache) Valid() bool { return c.valid }

// InBoundsAt reports the cached state of dimension d. Only meaningful on a
// valid cache.
func (c BoundsCache) InBoundsAt(d int) bool { return c.dims[d] }

func (c BoundsCache) clone() BoundsCache {
	c.dims = append([]bool(nil), c.dims...)
	return c
}
