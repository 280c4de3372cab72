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

// Package neighborhood describes hyper-rectangular windows around a pixel.
//
// A window of radius r has extent 2*r[d]+1 in dimension d and is stored as
// a flat sequence with dimension 0 varying fastest. Neighbor n decodes to a
// per-dimension offset from the window's lower corner by repeated div/mod
// against the window strides, most significant dimension first:
//
//	g := neighborhood.NewGeometry(nd.Size{1, 1}) // 3x3 window
//	g.Len()                     // 9
//	g.ComputeInternalIndex(5)   // [2 1]
//	g.OffsetFromCenter(5)       // [1 0]
package neighborhood

import (
	"github.com/ajroetker/go-stencil/nd"
)

// Geometry is the radius, extent and stride table of a window.
// It is immutable once built and safe to share.
type Geometry struct {
	radius  nd.Size
	size    nd.Size
	strides []int // strides[d] = product of size[0..d-1]
	length  int
}

// NewGeometry builds the geometry of a window with the given radius.
// Negative radius entries are treated as zero.
func NewGeometry(radius nd.Size) Geometry {
	dim := len(radius)
	g := Geometry{
		radius:  make(nd.Size, dim),
		size:    make(nd.Size, dim),
		strides: make([]int, dim),
		length:  1,
	}
	for d, r := range radius {
		r = max(r, 0)
		g.radius[d] = r
		g.size[d] = 2*r + 1
		g.strides[d] = g.length
		g.length *= g.size[d]
	}
	return g
}

// Dim returns the window dimension.
func (g Geometry) Dim() int { return len(g.radius) }

// Radius returns a copy of the window radius.
func (g Geometry) Radius() nd.Size { return g.radius.Clone() }

// Size returns a copy of the window extent per dimension.
func (g Geometry) Size() nd.Size { return g.size.Clone() }

// RadiusAt returns the radius in dimension d.
func (g Geometry) RadiusAt(d int) int { return g.radius[d] }

// SizeAt returns the window extent in dimension d.
func (g Geometry) SizeAt(d int) int { return g.size[d] }

// Stride returns the flat distance between neighbors one step apart in
// dimension d.
func (g Geometry) Stride(d int) int { return g.strides[d] }

// Len returns the number of neighbors in the window.
func (g Geometry) Len() int { return g.length }

// Center returns the flat index of the center neighbor.
func (g Geometry) Center() int { return g.length / 2 }

// ComputeInternalIndex decodes neighbor n into its offset from the window's
// lower corner.
func (g Geometry) ComputeInternalIndex(n int) nd.Offset {
	out := make(nd.Offset, g.Dim())
	g.ComputeInternalIndexInto(n, out)
	return out
}

// ComputeInternalIndexInto is ComputeInternalIndex writing into dst, which
// must have Dim() entries.
func (g Geometry) ComputeInternalIndexInto(n int, dst nd.Offset) {
	for d := g.Dim() - 1; d >= 0; d-- {
		dst[d] = n / g.strides[d]
		n %= g.strides[d]
	}
}

// FlatIndex is the inverse of ComputeInternalIndex.
func (g Geometry) FlatIndex(internal nd.Offset) int {
	n := 0
	for d, v := range internal {
		n += v * g.strides[d]
	}
	return n
}

// OffsetFromCenter returns the offset of neighbor n relative to the center.
func (g Geometry) OffsetFromCenter(n int) nd.Offset {
	out := g.ComputeInternalIndex(n)
	for d := range out {
		out[d] -= g.radius[d]
	}
	return out
}

// NeighborIndex returns the flat index of the neighbor at offset off from
// the center, or false when off lies outside the window.
func (g Geometry) NeighborIndex(off nd.Offset) (int, bool) {
	if len(off) != g.Dim() {
		return 0, false
	}
	n := 0
	for d, v := range off {
		if v < -g.radius[d] || v > g.radius[d] {
			return 0, false
		}
		n += (v + g.radius[d]) * g.strides[d]
	}
	return n, true
}

// MemoryOffsets returns, for every neighbor, its flat distance from the
// center in a buffer with the given offset table.
func (g Geometry) MemoryOffsets(offsetTable []int) []int {
	out := make([]int, g.length)
	internal := make(nd.Offset, g.Dim())
	for n := range out {
		delta := 0
		for d := range internal {
			delta += (internal[d] - g.radius[d]) * offsetTable[d]
		}
		out[n] = delta

		for d := range internal {
			internal[d]++
			if internal[d] < g.size[d] {
				break
			}
			internal[d] = 0
		}
	}
	return out
}

// Equal reports whether both geometries have the same radius.
func (g Geometry) Equal(o Geometry) bool {
	return g.radius.Equal(o.radius)
}
