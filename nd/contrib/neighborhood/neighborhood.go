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

package neighborhood

import (
	"github.com/ajroetker/go-stencil/nd"
	"github.com/ajroetker/go-stencil/nd/contrib/summation"
)

// Neighborhood is a dense window of values laid out by its Geometry.
type Neighborhood[T nd.Lanes] struct {
	geom   Geometry
	values []T
}

// New returns a zeroed neighborhood of the given radius.
func New[T nd.Lanes](radius nd.Size) *Neighborhood[T] {
	g := NewGeometry(radius)
	return &Neighborhood[T]{geom: g, values: make([]T, g.Len())}
}

// FromValues wraps values, which must have g.Len() entries.
func FromValues[T nd.Lanes](g Geometry, values []T) *Neighborhood[T] {
	if len(values) != g.Len() {
		panic("neighborhood: values length does not match geometry")
	}
	return &Neighborhood[T]{geom: g, values: values}
}

// Geometry returns the window geometry.
func (nb *Neighborhood[T]) Geometry() Geometry { return nb.geom }

// Len returns the number of values.
func (nb *Neighborhood[T]) Len() int { return len(nb.values) }

// At returns neighbor n.
func (nb *Neighborhood[T]) At(n int) T { return nb.values[n] }

// Set stores v as neighbor n.
func (nb *Neighborhood[T]) Set(n int, v T) { nb.values[n] = v }

// Values returns the underlying values in window order.
func (nb *Neighborhood[T]) Values() []T { return nb.values }

// CenterValue returns the value at the window center.
func (nb *Neighborhood[T]) CenterValue() T { return nb.values[nb.geom.Center()] }

// AtOffset returns the value at offset off from the center, or zero when off
// lies outside the window.
func (nb *Neighborhood[T]) AtOffset(off nd.Offset) T {
	n, ok := nb.geom.NeighborIndex(off)
	if !ok {
		var zero T
		return zero
	}
	return nb.values[n]
}

// InnerProduct returns sum(values[n] * kernel[n]) accumulated with error
// compensation. The kernel must have the same geometry.
func InnerProduct[T nd.Floats](nb *Neighborhood[T], kernel *Neighborhood[T]) nd.Accumulate {
	if !nb.geom.Equal(kernel.geom) {
		panic("neighborhood: InnerProduct geometry mismatch")
	}
	var s summation.CompensatedSum[nd.Accumulate]
	for n, v := range nb.values {
		s.AddElement(nd.Accumulate(v) * nd.Accumulate(kernel.values[n]))
	}
	return s.Sum()
}

// BoxKernel returns a normalized averaging kernel of the given radius.
func BoxKernel[T nd.Floats](radius nd.Size) *Neighborhood[T] {
	k := New[T](radius)
	w := T(1) / T(k.Len())
	for n := range k.values {
		k.values[n] = w
	}
	return k
}
