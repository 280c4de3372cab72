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

package image

import (
	"github.com/ajroetker/go-stencil/nd"
)

// Image is an n-dimensional buffer of pixels over a buffered region.
// The fastest dimension is padded to a multiple of the vector width,
// so the physical row stride is generally larger than the logical extent.
type Image[T nd.Lanes] struct {
	data     []T
	buffered nd.Region
	physical []int // allocated extent per dimension (dimension 0 padded)
	offsets  []int // Dim()+1 entries; offsets[Dim()] is the total length
}

// New creates an image whose buffered region is the given region.
// A region with a negative extent or mismatched dimensions yields an
// empty image of the same dimension.
func New[T nd.Lanes](buffered nd.Region) *Image[T] {
	dim := len(buffered.Size)
	if buffered.Validate() != nil {
		return empty[T](len(buffered.Index))
	}
	if buffered.IsEmpty() {
		return empty[T](dim)
	}

	lanes := nd.RowAlignment[T]()
	physical := buffered.Size.Clone()
	physical[0] = ((physical[0] + lanes - 1) / lanes) * lanes

	offsets := make([]int, dim+1)
	offsets[0] = 1
	for d := range dim {
		offsets[d+1] = offsets[d] * physical[d]
	}

	return &Image[T]{
		data:     make([]T, offsets[dim]),
		buffered: buffered.Clone(),
		physical: physical,
		offsets:  offsets,
	}
}

func empty[T nd.Lanes](dim int) *Image[T] {
	return &Image[T]{
		buffered: nd.Region{Index: make(nd.Index, dim), Size: make(nd.Size, dim)},
		physical: make([]int, dim),
		offsets:  make([]int, dim+1),
	}
}

// New2D creates a width x height image with its origin at (0, 0).
func New2D[T nd.Lanes](width, height int) *Image[T] {
	return New[T](nd.NewRegion(nd.Index{0, 0}, nd.Size{width, height}))
}

// New3D creates a width x height x depth image with its origin at (0, 0, 0).
func New3D[T nd.Lanes](width, height, depth int) *Image[T] {
	return New[T](nd.NewRegion(nd.Index{0, 0, 0}, nd.Size{width, height, depth}))
}

// Dim returns the image dimension.
func (img *Image[T]) Dim() int {
	return len(img.physical)
}

// BufferedRegion returns a copy of the region the buffer holds.
func (img *Image[T]) BufferedRegion() nd.Region {
	return img.buffered.Clone()
}

// BufferedIndex returns the origin of the buffered region. The returned
// slice must not be modified.
func (img *Image[T]) BufferedIndex() nd.Index {
	return img.buffered.Index
}

// BufferedSize returns the size of the buffered region. The returned slice
// must not be modified.
func (img *Image[T]) BufferedSize() nd.Size {
	return img.buffered.Size
}

// OffsetTable returns the per-dimension strides of the buffer, with one
// extra trailing entry holding the total buffer length. The returned slice
// must not be modified.
func (img *Image[T]) OffsetTable() []int {
	return img.offsets
}

// Stride returns the number of elements per row (including padding).
func (img *Image[T]) Stride() int {
	if img.Dim() < 2 {
		return len(img.data)
	}
	return img.offsets[1]
}

// Data returns the underlying storage, padding included.
func (img *Image[T]) Data() []T {
	return img.data
}

// Len returns the number of stored elements, padding included.
func (img *Image[T]) Len() int {
	return len(img.data)
}

// IsEmpty returns true if the buffer holds no pixels.
func (img *Image[T]) IsEmpty() bool {
	return len(img.data) == 0
}

// ComputeOffset maps idx to a flat position in Data(). The result is only
// meaningful for indices inside the buffered region.
func (img *Image[T]) ComputeOffset(idx nd.Index) int {
	off := 0
	for d, start := range img.buffered.Index {
		off += (idx[d] - start) * img.offsets[d]
	}
	return off
}

// ComputeIndex is the inverse of ComputeOffset.
func (img *Image[T]) ComputeIndex(off int) nd.Index {
	dim := img.Dim()
	idx := make(nd.Index, dim)
	for d := dim - 1; d >= 0; d-- {
		idx[d] = off/img.offsets[d] + img.buffered.Index[d]
		off %= img.offsets[d]
	}
	return idx
}

// At returns the pixel at idx, or zero if idx is outside the buffered region.
func (img *Image[T]) At(idx nd.Index) T {
	if !img.buffered.IsInside(idx) {
		var zero T
		return zero
	}
	return img.data[img.ComputeOffset(idx)]
}

// Set stores value at idx. Indices outside the buffered region are ignored.
func (img *Image[T]) Set(idx nd.Index, value T) {
	if !img.buffered.IsInside(idx) {
		return
	}
	img.data[img.ComputeOffset(idx)] = value
}

// AtOffset returns the pixel at a flat position without bounds translation.
func (img *Image[T]) AtOffset(off int) T {
	return img.data[off]
}

// SetOffset stores value at a flat position.
func (img *Image[T]) SetOffset(off int, value T) {
	img.data[off] = value
}

// SameGeometry returns true if both images have the same buffered region and
// memory layout, so equal flat offsets address equal indices.
func SameGeometry[T, U nd.Lanes](a *Image[T], b *Image[U]) bool {
	if !a.buffered.Equal(b.buffered) || len(a.offsets) != len(b.offsets) {
		return false
	}
	for d := range a.offsets {
		if a.offsets[d] != b.offsets[d] {
			return false
		}
	}
	return true
}

// Clone creates a deep copy of the image.
func (img *Image[T]) Clone() *Image[T] {
	clone := &Image[T]{
		data:     make([]T, len(img.data)),
		buffered: img.buffered.Clone(),
		physical: append([]int(nil), img.physical...),
		offsets:  append([]int(nil), img.offsets...),
	}
	copy(clone.data, img.data)
	return clone
}

// Clear sets all pixels to zero.
func (img *Image[T]) Clear() {
	clear(img.data)
}

// Fill sets all pixels to the specified value.
func (img *Image[T]) Fill(value T) {
	for i := range img.data {
		img.data[i] = value
	}
}

// FillFunc sets every pixel of the buffered region to fn(index).
func (img *Image[T]) FillFunc(fn func(idx nd.Index) T) {
	it, err := NewRegionIterator(img, img.buffered)
	if err != nil {
		return
	}
	for ; !it.IsAtEnd(); it.Next() {
		it.Set(fn(it.Index()))
	}
}

// Mirror reflects index into [start, start+size), repeating the edge pixel
// at the reflection (…, 1, 0, 0, 1, …).
func Mirror(index, start, size int) int {
	if size <= 0 {
		return start
	}
	i := index - start
	period := 2 * size
	i %= period
	if i < 0 {
		i += period
	}
	if i >= size {
		i = period - i - 1
	}
	return start + i
}

// Clamp returns index clamped to [start, start+size-1].
func Clamp(index, start, size int) int {
	if index < start {
		return start
	}
	if index >= start+size {
		return start + size - 1
	}
	return index
}

// Wrap returns index wrapped into [start, start+size) using modulo.
func Wrap(index, start, size int) int {
	if size <= 0 {
		return start
	}
	i := (index - start) % size
	if i < 0 {
		i += size
	}
	return start + i
}
