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
	"github.com/agilira/go-errors"

	"github.com/ajroetker/go-stencil/nd"
)

// RegionIterator visits every pixel of a region of an image in buffer
// order (dimension 0 fastest). It keeps one flat offset and applies a
// precomputed wrap offset whenever a dimension rolls over.
type RegionIterator[T nd.Lanes] struct {
	img    *Image[T]
	region nd.Region
	loop   nd.Index
	bound  []int
	wrap   []int
	offset int
	begin  int
	end    int
}

// NewRegionIterator returns an iterator positioned at the first pixel of
// region. The region must lie inside the image's buffered region.
func NewRegionIterator[T nd.Lanes](img *Image[T], region nd.Region) (*RegionIterator[T], error) {
	if img == nil {
		return nil, errors.New(nd.ErrCodeInvalidImage, "image is nil")
	}
	if err := region.Validate(); err != nil {
		return nil, err
	}
	if region.Dim() != img.Dim() {
		return nil, errors.New(nd.ErrCodeDimensionMismatch, "region and image differ in dimension").
			WithContext("region_dim", region.Dim()).
			WithContext("image_dim", img.Dim())
	}
	if !img.buffered.IsInsideRegion(region) {
		return nil, errors.New(nd.ErrCodeInvalidRegion, "region is outside the buffered region").
			WithContext("region", region.String()).
			WithContext("buffered", img.buffered.String())
	}

	dim := region.Dim()
	it := &RegionIterator[T]{
		img:    img,
		region: region.Clone(),
		loop:   region.Index.Clone(),
		bound:  make([]int, dim),
		wrap:   make([]int, dim),
	}
	for d := range dim {
		it.bound[d] = region.Index[d] + region.Size[d]
		it.wrap[d] = img.offsets[d+1] - region.Size[d]*img.offsets[d]
	}
	it.begin = img.ComputeOffset(region.Index)
	it.end = it.begin
	if !region.IsEmpty() {
		endIdx := region.Index.Clone()
		endIdx[dim-1] += region.Size[dim-1]
		it.end = img.ComputeOffset(endIdx)
	}
	it.offset = it.begin
	return it, nil
}

// GoToBegin moves the iterator back to the first pixel of the region.
func (it *RegionIterator[T]) GoToBegin() {
	copy(it.loop, it.region.Index)
	it.offset = it.begin
}

// IsAtEnd returns true once every pixel has been visited.
func (it *RegionIterator[T]) IsAtEnd() bool {
	return it.offset == it.end
}

// Next advances to the following pixel.
func (it *RegionIterator[T]) Next() {
	it.offset++
	last := len(it.loop) - 1
	for d := range it.loop {
		it.loop[d]++
		if it.loop[d] < it.bound[d] || d == last {
			return
		}
		it.loop[d] = it.region.Index[d]
		it.offset += it.wrap[d]
	}
}

// Get returns the current pixel.
func (it *RegionIterator[T]) Get() T {
	return it.img.data[it.offset]
}

// Set stores v at the current pixel.
func (it *RegionIterator[T]) Set(v T) {
	it.img.data[it.offset] = v
}

// Index returns a copy of the current index.
func (it *RegionIterator[T]) Index() nd.Index {
	return it.loop.Clone()
}

// Offset returns the flat position of the current pixel in the image data.
func (it *RegionIterator[T]) Offset() int {
	return it.offset
}

// Region returns the region being walked.
func (it *RegionIterator[T]) Region() nd.Region {
	return it.region.Clone()
}
