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

import (
	"fmt"
	"iter"

	"github.com/agilira/go-errors"

	"github.com/ajroetker/go-stencil/nd"
	"github.com/ajroetker/go-stencil/nd/contrib/boundary"
	"github.com/ajroetker/go-stencil/nd/contrib/image"
	"github.com/ajroetker/go-stencil/nd/contrib/neighborhood"
)

// ConstIterator moves a read-only neighborhood window over a region of an
// image. The zero value must be initialized before use.
type ConstIterator[T nd.Lanes] struct {
	img    *image.Image[T]
	geom   neighborhood.Geometry
	radius nd.Size
	region nd.Region

	// Immutable after Initialize; shared by clones.
	begin, end nd.Index
	bound      []int // one past the last index of the region per dimension
	deltas     []int // flat distance from center per neighbor
	wrap       []int // offset added when dimension d rolls over
	innerLow   []int
	innerHigh  []int
	bufLow     []int // first buffered index per dimension
	bufHigh    []int // last buffered index per dimension
	needBounds bool

	loop   nd.Index
	base   int // flat offset of the center
	bounds BoundsCache

	cond   boundary.Condition[T]
	shared *boundary.Condition[T]

	// Scratch for boundary lookups.
	internal, overflow nd.Offset
	overLow, overHigh  []int
}

// Option configures a ConstIterator created by New.
type Option[T nd.Lanes] func(*ConstIterator[T])

// WithBoundaryCondition sets the iterator's own boundary condition.
func WithBoundaryCondition[T nd.Lanes](c boundary.Condition[T]) Option[T] {
	return func(it *ConstIterator[T]) { it.cond = c }
}

// WithSharedBoundaryCondition makes the iterator read its boundary condition
// through c, which the caller keeps alive and must not modify while the
// iterator is in use.
func WithSharedBoundaryCondition[T nd.Lanes](c *boundary.Condition[T]) Option[T] {
	return func(it *ConstIterator[T]) { it.shared = c }
}

// New returns an iterator positioned at the beginning of region.
func New[T nd.Lanes](radius nd.Size, img *image.Image[T], region nd.Region, opts ...Option[T]) (*ConstIterator[T], error) {
	it := &ConstIterator[T]{}
	for _, opt := range opts {
		opt(it)
	}
	if err := it.Initialize(radius, img, region); err != nil {
		return nil, err
	}
	return it, nil
}

// Initialize binds the iterator to img, radius and region and positions it
// at the beginning of region. region may extend past the buffered region.
// The boundary condition is left unchanged.
func (it *ConstIterator[T]) Initialize(radius nd.Size, img *image.Image[T], region nd.Region) error {
	if img == nil {
		return errors.New(nd.ErrCodeInvalidImage, "image is nil")
	}
	if img.IsEmpty() {
		return errors.New(nd.ErrCodeInvalidImage, "image has an empty buffered region").
			WithContext("buffered", img.BufferedRegion().String())
	}
	if err := region.Validate(); err != nil {
		return errors.Wrap(err, nd.ErrCodeInvalidRegion, "invalid iteration region")
	}
	dim := img.Dim()
	if len(radius) != dim || region.Dim() != dim {
		return errors.New(nd.ErrCodeDimensionMismatch, "radius, region and image must share a dimension").
			WithContext("image_dim", dim).
			WithContext("radius_dim", len(radius)).
			WithContext("region_dim", region.Dim())
	}
	for d, r := range radius {
		if r < 0 {
			return errors.New(nd.ErrCodeInvalidRadius, "radius must be non-negative").
				WithContext("dimension", d).
				WithContext("radius", r)
		}
	}
	if err := it.BoundaryCondition().Validate(); err != nil {
		return err
	}

	it.img = img
	it.geom = neighborhood.NewGeometry(radius)
	it.radius = it.geom.Radius()
	it.region = region.Clone()
	it.deltas = it.geom.MemoryOffsets(img.OffsetTable())

	it.begin = region.Index.Clone()
	it.end = region.Index.Clone()
	if !region.IsEmpty() {
		it.end[dim-1] += region.Size[dim-1]
	}

	offsets := img.OffsetTable()
	it.bound = make([]int, dim)
	it.wrap = make([]int, dim)
	it.innerLow = make([]int, dim)
	it.innerHigh = make([]int, dim)
	it.bufLow = make([]int, dim)
	it.bufHigh = make([]int, dim)
	it.needBounds = false
	buffered := img.BufferedRegion()
	for d := range dim {
		it.bound[d] = region.Index[d] + region.Size[d]
		if d < dim-1 {
			it.wrap[d] = offsets[d+1] - region.Size[d]*offsets[d]
		}
		start, size := buffered.Index[d], buffered.Size[d]
		it.innerLow[d] = start + it.radius[d]
		it.innerHigh[d] = start + size - it.radius[d]
		it.bufLow[d] = start
		it.bufHigh[d] = start + size - 1
		if region.Index[d]-it.radius[d] < start || region.Index[d]+region.Size[d]+it.radius[d] > start+size {
			it.needBounds = true
		}
	}

	it.loop = make(nd.Index, dim)
	it.internal = make(nd.Offset, dim)
	it.overflow = make(nd.Offset, dim)
	it.overLow = make([]int, dim)
	it.overHigh = make([]int, dim)
	it.bounds = BoundsCache{}
	it.GoToBegin()

	if it.needBounds {
		nd.Logger().Debug("iterator: boundary handling enabled",
			"region", region.String(),
			"radius", []int(it.radius),
			"buffered", buffered.String(),
			"condition", it.BoundaryCondition().String())
	}
	return nil
}

func (it *ConstIterator[T]) mustBeInitialized() {
	if it.img == nil {
		panic("iterator: use of uninitialized ConstIterator")
	}
}

// Image returns the image being iterated.
func (it *ConstIterator[T]) Image() *image.Image[T] { return it.img }

// Geometry returns the window geometry.
func (it *ConstIterator[T]) Geometry() neighborhood.Geometry { return it.geom }

// Radius returns a copy of the window radius.
func (it *ConstIterator[T]) Radius() nd.Size { return it.radius.Clone() }

// Len returns the number of neighbors in the window.
func (it *ConstIterator[T]) Len() int { return it.geom.Len() }

// Region returns a copy of the iteration region.
func (it *ConstIterator[T]) Region() nd.Region { return it.region.Clone() }

// BeginIndex returns the first position of the iteration.
func (it *ConstIterator[T]) BeginIndex() nd.Index { return it.begin.Clone() }

// EndIndex returns the one-past-the-end position: the begin index with the
// slowest dimension advanced by the region size, or the begin index when the
// region is empty.
func (it *ConstIterator[T]) EndIndex() nd.Index { return it.end.Clone() }

// NeedsBoundaryHandling reports whether any window position in the region
// can reach outside the buffered region.
func (it *ConstIterator[T]) NeedsBoundaryHandling() bool { return it.needBounds }

// InnerBounds returns copies of the per-dimension bounds used by InBounds.
func (it *ConstIterator[T]) InnerBounds() (low, high []int) {
	return append([]int(nil), it.innerLow...), append([]int(nil), it.innerHigh...)
}

// Index returns a copy of the center index.
func (it *ConstIterator[T]) Index() nd.Index { return it.loop.Clone() }

// Offset returns the flat buffer offset of the center. It is only a valid
// buffer position while the center lies inside the buffered region.
func (it *ConstIterator[T]) Offset() int { return it.base }

// IndexAt returns the image index of neighbor n.
func (it *ConstIterator[T]) IndexAt(n int) nd.Index {
	return it.loop.Add(it.geom.OffsetFromCenter(n))
}

// OffsetAt returns the offset of neighbor n from the center.
func (it *ConstIterator[T]) OffsetAt(n int) nd.Offset {
	return it.geom.OffsetFromCenter(n)
}

// BoundingBoxAsImageRegion returns the region visited by the center.
func (it *ConstIterator[T]) BoundingBoxAsImageRegion() nd.Region {
	return nd.NewRegion(it.begin, it.region.Size)
}

// WindowRegion returns the region covered by the window at the current
// position.
func (it *ConstIterator[T]) WindowRegion() nd.Region {
	idx := it.loop.Clone()
	for d := range idx {
		idx[d] -= it.radius[d]
	}
	return nd.Region{Index: idx, Size: it.geom.Size()}
}

// GoToBegin moves the center to the first index of the region.
func (it *ConstIterator[T]) GoToBegin() {
	it.SetLocation(it.begin)
}

// GoToEnd moves the center to the one-past-the-end position.
func (it *ConstIterator[T]) GoToEnd() {
	it.SetLocation(it.end)
}

// IsAtBegin reports whether the center is at the first index.
func (it *ConstIterator[T]) IsAtBegin() bool {
	it.mustBeInitialized()
	return it.loop.Equal(it.begin)
}

// IsAtEnd reports whether the center is at the one-past-the-end position.
func (it *ConstIterator[T]) IsAtEnd() bool {
	it.mustBeInitialized()
	return it.loop.Equal(it.end)
}

// SetLocation moves the center to idx.
func (it *ConstIterator[T]) SetLocation(idx nd.Index) {
	it.mustBeInitialized()
	if len(idx) != len(it.loop) {
		panic(fmt.Sprintf("iterator: location %v has %d dimensions, want %d", []int(idx), len(idx), len(it.loop)))
	}
	copy(it.loop, idx)
	it.base = it.img.ComputeOffset(it.loop)
	it.bounds = it.bounds.Invalidate()
}

// Next advances the center by one index in raster order, fastest
// dimension first. It panics at the end position.
func (it *ConstIterator[T]) Next() {
	if it.IsAtEnd() {
		panic("iterator: Next called at end")
	}
	it.bounds = it.bounds.Invalidate()
	it.base++
	last := len(it.loop) - 1
	for d := range it.loop {
		it.loop[d]++
		if d == last || it.loop[d] < it.bound[d] {
			return
		}
		it.loop[d] = it.begin[d]
		it.base += it.wrap[d]
	}
}

// Prev moves the center back by one index. It panics at the begin position.
func (it *ConstIterator[T]) Prev() {
	if it.IsAtBegin() {
		panic("iterator: Prev called at begin")
	}
	it.bounds = it.bounds.Invalidate()
	it.base--
	for d := range it.loop {
		if it.loop[d] != it.begin[d] {
			it.loop[d]--
			return
		}
		it.loop[d] = it.bound[d] - 1
		it.base -= it.wrap[d]
	}
}

// Add moves the center by off.
func (it *ConstIterator[T]) Add(off nd.Offset) {
	it.mustBeInitialized()
	offsets := it.img.OffsetTable()
	for d, v := range off {
		it.loop[d] += v
		it.base += v * offsets[d]
	}
	it.bounds = it.bounds.Invalidate()
}

// Sub moves the center by -off.
func (it *ConstIterator[T]) Sub(off nd.Offset) {
	it.mustBeInitialized()
	offsets := it.img.OffsetTable()
	for d, v := range off {
		it.loop[d] -= v
		it.base -= v * offsets[d]
	}
	it.bounds = it.bounds.Invalidate()
}

// InBounds reports whether the whole window lies inside the buffered region.
func (it *ConstIterator[T]) InBounds() bool {
	it.mustBeInitialized()
	var in bool
	in, it.bounds = it.bounds.Resolve(it.loop, it.innerLow, it.innerHigh)
	return in
}

// Bounds returns the current bounds cache.
func (it *ConstIterator[T]) Bounds() BoundsCache { return it.bounds }

// GetPixel returns neighbor n and whether it was read from the buffer
// rather than synthesized by the boundary condition.
func (it *ConstIterator[T]) GetPixel(n int) (T, bool) {
	it.mustBeInitialized()
	if !it.needBounds || it.InBounds() {
		return it.img.Data()[it.base+it.deltas[n]], true
	}

	it.geom.ComputeInternalIndexInto(n, it.internal)
	inside := true
	for d, i := range it.internal {
		it.overflow[d] = 0
		if it.bounds.dims[d] {
			continue
		}
		corner := it.loop[d] - it.radius[d]
		low, high := it.bufLow[d]-corner, it.bufHigh[d]-corner
		switch {
		case i < low:
			it.overflow[d] = low - i
			inside = false
		case i > high:
			it.overflow[d] = high - i
			inside = false
		}
	}
	if inside {
		return it.img.Data()[it.base+it.deltas[n]], true
	}
	return it.BoundaryCondition().Evaluate(it.request(), it.img), false
}

func (it *ConstIterator[T]) request() boundary.Request {
	return boundary.Request{
		Internal: it.internal,
		Overflow: it.overflow,
		Location: it.loop,
		Radius:   it.radius,
	}
}

// Pixel returns neighbor n.
func (it *ConstIterator[T]) Pixel(n int) T {
	v, _ := it.GetPixel(n)
	return v
}

// CenterPixel returns the pixel under the window center.
func (it *ConstIterator[T]) CenterPixel() T {
	return it.Pixel(it.geom.Center())
}

// PixelAtOffset returns the neighbor at off from the center. It panics when
// off lies outside the window.
func (it *ConstIterator[T]) PixelAtOffset(off nd.Offset) (T, bool) {
	n, ok := it.geom.NeighborIndex(off)
	if !ok {
		panic(fmt.Sprintf("iterator: offset %v outside window of radius %v", []int(off), []int(it.radius)))
	}
	return it.GetPixel(n)
}

// GetNeighborhood returns a snapshot of the window at the current position.
func (it *ConstIterator[T]) GetNeighborhood() *neighborhood.Neighborhood[T] {
	it.mustBeInitialized()
	values := make([]T, it.geom.Len())
	it.NeighborhoodInto(values)
	return neighborhood.FromValues(it.geom, values)
}

// NeighborhoodInto writes the window values into dst, which must have Len()
// entries. Values equal GetPixel(n) for every n.
func (it *ConstIterator[T]) NeighborhoodInto(dst []T) {
	it.mustBeInitialized()
	if len(dst) != it.geom.Len() {
		panic(fmt.Sprintf("iterator: neighborhood buffer has %d entries, want %d", len(dst), it.geom.Len()))
	}
	data := it.img.Data()
	if !it.needBounds || it.InBounds() {
		for n, delta := range it.deltas {
			dst[n] = data[it.base+delta]
		}
		return
	}

	for d := range it.internal {
		corner := it.loop[d] - it.radius[d]
		it.overLow[d] = it.bufLow[d] - corner
		it.overHigh[d] = it.bufHigh[d] - corner
		it.internal[d] = 0
	}
	cond := it.BoundaryCondition()
	for n := range dst {
		inside := true
		for d, i := range it.internal {
			it.overflow[d] = 0
			if it.bounds.dims[d] {
				continue
			}
			switch {
			case i < it.overLow[d]:
				it.overflow[d] = it.overLow[d] - i
				inside = false
			case i > it.overHigh[d]:
				it.overflow[d] = it.overHigh[d] - i
				inside = false
			}
		}
		if inside {
			dst[n] = data[it.base+it.deltas[n]]
		} else {
			dst[n] = cond.Evaluate(it.request(), it.img)
		}

		for d := range it.internal {
			it.internal[d]++
			if it.internal[d] < it.geom.SizeAt(d) {
				break
			}
			it.internal[d] = 0
		}
	}
}

// SetBoundaryCondition replaces the iterator's own boundary condition. A
// shared condition installed with OverrideBoundaryCondition keeps priority.
func (it *ConstIterator[T]) SetBoundaryCondition(c boundary.Condition[T]) error {
	if err := c.Validate(); err != nil {
		return err
	}
	it.cond = c
	return nil
}

// OverrideBoundaryCondition makes the iterator read its boundary condition
// through c. A nil c is equivalent to ResetBoundaryCondition.
func (it *ConstIterator[T]) OverrideBoundaryCondition(c *boundary.Condition[T]) error {
	if c == nil {
		it.shared = nil
		return nil
	}
	if err := c.Validate(); err != nil {
		return err
	}
	it.shared = c
	return nil
}

// ResetBoundaryCondition drops any shared condition and reverts to the
// iterator's own.
func (it *ConstIterator[T]) ResetBoundaryCondition() {
	it.shared = nil
}

// BoundaryCondition returns the condition currently in effect.
func (it *ConstIterator[T]) BoundaryCondition() boundary.Condition[T] {
	if it.shared != nil {
		return *it.shared
	}
	return it.cond
}

// Clone returns an independent iterator at the same position. The image,
// the geometry tables and any shared boundary condition are shared.
func (it *ConstIterator[T]) Clone() *ConstIterator[T] {
	c := *it
	c.loop = it.loop.Clone()
	c.bounds = it.bounds.clone()
	dim := len(it.loop)
	c.internal = make(nd.Offset, dim)
	c.overflow = make(nd.Offset, dim)
	c.overLow = make([]int, dim)
	c.overHigh = make([]int, dim)
	return &c
}

// All rewinds the iterator and yields the center index at every position
// of the region. The yielded index is reused and must not be retained or
// modified; the iterator is at the end afterwards unless iteration stopped
// early.
func (it *ConstIterator[T]) All() iter.Seq[nd.Index] {
	return func(yield func(nd.Index) bool) {
		for it.GoToBegin(); !it.IsAtEnd(); it.Next() {
			if !yield(it.loop) {
				return
			}
		}
	}
}

// String describes the iterator state.
func (it *ConstIterator[T]) String() string {
	if it.img == nil {
		return "ConstIterator{uninitialized}"
	}
	return fmt.Sprintf("ConstIterator{region=%v radius=%v index=%v begin=%v end=%v innerLow=%v innerHigh=%v needBounds=%t condition=%v}",
		it.region, []int(it.radius), []int(it.loop), []int(it.begin), []int(it.end),
		it.innerLow, it.innerHigh, it.needBounds, it.BoundaryCondition())
}
