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

// Package image provides n-dimensional pixel buffers with aligned rows.
//
// An Image[T] owns contiguous storage for a buffered region (origin index
// plus size per dimension) and exposes an offset table so an index maps to
// a flat position:
//
//	pos := img.ComputeOffset(idx) // sum((idx[d]-origin[d]) * offsets[d])
//
// The fastest dimension is padded to the vector width reported by
// nd.RowAlignment, so walking a sub-region needs a wrap offset per
// dimension; RegionIterator does that bookkeeping.
//
// # Usage Example
//
//	img := image.New2D[float32](640, 480)
//	img.FillFunc(func(idx nd.Index) float32 { return float32(idx[0] + idx[1]) })
//
//	it, _ := image.NewRegionIterator(img, nd.NewRegion(nd.Index{10, 10}, nd.Size{5, 5}))
//	for ; !it.IsAtEnd(); it.Next() {
//	    it.Set(it.Get() * 2)
//	}
//
// # Edge Handling
//
// Coordinate helper functions for handling out-of-bounds pixel access:
//
//	Mirror(index, start, size) - reflect at boundaries
//	Clamp(index, start, size)  - repeat edge pixels
//	Wrap(index, start, size)   - tile/wrap around
package image
