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

// Package iterator walks a neighborhood window over a region of an image.
//
// A ConstIterator keeps the window center as one flat offset into the image
// buffer plus a table of per-neighbor deltas, so stepping costs O(1) apart
// from the occasional wrap offset when a dimension rolls over. Windows that
// overlap the edge of the buffered region are detected per dimension;
// neighbors outside the buffer are synthesized by the iterator's
// boundary.Condition while neighbors inside it are read from memory. The
// iteration region may itself extend past the buffered region; centers
// outside the buffer are handled the same way.
//
// # Usage Example
//
//	img := image.New2D[float32](640, 480)
//	it, err := iterator.New(nd.Size{1, 1}, img, img.BufferedRegion(),
//	    iterator.WithBoundaryCondition(boundary.NewMirror[float32]()))
//	if err != nil {
//	    return err
//	}
//	kernel := neighborhood.BoxKernel[float32](nd.Size{1, 1})
//	for it.GoToBegin(); !it.IsAtEnd(); it.Next() {
//	    mean := neighborhood.InnerProduct(it.GetNeighborhood(), kernel)
//	    _ = mean
//	}
//
// # Bounds
//
// Dimension d of the window is in bounds when
//
//	innerLow[d] <= center[d] < innerHigh[d]
//
// with innerLow = bufferStart + radius and innerHigh = bufferStart +
// bufferSize - radius, i.e. exactly when the window's extent in d lies
// inside the buffer. The result is cached until the iterator moves.
//
// A ConstIterator is not safe for concurrent use; give each goroutine its
// own iterator (Clone is cheap). Boundary conditions are values and may be
// shared read-only.
package iterator
