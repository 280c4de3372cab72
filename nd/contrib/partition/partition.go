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

// Package partition splits regions into disjoint sub-regions for parallel
// processing.
//
// Regions are cut along their slowest dimension, so every piece is a run of
// whole rows (or planes) and pieces never share memory in the destination
// buffer.
package partition

import (
	"github.com/agilira/go-errors"
	"github.com/samber/lo"

	"github.com/ajroetker/go-stencil/nd"
)

// SplitDimension returns the slowest dimension with more than one index, or
// -1 when no dimension can be split.
func SplitDimension(region nd.Region) int {
	for d := region.Dim() - 1; d >= 0; d-- {
		if region.Size[d] > 1 {
			return d
		}
	}
	return -1
}

// Split divides region into at most n contiguous, disjoint sub-regions that
// together cover it exactly. Pieces hold ceil(size/n) slices of the split
// dimension; the last one may be shorter. A region that cannot be split is
// returned as a single piece.
func Split(region nd.Region, n int) ([]nd.Region, error) {
	if n < 1 {
		return nil, errors.New(nd.ErrCodeInvalidPartition, "partition count must be positive").
			WithContext("count", n)
	}
	if err := region.Validate(); err != nil {
		return nil, errors.Wrap(err, nd.ErrCodeInvalidPartition, "cannot split invalid region")
	}

	d := SplitDimension(region)
	if d < 0 || region.IsEmpty() || n == 1 {
		return []nd.Region{region.Clone()}, nil
	}

	extent := region.Size[d]
	chunk := (extent + n - 1) / n
	pieces := (extent + chunk - 1) / chunk
	return lo.Times(pieces, func(i int) nd.Region {
		part := region.Clone()
		part.Index[d] += i * chunk
		part.Size[d] = min(chunk, extent-i*chunk)
		return part
	}), nil
}

// Covers reports whether parts are disjoint, lie inside whole and together
// hold every pixel of whole.
func Covers(whole nd.Region, parts []nd.Region) bool {
	for i, p := range parts {
		if !whole.IsInsideRegion(p) {
			return false
		}
		for _, q := range parts[i+1:] {
			if p.IsEmpty() || q.IsEmpty() {
				continue
			}
			if _, overlap := p.Crop(q); overlap {
				return false
			}
		}
	}
	total := lo.SumBy(parts, func(p nd.Region) int { return p.NumberOfPixels() })
	return total == whole.NumberOfPixels()
}
