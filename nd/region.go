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

package nd

import (
	"fmt"
	"slices"

	"github.com/agilira/go-errors"
)

// Index is a signed position in index space, one entry per dimension.
type Index []int

// Size is a non-negative extent, one entry per dimension.
type Size []int

// Offset is a signed displacement in index space, one entry per dimension.
type Offset []int

// Clone returns a copy of the index.
func (idx Index) Clone() Index { return slices.Clone(idx) }

// Equal reports whether both indices have the same entries.
func (idx Index) Equal(o Index) bool { return slices.Equal(idx, o) }

// Add returns idx + off.
func (idx Index) Add(off Offset) Index {
	out := make(Index, len(idx))
	for d := range idx {
		out[d] = idx[d] + off[d]
	}
	return out
}

// Sub returns the offset from o to idx.
func (idx Index) Sub(o Index) Offset {
	out := make(Offset, len(idx))
	for d := range idx {
		out[d] = idx[d] - o[d]
	}
	return out
}

// Clone returns a copy of the size.
func (s Size) Clone() Size { return slices.Clone(s) }

// Equal reports whether both sizes have the same entries.
func (s Size) Equal(o Size) bool { return slices.Equal(s, o) }

// Product returns the number of elements spanned by s.
func (s Size) Product() int {
	n := 1
	for _, v := range s {
		n *= v
	}
	return n
}

// Clone returns a copy of the offset.
func (off Offset) Clone() Offset { return slices.Clone(off) }

// Equal reports whether both offsets have the same entries.
func (off Offset) Equal(o Offset) bool { return slices.Equal(off, o) }

// Neg returns -off.
func (off Offset) Neg() Offset {
	out := make(Offset, len(off))
	for d, v := range off {
		out[d] = -v
	}
	return out
}

// Filled returns a D-element slice with every entry set to v.
func Filled[S ~[]int](dim, v int) S {
	out := make(S, dim)
	for d := range out {
		out[d] = v
	}
	return out
}

// Region is a rectangular subset of index space.
type Region struct {
	Index Index
	Size  Size
}

// NewRegion returns the region starting at index with the given size.
// The slices are copied.
func NewRegion(index Index, size Size) Region {
	return Region{Index: index.Clone(), Size: size.Clone()}
}

// Dim returns the dimension of the region.
func (r Region) Dim() int {
	return len(r.Index)
}

// NumberOfPixels returns the number of indices inside the region.
func (r Region) NumberOfPixels() int {
	if len(r.Size) == 0 {
		return 0
	}
	return r.Size.Product()
}

// IsEmpty returns true if some dimension has zero extent.
func (r Region) IsEmpty() bool {
	return r.NumberOfPixels() == 0
}

// Upper returns the exclusive upper corner of the region.
func (r Region) Upper() Index {
	out := make(Index, len(r.Index))
	for d := range r.Index {
		out[d] = r.Index[d] + r.Size[d]
	}
	return out
}

// IsInside returns true if idx lies within the region.
func (r Region) IsInside(idx Index) bool {
	if len(idx) != len(r.Index) {
		return false
	}
	for d := range r.Index {
		if idx[d] < r.Index[d] || idx[d] >= r.Index[d]+r.Size[d] {
			return false
		}
	}
	return true
}

// IsInsideRegion returns true if o is entirely contained in r.
// An empty o is inside any region of the same dimension.
func (r Region) IsInsideRegion(o Region) bool {
	if o.Dim() != r.Dim() {
		return false
	}
	if o.IsEmpty() {
		return true
	}
	for d := range r.Index {
		if o.Index[d] < r.Index[d] || o.Index[d]+o.Size[d] > r.Index[d]+r.Size[d] {
			return false
		}
	}
	return true
}

// PadByRadius returns r grown by radius on both sides of every dimension.
func (r Region) PadByRadius(radius Size) Region {
	out := r.Clone()
	for d := range out.Index {
		out.Index[d] -= radius[d]
		out.Size[d] += 2 * radius[d]
	}
	return out
}

// Crop returns the intersection of r and o. The boolean is false when they
// do not overlap.
func (r Region) Crop(o Region) (Region, bool) {
	out := Region{Index: make(Index, r.Dim()), Size: make(Size, r.Dim())}
	for d := range r.Index {
		lo := max(r.Index[d], o.Index[d])
		hi := min(r.Index[d]+r.Size[d], o.Index[d]+o.Size[d])
		if hi <= lo {
			return Region{Index: r.Index.Clone(), Size: make(Size, r.Dim())}, false
		}
		out.Index[d] = lo
		out.Size[d] = hi - lo
	}
	return out, true
}

// Equal reports whether both regions have the same index and size.
func (r Region) Equal(o Region) bool {
	return r.Index.Equal(o.Index) && r.Size.Equal(o.Size)
}

// Clone returns a deep copy of the region.
func (r Region) Clone() Region {
	return Region{Index: r.Index.Clone(), Size: r.Size.Clone()}
}

// String formats the region as index+size.
func (r Region) String() string {
	return fmt.Sprintf("%v+%v", []int(r.Index), []int(r.Size))
}

// Validate checks that index and size agree on dimension and that no
// extent is negative.
func (r Region) Validate() error {
	if len(r.Index) != len(r.Size) {
		return errors.New(ErrCodeDimensionMismatch, "region index and size differ in dimension").
			WithContext("index_dim", len(r.Index)).
			WithContext("size_dim", len(r.Size))
	}
	for d, s := range r.Size {
		if s < 0 {
			return errors.New(ErrCodeInvalidRegion, "region size must be non-negative").
				WithContext("dimension", d).
				WithContext("size", s)
		}
	}
	return nil
}
