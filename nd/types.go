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

// Package nd holds the index-space vocabulary shared by the go-stencil
// packages: per-dimension indices, sizes and offsets, rectangular regions,
// the element type constraints, and the runtime row-alignment width.
//
// Dimension 0 is the fastest varying dimension everywhere. A buffer of
// dimension D is described by D-element Index, Size and Offset slices; all
// index arithmetic is signed.
//
// Basic usage:
//
//	import "github.com/ajroetker/go-stencil/nd"
//
//	r := nd.NewRegion(nd.Index{0, 0}, nd.Size{640, 480})
//	padded := r.PadByRadius(nd.Size{1, 1})
//	fmt.Println(padded) // [-1 -1]+[642 482]
package nd

// Floats is a constraint for floating-point types.
type Floats interface {
	~float32 | ~float64
}

// SignedInts is a constraint for signed integer types.
type SignedInts interface {
	~int8 | ~int16 | ~int32 | ~int64
}

// UnsignedInts is a constraint for unsigned integer types.
type UnsignedInts interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Integers is a constraint for all integer types.
type Integers interface {
	SignedInts | UnsignedInts
}

// Lanes is a constraint for all pixel types an image can store.
type Lanes interface {
	Floats | Integers
}

// Accumulate is the type sums of Lanes values are carried in.
// float32 inputs widen to float64; float64 stays float64.
type Accumulate = float64
