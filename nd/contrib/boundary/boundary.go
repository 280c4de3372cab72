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

// Package boundary synthesizes pixel values for window positions that fall
// outside an image's buffered region.
//
// A Condition is a small value type tagged with its Kind; evaluation is a
// single switch, so conditions can be copied freely and shared read-only
// between goroutines.
//
//	ZeroFlux  - replicate the nearest edge pixel (the zero value)
//	Constant  - return a fixed value
//	Periodic  - wrap around the buffered region
//	Mirror    - reflect at the buffered region edges
package boundary

import (
	"fmt"

	"github.com/agilira/go-errors"

	"github.com/ajroetker/go-stencil/nd"
	"github.com/ajroetker/go-stencil/nd/contrib/image"
)

// Kind selects the synthesis rule of a Condition.
type Kind uint8

const (
	// ZeroFlux replicates the nearest pixel inside the buffer
	// (zero-flux Neumann condition).
	ZeroFlux Kind = iota

	// Constant returns a fixed value.
	Constant

	// Periodic wraps indices around the buffered region.
	Periodic

	// Mirror reflects indices at the buffered region edges.
	Mirror

	numKinds
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case ZeroFlux:
		return "zero-flux"
	case Constant:
		return "constant"
	case Periodic:
		return "periodic"
	case Mirror:
		return "mirror"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// ParseKind returns the kind named s, as produced by Kind.String.
func ParseKind(s string) (Kind, error) {
	for k := range numKinds {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, errors.New(nd.ErrCodeInvalidBoundaryCondition, "unknown boundary condition name").
		WithContext("name", s)
}

// Condition is a boundary condition. The zero value is ZeroFlux.
type Condition[T nd.Lanes] struct {
	kind  Kind
	value T
}

// New returns a condition of the given kind. value is only used by
// Constant. Call Validate before use when kind comes from outside.
func New[T nd.Lanes](kind Kind, value T) Condition[T] {
	return Condition[T]{kind: kind, value: value}
}

// ZeroFluxNeumann returns a condition replicating edge pixels.
func ZeroFluxNeumann[T nd.Lanes]() Condition[T] {
	return Condition[T]{kind: ZeroFlux}
}

// NewConstant returns a condition producing v for every outside pixel.
func NewConstant[T nd.Lanes](v T) Condition[T] {
	return Condition[T]{kind: Constant, value: v}
}

// NewPeriodic returns a condition wrapping around the buffered region.
func NewPeriodic[T nd.Lanes]() Condition[T] {
	return Condition[T]{kind: Periodic}
}

// NewMirror returns a condition reflecting at the buffered region edges.
func NewMirror[T nd.Lanes]() Condition[T] {
	return Condition[T]{kind: Mirror}
}

// Kind returns the rule this condition applies.
func (c Condition[T]) Kind() Kind { return c.kind }

// Value returns the constant of a Constant condition, zero otherwise.
func (c Condition[T]) Value() T { return c.value }

// String describes the condition.
func (c Condition[T]) String() string {
	if c.kind == Constant {
		return fmt.Sprintf("constant(%v)", c.value)
	}
	return c.kind.String()
}

// Validate reports an unknown kind.
func (c Condition[T]) Validate() error {
	if c.kind >= numKinds {
		return errors.New(nd.ErrCodeInvalidBoundaryCondition, "unknown boundary condition kind").
			WithContext("kind", uint8(c.kind))
	}
	return nil
}

// Request describes one out-of-bounds neighbor lookup.
type Request struct {
	// Internal is the neighbor's offset from the window's lower corner.
	Internal nd.Offset

	// Overflow is, per dimension, the signed distance that brings Internal
	// back to the nearest position inside the buffer; zero where in range.
	Overflow nd.Offset

	// Location is the index of the window center.
	Location nd.Index

	// Radius is the window radius.
	Radius nd.Size
}

// Evaluate returns the substitute value for req. img is only read.
func (c Condition[T]) Evaluate(req Request, img *image.Image[T]) T {
	if c.kind == Constant {
		return c.value
	}

	start, size := img.BufferedIndex(), img.BufferedSize()
	offsets := img.OffsetTable()
	off := 0
	for d := range req.Internal {
		idx := req.Location[d] - req.Radius[d] + req.Internal[d]
		switch c.kind {
		case ZeroFlux:
			idx += req.Overflow[d]
		case Periodic:
			idx = image.Wrap(idx, start[d], size[d])
		case Mirror:
			idx = image.Mirror(idx, start[d], size[d])
		default:
			panic(fmt.Sprintf("boundary: cannot evaluate %v", c.kind))
		}
		off += (idx - start[d]) * offsets[d]
	}
	return img.AtOffset(off)
}
