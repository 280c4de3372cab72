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

// Package summation provides an error-compensated running sum.
//
// CompensatedSum keeps a running sum plus a compensation term holding the
// low-order bits lost to rounding, so the error of an N-term sum stays
// within a few ulps instead of growing with N. Both terms are carried in
// nd.Accumulate (float64) regardless of the input type.
//
// Example:
//
//	var s summation.CompensatedSum[float32]
//	for _, v := range []float32{1e16, 1, -1e16} {
//	    s.Add(v)
//	}
//	s.Sum() // 1
package summation

import (
	"math"

	"github.com/ajroetker/go-stencil/nd"
)

// CompensatedSum accumulates values with Kahan–Babuška error feedback.
// The zero value is an empty sum ready for use.
type CompensatedSum[T nd.Floats] struct {
	sum          nd.Accumulate
	compensation nd.Accumulate
}

// AddElement folds x into the sum.
//
// The explicit conversions force each intermediate to be rounded to
// float64; Go may otherwise fuse floating-point operations across
// statements, which would discard exactly the bits being recovered.
func (s *CompensatedSum[T]) AddElement(x T) {
	input := nd.Accumulate(x)
	tempSum := nd.Accumulate(s.sum + input)
	if math.Abs(s.sum) >= math.Abs(input) {
		s.compensation += nd.Accumulate(nd.Accumulate(s.sum-tempSum) + input)
	} else {
		s.compensation += nd.Accumulate(nd.Accumulate(input-tempSum) + s.sum)
	}
	s.sum = tempSum
}

// Add is AddElement returning the receiver, for chaining.
func (s *CompensatedSum[T]) Add(x T) *CompensatedSum[T] {
	s.AddElement(x)
	return s
}

// Sub subtracts x from the sum.
func (s *CompensatedSum[T]) Sub(x T) *CompensatedSum[T] {
	s.AddElement(-x)
	return s
}

// Mul scales the sum by x.
func (s *CompensatedSum[T]) Mul(x T) *CompensatedSum[T] {
	s.sum *= nd.Accumulate(x)
	s.compensation *= nd.Accumulate(x)
	return s
}

// Div divides the sum by x.
func (s *CompensatedSum[T]) Div(x T) *CompensatedSum[T] {
	s.sum /= nd.Accumulate(x)
	s.compensation /= nd.Accumulate(x)
	return s
}

// Reset sets the sum back to zero.
func (s *CompensatedSum[T]) Reset() {
	s.sum = 0
	s.compensation = 0
}

// Sum returns the current best estimate of the sum. The compensation term
// is already folded in, so no separate correction needs to be applied.
func (s *CompensatedSum[T]) Sum() nd.Accumulate {
	return s.sum + s.compensation
}

// Sum returns the compensated sum of values.
//
// Returns 0 if the slice is empty.
func Sum[T nd.Floats](values []T) nd.Accumulate {
	var s CompensatedSum[T]
	for _, v := range values {
		s.AddElement(v)
	}
	return s.Sum()
}
