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
	"os"
	"strconv"
	"unsafe"
)

// DispatchLevel represents the vector instruction set rows are aligned for.
type DispatchLevel int

const (
	// DispatchScalar indicates packed rows with no alignment padding.
	DispatchScalar DispatchLevel = iota

	// DispatchSSE2 indicates 128-bit alignment (x86-64 baseline).
	DispatchSSE2

	// DispatchAVX2 indicates 256-bit alignment.
	DispatchAVX2

	// DispatchAVX512 indicates 512-bit alignment.
	DispatchAVX512

	// DispatchNEON indicates 128-bit alignment on ARM.
	DispatchNEON
)

// String returns a human-readable name for the dispatch level.
func (d DispatchLevel) String() string {
	switch d {
	case DispatchScalar:
		return "scalar"
	case DispatchSSE2:
		return "sse2"
	case DispatchAVX2:
		return "avx2"
	case DispatchAVX512:
		return "avx512"
	case DispatchNEON:
		return "neon"
	default:
		return "unknown"
	}
}

// currentLevel is the detected level for this runtime.
// Set by init() in dispatch_*.go files.
var currentLevel DispatchLevel

// currentWidth is the vector width in bytes for the current level,
// or 0 in scalar mode. Set by init() in dispatch_*.go files.
var currentWidth int

// currentName is the human-readable name of the current level.
var currentName string

// CurrentLevel returns the instruction set rows are aligned for.
func CurrentLevel() DispatchLevel {
	return currentLevel
}

// CurrentWidth returns the vector width in bytes, or 0 in scalar mode.
// For example: 16 for SSE2/NEON, 32 for AVX2, 64 for AVX-512.
func CurrentWidth() int {
	return currentWidth
}

// CurrentName returns a human-readable name for the current target.
func CurrentName() string {
	return currentName
}

// NoSimdEnv checks if the ND_NO_SIMD environment variable is set.
// When set, images are allocated with packed rows regardless of CPU
// capabilities. This is useful for testing layouts without padding.
func NoSimdEnv() bool {
	val := os.Getenv("ND_NO_SIMD")
	if val == "" {
		return false
	}
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return true
}

// MaxLanes returns the number of T elements in one vector of the current
// width, or 1 in scalar mode.
//
// For example, with AVX2 (32 bytes):
//   - float32: 32/4 = 8 lanes
//   - float64: 32/8 = 4 lanes
func MaxLanes[T Lanes]() int {
	var dummy T
	elementSize := int(unsafe.Sizeof(dummy))
	if elementSize == 0 || currentWidth < elementSize {
		return 1
	}
	return currentWidth / elementSize
}

// RowAlignment returns the element multiple the fastest dimension of an
// image buffer is padded to.
func RowAlignment[T Lanes]() int {
	return MaxLanes[T]()
}

func setScalarMode() {
	currentLevel = DispatchScalar
	currentWidth = 0
	currentName = "scalar"
}
