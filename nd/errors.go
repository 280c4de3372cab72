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
	goerrors "errors"
	"log/slog"
	"sync/atomic"

	"github.com/agilira/go-errors"
)

// Error codes for configuration failures. Out-of-bounds neighbor access is
// never an error.
const (
	ErrCodeInvalidImage             = "ND_INVALID_IMAGE"
	ErrCodeDimensionMismatch        = "ND_DIMENSION_MISMATCH"
	ErrCodeInvalidRadius            = "ND_INVALID_RADIUS"
	ErrCodeInvalidRegion            = "ND_INVALID_REGION"
	ErrCodeInvalidBoundaryCondition = "ND_INVALID_BOUNDARY_CONDITION"
	ErrCodeInvalidPartition         = "ND_INVALID_PARTITION"
	ErrCodeInvalidField             = "ND_INVALID_FIELD"
)

// HasCode reports whether err, or any error it wraps, carries code.
func HasCode(err error, code string) bool {
	for err != nil {
		if coder, ok := err.(errors.ErrorCoder); ok && string(coder.ErrorCode()) == code {
			return true
		}
		err = goerrors.Unwrap(err)
	}
	return false
}

var logger atomic.Pointer[slog.Logger]

// Logger returns the logger used by the go-stencil packages.
// It defaults to slog.Default().
func Logger() *slog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return slog.Default()
}

// SetLogger replaces the package logger. A nil logger restores the default.
func SetLogger(l *slog.Logger) {
	logger.Store(l)
}
