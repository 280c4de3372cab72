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

// Package update applies scaled update fields to images in parallel.
//
// Every call runs in two phases. The first partitions the region, one
// sub-region per worker, and prepares each worker's iterators; any
// configuration error is reported here, before a single pixel is written.
// The second runs the workers on disjoint sub-regions, each folding its
// squared changes into its own compensated accumulator. After all workers
// have joined, the partial sums are added together.
package update

import (
	"math"

	"github.com/agilira/go-errors"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/ajroetker/go-stencil/nd"
	"github.com/ajroetker/go-stencil/nd/contrib/image"
	"github.com/ajroetker/go-stencil/nd/contrib/partition"
	"github.com/ajroetker/go-stencil/nd/contrib/summation"
)

// Result summarizes an applied update.
type Result struct {
	// SumSquares is the sum of (dt*u)^2 over the region.
	SumSquares nd.Accumulate

	// Pixels is the number of updated pixels.
	Pixels int

	// RMSChange is sqrt(SumSquares/Pixels), zero for an empty region.
	RMSChange nd.Accumulate
}

func newResult(sumSquares nd.Accumulate, pixels int) Result {
	r := Result{SumSquares: sumSquares, Pixels: pixels}
	if pixels > 0 {
		r.RMSChange = math.Sqrt(sumSquares / nd.Accumulate(pixels))
	}
	return r
}

// applyUnit holds one worker's iterators. When both fields share a layout,
// update is nil and the update pixel is read at the target's offset.
type applyUnit[T nd.Floats] struct {
	target, update *image.RegionIterator[T]
	field          *image.Image[T]
}

// Apply adds dt*update to target over region and reports the size of the
// change. Both images must contain region; they may differ in layout.
func Apply[T nd.Floats](target, update *image.Image[T], region nd.Region, dt T, cfg Config) (Result, error) {
	c := cfg.WithDefaults()
	if target == nil || update == nil {
		return Result{}, errors.New(nd.ErrCodeInvalidField, "target and update fields are required")
	}

	parts, err := partition.Split(region, c.Workers)
	if err != nil {
		return Result{}, err
	}

	lockstep := image.SameGeometry(target, update)
	units := make([]applyUnit[T], len(parts))
	var g errgroup.Group
	g.SetLimit(c.Workers)
	for i, part := range parts {
		g.Go(func() error {
			unit, err := newApplyUnit(target, update, part, lockstep)
			if err != nil {
				return err
			}
			units[i] = unit
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	pool, release := c.pool()
	defer release()

	partial := make([]nd.Accumulate, len(units))
	pool.ForEachRegion(parts, func(i int, _ nd.Region) {
		partial[i] = applyPart(units[i], dt)
	})

	res := newResult(lo.Sum(partial), region.NumberOfPixels())
	c.Logger.Debug("update: applied",
		"region", region.String(),
		"parts", len(parts),
		"lockstep", lockstep,
		"pixels", res.Pixels,
		"rms_change", res.RMSChange)
	return res, nil
}

func newApplyUnit[T nd.Floats](target, update *image.Image[T], part nd.Region, lockstep bool) (applyUnit[T], error) {
	t, err := image.NewRegionIterator(target, part)
	if err != nil {
		return applyUnit[T]{}, errors.Wrap(err, nd.ErrCodeInvalidField, "target field does not contain the update region").
			WithContext("part", part.String())
	}
	if lockstep {
		return applyUnit[T]{target: t, field: update}, nil
	}
	u, err := image.NewRegionIterator(update, part)
	if err != nil {
		return applyUnit[T]{}, errors.Wrap(err, nd.ErrCodeInvalidField, "update field does not contain the update region").
			WithContext("part", part.String())
	}
	return applyUnit[T]{target: t, update: u}, nil
}

// applyPart walks one sub-region of both fields and returns the compensated
// sum of squared changes.
func applyPart[T nd.Floats](u applyUnit[T], dt T) nd.Accumulate {
	var acc summation.CompensatedSum[nd.Accumulate]
	for t := u.target; !t.IsAtEnd(); t.Next() {
		var delta T
		if u.update == nil {
			delta = dt * u.field.AtOffset(t.Offset())
		} else {
			delta = dt * u.update.Get()
			u.update.Next()
		}
		t.Set(t.Get() + delta)
		d := nd.Accumulate(delta)
		acc.AddElement(d * d)
	}
	return acc.Sum()
}

// ApplySerial is Apply on the calling goroutine with a single accumulator.
func ApplySerial[T nd.Floats](target, update *image.Image[T], region nd.Region, dt T) (Result, error) {
	if target == nil || update == nil {
		return Result{}, errors.New(nd.ErrCodeInvalidField, "target and update fields are required")
	}
	unit, err := newApplyUnit(target, update, region, image.SameGeometry(target, update))
	if err != nil {
		return Result{}, err
	}
	return newResult(applyPart(unit, dt), region.NumberOfPixels()), nil
}
