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

package update

import (
	"github.com/agilira/go-errors"
	"golang.org/x/sync/errgroup"

	"github.com/ajroetker/go-stencil/nd"
	"github.com/ajroetker/go-stencil/nd/contrib/boundary"
	"github.com/ajroetker/go-stencil/nd/contrib/image"
	"github.com/ajroetker/go-stencil/nd/contrib/iterator"
	"github.com/ajroetker/go-stencil/nd/contrib/partition"
)

// Stencil computes the update value at the iterator's current position.
// It must only read through the iterator.
type Stencil[T nd.Floats] func(it *iterator.ConstIterator[T]) T

type stencilUnit[T nd.Floats] struct {
	in  *iterator.ConstIterator[T]
	out *image.RegionIterator[T]
}

// Evolve performs one explicit step field += dt*stencil(field) over region.
// The stencil sees a window of the given radius; positions near the edge of
// the buffered region use cond, or zero-flux when cond is nil. cond is shared
// read-only by all workers. The update field is computed completely before
// field is modified.
func Evolve[T nd.Floats](field *image.Image[T], region nd.Region, radius nd.Size, dt T,
	stencil Stencil[T], cond *boundary.Condition[T], cfg Config) (Result, error) {
	c := cfg.WithDefaults()
	if field == nil {
		return Result{}, errors.New(nd.ErrCodeInvalidField, "field is required")
	}
	if stencil == nil {
		return Result{}, errors.New(nd.ErrCodeInvalidField, "stencil is required")
	}

	parts, err := partition.Split(region, c.Workers)
	if err != nil {
		return Result{}, err
	}

	delta := image.New[T](field.BufferedRegion())
	var opts []iterator.Option[T]
	if cond != nil {
		opts = append(opts, iterator.WithSharedBoundaryCondition(cond))
	}

	units := make([]stencilUnit[T], len(parts))
	var g errgroup.Group
	g.SetLimit(c.Workers)
	for i, part := range parts {
		g.Go(func() error {
			in, err := iterator.New(radius, field, part, opts...)
			if err != nil {
				return err
			}
			out, err := image.NewRegionIterator(delta, part)
			if err != nil {
				return err
			}
			units[i] = stencilUnit[T]{in: in, out: out}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	pool, release := c.pool()
	defer release()

	pool.ForEachRegion(parts, func(i int, _ nd.Region) {
		in, out := units[i].in, units[i].out
		for ; !in.IsAtEnd(); in.Next() {
			out.Set(stencil(in))
			out.Next()
		}
	})

	c.Pool = pool
	return Apply(field, delta, region, dt, *c)
}

// Laplacian is the second-order finite difference Laplacian with unit grid
// spacing. The window radius must be at least 1 in every dimension.
func Laplacian[T nd.Floats](it *iterator.ConstIterator[T]) T {
	g := it.Geometry()
	n := g.Center()
	center := it.Pixel(n)
	var sum T
	for d := range g.Dim() {
		s := g.Stride(d)
		sum += it.Pixel(n+s) + it.Pixel(n-s) - 2*center
	}
	return sum
}
