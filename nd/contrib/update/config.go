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
	"log/slog"
	"runtime"

	"github.com/ajroetker/go-stencil/nd"
	"github.com/ajroetker/go-stencil/nd/contrib/workerpool"
)

// Config controls how an update is spread over workers.
type Config struct {
	// Workers is the number of sub-regions the update region is split into.
	// Defaults to the pool size, or GOMAXPROCS without a pool.
	Workers int

	// Pool runs the work units. When nil, each call creates and closes its
	// own pool.
	Pool *workerpool.Pool

	// Logger receives per-call debug records. Defaults to nd.Logger().
	Logger *slog.Logger
}

// WithDefaults returns a copy of c with unset fields filled in.
func (c *Config) WithDefaults() *Config {
	config := *c

	if config.Workers <= 0 && config.Pool != nil {
		config.Workers = config.Pool.NumWorkers()
	}
	if config.Workers <= 0 {
		config.Workers = runtime.GOMAXPROCS(0)
	}
	if config.Logger == nil {
		config.Logger = nd.Logger()
	}
	return &config
}

// pool returns the configured pool and a release func that closes it when it
// was created for this call.
func (c *Config) pool() (*workerpool.Pool, func()) {
	if c.Pool != nil {
		return c.Pool, func() {}
	}
	p := workerpool.New(c.Workers)
	return p, p.Close
}
