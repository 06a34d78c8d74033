// Copyright 2026 compress Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package model

import (
	"github.com/juju/errors"

	"github.com/compress-io/compress/base"
)

// SampleParams draws numTrials hyper-parameter combinations from the grid,
// uniformly with replacement per parameter. Duplicate combinations across
// trials are allowed and expected. The caller owns the random generator, so
// the same seed reproduces the same candidates.
//
// If every parameter has exactly one candidate, that single combination is
// returned regardless of numTrials and the search must be skipped entirely.
func SampleParams(grid ParamsGrid, numTrials int, rng base.RandomGenerator) ([]Params, error) {
	if len(grid) == 0 {
		return nil, errors.Annotate(ErrConfiguration, "empty candidate grid")
	}
	names := grid.Names()
	for _, name := range names {
		if len(grid[name]) == 0 {
			return nil, errors.Annotatef(ErrConfiguration, "no candidates for %v", name)
		}
	}
	if grid.Singleton() {
		params := make(Params, len(grid))
		for _, name := range names {
			params[name] = grid[name][0]
		}
		return []Params{params}, nil
	}
	if numTrials <= 0 {
		return nil, errors.Annotatef(ErrConfiguration, "numTrials must be positive, got %d", numTrials)
	}
	candidates := make([]Params, numTrials)
	for i := 0; i < numTrials; i++ {
		params := make(Params, len(grid))
		for _, name := range names {
			values := grid[name]
			params[name] = values[rng.Intn(len(values))]
		}
		candidates[i] = params
	}
	return candidates, nil
}
