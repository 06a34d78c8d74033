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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compress-io/compress/base"
)

func TestSampleParams(t *testing.T) {
	grid := ParamsGrid{
		Lr:        {0.1, 0.01, 0.001},
		BatchSize: {10, 20, 50, 100},
	}
	candidates, err := SampleParams(grid, 8, base.NewRandomGenerator(1))
	require.NoError(t, err)
	assert.Len(t, candidates, 8)
	for _, params := range candidates {
		assert.Contains(t, grid[Lr], params[Lr])
		assert.Contains(t, grid[BatchSize], params[BatchSize])
	}
	// same seed reproduces the same candidates
	again, err := SampleParams(grid, 8, base.NewRandomGenerator(1))
	require.NoError(t, err)
	assert.Equal(t, candidates, again)
}

func TestSampleParams_Singleton(t *testing.T) {
	grid := ParamsGrid{
		Lr:        {0.01},
		BatchSize: {10},
		NEpochs:   {5},
		L1Penalty: {0.0},
	}
	// the single combination comes back regardless of seed or trial count
	for _, seed := range []int64{0, 1, 1000} {
		candidates, err := SampleParams(grid, 100, base.NewRandomGenerator(seed))
		require.NoError(t, err)
		require.Len(t, candidates, 1)
		assert.Equal(t, Params{Lr: 0.01, BatchSize: 10, NEpochs: 5, L1Penalty: 0.0}, candidates[0])
	}
}

func TestSampleParams_Invalid(t *testing.T) {
	_, err := SampleParams(ParamsGrid{}, 10, base.NewRandomGenerator(0))
	assert.ErrorIs(t, err, ErrConfiguration)
	_, err = SampleParams(ParamsGrid{Lr: {}}, 10, base.NewRandomGenerator(0))
	assert.ErrorIs(t, err, ErrConfiguration)
	_, err = SampleParams(ParamsGrid{Lr: {0.1, 0.2}}, 0, base.NewRandomGenerator(0))
	assert.ErrorIs(t, err, ErrConfiguration)
}
