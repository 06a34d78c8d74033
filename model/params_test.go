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
)

func TestParams_Accessors(t *testing.T) {
	p := Params{
		Lr:          0.001,
		BatchSize:   10,
		NEpochs:     100,
		RandomState: int64(42),
	}
	assert.Equal(t, float32(0.001), p.GetFloat32(Lr, 0))
	assert.Equal(t, 0.001, p.GetFloat64(Lr, 0))
	assert.Equal(t, 10, p.GetInt(BatchSize, 0))
	assert.Equal(t, int64(42), p.GetInt64(RandomState, 0))
	// defaults
	assert.Equal(t, float32(1), p.GetFloat32(L1Penalty, 1))
	assert.Equal(t, 4, p.GetInt(NFactors, 4))
	// int promotion
	assert.Equal(t, float32(100), p.GetFloat32(NEpochs, 0))
	assert.Equal(t, int64(100), p.GetInt64(NEpochs, 0))
}

func TestParams_Overwrite(t *testing.T) {
	p := Params{Lr: 0.1, BatchSize: 10}
	merged := p.Overwrite(Params{Lr: 0.2, NEpochs: 5})
	assert.Equal(t, Params{Lr: 0.2, BatchSize: 10, NEpochs: 5}, merged)
	// receiver untouched
	assert.Equal(t, Params{Lr: 0.1, BatchSize: 10}, p)
}

func TestParamsGrid(t *testing.T) {
	grid := ParamsGrid{
		Lr:        {0.1, 0.01},
		BatchSize: {10, 20, 50},
	}
	assert.Equal(t, 6, grid.NumCombinations())
	assert.False(t, grid.Singleton())
	assert.Equal(t, []ParamName{BatchSize, Lr}, grid.Names())

	single := ParamsGrid{Lr: {0.1}, BatchSize: {10}}
	assert.True(t, single.Singleton())
	assert.False(t, ParamsGrid{}.Singleton())

	grid.Fill(ParamsGrid{NEpochs: {100}})
	assert.Equal(t, []interface{}{100}, grid[NEpochs])
}
