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

func TestKFoldSplit(t *testing.T) {
	folds, err := KFoldSplit(10, 4, base.NewRandomGenerator(1))
	require.NoError(t, err)
	require.Len(t, folds, 4)
	seen := make(map[int]int)
	for _, fold := range folds {
		assert.Len(t, fold.Subtrain, 10-len(fold.Tune))
		overlap := make(map[int]bool)
		for _, i := range fold.Subtrain {
			overlap[i] = true
		}
		for _, i := range fold.Tune {
			assert.False(t, overlap[i])
			seen[i]++
		}
	}
	// every index appears exactly once as tune
	require.Len(t, seen, 10)
	for _, count := range seen {
		assert.Equal(t, 1, count)
	}
}

func TestKFoldSplit_Deterministic(t *testing.T) {
	a, err := KFoldSplit(20, 5, base.NewRandomGenerator(7))
	require.NoError(t, err)
	b, err := KFoldSplit(20, 5, base.NewRandomGenerator(7))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestKFoldSplit_Invalid(t *testing.T) {
	_, err := KFoldSplit(10, 1, base.NewRandomGenerator(0))
	assert.ErrorIs(t, err, ErrConfiguration)
	_, err = KFoldSplit(3, 4, base.NewRandomGenerator(0))
	assert.ErrorIs(t, err, ErrConfiguration)
}
