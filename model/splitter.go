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

// Fold is one inner cross-validation split of sample indices. Subtrain and
// Tune are disjoint; across all folds every index appears exactly once in
// Tune.
type Fold struct {
	Subtrain []int
	Tune     []int
}

// KFoldSplit partitions n sample indices into k shuffled folds. The caller
// owns the random generator.
func KFoldSplit(n, k int, rng base.RandomGenerator) ([]Fold, error) {
	if k < 2 {
		return nil, errors.Annotatef(ErrConfiguration, "need at least 2 folds, got %d", k)
	}
	if k > n {
		return nil, errors.Annotatef(ErrConfiguration, "cannot split %d samples into %d folds", n, k)
	}
	perm := rng.Perm(n)
	folds := make([]Fold, k)
	foldSize := n / k
	begin, end := 0, 0
	for i := 0; i < k; i++ {
		end += foldSize
		if i < n%k {
			end++
		}
		tune := make([]int, end-begin)
		copy(tune, perm[begin:end])
		subtrain := make([]int, 0, n-len(tune))
		subtrain = append(subtrain, perm[:begin]...)
		subtrain = append(subtrain, perm[end:]...)
		folds[i] = Fold{Subtrain: subtrain, Tune: tune}
		begin = end
	}
	return folds, nil
}
