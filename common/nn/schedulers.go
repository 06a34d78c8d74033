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

package nn

import "github.com/chewxy/math32"

// ReduceLROnPlateau lowers the optimizer's learning rate by factor once the
// monitored loss stops improving for patience consecutive steps. Call Step
// once per epoch with the total epoch loss.
type ReduceLROnPlateau struct {
	optimizer Optimizer
	factor    float32
	patience  int
	threshold float32
	best      float32
	numBad    int
}

func NewReduceLROnPlateau(optimizer Optimizer, factor float32, patience int) *ReduceLROnPlateau {
	return &ReduceLROnPlateau{
		optimizer: optimizer,
		factor:    factor,
		patience:  patience,
		threshold: 1e-4,
		best:      math32.Inf(1),
	}
}

func (s *ReduceLROnPlateau) Step(loss float32) {
	if math32.IsInf(s.best, 1) || loss < s.best-s.threshold*math32.Abs(s.best) {
		s.best = loss
		s.numBad = 0
		return
	}
	s.numBad++
	if s.numBad > s.patience {
		s.optimizer.SetLr(s.optimizer.Lr() * s.factor)
		s.numBad = 0
	}
}
