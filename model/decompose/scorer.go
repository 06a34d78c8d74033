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

package decompose

import (
	"math"

	"github.com/juju/errors"

	"github.com/compress-io/compress/dataset"
	"github.com/compress-io/compress/model"
)

const clipEpsilon = 1e-7

// ReconstructionCost approximates the binary cross entropy between a
// reconstruction and its original input, treating clipped reconstruction
// values as probabilities and converting them to logits. p scales the
// per-sample cost by the number of genes. Reconstruction values outside
// (0, 1) are tolerated: clipping bounds the logits, so the result is always
// finite.
func ReconstructionCost(recon, target *dataset.Matrix, p float64) (float64, error) {
	if recon.NumRows() != target.NumRows() || recon.NumColumns() != target.NumColumns() {
		return 0, errors.Annotatef(model.ErrShapeMismatch,
			"reconstruction %dx%d vs input %dx%d",
			recon.NumRows(), recon.NumColumns(), target.NumRows(), target.NumColumns())
	}
	rows, cols := recon.NumRows(), recon.NumColumns()
	total := 0.0
	for i := 0; i < rows; i++ {
		rowSum := 0.0
		for j := 0; j < cols; j++ {
			x := recon.At(i, j)
			if x < clipEpsilon {
				x = clipEpsilon
			} else if x > 1-clipEpsilon {
				x = 1 - clipEpsilon
			}
			logit := math.Log(x / (1 - x))
			rowSum += -logit*target.At(i, j) + math.Log1p(math.Exp(logit))
		}
		total += p * rowSum / float64(cols)
	}
	return total / float64(rows), nil
}
