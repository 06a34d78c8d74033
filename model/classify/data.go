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

package classify

import (
	"github.com/compress-io/compress/common/nn"
	"github.com/compress-io/compress/dataset"
)

// tensorFromMatrix converts a labeled float64 matrix to a float32 tensor.
func tensorFromMatrix(m *dataset.Matrix) *nn.Tensor {
	rows, cols := m.NumRows(), m.NumColumns()
	data := make([]float32, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			data[i*cols+j] = float32(m.At(i, j))
		}
	}
	return nn.NewTensor(data, rows, cols)
}

// gatherRows copies the selected rows of a matrix into a float32 tensor.
func gatherRows(m *dataset.Matrix, indices []int) *nn.Tensor {
	cols := m.NumColumns()
	data := make([]float32, len(indices)*cols)
	for i, index := range indices {
		for j := 0; j < cols; j++ {
			data[i*cols+j] = float32(m.At(index, j))
		}
	}
	return nn.NewTensor(data, len(indices), cols)
}

func gatherLabels(labels []float32, indices []int) []float32 {
	out := make([]float32, len(indices))
	for i, index := range indices {
		out[i] = labels[index]
	}
	return out
}
