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
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/compress-io/compress/base"
	"github.com/compress-io/compress/dataset"
)

func randomMatrix(t *testing.T, seed int64, rows, cols int, low, high float64) *dataset.Matrix {
	t.Helper()
	rng := base.NewRandomGenerator(seed)
	rowLabels := make([]string, rows)
	for i := range rowLabels {
		rowLabels[i] = fmt.Sprintf("sample_%d", i)
	}
	colLabels := make([]string, cols)
	for j := range colLabels {
		colLabels[j] = fmt.Sprintf("gene_%d", j)
	}
	return dataset.NewMatrix(rowLabels, colLabels, rng.UniformVector(rows*cols, low, high))
}

func TestStandardScaler(t *testing.T) {
	m := randomMatrix(t, 0, 50, 4, -3, 7)
	scaler := &StandardScaler{}
	scaler.Fit(m)
	scaled := scaler.Transform(m)

	for j := 0; j < scaled.NumColumns(); j++ {
		sum, sumSq := 0.0, 0.0
		for i := 0; i < scaled.NumRows(); i++ {
			sum += scaled.At(i, j)
			sumSq += scaled.At(i, j) * scaled.At(i, j)
		}
		mean := sum / float64(scaled.NumRows())
		assert.InDelta(t, 0, mean, 1e-10)
		assert.InDelta(t, 1, sumSq/float64(scaled.NumRows())-mean*mean, 1e-10)
	}

	// Round trip recovers the input.
	restored := scaler.InverseTransform(scaled)
	for i := 0; i < m.NumRows(); i++ {
		for j := 0; j < m.NumColumns(); j++ {
			assert.InDelta(t, m.At(i, j), restored.At(i, j), 1e-10)
		}
	}
}

func TestStandardScalerConstantColumn(t *testing.T) {
	m := dataset.NewMatrix([]string{"a", "b", "c"}, []string{"g0"}, []float64{2, 2, 2})
	scaler := &StandardScaler{}
	scaler.Fit(m)
	scaled := scaler.Transform(m)
	for i := 0; i < 3; i++ {
		assert.Equal(t, 0.0, scaled.At(i, 0))
	}
}

func TestMinMaxScaler(t *testing.T) {
	m := randomMatrix(t, 1, 50, 4, -3, 7)
	scaler := &MinMaxScaler{}
	scaler.Fit(m)
	scaled := scaler.Transform(m)

	for j := 0; j < scaled.NumColumns(); j++ {
		lo, hi := 1.0, 0.0
		for i := 0; i < scaled.NumRows(); i++ {
			v := scaled.At(i, j)
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		assert.InDelta(t, 0, lo, 1e-10)
		assert.InDelta(t, 1, hi, 1e-10)
	}

	restored := scaler.InverseTransform(scaled)
	for i := 0; i < m.NumRows(); i++ {
		for j := 0; j < m.NumColumns(); j++ {
			assert.InDelta(t, m.At(i, j), restored.At(i, j), 1e-10)
		}
	}
}

func TestMinMaxScalerConstantColumn(t *testing.T) {
	m := dataset.NewMatrix([]string{"a", "b"}, []string{"g0"}, []float64{5, 5})
	scaler := &MinMaxScaler{}
	scaler.Fit(m)
	scaled := scaler.Transform(m)
	assert.Equal(t, 0.0, scaled.At(0, 0))
	assert.Equal(t, 0.0, scaled.At(1, 0))
}
