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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compress-io/compress/dataset"
	"github.com/compress-io/compress/model"
)

func TestNMFFit(t *testing.T) {
	m := randomMatrix(t, 0, 30, 8, 0, 1)
	nmf := NewNMF(model.Params{model.RandomState: int64(42)})
	require.NoError(t, nmf.Fit(m, 4))

	embedding := nmf.Embedding()
	assert.Equal(t, 30, embedding.NumRows())
	assert.Equal(t, 4, embedding.NumColumns())
	assert.Equal(t, []string{"nmf_0", "nmf_1", "nmf_2", "nmf_3"}, embedding.ColumnLabels())

	components := nmf.Components()
	assert.Equal(t, 4, components.NumRows())
	assert.Equal(t, m.ColumnLabels(), components.ColumnLabels())

	// Both factors stay non-negative.
	for i := 0; i < embedding.NumRows(); i++ {
		for j := 0; j < embedding.NumColumns(); j++ {
			assert.GreaterOrEqual(t, embedding.At(i, j), 0.0)
		}
	}
	for i := 0; i < components.NumRows(); i++ {
		for j := 0; j < components.NumColumns(); j++ {
			assert.GreaterOrEqual(t, components.At(i, j), 0.0)
		}
	}
}

func TestNMFReconstruction(t *testing.T) {
	// A rank-2 non-negative matrix is recovered closely with k=2.
	rows, cols := 20, 10
	w := randomMatrix(t, 1, rows, 2, 0, 1)
	h := randomMatrix(t, 2, 2, cols, 0, 1)
	values := make([]float64, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			for l := 0; l < 2; l++ {
				values[i*cols+j] += w.At(i, l) * h.At(l, j)
			}
		}
	}
	m := dataset.NewMatrix(w.RowLabels(), h.ColumnLabels(), values)

	nmf := NewNMF(model.Params{model.RandomState: int64(7), model.NEpochs: 1000, model.Tol: 1e-8})
	require.NoError(t, nmf.Fit(m, 2))
	recon, err := nmf.InverseTransform(nmf.Embedding())
	require.NoError(t, err)

	sumSq, sumSqErr := 0.0, 0.0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			d := m.At(i, j) - recon.At(i, j)
			sumSq += m.At(i, j) * m.At(i, j)
			sumSqErr += d * d
		}
	}
	assert.Less(t, sumSqErr/sumSq, 0.01)
}

func TestNMFNegativeInput(t *testing.T) {
	m := dataset.NewMatrix([]string{"a", "b"}, []string{"g0", "g1"}, []float64{1, -1, 2, 3})
	nmf := NewNMF(nil)
	assert.ErrorIs(t, nmf.Fit(m, 1), model.ErrConfiguration)
}

func TestNMFTransform(t *testing.T) {
	train := randomMatrix(t, 3, 30, 8, 0, 1)
	nmf := NewNMF(model.Params{model.RandomState: int64(1)})
	require.NoError(t, nmf.Fit(train, 3))

	test := randomMatrix(t, 4, 5, 8, 0, 1)
	scores, err := nmf.Transform(test)
	require.NoError(t, err)
	assert.Equal(t, 5, scores.NumRows())
	assert.Equal(t, 3, scores.NumColumns())
	for i := 0; i < scores.NumRows(); i++ {
		for j := 0; j < scores.NumColumns(); j++ {
			assert.GreaterOrEqual(t, scores.At(i, j), 0.0)
		}
	}

	_, err = nmf.Transform(randomMatrix(t, 5, 5, 4, 0, 1))
	assert.ErrorIs(t, err, model.ErrShapeMismatch)
}
