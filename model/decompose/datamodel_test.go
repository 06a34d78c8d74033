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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compress-io/compress/dataset"
	"github.com/compress-io/compress/model"
)

func TestDataModelInvalidMode(t *testing.T) {
	d, err := NewDataModel(randomMatrix(t, 0, 10, 4, 0, 1))
	require.NoError(t, err)
	assert.ErrorIs(t, d.Transform("zscore"), model.ErrInvalidMode)
}

func TestDataModelShapeMismatch(t *testing.T) {
	train := randomMatrix(t, 0, 10, 4, 0, 1)
	test := randomMatrix(t, 1, 5, 3, 0, 1)
	_, err := NewDataModel(train, WithTestMatrix(test))
	assert.ErrorIs(t, err, model.ErrShapeMismatch)
}

func TestDataModelIndependentTestScaler(t *testing.T) {
	// The test matrix is rescaled by its own statistics, not the training
	// statistics, so its columns also span exactly [0, 1].
	train := randomMatrix(t, 0, 20, 3, 0, 10)
	test := randomMatrix(t, 1, 10, 3, 0, 1)
	d, err := NewDataModel(train, WithTestMatrix(test))
	require.NoError(t, err)
	require.NoError(t, d.Transform(ModeRescale))
	for j := 0; j < 3; j++ {
		hi := 0.0
		for i := 0; i < d.TestMatrix().NumRows(); i++ {
			hi = math.Max(hi, d.TestMatrix().At(i, j))
		}
		assert.InDelta(t, 1, hi, 1e-10)
	}
}

func TestDataModelColumnSubset(t *testing.T) {
	m := randomMatrix(t, 0, 10, 5, 0, 1)
	d, err := NewDataModel(m, WithColumnSubset([]string{"gene_0", "gene_2", "gene_4"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"gene_0", "gene_2", "gene_4"}, d.Matrix().ColumnLabels())
	assert.Equal(t, []string{"gene_1", "gene_3"}, d.OtherMatrix().ColumnLabels())
}

func TestDataModelPLIERNotConfigured(t *testing.T) {
	d, err := NewDataModel(randomMatrix(t, 0, 10, 4, 0, 1))
	require.NoError(t, err)
	_, err = d.RunBackend(PLIERName, 2, RunOptions{})
	assert.ErrorIs(t, err, model.ErrConfiguration)
}

func TestDataModelCombineBeforeRun(t *testing.T) {
	d, err := NewDataModel(randomMatrix(t, 0, 10, 4, 0, 1))
	require.NoError(t, err)
	_, err = d.CombineModels(false, false, false)
	assert.ErrorIs(t, err, model.ErrConfiguration)
	_, err = d.CombineWeightMatrix()
	assert.ErrorIs(t, err, model.ErrConfiguration)
}

func TestDataModelMissingTestProjection(t *testing.T) {
	train := randomMatrix(t, 0, 20, 6, 0, 1)
	test := randomMatrix(t, 1, 5, 6, 0, 1)
	d, err := NewDataModel(train, WithTestMatrix(test))
	require.NoError(t, err)
	_, err = d.RunBackend(PCAName, 2, RunOptions{})
	require.NoError(t, err)
	_, err = d.CombineModels(false, false, true)
	assert.ErrorIs(t, err, model.ErrConfiguration)
}

func TestDataModelPipeline(t *testing.T) {
	train := randomMatrix(t, 0, 40, 10, 0, 1)
	test := randomMatrix(t, 1, 8, 10, 0, 1)
	stub := &StubRunner{
		Loadings: dataset.NewMatrix(
			[]string{"gene_0", "gene_3", "gene_7"},
			[]string{"LV1", "LV2"},
			[]float64{0.9, 0.1, 0.2, 0.7, 0.4, 0.5}),
		Latent: dataset.NewMatrix(
			[]string{"LV1", "LV2"},
			train.RowLabels(),
			uniformValues(t, 2*40)),
	}
	d, err := NewDataModel(train,
		WithTestMatrix(test),
		WithSeed(42),
		WithPLIER(stub, filepath.Join(t.TempDir(), "plier")))
	require.NoError(t, err)
	require.NoError(t, d.Transform(ModeRescale))

	_, err = d.RunBackend(PCAName, 3, RunOptions{ProjectTest: true})
	require.NoError(t, err)
	_, err = d.RunBackend(NMFName, 3, RunOptions{ProjectTest: true})
	require.NoError(t, err)
	_, err = d.RunBackend(PLIERName, 2, RunOptions{ProjectTest: true})
	require.NoError(t, err)

	// Embeddings concatenate in pca, nmf, plier order.
	combined, err := d.CombineModels(false, false, false)
	require.NoError(t, err)
	assert.Equal(t, 40, combined.NumRows())
	assert.Equal(t, []string{
		"pca_0", "pca_1", "pca_2",
		"nmf_0", "nmf_1", "nmf_2",
		"plier_0", "plier_1",
	}, combined.ColumnLabels())

	// Raw columns append after the embeddings.
	withRaw, err := d.CombineModels(false, true, false)
	require.NoError(t, err)
	assert.Equal(t, 8+10, withRaw.NumColumns())

	// Test projections combine the same way.
	combinedTest, err := d.CombineModels(false, false, true)
	require.NoError(t, err)
	assert.Equal(t, 8, combinedTest.NumRows())
	assert.Equal(t, combined.ColumnLabels(), combinedTest.ColumnLabels())

	// The stacked weight matrix covers the union of genes, NaN where a
	// backend never saw the gene.
	weights, err := d.CombineWeightMatrix()
	require.NoError(t, err)
	assert.Equal(t, 10, weights.NumRows())
	assert.Equal(t, 8, weights.NumColumns())
	geneRow := map[string]int{}
	for i, gene := range weights.RowLabels() {
		geneRow[gene] = i
	}
	assert.False(t, math.IsNaN(weights.At(geneRow["gene_0"], 6)))
	assert.True(t, math.IsNaN(weights.At(geneRow["gene_1"], 6)))
	assert.False(t, math.IsNaN(weights.At(geneRow["gene_1"], 0)))

	// Reconstruction costs are finite and non-negative for inputs in [0,1].
	for _, testSet := range []bool{false, true} {
		costs, reconstructions, err := d.CompileReconstruction(testSet)
		require.NoError(t, err)
		assert.Len(t, costs, 3)
		for name, cost := range costs {
			assert.False(t, math.IsNaN(cost), name)
			assert.False(t, math.IsInf(cost, 0), name)
			assert.GreaterOrEqual(t, cost, 0.0, name)
		}
		assert.Equal(t, 10, reconstructions[PCAName].NumColumns())
		assert.Equal(t, 3, reconstructions[PLIERName].NumColumns())
	}
}

func uniformValues(t *testing.T, n int) []float64 {
	t.Helper()
	values := make([]float64, n)
	for i := range values {
		values[i] = float64(i%7) / 7.0
	}
	return values
}
