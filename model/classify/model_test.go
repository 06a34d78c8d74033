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
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compress-io/compress/base"
	"github.com/compress-io/compress/dataset"
	"github.com/compress-io/compress/model"
)

// separableData draws two features and labels samples by the sign of the
// first one, offset from zero so the classes are linearly separable.
func separableData(seed int64, n int) (*dataset.Matrix, []float32) {
	rng := base.NewRandomGenerator(seed)
	rowLabels := make([]string, n)
	values := make([]float64, 0, n*2)
	labels := make([]float32, n)
	for i := 0; i < n; i++ {
		rowLabels[i] = fmt.Sprintf("sample_%d", i)
		x0 := rng.Float64()*2 - 1
		if x0 >= 0 {
			x0 += 0.5
			labels[i] = 1
		} else {
			x0 -= 0.5
		}
		values = append(values, x0, rng.Float64())
	}
	return dataset.NewMatrix(rowLabels, []string{"f0", "f1"}, values), labels
}

func TestLogisticRegressionFit(t *testing.T) {
	trainX, trainY := separableData(0, 60)
	testX, testY := separableData(1, 20)
	trainer := NewLogisticRegression(model.Params{
		model.Lr:        0.1,
		model.BatchSize: 10,
		model.NEpochs:   100,
	}, CPU, 42)
	result, err := trainer.Fit(trainX, testX, trainY, testY, nil)
	require.NoError(t, err)

	assert.Len(t, result.TrainScores, 60)
	assert.Len(t, result.TestScores, 20)
	assert.Greater(t, AUC(SplitByClass(result.TestScores, testY)), float32(0.95))
	assert.Greater(t, Accuracy(SplitByClass(result.TestScores, testY)), float32(0.9))
	for i, score := range result.TestScores {
		if score > 0 {
			assert.Equal(t, float32(1), result.TestPredicted[i])
		} else {
			assert.Equal(t, float32(0), result.TestPredicted[i])
		}
	}
	assert.Nil(t, result.Weights)
}

func TestLogisticRegressionSaveWeights(t *testing.T) {
	trainX, trainY := separableData(0, 40)
	testX, testY := separableData(1, 10)
	trainer := NewLogisticRegression(model.Params{model.Lr: 0.1, model.NEpochs: 50}, CPU, 1)
	result, err := trainer.Fit(trainX, testX, trainY, testY, &FitConfig{SaveWeights: true})
	require.NoError(t, err)
	require.Len(t, result.Weights, 2)
	// The separating feature carries the dominant positive weight.
	assert.Greater(t, result.Weights[0], float32(0))
	assert.Greater(t, result.Weights[0], result.Weights[1])
}

func TestLogisticRegressionL1Shrinks(t *testing.T) {
	trainX, trainY := separableData(0, 40)
	testX, testY := separableData(1, 10)
	free, err := NewLogisticRegression(model.Params{model.Lr: 0.1, model.NEpochs: 50}, CPU, 1).
		Fit(trainX, testX, trainY, testY, &FitConfig{SaveWeights: true})
	require.NoError(t, err)
	penalized, err := NewLogisticRegression(model.Params{
		model.Lr: 0.1, model.NEpochs: 50, model.L1Penalty: 1.0,
	}, CPU, 1).Fit(trainX, testX, trainY, testY, &FitConfig{SaveWeights: true})
	require.NoError(t, err)
	assert.Less(t, abs32(penalized.Weights[1]), abs32(free.Weights[1]))
}

func TestLogisticRegressionDegenerateLabels(t *testing.T) {
	trainX, _ := separableData(0, 10)
	testX, testY := separableData(1, 5)
	ones := make([]float32, 10)
	for i := range ones {
		ones[i] = 1
	}
	trainer := NewLogisticRegression(nil, CPU, 1)
	_, err := trainer.Fit(trainX, testX, ones, testY, nil)
	assert.ErrorIs(t, err, model.ErrConfiguration)
}

func TestLogisticRegressionShapeMismatch(t *testing.T) {
	trainX, trainY := separableData(0, 10)
	testX, _ := separableData(1, 5)
	trainer := NewLogisticRegression(nil, CPU, 1)
	_, err := trainer.Fit(trainX, testX, trainY, []float32{1}, nil)
	assert.ErrorIs(t, err, model.ErrShapeMismatch)
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
