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

// Package classify trains a weighted logistic regression on latent features
// and searches its hyper-parameters by inner cross-validation.
package classify

import (
	"github.com/juju/errors"
	"go.uber.org/zap"

	"github.com/compress-io/compress/base"
	"github.com/compress-io/compress/base/log"
	"github.com/compress-io/compress/common/nn"
	"github.com/compress-io/compress/dataset"
	"github.com/compress-io/compress/model"
)

// Device selects the training substrate. It is recorded for reporting only;
// observable behavior is identical on every device.
type Device string

const (
	CPU         Device = "cpu"
	Accelerated Device = "accelerated"
)

// FitConfig controls a single training run.
type FitConfig struct {
	// SaveWeights keeps the learned coefficient vector on the result.
	SaveWeights bool
	Verbose     bool
}

// FitResult is the outcome of one training run. Losses include the L1 term.
// Predictions binarize the raw scores at logit zero.
type FitResult struct {
	TrainLoss      float32
	TestLoss       float32
	TrainScores    []float32
	TestScores     []float32
	TrainPredicted []float32
	TestPredicted  []float32
	Weights        []float32
}

// LogisticRegression is a single linear layer trained with the weighted
// binary cross entropy on logits. The positive class weight is the ratio of
// negative to positive training labels. Supported hyper-parameters:
//
//	Lr        learning rate      default 0.001
//	BatchSize mini-batch size    default 10
//	NEpochs   number of epochs   default 100
//	L1Penalty L1 regularization  default 0
type LogisticRegression struct {
	params model.Params
	device Device
	rng    base.RandomGenerator
}

func NewLogisticRegression(params model.Params, device Device, seed int64) *LogisticRegression {
	return &LogisticRegression{
		params: params,
		device: device,
		rng:    base.NewRandomGenerator(seed),
	}
}

func (lr *LogisticRegression) Params() model.Params {
	return lr.params
}

func (lr *LogisticRegression) Device() Device {
	return lr.device
}

// Fit trains on trainX/trainY and evaluates on testX/testY. Labels must be 0
// or 1 and the training split must contain both classes.
func (lr *LogisticRegression) Fit(trainX, testX *dataset.Matrix, trainY, testY []float32, config *FitConfig) (*FitResult, error) {
	if config == nil {
		config = &FitConfig{}
	}
	if trainX.NumRows() != len(trainY) || testX.NumRows() != len(testY) {
		return nil, errors.Annotatef(model.ErrShapeMismatch,
			"%d train rows vs %d labels, %d test rows vs %d labels",
			trainX.NumRows(), len(trainY), testX.NumRows(), len(testY))
	}

	// Weight the loss by training label imbalance.
	var count0, count1 int
	for _, y := range trainY {
		if y > 0 {
			count1++
		} else {
			count0++
		}
	}
	if count0 == 0 || count1 == 0 {
		return nil, errors.Annotatef(model.ErrConfiguration, "training labels contain a single class")
	}
	posWeight := nn.NewScalar(float32(count0) / float32(count1))
	if config.Verbose {
		log.Logger().Info("fit logistic regression",
			zap.Int("negative", count0),
			zap.Int("positive", count1),
			zap.Float32("pos_weight", posWeight.Data()[0]),
			zap.String("device", string(lr.device)),
			zap.String("params", lr.params.ToString()))
	}

	learningRate := lr.params.GetFloat32(model.Lr, 0.001)
	batchSize := lr.params.GetInt(model.BatchSize, 10)
	numEpochs := lr.params.GetInt(model.NEpochs, 100)
	l1Penalty := nn.NewScalar(lr.params.GetFloat32(model.L1Penalty, 0))

	numSamples, numFeatures := trainX.NumRows(), trainX.NumColumns()
	layer := nn.NewLinear(lr.rng, numFeatures, 1)
	optimizer := nn.NewAdam(layer.Parameters(), learningRate)
	scheduler := nn.NewReduceLROnPlateau(optimizer, 0.1, 5)

	for epoch := 0; epoch < numEpochs; epoch++ {
		perm := lr.rng.Perm(numSamples)
		epochLoss := float32(0)
		for offset := 0; offset < numSamples; offset += batchSize {
			indices := perm[offset:min(offset+batchSize, numSamples)]
			batchX := gatherRows(trainX, indices)
			batchY := nn.NewTensor(gatherLabels(trainY, indices), len(indices), 1)
			optimizer.ZeroGrad()
			loss := lr.loss(layer, batchX, batchY, posWeight, l1Penalty)
			epochLoss += loss.Data()[0]
			loss.Backward()
			optimizer.Step()
		}
		scheduler.Step(epochLoss)
	}

	result := &FitResult{}
	trainLoss, trainScores := lr.evaluate(layer, tensorFromMatrix(trainX), trainY, posWeight, l1Penalty)
	testLoss, testScores := lr.evaluate(layer, tensorFromMatrix(testX), testY, posWeight, l1Penalty)
	result.TrainLoss, result.TrainScores = trainLoss, trainScores
	result.TestLoss, result.TestScores = testLoss, testScores
	result.TrainPredicted = binarize(trainScores)
	result.TestPredicted = binarize(testScores)
	if config.SaveWeights {
		result.Weights = make([]float32, numFeatures)
		copy(result.Weights, layer.W.Data())
	}
	return result, nil
}

func (lr *LogisticRegression) loss(layer *nn.LinearLayer, x, y, posWeight, l1Penalty *nn.Tensor) *nn.Tensor {
	loss := nn.BCEWithLogits(layer.Forward(x), y, posWeight)
	l1 := nn.Add(nn.Sum(nn.Abs(layer.W)), nn.Sum(nn.Abs(layer.B)))
	return nn.Add(loss, nn.Mul(l1Penalty, l1))
}

func (lr *LogisticRegression) evaluate(layer *nn.LinearLayer, x *nn.Tensor, y []float32, posWeight, l1Penalty *nn.Tensor) (float32, []float32) {
	target := nn.NewTensor(append([]float32(nil), y...), len(y), 1)
	loss := lr.loss(layer, x, target, posWeight, l1Penalty)
	scores := append([]float32(nil), layer.Forward(x).Data()...)
	return loss.Data()[0], scores
}

func binarize(scores []float32) []float32 {
	out := make([]float32, len(scores))
	for i, s := range scores {
		if s > 0 {
			out[i] = 1
		}
	}
	return out
}
