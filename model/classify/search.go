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
	"github.com/juju/errors"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/compress-io/compress/base"
	"github.com/compress-io/compress/base/log"
	"github.com/compress-io/compress/dataset"
	"github.com/compress-io/compress/model"
)

// Split names used in trial records. Subtrain and tune partition the training
// data inside each inner fold.
const (
	SplitSubtrain = "train"
	SplitTune     = "tune"
)

// SearchConfig controls the hyper-parameter search.
type SearchConfig struct {
	NumTrials     int
	NumInnerFolds int
	Seed          int64
	Device        Device
	Verbose       bool
}

// NewSearchConfig returns the default search configuration.
func NewSearchConfig() *SearchConfig {
	return &SearchConfig{
		NumTrials:     10,
		NumInnerFolds: 4,
		Seed:          1,
		Device:        CPU,
	}
}

// TrialRecord is one row of the search result table: one candidate parameter
// set evaluated on one split of one inner fold.
type TrialRecord struct {
	ParamSet int
	Split    string
	Fold     int
	Loss     float32
	AUROC    float32
	Params   model.Params
}

// SearchResult holds the full trial table, the winning candidate and the
// final model trained with it.
type SearchResult struct {
	BestIndex   int
	BestParams  model.Params
	Records     []TrialRecord
	BestRecords []TrialRecord
	Final       *FitResult
}

// Search samples candidate hyper-parameters from the grid, scores each
// candidate with k-fold cross-validation inside the training split, then
// trains a final model on the full training split with the winner. A
// singleton grid skips cross-validation entirely. The winner minimizes the
// mean tune loss; ties go to the earliest sampled candidate.
func Search(trainX, testX *dataset.Matrix, trainY, testY []float32, grid model.ParamsGrid, config *SearchConfig) (*SearchResult, error) {
	if config == nil {
		config = NewSearchConfig()
	}
	rng := base.NewRandomGenerator(config.Seed)
	candidates, err := model.SampleParams(grid, config.NumTrials, rng)
	if err != nil {
		return nil, errors.Trace(err)
	}

	result := &SearchResult{}
	if len(candidates) == 1 {
		// Nothing to search.
		result.BestParams = candidates[0]
	} else {
		folds, err := model.KFoldSplit(trainX.NumRows(), config.NumInnerFolds, rng)
		if err != nil {
			return nil, errors.Trace(err)
		}
		var bar *progressbar.ProgressBar
		if config.Verbose {
			bar = progressbar.Default(int64(len(folds)*len(candidates)), "search")
		}
		for foldIndex, fold := range folds {
			subtrainX := trainX.SubsetRows(fold.Subtrain)
			tuneX := trainX.SubsetRows(fold.Tune)
			subtrainY := gatherLabels(trainY, fold.Subtrain)
			tuneY := gatherLabels(trainY, fold.Tune)
			for candidateIndex, candidate := range candidates {
				trainer := NewLogisticRegression(candidate, config.Device, config.Seed)
				fit, err := trainer.Fit(subtrainX, tuneX, subtrainY, tuneY, nil)
				if err != nil {
					return nil, errors.Trace(err)
				}
				result.Records = append(result.Records,
					TrialRecord{
						ParamSet: candidateIndex,
						Split:    SplitSubtrain,
						Fold:     foldIndex + 1,
						Loss:     fit.TrainLoss,
						AUROC:    AUC(SplitByClass(fit.TrainScores, subtrainY)),
						Params:   candidate,
					},
					TrialRecord{
						ParamSet: candidateIndex,
						Split:    SplitTune,
						Fold:     foldIndex + 1,
						Loss:     fit.TestLoss,
						AUROC:    AUC(SplitByClass(fit.TestScores, tuneY)),
						Params:   candidate,
					})
				if bar != nil {
					_ = bar.Add(1)
				}
			}
		}

		// Mean tune loss per candidate, first index wins ties.
		sums := make([]float32, len(candidates))
		counts := make([]int, len(candidates))
		for _, record := range result.Records {
			if record.Split == SplitTune {
				sums[record.ParamSet] += record.Loss
				counts[record.ParamSet]++
			}
		}
		best := 0
		for i := 1; i < len(candidates); i++ {
			if sums[i]/float32(counts[i]) < sums[best]/float32(counts[best]) {
				best = i
			}
		}
		result.BestIndex = best
		result.BestParams = candidates[best]
		for _, record := range result.Records {
			if record.ParamSet == best {
				result.BestRecords = append(result.BestRecords, record)
			}
		}
	}

	log.Logger().Info("hyper-parameter search complete",
		zap.Int("candidates", len(candidates)),
		zap.String("best", result.BestParams.ToString()))
	trainer := NewLogisticRegression(result.BestParams, config.Device, config.Seed)
	result.Final, err = trainer.Fit(trainX, testX, trainY, testY,
		&FitConfig{SaveWeights: true, Verbose: config.Verbose})
	if err != nil {
		return nil, errors.Trace(err)
	}
	return result, nil
}
