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
	"github.com/c-bata/goptuna"
	"github.com/c-bata/goptuna/tpe"
	"github.com/juju/errors"

	"github.com/compress-io/compress/dataset"
	"github.com/compress-io/compress/model"
)

// ModelSearch drives a goptuna study over the classifier grid, as an
// alternative to the random search in Search. Candidates are drawn per
// parameter from the grid by index, so the study explores the same space.
type ModelSearch struct {
	trainX, testX *dataset.Matrix
	trainY, testY []float32
	grid          model.ParamsGrid
	config        *SearchConfig
	bestAUC       float64
	bestParams    model.Params
}

func NewModelSearch(trainX, testX *dataset.Matrix, trainY, testY []float32, grid model.ParamsGrid, config *SearchConfig) *ModelSearch {
	if config == nil {
		config = NewSearchConfig()
	}
	return &ModelSearch{
		trainX: trainX,
		testX:  testX,
		trainY: trainY,
		testY:  testY,
		grid:   grid,
		config: config,
	}
}

func (ms *ModelSearch) Objective(trial goptuna.Trial) (float64, error) {
	if ms.grid.Len() == 0 {
		return 0, errors.Annotatef(model.ErrConfiguration, "empty parameter grid")
	}
	params := make(model.Params)
	for _, name := range ms.grid.Names() {
		values := ms.grid[name]
		if len(values) == 0 {
			return 0, errors.Annotatef(model.ErrConfiguration, "no candidates for %q", name)
		}
		index, err := trial.SuggestStepInt(string(name), 0, len(values)-1, 1)
		if err != nil {
			return 0, errors.Trace(err)
		}
		params[name] = values[index]
	}
	trainer := NewLogisticRegression(params, ms.config.Device, ms.config.Seed)
	fit, err := trainer.Fit(ms.trainX, ms.testX, ms.trainY, ms.testY, nil)
	if err != nil {
		return 0, errors.Trace(err)
	}
	auc := float64(AUC(SplitByClass(fit.TestScores, ms.testY)))
	if auc > ms.bestAUC {
		ms.bestAUC = auc
		ms.bestParams = params
	}
	return auc, nil
}

// Result returns the best parameters found so far and their AUC.
func (ms *ModelSearch) Result() (model.Params, float64) {
	return ms.bestParams, ms.bestAUC
}

// ParamsSearch runs a TPE study over the grid and returns the best
// parameters.
func ParamsSearch(trainX, testX *dataset.Matrix, trainY, testY []float32, grid model.ParamsGrid, config *SearchConfig) (model.Params, error) {
	if config == nil {
		config = NewSearchConfig()
	}
	search := NewModelSearch(trainX, testX, trainY, testY, grid, config)
	study, err := goptuna.CreateStudy("classify",
		goptuna.StudyOptionDirection(goptuna.StudyDirectionMaximize),
		goptuna.StudyOptionSampler(tpe.NewSampler()))
	if err != nil {
		return nil, errors.Trace(err)
	}
	if err = study.Optimize(search.Objective, config.NumTrials); err != nil {
		return nil, errors.Trace(err)
	}
	params, _ := search.Result()
	return params, nil
}
