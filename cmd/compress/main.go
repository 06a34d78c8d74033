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
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/juju/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/compress-io/compress/base"
	"github.com/compress-io/compress/base/log"
	"github.com/compress-io/compress/config"
	"github.com/compress-io/compress/dataset"
	"github.com/compress-io/compress/model"
	"github.com/compress-io/compress/model/classify"
	"github.com/compress-io/compress/model/decompose"
)

const version = "0.1.0"

var compressCommand = &cobra.Command{
	Use:   "compress",
	Short: "Compress gene expression matrices into latent spaces.",
	Run: func(cmd *cobra.Command, args []string) {
		// Show version
		if showVersion, _ := cmd.PersistentFlags().GetBool("version"); showVersion {
			fmt.Println("compress version", version)
			return
		}
		// setup logger
		debug, _ := cmd.PersistentFlags().GetBool("debug")
		log.SetLogger(cmd.PersistentFlags(), debug)

		configPath, _ := cmd.PersistentFlags().GetString("config")
		log.Logger().Info("load config", zap.String("config", configPath))
		conf, err := config.LoadConfig(configPath)
		if err != nil {
			log.Logger().Fatal("failed to load config", zap.Error(err))
		}
		if err = runPipeline(conf); err != nil {
			log.Logger().Fatal("pipeline failed", zap.Error(err))
		}
	},
}

func init() {
	log.AddFlags(compressCommand.PersistentFlags())
	compressCommand.PersistentFlags().Bool("debug", false, "use debug log mode")
	compressCommand.PersistentFlags().StringP("config", "c", "config.toml", "configuration file path")
	compressCommand.PersistentFlags().BoolP("version", "v", false, "compress version")
}

func runPipeline(conf *config.Config) error {
	opts := []decompose.Option{decompose.WithSeed(conf.Compress.Seed)}
	if conf.Data.TestPath != "" {
		test, err := dataset.ReadTSV(conf.Data.TestPath)
		if err != nil {
			return errors.Trace(err)
		}
		opts = append(opts, decompose.WithTestMatrix(test))
	}
	if len(conf.Data.GeneColumns) > 0 {
		opts = append(opts, decompose.WithColumnSubset(conf.Data.GeneColumns))
	}
	if conf.Compress.PLIERCommand != "" {
		if err := os.MkdirAll(conf.Compress.PLIERCacheDir, 0o755); err != nil {
			return errors.Trace(err)
		}
		runner := &decompose.ExecRunner{
			Command: conf.Compress.PLIERCommand,
			Script:  conf.Compress.PLIERScript,
		}
		opts = append(opts, decompose.WithPLIER(runner, filepath.Join(conf.Compress.PLIERCacheDir, "plier")))
	}

	data, err := decompose.LoadDataModel(conf.Data.TrainPath, opts...)
	if err != nil {
		return errors.Trace(err)
	}
	if err = data.Transform(conf.Compress.Mode); err != nil {
		return errors.Trace(err)
	}
	projectTest := data.TestMatrix() != nil
	for _, name := range conf.Compress.Backends {
		if _, err = data.RunBackend(decompose.BackendName(name), conf.Compress.NumComponents,
			decompose.RunOptions{ProjectTest: projectTest}); err != nil {
			return errors.Trace(err)
		}
	}

	if err = os.MkdirAll(conf.Data.OutputDir, 0o755); err != nil {
		return errors.Trace(err)
	}
	if err = writeCompressed(conf, data, projectTest); err != nil {
		return errors.Trace(err)
	}

	if conf.Classify.Enable {
		if err = runClassify(conf, data); err != nil {
			return errors.Trace(err)
		}
	}
	return nil
}

func writeCompressed(conf *config.Config, data *decompose.DataModel, projectTest bool) error {
	combined, err := data.CombineModels(false, false, false)
	if err != nil {
		return errors.Trace(err)
	}
	if err = combined.WriteTSV(filepath.Join(conf.Data.OutputDir, "train_compressed.tsv"), ""); err != nil {
		return errors.Trace(err)
	}
	if projectTest {
		combinedTest, err := data.CombineModels(false, false, true)
		if err != nil {
			return errors.Trace(err)
		}
		if err = combinedTest.WriteTSV(filepath.Join(conf.Data.OutputDir, "test_compressed.tsv"), ""); err != nil {
			return errors.Trace(err)
		}
	}

	weights, err := data.CombineWeightMatrix()
	if err != nil {
		return errors.Trace(err)
	}
	if err = weights.WriteTSV(filepath.Join(conf.Data.OutputDir, "weight_matrix.tsv"),
		decompose.GeneIdentifierColumn); err != nil {
		return errors.Trace(err)
	}

	costs, _, err := data.CompileReconstruction(false)
	if err != nil {
		return errors.Trace(err)
	}
	for name, cost := range costs {
		log.Logger().Info("reconstruction cost",
			zap.String("backend", string(name)),
			zap.String("split", "train"),
			zap.Float64("cost", cost))
	}
	if projectTest {
		costs, _, err = data.CompileReconstruction(true)
		if err != nil {
			return errors.Trace(err)
		}
		for name, cost := range costs {
			log.Logger().Info("reconstruction cost",
				zap.String("backend", string(name)),
				zap.String("split", "test"),
				zap.Float64("cost", cost))
		}
	}
	return nil
}

// runClassify predicts the configured label column from the combined latent
// features, holding out one fifth of the samples for evaluation.
func runClassify(conf *config.Config, data *decompose.DataModel) error {
	if data.OtherMatrix() == nil {
		return errors.Annotatef(model.ErrConfiguration, "classification needs a label column split off by gene_columns")
	}
	labelMatrix, err := data.OtherMatrix().SelectColumns([]string{conf.Classify.LabelColumn})
	if err != nil {
		return errors.Trace(err)
	}
	features, err := data.CombineModels(false, false, false)
	if err != nil {
		return errors.Trace(err)
	}

	rng := base.NewRandomGenerator(conf.Classify.Seed)
	folds, err := model.KFoldSplit(features.NumRows(), 5, rng)
	if err != nil {
		return errors.Trace(err)
	}
	trainX := features.SubsetRows(folds[0].Subtrain)
	testX := features.SubsetRows(folds[0].Tune)
	trainY := gatherColumn(labelMatrix, folds[0].Subtrain)
	testY := gatherColumn(labelMatrix, folds[0].Tune)

	result, err := classify.Search(trainX, testX, trainY, testY,
		conf.Classify.Grid(), conf.Classify.SearchConfig())
	if err != nil {
		return errors.Trace(err)
	}
	log.Logger().Info("classification complete",
		zap.String("best_params", result.BestParams.ToString()),
		zap.Float32("train_loss", result.Final.TrainLoss),
		zap.Float32("test_loss", result.Final.TestLoss),
		zap.Float32("test_auroc", classify.AUC(classify.SplitByClass(result.Final.TestScores, testY))))

	coefficients := dataset.NewMatrix(features.ColumnLabels(), []string{"weight"},
		toFloat64(result.Final.Weights))
	return errors.Trace(coefficients.WriteTSV(
		filepath.Join(conf.Data.OutputDir, "classifier_weights.tsv"), "feature"))
}

func gatherColumn(labels *dataset.Matrix, indices []int) []float32 {
	out := make([]float32, len(indices))
	for i, index := range indices {
		out[i] = float32(labels.At(index, 0))
	}
	return out
}

func toFloat64(values []float32) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}

func main() {
	if err := compressCommand.Execute(); err != nil {
		log.Logger().Fatal("failed to execute", zap.Error(err))
	}
}
