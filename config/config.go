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

package config

import (
	"github.com/juju/errors"
	"github.com/spf13/viper"

	"github.com/compress-io/compress/model"
	"github.com/compress-io/compress/model/classify"
)

// Config is the configuration of the compress pipeline.
type Config struct {
	Data     DataConfig     `mapstructure:"data"`
	Compress CompressConfig `mapstructure:"compress"`
	Classify ClassifyConfig `mapstructure:"classify"`
}

// DataConfig locates the input matrices and the output directory.
type DataConfig struct {
	TrainPath   string   `mapstructure:"train_path"`
	TestPath    string   `mapstructure:"test_path"`
	OutputDir   string   `mapstructure:"output_dir"`
	GeneColumns []string `mapstructure:"gene_columns"`
}

// CompressConfig configures the compression stage.
type CompressConfig struct {
	Mode          string   `mapstructure:"mode"`
	Backends      []string `mapstructure:"backends"`
	NumComponents int      `mapstructure:"num_components"`
	Seed          int64    `mapstructure:"seed"`
	PLIERCommand  string   `mapstructure:"plier_command"`
	PLIERScript   string   `mapstructure:"plier_script"`
	PLIERCacheDir string   `mapstructure:"plier_cache_dir"`
}

// ClassifyConfig configures the optional classification stage. The slice
// fields are hyper-parameter candidate grids.
type ClassifyConfig struct {
	Enable        bool      `mapstructure:"enable"`
	LabelColumn   string    `mapstructure:"label_column"`
	NumTrials     int       `mapstructure:"num_trials"`
	NumInnerFolds int       `mapstructure:"num_inner_folds"`
	Seed          int64     `mapstructure:"seed"`
	Device        string    `mapstructure:"device"`
	Verbose       bool      `mapstructure:"verbose"`
	LearningRate  []float64 `mapstructure:"learning_rate"`
	BatchSize     []int     `mapstructure:"batch_size"`
	NumEpochs     []int     `mapstructure:"num_epochs"`
	L1Penalty     []float64 `mapstructure:"l1_penalty"`
}

// Grid converts the candidate lists to a hyper-parameter grid.
func (c *ClassifyConfig) Grid() model.ParamsGrid {
	grid := make(model.ParamsGrid)
	for _, lr := range c.LearningRate {
		grid[model.Lr] = append(grid[model.Lr], lr)
	}
	for _, batchSize := range c.BatchSize {
		grid[model.BatchSize] = append(grid[model.BatchSize], batchSize)
	}
	for _, numEpochs := range c.NumEpochs {
		grid[model.NEpochs] = append(grid[model.NEpochs], numEpochs)
	}
	for _, penalty := range c.L1Penalty {
		grid[model.L1Penalty] = append(grid[model.L1Penalty], penalty)
	}
	return grid
}

// SearchConfig converts the section to search settings.
func (c *ClassifyConfig) SearchConfig() *classify.SearchConfig {
	return &classify.SearchConfig{
		NumTrials:     c.NumTrials,
		NumInnerFolds: c.NumInnerFolds,
		Seed:          c.Seed,
		Device:        classify.Device(c.Device),
		Verbose:       c.Verbose,
	}
}

func setDefault(v *viper.Viper) {
	v.SetDefault("data.output_dir", "output")
	v.SetDefault("compress.mode", "rescale")
	v.SetDefault("compress.backends", []string{"pca", "nmf"})
	v.SetDefault("compress.num_components", 10)
	v.SetDefault("compress.seed", 1)
	v.SetDefault("compress.plier_cache_dir", "plier_output")
	v.SetDefault("classify.num_trials", 10)
	v.SetDefault("classify.num_inner_folds", 4)
	v.SetDefault("classify.seed", 1)
	v.SetDefault("classify.device", string(classify.CPU))
	v.SetDefault("classify.learning_rate", []float64{0.001, 0.0001, 0.00001})
	v.SetDefault("classify.batch_size", []int{10, 20, 50, 100})
	v.SetDefault("classify.num_epochs", []int{100, 200, 500, 1000})
	v.SetDefault("classify.l1_penalty", []float64{0, 0.01, 0.1, 1, 10})
}

// LoadConfig loads the configuration from a TOML file.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefault(v)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Trace(err)
	}
	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		return nil, errors.Trace(err)
	}
	return &conf, nil
}
