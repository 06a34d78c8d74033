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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compress-io/compress/model"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[data]
train_path = "train.tsv"
test_path = "test.tsv"

[compress]
mode = "standardize"
backends = ["pca", "nmf", "plier"]
num_components = 20
seed = 42
plier_command = "Rscript"
plier_script = "run_plier.R"

[classify]
enable = true
label_column = "status"
num_trials = 5
learning_rate = [0.01, 0.001]
batch_size = [10]
num_epochs = [100]
l1_penalty = [0.0, 0.1]
`), 0o644))

	conf, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "train.tsv", conf.Data.TrainPath)
	assert.Equal(t, "standardize", conf.Compress.Mode)
	assert.Equal(t, []string{"pca", "nmf", "plier"}, conf.Compress.Backends)
	assert.Equal(t, 20, conf.Compress.NumComponents)
	assert.Equal(t, int64(42), conf.Compress.Seed)
	assert.True(t, conf.Classify.Enable)
	assert.Equal(t, 5, conf.Classify.NumTrials)
	// Defaults fill unset keys.
	assert.Equal(t, 4, conf.Classify.NumInnerFolds)
	assert.Equal(t, "output", conf.Data.OutputDir)

	grid := conf.Classify.Grid()
	assert.Len(t, grid[model.Lr], 2)
	assert.Len(t, grid[model.BatchSize], 1)
	search := conf.Classify.SearchConfig()
	assert.Equal(t, 5, search.NumTrials)
	assert.Equal(t, int64(1), search.Seed)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig("no_such_config.toml")
	assert.Error(t, err)
}
