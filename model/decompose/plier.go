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
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/juju/errors"
	"gonum.org/v1/gonum/mat"
	"go.uber.org/zap"

	"github.com/compress-io/compress/base/log"
	"github.com/compress-io/compress/dataset"
	"github.com/compress-io/compress/model"
)

// Runner invokes the external PLIER factorization tool. The tool reads a TSV
// expression matrix and writes two files next to outputPrefix: the loading
// matrix (genes x factors) and the latent matrix (factors x samples).
type Runner interface {
	Run(dataPath string, k int, seed int64, outputPrefix string) error
}

// ExecRunner runs the factorization tool as a subprocess and blocks until it
// exits. Any nonzero exit is an ErrExternalToolFailure.
type ExecRunner struct {
	Command string
	Script  string
}

func (r *ExecRunner) Run(dataPath string, k int, seed int64, outputPrefix string) error {
	var args []string
	if r.Script != "" {
		args = append(args, r.Script)
	}
	args = append(args,
		"--data", dataPath,
		"--k", strconv.Itoa(k),
		"--seed", strconv.FormatInt(seed, 10),
		"--output_prefix", outputPrefix)
	log.Logger().Info("run external factorization tool",
		zap.String("command", r.Command),
		zap.Strings("args", args))
	cmd := exec.Command(r.Command, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return errors.Annotatef(model.ErrExternalToolFailure,
			"%v: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// StubRunner writes fixed matrices instead of invoking a subprocess.
type StubRunner struct {
	Loadings *dataset.Matrix // genes x factors
	Latent   *dataset.Matrix // factors x samples
	Err      error
	Calls    int
}

func (r *StubRunner) Run(_ string, k int, seed int64, outputPrefix string) error {
	r.Calls++
	if r.Err != nil {
		return r.Err
	}
	loadingsPath, latentPath := CacheKey(outputPrefix, k, seed)
	if err := r.Loadings.WriteTSV(loadingsPath, ""); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(r.Latent.WriteTSV(latentPath, ""))
}

// CacheKey maps an output prefix, component count and seed to the two files
// the external tool produces. The mapping is a pure function of its inputs so
// repeated runs with the same parameters land on the same files.
func CacheKey(outputPrefix string, k int, seed int64) (loadingsPath, latentPath string) {
	prefix := fmt.Sprintf("%s_k%d_s%d", outputPrefix, k, seed)
	return prefix + "_z.tsv", prefix + "_b.tsv"
}

// PLIER delegates factorization to an external tool and adapts its transposed
// outputs to the canonical orientation. Existing output files for the same
// cache key are reused without invoking the tool; two concurrent callers
// racing on one key may duplicate work but never corrupt results beyond the
// usual partial-write caveat. Supported hyper-parameters:
//
//	RandomState seed forwarded to the tool          default 1
//	NEpochs     projection iterations for Transform default 200
type PLIER struct {
	runner       Runner
	outputPrefix string
	seed         int64
	maxIter      int
	k            int
	components   *dataset.Matrix
	embedding    *dataset.Matrix
}

func NewPLIER(runner Runner, outputPrefix string, params model.Params) *PLIER {
	return &PLIER{
		runner:       runner,
		outputPrefix: outputPrefix,
		seed:         params.GetInt64(model.RandomState, 1),
		maxIter:      params.GetInt(model.NEpochs, 200),
	}
}

func (p *PLIER) Name() BackendName {
	return PLIERName
}

func (p *PLIER) Fit(train *dataset.Matrix, k int) error {
	if k < 1 {
		return errors.Annotatef(model.ErrConfiguration, "number of components %d out of range", k)
	}
	p.k = k
	loadingsPath, latentPath := CacheKey(p.outputPrefix, k, p.seed)

	if !fileExists(loadingsPath) || !fileExists(latentPath) {
		dataFile, err := os.CreateTemp("", "compress-plier-*.tsv")
		if err != nil {
			return errors.Trace(err)
		}
		defer func() {
			_ = os.Remove(dataFile.Name())
		}()
		if err = train.WriteTSVTo(dataFile, ""); err != nil {
			return errors.Trace(err)
		}
		if err = dataFile.Close(); err != nil {
			return errors.Trace(err)
		}
		if err = p.runner.Run(dataFile.Name(), k, p.seed, p.outputPrefix); err != nil {
			return errors.Trace(err)
		}
	} else {
		log.Logger().Info("reuse cached factorization",
			zap.String("loadings", loadingsPath),
			zap.String("latent", latentPath))
	}

	// The tool writes loadings as genes x factors and the latent matrix as
	// factors x samples. Transpose both to the canonical orientation.
	loadings, err := dataset.ReadTSV(loadingsPath)
	if err != nil {
		return errors.Trace(err)
	}
	latent, err := dataset.ReadTSV(latentPath)
	if err != nil {
		return errors.Trace(err)
	}
	components := loadings.T()
	embedding := latent.T()
	if components.NumRows() != k || embedding.NumColumns() != k {
		return errors.Annotatef(model.ErrExternalToolFailure,
			"expect %d factors, got %d x %d", k, components.NumRows(), embedding.NumColumns())
	}
	labels := factorLabels(PLIERName, k)
	p.components = dataset.FromDense(labels, components.ColumnLabels(), components.Data())
	p.embedding = dataset.FromDense(embedding.RowLabels(), labels, embedding.Data())
	return nil
}

func (p *PLIER) Embedding() *dataset.Matrix {
	return p.embedding
}

// Transform projects unseen samples onto the fixed loading matrix. The input
// is first restricted to the genes the tool kept. Scores are found by
// projected gradient descent on ||X - Z*B||^2 with Z >= 0, since the loading
// matrix may contain negative entries.
func (p *PLIER) Transform(m *dataset.Matrix) (*dataset.Matrix, error) {
	genes := p.components.ColumnLabels()
	if missing := m.MissingColumns(genes); len(missing) > 0 {
		return nil, errors.Annotatef(model.ErrColumnMismatch, "missing %v", missing)
	}
	subset, err := m.SelectColumns(genes)
	if err != nil {
		return nil, errors.Trace(err)
	}

	x := subset.Data()
	b := p.components.Data()
	rows := subset.NumRows()

	// Lipschitz step size from the Gram matrix of the loadings.
	var gram mat.Dense
	gram.Mul(b, b.T())
	step := 1.0 / (mat.Norm(&gram, 2) + nmfEpsilon)

	z := mat.NewDense(rows, p.k, nil)
	var residual, grad mat.Dense
	for iter := 0; iter < p.maxIter; iter++ {
		residual.Mul(z, b)
		residual.Sub(&residual, x)
		grad.Mul(&residual, b.T())
		for i := 0; i < rows; i++ {
			for j := 0; j < p.k; j++ {
				v := z.At(i, j) - step*grad.At(i, j)
				if v < 0 {
					v = 0
				}
				z.Set(i, j, v)
			}
		}
	}
	return dataset.FromDense(subset.RowLabels(), p.components.RowLabels(), z), nil
}

func (p *PLIER) InverseTransform(z *dataset.Matrix) (*dataset.Matrix, error) {
	if z.NumColumns() != p.k {
		return nil, errors.Annotatef(model.ErrShapeMismatch, "expect %d factors, got %d", p.k, z.NumColumns())
	}
	recon := mat.NewDense(z.NumRows(), p.components.NumColumns(), nil)
	recon.Mul(z.Data(), p.components.Data())
	return dataset.FromDense(z.RowLabels(), p.components.ColumnLabels(), recon), nil
}

func (p *PLIER) Components() *dataset.Matrix {
	return p.components
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
