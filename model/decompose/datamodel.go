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

	"github.com/juju/errors"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/compress-io/compress/base/log"
	"github.com/compress-io/compress/dataset"
	"github.com/compress-io/compress/model"
)

// Scaling modes accepted by Transform.
const (
	ModeStandardize = "standardize"
	ModeRescale     = "rescale"
)

// GeneIdentifierColumn is the index header of the combined weight matrix.
const GeneIdentifierColumn = "entrez_gene"

// BackendResult holds everything a fitted backend produced.
type BackendResult struct {
	Backend       Backend
	Embedding     *dataset.Matrix
	TestEmbedding *dataset.Matrix
}

// RunOptions control what RunBackend computes beyond the fit itself.
type RunOptions struct {
	// ProjectTest projects the held-out test matrix into the fitted space.
	ProjectTest bool
}

// DataModel owns a gene expression matrix and the latent spaces compressed
// from it. Results are kept in an explicit per-backend map, so callers always
// know which algorithms have run.
type DataModel struct {
	matrix      *dataset.Matrix
	test        *dataset.Matrix
	other       *dataset.Matrix
	geneSubset  []string
	geneModules []string
	seed        int64
	plierRunner Runner
	plierPrefix string
	results     map[BackendName]*BackendResult
}

// Option configures a DataModel at construction time.
type Option func(*DataModel)

// WithTestMatrix attaches a held-out test matrix. It must have exactly the
// same gene columns as the training matrix.
func WithTestMatrix(test *dataset.Matrix) Option {
	return func(d *DataModel) {
		d.test = test
	}
}

// WithColumnSubset restricts the training matrix to the named gene columns.
// The remaining columns are kept aside as a label matrix.
func WithColumnSubset(names []string) Option {
	return func(d *DataModel) {
		d.geneSubset = names
	}
}

// WithGeneModules attaches a ground truth module assignment per gene, for
// simulated data where modules are known.
func WithGeneModules(modules []string) Option {
	return func(d *DataModel) {
		d.geneModules = modules
	}
}

// WithSeed sets the seed handed to backends that draw random numbers.
func WithSeed(seed int64) Option {
	return func(d *DataModel) {
		d.seed = seed
	}
}

// WithPLIER configures the external factorization tool and the prefix its
// output files are cached under.
func WithPLIER(runner Runner, outputPrefix string) Option {
	return func(d *DataModel) {
		d.plierRunner = runner
		d.plierPrefix = outputPrefix
	}
}

// NewDataModel wraps a gene expression matrix. Samples are rows and genes are
// columns.
func NewDataModel(m *dataset.Matrix, opts ...Option) (*DataModel, error) {
	d := &DataModel{
		matrix:  m,
		seed:    1,
		results: make(map[BackendName]*BackendResult),
	}
	for _, opt := range opts {
		opt(d)
	}
	if len(d.geneSubset) > 0 {
		subset, err := m.SelectColumns(d.geneSubset)
		if err != nil {
			return nil, errors.Trace(err)
		}
		keep := make(map[string]struct{}, len(d.geneSubset))
		for _, name := range d.geneSubset {
			keep[name] = struct{}{}
		}
		var otherIndices []int
		for i, label := range m.ColumnLabels() {
			if _, ok := keep[label]; !ok {
				otherIndices = append(otherIndices, i)
			}
		}
		d.other = m.SelectColumnIndices(otherIndices)
		d.matrix = subset
		if d.test != nil {
			test, err := d.test.SelectColumns(d.geneSubset)
			if err != nil {
				return nil, errors.Trace(err)
			}
			d.test = test
		}
	}
	if d.test != nil && !dataset.SameColumns(d.matrix, d.test) {
		return nil, errors.Trace(model.ErrShapeMismatch)
	}
	if d.geneModules != nil && len(d.geneModules) != d.matrix.NumColumns() {
		return nil, errors.Annotatef(model.ErrConfiguration,
			"expect %d gene modules, got %d", d.matrix.NumColumns(), len(d.geneModules))
	}
	return d, nil
}

// LoadDataModel reads the training matrix from a TSV file.
func LoadDataModel(path string, opts ...Option) (*DataModel, error) {
	m, err := dataset.ReadTSV(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return NewDataModel(m, opts...)
}

func (d *DataModel) Matrix() *dataset.Matrix {
	return d.matrix
}

func (d *DataModel) TestMatrix() *dataset.Matrix {
	return d.test
}

// OtherMatrix returns the non-gene columns split off by WithColumnSubset.
func (d *DataModel) OtherMatrix() *dataset.Matrix {
	return d.other
}

func (d *DataModel) GeneModules() []string {
	return d.geneModules
}

func (d *DataModel) NumSamples() int {
	return d.matrix.NumRows()
}

func (d *DataModel) NumGenes() int {
	return d.matrix.NumColumns()
}

// Results returns the per-backend outcomes of every successful RunBackend
// call.
func (d *DataModel) Results() map[BackendName]*BackendResult {
	return d.results
}

// Transform rescales the training matrix in place. The test matrix, when
// present, is rescaled with its own independently fitted scaler rather than
// the training statistics.
func (d *DataModel) Transform(mode string) error {
	scaler, err := newScaler(mode)
	if err != nil {
		return errors.Trace(err)
	}
	scaler.Fit(d.matrix)
	d.matrix = scaler.Transform(d.matrix)
	if d.test != nil {
		testScaler, err := newScaler(mode)
		if err != nil {
			return errors.Trace(err)
		}
		testScaler.Fit(d.test)
		d.test = testScaler.Transform(d.test)
	}
	return nil
}

func newScaler(mode string) (Scaler, error) {
	switch mode {
	case ModeStandardize:
		return &StandardScaler{}, nil
	case ModeRescale:
		return &MinMaxScaler{}, nil
	default:
		return nil, errors.Annotatef(model.ErrInvalidMode, "%q", mode)
	}
}

// RunBackend fits the named algorithm with k latent factors and stores the
// result. Nothing is stored when the fit fails.
func (d *DataModel) RunBackend(name BackendName, k int, opts RunOptions) (*BackendResult, error) {
	backend, err := d.newBackend(name)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if opts.ProjectTest && d.test == nil {
		return nil, errors.Annotatef(model.ErrConfiguration, "no test matrix to project")
	}
	log.Logger().Info("fit backend",
		zap.String("backend", string(name)),
		zap.Int("components", k),
		zap.Int("samples", d.matrix.NumRows()),
		zap.Int("genes", d.matrix.NumColumns()))
	if err = backend.Fit(d.matrix, k); err != nil {
		return nil, errors.Trace(err)
	}
	result := &BackendResult{
		Backend:   backend,
		Embedding: backend.Embedding(),
	}
	if opts.ProjectTest {
		result.TestEmbedding, err = backend.Transform(d.test)
		if err != nil {
			return nil, errors.Trace(err)
		}
	}
	d.results[name] = result
	return result, nil
}

func (d *DataModel) newBackend(name BackendName) (Backend, error) {
	switch name {
	case PCAName:
		return NewPCA(), nil
	case NMFName:
		return NewNMF(model.Params{model.RandomState: d.seed}), nil
	case PLIERName:
		if d.plierRunner == nil {
			return nil, errors.Annotatef(model.ErrConfiguration, "no PLIER runner configured")
		}
		return NewPLIER(d.plierRunner, d.plierPrefix, model.Params{model.RandomState: d.seed}), nil
	default:
		return nil, errors.Annotatef(model.ErrConfiguration, "unknown backend %q", name)
	}
}

// CombineModels concatenates the embeddings of every run backend, always in
// the order pca, nmf, plier. With testSet the test projections are combined
// instead, and every run backend must have one. includeRaw appends the
// expression matrix matching the requested split and includeLabels appends
// the split-off label columns of the training set.
func (d *DataModel) CombineModels(includeLabels, includeRaw, testSet bool) (*dataset.Matrix, error) {
	var parts []*dataset.Matrix
	for _, name := range Backends() {
		result, ok := d.results[name]
		if !ok {
			continue
		}
		if testSet {
			if result.TestEmbedding == nil {
				return nil, errors.Annotatef(model.ErrConfiguration, "backend %q has no test projection", name)
			}
			parts = append(parts, result.TestEmbedding)
		} else {
			parts = append(parts, result.Embedding)
		}
	}
	if len(parts) == 0 {
		return nil, errors.Annotatef(model.ErrConfiguration, "no backend has been run")
	}
	if includeRaw {
		if testSet {
			parts = append(parts, d.test)
		} else {
			parts = append(parts, d.matrix)
		}
	}
	if includeLabels && !testSet && d.other != nil {
		parts = append(parts, d.other)
	}
	combined, err := dataset.ConcatColumns(parts...)
	return combined, errors.Trace(err)
}

// CombineWeightMatrix stacks the loading matrices of every run backend and
// transposes the stack to genes by factors. Genes are aligned on the union of
// the per-backend gene sets; a factor's weight for a gene its backend never
// saw is NaN.
func (d *DataModel) CombineWeightMatrix() (*dataset.Matrix, error) {
	var parts []*dataset.Matrix
	for _, name := range Backends() {
		if result, ok := d.results[name]; ok {
			parts = append(parts, result.Backend.Components())
		}
	}
	if len(parts) == 0 {
		return nil, errors.Annotatef(model.ErrConfiguration, "no backend has been run")
	}

	var genes []string
	genePosition := make(map[string]int)
	numFactors := 0
	for _, part := range parts {
		for _, gene := range part.ColumnLabels() {
			if _, ok := genePosition[gene]; !ok {
				genePosition[gene] = len(genes)
				genes = append(genes, gene)
			}
		}
		numFactors += part.NumRows()
	}

	factors := make([]string, 0, numFactors)
	data := mat.NewDense(len(genes), numFactors, nil)
	for i := range genes {
		for j := 0; j < numFactors; j++ {
			data.Set(i, j, math.NaN())
		}
	}
	offset := 0
	for _, part := range parts {
		factors = append(factors, part.RowLabels()...)
		for i, gene := range part.ColumnLabels() {
			row := genePosition[gene]
			for j := 0; j < part.NumRows(); j++ {
				data.Set(row, offset+j, part.At(j, i))
			}
		}
		offset += part.NumRows()
	}
	return dataset.FromDense(genes, factors, data), nil
}

// CompileReconstruction inverts every stored embedding back to gene space and
// scores it against the matching input matrix. It returns the per-backend
// costs and reconstructions.
func (d *DataModel) CompileReconstruction(testSet bool) (map[BackendName]float64, map[BackendName]*dataset.Matrix, error) {
	input := d.matrix
	if testSet {
		if d.test == nil {
			return nil, nil, errors.Annotatef(model.ErrConfiguration, "no test matrix")
		}
		input = d.test
	}
	costs := make(map[BackendName]float64)
	reconstructions := make(map[BackendName]*dataset.Matrix)
	for _, name := range Backends() {
		result, ok := d.results[name]
		if !ok {
			continue
		}
		embedding := result.Embedding
		if testSet {
			if result.TestEmbedding == nil {
				return nil, nil, errors.Annotatef(model.ErrConfiguration, "backend %q has no test projection", name)
			}
			embedding = result.TestEmbedding
		}
		recon, err := result.Backend.InverseTransform(embedding)
		if err != nil {
			return nil, nil, errors.Trace(err)
		}
		target := input
		if name == PLIERName {
			// The tool drops genes missing from its pathway collection, so the
			// comparison is restricted to the genes it kept.
			target, err = input.SelectColumns(result.Backend.Components().ColumnLabels())
			if err != nil {
				return nil, nil, errors.Trace(err)
			}
		}
		cost, err := ReconstructionCost(recon, target, float64(target.NumColumns()))
		if err != nil {
			return nil, nil, errors.Trace(err)
		}
		costs[name] = cost
		reconstructions[name] = recon
	}
	return costs, reconstructions, nil
}
