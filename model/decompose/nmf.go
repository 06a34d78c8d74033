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
	"gonum.org/v1/gonum/mat"

	"github.com/compress-io/compress/base"
	"github.com/compress-io/compress/dataset"
	"github.com/compress-io/compress/model"
)

const nmfEpsilon = 1e-10

// NMF factorizes a non-negative matrix X into W*H by multiplicative updates.
// W is the embedding (samples x factors) and H the loading matrix (factors x
// genes). Supported hyper-parameters:
//
//	Tol         convergence tolerance on relative error  default 5e-3
//	NEpochs     maximum update iterations                default 200
//	RandomState seed for the random initialization       default 1
type NMF struct {
	k          int
	tol        float64
	maxIter    int
	rng        base.RandomGenerator
	components *dataset.Matrix
	embedding  *dataset.Matrix
}

func NewNMF(params model.Params) *NMF {
	return &NMF{
		tol:     params.GetFloat64(model.Tol, 5e-3),
		maxIter: params.GetInt(model.NEpochs, 200),
		rng:     base.NewRandomGenerator(params.GetInt64(model.RandomState, 1)),
	}
}

func (n *NMF) Name() BackendName {
	return NMFName
}

func (n *NMF) Fit(train *dataset.Matrix, k int) error {
	rows, cols := train.NumRows(), train.NumColumns()
	if k < 1 || k > min(rows, cols) {
		return errors.Annotatef(model.ErrConfiguration, "number of components %d out of range [1, %d]", k, min(rows, cols))
	}
	sum := 0.0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := train.At(i, j)
			if v < 0 {
				return errors.Annotatef(model.ErrConfiguration, "negative value at (%d, %d)", i, j)
			}
			sum += v
		}
	}
	n.k = k

	// Random initialization scaled to the magnitude of the input.
	scale := math.Sqrt(sum/float64(rows*cols)/float64(k)) + nmfEpsilon
	w := n.randomMatrix(rows, k, scale)
	h := n.randomMatrix(k, cols, scale)
	x := train.Data()

	baseline := frobenius(x, w, h)
	previous := baseline
	for iter := 0; iter < n.maxIter; iter++ {
		updateFactor(h, w, x, true)
		updateFactor(w, h, x, false)
		if (iter+1)%10 == 0 {
			current := frobenius(x, w, h)
			if baseline > 0 && (previous-current)/baseline < n.tol {
				break
			}
			previous = current
		}
	}

	labels := factorLabels(NMFName, k)
	n.embedding = dataset.FromDense(train.RowLabels(), labels, w)
	n.components = dataset.FromDense(labels, train.ColumnLabels(), h)
	return nil
}

func (n *NMF) Embedding() *dataset.Matrix {
	return n.embedding
}

// Transform finds non-negative scores for unseen data against the fitted
// loading matrix, updating only the embedding side.
func (n *NMF) Transform(m *dataset.Matrix) (*dataset.Matrix, error) {
	if !dataset.SameColumns(m, n.components) {
		return nil, errors.Annotatef(model.ErrShapeMismatch, "nmf transform")
	}
	rows := m.NumRows()
	x := m.Data()
	h := n.components.Data()
	sum := 0.0
	for i := 0; i < rows; i++ {
		for j := 0; j < m.NumColumns(); j++ {
			sum += x.At(i, j)
		}
	}
	scale := math.Sqrt(math.Abs(sum)/float64(rows*m.NumColumns())/float64(n.k)) + nmfEpsilon
	w := n.randomMatrix(rows, n.k, scale)

	baseline := frobenius(x, w, h)
	previous := baseline
	for iter := 0; iter < n.maxIter; iter++ {
		updateFactor(w, h, x, false)
		if (iter+1)%10 == 0 {
			current := frobenius(x, w, h)
			if baseline > 0 && (previous-current)/baseline < n.tol {
				break
			}
			previous = current
		}
	}
	return dataset.FromDense(m.RowLabels(), n.components.RowLabels(), w), nil
}

func (n *NMF) InverseTransform(z *dataset.Matrix) (*dataset.Matrix, error) {
	if z.NumColumns() != n.k {
		return nil, errors.Annotatef(model.ErrShapeMismatch, "expect %d factors, got %d", n.k, z.NumColumns())
	}
	recon := mat.NewDense(z.NumRows(), n.components.NumColumns(), nil)
	recon.Mul(z.Data(), n.components.Data())
	return dataset.FromDense(z.RowLabels(), n.components.ColumnLabels(), recon), nil
}

func (n *NMF) Components() *dataset.Matrix {
	return n.components
}

func (n *NMF) randomMatrix(rows, cols int, scale float64) *mat.Dense {
	return mat.NewDense(rows, cols, n.rng.UniformVector(rows*cols, 0, scale))
}

// updateFactor applies one multiplicative update. With left=true it updates
// H <- H * (W'X) / (W'WH); with left=false it updates W <- W * (XH') / (WHH').
func updateFactor(target, fixed, x *mat.Dense, left bool) {
	var numer, gram, denom mat.Dense
	if left {
		numer.Mul(fixed.T(), x)
		gram.Mul(fixed.T(), fixed)
		denom.Mul(&gram, target)
	} else {
		numer.Mul(x, fixed.T())
		gram.Mul(fixed, fixed.T())
		denom.Mul(target, &gram)
	}
	rows, cols := target.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			target.Set(i, j, target.At(i, j)*numer.At(i, j)/(denom.At(i, j)+nmfEpsilon))
		}
	}
}

func frobenius(x, w, h *mat.Dense) float64 {
	var approx mat.Dense
	approx.Mul(w, h)
	rows, cols := x.Dims()
	sum := 0.0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			d := x.At(i, j) - approx.At(i, j)
			sum += d * d
		}
	}
	return math.Sqrt(sum)
}
