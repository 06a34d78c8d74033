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
	"github.com/juju/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/compress-io/compress/dataset"
	"github.com/compress-io/compress/model"
)

// PCA compresses data onto the top principal components of the training
// matrix. Components come from a thin SVD of the column centered data.
type PCA struct {
	k          int
	mean       []float64
	components *dataset.Matrix
	embedding  *dataset.Matrix
}

func NewPCA() *PCA {
	return &PCA{}
}

func (p *PCA) Name() BackendName {
	return PCAName
}

func (p *PCA) Fit(train *dataset.Matrix, k int) error {
	rows, cols := train.NumRows(), train.NumColumns()
	maxRank := min(rows, cols)
	if k < 1 || k > maxRank {
		return errors.Annotatef(model.ErrConfiguration, "number of components %d out of range [1, %d]", k, maxRank)
	}
	p.k = k

	// Column center.
	p.mean = make([]float64, cols)
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			p.mean[j] += train.At(i, j)
		}
		p.mean[j] /= float64(rows)
	}
	centered := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			centered.Set(i, j, train.At(i, j)-p.mean[j])
		}
	}

	var svd mat.SVD
	if ok := svd.Factorize(centered, mat.SVDThin); !ok {
		return errors.New("SVD factorization failed")
	}
	var v mat.Dense
	svd.VTo(&v)

	// Right singular vectors become the loading matrix (k x genes).
	labels := factorLabels(PCAName, k)
	components := mat.NewDense(k, cols, nil)
	for i := 0; i < k; i++ {
		for j := 0; j < cols; j++ {
			components.Set(i, j, v.At(j, i))
		}
	}
	p.components = dataset.FromDense(labels, train.ColumnLabels(), components)

	// Scores of the training data on the kept components.
	scores := mat.NewDense(rows, k, nil)
	scores.Mul(centered, components.T())
	p.embedding = dataset.FromDense(train.RowLabels(), labels, scores)
	return nil
}

func (p *PCA) Embedding() *dataset.Matrix {
	return p.embedding
}

func (p *PCA) Transform(m *dataset.Matrix) (*dataset.Matrix, error) {
	if !dataset.SameColumns(m, p.components) {
		return nil, errors.Annotatef(model.ErrShapeMismatch, "pca transform")
	}
	rows, cols := m.NumRows(), m.NumColumns()
	centered := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			centered.Set(i, j, m.At(i, j)-p.mean[j])
		}
	}
	scores := mat.NewDense(rows, p.k, nil)
	scores.Mul(centered, p.components.Data().T())
	return dataset.FromDense(m.RowLabels(), p.components.RowLabels(), scores), nil
}

func (p *PCA) InverseTransform(z *dataset.Matrix) (*dataset.Matrix, error) {
	if z.NumColumns() != p.k {
		return nil, errors.Annotatef(model.ErrShapeMismatch, "expect %d factors, got %d", p.k, z.NumColumns())
	}
	rows := z.NumRows()
	recon := mat.NewDense(rows, p.components.NumColumns(), nil)
	recon.Mul(z.Data(), p.components.Data())
	for i := 0; i < rows; i++ {
		for j := 0; j < p.components.NumColumns(); j++ {
			recon.Set(i, j, recon.At(i, j)+p.mean[j])
		}
	}
	return dataset.FromDense(z.RowLabels(), p.components.ColumnLabels(), recon), nil
}

func (p *PCA) Components() *dataset.Matrix {
	return p.components
}
