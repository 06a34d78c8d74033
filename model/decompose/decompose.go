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

// Package decompose compresses gene expression matrices into low dimensional
// latent spaces and scores how well each latent space reconstructs its input.
package decompose

import (
	"fmt"

	"github.com/compress-io/compress/dataset"
)

// BackendName identifies a compression algorithm.
type BackendName string

const (
	PCAName   BackendName = "pca"
	NMFName   BackendName = "nmf"
	PLIERName BackendName = "plier"
)

// Backends returns all algorithm names in their canonical order. Combined
// outputs always follow this order regardless of which backends were run.
func Backends() []BackendName {
	return []BackendName{PCAName, NMFName, PLIERName}
}

// Backend is a fitted compression algorithm. The embedding is samples by
// factors and the components are factors by genes, matching the orientation
// of the training matrix.
type Backend interface {
	Name() BackendName
	// Fit learns k latent factors from the training matrix.
	Fit(train *dataset.Matrix, k int) error
	// Embedding returns the training embedding produced by Fit.
	Embedding() *dataset.Matrix
	// Transform projects an unseen matrix into the fitted latent space.
	Transform(m *dataset.Matrix) (*dataset.Matrix, error)
	// InverseTransform maps an embedding back to gene space.
	InverseTransform(z *dataset.Matrix) (*dataset.Matrix, error)
	// Components returns the learned loading matrix.
	Components() *dataset.Matrix
}

func factorLabels(name BackendName, k int) []string {
	labels := make([]string, k)
	for i := range labels {
		labels[i] = fmt.Sprintf("%s_%d", name, i)
	}
	return labels
}
