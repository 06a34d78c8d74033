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

	"github.com/compress-io/compress/dataset"
)

// Scaler rescales matrix columns. Transform and InverseTransform are exact
// inverses up to float rounding.
type Scaler interface {
	Fit(m *dataset.Matrix)
	Transform(m *dataset.Matrix) *dataset.Matrix
	InverseTransform(m *dataset.Matrix) *dataset.Matrix
}

// StandardScaler shifts each column to zero mean and unit variance. A column
// with zero variance is only centered.
type StandardScaler struct {
	mean []float64
	std  []float64
}

func (s *StandardScaler) Fit(m *dataset.Matrix) {
	rows, cols := m.NumRows(), m.NumColumns()
	s.mean = make([]float64, cols)
	s.std = make([]float64, cols)
	for j := 0; j < cols; j++ {
		sum := 0.0
		for i := 0; i < rows; i++ {
			sum += m.At(i, j)
		}
		s.mean[j] = sum / float64(rows)
		variance := 0.0
		for i := 0; i < rows; i++ {
			d := m.At(i, j) - s.mean[j]
			variance += d * d
		}
		s.std[j] = math.Sqrt(variance / float64(rows))
		if s.std[j] == 0 {
			s.std[j] = 1
		}
	}
}

func (s *StandardScaler) Transform(m *dataset.Matrix) *dataset.Matrix {
	out := m.Clone()
	for i := 0; i < m.NumRows(); i++ {
		for j := 0; j < m.NumColumns(); j++ {
			out.Set(i, j, (m.At(i, j)-s.mean[j])/s.std[j])
		}
	}
	return out
}

func (s *StandardScaler) InverseTransform(m *dataset.Matrix) *dataset.Matrix {
	out := m.Clone()
	for i := 0; i < m.NumRows(); i++ {
		for j := 0; j < m.NumColumns(); j++ {
			out.Set(i, j, m.At(i, j)*s.std[j]+s.mean[j])
		}
	}
	return out
}

// MinMaxScaler rescales each column to [0, 1]. A constant column maps to 0.
type MinMaxScaler struct {
	min   []float64
	scale []float64
}

func (s *MinMaxScaler) Fit(m *dataset.Matrix) {
	rows, cols := m.NumRows(), m.NumColumns()
	s.min = make([]float64, cols)
	s.scale = make([]float64, cols)
	for j := 0; j < cols; j++ {
		lo, hi := math.Inf(1), math.Inf(-1)
		for i := 0; i < rows; i++ {
			v := m.At(i, j)
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
		s.min[j] = lo
		if hi > lo {
			s.scale[j] = hi - lo
		} else {
			s.scale[j] = 1
		}
	}
}

func (s *MinMaxScaler) Transform(m *dataset.Matrix) *dataset.Matrix {
	out := m.Clone()
	for i := 0; i < m.NumRows(); i++ {
		for j := 0; j < m.NumColumns(); j++ {
			out.Set(i, j, (m.At(i, j)-s.min[j])/s.scale[j])
		}
	}
	return out
}

func (s *MinMaxScaler) InverseTransform(m *dataset.Matrix) *dataset.Matrix {
	out := m.Clone()
	for i := 0; i < m.NumRows(); i++ {
		for j := 0; j < m.NumColumns(); j++ {
			out.Set(i, j, m.At(i, j)*s.scale[j]+s.min[j])
		}
	}
	return out
}
