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

package dataset

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/juju/errors"
	"gonum.org/v1/gonum/mat"
)

// Matrix is a dense samples-by-features matrix with row (sample) and column
// (gene) labels. Labels are preserved through every transform.
type Matrix struct {
	rowLabels []string
	colLabels []string
	data      *mat.Dense
}

// NewMatrix creates a labeled matrix from row-major values. The number of
// values must be len(rowLabels) * len(colLabels).
func NewMatrix(rowLabels, colLabels []string, values []float64) *Matrix {
	if len(values) != len(rowLabels)*len(colLabels) {
		panic(fmt.Sprintf("expect %d values, got %d", len(rowLabels)*len(colLabels), len(values)))
	}
	return &Matrix{
		rowLabels: rowLabels,
		colLabels: colLabels,
		data:      mat.NewDense(len(rowLabels), len(colLabels), values),
	}
}

// FromDense wraps an existing dense matrix with labels.
func FromDense(rowLabels, colLabels []string, data *mat.Dense) *Matrix {
	r, c := data.Dims()
	if r != len(rowLabels) || c != len(colLabels) {
		panic(fmt.Sprintf("expect %dx%d labels, got %dx%d", r, c, len(rowLabels), len(colLabels)))
	}
	return &Matrix{rowLabels: rowLabels, colLabels: colLabels, data: data}
}

func (m *Matrix) NumRows() int {
	return len(m.rowLabels)
}

func (m *Matrix) NumColumns() int {
	return len(m.colLabels)
}

func (m *Matrix) RowLabels() []string {
	return m.rowLabels
}

func (m *Matrix) ColumnLabels() []string {
	return m.colLabels
}

func (m *Matrix) Data() *mat.Dense {
	return m.data
}

func (m *Matrix) At(i, j int) float64 {
	return m.data.At(i, j)
}

func (m *Matrix) Set(i, j int, v float64) {
	m.data.Set(i, j, v)
}

// Row returns a copy of the i-th row.
func (m *Matrix) Row(i int) []float64 {
	return mat.Row(nil, i, m.data)
}

func (m *Matrix) Clone() *Matrix {
	data := mat.DenseCopyOf(m.data)
	rowLabels := make([]string, len(m.rowLabels))
	copy(rowLabels, m.rowLabels)
	colLabels := make([]string, len(m.colLabels))
	copy(colLabels, m.colLabels)
	return &Matrix{rowLabels: rowLabels, colLabels: colLabels, data: data}
}

// T returns the transpose with row and column labels swapped.
func (m *Matrix) T() *Matrix {
	data := mat.NewDense(len(m.colLabels), len(m.rowLabels), nil)
	data.Copy(m.data.T())
	return &Matrix{rowLabels: m.colLabels, colLabels: m.rowLabels, data: data}
}

// SelectColumnIndices returns a new matrix restricted to the given column
// positions, in the given order.
func (m *Matrix) SelectColumnIndices(indices []int) *Matrix {
	colLabels := make([]string, len(indices))
	data := mat.NewDense(len(m.rowLabels), len(indices), nil)
	for j, index := range indices {
		colLabels[j] = m.colLabels[index]
		for i := 0; i < len(m.rowLabels); i++ {
			data.Set(i, j, m.data.At(i, index))
		}
	}
	return &Matrix{rowLabels: m.rowLabels, colLabels: colLabels, data: data}
}

func (m *Matrix) columnIndex() map[string]int {
	index := make(map[string]int, len(m.colLabels))
	for i, label := range m.colLabels {
		index[label] = i
	}
	return index
}

// SelectColumns returns a new matrix restricted to the named columns, in the
// given order.
func (m *Matrix) SelectColumns(names []string) (*Matrix, error) {
	index := m.columnIndex()
	indices := make([]int, len(names))
	for i, name := range names {
		pos, exist := index[name]
		if !exist {
			return nil, errors.NotFoundf("column %q", name)
		}
		indices[i] = pos
	}
	return m.SelectColumnIndices(indices), nil
}

// MissingColumns returns the names absent from this matrix, preserving order.
func (m *Matrix) MissingColumns(names []string) []string {
	have := mapset.NewSet(m.colLabels...)
	var missing []string
	for _, name := range names {
		if !have.Contains(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// SubsetRows returns a new matrix restricted to the given row positions, in
// the given order.
func (m *Matrix) SubsetRows(indices []int) *Matrix {
	rowLabels := make([]string, len(indices))
	data := mat.NewDense(len(indices), len(m.colLabels), nil)
	for i, index := range indices {
		rowLabels[i] = m.rowLabels[index]
		data.SetRow(i, m.Row(index))
	}
	return &Matrix{rowLabels: rowLabels, colLabels: m.colLabels, data: data}
}

// ConcatColumns concatenates matrices horizontally. All matrices must share
// the same row labels in the same order.
func ConcatColumns(matrices ...*Matrix) (*Matrix, error) {
	if len(matrices) == 0 {
		return nil, errors.New("no matrices to concatenate")
	}
	first := matrices[0]
	numColumns := 0
	for _, m := range matrices {
		if len(m.rowLabels) != len(first.rowLabels) {
			return nil, errors.Errorf("row count mismatch: %d != %d", len(m.rowLabels), len(first.rowLabels))
		}
		for i, label := range m.rowLabels {
			if label != first.rowLabels[i] {
				return nil, errors.Errorf("row label mismatch at %d: %q != %q", i, label, first.rowLabels[i])
			}
		}
		numColumns += len(m.colLabels)
	}
	colLabels := make([]string, 0, numColumns)
	data := mat.NewDense(len(first.rowLabels), numColumns, nil)
	offset := 0
	for _, m := range matrices {
		colLabels = append(colLabels, m.colLabels...)
		for i := 0; i < len(m.rowLabels); i++ {
			for j := 0; j < len(m.colLabels); j++ {
				data.Set(i, offset+j, m.data.At(i, j))
			}
		}
		offset += len(m.colLabels)
	}
	return &Matrix{rowLabels: first.rowLabels, colLabels: colLabels, data: data}, nil
}

// SameColumns reports whether two matrices have identical column labels in
// identical order.
func SameColumns(a, b *Matrix) bool {
	if len(a.colLabels) != len(b.colLabels) {
		return false
	}
	for i := range a.colLabels {
		if a.colLabels[i] != b.colLabels[i] {
			return false
		}
	}
	return true
}
