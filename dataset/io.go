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
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/juju/errors"

	"github.com/compress-io/compress/base/log"
	"go.uber.org/zap"
)

// ReadTSV loads a labeled matrix from a tab-separated file. The first row
// holds column labels, the first column holds row labels. The top-left header
// cell (the index name) is ignored.
func ReadTSV(path string) (*Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer f.Close()
	m, err := ReadTSVFrom(f)
	if err != nil {
		return nil, errors.Annotatef(err, "failed to parse %s", path)
	}
	log.Logger().Debug("loaded matrix",
		zap.String("path", path),
		zap.Int("rows", m.NumRows()),
		zap.Int("columns", m.NumColumns()))
	return m, nil
}

// ReadTSVFrom loads a labeled matrix from a tab-separated stream.
func ReadTSVFrom(r io.Reader) (*Matrix, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	header, err := reader.Read()
	if err != nil {
		return nil, errors.Trace(err)
	}
	if len(header) < 2 {
		return nil, errors.New("expect at least one label column and one value column")
	}
	colLabels := header[1:]
	var rowLabels []string
	var values []float64
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, errors.Trace(err)
		}
		rowLabels = append(rowLabels, record[0])
		for _, cell := range record[1:] {
			value, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, errors.Annotatef(err, "row %q", record[0])
			}
			values = append(values, value)
		}
	}
	if len(rowLabels) == 0 {
		return nil, errors.New("matrix has no rows")
	}
	return NewMatrix(rowLabels, colLabels, values), nil
}

// WriteTSV saves the matrix as a tab-separated file with the row index in the
// first column. indexName is written to the top-left header cell.
func (m *Matrix) WriteTSV(path, indexName string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Trace(err)
	}
	defer f.Close()
	return m.WriteTSVTo(f, indexName)
}

// WriteTSVTo writes the matrix as tab-separated rows.
func (m *Matrix) WriteTSVTo(w io.Writer, indexName string) error {
	writer := csv.NewWriter(w)
	writer.Comma = '\t'
	header := append([]string{indexName}, m.colLabels...)
	if err := writer.Write(header); err != nil {
		return errors.Trace(err)
	}
	record := make([]string, len(m.colLabels)+1)
	for i, label := range m.rowLabels {
		record[0] = label
		for j := range m.colLabels {
			record[j+1] = strconv.FormatFloat(m.data.At(i, j), 'g', -1, 64)
		}
		if err := writer.Write(record); err != nil {
			return errors.Trace(err)
		}
	}
	writer.Flush()
	return errors.Trace(writer.Error())
}
