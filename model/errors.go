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

package model

import "github.com/juju/errors"

// Every error below aborts the current operation immediately: no partial
// results are kept and no retries happen inside this module.
const (
	// ErrShapeMismatch reports train/test matrices disagreeing on gene columns.
	ErrShapeMismatch = errors.ConstError("train and test sets must have the same gene columns")
	// ErrInvalidMode reports an unrecognized scaling mode.
	ErrInvalidMode = errors.ConstError("mode must be either \"standardize\" or \"rescale\"")
	// ErrColumnMismatch reports a test matrix missing gene columns required by
	// a fitted loading matrix.
	ErrColumnMismatch = errors.ConstError("matrix is missing required gene columns")
	// ErrExternalToolFailure reports a nonzero exit from the external
	// factorization process.
	ErrExternalToolFailure = errors.ConstError("external factorization tool failed")
	// ErrConfiguration reports an unusable configuration, e.g. an empty
	// candidate grid or a degenerate class distribution.
	ErrConfiguration = errors.ConstError("invalid configuration")
)
