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

package nn

import (
	"fmt"
	"strings"

	"github.com/chewxy/math32"

	"github.com/compress-io/compress/base"
)

type Tensor struct {
	data        []float32
	shape       []int
	grad        *Tensor
	op          op
	requireGrad bool
}

func NewTensor(data []float32, shape ...int) *Tensor {
	n := 1
	for _, s := range shape {
		n *= s
	}
	if n != len(data) {
		panic(fmt.Sprintf("shape %v does not match data length %d", shape, len(data)))
	}
	return &Tensor{
		data:  data,
		shape: shape,
	}
}

func NewScalar(data float32) *Tensor {
	return &Tensor{
		data:  []float32{data},
		shape: []int{},
	}
}

// Rand creates a tensor filled with uniform random values in [0,1).
func Rand(rng base.RandomGenerator, shape ...int) *Tensor {
	n := 1
	for _, s := range shape {
		n *= s
	}
	data := make([]float32, n)
	for i := range data {
		data[i] = rng.Float32()
	}
	return &Tensor{
		data:  data,
		shape: shape,
	}
}

// Normal creates a tensor filled with normal random values.
func Normal(rng base.RandomGenerator, mean, stdDev float32, shape ...int) *Tensor {
	n := 1
	for _, s := range shape {
		n *= s
	}
	return &Tensor{
		data:  rng.NormalVector32(n, mean, stdDev),
		shape: shape,
	}
}

// Ones creates a tensor filled with ones.
func Ones(shape ...int) *Tensor {
	n := 1
	for _, s := range shape {
		n *= s
	}
	data := make([]float32, n)
	for i := range data {
		data[i] = 1
	}
	return &Tensor{
		data:  data,
		shape: shape,
	}
}

// Zeros creates a tensor filled with zeros.
func Zeros(shape ...int) *Tensor {
	n := 1
	for _, s := range shape {
		n *= s
	}
	data := make([]float32, n)
	return &Tensor{
		data:  data,
		shape: shape,
	}
}

// RequireGrad marks the tensor as a trainable parameter.
func (t *Tensor) RequireGrad() *Tensor {
	t.requireGrad = true
	return t
}

// NoGrad detaches the tensor from the graph that produced it.
func (t *Tensor) NoGrad() *Tensor {
	if t.op != nil {
		t.op = nil
	}
	return t
}

func (t *Tensor) Data() []float32 {
	return t.data
}

func (t *Tensor) Shape() []int {
	return t.shape
}

func (t *Tensor) String() string {
	// Print scalar value
	if len(t.shape) == 0 {
		return fmt.Sprint(t.data[0])
	}

	builder := strings.Builder{}
	builder.WriteString("[")
	if len(t.data) <= 10 {
		for i := 0; i < len(t.data); i++ {
			builder.WriteString(fmt.Sprint(t.data[i]))
			if i != len(t.data)-1 {
				builder.WriteString(", ")
			}
		}
	} else {
		for i := 0; i < 5; i++ {
			builder.WriteString(fmt.Sprint(t.data[i]))
			builder.WriteString(", ")
		}
		builder.WriteString("..., ")
		for i := len(t.data) - 5; i < len(t.data); i++ {
			builder.WriteString(fmt.Sprint(t.data[i]))
			if i != len(t.data)-1 {
				builder.WriteString(", ")
			}
		}
	}
	builder.WriteString("]")
	return builder.String()
}

// Backward propagates gradients through the graph that produced t. Gradients
// accumulate at tensors reachable through multiple paths, so a parameter may
// appear in several terms of a loss.
func (t *Tensor) Backward() {
	t.grad = Ones(t.shape...)
	ops := []op{t.op}
	for len(ops) > 0 {
		op := ops[0]
		ops = ops[1:]
		inputs, output := op.inputsAndOutput()
		grads := op.backward(output.grad)
		for i := range grads {
			if inputs[i].grad == nil {
				inputs[i].grad = grads[i]
			} else {
				inputs[i].grad.add(grads[i])
			}
			if inputs[i].op != nil {
				ops = append(ops, inputs[i].op)
			}
		}
	}
}

func (t *Tensor) Grad() *Tensor {
	return t.grad
}

func (t *Tensor) clone() *Tensor {
	newData := make([]float32, len(t.data))
	copy(newData, t.data)
	return &Tensor{
		data:  newData,
		shape: t.shape,
	}
}

func (t *Tensor) add(other *Tensor) *Tensor {
	wSize := 1
	for i := range other.shape {
		wSize *= other.shape[i]
	}
	for i := range t.data {
		t.data[i] += other.data[i%wSize]
	}
	return t
}

func (t *Tensor) sub(other *Tensor) *Tensor {
	wSize := 1
	for i := range other.shape {
		wSize *= other.shape[i]
	}
	for i := range t.data {
		t.data[i] -= other.data[i%wSize]
	}
	return t
}

func (t *Tensor) mul(other *Tensor) *Tensor {
	wSize := 1
	for i := range other.shape {
		wSize *= other.shape[i]
	}
	for i := range t.data {
		t.data[i] *= other.data[i%wSize]
	}
	return t
}

func (t *Tensor) div(other *Tensor) *Tensor {
	wSize := 1
	for i := range other.shape {
		wSize *= other.shape[i]
	}
	for i := range t.data {
		t.data[i] /= other.data[i%wSize]
	}
	return t
}

func (t *Tensor) square() *Tensor {
	for i := range t.data {
		t.data[i] = t.data[i] * t.data[i]
	}
	return t
}

func (t *Tensor) exp() *Tensor {
	for i := range t.data {
		t.data[i] = math32.Exp(t.data[i])
	}
	return t
}

func (t *Tensor) log() *Tensor {
	for i := range t.data {
		t.data[i] = math32.Log(t.data[i])
	}
	return t
}

func (t *Tensor) tanh() *Tensor {
	for i := range t.data {
		t.data[i] = math32.Tanh(t.data[i])
	}
	return t
}

func (t *Tensor) abs() *Tensor {
	for i := range t.data {
		t.data[i] = math32.Abs(t.data[i])
	}
	return t
}

func (t *Tensor) sign() *Tensor {
	for i := range t.data {
		if t.data[i] > 0 {
			t.data[i] = 1
		} else if t.data[i] < 0 {
			t.data[i] = -1
		} else {
			t.data[i] = 0
		}
	}
	return t
}

func (t *Tensor) neg() *Tensor {
	for i := range t.data {
		t.data[i] = -t.data[i]
	}
	return t
}

// matMul multiplies two 2-d tensors, optionally transposing either operand.
func (t *Tensor) matMul(other *Tensor, transpose0, transpose1 bool) *Tensor {
	if len(t.shape) != 2 || len(other.shape) != 2 {
		panic("matMul expects 2-d tensors")
	}
	m, k := t.shape[0], t.shape[1]
	if transpose0 {
		m, k = k, m
	}
	k1, n := other.shape[0], other.shape[1]
	if transpose1 {
		k1, n = n, k1
	}
	if k != k1 {
		panic(fmt.Sprintf("matMul shape mismatch: %v x %v", t.shape, other.shape))
	}
	at := func(i, j int) float32 {
		if transpose0 {
			return t.data[j*t.shape[1]+i]
		}
		return t.data[i*t.shape[1]+j]
	}
	bt := func(i, j int) float32 {
		if transpose1 {
			return other.data[j*other.shape[1]+i]
		}
		return other.data[i*other.shape[1]+j]
	}
	result := Zeros(m, n)
	for i := 0; i < m; i++ {
		for l := 0; l < k; l++ {
			a := at(i, l)
			if a == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				result.data[i*n+j] += a * bt(l, j)
			}
		}
	}
	return result
}
