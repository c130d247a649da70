// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package coo

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ToDense converts a rank-2 tensor to a gonum dense matrix, summing duplicate coordinates.
//
// gonum doesn't support empty matrices, so it fails if any of the dimensions is 0.
func ToDense(t *Tensor[float64]) (*mat.Dense, error) {
	if t.Rank() != 2 {
		return nil, errors.Wrapf(ErrInvalidTensor, "ToDense requires a rank-2 tensor, got shape %v", t.shape)
	}
	if t.shape[0] == 0 || t.shape[1] == 0 {
		return nil, errors.Wrapf(ErrInvalidTensor, "ToDense: cannot convert empty shape %v to a dense matrix", t.shape)
	}
	m := mat.NewDense(t.shape[0], t.shape[1], nil)
	rows, cols := t.indices[0], t.indices[1]
	for k, v := range t.values {
		m.Set(rows[k], cols[k], m.At(rows[k], cols[k])+v)
	}
	return m, nil
}

// FromDense converts a gonum matrix to a coalesced Tensor on the host, with one stored value per nonzero
// element of m.
func FromDense(m mat.Matrix) *Tensor[float64] {
	rows, cols := m.Dims()
	indices := [][]int{{}, {}}
	var values []float64
	for row := range rows {
		for col := range cols {
			v := m.At(row, col)
			if v == 0 {
				continue
			}
			indices[0] = append(indices[0], row)
			indices[1] = append(indices[1], col)
			values = append(values, v)
		}
	}
	return &Tensor[float64]{
		shape:     []int{rows, cols},
		indices:   indices,
		values:    values,
		coalesced: true,
	}
}
