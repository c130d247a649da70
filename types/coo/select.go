// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package coo

import (
	"slices"

	"github.com/pkg/errors"
)

// IndexSelect selects the positions idx along axis.
//
// The output has the same shape as t, except on axis where the dimension becomes len(idx). Position k of
// the output on axis holds what was at position idx[k] of t. idx may be in any order and may repeat
// positions, in which case the selected slice is replicated.
//
// The result is not coalesced: nonzeros keep the order of t, and a nonzero selected more than once is
// emitted once per selection, in idx order.
func (t *Tensor[T]) IndexSelect(axis int, idx []int) (*Tensor[T], error) {
	if axis < 0 || axis >= t.Rank() {
		return nil, errors.Wrapf(ErrInvalidTensor, "IndexSelect: axis %d out of range for rank %d", axis, t.Rank())
	}
	dim := t.shape[axis]
	// targets maps an input position on axis to the output positions that select it.
	targets := make(map[int][]int, len(idx))
	for k, i := range idx {
		if i < 0 || i >= dim {
			return nil, errors.Wrapf(ErrInvalidTensor, "IndexSelect: index %d (position %d) out of range for axis %d of dimension %d",
				i, k, axis, dim)
		}
		targets[i] = append(targets[i], k)
	}

	rank := t.Rank()
	indices := make([][]int, rank)
	values := make([]T, 0, min(t.NNZ(), len(idx)))
	for k, v := range t.values {
		for _, target := range targets[t.indices[axis][k]] {
			for a := range rank {
				if a == axis {
					indices[a] = append(indices[a], target)
				} else {
					indices[a] = append(indices[a], t.indices[a][k])
				}
			}
			values = append(values, v)
		}
	}
	for a := range indices {
		if indices[a] == nil {
			indices[a] = []int{}
		}
	}

	shape := slices.Clone(t.shape)
	shape[axis] = len(idx)
	return &Tensor[T]{
		shape:     shape,
		indices:   indices,
		values:    values,
		dev:       t.dev,
		coalesced: len(values) <= 1,
	}, nil
}
