// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package coo

import (
	"slices"
)

// Coalesce returns a tensor with unique coordinates, sorted in row-major order, where the values
// at repeated coordinates are summed.
//
// Explicit zeros (including sums that cancel out) are kept. If t is already coalesced, it is returned as is.
func (t *Tensor[T]) Coalesce() *Tensor[T] {
	if t.coalesced {
		return t
	}
	nnz := t.NNZ()
	rank := t.Rank()
	order := make([]int, nnz)
	for k := range order {
		order[k] = k
	}
	slices.SortStableFunc(order, func(a, b int) int {
		for axis := range rank {
			if d := t.indices[axis][a] - t.indices[axis][b]; d != 0 {
				return d
			}
		}
		return 0
	})

	indices := make([][]int, rank)
	for axis := range indices {
		indices[axis] = make([]int, 0, nnz)
	}
	values := make([]T, 0, nnz)
	for i, k := range order {
		if i > 0 && t.sameCoordinate(k, order[i-1]) {
			values[len(values)-1] += t.values[k]
			continue
		}
		for axis := range rank {
			indices[axis] = append(indices[axis], t.indices[axis][k])
		}
		values = append(values, t.values[k])
	}
	return &Tensor[T]{
		shape:     t.shape,
		indices:   indices,
		values:    values,
		dev:       t.dev,
		coalesced: true,
	}
}

// sameCoordinate returns whether the nonzeros k0 and k1 are stored at the same coordinate.
func (t *Tensor[T]) sameCoordinate(k0, k1 int) bool {
	for axis := range t.indices {
		if t.indices[axis][k0] != t.indices[axis][k1] {
			return false
		}
	}
	return true
}
