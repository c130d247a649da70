// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package sparse

import (
	"github.com/gomlx/sparse/types/coo"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// BlockDiag assembles the rank-2 tensors into one block-diagonal tensor.
//
// Block i has its coordinates shifted by the sum of the shapes of the blocks before it, so with shapes
// (r_i, c_i) the result has shape (Σr_i, Σc_i). Values are concatenated in input order. The blocks occupy
// disjoint coordinate ranges, so the result is only as coalesced as its inputs.
//
// All tensors must be on the same device, which is also the device of the result.
func BlockDiag[T coo.Number](tensors ...*coo.Tensor[T]) (*coo.Tensor[T], error) {
	if len(tensors) == 0 {
		return nil, errors.Wrap(ErrInvalidArgument, "BlockDiag: no tensors given")
	}
	if tensors[0] == nil {
		return nil, errors.Wrap(ErrInvalidArgument, "BlockDiag: tensor #0 is nil")
	}
	dev := tensors[0].Device()
	nnz := 0
	for i, t := range tensors {
		switch {
		case t == nil:
			return nil, errors.Wrapf(ErrInvalidArgument, "BlockDiag: tensor #%d is nil", i)
		case t.Rank() != 2:
			return nil, errors.Wrapf(ErrInvalidArgument, "BlockDiag: tensor #%d has shape %v, only rank-2 tensors are supported", i, t.Shape())
		case t.Device() != dev:
			return nil, errors.Wrapf(ErrInvalidArgument, "BlockDiag: tensor #%d is on %s, but tensor #0 is on %s", i, t.Device(), dev)
		}
		nnz += t.NNZ()
	}

	rows := make([]int, 0, nnz)
	cols := make([]int, 0, nnz)
	values := make([]T, 0, nnz)
	var rowOffset, colOffset int
	for _, t := range tensors {
		indices := t.Indices()
		for k := range t.NNZ() {
			rows = append(rows, indices[0][k]+rowOffset)
			cols = append(cols, indices[1][k]+colOffset)
		}
		values = append(values, t.Values()...)
		rowOffset += t.Dim(0)
		colOffset += t.Dim(1)
	}
	result, err := coo.New([]int{rowOffset, colOffset}, [][]int{rows, cols}, values)
	if err != nil {
		return nil, errors.WithMessage(err, "BlockDiag")
	}
	if klog.V(2).Enabled() {
		klog.Infof("BlockDiag: %d blocks -> %s", len(tensors), result)
	}
	return result.To(dev), nil
}
