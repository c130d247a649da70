// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package sparse

import (
	"math"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/gomlx/sparse/types/coo"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// RestrictDimension truncates the fibers of a square tensor from dimension d to dimension m.
//
// The n coordinates of each axis are taken as n/d contiguous fibers of size d, and only the first m
// coordinates of each fiber are kept, on both axes. The result has shape (n*m/d, n*m/d) and is coalesced.
//
// m == d returns the coalesced t, and m == 0 returns an empty 0×0 tensor.
func RestrictDimension[T coo.Number](t *coo.Tensor[T], d, m int) (*coo.Tensor[T], error) {
	switch {
	case d < 1:
		return nil, errors.Wrapf(ErrInvalidArgument, "RestrictDimension: d=%d, it must be >= 1", d)
	case m < 0 || m > d:
		return nil, errors.Wrapf(ErrInvalidArgument, "RestrictDimension: m=%d, it must be in [0, d=%d]", m, d)
	case t.Rank() != 2 || t.Dim(0) != t.Dim(1):
		return nil, errors.Wrapf(ErrInvalidArgument, "RestrictDimension: tensor has shape %v, it must be square", t.Shape())
	}
	n := t.Dim(0)
	switch {
	case n%d != 0:
		return nil, errors.Wrapf(ErrInvalidArgument, "RestrictDimension: size %d is not a multiple of d=%d", n, d)
	case uint64(n) > math.MaxUint32:
		return nil, errors.Wrapf(ErrInvalidArgument, "RestrictDimension: size %d is too large", n)
	}
	if m == d {
		return t.Coalesce(), nil
	}

	keep := roaring.New()
	keep.AddRange(0, uint64(n))
	for offset := m; offset < d; offset++ {
		for pos := offset; pos < n; pos += d {
			keep.Remove(uint32(pos))
		}
	}
	idx := make([]int, 0, keep.GetCardinality())
	it := keep.Iterator()
	for it.HasNext() {
		idx = append(idx, int(it.Next()))
	}

	restricted, err := t.IndexSelect(0, idx)
	if err != nil {
		return nil, errors.WithMessage(err, "RestrictDimension")
	}
	restricted, err = restricted.Coalesce().IndexSelect(1, idx)
	if err != nil {
		return nil, errors.WithMessage(err, "RestrictDimension")
	}
	restricted = restricted.Coalesce()
	if klog.V(2).Enabled() {
		klog.Infof("RestrictDimension(d=%d, m=%d): %v -> %v", d, m, t.Shape(), restricted.Shape())
	}
	return restricted, nil
}

// RestrictToBatch sub-selects rows and columns of the rank-2 tensor t, and returns the coalesced result.
//
// With one index sequence the same selection is used for rows and columns (e.g. restricting a square
// operator to a batch of nodes). With two, the first selects the rows and the second the columns (e.g.
// restricting a sampled-neighbor operator to (batch nodes, sampled nodes)). The order of the selected
// indices is kept: row k of the result is row idx[0][k] of t.
//
// More than two sequences fail with ErrUnsupportedSelection.
func RestrictToBatch[T coo.Number](t *coo.Tensor[T], idx ...[]int) (*coo.Tensor[T], error) {
	var rows, cols []int
	switch len(idx) {
	case 0:
		return nil, errors.Wrap(ErrInvalidArgument, "RestrictToBatch: no index sequence given")
	case 1:
		rows, cols = idx[0], idx[0]
	case 2:
		rows, cols = idx[0], idx[1]
	default:
		return nil, errors.Wrapf(ErrUnsupportedSelection, "RestrictToBatch: %d index sequences given, at most 2 are supported", len(idx))
	}
	if t.Rank() != 2 {
		return nil, errors.Wrapf(ErrInvalidArgument, "RestrictToBatch: tensor has shape %v, only rank-2 tensors are supported", t.Shape())
	}
	for axis, selection := range [2][]int{rows, cols} {
		dim := t.Dim(axis)
		for k, i := range selection {
			if i < 0 || i >= dim {
				return nil, errors.Wrapf(ErrInvalidArgument, "RestrictToBatch: index %d (position %d) out of range for axis %d of dimension %d",
					i, k, axis, dim)
			}
		}
	}

	restricted, err := t.IndexSelect(0, rows)
	if err != nil {
		return nil, errors.WithMessage(err, "RestrictToBatch")
	}
	restricted, err = restricted.IndexSelect(1, cols)
	if err != nil {
		return nil, errors.WithMessage(err, "RestrictToBatch")
	}
	return restricted.Coalesce(), nil
}
