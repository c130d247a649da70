// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package sparse

import (
	"github.com/gomlx/sparse/types/coo"
	"github.com/pkg/errors"
)

// Tile enlarges the rank-2 tensor t of shape (r, c) into a (r*dim, c*dim) block tensor, where every entry
// t[i, j] = v becomes a dim×dim block of v's at rows [i*dim, (i+1)*dim) and columns [j*dim, (j+1)*dim).
//
// It is the sparse equivalent of the Kronecker product of t with a dim×dim matrix of ones.
// t is coalesced first, so duplicate coordinates are summed before being replicated. With dim == 1 it
// returns the coalesced t.
func Tile[T coo.Number](t *coo.Tensor[T], dim int) (*coo.Tensor[T], error) {
	if dim < 1 {
		return nil, errors.Wrapf(ErrInvalidArgument, "Tile: dim=%d, it must be >= 1", dim)
	}
	if t.Rank() != 2 {
		return nil, errors.Wrapf(ErrInvalidArgument, "Tile: tensor has shape %v, only rank-2 tensors are supported", t.Shape())
	}
	t = t.Coalesce()
	if dim == 1 {
		return t, nil
	}
	ei, err := t.EdgeIndex()
	if err != nil {
		return nil, errors.WithMessage(err, "Tile")
	}
	ei, err = ExpandEdgeIndex(ei, dim)
	if err != nil {
		return nil, errors.WithMessage(err, "Tile")
	}
	// Values are replicated in the same (p, q) order used by ExpandEdgeIndex.
	values := repeatEach(t.Values(), dim*dim)
	tiled, err := coo.New([]int{ei.Size[0], ei.Size[1]}, [][]int{ei.Row, ei.Col}, values)
	if err != nil {
		return nil, errors.WithMessage(err, "Tile")
	}
	return tiled.To(t.Device()), nil
}
