// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package sparse builds, tiles, restricts and recombines coordinate-format sparse tensors (coo.Tensor)
// representing adjacency and kernel operators over graphs.
//
// When the nodes of a graph carry a vector space of dimension dim (a "fiber"), a scalar operator of shape
// n×n is lifted into a block operator of shape (n·dim)×(n·dim): node i is replaced by the contiguous
// coordinates [i·dim, (i+1)·dim). The functions here implement that index bookkeeping:
//
//   - ExpandIndex: lifts a list of node indices to the list of their fiber coordinates.
//   - ExpandEdgeIndex: lifts an edge index, connecting every coordinate of the source fiber to every
//     coordinate of the target fiber.
//   - Tile: the sparse equivalent of the Kronecker product of a tensor with a dim×dim block of ones.
//   - BlockDiag: places several tensors along the diagonal of a larger one.
//   - RestrictDimension: truncates every fiber of dimension d to its first m coordinates.
//   - RestrictToBatch: sub-selects rows and columns, e.g. to restrict an operator to a batch of nodes.
//
// All functions validate their arguments before doing any work, and return new tensors: inputs are never
// modified. Argument errors wrap ErrInvalidArgument or ErrUnsupportedSelection, and can be tested with
// errors.Is.
package sparse

import "github.com/pkg/errors"

var (
	// ErrInvalidArgument is returned (wrapped) for malformed parameters: dim < 1, m > d, empty inputs, etc.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnsupportedSelection is returned (wrapped) by RestrictToBatch when given more than two index sequences.
	ErrUnsupportedSelection = errors.New("unsupported index selection")
)
