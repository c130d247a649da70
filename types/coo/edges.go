// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package coo

import (
	"slices"

	"github.com/gomlx/sparse/types/device"
	"github.com/gomlx/sparse/types/optional"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// EdgeIndex describes the edges of a graph (or of a sampled bipartite sub-graph) before values are
// assigned to them: edge e goes from node Row[e] to node Col[e].
//
// Size is (rows, cols): the number of source and target nodes. ID optionally holds one identifier per
// edge, typically the position of the edge in the original (non-sampled) graph.
type EdgeIndex struct {
	Row, Col []int
	ID       optional.Optional[[]int]
	Size     [2]int
	Device   device.Device
}

// NewEdgeIndex creates an EdgeIndex on the host. Row and col must have the same length.
//
// If size is absent, it is set to (max(row)+1, max(col)+1).
// It takes ownership of row and col.
func NewEdgeIndex(row, col []int, size optional.Optional[[2]int]) (EdgeIndex, error) {
	ei := EdgeIndex{Row: row, Col: col}
	if s, ok := size.Get(); ok {
		ei.Size = s
	} else {
		ei.Size = [2]int{maxPlusOne(row), maxPlusOne(col)}
	}
	if err := ei.Validate(); err != nil {
		return EdgeIndex{}, err
	}
	return ei, nil
}

func maxPlusOne(s []int) int {
	if len(s) == 0 {
		return 0
	}
	return slices.Max(s) + 1
}

// Len returns the number of edges.
func (ei EdgeIndex) Len() int { return len(ei.Row) }

// Validate checks that Row, Col and ID (if present) have the same length and that every node is within Size.
func (ei EdgeIndex) Validate() error {
	if len(ei.Row) != len(ei.Col) {
		return errors.Wrapf(ErrInvalidTensor, "EdgeIndex: %d rows but %d cols", len(ei.Row), len(ei.Col))
	}
	if ids, ok := ei.ID.Get(); ok && len(ids) != len(ei.Row) {
		return errors.Wrapf(ErrInvalidTensor, "EdgeIndex: %d ids given for %d edges", len(ids), len(ei.Row))
	}
	for axis, nodes := range [2][]int{ei.Row, ei.Col} {
		for e, node := range nodes {
			if node < 0 || node >= ei.Size[axis] {
				return errors.Wrapf(ErrInvalidTensor, "EdgeIndex: edge #%d has node %d on axis %d, out of bounds for size %v",
					e, node, axis, ei.Size)
			}
		}
	}
	return nil
}

// WithIDs returns a copy of ei with the given edge identifiers attached.
func (ei EdgeIndex) WithIDs(ids []int) (EdgeIndex, error) {
	if len(ids) != ei.Len() {
		return EdgeIndex{}, errors.Wrapf(ErrInvalidTensor, "EdgeIndex.WithIDs: %d ids given for %d edges", len(ids), ei.Len())
	}
	ei.ID = optional.Some(ids)
	return ei, nil
}

// To returns the edge index placed on the given device: rows, cols and ids (if present) move together.
//
// If it is already there, ei is returned unchanged. The storage is shared, since edge indices are not
// modified in place.
func (ei EdgeIndex) To(dev device.Device) EdgeIndex {
	if ei.Device == dev {
		return ei
	}
	klog.V(2).Infof("coo.EdgeIndex(%d edges): transfer %s -> %s", ei.Len(), ei.Device, dev)
	ei.Device = dev
	return ei
}

// FromEdgeIndex builds the adjacency Tensor of shape ei.Size with a nonzero for each edge.
//
// If values is absent every edge gets the value 1. The result lives on the same device as ei, and is not
// coalesced: repeated edges are summed only when the tensor is coalesced.
func FromEdgeIndex[T Number](ei EdgeIndex, values optional.Optional[[]T]) (*Tensor[T], error) {
	if err := ei.Validate(); err != nil {
		return nil, err
	}
	vals, ok := values.Get()
	if ok {
		if len(vals) != ei.Len() {
			return nil, errors.Wrapf(ErrInvalidTensor, "FromEdgeIndex: %d values given for %d edges", len(vals), ei.Len())
		}
	} else {
		vals = make([]T, ei.Len())
		for e := range vals {
			vals[e] = 1
		}
	}
	t, err := New([]int{ei.Size[0], ei.Size[1]}, [][]int{ei.Row, ei.Col}, vals)
	if err != nil {
		return nil, err
	}
	return t.To(ei.Device), nil
}

// EdgeIndex returns the coordinates of a rank-2 tensor as an EdgeIndex, on the same device.
// The edges are in the stored order of t, so coalesce t first if unique edges are needed.
func (t *Tensor[T]) EdgeIndex() (EdgeIndex, error) {
	if t.Rank() != 2 {
		return EdgeIndex{}, errors.Wrapf(ErrInvalidTensor, "Tensor.EdgeIndex requires a rank-2 tensor, got shape %v", t.shape)
	}
	return EdgeIndex{
		Row:    slices.Clone(t.indices[0]),
		Col:    slices.Clone(t.indices[1]),
		Size:   [2]int{t.shape[0], t.shape[1]},
		Device: t.dev,
	}, nil
}
