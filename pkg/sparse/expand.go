// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package sparse

import (
	"slices"

	"github.com/gomlx/sparse/types/coo"
	"github.com/gomlx/sparse/types/device"
	"github.com/gomlx/sparse/types/optional"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// ExpandIndex replaces each index ind[k] by the dim consecutive indices of its fiber:
// the output has len(ind)*dim elements, and element k*dim+i is ind[k]*dim+i.
//
// With dim == 1 it returns a copy of ind.
func ExpandIndex(ind []int, dim int) ([]int, error) {
	if dim < 1 {
		return nil, errors.Wrapf(ErrInvalidArgument, "ExpandIndex: dim=%d, it must be >= 1", dim)
	}
	if dim == 1 {
		return slices.Clone(ind), nil
	}
	expanded := make([]int, 0, len(ind)*dim)
	for _, idx := range ind {
		base := idx * dim
		for i := range dim {
			expanded = append(expanded, base+i)
		}
	}
	return expanded, nil
}

// ExpandEdgeIndex lifts the edge index ei of a graph whose nodes carry a fiber of dimension dim.
//
// Each edge (s, t) becomes dim² edges (s*dim+p, t*dim+q), for p, q in [0, dim), contiguous in the output
// and ordered with p major and q minor. The size is multiplied by dim on both axes, and the edge ids (if
// present) are repeated dim² times, so they stay aligned with the edges.
//
// The computation happens on the host: ei is transferred once on entry and the result transferred back to
// ei.Device once at the end. With dim == 1, ei is returned unchanged.
func ExpandEdgeIndex(ei coo.EdgeIndex, dim int) (coo.EdgeIndex, error) {
	if dim < 1 {
		return coo.EdgeIndex{}, errors.Wrapf(ErrInvalidArgument, "ExpandEdgeIndex: dim=%d, it must be >= 1", dim)
	}
	if err := ei.Validate(); err != nil {
		return coo.EdgeIndex{}, errors.WithMessage(err, "ExpandEdgeIndex")
	}
	if dim == 1 {
		return ei, nil
	}

	host := ei.To(device.Host)
	numEdges := host.Len()
	block := dim * dim
	expanded := coo.EdgeIndex{
		Row:    make([]int, 0, numEdges*block),
		Col:    make([]int, 0, numEdges*block),
		Size:   [2]int{host.Size[0] * dim, host.Size[1] * dim},
		Device: device.Host,
	}
	for e := range numEdges {
		s, t := host.Row[e]*dim, host.Col[e]*dim
		for p := range dim {
			for q := range dim {
				expanded.Row = append(expanded.Row, s+p)
				expanded.Col = append(expanded.Col, t+q)
			}
		}
	}
	expanded.ID = optional.Map(host.ID, func(ids []int) []int {
		return repeatEach(ids, block)
	})
	if klog.V(2).Enabled() {
		klog.Infof("ExpandEdgeIndex(dim=%d): %d edges -> %d edges, size %v -> %v",
			dim, numEdges, expanded.Len(), host.Size, expanded.Size)
	}
	return expanded.To(ei.Device), nil
}

// repeatEach returns a slice where each element of s is repeated n times in a row.
func repeatEach[T any](s []T, n int) []T {
	out := make([]T, 0, len(s)*n)
	for _, v := range s {
		for range n {
			out = append(out, v)
		}
	}
	return out
}
