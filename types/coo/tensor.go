// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package coo implements sparse tensors in coordinate (COO) format, and the edge index used to describe
// graph adjacencies before values are assigned to them.
//
// A Tensor is a list of (coordinate, value) pairs plus a shape. Coordinates are stored axis-major:
// Tensor.Indices()[axis][k] is the coordinate on axis of the k-th nonzero, so a rank-2 tensor has the
// familiar 2×nnz index layout.
//
// Tensors are immutable once built: every operation returns a new Tensor. An uncoalesced Tensor may
// hold the same coordinate more than once, in which case the values are summed (see Tensor.Coalesce),
// never overwritten.
//
// ## Glossary
//
//   - nnz: number of stored (coordinate, value) pairs, including duplicates and explicit zeros.
//   - Coalescing: merging duplicate coordinates by summing their values, and sorting the coordinates in
//     row-major order.
//   - Device: where the data lives, see package device.
package coo

import (
	"fmt"
	"slices"
	"unsafe"

	"github.com/dustin/go-humanize"
	"github.com/gomlx/exceptions"
	"github.com/gomlx/sparse/types/device"
	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
	"k8s.io/klog/v2"
)

// Number is the constraint on the values of a Tensor.
type Number interface {
	constraints.Integer | constraints.Float
}

// ErrInvalidTensor is returned (wrapped) when a Tensor or an EdgeIndex is malformed:
// mismatched lengths, coordinates out of bounds, negative dimensions.
var ErrInvalidTensor = errors.New("invalid sparse tensor")

// Tensor is a sparse tensor in coordinate format.
//
// Use New to create one. The zero value is not valid.
type Tensor[T Number] struct {
	shape     []int
	indices   [][]int
	values    []T
	dev       device.Device
	coalesced bool
}

// New creates a Tensor on the host with the given shape, axis-major indices (indices[axis][k]) and values.
//
// The given slices are copied, so the caller may reuse them afterwards.
// It returns an error wrapping ErrInvalidTensor if the lengths don't match, or if any coordinate is out of
// the bounds given by shape.
func New[T Number](shape []int, indices [][]int, values []T) (*Tensor[T], error) {
	if len(shape) == 0 {
		return nil, errors.Wrap(ErrInvalidTensor, "coo.New: scalar (rank 0) sparse tensors are not supported")
	}
	for axis, dim := range shape {
		if dim < 0 {
			return nil, errors.Wrapf(ErrInvalidTensor, "coo.New: shape %v has negative dimension on axis %d", shape, axis)
		}
	}
	if len(indices) != len(shape) {
		return nil, errors.Wrapf(ErrInvalidTensor, "coo.New: shape %v has rank %d, but indices given for %d axes",
			shape, len(shape), len(indices))
	}
	nnz := len(values)
	for axis, axisIndices := range indices {
		if len(axisIndices) != nnz {
			return nil, errors.Wrapf(ErrInvalidTensor, "coo.New: %d values given, but axis %d has %d indices",
				nnz, axis, len(axisIndices))
		}
		dim := shape[axis]
		for k, idx := range axisIndices {
			if idx < 0 || idx >= dim {
				return nil, errors.Wrapf(ErrInvalidTensor, "coo.New: nonzero #%d has index %d on axis %d, out of bounds for shape %v",
					k, idx, axis, shape)
			}
		}
	}
	ownIndices := make([][]int, len(indices))
	for axis, axisIndices := range indices {
		ownIndices[axis] = slices.Clone(axisIndices)
	}
	return &Tensor[T]{
		shape:   slices.Clone(shape),
		indices: ownIndices,
		values:  slices.Clone(values),
		// With at most one nonzero, the tensor is trivially coalesced.
		coalesced: nnz <= 1,
	}, nil
}

// MustNew is like New, but panics on error.
func MustNew[T Number](shape []int, indices [][]int, values []T) *Tensor[T] {
	t, err := New(shape, indices, values)
	if err != nil {
		exceptions.Panicf("coo.MustNew: %+v", err)
	}
	return t
}

// Zeros returns a Tensor with the given shape and no nonzero values.
func Zeros[T Number](shape ...int) (*Tensor[T], error) {
	return New(shape, make([][]int, len(shape)), []T{})
}

// Shape returns the dimensions of the tensor. It must not be modified.
func (t *Tensor[T]) Shape() []int { return t.shape }

// Rank returns the number of axes.
func (t *Tensor[T]) Rank() int { return len(t.shape) }

// Dim returns the dimension of the given axis.
func (t *Tensor[T]) Dim(axis int) int { return t.shape[axis] }

// NNZ returns the number of stored values, including duplicate coordinates if the tensor is not coalesced.
func (t *Tensor[T]) NNZ() int { return len(t.values) }

// Indices returns the axis-major coordinates: Indices()[axis][k] is the coordinate of the k-th value on axis.
// The returned slices are shared with the tensor and must not be modified.
func (t *Tensor[T]) Indices() [][]int { return t.indices }

// Values returns the values aligned with Indices. It must not be modified.
func (t *Tensor[T]) Values() []T { return t.values }

// Device where the tensor data lives.
func (t *Tensor[T]) Device() device.Device { return t.dev }

// IsCoalesced returns whether the coordinates are known to be unique and sorted in row-major order.
func (t *Tensor[T]) IsCoalesced() bool { return t.coalesced }

// Coordinate returns the coordinate of the k-th value, as a newly allocated slice.
func (t *Tensor[T]) Coordinate(k int) []int {
	coord := make([]int, len(t.indices))
	for axis := range t.indices {
		coord[axis] = t.indices[axis][k]
	}
	return coord
}

// To returns the tensor placed on the given device.
//
// If it is already there, t itself is returned. Since tensors are immutable, the returned tensor shares
// the storage with t.
func (t *Tensor[T]) To(dev device.Device) *Tensor[T] {
	if t.dev == dev {
		return t
	}
	if klog.V(2).Enabled() {
		klog.Infof("coo.Tensor%v: transfer %s -> %s (%s)", t.shape, t.dev, dev, humanize.Bytes(t.Memory()))
	}
	moved := *t
	moved.dev = dev
	return &moved
}

// At returns the value at the given coordinate, summing every stored entry at it.
// It returns 0 for coordinates with no stored value.
func (t *Tensor[T]) At(coord ...int) T {
	if len(coord) != t.Rank() {
		exceptions.Panicf("coo.Tensor.At(%v): tensor has rank %d", coord, t.Rank())
	}
	var sum T
nonzeros:
	for k, v := range t.values {
		for axis, c := range coord {
			if t.indices[axis][k] != c {
				continue nonzeros
			}
		}
		sum += v
	}
	return sum
}

// Equal returns whether t and other have the same shape and hold the same values at the same coordinates,
// once both are coalesced. The device is not compared.
func (t *Tensor[T]) Equal(other *Tensor[T]) bool {
	if !slices.Equal(t.shape, other.shape) {
		return false
	}
	a, b := t.Coalesce(), other.Coalesce()
	if !slices.Equal(a.values, b.values) {
		return false
	}
	for axis := range a.indices {
		if !slices.Equal(a.indices[axis], b.indices[axis]) {
			return false
		}
	}
	return true
}

// Memory returns the approximate number of bytes used by the indices and values.
func (t *Tensor[T]) Memory() uint64 {
	var zero T
	perValue := uint64(unsafe.Sizeof(zero)) + uint64(t.Rank())*uint64(unsafe.Sizeof(int(0)))
	return uint64(t.NNZ()) * perValue
}

// String implements fmt.Stringer. It prints a summary, not the values.
func (t *Tensor[T]) String() string {
	var zero T
	return fmt.Sprintf("COO[%T](shape=%v, nnz=%d, %s, %s)", zero, t.shape, t.NNZ(), t.dev, humanize.Bytes(t.Memory()))
}
