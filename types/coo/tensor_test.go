// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package coo

import (
	"testing"

	"github.com/gomlx/sparse/types/device"
	"github.com/gomlx/sparse/types/optional"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestNew(t *testing.T) {
	tensor := must.M1(New([]int{3, 4}, [][]int{{0, 2}, {1, 3}}, []float64{1.5, -2}))
	require.Equal(t, []int{3, 4}, tensor.Shape())
	require.Equal(t, 2, tensor.Rank())
	require.Equal(t, 2, tensor.NNZ())
	require.Equal(t, 4, tensor.Dim(1))
	require.Equal(t, []int{2, 3}, tensor.Coordinate(1))
	require.True(t, tensor.Device().IsHost())
	require.Equal(t, 1.5, tensor.At(0, 1))
	require.Equal(t, 0.0, tensor.At(1, 1))

	// Malformed inputs.
	for name, fn := range map[string]func() error{
		"rank0":        func() error { _, err := New([]int{}, nil, []float64{}); return err },
		"negative dim": func() error { _, err := New([]int{-1, 2}, [][]int{{}, {}}, []float64{}); return err },
		"wrong rank":   func() error { _, err := New([]int{2, 2}, [][]int{{0}}, []float64{1}); return err },
		"length":       func() error { _, err := New([]int{2, 2}, [][]int{{0}, {0, 1}}, []float64{1}); return err },
		"bounds":       func() error { _, err := New([]int{2, 2}, [][]int{{0}, {2}}, []float64{1}); return err },
		"negative idx": func() error { _, err := New([]int{2, 2}, [][]int{{-1}, {0}}, []float64{1}); return err },
	} {
		require.ErrorIsf(t, fn(), ErrInvalidTensor, "case %q", name)
	}
	require.Panics(t, func() { _ = MustNew([]int{1}, [][]int{{1}}, []int{1}) })

	// Changing the slices given to New doesn't change the tensor.
	shape, rows, cols, values := []int{2, 2}, []int{0}, []int{0}, []float64{1}
	owned := must.M1(New(shape, [][]int{rows, cols}, values))
	values[0], rows[0], shape[0] = 42, 1, 7
	require.Equal(t, 1.0, owned.At(0, 0))
	require.Equal(t, 0.0, owned.At(1, 0))
	require.Equal(t, []int{2, 2}, owned.Shape())
}

func TestZeros(t *testing.T) {
	z := must.M1(Zeros[int32](2, 5))
	require.Equal(t, []int{2, 5}, z.Shape())
	require.Equal(t, 0, z.NNZ())
	require.True(t, z.IsCoalesced())
	require.Equal(t, int32(0), z.At(1, 4))
}

func TestCoalesce(t *testing.T) {
	tensor := MustNew([]int{3, 3},
		[][]int{{2, 0, 2, 1, 0}, {1, 2, 1, 0, 2}},
		[]float64{1, 2, 3, 4, -2})
	require.False(t, tensor.IsCoalesced())
	c := tensor.Coalesce()
	require.True(t, c.IsCoalesced())
	// Row-major order, duplicates summed, explicit zero at (0,2) kept.
	assert.Equal(t, [][]int{{0, 1, 2}, {2, 0, 1}}, c.Indices())
	assert.Equal(t, []float64{0, 4, 4}, c.Values())
	// Input untouched.
	assert.Equal(t, 5, tensor.NNZ())
	// Coalescing twice is a no-op.
	require.Same(t, c, c.Coalesce())
	require.True(t, tensor.Equal(c))
	require.Equal(t, 4.0, tensor.At(2, 1))
}

func TestEqual(t *testing.T) {
	a := MustNew([]int{2, 2}, [][]int{{0, 1, 0}, {0, 1, 0}}, []int{1, 2, 3})
	b := MustNew([]int{2, 2}, [][]int{{1, 0}, {1, 0}}, []int{2, 4})
	require.True(t, a.Equal(b))
	c := MustNew([]int{2, 3}, [][]int{{1, 0}, {1, 0}}, []int{2, 4})
	require.False(t, a.Equal(c))
	d := MustNew([]int{2, 2}, [][]int{{1, 0}, {1, 0}}, []int{2, 5})
	require.False(t, a.Equal(d))
	require.True(t, a.Equal(a.To(device.Accelerator(1))))
}

func TestTo(t *testing.T) {
	tensor := MustNew([]int{2}, [][]int{{1}}, []float32{3})
	require.Same(t, tensor, tensor.To(device.Host))
	onAcc := tensor.To(device.Accelerator(0))
	require.Equal(t, device.Accelerator(0), onAcc.Device())
	require.True(t, tensor.Device().IsHost(), "To must not change the receiver")
	require.Equal(t, tensor.Values(), onAcc.Values())
	require.Contains(t, onAcc.String(), "accelerator:0")
	require.Contains(t, onAcc.String(), "COO[float32](shape=[2], nnz=1")
}

func TestIndexSelect(t *testing.T) {
	tensor := MustNew([]int{3, 3},
		[][]int{{0, 1, 2, 2}, {0, 1, 2, 0}},
		[]float64{1, 2, 3, 4})

	rows := must.M1(tensor.IndexSelect(0, []int{2, 0}))
	require.Equal(t, []int{2, 3}, rows.Shape())
	require.Equal(t, 3.0, rows.At(0, 2))
	require.Equal(t, 4.0, rows.At(0, 0))
	require.Equal(t, 1.0, rows.At(1, 0))
	require.Equal(t, 3, rows.NNZ())

	// Repeated selection replicates.
	cols := must.M1(tensor.IndexSelect(1, []int{0, 0}))
	require.Equal(t, []int{3, 2}, cols.Shape())
	require.Equal(t, 1.0, cols.At(0, 0))
	require.Equal(t, 1.0, cols.At(0, 1))
	require.Equal(t, 4.0, cols.At(2, 1))

	empty := must.M1(tensor.IndexSelect(0, nil))
	require.Equal(t, []int{0, 3}, empty.Shape())
	require.Equal(t, 0, empty.NNZ())

	_, err := tensor.IndexSelect(0, []int{3})
	require.ErrorIs(t, err, ErrInvalidTensor)
	_, err = tensor.IndexSelect(2, []int{0})
	require.ErrorIs(t, err, ErrInvalidTensor)
}

func TestEdgeIndex(t *testing.T) {
	ei := must.M1(NewEdgeIndex([]int{0, 1, 3}, []int{1, 2, 0}, optional.None[[2]int]()))
	require.Equal(t, [2]int{4, 3}, ei.Size)
	require.Equal(t, 3, ei.Len())
	require.False(t, ei.ID.IsPresent())

	withIDs := must.M1(ei.WithIDs([]int{10, 11, 12}))
	require.Equal(t, []int{10, 11, 12}, withIDs.ID.MustGet())
	_, err := ei.WithIDs([]int{1})
	require.ErrorIs(t, err, ErrInvalidTensor)

	moved := withIDs.To(device.Accelerator(2))
	require.Equal(t, device.Accelerator(2), moved.Device)
	require.True(t, moved.ID.IsPresent())
	require.True(t, withIDs.Device.IsHost())

	_, err = NewEdgeIndex([]int{0, 1}, []int{0}, optional.None[[2]int]())
	require.ErrorIs(t, err, ErrInvalidTensor)
	_, err = NewEdgeIndex([]int{0, 5}, []int{0, 1}, optional.Some([2]int{3, 3}))
	require.ErrorIs(t, err, ErrInvalidTensor)

	empty := must.M1(NewEdgeIndex(nil, nil, optional.None[[2]int]()))
	require.Equal(t, [2]int{0, 0}, empty.Size)
}

func TestFromEdgeIndex(t *testing.T) {
	ei := must.M1(NewEdgeIndex([]int{0, 1, 0}, []int{1, 0, 1}, optional.Some([2]int{2, 3})))
	ei = ei.To(device.Accelerator(0))

	adj := must.M1(FromEdgeIndex(ei, optional.None[[]float64]()))
	require.Equal(t, []int{2, 3}, adj.Shape())
	require.Equal(t, device.Accelerator(0), adj.Device())
	require.Equal(t, 2.0, adj.At(0, 1), "repeated edges must be summed")
	require.Equal(t, 1.0, adj.At(1, 0))

	weighted := must.M1(FromEdgeIndex(ei, optional.Some([]int{5, 6, 7})))
	require.Equal(t, 12, weighted.At(0, 1))

	_, err := FromEdgeIndex(ei, optional.Some([]int{5}))
	require.ErrorIs(t, err, ErrInvalidTensor)

	coalesced := adj.Coalesce()
	back := must.M1(coalesced.EdgeIndex())
	require.Equal(t, []int{0, 1}, back.Row)
	require.Equal(t, []int{1, 0}, back.Col)
	require.Equal(t, [2]int{2, 3}, back.Size)
	require.Equal(t, device.Accelerator(0), back.Device)

	// The edge index doesn't share storage with the tensor.
	back.Row[0], back.Col[0] = 1, 1
	require.Equal(t, [][]int{{0, 1}, {1, 0}}, coalesced.Indices())
}

func TestDense(t *testing.T) {
	tensor := MustNew([]int{2, 3}, [][]int{{0, 1, 1}, {2, 0, 0}}, []float64{1, 2, 3})
	dense := must.M1(ToDense(tensor))
	want := mat.NewDense(2, 3, []float64{
		0, 0, 1,
		5, 0, 0,
	})
	require.True(t, mat.Equal(want, dense))

	back := FromDense(dense)
	require.True(t, back.IsCoalesced())
	require.True(t, back.Equal(tensor))

	_, err := ToDense(MustNew([]int{2}, [][]int{{0}}, []float64{1}))
	require.ErrorIs(t, err, ErrInvalidTensor)
	_, err = ToDense(must.M1(Zeros[float64](0, 0)))
	require.ErrorIs(t, err, ErrInvalidTensor)
}
