// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package session

import (
	"testing"

	"github.com/gomlx/sparse/pkg/parallel"
	"github.com/gomlx/sparse/types/coo"
	"github.com/gomlx/sparse/types/device"
	"github.com/gomlx/sparse/types/optional"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	c := must.M1(Parse(""))
	require.Equal(t, Default(), c)

	c = must.M1(Parse("device=cuda:1, seed=42, workers=3, progress=kernels"))
	require.Equal(t, Config{
		Device:   device.Accelerator(1),
		Seed:     42,
		Parallel: parallel.Config{Workers: 3, ProgressLabel: "kernels"},
	}, c)
	require.Equal(t, "device=accelerator:1,seed=42,workers=3,progress=kernels", c.String())
	require.Equal(t, c, must.M1(Parse(c.String())))

	for _, config := range []string{"device=tpu", "seed=x", "workers=0", "colour=blue", "seed"} {
		_, err := Parse(config)
		require.Errorf(t, err, "Parse(%q) should have failed", config)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv(GOMLX_SPARSE, "seed=7,workers=2")
	c := must.M1(FromEnv())
	require.Equal(t, int64(7), c.Seed)
	require.Equal(t, 2, c.Parallel.Workers)
	require.True(t, c.Device.IsHost())

	t.Setenv(GOMLX_SPARSE, "workers=none")
	_, err := FromEnv()
	require.Error(t, err)
}

func TestRand(t *testing.T) {
	c := Default()
	c.Seed = 3
	r0, r1 := c.Rand(), c.Rand()
	for range 10 {
		require.Equal(t, r0.Int63(), r1.Int63())
	}
}

func TestPlace(t *testing.T) {
	c := must.M1(Parse("device=gpu:2"))
	tensor := coo.MustNew([]int{2, 2}, [][]int{{0}, {1}}, []float64{1})
	placed := Place(c, tensor)
	require.Equal(t, device.Accelerator(2), placed.Device())

	ei := must.M1(coo.NewEdgeIndex([]int{0}, []int{1}, optional.None[[2]int]()))
	require.Equal(t, device.Accelerator(2), c.PlaceEdges(ei).Device)
}
