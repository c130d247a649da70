// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package session holds the configuration of a preprocessing or training session: where tensors are
// placed, the random seed, and how parallel work is dispatched.
//
// It is an explicit record, created once at initialization and passed along. There are no package-level
// device or seed globals.
package session

import (
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/gomlx/sparse/pkg/parallel"
	"github.com/gomlx/sparse/types/coo"
	"github.com/gomlx/sparse/types/device"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// GOMLX_SPARSE is the environment variable with the session configuration used by FromEnv.
// See Parse for the format.
const GOMLX_SPARSE = "GOMLX_SPARSE"

// Config of a session.
type Config struct {
	// Device where tensors are placed by Place.
	Device device.Device

	// Seed for the random number generator returned by Rand.
	Seed int64

	// Parallel configures parallel.Map calls made during the session.
	Parallel parallel.Config
}

// Default configuration: host device, seed 0, all CPUs and no progress bar.
func Default() Config {
	return Config{
		Device:   device.Host,
		Parallel: parallel.DefaultConfig(),
	}
}

// Parse a configuration formatted as a comma-separated list of "key=value" pairs, applied on top of Default.
//
// Keys are "device" (see device.Parse), "seed", and the keys of parallel.ParseConfig ("workers" and
// "progress"). Example: "device=cuda:0,seed=42,workers=auto,progress=kernels".
func Parse(config string) (Config, error) {
	c := Default()
	config = strings.TrimSpace(config)
	if config == "" {
		return c, nil
	}
	for _, part := range strings.Split(config, ",") {
		key, value, found := strings.Cut(part, "=")
		if !found {
			return c, errors.Errorf("session config %q: %q is not in the \"key=value\" format", config, part)
		}
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		var err error
		switch key {
		case "device":
			c.Device, err = device.Parse(value)
		case "seed":
			c.Seed, err = strconv.ParseInt(value, 10, 64)
		default:
			err = c.Parallel.Set(key, value)
		}
		if err != nil {
			return c, errors.WithMessagef(err, "session config %q", config)
		}
	}
	return c, nil
}

// FromEnv returns the configuration given by the GOMLX_SPARSE environment variable, or Default if it
// is not set.
func FromEnv() (Config, error) {
	config, found := os.LookupEnv(GOMLX_SPARSE)
	if !found {
		return Default(), nil
	}
	c, err := Parse(config)
	if err != nil {
		return c, errors.WithMessagef(err, "parsing $%s", GOMLX_SPARSE)
	}
	klog.V(1).Infof("session configured from $%s: %s", GOMLX_SPARSE, c)
	return c, nil
}

// String implements fmt.Stringer. Parse accepts its output under the same conditions as for
// parallel.Config.String.
func (c Config) String() string {
	return "device=" + c.Device.String() + ",seed=" + strconv.FormatInt(c.Seed, 10) + "," + c.Parallel.String()
}

// Rand returns a new random number generator seeded with c.Seed.
// Each call returns an independent generator with the same sequence.
func (c Config) Rand() *rand.Rand {
	return rand.New(rand.NewSource(c.Seed))
}

// Place moves the tensor to the session device.
func Place[T coo.Number](c Config, t *coo.Tensor[T]) *coo.Tensor[T] {
	return t.To(c.Device)
}

// PlaceEdges moves the edge index to the session device.
func (c Config) PlaceEdges(ei coo.EdgeIndex) coo.EdgeIndex {
	return ei.To(c.Device)
}
