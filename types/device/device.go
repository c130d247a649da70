// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package device defines Device, the execution context where the data of a sparse tensor or edge index
// lives: either the host memory or one of the numbered accelerators.
//
// There is no global placement state: every value that can live on an accelerator carries its Device,
// and moving it is always an explicit call (see coo.Tensor.To and coo.EdgeIndex.To).
package device

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Kind of execution context.
type Kind int

const (
	// KindHost is the normal (CPU addressable) memory.
	KindHost Kind = iota

	// KindAccelerator is the memory of an accelerator (GPU, TPU), identified by its ordinal.
	KindAccelerator
)

// Num identifies one accelerator. It's meaningless for the host.
type Num int

// Device is an execution context. The zero value is the Host.
type Device struct {
	kind Kind
	num  Num
}

// Host is the canonical host-addressable execution context.
var Host = Device{kind: KindHost}

// Accelerator returns the Device for accelerator number num.
func Accelerator(num Num) Device {
	return Device{kind: KindAccelerator, num: num}
}

// Kind returns whether the device is the host or an accelerator.
func (d Device) Kind() Kind { return d.kind }

// Num returns the accelerator ordinal. It is always 0 for the Host.
func (d Device) Num() Num { return d.num }

// IsHost returns whether d is the host memory.
func (d Device) IsHost() bool { return d.kind == KindHost }

// String implements fmt.Stringer. It returns "host" or "accelerator:<num>", which Parse accepts back.
func (d Device) String() string {
	if d.IsHost() {
		return "host"
	}
	return "accelerator:" + strconv.Itoa(int(d.num))
}

// Parse a device description. It accepts "host" or "cpu" for the host, and "accelerator:<n>", "cuda:<n>" or
// "gpu:<n>" for accelerators. The ordinal defaults to 0 if omitted.
func Parse(config string) (Device, error) {
	config = strings.ToLower(strings.TrimSpace(config))
	name, ordinal, hasOrdinal := strings.Cut(config, ":")
	switch name {
	case "", "host", "cpu":
		if hasOrdinal {
			return Host, errors.Errorf("device %q: host device doesn't take an ordinal", config)
		}
		return Host, nil
	case "accelerator", "cuda", "gpu":
		if !hasOrdinal {
			return Accelerator(0), nil
		}
		n, err := strconv.Atoi(ordinal)
		if err != nil || n < 0 {
			return Host, errors.Errorf("device %q: invalid accelerator ordinal %q", config, ordinal)
		}
		return Accelerator(Num(n)), nil
	default:
		return Host, errors.Errorf("unknown device %q, valid values are \"host\", \"cpu\", \"accelerator:<n>\" or \"cuda:<n>\"", config)
	}
}
