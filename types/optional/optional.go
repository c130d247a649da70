// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package optional implements Optional, a value that may or may not be present.
//
// Presence is decided once, when the value is constructed, instead of being probed at every use site.
package optional

import (
	"fmt"

	"github.com/gomlx/exceptions"
)

// Optional holds either a value of type T or nothing. The zero value is absent.
type Optional[T any] struct {
	value   T
	present bool
}

// Some returns a present Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, present: true}
}

// None returns an absent Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// IsPresent returns whether o holds a value.
func (o Optional[T]) IsPresent() bool { return o.present }

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) { return o.value, o.present }

// MustGet returns the value, and panics if it is absent.
func (o Optional[T]) MustGet() T {
	if !o.present {
		var zero T
		exceptions.Panicf("optional.MustGet() called on an absent Optional[%T]", zero)
	}
	return o.value
}

// OrElse returns the value if present, or def otherwise.
func (o Optional[T]) OrElse(def T) T {
	if o.present {
		return o.value
	}
	return def
}

// String implements fmt.Stringer.
func (o Optional[T]) String() string {
	if !o.present {
		return "None"
	}
	return fmt.Sprintf("Some(%v)", o.value)
}

// Map applies fn to the value of o, if present.
func Map[T, U any](o Optional[T], fn func(T) U) Optional[U] {
	if !o.present {
		return None[U]()
	}
	return Some(fn(o.value))
}
