// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package errs classifies the configuration-time failures the engine can
surface (§7 of the design): bad sizes, out-of-range probabilities and
delays, duplicate edges, out-of-range indices, and kinds that don't conform
to any supported callback shape. These always fail loudly as a returned
error at configuration time, never as a panic in release builds -- the
invariant checks in §7 are a separate, debug-only assertion mechanism
(see Check).
*/
package errs

import (
	"fmt"

	"goki.dev/enums"
)

// Kind discriminates the class of configuration error, generated in the
// same enums-backed idiom as erand.RndDists (see erand/enumgen.go).
type Kind int32 //enums:enum

const (
	// BadSize indicates a population or graph size is invalid (negative,
	// zero where a positive size is required, or exceeds Int32Max-1).
	BadSize Kind = iota
	// BadProbability indicates a connection probability p is outside [0,1].
	BadProbability
	// BadDelay indicates a synapse delay is outside [1, max_delay].
	BadDelay
	// DuplicateEdge indicates an adjacency list contains the same
	// (src, dst) pair more than once.
	DuplicateEdge
	// IndexOutOfRange indicates a source or destination index named by a
	// topology exceeds the bound count passed to Bind.
	IndexOutOfRange
	// AmbiguousShape indicates a neuron or synapse kind satisfies more
	// than one of the mutually-exclusive callback dispatch shapes.
	AmbiguousShape
	// UnsupportedShape indicates a kind satisfies none of the supported
	// callback dispatch shapes.
	UnsupportedShape
)

var kindNames = map[Kind]string{
	BadSize:          "BadSize",
	BadProbability:   "BadProbability",
	BadDelay:         "BadDelay",
	DuplicateEdge:    "DuplicateEdge",
	IndexOutOfRange:  "IndexOutOfRange",
	AmbiguousShape:   "AmbiguousShape",
	UnsupportedShape: "UnsupportedShape",
}

// String returns the string representation of this Kind value.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int32(k))
}

// Int64 returns the Kind value as an int64.
func (k Kind) Int64() int64 { return int64(k) }

// SetInt64 sets the Kind value from an int64.
func (k *Kind) SetInt64(v int64) { *k = Kind(v) }

// Desc returns the description of the Kind value; Kind has no separate
// long-form description, so this is an alias for String.
func (k Kind) Desc() string { return k.String() }

// Values returns all possible Kind values, satisfying enums.Enum.
func (k Kind) Values() []enums.Enum {
	all := []Kind{BadSize, BadProbability, BadDelay, DuplicateEdge, IndexOutOfRange, AmbiguousShape, UnsupportedShape}
	res := make([]enums.Enum, len(all))
	for i, v := range all {
		res[i] = v
	}
	return res
}

var _ enums.Enum = Kind(0)

// ConfigError is a precondition violation detected at configuration time
// (before the first Step). It is always returned, never panicked, so
// callers can surface it as a recoverable error.
type ConfigError struct {
	Kind Kind
	Msg  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// New constructs a ConfigError of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *ConfigError {
	return &ConfigError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Debug gates the invariant assertions described in §7: checked in debug
// builds, assumed true in release. Off by default, mirroring the reference
// engine's SPICE_INV macro which compiles to nothing outside debug builds.
var Debug = false

// Check panics with msg if Debug is enabled and cond is false. Used only
// for the invariant class of error (CSR offsets monotonic, ages[src] <=
// time+1, spike_counts.len <= max_delay, ...) -- never for configuration
// errors, which must always be returned.
func Check(cond bool, msg string) {
	if Debug && !cond {
		panic("invariant violated: " + msg)
	}
}
