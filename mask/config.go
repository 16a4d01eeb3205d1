// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package mask implements the additive masking scheme that hides a
// participant's local model contribution from the coordinator: a model is
// shifted, scaled to an integer, and blinded with a mask derived from a
// random seed; sum participants later aggregate those masks so the
// coordinator can cancel them out of the summed masked models without ever
// seeing an individual contribution.
package mask

import "math/big"

// GroupType selects the algebraic group the masked integers live in.
type GroupType byte

const (
	// GroupInteger uses a modulus of the form 2^bits.
	GroupInteger GroupType = iota
	// GroupPrime uses a modulus just below 2^bits, odd by construction.
	GroupPrime
)

// DataType records the numeric type of the model weights being masked. It
// has no effect on the masking arithmetic itself (everything is converted
// to float64 upstream) but is carried through so a coordinator validating
// configs can reject mismatched producers.
type DataType byte

const (
	DataF32 DataType = iota
	DataF64
	DataI32
	DataI64
)

// BoundType selects the assumed magnitude bound on scaled model weights,
// which in turn determines the modulus size needed to avoid wraparound
// when many contributions are aggregated.
type BoundType byte

const (
	BoundB0 BoundType = iota // bound 100
	BoundB2                  // bound 10_000
	BoundB4                  // bound 1_000_000
	BoundB6                  // bound 100_000_000
)

// ModelType selects the fixed-point scaling factor applied before masking.
type ModelType byte

const (
	ModelM3  ModelType = iota // scale 10^3
	ModelM6                   // scale 10^6
	ModelM9                   // scale 10^9
	ModelM12                  // scale 10^12
)

// MaskConfig selects the group, numeric domain, bound, and scale used by a
// Masker. It must be identical across every participant in a round:
// mismatched configs make masks algebraically incompatible, which
// Aggregation.validateAggregation (aggregation.go) is designed to catch.
type MaskConfig struct {
	GroupType GroupType
	DataType  DataType
	BoundType BoundType
	ModelType ModelType
}

var boundValues = [...]float64{100, 10_000, 1_000_000, 100_000_000}

var scaleValues = [...]float64{1e3, 1e6, 1e9, 1e12}

// modulusBits sizes the modulus so that summing up to 2^16 contributions,
// each bounded by boundValue*scaleValue, never wraps the modulus for any
// BoundType/ModelType combination this config space allows.
var modulusBits = [...]uint{128, 192, 320, 448}

// Bound returns the assumed magnitude bound on a raw (unscaled) weight.
func (c MaskConfig) Bound() float64 { return boundValues[c.BoundType] }

// Scale returns the fixed-point scaling factor applied before masking.
func (c MaskConfig) Scale() float64 { return scaleValues[c.ModelType] }

// primeOffset nudges a power-of-two modulus down to an odd number for the
// "prime" group type. This is a simplified, deterministic group-order
// selection: it does not perform a primality search, only guarantees the
// modulus is odd and config-deterministic, which is all the additive
// masking arithmetic below actually needs.
const primeOffset = 189

// Modulus returns the deterministic modulus all masked integers live under.
func (c MaskConfig) Modulus() *big.Int {
	bits := modulusBits[c.BoundType]
	m := new(big.Int).Lsh(big.NewInt(1), bits)
	if c.GroupType == GroupPrime {
		m.Sub(m, big.NewInt(primeOffset))
	}
	return m
}

// ByteLen returns the fixed width, in bytes, of a single masked integer
// encoded under this config.
func (c MaskConfig) ByteLen() int {
	return (int(modulusBits[c.BoundType]) + 7) / 8
}
