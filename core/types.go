// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package core holds the domain types shared across every phase of the
// participant state machine: the coordinator's round manifest, the
// participant's bootstrap-time configuration, and the dictionaries
// exchanged during a round.
package core

import (
	"bytes"

	"github.com/luxfi/pet/mask"
	"github.com/luxfi/pet/pcrypto"
)

// RoundSeedLen is the length in bytes of a round's freshness seed.
const RoundSeedLen = 32

// RoundSeed binds eligibility computations to one coordinator round.
type RoundSeed [RoundSeedLen]byte

// RoundParameters is the coordinator's current-round manifest. Two
// RoundParameters are equal iff every field is byte-equal; any
// inequality must trigger a reset to NewRound (spec invariant 3).
type RoundParameters struct {
	PK     pcrypto.PublicEncryptKey
	Seed   RoundSeed
	Sum    float64
	Update float64
}

// Equal reports whether r and other are byte-identical in every field.
func (r RoundParameters) Equal(other RoundParameters) bool {
	return bytes.Equal(r.PK[:], other.PK[:]) &&
		r.Seed == other.Seed &&
		r.Sum == other.Sum &&
		r.Update == other.Update
}

// Model is a participant's local model weights.
type Model []float64

// SumDict maps sum participants' public signing keys to the ephemeral
// encryption public key they contributed, published once the sum phase
// closes.
type SumDict map[pcrypto.PublicSigningKey]pcrypto.PublicEncryptKey

// LocalSeedDict is one update participant's map of encrypted mask seeds,
// one per sum participant it addressed.
type LocalSeedDict map[pcrypto.PublicSigningKey][]byte

// UpdateSeedDict is the coordinator-merged map of encrypted mask seeds
// addressed to a single sum participant, collected from every update
// participant.
type UpdateSeedDict map[pcrypto.PublicSigningKey][]byte

// SharedState is the data common to every phase: the participant's
// signing keypair, masking configuration, aggregation scalar, maximum
// message size, and the last-observed round manifest. It is created at
// bootstrap and mutated only when fresh round parameters arrive.
type SharedState struct {
	Keys           pcrypto.SigningKeyPair
	MaskConfig     mask.MaskConfig
	Scalar         float64
	MaxMessageSize int
	RoundParams    RoundParameters
}
