// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pcrypto

import "encoding/binary"

// ParticipantTaskSignature is a deterministic, round-bound eligibility
// signature: sign(secret_key, round_seed || role_tag).
type ParticipantTaskSignature = Signature

// Score interprets the signature as a uniform random number in [0, 1).
//
// The first 8 bytes of the signature are taken as a big-endian unsigned
// integer; its top 53 bits are normalized by 2^53, which a float64 holds
// exactly, so the score never rounds up to 1. Ed25519 signatures are
// indistinguishable from random given an unknown secret key, so this is a
// sound source of round-bound, adversary-unpredictable randomness for role
// election.
func (s Signature) Score() float64 {
	n := binary.BigEndian.Uint64(s[:8])
	return float64(n>>11) / (1 << 53)
}

// IsEligible reports whether this signature's score falls below threshold.
// The comparison is strict: a threshold of 0 makes every signature
// ineligible, and a threshold of 1 makes every signature eligible.
func (s Signature) IsEligible(threshold float64) bool {
	return s.Score() < threshold
}
