// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package mask

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/luxfi/pet/pcrypto"
)

// SeedLen is the length in bytes of a mask seed.
const SeedLen = 32

// MaskSeed is the random value a mask is deterministically derived from.
// It is never sent on the wire in plaintext: sum participants only ever
// see it encrypted under their ephemeral public key.
type MaskSeed [SeedLen]byte

// GenerateMaskSeed draws a fresh random seed.
func GenerateMaskSeed() (MaskSeed, error) {
	var s MaskSeed
	if _, err := rand.Read(s[:]); err != nil {
		return s, fmt.Errorf("generate mask seed: %w", err)
	}
	return s, nil
}

// Bytes returns the raw seed bytes.
func (s MaskSeed) Bytes() []byte { return s[:] }

// MaskSeedFromBytes parses a fixed-size mask seed.
func MaskSeedFromBytes(b []byte) (MaskSeed, error) {
	var s MaskSeed
	if len(b) != SeedLen {
		return s, fmt.Errorf("invalid mask seed length: %d != %d", len(b), SeedLen)
	}
	copy(s[:], b)
	return s, nil
}

// Encrypt seals the seed under a sum participant's ephemeral public key,
// producing the encrypted seed bytes stored in an update's local seed dict.
func (s MaskSeed) Encrypt(pk pcrypto.PublicEncryptKey) []byte {
	return pk.Encrypt(s[:])
}

// deriveMask expands the seed into length pseudorandom integers modulo cfg's
// modulus, using SHA-256 in counter mode over seed||index. This is a
// deterministic expansion, not a cryptographic commitment: its only job is
// to make every participant who holds the same seed derive the identical
// mask vector.
func (s MaskSeed) deriveMask(cfg MaskConfig, length int) MaskObject {
	modulus := cfg.Modulus()
	vals := make([]*big.Int, length)
	for i := 0; i < length; i++ {
		vals[i] = s.streamInt(modulus, uint32(i))
	}
	return MaskObject{Config: cfg, Data: vals}
}

// streamInt draws one pseudorandom integer below modulus from the keyed
// SHA-256 counter-mode stream, concatenating hash blocks until enough
// entropy has been gathered to reduce mod modulus with negligible bias.
func (s MaskSeed) streamInt(modulus *big.Int, index uint32) *big.Int {
	need := (modulus.BitLen() + 7) / 8
	var buf []byte
	var block uint32
	for len(buf) < need+16 {
		h := sha256.New()
		h.Write(s[:])
		var ctr [8]byte
		binary.BigEndian.PutUint32(ctr[:4], index)
		binary.BigEndian.PutUint32(ctr[4:], block)
		h.Write(ctr[:])
		buf = append(buf, h.Sum(nil)...)
		block++
	}
	n := new(big.Int).SetBytes(buf[:need+16])
	return n.Mod(n, modulus)
}
