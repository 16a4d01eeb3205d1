// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pcrypto

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/nacl/box"
)

const (
	// PublicEncryptKeyLen is the length in bytes of a Curve25519 public key.
	PublicEncryptKeyLen = 32
	// SecretEncryptKeyLen is the length in bytes of a Curve25519 secret key.
	SecretEncryptKeyLen = 32
)

// PublicEncryptKey is a Curve25519 public encryption key.
type PublicEncryptKey [PublicEncryptKeyLen]byte

// SecretEncryptKey is a Curve25519 secret encryption key.
type SecretEncryptKey [SecretEncryptKeyLen]byte

// EncryptKeyPair is an ephemeral asymmetric encryption keypair, generated
// fresh for each Sum participant's round (spec invariant: Sum2 requires the
// exact keypair created by the preceding Sum phase for this round).
type EncryptKeyPair struct {
	Public PublicEncryptKey
	Secret SecretEncryptKey
}

// GenerateEncryptKeyPair creates a fresh Curve25519 keypair.
func GenerateEncryptKeyPair() (EncryptKeyPair, error) {
	pub, sec, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return EncryptKeyPair{}, fmt.Errorf("generate encrypt keypair: %w", err)
	}
	return EncryptKeyPair{Public: PublicEncryptKey(*pub), Secret: SecretEncryptKey(*sec)}, nil
}

// Bytes returns the raw key bytes.
func (pk PublicEncryptKey) Bytes() []byte { return pk[:] }

// PublicEncryptKeyFromBytes parses a fixed-size public encryption key.
func PublicEncryptKeyFromBytes(b []byte) (PublicEncryptKey, error) {
	var pk PublicEncryptKey
	if len(b) != PublicEncryptKeyLen {
		return pk, fmt.Errorf("invalid public encrypt key length: %d != %d", len(b), PublicEncryptKeyLen)
	}
	copy(pk[:], b)
	return pk, nil
}

// sealedBoxOverhead is the fixed expansion of the anonymous sealed-box
// construction below: one ephemeral public key plus box.Overhead of MAC.
const sealedBoxOverhead = PublicEncryptKeyLen + box.Overhead

// Encrypt seals msg so that only the holder of the matching secret key can
// open it, without requiring a sender keypair. This mirrors the original
// Rust implementation's `PublicEncryptKey::encrypt`, itself a thin wrapper
// around libsodium's anonymous sealed box: a fresh, one-time ephemeral
// keypair is generated per call, so a fixed all-zero nonce is safe to reuse
// across calls (the ephemeral key, not the nonce, carries the uniqueness).
func (pk PublicEncryptKey) Encrypt(msg []byte) []byte {
	ephPub, ephSec, err := box.GenerateKey(rand.Reader)
	if err != nil {
		// crypto/rand failing is unrecoverable; the caller has no sane way
		// to proceed with a deterministic alternative.
		panic(fmt.Sprintf("pcrypto: generate ephemeral keypair: %v", err))
	}
	var nonce [24]byte
	pkArr := [32]byte(pk)
	out := make([]byte, 0, PublicEncryptKeyLen+len(msg)+box.Overhead)
	out = append(out, ephPub[:]...)
	out = box.Seal(out, msg, &nonce, &pkArr, ephSec)
	return out
}

// Decrypt opens a sealed box produced by PublicEncryptKey.Encrypt.
func (kp EncryptKeyPair) Decrypt(sealed []byte) ([]byte, error) {
	if len(sealed) < sealedBoxOverhead {
		return nil, fmt.Errorf("sealed box too short: %d bytes", len(sealed))
	}
	var ephPub [32]byte
	copy(ephPub[:], sealed[:PublicEncryptKeyLen])
	var nonce [24]byte
	secArr := [32]byte(kp.Secret)
	out, ok := box.Open(nil, sealed[PublicEncryptKeyLen:], &nonce, &ephPub, &secArr)
	if !ok {
		return nil, fmt.Errorf("failed to open sealed box")
	}
	return out, nil
}
