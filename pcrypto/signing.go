// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package pcrypto wraps the Ed25519 signing and NaCl-box encryption
// primitives the PET protocol's wire format pins down, the way
// crypto/bls wraps a signature scheme behind a small typed API.
package pcrypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const (
	// PublicSigningKeyLen is the length in bytes of a participant's signing public key.
	PublicSigningKeyLen = ed25519.PublicKeySize
	// SecretSigningKeyLen is the length in bytes of a participant's signing secret key.
	SecretSigningKeyLen = ed25519.PrivateKeySize
	// SignatureLen is the length in bytes of a detached Ed25519 signature.
	SignatureLen = ed25519.SignatureSize
)

// PublicSigningKey identifies a participant and verifies its signatures.
type PublicSigningKey [PublicSigningKeyLen]byte

// SecretSigningKey signs messages on behalf of a participant.
type SecretSigningKey [SecretSigningKeyLen]byte

// Signature is a detached Ed25519 signature.
type Signature [SignatureLen]byte

// SigningKeyPair is a participant's long-lived identity keypair.
type SigningKeyPair struct {
	Public PublicSigningKey
	Secret SecretSigningKey
}

// GenerateSigningKeyPair creates a fresh Ed25519 keypair.
func GenerateSigningKeyPair() (SigningKeyPair, error) {
	pub, sec, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return SigningKeyPair{}, fmt.Errorf("generate signing keypair: %w", err)
	}
	var kp SigningKeyPair
	copy(kp.Public[:], pub)
	copy(kp.Secret[:], sec)
	return kp, nil
}

// SignDetached signs data and returns a detached signature.
func (sk SecretSigningKey) SignDetached(data []byte) Signature {
	sig := ed25519.Sign(ed25519.PrivateKey(sk[:]), data)
	var out Signature
	copy(out[:], sig)
	return out
}

// VerifyDetached reports whether sig is a valid signature over data under pk.
func (pk PublicSigningKey) VerifyDetached(sig Signature, data []byte) bool {
	return ed25519.Verify(ed25519.PublicKey(pk[:]), data, sig[:])
}

// Bytes returns the raw key bytes.
func (pk PublicSigningKey) Bytes() []byte { return pk[:] }

// Bytes returns the raw signature bytes.
func (s Signature) Bytes() []byte { return s[:] }

// String returns the hex encoding of the public key.
func (pk PublicSigningKey) String() string { return hex.EncodeToString(pk[:]) }

// PublicSigningKeyFromBytes parses a fixed-size public signing key.
func PublicSigningKeyFromBytes(b []byte) (PublicSigningKey, error) {
	var pk PublicSigningKey
	if len(b) != PublicSigningKeyLen {
		return pk, fmt.Errorf("invalid public signing key length: %d != %d", len(b), PublicSigningKeyLen)
	}
	copy(pk[:], b)
	return pk, nil
}

// SignatureFromBytes parses a fixed-size detached signature.
func SignatureFromBytes(b []byte) (Signature, error) {
	var s Signature
	if len(b) != SignatureLen {
		return s, fmt.Errorf("invalid signature length: %d != %d", len(b), SignatureLen)
	}
	copy(s[:], b)
	return s, nil
}
