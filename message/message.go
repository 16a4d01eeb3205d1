// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package message

import (
	"fmt"

	"github.com/luxfi/pet/pcrypto"
)

// Message is a decoded, header-validated wire message. Signature is the
// detached signature exactly as it appeared on the wire; callers must
// call Verify before trusting ParticipantPK or Payload.
type Message struct {
	Signature     pcrypto.Signature
	ParticipantPK pcrypto.PublicSigningKey
	Payload       Payload
}

// Encode builds, signs, and serializes a message: header fields are
// filled in, the payload is appended, and the whole buffer from offset 64
// onward is signed with secret.
func Encode(secret pcrypto.SecretSigningKey, pk pcrypto.PublicSigningKey, payload Payload) []byte {
	body := payload.ToBytes()
	length := uint32(HeaderLength + len(body))
	buf := make([]byte, length)
	writeHeader(buf, Header{ParticipantPK: pk, Length: length, Tag: payload.Tag()})
	copy(buf[HeaderLength:], body)

	sig := secret.SignDetached(signedData(buf, length))
	copy(buf[signatureOffset:signatureOffset+signatureLen], sig[:])
	return buf
}

// Decode parses and bounds-checks buf's header, then parses the
// tag-specific payload. It does NOT verify the signature; call Verify (or
// DecodeVerified) before trusting the result.
func Decode(buf []byte) (*Message, error) {
	h, length, err := readHeader(buf)
	if err != nil {
		return nil, err
	}
	payload, err := decodePayload(h.Tag, buf[HeaderLength:length])
	if err != nil {
		return nil, fmt.Errorf("message: decode %s payload: %w", h.Tag, err)
	}
	return &Message{Signature: h.Signature, ParticipantPK: h.ParticipantPK, Payload: payload}, nil
}

// Verify reports whether buf's signature field validates against the
// signed region [64:length] under the embedded participant public key.
// It bounds-checks buf's header itself and returns an error for a
// malformed buffer.
func Verify(buf []byte) (bool, error) {
	h, length, err := readHeader(buf)
	if err != nil {
		return false, err
	}
	return h.ParticipantPK.VerifyDetached(h.Signature, signedData(buf, length)), nil
}

// DecodeVerified decodes buf and rejects it if the signature does not
// verify, so callers never have to remember the verify-before-trust step.
func DecodeVerified(buf []byte) (*Message, error) {
	ok, err := Verify(buf)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("message: signature verification failed")
	}
	return Decode(buf)
}

func decodePayload(tag Tag, body []byte) (Payload, error) {
	switch tag {
	case TagSum:
		return SumPayloadFromBytes(body)
	case TagUpdate:
		return UpdatePayloadFromBytes(body)
	case TagSum2:
		return Sum2PayloadFromBytes(body)
	case TagChunk:
		return ChunkPayloadFromBytes(body)
	default:
		return nil, fmt.Errorf("message: unhandled tag %s", tag)
	}
}
