// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package message

import (
	"encoding/binary"
	"fmt"

	"github.com/luxfi/pet/pcrypto"
)

// Byte ranges of the fixed message header, pinned bit-exact by the wire
// format: signature, then sender public key, then a big-endian length,
// then a one-byte tag, then three reserved zero bytes.
const (
	signatureOffset = 0
	signatureLen    = pcrypto.SignatureLen // 64

	participantPKOffset = signatureOffset + signatureLen // 64
	participantPKLen    = pcrypto.PublicSigningKeyLen     // 32

	lengthOffset = participantPKOffset + participantPKLen // 96
	lengthLen    = 4

	tagOffset = lengthOffset + lengthLen // 100
	tagLen    = 1

	reservedOffset = tagOffset + tagLen // 101
	reservedLen    = 3

	// HeaderLength is the fixed size, in bytes, of every message header.
	HeaderLength = reservedOffset + reservedLen // 104
)

// Header is the fixed, bit-exact prefix of every wire message.
type Header struct {
	Signature     pcrypto.Signature
	ParticipantPK pcrypto.PublicSigningKey
	Length        uint32
	Tag           Tag
}

// checkBufferLength bounds-checks buf per spec: the buffer must be at
// least HeaderLength bytes, and the declared Length must not exceed the
// buffer's actual size.
func checkBufferLength(buf []byte) (uint32, error) {
	if len(buf) < HeaderLength {
		return 0, fmt.Errorf("message: buffer too short: %d < %d", len(buf), HeaderLength)
	}
	length := binary.BigEndian.Uint32(buf[lengthOffset : lengthOffset+lengthLen])
	if length < HeaderLength {
		return 0, fmt.Errorf("message: declared length %d shorter than header %d", length, HeaderLength)
	}
	if uint32(len(buf)) < length {
		return 0, fmt.Errorf("message: buffer length %d shorter than declared %d", len(buf), length)
	}
	return length, nil
}

// readHeader parses and bounds-checks the header of buf. It does not
// verify the signature; callers must call Verify before trusting the
// resulting header's fields or the payload that follows it.
func readHeader(buf []byte) (Header, uint32, error) {
	length, err := checkBufferLength(buf)
	if err != nil {
		return Header{}, 0, err
	}
	var h Header
	copy(h.Signature[:], buf[signatureOffset:signatureOffset+signatureLen])
	copy(h.ParticipantPK[:], buf[participantPKOffset:participantPKOffset+participantPKLen])
	h.Length = length
	tag, err := TagFromByte(buf[tagOffset])
	if err != nil {
		return Header{}, 0, err
	}
	h.Tag = tag
	return h, length, nil
}

// writeHeader writes h into the first HeaderLength bytes of buf. The
// signature field is written verbatim (callers compute it last, over the
// completed buffer, then call writeHeader again or patch it in place).
func writeHeader(buf []byte, h Header) {
	copy(buf[signatureOffset:signatureOffset+signatureLen], h.Signature[:])
	copy(buf[participantPKOffset:participantPKOffset+participantPKLen], h.ParticipantPK[:])
	binary.BigEndian.PutUint32(buf[lengthOffset:lengthOffset+lengthLen], h.Length)
	buf[tagOffset] = byte(h.Tag)
	for i := 0; i < reservedLen; i++ {
		buf[reservedOffset+i] = 0
	}
}

// signedData returns the portion of buf the signature is computed over:
// everything after the signature field, up to the declared length.
func signedData(buf []byte, length uint32) []byte {
	return buf[signatureLen:length]
}
