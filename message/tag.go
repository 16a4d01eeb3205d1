// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package message implements the bit-exact signed wire format the PET
// participant client exchanges with the coordinator: a fixed 104-byte
// header (signature, sender public key, length, tag) followed by a
// tag-specific payload, with oversized payloads split into signed chunks.
package message

import "fmt"

// Tag identifies the payload layout that follows a message header.
type Tag byte

const (
	TagSum Tag = iota + 1
	TagUpdate
	TagSum2
	TagChunk
)

// String renders the tag's protocol name.
func (t Tag) String() string {
	switch t {
	case TagSum:
		return "sum"
	case TagUpdate:
		return "update"
	case TagSum2:
		return "sum2"
	case TagChunk:
		return "chunk"
	default:
		return fmt.Sprintf("tag(%d)", byte(t))
	}
}

// TagFromByte validates and converts a raw header byte into a Tag.
func TagFromByte(b byte) (Tag, error) {
	t := Tag(b)
	switch t {
	case TagSum, TagUpdate, TagSum2, TagChunk:
		return t, nil
	default:
		return 0, fmt.Errorf("message: invalid tag byte %d", b)
	}
}
