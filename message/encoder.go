// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package message

import (
	"crypto/rand"
	"fmt"

	"github.com/luxfi/pet/pcrypto"
)

// chunkFixedOverhead is the fixed portion of a ChunkPayload before its
// data slice: message id + chunk index + last flag.
const chunkFixedOverhead = 16 + 4 + 1

// Encoder splits one logical message into an ordered sequence of signed
// wire packets, chunking the payload when it exceeds maxPayloadSize.
type Encoder struct {
	secret         pcrypto.SecretSigningKey
	pk             pcrypto.PublicSigningKey
	payload        Payload
	maxPayloadSize int
}

// NewEncoder builds an Encoder for payload. It rejects payloads already
// tagged Chunk: chunking a chunk is an internal invariant violation that
// should never be reachable from the state machine.
func NewEncoder(secret pcrypto.SecretSigningKey, pk pcrypto.PublicSigningKey, payload Payload, maxPayloadSize int) (*Encoder, error) {
	if payload.Tag() == TagChunk {
		return nil, fmt.Errorf("message: cannot chunk an already-chunked payload")
	}
	if maxPayloadSize <= HeaderLength+chunkFixedOverhead {
		return nil, fmt.Errorf("message: max payload size %d too small to fit any chunk", maxPayloadSize)
	}
	return &Encoder{secret: secret, pk: pk, payload: payload, maxPayloadSize: maxPayloadSize}, nil
}

// Packets returns the ordered, signed wire packets for this message. If
// the whole payload fits within maxPayloadSize it is a single
// tag-specific packet; otherwise it is split into Chunk-tagged packets
// sharing one message id, with contiguous indices and the final chunk
// flagged Last.
func (e *Encoder) Packets() ([][]byte, error) {
	body := e.payload.ToBytes()
	if HeaderLength+len(body) <= e.maxPayloadSize {
		return [][]byte{Encode(e.secret, e.pk, e.payload)}, nil
	}

	var msgID [16]byte
	if _, err := rand.Read(msgID[:]); err != nil {
		return nil, fmt.Errorf("message: generate chunk message id: %w", err)
	}

	dataPerChunk := e.maxPayloadSize - HeaderLength - chunkFixedOverhead
	if dataPerChunk <= 0 {
		return nil, fmt.Errorf("message: max payload size %d leaves no room for chunk data", e.maxPayloadSize)
	}

	var packets [][]byte
	for offset, index := 0, uint32(0); offset < len(body); index++ {
		end := offset + dataPerChunk
		if end > len(body) {
			end = len(body)
		}
		chunk := ChunkPayload{
			MessageID:  msgID,
			ChunkIndex: index,
			Last:       end == len(body),
			Data:       body[offset:end],
		}
		packets = append(packets, Encode(e.secret, e.pk, chunk))
		offset = end
	}
	return packets, nil
}

// Reassemble concatenates a complete, ordered set of decoded chunk
// payloads (all sharing one message id) back into the original payload
// bytes. It does not validate ordering or completeness; callers collect
// chunks by index before calling this.
func Reassemble(chunks []*ChunkPayload) []byte {
	var out []byte
	for _, c := range chunks {
		out = append(out, c.Data...)
	}
	return out
}
