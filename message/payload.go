// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package message

import (
	"encoding/binary"
	"fmt"

	"github.com/luxfi/pet/mask"
	"github.com/luxfi/pet/pcrypto"
)

// Payload is implemented by every tag-specific message body. ToBytes
// encodes fixed-width fields first, then length-prefixed variable-length
// fields, matching the domain's ToBytes/FromBytes convention.
type Payload interface {
	Tag() Tag
	ToBytes() []byte
}

// putVarBytes appends a 4-byte big-endian length prefix followed by b.
func putVarBytes(dst []byte, b []byte) []byte {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(b)))
	dst = append(dst, lenBuf[:]...)
	return append(dst, b...)
}

// readVarBytes reads a 4-byte length prefix followed by that many bytes,
// returning the slice and the remainder of buf after it.
func readVarBytes(buf []byte) (data []byte, rest []byte, err error) {
	if len(buf) < 4 {
		return nil, nil, fmt.Errorf("message: truncated length prefix")
	}
	n := binary.BigEndian.Uint32(buf[:4])
	buf = buf[4:]
	if uint32(len(buf)) < n {
		return nil, nil, fmt.Errorf("message: truncated variable field: want %d have %d", n, len(buf))
	}
	return buf[:n], buf[n:], nil
}

// SumPayload is the body of a Sum-tagged message.
type SumPayload struct {
	SumSignature pcrypto.Signature
	EphmPK       pcrypto.PublicEncryptKey
}

func (SumPayload) Tag() Tag { return TagSum }

func (p SumPayload) ToBytes() []byte {
	out := make([]byte, 0, pcrypto.SignatureLen+pcrypto.PublicEncryptKeyLen)
	out = append(out, p.SumSignature[:]...)
	out = append(out, p.EphmPK[:]...)
	return out
}

// SumPayloadFromBytes decodes a SumPayload.
func SumPayloadFromBytes(buf []byte) (*SumPayload, error) {
	want := pcrypto.SignatureLen + pcrypto.PublicEncryptKeyLen
	if len(buf) != want {
		return nil, fmt.Errorf("message: sum payload length %d != %d", len(buf), want)
	}
	var p SumPayload
	copy(p.SumSignature[:], buf[:pcrypto.SignatureLen])
	copy(p.EphmPK[:], buf[pcrypto.SignatureLen:])
	return &p, nil
}

// UpdatePayload is the body of an Update-tagged message.
type UpdatePayload struct {
	SumSignature    pcrypto.Signature
	UpdateSignature pcrypto.Signature
	MaskedModel     mask.MaskObject
	LocalSeedDict   map[pcrypto.PublicSigningKey][]byte
}

func (UpdatePayload) Tag() Tag { return TagUpdate }

func (p UpdatePayload) ToBytes() []byte {
	out := make([]byte, 0, 256)
	out = append(out, p.SumSignature[:]...)
	out = append(out, p.UpdateSignature[:]...)
	out = putVarBytes(out, MaskObjectToBytes(p.MaskedModel))
	out = putVarBytes(out, EncodeSeedDict(p.LocalSeedDict))
	return out
}

// UpdatePayloadFromBytes decodes an UpdatePayload. The MaskConfig needed
// to interpret the masked-model bytes is read from the config bytes the
// payload carries inline.
func UpdatePayloadFromBytes(buf []byte) (*UpdatePayload, error) {
	if len(buf) < 2*pcrypto.SignatureLen {
		return nil, fmt.Errorf("message: update payload too short")
	}
	var p UpdatePayload
	copy(p.SumSignature[:], buf[:pcrypto.SignatureLen])
	copy(p.UpdateSignature[:], buf[pcrypto.SignatureLen:2*pcrypto.SignatureLen])
	rest := buf[2*pcrypto.SignatureLen:]

	maskedModelBytes, rest, err := readVarBytes(rest)
	if err != nil {
		return nil, fmt.Errorf("update payload masked model: %w", err)
	}
	maskedModel, err := MaskObjectFromBytesInline(maskedModelBytes)
	if err != nil {
		return nil, fmt.Errorf("update payload masked model: %w", err)
	}
	p.MaskedModel = maskedModel

	seedDictBytes, _, err := readVarBytes(rest)
	if err != nil {
		return nil, fmt.Errorf("update payload seed dict: %w", err)
	}
	seedDict, err := DecodeSeedDict(seedDictBytes)
	if err != nil {
		return nil, fmt.Errorf("update payload seed dict: %w", err)
	}
	p.LocalSeedDict = seedDict
	return &p, nil
}

// Sum2Payload is the body of a Sum2-tagged message.
type Sum2Payload struct {
	SumSignature pcrypto.Signature
	ModelMask    mask.MaskObject
}

func (Sum2Payload) Tag() Tag { return TagSum2 }

func (p Sum2Payload) ToBytes() []byte {
	out := make([]byte, 0, 128)
	out = append(out, p.SumSignature[:]...)
	out = putVarBytes(out, MaskObjectToBytes(p.ModelMask))
	return out
}

// Sum2PayloadFromBytes decodes a Sum2Payload.
func Sum2PayloadFromBytes(buf []byte) (*Sum2Payload, error) {
	if len(buf) < pcrypto.SignatureLen {
		return nil, fmt.Errorf("message: sum2 payload too short")
	}
	var p Sum2Payload
	copy(p.SumSignature[:], buf[:pcrypto.SignatureLen])
	maskBytes, _, err := readVarBytes(buf[pcrypto.SignatureLen:])
	if err != nil {
		return nil, fmt.Errorf("sum2 payload model mask: %w", err)
	}
	modelMask, err := MaskObjectFromBytesInline(maskBytes)
	if err != nil {
		return nil, fmt.Errorf("sum2 payload model mask: %w", err)
	}
	p.ModelMask = modelMask
	return &p, nil
}

// ChunkPayload carries one fragment of an oversized logical message.
type ChunkPayload struct {
	MessageID  [16]byte
	ChunkIndex uint32
	Last       bool
	Data       []byte
}

func (ChunkPayload) Tag() Tag { return TagChunk }

func (p ChunkPayload) ToBytes() []byte {
	out := make([]byte, 0, 16+4+1+len(p.Data))
	out = append(out, p.MessageID[:]...)
	var idx [4]byte
	binary.BigEndian.PutUint32(idx[:], p.ChunkIndex)
	out = append(out, idx[:]...)
	if p.Last {
		out = append(out, 1)
	} else {
		out = append(out, 0)
	}
	out = append(out, p.Data...)
	return out
}

// ChunkPayloadFromBytes decodes a ChunkPayload.
func ChunkPayloadFromBytes(buf []byte) (*ChunkPayload, error) {
	const fixed = 16 + 4 + 1
	if len(buf) < fixed {
		return nil, fmt.Errorf("message: chunk payload too short")
	}
	var p ChunkPayload
	copy(p.MessageID[:], buf[:16])
	p.ChunkIndex = binary.BigEndian.Uint32(buf[16:20])
	p.Last = buf[20] != 0
	p.Data = append([]byte(nil), buf[fixed:]...)
	return &p, nil
}

// MaskObjectToBytes encodes a MaskObject with its config inline (group,
// data, bound, and model type bytes) so the reader can reconstruct the
// modulus and element width without out-of-band context.
func MaskObjectToBytes(o mask.MaskObject) []byte {
	out := make([]byte, 0, 4+len(o.ToBytes()))
	out = append(out, byte(o.Config.GroupType), byte(o.Config.DataType), byte(o.Config.BoundType), byte(o.Config.ModelType))
	out = append(out, o.ToBytes()...)
	return out
}

func MaskObjectFromBytesInline(buf []byte) (mask.MaskObject, error) {
	if len(buf) < 4 {
		return mask.MaskObject{}, fmt.Errorf("truncated mask config")
	}
	cfg := mask.MaskConfig{
		GroupType: mask.GroupType(buf[0]),
		DataType:  mask.DataType(buf[1]),
		BoundType: mask.BoundType(buf[2]),
		ModelType: mask.ModelType(buf[3]),
	}
	return mask.MaskObjectFromBytes(cfg, buf[4:])
}

// EncodeSeedDict serializes a local seed dictionary as a count followed
// by (public-key, length-prefixed encrypted-seed) pairs.
func EncodeSeedDict(dict map[pcrypto.PublicSigningKey][]byte) []byte {
	out := make([]byte, 0, 4+len(dict)*64)
	var count [4]byte
	binary.BigEndian.PutUint32(count[:], uint32(len(dict)))
	out = append(out, count[:]...)
	for pk, seed := range dict {
		out = append(out, pk[:]...)
		out = putVarBytes(out, seed)
	}
	return out
}

func DecodeSeedDict(buf []byte) (map[pcrypto.PublicSigningKey][]byte, error) {
	if len(buf) < 4 {
		return nil, fmt.Errorf("truncated seed dict count")
	}
	n := binary.BigEndian.Uint32(buf[:4])
	buf = buf[4:]
	dict := make(map[pcrypto.PublicSigningKey][]byte, n)
	for i := uint32(0); i < n; i++ {
		if len(buf) < pcrypto.PublicSigningKeyLen {
			return nil, fmt.Errorf("truncated seed dict entry %d", i)
		}
		pk, err := pcrypto.PublicSigningKeyFromBytes(buf[:pcrypto.PublicSigningKeyLen])
		if err != nil {
			return nil, err
		}
		buf = buf[pcrypto.PublicSigningKeyLen:]
		var seed []byte
		seed, buf, err = readVarBytes(buf)
		if err != nil {
			return nil, fmt.Errorf("seed dict entry %d: %w", i, err)
		}
		dict[pk] = append([]byte(nil), seed...)
	}
	return dict, nil
}
