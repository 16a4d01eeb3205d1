// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package engine

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/luxfi/pet/core"
	"github.com/luxfi/pet/mask"
	"github.com/luxfi/pet/message"
	"github.com/luxfi/pet/pcrypto"
)

// ToBytes serializes a SerializableState for crash-recovery persistence.
// It deliberately avoids encoding/gob: the format is the same
// length-prefixed-fixed-width-first convention the message codec uses,
// so the persisted form is stable across Go versions and process
// restarts rather than tied to gob's type-registry machinery.
func (s SerializableState) ToBytes() []byte {
	out := make([]byte, 0, 512)
	out = append(out, byte(s.Tag))
	out = appendShared(out, s.Shared)
	switch s.Tag {
	case PhaseSum:
		out = appendSumPrivate(out, s.Sum)
	case PhaseUpdate:
		out = appendUpdatePrivate(out, s.Update)
	case PhaseSum2:
		out = appendSum2Private(out, s.Sum2)
	}
	return out
}

// SerializableStateFromBytes deserializes what ToBytes produced.
func SerializableStateFromBytes(buf []byte) (SerializableState, error) {
	if len(buf) < 1 {
		return SerializableState{}, fmt.Errorf("engine: empty persisted state")
	}
	tag := PhaseTag(buf[0])
	shared, rest, err := readShared(buf[1:])
	if err != nil {
		return SerializableState{}, fmt.Errorf("engine: persisted shared state: %w", err)
	}
	s := SerializableState{Tag: tag, Shared: shared}
	switch tag {
	case PhaseNewRound:
		s.NewRound = &NewRoundPrivate{}
	case PhaseAwaiting:
		s.Awaiting = &AwaitingPrivate{}
	case PhaseSum:
		priv, _, err := readSumPrivate(rest)
		if err != nil {
			return SerializableState{}, err
		}
		s.Sum = priv
	case PhaseUpdate:
		priv, _, err := readUpdatePrivate(rest)
		if err != nil {
			return SerializableState{}, err
		}
		s.Update = priv
	case PhaseSum2:
		priv, _, err := readSum2Private(rest)
		if err != nil {
			return SerializableState{}, err
		}
		s.Sum2 = priv
	default:
		return SerializableState{}, fmt.Errorf("engine: unknown persisted phase tag %d", tag)
	}
	return s, nil
}

func appendU32(dst []byte, v uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return append(dst, b[:]...)
}

func appendU64(dst []byte, v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return append(dst, b[:]...)
}

func appendF64(dst []byte, v float64) []byte {
	return appendU64(dst, math.Float64bits(v))
}

func appendVar(dst []byte, b []byte) []byte {
	dst = appendU32(dst, uint32(len(b)))
	return append(dst, b...)
}

func readU32(buf []byte) (uint32, []byte, error) {
	if len(buf) < 4 {
		return 0, nil, fmt.Errorf("truncated uint32")
	}
	return binary.BigEndian.Uint32(buf[:4]), buf[4:], nil
}

func readU64(buf []byte) (uint64, []byte, error) {
	if len(buf) < 8 {
		return 0, nil, fmt.Errorf("truncated uint64")
	}
	return binary.BigEndian.Uint64(buf[:8]), buf[8:], nil
}

func readF64(buf []byte) (float64, []byte, error) {
	v, rest, err := readU64(buf)
	if err != nil {
		return 0, nil, err
	}
	return math.Float64frombits(v), rest, nil
}

func readVar(buf []byte) ([]byte, []byte, error) {
	n, rest, err := readU32(buf)
	if err != nil {
		return nil, nil, err
	}
	if uint32(len(rest)) < n {
		return nil, nil, fmt.Errorf("truncated variable field: want %d have %d", n, len(rest))
	}
	return rest[:n], rest[n:], nil
}

func appendSignature(dst []byte, s pcrypto.Signature) []byte { return append(dst, s[:]...) }

func readSignature(buf []byte) (pcrypto.Signature, []byte, error) {
	if len(buf) < pcrypto.SignatureLen {
		return pcrypto.Signature{}, nil, fmt.Errorf("truncated signature")
	}
	var s pcrypto.Signature
	copy(s[:], buf[:pcrypto.SignatureLen])
	return s, buf[pcrypto.SignatureLen:], nil
}

func appendShared(dst []byte, s core.SharedState) []byte {
	dst = append(dst, s.Keys.Public[:]...)
	dst = append(dst, s.Keys.Secret[:]...)
	dst = append(dst, byte(s.MaskConfig.GroupType), byte(s.MaskConfig.DataType), byte(s.MaskConfig.BoundType), byte(s.MaskConfig.ModelType))
	dst = appendF64(dst, s.Scalar)
	dst = appendU32(dst, uint32(s.MaxMessageSize))
	dst = append(dst, s.RoundParams.PK[:]...)
	dst = append(dst, s.RoundParams.Seed[:]...)
	dst = appendF64(dst, s.RoundParams.Sum)
	dst = appendF64(dst, s.RoundParams.Update)
	return dst
}

func readShared(buf []byte) (core.SharedState, []byte, error) {
	need := pcrypto.PublicSigningKeyLen + pcrypto.SecretSigningKeyLen + 4 + 8 + 4 + pcrypto.PublicEncryptKeyLen + core.RoundSeedLen + 8 + 8
	if len(buf) < need {
		return core.SharedState{}, nil, fmt.Errorf("truncated shared state")
	}
	var s core.SharedState
	copy(s.Keys.Public[:], buf[:pcrypto.PublicSigningKeyLen])
	buf = buf[pcrypto.PublicSigningKeyLen:]
	copy(s.Keys.Secret[:], buf[:pcrypto.SecretSigningKeyLen])
	buf = buf[pcrypto.SecretSigningKeyLen:]
	s.MaskConfig = mask.MaskConfig{GroupType: mask.GroupType(buf[0]), DataType: mask.DataType(buf[1]), BoundType: mask.BoundType(buf[2]), ModelType: mask.ModelType(buf[3])}
	buf = buf[4:]
	var err error
	s.Scalar, buf, err = readF64(buf)
	if err != nil {
		return core.SharedState{}, nil, err
	}
	var maxSize uint32
	maxSize, buf, err = readU32(buf)
	if err != nil {
		return core.SharedState{}, nil, err
	}
	s.MaxMessageSize = int(maxSize)
	copy(s.RoundParams.PK[:], buf[:pcrypto.PublicEncryptKeyLen])
	buf = buf[pcrypto.PublicEncryptKeyLen:]
	copy(s.RoundParams.Seed[:], buf[:core.RoundSeedLen])
	buf = buf[core.RoundSeedLen:]
	s.RoundParams.Sum, buf, err = readF64(buf)
	if err != nil {
		return core.SharedState{}, nil, err
	}
	s.RoundParams.Update, buf, err = readF64(buf)
	if err != nil {
		return core.SharedState{}, nil, err
	}
	return s, buf, nil
}

func appendPackets(dst []byte, packets [][]byte) []byte {
	dst = appendU32(dst, uint32(len(packets)))
	for _, pkt := range packets {
		dst = appendVar(dst, pkt)
	}
	return dst
}

func readPackets(buf []byte) ([][]byte, []byte, error) {
	n, buf, err := readU32(buf)
	if err != nil {
		return nil, nil, err
	}
	if n == 0 {
		return nil, buf, nil
	}
	packets := make([][]byte, n)
	for i := uint32(0); i < n; i++ {
		var pkt []byte
		pkt, buf, err = readVar(buf)
		if err != nil {
			return nil, nil, err
		}
		packets[i] = append([]byte(nil), pkt...)
	}
	return packets, buf, nil
}

func appendEncryptKeyPair(dst []byte, kp pcrypto.EncryptKeyPair) []byte {
	dst = append(dst, kp.Public[:]...)
	return append(dst, kp.Secret[:]...)
}

func readEncryptKeyPair(buf []byte) (pcrypto.EncryptKeyPair, []byte, error) {
	if len(buf) < pcrypto.PublicEncryptKeyLen+pcrypto.SecretEncryptKeyLen {
		return pcrypto.EncryptKeyPair{}, nil, fmt.Errorf("truncated encrypt keypair")
	}
	var kp pcrypto.EncryptKeyPair
	copy(kp.Public[:], buf[:pcrypto.PublicEncryptKeyLen])
	buf = buf[pcrypto.PublicEncryptKeyLen:]
	copy(kp.Secret[:], buf[:pcrypto.SecretEncryptKeyLen])
	buf = buf[pcrypto.SecretEncryptKeyLen:]
	return kp, buf, nil
}

func appendSumPrivate(dst []byte, priv *SumPrivate) []byte {
	dst = appendEncryptKeyPair(dst, priv.EphemeralKeys)
	dst = appendSignature(dst, priv.SumSignature)
	if priv.EncodedPackets == nil {
		return append(dst, 0)
	}
	dst = append(dst, 1)
	return appendPackets(dst, priv.EncodedPackets)
}

func readSumPrivate(buf []byte) (*SumPrivate, []byte, error) {
	priv := &SumPrivate{}
	var err error
	priv.EphemeralKeys, buf, err = readEncryptKeyPair(buf)
	if err != nil {
		return nil, nil, err
	}
	priv.SumSignature, buf, err = readSignature(buf)
	if err != nil {
		return nil, nil, err
	}
	if len(buf) < 1 {
		return nil, nil, fmt.Errorf("truncated sum private presence flag")
	}
	present := buf[0]
	buf = buf[1:]
	if present == 1 {
		priv.EncodedPackets, buf, err = readPackets(buf)
		if err != nil {
			return nil, nil, err
		}
	}
	return priv, buf, nil
}

func appendUpdatePrivate(dst []byte, priv *UpdatePrivate) []byte {
	dst = appendSignature(dst, priv.SumSignature)
	dst = appendSignature(dst, priv.UpdateSignature)

	if priv.SumDict == nil {
		dst = append(dst, 0)
	} else {
		dst = append(dst, 1)
		dst = appendU32(dst, uint32(len(*priv.SumDict)))
		for pk, ephPK := range *priv.SumDict {
			dst = append(dst, pk[:]...)
			dst = append(dst, ephPK[:]...)
		}
	}

	if priv.Model == nil {
		dst = append(dst, 0)
	} else {
		dst = append(dst, 1)
		dst = appendU32(dst, uint32(len(*priv.Model)))
		for _, w := range *priv.Model {
			dst = appendF64(dst, w)
		}
	}

	if priv.MaskSeed == nil {
		dst = append(dst, 0)
	} else {
		dst = append(dst, 1)
		dst = append(dst, priv.MaskSeed[:]...)
	}

	if priv.MaskObject == nil {
		dst = append(dst, 0)
	} else {
		dst = append(dst, 1)
		dst = appendVar(dst, message.MaskObjectToBytes(*priv.MaskObject))
	}

	if priv.LocalSeedDict == nil {
		dst = append(dst, 0)
	} else {
		dst = append(dst, 1)
		dst = appendVar(dst, message.EncodeSeedDict(priv.LocalSeedDict))
	}

	if priv.EncodedPackets == nil {
		dst = append(dst, 0)
	} else {
		dst = append(dst, 1)
		dst = appendPackets(dst, priv.EncodedPackets)
	}
	return dst
}

func readUpdatePrivate(buf []byte) (*UpdatePrivate, []byte, error) {
	priv := &UpdatePrivate{}
	var err error
	priv.SumSignature, buf, err = readSignature(buf)
	if err != nil {
		return nil, nil, err
	}
	priv.UpdateSignature, buf, err = readSignature(buf)
	if err != nil {
		return nil, nil, err
	}

	if len(buf) < 1 {
		return nil, nil, fmt.Errorf("truncated update private sum dict flag")
	}
	if buf[0] == 1 {
		buf = buf[1:]
		var n uint32
		n, buf, err = readU32(buf)
		if err != nil {
			return nil, nil, err
		}
		dict := make(core.SumDict, n)
		for i := uint32(0); i < n; i++ {
			if len(buf) < pcrypto.PublicSigningKeyLen+pcrypto.PublicEncryptKeyLen {
				return nil, nil, fmt.Errorf("truncated sum dict entry")
			}
			var pk pcrypto.PublicSigningKey
			copy(pk[:], buf[:pcrypto.PublicSigningKeyLen])
			buf = buf[pcrypto.PublicSigningKeyLen:]
			var ephPK pcrypto.PublicEncryptKey
			copy(ephPK[:], buf[:pcrypto.PublicEncryptKeyLen])
			buf = buf[pcrypto.PublicEncryptKeyLen:]
			dict[pk] = ephPK
		}
		priv.SumDict = &dict
	} else {
		buf = buf[1:]
	}

	if len(buf) < 1 {
		return nil, nil, fmt.Errorf("truncated update private model flag")
	}
	if buf[0] == 1 {
		buf = buf[1:]
		var n uint32
		n, buf, err = readU32(buf)
		if err != nil {
			return nil, nil, err
		}
		model := make(core.Model, n)
		for i := uint32(0); i < n; i++ {
			model[i], buf, err = readF64(buf)
			if err != nil {
				return nil, nil, err
			}
		}
		priv.Model = &model
	} else {
		buf = buf[1:]
	}

	if len(buf) < 1 {
		return nil, nil, fmt.Errorf("truncated update private mask seed flag")
	}
	if buf[0] == 1 {
		buf = buf[1:]
		if len(buf) < mask.SeedLen {
			return nil, nil, fmt.Errorf("truncated mask seed")
		}
		var seed mask.MaskSeed
		copy(seed[:], buf[:mask.SeedLen])
		buf = buf[mask.SeedLen:]
		priv.MaskSeed = &seed
	} else {
		buf = buf[1:]
	}

	if len(buf) < 1 {
		return nil, nil, fmt.Errorf("truncated update private mask object flag")
	}
	if buf[0] == 1 {
		buf = buf[1:]
		var raw []byte
		raw, buf, err = readVar(buf)
		if err != nil {
			return nil, nil, err
		}
		obj, err := message.MaskObjectFromBytesInline(raw)
		if err != nil {
			return nil, nil, err
		}
		priv.MaskObject = &obj
	} else {
		buf = buf[1:]
	}

	if len(buf) < 1 {
		return nil, nil, fmt.Errorf("truncated update private local seed dict flag")
	}
	if buf[0] == 1 {
		buf = buf[1:]
		var raw []byte
		raw, buf, err = readVar(buf)
		if err != nil {
			return nil, nil, err
		}
		dict, err := message.DecodeSeedDict(raw)
		if err != nil {
			return nil, nil, err
		}
		priv.LocalSeedDict = dict
	} else {
		buf = buf[1:]
	}

	if len(buf) < 1 {
		return nil, nil, fmt.Errorf("truncated update private packets flag")
	}
	if buf[0] == 1 {
		buf = buf[1:]
		priv.EncodedPackets, buf, err = readPackets(buf)
		if err != nil {
			return nil, nil, err
		}
	} else {
		buf = buf[1:]
	}

	return priv, buf, nil
}

func appendSum2Private(dst []byte, priv *Sum2Private) []byte {
	dst = appendEncryptKeyPair(dst, priv.EphemeralKeys)
	dst = appendSignature(dst, priv.SumSignature)

	if priv.MaskLength == nil {
		dst = append(dst, 0)
	} else {
		dst = append(dst, 1)
		dst = appendU64(dst, *priv.MaskLength)
	}

	if priv.UpdateSeedDict == nil {
		dst = append(dst, 0)
	} else {
		dst = append(dst, 1)
		dst = appendVar(dst, message.EncodeSeedDict(*priv.UpdateSeedDict))
	}

	if priv.DecryptedSeeds == nil {
		dst = append(dst, 0)
	} else {
		dst = append(dst, 1)
		dst = appendU32(dst, uint32(len(priv.DecryptedSeeds)))
		for _, seed := range priv.DecryptedSeeds {
			dst = append(dst, seed[:]...)
		}
	}

	if priv.AggregatedMask == nil {
		dst = append(dst, 0)
	} else {
		dst = append(dst, 1)
		dst = appendVar(dst, message.MaskObjectToBytes(*priv.AggregatedMask))
	}

	if priv.EncodedPackets == nil {
		dst = append(dst, 0)
	} else {
		dst = append(dst, 1)
		dst = appendPackets(dst, priv.EncodedPackets)
	}
	return dst
}

func readSum2Private(buf []byte) (*Sum2Private, []byte, error) {
	priv := &Sum2Private{}
	var err error
	priv.EphemeralKeys, buf, err = readEncryptKeyPair(buf)
	if err != nil {
		return nil, nil, err
	}
	priv.SumSignature, buf, err = readSignature(buf)
	if err != nil {
		return nil, nil, err
	}

	if len(buf) < 1 {
		return nil, nil, fmt.Errorf("truncated sum2 private mask length flag")
	}
	if buf[0] == 1 {
		buf = buf[1:]
		var length uint64
		length, buf, err = readU64(buf)
		if err != nil {
			return nil, nil, err
		}
		priv.MaskLength = &length
	} else {
		buf = buf[1:]
	}

	if len(buf) < 1 {
		return nil, nil, fmt.Errorf("truncated sum2 private seed dict flag")
	}
	if buf[0] == 1 {
		buf = buf[1:]
		var raw []byte
		raw, buf, err = readVar(buf)
		if err != nil {
			return nil, nil, err
		}
		dict, err := message.DecodeSeedDict(raw)
		if err != nil {
			return nil, nil, err
		}
		priv.UpdateSeedDict = &dict
	} else {
		buf = buf[1:]
	}

	if len(buf) < 1 {
		return nil, nil, fmt.Errorf("truncated sum2 private decrypted seeds flag")
	}
	if buf[0] == 1 {
		buf = buf[1:]
		var n uint32
		n, buf, err = readU32(buf)
		if err != nil {
			return nil, nil, err
		}
		seeds := make([]mask.MaskSeed, n)
		for i := uint32(0); i < n; i++ {
			if len(buf) < mask.SeedLen {
				return nil, nil, fmt.Errorf("truncated decrypted seed %d", i)
			}
			copy(seeds[i][:], buf[:mask.SeedLen])
			buf = buf[mask.SeedLen:]
		}
		priv.DecryptedSeeds = seeds
	} else {
		buf = buf[1:]
	}

	if len(buf) < 1 {
		return nil, nil, fmt.Errorf("truncated sum2 private aggregated mask flag")
	}
	if buf[0] == 1 {
		buf = buf[1:]
		var raw []byte
		raw, buf, err = readVar(buf)
		if err != nil {
			return nil, nil, err
		}
		obj, err := message.MaskObjectFromBytesInline(raw)
		if err != nil {
			return nil, nil, err
		}
		priv.AggregatedMask = &obj
	} else {
		buf = buf[1:]
	}

	if len(buf) < 1 {
		return nil, nil, fmt.Errorf("truncated sum2 private packets flag")
	}
	if buf[0] == 1 {
		buf = buf[1:]
		priv.EncodedPackets, buf, err = readPackets(buf)
		if err != nil {
			return nil, nil, err
		}
	} else {
		buf = buf[1:]
	}

	return priv, buf, nil
}
