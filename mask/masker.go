// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package mask

import (
	"fmt"
	"math/big"
)

// Masker masks a local model under a fixed MaskConfig: each weight is
// shifted into a non-negative range, scaled to an integer, and blinded
// additively with a mask derived from a freshly generated seed.
type Masker struct {
	Config MaskConfig
}

// NewMasker constructs a Masker for the given config.
func NewMasker(cfg MaskConfig) Masker { return Masker{Config: cfg} }

// Mask scales model by scalar, shifts it into range, blinds it with a
// fresh random seed's derived mask, and returns both the seed (to be
// distributed, encrypted, to sum participants) and the masked object (to
// be sent to the coordinator).
func (m Masker) Mask(scalar float64, model []float64) (MaskSeed, MaskObject, error) {
	seed, err := GenerateMaskSeed()
	if err != nil {
		return MaskSeed{}, MaskObject{}, err
	}
	maskVec := seed.deriveMask(m.Config, len(model))
	bound := m.Config.Bound()
	scale := m.Config.Scale()
	modulus := m.Config.Modulus()

	data := make([]*big.Int, len(model))
	for i, w := range model {
		scaled := (w*scalar + bound) * scale
		if scaled < 0 {
			return MaskSeed{}, MaskObject{}, fmt.Errorf("mask: weight %d exceeds configured bound %v", i, bound)
		}
		v := new(big.Int)
		new(big.Float).SetFloat64(scaled).Int(v)
		v.Add(v, maskVec.Data[i])
		v.Mod(v, modulus)
		data[i] = v
	}
	return seed, MaskObject{Config: m.Config, Data: data}, nil
}

// DeriveMask expands a mask seed into the additive mask vector of the
// requested length under this masker's config, the operation a sum
// participant performs on each decrypted seed during aggregation.
func (m Masker) DeriveMask(seed MaskSeed, length int) MaskObject {
	return seed.deriveMask(m.Config, length)
}
