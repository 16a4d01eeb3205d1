// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package mask

import (
	"fmt"
	"math/big"
)

// MaskObject is a vector of masked integers produced under a MaskConfig.
// It is used both for a masked model (Update payload) and for an
// aggregated mask (Sum2 payload); the two share representation since the
// coordinator cancels one against the other elementwise.
type MaskObject struct {
	Config MaskConfig
	Data   []*big.Int
}

// Len reports the number of masked integers in the vector.
func (o MaskObject) Len() int { return len(o.Data) }

// ToBytes encodes the vector as Config.ByteLen()-wide big-endian integers,
// one after another, with no length prefix (the element count is carried
// out of band, matching the original wire payload's length-prefixed
// wrapping at the message level rather than the mask level).
func (o MaskObject) ToBytes() []byte {
	width := o.Config.ByteLen()
	out := make([]byte, width*len(o.Data))
	for i, v := range o.Data {
		b := v.Bytes()
		copy(out[(i+1)*width-len(b):(i+1)*width], b)
	}
	return out
}

// MaskObjectFromBytes decodes a vector previously produced by ToBytes.
func MaskObjectFromBytes(cfg MaskConfig, data []byte) (MaskObject, error) {
	width := cfg.ByteLen()
	if width == 0 || len(data)%width != 0 {
		return MaskObject{}, fmt.Errorf("mask object byte length %d is not a multiple of element width %d", len(data), width)
	}
	n := len(data) / width
	vals := make([]*big.Int, n)
	for i := 0; i < n; i++ {
		vals[i] = new(big.Int).SetBytes(data[i*width : (i+1)*width])
	}
	return MaskObject{Config: cfg, Data: vals}, nil
}
