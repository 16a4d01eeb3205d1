// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package mask

import (
	"fmt"
	"math/big"
)

// Aggregation accumulates mask vectors elementwise modulo a shared
// modulus. A sum participant uses it in the Sum2 phase to combine the
// masks derived from every decrypted update seed into the single
// model_mask it reports back to the coordinator.
type Aggregation struct {
	config MaskConfig
	length int
	count  int
	sum    []*big.Int
}

// NewAggregation starts an empty aggregation over vectors of the given
// length under cfg.
func NewAggregation(cfg MaskConfig, length int) *Aggregation {
	return &Aggregation{config: cfg, length: length}
}

// Count reports how many mask objects have been folded in so far.
func (a *Aggregation) Count() int { return a.count }

// validateAggregation checks that obj is compatible with this
// aggregation's config and length, and that adding one more contribution
// cannot overflow the modulus given the config's assumed per-contribution
// bound. It mirrors the original `validate_aggregation` check: a rejected
// object must not mutate the aggregation.
func (a *Aggregation) validateAggregation(obj MaskObject) error {
	if obj.Config != a.config {
		return fmt.Errorf("mask aggregation: config mismatch")
	}
	if obj.Len() != a.length {
		return fmt.Errorf("mask aggregation: length mismatch: got %d want %d", obj.Len(), a.length)
	}
	// Each contribution is assumed bounded by modulus (it was already
	// reduced mod modulus at derivation time); reject aggregations that
	// would exceed the number of summands the modulus headroom allows.
	maxSummands := a.config.maxSafeSummands()
	if a.count+1 > maxSummands {
		return fmt.Errorf("mask aggregation: exceeds maximum safe summand count %d", maxSummands)
	}
	return nil
}

// Add validates and folds obj into the running sum. On validation error
// the aggregation is left unchanged.
func (a *Aggregation) Add(obj MaskObject) error {
	if err := a.validateAggregation(obj); err != nil {
		return err
	}
	modulus := a.config.Modulus()
	if a.sum == nil {
		a.sum = make([]*big.Int, a.length)
		for i := range a.sum {
			a.sum[i] = new(big.Int)
		}
	}
	for i, v := range obj.Data {
		a.sum[i].Add(a.sum[i], v)
		a.sum[i].Mod(a.sum[i], modulus)
	}
	a.count++
	return nil
}

// Aggregated returns the current running aggregate as a MaskObject.
func (a *Aggregation) Aggregated() MaskObject {
	out := make([]*big.Int, a.length)
	for i := range out {
		if a.sum == nil {
			out[i] = new(big.Int)
			continue
		}
		out[i] = new(big.Int).Set(a.sum[i])
	}
	return MaskObject{Config: a.config, Data: out}
}

// maxSafeSummands bounds how many per-config contributions can be summed
// before the accumulated value could plausibly alias across the modulus
// in a way that defeats the coordinator's unmasking. Conservative but
// deterministic: the modulus divided by twice the scaled bound, capped at
// 2^16 (and 0 if that quotient is not positive).
func (c MaskConfig) maxSafeSummands() int {
	boundBits := new(big.Float).SetFloat64(c.Bound() * c.Scale() * 2)
	bb, _ := boundBits.Int(nil)
	if bb.Sign() == 0 {
		return 1 << 16
	}
	headroom := new(big.Int).Div(c.Modulus(), bb)
	if !headroom.IsInt64() {
		return 1 << 16
	}
	n := headroom.Int64()
	if n <= 0 {
		return 0
	}
	if n > 1<<16 {
		n = 1 << 16
	}
	return int(n)
}
