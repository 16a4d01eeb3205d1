// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package engine

import (
	"context"

	"github.com/luxfi/pet/core"
	"github.com/luxfi/pet/mask"
	"github.com/luxfi/pet/message"
	"github.com/luxfi/pet/pcrypto"
)

// Sum2Private is Sum2's private state, threaded through from the
// preceding Sum phase (the ephemeral keypair cannot be regenerated,
// invariant 5) plus the optional fields this phase fills in order.
type Sum2Private struct {
	EphemeralKeys  pcrypto.EncryptKeyPair
	SumSignature   pcrypto.Signature
	MaskLength     *uint64
	UpdateSeedDict *core.UpdateSeedDict
	DecryptedSeeds []mask.MaskSeed
	AggregatedMask *mask.MaskObject
	EncodedPackets [][]byte
}

func stepSum2(ctx context.Context, p Phase) TransitionOutcome {
	priv := p.Private.(*Sum2Private)

	if priv.MaskLength == nil {
		length, ok, err := p.IO.Coordinator.GetMaskLength(ctx)
		if err != nil || !ok {
			return pending(p)
		}
		next := *priv
		next.MaskLength = &length
		return complete(withPrivate(p, &next))
	}

	if priv.UpdateSeedDict == nil {
		dict, ok, err := p.IO.Coordinator.GetSeeds(ctx, p.Shared.Keys.Public)
		if err != nil || !ok {
			return pending(p)
		}
		next := *priv
		next.UpdateSeedDict = &dict
		return complete(withPrivate(p, &next))
	}

	if priv.DecryptedSeeds == nil {
		seeds := make([]mask.MaskSeed, 0, len(*priv.UpdateSeedDict))
		for _, encrypted := range *priv.UpdateSeedDict {
			plain, err := priv.EphemeralKeys.Decrypt(encrypted)
			if err != nil {
				p.IO.Notifier.NotifyIdle()
				return complete(awaitingPhase(p))
			}
			seed, err := mask.MaskSeedFromBytes(plain)
			if err != nil {
				p.IO.Notifier.NotifyIdle()
				return complete(awaitingPhase(p))
			}
			seeds = append(seeds, seed)
		}
		next := *priv
		next.DecryptedSeeds = seeds
		return complete(withPrivate(p, &next))
	}

	if priv.AggregatedMask == nil {
		masker := mask.NewMasker(p.Shared.MaskConfig)
		agg := mask.NewAggregation(p.Shared.MaskConfig, int(*priv.MaskLength))
		for _, seed := range priv.DecryptedSeeds {
			derived := masker.DeriveMask(seed, int(*priv.MaskLength))
			if err := agg.Add(derived); err != nil {
				p.IO.Notifier.NotifyIdle()
				return complete(awaitingPhase(p))
			}
		}
		aggregated := agg.Aggregated()
		next := *priv
		next.AggregatedMask = &aggregated
		return complete(withPrivate(p, &next))
	}

	if priv.EncodedPackets == nil {
		payload := message.Sum2Payload{SumSignature: priv.SumSignature, ModelMask: *priv.AggregatedMask}
		packets, ok := composePackets(p, payload)
		if !ok {
			return pending(p)
		}
		next := *priv
		next.EncodedPackets = packets
		return complete(withPrivate(p, &next))
	}

	// Same contract as Update: send once, then always return to Awaiting.
	err := sendPackets(ctx, p, priv.EncodedPackets)
	p.IO.Notifier.NotifyIdle()
	return completeSend(awaitingPhase(p), err)
}
