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

// UpdatePrivate is Update's private state. Each optional field is
// write-once per phase entry: stepUpdate fills the next nil field per
// Step call that performs real work, in the order listed below (the mask
// step fills MaskSeed and MaskObject together), so a completed field is
// never recomputed (invariant 2).
type UpdatePrivate struct {
	SumSignature    pcrypto.Signature
	UpdateSignature pcrypto.Signature
	SumDict         *core.SumDict
	Model           *core.Model
	MaskSeed        *mask.MaskSeed
	MaskObject      *mask.MaskObject
	LocalSeedDict   core.LocalSeedDict
	EncodedPackets  [][]byte
}

func stepUpdate(ctx context.Context, p Phase) TransitionOutcome {
	priv := p.Private.(*UpdatePrivate)

	if priv.SumDict == nil {
		dict, ok, err := p.IO.Coordinator.GetSums(ctx)
		if err != nil || !ok {
			return pending(p)
		}
		next := *priv
		next.SumDict = &dict
		return complete(withPrivate(p, &next))
	}

	if priv.Model == nil {
		model, ok, err := p.IO.Model.LoadModel(ctx)
		if err != nil || !ok {
			return pending(p)
		}
		next := *priv
		next.Model = model
		return complete(withPrivate(p, &next))
	}

	if priv.MaskObject == nil {
		masker := mask.NewMasker(p.Shared.MaskConfig)
		seed, obj, err := masker.Mask(p.Shared.Scalar, []float64(*priv.Model))
		if err != nil {
			return pending(p)
		}
		next := *priv
		next.MaskSeed = &seed
		next.MaskObject = &obj
		return complete(withPrivate(p, &next))
	}

	if priv.LocalSeedDict == nil {
		dict := make(core.LocalSeedDict, len(*priv.SumDict))
		for sumPK, ephPK := range *priv.SumDict {
			dict[sumPK] = priv.MaskSeed.Encrypt(ephPK)
		}
		next := *priv
		next.LocalSeedDict = dict
		return complete(withPrivate(p, &next))
	}

	if priv.EncodedPackets == nil {
		payload := message.UpdatePayload{
			SumSignature:    priv.SumSignature,
			UpdateSignature: priv.UpdateSignature,
			MaskedModel:     *priv.MaskObject,
			LocalSeedDict:   priv.LocalSeedDict,
		}
		packets, ok := composePackets(p, payload)
		if !ok {
			return pending(p)
		}
		next := *priv
		next.EncodedPackets = packets
		return complete(withPrivate(p, &next))
	}

	// Whether the send below succeeds or fails, Update always returns to
	// Awaiting after one attempt: it never advances to a further phase
	// this round, matching Sum2's send and the source's unconditional
	// Update -> Awaiting transition.
	err := sendPackets(ctx, p, priv.EncodedPackets)
	p.IO.Notifier.NotifyIdle()
	return completeSend(awaitingPhase(p), err)
}
