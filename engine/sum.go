// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package engine

import (
	"context"

	"github.com/luxfi/pet/message"
	"github.com/luxfi/pet/pcrypto"
)

// SumPrivate is Sum's private state: the ephemeral encryption keypair
// contributed to the sum dictionary, the sum-eligibility signature, and
// the encoded outbound message once composed (nil until then).
type SumPrivate struct {
	EphemeralKeys  pcrypto.EncryptKeyPair
	SumSignature   pcrypto.Signature
	EncodedPackets [][]byte
}

func stepSum(ctx context.Context, p Phase) TransitionOutcome {
	priv := p.Private.(*SumPrivate)

	if priv.EncodedPackets == nil {
		payload := message.SumPayload{SumSignature: priv.SumSignature, EphmPK: priv.EphemeralKeys.Public}
		packets, ok := composePackets(p, payload)
		if !ok {
			return pending(p)
		}
		next := *priv
		next.EncodedPackets = packets
		return complete(withPrivate(p, &next))
	}

	if err := sendPackets(ctx, p, priv.EncodedPackets); err != nil {
		p.IO.Notifier.NotifyIdle()
		return completeSend(awaitingPhase(p), err)
	}

	return completeSend(Phase{
		Tag:    PhaseSum2,
		Shared: p.Shared,
		IO:     p.IO,
		Private: &Sum2Private{
			EphemeralKeys: priv.EphemeralKeys,
			SumSignature:  priv.SumSignature,
		},
	}, nil)
}

// composePackets wraps payload in a message.Encoder under the shared
// signing keypair and maximum message size, returning ok=false on a
// structural encoder error (never expected for a non-Chunk payload with
// a sane max size; treated as a transient condition to retry).
func composePackets(p Phase, payload message.Payload) ([][]byte, bool) {
	enc, err := message.NewEncoder(p.Shared.Keys.Secret, p.Shared.Keys.Public, payload, p.Shared.MaxMessageSize)
	if err != nil {
		return nil, false
	}
	packets, err := enc.Packets()
	if err != nil {
		return nil, false
	}
	return packets, true
}

// sendPackets encrypts each packet under the coordinator's round public
// key and sends it, stopping at and returning the first failure.
func sendPackets(ctx context.Context, p Phase, packets [][]byte) error {
	for _, packet := range packets {
		ciphertext := p.Shared.RoundParams.PK.Encrypt(packet)
		if err := p.IO.Coordinator.SendMessage(ctx, ciphertext); err != nil {
			return err
		}
	}
	return nil
}
