// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package engine

import "github.com/luxfi/pet/pcrypto"

var (
	sumRoleTag    = []byte("sum")
	updateRoleTag = []byte("update")
)

// signRole computes the deterministic eligibility signature
// sign(secret_key, round_seed || role_tag).
func signRole(secret pcrypto.SecretSigningKey, seed [32]byte, roleTag []byte) pcrypto.Signature {
	data := make([]byte, 0, len(seed)+len(roleTag))
	data = append(data, seed[:]...)
	data = append(data, roleTag...)
	return secret.SignDetached(data)
}

// stepNewRound is pure compute: it signs the sum role and, only when not
// sum-eligible, the update role, and transitions directly to Sum, Update,
// or Awaiting, all within one Step call (there is nothing to suspend on).
// It stays Pending only if the Sum ephemeral keypair cannot be generated.
func stepNewRound(p Phase) TransitionOutcome {
	sumSig := signRole(p.Shared.Keys.Secret, p.Shared.RoundParams.Seed, sumRoleTag)
	sumEligible := sumSig.IsEligible(p.Shared.RoundParams.Sum)
	elections := []Election{{Role: "sum", Eligible: sumEligible}}

	if sumEligible {
		ephKeys, err := pcrypto.GenerateEncryptKeyPair()
		if err != nil {
			// Can't enter Sum without an ephemeral keypair; retry next tick.
			return pending(p)
		}
		p.IO.Notifier.NotifySum()
		return completeElections(Phase{
			Tag:    PhaseSum,
			Shared: p.Shared,
			IO:     p.IO,
			Private: &SumPrivate{
				EphemeralKeys: ephKeys,
				SumSignature:  sumSig,
			},
		}, elections)
	}

	updateSig := signRole(p.Shared.Keys.Secret, p.Shared.RoundParams.Seed, updateRoleTag)
	updateEligible := updateSig.IsEligible(p.Shared.RoundParams.Update)
	elections = append(elections, Election{Role: "update", Eligible: updateEligible})

	if updateEligible {
		p.IO.Notifier.NotifyUpdate()
		return completeElections(Phase{
			Tag:    PhaseUpdate,
			Shared: p.Shared,
			IO:     p.IO,
			Private: &UpdatePrivate{
				SumSignature:    sumSig,
				UpdateSignature: updateSig,
			},
		}, elections)
	}

	p.IO.Notifier.NotifyIdle()
	return completeElections(awaitingPhase(p), elections)
}

// stepAwaiting is terminal-within-round: the only way out is the
// freshness preamble in Step observing a changed round manifest.
func stepAwaiting(p Phase) TransitionOutcome {
	return pending(p)
}
