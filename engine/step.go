// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package engine

import "context"

// Step advances p by one cooperative step: it first polls the
// coordinator's round parameters (the freshness preamble); on a
// different manifest it resets to NewRound, discarding any in-flight
// phase state, before the phase body ever runs. Otherwise it executes
// the current phase's next sub-step.
func Step(ctx context.Context, p Phase) TransitionOutcome {
	params, err := p.IO.Coordinator.GetRoundParams(ctx)
	if err != nil {
		// RoundFreshness::Unknown: retry next tick, no transition.
		return pending(p)
	}
	if !params.Equal(p.Shared.RoundParams) {
		p.Shared.RoundParams = params
		p.IO.Notifier.NotifyNewRound()
		return complete(Phase{Tag: PhaseNewRound, Shared: p.Shared, IO: p.IO, Private: &NewRoundPrivate{}})
	}

	switch p.Tag {
	case PhaseNewRound:
		return stepNewRound(p)
	case PhaseAwaiting:
		return stepAwaiting(p)
	case PhaseSum:
		return stepSum(ctx, p)
	case PhaseUpdate:
		return stepUpdate(ctx, p)
	case PhaseSum2:
		return stepSum2(ctx, p)
	default:
		return pending(p)
	}
}
