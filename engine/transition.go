// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package engine

// Outcome reports whether a Step call produced an externally-observable
// change.
type Outcome int

const (
	// Pending means no change occurred; the driver should sleep and
	// retry.
	Pending Outcome = iota
	// Complete means the phase's value changed, either a within-phase
	// field filled in or a phase transition; the driver should
	// immediately re-poll.
	Complete
)

func (o Outcome) String() string {
	if o == Complete {
		return "complete"
	}
	return "pending"
}

// Election records one NewRound eligibility determination, so a caller
// that wants to count elections by role and outcome (e.g. a metrics
// observer) doesn't have to recompute the signature itself.
type Election struct {
	Role     string
	Eligible bool
}

// TransitionOutcome is the result of one Step call: the outcome, the
// (possibly unchanged) resulting Phase, any eligibility determinations
// made this call, and — if this call attempted a coordinator send —
// whether it sent and the error it got back, if any.
type TransitionOutcome struct {
	Outcome   Outcome
	Phase     Phase
	Elections []Election
	Sent      bool
	SendErr   error
}

func pending(p Phase) TransitionOutcome  { return TransitionOutcome{Outcome: Pending, Phase: p} }
func complete(p Phase) TransitionOutcome { return TransitionOutcome{Outcome: Complete, Phase: p} }

// completeElections is complete, additionally reporting the eligibility
// determinations made while producing p.
func completeElections(p Phase, elections []Election) TransitionOutcome {
	return TransitionOutcome{Outcome: Complete, Phase: p, Elections: elections}
}

// completeSend is complete, additionally reporting that this call
// attempted a coordinator SendMessage and the error it returned, if any.
func completeSend(p Phase, sendErr error) TransitionOutcome {
	return TransitionOutcome{Outcome: Complete, Phase: p, Sent: true, SendErr: sendErr}
}
