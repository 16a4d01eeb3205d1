// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package engine implements the participant phase state machine: a
// cooperative step protocol over five phases (NewRound, Awaiting, Sum,
// Update, Sum2), with a freshness preamble that resets to NewRound
// whenever the coordinator's round parameters change.
//
// Phases are represented as a single tagged union rather than a
// generically-parameterized type per phase, the simplification this
// state machine's design notes endorse: monomorphization buys nothing
// here, and a single concrete Phase type keeps the I/O facade erased.
package engine

import (
	"github.com/luxfi/pet/core"
	"github.com/luxfi/pet/ioboundary"
)

// PhaseTag identifies which of the five phases a Phase value is in.
type PhaseTag byte

const (
	PhaseNewRound PhaseTag = iota
	PhaseAwaiting
	PhaseSum
	PhaseUpdate
	PhaseSum2
)

func (t PhaseTag) String() string {
	switch t {
	case PhaseNewRound:
		return "new_round"
	case PhaseAwaiting:
		return "awaiting"
	case PhaseSum:
		return "sum"
	case PhaseUpdate:
		return "update"
	case PhaseSum2:
		return "sum2"
	default:
		return "unknown"
	}
}

// Phase is the current state machine value: shared state common to every
// phase, the I/O facade, and a tag-specific private state held in
// Private. Exactly one Phase exists at any time; every transition
// produces a new Phase value rather than mutating this one in place.
type Phase struct {
	Tag     PhaseTag
	Shared  core.SharedState
	IO      ioboundary.IO
	Private any
}

// NewRoundPrivate is NewRound's private state: none, since the phase is
// pure compute and resolves to a transition within a single step.
type NewRoundPrivate struct{}

// AwaitingPrivate is Awaiting's private state: none, since the phase
// never does any work of its own.
type AwaitingPrivate struct{}

// New constructs the bootstrap Phase<Awaiting>, per spec.md §3's
// lifecycle: "Created at new(Settings, IO) as Phase<Awaiting>".
func New(shared core.SharedState, io ioboundary.IO) Phase {
	return Phase{Tag: PhaseAwaiting, Shared: shared, IO: io, Private: &AwaitingPrivate{}}
}

func awaitingPhase(p Phase) Phase {
	return Phase{Tag: PhaseAwaiting, Shared: p.Shared, IO: p.IO, Private: &AwaitingPrivate{}}
}

func withPrivate(p Phase, private any) Phase {
	p.Private = private
	return p
}
