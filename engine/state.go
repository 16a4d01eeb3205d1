// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package engine

import (
	"fmt"

	"github.com/luxfi/pet/core"
	"github.com/luxfi/pet/ioboundary"
)

// SerializableState is a tagged representation of every phase's state,
// suitable for persistence and later restoration. Save/Restore satisfy
// the round-trip law: restore(save(p), io) behaves identically to p for
// all future Step calls.
type SerializableState struct {
	Tag      PhaseTag
	Shared   core.SharedState
	NewRound *NewRoundPrivate
	Awaiting *AwaitingPrivate
	Sum      *SumPrivate
	Update   *UpdatePrivate
	Sum2     *Sum2Private
}

// Save captures p's tag, shared state, and the private state of whatever
// phase p is currently in.
func Save(p Phase) SerializableState {
	s := SerializableState{Tag: p.Tag, Shared: p.Shared}
	switch p.Tag {
	case PhaseNewRound:
		s.NewRound = p.Private.(*NewRoundPrivate)
	case PhaseAwaiting:
		s.Awaiting = p.Private.(*AwaitingPrivate)
	case PhaseSum:
		s.Sum = p.Private.(*SumPrivate)
	case PhaseUpdate:
		s.Update = p.Private.(*UpdatePrivate)
	case PhaseSum2:
		s.Sum2 = p.Private.(*Sum2Private)
	}
	return s
}

// Restore rebuilds a Phase of the same tag and field values as the one
// Save captured, attaching a fresh I/O facade (the I/O handle itself is
// never persisted).
func Restore(s SerializableState, io ioboundary.IO) (Phase, error) {
	p := Phase{Tag: s.Tag, Shared: s.Shared, IO: io}
	switch s.Tag {
	case PhaseNewRound:
		if s.NewRound == nil {
			return Phase{}, fmt.Errorf("engine: restore: missing new_round private state")
		}
		p.Private = s.NewRound
	case PhaseAwaiting:
		if s.Awaiting == nil {
			return Phase{}, fmt.Errorf("engine: restore: missing awaiting private state")
		}
		p.Private = s.Awaiting
	case PhaseSum:
		if s.Sum == nil {
			return Phase{}, fmt.Errorf("engine: restore: missing sum private state")
		}
		p.Private = s.Sum
	case PhaseUpdate:
		if s.Update == nil {
			return Phase{}, fmt.Errorf("engine: restore: missing update private state")
		}
		p.Private = s.Update
	case PhaseSum2:
		if s.Sum2 == nil {
			return Phase{}, fmt.Errorf("engine: restore: missing sum2 private state")
		}
		p.Private = s.Sum2
	default:
		return Phase{}, fmt.Errorf("engine: restore: unknown phase tag %d", s.Tag)
	}
	return p, nil
}
