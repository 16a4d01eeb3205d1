// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package store persists the participant's crash-recovery state, a
// single SerializableState record, under a fixed key in a
// github.com/luxfi/database.Database, the way the teacher's state
// packages (engine/dag/state, engine/graph/state) hold their
// consensus-critical state behind the same interface rather than a
// concrete backend.
package store

import (
	"errors"
	"fmt"

	"github.com/luxfi/database"

	"github.com/luxfi/pet/engine"
)

// stateKey is the single key this store ever reads or writes. A
// participant holds exactly one in-flight phase at a time, so there is
// no need for a keyspace beyond this.
var stateKey = []byte("pet/participant/state")

// Store wraps a Database with Save/Load of a single SerializableState.
type Store struct {
	db database.Database
}

// New wraps db for participant-state persistence.
func New(db database.Database) *Store {
	return &Store{db: db}
}

// Save persists s, overwriting whatever was previously stored.
func (s *Store) Save(state engine.SerializableState) error {
	if err := s.db.Put(stateKey, state.ToBytes()); err != nil {
		return fmt.Errorf("store: save participant state: %w", err)
	}
	return nil
}

// Load returns the last-saved state, or ok=false if nothing has been
// saved yet.
func (s *Store) Load() (state engine.SerializableState, ok bool, err error) {
	raw, err := s.db.Get(stateKey)
	if errors.Is(err, database.ErrNotFound) {
		return engine.SerializableState{}, false, nil
	}
	if err != nil {
		return engine.SerializableState{}, false, fmt.Errorf("store: load participant state: %w", err)
	}
	state, err = engine.SerializableStateFromBytes(raw)
	if err != nil {
		return engine.SerializableState{}, false, fmt.Errorf("store: decode participant state: %w", err)
	}
	return state, true, nil
}

// Clear removes any persisted state; a later Load reports ok=false. The
// driver never calls it.
func (s *Store) Clear() error {
	if err := s.db.Delete(stateKey); err != nil {
		return fmt.Errorf("store: clear participant state: %w", err)
	}
	return nil
}
