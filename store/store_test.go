// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package store

import (
	"testing"

	"github.com/luxfi/database/memdb"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/pet/core"
	"github.com/luxfi/pet/engine"
	"github.com/luxfi/pet/mask"
	"github.com/luxfi/pet/pcrypto"
)

func testSharedState(t *testing.T) core.SharedState {
	t.Helper()
	kp, err := pcrypto.GenerateSigningKeyPair()
	require.NoError(t, err)
	ephKp, err := pcrypto.GenerateEncryptKeyPair()
	require.NoError(t, err)
	return core.SharedState{
		Keys:           kp,
		MaskConfig:     mask.MaskConfig{GroupType: mask.GroupPrime, DataType: mask.DataF32, BoundType: mask.BoundB0, ModelType: mask.ModelM3},
		Scalar:         1.0,
		MaxMessageSize: 4096,
		RoundParams:    core.RoundParameters{PK: ephKp.Public},
	}
}

func TestLoadWithoutSaveReportsNotFound(t *testing.T) {
	s := New(memdb.New())
	_, ok, err := s.Load()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := New(memdb.New())
	shared := testSharedState(t)
	state := engine.SerializableState{Tag: engine.PhaseAwaiting, Shared: shared, Awaiting: &engine.AwaitingPrivate{}}

	require.NoError(t, s.Save(state))
	loaded, ok, err := s.Load()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, state.Tag, loaded.Tag)
	require.Equal(t, state.Shared, loaded.Shared)
}

func TestSaveOverwritesPreviousState(t *testing.T) {
	s := New(memdb.New())
	shared := testSharedState(t)
	require.NoError(t, s.Save(engine.SerializableState{Tag: engine.PhaseAwaiting, Shared: shared, Awaiting: &engine.AwaitingPrivate{}}))
	require.NoError(t, s.Save(engine.SerializableState{Tag: engine.PhaseNewRound, Shared: shared, NewRound: &engine.NewRoundPrivate{}}))

	loaded, ok, err := s.Load()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, engine.PhaseNewRound, loaded.Tag)
}

func TestClearRemovesState(t *testing.T) {
	s := New(memdb.New())
	shared := testSharedState(t)
	require.NoError(t, s.Save(engine.SerializableState{Tag: engine.PhaseAwaiting, Shared: shared, Awaiting: &engine.AwaitingPrivate{}}))
	require.NoError(t, s.Clear())

	_, ok, err := s.Load()
	require.NoError(t, err)
	require.False(t, ok)
}
