// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/luxfi/pet/core"
	"github.com/luxfi/pet/ioboundary"
	"github.com/luxfi/pet/ioboundary/ioboundarymock"
	"github.com/luxfi/pet/mask"
	"github.com/luxfi/pet/pcrypto"
)

type countingNotifier struct {
	newRound, sum, update, idle int
}

func (n *countingNotifier) NotifyNewRound() { n.newRound++ }
func (n *countingNotifier) NotifySum()      { n.sum++ }
func (n *countingNotifier) NotifyUpdate()   { n.update++ }
func (n *countingNotifier) NotifyIdle()     { n.idle++ }

func testMaskConfig() mask.MaskConfig {
	return mask.MaskConfig{GroupType: mask.GroupPrime, DataType: mask.DataF32, BoundType: mask.BoundB0, ModelType: mask.ModelM3}
}

func newSharedState(t *testing.T, sum, update float64) core.SharedState {
	t.Helper()
	kp, err := pcrypto.GenerateSigningKeyPair()
	require.NoError(t, err)
	ephKp, err := pcrypto.GenerateEncryptKeyPair()
	require.NoError(t, err)
	var seed core.RoundSeed
	seed[0] = 0x42
	return core.SharedState{
		Keys:           kp,
		MaskConfig:     testMaskConfig(),
		Scalar:         1.0,
		MaxMessageSize: 16384,
		RoundParams: core.RoundParameters{
			PK:     ephKp.Public,
			Seed:   seed,
			Sum:    sum,
			Update: update,
		},
	}
}

// S1 — not elected: sum=0, update=0 always yields ineligible, so NewRound
// goes straight to Awaiting with one notify_idle and no network sends.
func TestNewRoundNotElected(t *testing.T) {
	shared := newSharedState(t, 0.0, 0.0)
	ctrl := gomock.NewController(t)
	coord := ioboundarymock.NewMockCoordinatorClient(ctrl)
	coord.EXPECT().GetRoundParams(gomock.Any()).Return(shared.RoundParams, nil)
	notifier := &countingNotifier{}

	p := Phase{Tag: PhaseNewRound, Shared: shared, IO: ioboundary.New(coord, nil, notifier), Private: &NewRoundPrivate{}}
	out := Step(context.Background(), p)

	require.Equal(t, Complete, out.Outcome)
	require.Equal(t, PhaseAwaiting, out.Phase.Tag)
	require.Equal(t, 1, notifier.idle)
	require.Equal(t, 0, notifier.sum)
	require.Equal(t, 0, notifier.update)
	require.Equal(t, []Election{{Role: "sum", Eligible: false}, {Role: "update", Eligible: false}}, out.Elections)
}

// S2 (partial) — sum=1.0 always elects Sum; one step composes the message,
// the next sends it and transitions to Sum2, carrying the ephemeral keypair
// forward.
func TestSumHappyPathTransitionsToSum2(t *testing.T) {
	shared := newSharedState(t, 1.0, 0.0)
	ctrl := gomock.NewController(t)
	coord := ioboundarymock.NewMockCoordinatorClient(ctrl)
	coord.EXPECT().GetRoundParams(gomock.Any()).Return(shared.RoundParams, nil).AnyTimes()
	coord.EXPECT().SendMessage(gomock.Any(), gomock.Any()).Return(nil)
	notifier := &countingNotifier{}
	io := ioboundary.New(coord, nil, notifier)

	p := New(shared, io)
	p.Tag = PhaseNewRound
	p.Private = &NewRoundPrivate{}

	out := Step(context.Background(), p)
	require.Equal(t, Complete, out.Outcome)
	require.Equal(t, PhaseSum, out.Phase.Tag)
	require.Equal(t, 1, notifier.sum)
	require.Equal(t, []Election{{Role: "sum", Eligible: true}}, out.Elections)

	sumPriv := out.Phase.Private.(*SumPrivate)
	ephPub := sumPriv.EphemeralKeys.Public

	// Compose sub-step.
	out = Step(context.Background(), out.Phase)
	require.Equal(t, Complete, out.Outcome)
	require.Equal(t, PhaseSum, out.Phase.Tag)
	require.NotNil(t, out.Phase.Private.(*SumPrivate).EncodedPackets)

	// Send sub-step.
	out = Step(context.Background(), out.Phase)
	require.Equal(t, Complete, out.Outcome)
	require.Equal(t, PhaseSum2, out.Phase.Tag)
	require.True(t, out.Sent)
	require.NoError(t, out.SendErr)
	sum2Priv := out.Phase.Private.(*Sum2Private)
	require.Equal(t, ephPub, sum2Priv.EphemeralKeys.Public)
}

// S5 — a send failure in Sum returns to Awaiting without entering Sum2.
func TestSumSendFailureReturnsToAwaiting(t *testing.T) {
	shared := newSharedState(t, 1.0, 0.0)
	ctrl := gomock.NewController(t)
	coord := ioboundarymock.NewMockCoordinatorClient(ctrl)
	coord.EXPECT().GetRoundParams(gomock.Any()).Return(shared.RoundParams, nil).AnyTimes()
	coord.EXPECT().SendMessage(gomock.Any(), gomock.Any()).Return(assertError("network down"))
	notifier := &countingNotifier{}
	io := ioboundary.New(coord, nil, notifier)

	ephKp, err := pcrypto.GenerateEncryptKeyPair()
	require.NoError(t, err)
	p := Phase{Tag: PhaseSum, Shared: shared, IO: io, Private: &SumPrivate{EphemeralKeys: ephKp}}

	out := Step(context.Background(), p) // compose
	require.Equal(t, PhaseSum, out.Phase.Tag)
	out = Step(context.Background(), out.Phase) // send, fails
	require.Equal(t, Complete, out.Outcome)
	require.Equal(t, PhaseAwaiting, out.Phase.Tag)
	require.Equal(t, 1, notifier.idle)
	require.True(t, out.Sent)
	require.EqualError(t, out.SendErr, "network down")
}

// S3 — update participant happy path: sum=0, update=1.0. Walks through
// fetch sums, load model, mask, build seed dict, compose, send.
func TestUpdateHappyPathBuildsLocalSeedDict(t *testing.T) {
	shared := newSharedState(t, 0.0, 1.0)
	ctrl := gomock.NewController(t)
	coord := ioboundarymock.NewMockCoordinatorClient(ctrl)
	coord.EXPECT().GetRoundParams(gomock.Any()).Return(shared.RoundParams, nil).AnyTimes()

	sumDict := core.SumDict{}
	for i := 0; i < 3; i++ {
		kp, err := pcrypto.GenerateSigningKeyPair()
		require.NoError(t, err)
		ephKp, err := pcrypto.GenerateEncryptKeyPair()
		require.NoError(t, err)
		sumDict[kp.Public] = ephKp.Public
	}
	coord.EXPECT().GetSums(gomock.Any()).Return(sumDict, true, nil)
	coord.EXPECT().SendMessage(gomock.Any(), gomock.Any()).Return(nil)

	model := core.Model{1, 2, 3}
	store := ioboundarymock.NewMockModelStore(ctrl)
	store.EXPECT().LoadModel(gomock.Any()).Return(&model, true, nil)

	notifier := &countingNotifier{}
	io := ioboundary.New(coord, store, notifier)

	p := Phase{Tag: PhaseUpdate, Shared: shared, IO: io, Private: &UpdatePrivate{}}

	// fetch sums
	out := Step(context.Background(), p)
	require.Equal(t, Complete, out.Outcome)
	require.NotNil(t, out.Phase.Private.(*UpdatePrivate).SumDict)

	// load model
	out = Step(context.Background(), out.Phase)
	require.NotNil(t, out.Phase.Private.(*UpdatePrivate).Model)

	// mask
	out = Step(context.Background(), out.Phase)
	require.NotNil(t, out.Phase.Private.(*UpdatePrivate).MaskObject)

	// build local seed dict
	out = Step(context.Background(), out.Phase)
	dict := out.Phase.Private.(*UpdatePrivate).LocalSeedDict
	require.Len(t, dict, 3)
	for pk := range dict {
		_, ok := sumDict[pk]
		require.True(t, ok)
	}

	// compose
	out = Step(context.Background(), out.Phase)
	require.NotNil(t, out.Phase.Private.(*UpdatePrivate).EncodedPackets)

	// send -> always Awaiting
	out = Step(context.Background(), out.Phase)
	require.Equal(t, PhaseAwaiting, out.Phase.Tag)
	require.Equal(t, 1, notifier.idle)
	require.True(t, out.Sent)
	require.NoError(t, out.SendErr)
}

// S4 — a round-parameter change mid-phase resets to NewRound, discarding
// in-flight Update private state, without an Awaiting intermediary.
func TestFreshnessResetDiscardsInFlightPhase(t *testing.T) {
	shared := newSharedState(t, 0.0, 1.0)
	ctrl := gomock.NewController(t)
	coord := ioboundarymock.NewMockCoordinatorClient(ctrl)

	changed := shared.RoundParams
	changed.Seed[0] ^= 0xFF
	coord.EXPECT().GetRoundParams(gomock.Any()).Return(changed, nil)
	notifier := &countingNotifier{}
	io := ioboundary.New(coord, nil, notifier)

	sumDict := core.SumDict{}
	priv := &UpdatePrivate{SumDict: &sumDict}
	p := Phase{Tag: PhaseUpdate, Shared: shared, IO: io, Private: priv}

	out := Step(context.Background(), p)
	require.Equal(t, Complete, out.Outcome)
	require.Equal(t, PhaseNewRound, out.Phase.Tag)
	require.Equal(t, changed, out.Phase.Shared.RoundParams)
	require.Equal(t, 1, notifier.newRound)
	require.IsType(t, &NewRoundPrivate{}, out.Phase.Private)
}

// Invariant 4 — save/restore round trip: a restored phase produces the
// same next outcome as the phase it was saved from.
func TestSaveRestoreRoundTrip(t *testing.T) {
	shared := newSharedState(t, 1.0, 0.0)
	ephKp, err := pcrypto.GenerateEncryptKeyPair()
	require.NoError(t, err)
	sig := shared.Keys.Secret.SignDetached([]byte("whatever"))
	p := Phase{Tag: PhaseSum, Shared: shared, Private: &SumPrivate{EphemeralKeys: ephKp, SumSignature: sig}}

	saved := Save(p)
	encoded := saved.ToBytes()
	decoded, err := SerializableStateFromBytes(encoded)
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	coord := ioboundarymock.NewMockCoordinatorClient(ctrl)
	coord.EXPECT().GetRoundParams(gomock.Any()).Return(shared.RoundParams, nil).Times(2)
	io := ioboundary.New(coord, nil, &countingNotifier{})

	restored, err := Restore(decoded, io)
	require.NoError(t, err)
	require.Equal(t, p.Tag, restored.Tag)
	require.Equal(t, p.Private.(*SumPrivate).EphemeralKeys, restored.Private.(*SumPrivate).EphemeralKeys)
	require.Equal(t, p.Private.(*SumPrivate).SumSignature, restored.Private.(*SumPrivate).SumSignature)

	p.IO = io
	outOriginal := Step(context.Background(), p)
	outRestored := Step(context.Background(), restored)
	require.Equal(t, outOriginal.Outcome, outRestored.Outcome)
	require.Equal(t, outOriginal.Phase.Tag, outRestored.Phase.Tag)
}

type assertError string

func (e assertError) Error() string { return string(e) }
