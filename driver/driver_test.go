// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package driver

import (
	"context"
	"testing"
	"time"

	"github.com/luxfi/database/memdb"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/luxfi/pet/config"
	"github.com/luxfi/pet/core"
	"github.com/luxfi/pet/engine"
	"github.com/luxfi/pet/ioboundary"
	"github.com/luxfi/pet/ioboundary/ioboundarymock"
	"github.com/luxfi/pet/mask"
	"github.com/luxfi/pet/metrics"
	"github.com/luxfi/pet/pcrypto"
	"github.com/luxfi/pet/store"
)

func testMaskConfig() mask.MaskConfig {
	return mask.MaskConfig{GroupType: mask.GroupPrime, DataType: mask.DataF32, BoundType: mask.BoundB0, ModelType: mask.ModelM3}
}

// counterValue sums the gathered family's series matching every given
// label, so tests can assert on a CounterVec without reaching into
// metrics' unexported fields.
func counterValue(t *testing.T, met *metrics.Metrics, family string, labels map[string]string) float64 {
	t.Helper()
	families, err := met.Gather()
	require.NoError(t, err)

	var total float64
	for _, f := range families {
		if f.GetName() != family {
			continue
		}
		for _, m := range f.GetMetric() {
			if metricMatchesLabels(m, labels) {
				total += m.GetCounter().GetValue()
			}
		}
	}
	return total
}

func metricMatchesLabels(m *dto.Metric, labels map[string]string) bool {
	for k, v := range labels {
		found := false
		for _, l := range m.GetLabel() {
			if l.GetName() == k && l.GetValue() == v {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func TestRunStopsOnContextCancellation(t *testing.T) {
	ctrl := gomock.NewController(t)
	coord := ioboundarymock.NewMockCoordinatorClient(ctrl)
	coord.EXPECT().GetRoundParams(gomock.Any()).Return(core.RoundParameters{}, nil).AnyTimes()
	io := ioboundary.New(coord, nil, nil)

	settings, err := config.NewAgentSettingsBuilder().Build()
	require.NoError(t, err)
	cfg, err := config.NewBuilder().WithCoordinatorURL("https://x").WithTickDuration(time.Millisecond).Build()
	require.NoError(t, err)
	met, err := metrics.New()
	require.NoError(t, err)
	kp, err := pcrypto.GenerateSigningKeyPair()
	require.NoError(t, err)

	a, err := New(settings, kp, testMaskConfig(), io, cfg, store.New(memdb.New()), met, nil)
	require.NoError(t, err)
	require.Equal(t, engine.PhaseAwaiting, a.Phase().Tag)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err = a.Run(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRunPersistsOnComplete(t *testing.T) {
	ctrl := gomock.NewController(t)
	coord := ioboundarymock.NewMockCoordinatorClient(ctrl)
	var seed core.RoundSeed
	seed[0] = 7
	params := core.RoundParameters{Seed: seed, Sum: 0, Update: 0}
	coord.EXPECT().GetRoundParams(gomock.Any()).Return(params, nil).AnyTimes()
	io := ioboundary.New(coord, nil, nil)

	settings, err := config.NewAgentSettingsBuilder().Build()
	require.NoError(t, err)
	cfg, err := config.NewBuilder().WithCoordinatorURL("https://x").WithTickDuration(time.Millisecond).Build()
	require.NoError(t, err)
	met, err := metrics.New()
	require.NoError(t, err)
	kp, err := pcrypto.GenerateSigningKeyPair()
	require.NoError(t, err)

	st := store.New(memdb.New())
	a, err := New(settings, kp, testMaskConfig(), io, cfg, st, met, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_ = a.Run(ctx)

	// sum=0/update=0 always elects neither role, so the agent should have
	// completed at least one NewRound -> Awaiting transition and persisted it.
	require.Equal(t, engine.PhaseAwaiting, a.Phase().Tag)
	saved, ok, err := st.Load()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, engine.PhaseAwaiting, saved.Tag)
}

func TestNewRestoresPersistedState(t *testing.T) {
	ctrl := gomock.NewController(t)
	coord := ioboundarymock.NewMockCoordinatorClient(ctrl)
	io := ioboundary.New(coord, nil, nil)

	settings, err := config.NewAgentSettingsBuilder().Build()
	require.NoError(t, err)
	cfg, err := config.NewBuilder().WithCoordinatorURL("https://x").Build()
	require.NoError(t, err)
	met, err := metrics.New()
	require.NoError(t, err)
	kp, err := pcrypto.GenerateSigningKeyPair()
	require.NoError(t, err)

	st := store.New(memdb.New())
	shared := core.SharedState{Keys: kp, MaskConfig: testMaskConfig(), Scalar: 1.0, MaxMessageSize: 4096}
	require.NoError(t, st.Save(engine.SerializableState{Tag: engine.PhaseNewRound, Shared: shared, NewRound: &engine.NewRoundPrivate{}}))

	a, err := New(settings, kp, testMaskConfig(), io, cfg, st, met, nil)
	require.NoError(t, err)
	require.Equal(t, engine.PhaseNewRound, a.Phase().Tag)
}

func TestNewBootstrapsFreshWhenNoStateIsPersisted(t *testing.T) {
	ctrl := gomock.NewController(t)
	coord := ioboundarymock.NewMockCoordinatorClient(ctrl)
	io := ioboundary.New(coord, nil, nil)

	settings, err := config.NewAgentSettingsBuilder().Build()
	require.NoError(t, err)
	cfg, err := config.NewBuilder().WithCoordinatorURL("https://x").Build()
	require.NoError(t, err)
	met, err := metrics.New()
	require.NoError(t, err)
	kp, err := pcrypto.GenerateSigningKeyPair()
	require.NoError(t, err)

	a, err := New(settings, kp, testMaskConfig(), io, cfg, store.New(memdb.New()), met, nil)
	require.NoError(t, err)
	require.Equal(t, engine.PhaseAwaiting, a.Phase().Tag)
}

func TestRunObservesElectionsAndSendFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	coord := ioboundarymock.NewMockCoordinatorClient(ctrl)
	var seed core.RoundSeed
	seed[0] = 9
	// sum=1.0 always elects the sum role, so every NewRound -> Sum ->
	// (send, which fails) -> Awaiting cycle exercises both the election
	// and send-failure observability paths.
	params := core.RoundParameters{Seed: seed, Sum: 1.0, Update: 0}
	coord.EXPECT().GetRoundParams(gomock.Any()).Return(params, nil).AnyTimes()
	coord.EXPECT().SendMessage(gomock.Any(), gomock.Any()).Return(assertSendError("coordinator unreachable")).AnyTimes()
	io := ioboundary.New(coord, nil, nil)

	settings, err := config.NewAgentSettingsBuilder().Build()
	require.NoError(t, err)
	cfg, err := config.NewBuilder().WithCoordinatorURL("https://x").WithTickDuration(time.Millisecond).Build()
	require.NoError(t, err)
	met, err := metrics.New()
	require.NoError(t, err)
	kp, err := pcrypto.GenerateSigningKeyPair()
	require.NoError(t, err)

	a, err := New(settings, kp, testMaskConfig(), io, cfg, nil, met, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_ = a.Run(ctx)

	require.GreaterOrEqual(t, counterValue(t, met, "pet_eligibility_elections_total", map[string]string{"role": "sum", "eligible": "true"}), float64(1))
	require.GreaterOrEqual(t, counterValue(t, met, "pet_message_sends_total", map[string]string{"result": "failure"}), float64(1))
}

func TestEventsChannelReceivesLifecycleNotifications(t *testing.T) {
	ctrl := gomock.NewController(t)
	coord := ioboundarymock.NewMockCoordinatorClient(ctrl)
	var seed core.RoundSeed
	seed[0] = 3
	params := core.RoundParameters{Seed: seed, Sum: 0, Update: 0}
	coord.EXPECT().GetRoundParams(gomock.Any()).Return(params, nil).AnyTimes()
	io := ioboundary.New(coord, nil, nil)

	settings, err := config.NewAgentSettingsBuilder().Build()
	require.NoError(t, err)
	cfg, err := config.NewBuilder().WithCoordinatorURL("https://x").WithTickDuration(time.Millisecond).Build()
	require.NoError(t, err)
	met, err := metrics.New()
	require.NoError(t, err)
	kp, err := pcrypto.GenerateSigningKeyPair()
	require.NoError(t, err)

	a, err := New(settings, kp, testMaskConfig(), io, cfg, nil, met, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_ = a.Run(ctx)

	var got []ioboundary.Event
drain:
	for {
		select {
		case e := <-a.Events():
			got = append(got, e)
		default:
			break drain
		}
	}
	require.Contains(t, got, ioboundary.EventNewRound)
	require.Contains(t, got, ioboundary.EventIdle)
}

type assertSendError string

func (e assertSendError) Error() string { return string(e) }
