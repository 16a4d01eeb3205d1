// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/pet/engine"
)

func TestObserveTransitionIncrementsLabeledCounter(t *testing.T) {
	m, err := New()
	require.NoError(t, err)

	m.ObserveTransition(engine.PhaseSum)
	m.ObserveTransition(engine.PhaseSum)
	m.ObserveTransition(engine.PhaseUpdate)

	require.InDelta(t, 2, testutilCounterValue(t, m.transition.WithLabelValues("sum")), 0)
	require.InDelta(t, 1, testutilCounterValue(t, m.transition.WithLabelValues("update")), 0)
}

func TestObserveSendSplitsSuccessFailure(t *testing.T) {
	m, err := New()
	require.NoError(t, err)

	m.ObserveSend(nil)
	m.ObserveSend(errors.New("boom"))
	m.ObserveSend(nil)

	require.InDelta(t, 2, testutilCounterValue(t, m.send.WithLabelValues("success")), 0)
	require.InDelta(t, 1, testutilCounterValue(t, m.send.WithLabelValues("failure")), 0)
}

func TestRegisterRejectsDuplicateNamespace(t *testing.T) {
	m, err := New()
	require.NoError(t, err)
	sub, err := New()
	require.NoError(t, err)

	require.NoError(t, m.Register("sub", sub))
	require.Error(t, m.Register("sub", sub))
}

func TestGatherMergesSubGatherers(t *testing.T) {
	m, err := New()
	require.NoError(t, err)
	sub, err := New()
	require.NoError(t, err)
	sub.ObserveFreshnessReset()
	require.NoError(t, m.Register("sub", sub))

	families, err := m.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)
}

func testutilCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var metric dto.Metric
	require.NoError(t, c.Write(&metric))
	return metric.GetCounter().GetValue()
}
