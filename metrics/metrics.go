// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package metrics wraps the prometheus collectors the participant
// driver exposes — phase transitions, freshness resets, eligibility
// elections, and message send outcomes — behind a
// github.com/luxfi/metric.Gatherer, the same shape the teacher's
// runtime.Metrics interface and internal/api/metrics.MultiGatherer
// expect: a single Gather() plus a namespaced Register.
package metrics

import (
	"fmt"

	"github.com/luxfi/metric"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/luxfi/pet/engine"
)

// Metrics is the participant driver's metrics surface: a namespace
// registry of sub-gatherers (mirroring internal/api/metrics.MultiGatherer)
// plus the concrete collectors this module's own operations report to.
type Metrics struct {
	registry   *prometheus.Registry
	gatherers  map[string]metric.Gatherer
	transition *prometheus.CounterVec
	freshness  prometheus.Counter
	election   *prometheus.CounterVec
	send       *prometheus.CounterVec
}

// New constructs and registers every collector this module reports to.
func New() (*Metrics, error) {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry:  reg,
		gatherers: make(map[string]metric.Gatherer),
		transition: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pet",
			Name:      "phase_transitions_total",
			Help:      "Number of completed phase-state transitions, by destination phase.",
		}, []string{"phase"}),
		freshness: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pet",
			Name:      "freshness_resets_total",
			Help:      "Number of times a changed round manifest reset the state machine to new_round.",
		}),
		election: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pet",
			Name:      "eligibility_elections_total",
			Help:      "Number of NewRound eligibility outcomes, by role and result.",
		}, []string{"role", "eligible"}),
		send: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pet",
			Name:      "message_sends_total",
			Help:      "Number of attempts to send an encoded message (all of its packets) to the coordinator, by result.",
		}, []string{"result"}),
	}
	for _, c := range []prometheus.Collector{m.transition, m.freshness, m.election, m.send} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("metrics: register collector: %w", err)
		}
	}
	return m, nil
}

// Gather implements metric.Gatherer by merging this registry's families
// with every registered namespace's sub-gatherer, following the same
// pattern as the teacher's internal multiGatherer.Gather.
func (m *Metrics) Gather() ([]*dto.MetricFamily, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return nil, err
	}
	for namespace, g := range m.gatherers {
		sub, err := g.Gather()
		if err != nil {
			return nil, fmt.Errorf("metrics: gather %q: %w", namespace, err)
		}
		families = append(families, sub...)
	}
	return families, nil
}

// Register adds another gatherer's families under namespace, matching
// runtime.Metrics' Register(name, gatherer) signature.
func (m *Metrics) Register(namespace string, gatherer metric.Gatherer) error {
	if _, exists := m.gatherers[namespace]; exists {
		return fmt.Errorf("metrics: namespace %q already registered", namespace)
	}
	m.gatherers[namespace] = gatherer
	return nil
}

// ObserveTransition records a completed transition into tag.
func (m *Metrics) ObserveTransition(tag engine.PhaseTag) {
	m.transition.WithLabelValues(tag.String()).Inc()
}

// ObserveFreshnessReset records a round-parameter-change reset.
func (m *Metrics) ObserveFreshnessReset() {
	m.freshness.Inc()
}

// ObserveElection records a NewRound eligibility outcome for one role.
func (m *Metrics) ObserveElection(role string, eligible bool) {
	m.election.WithLabelValues(role, boolLabel(eligible)).Inc()
}

// ObserveSend records the outcome of one attempt to send an encoded
// message, which may span several SendMessage calls when it was chunked.
func (m *Metrics) ObserveSend(err error) {
	if err != nil {
		m.send.WithLabelValues("failure").Inc()
		return
	}
	m.send.WithLabelValues("success").Inc()
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
