// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config provides fluent, validated builders for the
// participant's bootstrap-time settings and the driver's tick-loop
// configuration, following the same Builder+Validator split as
// config/builder.go and config/validator.go: a Builder accumulates an
// error across chained calls and only surfaces it at Build, after a
// final pass through a Validator.
package config

import (
	"fmt"

	"github.com/luxfi/pet/mask"
)

// AgentSettings is the bootstrap-time configuration SharedState is
// built from: the masking scheme every participant in a round must
// agree on, the aggregation scalar, and the maximum size of one
// outbound wire message before it is split into chunks.
type AgentSettings struct {
	MaskConfig     mask.MaskConfig
	Scalar         float64
	MaxMessageSize int
}

// AgentSettingsBuilder builds an AgentSettings.
type AgentSettingsBuilder struct {
	settings *AgentSettings
	err      error
}

// NewAgentSettingsBuilder returns a builder seeded with sensible
// defaults: a prime-group F32 config with the smallest bound and scale,
// a neutral aggregation scalar, and a generous 64KiB message cap.
func NewAgentSettingsBuilder() *AgentSettingsBuilder {
	return &AgentSettingsBuilder{
		settings: &AgentSettings{
			MaskConfig:     mask.MaskConfig{GroupType: mask.GroupPrime, DataType: mask.DataF32, BoundType: mask.BoundB0, ModelType: mask.ModelM3},
			Scalar:         1.0,
			MaxMessageSize: 64 << 10,
		},
	}
}

// WithMaskConfig overrides the masking scheme.
func (b *AgentSettingsBuilder) WithMaskConfig(cfg mask.MaskConfig) *AgentSettingsBuilder {
	if b.err != nil {
		return b
	}
	b.settings.MaskConfig = cfg
	return b
}

// WithScalar overrides the aggregation scalar; it must be positive.
func (b *AgentSettingsBuilder) WithScalar(scalar float64) *AgentSettingsBuilder {
	if b.err != nil {
		return b
	}
	if scalar <= 0 {
		b.err = fmt.Errorf("config: scalar must be positive, got %v", scalar)
		return b
	}
	b.settings.Scalar = scalar
	return b
}

// WithMaxMessageSize overrides the maximum single-packet size.
func (b *AgentSettingsBuilder) WithMaxMessageSize(n int) *AgentSettingsBuilder {
	if b.err != nil {
		return b
	}
	if n <= 0 {
		b.err = fmt.Errorf("config: max message size must be positive, got %d", n)
		return b
	}
	b.settings.MaxMessageSize = n
	return b
}

// Build validates and returns the final AgentSettings.
func (b *AgentSettingsBuilder) Build() (*AgentSettings, error) {
	if b.err != nil {
		return nil, b.err
	}
	if err := NewValidator().ValidateAgentSettings(b.settings); err != nil {
		return nil, err
	}
	return b.settings, nil
}
