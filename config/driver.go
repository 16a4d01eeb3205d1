// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"fmt"
	"time"
)

// Config is the participant driver's tick-loop configuration: how
// often to call engine.Step, where the coordinator lives, and which
// certificate authorities a TLS-based CoordinatorClient should trust.
// Recognized per spec.md §6.6; any option beyond these three belongs to
// the concrete I/O implementation, not the core.
type Config struct {
	TickDuration        time.Duration
	CoordinatorURL      string
	TrustedCertificates []string
}

// Builder builds a driver Config.
type Builder struct {
	config *Config
	err    error
}

// NewBuilder returns a builder seeded with a 1-second tick.
func NewBuilder() *Builder {
	return &Builder{config: &Config{TickDuration: time.Second}}
}

// WithTickDuration overrides the tick interval; it must be positive.
func (b *Builder) WithTickDuration(d time.Duration) *Builder {
	if b.err != nil {
		return b
	}
	if d <= 0 {
		b.err = fmt.Errorf("config: tick duration must be positive, got %v", d)
		return b
	}
	b.config.TickDuration = d
	return b
}

// WithCoordinatorURL sets the coordinator endpoint.
func (b *Builder) WithCoordinatorURL(url string) *Builder {
	if b.err != nil {
		return b
	}
	if url == "" {
		b.err = fmt.Errorf("config: coordinator url must not be empty")
		return b
	}
	b.config.CoordinatorURL = url
	return b
}

// WithTrustedCertificates sets the PEM-encoded certificate authorities
// a TLS-based CoordinatorClient should trust, replacing the system pool.
func (b *Builder) WithTrustedCertificates(certs []string) *Builder {
	if b.err != nil {
		return b
	}
	b.config.TrustedCertificates = append([]string(nil), certs...)
	return b
}

// Build validates and returns the final Config.
func (b *Builder) Build() (*Config, error) {
	if b.err != nil {
		return nil, b.err
	}
	if err := NewValidator().ValidateDriverConfig(b.config); err != nil {
		return nil, err
	}
	return b.config, nil
}
