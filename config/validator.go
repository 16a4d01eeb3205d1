// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/luxfi/pet/message"
)

// ValidationMode determines how strict validation should be.
type ValidationMode int

const (
	// StrictMode reports errors for invalid settings and additionally
	// records warnings for settings outside a typical operating range.
	// Warnings never fail validation.
	StrictMode ValidationMode = iota
	// SoftMode reports errors for invalid settings and records no warnings.
	SoftMode
)

// ValidationError describes one constraint violation or warning.
type ValidationError struct {
	Field      string
	Value      interface{}
	Constraint string
	Severity   string // "error" or "warning"
}

func (ve ValidationError) Error() string {
	return fmt.Sprintf("%s: %s=%v violates constraint: %s", ve.Severity, ve.Field, ve.Value, ve.Constraint)
}

// ValidationResult accumulates every violation found by one Validate call.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
	Valid    bool
}

// Validator validates AgentSettings and Config values.
type Validator struct {
	mode ValidationMode
}

// NewValidator returns a Validator in StrictMode.
func NewValidator() *Validator {
	return &Validator{mode: StrictMode}
}

// WithMode overrides the validation mode.
func (v *Validator) WithMode(mode ValidationMode) *Validator {
	v.mode = mode
	return v
}

// ValidateAgentSettings checks an AgentSettings for internal consistency.
func (v *Validator) ValidateAgentSettings(s *AgentSettings) error {
	result := &ValidationResult{Valid: true}

	if s.Scalar <= 0 {
		v.addError(result, "Scalar", s.Scalar, "must be positive")
	}
	if s.MaxMessageSize < message.HeaderLength+64 {
		v.addError(result, "MaxMessageSize", s.MaxMessageSize,
			fmt.Sprintf("must be large enough to carry a header plus a minimal payload (>= %d)", message.HeaderLength+64))
	}
	if v.mode == StrictMode && s.MaxMessageSize > 16<<20 {
		v.addWarning(result, "MaxMessageSize", s.MaxMessageSize, "very large value increases per-message memory use")
	}

	return resultToError(result)
}

// ValidateDriverConfig checks a Config for internal consistency.
func (v *Validator) ValidateDriverConfig(c *Config) error {
	result := &ValidationResult{Valid: true}

	if c.TickDuration <= 0 {
		v.addError(result, "TickDuration", c.TickDuration, "must be positive")
	} else if v.mode == StrictMode && c.TickDuration < 10*time.Millisecond {
		v.addWarning(result, "TickDuration", c.TickDuration, "very low interval may overload the coordinator")
	}
	if c.CoordinatorURL == "" {
		v.addError(result, "CoordinatorURL", c.CoordinatorURL, "must not be empty")
	}

	return resultToError(result)
}

func resultToError(result *ValidationResult) error {
	if result.Valid {
		return nil
	}
	var msgs []string
	for _, e := range result.Errors {
		msgs = append(msgs, e.Error())
	}
	return fmt.Errorf("config: validation failed:\n%s", strings.Join(msgs, "\n"))
}

func (v *Validator) addError(result *ValidationResult, field string, value interface{}, constraint string) {
	result.Errors = append(result.Errors, ValidationError{Field: field, Value: value, Constraint: constraint, Severity: "error"})
	result.Valid = false
}

func (v *Validator) addWarning(result *ValidationResult, field string, value interface{}, constraint string) {
	result.Warnings = append(result.Warnings, ValidationError{Field: field, Value: value, Constraint: constraint, Severity: "warning"})
}
