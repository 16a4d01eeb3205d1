// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/pet/mask"
)

func TestAgentSettingsBuilderDefaults(t *testing.T) {
	s, err := NewAgentSettingsBuilder().Build()
	require.NoError(t, err)
	require.Equal(t, 1.0, s.Scalar)
	require.Equal(t, 64<<10, s.MaxMessageSize)
}

func TestAgentSettingsBuilderRejectsNonPositiveScalar(t *testing.T) {
	_, err := NewAgentSettingsBuilder().WithScalar(0).Build()
	require.Error(t, err)
}

func TestAgentSettingsBuilderRejectsUndersizedMessageCap(t *testing.T) {
	_, err := NewAgentSettingsBuilder().WithMaxMessageSize(10).Build()
	require.Error(t, err)
}

func TestAgentSettingsBuilderAcceptsOverriddenMaskConfig(t *testing.T) {
	cfg := mask.MaskConfig{GroupType: mask.GroupInteger, DataType: mask.DataF64, BoundType: mask.BoundB6, ModelType: mask.ModelM12}
	s, err := NewAgentSettingsBuilder().WithMaskConfig(cfg).Build()
	require.NoError(t, err)
	require.Equal(t, cfg, s.MaskConfig)
}

func TestDriverBuilderDefaults(t *testing.T) {
	c, err := NewBuilder().WithCoordinatorURL("https://coordinator.example").Build()
	require.NoError(t, err)
	require.Equal(t, time.Second, c.TickDuration)
	require.Equal(t, "https://coordinator.example", c.CoordinatorURL)
}

func TestDriverBuilderRejectsEmptyCoordinatorURL(t *testing.T) {
	_, err := NewBuilder().Build()
	require.Error(t, err)
}

func TestDriverBuilderRejectsNonPositiveTick(t *testing.T) {
	_, err := NewBuilder().WithCoordinatorURL("https://x").WithTickDuration(0).Build()
	require.Error(t, err)
}

func TestDriverBuilderCopiesTrustedCertificates(t *testing.T) {
	certs := []string{"cert-a", "cert-b"}
	c, err := NewBuilder().WithCoordinatorURL("https://x").WithTrustedCertificates(certs).Build()
	require.NoError(t, err)
	certs[0] = "mutated"
	require.Equal(t, "cert-a", c.TrustedCertificates[0])
}
