// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package plog adapts the participant state machine's lifecycle events
// to a github.com/luxfi/log.Logger, structured with zap.Field the same
// way the teacher's validator/logger.go logs set-membership changes: a
// thin reporting layer over a Logger interface the engine package itself
// never imports.
package plog

import (
	"encoding/hex"

	"github.com/luxfi/log"
	"go.uber.org/zap"

	"github.com/luxfi/pet/engine"
	"github.com/luxfi/pet/pcrypto"
)

// NewNoop returns a Logger that discards everything, for tests and
// hosts that don't care about participant lifecycle logging.
func NewNoop() log.Logger {
	return log.NewNoOpLogger()
}

// participantKeyField renders a signing public key as its hex string,
// mirroring validator/logger.go's JSONByteSlice hex rendering of node
// identities.
func participantKeyField(name string, pk pcrypto.PublicSigningKey) zap.Field {
	return zap.String(name, hex.EncodeToString(pk.Bytes()))
}

// Transition logs a completed phase transition.
func Transition(logger log.Logger, pk pcrypto.PublicSigningKey, from, to engine.PhaseTag) {
	logger.Info("phase transition",
		participantKeyField("participant", pk),
		zap.Stringer("from", from),
		zap.Stringer("to", to),
	)
}

// FreshnessReset logs a round-parameter change preempting the current phase.
func FreshnessReset(logger log.Logger, pk pcrypto.PublicSigningKey, from engine.PhaseTag) {
	logger.Info("round parameters changed, resetting to new_round",
		participantKeyField("participant", pk),
		zap.Stringer("previousPhase", from),
	)
}

// SendFailure logs a failed coordinator SendMessage call.
func SendFailure(logger log.Logger, pk pcrypto.PublicSigningKey, phase engine.PhaseTag, err error) {
	logger.Warn("message send failed",
		participantKeyField("participant", pk),
		zap.Stringer("phase", phase),
		zap.Error(err),
	)
}

// RestoreFailure logs a crash-recovery restore error; the caller falls
// back to a fresh bootstrap phase.
func RestoreFailure(logger log.Logger, err error) {
	logger.Error("failed to restore persisted participant state, starting fresh",
		zap.Error(err),
	)
}
