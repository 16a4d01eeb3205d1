// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ioboundary defines the object-safe facade the state machine
// uses to reach the outside world: a coordinator client, a local model
// store, and an optional lifecycle notifier. The engine package never
// depends on a transport, a database, or a UI directly — only on these
// narrow interfaces, so it stays monomorphization-free at its entry
// points.
package ioboundary

import (
	"context"

	"github.com/luxfi/pet/core"
	"github.com/luxfi/pet/pcrypto"
)

// CoordinatorClient is the required capability for talking to the PET
// coordinator. Every method may suspend; callers should pass a context
// that bounds how long they're willing to wait.
type CoordinatorClient interface {
	// GetRoundParams fetches the coordinator's current-round manifest.
	GetRoundParams(ctx context.Context) (core.RoundParameters, error)
	// GetSums returns the published sum dictionary, or ok=false if the
	// sum phase has not yet closed.
	GetSums(ctx context.Context) (dict core.SumDict, ok bool, err error)
	// GetSeeds returns the update seed dictionary addressed to ownSumPK,
	// or ok=false if the update phase has not yet closed.
	GetSeeds(ctx context.Context, ownSumPK pcrypto.PublicSigningKey) (dict core.UpdateSeedDict, ok bool, err error)
	// GetMaskLength returns the published aggregated mask length, or
	// ok=false if it has not yet been published.
	GetMaskLength(ctx context.Context) (length uint64, ok bool, err error)
	// GetModel returns the coordinator's published global model, or
	// ok=false if none has been published yet.
	GetModel(ctx context.Context) (model *core.Model, ok bool, err error)
	// SendMessage submits an encoded, signed message packet.
	SendMessage(ctx context.Context, msg []byte) error
}

// ModelStore is the required capability for obtaining a locally-trained
// model ready to be masked and submitted.
type ModelStore interface {
	// LoadModel returns the locally-trained model, or ok=false if none is
	// ready yet.
	LoadModel(ctx context.Context) (model *core.Model, ok bool, err error)
}

// Notifier is the optional capability a host uses to observe phase
// lifecycle transitions. Every method defaults to a no-op via
// NoopNotifier; hosts only implement the events they care about.
type Notifier interface {
	NotifyNewRound()
	NotifySum()
	NotifyUpdate()
	NotifyIdle()
}

// NoopNotifier implements Notifier with four no-op methods. Embed it to
// get a Notifier that only overrides the events you care about.
type NoopNotifier struct{}

func (NoopNotifier) NotifyNewRound() {}
func (NoopNotifier) NotifySum()      {}
func (NoopNotifier) NotifyUpdate()   {}
func (NoopNotifier) NotifyIdle()     {}

// IO is the single, erased facade the engine package holds: one
// CoordinatorClient, one ModelStore, and one Notifier, composed so a
// phase's private state never needs to name a concrete transport type.
type IO struct {
	Coordinator CoordinatorClient
	Model       ModelStore
	Notifier    Notifier
}

// New builds an IO facade. If notifier is nil, NoopNotifier is used.
func New(coordinator CoordinatorClient, model ModelStore, notifier Notifier) IO {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return IO{Coordinator: coordinator, Model: model, Notifier: notifier}
}
