// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package driver runs the participant state machine to completion: a
// tick loop that calls engine.Step, sleeping on Pending and persisting,
// logging, and counting on Complete. It is the Go counterpart of
// original_source/rust/xaynet-sdk/src/agents/desktop.rs's Agent::run,
// extended with the crash-recovery, metrics, and logging wiring a
// standalone binary needs that the bare state machine does not.
package driver

import (
	"context"
	"fmt"
	"time"

	"github.com/luxfi/log"

	"github.com/luxfi/pet/config"
	"github.com/luxfi/pet/core"
	"github.com/luxfi/pet/engine"
	"github.com/luxfi/pet/ioboundary"
	"github.com/luxfi/pet/mask"
	"github.com/luxfi/pet/metrics"
	"github.com/luxfi/pet/pcrypto"
	"github.com/luxfi/pet/plog"
	"github.com/luxfi/pet/store"
)

// eventBuffer is the buffer size of the ChannelNotifier every Agent
// wires in alongside whatever Notifier the caller's IO already carries,
// so a host can observe phase lifecycle events without having to
// implement ioboundary.Notifier itself.
const eventBuffer = 16

// Agent owns one participant's Phase and drives it with engine.Step on
// a fixed tick, the way Rust's Agent(StateMachine) owns one
// StateMachine.
type Agent struct {
	phase   engine.Phase
	config  *config.Config
	store   *store.Store
	metrics *metrics.Metrics
	log     log.Logger
	pk      pcrypto.PublicSigningKey
	events  *ioboundary.ChannelNotifier
}

// fanoutNotifier forwards every lifecycle event to both of two
// Notifiers, so wiring in the Agent's own ChannelNotifier never
// displaces a caller-supplied Notifier.
type fanoutNotifier struct {
	caller, channel ioboundary.Notifier
}

func (n fanoutNotifier) NotifyNewRound() { n.caller.NotifyNewRound(); n.channel.NotifyNewRound() }
func (n fanoutNotifier) NotifySum()      { n.caller.NotifySum(); n.channel.NotifySum() }
func (n fanoutNotifier) NotifyUpdate()   { n.caller.NotifyUpdate(); n.channel.NotifyUpdate() }
func (n fanoutNotifier) NotifyIdle()     { n.caller.NotifyIdle(); n.channel.NotifyIdle() }

// New bootstraps an Agent: it restores a persisted phase from store if
// one exists, otherwise starts fresh at Phase<Awaiting> per
// engine.New's bootstrap contract.
func New(
	settings *config.AgentSettings,
	keys pcrypto.SigningKeyPair,
	maskCfg mask.MaskConfig,
	io ioboundary.IO,
	cfg *config.Config,
	st *store.Store,
	met *metrics.Metrics,
	logger log.Logger,
) (*Agent, error) {
	if logger == nil {
		logger = plog.NewNoop()
	}
	events := ioboundary.NewChannelNotifier(eventBuffer)
	io.Notifier = fanoutNotifier{caller: io.Notifier, channel: events}

	a := &Agent{config: cfg, store: st, metrics: met, log: logger, pk: keys.Public, events: events}

	shared := core.SharedState{
		Keys:           keys,
		MaskConfig:     maskCfg,
		Scalar:         settings.Scalar,
		MaxMessageSize: settings.MaxMessageSize,
	}

	if st != nil {
		saved, ok, err := st.Load()
		if err != nil {
			plog.RestoreFailure(logger, err)
		} else if ok {
			shared.RoundParams = saved.Shared.RoundParams
			saved.Shared = shared
			restored, err := engine.Restore(saved, io)
			if err != nil {
				plog.RestoreFailure(logger, err)
			} else {
				a.phase = restored
				return a, nil
			}
		}
	}

	a.phase = engine.New(shared, io)
	return a, nil
}

// Events returns the channel a host can read phase lifecycle
// notifications from, without implementing ioboundary.Notifier itself.
// Sends are non-blocking, so a host that never reads this channel pays
// no cost beyond the fixed eventBuffer.
func (a *Agent) Events() <-chan ioboundary.Event { return a.events.Events }

// Run drives the state machine until ctx is canceled: on Pending it
// sleeps for the configured tick before retrying; on Complete it
// persists, logs, and counts the transition before immediately
// re-polling, mirroring desktop.rs's Agent::run loop exactly.
func (a *Agent) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		before := a.phase.Tag
		out := engine.Step(ctx, a.phase)
		a.phase = out.Phase

		if out.Outcome == engine.Pending {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(a.config.TickDuration):
			}
			continue
		}

		a.onComplete(before, out)
	}
}

func (a *Agent) onComplete(before engine.PhaseTag, out engine.TransitionOutcome) {
	for _, e := range out.Elections {
		if a.metrics != nil {
			a.metrics.ObserveElection(e.Role, e.Eligible)
		}
	}

	if out.Sent {
		if a.metrics != nil {
			a.metrics.ObserveSend(out.SendErr)
		}
		if out.SendErr != nil {
			plog.SendFailure(a.log, a.pk, before, out.SendErr)
		}
	}

	after := a.phase.Tag
	if after != before {
		if after == engine.PhaseNewRound && before != engine.PhaseNewRound {
			plog.FreshnessReset(a.log, a.pk, before)
			if a.metrics != nil {
				a.metrics.ObserveFreshnessReset()
			}
		} else {
			plog.Transition(a.log, a.pk, before, after)
		}
		if a.metrics != nil {
			a.metrics.ObserveTransition(after)
		}
	}

	if a.store == nil {
		return
	}
	if err := a.store.Save(engine.Save(a.phase)); err != nil {
		a.log.Warn(fmt.Sprintf("failed to persist participant state: %v", err))
	}
}

// Phase returns the agent's current phase, for tests and introspection.
func (a *Agent) Phase() engine.Phase { return a.phase }
