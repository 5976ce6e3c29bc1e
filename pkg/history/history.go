// Copyright Psychogenic Technologies Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package history turns bounded temporal questions about synchronous signals
// into plain combinational logic over statically-sized registers.  A Tracker
// watches registered signals for a fixed window of N cycles, maintaining an
// absolute store (the value each signal carried on cycle t, plus a bitmap of
// positions reached) and a relative store (a shift accumulator packing the
// last N samples, newest in the low bits).  Queries such as Past, WasEver,
// Rose or FollowsSequence compile down to slices and comparisons over those
// stores, so they can sit inside assertions handed to a bounded prover.
//
// Update logic for the relative and edge stores is only emitted for signals
// whose queries actually touched them, which is why every query must be
// built before the tracker elaborates.  Each tracker also assumes the cycle
// counter stays below the smallest window registered against its context:
// with mixed window sizes, analysis is sound only up to the shortest one.
package history

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/psychogenic/amaranth-testbench/pkg/hdl"
	"github.com/psychogenic/amaranth-testbench/pkg/verify"
)

// Tracker records the recent history of registered signals over a window of
// fixed depth, and compiles temporal queries about them into combinational
// expressions.  Trackers attach to a parent module at construction and
// elaborate their update logic when the design compiles; all signals must be
// registered, and all queries built, before that happens.
type Tracker struct {
	ctx  *verify.Context
	name string
	// index of this tracker within its context, prefixing generated names.
	index uint
	// depth is the window size N: how many cycles of history are kept.
	depth uint
	// cycle counts elapsed cycles, saturating semantics left to the
	// capacity assumption.
	cycle *hdl.Signal
	// reached holds one bit per absolute position, latched once the counter
	// passes it.
	reached *hdl.Signal
	// signals lists tracked signals in registration order.
	signals []*hdl.Signal
	// states carries the generated stores of each tracked signal, keyed by
	// identity.
	states     map[*hdl.Signal]*signalState
	elaborated bool
}

// signalState bundles everything generated for one tracked signal.
type signalState struct {
	signal *hdl.Signal
	// name is the globally unique handle of this signal within the context.
	name string
	// history holds the absolute store: one register per position.
	history []*hdl.Signal
	// past is the relative store: N samples packed newest-first-in-low-bits.
	past *hdl.Signal
	// edges are the rise/fall stores.
	edges edgeState
	// usingPast marks that some query read the relative store.
	usingPast bool
	// usingEdges marks that some query read the edge stores.
	usingEdges bool
}

// edgeState bundles the rise/fall stores of one tracked signal.  Each is
// one bit per window position; trace registers record where edges occurred
// in absolute cycles, while the past registers shift every counted cycle
// like the relative store does.
type edgeState struct {
	name      string
	roseTrace *hdl.Signal
	fellTrace *hdl.Signal
	rosePast  *hdl.Signal
	fellPast  *hdl.Signal
}

// Option configures a tracker at construction.
type Option func(*options)

type options struct {
	name string
}

// WithName gives the tracker an explicit module name instead of the
// generated default.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// New constructs a tracker keeping depth cycles of history, registers it
// with the given context and attaches it to the parent module.  The depth
// must be at least one.
func New(ctx *verify.Context, parent *hdl.Module, depth uint, opts ...Option) (*Tracker, error) {
	var o options
	//
	for _, opt := range opts {
		opt(&o)
	}
	//
	if ctx == nil {
		return nil, errors.New("nil verification context")
	} else if parent == nil {
		return nil, errors.New("nil parent module")
	} else if depth < 1 {
		return nil, errors.New("history depth must be at least 1")
	}
	//
	index, name := ctx.RegisterTracker(o.name, depth)
	//
	tracker := &Tracker{
		ctx:     ctx,
		name:    name,
		index:   index,
		depth:   depth,
		cycle:   hdl.NewSignal(ctx.UniqueName("cycle"), hdl.BitsFor(uint64(depth))),
		reached: hdl.NewSignal(ctx.UniqueName("cyclespassed"), depth),
		states:  make(map[*hdl.Signal]*signalState),
	}
	//
	parent.Attach(tracker)
	//
	return tracker, nil
}

// Name implementation for the hdl.Elaborable interface.
func (p *Tracker) Name() string {
	return p.name
}

// Depth returns the window size: how many cycles of history this tracker
// keeps.
func (p *Tracker) Depth() uint {
	return p.depth
}

// Tracked returns the tracked signals in registration order.
func (p *Tracker) Tracked() []*hdl.Signal {
	return p.signals
}

// Track registers a signal for history keeping, allocating its absolute,
// relative and edge stores.  Signals must be registered before elaboration,
// and each signal belongs to exactly one tracker.
func (p *Tracker) Track(signal *hdl.Signal) error {
	if signal == nil {
		return errors.New("tracking nil signal")
	} else if p.elaborated {
		return errors.Errorf("cannot track %q: %s already elaborated", signal.Name(), p.name)
	} else if _, ok := p.states[signal]; ok {
		return errors.Errorf("signal %q already tracked by %s", signal.Name(), p.name)
	}
	//
	if err := p.ctx.ClaimSignal(signal, p.name); err != nil {
		return err
	}
	//
	var (
		width  = signal.Width()
		prefix = p.ctx.UniqueName(fmt.Sprintf("trk%d_s_%s", p.index, signal.Name()))
		edges  = p.ctx.UniqueName(fmt.Sprintf("trk%d_rf_%s", p.index, signal.Name()))
		state  = &signalState{
			signal: signal,
			name:   prefix,
			past:   hdl.NewSignal(prefix+"_past", width*p.depth),
			edges: edgeState{
				name:      edges,
				roseTrace: hdl.NewSignal(edges+"_rosetrace", p.depth),
				fellTrace: hdl.NewSignal(edges+"_felltrace", p.depth),
				rosePast:  hdl.NewSignal(edges+"_rosepast", p.depth),
				fellPast:  hdl.NewSignal(edges+"_fellpast", p.depth),
			},
		}
	)
	//
	for t := uint(0); t < p.depth; t++ {
		state.history = append(state.history, hdl.NewSignal(fmt.Sprintf("%s_st%d", prefix, t), width))
	}
	//
	p.states[signal] = state
	p.signals = append(p.signals, signal)
	//
	return nil
}

// TrackAll registers several signals at once, stopping at the first
// rejection.
func (p *Tracker) TrackAll(signals ...*hdl.Signal) error {
	for _, signal := range signals {
		if err := p.Track(signal); err != nil {
			return err
		}
	}
	//
	return nil
}

// Cycle returns the tracker's cycle counter.  During the cycle following
// the t'th active edge the counter reads t, so equality against it addresses
// absolute positions.
func (p *Tracker) Cycle() hdl.Expr {
	return p.cycle
}

// Now returns the cycle counter, under the name verification code tends to
// read better in properties about "this very cycle".
func (p *Tracker) Now() hdl.Expr {
	return p.cycle
}

// Started is high from the first counted cycle onwards, i.e. once position
// zero of the absolute store has been recorded.
func (p *Tracker) Started() hdl.Expr {
	return hdl.NewBit(p.reached, 0)
}

// CyclePassed returns the latched bit recording whether absolute position t
// has been recorded yet.  Positions run from 0 to depth-1.
func (p *Tracker) CyclePassed(t uint) (hdl.Expr, error) {
	if err := p.queryable(); err != nil {
		return nil, err
	} else if t >= p.depth {
		return nil, errors.Errorf("position %d beyond history depth %d", t, p.depth)
	}
	//
	return hdl.NewBit(p.reached, t), nil
}

// ValueTrue normalises an expression to a single bit which is high exactly
// when the expression is non-zero.
func (p *Tracker) ValueTrue(expr hdl.Expr) hdl.Expr {
	return hdl.NewBool(expr)
}

// ValueFalse normalises an expression to a single bit which is high exactly
// when the expression is zero.
func (p *Tracker) ValueFalse(expr hdl.Expr) hdl.Expr {
	return hdl.NewNot(hdl.NewBool(expr))
}

// queryable rejects queries once elaboration has fixed which stores exist.
func (p *Tracker) queryable() error {
	if p.elaborated {
		return errors.Errorf("cannot query %s after elaboration", p.name)
	}
	//
	return nil
}

// query resolves a signal to its state, rejecting unregistered signals and
// post-elaboration queries.
func (p *Tracker) query(signal *hdl.Signal) (*signalState, error) {
	if err := p.queryable(); err != nil {
		return nil, err
	} else if signal == nil {
		return nil, errors.New("querying nil signal")
	}
	//
	if state, ok := p.states[signal]; ok {
		return state, nil
	}
	//
	return nil, errors.Errorf("signal %q is not tracked by %s", signal.Name(), p.name)
}

// fits rejects comparison values too wide for the signal they are compared
// against, since those could never match and would silently weaken a
// property.
func fits(signal *hdl.Signal, value uint64) error {
	if hdl.BitsFor(value) > signal.Width() {
		return errors.Errorf("value %d does not fit %d bit(s) of %q", value, signal.Width(), signal.Name())
	}
	//
	return nil
}

// pastSlice returns the relative store slice holding the sample stepsAgo
// cycles back, marking the store as used.  Bounds are the caller's problem.
func (p *signalState) pastSlice(stepsAgo uint) hdl.Expr {
	width := p.signal.Width()
	p.usingPast = true
	//
	return hdl.NewSlice(p.past, (stepsAgo-1)*width, stepsAgo*width)
}
