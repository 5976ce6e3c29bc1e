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

package history

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/psychogenic/amaranth-testbench/pkg/hdl"

	log "github.com/sirupsen/logrus"
)

// Elaborate implementation for the hdl.Elaborable interface.  This emits the
// tracker's update logic: the capacity assumption, the cycle counter with
// its reached bitmap, and per tracked signal the absolute store latches plus
// whichever relative and edge accumulators its queries touched.  Statement
// order matters here, since the defensive resets rely on later per-cycle
// updates overriding them.
func (p *Tracker) Elaborate() (*hdl.Module, error) {
	if p.elaborated {
		return nil, errors.Errorf("tracker %s elaborated twice", p.name)
	}
	//
	p.elaborated = true
	//
	m := hdl.NewModule(p.name)
	//
	log.Debugf("elaborating %s: depth %d, %d signal(s), analysis bound %d",
		p.name, p.depth, len(p.signals), p.ctx.MinWindow())
	//
	p.emitCapacity(m)
	p.emitCounter(m)
	//
	for _, signal := range p.signals {
		p.emitSignal(m, p.states[signal])
	}
	//
	if p.ctx.DepthProbeEnabled() {
		// Unsatisfiable on purpose: the deepest reported failure shows how
		// far the analysis reached.
		m.Assert(p.name+"_depth_probe", nil, hdl.NewConst(0, 1))
	}
	//
	return m, nil
}

// emitCapacity constrains the analysed space to cycles every tracker of the
// context can still answer for.  The bound is the smallest window over all
// trackers: beyond it, some tracker's stores have already dropped samples.
func (p *Tracker) emitCapacity(m *hdl.Module) {
	bound := p.ctx.MinWindow()
	//
	m.Assume(p.name+"_capacity", nil,
		hdl.NewLt(p.cycle, hdl.NewConst(uint64(bound), hdl.BitsFor(uint64(bound)))))
}

// emitCounter drives the cycle counter and the reached bitmap.  On the very
// first edge the counter jumps to one and position zero is latched; from
// then on it increments.  Positions latch on the edge ending their cycle,
// making position t readable from cycle t+1 onwards.
func (p *Tracker) emitCounter(m *hdl.Module) {
	one := hdl.NewConst(1, 1)
	//
	m.Sync(hdl.NewWhen(p.Started(),
		hdl.NewAssign(p.cycle, hdl.NewAdd(p.cycle, one)),
	).Otherwise(
		hdl.NewAssign(p.cycle, one),
		hdl.NewAssign(p.reached, hdl.NewOr(p.reached, one)),
	))
	//
	for t := uint(0); t < p.depth; t++ {
		m.Sync(hdl.NewWhen(p.atCycle(t),
			hdl.NewAssign(p.reached, hdl.NewOr(p.reached, p.positionMask(t)))))
	}
}

// emitSignal latches the absolute store of one tracked signal, along with
// the relative and edge accumulators if queried.  The defensive resets come
// first: while the counter has not started, every accumulator is held at
// zero, and last-write-wins lets the cycle-zero sample through regardless.
func (p *Tracker) emitSignal(m *hdl.Module, state *signalState) {
	var (
		width  = state.signal.Width()
		zero   = hdl.NewConst(0, 1)
		resets []hdl.Stmt
	)
	//
	if state.usingPast {
		resets = append(resets, hdl.NewAssign(state.past, zero))
	}
	//
	if state.usingEdges {
		resets = append(resets,
			hdl.NewAssign(state.edges.roseTrace, zero),
			hdl.NewAssign(state.edges.fellTrace, zero),
			hdl.NewAssign(state.edges.rosePast, zero),
			hdl.NewAssign(state.edges.fellPast, zero))
	}
	//
	if len(resets) > 0 {
		m.Sync(hdl.NewWhen(hdl.NewNot(p.Started()), resets...))
	}
	//
	for t := uint(0); t < p.depth; t++ {
		stmts := []hdl.Stmt{hdl.NewAssign(state.history[t], state.signal)}
		//
		if state.usingPast {
			// Commit truncation to the store width drops the oldest sample.
			stmts = append(stmts, hdl.NewAssign(state.past,
				hdl.NewOr(hdl.NewShl(state.past, width), state.signal)))
		}
		//
		if state.usingEdges && t >= 1 {
			stmts = append(stmts, p.emitEdges(state, t))
		}
		//
		m.Sync(hdl.NewWhen(p.atCycle(t), stmts...))
	}
}

// emitEdges compares the live signal against its previous sample on cycle
// t, recording any edge into the trace register and shifting the event (or
// its absence) into the accumulators.  Rise and fall are mutually exclusive
// on the boolean interpretation, so exactly one accumulator can receive a
// one on any given edge.
func (p *Tracker) emitEdges(state *signalState, t uint) hdl.Stmt {
	var (
		e    = state.edges
		one  = hdl.NewConst(1, 1)
		cur  = hdl.NewBool(state.signal)
		prev = hdl.NewBool(state.history[t-1])
	)
	//
	return hdl.NewWhen(cur,
		hdl.NewAssign(e.fellPast, hdl.NewShl(e.fellPast, 1)),
		hdl.NewWhen(hdl.NewNot(prev),
			hdl.NewAssign(e.roseTrace, hdl.NewOr(e.roseTrace, p.positionMask(t))),
			hdl.NewAssign(e.rosePast, hdl.NewOr(hdl.NewShl(e.rosePast, 1), one)),
		).Otherwise(
			hdl.NewAssign(e.rosePast, hdl.NewShl(e.rosePast, 1)),
		),
	).Otherwise(
		hdl.NewAssign(e.rosePast, hdl.NewShl(e.rosePast, 1)),
		hdl.NewWhen(prev,
			hdl.NewAssign(e.fellTrace, hdl.NewOr(e.fellTrace, p.positionMask(t))),
			hdl.NewAssign(e.fellPast, hdl.NewOr(hdl.NewShl(e.fellPast, 1), one)),
		).Otherwise(
			hdl.NewAssign(e.fellPast, hdl.NewShl(e.fellPast, 1)),
		),
	)
}

// atCycle holds during cycle t, i.e. addresses absolute position t.
func (p *Tracker) atCycle(t uint) hdl.Expr {
	return hdl.NewEq(p.cycle, hdl.NewConst(uint64(t), hdl.BitsFor(uint64(t))))
}

// positionMask is the single-bit mask selecting position t of a bitmap.
func (p *Tracker) positionMask(t uint) hdl.Expr {
	return hdl.NewConstBig(new(big.Int).Lsh(big.NewInt(1), t), t+1)
}
