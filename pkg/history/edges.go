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
	"github.com/pkg/errors"

	"github.com/psychogenic/amaranth-testbench/pkg/hdl"
)

// Edge queries interpret a signal through its single-bit normalisation: a
// rise is "was zero one sample back, non-zero now", a fall the converse, so
// a multi-bit signal moving between two non-zero values produces no edge at
// all.  Edges are attributed to the cycle on which the new value is first
// visible, and never to cycle zero, which has no predecessor inside the
// window.

// Rose reports whether the signal rose stepsAgo cycles back, with zero
// meaning the current cycle.  The current-cycle form compares the live
// signal against its previous sample and is gated on the tracker having
// started; earlier offsets read the recorded rise accumulator.
func (p *Tracker) Rose(signal *hdl.Signal, stepsAgo uint) (hdl.Expr, error) {
	if stepsAgo > 0 {
		return p.PastRose(signal, stepsAgo)
	}
	//
	state, err := p.query(signal)
	//
	if err != nil {
		return nil, err
	}
	//
	return p.roseNow(state), nil
}

// Fell reports whether the signal fell stepsAgo cycles back, with zero
// meaning the current cycle.  Unlike Rose, the current-cycle form carries no
// started gate: before the first sample commits, the defensively-zeroed
// relative store makes it false anyway.
func (p *Tracker) Fell(signal *hdl.Signal, stepsAgo uint) (hdl.Expr, error) {
	if stepsAgo > 0 {
		return p.PastFell(signal, stepsAgo)
	}
	//
	state, err := p.query(signal)
	//
	if err != nil {
		return nil, err
	}
	//
	return p.fellNow(state), nil
}

// PastRose reports whether the signal rose exactly stepsAgo cycles back,
// read from the rise accumulator.  Offsets run from 1 to the tracker depth.
func (p *Tracker) PastRose(signal *hdl.Signal, stepsAgo uint) (hdl.Expr, error) {
	state, err := p.edgeOffset(signal, stepsAgo)
	//
	if err != nil {
		return nil, err
	}
	//
	return hdl.NewBit(state.edges.rosePast, stepsAgo-1), nil
}

// PastFell reports whether the signal fell exactly stepsAgo cycles back,
// read from the fall accumulator.  Offsets run from 1 to the tracker depth.
func (p *Tracker) PastFell(signal *hdl.Signal, stepsAgo uint) (hdl.Expr, error) {
	state, err := p.edgeOffset(signal, stepsAgo)
	//
	if err != nil {
		return nil, err
	}
	//
	return hdl.NewBit(state.edges.fellPast, stepsAgo-1), nil
}

// RoseWithin reports whether the signal rose on the current cycle or any of
// the window-1 preceding ones.
func (p *Tracker) RoseWithin(signal *hdl.Signal, window uint) (hdl.Expr, error) {
	state, err := p.edgeWindow(signal, window)
	//
	if err != nil {
		return nil, err
	}
	//
	if window == 1 {
		return p.roseNow(state), nil
	}
	//
	return hdl.NewOr(p.roseNow(state), hdl.NewBool(hdl.NewSlice(state.edges.rosePast, 0, window-1))), nil
}

// FellWithin reports whether the signal fell on the current cycle or any of
// the window-1 preceding ones.
func (p *Tracker) FellWithin(signal *hdl.Signal, window uint) (hdl.Expr, error) {
	state, err := p.edgeWindow(signal, window)
	//
	if err != nil {
		return nil, err
	}
	//
	if window == 1 {
		return p.fellNow(state), nil
	}
	//
	return hdl.NewOr(p.fellNow(state), hdl.NewBool(hdl.NewSlice(state.edges.fellPast, 0, window-1))), nil
}

// RoseOnCycle reports whether the signal rose on absolute cycle t, read
// from the rise trace.  Positions run from 0 to depth-1, though position
// zero can never record an edge.
func (p *Tracker) RoseOnCycle(signal *hdl.Signal, t uint) (hdl.Expr, error) {
	state, err := p.edgePosition(signal, t)
	//
	if err != nil {
		return nil, err
	}
	//
	return hdl.NewBit(state.edges.roseTrace, t), nil
}

// FellOnCycle reports whether the signal fell on absolute cycle t, read
// from the fall trace.
func (p *Tracker) FellOnCycle(signal *hdl.Signal, t uint) (hdl.Expr, error) {
	state, err := p.edgePosition(signal, t)
	//
	if err != nil {
		return nil, err
	}
	//
	return hdl.NewBit(state.edges.fellTrace, t), nil
}

// Changed reports whether the signal's value differed between samples
// stepsAgo and stepsAgo+1 cycles back, with zero comparing the live signal
// against its previous sample.  This is a value comparison, not an edge
// one, so any movement counts.
func (p *Tracker) Changed(signal *hdl.Signal, stepsAgo uint) (hdl.Expr, error) {
	state, err := p.query(signal)
	//
	if err != nil {
		return nil, err
	} else if stepsAgo+1 > p.depth {
		return nil, errors.Errorf("change at offset %d needs %d cycle(s) of history, depth is %d",
			stepsAgo, stepsAgo+1, p.depth)
	}
	//
	if stepsAgo == 0 {
		return hdl.NewNe(state.signal, state.pastSlice(1)), nil
	}
	//
	return hdl.NewNe(state.pastSlice(stepsAgo), state.pastSlice(stepsAgo+1)), nil
}

// Stable reports whether the signal's value held steady between samples
// stepsAgo and stepsAgo+1 cycles back, with zero comparing the live signal
// against its previous sample.
func (p *Tracker) Stable(signal *hdl.Signal, stepsAgo uint) (hdl.Expr, error) {
	changed, err := p.Changed(signal, stepsAgo)
	//
	if err != nil {
		return nil, err
	}
	//
	return hdl.NewNot(changed), nil
}

// roseNow builds the combinational "rising this very cycle" expression.
func (p *Tracker) roseNow(state *signalState) hdl.Expr {
	state.usingEdges = true
	//
	return hdl.NewAnd(
		p.Started(),
		hdl.NewNot(hdl.NewBool(state.pastSlice(1))),
		hdl.NewBool(state.signal))
}

// fellNow builds the combinational "falling this very cycle" expression.
func (p *Tracker) fellNow(state *signalState) hdl.Expr {
	state.usingEdges = true
	//
	return hdl.NewAnd(
		hdl.NewBool(state.pastSlice(1)),
		hdl.NewNot(hdl.NewBool(state.signal)))
}

func (p *Tracker) edgeOffset(signal *hdl.Signal, stepsAgo uint) (*signalState, error) {
	state, err := p.query(signal)
	//
	if err != nil {
		return nil, err
	} else if stepsAgo < 1 {
		return nil, errors.New("edge offset must be at least 1")
	} else if stepsAgo > p.depth {
		return nil, errors.Errorf("edge offset %d exceeds history depth %d", stepsAgo, p.depth)
	}
	//
	state.usingEdges = true
	//
	return state, nil
}

func (p *Tracker) edgeWindow(signal *hdl.Signal, window uint) (*signalState, error) {
	state, err := p.query(signal)
	//
	if err != nil {
		return nil, err
	} else if window < 1 {
		return nil, errors.New("edge window must be at least 1")
	} else if window > p.depth {
		return nil, errors.Errorf("edge window %d exceeds history depth %d", window, p.depth)
	}
	//
	state.usingEdges = true
	//
	return state, nil
}

func (p *Tracker) edgePosition(signal *hdl.Signal, t uint) (*signalState, error) {
	state, err := p.query(signal)
	//
	if err != nil {
		return nil, err
	} else if t >= p.depth {
		return nil, errors.Errorf("position %d beyond history depth %d", t, p.depth)
	}
	//
	state.usingEdges = true
	//
	return state, nil
}
