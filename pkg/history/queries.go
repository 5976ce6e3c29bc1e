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
)

// Past returns the value the signal carried stepsAgo cycles before the
// current one, read from the relative store.  Offsets run from 1 (the
// previous cycle) to the tracker depth; the result is only meaningful once
// the counter has reached stepsAgo.
func (p *Tracker) Past(signal *hdl.Signal, stepsAgo uint) (hdl.Expr, error) {
	state, err := p.query(signal)
	//
	if err != nil {
		return nil, err
	} else if stepsAgo < 1 {
		return nil, errors.New("past offset must be at least 1")
	} else if stepsAgo > p.depth {
		return nil, errors.Errorf("past offset %d exceeds history depth %d", stepsAgo, p.depth)
	}
	//
	return state.pastSlice(stepsAgo), nil
}

// PastTrue reports whether the signal was non-zero stepsAgo cycles back.
func (p *Tracker) PastTrue(signal *hdl.Signal, stepsAgo uint) (hdl.Expr, error) {
	past, err := p.Past(signal, stepsAgo)
	//
	if err != nil {
		return nil, err
	}
	//
	return hdl.NewBool(past), nil
}

// PastFalse reports whether the signal was zero stepsAgo cycles back.
func (p *Tracker) PastFalse(signal *hdl.Signal, stepsAgo uint) (hdl.Expr, error) {
	past, err := p.Past(signal, stepsAgo)
	//
	if err != nil {
		return nil, err
	}
	//
	return hdl.NewNot(hdl.NewBool(past)), nil
}

// PastSequence returns the raw relative store covering the last span
// samples, newest in the low bits.  This is mostly useful for comparing
// several steps at once; prefer Past for individual samples.
func (p *Tracker) PastSequence(signal *hdl.Signal, span uint) (hdl.Expr, error) {
	state, err := p.query(signal)
	//
	if err != nil {
		return nil, err
	} else if span < 1 {
		return nil, errors.New("past sequence span must be at least 1")
	} else if span > p.depth {
		return nil, errors.Errorf("past sequence span %d exceeds history depth %d", span, p.depth)
	}
	//
	state.usingPast = true
	//
	return hdl.NewSlice(state.past, 0, span*signal.Width()), nil
}

// PastSequenceWas reports whether the last len(values) samples of the signal
// were exactly the given values, earliest first (so the final value is what
// the signal carried one cycle ago).  The comparison spans one sample more
// than the sequence itself, which also pins the sample just before the
// window to zero; sequences must therefore be shorter than the tracker
// depth.  The result is gated on the counter having seen enough cycles.
func (p *Tracker) PastSequenceWas(signal *hdl.Signal, values []uint64) (hdl.Expr, error) {
	state, err := p.query(signal)
	//
	if err != nil {
		return nil, err
	} else if len(values) == 0 {
		return nil, errors.New("empty sequence")
	}
	//
	var (
		count = uint(len(values))
		span  = count + 1
		width = signal.Width()
	)
	//
	if span > p.depth {
		return nil, errors.Errorf("sequence of %d value(s) exceeds history depth %d", count, p.depth)
	}
	//
	for _, value := range values {
		if err := fits(signal, value); err != nil {
			return nil, err
		}
	}
	// Pack latest-first: the final value is the most recent sample, hence
	// lives in the low bits of the accumulator.
	packed := new(big.Int)
	//
	for i := range values {
		var sample big.Int
		//
		sample.SetUint64(values[count-1-uint(i)])
		packed.Or(packed, sample.Lsh(&sample, uint(i)*width))
	}
	//
	state.usingPast = true
	//
	var (
		window = hdl.NewSlice(state.past, 0, span*width)
		match  = hdl.NewEq(window, hdl.NewConstBig(packed, span*width))
		seen   = hdl.NewGe(p.cycle, hdl.NewConst(uint64(count), hdl.BitsFor(uint64(count))))
	)
	//
	return hdl.NewAnd(seen, match), nil
}

// WasConstant reports whether the signal held the given value on every one
// of the last count cycles.
func (p *Tracker) WasConstant(signal *hdl.Signal, value uint64, count uint) (hdl.Expr, error) {
	if count < 1 {
		return nil, errors.New("constant run must cover at least 1 cycle")
	}
	//
	values := make([]uint64, count)
	//
	for i := range values {
		values[i] = value
	}
	//
	return p.PastSequenceWas(signal, values)
}

// WasEver reports whether the signal held the given value at some point
// within the last window cycles, excluding the current one: offsets 1 to
// window-1 are examined.  Windows below 2 would examine nothing and are
// rejected as misuse.
func (p *Tracker) WasEver(signal *hdl.Signal, value uint64, window uint) (hdl.Expr, error) {
	state, err := p.query(signal)
	//
	if err != nil {
		return nil, err
	} else if window < 2 {
		return nil, errors.Errorf("window %d examines no past cycle", window)
	} else if window > p.depth {
		return nil, errors.Errorf("window %d exceeds history depth %d", window, p.depth)
	}
	//
	if err := fits(signal, value); err != nil {
		return nil, err
	}
	//
	var disjuncts []hdl.Expr
	//
	for i := uint(1); i < window; i++ {
		disjuncts = append(disjuncts, hdl.NewEq(state.pastSlice(i), hdl.NewConst(value, signal.Width())))
	}
	//
	return hdl.NewOr(disjuncts...), nil
}

// WasNever reports whether the signal avoided the given value throughout
// the last window cycles, excluding the current one.
func (p *Tracker) WasNever(signal *hdl.Signal, value uint64, window uint) (hdl.Expr, error) {
	ever, err := p.WasEver(signal, value, window)
	//
	if err != nil {
		return nil, err
	}
	//
	return hdl.NewNot(ever), nil
}

// ValueAt returns the value the signal carried on absolute cycle t, read
// from the absolute store.  Positions run from 0 to depth-1; the result is
// only meaningful once CyclePassed(t) holds.
func (p *Tracker) ValueAt(signal *hdl.Signal, t uint) (hdl.Expr, error) {
	state, err := p.query(signal)
	//
	if err != nil {
		return nil, err
	} else if t >= p.depth {
		return nil, errors.Errorf("position %d beyond history depth %d", t, p.depth)
	}
	//
	return state.history[t], nil
}

// Sequence concatenates the absolute store over positions [start,
// start+count), earliest position in the low bits.
func (p *Tracker) Sequence(signal *hdl.Signal, start uint, count uint) (hdl.Expr, error) {
	state, err := p.query(signal)
	//
	if err != nil {
		return nil, err
	} else if count < 1 {
		return nil, errors.New("sequence must cover at least 1 position")
	} else if start+count > p.depth {
		return nil, errors.Errorf("positions [%d, %d) beyond history depth %d", start, start+count, p.depth)
	}
	//
	positions := make([]hdl.Expr, count)
	//
	for i := uint(0); i < count; i++ {
		positions[i] = state.history[start+i]
	}
	//
	return hdl.NewCat(positions...), nil
}

// IsEver reports whether the signal held the given value on some absolute
// position within [start, start+count).
func (p *Tracker) IsEver(signal *hdl.Signal, value uint64, start uint, count uint) (hdl.Expr, error) {
	state, err := p.query(signal)
	//
	if err != nil {
		return nil, err
	} else if count < 1 {
		return nil, errors.New("range must cover at least 1 position")
	} else if start+count > p.depth {
		return nil, errors.Errorf("positions [%d, %d) beyond history depth %d", start, start+count, p.depth)
	}
	//
	if err := fits(signal, value); err != nil {
		return nil, err
	}
	//
	var disjuncts []hdl.Expr
	//
	for t := start; t < start+count; t++ {
		disjuncts = append(disjuncts, hdl.NewEq(state.history[t], hdl.NewConst(value, signal.Width())))
	}
	//
	return hdl.NewOr(disjuncts...), nil
}

// IsNever reports whether the signal avoided the given value on every
// absolute position within [start, start+count).
func (p *Tracker) IsNever(signal *hdl.Signal, value uint64, start uint, count uint) (hdl.Expr, error) {
	ever, err := p.IsEver(signal, value, start, count)
	//
	if err != nil {
		return nil, err
	}
	//
	return hdl.NewNot(ever), nil
}

// FollowsSequence reports whether the signal carried exactly the given
// values on consecutive absolute positions beginning at start.
func (p *Tracker) FollowsSequence(signal *hdl.Signal, values []uint64, start uint) (hdl.Expr, error) {
	state, err := p.query(signal)
	//
	if err != nil {
		return nil, err
	} else if len(values) == 0 {
		return nil, errors.New("empty sequence")
	}
	//
	count := uint(len(values))
	//
	if start+count > p.depth {
		return nil, errors.Errorf("positions [%d, %d) beyond history depth %d", start, start+count, p.depth)
	}
	//
	conjuncts := make([]hdl.Expr, count)
	//
	for i, value := range values {
		if err := fits(signal, value); err != nil {
			return nil, err
		}
		//
		conjuncts[i] = hdl.NewEq(state.history[start+uint(i)], hdl.NewConst(value, signal.Width()))
	}
	//
	return hdl.NewAnd(conjuncts...), nil
}

// IsConstant reports whether the signal held the given value on every
// absolute position within [start, start+count).
func (p *Tracker) IsConstant(signal *hdl.Signal, value uint64, start uint, count uint) (hdl.Expr, error) {
	if count < 1 {
		return nil, errors.New("constant run must cover at least 1 position")
	}
	//
	values := make([]uint64, count)
	//
	for i := range values {
		values[i] = value
	}
	//
	return p.FollowsSequence(signal, values, start)
}
