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

package sim

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/psychogenic/amaranth-testbench/pkg/hdl"
)

var zero = big.NewInt(0)

// Simulator executes a design one clock cycle at a time.  Between steps, the
// testbench pokes free inputs and peeks arbitrary expressions; both observe
// the state of the current cycle (i.e. pre-edge values).  Stepping records
// the current state into the trace, evaluates every enabled assignment
// against that same state and then commits all updates at once, which makes
// register exchange (a reads b while b reads a) behave as real flip-flops
// would.  All registers reset to zero.
type Simulator struct {
	design *Design
	values map[*hdl.Signal]*big.Int
	cycle  uint
	trace  *Trace
}

// New constructs a simulator for the given design, positioned at cycle zero
// with every signal reading zero.
func New(design *Design) *Simulator {
	return &Simulator{
		design: design,
		values: make(map[*hdl.Signal]*big.Int),
		trace:  NewTrace(design.Signals()),
	}
}

// Design returns the design under execution.
func (p *Simulator) Design() *Design {
	return p.design
}

// Cycle returns the current cycle number, i.e. how many clock edges have
// occurred so far.
func (p *Simulator) Cycle() uint {
	return p.cycle
}

// Trace returns the execution trace recorded so far, one row per completed
// cycle.
func (p *Simulator) Trace() *Trace {
	return p.trace
}

// ValueOf implementation for the hdl.Env interface.  Unassigned signals read
// zero.
func (p *Simulator) ValueOf(signal *hdl.Signal) *big.Int {
	if val, ok := p.values[signal]; ok {
		return val
	}
	//
	return zero
}

// Poke drives a free input of the design for the current cycle (and
// subsequent ones, until poked again).  Registers cannot be poked, since the
// design owns them; nor can signals the design never mentions, as poking
// those indicates a testbench bug.
func (p *Simulator) Poke(signal *hdl.Signal, value uint64) error {
	return p.PokeBig(signal, new(big.Int).SetUint64(value))
}

// PokeBig drives a free input with an arbitrary precision value, subject to
// the same rules as Poke.
func (p *Simulator) PokeBig(signal *hdl.Signal, value *big.Int) error {
	if signal == nil {
		return errors.New("poking nil signal")
	} else if !p.design.seen[signal] {
		return errors.Errorf("signal %q is not part of the design", signal.Name())
	} else if p.design.IsRegister(signal) {
		return errors.Errorf("cannot poke register %q", signal.Name())
	} else if value.Sign() < 0 {
		return errors.Errorf("cannot poke %q with negative value %s", signal.Name(), value)
	} else if uint(value.BitLen()) > signal.Width() {
		return errors.Errorf("value %s does not fit %d bit(s) of %q", value, signal.Width(), signal.Name())
	}
	//
	p.values[signal] = new(big.Int).Set(value)
	//
	return nil
}

// Peek evaluates an expression against the current cycle's state, returning
// a fresh value the caller may keep.
func (p *Simulator) Peek(expr hdl.Expr) *big.Int {
	return new(big.Int).Set(expr.EvalAt(p))
}

// PeekBit evaluates an expression against the current cycle's state,
// reporting whether it is non-zero.
func (p *Simulator) PeekBit(expr hdl.Expr) bool {
	return expr.EvalAt(p).Sign() != 0
}

// Step advances the design by one clock edge: the current state is recorded
// into the trace, every enabled assignment is evaluated against it, and the
// results are committed together, truncated to their register widths.
func (p *Simulator) Step() {
	p.trace.record(p)
	// Evaluate everything against pre-edge state.
	updates := make(map[*hdl.Signal]*big.Int)
	p.exec(p.design.Clocked(), updates)
	// Commit atomically.
	for signal, value := range updates {
		p.values[signal] = value.And(value, hdl.Mask(signal.Width()))
	}
	//
	p.cycle++
}

// exec walks the statement list in order, accumulating pending register
// updates.  Overwriting an existing entry is exactly how last-write-wins
// arises.
func (p *Simulator) exec(stmts []hdl.Stmt, updates map[*hdl.Signal]*big.Int) {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *hdl.Assign:
			updates[s.Dst] = new(big.Int).Set(s.Src.EvalAt(p))
		case *hdl.When:
			if s.Cond.EvalAt(p).Sign() != 0 {
				p.exec(s.Then, updates)
			} else {
				p.exec(s.Else, updates)
			}
		default:
			// Compile rejected anything else
			panic("unreachable")
		}
	}
}
