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

package hdl

import (
	"fmt"
	"math/big"
)

// Add represents the unsigned sum of two expressions.  The result is one bit
// wider than the widest operand, so addition itself never overflows; any
// truncation happens when the result is committed to a narrower register.
type Add struct {
	// Lhs is the left-hand operand.
	Lhs Expr
	// Rhs is the right-hand operand.
	Rhs Expr
}

// NewAdd constructs the sum lhs + rhs.
func NewAdd(lhs Expr, rhs Expr) *Add {
	return &Add{lhs, rhs}
}

// Width implementation for the Expr interface.
func (p *Add) Width() uint {
	width := p.Lhs.Width()
	//
	if w := p.Rhs.Width(); w > width {
		width = w
	}
	//
	return width + 1
}

// EvalAt implementation for the Expr interface.
func (p *Add) EvalAt(env Env) *big.Int {
	return new(big.Int).Add(p.Lhs.EvalAt(env), p.Rhs.EvalAt(env))
}

// VisitSignals implementation for the Expr interface.
func (p *Add) VisitSignals(fn func(*Signal)) {
	p.Lhs.VisitSignals(fn)
	p.Rhs.VisitSignals(fn)
}

func (p *Add) String() string {
	return fmt.Sprintf("(add %s %s)", p.Lhs, p.Rhs)
}

// Shl represents a left shift by a fixed amount.  The result retains every
// bit of the argument, being widened by the shift amount; committing it back
// to a register of the argument's own width is what discards the oldest bits
// of a shift accumulator.
type Shl struct {
	// Arg is the shifted expression.
	Arg Expr
	// Shift is the (fixed) shift amount.
	Shift uint
}

// NewShl constructs the left shift arg << shift.
func NewShl(arg Expr, shift uint) *Shl {
	return &Shl{arg, shift}
}

// Width implementation for the Expr interface.
func (p *Shl) Width() uint {
	return p.Arg.Width() + p.Shift
}

// EvalAt implementation for the Expr interface.
func (p *Shl) EvalAt(env Env) *big.Int {
	return new(big.Int).Lsh(p.Arg.EvalAt(env), p.Shift)
}

// VisitSignals implementation for the Expr interface.
func (p *Shl) VisitSignals(fn func(*Signal)) {
	p.Arg.VisitSignals(fn)
}

func (p *Shl) String() string {
	return fmt.Sprintf("(shl %s %d)", p.Arg, p.Shift)
}
