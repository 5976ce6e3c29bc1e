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
	"strings"
)

// And represents the bitwise conjunction of one or more expressions, with
// narrower arguments zero extended to the widest.
type And struct {
	// Args are the conjoined expressions.
	Args []Expr
}

// NewAnd constructs the bitwise conjunction of the given expressions,
// panicking if none are provided.  Queries which could legitimately produce
// an empty conjunction must reject that case before getting here.
func NewAnd(args ...Expr) *And {
	if len(args) == 0 {
		panic("empty conjunction")
	}
	//
	return &And{args}
}

// Width implementation for the Expr interface.
func (p *And) Width() uint {
	return maxWidth(p.Args)
}

// EvalAt implementation for the Expr interface.
func (p *And) EvalAt(env Env) *big.Int {
	val := new(big.Int).Set(p.Args[0].EvalAt(env))
	//
	for _, arg := range p.Args[1:] {
		val.And(val, arg.EvalAt(env))
	}
	//
	return val
}

// VisitSignals implementation for the Expr interface.
func (p *And) VisitSignals(fn func(*Signal)) {
	for _, arg := range p.Args {
		arg.VisitSignals(fn)
	}
}

func (p *And) String() string {
	return naryString("and", p.Args)
}

// Or represents the bitwise disjunction of one or more expressions, with
// narrower arguments zero extended to the widest.
type Or struct {
	// Args are the disjoined expressions.
	Args []Expr
}

// NewOr constructs the bitwise disjunction of the given expressions,
// panicking if none are provided.
func NewOr(args ...Expr) *Or {
	if len(args) == 0 {
		panic("empty disjunction")
	}
	//
	return &Or{args}
}

// Width implementation for the Expr interface.
func (p *Or) Width() uint {
	return maxWidth(p.Args)
}

// EvalAt implementation for the Expr interface.
func (p *Or) EvalAt(env Env) *big.Int {
	val := new(big.Int).Set(p.Args[0].EvalAt(env))
	//
	for _, arg := range p.Args[1:] {
		val.Or(val, arg.EvalAt(env))
	}
	//
	return val
}

// VisitSignals implementation for the Expr interface.
func (p *Or) VisitSignals(fn func(*Signal)) {
	for _, arg := range p.Args {
		arg.VisitSignals(fn)
	}
}

func (p *Or) String() string {
	return naryString("or", p.Args)
}

// Not represents the bitwise complement of its argument within the
// argument's own width.
type Not struct {
	// Arg is the complemented expression.
	Arg Expr
}

// NewNot constructs the bitwise complement of the given expression.
func NewNot(arg Expr) *Not {
	return &Not{arg}
}

// Width implementation for the Expr interface.
func (p *Not) Width() uint {
	return p.Arg.Width()
}

// EvalAt implementation for the Expr interface.
func (p *Not) EvalAt(env Env) *big.Int {
	return new(big.Int).Xor(p.Arg.EvalAt(env), Mask(p.Arg.Width()))
}

// VisitSignals implementation for the Expr interface.
func (p *Not) VisitSignals(fn func(*Signal)) {
	p.Arg.VisitSignals(fn)
}

func (p *Not) String() string {
	return fmt.Sprintf("(not %s)", p.Arg)
}

// Bool normalises its argument to a single bit which is high exactly when
// the argument is non-zero.  Edge detection over multi-bit signals reduces
// them through this term before comparing against their previous sample.
type Bool struct {
	// Arg is the normalised expression.
	Arg Expr
}

// NewBool constructs the single-bit normalisation of the given expression.
func NewBool(arg Expr) *Bool {
	return &Bool{arg}
}

// Width implementation for the Expr interface.
func (p *Bool) Width() uint {
	return 1
}

// EvalAt implementation for the Expr interface.
func (p *Bool) EvalAt(env Env) *big.Int {
	if p.Arg.EvalAt(env).Sign() != 0 {
		return big.NewInt(1)
	}
	//
	return big.NewInt(0)
}

// VisitSignals implementation for the Expr interface.
func (p *Bool) VisitSignals(fn func(*Signal)) {
	p.Arg.VisitSignals(fn)
}

func (p *Bool) String() string {
	return fmt.Sprintf("(bool %s)", p.Arg)
}

func maxWidth(args []Expr) uint {
	width := uint(0)
	//
	for _, arg := range args {
		if w := arg.Width(); w > width {
			width = w
		}
	}
	//
	return width
}

func naryString(op string, args []Expr) string {
	var builder strings.Builder
	//
	builder.WriteString("(")
	builder.WriteString(op)
	//
	for _, arg := range args {
		builder.WriteString(" ")
		builder.WriteString(arg.String())
	}
	//
	builder.WriteString(")")
	//
	return builder.String()
}
