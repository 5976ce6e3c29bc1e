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
	"strings"
)

// Stmt represents a clocked statement.  All statements of a design execute
// conceptually in parallel on each active clock edge, with every right-hand
// side and condition evaluated against pre-edge state.  When several enabled
// assignments target the same register within one edge, the one appearing
// last in statement order wins; the history engine leans on this to let
// per-cycle updates override its defensive resets.
type Stmt interface {
	// VisitSignals invokes the given callback once for every signal this
	// statement reads or writes (including duplicates).
	VisitSignals(fn func(*Signal))
	// String returns an s-expression style rendering of this statement.
	String() string
}

// Assign represents the clocked assignment of an expression to a register.
// On commit, the evaluated source is truncated to the register width (when
// wider) or zero extended (when narrower).
type Assign struct {
	// Dst is the register assigned to.
	Dst *Signal
	// Src is the assigned expression.
	Src Expr
}

// NewAssign constructs a clocked assignment of the given expression to the
// given register.
func NewAssign(dst *Signal, src Expr) *Assign {
	if dst == nil {
		panic("assignment to nil signal")
	} else if src == nil {
		panic("assignment of nil expression")
	}
	//
	return &Assign{dst, src}
}

// VisitSignals implementation for the Stmt interface.
func (p *Assign) VisitSignals(fn func(*Signal)) {
	fn(p.Dst)
	p.Src.VisitSignals(fn)
}

func (p *Assign) String() string {
	return fmt.Sprintf("(:= %s %s)", p.Dst, p.Src)
}

// When represents a guarded group of clocked statements.  The condition is
// evaluated against pre-edge state like every other expression; exactly one
// of the two branches executes on each edge.
type When struct {
	// Cond guards the two branches.
	Cond Expr
	// Then executes on edges where the condition is non-zero.
	Then []Stmt
	// Else executes on the remaining edges.
	Else []Stmt
}

// NewWhen constructs a guarded group executing the given statements on edges
// where the condition holds, and nothing otherwise.
func NewWhen(cond Expr, then ...Stmt) *When {
	if cond == nil {
		panic("guard with nil condition")
	}
	//
	return &When{cond, then, nil}
}

// Otherwise sets the else branch of this guarded group, returning the group
// for chaining.
func (p *When) Otherwise(stmts ...Stmt) *When {
	p.Else = stmts
	//
	return p
}

// VisitSignals implementation for the Stmt interface.
func (p *When) VisitSignals(fn func(*Signal)) {
	p.Cond.VisitSignals(fn)
	//
	for _, stmt := range p.Then {
		stmt.VisitSignals(fn)
	}
	//
	for _, stmt := range p.Else {
		stmt.VisitSignals(fn)
	}
}

func (p *When) String() string {
	var builder strings.Builder
	//
	builder.WriteString(fmt.Sprintf("(when %s (", p.Cond))
	//
	for i, stmt := range p.Then {
		if i != 0 {
			builder.WriteString(" ")
		}
		//
		builder.WriteString(stmt.String())
	}
	//
	builder.WriteString(")")
	//
	if len(p.Else) > 0 {
		builder.WriteString(" (")
		//
		for i, stmt := range p.Else {
			if i != 0 {
				builder.WriteString(" ")
			}
			//
			builder.WriteString(stmt.String())
		}
		//
		builder.WriteString(")")
	}
	//
	builder.WriteString(")")
	//
	return builder.String()
}
