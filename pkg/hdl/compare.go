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

// CmpKind identifies which relation a comparison term applies.
type CmpKind uint8

const (
	// EQ is the equality relation.
	EQ CmpKind = iota
	// NEQ is the inequality relation.
	NEQ
	// LT is the (unsigned) strictly-less-than relation.
	LT
	// LTEQ is the (unsigned) less-than-or-equal relation.
	LTEQ
	// GT is the (unsigned) strictly-greater-than relation.
	GT
	// GTEQ is the (unsigned) greater-than-or-equal relation.
	GTEQ
)

// Cmp represents a single-bit comparison of two expressions.  Operands of
// differing widths are zero extended, hence all comparisons are unsigned.
type Cmp struct {
	// Kind identifies the relation applied.
	Kind CmpKind
	// Lhs is the left-hand operand.
	Lhs Expr
	// Rhs is the right-hand operand.
	Rhs Expr
}

// NewEq constructs the equality lhs == rhs.
func NewEq(lhs Expr, rhs Expr) *Cmp {
	return &Cmp{EQ, lhs, rhs}
}

// NewNe constructs the inequality lhs != rhs.
func NewNe(lhs Expr, rhs Expr) *Cmp {
	return &Cmp{NEQ, lhs, rhs}
}

// NewLt constructs the unsigned comparison lhs < rhs.
func NewLt(lhs Expr, rhs Expr) *Cmp {
	return &Cmp{LT, lhs, rhs}
}

// NewLe constructs the unsigned comparison lhs <= rhs.
func NewLe(lhs Expr, rhs Expr) *Cmp {
	return &Cmp{LTEQ, lhs, rhs}
}

// NewGt constructs the unsigned comparison lhs > rhs.
func NewGt(lhs Expr, rhs Expr) *Cmp {
	return &Cmp{GT, lhs, rhs}
}

// NewGe constructs the unsigned comparison lhs >= rhs.
func NewGe(lhs Expr, rhs Expr) *Cmp {
	return &Cmp{GTEQ, lhs, rhs}
}

// Width implementation for the Expr interface.
func (p *Cmp) Width() uint {
	return 1
}

// EvalAt implementation for the Expr interface.
func (p *Cmp) EvalAt(env Env) *big.Int {
	var (
		c    = p.Lhs.EvalAt(env).Cmp(p.Rhs.EvalAt(env))
		hold bool
	)
	//
	switch p.Kind {
	case EQ:
		hold = c == 0
	case NEQ:
		hold = c != 0
	case LT:
		hold = c < 0
	case LTEQ:
		hold = c <= 0
	case GT:
		hold = c > 0
	case GTEQ:
		hold = c >= 0
	default:
		panic("unreachable")
	}
	//
	if hold {
		return big.NewInt(1)
	}
	//
	return big.NewInt(0)
}

// VisitSignals implementation for the Expr interface.
func (p *Cmp) VisitSignals(fn func(*Signal)) {
	p.Lhs.VisitSignals(fn)
	p.Rhs.VisitSignals(fn)
}

func (p *Cmp) String() string {
	var op string
	//
	switch p.Kind {
	case EQ:
		op = "eq"
	case NEQ:
		op = "ne"
	case LT:
		op = "lt"
	case LTEQ:
		op = "le"
	case GT:
		op = "gt"
	case GTEQ:
		op = "ge"
	default:
		panic("unreachable")
	}
	//
	return fmt.Sprintf("(%s %s %s)", op, p.Lhs, p.Rhs)
}
