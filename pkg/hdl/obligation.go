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
)

// ObligationKind distinguishes the three flavours of proof obligation a
// module can carry.
type ObligationKind uint8

const (
	// ASSERT marks a property which must hold on every analysed cycle where
	// its guard holds.
	ASSERT ObligationKind = iota
	// ASSUME marks a constraint the analysis may take for granted; cycles
	// violating it lie outside the analysed space.  The history engine emits
	// its capacity bound as one of these.
	ASSUME
	// COVER marks a property whose reachability should be witnessed at least
	// once.
	COVER
)

func (p ObligationKind) String() string {
	switch p {
	case ASSERT:
		return "assert"
	case ASSUME:
		return "assume"
	case COVER:
		return "cover"
	default:
		panic("unreachable")
	}
}

// Obligation represents a named proof obligation attached to a module.  The
// property is a single-bit-interpreted expression (non-zero meaning "holds")
// which is only considered on cycles where the guard is non-zero; a nil
// guard means every cycle.
type Obligation struct {
	// Kind distinguishes assertions, assumptions and cover points.
	Kind ObligationKind
	// Handle names this obligation in reports.
	Handle string
	// Guard restricts which cycles the property is considered on, with nil
	// meaning all of them.
	Guard Expr
	// Property is the obligated expression.
	Property Expr
}

// VisitSignals invokes the given callback once for every signal this
// obligation reads (including duplicates).
func (p *Obligation) VisitSignals(fn func(*Signal)) {
	if p.Guard != nil {
		p.Guard.VisitSignals(fn)
	}
	//
	p.Property.VisitSignals(fn)
}

func (p *Obligation) String() string {
	if p.Guard != nil {
		return fmt.Sprintf("(%s %q %s %s)", p.Kind, p.Handle, p.Guard, p.Property)
	}
	//
	return fmt.Sprintf("(%s %q %s)", p.Kind, p.Handle, p.Property)
}
