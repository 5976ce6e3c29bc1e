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

// Package hdl provides the minimal substrate on which the history engine
// elaborates: fixed-width signals, purely combinational bit-vector
// expressions, clocked statements and the modules which contain them, along
// with the proof-obligation primitives (assert / assume / cover) that
// verification code attaches around generated expressions.  Everything here
// describes logic; nothing here executes it.  Execution (clock advancement,
// atomic register commit, obligation checking) belongs to an external
// consumer, such as the bounded interpreter in the sim package.
package hdl

import (
	"math/big"
)

// Env provides values for signals during expression evaluation.  An
// environment always reflects pre-edge state: every signal read observes the
// value committed at the previous active clock edge (or the reset value zero
// if no edge has occurred).
type Env interface {
	// ValueOf returns the current value of the given signal.  The result
	// must be treated as read-only by the caller.
	ValueOf(signal *Signal) *big.Int
}

// Expr represents a combinational bit-vector expression of a fixed width.
// Expressions are immutable once constructed, evaluate without side effects
// and contain no runtime loops: whatever temporal behaviour they describe has
// already been compiled down to reads of statically-sized registers.
type Expr interface {
	// Width returns the bit width of the value this expression produces.
	Width() uint
	// EvalAt evaluates this expression against the given environment.  The
	// result is always non-negative and, for freshly constructed terms, must
	// be treated as read-only.
	EvalAt(env Env) *big.Int
	// VisitSignals invokes the given callback once for every signal access
	// contained within this expression (including duplicates).
	VisitSignals(fn func(*Signal))
	// String returns an s-expression style rendering of this term, which is
	// useful for debugging generated logic.
	String() string
}

// BitsFor returns the number of bits required to represent the given value.
// For example, BitsFor(5) == 3.  By convention BitsFor(0) == 1, since even a
// constant zero occupies one bit of storage.
func BitsFor(n uint64) uint {
	width := uint(0)
	//
	for n != 0 {
		width++
		n >>= 1
	}
	// Zero still needs one bit
	if width == 0 {
		width = 1
	}
	//
	return width
}

// Mask returns the all-ones value of the given width (i.e. 2^width - 1).
func Mask(width uint) *big.Int {
	mask := big.NewInt(1)
	mask.Lsh(mask, width)
	//
	return mask.Sub(mask, big.NewInt(1))
}
