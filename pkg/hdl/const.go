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

// Const represents a constant value of a fixed width.
type Const struct {
	value *big.Int
	width uint
}

// NewConst constructs a constant of the given width, panicking if the value
// does not fit within it.
func NewConst(value uint64, width uint) *Const {
	return NewConstBig(new(big.Int).SetUint64(value), width)
}

// NewConstBig constructs a constant of the given width from an arbitrary
// precision value, panicking if the value is negative or does not fit.
func NewConstBig(value *big.Int, width uint) *Const {
	if value.Sign() < 0 {
		panic(fmt.Sprintf("negative constant %s", value))
	} else if uint(value.BitLen()) > width {
		panic(fmt.Sprintf("constant %s does not fit %d bit(s)", value, width))
	}
	// Copy, so mutating the argument afterwards cannot change the term.
	return &Const{new(big.Int).Set(value), width}
}

// Value returns the value of this constant.  The result must be treated as
// read-only.
func (p *Const) Value() *big.Int {
	return p.value
}

// Width implementation for the Expr interface.
func (p *Const) Width() uint {
	return p.width
}

// EvalAt implementation for the Expr interface.
func (p *Const) EvalAt(env Env) *big.Int {
	return p.value
}

// VisitSignals implementation for the Expr interface.
func (p *Const) VisitSignals(fn func(*Signal)) {
	// constants access no signals
}

func (p *Const) String() string {
	return p.value.String()
}
