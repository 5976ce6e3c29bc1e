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

// Slice represents the contiguous bit range [start, end) of its argument,
// with bit zero being the least significant.  The relative accumulators of
// the history engine are read exclusively through slices, so this term is
// where "k cycles ago" ultimately lands.
type Slice struct {
	// Arg is the expression being sliced.
	Arg Expr
	// Start is the first bit included in the slice.
	Start uint
	// End is the first bit beyond the slice.
	End uint
}

// NewSlice constructs the slice [start, end) of the given expression,
// panicking if the range is empty or extends beyond the argument.
func NewSlice(arg Expr, start uint, end uint) *Slice {
	if start >= end {
		panic(fmt.Sprintf("empty slice [%d, %d)", start, end))
	} else if end > arg.Width() {
		panic(fmt.Sprintf("slice [%d, %d) exceeds %d bit(s)", start, end, arg.Width()))
	}
	//
	return &Slice{arg, start, end}
}

// NewBit constructs the single-bit slice selecting the given bit of the
// expression, panicking if the bit lies beyond it.
func NewBit(arg Expr, bit uint) *Slice {
	return NewSlice(arg, bit, bit+1)
}

// Width implementation for the Expr interface.
func (p *Slice) Width() uint {
	return p.End - p.Start
}

// EvalAt implementation for the Expr interface.
func (p *Slice) EvalAt(env Env) *big.Int {
	val := new(big.Int).Rsh(p.Arg.EvalAt(env), p.Start)
	//
	return val.And(val, Mask(p.End-p.Start))
}

// VisitSignals implementation for the Expr interface.
func (p *Slice) VisitSignals(fn func(*Signal)) {
	p.Arg.VisitSignals(fn)
}

func (p *Slice) String() string {
	return fmt.Sprintf("(slice %s %d %d)", p.Arg, p.Start, p.End)
}
