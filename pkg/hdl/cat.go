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
	"math/big"
	"strings"
)

// Cat represents the concatenation of one or more expressions into a single
// wider vector.  The first argument occupies the least significant bits, the
// last the most significant, matching the order in which the history engine
// packs earliest-to-latest samples.
type Cat struct {
	// Args are the concatenated expressions, least significant first.
	Args []Expr
}

// NewCat constructs the concatenation of the given expressions, panicking if
// none are provided.
func NewCat(args ...Expr) *Cat {
	if len(args) == 0 {
		panic("empty concatenation")
	}
	//
	return &Cat{args}
}

// Width implementation for the Expr interface.
func (p *Cat) Width() uint {
	width := uint(0)
	//
	for _, arg := range p.Args {
		width += arg.Width()
	}
	//
	return width
}

// EvalAt implementation for the Expr interface.
func (p *Cat) EvalAt(env Env) *big.Int {
	var (
		val    = big.NewInt(0)
		tmp    big.Int
		offset uint
	)
	//
	for _, arg := range p.Args {
		tmp.Lsh(arg.EvalAt(env), offset)
		val.Or(val, &tmp)
		offset += arg.Width()
	}
	//
	return val
}

// VisitSignals implementation for the Expr interface.
func (p *Cat) VisitSignals(fn func(*Signal)) {
	for _, arg := range p.Args {
		arg.VisitSignals(fn)
	}
}

func (p *Cat) String() string {
	var builder strings.Builder
	//
	builder.WriteString("(cat")
	//
	for _, arg := range p.Args {
		builder.WriteString(" ")
		builder.WriteString(arg.String())
	}
	//
	builder.WriteString(")")
	//
	return builder.String()
}
