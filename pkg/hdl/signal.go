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

// Signal represents a named bit vector of fixed, non-zero width.  A signal
// has no value of its own: values live in whatever environment evaluates
// expressions over it.  Identity is pointer identity, meaning two distinct
// signals may legitimately carry the same name (generated names are kept
// unique by the layers above, but nothing here requires that).
//
// A signal becomes a register of a design exactly when some clocked statement
// assigns to it; otherwise it is a free input driven from outside.
type Signal struct {
	name  string
	width uint
}

// NewSignal constructs a signal with the given name and width.  This panics
// if the width is zero or the name is empty, since neither describes
// realisable hardware.
func NewSignal(name string, width uint) *Signal {
	if width == 0 {
		panic(fmt.Sprintf("signal %q has zero width", name))
	} else if name == "" {
		panic("signal with empty name")
	}
	//
	return &Signal{name, width}
}

// Name returns the name of this signal.
func (p *Signal) Name() string {
	return p.name
}

// Width implementation for the Expr interface.
func (p *Signal) Width() uint {
	return p.width
}

// EvalAt implementation for the Expr interface.  Reading a signal simply
// looks it up in the environment.
func (p *Signal) EvalAt(env Env) *big.Int {
	return env.ValueOf(p)
}

// VisitSignals implementation for the Expr interface.
func (p *Signal) VisitSignals(fn func(*Signal)) {
	fn(p)
}

func (p *Signal) String() string {
	return p.name
}
