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

package sim

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/psychogenic/amaranth-testbench/pkg/hdl"
)

// Trace records the value of every design signal on every completed cycle.
// Row r of a column holds the value that signal read during cycle r, which
// for registers is the value committed at the end of cycle r-1.
type Trace struct {
	columns []*Column
	index   map[*hdl.Signal]*Column
	height  uint
}

// NewTrace constructs an empty trace with one column per given signal.
func NewTrace(signals []*hdl.Signal) *Trace {
	trace := &Trace{index: make(map[*hdl.Signal]*Column)}
	//
	for _, signal := range signals {
		column := &Column{signal, nil}
		trace.columns = append(trace.columns, column)
		trace.index[signal] = column
	}
	//
	return trace
}

// Height returns the number of completed cycles this trace covers.
func (p *Trace) Height() uint {
	return p.height
}

// Columns returns every column of this trace, in signal discovery order.
func (p *Trace) Columns() []*Column {
	return p.columns
}

// Column returns the column recording the given signal, or an error if the
// trace has no such column.
func (p *Trace) Column(signal *hdl.Signal) (*Column, error) {
	if column, ok := p.index[signal]; ok {
		return column, nil
	}
	//
	return nil, errors.Errorf("no column for signal %q", signal.Name())
}

func (p *Trace) record(env hdl.Env) {
	for _, column := range p.columns {
		column.values = append(column.values, new(big.Int).Set(env.ValueOf(column.signal)))
	}
	//
	p.height++
}

// Column records the per-cycle values of a single signal.
type Column struct {
	signal *hdl.Signal
	values []*big.Int
}

// Name returns the name of the recorded signal.
func (p *Column) Name() string {
	return p.signal.Name()
}

// Signal returns the recorded signal.
func (p *Column) Signal() *hdl.Signal {
	return p.signal
}

// Height returns the number of rows recorded so far.
func (p *Column) Height() uint {
	return uint(len(p.values))
}

// Get returns the value recorded on the given row, or an error if the trace
// has not reached it.  The result must be treated as read-only.
func (p *Column) Get(row uint) (*big.Int, error) {
	if row >= uint(len(p.values)) {
		return nil, errors.Errorf("row %d out of bounds (height %d)", row, len(p.values))
	}
	//
	return p.values[row], nil
}
