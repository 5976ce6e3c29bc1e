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
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/pkg/errors"

	"github.com/psychogenic/amaranth-testbench/pkg/hdl"

	log "github.com/sirupsen/logrus"
)

// Stimulus drives the free inputs of a design, being invoked once at the
// start of every analysed cycle.  Returning an error aborts the analysis.
type Stimulus func(cycle uint, sim *Simulator) error

// Failure is a generic mechanism for reporting violated properties.
type Failure interface {
	// Message returns a human readable explanation of the failure.
	Message() string
}

// AssertionFailure reports an assertion whose property evaluated false on an
// analysed cycle where its guard held.
type AssertionFailure struct {
	// Handle of the failing assertion.
	Handle string
	// Cycle on which it failed.
	Cycle uint
}

// Message implementation for the Failure interface.
func (p *AssertionFailure) Message() string {
	return fmt.Sprintf("assertion %q does not hold (cycle %d)", p.Handle, p.Cycle)
}

func (p *AssertionFailure) String() string {
	return p.Message()
}

// Report summarises a bounded analysis: how many cycles were actually
// examined, which assertions failed, which obligations were exercised and
// whether an assumption cut the analysis short.  A truncated report makes no
// claim whatsoever about cycles at or beyond the truncation point.
type Report struct {
	design      *Design
	trace       *Trace
	bound       uint
	analysed    uint
	truncatedBy string
	failures    []Failure
	checked     *bitset.BitSet
	covered     *bitset.BitSet
}

// Ok reports whether the analysis completed without any failure.
func (p *Report) Ok() bool {
	return len(p.failures) == 0
}

// Failures returns every failure observed, in cycle order.
func (p *Report) Failures() []Failure {
	return p.failures
}

// Bound returns the number of cycles the analysis was asked to examine.
func (p *Report) Bound() uint {
	return p.bound
}

// Analysed returns the number of cycles actually examined, which falls short
// of the bound exactly when an assumption was violated.
func (p *Report) Analysed() uint {
	return p.analysed
}

// Truncated reports whether a violated assumption stopped the analysis
// before the requested bound.
func (p *Report) Truncated() bool {
	return p.truncatedBy != ""
}

// TruncatedBy returns the handle of the assumption which stopped the
// analysis, or the empty string if none did.
func (p *Report) TruncatedBy() string {
	return p.truncatedBy
}

// Checked reports whether the guard of the given assertion held on at least
// one analysed cycle, i.e. whether the assertion was ever actually examined.
// This panics on unknown handles.
func (p *Report) Checked(handle string) bool {
	return p.checked.Test(p.indexOf(handle))
}

// Covered reports whether the given cover obligation was witnessed on some
// analysed cycle.  This panics on unknown handles.
func (p *Report) Covered(handle string) bool {
	return p.covered.Test(p.indexOf(handle))
}

// Uncovered returns the handles of every cover obligation which was never
// witnessed, in declaration order.
func (p *Report) Uncovered() []string {
	var uncovered []string
	//
	for i, ob := range p.design.Obligations() {
		if ob.Kind == hdl.COVER && !p.covered.Test(uint(i)) {
			uncovered = append(uncovered, ob.Handle)
		}
	}
	//
	return uncovered
}

// Trace returns the execution trace underlying this analysis, which covers
// every analysed cycle.
func (p *Report) Trace() *Trace {
	return p.trace
}

func (p *Report) indexOf(handle string) uint {
	for i, ob := range p.design.Obligations() {
		if ob.Handle == handle {
			return uint(i)
		}
	}
	//
	panic(fmt.Sprintf("unknown obligation %q", handle))
}

// Check performs a bounded analysis of the given design: for each cycle up
// to the bound, the stimulus (if any) drives the free inputs, assumptions
// are examined, and then assertions and cover points are evaluated against
// the cycle's state.  A violated assumption ends the analysis before the
// violating cycle is examined, so nothing is claimed about it or its
// successors; the history engine relies on this to keep queries beyond its
// window capacity out of the verified space.
func Check(design *Design, stimulus Stimulus, bound uint) (*Report, error) {
	var (
		sim         = New(design)
		obligations = design.Obligations()
		count       = uint(len(obligations))
		report      = &Report{
			design:  design,
			trace:   sim.Trace(),
			checked: bitset.New(count),
			covered: bitset.New(count),
		}
	)
	//
	log.Debugf("analysing design %q over %d cycle(s)", design.Name(), bound)
	//
	for cycle := uint(0); cycle < bound; cycle++ {
		if stimulus != nil {
			if err := stimulus(cycle, sim); err != nil {
				return nil, errors.Wrapf(err, "stimulus (cycle %d)", cycle)
			}
		}
		// Assumptions first.  A violation means this cycle lies outside the
		// analysed space altogether.
		for i := range obligations {
			ob := &obligations[i]
			//
			if ob.Kind == hdl.ASSUME && enabled(sim, ob) && !sim.PeekBit(ob.Property) {
				report.analysed = cycle
				report.bound = bound
				report.truncatedBy = ob.Handle
				//
				log.Debugf("assumption %q stopped analysis at cycle %d", ob.Handle, cycle)
				//
				return report, nil
			}
		}
		//
		for i := range obligations {
			ob := &obligations[i]
			//
			switch {
			case ob.Kind == hdl.ASSERT && enabled(sim, ob):
				report.checked.Set(uint(i))
				//
				if !sim.PeekBit(ob.Property) {
					report.failures = append(report.failures, &AssertionFailure{ob.Handle, cycle})
				}
			case ob.Kind == hdl.COVER && enabled(sim, ob):
				if sim.PeekBit(ob.Property) {
					report.covered.Set(uint(i))
				}
			}
		}
		//
		sim.Step()
	}
	//
	report.analysed = bound
	report.bound = bound
	// Success!
	return report, nil
}

func enabled(sim *Simulator, ob *hdl.Obligation) bool {
	return ob.Guard == nil || sim.PeekBit(ob.Guard)
}
