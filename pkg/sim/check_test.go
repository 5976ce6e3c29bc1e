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
	"testing"

	"github.com/pkg/errors"

	"github.com/psychogenic/amaranth-testbench/pkg/hdl"
)

// enableAll drives every free input named "en" high.
func enableAll(en *hdl.Signal) Stimulus {
	return func(cycle uint, sim *Simulator) error {
		return sim.Poke(en, 1)
	}
}

func Test_Check_01(t *testing.T) {
	// A property holding throughout the bound passes.
	var (
		en    = hdl.NewSignal("en", 1)
		count = hdl.NewSignal("count", 4)
		m     = hdl.NewModule("top")
	)
	//
	m.Sync(hdl.NewWhen(en, hdl.NewAssign(count, hdl.NewAdd(count, hdl.NewConst(1, 4)))))
	m.Assert("count_small", nil, hdl.NewLt(count, hdl.NewConst(10, 4)))
	//
	report, err := Check(compile(t, m), enableAll(en), 5)
	//
	if err != nil {
		t.Fatal(err)
	} else if !report.Ok() {
		t.Fatalf("unexpected failures %v", report.Failures())
	}
	//
	if report.Analysed() != 5 || report.Bound() != 5 || report.Truncated() {
		t.Errorf("expected full analysis, got %d of %d", report.Analysed(), report.Bound())
	}
	//
	if !report.Checked("count_small") {
		t.Errorf("assertion never examined")
	}
}

func Test_Check_02(t *testing.T) {
	// A failing assertion is reported with its handle and cycle.
	var (
		en    = hdl.NewSignal("en", 1)
		count = hdl.NewSignal("count", 4)
		m     = hdl.NewModule("top")
	)
	//
	m.Sync(hdl.NewWhen(en, hdl.NewAssign(count, hdl.NewAdd(count, hdl.NewConst(1, 4)))))
	m.Assert("count_not_three", nil, hdl.NewNe(count, hdl.NewConst(3, 4)))
	//
	report, err := Check(compile(t, m), enableAll(en), 5)
	//
	if err != nil {
		t.Fatal(err)
	} else if report.Ok() || len(report.Failures()) != 1 {
		t.Fatalf("expected exactly one failure, got %v", report.Failures())
	}
	//
	expected := `assertion "count_not_three" does not hold (cycle 3)`
	//
	if msg := report.Failures()[0].Message(); msg != expected {
		t.Errorf("got message %q, expected %q", msg, expected)
	}
}

func Test_Check_03(t *testing.T) {
	// A violated assumption truncates the analysis before the violating
	// cycle, so properties false beyond it are never examined.
	var (
		en    = hdl.NewSignal("en", 1)
		count = hdl.NewSignal("count", 4)
		m     = hdl.NewModule("top")
	)
	//
	m.Sync(hdl.NewWhen(en, hdl.NewAssign(count, hdl.NewAdd(count, hdl.NewConst(1, 4)))))
	m.Assume("cap", nil, hdl.NewLt(count, hdl.NewConst(3, 4)))
	m.Assert("never_five", nil, hdl.NewNe(count, hdl.NewConst(5, 4)))
	//
	report, err := Check(compile(t, m), enableAll(en), 10)
	//
	if err != nil {
		t.Fatal(err)
	} else if !report.Ok() {
		t.Fatalf("unexpected failures %v", report.Failures())
	}
	//
	if !report.Truncated() || report.TruncatedBy() != "cap" {
		t.Errorf("expected truncation by \"cap\", got %q", report.TruncatedBy())
	}
	//
	if report.Analysed() != 3 || report.Bound() != 10 {
		t.Errorf("expected 3 of 10 cycles analysed, got %d of %d", report.Analysed(), report.Bound())
	}
	// Trace stops with the analysis.
	if report.Trace().Height() != 3 {
		t.Errorf("expected trace height 3, got %d", report.Trace().Height())
	}
}

func Test_Check_04(t *testing.T) {
	// Cover points report who was witnessed.
	var (
		en    = hdl.NewSignal("en", 1)
		count = hdl.NewSignal("count", 4)
		m     = hdl.NewModule("top")
	)
	//
	m.Sync(hdl.NewWhen(en, hdl.NewAssign(count, hdl.NewAdd(count, hdl.NewConst(1, 4)))))
	m.Cover("reaches_two", nil, hdl.NewEq(count, hdl.NewConst(2, 4)))
	m.Cover("reaches_nine", nil, hdl.NewEq(count, hdl.NewConst(9, 4)))
	//
	report, err := Check(compile(t, m), enableAll(en), 5)
	//
	if err != nil {
		t.Fatal(err)
	}
	//
	if !report.Covered("reaches_two") {
		t.Errorf("expected \"reaches_two\" covered")
	}
	//
	if report.Covered("reaches_nine") {
		t.Errorf("\"reaches_nine\" cannot be covered in 5 cycles")
	}
	//
	if uncovered := report.Uncovered(); len(uncovered) != 1 || uncovered[0] != "reaches_nine" {
		t.Errorf("unexpected uncovered set %v", uncovered)
	}
}

func Test_Check_05(t *testing.T) {
	// Guarded assertions are only examined on cycles where the guard holds.
	var (
		en    = hdl.NewSignal("en", 1)
		count = hdl.NewSignal("count", 4)
		m     = hdl.NewModule("top")
	)
	//
	m.Sync(hdl.NewWhen(en, hdl.NewAssign(count, hdl.NewAdd(count, hdl.NewConst(1, 4)))))
	m.Assert("guarded", en, hdl.NewEq(count, hdl.NewConst(0, 4)))
	//
	report, err := Check(compile(t, m), nil, 5)
	//
	if err != nil {
		t.Fatal(err)
	} else if !report.Ok() {
		t.Fatalf("unexpected failures %v", report.Failures())
	}
	// Guard never held, so the assertion was never examined.
	if report.Checked("guarded") {
		t.Errorf("assertion examined despite low guard")
	}
}

func Test_Check_06(t *testing.T) {
	// Stimulus errors abort the analysis.
	var (
		en    = hdl.NewSignal("en", 1)
		count = hdl.NewSignal("count", 4)
		m     = hdl.NewModule("top")
	)
	//
	m.Sync(hdl.NewWhen(en, hdl.NewAssign(count, hdl.NewAdd(count, hdl.NewConst(1, 4)))))
	//
	bad := func(cycle uint, sim *Simulator) error {
		if cycle == 2 {
			return errors.New("wires crossed")
		}
		//
		return sim.Poke(en, 1)
	}
	//
	_, err := Check(compile(t, m), bad, 5)
	//
	checkErr(t, err, "wires crossed")
	checkErr(t, err, "cycle 2")
}
