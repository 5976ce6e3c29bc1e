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
	"testing"
)

// valuation is a simple environment for evaluating expressions in tests,
// with unmapped signals reading as zero.
type valuation map[*Signal]*big.Int

// ValueOf implementation for the Env interface.
func (p valuation) ValueOf(signal *Signal) *big.Int {
	if val, ok := p[signal]; ok {
		return val
	}
	//
	return big.NewInt(0)
}

func Test_Expr_01(t *testing.T) {
	// Signal reads
	x := NewSignal("x", 8)
	env := valuation{x: big.NewInt(0xa5)}
	//
	checkWidth(t, x, 8)
	checkEval(t, env, x, 0xa5)
	checkString(t, x, "x")
}

func Test_Expr_02(t *testing.T) {
	// Constants
	c := NewConst(13, 8)
	//
	checkWidth(t, c, 8)
	checkEval(t, valuation{}, c, 13)
	checkString(t, c, "13")
}

func Test_Expr_03(t *testing.T) {
	// Slices select [start, end) counted from the least significant bit.
	x := NewSignal("x", 8)
	env := valuation{x: big.NewInt(0b1011_0100)}
	//
	checkWidth(t, NewSlice(x, 2, 6), 4)
	checkEval(t, env, NewSlice(x, 2, 6), 0b1101)
	checkEval(t, env, NewSlice(x, 0, 8), 0b1011_0100)
	checkEval(t, env, NewBit(x, 2), 1)
	checkEval(t, env, NewBit(x, 0), 0)
	checkString(t, NewSlice(x, 2, 6), "(slice x 2 6)")
}

func Test_Expr_04(t *testing.T) {
	// Concatenation packs its first argument lowest.
	var (
		a   = NewSignal("a", 4)
		b   = NewSignal("b", 4)
		env = valuation{a: big.NewInt(0x3), b: big.NewInt(0xe)}
	)
	//
	checkWidth(t, NewCat(a, b), 8)
	checkEval(t, env, NewCat(a, b), 0xe3)
	checkEval(t, env, NewCat(b, a), 0x3e)
	checkString(t, NewCat(a, b), "(cat a b)")
}

func Test_Expr_05(t *testing.T) {
	// Bitwise conjunction / disjunction zero extend narrower operands.
	var (
		a   = NewSignal("a", 4)
		b   = NewSignal("b", 8)
		env = valuation{a: big.NewInt(0b1100), b: big.NewInt(0b1010_0110)}
	)
	//
	checkWidth(t, NewAnd(a, b), 8)
	checkEval(t, env, NewAnd(a, b), 0b0100)
	checkEval(t, env, NewOr(a, b), 0b1010_1110)
	checkString(t, NewAnd(a, b), "(and a b)")
	checkString(t, NewOr(a, b), "(or a b)")
}

func Test_Expr_06(t *testing.T) {
	// Complement stays within the argument width.
	x := NewSignal("x", 4)
	env := valuation{x: big.NewInt(0b0110)}
	//
	checkWidth(t, NewNot(x), 4)
	checkEval(t, env, NewNot(x), 0b1001)
	checkEval(t, env, NewNot(NewNot(x)), 0b0110)
}

func Test_Expr_07(t *testing.T) {
	// Normalisation to a single bit.
	x := NewSignal("x", 8)
	//
	checkWidth(t, NewBool(x), 1)
	checkEval(t, valuation{x: big.NewInt(0)}, NewBool(x), 0)
	checkEval(t, valuation{x: big.NewInt(2)}, NewBool(x), 1)
	checkEval(t, valuation{x: big.NewInt(0xff)}, NewBool(x), 1)
}

func Test_Expr_08(t *testing.T) {
	// Comparisons are unsigned and width agnostic.
	var (
		a   = NewSignal("a", 4)
		b   = NewSignal("b", 8)
		env = valuation{a: big.NewInt(5), b: big.NewInt(9)}
	)
	//
	checkWidth(t, NewEq(a, b), 1)
	checkEval(t, env, NewEq(a, b), 0)
	checkEval(t, env, NewNe(a, b), 1)
	checkEval(t, env, NewLt(a, b), 1)
	checkEval(t, env, NewLe(a, b), 1)
	checkEval(t, env, NewGt(a, b), 0)
	checkEval(t, env, NewGe(a, b), 0)
	checkEval(t, env, NewEq(a, NewConst(5, 4)), 1)
	checkString(t, NewEq(a, b), "(eq a b)")
}

func Test_Expr_09(t *testing.T) {
	// Addition widens by one bit and never overflows.
	var (
		a   = NewSignal("a", 4)
		b   = NewSignal("b", 4)
		env = valuation{a: big.NewInt(15), b: big.NewInt(15)}
	)
	//
	checkWidth(t, NewAdd(a, b), 5)
	checkEval(t, env, NewAdd(a, b), 30)
}

func Test_Expr_10(t *testing.T) {
	// Left shift widens by the shift amount.
	x := NewSignal("x", 4)
	env := valuation{x: big.NewInt(0b1001)}
	//
	checkWidth(t, NewShl(x, 3), 7)
	checkEval(t, env, NewShl(x, 3), 0b1001_000)
	checkString(t, NewShl(x, 3), "(shl x 3)")
}

func Test_Expr_11(t *testing.T) {
	// Values beyond 64 bits flow through slices and shifts unharmed.
	var (
		wide = NewSignal("wide", 96)
		val  = new(big.Int).Lsh(big.NewInt(0xdead), 70)
		env  = valuation{wide: val}
	)
	//
	checkEval(t, env, NewSlice(wide, 70, 86), 0xdead)
	checkEval(t, env, NewBit(wide, 70), 1)
	checkEval(t, env, NewBool(wide), 1)
	//
	shifted := NewShl(wide, 4).EvalAt(env)
	//
	if shifted.Cmp(new(big.Int).Lsh(val, 4)) != 0 {
		t.Errorf("wide shift got %s", shifted)
	}
}

func Test_Expr_12(t *testing.T) {
	// Structural misuse panics.
	x := NewSignal("x", 4)
	//
	checkPanics(t, func() { NewSignal("", 4) })
	checkPanics(t, func() { NewSignal("y", 0) })
	checkPanics(t, func() { NewConst(16, 4) })
	checkPanics(t, func() { NewConstBig(big.NewInt(-1), 4) })
	checkPanics(t, func() { NewSlice(x, 2, 2) })
	checkPanics(t, func() { NewSlice(x, 0, 5) })
	checkPanics(t, func() { NewBit(x, 4) })
	checkPanics(t, func() { NewCat() })
	checkPanics(t, func() { NewAnd() })
	checkPanics(t, func() { NewOr() })
}

func Test_BitsFor_01(t *testing.T) {
	checkBitsFor(t, 0, 1)
	checkBitsFor(t, 1, 1)
	checkBitsFor(t, 2, 2)
	checkBitsFor(t, 5, 3)
	checkBitsFor(t, 7, 3)
	checkBitsFor(t, 8, 4)
	checkBitsFor(t, 255, 8)
	checkBitsFor(t, 256, 9)
}

func Test_Mask_01(t *testing.T) {
	if Mask(1).Uint64() != 1 {
		t.Errorf("Mask(1) got %s", Mask(1))
	}
	//
	if Mask(8).Uint64() != 0xff {
		t.Errorf("Mask(8) got %s", Mask(8))
	}
	//
	if Mask(80).BitLen() != 80 {
		t.Errorf("Mask(80) has %d bit(s)", Mask(80).BitLen())
	}
}

// ==================================================================
// Helpers
// ==================================================================

func checkWidth(t *testing.T, expr Expr, width uint) {
	t.Helper()
	//
	if expr.Width() != width {
		t.Errorf("%s has width %d, expected %d", expr, expr.Width(), width)
	}
}

func checkEval(t *testing.T, env Env, expr Expr, expected uint64) {
	t.Helper()
	//
	if val := expr.EvalAt(env); val.Cmp(new(big.Int).SetUint64(expected)) != 0 {
		t.Errorf("%s evaluated to %s, expected %d", expr, val, expected)
	}
}

func checkString(t *testing.T, expr Expr, expected string) {
	t.Helper()
	//
	if expr.String() != expected {
		t.Errorf("rendered as %q, expected %q", expr.String(), expected)
	}
}

func checkBitsFor(t *testing.T, val uint64, expected uint) {
	t.Helper()
	//
	if BitsFor(val) != expected {
		t.Errorf("BitsFor(%d) got %d, expected %d", val, BitsFor(val), expected)
	}
}

func checkPanics(t *testing.T, fn func()) {
	t.Helper()
	//
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic")
		}
	}()
	//
	fn()
}
