package gadget

import (
	"math/big"
	"testing"

	"github.com/zinc-lang/zinc/internal/zinc/csys"
	"github.com/zinc-lang/zinc/internal/zinc/scalar"
)

func TestBitwiseOps(t *testing.T) {
	ws := csys.NewWitnessSystem()
	u8 := scalar.Integer(false, 8)
	a := scalar.ConstantFrom(ws, u8, big.NewInt(0b1100))
	b := scalar.ConstantFrom(ws, u8, big.NewInt(0b1010))

	and, err := BitAnd(ws, a, b)
	if err != nil {
		t.Fatalf("BitAnd: %v", err)
	}
	if v := mustConst(t, ws, and); v.Int64() != 0b1000 {
		t.Errorf("BitAnd = %v, want 0b1000", v)
	}

	or, err := BitOr(ws, a, b)
	if err != nil {
		t.Fatalf("BitOr: %v", err)
	}
	if v := mustConst(t, ws, or); v.Int64() != 0b1110 {
		t.Errorf("BitOr = %v, want 0b1110", v)
	}

	xor, err := BitXor(ws, a, b)
	if err != nil {
		t.Fatalf("BitXor: %v", err)
	}
	if v := mustConst(t, ws, xor); v.Int64() != 0b0110 {
		t.Errorf("BitXor = %v, want 0b0110", v)
	}

	not, err := BitNot(ws, a)
	if err != nil {
		t.Fatalf("BitNot: %v", err)
	}
	if v := mustConst(t, ws, not); v.Int64() != 0xF3 { // ^0b00001100 masked to 8 bits
		t.Errorf("BitNot = %v, want 0xF3", v)
	}
}

func TestBitwiseRequiresUnsignedInteger(t *testing.T) {
	ws := csys.NewWitnessSystem()
	a := scalar.ConstantFrom(ws, scalar.Integer(true, 8), big.NewInt(1))
	b := scalar.ConstantFrom(ws, scalar.Integer(true, 8), big.NewInt(1))
	if _, err := BitAnd(ws, a, b); err == nil {
		t.Error("BitAnd on signed integers should fail")
	}
}

func TestShiftLeftAndRight(t *testing.T) {
	ws := csys.NewWitnessSystem()
	u8 := scalar.Integer(false, 8)
	a := scalar.ConstantFrom(ws, u8, big.NewInt(1))
	shift2 := scalar.ConstantFrom(ws, u8, big.NewInt(2))

	shl, err := Shl(ws, a, shift2)
	if err != nil {
		t.Fatalf("Shl: %v", err)
	}
	if v := mustConst(t, ws, shl); v.Int64() != 4 {
		t.Errorf("1<<2 = %v, want 4", v)
	}

	shr, err := Shr(ws, shl, shift2)
	if err != nil {
		t.Fatalf("Shr: %v", err)
	}
	if v := mustConst(t, ws, shr); v.Int64() != 1 {
		t.Errorf("4>>2 = %v, want 1", v)
	}
}

func TestShiftLeftDiscardsOverflowBits(t *testing.T) {
	ws := csys.NewWitnessSystem()
	u8 := scalar.Integer(false, 8)
	a := scalar.ConstantFrom(ws, u8, big.NewInt(0xFF))
	shift4 := scalar.ConstantFrom(ws, u8, big.NewInt(4))
	shl, err := Shl(ws, a, shift4)
	if err != nil {
		t.Fatalf("Shl: %v", err)
	}
	if v := mustConst(t, ws, shl); v.Int64() != 0xF0 {
		t.Errorf("0xFF<<4 masked to u8 = %v, want 0xF0", v)
	}
}
