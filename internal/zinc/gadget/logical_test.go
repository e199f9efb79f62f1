package gadget

import (
	"math/big"
	"testing"

	"github.com/zinc-lang/zinc/internal/zinc/csys"
	"github.com/zinc-lang/zinc/internal/zinc/scalar"
)

func boolScalar(ws csys.ConstraintSystem, v bool) scalar.Scalar {
	n := int64(0)
	if v {
		n = 1
	}
	return scalar.ConstantFrom(ws, scalar.Boolean(), big.NewInt(n))
}

func TestLogicalOps(t *testing.T) {
	ws := csys.NewWitnessSystem()
	tru := boolScalar(ws, true)
	fls := boolScalar(ws, false)

	and, err := And(ws, tru, fls)
	if err != nil {
		t.Fatalf("And: %v", err)
	}
	if v := mustConst(t, ws, and); v.Sign() != 0 {
		t.Error("true && false should be false")
	}

	or, err := Or(ws, tru, fls)
	if err != nil {
		t.Fatalf("Or: %v", err)
	}
	if v := mustConst(t, ws, or); v.Sign() == 0 {
		t.Error("true || false should be true")
	}

	xor, err := Xor(ws, tru, tru)
	if err != nil {
		t.Fatalf("Xor: %v", err)
	}
	if v := mustConst(t, ws, xor); v.Sign() != 0 {
		t.Error("true xor true should be false")
	}

	not, err := Not(ws, fls)
	if err != nil {
		t.Fatalf("Not: %v", err)
	}
	if v := mustConst(t, ws, not); v.Sign() == 0 {
		t.Error("!false should be true")
	}
}

func TestLogicalRequiresBoolean(t *testing.T) {
	ws := csys.NewWitnessSystem()
	i := scalar.ConstantFrom(ws, scalar.Integer(false, 8), big.NewInt(1))
	b := boolScalar(ws, true)
	if _, err := And(ws, i, b); err == nil {
		t.Error("And on a non-boolean operand should fail")
	}
}
