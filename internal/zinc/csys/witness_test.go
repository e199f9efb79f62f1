package csys

import (
	"errors"
	"math/big"
	"testing"
)

func constVal(t *testing.T, w *Witness, v Variable) *big.Int {
	t.Helper()
	got, ok := w.ConstantValue(v)
	if !ok {
		t.Fatal("witness-mode variable has no constant value")
	}
	return got
}

func TestWitnessFieldArithmetic(t *testing.T) {
	w := NewWitnessSystem()
	p := w.FieldModulus()

	a := w.Constant(big.NewInt(20))
	b := w.Constant(big.NewInt(22))
	if got := constVal(t, w, w.Add(a, b)); got.Cmp(big.NewInt(42)) != 0 {
		t.Errorf("20+22 = %v", got)
	}
	if got := constVal(t, w, w.Mul(a, b)); got.Cmp(big.NewInt(440)) != 0 {
		t.Errorf("20*22 = %v", got)
	}

	// Subtraction below zero wraps to the field's canonical form.
	underflow := constVal(t, w, w.Sub(a, b))
	want := new(big.Int).Sub(p, big.NewInt(2))
	if underflow.Cmp(want) != 0 {
		t.Errorf("20-22 = %v, want p-2", underflow)
	}

	// Neg is the additive inverse.
	if got := constVal(t, w, w.Add(a, w.Neg(a))); got.Sign() != 0 {
		t.Errorf("a + (-a) = %v, want 0", got)
	}

	// Div is multiplication by the inverse.
	q := w.Div(w.Constant(big.NewInt(440)), b)
	if got := constVal(t, w, q); got.Cmp(big.NewInt(20)) != 0 {
		t.Errorf("440/22 = %v, want 20", got)
	}
}

func TestWitnessInverse(t *testing.T) {
	w := NewWitnessSystem()
	a := w.Constant(big.NewInt(12345))
	inv := w.Inverse(a)
	if got := constVal(t, w, w.Mul(a, inv)); got.Cmp(big.NewInt(1)) != 0 {
		t.Errorf("a * a^-1 = %v, want 1", got)
	}
	// Inverse of zero is defined as zero; the fault is the caller's job.
	if got := constVal(t, w, w.Inverse(w.Constant(big.NewInt(0)))); got.Sign() != 0 {
		t.Errorf("0^-1 = %v, want 0", got)
	}
}

func TestWitnessBinaryRoundTrip(t *testing.T) {
	w := NewWitnessSystem()
	v := big.NewInt(0b1011001)
	bits := w.ToBinary(w.Constant(v), 8)
	if len(bits) != 8 {
		t.Fatalf("ToBinary produced %d bits", len(bits))
	}
	if got := constVal(t, w, bits[0]); got.Cmp(big.NewInt(1)) != 0 {
		t.Errorf("low bit = %v, want 1", got)
	}
	back := w.FromBinary(bits...)
	if got := constVal(t, w, back); got.Cmp(v) != 0 {
		t.Errorf("FromBinary(ToBinary(%v)) = %v", v, got)
	}
}

func TestWitnessLogic(t *testing.T) {
	w := NewWitnessSystem()
	one := w.Constant(big.NewInt(1))
	zero := w.Constant(big.NewInt(0))

	cases := []struct {
		name string
		got  Variable
		want int64
	}{
		{"and", w.And(one, zero), 0},
		{"or", w.Or(one, zero), 1},
		{"xor", w.Xor(one, one), 0},
		{"not", w.Not(zero), 1},
		{"iszero", w.IsZero(zero), 1},
		{"select_then", w.Select(one, w.Constant(big.NewInt(7)), w.Constant(big.NewInt(9))), 7},
		{"select_else", w.Select(zero, w.Constant(big.NewInt(7)), w.Constant(big.NewInt(9))), 9},
	}
	for _, tc := range cases {
		if got := constVal(t, w, tc.got); got.Cmp(big.NewInt(tc.want)) != 0 {
			t.Errorf("%s = %v, want %d", tc.name, got, tc.want)
		}
	}
}

func TestWitnessFault(t *testing.T) {
	w := NewWitnessSystem()
	one := w.Constant(big.NewInt(1))
	zero := w.Constant(big.NewInt(0))

	err := w.Fault(one, zero, FaultAssertionFailed, "must hold")
	var fault *FaultError
	if !errors.As(err, &fault) {
		t.Fatalf("live fault should return FaultError, got %v", err)
	}
	if fault.Code != FaultAssertionFailed {
		t.Errorf("fault code = %d, want FaultAssertionFailed", fault.Code)
	}

	if err := w.Fault(zero, zero, FaultAssertionFailed, "masked"); err != nil {
		t.Errorf("fault under a false condition must be absorbed, got %v", err)
	}
	if err := w.Fault(one, one, FaultAssertionFailed, "holds"); err != nil {
		t.Errorf("satisfied fault must not error, got %v", err)
	}
}

func TestWitnessHint(t *testing.T) {
	w := NewWitnessSystem()
	outs, err := w.Hint(func(modulus *big.Int, inputs []*big.Int) ([]*big.Int, error) {
		q := new(big.Int).Quo(inputs[0], inputs[1])
		r := new(big.Int).Rem(inputs[0], inputs[1])
		return []*big.Int{q, r}, nil
	}, 2, w.Constant(big.NewInt(10)), w.Constant(big.NewInt(3)))
	if err != nil {
		t.Fatalf("Hint: %v", err)
	}
	if got := constVal(t, w, outs[0]); got.Cmp(big.NewInt(3)) != 0 {
		t.Errorf("quotient = %v, want 3", got)
	}
	if got := constVal(t, w, outs[1]); got.Cmp(big.NewInt(1)) != 0 {
		t.Errorf("remainder = %v, want 1", got)
	}
}

func TestWitnessCmp(t *testing.T) {
	w := NewWitnessSystem()
	a := w.Constant(big.NewInt(5))
	b := w.Constant(big.NewInt(9))
	// -1 comes back as its canonical field representative.
	minusOne := new(big.Int).Sub(w.FieldModulus(), big.NewInt(1))
	if got := constVal(t, w, w.Cmp(a, b)); got.Cmp(minusOne) != 0 {
		t.Errorf("Cmp(5,9) = %v, want p-1", got)
	}
	if got := constVal(t, w, w.Cmp(b, a)); got.Cmp(big.NewInt(1)) != 0 {
		t.Errorf("Cmp(9,5) = %v, want 1", got)
	}
	if got := constVal(t, w, w.Cmp(a, a)); got.Sign() != 0 {
		t.Errorf("Cmp(5,5) = %v, want 0", got)
	}
}
