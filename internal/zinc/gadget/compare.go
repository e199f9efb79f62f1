package gadget

import (
	"fmt"
	"math/big"

	"github.com/zinc-lang/zinc/internal/zinc/csys"
	"github.com/zinc-lang/zinc/internal/zinc/scalar"
)

// Eq and Ne accept any pair of same-typed scalars and yield a Boolean.
func Eq(cs csys.ConstraintSystem, a, b scalar.Scalar) (scalar.Scalar, error) {
	if err := sameType(a, b); err != nil {
		return scalar.Scalar{}, err
	}
	if folded, ok := tryConstantBinary(cs, a, b, scalar.Boolean(), func(x, y *big.Int) *big.Int {
		return boolToBig(x.Cmp(y) == 0)
	}); ok {
		return folded, nil
	}
	return scalar.New(scalar.Boolean(), cs.IsZero(cs.Sub(a.Value, b.Value))), nil
}

// Ne is the negation of Eq.
func Ne(cs csys.ConstraintSystem, a, b scalar.Scalar) (scalar.Scalar, error) {
	eq, err := Eq(cs, a, b)
	if err != nil {
		return scalar.Scalar{}, err
	}
	return scalar.New(scalar.Boolean(), cs.Not(eq.Value)), nil
}

// orderedKind reports whether t supports <, <=, >, >=.
func orderedKind(t scalar.Type) bool {
	return t.Kind == scalar.KindInteger || t.Kind == scalar.KindField
}

// lessThan is the shared gadget behind Lt/Le/Gt/Ge.
//
// For a bounded Integer type of width n, a<b is decided by widening
// a-b into an unsigned (n+1)-bit window (add 2^n, which a field
// subtraction's wraparound makes exact for negative differences too)
// and reading off its top bit: a<b iff that bit is 0.
//
// Field operands have no bitlength to widen by, so ordering instead
// falls back to comparing canonical field representatives directly via
// the constraint system's own Cmp gadget (gnark's audited
// implementation in constraint mode; a plain big.Int Cmp on the
// canonical representative in witness mode) — the representation
// Zinc's Field type uses for "less than" is exactly this magnitude
// order over [0, modulus).
func lessThan(cs csys.ConstraintSystem, a, b scalar.Scalar) (csys.Variable, error) {
	if !orderedKind(a.Typ) {
		return nil, fmt.Errorf("comparison: %s does not support ordering", a.Typ)
	}
	if a.Typ.Kind == scalar.KindField {
		c := cs.Cmp(a.Value, b.Value)
		return cs.IsZero(cs.Sub(c, cs.Constant(big.NewInt(-1)))), nil
	}

	n := a.Typ.BitLength
	diff := cs.Sub(a.Value, b.Value)
	twoN := new(big.Int).Lsh(big.NewInt(1), n)
	shifted := cs.Add(diff, cs.Constant(twoN))
	bits := cs.ToBinary(shifted, int(n)+1)
	topBit := bits[n]
	return cs.Not(topBit), nil
}

// Lt implements a<b.
func Lt(cs csys.ConstraintSystem, a, b scalar.Scalar) (scalar.Scalar, error) {
	if err := sameType(a, b); err != nil {
		return scalar.Scalar{}, err
	}
	if folded, ok := tryConstantBinary(cs, a, b, scalar.Boolean(), func(x, y *big.Int) *big.Int {
		return boolToBig(x.Cmp(y) < 0)
	}); ok {
		return folded, nil
	}
	v, err := lessThan(cs, a, b)
	if err != nil {
		return scalar.Scalar{}, err
	}
	return scalar.New(scalar.Boolean(), v), nil
}

// Gt implements a>b as b<a.
func Gt(cs csys.ConstraintSystem, a, b scalar.Scalar) (scalar.Scalar, error) {
	return Lt(cs, b, a)
}

// Le implements a<=b as not(b<a).
func Le(cs csys.ConstraintSystem, a, b scalar.Scalar) (scalar.Scalar, error) {
	gt, err := Gt(cs, a, b)
	if err != nil {
		return scalar.Scalar{}, err
	}
	return scalar.New(scalar.Boolean(), cs.Not(gt.Value)), nil
}

// Ge implements a>=b as not(a<b).
func Ge(cs csys.ConstraintSystem, a, b scalar.Scalar) (scalar.Scalar, error) {
	lt, err := Lt(cs, a, b)
	if err != nil {
		return scalar.Scalar{}, err
	}
	return scalar.New(scalar.Boolean(), cs.Not(lt.Value)), nil
}
