package gadget

import (
	"fmt"
	"math/big"

	"github.com/zinc-lang/zinc/internal/zinc/csys"
	"github.com/zinc-lang/zinc/internal/zinc/scalar"
)

func requireUnsignedInteger(s scalar.Scalar) error {
	if !s.Typ.IsUnsignedInteger() {
		return fmt.Errorf("bitwise operator requires an unsigned integer, got %s", s.Typ)
	}
	return nil
}

// mask truncates v to its low n bits (unsigned wraparound), which is
// how the constant-folded bitwise ops stay consistent with the
// bit-decomposed circuit path below.
func mask(v *big.Int, n uint) *big.Int {
	m := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), n), big.NewInt(1))
	return new(big.Int).And(v, m)
}

// bitwiseBinary implements BitAnd/BitOr/BitXor: decompose both
// operands into n bits, combine bit-by-bit, recompose. These require
// unsigned Integer operands of the same width.
func bitwiseBinary(
	cs csys.ConstraintSystem, a, b scalar.Scalar,
	fold func(x, y *big.Int) *big.Int,
	perBit func(cs csys.ConstraintSystem, x, y csys.Variable) csys.Variable,
) (scalar.Scalar, error) {
	if err := sameType(a, b); err != nil {
		return scalar.Scalar{}, err
	}
	if err := requireUnsignedInteger(a); err != nil {
		return scalar.Scalar{}, err
	}
	if folded, ok := tryConstantBinary(cs, a, b, a.Typ, func(x, y *big.Int) *big.Int {
		return mask(fold(x, y), a.Typ.BitLength)
	}); ok {
		return folded, nil
	}

	n := int(a.Typ.BitLength)
	abits := cs.ToBinary(a.Value, n)
	bbits := cs.ToBinary(b.Value, n)
	outBits := make([]csys.Variable, n)
	for i := 0; i < n; i++ {
		outBits[i] = perBit(cs, abits[i], bbits[i])
	}
	return scalar.New(a.Typ, cs.FromBinary(outBits...)), nil
}

func BitAnd(cs csys.ConstraintSystem, a, b scalar.Scalar) (scalar.Scalar, error) {
	return bitwiseBinary(cs, a, b, func(x, y *big.Int) *big.Int {
		return new(big.Int).And(x, y)
	}, func(cs csys.ConstraintSystem, x, y csys.Variable) csys.Variable {
		return cs.And(x, y)
	})
}

func BitOr(cs csys.ConstraintSystem, a, b scalar.Scalar) (scalar.Scalar, error) {
	return bitwiseBinary(cs, a, b, func(x, y *big.Int) *big.Int {
		return new(big.Int).Or(x, y)
	}, func(cs csys.ConstraintSystem, x, y csys.Variable) csys.Variable {
		return cs.Or(x, y)
	})
}

func BitXor(cs csys.ConstraintSystem, a, b scalar.Scalar) (scalar.Scalar, error) {
	return bitwiseBinary(cs, a, b, func(x, y *big.Int) *big.Int {
		return new(big.Int).Xor(x, y)
	}, func(cs csys.ConstraintSystem, x, y csys.Variable) csys.Variable {
		return cs.Xor(x, y)
	})
}

// BitNot complements every one of a's n bits.
func BitNot(cs csys.ConstraintSystem, a scalar.Scalar) (scalar.Scalar, error) {
	if err := requireUnsignedInteger(a); err != nil {
		return scalar.Scalar{}, err
	}
	if folded, ok := tryConstantUnary(cs, a, a.Typ, func(x *big.Int) *big.Int {
		return mask(new(big.Int).Not(x), a.Typ.BitLength)
	}); ok {
		return folded, nil
	}
	n := int(a.Typ.BitLength)
	bits := cs.ToBinary(a.Value, n)
	outBits := make([]csys.Variable, n)
	for i, b := range bits {
		outBits[i] = cs.Not(b)
	}
	return scalar.New(a.Typ, cs.FromBinary(outBits...)), nil
}

// shiftAmount requires the right-hand operand of a shift to be a
// compile-time-known unsigned integer.
func shiftAmount(cs csys.ConstraintSystem, b scalar.Scalar) (uint, error) {
	if !b.Typ.IsUnsignedInteger() {
		return 0, fmt.Errorf("shift amount must be an unsigned integer, got %s", b.Typ)
	}
	v, ok := scalar.IsConstant(cs, b)
	if !ok {
		return 0, fmt.Errorf("shift amount must be a constant")
	}
	return uint(v.Uint64()), nil
}

// Shl implements a<<b: a logical left shift, discarding bits shifted
// past the type's width and filling with zero.
func Shl(cs csys.ConstraintSystem, a, b scalar.Scalar) (scalar.Scalar, error) {
	if err := requireUnsignedInteger(a); err != nil {
		return scalar.Scalar{}, err
	}
	shift, err := shiftAmount(cs, b)
	if err != nil {
		return scalar.Scalar{}, err
	}
	n := a.Typ.BitLength
	if folded, ok := tryConstantUnary(cs, a, a.Typ, func(x *big.Int) *big.Int {
		return mask(new(big.Int).Lsh(x, shift), n)
	}); ok {
		return folded, nil
	}
	bits := cs.ToBinary(a.Value, int(n))
	outBits := make([]csys.Variable, n)
	zero := cs.Constant(big.NewInt(0))
	for i := uint(0); i < n; i++ {
		if i < shift {
			outBits[i] = zero
		} else {
			outBits[i] = bits[i-shift]
		}
	}
	return scalar.New(a.Typ, cs.FromBinary(outBits...)), nil
}

// Shr implements a>>b: a logical (zero-filling) right shift — Zinc's
// unsigned integers have no sign to extend.
func Shr(cs csys.ConstraintSystem, a, b scalar.Scalar) (scalar.Scalar, error) {
	if err := requireUnsignedInteger(a); err != nil {
		return scalar.Scalar{}, err
	}
	shift, err := shiftAmount(cs, b)
	if err != nil {
		return scalar.Scalar{}, err
	}
	n := a.Typ.BitLength
	if folded, ok := tryConstantUnary(cs, a, a.Typ, func(x *big.Int) *big.Int {
		return mask(new(big.Int).Rsh(x, shift), n)
	}); ok {
		return folded, nil
	}
	bits := cs.ToBinary(a.Value, int(n))
	outBits := make([]csys.Variable, n)
	zero := cs.Constant(big.NewInt(0))
	for i := uint(0); i < n; i++ {
		if i+shift < n {
			outBits[i] = bits[i+shift]
		} else {
			outBits[i] = zero
		}
	}
	return scalar.New(a.Typ, cs.FromBinary(outBits...)), nil
}
