package gadget

import (
	"fmt"
	"math/big"

	"github.com/zinc-lang/zinc/internal/zinc/csys"
	"github.com/zinc-lang/zinc/internal/zinc/scalar"
)

func requireBoolean(s scalar.Scalar) error {
	if s.Typ.Kind != scalar.KindBoolean {
		return fmt.Errorf("logical operator requires bool, got %s", s.Typ)
	}
	return nil
}

// And, Or, Xor, Not implement the Logical opcode group,
// which operates only on Boolean scalars — distinct from the Bitwise
// group's BitAnd/BitOr/BitXor/BitNot over unsigned integers.

func And(cs csys.ConstraintSystem, a, b scalar.Scalar) (scalar.Scalar, error) {
	if err := requireBoolean(a); err != nil {
		return scalar.Scalar{}, err
	}
	if err := requireBoolean(b); err != nil {
		return scalar.Scalar{}, err
	}
	if folded, ok := tryConstantBinary(cs, a, b, scalar.Boolean(), func(x, y *big.Int) *big.Int {
		return boolToBig(x.Sign() != 0 && y.Sign() != 0)
	}); ok {
		return folded, nil
	}
	return scalar.New(scalar.Boolean(), cs.And(a.Value, b.Value)), nil
}

func Or(cs csys.ConstraintSystem, a, b scalar.Scalar) (scalar.Scalar, error) {
	if err := requireBoolean(a); err != nil {
		return scalar.Scalar{}, err
	}
	if err := requireBoolean(b); err != nil {
		return scalar.Scalar{}, err
	}
	if folded, ok := tryConstantBinary(cs, a, b, scalar.Boolean(), func(x, y *big.Int) *big.Int {
		return boolToBig(x.Sign() != 0 || y.Sign() != 0)
	}); ok {
		return folded, nil
	}
	return scalar.New(scalar.Boolean(), cs.Or(a.Value, b.Value)), nil
}

// Xor is deliberately exposed both here (logical, Boolean operands) and
// in bitwise.go (BitXor, unsigned Integer operands): boolean Xor is a
// distinct operator from bitwise Xor, not a special case of it.
func Xor(cs csys.ConstraintSystem, a, b scalar.Scalar) (scalar.Scalar, error) {
	if err := requireBoolean(a); err != nil {
		return scalar.Scalar{}, err
	}
	if err := requireBoolean(b); err != nil {
		return scalar.Scalar{}, err
	}
	if folded, ok := tryConstantBinary(cs, a, b, scalar.Boolean(), func(x, y *big.Int) *big.Int {
		return boolToBig((x.Sign() != 0) != (y.Sign() != 0))
	}); ok {
		return folded, nil
	}
	return scalar.New(scalar.Boolean(), cs.Xor(a.Value, b.Value)), nil
}

func Not(cs csys.ConstraintSystem, a scalar.Scalar) (scalar.Scalar, error) {
	if err := requireBoolean(a); err != nil {
		return scalar.Scalar{}, err
	}
	if folded, ok := tryConstantUnary(cs, a, scalar.Boolean(), func(x *big.Int) *big.Int {
		return boolToBig(x.Sign() == 0)
	}); ok {
		return folded, nil
	}
	return scalar.New(scalar.Boolean(), cs.Not(a.Value)), nil
}
