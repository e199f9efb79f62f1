// Package gadget implements the arithmetic, bitwise, comparison and
// cast operators over Scalar. Every binary/unary gadget first tries
// constant folding before touching the
// constraint system, because bit-decomposition gadgets would otherwise
// reject boundary literals like 2^n - 1.
package gadget

import (
	"math/big"

	"github.com/zinc-lang/zinc/internal/zinc/csys"
	"github.com/zinc-lang/zinc/internal/zinc/scalar"
)

// tryConstantUnary folds a unary operator over a known constant.
func tryConstantUnary(cs csys.ConstraintSystem, a scalar.Scalar, resultType scalar.Type, f func(x *big.Int) *big.Int) (scalar.Scalar, bool) {
	av, ok := scalar.IsConstant(cs, a)
	if !ok {
		return scalar.Scalar{}, false
	}
	return scalar.ConstantFrom(cs, resultType, f(av)), true
}

// tryConstantBinary folds a binary operator over two known constants.
func tryConstantBinary(cs csys.ConstraintSystem, a, b scalar.Scalar, resultType scalar.Type, f func(x, y *big.Int) *big.Int) (scalar.Scalar, bool) {
	av, aok := scalar.IsConstant(cs, a)
	bv, bok := scalar.IsConstant(cs, b)
	if !aok || !bok {
		return scalar.Scalar{}, false
	}
	return scalar.ConstantFrom(cs, resultType, f(av, bv)), true
}

func boolToBig(b bool) *big.Int {
	if b {
		return big.NewInt(1)
	}
	return big.NewInt(0)
}
