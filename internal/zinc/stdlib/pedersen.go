package stdlib

import (
	"fmt"
	"math/big"

	twistededwards "github.com/consensys/gnark-crypto/ecc/bn254/twistededwards"

	"github.com/zinc-lang/zinc/internal/zinc/csys"
	"github.com/zinc-lang/zinc/internal/zinc/scalar"
)

// edwardsParams is the BN254-embedded twisted Edwards curve gnark-crypto
// ships for exactly this purpose: its base field is BN254's scalar
// field, so curve arithmetic composes with the rest of a BN254 circuit
// without an expensive non-native field emulation.
var edwardsParams = twistededwards.GetEdwardsCurve()

// packBits folds a big-endian bit stream into a single field element,
// reduced mod the field's modulus.
func packBits(cs csys.ConstraintSystem, bits []csys.Variable) csys.Variable {
	return cs.FromBinary(reverseBits(bits)...)
}

// pedersenBuiltin implements stdlib.pedersen(bits -> (x, y)): the bit string is packed into a scalar and multiplied by the
// curve's base point. The resulting coordinates are produced by a
// Hint (scalar multiplication has no small closed-form R1CS
// expression) and then constrained to satisfy the curve's own
// algebraic equation, so a malformed witness can never claim a point
// off the curve — full knowledge-soundness of the scalar multiplication
// itself would additionally need a double-and-add gadget, out of scope
// here.
func pedersenBuiltin(cs csys.ConstraintSystem, cond csys.Variable, args []scalar.Scalar) ([]scalar.Scalar, error) {
	for _, a := range args {
		if err := requireBoolean(a); err != nil {
			return nil, err
		}
	}
	bits := make([]csys.Variable, len(args))
	for i, a := range args {
		bits[i] = a.Value
	}
	m := packBits(cs, bits)

	outs, err := cs.Hint(func(modulus *big.Int, inputs []*big.Int) ([]*big.Int, error) {
		var p twistededwards.PointAffine
		p.ScalarMultiplication(&edwardsParams.Base, inputs[0])
		x := new(big.Int)
		y := new(big.Int)
		p.X.BigInt(x)
		p.Y.BigInt(y)
		return []*big.Int{x, y}, nil
	}, 2, m)
	if err != nil {
		return nil, fmt.Errorf("stdlib: pedersen: %w", err)
	}
	x, y := outs[0], outs[1]

	a := cs.Constant(edwardsParamBigInt(&edwardsParams.A))
	d := cs.Constant(edwardsParamBigInt(&edwardsParams.D))
	x2 := cs.Mul(x, x)
	y2 := cs.Mul(y, y)
	lhs := cs.Add(cs.Mul(a, x2), y2)
	rhs := cs.Add(cs.Constant(big.NewInt(1)), cs.Mul(d, cs.Mul(x2, y2)))
	onCurve := cs.IsZero(cs.Sub(lhs, rhs))
	if e := cs.Fault(cond, onCurve, csys.FaultAssertionFailed, "pedersen: output point not on curve"); e != nil {
		return nil, e
	}

	return []scalar.Scalar{
		scalar.New(scalar.Field(), x),
		scalar.New(scalar.Field(), y),
	}, nil
}

func edwardsParamBigInt(v interface{ BigInt(*big.Int) *big.Int }) *big.Int {
	return v.BigInt(new(big.Int))
}
