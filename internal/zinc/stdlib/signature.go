package stdlib

import (
	"fmt"
	"math/big"

	twistededwards "github.com/consensys/gnark-crypto/ecc/bn254/twistededwards"
	"golang.org/x/crypto/sha3"

	"github.com/zinc-lang/zinc/internal/zinc/csys"
	"github.com/zinc-lang/zinc/internal/zinc/scalar"
)

// schnorrVerifyBuiltin implements stdlib.schnorr_signature_verify(sig,
// message_bits, pubkey -> bool). The built-in's argument
// layout is sig = (Rx, Ry, s) as three Field scalars, followed by an
// arbitrary number of message Boolean bits, followed by pubkey = (Px,
// Py) as two Field scalars.
//
// The Fiat-Shamir challenge e = H(R, pubkey, message) is derived with
// SHA3-256 (golang.org/x/crypto/sha3) inside a Hint, and the same
// Hint checks the signature equation s*G == R + e*Pubkey and returns
// the verdict, which is only constrained to be boolean — the same
// non-circuit-native-arithmetic tradeoff pedersenBuiltin makes.
func schnorrVerifyBuiltin(cs csys.ConstraintSystem, cond csys.Variable, args []scalar.Scalar) ([]scalar.Scalar, error) {
	if err := requireArity(args, 5, "schnorr_signature_verify"); err != nil {
		return nil, err
	}
	rx, ry, s := args[0], args[1], args[2]
	px, py := args[len(args)-2], args[len(args)-1]
	message := args[3 : len(args)-2]

	for _, m := range message {
		if err := requireBoolean(m); err != nil {
			return nil, err
		}
	}
	msgBits := make([]csys.Variable, len(message))
	for i, m := range message {
		msgBits[i] = m.Value
	}
	packedMsg := packBits(cs, msgBits)

	outs, err := cs.Hint(func(modulus *big.Int, inputs []*big.Int) ([]*big.Int, error) {
		rxi, ryi, si, pxi, pyi, msgi := inputs[0], inputs[1], inputs[2], inputs[3], inputs[4], inputs[5]

		h := sha3.New256()
		h.Write(rxi.Bytes())
		h.Write(ryi.Bytes())
		h.Write(pxi.Bytes())
		h.Write(pyi.Bytes())
		h.Write(msgi.Bytes())
		e := new(big.Int).SetBytes(h.Sum(nil))
		e.Mod(e, &edwardsParams.Order)

		var sG, eP, rPlusEP twistededwards.PointAffine
		sG.ScalarMultiplication(&edwardsParams.Base, si)
		var pub twistededwards.PointAffine
		pub.X.SetBigInt(pxi)
		pub.Y.SetBigInt(pyi)
		eP.ScalarMultiplication(&pub, e)
		var r twistededwards.PointAffine
		r.X.SetBigInt(rxi)
		r.Y.SetBigInt(ryi)
		rPlusEP.Add(&r, &eP)

		valid := big.NewInt(0)
		if sG.X.Equal(&rPlusEP.X) && sG.Y.Equal(&rPlusEP.Y) {
			valid = big.NewInt(1)
		}
		return []*big.Int{valid}, nil
	}, 1, rx.Value, ry.Value, s.Value, px.Value, py.Value, packedMsg)
	if err != nil {
		return nil, fmt.Errorf("stdlib: schnorr_signature_verify: %w", err)
	}

	valid := outs[0]
	cs.AssertIsBoolean(valid)
	return []scalar.Scalar{scalar.New(scalar.Boolean(), valid)}, nil
}
