package gadget

import (
	"fmt"
	"math/big"

	"github.com/zinc-lang/zinc/internal/zinc/csys"
	"github.com/zinc-lang/zinc/internal/zinc/scalar"
)

// RangeCheck enforces s's range predicate: integer scalars
// must lie in [min, max] for their type, booleans must be 0 or 1, field
// scalars are unconstrained. The check is softened by cond — the
// conjunction of the current path condition — so a
// violation on an untaken branch never faults.
//
// Constant scalars are range-checked directly against Go's big.Int
// comparisons and never touch the constraint system — this is what
// lets boundary literals like 2^n-1 pass without the bit-decomposition
// gadget tripping on them.
func RangeCheck(cs csys.ConstraintSystem, cond csys.Variable, s scalar.Scalar) (scalar.Scalar, error) {
	if s.Typ.Kind == scalar.KindField {
		return s, nil
	}

	if v, ok := scalar.IsConstant(cs, s); ok {
		if !s.Typ.InRange(v) {
			notOK := cs.Constant(big.NewInt(0))
			if err := cs.Fault(cond, notOK, csys.FaultOverflow, fmt.Sprintf("constant %s out of range for %s", v.String(), s.Typ.String())); err != nil {
				return scalar.Scalar{}, err
			}
			// Absorbed by a false path condition; the lane is dead, so
			// any in-range stand-in keeps downstream folding sound.
			return scalar.ConstantFrom(cs, s.Typ, big.NewInt(0)), nil
		}
		return s, nil
	}

	// A field element has no native sign, so a signed type's value is
	// first shifted into the unsigned window [0, 2^n) that its field
	// representative already occupies (field subtraction wraps
	// negatives to modulus+v, exactly cancelling the shift) before the
	// fits-in-n-bits check below.
	n := int(s.Typ.BitLength)
	shift := big.NewInt(0)
	if s.Typ.Signed {
		shift = new(big.Int).Lsh(big.NewInt(1), s.Typ.BitLength-1)
	}
	shifted := cs.Add(s.Value, cs.Constant(shift))

	// Masking by cond makes the otherwise-unconditional bit
	// decomposition below a no-op (0 always fits n bits) whenever the
	// path condition is false.
	masked := cs.Mul(cond, shifted)
	bits := cs.ToBinary(masked, n)
	reconstructed := cs.FromBinary(bits...)
	ok := cs.IsZero(cs.Sub(reconstructed, masked))

	if err := cs.Fault(cs.Constant(big.NewInt(1)), ok, csys.FaultOverflow, fmt.Sprintf("value out of range for %s", s.Typ.String())); err != nil {
		return scalar.Scalar{}, err
	}
	return s, nil
}
