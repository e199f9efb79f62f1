package stdlib

import (
	"fmt"
	"math/big"

	"github.com/zinc-lang/zinc/internal/zinc/csys"
	"github.com/zinc-lang/zinc/internal/zinc/scalar"
)

var bigOne = big.NewInt(1)

// toBitsBuiltin implements stdlib.to_bits(integer -> n bits): decompose an integer or field scalar into its bit
// representation, low bit first, matching csys.ToBinary's own
// convention.
func toBitsBuiltin(cs csys.ConstraintSystem, cond csys.Variable, args []scalar.Scalar) ([]scalar.Scalar, error) {
	if err := requireArity(args, 1, "to_bits"); err != nil {
		return nil, err
	}
	a := args[0]
	n := int(a.Typ.BitLength)
	if a.Typ.Kind == scalar.KindField {
		n = cs.FieldModulus().BitLen()
	}
	bits := cs.ToBinary(a.Value, n)
	out := make([]scalar.Scalar, len(bits))
	for i, b := range bits {
		out[i] = scalar.New(scalar.Boolean(), b)
	}
	return out, nil
}

func fromBits(cs csys.ConstraintSystem, args []scalar.Scalar, result scalar.Type) (scalar.Scalar, error) {
	bits := make([]csys.Variable, len(args))
	for i, a := range args {
		if err := requireBoolean(a); err != nil {
			return scalar.Scalar{}, err
		}
		bits[i] = a.Value
	}
	return scalar.New(result, cs.FromBinary(bits...)), nil
}

// fromBitsUnsignedBuiltin implements from_bits_unsigned(bits ->
// unsigned integer).
func fromBitsUnsignedBuiltin(cs csys.ConstraintSystem, cond csys.Variable, args []scalar.Scalar) ([]scalar.Scalar, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("stdlib: from_bits_unsigned requires at least one bit")
	}
	s, err := fromBits(cs, args, scalar.Integer(false, uint(len(args))))
	if err != nil {
		return nil, err
	}
	return []scalar.Scalar{s}, nil
}

// fromBitsSignedBuiltin implements from_bits_signed(bits -> signed
// integer): the top bit of the supplied bit string is the sign bit,
// recovered the same way gadget.RangeCheck's shift-by-2^(n-1)
// technique does it.
func fromBitsSignedBuiltin(cs csys.ConstraintSystem, cond csys.Variable, args []scalar.Scalar) ([]scalar.Scalar, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("stdlib: from_bits_signed requires at least one bit")
	}
	typ := scalar.Integer(true, uint(len(args)))
	unshifted, err := fromBits(cs, args, typ)
	if err != nil {
		return nil, err
	}
	_, max := typ.Bounds()
	shift := cs.Constant(max)
	shift = cs.Add(shift, cs.Constant(bigOne))
	shifted := scalar.New(typ, cs.Sub(unshifted.Value, shift))
	return []scalar.Scalar{shifted}, nil
}

// fromBitsFieldBuiltin implements from_bits_field(bits -> field).
func fromBitsFieldBuiltin(cs csys.ConstraintSystem, cond csys.Variable, args []scalar.Scalar) ([]scalar.Scalar, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("stdlib: from_bits_field requires at least one bit")
	}
	s, err := fromBits(cs, args, scalar.Field())
	if err != nil {
		return nil, err
	}
	return []scalar.Scalar{s}, nil
}
