// Package scalar implements the Scalar value (a field value tagged
// with a static scalar type) and its range predicates.
package scalar

import (
	"fmt"
	"math/big"

	"github.com/zinc-lang/zinc/internal/zinc/csys"
)

// Kind is the coarse category a Type belongs to.
type Kind uint8

const (
	KindField Kind = iota
	KindBoolean
	KindInteger
)

// Type is a scalar type: Field, Boolean, or Integer{signed, bitlength}.
type Type struct {
	Kind      Kind
	Signed    bool
	BitLength uint // 1 for Boolean; 1..=248 for Integer; unused for Field
}

// Field is the unconstrained BN256 scalar field type.
func Field() Type { return Type{Kind: KindField} }

// Boolean is the 1-bit boolean type.
func Boolean() Type { return Type{Kind: KindBoolean, BitLength: 1} }

// Integer is a signed or unsigned integer type of the given bit length.
// Bitlength must be in 1..=248.
func Integer(signed bool, bits uint) Type {
	return Type{Kind: KindInteger, Signed: signed, BitLength: bits}
}

// MaxBitLength is the largest integer width allowed; it
// leaves headroom below the BN256 scalar field's 254-bit modulus so
// that n+1-bit widening (used by ordered comparisons) never wraps.
const MaxBitLength = 248

func (t Type) String() string {
	switch t.Kind {
	case KindField:
		return "field"
	case KindBoolean:
		return "bool"
	case KindInteger:
		if t.Signed {
			return fmt.Sprintf("i%d", t.BitLength)
		}
		return fmt.Sprintf("u%d", t.BitLength)
	default:
		return "unknown"
	}
}

// Equal reports whether two types are identical.
func (t Type) Equal(other Type) bool {
	return t.Kind == other.Kind && t.Signed == other.Signed && t.BitLength == other.BitLength
}

// IsInteger reports whether t is an Integer type.
func (t Type) IsInteger() bool { return t.Kind == KindInteger }

// IsUnsignedInteger reports whether t is an unsigned Integer type.
func (t Type) IsUnsignedInteger() bool { return t.Kind == KindInteger && !t.Signed }

// Validate checks that a type's own shape is legal (bit lengths in
// range), independent of any value.
func (t Type) Validate() error {
	switch t.Kind {
	case KindField:
		return nil
	case KindBoolean:
		if t.BitLength != 1 {
			return fmt.Errorf("scalar: boolean type must have bit length 1")
		}
		return nil
	case KindInteger:
		if t.BitLength < 1 || t.BitLength > MaxBitLength {
			return fmt.Errorf("scalar: integer bit length %d out of range [1, %d]", t.BitLength, MaxBitLength)
		}
		return nil
	default:
		return fmt.Errorf("scalar: unknown type kind %d", t.Kind)
	}
}

// Bounds returns the inclusive [min, max] range for Integer and Boolean
// types. Field has no bounds and returns (nil, nil).
func (t Type) Bounds() (min, max *big.Int) {
	switch t.Kind {
	case KindField:
		return nil, nil
	case KindBoolean:
		return big.NewInt(0), big.NewInt(1)
	case KindInteger:
		if t.Signed {
			half := new(big.Int).Lsh(big.NewInt(1), t.BitLength-1)
			lo := new(big.Int).Neg(half)
			hi := new(big.Int).Sub(half, big.NewInt(1))
			return lo, hi
		}
		hi := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), t.BitLength), big.NewInt(1))
		return big.NewInt(0), hi
	default:
		return nil, nil
	}
}

// InRange reports whether v is within t's bounds. Always true for
// Field.
func (t Type) InRange(v *big.Int) bool {
	min, max := t.Bounds()
	if min == nil {
		return true
	}
	return v.Cmp(min) >= 0 && v.Cmp(max) <= 0
}

// Scalar is a field value tagged with its static scalar Type. The
// underlying csys.Variable may be a compile-time constant or a
// live constraint-system wire, depending on which ConstraintSystem
// produced it.
type Scalar struct {
	Typ   Type
	Value csys.Variable
}

// New wraps a csys.Variable under the given type, with no validation.
// Callers that need the range invariant enforced (every construction
// site) should go through gadget.RangeCheck instead.
func New(typ Type, v csys.Variable) Scalar {
	return Scalar{Typ: typ, Value: v}
}

// ConstantFrom builds a Scalar directly from a concrete value, via the
// constraint system's Constant allocator (so it never touches the
// constraint system itself — the gadgets' constant-folding layer
// relies on this).
func ConstantFrom(cs csys.ConstraintSystem, typ Type, v *big.Int) Scalar {
	return Scalar{Typ: typ, Value: cs.Constant(v)}
}

// IsConstant reports whether the scalar's value is known at synthesis
// time (always true in witness mode), returning its logical value —
// see ToLogical.
func IsConstant(cs csys.ConstraintSystem, s Scalar) (*big.Int, bool) {
	v, ok := cs.ConstantValue(s.Value)
	if !ok {
		return nil, false
	}
	return s.Typ.ToLogical(v, cs.FieldModulus()), true
}

// ToLogical recovers the mathematical integer a field-canonical
// representative (always in [0, modulus)) stands for under t. Unsigned
// and Field values are returned unchanged; for a signed Integer type, a
// representative above the type's maximum is reinterpreted as the
// negative value it was reduced from (field subtraction wraps
// negatives to modulus+v, and since |v| is always far smaller than the
// BN256 modulus, that wrap is unambiguous to undo).
func (t Type) ToLogical(fieldVal, modulus *big.Int) *big.Int {
	if t.Kind != KindInteger || !t.Signed {
		return fieldVal
	}
	_, max := t.Bounds()
	if fieldVal.Cmp(max) <= 0 {
		return fieldVal
	}
	return new(big.Int).Sub(fieldVal, modulus)
}
