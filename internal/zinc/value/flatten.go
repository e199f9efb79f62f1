package value

import (
	"fmt"

	"github.com/zinc-lang/zinc/internal/zinc/scalar"
)

// Flatten linearizes v into its canonical scalar sequence — depth
// first, field order preserved — the ABI every instruction operand
// that crosses the evaluation/data-stack boundary assumes.
func Flatten(v Value) []scalar.Scalar {
	switch v.Typ.Kind {
	case KindUnit:
		return nil
	case KindScalar:
		return []scalar.Scalar{v.Scalar}
	case KindEnum:
		return []scalar.Scalar{v.EnumTag}
	case KindArray, KindTuple:
		out := make([]scalar.Scalar, 0, v.Typ.Size())
		for _, e := range v.Elements {
			out = append(out, Flatten(e)...)
		}
		return out
	case KindStruct, KindContract:
		out := make([]scalar.Scalar, 0, v.Typ.Size())
		for _, f := range v.Fields {
			out = append(out, Flatten(f)...)
		}
		return out
	default:
		return nil
	}
}

// Unflatten reconstructs a Value of type t from the front of scalars,
// returning the unconsumed remainder — the inverse of Flatten.
func Unflatten(t Type, scalars []scalar.Scalar) (Value, []scalar.Scalar, error) {
	switch t.Kind {
	case KindUnit:
		return Value{Typ: t}, scalars, nil

	case KindScalar:
		if len(scalars) < 1 {
			return Value{}, nil, fmt.Errorf("value: unflatten: arity mismatch for %s", t)
		}
		return Value{Typ: t, Scalar: scalars[0]}, scalars[1:], nil

	case KindEnum:
		if len(scalars) < 1 {
			return Value{}, nil, fmt.Errorf("value: unflatten: arity mismatch for %s", t)
		}
		return Value{Typ: t, EnumTag: scalars[0]}, scalars[1:], nil

	case KindArray:
		elems := make([]Value, t.Length)
		rest := scalars
		for i := 0; i < t.Length; i++ {
			var e Value
			var err error
			e, rest, err = Unflatten(*t.Element, rest)
			if err != nil {
				return Value{}, nil, err
			}
			elems[i] = e
		}
		return Value{Typ: t, Elements: elems}, rest, nil

	case KindTuple:
		elems := make([]Value, len(t.Elements))
		rest := scalars
		for i, et := range t.Elements {
			var e Value
			var err error
			e, rest, err = Unflatten(et, rest)
			if err != nil {
				return Value{}, nil, err
			}
			elems[i] = e
		}
		return Value{Typ: t, Elements: elems}, rest, nil

	case KindStruct:
		fields := make([]Value, len(t.Fields))
		rest := scalars
		for i, f := range t.Fields {
			var v Value
			var err error
			v, rest, err = Unflatten(f.Type, rest)
			if err != nil {
				return Value{}, nil, err
			}
			fields[i] = v
		}
		return Value{Typ: t, Fields: fields}, rest, nil

	case KindContract:
		fields := make([]Value, len(t.ContractFields))
		rest := scalars
		for i, f := range t.ContractFields {
			var v Value
			var err error
			v, rest, err = Unflatten(f.Type, rest)
			if err != nil {
				return Value{}, nil, err
			}
			fields[i] = v
		}
		return Value{Typ: t, Fields: fields}, rest, nil

	default:
		return Value{}, nil, fmt.Errorf("value: unflatten: unknown type kind %d", t.Kind)
	}
}

// UnflattenExact is Unflatten with an arity-mismatch check
// applied to the whole sequence: every scalar must be consumed.
func UnflattenExact(t Type, scalars []scalar.Scalar) (Value, error) {
	v, rest, err := Unflatten(t, scalars)
	if err != nil {
		return Value{}, err
	}
	if len(rest) != 0 {
		return Value{}, fmt.Errorf("value: unflatten: %d unconsumed scalars for %s", len(rest), t)
	}
	return v, nil
}
