package zinc

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/zinc-lang/zinc/internal/zinc/csys"
	"github.com/zinc-lang/zinc/internal/zinc/scalar"
	"github.com/zinc-lang/zinc/internal/zinc/value"
)

// ValueToJSON renders a value tree as the canonical input/output JSON
// form: Unit → null, Scalar → boolean or decimal string,
// Array/Tuple → JSON array, Struct/Contract → object keyed by field
// name, Enum → variant name (falling back to its integer tag). Every
// scalar in v must be a compile-time constant under cs (true of any
// value produced by witness-mode execution).
func ValueToJSON(cs csys.ConstraintSystem, v value.Value) (json.RawMessage, error) {
	switch v.Typ.Kind {
	case value.KindUnit:
		return json.RawMessage("null"), nil

	case value.KindScalar:
		return scalarToJSON(cs, v.Scalar)

	case value.KindArray, value.KindTuple:
		parts := make([]json.RawMessage, len(v.Elements))
		for i, e := range v.Elements {
			raw, err := ValueToJSON(cs, e)
			if err != nil {
				return nil, err
			}
			parts[i] = raw
		}
		return json.Marshal(parts)

	case value.KindStruct:
		obj := make(map[string]json.RawMessage, len(v.Fields))
		for i, f := range v.Typ.Fields {
			raw, err := ValueToJSON(cs, v.Fields[i])
			if err != nil {
				return nil, err
			}
			obj[f.Name] = raw
		}
		return json.Marshal(obj)

	case value.KindContract:
		obj := make(map[string]json.RawMessage, len(v.Fields))
		for i, f := range v.Typ.ContractFields {
			raw, err := ValueToJSON(cs, v.Fields[i])
			if err != nil {
				return nil, err
			}
			obj[f.Name] = raw
		}
		return json.Marshal(obj)

	case value.KindEnum:
		tagVal, ok := scalar.IsConstant(cs, v.EnumTag)
		if !ok {
			return nil, wrap(ErrTypeMismatch, "enum tag is not a compile-time constant", nil)
		}
		for _, name := range v.Typ.EnumOrder {
			if big.NewInt(v.Typ.EnumVariants[name]).Cmp(tagVal) == 0 {
				return json.Marshal(name)
			}
		}
		return json.Marshal(tagVal.String())

	default:
		return nil, wrap(ErrTypeMismatch, fmt.Sprintf("unknown value kind %d", v.Typ.Kind), nil)
	}
}

func scalarToJSON(cs csys.ConstraintSystem, s scalar.Scalar) (json.RawMessage, error) {
	val, ok := scalar.IsConstant(cs, s)
	if !ok {
		return nil, wrap(ErrTypeMismatch, "scalar is not a compile-time constant", nil)
	}
	if s.Typ.Kind == scalar.KindBoolean {
		return json.Marshal(val.Sign() != 0)
	}
	return json.Marshal(val.String())
}

// JSONToValue parses data against t, allocating every leaf scalar as a
// constant of cs. Scalars accept a JSON number, a decimal string, or
// (for Boolean) a JSON boolean; enums accept either their variant name
// or their integer tag.
func JSONToValue(cs csys.ConstraintSystem, t value.Type, data json.RawMessage) (value.Value, error) {
	switch t.Kind {
	case value.KindUnit:
		return value.Value{Typ: t}, nil

	case value.KindScalar:
		s, err := scalarFromJSON(cs, t.Scalar, data)
		if err != nil {
			return value.Value{}, err
		}
		return value.NewScalar(s), nil

	case value.KindArray:
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return value.Value{}, wrap(ErrInvalidInput, "decoding array value", err)
		}
		if len(items) != t.Length {
			return value.Value{}, wrap(ErrTypeMismatch, fmt.Sprintf("array expects %d elements, got %d", t.Length, len(items)), nil)
		}
		elems := make([]value.Value, len(items))
		for i, raw := range items {
			e, err := JSONToValue(cs, *t.Element, raw)
			if err != nil {
				return value.Value{}, err
			}
			elems[i] = e
		}
		return value.Value{Typ: t, Elements: elems}, nil

	case value.KindTuple:
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return value.Value{}, wrap(ErrInvalidInput, "decoding tuple value", err)
		}
		if len(items) != len(t.Elements) {
			return value.Value{}, wrap(ErrTypeMismatch, fmt.Sprintf("tuple expects %d elements, got %d", len(t.Elements), len(items)), nil)
		}
		elems := make([]value.Value, len(items))
		for i, raw := range items {
			e, err := JSONToValue(cs, t.Elements[i], raw)
			if err != nil {
				return value.Value{}, err
			}
			elems[i] = e
		}
		return value.Value{Typ: t, Elements: elems}, nil

	case value.KindStruct:
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(data, &obj); err != nil {
			return value.Value{}, wrap(ErrInvalidInput, "decoding struct value", err)
		}
		fields := make([]value.Value, len(t.Fields))
		for i, f := range t.Fields {
			raw, ok := obj[f.Name]
			if !ok {
				return value.Value{}, wrap(ErrTypeMismatch, fmt.Sprintf("struct missing field %q", f.Name), nil)
			}
			v, err := JSONToValue(cs, f.Type, raw)
			if err != nil {
				return value.Value{}, err
			}
			fields[i] = v
		}
		return value.Value{Typ: t, Fields: fields}, nil

	case value.KindContract:
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(data, &obj); err != nil {
			return value.Value{}, wrap(ErrInvalidInput, "decoding contract value", err)
		}
		fields := make([]value.Value, len(t.ContractFields))
		for i, f := range t.ContractFields {
			raw, ok := obj[f.Name]
			if !ok {
				return value.Value{}, wrap(ErrTypeMismatch, fmt.Sprintf("contract storage missing field %q", f.Name), nil)
			}
			v, err := JSONToValue(cs, f.Type, raw)
			if err != nil {
				return value.Value{}, err
			}
			fields[i] = v
		}
		return value.Value{Typ: t, Fields: fields}, nil

	case value.KindEnum:
		var name string
		if err := json.Unmarshal(data, &name); err == nil {
			tag, ok := t.EnumVariants[name]
			if !ok {
				return value.Value{}, wrap(ErrTypeMismatch, fmt.Sprintf("unknown enum variant %q", name), nil)
			}
			return value.NewEnum(t, scalar.ConstantFrom(cs, t.EnumUnderlying, big.NewInt(tag))), nil
		}
		s, err := scalarFromJSON(cs, t.EnumUnderlying, data)
		if err != nil {
			return value.Value{}, err
		}
		return value.NewEnum(t, s), nil

	default:
		return value.Value{}, wrap(ErrTypeMismatch, fmt.Sprintf("unknown type kind %d", t.Kind), nil)
	}
}

func scalarFromJSON(cs csys.ConstraintSystem, t scalar.Type, data json.RawMessage) (scalar.Scalar, error) {
	if t.Kind == scalar.KindBoolean {
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return scalar.Scalar{}, wrap(ErrInvalidInput, "decoding boolean value", err)
		}
		v := big.NewInt(0)
		if b {
			v = big.NewInt(1)
		}
		return scalar.ConstantFrom(cs, t, v), nil
	}

	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		v, ok := new(big.Int).SetString(asString, 10)
		if !ok {
			return scalar.Scalar{}, wrap(ErrInvalidInput, fmt.Sprintf("malformed decimal literal %q", asString), nil)
		}
		return scalar.ConstantFrom(cs, t, canonicalize(t, v, cs)), nil
	}

	var asNumber json.Number
	if err := json.Unmarshal(data, &asNumber); err != nil {
		return scalar.Scalar{}, wrap(ErrInvalidInput, "scalar value must be a number, decimal string, or boolean", err)
	}
	v, ok := new(big.Int).SetString(asNumber.String(), 10)
	if !ok {
		return scalar.Scalar{}, wrap(ErrInvalidInput, fmt.Sprintf("malformed numeric literal %q", asNumber), nil)
	}
	return scalar.ConstantFrom(cs, t, canonicalize(t, v, cs)), nil
}

// canonicalize re-wraps a negative signed-integer literal into its
// field-canonical representative, mirroring how the engine stores
// negative values internally (see scalar.Type.ToLogical).
func canonicalize(t scalar.Type, v *big.Int, cs csys.ConstraintSystem) *big.Int {
	if t.Kind == scalar.KindInteger && t.Signed && v.Sign() < 0 {
		return new(big.Int).Add(v, cs.FieldModulus())
	}
	return v
}
