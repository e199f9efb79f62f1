package value

import (
	"fmt"

	"github.com/zinc-lang/zinc/internal/zinc/scalar"
)

// Value is the recursive runtime tree of a typed value. Exactly one field is
// populated, selected by Typ.Kind — mirroring the tagged-cell approach
// the evaluation stack expects.
type Value struct {
	Typ Type

	Scalar   scalar.Scalar // KindScalar
	Elements []Value       // KindArray, KindTuple
	Fields   []Value       // KindStruct, KindContract (parallel to Typ.Fields/ContractFields)
	EnumTag  scalar.Scalar // KindEnum: the backing integer scalar
}

func NewUnit() Value { return Value{Typ: Unit()} }

func NewScalar(s scalar.Scalar) Value {
	return Value{Typ: ScalarType(s.Typ), Scalar: s}
}

func NewArray(elemType Type, elems []Value) (Value, error) {
	if len(elems) == 0 {
		return Value{}, fmt.Errorf("value: array must have at least one element")
	}
	return Value{Typ: Array(elemType, len(elems)), Elements: elems}, nil
}

func NewTuple(elems []Value) Value {
	types := make([]Type, len(elems))
	for i, e := range elems {
		types[i] = e.Typ
	}
	return Value{Typ: Tuple(types...), Elements: elems}
}

func NewStruct(names []string, fields []Value) Value {
	sf := make([]StructField, len(fields))
	for i, f := range fields {
		sf[i] = StructField{Name: names[i], Type: f.Typ}
	}
	return Value{Typ: Struct(sf...), Fields: fields}
}

func NewEnum(t Type, tag scalar.Scalar) Value {
	return Value{Typ: t, EnumTag: tag}
}
