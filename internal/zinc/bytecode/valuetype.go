package bytecode

import (
	"fmt"

	"github.com/zinc-lang/zinc/internal/zinc/scalar"
	"github.com/zinc-lang/zinc/internal/zinc/value"
)

// ValueField names one member of a ValueType's Struct/Contract form.
type ValueField struct {
	Name       string     `json:"name"`
	Type       *ValueType `json:"type"`
	IsPublic   bool       `json:"is_public,omitempty"`
	IsImplicit bool       `json:"is_implicit,omitempty"`
}

// ValueType is the JSON wire form of value.Type, distinct from the scalar-only
// TypeTag that instruction operands (Push, Cast) carry — a circuit's
// input or a contract's storage schema can be an arbitrarily nested
// array/tuple/struct/enum, not just a bare scalar.
type ValueType struct {
	Kind string `json:"kind"` // "unit"|"field"|"bool"|"integer"|"array"|"tuple"|"struct"|"enum"|"contract"

	Signed    bool `json:"signed,omitempty"`
	BitLength uint `json:"bit_length,omitempty"`

	Element *ValueType `json:"element,omitempty"`
	Length  int        `json:"length,omitempty"`

	Elements []ValueType `json:"elements,omitempty"`

	Fields []ValueField `json:"fields,omitempty"`

	EnumUnderlying *ValueType       `json:"enum_underlying,omitempty"`
	EnumOrder      []string         `json:"enum_order,omitempty"`
	EnumVariants   map[string]int64 `json:"enum_variants,omitempty"`
}

// ToValue resolves a wire ValueType into a value.Type.
func (vt ValueType) ToValue() (value.Type, error) {
	switch vt.Kind {
	case "unit":
		return value.Unit(), nil
	case "field":
		return value.ScalarType(scalar.Field()), nil
	case "bool":
		return value.ScalarType(scalar.Boolean()), nil
	case "integer":
		return value.ScalarType(scalar.Integer(vt.Signed, vt.BitLength)), nil
	case "array":
		if vt.Element == nil {
			return value.Type{}, fmt.Errorf("bytecode: array value type missing element")
		}
		elem, err := vt.Element.ToValue()
		if err != nil {
			return value.Type{}, err
		}
		return value.Array(elem, vt.Length), nil
	case "tuple":
		elems := make([]value.Type, len(vt.Elements))
		for i, e := range vt.Elements {
			t, err := e.ToValue()
			if err != nil {
				return value.Type{}, err
			}
			elems[i] = t
		}
		return value.Tuple(elems...), nil
	case "struct":
		fields := make([]value.StructField, len(vt.Fields))
		for i, f := range vt.Fields {
			if f.Type == nil {
				return value.Type{}, fmt.Errorf("bytecode: struct field %q missing type", f.Name)
			}
			t, err := f.Type.ToValue()
			if err != nil {
				return value.Type{}, err
			}
			fields[i] = value.StructField{Name: f.Name, Type: t}
		}
		return value.Struct(fields...), nil
	case "enum":
		if vt.EnumUnderlying == nil {
			return value.Type{}, fmt.Errorf("bytecode: enum value type missing underlying type")
		}
		underlying, err := vt.EnumUnderlying.ToValue()
		if err != nil {
			return value.Type{}, err
		}
		if underlying.Kind != value.KindScalar {
			return value.Type{}, fmt.Errorf("bytecode: enum underlying type must be scalar")
		}
		return value.Enum(underlying.Scalar, vt.EnumOrder, vt.EnumVariants), nil
	case "contract":
		fields := make([]value.ContractFieldType, len(vt.Fields))
		for i, f := range vt.Fields {
			if f.Type == nil {
				return value.Type{}, fmt.Errorf("bytecode: contract field %q missing type", f.Name)
			}
			t, err := f.Type.ToValue()
			if err != nil {
				return value.Type{}, err
			}
			fields[i] = value.ContractFieldType{Name: f.Name, Type: t, IsPublic: f.IsPublic, IsImplicit: f.IsImplicit}
		}
		return value.ContractType(fields...), nil
	default:
		return value.Type{}, fmt.Errorf("bytecode: unknown value type kind %q", vt.Kind)
	}
}

// ValueTypeFrom converts a value.Type to its wire form.
func ValueTypeFrom(t value.Type) ValueType {
	switch t.Kind {
	case value.KindUnit:
		return ValueType{Kind: "unit"}
	case value.KindScalar:
		switch t.Scalar.Kind {
		case scalar.KindField:
			return ValueType{Kind: "field"}
		case scalar.KindBoolean:
			return ValueType{Kind: "bool"}
		default:
			return ValueType{Kind: "integer", Signed: t.Scalar.Signed, BitLength: t.Scalar.BitLength}
		}
	case value.KindArray:
		elem := ValueTypeFrom(*t.Element)
		return ValueType{Kind: "array", Element: &elem, Length: t.Length}
	case value.KindTuple:
		elems := make([]ValueType, len(t.Elements))
		for i, e := range t.Elements {
			elems[i] = ValueTypeFrom(e)
		}
		return ValueType{Kind: "tuple", Elements: elems}
	case value.KindStruct:
		fields := make([]ValueField, len(t.Fields))
		for i, f := range t.Fields {
			ft := ValueTypeFrom(f.Type)
			fields[i] = ValueField{Name: f.Name, Type: &ft}
		}
		return ValueType{Kind: "struct", Fields: fields}
	case value.KindEnum:
		underlying := ValueTypeFrom(value.ScalarType(t.EnumUnderlying))
		return ValueType{Kind: "enum", EnumUnderlying: &underlying, EnumOrder: t.EnumOrder, EnumVariants: t.EnumVariants}
	case value.KindContract:
		fields := make([]ValueField, len(t.ContractFields))
		for i, f := range t.ContractFields {
			ft := ValueTypeFrom(f.Type)
			fields[i] = ValueField{Name: f.Name, Type: &ft, IsPublic: f.IsPublic, IsImplicit: f.IsImplicit}
		}
		return ValueType{Kind: "contract", Fields: fields}
	default:
		return ValueType{Kind: "unit"}
	}
}
