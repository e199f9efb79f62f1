// Package value implements the runtime typed value tree (Unit,
// Scalar, Array, Tuple, Struct, Enum, Contract) and its canonical
// flattening to/from a sequence of scalars, which is the ABI between
// JSON input/output and the bytecode stream.
package value

import (
	"fmt"

	"github.com/zinc-lang/zinc/internal/zinc/scalar"
)

// Kind discriminates Type's variants.
type Kind uint8

const (
	KindUnit Kind = iota
	KindScalar
	KindArray
	KindTuple
	KindStruct
	KindEnum
	KindContract
)

// StructField names one member of a Struct or Contract type.
type StructField struct {
	Name string
	Type Type
}

// ContractFieldType is a storage field's type plus its visibility
// flags.
type ContractFieldType struct {
	Name       string
	Type       Type
	IsPublic   bool
	IsImplicit bool
}

// Type is the static type of a value tree.
type Type struct {
	Kind Kind

	Scalar scalar.Type // KindScalar

	Element *Type // KindArray
	Length  int  // KindArray

	Elements []Type // KindTuple

	Fields []StructField // KindStruct

	EnumUnderlying scalar.Type      // KindEnum
	EnumVariants   map[string]int64 // KindEnum: name -> tag
	EnumOrder      []string         // KindEnum: deterministic iteration order

	ContractFields []ContractFieldType // KindContract
}

func Unit() Type { return Type{Kind: KindUnit} }

func ScalarType(t scalar.Type) Type { return Type{Kind: KindScalar, Scalar: t} }

func Array(elem Type, length int) Type {
	return Type{Kind: KindArray, Element: &elem, Length: length}
}

func Tuple(elems ...Type) Type { return Type{Kind: KindTuple, Elements: elems} }

func Struct(fields ...StructField) Type { return Type{Kind: KindStruct, Fields: fields} }

func Enum(underlying scalar.Type, order []string, variants map[string]int64) Type {
	return Type{Kind: KindEnum, EnumUnderlying: underlying, EnumOrder: order, EnumVariants: variants}
}

func ContractType(fields ...ContractFieldType) Type {
	return Type{Kind: KindContract, ContractFields: fields}
}

// Size returns the number of scalars Flatten produces for a value of
// this type — the ABI width used for arity checks at Load/Store and
// call/return boundaries.
func (t Type) Size() int {
	switch t.Kind {
	case KindUnit:
		return 0
	case KindScalar, KindEnum:
		return 1
	case KindArray:
		return t.Element.Size() * t.Length
	case KindTuple:
		n := 0
		for _, e := range t.Elements {
			n += e.Size()
		}
		return n
	case KindStruct:
		n := 0
		for _, f := range t.Fields {
			n += f.Type.Size()
		}
		return n
	case KindContract:
		n := 0
		for _, f := range t.ContractFields {
			n += f.Type.Size()
		}
		return n
	default:
		return 0
	}
}

// FlatScalarTypes walks t the same way Flatten walks a Value of that
// type, producing the scalar.Type for each leaf position in order —
// the type-level counterpart to Flatten/Unflatten, used wherever a
// caller must build or interpret a bare scalar sequence (storage
// leaves, circuit witness wires) without a Value tree in hand.
func (t Type) FlatScalarTypes() []scalar.Type {
	switch t.Kind {
	case KindScalar:
		return []scalar.Type{t.Scalar}
	case KindEnum:
		return []scalar.Type{t.EnumUnderlying}
	case KindArray:
		out := make([]scalar.Type, 0, t.Size())
		for i := 0; i < t.Length; i++ {
			out = append(out, t.Element.FlatScalarTypes()...)
		}
		return out
	case KindTuple:
		out := make([]scalar.Type, 0, t.Size())
		for _, e := range t.Elements {
			out = append(out, e.FlatScalarTypes()...)
		}
		return out
	case KindStruct:
		out := make([]scalar.Type, 0, t.Size())
		for _, f := range t.Fields {
			out = append(out, f.Type.FlatScalarTypes()...)
		}
		return out
	case KindContract:
		out := make([]scalar.Type, 0, t.Size())
		for _, f := range t.ContractFields {
			out = append(out, f.Type.FlatScalarTypes()...)
		}
		return out
	default:
		return nil
	}
}

func (t Type) String() string {
	switch t.Kind {
	case KindUnit:
		return "()"
	case KindScalar:
		return t.Scalar.String()
	case KindArray:
		return fmt.Sprintf("[%s; %d]", t.Element, t.Length)
	case KindTuple:
		return fmt.Sprintf("tuple%v", t.Elements)
	case KindStruct:
		return fmt.Sprintf("struct%v", t.Fields)
	case KindEnum:
		return fmt.Sprintf("enum(%s)", t.EnumUnderlying)
	case KindContract:
		return fmt.Sprintf("contract%v", t.ContractFields)
	default:
		return "unknown"
	}
}
