package bytecode

import (
	"fmt"

	"github.com/zinc-lang/zinc/internal/zinc/scalar"
)

// TypeTag is scalar.Type's wire form: a JSON- and binary-serializable
// twin that instruction operands (Push's value type, Cast's target
// type) carry.
type TypeTag struct {
	Kind      string `json:"kind"` // "field" | "bool" | "integer"
	Signed    bool   `json:"signed,omitempty"`
	BitLength uint   `json:"bit_length,omitempty"`
}

// ToScalar resolves a wire TypeTag into a scalar.Type.
func (t TypeTag) ToScalar() (scalar.Type, error) {
	switch t.Kind {
	case "field":
		return scalar.Field(), nil
	case "bool":
		return scalar.Boolean(), nil
	case "integer":
		return scalar.Integer(t.Signed, t.BitLength), nil
	default:
		return scalar.Type{}, fmt.Errorf("bytecode: unknown type tag %q", t.Kind)
	}
}

// TypeTagFrom converts a scalar.Type to its wire form.
func TypeTagFrom(t scalar.Type) TypeTag {
	switch t.Kind {
	case scalar.KindField:
		return TypeTag{Kind: "field"}
	case scalar.KindBoolean:
		return TypeTag{Kind: "bool"}
	default:
		return TypeTag{Kind: "integer", Signed: t.Signed, BitLength: t.BitLength}
	}
}

// Instruction is the tagged-union operand carrier: one
// struct with every opcode's fields, rather than an interface per
// opcode, since the set is closed and operands are a handful of ints
// and strings — the engine's dispatcher (internal/zinc/engine)
// switches on Op, and an opcode with no exec path there is reported
// as an "unhandled opcode" error at run time.
type Instruction struct {
	Op Opcode `json:"op"`

	// Push
	Value *string  `json:"value,omitempty"` // decimal big.Int literal
	Type  *TypeTag `json:"type,omitempty"`

	// Load/Store/LoadByIndex/StoreByIndex
	Address   uint32 `json:"address,omitempty"`
	Size      uint32 `json:"size,omitempty"`
	ValueSize uint32 `json:"value_size,omitempty"`
	TotalSize uint32 `json:"total_size,omitempty"`

	// Slice
	Length uint32 `json:"length,omitempty"`
	Total  uint32 `json:"total,omitempty"`

	// Call
	InputSize uint32 `json:"input_size,omitempty"`

	// Return / CallLibrary
	OutputSize uint32 `json:"output_size,omitempty"`

	// LoopBegin
	Iterations uint32 `json:"iterations,omitempty"`

	// Require / unit-test message, Dbg format string
	Message string `json:"message,omitempty"`

	// Dbg argument types
	ArgTypes []TypeTag `json:"arg_types,omitempty"`

	// Markers
	File   string `json:"file,omitempty"`
	Line   uint32 `json:"line,omitempty"`
	Column uint32 `json:"column,omitempty"`

	// CallLibrary built-in name / FunctionMarker function name
	Identifier string `json:"identifier,omitempty"`

	// StorageFetch
	FieldTypes []TypeTag `json:"field_types,omitempty"`
}
