// Package bytecode implements the closed instruction set, its
// length-prefixed binary encoding, and the Circuit/Contract containers
// that carry a bytecode stream alongside its metadata.
package bytecode

import "fmt"

// Opcode is the closed instruction-set enumeration. One
// enumeration only — overlapping legacy opcode sets from earlier
// bytecode revisions are resolved in favor of a single closed set.
type Opcode uint8

const (
	OpNop Opcode = iota

	// Stack constants
	OpPush

	// Data stack
	OpLoad
	OpStore
	OpLoadByIndex
	OpStoreByIndex

	// Evaluation stack
	OpSlice

	// Arithmetic
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpRem
	OpNeg

	// Logical
	OpAnd
	OpOr
	OpXor
	OpNot

	// Bitwise
	OpBitAnd
	OpBitOr
	OpBitXor
	OpBitNot
	OpShl
	OpShr

	// Compare
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe

	// Cast
	OpCast

	// Control
	OpCall
	OpReturn
	OpLoopBegin
	OpLoopEnd
	OpIf
	OpElse
	OpEndIf

	// Assertion
	OpRequire

	// Debug
	OpDbg
	OpFileMarker
	OpLineMarker
	OpColumnMarker
	OpFunctionMarker

	// Standard library
	OpCallLibrary

	// Contract storage
	OpStorageLoad
	OpStorageStore
	OpStorageFetch

	// Program
	OpExit
)

var opcodeNames = map[Opcode]string{
	OpNop: "nop", OpPush: "push",
	OpLoad: "load", OpStore: "store", OpLoadByIndex: "load_by_index", OpStoreByIndex: "store_by_index",
	OpSlice: "slice",
	OpAdd:   "add", OpSub: "sub", OpMul: "mul", OpDiv: "div", OpRem: "rem", OpNeg: "neg",
	OpAnd: "and", OpOr: "or", OpXor: "xor", OpNot: "not",
	OpBitAnd: "bit_and", OpBitOr: "bit_or", OpBitXor: "bit_xor", OpBitNot: "bit_not", OpShl: "shl", OpShr: "shr",
	OpEq: "eq", OpNe: "ne", OpLt: "lt", OpLe: "le", OpGt: "gt", OpGe: "ge",
	OpCast:   "cast",
	OpCall:   "call", OpReturn: "return", OpLoopBegin: "loop_begin", OpLoopEnd: "loop_end",
	OpIf: "if", OpElse: "else", OpEndIf: "end_if",
	OpRequire:        "require",
	OpDbg:            "dbg",
	OpFileMarker:     "file_marker",
	OpLineMarker:     "line_marker",
	OpColumnMarker:   "column_marker",
	OpFunctionMarker: "function_marker",
	OpCallLibrary:    "call_library",
	OpStorageLoad:    "storage_load", OpStorageStore: "storage_store", OpStorageFetch: "storage_fetch",
	OpExit: "exit",
}

func (op Opcode) String() string {
	if n, ok := opcodeNames[op]; ok {
		return n
	}
	return fmt.Sprintf("opcode(%d)", op)
}

// Valid reports whether op is a member of the closed enumeration —
// callers treat an unknown opcode byte as malformed bytecode, never as a silently-skipped no-op.
func (op Opcode) Valid() bool {
	_, ok := opcodeNames[op]
	return ok
}
