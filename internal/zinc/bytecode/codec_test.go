package bytecode

import (
	"bytes"
	"encoding/json"
	"reflect"
	"testing"

	"github.com/zinc-lang/zinc/internal/zinc/scalar"
	"github.com/zinc-lang/zinc/internal/zinc/value"
)

func strPtr(s string) *string { return &s }

func tagPtr(t scalar.Type) *TypeTag {
	tt := TypeTagFrom(t)
	return &tt
}

func sampleInstructions() []Instruction {
	return []Instruction{
		{Op: OpNop},
		{Op: OpPush, Value: strPtr("12345678901234567890"), Type: tagPtr(scalar.Integer(false, 64))},
		{Op: OpPush, Value: strPtr("1"), Type: tagPtr(scalar.Boolean())},
		{Op: OpPush, Value: strPtr("0"), Type: tagPtr(scalar.Field())},
		{Op: OpLoad, Address: 4, Size: 2},
		{Op: OpStore, Address: 0, Size: 1},
		{Op: OpLoadByIndex, Address: 8, ValueSize: 2, TotalSize: 10},
		{Op: OpStoreByIndex, Address: 8, ValueSize: 2, TotalSize: 10},
		{Op: OpSlice, Length: 3, Total: 9},
		{Op: OpAdd}, {Op: OpSub}, {Op: OpMul}, {Op: OpDiv}, {Op: OpRem}, {Op: OpNeg},
		{Op: OpAnd}, {Op: OpOr}, {Op: OpXor}, {Op: OpNot},
		{Op: OpBitAnd}, {Op: OpBitOr}, {Op: OpBitXor}, {Op: OpBitNot}, {Op: OpShl}, {Op: OpShr},
		{Op: OpEq}, {Op: OpNe}, {Op: OpLt}, {Op: OpLe}, {Op: OpGt}, {Op: OpGe},
		{Op: OpCast, Type: tagPtr(scalar.Integer(true, 16))},
		{Op: OpCall, Address: 42, InputSize: 3},
		{Op: OpReturn, OutputSize: 2},
		{Op: OpLoopBegin, Iterations: 5},
		{Op: OpLoopEnd},
		{Op: OpIf}, {Op: OpElse}, {Op: OpEndIf},
		{Op: OpRequire, Message: "balance must not go negative"},
		{Op: OpDbg, Message: "x = {}", ArgTypes: []TypeTag{TypeTagFrom(scalar.Integer(false, 8))}},
		{Op: OpFileMarker, File: "main.zn"},
		{Op: OpLineMarker, Line: 120},
		{Op: OpColumnMarker, Column: 17},
		{Op: OpFunctionMarker, Identifier: "withdraw"},
		{Op: OpCallLibrary, Identifier: "sha256", InputSize: 256, OutputSize: 256},
		{Op: OpStorageLoad, Size: 1},
		{Op: OpStorageStore, Size: 2},
		{Op: OpStorageFetch, FieldTypes: []TypeTag{TypeTagFrom(scalar.Integer(false, 64)), TypeTagFrom(scalar.Field())}},
		{Op: OpExit, OutputSize: 1},
	}
}

// TestEncodeDecodeRoundTrip: decode(encode(i)) == i for every opcode.
func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, instr := range sampleInstructions() {
		t.Run(instr.Op.String(), func(t *testing.T) {
			data := Encode(instr)
			got, n, err := Decode(data)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if n != len(data) {
				t.Errorf("Decode consumed %d of %d bytes", n, len(data))
			}
			if !reflect.DeepEqual(got, instr) {
				t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, instr)
			}
		})
	}
}

// TestDecodeAllStream: a concatenated stream decodes back to the same
// instruction sequence.
func TestDecodeAllStream(t *testing.T) {
	instrs := sampleInstructions()
	var stream bytes.Buffer
	for _, i := range instrs {
		stream.Write(Encode(i))
	}
	got, err := DecodeAll(stream.Bytes())
	if err != nil {
		t.Fatalf("DecodeAll: %v", err)
	}
	if !reflect.DeepEqual(got, instrs) {
		t.Errorf("stream round trip mismatch: %d instructions in, %d out", len(instrs), len(got))
	}
}

func TestDecodeRejectsUnknownOpcode(t *testing.T) {
	data := Encode(Instruction{Op: OpNop})
	data[0] = 0xFF
	if _, _, err := Decode(data); err == nil {
		t.Error("unknown opcode byte must be rejected")
	}
}

func TestDecodeRejectsTruncation(t *testing.T) {
	data := Encode(Instruction{Op: OpRequire, Message: "some assertion text"})
	for _, cut := range []int{0, 1, len(data) / 2, len(data) - 1} {
		if _, _, err := Decode(data[:cut]); err == nil {
			t.Errorf("truncation to %d bytes must be rejected", cut)
		}
	}
}

// TestApplicationJSONRoundTrip covers the container file format: a
// contract with schema, methods and unit tests survives a JSON
// marshal/unmarshal unchanged.
func TestApplicationJSONRoundTrip(t *testing.T) {
	u64 := ValueTypeFrom(value.ScalarType(scalar.Integer(false, 64)))
	app := Application{
		Kind: "Contract",
		Contract: &Contract{
			Name: "token",
			StorageSchema: []ContractField{
				{Name: "balance", Type: u64, IsPublic: true},
				{Name: "tx_msg", Type: u64, IsImplicit: true},
			},
			Methods: map[string]Method{
				"withdraw": {TypeID: 1, Name: "withdraw", Address: 3, IsMutable: true, InputType: u64, OutputType: u64},
			},
			UnitTests: map[string]UnitTest{
				"test_withdraw": {Address: 20, ShouldPanic: false},
				"test_overdraw": {Address: 30, ShouldPanic: true},
			},
			Instructions: sampleInstructions(),
		},
	}

	data, err := json.Marshal(app)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var got Application
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !reflect.DeepEqual(got, app) {
		t.Error("application JSON round trip mismatch")
	}
}

func TestTypeTagScalarRoundTrip(t *testing.T) {
	for _, typ := range []scalar.Type{
		scalar.Field(),
		scalar.Boolean(),
		scalar.Integer(false, 8),
		scalar.Integer(true, 248),
	} {
		got, err := TypeTagFrom(typ).ToScalar()
		if err != nil {
			t.Fatalf("%s: %v", typ, err)
		}
		if !got.Equal(typ) {
			t.Errorf("type tag round trip: got %s, want %s", got, typ)
		}
	}
}
