package engine

import (
	"bytes"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/zinc-lang/zinc/internal/zinc/bytecode"
	"github.com/zinc-lang/zinc/internal/zinc/csys"
	"github.com/zinc-lang/zinc/internal/zinc/scalar"
	"github.com/zinc-lang/zinc/internal/zinc/storage"
	"github.com/zinc-lang/zinc/internal/zinc/value"
)

func strPtr(s string) *string { return &s }

func u8Tag() *bytecode.TypeTag {
	tt := bytecode.TypeTagFrom(scalar.Integer(false, 8))
	return &tt
}

func u32Tag() *bytecode.TypeTag {
	tt := bytecode.TypeTagFrom(scalar.Integer(false, 32))
	return &tt
}

func u64Tag() *bytecode.TypeTag {
	tt := bytecode.TypeTagFrom(scalar.Integer(false, 64))
	return &tt
}

func scalarCircuit(in, out scalar.Type, instrs []bytecode.Instruction) *bytecode.Circuit {
	return &bytecode.Circuit{
		EntryAddress: 0,
		InputType:    bytecode.ValueTypeFrom(value.ScalarType(in)),
		OutputType:   bytecode.ValueTypeFrom(value.ScalarType(out)),
		Instructions: instrs,
	}
}

func runScalarCircuit(t *testing.T, c *bytecode.Circuit, inType scalar.Type, in int64) (*big.Int, error) {
	t.Helper()
	ws := csys.NewWitnessSystem()
	input := value.NewScalar(scalar.ConstantFrom(ws, inType, big.NewInt(in)))
	out, err := RunCircuit(ws, c, input)
	if err != nil {
		return nil, err
	}
	got, ok := scalar.IsConstant(ws, out.Scalar)
	if !ok {
		t.Fatal("witness-mode output is not a constant")
	}
	return got, nil
}

// TestRunCircuitArithmetic runs: output = input + 5.
func TestRunCircuitArithmetic(t *testing.T) {
	u8 := scalar.Integer(false, 8)
	circuit := scalarCircuit(u8, u8, []bytecode.Instruction{
		{Op: bytecode.OpLoad, Address: 0, Size: 1},
		{Op: bytecode.OpPush, Value: strPtr("5"), Type: u8Tag()},
		{Op: bytecode.OpAdd},
		{Op: bytecode.OpExit, OutputSize: 1},
	})

	got, err := runScalarCircuit(t, circuit, u8, 10)
	if err != nil {
		t.Fatalf("RunCircuit: %v", err)
	}
	if got.Cmp(big.NewInt(15)) != 0 {
		t.Errorf("10+5 = %v, want 15", got)
	}
}

// TestRunCircuitAddOverflow runs the same u8 adder at the type
// boundary: 251 + 5 does not fit u8 and must fault at the Add opcode.
func TestRunCircuitAddOverflow(t *testing.T) {
	u8 := scalar.Integer(false, 8)
	circuit := scalarCircuit(u8, u8, []bytecode.Instruction{
		{Op: bytecode.OpLoad, Address: 0, Size: 1},
		{Op: bytecode.OpPush, Value: strPtr("5"), Type: u8Tag()},
		{Op: bytecode.OpAdd},
		{Op: bytecode.OpExit, OutputSize: 1},
	})

	if _, err := runScalarCircuit(t, circuit, u8, 251); err == nil {
		t.Fatal("251+5 must overflow u8")
	} else {
		var fault *csys.FaultError
		if !errors.As(err, &fault) || fault.Code != csys.FaultOverflow {
			t.Errorf("overflow should surface as a FaultOverflow, got %v", err)
		}
	}
}

// TestRunCircuitLoop runs: sum = 0; for i in 0..5 { sum += i; },
// with the loop body re-executed by LoopBegin/LoopEnd.
func TestRunCircuitLoop(t *testing.T) {
	u32 := scalar.Integer(false, 32)
	// data[0] = input (ignored), data[1] = sum, data[2] = i
	circuit := scalarCircuit(u32, u32, []bytecode.Instruction{
		{Op: bytecode.OpPush, Value: strPtr("0"), Type: u32Tag()},
		{Op: bytecode.OpStore, Address: 1, Size: 1}, // sum = 0
		{Op: bytecode.OpPush, Value: strPtr("0"), Type: u32Tag()},
		{Op: bytecode.OpStore, Address: 2, Size: 1}, // i = 0
		{Op: bytecode.OpLoopBegin, Iterations: 5},
		{Op: bytecode.OpLoad, Address: 1, Size: 1},
		{Op: bytecode.OpLoad, Address: 2, Size: 1},
		{Op: bytecode.OpAdd},
		{Op: bytecode.OpStore, Address: 1, Size: 1}, // sum += i
		{Op: bytecode.OpLoad, Address: 2, Size: 1},
		{Op: bytecode.OpPush, Value: strPtr("1"), Type: u32Tag()},
		{Op: bytecode.OpAdd},
		{Op: bytecode.OpStore, Address: 2, Size: 1}, // i += 1
		{Op: bytecode.OpLoopEnd},
		{Op: bytecode.OpLoad, Address: 1, Size: 1},
		{Op: bytecode.OpExit, OutputSize: 1},
	})

	got, err := runScalarCircuit(t, circuit, u32, 0)
	if err != nil {
		t.Fatalf("RunCircuit: %v", err)
	}
	if got.Cmp(big.NewInt(10)) != 0 {
		t.Errorf("sum of 0..4 = %v, want 10", got)
	}
}

// TestRunCircuitIfElse runs: output = cond ? 10 : 20.
func TestRunCircuitIfElse(t *testing.T) {
	u32 := scalar.Integer(false, 32)
	circuit := &bytecode.Circuit{
		EntryAddress: 0,
		InputType:    bytecode.ValueTypeFrom(value.ScalarType(scalar.Boolean())),
		OutputType:   bytecode.ValueTypeFrom(value.ScalarType(u32)),
		Instructions: []bytecode.Instruction{
			{Op: bytecode.OpLoad, Address: 0, Size: 1},
			{Op: bytecode.OpIf},
			{Op: bytecode.OpPush, Value: strPtr("10"), Type: u32Tag()},
			{Op: bytecode.OpElse},
			{Op: bytecode.OpPush, Value: strPtr("20"), Type: u32Tag()},
			{Op: bytecode.OpEndIf},
			{Op: bytecode.OpExit, OutputSize: 1},
		},
	}

	for _, tc := range []struct {
		cond int64
		want int64
	}{{1, 10}, {0, 20}} {
		got, err := runScalarCircuit(t, circuit, scalar.Boolean(), tc.cond)
		if err != nil {
			t.Fatalf("RunCircuit(cond=%d): %v", tc.cond, err)
		}
		if got.Cmp(big.NewInt(tc.want)) != 0 {
			t.Errorf("cond=%d: output = %v, want %v", tc.cond, got, tc.want)
		}
	}
}

// TestRunCircuitBranchDataWrites checks EndIf's per-cell merge of
// data-stack writes: a cell written only inside the taken (or untaken)
// branch must come out as the branch value (or keep its prior value).
func TestRunCircuitBranchDataWrites(t *testing.T) {
	u32 := scalar.Integer(false, 32)
	// data[0] = cond, data[1] = x
	circuit := &bytecode.Circuit{
		EntryAddress: 0,
		InputType:    bytecode.ValueTypeFrom(value.ScalarType(scalar.Boolean())),
		OutputType:   bytecode.ValueTypeFrom(value.ScalarType(u32)),
		Instructions: []bytecode.Instruction{
			{Op: bytecode.OpPush, Value: strPtr("5"), Type: u32Tag()},
			{Op: bytecode.OpStore, Address: 1, Size: 1}, // x = 5
			{Op: bytecode.OpLoad, Address: 0, Size: 1},
			{Op: bytecode.OpIf},
			{Op: bytecode.OpPush, Value: strPtr("9"), Type: u32Tag()},
			{Op: bytecode.OpStore, Address: 1, Size: 1}, // x = 9
			{Op: bytecode.OpEndIf},
			{Op: bytecode.OpLoad, Address: 1, Size: 1},
			{Op: bytecode.OpExit, OutputSize: 1},
		},
	}

	for _, tc := range []struct {
		cond int64
		want int64
	}{{1, 9}, {0, 5}} {
		got, err := runScalarCircuit(t, circuit, scalar.Boolean(), tc.cond)
		if err != nil {
			t.Fatalf("RunCircuit(cond=%d): %v", tc.cond, err)
		}
		if got.Cmp(big.NewInt(tc.want)) != 0 {
			t.Errorf("cond=%d: x = %v, want %v", tc.cond, got, tc.want)
		}
	}
}

// TestRunCircuitNestedBranchDataWrites drives a write that happens only
// inside an inner if nested in an outer then-branch, checking both
// merge layers restore or propagate the right value.
func TestRunCircuitNestedBranchDataWrites(t *testing.T) {
	u32 := scalar.Integer(false, 32)
	// data[0] = outer cond, data[1] = inner cond, data[2] = x
	in := value.Tuple(value.ScalarType(scalar.Boolean()), value.ScalarType(scalar.Boolean()))
	circuit := &bytecode.Circuit{
		EntryAddress: 0,
		InputType:    bytecode.ValueTypeFrom(in),
		OutputType:   bytecode.ValueTypeFrom(value.ScalarType(u32)),
		Instructions: []bytecode.Instruction{
			{Op: bytecode.OpPush, Value: strPtr("1"), Type: u32Tag()},
			{Op: bytecode.OpStore, Address: 2, Size: 1}, // x = 1
			{Op: bytecode.OpLoad, Address: 0, Size: 1},
			{Op: bytecode.OpIf},
			{Op: bytecode.OpLoad, Address: 1, Size: 1},
			{Op: bytecode.OpIf},
			{Op: bytecode.OpPush, Value: strPtr("7"), Type: u32Tag()},
			{Op: bytecode.OpStore, Address: 2, Size: 1}, // x = 7
			{Op: bytecode.OpEndIf},
			{Op: bytecode.OpEndIf},
			{Op: bytecode.OpLoad, Address: 2, Size: 1},
			{Op: bytecode.OpExit, OutputSize: 1},
		},
	}

	for _, tc := range []struct {
		outer, inner int64
		want         int64
	}{{1, 1, 7}, {1, 0, 1}, {0, 1, 1}, {0, 0, 1}} {
		ws := csys.NewWitnessSystem()
		b := scalar.Boolean()
		input := value.NewTuple([]value.Value{
			value.NewScalar(scalar.ConstantFrom(ws, b, big.NewInt(tc.outer))),
			value.NewScalar(scalar.ConstantFrom(ws, b, big.NewInt(tc.inner))),
		})
		out, err := RunCircuit(ws, circuit, input)
		if err != nil {
			t.Fatalf("RunCircuit(outer=%d inner=%d): %v", tc.outer, tc.inner, err)
		}
		got, _ := scalar.IsConstant(ws, out.Scalar)
		if got.Cmp(big.NewInt(tc.want)) != 0 {
			t.Errorf("outer=%d inner=%d: x = %v, want %v", tc.outer, tc.inner, got, tc.want)
		}
	}
}

// TestRunCircuitCallReturn runs: output = double(input) + 1, with
// double as a called function.
func TestRunCircuitCallReturn(t *testing.T) {
	u32 := scalar.Integer(false, 32)
	circuit := scalarCircuit(u32, u32, []bytecode.Instruction{
		// main
		{Op: bytecode.OpLoad, Address: 0, Size: 1},
		{Op: bytecode.OpCall, Address: 5, InputSize: 1},
		{Op: bytecode.OpPush, Value: strPtr("1"), Type: u32Tag()},
		{Op: bytecode.OpAdd},
		{Op: bytecode.OpExit, OutputSize: 1},
		// double(x): return x + x
		{Op: bytecode.OpLoad, Address: 0, Size: 1},
		{Op: bytecode.OpLoad, Address: 0, Size: 1},
		{Op: bytecode.OpAdd},
		{Op: bytecode.OpReturn, OutputSize: 1},
	})

	got, err := runScalarCircuit(t, circuit, u32, 21)
	if err != nil {
		t.Fatalf("RunCircuit: %v", err)
	}
	if got.Cmp(big.NewInt(43)) != 0 {
		t.Errorf("double(21)+1 = %v, want 43", got)
	}
}

// TestRunCircuitRequireFault exercises the assertion-failure path: the
// program requires input != 0, so a zero input should fault.
func TestRunCircuitRequireFault(t *testing.T) {
	u32 := scalar.Integer(false, 32)
	circuit := scalarCircuit(u32, u32, []bytecode.Instruction{
		{Op: bytecode.OpLoad, Address: 0, Size: 1},
		{Op: bytecode.OpPush, Value: strPtr("0"), Type: u32Tag()},
		{Op: bytecode.OpNe},
		{Op: bytecode.OpRequire, Message: "input must be nonzero"},
		{Op: bytecode.OpLoad, Address: 0, Size: 1},
		{Op: bytecode.OpExit, OutputSize: 1},
	})

	if _, err := runScalarCircuit(t, circuit, u32, 0); err == nil {
		t.Error("require on a false condition should fault")
	}
	if _, err := runScalarCircuit(t, circuit, u32, 7); err != nil {
		t.Errorf("require on a true condition should not fault, got %v", err)
	}
}

// TestRunCircuitRequireMaskedByBranch checks that a failing Require
// inside a not-taken branch is absorbed: the fault is live only under
// a true path condition.
func TestRunCircuitRequireMaskedByBranch(t *testing.T) {
	u32 := scalar.Integer(false, 32)
	circuit := &bytecode.Circuit{
		EntryAddress: 0,
		InputType:    bytecode.ValueTypeFrom(value.ScalarType(scalar.Boolean())),
		OutputType:   bytecode.ValueTypeFrom(value.ScalarType(u32)),
		Instructions: []bytecode.Instruction{
			{Op: bytecode.OpLoad, Address: 0, Size: 1},
			{Op: bytecode.OpIf},
			{Op: bytecode.OpPush, Value: strPtr("0"), Type: boolTagV()},
			{Op: bytecode.OpRequire, Message: "always fails when reached"},
			{Op: bytecode.OpEndIf},
			{Op: bytecode.OpPush, Value: strPtr("1"), Type: u32Tag()},
			{Op: bytecode.OpExit, OutputSize: 1},
		},
	}

	if _, err := runScalarCircuit(t, circuit, scalar.Boolean(), 0); err != nil {
		t.Errorf("require under a false path condition must be absorbed, got %v", err)
	}
	if _, err := runScalarCircuit(t, circuit, scalar.Boolean(), 1); err == nil {
		t.Error("require under a true path condition must fault")
	}
}

func boolTagV() *bytecode.TypeTag {
	tt := bytecode.TypeTagFrom(scalar.Boolean())
	return &tt
}

// TestDbgWritesWitnessOutput checks Dbg substitutes its arguments and
// lands in the configured writer.
func TestDbgWritesWitnessOutput(t *testing.T) {
	u32 := scalar.Integer(false, 32)
	circuit := scalarCircuit(u32, u32, []bytecode.Instruction{
		{Op: bytecode.OpLoad, Address: 0, Size: 1},
		{Op: bytecode.OpDbg, Message: "x = {}", ArgTypes: []bytecode.TypeTag{bytecode.TypeTagFrom(u32)}},
		{Op: bytecode.OpLoad, Address: 0, Size: 1},
		{Op: bytecode.OpExit, OutputSize: 1},
	})

	var buf bytes.Buffer
	ws := csys.NewWitnessSystem()
	input := value.NewScalar(scalar.ConstantFrom(ws, u32, big.NewInt(42)))
	if _, err := RunCircuit(ws, circuit, input, WithDebugWriter(&buf)); err != nil {
		t.Fatalf("RunCircuit: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "x = 42" {
		t.Errorf("dbg output = %q, want %q", got, "x = 42")
	}
}

// TestCallDepthLimit checks that unreturning recursion is cut off
// instead of growing the call stack forever.
func TestCallDepthLimit(t *testing.T) {
	u32 := scalar.Integer(false, 32)
	circuit := scalarCircuit(u32, u32, []bytecode.Instruction{
		{Op: bytecode.OpCall, Address: 0, InputSize: 0},
	})

	ws := csys.NewWitnessSystem()
	input := value.NewScalar(scalar.ConstantFrom(ws, u32, big.NewInt(0)))
	_, err := RunCircuit(ws, circuit, input, WithCallDepthLimit(16))
	if err == nil || !strings.Contains(err.Error(), "depth limit") {
		t.Errorf("runaway recursion should hit the depth limit, got %v", err)
	}
}

// TestErrorCarriesSourceLocation checks that a fault after marker
// opcodes reports the marker triple.
func TestErrorCarriesSourceLocation(t *testing.T) {
	u32 := scalar.Integer(false, 32)
	circuit := scalarCircuit(u32, u32, []bytecode.Instruction{
		{Op: bytecode.OpFileMarker, File: "main.zn"},
		{Op: bytecode.OpLineMarker, Line: 12},
		{Op: bytecode.OpColumnMarker, Column: 5},
		{Op: bytecode.OpFunctionMarker, Identifier: "main"},
		{Op: bytecode.OpPush, Value: strPtr("0"), Type: boolTagV()},
		{Op: bytecode.OpRequire},
		{Op: bytecode.OpExit, OutputSize: 0},
	})

	ws := csys.NewWitnessSystem()
	input := value.NewScalar(scalar.ConstantFrom(ws, u32, big.NewInt(0)))
	_, err := RunCircuit(ws, circuit, input)
	if err == nil {
		t.Fatal("require false must fault")
	}
	for _, want := range []string{"main.zn:12:5", "in main"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should carry %q", err, want)
		}
	}
}

func counterContract(incrementMutable bool) *bytecode.Contract {
	u64 := scalar.Integer(false, 64)
	return &bytecode.Contract{
		Name: "counter",
		StorageSchema: []bytecode.ContractField{
			{Name: "count", Type: bytecode.ValueTypeFrom(value.ScalarType(u64)), IsPublic: true},
		},
		Methods: map[string]bytecode.Method{
			"increment": {
				Address:    0,
				IsMutable:  incrementMutable,
				InputType:  bytecode.ValueTypeFrom(value.ScalarType(u64)),
				OutputType: bytecode.ValueTypeFrom(value.ScalarType(u64)),
			},
			"peek": {
				Address:    9,
				IsMutable:  false,
				InputType:  bytecode.ValueTypeFrom(value.Unit()),
				OutputType: bytecode.ValueTypeFrom(value.ScalarType(u64)),
			},
		},
		Instructions: []bytecode.Instruction{
			// increment(by): count += by; return count
			{Op: bytecode.OpPush, Value: strPtr("0"), Type: u64Tag()}, // 0: storage index
			{Op: bytecode.OpPush, Value: strPtr("0"), Type: u64Tag()}, // 1: load index
			{Op: bytecode.OpStorageLoad, Size: 1},                     // 2: count
			{Op: bytecode.OpLoad, Address: 0, Size: 1},                // 3: by
			{Op: bytecode.OpAdd},                                      // 4: count+by
			{Op: bytecode.OpStore, Address: 1, Size: 1},               // 5: scratch = new count
			{Op: bytecode.OpLoad, Address: 1, Size: 1},                // 6
			{Op: bytecode.OpStorageStore, Size: 1},                    // 7: storage[0] = new count
			// stack now empty except nothing; reload for return
			{Op: bytecode.OpNop}, // 8: placeholder, replaced below
			// peek(): return count
			{Op: bytecode.OpPush, Value: strPtr("0"), Type: u64Tag()}, // 9
			{Op: bytecode.OpStorageLoad, Size: 1},                     // 10
			{Op: bytecode.OpExit, OutputSize: 1},                      // 11
		},
	}
}

// TestRunMethodIncrement drives the mutable counter method against a
// fresh DummyKeeper address twice and checks storage persists between
// calls.
func TestRunMethodIncrement(t *testing.T) {
	contract := counterContract(true)
	// Complete increment: after StorageStore, reload the scratch slot
	// and exit with it.
	contract.Instructions[8] = bytecode.Instruction{Op: bytecode.OpLoad, Address: 1, Size: 1}
	contract.Instructions = append(contract.Instructions[:9],
		append([]bytecode.Instruction{{Op: bytecode.OpExit, OutputSize: 1}}, contract.Instructions[9:]...)...)
	// Inserting shifted peek's entry by one.
	peek := contract.Methods["peek"]
	peek.Address = 10
	contract.Methods["peek"] = peek

	u64 := scalar.Integer(false, 64)
	keeper := storage.NewDummyKeeper()
	var addr storage.Address

	ws := csys.NewWitnessSystem()
	by := value.NewScalar(scalar.ConstantFrom(ws, u64, big.NewInt(30)))
	out, root1, err := RunMethod(ws, contract, "increment", by, keeper, addr)
	if err != nil {
		t.Fatalf("RunMethod(increment, 30): %v", err)
	}
	got, _ := scalar.IsConstant(ws, out.Scalar)
	if got.Cmp(big.NewInt(30)) != 0 {
		t.Errorf("0+30 = %v, want 30", got)
	}

	ws2 := csys.NewWitnessSystem()
	by2 := value.NewScalar(scalar.ConstantFrom(ws2, u64, big.NewInt(12)))
	out2, root2, err := RunMethod(ws2, contract, "increment", by2, keeper, addr)
	if err != nil {
		t.Fatalf("RunMethod(increment, 12): %v", err)
	}
	got2, _ := scalar.IsConstant(ws2, out2.Scalar)
	if got2.Cmp(big.NewInt(42)) != 0 {
		t.Errorf("30+12 = %v, want 42", got2)
	}
	if bytesEqual(root1, root2) {
		t.Error("different storage contents must produce different roots")
	}
}

// TestRunMethodImmutable checks the mutability discipline both ways:
// peek leaves the root unchanged, while an increment mislabeled
// immutable is rejected.
func TestRunMethodImmutable(t *testing.T) {
	keeper := storage.NewDummyKeeper()
	var addr storage.Address
	u64 := scalar.Integer(false, 64)

	contract := counterContract(true)
	contract.Instructions[8] = bytecode.Instruction{Op: bytecode.OpLoad, Address: 1, Size: 1}
	contract.Instructions = append(contract.Instructions[:9],
		append([]bytecode.Instruction{{Op: bytecode.OpExit, OutputSize: 1}}, contract.Instructions[9:]...)...)
	peek := contract.Methods["peek"]
	peek.Address = 10
	contract.Methods["peek"] = peek

	ws := csys.NewWitnessSystem()
	unit := value.Value{Typ: value.Unit()}
	out, _, err := RunMethod(ws, contract, "peek", unit, keeper, addr)
	if err != nil {
		t.Fatalf("RunMethod(peek): %v", err)
	}
	got, _ := scalar.IsConstant(ws, out.Scalar)
	if got.Sign() != 0 {
		t.Errorf("fresh storage count = %v, want 0", got)
	}

	// Mislabel increment as immutable: a nonzero write must now be
	// rejected by the root-equality check.
	mislabeled := counterContract(false)
	mislabeled.Instructions[8] = bytecode.Instruction{Op: bytecode.OpLoad, Address: 1, Size: 1}
	mislabeled.Instructions = append(mislabeled.Instructions[:9],
		append([]bytecode.Instruction{{Op: bytecode.OpExit, OutputSize: 1}}, mislabeled.Instructions[9:]...)...)

	ws2 := csys.NewWitnessSystem()
	by := value.NewScalar(scalar.ConstantFrom(ws2, u64, big.NewInt(5)))
	if _, _, err := RunMethod(ws2, mislabeled, "increment", by, keeper, addr); err == nil {
		t.Error("a declared-immutable method that mutates storage must be rejected")
	}
}

// TestRunTest drives the unit-test entry point used by the test
// runner: a passing assertion, a failing one, and one that needs
// contract storage.
func TestRunTest(t *testing.T) {
	instrs := []bytecode.Instruction{
		// test_ok at 0: require(true)
		{Op: bytecode.OpPush, Value: strPtr("1"), Type: boolTagV()},
		{Op: bytecode.OpRequire},
		{Op: bytecode.OpExit, OutputSize: 0},
		// test_fail at 3: require(false)
		{Op: bytecode.OpPush, Value: strPtr("0"), Type: boolTagV()},
		{Op: bytecode.OpRequire, Message: "boom"},
		{Op: bytecode.OpExit, OutputSize: 0},
	}

	if err := RunTest(csys.NewWitnessSystem(), instrs, 0, nil); err != nil {
		t.Errorf("passing test entry errored: %v", err)
	}
	err := RunTest(csys.NewWitnessSystem(), instrs, 3, nil)
	var fault *csys.FaultError
	if !errors.As(err, &fault) {
		t.Errorf("failing test entry should surface a FaultError, got %v", err)
	}
}
