package zinc

import (
	"encoding/json"
	"testing"

	"github.com/zinc-lang/zinc/internal/zinc/bytecode"
	"github.com/zinc-lang/zinc/internal/zinc/scalar"
	"github.com/zinc-lang/zinc/internal/zinc/value"
)

func u64Tag() *bytecode.TypeTag {
	tt := bytecode.TypeTagFrom(scalar.Integer(false, 64))
	return &tt
}

// TestSetupProveVerifyCircuit drives the full Groth16 round trip on
// the add-five circuit: if witness execution succeeds, the proof over
// the compiled R1CS must verify against the claimed output, and must
// not verify against any other output.
func TestSetupProveVerifyCircuit(t *testing.T) {
	if testing.Short() {
		t.Skip("groth16 setup is slow")
	}
	pk, vk, err := Setup(addFiveCircuit())
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}

	proof, out, err := ProveCircuit(pk, json.RawMessage(`"10"`))
	if err != nil {
		t.Fatalf("ProveCircuit: %v", err)
	}
	var got string
	if err := json.Unmarshal(out, &got); err != nil || got != "15" {
		t.Fatalf("proved output = %s, want 15 (%v)", out, err)
	}

	ok, err := Verify(vk, proof, out)
	if err != nil || !ok {
		t.Fatalf("Verify(correct output) = %v, %v; want true", ok, err)
	}

	if ok, _ := Verify(vk, proof, json.RawMessage(`"16"`)); ok {
		t.Error("Verify must reject a proof against a different claimed output")
	}
}

// divRemCircuit computes (x/5, x%5) on the input wire. In constraint
// mode the dividend is a circuit variable, never a known constant, so
// compiling and proving this forces the quotient/remainder Hint path
// and its 0 <= r < |b| constraints rather than the constant-fold
// shortcut every witness-mode test takes.
func divRemCircuit() *Circuit {
	u8 := value.ScalarType(scalar.Integer(false, 8))
	return &Circuit{
		Name:         "div_rem",
		EntryAddress: 0,
		InputType:    bytecode.ValueTypeFrom(u8),
		OutputType:   bytecode.ValueTypeFrom(value.Tuple(u8, u8)),
		Instructions: []Instruction{
			{Op: bytecode.OpLoad, Address: 0, Size: 1},
			{Op: bytecode.OpPush, Value: strPtr("5"), Type: u8Tag()},
			{Op: bytecode.OpDiv},
			{Op: bytecode.OpLoad, Address: 0, Size: 1},
			{Op: bytecode.OpPush, Value: strPtr("5"), Type: u8Tag()},
			{Op: bytecode.OpRem},
			{Op: bytecode.OpExit, OutputSize: 2},
		},
	}
}

// TestProveVerifyDivRemHintPath compiles and proves the div/rem
// circuit, exercising the non-deterministic quotient/remainder hint
// and the Euclidean-law constraints over a real R1CS.
func TestProveVerifyDivRemHintPath(t *testing.T) {
	if testing.Short() {
		t.Skip("groth16 setup is slow")
	}
	pk, vk, err := Setup(divRemCircuit())
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}

	proof, out, err := ProveCircuit(pk, json.RawMessage(`"17"`))
	if err != nil {
		t.Fatalf("ProveCircuit: %v", err)
	}
	var got []string
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("output %s is not a tuple: %v", out, err)
	}
	if len(got) != 2 || got[0] != "3" || got[1] != "2" {
		t.Fatalf("17 div/rem 5 = %v, want [3 2]", got)
	}

	ok, err := Verify(vk, proof, out)
	if err != nil || !ok {
		t.Fatalf("Verify = %v, %v; want true", ok, err)
	}

	// A (q, r) pair satisfying a = q*b + r but violating 0 <= r < |b|
	// must not verify.
	if ok, _ := Verify(vk, proof, json.RawMessage(`["2", "7"]`)); ok {
		t.Error("Verify must reject a non-Euclidean quotient/remainder claim")
	}
}

// balanceContract has one u64 balance field, a mutating withdraw
// method and a declared-immutable peek method.
func balanceContract() *Contract {
	u64 := value.ScalarType(scalar.Integer(false, 64))
	return &Contract{
		Name: "wallet",
		StorageSchema: []bytecode.ContractField{
			{Name: "balance", Type: bytecode.ValueTypeFrom(u64), IsPublic: true},
		},
		Methods: map[string]Method{
			"withdraw": {
				Address:    0,
				IsMutable:  true,
				InputType:  bytecode.ValueTypeFrom(u64),
				OutputType: bytecode.ValueTypeFrom(u64),
			},
			"peek": {
				Address:    10,
				IsMutable:  false,
				InputType:  bytecode.ValueTypeFrom(value.Unit()),
				OutputType: bytecode.ValueTypeFrom(u64),
			},
		},
		Instructions: []Instruction{
			// withdraw(amount): balance -= amount; return balance
			{Op: bytecode.OpPush, Value: strPtr("0"), Type: u64Tag()}, // 0: storage index
			{Op: bytecode.OpPush, Value: strPtr("0"), Type: u64Tag()}, // 1: load index
			{Op: bytecode.OpStorageLoad, Size: 1},                     // 2: balance
			{Op: bytecode.OpLoad, Address: 0, Size: 1},                // 3: amount
			{Op: bytecode.OpSub},                                      // 4
			{Op: bytecode.OpStore, Address: 1, Size: 1},               // 5: scratch = new balance
			{Op: bytecode.OpLoad, Address: 1, Size: 1},                // 6
			{Op: bytecode.OpStorageStore, Size: 1},                    // 7
			{Op: bytecode.OpLoad, Address: 1, Size: 1},                // 8
			{Op: bytecode.OpExit, OutputSize: 1},                      // 9
			// peek(): return balance
			{Op: bytecode.OpPush, Value: strPtr("0"), Type: u64Tag()}, // 10
			{Op: bytecode.OpStorageLoad, Size: 1},                     // 11
			{Op: bytecode.OpExit, OutputSize: 1},                      // 12
		},
	}
}

// TestSetupProveVerifyMutableMethod proves one withdraw call and
// checks the storage delta carried in the public inputs: the proof
// binds (input, pre-storage) to (output, post-storage).
func TestSetupProveVerifyMutableMethod(t *testing.T) {
	if testing.Short() {
		t.Skip("groth16 setup is slow")
	}
	pk, vk, err := SetupMethod(balanceContract(), "withdraw")
	if err != nil {
		t.Fatalf("SetupMethod: %v", err)
	}

	pre := json.RawMessage(`{"balance": "100"}`)
	proof, out, post, err := ProveMethod(pk, json.RawMessage(`"30"`), pre)
	if err != nil {
		t.Fatalf("ProveMethod: %v", err)
	}
	var gotOut string
	if err := json.Unmarshal(out, &gotOut); err != nil || gotOut != "70" {
		t.Fatalf("withdraw(30) output = %s, want 70 (%v)", out, err)
	}
	var gotPost map[string]string
	if err := json.Unmarshal(post, &gotPost); err != nil || gotPost["balance"] != "70" {
		t.Fatalf("post-storage = %s, want balance 70 (%v)", post, err)
	}

	ok, err := VerifyMethod(vk, proof, out, pre, post)
	if err != nil || !ok {
		t.Fatalf("VerifyMethod = %v, %v; want true", ok, err)
	}

	if ok, _ := VerifyMethod(vk, proof, out, pre, json.RawMessage(`{"balance": "100"}`)); ok {
		t.Error("VerifyMethod must reject a claimed post-storage the method did not produce")
	}
}

// TestSetupProveVerifyImmutableMethod proves the declared-immutable
// peek method and checks the compiled circuit actually ties the public
// pre- and post-storage wires together: a proof only verifies when the
// claimed post-storage equals the pre-storage.
func TestSetupProveVerifyImmutableMethod(t *testing.T) {
	if testing.Short() {
		t.Skip("groth16 setup is slow")
	}
	pk, vk, err := SetupMethod(balanceContract(), "peek")
	if err != nil {
		t.Fatalf("SetupMethod: %v", err)
	}

	pre := json.RawMessage(`{"balance": "100"}`)
	proof, out, post, err := ProveMethod(pk, json.RawMessage(`null`), pre)
	if err != nil {
		t.Fatalf("ProveMethod: %v", err)
	}
	var gotOut string
	if err := json.Unmarshal(out, &gotOut); err != nil || gotOut != "100" {
		t.Fatalf("peek output = %s, want 100 (%v)", out, err)
	}
	var gotPost map[string]string
	if err := json.Unmarshal(post, &gotPost); err != nil || gotPost["balance"] != "100" {
		t.Fatalf("post-storage = %s, want balance 100 (%v)", post, err)
	}

	ok, err := VerifyMethod(vk, proof, out, pre, post)
	if err != nil || !ok {
		t.Fatalf("VerifyMethod = %v, %v; want true", ok, err)
	}

	// The immutability constraint is in the R1CS itself, not just the
	// witness-mode root check: a mutated post-storage claim must fail.
	if ok, _ := VerifyMethod(vk, proof, out, pre, json.RawMessage(`{"balance": "999"}`)); ok {
		t.Error("VerifyMethod must reject a storage mutation by a declared-immutable method")
	}
}
