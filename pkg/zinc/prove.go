package zinc

import (
	"encoding/json"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"

	"github.com/zinc-lang/zinc/internal/zinc/bytecode"
	"github.com/zinc-lang/zinc/internal/zinc/csys"
	"github.com/zinc-lang/zinc/internal/zinc/engine"
	"github.com/zinc-lang/zinc/internal/zinc/scalar"
	"github.com/zinc-lang/zinc/internal/zinc/value"
)

// programAdapter wraps one Circuit's, or one Contract method's,
// bytecode as a gnark frontend.Circuit. Input/Output (and, for a
// contract method, PreStorage/PostStorage) are pre-declared
// frontend.Variable slices sized from the application's declared
// types, since a dynamically bytecode-driven circuit cannot add
// struct fields mid Define. Output, PreStorage and PostStorage are
// public — the verifier needs the claimed output and storage delta to
// check the Merkle roots off-circuit, since the compiled circuit does
// not synthesize the Merkle authentication path itself. The
// unexported fields below carry program metadata the reflection-based
// gnark witness builder ignores; only the frontend.Variable slice
// fields are part of the circuit's public/private assignment.
type programAdapter struct {
	instrs      []bytecode.Instruction
	entry       uint32
	methodName  string
	isMutable   bool
	inputType   value.Type
	outputType  value.Type
	inTypes     []scalar.Type
	outTypes    []scalar.Type
	storageType value.Type
	storeTypes  []scalar.Type

	Input       []frontend.Variable
	Output      []frontend.Variable `gnark:",public"`
	PreStorage  []frontend.Variable `gnark:",public"`
	PostStorage []frontend.Variable `gnark:",public"`
}

func (a *programAdapter) isMethod() bool { return a.storeTypes != nil }

// clone returns a copy of a with fresh, zeroed wire slices — the
// witness assignment for one Prove/Verify call, sharing the compiled
// program's static metadata.
func (a *programAdapter) clone() *programAdapter {
	c := *a
	c.Input = make([]frontend.Variable, len(a.Input))
	c.Output = make([]frontend.Variable, len(a.Output))
	c.PreStorage = make([]frontend.Variable, len(a.PreStorage))
	c.PostStorage = make([]frontend.Variable, len(a.PostStorage))
	return &c
}

func newCircuitProgramAdapter(c *bytecode.Circuit) (*programAdapter, error) {
	inputType, err := c.InputType.ToValue()
	if err != nil {
		return nil, wrap(ErrMalformedBytecode, "resolving circuit input type", err)
	}
	outputType, err := c.OutputType.ToValue()
	if err != nil {
		return nil, wrap(ErrMalformedBytecode, "resolving circuit output type", err)
	}
	inTypes := inputType.FlatScalarTypes()
	outTypes := outputType.FlatScalarTypes()
	return &programAdapter{
		instrs:     c.Instructions,
		entry:      c.EntryAddress,
		inputType:  inputType,
		outputType: outputType,
		inTypes:    inTypes,
		outTypes:   outTypes,
		Input:      make([]frontend.Variable, len(inTypes)),
		Output:     make([]frontend.Variable, len(outTypes)),
	}, nil
}

func newMethodProgramAdapter(contract *bytecode.Contract, methodName string) (*programAdapter, error) {
	method, ok := contract.Methods[methodName]
	if !ok {
		return nil, wrap(ErrMalformedBytecode, fmt.Sprintf("contract %q has no method %q", contract.Name, methodName), nil)
	}
	inputType, err := method.InputType.ToValue()
	if err != nil {
		return nil, wrap(ErrMalformedBytecode, "resolving method input type", err)
	}
	outputType, err := method.OutputType.ToValue()
	if err != nil {
		return nil, wrap(ErrMalformedBytecode, "resolving method output type", err)
	}
	storageFields := make([]value.ContractFieldType, len(contract.StorageSchema))
	for i, f := range contract.StorageSchema {
		t, err := f.Type.ToValue()
		if err != nil {
			return nil, wrap(ErrMalformedBytecode, "resolving storage schema", err)
		}
		storageFields[i] = value.ContractFieldType{Name: f.Name, Type: t, IsPublic: f.IsPublic, IsImplicit: f.IsImplicit}
	}
	storageType := value.ContractType(storageFields...)

	inTypes := inputType.FlatScalarTypes()
	outTypes := outputType.FlatScalarTypes()
	storeTypes := storageType.FlatScalarTypes()
	return &programAdapter{
		instrs:      contract.Instructions,
		entry:       method.Address,
		methodName:  methodName,
		isMutable:   method.IsMutable,
		inputType:   inputType,
		outputType:  outputType,
		inTypes:     inTypes,
		outTypes:    outTypes,
		storageType: storageType,
		storeTypes:  storeTypes,
		Input:       make([]frontend.Variable, len(inTypes)),
		Output:      make([]frontend.Variable, len(outTypes)),
		PreStorage:  make([]frontend.Variable, len(storeTypes)),
		PostStorage: make([]frontend.Variable, len(storeTypes)),
	}, nil
}

func (a *programAdapter) Define(api frontend.API) error {
	cs := csys.NewCircuitSystem(api)

	inScalars := make([]scalar.Scalar, len(a.Input))
	for i, v := range a.Input {
		inScalars[i] = scalar.New(a.inTypes[i], v)
	}
	inputVal, err := value.UnflattenExact(a.inputType, inScalars)
	if err != nil {
		return err
	}

	if !a.isMethod() {
		c := &bytecode.Circuit{
			EntryAddress: a.entry,
			InputType:    bytecode.ValueTypeFrom(a.inputType),
			OutputType:   bytecode.ValueTypeFrom(a.outputType),
			Instructions: a.instrs,
		}
		outVal, err := engine.RunCircuit(cs, c, inputVal)
		if err != nil {
			return err
		}
		return assertFlatEqual(cs, outVal, a.Output)
	}

	preScalars := make([]scalar.Scalar, len(a.PreStorage))
	for i, v := range a.PreStorage {
		preScalars[i] = scalar.New(a.storeTypes[i], v)
	}
	contract := &bytecode.Contract{
		Methods: map[string]bytecode.Method{
			a.methodName: {
				Address:    a.entry,
				InputType:  bytecode.ValueTypeFrom(a.inputType),
				OutputType: bytecode.ValueTypeFrom(a.outputType),
				IsMutable:  a.isMutable,
			},
		},
		Instructions: a.instrs,
	}
	outVal, postScalars, err := engine.RunMethodWithStorage(cs, contract, a.methodName, inputVal, preScalars)
	if err != nil {
		return err
	}
	if err := assertFlatEqual(cs, outVal, a.Output); err != nil {
		return err
	}
	if len(postScalars) != len(a.PostStorage) {
		return fmt.Errorf("zinc: post-storage arity mismatch: got %d scalars, expected %d", len(postScalars), len(a.PostStorage))
	}
	for i, s := range postScalars {
		cs.AssertIsEqual(s.Value, a.PostStorage[i])
	}

	// Mutability discipline: for a
	// declared-immutable method this must be an actual R1CS constraint
	// on the public PreStorage/PostStorage wires, not just a witness-mode
	// byte comparison after the fact — otherwise a prover could generate
	// a verifying proof for an "immutable" method that silently changed
	// storage, since nothing in the compiled circuit would forbid it.
	if !a.isMutable {
		if len(a.PreStorage) != len(a.PostStorage) {
			return fmt.Errorf("zinc: storage arity mismatch: pre has %d scalars, post has %d", len(a.PreStorage), len(a.PostStorage))
		}
		for i := range a.PreStorage {
			cs.AssertIsEqual(a.PreStorage[i], a.PostStorage[i])
		}
	}
	return nil
}

func assertFlatEqual(cs csys.ConstraintSystem, v value.Value, want []frontend.Variable) error {
	flat := value.Flatten(v)
	if len(flat) != len(want) {
		return fmt.Errorf("zinc: output arity mismatch: got %d scalars, expected %d", len(flat), len(want))
	}
	for i, s := range flat {
		cs.AssertIsEqual(s.Value, want[i])
	}
	return nil
}

// ProvingKey bundles a compiled constraint system with the Groth16
// proving key generated for it.
type ProvingKey struct {
	ccs     constraint.ConstraintSystem
	pk      groth16.ProvingKey
	adapter *programAdapter
}

// VerifyingKey is the Groth16 verifying key for one compiled program.
type VerifyingKey struct {
	vk      groth16.VerifyingKey
	adapter *programAdapter
}

// Proof is an opaque Groth16 proof.
type Proof struct {
	proof groth16.Proof
}

// Setup compiles circuit to R1CS and runs the Groth16 trusted setup.
func Setup(circuit *Circuit) (*ProvingKey, *VerifyingKey, error) {
	adapter, err := newCircuitProgramAdapter(circuit)
	if err != nil {
		return nil, nil, err
	}
	return setupAdapter(adapter)
}

// SetupMethod compiles one contract method to R1CS and runs the
// Groth16 trusted setup.
func SetupMethod(contract *Contract, methodName string) (*ProvingKey, *VerifyingKey, error) {
	adapter, err := newMethodProgramAdapter(contract, methodName)
	if err != nil {
		return nil, nil, err
	}
	return setupAdapter(adapter)
}

func setupAdapter(adapter *programAdapter) (*ProvingKey, *VerifyingKey, error) {
	ccs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, adapter)
	if err != nil {
		return nil, nil, wrap(ErrConstraintSystem, "compiling circuit", err)
	}
	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return nil, nil, wrap(ErrConstraintSystem, "running trusted setup", err)
	}
	return &ProvingKey{ccs: ccs, pk: pk, adapter: adapter}, &VerifyingKey{vk: vk, adapter: adapter}, nil
}

// ProveCircuit runs circuit in witness mode to compute the concrete
// output, then produces a Groth16 proof that the compiled circuit
// accepts (input, output). It returns the proof and the output JSON.
func ProveCircuit(pk *ProvingKey, input json.RawMessage) (*Proof, json.RawMessage, error) {
	ws := csys.NewWitnessSystem()
	inVal, err := JSONToValue(ws, pk.adapter.inputType, input)
	if err != nil {
		return nil, nil, err
	}

	c := &bytecode.Circuit{
		EntryAddress: pk.adapter.entry,
		InputType:    bytecode.ValueTypeFrom(pk.adapter.inputType),
		OutputType:   bytecode.ValueTypeFrom(pk.adapter.outputType),
		Instructions: pk.adapter.instrs,
	}
	outVal, err := engine.RunCircuit(ws, c, inVal)
	if err != nil {
		return nil, nil, classifyEngineError(err)
	}

	assignment := pk.adapter.clone()
	if err := fillWires(ws, assignment.Input, assignment.inTypes, value.Flatten(inVal)); err != nil {
		return nil, nil, err
	}
	if err := fillWires(ws, assignment.Output, assignment.outTypes, value.Flatten(outVal)); err != nil {
		return nil, nil, err
	}

	fullWitness, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
	if err != nil {
		return nil, nil, wrap(ErrConstraintSystem, "building witness", err)
	}
	proof, err := groth16.Prove(pk.ccs, pk.pk, fullWitness)
	if err != nil {
		return nil, nil, wrap(ErrConstraintSystem, "proving", err)
	}

	outJSON, err := ValueToJSON(ws, outVal)
	if err != nil {
		return nil, nil, err
	}
	return &Proof{proof: proof}, outJSON, nil
}

// Verify checks proof against vk and the claimed output JSON.
func Verify(vk *VerifyingKey, proof *Proof, output json.RawMessage) (bool, error) {
	ws := csys.NewWitnessSystem()
	outVal, err := JSONToValue(ws, vk.adapter.outputType, output)
	if err != nil {
		return false, err
	}

	assignment := vk.adapter.clone()
	if err := fillWires(ws, assignment.Output, assignment.outTypes, value.Flatten(outVal)); err != nil {
		return false, err
	}

	publicWitness, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return false, wrap(ErrConstraintSystem, "building public witness", err)
	}
	if err := groth16.Verify(proof.proof, vk.vk, publicWitness); err != nil {
		return false, wrap(ErrInvalidProof, "proof did not verify", err)
	}
	return true, nil
}

// ProveMethod runs one contract method in witness mode against
// preStorage, then produces a Groth16 proof that the compiled method
// accepts (input, preStorage) and produces (output, postStorage). It
// returns the proof, the output JSON and the post-storage JSON.
func ProveMethod(pk *ProvingKey, input json.RawMessage, preStorage json.RawMessage) (*Proof, json.RawMessage, json.RawMessage, error) {
	ws := csys.NewWitnessSystem()
	inVal, err := JSONToValue(ws, pk.adapter.inputType, input)
	if err != nil {
		return nil, nil, nil, err
	}
	preVal, err := JSONToValue(ws, pk.adapter.storageType, preStorage)
	if err != nil {
		return nil, nil, nil, err
	}

	contract := &bytecode.Contract{
		Methods: map[string]bytecode.Method{
			pk.adapter.methodName: {
				Address:    pk.adapter.entry,
				InputType:  bytecode.ValueTypeFrom(pk.adapter.inputType),
				OutputType: bytecode.ValueTypeFrom(pk.adapter.outputType),
			},
		},
		Instructions: pk.adapter.instrs,
	}
	outVal, postScalars, err := engine.RunMethodWithStorage(ws, contract, pk.adapter.methodName, inVal, value.Flatten(preVal))
	if err != nil {
		return nil, nil, nil, classifyEngineError(err)
	}
	postVal, err := value.UnflattenExact(pk.adapter.storageType, postScalars)
	if err != nil {
		return nil, nil, nil, wrap(ErrStorageFault, "reconstructing post-storage", err)
	}

	assignment := pk.adapter.clone()
	if err := fillWires(ws, assignment.Input, assignment.inTypes, value.Flatten(inVal)); err != nil {
		return nil, nil, nil, err
	}
	if err := fillWires(ws, assignment.Output, assignment.outTypes, value.Flatten(outVal)); err != nil {
		return nil, nil, nil, err
	}
	if err := fillWires(ws, assignment.PreStorage, assignment.storeTypes, value.Flatten(preVal)); err != nil {
		return nil, nil, nil, err
	}
	if err := fillWires(ws, assignment.PostStorage, assignment.storeTypes, postScalars); err != nil {
		return nil, nil, nil, err
	}

	fullWitness, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
	if err != nil {
		return nil, nil, nil, wrap(ErrConstraintSystem, "building witness", err)
	}
	proof, err := groth16.Prove(pk.ccs, pk.pk, fullWitness)
	if err != nil {
		return nil, nil, nil, wrap(ErrConstraintSystem, "proving", err)
	}

	outJSON, err := ValueToJSON(ws, outVal)
	if err != nil {
		return nil, nil, nil, err
	}
	postJSON, err := ValueToJSON(ws, postVal)
	if err != nil {
		return nil, nil, nil, err
	}
	return &Proof{proof: proof}, outJSON, postJSON, nil
}

// VerifyMethod checks proof against vk and the claimed output,
// pre-storage and post-storage JSON — all three are public inputs of
// the compiled method circuit.
func VerifyMethod(vk *VerifyingKey, proof *Proof, output, preStorage, postStorage json.RawMessage) (bool, error) {
	ws := csys.NewWitnessSystem()
	outVal, err := JSONToValue(ws, vk.adapter.outputType, output)
	if err != nil {
		return false, err
	}
	preVal, err := JSONToValue(ws, vk.adapter.storageType, preStorage)
	if err != nil {
		return false, err
	}
	postVal, err := JSONToValue(ws, vk.adapter.storageType, postStorage)
	if err != nil {
		return false, err
	}

	assignment := vk.adapter.clone()
	if err := fillWires(ws, assignment.Output, assignment.outTypes, value.Flatten(outVal)); err != nil {
		return false, err
	}
	if err := fillWires(ws, assignment.PreStorage, assignment.storeTypes, value.Flatten(preVal)); err != nil {
		return false, err
	}
	if err := fillWires(ws, assignment.PostStorage, assignment.storeTypes, value.Flatten(postVal)); err != nil {
		return false, err
	}

	publicWitness, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return false, wrap(ErrConstraintSystem, "building public witness", err)
	}
	if err := groth16.Verify(proof.proof, vk.vk, publicWitness); err != nil {
		return false, wrap(ErrInvalidProof, "proof did not verify", err)
	}
	return true, nil
}

func fillWires(ws csys.ConstraintSystem, dst []frontend.Variable, types []scalar.Type, scalars []scalar.Scalar) error {
	if len(dst) != len(scalars) {
		return fmt.Errorf("zinc: witness arity mismatch: %d wires, %d scalars", len(dst), len(scalars))
	}
	for i, s := range scalars {
		v, ok := scalar.IsConstant(ws, s)
		if !ok {
			return fmt.Errorf("zinc: witness scalar %d is not a compile-time constant", i)
		}
		canonical := canonicalize(types[i], v, ws)
		dst[i] = frontend.Variable(canonical)
	}
	return nil
}
