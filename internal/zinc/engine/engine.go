// Package engine implements the fetch-decode-execute loop that
// drives execution state (package state) through a bytecode stream,
// invoking arithmetic gadgets (package gadget), standard-library
// built-ins (package stdlib), and contract storage (package storage)
// as instructions demand.
package engine

import (
	"fmt"
	"io"
	"math/big"
	"os"

	"github.com/zinc-lang/zinc/internal/zinc/bytecode"
	"github.com/zinc-lang/zinc/internal/zinc/csys"
	"github.com/zinc-lang/zinc/internal/zinc/scalar"
	"github.com/zinc-lang/zinc/internal/zinc/state"
	"github.com/zinc-lang/zinc/internal/zinc/stdlib"
	"github.com/zinc-lang/zinc/internal/zinc/storage"
	"github.com/zinc-lang/zinc/internal/zinc/value"
)

// sourceLoc is the most recent file/line/column/function marker
// quadruple seen in the instruction stream, attached to execution
// errors so faults report where in the source program they happened.
type sourceLoc struct {
	file     string
	function string
	line     uint32
	column   uint32
}

func (l sourceLoc) known() bool { return l.file != "" || l.function != "" }

func (l sourceLoc) String() string {
	s := fmt.Sprintf("%s:%d:%d", l.file, l.line, l.column)
	if l.function != "" {
		s += " in " + l.function
	}
	return s
}

// Machine runs one instruction stream to completion. It is
// parameterized over the constraint system and, for contracts, the storage keeper.
type Machine struct {
	cs         csys.ConstraintSystem
	instrs     []bytecode.Instruction
	st         *state.State
	storageBuf []scalar.Scalar // flattened contract storage cache, nil for circuits
	transfers  []stdlib.TransferRecord

	debug          io.Writer
	callDepthLimit int
	loc            sourceLoc
}

// Option adjusts one Machine knob before execution starts.
type Option func(*Machine)

// WithDebugWriter routes Dbg opcode output to w instead of stderr.
func WithDebugWriter(w io.Writer) Option {
	return func(m *Machine) { m.debug = w }
}

// WithCallDepthLimit bounds nested Call frames, guarding against a
// malformed bytecode stream that recurses without returning.
func WithCallDepthLimit(limit int) Option {
	return func(m *Machine) { m.callDepthLimit = limit }
}

const defaultCallDepthLimit = 1024

func newMachine(cs csys.ConstraintSystem, instrs []bytecode.Instruction, opts []Option) *Machine {
	m := &Machine{
		cs:             cs,
		instrs:         instrs,
		st:             state.New(cs),
		debug:          os.Stderr,
		callDepthLimit: defaultCallDepthLimit,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RunCircuit executes a circuit with no persistent state.
func RunCircuit(cs csys.ConstraintSystem, circuit *bytecode.Circuit, input value.Value, opts ...Option) (value.Value, error) {
	m := newMachine(cs, circuit.Instructions, opts)
	m.st.StoreData(0, value.Flatten(input))
	m.st.SetPC(circuit.EntryAddress)

	out, err := m.run()
	if err != nil {
		return value.Value{}, err
	}
	outType, err := circuit.OutputType.ToValue()
	if err != nil {
		return value.Value{}, err
	}
	return value.UnflattenExact(outType, out)
}

// RunMethod executes one contract method against storage fetched from
// keeper at addr, returning the method's output and the contract's new
// storage root.
func RunMethod(cs csys.ConstraintSystem, contract *bytecode.Contract, methodName string, input value.Value, keeper storage.Keeper, addr storage.Address, opts ...Option) (value.Value, []byte, error) {
	method, ok := contract.Methods[methodName]
	if !ok {
		return value.Value{}, nil, fmt.Errorf("engine: contract %q has no method %q", contract.Name, methodName)
	}

	schemaType, err := schemaValueType(contract.StorageSchema)
	if err != nil {
		return value.Value{}, nil, err
	}
	preValue, err := keeper.Fetch(cs, addr, schemaType)
	if err != nil {
		return value.Value{}, nil, fmt.Errorf("engine: fetching storage: %w", err)
	}
	preRoot, err := keeper.Commit(cs, addr, schemaType, preValue)
	if err != nil {
		return value.Value{}, nil, err
	}

	output, postStorage, err := RunMethodWithStorage(cs, contract, methodName, input, value.Flatten(preValue), opts...)
	if err != nil {
		return value.Value{}, nil, err
	}

	postValue, err := value.UnflattenExact(schemaType, postStorage)
	if err != nil {
		return value.Value{}, nil, fmt.Errorf("engine: reconstructing post-storage: %w", err)
	}
	postRoot, err := keeper.Commit(cs, addr, schemaType, postValue)
	if err != nil {
		return value.Value{}, nil, err
	}

	if !method.IsMutable {
		// Mutability discipline: a declared-immutable
		// method's storage must come back byte-identical.
		if !bytesEqual(preRoot, postRoot) {
			return value.Value{}, nil, fmt.Errorf("engine: method %q is declared immutable but mutated storage", methodName)
		}
	}

	return output, postRoot, nil
}

// RunMethodWithStorage executes one contract method against an
// explicit pre-storage scalar sequence rather than a keeper, returning
// the method's output and the post-execution storage scalars. This is
// the shape a Groth16 Define needs: pre/post storage arrive as
// pre-declared circuit variables rather than via keeper I/O, which has
// no meaning inside constraint synthesis. RunMethod above is the
// witness-mode wrapper around this that adds keeper Fetch/Commit and
// the mutability check.
func RunMethodWithStorage(cs csys.ConstraintSystem, contract *bytecode.Contract, methodName string, input value.Value, preStorage []scalar.Scalar, opts ...Option) (value.Value, []scalar.Scalar, error) {
	method, ok := contract.Methods[methodName]
	if !ok {
		return value.Value{}, nil, fmt.Errorf("engine: contract %q has no method %q", contract.Name, methodName)
	}

	m := newMachine(cs, contract.Instructions, opts)
	m.storageBuf = preStorage
	m.st.StoreData(0, value.Flatten(input))
	m.st.SetPC(method.Address)

	out, err := m.run()
	if err != nil {
		return value.Value{}, nil, err
	}

	outType, err := method.OutputType.ToValue()
	if err != nil {
		return value.Value{}, nil, err
	}
	output, err := value.UnflattenExact(outType, out)
	if err != nil {
		return value.Value{}, nil, err
	}

	return output, m.storageBuf, nil
}

// RunTest executes one unit-test entry: jump to its address with no
// input and run to Exit, discarding any output. A contract's test gets
// its zero-valued flattened storage in storageBuf; a circuit's test
// passes nil.
func RunTest(cs csys.ConstraintSystem, instrs []bytecode.Instruction, addr uint32, storageBuf []scalar.Scalar, opts ...Option) error {
	m := newMachine(cs, instrs, opts)
	m.storageBuf = storageBuf
	m.st.SetPC(addr)
	_, err := m.run()
	return err
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func schemaValueType(fields []bytecode.ContractField) (value.Type, error) {
	cf := make([]value.ContractFieldType, len(fields))
	for i, f := range fields {
		t, err := f.Type.ToValue()
		if err != nil {
			return value.Type{}, err
		}
		cf[i] = value.ContractFieldType{Name: f.Name, Type: t, IsPublic: f.IsPublic, IsImplicit: f.IsImplicit}
	}
	return value.ContractType(cf...), nil
}

// run drives the fetch-decode-execute loop until an Exit instruction
// returns the final output scalars.
func (m *Machine) run() ([]scalar.Scalar, error) {
	for {
		pc := m.st.PC()
		if int(pc) >= len(m.instrs) {
			return nil, fmt.Errorf("engine: program counter %d out of range (stream has %d instructions)", pc, len(m.instrs))
		}
		instr := m.instrs[pc]

		if instr.Op == bytecode.OpExit {
			out := make([]scalar.Scalar, instr.OutputSize)
			for i := int(instr.OutputSize) - 1; i >= 0; i-- {
				s, err := m.st.PopScalar()
				if err != nil {
					return nil, err
				}
				out[i] = s
			}
			return out, nil
		}

		if err := m.step(instr); err != nil {
			if m.loc.known() {
				return nil, fmt.Errorf("engine: at pc=%d (%s), %s: %w", pc, instr.Op, m.loc, err)
			}
			return nil, fmt.Errorf("engine: at pc=%d (%s): %w", pc, instr.Op, err)
		}
	}
}

func (m *Machine) cond() csys.Variable { return m.st.PathCondition() }

func (m *Machine) popOperands(n int) ([]scalar.Scalar, error) {
	out := make([]scalar.Scalar, n)
	for i := n - 1; i >= 0; i-- {
		s, err := m.st.PopScalar()
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func bigFromDecimal(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("engine: malformed decimal literal %q", s)
	}
	return v, nil
}
