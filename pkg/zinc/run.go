package zinc

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/zinc-lang/zinc/internal/zinc/csys"
	"github.com/zinc-lang/zinc/internal/zinc/engine"
)

// RunCircuit executes circuit in witness mode against a JSON input
// conforming to circuit.InputType, returning the JSON output.
func RunCircuit(circuit *Circuit, input json.RawMessage) (json.RawMessage, error) {
	return RunCircuitWithConfig(circuit, input, DefaultVMConfig())
}

// RunCircuitWithConfig is RunCircuit under an explicit VMConfig.
func RunCircuitWithConfig(circuit *Circuit, input json.RawMessage, cfg *VMConfig) (json.RawMessage, error) {
	if err := cfg.Validate(); err != nil {
		return nil, wrap(ErrInvalidConfig, "validating configuration", err)
	}
	cs := csys.NewWitnessSystem()

	inputType, err := circuit.InputType.ToValue()
	if err != nil {
		return nil, wrap(ErrMalformedBytecode, "resolving circuit input type", err)
	}
	inVal, err := JSONToValue(cs, inputType, input)
	if err != nil {
		return nil, err
	}

	outVal, err := engine.RunCircuit(cs, circuit, inVal, cfg.engineOptions()...)
	if err != nil {
		return nil, classifyEngineError(err)
	}

	out, err := ValueToJSON(cs, outVal)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RunMethod executes one contract method in witness mode, fetching and
// committing storage through keeper at addr.
func RunMethod(contract *Contract, methodName string, input json.RawMessage, keeper Keeper, addr Address) (json.RawMessage, []byte, error) {
	return RunMethodWithConfig(contract, methodName, input, keeper, addr, DefaultVMConfig())
}

// RunMethodWithConfig is RunMethod under an explicit VMConfig.
func RunMethodWithConfig(contract *Contract, methodName string, input json.RawMessage, keeper Keeper, addr Address, cfg *VMConfig) (json.RawMessage, []byte, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, wrap(ErrInvalidConfig, "validating configuration", err)
	}
	cs := csys.NewWitnessSystem()

	method, ok := contract.Methods[methodName]
	if !ok {
		return nil, nil, wrap(ErrMalformedBytecode, fmt.Sprintf("contract %q has no method %q", contract.Name, methodName), nil)
	}
	if size := schemaSize(contract); size > 1<<cfg.StorageTreeDepth {
		return nil, nil, wrap(ErrStorageFault, fmt.Sprintf("storage schema flattens to %d scalars, more than a depth-%d tree can address", size, cfg.StorageTreeDepth), nil)
	}
	inputType, err := method.InputType.ToValue()
	if err != nil {
		return nil, nil, wrap(ErrMalformedBytecode, "resolving method input type", err)
	}
	inVal, err := JSONToValue(cs, inputType, input)
	if err != nil {
		return nil, nil, err
	}

	outVal, root, err := engine.RunMethod(cs, contract, methodName, inVal, keeper, addr, cfg.engineOptions()...)
	if err != nil {
		return nil, nil, classifyEngineError(err)
	}

	out, err := ValueToJSON(cs, outVal)
	if err != nil {
		return nil, nil, err
	}
	return out, root, nil
}

func schemaSize(contract *Contract) int {
	total := 0
	for _, f := range contract.StorageSchema {
		t, err := f.Type.ToValue()
		if err != nil {
			continue
		}
		total += t.Size()
	}
	return total
}

// classifyEngineError wraps a raw internal error in the public
// VMError taxonomy, distinguishing a live numeric/assertion fault
// (csys.FaultError) from every other engine failure.
func classifyEngineError(err error) error {
	// Overflow, division by zero, field inversion of zero, and
	// assertion failure form one "numeric fault" category, live only
	// under a true path condition.
	var fault *csys.FaultError
	if errors.As(err, &fault) {
		return wrap(ErrNumericFault, fault.Message, err)
	}
	switch {
	case strings.Contains(err.Error(), "storage:"):
		return wrap(ErrStorageFault, "executing application", err)
	case strings.Contains(err.Error(), "value:"):
		return wrap(ErrTypeMismatch, "executing application", err)
	default:
		return wrap(ErrMalformedBytecode, "executing application", err)
	}
}
