package zinc

import (
	"encoding/json"
	"fmt"

	"github.com/zinc-lang/zinc/internal/zinc/bytecode"
)

// Application, Circuit, Contract and their nested types are the
// external bytecode/application file format, re-exported
// here unchanged so callers never need to import internal/zinc
// themselves.
type (
	Application   = bytecode.Application
	Circuit       = bytecode.Circuit
	Contract      = bytecode.Contract
	Method        = bytecode.Method
	ContractField = bytecode.ContractField
	UnitTest      = bytecode.UnitTest
	Instruction   = bytecode.Instruction
	Opcode        = bytecode.Opcode
	ValueType     = bytecode.ValueType
)

// LoadApplication parses an Application from its JSON file format.
func LoadApplication(data []byte) (*Application, error) {
	var app Application
	if err := json.Unmarshal(data, &app); err != nil {
		return nil, wrap(ErrInvalidInput, "decoding application JSON", err)
	}
	if app.Kind != "Circuit" && app.Kind != "Contract" {
		return nil, wrap(ErrMalformedBytecode, fmt.Sprintf("application kind must be \"Circuit\" or \"Contract\", got %q", app.Kind), nil)
	}
	if app.Kind == "Circuit" && app.Circuit == nil {
		return nil, wrap(ErrMalformedBytecode, "application kind is \"Circuit\" but circuit field is absent", nil)
	}
	if app.Kind == "Contract" && app.Contract == nil {
		return nil, wrap(ErrMalformedBytecode, "application kind is \"Contract\" but contract field is absent", nil)
	}
	return &app, nil
}
