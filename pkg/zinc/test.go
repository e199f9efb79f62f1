package zinc

import (
	"errors"
	"math/big"
	"sort"

	"github.com/zinc-lang/zinc/internal/zinc/csys"
	"github.com/zinc-lang/zinc/internal/zinc/engine"
	"github.com/zinc-lang/zinc/internal/zinc/scalar"
)

// UnitTestStatus is a unit test's outcome. The numeric values are the
// exit codes the test runner reports.
type UnitTestStatus int

const (
	TestPassed  UnitTestStatus = 0
	TestInvalid UnitTestStatus = 1
	TestFailed  UnitTestStatus = 2
	TestIgnored UnitTestStatus = 3
)

func (s UnitTestStatus) String() string {
	switch s {
	case TestPassed:
		return "passed"
	case TestInvalid:
		return "invalid"
	case TestFailed:
		return "failed"
	case TestIgnored:
		return "ignored"
	default:
		return "unknown"
	}
}

// UnitTestResult is one executed unit test's name and outcome.
type UnitTestResult struct {
	Name   string
	Status UnitTestStatus
	Err    error // the underlying failure for failed/invalid, nil otherwise
}

// RunUnitTests executes every unit test the application declares, in
// name order, and reports each outcome. A test marked should_panic has
// its passed/failed verdict inverted: it passes only when execution
// faults.
func RunUnitTests(app *Application) ([]UnitTestResult, error) {
	return RunUnitTestsWithConfig(app, DefaultVMConfig())
}

// RunUnitTestsWithConfig is RunUnitTests under an explicit VMConfig.
func RunUnitTestsWithConfig(app *Application, cfg *VMConfig) ([]UnitTestResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, wrap(ErrInvalidConfig, "validating configuration", err)
	}

	var tests map[string]UnitTest
	var instrs []Instruction
	var contract *Contract
	switch app.Kind {
	case "Circuit":
		tests = app.Circuit.UnitTests
		instrs = app.Circuit.Instructions
	case "Contract":
		tests = app.Contract.UnitTests
		instrs = app.Contract.Instructions
		contract = app.Contract
	default:
		return nil, wrap(ErrMalformedBytecode, "application is neither a circuit nor a contract", nil)
	}

	names := make([]string, 0, len(tests))
	for name := range tests {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make([]UnitTestResult, 0, len(names))
	for _, name := range names {
		results = append(results, runUnitTest(name, tests[name], instrs, contract, cfg))
	}
	return results, nil
}

func runUnitTest(name string, ut UnitTest, instrs []Instruction, contract *Contract, cfg *VMConfig) UnitTestResult {
	if ut.IsIgnored {
		return UnitTestResult{Name: name, Status: TestIgnored}
	}

	cs := csys.NewWitnessSystem()
	storageBuf, err := zeroStorage(cs, contract)
	if err != nil {
		return UnitTestResult{Name: name, Status: TestInvalid, Err: err}
	}

	err = engine.RunTest(cs, instrs, ut.Address, storageBuf, cfg.engineOptions()...)
	status := TestPassed
	if err != nil {
		var fault *csys.FaultError
		if errors.As(err, &fault) {
			status = TestFailed
		} else {
			// Anything other than a live numeric/assertion fault means
			// the test never meaningfully ran.
			return UnitTestResult{Name: name, Status: TestInvalid, Err: err}
		}
	}

	if ut.ShouldPanic {
		if status == TestPassed {
			return UnitTestResult{Name: name, Status: TestFailed, Err: errors.New("test was expected to panic but completed")}
		}
		return UnitTestResult{Name: name, Status: TestPassed}
	}
	return UnitTestResult{Name: name, Status: status, Err: err}
}

// zeroStorage builds the zero-valued flattened storage a contract's
// unit test starts from; circuits (contract == nil) have none.
func zeroStorage(cs csys.ConstraintSystem, contract *Contract) ([]scalar.Scalar, error) {
	if contract == nil {
		return nil, nil
	}
	var buf []scalar.Scalar
	for _, f := range contract.StorageSchema {
		t, err := f.Type.ToValue()
		if err != nil {
			return nil, wrap(ErrMalformedBytecode, "resolving storage schema", err)
		}
		for _, st := range t.FlatScalarTypes() {
			buf = append(buf, scalar.ConstantFrom(cs, st, big.NewInt(0)))
		}
	}
	return buf, nil
}
