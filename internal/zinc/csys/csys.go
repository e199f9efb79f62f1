// Package csys abstracts the constraint system that Zinc gadgets emit
// into. It is modeled on gnark's frontend.API: a Variable is an opaque
// handle that is either a compile-time constant or a live wire, and a
// ConstraintSystem is the only thing that knows how to combine them.
//
// Two implementations exist. Witness evaluates gadgets directly over
// the BN254 scalar field with no constraint system at all (used for
// run_circuit / unit tests / input-template derivation). Circuit
// delegates every call to a real gnark frontend.API, so the exact same
// gadget code synthesizes an R1CS when run inside a Groth16 Define.
package csys

import "math/big"

// Mode distinguishes witness-only simulation from constraint synthesis.
type Mode int

const (
	// ModeWitness runs gadgets as plain field arithmetic. No constraints
	// are recorded; every Variable carries a known value.
	ModeWitness Mode = iota
	// ModeConstraint runs gadgets against a real R1CS builder. Variable
	// values are only known while proving, not during key generation.
	ModeConstraint
)

func (m Mode) String() string {
	if m == ModeConstraint {
		return "constraint"
	}
	return "witness"
}

// Variable is an opaque handle into a ConstraintSystem: a compile-time
// constant or a constraint-system wire. Like gnark's frontend.Variable,
// it carries no type information of its own — scalar.Scalar pairs it
// with a static Type.
type Variable = any

// FaultCode classifies why Fault refused to hold.
type FaultCode int

const (
	FaultOverflow FaultCode = iota
	FaultDivisionByZero
	FaultFieldInverseOfZero
	FaultAssertionFailed
)

// FaultError is returned by ConstraintSystem.Fault when a numeric fault
// is provably live (the path condition is concretely true and the
// checked value is concretely false).
type FaultError struct {
	Code    FaultCode
	Message string
}

func (e *FaultError) Error() string { return e.Message }

// ConstraintSystem is the engine's sole gateway to arithmetic. Every
// method must behave identically — same number and shape of emitted
// constraints — no matter what the current values are, which is what
// makes proof verification correspond to bytecode execution.
type ConstraintSystem interface {
	Mode() Mode

	// FieldModulus returns the scalar field's prime modulus (BN256).
	FieldModulus() *big.Int

	// Constant wraps a compile-time-known value. It never touches the
	// underlying constraint system.
	Constant(v *big.Int) Variable

	// NewWitness allocates a private (non-public) variable with the
	// given value. In ModeWitness the value must be non-nil; in
	// ModeConstraint it may be nil during key generation.
	NewWitness(v *big.Int) Variable

	// NewPublicInput allocates a public variable.
	NewPublicInput(v *big.Int) Variable

	// ConstantValue reports whether v is a known compile-time constant
	// and, if so, its value. Mirrors gnark's frontend.API.ConstantValue
	// and is the hook the gadgets' constant-folding layer tests first.
	ConstantValue(v Variable) (*big.Int, bool)

	// Value returns the concrete value of v if one is known right now
	// (always in ModeWitness; only while proving in ModeConstraint).
	Value(v Variable) (*big.Int, bool)

	Add(a, b Variable) Variable
	Sub(a, b Variable) Variable
	Neg(a Variable) Variable
	Mul(a, b Variable) Variable
	// Div computes a/b assuming b != 0; callers are responsible for
	// faulting on zero divisors beforehand (gadget.Div does this).
	Div(a, b Variable) Variable
	// Inverse computes the multiplicative inverse of a, defined to be
	// zero when a is the additive identity; callers check for zero
	// first when a fault is required on that case.
	Inverse(a Variable) Variable

	// ToBinary decomposes a into n little-endian bits.
	ToBinary(a Variable, n int) []Variable
	// FromBinary recomposes little-endian bits into a field value.
	FromBinary(bits ...Variable) Variable

	// IsZero returns 1 if a == 0, else 0.
	IsZero(a Variable) Variable
	// Cmp returns -1, 0 or 1 as a constant-shaped Variable (only valid
	// on values known to fit the comparison's bit width; gadget builds
	// Field-typed Lt/Le/Gt/Ge out of this plus IsZero, while integer
	// ordering uses bit decomposition instead).
	Cmp(a, b Variable) Variable

	Select(cond, a, b Variable) Variable
	And(a, b Variable) Variable
	Or(a, b Variable) Variable
	Xor(a, b Variable) Variable
	Not(a Variable) Variable

	AssertIsEqual(a, b Variable)
	AssertIsBoolean(a Variable)

	// Fault enforces that whenever cond is (concretely or eventually)
	// true, ok must be true too — the "cond·(1−ok)=0" gate behind
	// Require semantics and numeric-fault masking. It
	// returns a *FaultError immediately if the violation is already
	// provable (always true in ModeWitness); otherwise it only emits
	// the constraint and returns nil, deferring the failure to proving
	// time.
	Fault(cond, ok Variable, code FaultCode, message string) error

	// Namespace scopes diagnostic names for nested gadgets; purely
	// cosmetic, mirrors gnark's api.Compiler().... namespacing idiom.
	Namespace(name string) ConstraintSystem

	// Hint allocates nbOutputs non-deterministic variables computed by f
	// from the (concrete, solver-time) values of inputs. Used for
	// Euclidean division's quotient/remainder, which cannot
	// be expressed as a closed-form combination of the existing
	// operators. Mirrors gnark's Compiler.NewHint.
	Hint(f HintFunc, nbOutputs int, inputs ...Variable) ([]Variable, error)
}

// HintFunc computes nbOutputs field values from known input values.
// modulus is the field's prime; inputs/outputs are big.Int
// representatives in [0, modulus).
type HintFunc func(modulus *big.Int, inputs []*big.Int) ([]*big.Int, error)
