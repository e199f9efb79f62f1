// Package stdlib implements the closed CallLibrary dispatch
// table of built-in functions bytecode can invoke through a single
// opcode family.
package stdlib

import (
	"fmt"

	"github.com/zinc-lang/zinc/internal/zinc/csys"
	"github.com/zinc-lang/zinc/internal/zinc/scalar"
)

// Func is one built-in's gadget: given the active path condition and
// its input scalars, produce its outputs. Each built-in checks its own
// arity; Call does not.
type Func func(cs csys.ConstraintSystem, cond csys.Variable, args []scalar.Scalar) ([]scalar.Scalar, error)

// table is the closed built-in enumeration — adding one
// means adding both an entry here and the identifier the compiler
// emits, mirroring a co-processor dispatch table.
var table = map[string]Func{
	"sha256":                   sha256Builtin,
	"pedersen":                 pedersenBuiltin,
	"schnorr_signature_verify": schnorrVerifyBuiltin,
	"to_bits":                  toBitsBuiltin,
	"from_bits_unsigned":       fromBitsUnsignedBuiltin,
	"from_bits_signed":         fromBitsSignedBuiltin,
	"from_bits_field":          fromBitsFieldBuiltin,
	"array_reverse":            arrayReverseBuiltin,
	"array_truncate":           arrayTruncateBuiltin,
	"array_pad":                arrayPadBuiltin,
	"field_inverse":            fieldInverseBuiltin,
	"zksync_transfer":          zkSyncTransferBuiltin,
}

// Call dispatches identifier against the closed table.
func Call(cs csys.ConstraintSystem, cond csys.Variable, identifier string, args []scalar.Scalar) ([]scalar.Scalar, error) {
	f, ok := table[identifier]
	if !ok {
		return nil, fmt.Errorf("stdlib: unknown built-in %q", identifier)
	}
	return f(cs, cond, args)
}

func requireBoolean(s scalar.Scalar) error {
	if s.Typ.Kind != scalar.KindBoolean {
		return fmt.Errorf("stdlib: expected bool argument, got %s", s.Typ)
	}
	return nil
}

func requireArity(args []scalar.Scalar, n int, name string) error {
	if len(args) < n {
		return fmt.Errorf("stdlib: %s requires at least %d arguments, got %d", name, n, len(args))
	}
	return nil
}
