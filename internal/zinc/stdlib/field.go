package stdlib

import (
	"fmt"

	"github.com/zinc-lang/zinc/internal/zinc/csys"
	"github.com/zinc-lang/zinc/internal/zinc/scalar"
)

// fieldInverseBuiltin implements stdlib.field_inverse(field -> field)
//: faults under the active path condition if the input is
// zero, since zero has no multiplicative inverse.
func fieldInverseBuiltin(cs csys.ConstraintSystem, cond csys.Variable, args []scalar.Scalar) ([]scalar.Scalar, error) {
	if err := requireArity(args, 1, "field_inverse"); err != nil {
		return nil, err
	}
	a := args[0]
	if a.Typ.Kind != scalar.KindField {
		return nil, fmt.Errorf("stdlib: field_inverse requires a field scalar, got %s", a.Typ)
	}
	isZero := cs.IsZero(a.Value)
	nonZero := cs.Not(isZero)
	if err := cs.Fault(cond, nonZero, csys.FaultFieldInverseOfZero, "field_inverse: input is zero"); err != nil {
		return nil, err
	}
	return []scalar.Scalar{scalar.New(scalar.Field(), cs.Inverse(a.Value))}, nil
}
