package gadget

import (
	"fmt"

	"github.com/zinc-lang/zinc/internal/zinc/csys"
	"github.com/zinc-lang/zinc/internal/zinc/scalar"
)

// Cast converts s to target: Field and Integer types
// freely convert into one another (narrowing is caught by the same
// range check every arithmetic gadget goes through), but Boolean only
// ever casts to itself — there is no implicit bool<->integer
// conversion.
func Cast(cs csys.ConstraintSystem, cond csys.Variable, s scalar.Scalar, target scalar.Type) (scalar.Scalar, error) {
	if s.Typ.Equal(target) {
		return s, nil
	}
	if s.Typ.Kind == scalar.KindBoolean || target.Kind == scalar.KindBoolean {
		return scalar.Scalar{}, fmt.Errorf("cast: %s to %s is not permitted", s.Typ, target)
	}

	if v, ok := scalar.IsConstant(cs, s); ok {
		folded := scalar.ConstantFrom(cs, target, v)
		return RangeCheck(cs, cond, folded)
	}

	// The underlying field element is the same wire; only the static
	// type tag — and so the range predicate enforced below — changes.
	reinterpreted := scalar.New(target, s.Value)
	return RangeCheck(cs, cond, reinterpreted)
}
