package stdlib

import (
	"fmt"

	"github.com/zinc-lang/zinc/internal/zinc/csys"
	"github.com/zinc-lang/zinc/internal/zinc/scalar"
)

// arrayReverseBuiltin implements stdlib.array_reverse: args are the
// flattened array elements, reversed end to end. Shape (element
// width, array length) is static, so this is pure reindexing.
func arrayReverseBuiltin(cs csys.ConstraintSystem, cond csys.Variable, args []scalar.Scalar) ([]scalar.Scalar, error) {
	out := make([]scalar.Scalar, len(args))
	for i, a := range args {
		out[len(args)-1-i] = a
	}
	return out, nil
}

// arrayTruncateBuiltin implements stdlib.array_truncate(new_len): the
// first argument is the compile-time-constant new length (an unsigned
// integer scalar), the rest are the flattened array elements.
func arrayTruncateBuiltin(cs csys.ConstraintSystem, cond csys.Variable, args []scalar.Scalar) ([]scalar.Scalar, error) {
	if err := requireArity(args, 1, "array_truncate"); err != nil {
		return nil, err
	}
	newLen, ok := scalar.IsConstant(cs, args[0])
	if !ok {
		return nil, fmt.Errorf("stdlib: array_truncate requires a compile-time-constant new length")
	}
	n := int(newLen.Int64())
	elems := args[1:]
	if n < 0 || n > len(elems) {
		return nil, fmt.Errorf("stdlib: array_truncate: new length %d out of range for array of %d", n, len(elems))
	}
	return elems[:n], nil
}

// arrayPadBuiltin implements stdlib.array_pad(new_len, fill): the
// first argument is the compile-time-constant new length, the second
// is the fill scalar, the rest are the flattened array elements.
func arrayPadBuiltin(cs csys.ConstraintSystem, cond csys.Variable, args []scalar.Scalar) ([]scalar.Scalar, error) {
	if err := requireArity(args, 2, "array_pad"); err != nil {
		return nil, err
	}
	newLen, ok := scalar.IsConstant(cs, args[0])
	if !ok {
		return nil, fmt.Errorf("stdlib: array_pad requires a compile-time-constant new length")
	}
	fill := args[1]
	elems := args[2:]
	n := int(newLen.Int64())
	if n < len(elems) {
		return nil, fmt.Errorf("stdlib: array_pad: new length %d shorter than array of %d", n, len(elems))
	}
	out := make([]scalar.Scalar, n)
	copy(out, elems)
	for i := len(elems); i < n; i++ {
		out[i] = fill
	}
	return out, nil
}
