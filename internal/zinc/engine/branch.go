package engine

import (
	"fmt"
	"sort"

	"github.com/zinc-lang/zinc/internal/zinc/csys"
	"github.com/zinc-lang/zinc/internal/zinc/scalar"
	"github.com/zinc-lang/zinc/internal/zinc/state"
)

// endIf closes the innermost if/else block: it restores the enclosing
// path condition, selects between the then- and else-branch writes for
// every data-stack cell either side touched, and merges whatever values
// each side left on the evaluation stack.
func (m *Machine) endIf() error {
	b, err := m.st.PopBlock()
	if err != nil {
		return err
	}
	if b.Kind != state.BlockIf {
		return fmt.Errorf("end_if: innermost block is not an if")
	}

	var thenCells, elseCells []state.Cell
	if b.InElse {
		thenCells = b.EvalThen
		elseCells = m.st.EvalSuffix(b.EvalDepth)
	} else {
		thenCells = m.st.EvalSuffix(b.EvalDepth)
	}
	if len(thenCells) != len(elseCells) {
		if len(thenCells) == 0 || len(elseCells) == 0 {
			return fmt.Errorf("end_if: branches produced unbalanced evaluation-stack results (%d vs %d); an if used as an expression needs both arms", len(thenCells), len(elseCells))
		}
		return fmt.Errorf("end_if: branch evaluation-stack depths disagree: %d vs %d", len(thenCells), len(elseCells))
	}

	if _, err := m.st.PopCondition(); err != nil {
		return err
	}

	// Constraint emission order must not depend on map iteration.
	addrs := make([]uint32, 0, len(b.Touched))
	for addr := range b.Touched {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	for _, addr := range addrs {
		snap := b.Touched[addr]
		thenVal := valueOr(snap.Then, snap.Before)
		elseVal := valueOr(snap.Else, snap.Before)
		merged := scalar.New(snap.Before.Typ, m.cs.Select(b.Cond, thenVal.Value, elseVal.Value))
		if err := m.st.StoreData(addr, []scalar.Scalar{merged}); err != nil {
			return err
		}
	}

	merged := make([]state.Cell, len(thenCells))
	for i := range thenCells {
		c, err := selectCell(m.cs, b.Cond, thenCells[i], elseCells[i])
		if err != nil {
			return err
		}
		merged[i] = c
	}
	m.st.PushEvalAll(merged)
	return nil
}

func valueOr(v *scalar.Scalar, fallback scalar.Scalar) scalar.Scalar {
	if v != nil {
		return *v
	}
	return fallback
}

// selectCell merges one evaluation-stack slot across both branch arms.
// Only bare scalars are supported — an if/else expression producing a
// composite value tree is outside this exercise's scope.
func selectCell(cs csys.ConstraintSystem, cond csys.Variable, then, els state.Cell) (state.Cell, error) {
	thenScalar, err := then.AsScalar()
	if err != nil {
		return state.Cell{}, fmt.Errorf("end_if: %w", err)
	}
	elseScalar, err := els.AsScalar()
	if err != nil {
		return state.Cell{}, fmt.Errorf("end_if: %w", err)
	}
	merged := cs.Select(cond, thenScalar.Value, elseScalar.Value)
	return state.ScalarCell(scalar.New(thenScalar.Typ, merged)), nil
}
