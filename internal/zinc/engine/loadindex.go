package engine

import (
	"fmt"
	"math/big"

	"github.com/zinc-lang/zinc/internal/zinc/csys"
	"github.com/zinc-lang/zinc/internal/zinc/scalar"
)

// selectByIndex reads the elemSize-wide element at dynamic index idx out
// of buf (count = len(buf)/elemSize elements), via a linear scan that
// builds one Select chain per output scalar — the standard
// constant-shape technique for data-dependent addressing inside a
// circuit (there is no "jump to computed address" primitive, so every
// candidate element is touched and masked by an equality check).
func selectByIndex(cs csys.ConstraintSystem, idx scalar.Scalar, buf []scalar.Scalar, elemSize int) ([]scalar.Scalar, error) {
	if elemSize <= 0 || len(buf)%elemSize != 0 {
		return nil, fmt.Errorf("engine: index select: buffer of %d scalars not divisible by element size %d", len(buf), elemSize)
	}
	count := len(buf) / elemSize
	out := make([]scalar.Scalar, elemSize)
	for k := 0; k < elemSize; k++ {
		typ := buf[k].Typ
		acc := cs.Constant(big.NewInt(0))
		for i := 0; i < count; i++ {
			mask := cs.IsZero(cs.Sub(idx.Value, cs.Constant(big.NewInt(int64(i)))))
			acc = cs.Select(mask, buf[i*elemSize+k].Value, acc)
		}
		out[k] = scalar.New(typ, acc)
	}
	return out, nil
}

// writeByIndex returns a copy of buf with the element at dynamic index
// idx replaced by vals, again via a masked linear scan (every element
// is conditionally overwritten; at most one mask is live).
func writeByIndex(cs csys.ConstraintSystem, idx scalar.Scalar, buf []scalar.Scalar, vals []scalar.Scalar) ([]scalar.Scalar, error) {
	elemSize := len(vals)
	if elemSize <= 0 || len(buf)%elemSize != 0 {
		return nil, fmt.Errorf("engine: index write: buffer of %d scalars not divisible by element size %d", len(buf), elemSize)
	}
	count := len(buf) / elemSize
	out := make([]scalar.Scalar, len(buf))
	copy(out, buf)
	for i := 0; i < count; i++ {
		mask := cs.IsZero(cs.Sub(idx.Value, cs.Constant(big.NewInt(int64(i)))))
		for k := 0; k < elemSize; k++ {
			cell := &out[i*elemSize+k]
			*cell = scalar.New(cell.Typ, cs.Select(mask, vals[k].Value, cell.Value))
		}
	}
	return out, nil
}

// selectWindow extracts a contiguous run of length scalars from all,
// starting at dynamic offset idx (OpSlice) — the same masked-scan
// technique as selectByIndex, applied per output position rather than
// per element.
func selectWindow(cs csys.ConstraintSystem, idx scalar.Scalar, all []scalar.Scalar, length int) ([]scalar.Scalar, error) {
	if length < 0 || length > len(all) {
		return nil, fmt.Errorf("engine: slice: window length %d exceeds source of %d scalars", length, len(all))
	}
	maxStart := len(all) - length
	out := make([]scalar.Scalar, length)
	for j := 0; j < length; j++ {
		typ := all[j].Typ
		acc := cs.Constant(big.NewInt(0))
		for i := 0; i <= maxStart; i++ {
			mask := cs.IsZero(cs.Sub(idx.Value, cs.Constant(big.NewInt(int64(i)))))
			acc = cs.Select(mask, all[i+j].Value, acc)
		}
		out[j] = scalar.New(typ, acc)
	}
	return out, nil
}

// loadByIndex reads one dynamically-indexed element out of the data
// stack window [baseAddr, baseAddr+totalSize).
func (m *Machine) loadByIndex(baseAddr uint32, idx scalar.Scalar, elemSize, totalSize uint32) ([]scalar.Scalar, error) {
	buf, err := m.st.LoadData(baseAddr, totalSize)
	if err != nil {
		return nil, err
	}
	return selectByIndex(m.cs, idx, buf, int(elemSize))
}

// storeByIndex overwrites one dynamically-indexed element of the data
// stack window [baseAddr, baseAddr+totalSize), routing the write
// through State.StoreData so any enclosing if/else block still records
// the touched cells for its branch merge.
func (m *Machine) storeByIndex(baseAddr uint32, idx scalar.Scalar, vals []scalar.Scalar, totalSize uint32) error {
	buf, err := m.st.LoadData(baseAddr, totalSize)
	if err != nil {
		return err
	}
	updated, err := writeByIndex(m.cs, idx, buf, vals)
	if err != nil {
		return err
	}
	return m.st.StoreData(baseAddr, updated)
}
