package csys

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// witnessValue is the concrete representation of a Variable in
// ModeWitness: a known BN254 scalar, held only as its reduced field
// element; bigInt returns its canonical [0, modulus) representative.
type witnessValue struct {
	elem fr.Element
}

func newWitnessValue(v *big.Int) witnessValue {
	var e fr.Element
	e.SetBigInt(v)
	return witnessValue{elem: e}
}

func (w witnessValue) bigInt() *big.Int {
	var out big.Int
	w.elem.BigInt(&out)
	return &out
}

// Witness is the dummy constraint system used outside proving: it records no
// constraints and computes every gadget directly over the field. Used
// for run_circuit, unit tests, and deriving input templates.
type Witness struct {
	namespace string
}

// NewWitnessSystem creates a fresh witness-mode constraint system.
func NewWitnessSystem() *Witness { return &Witness{} }

func (w *Witness) Mode() Mode { return ModeWitness }

func (w *Witness) FieldModulus() *big.Int {
	return fr.Modulus()
}

func (w *Witness) Constant(v *big.Int) Variable { return newWitnessValue(v) }

func (w *Witness) NewWitness(v *big.Int) Variable {
	if v == nil {
		v = big.NewInt(0)
	}
	return newWitnessValue(v)
}

func (w *Witness) NewPublicInput(v *big.Int) Variable { return w.NewWitness(v) }

func (w *Witness) ConstantValue(v Variable) (*big.Int, bool) {
	wv, ok := v.(witnessValue)
	if !ok {
		return nil, false
	}
	return wv.bigInt(), true
}

func (w *Witness) Value(v Variable) (*big.Int, bool) {
	return w.ConstantValue(v)
}

func toElem(v Variable) fr.Element {
	wv, ok := v.(witnessValue)
	if !ok {
		panic("csys.Witness: value is not a witness-mode Variable")
	}
	return wv.elem
}

func (w *Witness) Add(a, b Variable) Variable {
	ae, be := toElem(a), toElem(b)
	var r fr.Element
	r.Add(&ae, &be)
	return witnessValue{elem: r}
}

func (w *Witness) Sub(a, b Variable) Variable {
	ae, be := toElem(a), toElem(b)
	var r fr.Element
	r.Sub(&ae, &be)
	return witnessValue{elem: r}
}

func (w *Witness) Neg(a Variable) Variable {
	ae := toElem(a)
	var r fr.Element
	r.Neg(&ae)
	return witnessValue{elem: r}
}

func (w *Witness) Mul(a, b Variable) Variable {
	ae, be := toElem(a), toElem(b)
	var r fr.Element
	r.Mul(&ae, &be)
	return witnessValue{elem: r}
}

func (w *Witness) Div(a, b Variable) Variable {
	ae, be := toElem(a), toElem(b)
	var r fr.Element
	r.Div(&ae, &be)
	return witnessValue{elem: r}
}

func (w *Witness) Inverse(a Variable) Variable {
	ae := toElem(a)
	var r fr.Element
	if ae.IsZero() {
		return witnessValue{elem: r}
	}
	r.Inverse(&ae)
	return witnessValue{elem: r}
}

func (w *Witness) ToBinary(a Variable, n int) []Variable {
	val := toElem(a)
	var asBig big.Int
	val.BigInt(&asBig)
	bits := make([]Variable, n)
	for i := 0; i < n; i++ {
		bits[i] = newWitnessValue(big.NewInt(int64(asBig.Bit(i))))
	}
	return bits
}

func (w *Witness) FromBinary(bits ...Variable) Variable {
	acc := new(big.Int)
	for i, b := range bits {
		bv, _ := w.ConstantValue(b)
		if bv != nil && bv.Bit(0) == 1 {
			acc.SetBit(acc, i, 1)
		}
	}
	return newWitnessValue(acc)
}

func (w *Witness) IsZero(a Variable) Variable {
	ae := toElem(a)
	if ae.IsZero() {
		return newWitnessValue(big.NewInt(1))
	}
	return newWitnessValue(big.NewInt(0))
}

// Cmp returns -1/0/1 comparing the canonical [0, modulus)
// representatives of a and b, so a negative value compares as its
// wrapped field element. gadget uses it only for Field-typed ordering.
func (w *Witness) Cmp(a, b Variable) Variable {
	av, _ := w.ConstantValue(a)
	bv, _ := w.ConstantValue(b)
	return newWitnessValue(big.NewInt(int64(av.Cmp(bv))))
}

func (w *Witness) Select(cond, a, b Variable) Variable {
	cv, _ := w.ConstantValue(cond)
	if cv.Sign() != 0 {
		return a
	}
	return b
}

func (w *Witness) And(a, b Variable) Variable {
	av, _ := w.ConstantValue(a)
	bv, _ := w.ConstantValue(b)
	if av.Sign() != 0 && bv.Sign() != 0 {
		return newWitnessValue(big.NewInt(1))
	}
	return newWitnessValue(big.NewInt(0))
}

func (w *Witness) Or(a, b Variable) Variable {
	av, _ := w.ConstantValue(a)
	bv, _ := w.ConstantValue(b)
	if av.Sign() != 0 || bv.Sign() != 0 {
		return newWitnessValue(big.NewInt(1))
	}
	return newWitnessValue(big.NewInt(0))
}

func (w *Witness) Xor(a, b Variable) Variable {
	av, _ := w.ConstantValue(a)
	bv, _ := w.ConstantValue(b)
	if (av.Sign() != 0) != (bv.Sign() != 0) {
		return newWitnessValue(big.NewInt(1))
	}
	return newWitnessValue(big.NewInt(0))
}

func (w *Witness) Not(a Variable) Variable {
	av, _ := w.ConstantValue(a)
	if av.Sign() == 0 {
		return newWitnessValue(big.NewInt(1))
	}
	return newWitnessValue(big.NewInt(0))
}

func (w *Witness) AssertIsEqual(a, b Variable) {
	ae, be := toElem(a), toElem(b)
	if !ae.Equal(&be) {
		panic("csys.Witness: AssertIsEqual violated")
	}
}

func (w *Witness) AssertIsBoolean(a Variable) {
	av, _ := w.ConstantValue(a)
	if av.Sign() != 0 && av.Cmp(big.NewInt(1)) != 0 {
		panic("csys.Witness: AssertIsBoolean violated")
	}
}

func (w *Witness) Fault(cond, ok Variable, code FaultCode, message string) error {
	cv, _ := w.ConstantValue(cond)
	ov, _ := w.ConstantValue(ok)
	if cv.Sign() != 0 && ov.Sign() == 0 {
		return &FaultError{Code: code, Message: message}
	}
	return nil
}

func (w *Witness) Namespace(name string) ConstraintSystem {
	return &Witness{namespace: w.namespace + "/" + name}
}

func (w *Witness) Hint(f HintFunc, nbOutputs int, inputs ...Variable) ([]Variable, error) {
	ins := make([]*big.Int, len(inputs))
	for i, in := range inputs {
		v, _ := w.ConstantValue(in)
		ins[i] = v
	}
	outs, err := f(w.FieldModulus(), ins)
	if err != nil {
		return nil, err
	}
	result := make([]Variable, nbOutputs)
	for i := 0; i < nbOutputs; i++ {
		result[i] = newWitnessValue(outs[i])
	}
	return result, nil
}
