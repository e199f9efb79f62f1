package csys

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/consensys/gnark/constraint/solver"
	"github.com/consensys/gnark/frontend"
)

// gnark resolves hint functions at solve time by function identity, so
// handing NewHint a fresh closure per Hint call would leave the prover
// unable to find it (and every closure minted at the same code site
// shares one identity anyway). Instead exactly one solver.Hint —
// dispatchHint, registered once below — is ever exposed to gnark; its
// first input is a registry key identifying which HintFunc to run.
var (
	hintMu   sync.Mutex
	hintTab  = map[uint64]HintFunc{}
	hintNext uint64 = 1
)

func registerHintFunc(f HintFunc) uint64 {
	hintMu.Lock()
	defer hintMu.Unlock()
	key := hintNext
	hintNext++
	hintTab[key] = f
	return key
}

func lookupHintFunc(key uint64) (HintFunc, bool) {
	hintMu.Lock()
	defer hintMu.Unlock()
	f, ok := hintTab[key]
	return f, ok
}

func dispatchHint(field *big.Int, inputs, outputs []*big.Int) error {
	if len(inputs) == 0 {
		return fmt.Errorf("csys: hint dispatch: missing registry key input")
	}
	f, ok := lookupHintFunc(inputs[0].Uint64())
	if !ok {
		return fmt.Errorf("csys: hint dispatch: no hint registered under key %s", inputs[0])
	}
	res, err := f(field, inputs[1:])
	if err != nil {
		return err
	}
	if len(res) != len(outputs) {
		return fmt.Errorf("csys: hint dispatch: hint produced %d outputs, expected %d", len(res), len(outputs))
	}
	for i, v := range res {
		outputs[i].Set(v)
	}
	return nil
}

func init() {
	solver.RegisterHint(dispatchHint)
}

// Circuit adapts a real gnark frontend.API into a ConstraintSystem, so
// the engine synthesizes an actual R1CS when driven from inside a
// gnark Define. Every method is a one-line delegation; the point of
// this type is purely to let gadget code stay agnostic of which mode
// it is running in.
type Circuit struct {
	api frontend.API
}

// NewCircuitSystem wraps a gnark frontend.API for constraint synthesis.
func NewCircuitSystem(api frontend.API) *Circuit {
	return &Circuit{api: api}
}

func (c *Circuit) Mode() Mode { return ModeConstraint }

func (c *Circuit) FieldModulus() *big.Int {
	return c.api.Compiler().Field()
}

func (c *Circuit) Constant(v *big.Int) Variable {
	return frontend.Variable(v)
}

// NewWitness allocates a private variable. Dynamic opcode-driven
// circuits cannot declare new circuit-struct fields mid-Define, so in
// practice every private/public variable the engine needs is supplied
// up front by the caller (pkg/zinc's circuit wrapper) as pre-declared
// frontend.Variable slices; NewWitness here only wraps a constant for
// intermediate values that never need to be part of the public/private
// witness assignment (e.g. literal immediates baked into bytecode).
func (c *Circuit) NewWitness(v *big.Int) Variable {
	if v == nil {
		return frontend.Variable(0)
	}
	return frontend.Variable(v)
}

func (c *Circuit) NewPublicInput(v *big.Int) Variable { return c.NewWitness(v) }

func (c *Circuit) ConstantValue(v Variable) (*big.Int, bool) {
	return c.api.Compiler().ConstantValue(v)
}

func (c *Circuit) Value(v Variable) (*big.Int, bool) {
	return c.api.Compiler().ConstantValue(v)
}

func (c *Circuit) Add(a, b Variable) Variable { return c.api.Add(a, b) }
func (c *Circuit) Sub(a, b Variable) Variable { return c.api.Sub(a, b) }
func (c *Circuit) Neg(a Variable) Variable    { return c.api.Neg(a) }
func (c *Circuit) Mul(a, b Variable) Variable { return c.api.Mul(a, b) }
func (c *Circuit) Div(a, b Variable) Variable { return c.api.Div(a, b) }
func (c *Circuit) Inverse(a Variable) Variable {
	return c.api.Inverse(a)
}

func (c *Circuit) ToBinary(a Variable, n int) []Variable {
	bits := c.api.ToBinary(a, n)
	out := make([]Variable, len(bits))
	for i, b := range bits {
		out[i] = b
	}
	return out
}

func (c *Circuit) FromBinary(bits ...Variable) Variable {
	vs := make([]frontend.Variable, len(bits))
	for i, b := range bits {
		vs[i] = b
	}
	return c.api.FromBinary(vs...)
}

func (c *Circuit) IsZero(a Variable) Variable   { return c.api.IsZero(a) }
func (c *Circuit) Cmp(a, b Variable) Variable   { return c.api.Cmp(a, b) }
func (c *Circuit) Select(cond, a, b Variable) Variable {
	return c.api.Select(cond, a, b)
}
func (c *Circuit) And(a, b Variable) Variable { return c.api.And(a, b) }
func (c *Circuit) Or(a, b Variable) Variable  { return c.api.Or(a, b) }
func (c *Circuit) Xor(a, b Variable) Variable { return c.api.Xor(a, b) }
func (c *Circuit) Not(a Variable) Variable {
	return c.api.Sub(1, a)
}

func (c *Circuit) AssertIsEqual(a, b Variable)  { c.api.AssertIsEqual(a, b) }
func (c *Circuit) AssertIsBoolean(a Variable)   { c.api.AssertIsBoolean(a) }

// Fault emits "cond·(1−ok) = 0": whenever cond is forced to 1 at
// solving time, ok must also be 1, or the solver rejects the witness
// and Prove returns an error. The Go-level return is always nil here —
// unlike Witness, we cannot know at synthesis time whether the
// violation will actually occur.
func (c *Circuit) Fault(cond, ok Variable, code FaultCode, message string) error {
	gate := c.api.Mul(cond, c.api.Sub(1, ok))
	c.api.AssertIsEqual(gate, 0)
	return nil
}

func (c *Circuit) Namespace(name string) ConstraintSystem {
	return c
}

func (c *Circuit) Hint(f HintFunc, nbOutputs int, inputs ...Variable) ([]Variable, error) {
	key := registerHintFunc(f)
	vs := make([]frontend.Variable, 0, len(inputs)+1)
	vs = append(vs, frontend.Variable(new(big.Int).SetUint64(key)))
	for _, in := range inputs {
		vs = append(vs, in)
	}
	outs, err := c.api.Compiler().NewHint(dispatchHint, nbOutputs, vs...)
	if err != nil {
		return nil, err
	}
	result := make([]Variable, len(outs))
	for i, o := range outs {
		result[i] = o
	}
	return result, nil
}
