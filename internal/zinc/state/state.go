// Package state implements the four stacks the engine threads
// through bytecode execution — evaluation, data, call-frame, and
// condition — plus the branch-merge bookkeeping If/Else/EndIf needs
//.
package state

import (
	"fmt"
	"math/big"

	"github.com/zinc-lang/zinc/internal/zinc/csys"
	"github.com/zinc-lang/zinc/internal/zinc/scalar"
	"github.com/zinc-lang/zinc/internal/zinc/value"
)

var bigOne = big.NewInt(1)

// Cell is a heterogeneous evaluation-stack entry: either a bare Scalar
// or a full value tree produced in one shot by an array/struct
// constructor.
type Cell struct {
	IsValue bool
	Scalar  scalar.Scalar
	Value   value.Value
}

func ScalarCell(s scalar.Scalar) Cell { return Cell{Scalar: s} }
func ValueCell(v value.Value) Cell    { return Cell{IsValue: true, Value: v} }

// AsScalar asserts the scalar variant — most opcodes operate on a bare
// scalar and error on a stray value tree left on top of the stack.
func (c Cell) AsScalar() (scalar.Scalar, error) {
	if c.IsValue {
		return scalar.Scalar{}, fmt.Errorf("state: expected scalar on evaluation stack, found value of type %s", c.Value.Typ)
	}
	return c.Scalar, nil
}

// BlockKind distinguishes the two nested-block shapes the engine
// unrolls/arbitrates in place.
type BlockKind int

const (
	BlockLoop BlockKind = iota
	BlockIf
)

// DataSnapshot records one data-stack cell's value on entry to a
// branch side, so EndIf can conditionally-select between the then and
// else writes.
type DataSnapshot struct {
	Address uint32
	Before  scalar.Scalar
	Then    *scalar.Scalar
	Else    *scalar.Scalar
}

// Block is one entry of a call frame's nested-block stack: either a
// loop (tracked only for its iteration count, since loops are
// unrolled at synthesis time) or an if/else branch frame snapshotting
// the data-stack cells it may mutate.
type Block struct {
	Kind BlockKind

	// BlockLoop
	Iterations int
	LoopStart  uint32 // PC to jump back to while Iterations > 0

	// BlockIf
	Cond      csys.Variable
	InElse    bool
	Touched   map[uint32]*DataSnapshot
	EvalDepth int    // evaluation-stack depth at If, to check balance at EndIf
	EvalThen  []Cell // eval-stack suffix produced by the then-branch
	EvalElse  []Cell // eval-stack suffix produced by the else-branch
}

// Frame is one call-frame: the function's data-stack window and its
// nested-block stack.
type Frame struct {
	ReturnAddress uint32
	DataStart     int
	DataEnd       int
	Blocks        []Block
}

// State bundles the four stacks execution threads through.
type State struct {
	cs csys.ConstraintSystem

	Eval  []Cell
	Data  []scalar.Scalar
	Calls []Frame
	Cond  []csys.Variable

	pc uint32

	pathCached bool
	pathValue  csys.Variable
}

// New creates execution state rooted at a single top-level frame
// spanning the whole data stack — mirroring how a simple bytecode VM always
// has at least one jump-stack entry.
func New(cs csys.ConstraintSystem) *State {
	return &State{
		cs:    cs,
		Calls: []Frame{{ReturnAddress: 0, DataStart: 0, DataEnd: 0}},
	}
}

func (s *State) PC() uint32     { return s.pc }
func (s *State) SetPC(pc uint32) { s.pc = pc }
func (s *State) AdvancePC()     { s.pc++ }

func (s *State) currentFrame() *Frame { return &s.Calls[len(s.Calls)-1] }

// PushEval/PopEval manage the operand stack.
func (s *State) PushEval(c Cell) { s.Eval = append(s.Eval, c) }

func (s *State) PopEval() (Cell, error) {
	if len(s.Eval) == 0 {
		return Cell{}, fmt.Errorf("state: evaluation stack underflow")
	}
	c := s.Eval[len(s.Eval)-1]
	s.Eval = s.Eval[:len(s.Eval)-1]
	return c, nil
}

func (s *State) PopScalar() (scalar.Scalar, error) {
	c, err := s.PopEval()
	if err != nil {
		return scalar.Scalar{}, err
	}
	return c.AsScalar()
}

// EvalDepth reports the current evaluation-stack height, used by
// If/EndIf to check the two sides left the stack balanced.
func (s *State) EvalDepth() int { return len(s.Eval) }

// EvalSuffix returns (and removes) everything pushed onto the
// evaluation stack since it was at depth — how If/Else/EndIf captures
// each side's produced values for merging.
func (s *State) EvalSuffix(depth int) []Cell {
	suffix := append([]Cell{}, s.Eval[depth:]...)
	s.Eval = s.Eval[:depth]
	return suffix
}

// PushEvalAll pushes every cell in cells in order.
func (s *State) PushEvalAll(cells []Cell) {
	s.Eval = append(s.Eval, cells...)
}

// DataAddress resolves a frame-relative address into an absolute index
// into Data.
func (s *State) DataAddress(addr uint32) int {
	return s.currentFrame().DataStart + int(addr)
}

// LoadData reads size consecutive scalars starting at the frame-
// relative address.
func (s *State) LoadData(addr, size uint32) ([]scalar.Scalar, error) {
	base := s.DataAddress(addr)
	if base < 0 || base+int(size) > len(s.Data) {
		return nil, fmt.Errorf("state: data stack read out of bounds at %d+%d", addr, size)
	}
	return s.Data[base : base+int(size)], nil
}

// StoreData writes values at the frame-relative address, growing the
// data stack (and the current frame's end) if needed, and records the
// previous value of every touched cell in any enclosing if/else block
// so EndIf can merge it.
func (s *State) StoreData(addr uint32, values []scalar.Scalar) error {
	base := s.DataAddress(addr)
	needed := base + len(values)
	if needed > len(s.Data) {
		grown := make([]scalar.Scalar, needed)
		copy(grown, s.Data)
		s.Data = grown
		if needed > s.currentFrame().DataEnd {
			s.currentFrame().DataEnd = needed
		}
	}
	for i, v := range values {
		cellAddr := addr + uint32(i)
		before := s.Data[base+i]
		s.Data[base+i] = v
		s.recordTouch(cellAddr, before, v)
	}
	return nil
}

// recordTouch snapshots a data-stack cell's write for branch merging:
// every enclosing if/else block learns the cell's pre-first-write value
// (its Before, the value the untaken side keeps), while the innermost
// open block records the just-written value in the slot for its active
// side. Outer blocks pick up their side values later, when the inner
// EndIf's merge write lands while they are innermost.
func (s *State) recordTouch(addr uint32, before, after scalar.Scalar) {
	blocks := s.currentFrame().Blocks
	sideRecorded := false
	for i := len(blocks) - 1; i >= 0; i-- {
		b := &blocks[i]
		if b.Kind != BlockIf {
			continue
		}
		if b.Touched == nil {
			b.Touched = make(map[uint32]*DataSnapshot)
		}
		snap, ok := b.Touched[addr]
		if !ok {
			snap = &DataSnapshot{Address: addr, Before: before}
			b.Touched[addr] = snap
		}
		if !sideRecorded {
			val := after
			if b.InElse {
				snap.Else = &val
			} else {
				snap.Then = &val
			}
			sideRecorded = true
		}
	}
}

// PushCall enters a new call frame.
func (s *State) PushCall(returnAddr uint32, args []scalar.Scalar) {
	start := s.currentFrame().DataEnd
	end := start + len(args)
	grown := make([]scalar.Scalar, end)
	copy(grown, s.Data)
	copy(grown[start:end], args)
	s.Data = grown
	s.Calls = append(s.Calls, Frame{ReturnAddress: returnAddr, DataStart: start, DataEnd: end})
}

// PopCall exits the current call frame, truncating the data stack back
// to the frame's start, and reports the return address to resume at.
func (s *State) PopCall() (uint32, error) {
	if len(s.Calls) <= 1 {
		return 0, fmt.Errorf("state: return with no active call frame")
	}
	f := s.Calls[len(s.Calls)-1]
	s.Calls = s.Calls[:len(s.Calls)-1]
	s.Data = s.Data[:f.DataStart]
	return f.ReturnAddress, nil
}

// PushCondition conjoins cond onto the path condition.
func (s *State) PushCondition(cond csys.Variable) {
	s.Cond = append(s.Cond, cond)
	s.pathCached = false
}

func (s *State) PopCondition() (csys.Variable, error) {
	if len(s.Cond) == 0 {
		return nil, fmt.Errorf("state: condition stack underflow")
	}
	c := s.Cond[len(s.Cond)-1]
	s.Cond = s.Cond[:len(s.Cond)-1]
	s.pathCached = false
	return c, nil
}

// ReplaceTopCondition swaps the top of the condition stack — what Else
// does to go from c to ¬c without touching the rest of the stack.
func (s *State) ReplaceTopCondition(cond csys.Variable) error {
	if len(s.Cond) == 0 {
		return fmt.Errorf("state: condition stack underflow")
	}
	s.Cond[len(s.Cond)-1] = cond
	s.pathCached = false
	return nil
}

// PathCondition returns the conjunction of the condition stack,
// caching the linear combination until the next push/pop invalidates
// it.
func (s *State) PathCondition() csys.Variable {
	if s.pathCached {
		return s.pathValue
	}
	acc := s.cs.Constant(bigOne)
	for _, c := range s.Cond {
		acc = s.cs.And(acc, c)
	}
	s.pathValue = acc
	s.pathCached = true
	return acc
}

// PushBlock opens a nested-block frame (loop or if/else) on the
// current call frame.
func (s *State) PushBlock(b Block) {
	f := s.currentFrame()
	f.Blocks = append(f.Blocks, b)
}

// PopBlock closes the innermost nested-block frame.
func (s *State) PopBlock() (Block, error) {
	f := s.currentFrame()
	if len(f.Blocks) == 0 {
		return Block{}, fmt.Errorf("state: nested-block stack underflow")
	}
	b := f.Blocks[len(f.Blocks)-1]
	f.Blocks = f.Blocks[:len(f.Blocks)-1]
	return b, nil
}

// TopBlock peeks the innermost nested-block frame.
func (s *State) TopBlock() (*Block, error) {
	f := s.currentFrame()
	if len(f.Blocks) == 0 {
		return nil, fmt.Errorf("state: nested-block stack underflow")
	}
	return &f.Blocks[len(f.Blocks)-1], nil
}
