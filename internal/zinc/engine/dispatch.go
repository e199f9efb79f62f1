package engine

import (
	"fmt"
	"strings"

	"github.com/zinc-lang/zinc/internal/zinc/bytecode"
	"github.com/zinc-lang/zinc/internal/zinc/csys"
	"github.com/zinc-lang/zinc/internal/zinc/gadget"
	"github.com/zinc-lang/zinc/internal/zinc/scalar"
	"github.com/zinc-lang/zinc/internal/zinc/state"
	"github.com/zinc-lang/zinc/internal/zinc/stdlib"
)

// step executes one instruction and advances (or redirects) the
// program counter. OpExit is handled by run before step is called;
// any opcode without a case here returns an "unhandled opcode" error.
func (m *Machine) step(instr bytecode.Instruction) error {
	switch instr.Op {
	case bytecode.OpNop:
		m.st.AdvancePC()

	case bytecode.OpPush:
		if instr.Value == nil || instr.Type == nil {
			return fmt.Errorf("push: missing value or type operand")
		}
		v, err := bigFromDecimal(*instr.Value)
		if err != nil {
			return err
		}
		typ, err := instr.Type.ToScalar()
		if err != nil {
			return err
		}
		m.st.PushEval(state.ScalarCell(scalar.ConstantFrom(m.cs, typ, v)))
		m.st.AdvancePC()

	case bytecode.OpLoad:
		vals, err := m.st.LoadData(instr.Address, instr.Size)
		if err != nil {
			return err
		}
		for _, v := range vals {
			m.st.PushEval(state.ScalarCell(v))
		}
		m.st.AdvancePC()

	case bytecode.OpStore:
		vals, err := m.popOperands(int(instr.Size))
		if err != nil {
			return err
		}
		if err := m.st.StoreData(instr.Address, vals); err != nil {
			return err
		}
		m.st.AdvancePC()

	case bytecode.OpLoadByIndex:
		idx, err := m.st.PopScalar()
		if err != nil {
			return err
		}
		vals, err := m.loadByIndex(instr.Address, idx, instr.ValueSize, instr.TotalSize)
		if err != nil {
			return err
		}
		for _, v := range vals {
			m.st.PushEval(state.ScalarCell(v))
		}
		m.st.AdvancePC()

	case bytecode.OpStoreByIndex:
		vals, err := m.popOperands(int(instr.ValueSize))
		if err != nil {
			return err
		}
		idx, err := m.st.PopScalar()
		if err != nil {
			return err
		}
		if err := m.storeByIndex(instr.Address, idx, vals, instr.TotalSize); err != nil {
			return err
		}
		m.st.AdvancePC()

	case bytecode.OpSlice:
		idx, err := m.st.PopScalar()
		if err != nil {
			return err
		}
		all, err := m.popOperands(int(instr.Total))
		if err != nil {
			return err
		}
		window, err := selectWindow(m.cs, idx, all, int(instr.Length))
		if err != nil {
			return err
		}
		for _, v := range window {
			m.st.PushEval(state.ScalarCell(v))
		}
		m.st.AdvancePC()

	case bytecode.OpAdd, bytecode.OpSub, bytecode.OpMul, bytecode.OpDiv, bytecode.OpRem:
		ops, err := m.popOperands(2)
		if err != nil {
			return err
		}
		result, err := m.binaryArith(instr.Op, ops[0], ops[1])
		if err != nil {
			return err
		}
		m.st.PushEval(state.ScalarCell(result))
		m.st.AdvancePC()

	case bytecode.OpNeg:
		ops, err := m.popOperands(1)
		if err != nil {
			return err
		}
		result, err := gadget.Neg(m.cs, m.cond(), ops[0])
		if err != nil {
			return err
		}
		m.st.PushEval(state.ScalarCell(result))
		m.st.AdvancePC()

	case bytecode.OpAnd, bytecode.OpOr, bytecode.OpXor:
		ops, err := m.popOperands(2)
		if err != nil {
			return err
		}
		result, err := m.binaryLogical(instr.Op, ops[0], ops[1])
		if err != nil {
			return err
		}
		m.st.PushEval(state.ScalarCell(result))
		m.st.AdvancePC()

	case bytecode.OpNot:
		ops, err := m.popOperands(1)
		if err != nil {
			return err
		}
		result, err := gadget.Not(m.cs, ops[0])
		if err != nil {
			return err
		}
		m.st.PushEval(state.ScalarCell(result))
		m.st.AdvancePC()

	case bytecode.OpBitAnd, bytecode.OpBitOr, bytecode.OpBitXor, bytecode.OpShl, bytecode.OpShr:
		ops, err := m.popOperands(2)
		if err != nil {
			return err
		}
		result, err := m.binaryBitwise(instr.Op, ops[0], ops[1])
		if err != nil {
			return err
		}
		m.st.PushEval(state.ScalarCell(result))
		m.st.AdvancePC()

	case bytecode.OpBitNot:
		ops, err := m.popOperands(1)
		if err != nil {
			return err
		}
		result, err := gadget.BitNot(m.cs, ops[0])
		if err != nil {
			return err
		}
		m.st.PushEval(state.ScalarCell(result))
		m.st.AdvancePC()

	case bytecode.OpEq, bytecode.OpNe, bytecode.OpLt, bytecode.OpLe, bytecode.OpGt, bytecode.OpGe:
		ops, err := m.popOperands(2)
		if err != nil {
			return err
		}
		result, err := m.binaryCompare(instr.Op, ops[0], ops[1])
		if err != nil {
			return err
		}
		m.st.PushEval(state.ScalarCell(result))
		m.st.AdvancePC()

	case bytecode.OpCast:
		if instr.Type == nil {
			return fmt.Errorf("cast: missing target type")
		}
		ops, err := m.popOperands(1)
		if err != nil {
			return err
		}
		target, err := instr.Type.ToScalar()
		if err != nil {
			return err
		}
		result, err := gadget.Cast(m.cs, m.cond(), ops[0], target)
		if err != nil {
			return err
		}
		m.st.PushEval(state.ScalarCell(result))
		m.st.AdvancePC()

	case bytecode.OpCall:
		if len(m.st.Calls) >= m.callDepthLimit {
			return fmt.Errorf("call: depth limit %d exceeded", m.callDepthLimit)
		}
		args, err := m.popOperands(int(instr.InputSize))
		if err != nil {
			return err
		}
		m.st.PushCall(m.st.PC()+1, args)
		m.st.SetPC(instr.Address)

	case bytecode.OpReturn:
		vals, err := m.popOperands(int(instr.OutputSize))
		if err != nil {
			return err
		}
		retAddr, err := m.st.PopCall()
		if err != nil {
			return err
		}
		for _, v := range vals {
			m.st.PushEval(state.ScalarCell(v))
		}
		m.st.SetPC(retAddr)

	case bytecode.OpLoopBegin:
		m.st.PushBlock(state.Block{Kind: state.BlockLoop, Iterations: int(instr.Iterations), LoopStart: m.st.PC() + 1})
		m.st.AdvancePC()

	case bytecode.OpLoopEnd:
		b, err := m.st.TopBlock()
		if err != nil {
			return err
		}
		if b.Kind != state.BlockLoop {
			return fmt.Errorf("loop_end: innermost block is not a loop")
		}
		b.Iterations--
		if b.Iterations > 0 {
			m.st.SetPC(b.LoopStart)
			return nil
		}
		if _, err := m.st.PopBlock(); err != nil {
			return err
		}
		m.st.AdvancePC()

	case bytecode.OpIf:
		c, err := m.st.PopScalar()
		if err != nil {
			return err
		}
		if c.Typ.Kind != scalar.KindBoolean {
			return fmt.Errorf("if: condition must be boolean, got %s", c.Typ)
		}
		m.st.PushBlock(state.Block{Kind: state.BlockIf, Cond: c.Value, EvalDepth: m.st.EvalDepth()})
		m.st.PushCondition(c.Value)
		m.st.AdvancePC()

	case bytecode.OpElse:
		b, err := m.st.TopBlock()
		if err != nil {
			return err
		}
		if b.Kind != state.BlockIf {
			return fmt.Errorf("else: innermost block is not an if")
		}
		b.EvalThen = m.st.EvalSuffix(b.EvalDepth)
		b.InElse = true
		if err := m.st.ReplaceTopCondition(m.cs.Not(b.Cond)); err != nil {
			return err
		}
		m.st.AdvancePC()

	case bytecode.OpEndIf:
		if err := m.endIf(); err != nil {
			return err
		}
		m.st.AdvancePC()

	case bytecode.OpRequire:
		c, err := m.st.PopScalar()
		if err != nil {
			return err
		}
		if c.Typ.Kind != scalar.KindBoolean {
			return fmt.Errorf("require: condition must be boolean, got %s", c.Typ)
		}
		if err := m.cs.Fault(m.cond(), c.Value, csys.FaultAssertionFailed, requireMessage(instr.Message)); err != nil {
			return err
		}
		m.st.AdvancePC()

	case bytecode.OpDbg:
		// Argument popping happens in both modes so the stack shape
		// stays identical; only witness mode actually writes output.
		args, err := m.popOperands(len(instr.ArgTypes))
		if err != nil {
			return err
		}
		if m.cs.Mode() == csys.ModeWitness {
			fmt.Fprintln(m.debug, formatDbg(m.cs, instr.Message, args))
		}
		m.st.AdvancePC()

	case bytecode.OpFileMarker:
		m.loc.file = instr.File
		m.st.AdvancePC()

	case bytecode.OpLineMarker:
		m.loc.line = instr.Line
		m.st.AdvancePC()

	case bytecode.OpColumnMarker:
		m.loc.column = instr.Column
		m.st.AdvancePC()

	case bytecode.OpFunctionMarker:
		m.loc.function = instr.Identifier
		m.st.AdvancePC()

	case bytecode.OpCallLibrary:
		if err := m.callLibrary(instr); err != nil {
			return err
		}
		m.st.AdvancePC()

	case bytecode.OpStorageFetch:
		if m.storageBuf == nil {
			return fmt.Errorf("storage_fetch: no contract storage bound (circuits have none)")
		}
		for _, s := range m.storageBuf {
			m.st.PushEval(state.ScalarCell(s))
		}
		m.st.AdvancePC()

	case bytecode.OpStorageLoad:
		if m.storageBuf == nil {
			return fmt.Errorf("storage_load: no contract storage bound")
		}
		idx, err := m.st.PopScalar()
		if err != nil {
			return err
		}
		vals, err := selectByIndex(m.cs, idx, m.storageBuf, int(instr.Size))
		if err != nil {
			return err
		}
		for _, v := range vals {
			m.st.PushEval(state.ScalarCell(v))
		}
		m.st.AdvancePC()

	case bytecode.OpStorageStore:
		if m.storageBuf == nil {
			return fmt.Errorf("storage_store: no contract storage bound")
		}
		vals, err := m.popOperands(int(instr.Size))
		if err != nil {
			return err
		}
		idx, err := m.st.PopScalar()
		if err != nil {
			return err
		}
		updated, err := writeByIndex(m.cs, idx, m.storageBuf, vals)
		if err != nil {
			return err
		}
		m.storageBuf = updated
		m.st.AdvancePC()

	default:
		return fmt.Errorf("unhandled opcode %s", instr.Op)
	}
	return nil
}

// formatDbg substitutes each "{}" placeholder in format with the next
// argument's logical value, appending any arguments the format string
// has no slot for.
func formatDbg(cs csys.ConstraintSystem, format string, args []scalar.Scalar) string {
	out := format
	for _, a := range args {
		rendered := "<?>"
		if v, ok := scalar.IsConstant(cs, a); ok {
			rendered = v.String()
		}
		if idx := strings.Index(out, "{}"); idx >= 0 {
			out = out[:idx] + rendered + out[idx+2:]
		} else {
			out += " " + rendered
		}
	}
	return out
}

func requireMessage(msg string) string {
	if msg == "" {
		return "require failed"
	}
	return msg
}

func (m *Machine) binaryArith(op bytecode.Opcode, a, b scalar.Scalar) (scalar.Scalar, error) {
	cond := m.cond()
	switch op {
	case bytecode.OpAdd:
		return gadget.Add(m.cs, cond, a, b)
	case bytecode.OpSub:
		return gadget.Sub(m.cs, cond, a, b)
	case bytecode.OpMul:
		return gadget.Mul(m.cs, cond, a, b)
	case bytecode.OpDiv:
		return gadget.Div(m.cs, cond, a, b)
	case bytecode.OpRem:
		return gadget.Rem(m.cs, cond, a, b)
	default:
		return scalar.Scalar{}, fmt.Errorf("not an arithmetic opcode: %s", op)
	}
}

func (m *Machine) binaryLogical(op bytecode.Opcode, a, b scalar.Scalar) (scalar.Scalar, error) {
	switch op {
	case bytecode.OpAnd:
		return gadget.And(m.cs, a, b)
	case bytecode.OpOr:
		return gadget.Or(m.cs, a, b)
	case bytecode.OpXor:
		return gadget.Xor(m.cs, a, b)
	default:
		return scalar.Scalar{}, fmt.Errorf("not a logical opcode: %s", op)
	}
}

func (m *Machine) binaryBitwise(op bytecode.Opcode, a, b scalar.Scalar) (scalar.Scalar, error) {
	switch op {
	case bytecode.OpBitAnd:
		return gadget.BitAnd(m.cs, a, b)
	case bytecode.OpBitOr:
		return gadget.BitOr(m.cs, a, b)
	case bytecode.OpBitXor:
		return gadget.BitXor(m.cs, a, b)
	case bytecode.OpShl:
		return gadget.Shl(m.cs, a, b)
	case bytecode.OpShr:
		return gadget.Shr(m.cs, a, b)
	default:
		return scalar.Scalar{}, fmt.Errorf("not a bitwise opcode: %s", op)
	}
}

func (m *Machine) binaryCompare(op bytecode.Opcode, a, b scalar.Scalar) (scalar.Scalar, error) {
	switch op {
	case bytecode.OpEq:
		return gadget.Eq(m.cs, a, b)
	case bytecode.OpNe:
		return gadget.Ne(m.cs, a, b)
	case bytecode.OpLt:
		return gadget.Lt(m.cs, a, b)
	case bytecode.OpLe:
		return gadget.Le(m.cs, a, b)
	case bytecode.OpGt:
		return gadget.Gt(m.cs, a, b)
	case bytecode.OpGe:
		return gadget.Ge(m.cs, a, b)
	default:
		return scalar.Scalar{}, fmt.Errorf("not a compare opcode: %s", op)
	}
}

func (m *Machine) callLibrary(instr bytecode.Instruction) error {
	args, err := m.popOperands(int(instr.InputSize))
	if err != nil {
		return err
	}
	if instr.Identifier == "zksync_transfer" {
		if m.storageBuf == nil {
			return fmt.Errorf("call_library: zksync_transfer is contract-only")
		}
		rec, err := stdlib.ZkSyncTransfer(m.cs, m.cond(), args)
		if err != nil {
			return err
		}
		m.transfers = append(m.transfers, rec)
		return nil
	}
	outs, err := stdlib.Call(m.cs, m.cond(), instr.Identifier, args)
	if err != nil {
		return err
	}
	for _, o := range outs {
		m.st.PushEval(state.ScalarCell(o))
	}
	return nil
}
