package regvm

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/glomdom/zyde/frames"
	"github.com/glomdom/zyde/numbers"
	"github.com/glomdom/zyde/traps"
)

// Run executes until the program counter leaves the program, HALT runs,
// or a trap is raised. Traps are returned as *traps.Trap.
func (v *VM[T]) Run() error {
	for {
		more, err := v.Step()
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
}

func (v *VM[T]) check() error {
	for i, inst := range v.Program {
		if _, ok := opNames[inst.Op]; !ok {
			return fmt.Errorf("%w: unknown op %d at %d", ErrMalformedProgram, inst.Op, i)
		}
	}
	return nil
}

// Step executes one instruction and reports whether more remain.
func (v *VM[T]) Step() (bool, error) {
	if !v.checked {
		if err := v.check(); err != nil {
			return false, err
		}
		v.checked = true
	}

	if v.PC < 0 || v.PC >= len(v.Program) {
		return false, nil
	}

	pc := v.PC
	inst := v.Program[pc]
	if v.MaxSteps > 0 && v.Steps >= v.MaxSteps {
		return false, &traps.Trap{
			PC:  pc,
			Op:  inst.Op.String(),
			Err: fmt.Errorf("%w: %d", traps.ErrStepLimit, v.MaxSteps),
		}
	}

	v.PC++
	v.Steps++
	if v.Logger != nil && v.Logger.Enabled(context.Background(), slog.LevelDebug) {
		v.Logger.Debug("exec",
			"pc", pc,
			"inst", inst.String(),
		)
	}

	if err := v.exec(inst); err != nil {
		return false, &traps.Trap{
			PC:  pc,
			Op:  inst.Op.String(),
			Err: err,
		}
	}

	return v.PC < len(v.Program), nil
}

func (v *VM[T]) jump(target int) error {
	if target < 0 || target >= len(v.Program) {
		return traps.ProgramCounterOutOfBounds(target, len(v.Program))
	}
	v.PC = target
	return nil
}

func (v *VM[T]) exec(inst Inst[T]) error {
	arith := v.Arith

	switch inst.Op {

	case OpLoadImm:
		return v.setRegister(inst.Dest, inst.Value)

	case OpAdd, OpSub, OpMul, OpDiv, OpEqual, OpLessThan, OpGreaterThan:
		a, err := v.Register(inst.Src1)
		if err != nil {
			return err
		}
		b, err := v.Register(inst.Src2)
		if err != nil {
			return err
		}
		var res T
		switch inst.Op {
		case OpAdd:
			res, err = arith.Add(a, b)
		case OpSub:
			res, err = arith.Sub(a, b)
		case OpMul:
			res, err = arith.Mul(a, b)
		case OpDiv:
			res, err = arith.Div(a, b)
		case OpEqual:
			res = numbers.Bool(arith, arith.Equal(a, b))
		case OpLessThan:
			res = numbers.Bool(arith, arith.Less(a, b))
		case OpGreaterThan:
			res = numbers.Bool(arith, arith.Less(b, a))
		}
		if err != nil {
			return err
		}
		return v.setRegister(inst.Dest, res)

	case OpNot:
		a, err := v.Register(inst.Src1)
		if err != nil {
			return err
		}
		return v.setRegister(inst.Dest, numbers.Bool(arith, numbers.IsZero(arith, a)))

	case OpPrint:
		a, err := v.Register(inst.Src1)
		if err != nil {
			return err
		}
		_, err = io.WriteString(v.Out, arith.Format(a)+"\n")
		return err

	case OpJump:
		return v.jump(inst.Target)

	case OpCJump:
		cond, err := v.Register(inst.Src1)
		if err != nil {
			return err
		}
		if numbers.IsZero(arith, cond) {
			return v.jump(inst.Target)
		}

	case OpCall:
		if v.MaxCallDepth > 0 && len(v.CallStack) >= v.MaxCallDepth {
			return fmt.Errorf("%w: depth %d", traps.ErrCallStackOverflow, len(v.CallStack))
		}
		returnPC := v.PC
		if err := v.jump(inst.Target); err != nil {
			return err
		}
		v.CallStack.Push(frames.Frame{
			ReturnPC: returnPC,
		})

	case OpReturn:
		frame, ok := v.CallStack.Pop()
		if !ok {
			return traps.ErrCallStackEmpty
		}
		v.PC = frame.ReturnPC

	case OpStore:
		a, err := v.Register(inst.Src1)
		if err != nil {
			return err
		}
		v.Vars[inst.Var] = a

	case OpLoad:
		val, ok := v.Vars[inst.Var]
		if !ok {
			return traps.VariableNotFound(inst.Var)
		}
		return v.setRegister(inst.Dest, val)

	case OpHalt:
		v.PC = len(v.Program)

	default:
		panic(fmt.Errorf("unknown op: %v", inst.Op))
	}

	return nil
}
