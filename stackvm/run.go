package stackvm

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

// Step executes one instruction and reports whether more remain.
func (v *VM[T]) Step() (bool, error) {
	if !v.checked {
		if err := v.Program.Check(); err != nil {
			return false, err
		}
		v.checked = true
	}

	code := v.Program.Code
	if v.PC < 0 || v.PC >= len(code) {
		return false, nil
	}

	pc := v.PC
	inst := code[pc]
	if v.MaxSteps > 0 && v.Steps >= v.MaxSteps {
		return false, &traps.Trap{
			PC:  pc,
			Op:  inst.String(),
			Err: fmt.Errorf("%w: %d", traps.ErrStepLimit, v.MaxSteps),
		}
	}

	v.PC++
	v.Steps++
	if v.Logger != nil && v.Logger.Enabled(context.Background(), slog.LevelDebug) {
		v.Logger.Debug("exec",
			"pc", pc,
			"op", inst.String(),
			"arg", inst.Arg(),
			"depth", len(v.Stack),
		)
	}

	if err := v.exec(inst); err != nil {
		return false, &traps.Trap{
			PC:  pc,
			Op:  inst.String(),
			Err: err,
		}
	}

	return v.PC < len(code), nil
}

func (v *VM[T]) need(inst OpCode, n int) error {
	if len(v.Stack) < n {
		return traps.StackUnderflow(inst.String(), n, len(v.Stack))
	}
	return nil
}

func (v *VM[T]) jump(target int) error {
	if target < 0 || target >= len(v.Program.Code) {
		return traps.ProgramCounterOutOfBounds(target, len(v.Program.Code))
	}
	v.PC = target
	return nil
}

func (v *VM[T]) exec(inst OpCode) error {
	arith := v.Arith

	switch op := inst.Op(); op {

	case OpPush:
		v.push(v.Program.Consts[inst.Arg()])

	case OpAdd, OpSub, OpMul, OpDiv:
		if err := v.need(inst, 2); err != nil {
			return err
		}
		b := v.pop()
		a := v.pop()
		var res T
		var err error
		switch op {
		case OpAdd:
			res, err = arith.Add(a, b)
		case OpSub:
			res, err = arith.Sub(a, b)
		case OpMul:
			res, err = arith.Mul(a, b)
		case OpDiv:
			res, err = arith.Div(a, b)
		}
		if err != nil {
			return err
		}
		v.push(res)

	case OpEqual, OpLt, OpGt:
		if err := v.need(inst, 2); err != nil {
			return err
		}
		b := v.pop()
		a := v.pop()
		var res bool
		switch op {
		case OpEqual:
			res = arith.Equal(a, b)
		case OpLt:
			res = arith.Less(a, b)
		case OpGt:
			res = arith.Less(b, a)
		}
		v.push(numbers.Bool(arith, res))

	case OpNot:
		if err := v.need(inst, 1); err != nil {
			return err
		}
		v.push(numbers.Bool(arith, numbers.IsZero(arith, v.pop())))

	case OpPrint:
		if top, ok := v.Top(); ok {
			_, err := io.WriteString(v.Out, arith.Format(top)+"\n")
			return err
		}
		_, err := io.WriteString(v.Out, EmptyStackSentinel+"\n")
		return err

	case OpDup:
		if err := v.need(inst, 1); err != nil {
			return err
		}
		v.push(v.Stack[len(v.Stack)-1])

	case OpSwap:
		if err := v.need(inst, 2); err != nil {
			return err
		}
		n := len(v.Stack)
		v.Stack[n-1], v.Stack[n-2] = v.Stack[n-2], v.Stack[n-1]

	case OpPop:
		if err := v.need(inst, 1); err != nil {
			return err
		}
		v.pop()

	case OpStore:
		if err := v.need(inst, 1); err != nil {
			return err
		}
		v.Vars[v.Program.Names[inst.Arg()]] = v.pop()

	case OpLoad:
		name := v.Program.Names[inst.Arg()]
		val, ok := v.Vars[name]
		if !ok {
			return traps.VariableNotFound(name)
		}
		v.push(val)

	case OpJump:
		return v.jump(inst.Arg())

	case OpCJump:
		// taken when the popped condition is zero
		if err := v.need(inst, 1); err != nil {
			return err
		}
		if numbers.IsZero(arith, v.pop()) {
			return v.jump(inst.Arg())
		}

	case OpCall:
		if v.MaxCallDepth > 0 && len(v.CallStack) >= v.MaxCallDepth {
			return fmt.Errorf("%w: depth %d", traps.ErrCallStackOverflow, len(v.CallStack))
		}
		returnPC := v.PC
		if err := v.jump(inst.Arg()); err != nil {
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

	case OpHalt:
		v.PC = len(v.Program.Code)

	default:
		panic(fmt.Errorf("unknown opcode: %v", op))
	}

	return nil
}
