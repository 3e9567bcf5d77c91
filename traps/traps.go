// Package traps defines the run-time failures shared by the stack and
// register machines.
package traps

import (
	"errors"
	"fmt"

	"github.com/glomdom/zyde/numbers"
)

var (
	ErrStackUnderflow            = errors.New("stack underflow")
	ErrRegisterOutOfBounds       = errors.New("register out of bounds")
	ErrProgramCounterOutOfBounds = errors.New("program counter out of bounds")
	ErrCallStackEmpty            = errors.New("call stack is empty, cannot return")
	ErrCallStackOverflow         = errors.New("call stack overflow")
	ErrVariableNotFound          = errors.New("variable not found")
	ErrStepLimit                 = errors.New("step limit exceeded")
	ErrDivisionByZero            = numbers.ErrDivisionByZero
)

// Trap is a failure raised while executing the instruction at PC. The
// machine is not resumable after a trap.
type Trap struct {
	PC  int
	Op  string
	Err error
}

func (t *Trap) Error() string {
	return fmt.Sprintf("pc %d (%s): %v", t.PC, t.Op, t.Err)
}

func (t *Trap) Unwrap() error {
	return t.Err
}

func StackUnderflow(op string, need, have int) error {
	return fmt.Errorf("%w: %s needs %d operand(s), stack has %d", ErrStackUnderflow, op, need, have)
}

func RegisterOutOfBounds(index, count int) error {
	return fmt.Errorf("%w: invalid register index %d (have %d)", ErrRegisterOutOfBounds, index, count)
}

func ProgramCounterOutOfBounds(target, length int) error {
	return fmt.Errorf("%w: target %d, program length %d", ErrProgramCounterOutOfBounds, target, length)
}

func VariableNotFound(name string) error {
	return fmt.Errorf("%w: %s", ErrVariableNotFound, name)
}
