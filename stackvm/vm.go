// Package stackvm executes assembled programs on an evaluation stack.
package stackvm

import (
	"io"
	"log/slog"
	"os"

	"github.com/glomdom/zyde/frames"
	"github.com/glomdom/zyde/numbers"
)

const DefaultMaxCallDepth = 1 << 16

// EmptyStackSentinel is printed by PRINT when the stack is empty.
const EmptyStackSentinel = "(empty stack)"

type VM[T any] struct {
	Program   *Program[T]
	Arith     numbers.Arith[T]
	PC        int
	Stack     []T
	CallStack frames.Stack
	Vars      map[string]T

	Out    io.Writer
	Logger *slog.Logger

	// MaxSteps stops the run with traps.ErrStepLimit once reached; zero
	// means unlimited.
	MaxSteps     int
	MaxCallDepth int
	Steps        int

	checked bool
}

func New[T any](program *Program[T], arith numbers.Arith[T]) *VM[T] {
	return &VM[T]{
		Program:      program,
		Arith:        arith,
		Stack:        make([]T, 0, 64),
		CallStack:    make(frames.Stack, 0, 16),
		Vars:         make(map[string]T),
		Out:          os.Stdout,
		MaxCallDepth: DefaultMaxCallDepth,
	}
}

func (v *VM[T]) Halted() bool {
	return v.PC >= len(v.Program.Code)
}

func (v *VM[T]) push(val T) {
	v.Stack = append(v.Stack, val)
}

func (v *VM[T]) pop() T {
	n := len(v.Stack)
	val := v.Stack[n-1]
	var zero T
	v.Stack[n-1] = zero
	v.Stack = v.Stack[:n-1]
	return val
}

// Top returns the value on top of the stack.
func (v *VM[T]) Top() (ret T, ok bool) {
	if len(v.Stack) == 0 {
		return
	}
	return v.Stack[len(v.Stack)-1], true
}

// CallStackString renders pending return addresses for post-mortem
// inspection.
func (v *VM[T]) CallStackString() string {
	return v.CallStack.String()
}
