// Package regvm executes programs against a fixed-size register file.
// It shares the numeric capability, traps and call stack with stackvm but
// not its instruction set.
package regvm

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/glomdom/zyde/frames"
	"github.com/glomdom/zyde/numbers"
	"github.com/glomdom/zyde/traps"
)

const DefaultMaxCallDepth = 1 << 16

var ErrMalformedProgram = errors.New("malformed program")

type VM[T any] struct {
	Program   []Inst[T]
	Arith     numbers.Arith[T]
	PC        int
	Registers []T
	CallStack frames.Stack
	Vars      map[string]T

	Out    io.Writer
	Logger *slog.Logger

	// zero means unlimited
	MaxSteps     int
	MaxCallDepth int
	Steps        int

	checked bool
}

// New returns a machine with numRegisters registers, all holding zero. A
// negative count means no registers.
func New[T any](program []Inst[T], numRegisters int, arith numbers.Arith[T]) *VM[T] {
	numRegisters = max(numRegisters, 0)
	registers := make([]T, numRegisters)
	for i := range registers {
		registers[i] = arith.FromInt(0)
	}
	return &VM[T]{
		Program:      program,
		Arith:        arith,
		Registers:    registers,
		CallStack:    make(frames.Stack, 0, 16),
		Vars:         make(map[string]T),
		Out:          os.Stdout,
		MaxCallDepth: DefaultMaxCallDepth,
	}
}

func (v *VM[T]) Halted() bool {
	return v.PC >= len(v.Program)
}

// Register returns the value of register i.
func (v *VM[T]) Register(i int) (ret T, err error) {
	if i < 0 || i >= len(v.Registers) {
		return ret, traps.RegisterOutOfBounds(i, len(v.Registers))
	}
	return v.Registers[i], nil
}

func (v *VM[T]) setRegister(i int, val T) error {
	if i < 0 || i >= len(v.Registers) {
		return traps.RegisterOutOfBounds(i, len(v.Registers))
	}
	v.Registers[i] = val
	return nil
}

// CallStackString renders pending return addresses for post-mortem
// inspection.
func (v *VM[T]) CallStackString() string {
	return v.CallStack.String()
}
