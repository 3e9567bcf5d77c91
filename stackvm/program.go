package stackvm

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/glomdom/zyde/numbers"
)

// Program is a flat, fully resolved instruction sequence. It is read-only
// once built.
type Program[T any] struct {
	Name   string
	Code   []OpCode
	Consts []T
	Names  []string
}

var ErrMalformedProgram = errors.New("malformed program")

// Check verifies that every argument indexes into the constant or name
// pool it refers to. Jump targets are checked when they are taken.
func (p *Program[T]) Check() error {
	for i, inst := range p.Code {
		switch inst.Op() {
		case OpPush:
			if inst.Arg() >= len(p.Consts) {
				return fmt.Errorf("%w: %d: constant %d out of range", ErrMalformedProgram, i, inst.Arg())
			}
		case OpStore, OpLoad:
			if inst.Arg() >= len(p.Names) {
				return fmt.Errorf("%w: %d: name %d out of range", ErrMalformedProgram, i, inst.Arg())
			}
		default:
			if _, ok := opNames[inst.Op()]; !ok {
				return fmt.Errorf("%w: %d: unknown opcode %d", ErrMalformedProgram, i, uint32(inst.Op()))
			}
		}
	}
	return nil
}

type ListingLine struct {
	Addr    int
	Op      string
	Operand string
}

func (p *Program[T]) Listing(arith numbers.Arith[T]) []ListingLine {
	ret := make([]ListingLine, 0, len(p.Code))
	for addr, inst := range p.Code {
		line := ListingLine{
			Addr: addr,
			Op:   inst.String(),
		}
		switch op := inst.Op(); {
		case op == OpPush && inst.Arg() < len(p.Consts):
			line.Operand = arith.Format(p.Consts[inst.Arg()])
		case (op == OpStore || op == OpLoad) && inst.Arg() < len(p.Names):
			line.Operand = p.Names[inst.Arg()]
		case inst.HasTarget():
			line.Operand = strconv.Itoa(inst.Arg())
		}
		ret = append(ret, line)
	}
	return ret
}
