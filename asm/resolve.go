package asm

import (
	"fmt"
	"io"

	"github.com/glomdom/zyde/numbers"
	"github.com/glomdom/zyde/stackvm"
)

var plainOps = map[Kind]stackvm.OpCode{
	KindAdd:    stackvm.OpAdd,
	KindSub:    stackvm.OpSub,
	KindMul:    stackvm.OpMul,
	KindDiv:    stackvm.OpDiv,
	KindPrint:  stackvm.OpPrint,
	KindReturn: stackvm.OpReturn,
	KindHalt:   stackvm.OpHalt,
	KindEqual:  stackvm.OpEqual,
	KindLt:     stackvm.OpLt,
	KindGt:     stackvm.OpGt,
	KindDup:    stackvm.OpDup,
	KindSwap:   stackvm.OpSwap,
	KindPop:    stackvm.OpPop,
	KindNot:    stackvm.OpNot,
}

var targetOps = map[Kind]stackvm.OpCode{
	KindJump:  stackvm.OpJump,
	KindCall:  stackvm.OpCall,
	KindCJump: stackvm.OpCJump,
}

// Resolve turns a lowered sequence into a program: labels become absolute
// instruction indices and label declarations are dropped.
func Resolve[T any](insts []Inst[T]) (*stackvm.Program[T], error) {
	addrs, err := Layout(insts)
	if err != nil {
		return nil, err
	}

	prog := &stackvm.Program[T]{
		Code: make([]stackvm.OpCode, 0, len(insts)),
	}
	nameIndex := make(map[string]int)
	intern := func(name string) int {
		if idx, ok := nameIndex[name]; ok {
			return idx
		}
		idx := len(prog.Names)
		prog.Names = append(prog.Names, name)
		nameIndex[name] = idx
		return idx
	}

	for _, inst := range insts {
		var arg int
		var op stackvm.OpCode

		switch kind := inst.Kind; {
		case kind == KindLabel:
			continue

		case kind.Structured():
			panic(fmt.Errorf("%s at line %d was not lowered", kind, inst.Line))

		case kind == KindPush:
			op = stackvm.OpPush
			arg = len(prog.Consts)
			prog.Consts = append(prog.Consts, inst.Value)

		case kind == KindStore:
			op = stackvm.OpStore
			arg = intern(inst.Name)

		case kind == KindLoad:
			op = stackvm.OpLoad
			arg = intern(inst.Name)

		case targetOps[kind] != 0:
			op = targetOps[kind]
			addr, ok := addrs[inst.Name]
			if !ok {
				return nil, &LineError{
					Line: inst.Line,
					Err:  fmt.Errorf("%w: %s", ErrUndefinedLabel, inst.Name),
				}
			}
			arg = addr

		case plainOps[kind] != 0:
			op = plainOps[kind]

		default:
			panic(fmt.Errorf("unknown instruction kind %v at line %d", kind, inst.Line))
		}

		if arg > stackvm.MaxArg {
			return nil, &LineError{
				Line: inst.Line,
				Err:  fmt.Errorf("%w: operand %d exceeds %d", ErrProgramTooLarge, arg, stackvm.MaxArg),
			}
		}
		prog.Code = append(prog.Code, op.With(arg))
	}

	return prog, nil
}

// Assemble parses, lowers and resolves IR source into a program. No
// program is returned unless every stage succeeds.
func Assemble[T any](name string, r io.Reader, arith numbers.Arith[T]) (*stackvm.Program[T], error) {
	insts, err := Parse(name, r, arith)
	if err != nil {
		return nil, err
	}
	lowered, err := Lower(insts)
	if err != nil {
		return nil, WithFile(err, name)
	}
	prog, err := Resolve(lowered)
	if err != nil {
		return nil, WithFile(err, name)
	}
	prog.Name = name
	return prog, nil
}
