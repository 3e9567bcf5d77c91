package regvm

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/glomdom/zyde/asm"
	"github.com/glomdom/zyde/numbers"
)

var ErrBadRegister = fmt.Errorf("%w: invalid register", asm.ErrMalformedLine)

type slot uint8

const (
	slotDest slot = iota
	slotSrc1
	slotSrc2
	slotValue
	slotLabel
	slotVar
)

var syntax = map[string]struct {
	op    Op
	slots []slot
}{
	"LOADI":    {OpLoadImm, []slot{slotDest, slotValue}},
	"ADD":      {OpAdd, []slot{slotDest, slotSrc1, slotSrc2}},
	"SUBTRACT": {OpSub, []slot{slotDest, slotSrc1, slotSrc2}},
	"MULTIPLY": {OpMul, []slot{slotDest, slotSrc1, slotSrc2}},
	"DIVIDE":   {OpDiv, []slot{slotDest, slotSrc1, slotSrc2}},
	"EQUAL":    {OpEqual, []slot{slotDest, slotSrc1, slotSrc2}},
	"LT":       {OpLessThan, []slot{slotDest, slotSrc1, slotSrc2}},
	"GT":       {OpGreaterThan, []slot{slotDest, slotSrc1, slotSrc2}},
	"NOT":      {OpNot, []slot{slotDest, slotSrc1}},
	"PRINT":    {OpPrint, []slot{slotSrc1}},
	"JUMP":     {OpJump, []slot{slotLabel}},
	"CALL":     {OpCall, []slot{slotLabel}},
	"CJUMP":    {OpCJump, []slot{slotSrc1, slotLabel}},
	"RETURN":   {OpReturn, nil},
	"STORE":    {OpStore, []slot{slotSrc1, slotVar}},
	"LOAD":     {OpLoad, []slot{slotDest, slotVar}},
	"HALT":     {OpHalt, nil},
}

// source is a parsed line: either a label declaration or an instruction
// whose Target is still the symbolic ref.
type source[T any] struct {
	inst  Inst[T]
	label string
	ref   string
	line  int
}

func (s source[T]) LabelDecl() (string, bool) {
	return s.label, s.label != ""
}

func (s source[T]) SourceLine() int {
	return s.line
}

// Assemble reads register IR such as
//
//	LOADI r0 10
//	LABEL loop
//	ADD r1 r1 r0
//	CJUMP r2 loop
//
// and resolves labels to instruction indices. Comments, blank lines and
// mnemonic case follow the stack IR.
func Assemble[T any](name string, r io.Reader, arith numbers.Arith[T]) ([]Inst[T], error) {
	var sources []source[T]
	for line, err := range asm.Lines(r) {
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		src, err := parseLine(line, arith)
		if err != nil {
			return nil, &asm.LineError{
				File: name,
				Line: line.No,
				Err:  err,
			}
		}
		sources = append(sources, src)
	}

	addrs, err := asm.Layout(sources)
	if err != nil {
		return nil, asm.WithFile(err, name)
	}

	ret := make([]Inst[T], 0, len(sources))
	for _, src := range sources {
		if src.label != "" {
			continue
		}
		if src.ref != "" {
			addr, ok := addrs[src.ref]
			if !ok {
				return nil, &asm.LineError{
					File: name,
					Line: src.line,
					Err:  fmt.Errorf("%w: %s", asm.ErrUndefinedLabel, src.ref),
				}
			}
			src.inst.Target = addr
		}
		ret = append(ret, src.inst)
	}

	return ret, nil
}

func parseLine[T any](line asm.Line, arith numbers.Arith[T]) (src source[T], err error) {
	src.line = line.No
	word := strings.ToUpper(line.Fields[0])
	operands := line.Fields[1:]

	if word == "LABEL" {
		if len(operands) != 1 {
			return src, fmt.Errorf("%w: LABEL takes 1, got %d", asm.ErrArity, len(operands))
		}
		src.label = operands[0]
		return src, nil
	}

	s, ok := syntax[word]
	if !ok {
		return src, fmt.Errorf("%w: %q", asm.ErrUnknownMnemonic, line.Fields[0])
	}
	if len(operands) != len(s.slots) {
		return src, fmt.Errorf("%w: %s takes %d, got %d", asm.ErrArity, word, len(s.slots), len(operands))
	}

	src.inst.Op = s.op
	for i, slot := range s.slots {
		operand := operands[i]
		switch slot {
		case slotDest, slotSrc1, slotSrc2:
			reg, err := parseRegister(operand)
			if err != nil {
				return src, err
			}
			switch slot {
			case slotDest:
				src.inst.Dest = reg
			case slotSrc1:
				src.inst.Src1 = reg
			case slotSrc2:
				src.inst.Src2 = reg
			}
		case slotValue:
			n, err := strconv.ParseInt(operand, 10, 32)
			if err != nil {
				return src, fmt.Errorf("%w: %s %q", asm.ErrBadLiteral, word, operand)
			}
			src.inst.Value = arith.FromInt(int32(n))
		case slotLabel:
			src.ref = operand
		case slotVar:
			src.inst.Var = operand
		}
	}

	return src, nil
}

// parseRegister accepts r0, r1, ... in either case.
func parseRegister(s string) (int, error) {
	if len(s) < 2 || (s[0] != 'r' && s[0] != 'R') {
		return 0, fmt.Errorf("%w: %q", ErrBadRegister, s)
	}
	n, err := strconv.ParseUint(s[1:], 10, 31)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadRegister, s)
	}
	return int(n), nil
}
