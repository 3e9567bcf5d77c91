package asm

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/glomdom/zyde/numbers"
)

// ReservedPrefix starts every label synthesized by Lower. Source labels
// may not use it.
const ReservedPrefix = "%"

type operandKind uint8

const (
	noOperand operandKind = iota
	valueOperand
	labelOperand
	nameOperand
)

type mnemonic struct {
	kind    Kind
	operand operandKind
}

var mnemonics = func() map[string]mnemonic {
	ret := make(map[string]mnemonic, len(kindNames))
	for kind, name := range kindNames {
		m := mnemonic{kind: kind}
		switch kind {
		case KindPush:
			m.operand = valueOperand
		case KindJump, KindCall, KindCJump, KindLabel:
			m.operand = labelOperand
		case KindStore, KindLoad:
			m.operand = nameOperand
		}
		ret[name] = m
	}
	return ret
}()

// Parse reads IR source. name is only used in error messages. The first
// malformed line aborts parsing with a *LineError.
func Parse[T any](name string, r io.Reader, arith numbers.Arith[T]) ([]Inst[T], error) {
	var ret []Inst[T]
	for line, err := range Lines(r) {
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		inst, err := parseLine(line, arith)
		if err != nil {
			return nil, &LineError{
				File: name,
				Line: line.No,
				Err:  err,
			}
		}
		ret = append(ret, inst)
	}
	return ret, nil
}

func parseLine[T any](line Line, arith numbers.Arith[T]) (inst Inst[T], err error) {
	word := strings.ToUpper(line.Fields[0])
	m, ok := mnemonics[word]
	if !ok {
		return inst, fmt.Errorf("%w: %q", ErrUnknownMnemonic, line.Fields[0])
	}
	operands := line.Fields[1:]

	want := 1
	if m.operand == noOperand {
		want = 0
	}
	if len(operands) != want {
		return inst, fmt.Errorf("%w: %s takes %d, got %d", ErrArity, word, want, len(operands))
	}

	inst.Kind = m.kind
	inst.Line = line.No

	switch m.operand {
	case valueOperand:
		n, err := strconv.ParseInt(operands[0], 10, 32)
		if err != nil {
			return inst, fmt.Errorf("%w: %s %q", ErrBadLiteral, word, operands[0])
		}
		inst.Value = arith.FromInt(int32(n))
	case labelOperand:
		if strings.HasPrefix(operands[0], ReservedPrefix) {
			return inst, fmt.Errorf("%w: %q", ErrReservedName, operands[0])
		}
		inst.Name = operands[0]
	case nameOperand:
		inst.Name = operands[0]
	}

	return inst, nil
}
