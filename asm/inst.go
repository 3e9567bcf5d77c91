// Package asm turns IR text into stack machine programs: it parses lines
// into symbolic instructions, lowers structured control flow into jumps
// and labels, and resolves labels to absolute instruction indices.
package asm

import "fmt"

type Kind uint8

const (
	KindPush Kind = iota + 1
	KindAdd
	KindSub
	KindMul
	KindDiv
	KindPrint
	KindJump
	KindCall
	KindCJump
	KindLabel
	KindReturn
	KindHalt
	KindStore
	KindLoad
	KindEqual
	KindLt
	KindGt
	KindDup
	KindSwap
	KindPop
	KindNot

	// structured control flow, removed by Lower
	KindIf
	KindElse
	KindEndIf
	KindWhile
	KindEndWhile
	KindDo
	KindEndDo
)

var kindNames = map[Kind]string{
	KindPush:     "PUSH",
	KindAdd:      "ADD",
	KindSub:      "SUBTRACT",
	KindMul:      "MULTIPLY",
	KindDiv:      "DIVIDE",
	KindPrint:    "PRINT",
	KindJump:     "JUMP",
	KindCall:     "CALL",
	KindCJump:    "CJUMP",
	KindLabel:    "LABEL",
	KindReturn:   "RETURN",
	KindHalt:     "HALT",
	KindStore:    "STORE",
	KindLoad:     "LOAD",
	KindEqual:    "EQUAL",
	KindLt:       "LT",
	KindGt:       "GT",
	KindDup:      "DUP",
	KindSwap:     "SWAP",
	KindPop:      "POP",
	KindNot:      "NOT",
	KindIf:       "IF",
	KindElse:     "ELSE",
	KindEndIf:    "ENDIF",
	KindWhile:    "WHILE",
	KindEndWhile: "ENDWHILE",
	KindDo:       "DO",
	KindEndDo:    "ENDDO",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

func (k Kind) Structured() bool {
	return k >= KindIf && k <= KindEndDo
}

// Inst is one symbolic instruction. Value is set for PUSH; Name holds the
// label of LABEL, JUMP, CALL and CJUMP, or the variable of STORE and LOAD.
type Inst[T any] struct {
	Kind  Kind
	Value T
	Name  string
	Line  int
}

func (i Inst[T]) LabelDecl() (string, bool) {
	return i.Name, i.Kind == KindLabel
}

func (i Inst[T]) SourceLine() int {
	return i.Line
}

func (i Inst[T]) String() string {
	switch i.Kind {
	case KindPush:
		return fmt.Sprintf("%s %v", i.Kind, i.Value)
	case KindJump, KindCall, KindCJump, KindLabel, KindStore, KindLoad:
		return i.Kind.String() + " " + i.Name
	}
	return i.Kind.String()
}
