package stackvm

import "fmt"

// OpCode packs an operation into the low 8 bits and its argument (a
// constant index, a name index or an absolute target) into the high 24.
type OpCode uint32

const (
	OpPush OpCode = iota + 1
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpPrint
	OpJump
	OpCall
	OpCJump
	OpReturn
	OpStore
	OpLoad
	OpEqual
	OpLt
	OpGt
	OpDup
	OpSwap
	OpPop
	OpNot
	OpHalt
)

const MaxArg = 1<<24 - 1

func (o OpCode) With(arg int) OpCode {
	return o | (OpCode(arg) << 8)
}

func (o OpCode) Op() OpCode {
	return o & 0xff
}

func (o OpCode) Arg() int {
	return int(o >> 8)
}

var opNames = map[OpCode]string{
	OpPush:   "PUSH",
	OpAdd:    "ADD",
	OpSub:    "SUBTRACT",
	OpMul:    "MULTIPLY",
	OpDiv:    "DIVIDE",
	OpPrint:  "PRINT",
	OpJump:   "JUMP",
	OpCall:   "CALL",
	OpCJump:  "CJUMP",
	OpReturn: "RETURN",
	OpStore:  "STORE",
	OpLoad:   "LOAD",
	OpEqual:  "EQUAL",
	OpLt:     "LT",
	OpGt:     "GT",
	OpDup:    "DUP",
	OpSwap:   "SWAP",
	OpPop:    "POP",
	OpNot:    "NOT",
	OpHalt:   "HALT",
}

// String returns the mnemonic, without the argument.
func (o OpCode) String() string {
	if name, ok := opNames[o.Op()]; ok {
		return name
	}
	return fmt.Sprintf("OP(%d)", uint32(o.Op()))
}

// HasTarget reports whether the argument is an instruction index.
func (o OpCode) HasTarget() bool {
	switch o.Op() {
	case OpJump, OpCall, OpCJump:
		return true
	}
	return false
}
