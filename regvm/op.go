package regvm

import "fmt"

type Op uint8

const (
	OpLoadImm Op = iota + 1
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
	OpLessThan
	OpGreaterThan
	OpNot
	OpHalt
)

var opNames = map[Op]string{
	OpLoadImm:     "LOADI",
	OpAdd:         "ADD",
	OpSub:         "SUBTRACT",
	OpMul:         "MULTIPLY",
	OpDiv:         "DIVIDE",
	OpPrint:       "PRINT",
	OpJump:        "JUMP",
	OpCall:        "CALL",
	OpCJump:       "CJUMP",
	OpReturn:      "RETURN",
	OpStore:       "STORE",
	OpLoad:        "LOAD",
	OpEqual:       "EQUAL",
	OpLessThan:    "LT",
	OpGreaterThan: "GT",
	OpNot:         "NOT",
	OpHalt:        "HALT",
}

func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return fmt.Sprintf("OP(%d)", uint8(o))
}
