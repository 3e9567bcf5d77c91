package regvm

import "fmt"

// Inst is one register machine instruction. Unused operand fields are
// ignored. Src1 is the only source of PRINT, NOT and STORE and the
// condition of CJUMP.
type Inst[T any] struct {
	Op     Op
	Dest   int
	Src1   int
	Src2   int
	Value  T
	Target int
	Var    string
}

func LoadImm[T any](dest int, value T) Inst[T] {
	return Inst[T]{Op: OpLoadImm, Dest: dest, Value: value}
}

func binary[T any](op Op, dest, src1, src2 int) Inst[T] {
	return Inst[T]{Op: op, Dest: dest, Src1: src1, Src2: src2}
}

func Add[T any](dest, src1, src2 int) Inst[T] {
	return binary[T](OpAdd, dest, src1, src2)
}

func Sub[T any](dest, src1, src2 int) Inst[T] {
	return binary[T](OpSub, dest, src1, src2)
}

func Mul[T any](dest, src1, src2 int) Inst[T] {
	return binary[T](OpMul, dest, src1, src2)
}

func Div[T any](dest, src1, src2 int) Inst[T] {
	return binary[T](OpDiv, dest, src1, src2)
}

func Equal[T any](dest, src1, src2 int) Inst[T] {
	return binary[T](OpEqual, dest, src1, src2)
}

func LessThan[T any](dest, src1, src2 int) Inst[T] {
	return binary[T](OpLessThan, dest, src1, src2)
}

func GreaterThan[T any](dest, src1, src2 int) Inst[T] {
	return binary[T](OpGreaterThan, dest, src1, src2)
}

func Not[T any](dest, src int) Inst[T] {
	return Inst[T]{Op: OpNot, Dest: dest, Src1: src}
}

func Print[T any](src int) Inst[T] {
	return Inst[T]{Op: OpPrint, Src1: src}
}

func Jump[T any](target int) Inst[T] {
	return Inst[T]{Op: OpJump, Target: target}
}

func Call[T any](target int) Inst[T] {
	return Inst[T]{Op: OpCall, Target: target}
}

// CJump jumps to target when register cond holds zero.
func CJump[T any](cond, target int) Inst[T] {
	return Inst[T]{Op: OpCJump, Src1: cond, Target: target}
}

func Return[T any]() Inst[T] {
	return Inst[T]{Op: OpReturn}
}

func Store[T any](src int, name string) Inst[T] {
	return Inst[T]{Op: OpStore, Src1: src, Var: name}
}

func Load[T any](dest int, name string) Inst[T] {
	return Inst[T]{Op: OpLoad, Dest: dest, Var: name}
}

func Halt[T any]() Inst[T] {
	return Inst[T]{Op: OpHalt}
}

func (i Inst[T]) String() string {
	switch i.Op {
	case OpLoadImm:
		return fmt.Sprintf("%s r%d %v", i.Op, i.Dest, i.Value)
	case OpAdd, OpSub, OpMul, OpDiv, OpEqual, OpLessThan, OpGreaterThan:
		return fmt.Sprintf("%s r%d r%d r%d", i.Op, i.Dest, i.Src1, i.Src2)
	case OpNot:
		return fmt.Sprintf("%s r%d r%d", i.Op, i.Dest, i.Src1)
	case OpPrint:
		return fmt.Sprintf("%s r%d", i.Op, i.Src1)
	case OpJump, OpCall:
		return fmt.Sprintf("%s %d", i.Op, i.Target)
	case OpCJump:
		return fmt.Sprintf("%s r%d %d", i.Op, i.Src1, i.Target)
	case OpStore:
		return fmt.Sprintf("%s r%d %s", i.Op, i.Src1, i.Var)
	case OpLoad:
		return fmt.Sprintf("%s r%d %s", i.Op, i.Dest, i.Var)
	}
	return i.Op.String()
}
