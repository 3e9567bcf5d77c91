package asm

import (
	"fmt"
)

type frameKind uint8

const (
	frameIf frameKind = iota
	frameEndIfPending
	frameWhile
	frameDo
)

func (k frameKind) String() string {
	switch k {
	case frameIf:
		return "IF"
	case frameEndIfPending:
		return "IF/ELSE"
	case frameWhile:
		return "WHILE"
	case frameDo:
		return "DO"
	}
	return fmt.Sprintf("frame(%d)", uint8(k))
}

// controlFrame is a construct still waiting for its closing marker. patch
// is the index of the jump whose target is not known yet.
type controlFrame struct {
	kind  frameKind
	patch int
	head  string
	line  int
}

// Lower rewrites IF/ELSE/ENDIF, WHILE/ENDWHILE and DO/ENDDO into CJUMP,
// JUMP and LABEL instructions. CJUMP pops a condition and jumps when it is
// zero, so IF runs its then-branch and the loops keep going while the
// condition is non-zero.
func Lower[T any](insts []Inst[T]) ([]Inst[T], error) {
	out := make([]Inst[T], 0, len(insts))
	var control []controlFrame
	labels := 0

	emit := func(inst Inst[T]) int {
		out = append(out, inst)
		return len(out) - 1
	}

	newLabel := func(what string) string {
		labels++
		return fmt.Sprintf("%s%s.%d", ReservedPrefix, what, labels)
	}

	// binds the jump at patch to a fresh label emitted here
	land := func(patch int, what string, line int) {
		label := newLabel(what)
		out[patch].Name = label
		emit(Inst[T]{Kind: KindLabel, Name: label, Line: line})
	}

	pop := func(inst Inst[T], sentinel error, kinds ...frameKind) (controlFrame, error) {
		if len(control) == 0 {
			return controlFrame{}, &LineError{Line: inst.Line, Err: sentinel}
		}
		top := control[len(control)-1]
		for _, kind := range kinds {
			if top.kind == kind {
				control = control[:len(control)-1]
				return top, nil
			}
		}
		return controlFrame{}, &LineError{
			Line: inst.Line,
			Err:  fmt.Errorf("%w (innermost open construct is %s at line %d)", sentinel, top.kind, top.line),
		}
	}

	for _, inst := range insts {
		switch inst.Kind {

		case KindIf:
			patch := emit(Inst[T]{Kind: KindCJump, Line: inst.Line})
			control = append(control, controlFrame{
				kind:  frameIf,
				patch: patch,
				line:  inst.Line,
			})

		case KindElse:
			frame, err := pop(inst, ErrElseWithoutIf, frameIf)
			if err != nil {
				return nil, err
			}
			jump := emit(Inst[T]{Kind: KindJump, Line: inst.Line})
			land(frame.patch, "else", inst.Line)
			control = append(control, controlFrame{
				kind:  frameEndIfPending,
				patch: jump,
				line:  frame.line,
			})

		case KindEndIf:
			frame, err := pop(inst, ErrEndIfWithoutIf, frameIf, frameEndIfPending)
			if err != nil {
				return nil, err
			}
			land(frame.patch, "endif", inst.Line)

		case KindWhile:
			head := newLabel("while")
			emit(Inst[T]{Kind: KindLabel, Name: head, Line: inst.Line})
			patch := emit(Inst[T]{Kind: KindCJump, Line: inst.Line})
			control = append(control, controlFrame{
				kind:  frameWhile,
				patch: patch,
				head:  head,
				line:  inst.Line,
			})

		case KindEndWhile:
			frame, err := pop(inst, ErrEndWhileWithoutWhile, frameWhile)
			if err != nil {
				return nil, err
			}
			emit(Inst[T]{Kind: KindJump, Name: frame.head, Line: inst.Line})
			land(frame.patch, "endwhile", inst.Line)

		case KindDo:
			head := newLabel("do")
			emit(Inst[T]{Kind: KindLabel, Name: head, Line: inst.Line})
			control = append(control, controlFrame{
				kind: frameDo,
				head: head,
				line: inst.Line,
			})

		case KindEndDo:
			frame, err := pop(inst, ErrEndDoWithoutDo, frameDo)
			if err != nil {
				return nil, err
			}
			exit := emit(Inst[T]{Kind: KindCJump, Line: inst.Line})
			emit(Inst[T]{Kind: KindJump, Name: frame.head, Line: inst.Line})
			land(exit, "enddo", inst.Line)

		default:
			emit(inst)
		}
	}

	if len(control) > 0 {
		frame := control[len(control)-1]
		return nil, &LineError{
			Line: frame.line,
			Err:  fmt.Errorf("%w: %s is never closed", ErrUnbalancedControlFlow, frame.kind),
		}
	}

	return out, nil
}
