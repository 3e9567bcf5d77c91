package asm

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/cockroachdb/apd/v3"
	"github.com/glomdom/zyde/numbers"
	"github.com/glomdom/zyde/stackvm"
	"github.com/glomdom/zyde/traps"
)

func assemble(t *testing.T, src string) *stackvm.Program[int64] {
	t.Helper()
	prog, err := Assemble("test", strings.NewReader(src), numbers.Int{})
	if err != nil {
		t.Fatalf("src: %s, err: %v", src, err)
	}
	return prog
}

func execute(t *testing.T, src string) *stackvm.VM[int64] {
	t.Helper()
	vm := stackvm.New(assemble(t, src), numbers.Int{})
	vm.Out = new(bytes.Buffer)
	vm.MaxSteps = 100000
	if err := vm.Run(); err != nil {
		t.Fatalf("src: %s, err: %v", src, err)
	}
	return vm
}

func expectStack(t *testing.T, vm *stackvm.VM[int64], expected ...int64) {
	t.Helper()
	if len(expected) == 0 {
		expected = []int64{}
	}
	if !reflect.DeepEqual(vm.Stack, expected) {
		t.Fatalf("expected stack %v, got %v", expected, vm.Stack)
	}
}

func TestArithmetic(t *testing.T) {
	vm := execute(t, `
		PUSH 10
		PUSH 20
		ADD
		HALT
	`)
	expectStack(t, vm, 30)

	vm = execute(t, `
		PUSH 50
		PUSH 8
		SUBTRACT
		PUSH 2
		MULTIPLY
		PUSH 4
		DIVIDE
	`)
	expectStack(t, vm, 21)
}

func TestArithmeticMatchesDirectEvaluation(t *testing.T) {
	values := []int32{-7, -1, 0, 1, 3, 12, 1000}
	for _, a := range values {
		for _, b := range values {
			for _, c := range values {
				if c == 0 {
					continue
				}
				// (a - b) * c / c + a
				src := strings.Join([]string{
					"PUSH " + numbers.Int{}.Format(int64(a)),
					"PUSH " + numbers.Int{}.Format(int64(b)),
					"SUBTRACT",
					"PUSH " + numbers.Int{}.Format(int64(c)),
					"MULTIPLY",
					"PUSH " + numbers.Int{}.Format(int64(c)),
					"DIVIDE",
					"PUSH " + numbers.Int{}.Format(int64(a)),
					"ADD",
					"HALT",
				}, "\n")
				vm := execute(t, src)
				expected := (int64(a)-int64(b))*int64(c)/int64(c) + int64(a)
				expectStack(t, vm, expected)
			}
		}
	}
}

func TestCommentsAndCase(t *testing.T) {
	vm := execute(t, `
		push 10 ; push 10
		Push 20 ; push 20

		; a comment line
		aDd     ; add them
		halt
	`)
	expectStack(t, vm, 30)
}

func TestLoweredPlainProgramEndsWithHalt(t *testing.T) {
	insts, err := Parse("test", strings.NewReader(`
		PUSH 10 ; push 10
		PUSH 20 ; push 20
		ADD     ; add them
		HALT
	`), numbers.Int{})
	if err != nil {
		t.Fatal(err)
	}
	lowered, err := Lower(insts)
	if err != nil {
		t.Fatal(err)
	}
	if len(lowered) != 4 || lowered[len(lowered)-1].Kind != KindHalt {
		t.Fatalf("got %v", lowered)
	}
	prog, err := Resolve(lowered)
	if err != nil {
		t.Fatal(err)
	}
	vm := stackvm.New(prog, numbers.Int{})
	if err := vm.Run(); err != nil {
		t.Fatal(err)
	}
	expectStack(t, vm, 30)
}

func TestIfElse(t *testing.T) {
	vm := execute(t, `
		PUSH 10
		PUSH 10
		EQUAL
		IF
		  PUSH 42
		ELSE
		  PUSH 0
		ENDIF
		PUSH 7 ; join point
		HALT
	`)
	expectStack(t, vm, 42, 7)

	vm = execute(t, `
		PUSH 10
		PUSH 20
		EQUAL
		IF
		  PUSH 1
		ELSE
		  PUSH 99
		ENDIF
		PUSH 7
		HALT
	`)
	expectStack(t, vm, 99, 7)
}

func TestIfWithoutElse(t *testing.T) {
	vm := execute(t, `
		PUSH 1
		IF
		  PUSH 5
		ENDIF
		PUSH 7
		HALT
	`)
	expectStack(t, vm, 5, 7)

	vm = execute(t, `
		PUSH 0
		IF
		  PUSH 5
		ENDIF
		PUSH 7
		HALT
	`)
	expectStack(t, vm, 7)
}

func TestNestedIf(t *testing.T) {
	src := func(a, b string) string {
		return `
			PUSH ` + a + `
			IF
			  PUSH ` + b + `
			  IF
			    PUSH 11
			  ELSE
			    PUSH 10
			  ENDIF
			ELSE
			  PUSH ` + b + `
			  IF
			    PUSH 1
			  ELSE
			    PUSH 0
			  ENDIF
			ENDIF
			HALT
		`
	}
	expectStack(t, execute(t, src("1", "1")), 11)
	expectStack(t, execute(t, src("1", "0")), 10)
	expectStack(t, execute(t, src("0", "1")), 1)
	expectStack(t, execute(t, src("0", "0")), 0)
}

func TestWhile(t *testing.T) {
	// condition false on entry: body never runs
	vm := execute(t, `
		PUSH 0
		WHILE
		  PUSH 99
		  PUSH 0
		ENDWHILE
		PUSH 7
		HALT
	`)
	expectStack(t, vm, 7)

	vm = execute(t, `
		PUSH 0
		STORE i
		PUSH 0
		STORE sum
		LOAD i
		PUSH 5
		LT
		WHILE
		  LOAD sum
		  LOAD i
		  ADD
		  STORE sum
		  LOAD i
		  PUSH 1
		  ADD
		  STORE i
		  LOAD i
		  PUSH 5
		  LT
		ENDWHILE
		LOAD sum
		HALT
	`)
	expectStack(t, vm, 10)
	if vm.Vars["i"] != 5 || vm.Vars["sum"] != 10 {
		t.Fatalf("got %v", vm.Vars)
	}
}

func TestDoLoop(t *testing.T) {
	vm := execute(t, `
		PUSH 3
		DO
		    DUP
		    PRINT
		    PUSH 1
		    SUBTRACT
		    DUP
		    PUSH 0
		    GT
		ENDDO
		HALT
	`)
	expectStack(t, vm, 3, 2, 1, 0)
	if got := vm.Out.(*bytes.Buffer).String(); got != "3\n2\n1\n" {
		t.Fatalf("got %q", got)
	}

	// body runs once even though the exit condition holds at once
	vm = execute(t, `
		DO
		  PUSH 5
		  PUSH 0
		ENDDO
		HALT
	`)
	expectStack(t, vm, 5)
}

func TestVariablesAndComparisons(t *testing.T) {
	vm := execute(t, "PUSH 15\nSTORE x\nPUSH 20\nSTORE y\nLOAD x\nLOAD y\nLT\nHALT")
	expectStack(t, vm, 1)
	if !reflect.DeepEqual(vm.Vars, map[string]int64{"x": 15, "y": 20}) {
		t.Fatalf("got %v", vm.Vars)
	}
}

func TestStackManipulation(t *testing.T) {
	vm := execute(t, `
		PUSH 42
		DUP
		PUSH 99
		SWAP
		POP
		HALT
	`)
	expectStack(t, vm, 42, 99)
}

func TestNot(t *testing.T) {
	vm := execute(t, `
		PUSH 0
		NOT
		PUSH 1
		NOT
		HALT
	`)
	expectStack(t, vm, 1, 0)
}

func TestFunctionCall(t *testing.T) {
	vm := execute(t, "CALL func\nHALT\nLABEL func\nPUSH 42\nRETURN")
	expectStack(t, vm, 42)
	if len(vm.CallStack) != 0 {
		t.Fatalf("got %v", vm.CallStack)
	}
}

func TestRecursiveCallsBalance(t *testing.T) {
	vm := execute(t, `
		PUSH 5
		STORE n
		PUSH 1
		STORE acc
		CALL fact
		LOAD acc
		HALT

		LABEL fact
		LOAD n
		PUSH 1
		GT
		IF
		  LOAD acc
		  LOAD n
		  MULTIPLY
		  STORE acc
		  LOAD n
		  PUSH 1
		  SUBTRACT
		  STORE n
		  CALL fact
		ENDIF
		RETURN
	`)
	expectStack(t, vm, 120)
	if len(vm.CallStack) != 0 {
		t.Fatalf("got %v", vm.CallStack)
	}
}

func TestForwardAndBackwardReferences(t *testing.T) {
	vm := execute(t, `
		JUMP forward
		PUSH 1
		LABEL forward
		PUSH 2
		HALT
	`)
	expectStack(t, vm, 2)

	forward := assemble(t, "JUMP a\nLABEL a\nHALT")
	backward := assemble(t, "LABEL a\nJUMP a\nHALT")
	if forward.Code[0] != stackvm.OpJump.With(1) {
		t.Fatalf("got %v", forward.Code)
	}
	if backward.Code[0] != stackvm.OpJump.With(0) {
		t.Fatalf("got %v", backward.Code)
	}
}

func TestLabelOrderDoesNotMatter(t *testing.T) {
	a := assemble(t, `
		PUSH 1
		LABEL x
		LABEL y
		LABEL unused1
		LABEL unused2
		JUMP x
		JUMP y
	`)
	b := assemble(t, `
		PUSH 1
		LABEL unused2
		LABEL y
		LABEL x
		LABEL unused1
		JUMP x
		JUMP y
	`)
	if !reflect.DeepEqual(a.Code, b.Code) {
		t.Fatalf("got %v and %v", a.Code, b.Code)
	}
}

func TestLayout(t *testing.T) {
	insts := []Inst[int64]{
		{Kind: KindLabel, Name: "start", Line: 1},
		{Kind: KindPush, Line: 2},
		{Kind: KindLabel, Name: "mid", Line: 3},
		{Kind: KindPop, Line: 4},
		{Kind: KindHalt, Line: 5},
		{Kind: KindLabel, Name: "end", Line: 6},
	}
	addrs, err := Layout(insts)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(addrs, map[string]int{"start": 0, "mid": 1, "end": 3}) {
		t.Fatalf("got %v", addrs)
	}
}

func TestLowerRemovesStructuredControlFlow(t *testing.T) {
	insts, err := Parse("test", strings.NewReader(`
		PUSH 1
		IF
		  PUSH 0
		  WHILE
		    DO
		      PUSH 0
		    ENDDO
		    PUSH 0
		  ENDWHILE
		ELSE
		  PUSH 2
		ENDIF
		HALT
	`), numbers.Int{})
	if err != nil {
		t.Fatal(err)
	}
	lowered, err := Lower(insts)
	if err != nil {
		t.Fatal(err)
	}
	for _, inst := range lowered {
		if inst.Kind.Structured() {
			t.Fatalf("got %v", inst)
		}
		switch inst.Kind {
		case KindJump, KindCJump, KindLabel:
			if !strings.HasPrefix(inst.Name, ReservedPrefix) {
				t.Fatalf("got %v", inst)
			}
		}
	}
	if _, err := Resolve(lowered); err != nil {
		t.Fatal(err)
	}
}

func TestResolvePanicsOnStructuredInput(t *testing.T) {
	defer func() {
		if p := recover(); p == nil {
			t.Fatal("should panic")
		}
	}()
	Resolve([]Inst[int64]{
		{Kind: KindIf, Line: 1},
	})
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		src    string
		target error
		line   int
	}{
		{"PUSH", ErrArity, 1},
		{"PUSH 1 2", ErrArity, 1},
		{"ADD 1", ErrArity, 1},
		{"JUMP", ErrArity, 1},
		{"IF 1", ErrArity, 1},
		{"PUSH x", ErrBadLiteral, 1},
		{"PUSH 1.5", ErrBadLiteral, 1},
		{"PUSH 99999999999", ErrBadLiteral, 1},
		{"PUSH 1\n\n; comment\nBOGUS", ErrUnknownMnemonic, 4},
		{"LABEL %else.1", ErrReservedName, 1},
		{"JUMP %x", ErrReservedName, 1},
	}
	for _, c := range cases {
		insts, err := Parse("test", strings.NewReader(c.src), numbers.Int{})
		if !errors.Is(err, c.target) {
			t.Fatalf("%q: got %v", c.src, err)
		}
		if !errors.Is(err, ErrMalformedLine) {
			t.Fatalf("%q: got %v", c.src, err)
		}
		if insts != nil {
			t.Fatalf("%q: got partial result %v", c.src, insts)
		}
		var lineErr *LineError
		if !errors.As(err, &lineErr) || lineErr.Line != c.line {
			t.Fatalf("%q: got %v", c.src, err)
		}
	}
}

func TestControlFlowErrors(t *testing.T) {
	cases := []struct {
		src     string
		targets []error
		line    int
	}{
		{"ELSE", []error{ErrElseWithoutIf, ErrControlFlowMismatch}, 1},
		{"ENDIF", []error{ErrEndIfWithoutIf}, 1},
		{"ENDWHILE", []error{ErrEndWhileWithoutWhile}, 1},
		{"ENDDO", []error{ErrEndDoWithoutDo}, 1},
		{"PUSH 1\nIF\nELSE\nELSE\nENDIF", []error{ErrElseWithoutIf}, 4},
		{"WHILE\nENDIF", []error{ErrEndIfWithoutIf, ErrControlFlowMismatch}, 2},
		{"DO\nENDWHILE", []error{ErrEndWhileWithoutWhile}, 2},
		{"IF\nENDDO", []error{ErrEndDoWithoutDo}, 2},
		{"PUSH 1\nIF\nPUSH 1", []error{ErrUnbalancedControlFlow}, 2},
		{"DO\nWHILE\nENDWHILE", []error{ErrUnbalancedControlFlow}, 1},
	}
	for _, c := range cases {
		prog, err := Assemble("test", strings.NewReader(c.src), numbers.Int{})
		if prog != nil {
			t.Fatalf("%q: got program", c.src)
		}
		for _, target := range c.targets {
			if !errors.Is(err, target) {
				t.Fatalf("%q: got %v", c.src, err)
			}
		}
		var lineErr *LineError
		if !errors.As(err, &lineErr) || lineErr.Line != c.line {
			t.Fatalf("%q: got %v", c.src, err)
		}
	}

	_, err := Assemble("test", strings.NewReader("DO\nPUSH 1"), numbers.Int{})
	if err == nil || !strings.Contains(err.Error(), "DO is never closed") {
		t.Fatalf("got %v", err)
	}
}

func TestLabelErrors(t *testing.T) {
	_, err := Assemble("prog.zir", strings.NewReader("PUSH 1\nJUMP nowhere"), numbers.Int{})
	if !errors.Is(err, ErrUndefinedLabel) {
		t.Fatalf("got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "prog.zir:2:") || !strings.Contains(err.Error(), "nowhere") {
		t.Fatalf("got %v", err)
	}

	_, err = Assemble("test", strings.NewReader("LABEL a\nPUSH 1\nLABEL a"), numbers.Int{})
	if !errors.Is(err, ErrDuplicateLabel) {
		t.Fatalf("got %v", err)
	}
	var lineErr *LineError
	if !errors.As(err, &lineErr) || lineErr.Line != 3 {
		t.Fatalf("got %v", err)
	}
}

func TestRuntimeTraps(t *testing.T) {
	run := func(src string) error {
		t.Helper()
		vm := stackvm.New(assemble(t, src), numbers.Int{})
		vm.Out = new(bytes.Buffer)
		vm.MaxSteps = 1000
		return vm.Run()
	}

	if err := run("RETURN"); !errors.Is(err, traps.ErrCallStackEmpty) {
		t.Fatalf("got %v", err)
	}
	if err := run("ADD"); !errors.Is(err, traps.ErrStackUnderflow) || !strings.Contains(err.Error(), "ADD") {
		t.Fatalf("got %v", err)
	}
	if err := run("LOAD x"); !errors.Is(err, traps.ErrVariableNotFound) {
		t.Fatalf("got %v", err)
	}
	// a jump to the label after the last instruction is out of bounds
	if err := run("PUSH 0\nIF\nPUSH 2\nENDIF"); !errors.Is(err, traps.ErrProgramCounterOutOfBounds) {
		t.Fatalf("got %v", err)
	}
	if err := run("PUSH 1\nIF\nPUSH 2\nENDIF"); err != nil {
		t.Fatalf("got %v", err)
	}
	// a loop that never ends
	if err := run("PUSH 1\nWHILE\nPUSH 1\nENDWHILE\nHALT"); !errors.Is(err, traps.ErrStepLimit) {
		t.Fatalf("got %v", err)
	}
}

// A construct closed by the last line binds its exit label to the end of
// the program. Jumping there traps; a trailing HALT gives it a target.
func TestConstructClosingAtEnd(t *testing.T) {
	cases := []struct {
		src    string
		pc     int
		target int
	}{
		{"PUSH 0\nIF\nPUSH 1\nENDIF", 1, 3},
		{"PUSH 1\nIF\nPUSH 2\nELSE\nPUSH 3\nENDIF", 3, 5},
		{"PUSH 0\nWHILE\nPUSH 1\nENDWHILE", 1, 4},
		{"PUSH 0\nDO\nPUSH 0\nENDDO", 2, 4},
	}
	for _, c := range cases {
		prog := assemble(t, c.src)
		if len(prog.Code) != c.target {
			t.Fatalf("%q: got %d instructions", c.src, len(prog.Code))
		}
		target := -1
		for _, inst := range prog.Code {
			if inst.HasTarget() && inst.Arg() == len(prog.Code) {
				target = inst.Arg()
			}
		}
		if target != c.target {
			t.Fatalf("%q: no jump to the end in %v", c.src, prog.Listing(numbers.Int{}))
		}

		vm := stackvm.New(prog, numbers.Int{})
		vm.Out = new(bytes.Buffer)
		vm.MaxSteps = 1000
		err := vm.Run()
		var trap *traps.Trap
		if !errors.Is(err, traps.ErrProgramCounterOutOfBounds) ||
			!errors.As(err, &trap) ||
			trap.PC != c.pc {
			t.Fatalf("%q: got %v", c.src, err)
		}

		execute(t, c.src+"\nHALT")
	}
}

func TestDecimalProgram(t *testing.T) {
	arith := numbers.NewDecimal(0)
	prog, err := Assemble("test", strings.NewReader("PUSH 1\nPUSH 4\nDIVIDE\nHALT"), arith)
	if err != nil {
		t.Fatal(err)
	}
	vm := stackvm.New(prog, arith)
	if err := vm.Run(); err != nil {
		t.Fatal(err)
	}
	top, ok := vm.Top()
	if !ok || !arith.Equal(top, apd.New(25, -2)) {
		t.Fatalf("got %v", vm.Stack)
	}
}

func TestLines(t *testing.T) {
	var got []Line
	for line, err := range Lines(strings.NewReader("a b ; c\n\n  ;x\nd")) {
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, line)
	}
	expected := []Line{
		{No: 1, Fields: []string{"a", "b"}},
		{No: 4, Fields: []string{"d"}},
	}
	if !reflect.DeepEqual(got, expected) {
		t.Fatalf("got %v", got)
	}
}
