package regvm_test

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/glomdom/zyde/asm"
	"github.com/glomdom/zyde/numbers"
	"github.com/glomdom/zyde/regvm"
)

var _ = Describe("Assemble", func() {
	var (
		out *bytes.Buffer
	)

	assemble := func(src string) ([]regvm.Inst[int64], error) {
		return regvm.Assemble("test.zreg", strings.NewReader(src), numbers.Int{})
	}

	execute := func(src string) *regvm.VM[int64] {
		prog, err := assemble(src)
		Expect(err).NotTo(HaveOccurred())
		vm := regvm.New(prog, 8, numbers.Int{})
		vm.Out = out
		vm.MaxSteps = 10000
		Expect(vm.Run()).To(Succeed())
		return vm
	}

	BeforeEach(func() {
		out = new(bytes.Buffer)
	})

	It("should assemble every instruction", func() {
		prog, err := assemble(`
			loadi r0 42   ; comment
			ADD r2 r0 r1
			SUBTRACT r2 r0 r1
			MULTIPLY r2 r0 r1
			DIVIDE r2 r0 r1
			EQUAL r2 r0 r1
			LT r2 r0 r1
			GT r2 r0 r1
			NOT r1 r0
			PRINT r1
			LABEL here
			JUMP here
			CALL here
			CJUMP r3 here
			RETURN
			STORE r0 x
			LOAD R1 x
			HALT
		`)
		Expect(err).NotTo(HaveOccurred())
		Expect(prog).To(HaveLen(17))
		Expect(prog[0]).To(Equal(regvm.LoadImm[int64](0, 42)))
		Expect(prog[1]).To(Equal(regvm.Add[int64](2, 0, 1)))
		Expect(prog[8]).To(Equal(regvm.Not[int64](1, 0)))
		Expect(prog[9]).To(Equal(regvm.Print[int64](1)))
		Expect(prog[10]).To(Equal(regvm.Jump[int64](10)))
		Expect(prog[11]).To(Equal(regvm.Call[int64](10)))
		Expect(prog[12]).To(Equal(regvm.CJump[int64](3, 10)))
		Expect(prog[14]).To(Equal(regvm.Store[int64](0, "x")))
		Expect(prog[15]).To(Equal(regvm.Load[int64](1, "x")))
		Expect(prog[16]).To(Equal(regvm.Halt[int64]()))
	})

	It("should resolve forward references", func() {
		vm := execute(`
			LOADI r0 1
			JUMP skip
			LOADI r0 999
			LABEL skip
			LOADI r1 42
			HALT
		`)
		Expect(vm.Registers[0]).To(Equal(int64(1)))
		Expect(vm.Registers[1]).To(Equal(int64(42)))
	})

	It("should count down with a backward conditional jump", func() {
		vm := execute(`
			LOADI r0 3   ; counter
			LOADI r1 1
			LABEL loop
			PRINT r0
			SUBTRACT r0 r0 r1
			NOT r2 r0
			CJUMP r2 loop
			HALT
		`)
		Expect(vm.Registers[0]).To(Equal(int64(0)))
		Expect(out.String()).To(Equal("3\n2\n1\n"))
	})

	It("should call and return", func() {
		vm := execute(`
			LOADI r0 10
			CALL f
			LOADI r1 42
			HALT
			LABEL f
			LOADI r2 100
			RETURN
		`)
		Expect(vm.Registers[:3]).To(Equal([]int64{10, 42, 100}))
		Expect(vm.CallStack).To(BeEmpty())
	})

	It("should move values through variables", func() {
		vm := execute(`
			LOADI r0 15
			STORE r0 x
			LOADI r0 20
			STORE r0 y
			LOAD r1 x
			LOAD r2 y
			LT r3 r1 r2
			HALT
		`)
		Expect(vm.Registers[3]).To(Equal(int64(1)))
		Expect(vm.Vars).To(Equal(map[string]int64{"x": 15, "y": 20}))
	})

	DescribeTable("malformed lines",
		func(src string, target error, line int) {
			prog, err := assemble(src)
			Expect(prog).To(BeNil())
			Expect(err).To(MatchError(target))
			Expect(err).To(MatchError(asm.ErrMalformedLine))
			var lineErr *asm.LineError
			Expect(err).To(BeAssignableToTypeOf(lineErr))
			lineErr = err.(*asm.LineError)
			Expect(lineErr.File).To(Equal("test.zreg"))
			Expect(lineErr.Line).To(Equal(line))
		},
		Entry("unknown mnemonic", "PUSH 1", asm.ErrUnknownMnemonic, 1),
		Entry("missing operand", "ADD r0 r1", asm.ErrArity, 1),
		Entry("extra operand", "HALT r0", asm.ErrArity, 1),
		Entry("label arity", "LABEL", asm.ErrArity, 1),
		Entry("bad register", "PRINT x0", regvm.ErrBadRegister, 1),
		Entry("bad register number", "PRINT r-1", regvm.ErrBadRegister, 1),
		Entry("bare r", "PRINT r", regvm.ErrBadRegister, 1),
		Entry("bad literal", "\nLOADI r0 abc", asm.ErrBadLiteral, 2),
	)

	It("should reject undefined labels", func() {
		_, err := assemble("LOADI r0 1\nJUMP nowhere")
		Expect(err).To(MatchError(asm.ErrUndefinedLabel))
		Expect(err.Error()).To(HavePrefix("test.zreg:2:"))
	})

	It("should reject duplicate labels", func() {
		_, err := assemble("LABEL a\nHALT\nLABEL a")
		Expect(err).To(MatchError(asm.ErrDuplicateLabel))
		Expect(err.Error()).To(HavePrefix("test.zreg:3:"))
	})

	It("should leave register bounds to run time", func() {
		prog, err := assemble("LOADI r99 1")
		Expect(err).NotTo(HaveOccurred())
		vm := regvm.New(prog, 4, numbers.Int{})
		Expect(vm.Run()).To(MatchError(ContainSubstring("invalid register index 99")))
	})
})
