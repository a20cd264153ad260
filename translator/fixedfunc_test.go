package translator_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/attila-gpu/attila-sim-sub005/isa"
	"github.com/attila-gpu/attila-sim-sub005/regalloc"
	"github.com/attila-gpu/attila-sim-sub005/srcisa"
	"github.com/attila-gpu/attila-sim-sub005/translator"
)

var _ = Describe("Fixed function", func() {
	var tr *translator.Translator

	colorShader := srcisa.NewAssembler(ps20).
		Op(srcisa.OpMov, dst(srcisa.RegColorOut, 0), src(srcisa.RegInput, 0)).
		End()

	BeforeEach(func() {
		tr = translator.NewBuilder().Build()
	})

	translate := func(opts translator.Options) *isa.Program {
		prog, err := tr.Translate(colorShader, opts)
		Expect(err).NotTo(HaveOccurred())
		for b, s := range tr.Stats() {
			Expect(s.Reserves).To(Equal(s.Releases), "bank %s", b)
			Expect(s.InUse).To(BeZero(), "bank %s", b)
		}
		return prog
	}

	It("should write the colour output directly without emulation", func() {
		prog := translate(translator.Options{})

		Expect(opcodes(prog)).To(Equal([]isa.Opcode{isa.MOV}))
		Expect(prog.Instructions[0].Res.Reg).To(Equal(isa.Reg{Bank: isa.BankOutput, Num: regalloc.SlotColorOut}))
		Expect(prog.AlphaTest.Func).To(Equal(isa.AlphaDisabled))
		Expect(prog.Fog.Enabled).To(BeFalse())
	})

	It("should define the colour when the shader never writes it", func() {
		toks := srcisa.NewAssembler(ps20).
			Op(srcisa.OpAdd, dst(srcisa.RegTemp, 0), src(srcisa.RegInput, 0), src(srcisa.RegInput, 0)).
			End()
		prog, err := tr.Translate(toks, translator.Options{AlphaFunc: isa.AlphaAlways})
		Expect(err).NotTo(HaveOccurred())

		Expect(opcodes(prog)).To(Equal([]isa.Opcode{isa.ADD, isa.MOV, isa.MOV}))

		fill := prog.Instructions[1]
		Expect(fill.Res.Reg.Bank).To(Equal(isa.BankTemp))
		Expect(fill.Src[0].Swizzle).To(Equal(isa.NewSwizzle(0, 0, 0, 1)))

		var control *isa.ConstantDecl
		for i := range prog.Constants {
			if prog.Constants[i].Target == fill.Src[0].Reg.Num {
				control = &prog.Constants[i]
			}
		}
		Expect(control).NotTo(BeNil())
		Expect(control.HasValue).To(BeTrue())
		Expect(control.FloatValue(0)).To(Equal(float32(0)))
		Expect(control.FloatValue(1)).To(Equal(float32(1)))

		out := prog.Instructions[2]
		Expect(out.Res.Reg).To(Equal(isa.Reg{Bank: isa.BankOutput, Num: regalloc.SlotColorOut}))
		Expect(out.Src[0].Reg).To(Equal(fill.Res.Reg))
	})

	It("should append alpha test and fog before the output move", func() {
		prog := translate(translator.Options{AlphaFunc: isa.AlphaGreater, Fog: true})

		Expect(opcodes(prog)).To(Equal([]isa.Opcode{
			isa.MOV, isa.SETPGT, isa.KILP, isa.MAD, isa.MAD, isa.MOV}))

		color := prog.Instructions[0].Res.Reg
		Expect(color.Bank).To(Equal(isa.BankTemp))

		setp := prog.Instructions[1]
		Expect(setp.Src[0]).To(Equal(isa.Operand{Reg: color, Swizzle: isa.WWWW}))
		Expect(setp.Src[1].Reg).To(Equal(konst(prog.AlphaTest.RefConst)))

		kill := prog.Instructions[2]
		Expect(kill.Src[0].Reg).To(Equal(setp.Res.Reg))
		Expect(kill.Src[0].Negate).To(BeTrue())

		fog := prog.Instructions[3]
		Expect(fog.Src[0].Reg).To(Equal(konst(prog.Fog.ColorConst)))
		Expect(fog.Src[0].Negate).To(BeTrue())
		Expect(fog.Src[1].Reg).To(Equal(input(regalloc.SlotFog)))

		out := prog.Instructions[5]
		Expect(out.Res.Reg).To(Equal(isa.Reg{Bank: isa.BankOutput, Num: regalloc.SlotColorOut}))
		Expect(out.Src[0].Reg).To(Equal(color))
		Expect(out.End).To(BeTrue())

		Expect(prog.AlphaTest).To(Equal(isa.AlphaTest{Func: isa.AlphaGreater, RefConst: 295, AuxConst: 294}))
		Expect(prog.Fog).To(Equal(isa.Fog{Enabled: true, ColorConst: 293}))
		f, ok := prog.Input(srcisa.UsageFog, 0)
		Expect(ok).To(BeTrue())
		Expect(f).To(Equal(regalloc.SlotFog))
	})

	DescribeTable("alpha functions",
		func(f isa.AlphaFunc, want []isa.Opcode, negate bool) {
			prog := translate(translator.Options{AlphaFunc: f})

			Expect(opcodes(prog)).To(Equal(want))
			if len(want) == 4 {
				Expect(prog.Instructions[2].Src[0].Negate).To(Equal(negate))
			}
		},
		Entry("never", isa.AlphaNever, []isa.Opcode{isa.MOV, isa.SETPEQ, isa.KILP, isa.MOV}, false),
		Entry("less", isa.AlphaLess, []isa.Opcode{isa.MOV, isa.SETPLT, isa.KILP, isa.MOV}, true),
		Entry("equal", isa.AlphaEqual, []isa.Opcode{isa.MOV, isa.SETPEQ, isa.KILP, isa.MOV}, true),
		Entry("lessequal", isa.AlphaLessEqual, []isa.Opcode{isa.MOV, isa.SETPGT, isa.KILP, isa.MOV}, false),
		Entry("notequal", isa.AlphaNotEqual, []isa.Opcode{isa.MOV, isa.SETPEQ, isa.KILP, isa.MOV}, false),
		Entry("greaterequal", isa.AlphaGreaterEqual, []isa.Opcode{isa.MOV, isa.SETPLT, isa.KILP, isa.MOV}, false),
		Entry("always", isa.AlphaAlways, []isa.Opcode{isa.MOV, isa.MOV}, false),
	)

	It("should emit the appendix when the colour is never written", func() {
		toks := srcisa.NewAssembler(ps20).
			Op(srcisa.OpMov, dst(srcisa.RegTemp, 0), src(srcisa.RegInput, 0)).
			End()

		prog, err := tr.Translate(toks, translator.Options{AlphaFunc: isa.AlphaAlways})
		Expect(err).NotTo(HaveOccurred())
		Expect(opcodes(prog)).To(Equal([]isa.Opcode{isa.MOV, isa.MOV}))
		Expect(prog.Instructions[1].Res.Reg.Bank).To(Equal(isa.BankOutput))
	})
})
