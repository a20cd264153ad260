package translator_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/attila-gpu/attila-sim-sub005/isa"
	"github.com/attila-gpu/attila-sim-sub005/srcisa"
	"github.com/attila-gpu/attila-sim-sub005/translator"
)

var _ = Describe("Emulation", func() {
	var (
		r0  = dst(srcisa.RegTemp, 0)
		v0  = src(srcisa.RegInput, 0)
		v1  = src(srcisa.RegInput, 1)
		v2  = src(srcisa.RegInput, 2)
		c4  = src(srcisa.RegConst, 4)
		tr  *translator.Translator
		one = func(v srcisa.Version, op srcisa.Opcode, control int, params ...srcisa.Token) *isa.Program {
			prog, err := tr.Translate(srcisa.NewAssembler(v).OpControl(op, control, params...).End(), translator.Options{})
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Untranslated).To(BeZero())
			for b, s := range tr.Stats() {
				Expect(s.Reserves).To(Equal(s.Releases), "bank %s", b)
			}
			return prog
		}
	)

	BeforeEach(func() {
		tr = translator.NewBuilder().Build()
	})

	DescribeTable("instruction sequences",
		func(v srcisa.Version, op srcisa.Opcode, params []srcisa.Token, want []isa.Opcode) {
			Expect(opcodes(one(v, op, 0, params...))).To(Equal(want))
		},
		Entry("mov", vs20, srcisa.OpMov, []srcisa.Token{r0, v0}, []isa.Opcode{isa.MOV}),
		Entry("exp", vs20, srcisa.OpExp, []srcisa.Token{r0, v0}, []isa.Opcode{isa.EX2}),
		Entry("logp", vs20, srcisa.OpLogP, []srcisa.Token{r0, v0}, []isa.Opcode{isa.LOG}),
		Entry("dsx", ps30, srcisa.OpDsx, []srcisa.Token{r0, src(srcisa.RegTemp, 1)}, []isa.Opcode{isa.DDX}),
		Entry("lrp", vs20, srcisa.OpLrp, []srcisa.Token{r0, v0, v1, v2}, []isa.Opcode{isa.ADD, isa.MAD}),
		Entry("pow", vs20, srcisa.OpPow, []srcisa.Token{r0, v0, v1}, []isa.Opcode{isa.LG2, isa.MUL, isa.EX2}),
		Entry("nrm", vs20, srcisa.OpNrm, []srcisa.Token{r0, v0}, []isa.Opcode{isa.DP3, isa.RSQ, isa.MUL}),
		Entry("dp2add", ps20, srcisa.OpDp2Add,
			[]srcisa.Token{r0, src(srcisa.RegTemp, 1), src(srcisa.RegTemp, 2), src(srcisa.RegTemp, 3)},
			[]isa.Opcode{isa.MAD, isa.MAD}),
		Entry("crs", vs20, srcisa.OpCrs, []srcisa.Token{r0.Masked(srcisa.MaskXYZ), v0, v1},
			[]isa.Opcode{isa.MUL, isa.MAD}),
		Entry("sincos xy", vs20, srcisa.OpSinCos,
			[]srcisa.Token{r0.Masked(srcisa.MaskX | srcisa.MaskY), v0.Swizzled(srcisa.SwizzleXXXX), c4, src(srcisa.RegConst, 5)},
			[]isa.Opcode{isa.COS, isa.SIN}),
		Entry("sincos y", vs30, srcisa.OpSinCos,
			[]srcisa.Token{r0.Masked(srcisa.MaskY), src(srcisa.RegTemp, 1).Swizzled(srcisa.SwizzleXXXX)},
			[]isa.Opcode{isa.SIN}),
		Entry("sincos in place", vs30, srcisa.OpSinCos,
			[]srcisa.Token{r0.Masked(srcisa.MaskX | srcisa.MaskY), src(srcisa.RegTemp, 0).Swizzled(srcisa.SwizzleXXXX)},
			[]isa.Opcode{isa.COS, isa.SIN, isa.MOV}),
		Entry("m4x4", vs20, srcisa.OpM4x4, []srcisa.Token{r0, v0, c4},
			[]isa.Opcode{isa.DP4, isa.DP4, isa.DP4, isa.DP4}),
		Entry("m3x2", vs20, srcisa.OpM3x2, []srcisa.Token{r0.Masked(srcisa.MaskX | srcisa.MaskY), v0, c4},
			[]isa.Opcode{isa.DP3, isa.DP3}),
		Entry("texkill", ps20, srcisa.OpTexKill, []srcisa.Token{dst(srcisa.RegTemp, 0)}, []isa.Opcode{isa.KIL}),
	)

	It("should negate the second operand of SUB", func() {
		prog := one(vs20, srcisa.OpSub, 0, r0, v0, v1)

		Expect(opcodes(prog)).To(Equal([]isa.Opcode{isa.ADD}))
		Expect(prog.Instructions[0].Src[1]).To(Equal(isa.Operand{Reg: input(1), Negate: true, Swizzle: isa.XYZW}))
	})

	It("should swap the selected operands of CMP", func() {
		prog := one(ps20, srcisa.OpCmp, 0, r0,
			src(srcisa.RegTemp, 1), src(srcisa.RegTemp, 2), src(srcisa.RegTemp, 3))

		inst := prog.Instructions[0]
		Expect(inst.Op).To(Equal(isa.CMP))
		Expect(inst.Src[1].Reg).To(Equal(temp(3)))
		Expect(inst.Src[2].Reg).To(Equal(temp(2)))
	})

	It("should read the absolute value for ABS and POW", func() {
		abs := one(vs20, srcisa.OpAbs, 0, r0, v0.Modified(srcisa.ModNeg))
		Expect(abs.Instructions[0].Src[0]).To(Equal(isa.Operand{Reg: input(0), Absolute: true, Swizzle: isa.XYZW}))

		pow := one(vs20, srcisa.OpPow, 0, r0, v0, v1)
		Expect(pow.Instructions[0].Src[0].Absolute).To(BeTrue())
		Expect(pow.Instructions[0].Res.Mask).To(Equal(isa.MaskX))
	})

	It("should read consecutive matrix rows", func() {
		prog := one(vs20, srcisa.OpM4x4, 0, r0, v0, c4)

		for i, inst := range prog.Instructions {
			Expect(inst.Src[1].Reg).To(Equal(konst(4 + i)))
			Expect(inst.Res.Mask).To(Equal(isa.MaskComponent(i)))
		}
	})

	It("should select TXL, TXP and TXB", func() {
		s0 := src(srcisa.RegSampler, 0)
		tc := src(srcisa.RegTemp, 1)

		Expect(opcodes(one(vs30, srcisa.OpTexLdl, 0, r0, tc, s0))).To(Equal([]isa.Opcode{isa.TXL}))
		Expect(opcodes(one(ps20, srcisa.OpTex, srcisa.TexLoadProject, r0, tc, s0))).To(Equal([]isa.Opcode{isa.TXP}))
		Expect(opcodes(one(ps20, srcisa.OpTex, srcisa.TexLoadBias, r0, tc, s0))).To(Equal([]isa.Opcode{isa.TXB}))
	})

	It("should write ARL for a MOV to the address register", func() {
		prog := one(vs20, srcisa.OpMov, 0, dst(srcisa.RegAddr, 0).Masked(srcisa.MaskX), v0)
		Expect(opcodes(prog)).To(Equal([]isa.Opcode{isa.ARL}))
	})

	It("should set one predicate per written component", func() {
		p0 := dst(srcisa.RegPredicate, 0)

		gt := one(vs30, srcisa.OpSetP, int(srcisa.CmpGT), p0.Masked(srcisa.MaskX|srcisa.MaskZ), v0, v1)
		Expect(opcodes(gt)).To(Equal([]isa.Opcode{isa.SETPGT, isa.SETPGT}))
		Expect(gt.Instructions[0].Res.Reg).NotTo(Equal(gt.Instructions[1].Res.Reg))
		Expect(gt.Instructions[1].Src[0].Swizzle).To(Equal(isa.ZZZZ))

		ge := one(vs30, srcisa.OpSetP, int(srcisa.CmpGE), p0.Masked(srcisa.MaskX), v0, v1)
		Expect(opcodes(ge)).To(Equal([]isa.Opcode{isa.SETPLT, isa.ANDP}))
		complement := ge.Instructions[1]
		Expect(complement.Src[0].Negate).To(BeTrue())
		Expect(complement.Src[1].Negate).To(BeTrue())
	})

	It("should guard a predicated instruction with the frame", func() {
		toks := srcisa.NewAssembler(vs30).
			DefB(dst(srcisa.RegConstBool, 0), true).
			OpControl(srcisa.OpSetP, int(srcisa.CmpLT), dst(srcisa.RegPredicate, 0).Masked(srcisa.MaskX), v0, v1).
			Op(srcisa.OpIf, src(srcisa.RegConstBool, 0)).
			Predicated(srcisa.OpMov,
				src(srcisa.RegPredicate, 0).Swizzled(srcisa.SwizzleXXXX).Modified(srcisa.ModNot),
				r0, v0).
			Op(srcisa.OpEndIf).
			End()

		prog, err := tr.Translate(toks, translator.Options{})
		Expect(err).NotTo(HaveOccurred())

		Expect(opcodes(prog)).To(Equal([]isa.Opcode{isa.SETPLT, isa.SETPGT, isa.ANDP, isa.MOV}))
		guard, mov := prog.Instructions[2], prog.Instructions[3]
		Expect(guard.Src[0].Negate).To(BeTrue())
		Expect(mov.Pred).To(Equal(isa.Predication{Enabled: true, Reg: guard.Res.Reg.Num}))
	})
})
