package core_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/attila-gpu/attila-sim-sub005/core"
	"github.com/attila-gpu/attila-sim-sub005/isa"
	"github.com/attila-gpu/attila-sim-sub005/srcisa"
	"github.com/attila-gpu/attila-sim-sub005/translator"
)

var vs30 = srcisa.Version{Type: srcisa.VertexShader, Major: 3, Minor: 0}

type retireCounter struct {
	count int
}

func (h *retireCounter) Func(ctx sim.HookCtx) {
	if ctx.Pos == core.HookPosInstRetired {
		h.count++
	}
}

func dst(rt srcisa.RegType, n int) srcisa.Token { return srcisa.Dst(rt, n) }
func src(rt srcisa.RegType, n int) srcisa.Token { return srcisa.Src(rt, n) }

// withPosition declares v0 and o0 as positions, the only declarations the
// programs below need.
func withPosition() *srcisa.Assembler {
	return srcisa.NewAssembler(vs30).
		Dcl(srcisa.SemanticToken(srcisa.UsagePosition, 0), dst(srcisa.RegInput, 0)).
		Dcl(srcisa.SemanticToken(srcisa.UsagePosition, 0), dst(srcisa.RegOutput, 0))
}

var _ = Describe("Core", func() {
	var (
		engine sim.Engine
		c      *core.Core
		hook   *retireCounter
	)

	BeforeEach(func() {
		engine = sim.NewSerialEngine()
		c = core.NewBuilder().
			WithEngine(engine).
			WithFreq(1 * sim.GHz).
			WithLanes(4).
			Build("Core")
		hook = &retireCounter{}
		c.AcceptHook(hook)
	})

	// execute translates toks, runs them with v0.x set per lane and returns
	// o0.x per lane.
	execute := func(tr *translator.Translator, toks []uint32, xs ...float32) []float32 {
		prog, err := tr.Translate(toks, translator.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(prog.Untranslated).To(BeZero())

		in, ok := prog.Input(srcisa.UsagePosition, 0)
		Expect(ok).To(BeTrue())
		out, ok := prog.Output(srcisa.UsagePosition, 0)
		Expect(ok).To(BeTrue())

		hook.count = 0
		c.MapProgram(prog)
		for l, x := range xs {
			c.SetInput(l, in, [4]float32{x, 0, 0, 1})
		}
		Expect(engine.Run()).To(Succeed())
		Expect(c.Done()).To(BeTrue())
		Expect(uint64(hook.count)).To(Equal(c.Retired()))

		var got []float32
		for l := range xs {
			got = append(got, c.Output(l, out)[0])
		}
		return got
	}

	DescribeTable("IF/ELSE selects per lane",
		func(threshold int) {
			toks := withPosition().
				Def(dst(srcisa.RegConst, 0), 10, 20, 0, 0).
				OpControl(srcisa.OpIfc, int(srcisa.CmpLT),
					src(srcisa.RegInput, 0).Swizzled(srcisa.SwizzleXXXX),
					src(srcisa.RegConst, 0).Swizzled(srcisa.SwizzleXXXX)).
				Op(srcisa.OpMov, dst(srcisa.RegOutput, 0), src(srcisa.RegConst, 0).Swizzled(srcisa.SwizzleXXXX)).
				Op(srcisa.OpElse).
				Op(srcisa.OpMov, dst(srcisa.RegOutput, 0), src(srcisa.RegConst, 0).Swizzled(srcisa.SwizzleYYYY)).
				Op(srcisa.OpEndIf).
				End()
			tr := translator.NewBuilder().WithJumpThreshold(threshold).Build()

			Expect(execute(tr, toks, 5, 15, 5, 15)).To(Equal([]float32{10, 20, 10, 20}))
			Expect(execute(tr, toks, 5, 5, 5, 5)).To(Equal([]float32{10, 10, 10, 10}))
		},
		Entry("with short jumps removed", 4),
		Entry("with every jump kept", 1),
	)

	It("should run a REP body the static number of times", func() {
		toks := withPosition().
			DefI(dst(srcisa.RegConstInt, 0), 3, 0, 0, 0).
			Op(srcisa.OpRep, src(srcisa.RegConstInt, 0)).
			Op(srcisa.OpAdd, dst(srcisa.RegTemp, 0), src(srcisa.RegTemp, 0), src(srcisa.RegInput, 0)).
			Op(srcisa.OpEndRep).
			Op(srcisa.OpMov, dst(srcisa.RegOutput, 0), src(srcisa.RegTemp, 0)).
			End()

		got := execute(translator.NewBuilder().Build(), toks, 1, 2, 3, 4)

		Expect(got).To(Equal([]float32{3, 6, 9, 12}))
	})

	It("should stop each lane at its own BREAKC", func() {
		toks := withPosition().
			DefI(dst(srcisa.RegConstInt, 0), 10, 0, 0, 0).
			Def(dst(srcisa.RegConst, 0), 1, 0, 0, 0).
			Op(srcisa.OpRep, src(srcisa.RegConstInt, 0)).
			Op(srcisa.OpAdd, dst(srcisa.RegTemp, 0), src(srcisa.RegTemp, 0),
				src(srcisa.RegConst, 0).Swizzled(srcisa.SwizzleXXXX)).
			OpControl(srcisa.OpBreakC, int(srcisa.CmpGE),
				src(srcisa.RegTemp, 0).Swizzled(srcisa.SwizzleXXXX),
				src(srcisa.RegInput, 0).Swizzled(srcisa.SwizzleXXXX)).
			Op(srcisa.OpEndRep).
			Op(srcisa.OpMov, dst(srcisa.RegOutput, 0), src(srcisa.RegTemp, 0)).
			End()

		got := execute(translator.NewBuilder().Build(), toks, 2, 5, 10, 20)

		Expect(got).To(Equal([]float32{2, 5, 10, 10}))
	})

	It("should keep temps bound after an inner REP apart from its counter", func() {
		toks := withPosition().
			DefI(dst(srcisa.RegConstInt, 0), 3, 0, 0, 0).
			DefI(dst(srcisa.RegConstInt, 1), 2, 0, 0, 0).
			Def(dst(srcisa.RegConst, 0), 1, 100, 0, 0).
			Def(dst(srcisa.RegConst, 1), 0, 0, 0, 0).
			Op(srcisa.OpMov, dst(srcisa.RegTemp, 0), src(srcisa.RegConst, 1)).
			Op(srcisa.OpMov, dst(srcisa.RegTemp, 1), src(srcisa.RegConst, 1)).
			Op(srcisa.OpRep, src(srcisa.RegConstInt, 0)).
			Op(srcisa.OpAdd, dst(srcisa.RegTemp, 0), src(srcisa.RegTemp, 0),
				src(srcisa.RegConst, 0).Swizzled(srcisa.SwizzleXXXX)).
			Op(srcisa.OpRep, src(srcisa.RegConstInt, 1)).
			Op(srcisa.OpAdd, dst(srcisa.RegTemp, 1), src(srcisa.RegTemp, 1),
				src(srcisa.RegConst, 0).Swizzled(srcisa.SwizzleXXXX)).
			Op(srcisa.OpEndRep).
			OpControl(srcisa.OpIfc, int(srcisa.CmpEQ),
				src(srcisa.RegTemp, 0).Swizzled(srcisa.SwizzleXXXX),
				src(srcisa.RegConst, 0).Swizzled(srcisa.SwizzleXXXX)).
			Op(srcisa.OpMov, dst(srcisa.RegTemp, 5), src(srcisa.RegConst, 0).Swizzled(srcisa.SwizzleYYYY)).
			Op(srcisa.OpEndIf).
			Op(srcisa.OpEndRep).
			Op(srcisa.OpMov, dst(srcisa.RegOutput, 0), src(srcisa.RegTemp, 5)).
			End()

		got := execute(translator.NewBuilder().Build(), toks, 0, 0, 0, 0)

		Expect(got).To(Equal([]float32{100, 100, 100, 100}))
	})

	It("should accumulate across an inner loop with BREAKC", func() {
		toks := withPosition().
			DefI(dst(srcisa.RegConstInt, 0), 3, 0, 0, 0).
			DefI(dst(srcisa.RegConstInt, 1), 10, 0, 0, 0).
			Def(dst(srcisa.RegConst, 0), 1, 0, 0, 0).
			Op(srcisa.OpRep, src(srcisa.RegConstInt, 0)).
			Op(srcisa.OpMov, dst(srcisa.RegTemp, 1), src(srcisa.RegConst, 0).Swizzled(srcisa.SwizzleYYYY)).
			Op(srcisa.OpRep, src(srcisa.RegConstInt, 1)).
			Op(srcisa.OpAdd, dst(srcisa.RegTemp, 1), src(srcisa.RegTemp, 1),
				src(srcisa.RegConst, 0).Swizzled(srcisa.SwizzleXXXX)).
			OpControl(srcisa.OpBreakC, int(srcisa.CmpGE),
				src(srcisa.RegTemp, 1).Swizzled(srcisa.SwizzleXXXX),
				src(srcisa.RegInput, 0).Swizzled(srcisa.SwizzleXXXX)).
			Op(srcisa.OpEndRep).
			Op(srcisa.OpAdd, dst(srcisa.RegTemp, 2), src(srcisa.RegTemp, 2), src(srcisa.RegTemp, 1)).
			Op(srcisa.OpEndRep).
			Op(srcisa.OpMov, dst(srcisa.RegOutput, 0), src(srcisa.RegTemp, 2)).
			End()

		got := execute(translator.NewBuilder().Build(), toks, 2, 5, 10, 20)

		Expect(got).To(Equal([]float32{6, 15, 30, 30}))
	})

	It("should restart the program on every map", func() {
		prog := &isa.Program{Instructions: []isa.Instruction{{Op: isa.END, End: true}}}

		c.MapProgram(prog)
		Expect(engine.Run()).To(Succeed())
		c.MapProgram(prog)
		Expect(engine.Run()).To(Succeed())

		Expect(c.Retired()).To(Equal(uint64(1)))
		Expect(hook.count).To(Equal(2))
	})
})
