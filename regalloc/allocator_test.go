package regalloc_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/attila-gpu/attila-sim-sub005/isa"
	"github.com/attila-gpu/attila-sim-sub005/regalloc"
	"github.com/attila-gpu/attila-sim-sub005/srcisa"
)

var _ = Describe("Layout", func() {
	It("should fix interpolated slots of a vertex shader", func() {
		l := regalloc.LayoutFor(srcisa.Version{Type: srcisa.VertexShader, Major: 2}, false, false)

		Expect(l.Fixed).To(HaveKeyWithValue(
			regalloc.UsageKey{Bank: isa.BankOutput, Usage: srcisa.UsagePosition}, regalloc.SlotPosition))
		Expect(l.Fixed).To(HaveKeyWithValue(
			regalloc.UsageKey{Bank: isa.BankOutput, Usage: srcisa.UsageTexCoord, Index: 3}, regalloc.SlotTexCoord+3))
		Expect(l.Banks[isa.BankInput].Size).To(Equal(regalloc.NumVertexInputs))
		Expect(l.Reserved()).To(BeEmpty())
	})

	It("should hold appendix constants when alpha test and fog are on", func() {
		l := regalloc.LayoutFor(srcisa.Version{Type: srcisa.PixelShader, Major: 2}, true, true)

		Expect(l.AlphaRef).To(BeNumerically(">=", regalloc.ConstPoolFirst))
		Expect(l.FogColor).NotTo(Equal(l.AlphaRef))
		Expect(l.Reserved()).To(HaveLen(3))
		Expect(l.Fixed).To(HaveKeyWithValue(
			regalloc.UsageKey{Bank: isa.BankOutput, Usage: srcisa.UsageDepth}, regalloc.SlotDepth))
	})
})

var _ = Describe("Allocator", func() {
	var (
		a  *regalloc.Allocator
		r0 = regalloc.SourceReg{Type: srcisa.RegTemp, Num: 0}
		c5 = regalloc.SourceReg{Type: srcisa.RegConst, Num: 5}
	)

	BeforeEach(func() {
		a = regalloc.NewAllocator()
		a.Begin(regalloc.LayoutFor(srcisa.Version{Type: srcisa.PixelShader, Major: 2}, true, false))
	})

	It("should map a source register once", func() {
		t := a.Reserve(isa.BankTemp)
		a.Map(r0, t)

		got, ok := a.Lookup(r0)
		Expect(ok).To(BeTrue())
		Expect(got).To(Equal(t))
		Expect(faultOf(func() { a.Map(r0, t) })).NotTo(BeNil())
	})

	It("should report a lookup miss without faulting", func() {
		_, ok := a.Lookup(r0)
		Expect(ok).To(BeFalse())
	})

	It("should refuse mapping to an unreserved pooled register", func() {
		Expect(faultOf(func() { a.Map(r0, isa.Reg{Bank: isa.BankTemp, Num: 3}) })).NotTo(BeNil())
	})

	It("should allow mappings outside the pool", func() {
		a.Map(c5, isa.Reg{Bank: isa.BankConstant, Num: 5})
		a.Unmap(c5)
		Expect(a.Stats()[isa.BankConstant].Releases).To(Equal(0))
	})

	It("should re-establish a released mapping under a usage", func() {
		oc0 := regalloc.SourceReg{Type: srcisa.RegColorOut, Num: 0}
		t := a.Reserve(isa.BankTemp)
		a.Map(oc0, t)

		Expect(a.Unmap(oc0)).To(Equal(t))
		Expect(a.Pool(isa.BankTemp).IsReserved(t.Num)).To(BeFalse())

		o := a.ReserveUsage(isa.BankOutput, srcisa.UsageColor, 0)
		Expect(o).To(Equal(isa.Reg{Bank: isa.BankOutput, Num: regalloc.SlotColorOut}))
		a.Map(oc0, o)

		a.End()
		Expect(a.Pool(isa.BankOutput).IsReserved(o.Num)).To(BeFalse())
	})

	It("should hand generic usages ids past the fixed ones", func() {
		r := a.ReserveUsage(isa.BankInput, srcisa.UsageNormal, 0)
		Expect(a.Pool(isa.BankInput).IsFixed(r.Num)).To(BeFalse())

		got, ok := a.UsageReg(isa.BankInput, srcisa.UsageNormal, 0)
		Expect(ok).To(BeTrue())
		Expect(got).To(Equal(r))
		Expect(faultOf(func() { a.ReserveUsage(isa.BankInput, srcisa.UsageNormal, 0) })).NotTo(BeNil())
	})

	It("should list usages by register", func() {
		a.ReserveUsage(isa.BankInput, srcisa.UsageTexCoord, 1)
		a.ReserveUsage(isa.BankInput, srcisa.UsageColor, 0)

		Expect(a.Usages(isa.BankInput)).To(Equal([]regalloc.UsageBinding{
			{Usage: srcisa.UsageColor, Index: 0, Reg: isa.Reg{Bank: isa.BankInput, Num: regalloc.SlotColor0}},
			{Usage: srcisa.UsageTexCoord, Index: 1, Reg: isa.Reg{Bank: isa.BankInput, Num: regalloc.SlotTexCoord + 1}},
		}))
	})

	It("should balance reserves and releases per bank after End", func() {
		t := a.Reserve(isa.BankTemp)
		a.Map(r0, t)
		scratch := a.Reserve(isa.BankTemp)
		a.Release(scratch)
		p := a.Reserve(isa.BankPredicate)
		a.Release(p)
		a.ReserveUsage(isa.BankInput, srcisa.UsageColor, 0)

		a.End()

		for bank, s := range a.Stats() {
			Expect(s.Reserves).To(Equal(s.Releases), "bank %s", bank)
			Expect(s.InUse).To(BeZero(), "bank %s", bank)
		}
		Expect(a.Stats()[isa.BankConstant].Reserves).To(Equal(2))
	})
})
