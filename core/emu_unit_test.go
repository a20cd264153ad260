package core

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/attila-gpu/attila-sim-sub005/isa"
)

func tmp(n int) isa.Operand {
	return isa.Operand{Reg: isa.Reg{Bank: isa.BankTemp, Num: n}, Swizzle: isa.XYZW}
}

func cst(n int) isa.Operand {
	return isa.Operand{Reg: isa.Reg{Bank: isa.BankConstant, Num: n}, Swizzle: isa.XYZW}
}

func prd(n int, negate bool) isa.Operand {
	return isa.Operand{Reg: isa.Reg{Bank: isa.BankPredicate, Num: n}, Negate: negate, Swizzle: isa.XYZW}
}

func res(n int, m isa.Mask) isa.Result {
	return isa.Result{Reg: isa.Reg{Bank: isa.BankTemp, Num: n}, Mask: m}
}

var _ = Describe("InstEmulator", func() {
	var (
		ie instEmulator
		s  coreState
	)

	BeforeEach(func() {
		ie = newInstEmulator(CoordSampler{})
		s = coreState{
			Constants: make([]vec, 8),
			Lanes:     make([]laneState, 4),
		}
	})

	run := func(code ...isa.Instruction) {
		s.Code = &isa.Program{Instructions: code}
		s.PC = 0
		s.Done = false
		for !s.Done {
			ie.RunInst(&s)
		}
	}

	Context("Arithmetic Instructions", func() {
		It("should apply swizzle, negation and the write mask", func() {
			s.Lanes[0].Temps[1] = vec{1, 2, 3, 4}
			s.Lanes[0].Temps[2] = vec{2, 2, 2, 2}
			s.Lanes[0].Temps[3] = vec{1, 1, 1, 1}

			a := tmp(1)
			a.Swizzle = isa.NewSwizzle(3, 2, 1, 0)
			b := tmp(2)
			b.Negate = true
			run(isa.Instruction{
				Op:  isa.MAD,
				Res: res(0, isa.MaskX|isa.MaskY),
				Src: [3]isa.Operand{a, b, tmp(3)},
			})

			Expect(s.Lanes[0].Temps[0]).To(Equal(vec{-7, -5, 0, 0}))
			Expect(s.PC).To(Equal(1))
			Expect(s.Retired).To(Equal(uint64(1)))
		})

		It("should clamp saturated results", func() {
			s.Lanes[0].Temps[1] = vec{-1, 0.5, 2, 1}
			inst := isa.Instruction{Op: isa.MOV, Res: res(0, isa.MaskXYZW), Src: [3]isa.Operand{tmp(1)}}
			inst.Res.Saturate = true

			run(inst)

			Expect(s.Lanes[0].Temps[0]).To(Equal(vec{0, 0.5, 1, 1}))
		})

		It("should read the absolute value before negating", func() {
			s.Lanes[0].Temps[1] = vec{-2, 3, 0, -1}
			a := tmp(1)
			a.Absolute, a.Negate = true, true

			run(isa.Instruction{Op: isa.MOV, Res: res(0, isa.MaskXYZW), Src: [3]isa.Operand{a}})

			Expect(s.Lanes[0].Temps[0]).To(Equal(vec{-2, -3, 0, -1}))
		})

		It("should select the second operand of CMP on negative components", func() {
			s.Lanes[0].Temps[1] = vec{-1, 1, -1, 1}
			s.Lanes[0].Temps[2] = vec{1, 1, 1, 1}
			s.Lanes[0].Temps[3] = vec{2, 2, 2, 2}

			run(isa.Instruction{Op: isa.CMP, Res: res(0, isa.MaskXYZW), Src: [3]isa.Operand{tmp(1), tmp(2), tmp(3)}})

			Expect(s.Lanes[0].Temps[0]).To(Equal(vec{1, 2, 1, 2}))
		})

		It("should replicate dot products and scalar results", func() {
			s.Lanes[0].Temps[1] = vec{1, 2, 3, 4}
			s.Lanes[0].Temps[2] = vec{4, 0.5, 2, 1}

			run(
				isa.Instruction{Op: isa.DP3, Res: res(0, isa.MaskXYZW), Src: [3]isa.Operand{tmp(1), tmp(2)}},
				isa.Instruction{Op: isa.DP4, Res: res(3, isa.MaskXYZW), Src: [3]isa.Operand{tmp(1), tmp(2)}},
				isa.Instruction{Op: isa.RCP, Res: res(4, isa.MaskXYZW), Src: [3]isa.Operand{tmp(2)}},
			)

			Expect(s.Lanes[0].Temps[0]).To(Equal(vec{11, 11, 11, 11}))
			Expect(s.Lanes[0].Temps[3]).To(Equal(vec{15, 15, 15, 15}))
			Expect(s.Lanes[0].Temps[4]).To(Equal(vec{0.25, 0.25, 0.25, 0.25}))
		})
	})

	Context("Addressing", func() {
		It("should offset relative constant reads by the address register", func() {
			s.Constants[3] = vec{7, 8, 9, 10}
			s.Lanes[0].Temps[1] = vec{2.7, 0, 0, 0}

			c := cst(1)
			c.Relative = true
			run(
				isa.Instruction{Op: isa.ARL,
					Res: isa.Result{Reg: isa.Reg{Bank: isa.BankAddress}, Mask: isa.MaskX},
					Src: [3]isa.Operand{tmp(1)}},
				isa.Instruction{Op: isa.MOV, Res: res(0, isa.MaskXYZW), Src: [3]isa.Operand{c},
					Rel: isa.RelAddr{Enabled: true, Offset: 1}},
			)

			Expect(s.Lanes[0].Addr[0]).To(Equal(int32(2)))
			Expect(s.Lanes[0].Temps[0]).To(Equal(vec{7, 8, 9, 10}))
		})
	})

	Context("Predication", func() {
		BeforeEach(func() {
			for l := range s.Lanes {
				s.Lanes[l].Temps[1] = vec{float32(l), 0, 0, 0}
			}
			s.Constants[0] = vec{1, 1, 1, 1}
		})

		setp := isa.Instruction{
			Op:  isa.SETPLT,
			Res: isa.Result{Reg: isa.Reg{Bank: isa.BankPredicate, Num: 0}, Mask: isa.MaskX},
			Src: [3]isa.Operand{tmp(1), {Reg: isa.Reg{Bank: isa.BankConstant, Num: 1}, Swizzle: isa.XXXX}},
		}

		BeforeEach(func() {
			s.Constants[1] = vec{2, 0, 0, 0}
		})

		It("should only write lanes whose predicate holds", func() {
			mov := isa.Instruction{Op: isa.MOV, Res: res(0, isa.MaskXYZW), Src: [3]isa.Operand{cst(0)},
				Pred: isa.Predication{Enabled: true, Reg: 0}}

			run(setp, mov)

			Expect(s.Lanes[0].Temps[0]).To(Equal(vec{1, 1, 1, 1}))
			Expect(s.Lanes[1].Temps[0]).To(Equal(vec{1, 1, 1, 1}))
			Expect(s.Lanes[2].Temps[0]).To(Equal(vec{}))
			Expect(s.Lanes[3].Temps[0]).To(Equal(vec{}))
		})

		It("should combine predicates with ANDP", func() {
			andp := isa.Instruction{Op: isa.ANDP,
				Res: isa.Result{Reg: isa.Reg{Bank: isa.BankPredicate, Num: 1}, Mask: isa.MaskX},
				Src: [3]isa.Operand{prd(0, true), prd(0, true)}}

			run(setp, andp)

			Expect([]bool{s.Lanes[0].Preds[1], s.Lanes[1].Preds[1], s.Lanes[2].Preds[1], s.Lanes[3].Preds[1]}).
				To(Equal([]bool{false, false, true, true}))
		})

		DescribeTable("branch modes",
			func(mode isa.BranchMode, killed bool, taken bool) {
				if killed {
					s.Lanes[2].Killed = true
					s.Lanes[3].Killed = true
				}
				jmp := isa.Instruction{Op: isa.JMP, JumpOffset: 2, Branch: mode,
					Pred: isa.Predication{Enabled: true, Reg: 0}}
				mov := isa.Instruction{Op: isa.MOV, Res: res(0, isa.MaskXYZW), Src: [3]isa.Operand{cst(0)}}

				run(setp, jmp, mov, isa.Instruction{Op: isa.END})

				Expect(s.Lanes[0].Temps[0] == vec{}).To(Equal(taken))
				if taken {
					Expect(s.Taken).To(Equal(uint64(1)))
				}
			},
			Entry("all with a false lane", isa.BranchAll, false, false),
			Entry("any with a true lane", isa.BranchAny, false, true),
			Entry("all over the live lanes", isa.BranchAll, true, true),
		)
	})

	Context("Kills", func() {
		It("should discard lanes with a negative component", func() {
			s.Lanes[1].Temps[1] = vec{0, 0, -0.5, 0}
			s.Lanes[2].Temps[1] = vec{1, 1, 1, 1}

			run(isa.Instruction{Op: isa.KIL, Src: [3]isa.Operand{tmp(1)}})

			Expect(s.Lanes[0].Killed).To(BeFalse())
			Expect(s.Lanes[1].Killed).To(BeTrue())
			Expect(s.Lanes[2].Killed).To(BeFalse())
		})

		It("should discard lanes with a set predicate and stop writing them", func() {
			s.Lanes[3].Preds[2] = true

			run(
				isa.Instruction{Op: isa.KILP, Src: [3]isa.Operand{prd(2, false)}},
				isa.Instruction{Op: isa.MOV, Res: res(0, isa.MaskXYZW), Src: [3]isa.Operand{cst(0)}},
			)

			Expect(s.Lanes[3].Killed).To(BeTrue())
			Expect(s.Lanes[3].Temps[0]).To(Equal(vec{}))
		})
	})

	Context("Derivatives", func() {
		It("should difference the lanes of a quad", func() {
			for l, x := range []float32{1, 4, 2, 8} {
				s.Lanes[l].Temps[1] = vec{x, 0, 0, 0}
			}

			run(
				isa.Instruction{Op: isa.DDX, Res: res(0, isa.MaskX), Src: [3]isa.Operand{tmp(1)}},
				isa.Instruction{Op: isa.DDY, Res: res(2, isa.MaskX), Src: [3]isa.Operand{tmp(1)}},
			)

			var ddx, ddy []float32
			for l := range s.Lanes {
				ddx = append(ddx, s.Lanes[l].Temps[0][0])
				ddy = append(ddy, s.Lanes[l].Temps[2][0])
			}
			Expect(ddx).To(Equal([]float32{3, 3, 6, 6}))
			Expect(ddy).To(Equal([]float32{1, 4, 1, 4}))
		})
	})

	Context("Program end", func() {
		It("should stop after an instruction marked as the end", func() {
			s.Constants[0] = vec{1, 1, 1, 1}

			run(
				isa.Instruction{Op: isa.MOV, Res: res(0, isa.MaskXYZW), Src: [3]isa.Operand{cst(0)}, End: true},
				isa.Instruction{Op: isa.MOV, Res: res(1, isa.MaskXYZW), Src: [3]isa.Operand{cst(0)}},
			)

			Expect(s.Lanes[0].Temps[1]).To(Equal(vec{}))
			Expect(s.Retired).To(Equal(uint64(1)))
		})

		It("should panic on an unpatched jump", func() {
			Expect(func() {
				run(isa.Instruction{Op: isa.JMP, JumpOffset: isa.UnpatchedJump})
			}).To(Panic())
		})
	})
})
