package translator

import (
	"log/slog"

	"github.com/attila-gpu/attila-sim-sub005/isa"
)

func (t *Translator) top() isa.Predication { return t.preds[len(t.preds)-1] }

func (t *Translator) current() isa.Predication {
	if t.instPred != nil {
		return *t.instPred
	}
	return t.top()
}

// emit appends inst under the current predicate.
func (t *Translator) emit(inst isa.Instruction) int {
	inst.Pred = t.current()
	return t.push(inst)
}

// emitRaw appends inst with its own predication.
func (t *Translator) emitRaw(inst isa.Instruction) int {
	return t.push(inst)
}

func (t *Translator) push(inst isa.Instruction) int {
	t.code = append(t.code, inst)
	idx := len(t.code) - 1
	slog.Debug("emit", "index", idx, "inst", inst)
	return idx
}

func newInst(op isa.Opcode, res isa.Result, srcs ...isa.Operand) isa.Instruction {
	inst := isa.Instruction{Op: op, Res: res}
	copy(inst.Src[:], srcs)
	return inst
}

func jump(pred isa.Predication, mode isa.BranchMode) isa.Instruction {
	return isa.Instruction{Op: isa.JMP, Pred: pred, Branch: mode, JumpOffset: isa.UnpatchedJump}
}

func result(r isa.Reg, m isa.Mask) isa.Result {
	return isa.Result{Reg: r, Mask: m}
}

func operand(r isa.Reg, s isa.Swizzle) isa.Operand {
	return isa.Operand{Reg: r, Swizzle: s}
}

func negate(o isa.Operand) isa.Operand {
	o.Negate = !o.Negate
	return o
}

func absolute(o isa.Operand) isa.Operand {
	o.Absolute = true
	o.Negate = false
	return o
}

// component returns o reading only its c-th selected component.
func component(o isa.Operand, c int) isa.Operand {
	o.Swizzle = o.Swizzle.Compose(isa.ReplicateComponent(c))
	return o
}

func reswizzle(o isa.Operand, s isa.Swizzle) isa.Operand {
	o.Swizzle = o.Swizzle.Compose(s)
	return o
}

func predReg(n int) isa.Reg { return isa.Reg{Bank: isa.BankPredicate, Num: n} }

func predResult(n int) isa.Result { return result(predReg(n), isa.MaskX) }

func predOperand(n int, neg bool) isa.Operand {
	return isa.Operand{Reg: predReg(n), Negate: neg, Swizzle: isa.XXXX}
}

func frameOperand(p isa.Predication) isa.Operand {
	return predOperand(p.Reg, p.Negate)
}

// scratch reserves a temporary for an emulation sequence.
func (t *Translator) scratch() isa.Reg {
	return t.alloc.Reserve(isa.BankTemp)
}
