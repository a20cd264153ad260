package translator

import (
	"github.com/attila-gpu/attila-sim-sub005/ir"
	"github.com/attila-gpu/attila-sim-sub005/isa"
	"github.com/attila-gpu/attila-sim-sub005/regalloc"
	"github.com/attila-gpu/attila-sim-sub005/srcisa"
)

var (
	swizzleYZX = isa.NewSwizzle(1, 2, 0, 3)
	swizzleZXY = isa.NewSwizzle(2, 0, 1, 3)
)

// emitOps emits an instruction of an emulation sequence. Every instruction
// of the sequence carries the relative addressing of the source instruction.
func (t *Translator) emitOps(inst isa.Instruction, ops *operands) {
	inst.Rel = ops.rel
	t.emit(inst)
}

func emulateSub(t *Translator, n *ir.Instruction, ops *operands) {
	t.emitOps(newInst(isa.ADD, ops.res, ops.src[0], negate(ops.src[1])), ops)
}

// lrp d, a, b, c = a * (b - c) + c
func emulateLrp(t *Translator, n *ir.Instruction, ops *operands) {
	tmp := t.scratch()
	t.emitOps(newInst(isa.ADD, result(tmp, isa.MaskXYZW), ops.src[1], negate(ops.src[2])), ops)
	t.emitOps(newInst(isa.MAD, ops.res, ops.src[0], operand(tmp, isa.XYZW), ops.src[2]), ops)
	t.alloc.Release(tmp)
}

// pow d, a, b = 2^(b * log2|a|)
func emulatePow(t *Translator, n *ir.Instruction, ops *operands) {
	tmp := t.scratch()
	t.emitOps(newInst(isa.LG2, result(tmp, isa.MaskX), absolute(ops.src[0])), ops)
	t.emitOps(newInst(isa.MUL, result(tmp, isa.MaskX), operand(tmp, isa.XXXX), ops.src[1]), ops)
	t.emitOps(newInst(isa.EX2, ops.res, operand(tmp, isa.XXXX)), ops)
	t.alloc.Release(tmp)
}

func emulateNrm(t *Translator, n *ir.Instruction, ops *operands) {
	tmp := t.scratch()
	t.emitOps(newInst(isa.DP3, result(tmp, isa.MaskX), ops.src[0], ops.src[0]), ops)
	t.emitOps(newInst(isa.RSQ, result(tmp, isa.MaskX), operand(tmp, isa.XXXX)), ops)
	t.emitOps(newInst(isa.MUL, ops.res, ops.src[0], operand(tmp, isa.XXXX)), ops)
	t.alloc.Release(tmp)
}

// The source CMP selects its second operand when the first is >= 0, the
// target CMP when it is < 0.
func emulateCmp(t *Translator, n *ir.Instruction, ops *operands) {
	t.emitOps(newInst(isa.CMP, ops.res, ops.src[0], ops.src[2], ops.src[1]), ops)
}

func emulateDp2Add(t *Translator, n *ir.Instruction, ops *operands) {
	tmp := t.scratch()
	a, b := ops.src[0], ops.src[1]
	t.emitOps(newInst(isa.MAD, result(tmp, isa.MaskX), component(a, 0), component(b, 0), ops.src[2]), ops)
	t.emitOps(newInst(isa.MAD, ops.res, component(a, 1), component(b, 1), operand(tmp, isa.XXXX)), ops)
	t.alloc.Release(tmp)
}

func emulateAbs(t *Translator, n *ir.Instruction, ops *operands) {
	t.emitOps(newInst(isa.MOV, ops.res, absolute(ops.src[0])), ops)
}

// sincos writes cos to x and sin to y.
func emulateSinCos(t *Translator, n *ir.Instruction, ops *operands) {
	src := ops.src[0]
	mask := ops.res.Mask
	cosRes, sinRes := ops.res, ops.res
	cosRes.Mask, sinRes.Mask = isa.MaskX, isa.MaskY

	if mask.Has(0) && mask.Has(1) && src.Reg == ops.res.Reg {
		tmp := t.scratch()
		t.emitOps(newInst(isa.COS, result(tmp, isa.MaskX), src), ops)
		t.emitOps(newInst(isa.SIN, sinRes, src), ops)
		t.emitOps(newInst(isa.MOV, cosRes, operand(tmp, isa.XXXX)), ops)
		t.alloc.Release(tmp)
		return
	}

	if mask.Has(0) {
		t.emitOps(newInst(isa.COS, cosRes, src), ops)
	}
	if mask.Has(1) {
		t.emitOps(newInst(isa.SIN, sinRes, src), ops)
	}
}

// crs d, a, b = a.yzx * b.zxy - a.zxy * b.yzx
func emulateCrs(t *Translator, n *ir.Instruction, ops *operands) {
	tmp := t.scratch()
	a, b := ops.src[0], ops.src[1]
	t.emitOps(newInst(isa.MUL, result(tmp, isa.MaskXYZ),
		reswizzle(a, swizzleZXY), reswizzle(b, swizzleYZX)), ops)
	t.emitOps(newInst(isa.MAD, ops.res,
		reswizzle(a, swizzleYZX), reswizzle(b, swizzleZXY), negate(operand(tmp, isa.XYZW))), ops)
	t.alloc.Release(tmp)
}

// setp compares component by component; each written component of p0 is a
// predicate register of its own.
func emulateSetP(t *Translator, n *ir.Instruction, ops *operands) {
	op, neg, _ := comparison(n.Token.Comparison())
	mask := n.Dst.Token.WriteMask()

	for c := 0; c < 4; c++ {
		if !mask.Has(c) {
			continue
		}

		src := regalloc.SourceReg{Type: srcisa.RegPredicate, Num: c}
		p, ok := t.alloc.Lookup(src)
		if !ok {
			p = t.alloc.Reserve(isa.BankPredicate)
			t.alloc.Map(src, p)
		}

		t.emitOps(newInst(op, predResult(p.Num), component(ops.src[0], c), component(ops.src[1], c)), ops)
		if neg {
			t.emit(newInst(isa.ANDP, predResult(p.Num), predOperand(p.Num, true), predOperand(p.Num, true)))
		}
	}
}

func matrixRows(op srcisa.Opcode) int {
	switch op {
	case srcisa.OpM4x4, srcisa.OpM3x4:
		return 4
	case srcisa.OpM4x3, srcisa.OpM3x3:
		return 3
	case srcisa.OpM3x2:
		return 2
	}
	return 0
}

// Matrix products read the rows from consecutive registers, gathered after
// the two declared sources.
func emulateMatrix(t *Translator, n *ir.Instruction, ops *operands) {
	dot := isa.DP3
	if n.Op == srcisa.OpM4x4 || n.Op == srcisa.OpM4x3 {
		dot = isa.DP4
	}

	for c := 0; c < matrixRows(n.Op); c++ {
		if !ops.res.Mask.Has(c) {
			continue
		}
		res := ops.res
		res.Mask = isa.MaskComponent(c)

		inst := newInst(dot, res, ops.src[0], ops.src[1+c])
		inst.Rel = ops.rel
		if ops.src[1].Relative {
			inst.Rel.Offset += c
		}
		t.emit(inst)
	}
}
