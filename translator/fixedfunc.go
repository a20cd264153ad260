package translator

import (
	"log/slog"

	"github.com/attila-gpu/attila-sim-sub005/isa"
	"github.com/attila-gpu/attila-sim-sub005/regalloc"
	"github.com/attila-gpu/attila-sim-sub005/srcisa"
)

// alphaKill gives, per alpha function, the comparison of the colour alpha
// with the reference and whether the fragment dies when it fails (negate) or
// when it holds.
var alphaKill = map[isa.AlphaFunc]struct {
	op     isa.Opcode
	negate bool
}{
	isa.AlphaLess:         {isa.SETPLT, true},
	isa.AlphaEqual:        {isa.SETPEQ, true},
	isa.AlphaLessEqual:    {isa.SETPGT, false},
	isa.AlphaGreater:      {isa.SETPGT, true},
	isa.AlphaNotEqual:     {isa.SETPEQ, false},
	isa.AlphaGreaterEqual: {isa.SETPLT, false},
}

// finish closes the program: it checks the block structure, appends the
// fixed-function code and places the end flag.
func (t *Translator) finish() {
	if len(t.blocks) != 0 || len(t.preds) != 1 {
		t.fatal("%d control-flow blocks still open", len(t.blocks))
	}

	if t.colorAlias {
		t.appendFixedFunction()
	}

	if len(t.code) == 0 || t.lastJumpTarget == len(t.code) {
		t.push(isa.Instruction{Op: isa.END, End: true})
		return
	}
	t.code[len(t.code)-1].End = true
}

func (t *Translator) appendFixedFunction() {
	l := t.alloc.Layout()
	oc0 := regalloc.SourceReg{Type: srcisa.RegColorOut, Num: 0}

	// The colour lives in a temporary until here; the mapping gives it up and
	// the appendix holds it as a plain temp.
	var c isa.Reg
	if r, ok := t.alloc.Lookup(oc0); ok {
		t.alloc.Unmap(oc0)
		t.alloc.ReserveID(r)
		c = r
	} else {
		slog.Warn("colour output never written, emulating with (0, 0, 0, 1)", "version", t.version)
		c = t.alloc.Reserve(isa.BankTemp)
		t.emitRaw(newInst(isa.MOV, result(c, isa.MaskXYZW), operand(t.controlConst(), isa.NewSwizzle(0, 0, 0, 1))))
	}
	out := t.alloc.ReserveUsage(isa.BankOutput, srcisa.UsageColor, 0)
	t.alloc.Map(oc0, out)

	if l.AlphaRef >= 0 {
		t.appendAlphaTest(c, isa.Reg{Bank: isa.BankConstant, Num: l.AlphaRef})
	}

	if l.FogColor >= 0 {
		fog, ok := t.alloc.UsageReg(isa.BankInput, srcisa.UsageFog, 0)
		if !ok {
			fog = t.alloc.ReserveUsage(isa.BankInput, srcisa.UsageFog, 0)
		}
		color := operand(isa.Reg{Bank: isa.BankConstant, Num: l.FogColor}, isa.XYZW)
		factor := operand(fog, isa.XXXX)

		tmp := t.scratch()
		t.emitRaw(newInst(isa.MAD, result(tmp, isa.MaskXYZ), negate(color), factor, color))
		t.emitRaw(newInst(isa.MAD, result(c, isa.MaskXYZ), operand(c, isa.XYZW), factor, operand(tmp, isa.XYZW)))
		t.alloc.Release(tmp)
	}

	t.emitRaw(newInst(isa.MOV, result(out, isa.MaskXYZW), operand(c, isa.XYZW)))
	t.alloc.Release(c)

	Trace("fixed function", "alpha", t.opts.AlphaFunc, "fog", t.opts.Fog, "count", len(t.code))
}

func (t *Translator) appendAlphaTest(c, ref isa.Reg) {
	refX := operand(ref, isa.XXXX)

	switch f := t.opts.AlphaFunc; f {
	case isa.AlphaAlways:
		return
	case isa.AlphaNever:
		s := t.alloc.Reserve(isa.BankPredicate).Num
		t.emitRaw(newInst(isa.SETPEQ, predResult(s), refX, refX))
		t.emitRaw(newInst(isa.KILP, isa.Result{}, predOperand(s, false)))
		t.alloc.Release(predReg(s))
	default:
		k, ok := alphaKill[f]
		if !ok {
			t.unsupported("alpha function %s", f)
		}
		s := t.alloc.Reserve(isa.BankPredicate).Num
		t.emitRaw(newInst(k.op, predResult(s), operand(c, isa.WWWW), refX))
		t.emitRaw(newInst(isa.KILP, isa.Result{}, predOperand(s, k.negate)))
		t.alloc.Release(predReg(s))
	}
}
