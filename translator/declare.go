package translator

import (
	"log/slog"
	"math"

	"github.com/attila-gpu/attila-sim-sub005/ir"
	"github.com/attila-gpu/attila-sim-sub005/isa"
	"github.com/attila-gpu/attila-sim-sub005/regalloc"
	"github.com/attila-gpu/attila-sim-sub005/srcisa"
)

// declare binds a declared register to the register serving its usage.
func (t *Translator) declare(n *ir.Declaration) {
	tok := n.Dst.Token
	src := regalloc.SourceReg{Type: tok.RegType(), Num: tok.RegNum()}

	if n.Sampler != nil {
		t.declareSampler(src.Num, n.Sampler.Token.TextureType())
		return
	}

	if _, ok := t.alloc.Lookup(src); ok {
		slog.Warn("declaration of a register already in use", "reg", src, "offset", n.Offset())
		return
	}

	u, idx := n.Semantic.Token.Usage(), n.Semantic.Token.UsageIndex()
	vs := t.version.Type == srcisa.VertexShader
	sm3 := t.version.AtLeast(3, 0)

	switch {
	case vs && src.Type == srcisa.RegInput:
		if src.Num >= regalloc.NumVertexInputs {
			t.fatal("vertex input v%d", src.Num)
		}
		r := t.alloc.ReserveUsageAt(isa.BankInput, u, idx, src.Num)
		t.alloc.Map(src, r)

	case vs && sm3 && src.Type == srcisa.RegOutput:
		t.bindUsage(src, isa.BankOutput, u, idx)

	case !vs && src.Type == srcisa.RegInput:
		if sm3 {
			t.bindUsage(src, isa.BankInput, u, idx)
		} else {
			t.bindUsage(src, isa.BankInput, srcisa.UsageColor, src.Num)
		}

	case !vs && !sm3 && src.Type == srcisa.RegTexture:
		t.bindUsage(src, isa.BankInput, srcisa.UsageTexCoord, src.Num)

	case !vs && src.Type == srcisa.RegMiscType && src.Num == srcisa.MiscPosition:
		t.bindUsage(src, isa.BankInput, srcisa.UsagePosition, 0)

	case !vs && src.Type == srcisa.RegMiscType && src.Num == srcisa.MiscFace:
		t.bindUsage(src, isa.BankInput, srcisa.UsageFace, 0)

	default:
		slog.Warn("declaration ignored", "reg", src, "usage", u, "index", idx, "offset", n.Offset())
	}
}

func (t *Translator) declareSampler(num int, tt srcisa.TextureType) {
	if num >= regalloc.NumSamplers {
		t.fatal("sampler s%d", num)
	}
	if _, ok := t.alloc.Lookup(regalloc.SourceReg{Type: srcisa.RegSampler, Num: num}); !ok {
		t.bindSampler(num, tt)
		return
	}
	for i := range t.samplers {
		if t.samplers[i].Source == num {
			t.samplers[i].Type = tt
		}
	}
}

// define records the literal value of a constant register.
func (t *Translator) define(n *ir.Definition) {
	tok := n.Dst.Token
	src := regalloc.SourceReg{Type: tok.RegType(), Num: tok.RegNum()}

	var v [4]uint32
	var ints [4]int32
	for i, l := range n.Literals {
		switch l := l.(type) {
		case *ir.FloatLiteral:
			v[i] = math.Float32bits(l.Value)
		case *ir.IntLiteral:
			ints[i] = l.Value
			v[i] = math.Float32bits(float32(l.Value))
		case *ir.BoolLiteral:
			if l.Value {
				v[i] = math.Float32bits(1)
			}
		}
	}

	switch n.Op {
	case srcisa.OpDef:
		if src.Num >= regalloc.NumFloatConsts {
			t.fatal("constant c%d", src.Num)
		}
		if _, ok := t.alloc.Lookup(src); !ok {
			t.alloc.Map(src, isa.Reg{Bank: isa.BankConstant, Num: src.Num})
		}
		t.declareConst(isa.ConstFloat, src.Num, src.Num, &v)

	case srcisa.OpDefI, srcisa.OpDefB:
		if r, ok := t.alloc.Lookup(src); ok {
			kind := isa.ConstInt
			if n.Op == srcisa.OpDefB {
				kind = isa.ConstBool
			}
			t.declareConst(kind, src.Num, r.Num, &v)
		} else {
			t.bindConst(src, &v)
		}
		if n.Op == srcisa.OpDefI {
			t.intValues[src.Num] = ints
		}
	}
}
