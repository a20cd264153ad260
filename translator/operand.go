package translator

import (
	"math"

	"github.com/attila-gpu/attila-sim-sub005/ir"
	"github.com/attila-gpu/attila-sim-sub005/isa"
	"github.com/attila-gpu/attila-sim-sub005/regalloc"
	"github.com/attila-gpu/attila-sim-sub005/srcisa"
)

// Source swizzles keep the x selector in the low bits, target ones in the
// high bits.
var (
	swizzles [256]isa.Swizzle
	masks    [16]isa.Mask
)

func init() {
	for i := range swizzles {
		s := srcisa.Swizzle(i)
		swizzles[i] = isa.NewSwizzle(s.Component(0), s.Component(1), s.Component(2), s.Component(3))
	}
	for i := range masks {
		m := srcisa.WriteMask(i)
		var out isa.Mask
		for c := 0; c < 4; c++ {
			if m.Has(c) {
				out |= isa.MaskComponent(c)
			}
		}
		masks[i] = out
	}
}

type operands struct {
	res isa.Result
	src []isa.Operand
	rel isa.RelAddr
}

func (t *Translator) operands(n *ir.Instruction) (*operands, error) {
	ops := &operands{}

	if n.Dst != nil {
		switch {
		case n.Op == srcisa.OpTexKill:
			r, err := t.register(n.Dst.Token.RegType(), n.Dst.Token.RegNum(), false)
			if err != nil {
				return nil, err
			}
			ops.src = append(ops.src, operand(r, isa.NewSwizzle(0, 1, 2, 2)))
		case n.Dst.Token.RegType() == srcisa.RegPredicate:
			if n.Op != srcisa.OpSetP {
				return nil, skipf("predicate destination of %s", n.Op)
			}
		default:
			res, err := t.dest(n.Dst)
			if err != nil {
				return nil, err
			}
			ops.res = res
		}
	}

	for _, s := range n.Srcs {
		o, err := t.source(s, &ops.rel)
		if err != nil {
			return nil, err
		}
		ops.src = append(ops.src, o)
	}

	if rows := matrixRows(n.Op); rows > 0 {
		base := n.Srcs[1]
		for c := 1; c < rows; c++ {
			var rel isa.RelAddr
			p := &ir.SourceParam{Token: base.Token.WithRegNum(base.Token.RegNum() + c), Rel: base.Rel}
			o, err := t.source(p, &rel)
			if err != nil {
				return nil, err
			}
			ops.src = append(ops.src, o)
		}
	}

	return ops, nil
}

func (t *Translator) source(p *ir.SourceParam, rel *isa.RelAddr) (isa.Operand, error) {
	tok := p.Token
	r, err := t.register(tok.RegType(), tok.RegNum(), false)
	if err != nil {
		return isa.Operand{}, err
	}

	o := operand(r, swizzles[tok.Swizzle()])
	switch mod := tok.SourceModifier(); mod {
	case srcisa.ModNone:
	case srcisa.ModNeg:
		o.Negate = true
	case srcisa.ModAbs:
		o.Absolute = true
	case srcisa.ModAbsNeg:
		o.Absolute, o.Negate = true, true
	default:
		return isa.Operand{}, skipf("source modifier %d", mod)
	}

	if tok.Relative() {
		if err := t.relative(p, rel); err != nil {
			return isa.Operand{}, err
		}
		o.Relative = true
	}
	return o, nil
}

func (t *Translator) relative(p *ir.SourceParam, rel *isa.RelAddr) error {
	if p.Token.RegType() != srcisa.RegConst {
		return skipf("relative addressing of %s", p.Token.RegType())
	}
	if rel.Enabled {
		return skipf("two relative operands")
	}

	addr, comp := 0, 0
	if p.Rel != nil {
		if rt := p.Rel.Token.RegType(); rt != srcisa.RegAddr || t.version.Type != srcisa.VertexShader {
			return skipf("relative addressing through %s", rt)
		}
		addr = p.Rel.Token.RegNum()
		comp = p.Rel.Token.Swizzle().Component(0)
	}

	a, err := t.register(srcisa.RegAddr, addr, false)
	if err != nil {
		return err
	}
	*rel = isa.RelAddr{Enabled: true, Reg: a.Num, Component: comp, Offset: p.Token.RegNum()}
	return nil
}

func (t *Translator) dest(p *ir.DestParam) (isa.Result, error) {
	tok := p.Token
	if tok.Relative() {
		return isa.Result{}, skipf("relative destination")
	}
	if tok.Shift() != 0 {
		return isa.Result{}, skipf("result shift %d", tok.Shift())
	}

	r, err := t.register(tok.RegType(), tok.RegNum(), true)
	if err != nil {
		return isa.Result{}, err
	}
	return isa.Result{
		Reg:      r,
		Mask:     masks[tok.WriteMask()],
		Saturate: tok.ResultModifier()&srcisa.ResultSaturate != 0,
	}, nil
}

// register returns the target register of a source register, binding it on
// first use.
func (t *Translator) register(rt srcisa.RegType, num int, write bool) (isa.Reg, error) {
	src := regalloc.SourceReg{Type: rt, Num: num}

	r, ok := t.alloc.Lookup(src)
	if !ok {
		var err error
		if r, err = t.bind(src); err != nil {
			return isa.Reg{}, err
		}
	}

	switch r.Bank {
	case isa.BankInput, isa.BankConstant, isa.BankTexture:
		if write {
			return isa.Reg{}, skipf("write to read-only %s%d", rt, num)
		}
	case isa.BankOutput:
		if !write {
			return isa.Reg{}, skipf("read of output %s%d", rt, num)
		}
	}
	return r, nil
}

func (t *Translator) bind(src regalloc.SourceReg) (isa.Reg, error) {
	vs := t.version.Type == srcisa.VertexShader
	sm3 := t.version.AtLeast(3, 0)
	num := src.Num

	switch src.Type {
	case srcisa.RegTemp:
		r := t.alloc.Reserve(isa.BankTemp)
		t.alloc.Map(src, r)
		return r, nil

	case srcisa.RegInput:
		switch {
		case vs:
			if num >= regalloc.NumVertexInputs {
				return isa.Reg{}, skipf("vertex input v%d", num)
			}
			r := isa.Reg{Bank: isa.BankInput, Num: num}
			t.alloc.ReserveID(r)
			t.alloc.Map(src, r)
			return r, nil
		case !sm3:
			return t.bindUsage(src, isa.BankInput, srcisa.UsageColor, num), nil
		}
		return isa.Reg{}, skipf("undeclared input v%d", num)

	case srcisa.RegAddr:
		if vs {
			r := isa.Reg{Bank: isa.BankAddress, Num: num}
			t.alloc.ReserveID(r)
			t.alloc.Map(src, r)
			return r, nil
		}
		if !sm3 {
			return t.bindUsage(src, isa.BankInput, srcisa.UsageTexCoord, num), nil
		}

	case srcisa.RegConst:
		if num >= regalloc.NumFloatConsts {
			return isa.Reg{}, skipf("constant c%d", num)
		}
		r := isa.Reg{Bank: isa.BankConstant, Num: num}
		t.alloc.Map(src, r)
		t.declareConst(isa.ConstFloat, num, num, nil)
		return r, nil

	case srcisa.RegConstInt, srcisa.RegConstBool:
		return t.bindConst(src, nil), nil

	case srcisa.RegSampler:
		return t.bindSampler(num, srcisa.TextureUnknown), nil

	case srcisa.RegRastOut:
		if !vs {
			break
		}
		switch num {
		case srcisa.RastPosition:
			return t.bindUsage(src, isa.BankOutput, srcisa.UsagePosition, 0), nil
		case srcisa.RastFog:
			return t.bindUsage(src, isa.BankOutput, srcisa.UsageFog, 0), nil
		case srcisa.RastPointSize:
			return t.bindUsage(src, isa.BankOutput, srcisa.UsagePointSize, 0), nil
		}

	case srcisa.RegAttrOut:
		if vs {
			return t.bindUsage(src, isa.BankOutput, srcisa.UsageColor, num), nil
		}

	case srcisa.RegOutput:
		if vs && !sm3 {
			return t.bindUsage(src, isa.BankOutput, srcisa.UsageTexCoord, num), nil
		}

	case srcisa.RegColorOut:
		if vs {
			break
		}
		if t.colorAlias && num == 0 {
			r := t.alloc.Reserve(isa.BankTemp)
			t.alloc.Map(src, r)
			return r, nil
		}
		return t.bindUsage(src, isa.BankOutput, srcisa.UsageColor, num), nil

	case srcisa.RegDepthOut:
		if !vs {
			return t.bindUsage(src, isa.BankOutput, srcisa.UsageDepth, 0), nil
		}

	case srcisa.RegMiscType:
		if !vs && num == srcisa.MiscPosition {
			return t.bindUsage(src, isa.BankInput, srcisa.UsagePosition, 0), nil
		}
		if !vs && num == srcisa.MiscFace {
			return t.bindUsage(src, isa.BankInput, srcisa.UsageFace, 0), nil
		}
	}

	return isa.Reg{}, skipf("register %s%d in %s", src.Type, num, t.version)
}

func (t *Translator) bindUsage(src regalloc.SourceReg, b isa.Bank, u srcisa.Usage, index int) isa.Reg {
	r, ok := t.alloc.UsageReg(b, u, index)
	if !ok {
		r = t.alloc.ReserveUsage(b, u, index)
	}
	t.alloc.Map(src, r)
	return r
}

// bindConst gives an integer or boolean constant a register of the constant
// pool.
func (t *Translator) bindConst(src regalloc.SourceReg, value *[4]uint32) isa.Reg {
	kind := isa.ConstInt
	if src.Type == srcisa.RegConstBool {
		kind = isa.ConstBool
	}
	r := t.alloc.Reserve(isa.BankConstant)
	t.alloc.Map(src, r)
	t.declareConst(kind, src.Num, r.Num, value)
	return r
}

func (t *Translator) bindSampler(num int, tt srcisa.TextureType) isa.Reg {
	src := regalloc.SourceReg{Type: srcisa.RegSampler, Num: num}
	r := isa.Reg{Bank: isa.BankTexture, Num: num}
	t.alloc.ReserveID(r)
	t.alloc.Map(src, r)
	t.samplers = append(t.samplers, isa.SamplerDecl{Source: num, Unit: num, Type: tt})
	return r
}

func (t *Translator) declareConst(kind isa.ConstantKind, source, target int, value *[4]uint32) {
	for i := range t.constants {
		d := &t.constants[i]
		if d.Kind == kind && d.Source == source {
			if value != nil {
				d.HasValue, d.Value = true, *value
			}
			return
		}
	}

	d := isa.ConstantDecl{Target: target, Kind: kind, Source: source}
	if value != nil {
		d.HasValue, d.Value = true, *value
	}
	t.constants = append(t.constants, d)
}

// controlConst returns the constant register holding (0, 1, -1, 0.5).
func (t *Translator) controlConst() isa.Reg {
	if t.hasControl {
		return t.control
	}
	r := t.alloc.Reserve(isa.BankConstant)
	t.held = append(t.held, r)
	t.control, t.hasControl = r, true

	v := [4]uint32{
		math.Float32bits(0), math.Float32bits(1),
		math.Float32bits(-1), math.Float32bits(0.5),
	}
	t.declareConst(isa.ConstInternal, r.Num, r.Num, &v)
	return r
}

// predicate combines the predicate of a predicated source instruction with
// the current frame. The returned func undoes it.
func (t *Translator) predicate(n *ir.Instruction) (func(), error) {
	if n.Pred == nil {
		return func() {}, nil
	}

	tok := n.Pred.Token
	if tok.RegType() != srcisa.RegPredicate {
		return nil, skipf("predicate register %s", tok.RegType())
	}
	comp := tok.Swizzle().Component(0)
	p, ok := t.alloc.Lookup(regalloc.SourceReg{Type: srcisa.RegPredicate, Num: comp})
	if !ok {
		return nil, skipf("predicate p0.%c read before setp", "xyzw"[comp])
	}
	neg := tok.SourceModifier() == srcisa.ModNot

	frame := t.top()
	if !frame.Enabled {
		t.instPred = &isa.Predication{Enabled: true, Negate: neg, Reg: p.Num}
		return func() { t.instPred = nil }, nil
	}

	s := t.alloc.Reserve(isa.BankPredicate)
	t.emitRaw(newInst(isa.ANDP, predResult(s.Num), predOperand(p.Num, neg), frameOperand(frame)))
	t.instPred = &isa.Predication{Enabled: true, Reg: s.Num}
	return func() {
		t.instPred = nil
		t.alloc.Release(s)
	}, nil
}
