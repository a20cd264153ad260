package translator

import (
	"github.com/attila-gpu/attila-sim-sub005/ir"
	"github.com/attila-gpu/attila-sim-sub005/isa"
	"github.com/attila-gpu/attila-sim-sub005/regalloc"
	"github.com/attila-gpu/attila-sim-sub005/srcisa"
)

type blockKind int

const (
	ifBlock blockKind = iota
	repBlock
)

// block is an open IF or REP. Its predicate frame is preds[frame].
type block struct {
	kind  blockKind
	frame int
	pred  int
	// jump is the outstanding forward jump of an IF or ELSE, -1 when none.
	jump     int
	elseSeen bool

	start     int
	count     int
	known     bool
	counter   isa.Reg
	breakSeen bool
	breaks    []int
}

// comparison returns the predicate opcode of c and whether the predicate
// must be negated to obtain c.
func comparison(c srcisa.Comparison) (op isa.Opcode, negate bool, ok bool) {
	switch c {
	case srcisa.CmpGT:
		return isa.SETPGT, false, true
	case srcisa.CmpEQ:
		return isa.SETPEQ, false, true
	case srcisa.CmpLT:
		return isa.SETPLT, false, true
	case srcisa.CmpGE:
		return isa.SETPLT, true, true
	case srcisa.CmpNE:
		return isa.SETPEQ, true, true
	case srcisa.CmpLE:
		return isa.SETPGT, true, true
	}
	return isa.NOP, false, false
}

func (t *Translator) controlFlow(n *ir.Instruction) {
	if n.Pred != nil {
		t.fatal("predicated %s", n.Op)
	}

	switch n.Op {
	case srcisa.OpIf, srcisa.OpIfc:
		t.openIf(n)
	case srcisa.OpElse:
		t.elseBranch()
	case srcisa.OpEndIf:
		t.closeIf()
	case srcisa.OpRep:
		t.openRep(n)
	case srcisa.OpEndRep:
		t.closeRep()
	case srcisa.OpBreak, srcisa.OpBreakC:
		t.breakRep(n)
	}

	Trace("control flow", "op", n.Op.String(), "depth", len(t.preds)-1, "count", len(t.code))
}

// flowSource resolves an operand of a flow instruction. Flow instructions
// cannot be dropped without unbalancing the blocks, so failures are fatal.
func (t *Translator) flowSource(p *ir.SourceParam) isa.Operand {
	var rel isa.RelAddr
	o, err := t.source(p, &rel)
	if err != nil {
		t.fatal("operand: %v", err)
	}
	if rel.Enabled {
		t.fatal("relative operand")
	}
	return o
}

// compare emits the comparison of a and b into predicate p and returns
// whether p holds the negated condition.
func (t *Translator) compare(c srcisa.Comparison, p int, a, b isa.Operand) bool {
	op, neg, ok := comparison(c)
	if !ok {
		t.fatal("comparison %d", c)
	}
	t.emitRaw(newInst(op, predResult(p), a, b))
	return neg
}

func (t *Translator) openIf(n *ir.Instruction) {
	p := t.alloc.Reserve(isa.BankPredicate).Num
	neg := false

	switch {
	case n.Op == srcisa.OpIfc:
		a := component(t.flowSource(n.Srcs[0]), 0)
		b := component(t.flowSource(n.Srcs[1]), 0)
		neg = t.compare(n.Token.Comparison(), p, a, b)

	case n.Srcs[0].Token.RegType() == srcisa.RegPredicate:
		tok := n.Srcs[0].Token
		comp := tok.Swizzle().Component(0)
		src, ok := t.alloc.Lookup(regalloc.SourceReg{Type: srcisa.RegPredicate, Num: comp})
		if !ok {
			t.fatal("if on p0.%c before setp", "xyzw"[comp])
		}
		not := tok.SourceModifier() == srcisa.ModNot
		t.emitRaw(newInst(isa.ANDP, predResult(p), predOperand(src.Num, not), predOperand(src.Num, not)))

	default:
		// Boolean constants hold 1.0 or 0.0 in x.
		b := component(t.flowSource(n.Srcs[0]), 0)
		t.emitRaw(newInst(isa.SETPGT, predResult(p), b, negate(b)))
	}

	if outer := t.top(); outer.Enabled {
		t.emitRaw(newInst(isa.ANDP, predResult(p), predOperand(p, neg), frameOperand(outer)))
		neg = false
	}

	frame := isa.Predication{Enabled: true, Negate: neg, Reg: p}
	t.preds = append(t.preds, frame)
	j := t.emitRaw(jump(isa.Predication{Enabled: true, Negate: !neg, Reg: p}, isa.BranchAll))
	t.blocks = append(t.blocks, &block{kind: ifBlock, frame: len(t.preds) - 1, pred: p, jump: j, start: -1})
}

func (t *Translator) innermost(kind blockKind) *block {
	if len(t.blocks) == 0 || t.blocks[len(t.blocks)-1].kind != kind {
		return nil
	}
	return t.blocks[len(t.blocks)-1]
}

func (t *Translator) elseBranch() {
	b := t.innermost(ifBlock)
	switch {
	case b == nil:
		t.fatal("else without if")
	case b.elseSeen:
		t.fatal("second else in one if")
	}
	b.elseSeen = true

	t.closeJump(b.jump)

	frame := &t.preds[b.frame]
	if outer := t.preds[b.frame-1]; !outer.Enabled {
		frame.Negate = !frame.Negate
	} else {
		t.emitRaw(newInst(isa.ANDP, predResult(frame.Reg),
			negate(frameOperand(*frame)), frameOperand(outer)))
		frame.Negate = false
	}

	b.jump = t.emitRaw(jump(isa.Predication{Enabled: true, Negate: !frame.Negate, Reg: frame.Reg}, isa.BranchAll))
}

func (t *Translator) closeIf() {
	b := t.innermost(ifBlock)
	if b == nil {
		t.fatal("endif without if")
	}
	t.closeJump(b.jump)

	t.preds = t.preds[:b.frame]
	t.blocks = t.blocks[:len(t.blocks)-1]
	t.releaseControl(predReg(b.pred))
}

func (t *Translator) openRep(n *ir.Instruction) {
	k := t.controlConst()
	count := t.flowSource(n.Srcs[0])

	b := &block{kind: repBlock, jump: -1}
	if v, ok := t.intValues[n.Srcs[0].Token.RegNum()]; ok && n.Srcs[0].Token.RegType() == srcisa.RegConstInt {
		b.count, b.known = int(v[0]), true
	}

	b.counter = t.alloc.Reserve(isa.BankTemp)
	t.emitRaw(newInst(isa.MOV, result(b.counter, isa.MaskX), component(count, 0)))

	p := t.alloc.Reserve(isa.BankPredicate).Num
	t.emitRaw(newInst(isa.SETPGT, predResult(p), operand(b.counter, isa.XXXX), operand(k, isa.XXXX)))
	if outer := t.top(); outer.Enabled {
		t.emitRaw(newInst(isa.ANDP, predResult(p), predOperand(p, false), frameOperand(outer)))
	}

	t.preds = append(t.preds, isa.Predication{Enabled: true, Reg: p})
	b.frame, b.pred = len(t.preds)-1, p
	b.start = len(t.code)
	t.blocks = append(t.blocks, b)

	Trace("rep", "count", b.count, "known", b.known, "start", b.start)
}

func (t *Translator) closeRep() {
	b := t.innermost(repBlock)
	if b == nil {
		t.fatal("endrep without rep")
	}
	k := t.controlConst()
	p := t.preds[b.frame].Reg
	counter := operand(b.counter, isa.XXXX)

	t.emitRaw(newInst(isa.ADD, result(b.counter, isa.MaskX), counter, operand(k, isa.ZZZZ)))

	if !b.breakSeen {
		t.emitRaw(newInst(isa.SETPGT, predResult(p), counter, operand(k, isa.XXXX)))
		if outer := t.preds[b.frame-1]; outer.Enabled {
			t.emitRaw(newInst(isa.ANDP, predResult(p), predOperand(p, false), frameOperand(outer)))
		}
	} else {
		s := t.alloc.Reserve(isa.BankPredicate).Num
		t.emitRaw(newInst(isa.SETPGT, predResult(s), counter, operand(k, isa.XXXX)))
		t.emitRaw(newInst(isa.ANDP, predResult(p), predOperand(p, false), predOperand(s, false)))
		t.alloc.Release(predReg(s))
	}

	back := jump(isa.Predication{Enabled: true, Reg: p}, isa.BranchAny)
	j := t.emitRaw(back)
	t.code[j].JumpOffset = b.start - j

	for _, bj := range b.breaks {
		t.code[bj].JumpOffset = len(t.code) - bj
		t.lastJumpTarget = len(t.code)
	}

	t.preds = t.preds[:b.frame]
	t.blocks = t.blocks[:len(t.blocks)-1]

	t.releaseControl(b.counter)
	t.releaseControl(predReg(p))
	if !t.inRep() {
		for _, r := range t.parked {
			t.alloc.Release(r)
		}
		t.parked = nil
	}
}

func (t *Translator) inRep() bool {
	for _, b := range t.blocks {
		if b.kind == repBlock {
			return true
		}
	}
	return false
}

// releaseControl frees the counter or predicate of a closed block, or parks
// it while an enclosing REP still runs.
func (t *Translator) releaseControl(r isa.Reg) {
	if t.inRep() {
		t.parked = append(t.parked, r)
		return
	}
	t.alloc.Release(r)
}

// breakRep turns the lanes that break off in every predicate level from the
// enclosing REP up to the current one.
func (t *Translator) breakRep(n *ir.Instruction) {
	var rep *block
	for i := len(t.blocks) - 1; i >= 0; i-- {
		if t.blocks[i].kind == repBlock {
			rep = t.blocks[i]
			break
		}
	}
	if rep == nil {
		t.fatal("%s outside rep", n.Op)
	}

	top := t.top()
	cond := frameOperand(top)
	scratch := -1

	if n.Op == srcisa.OpBreakC {
		a := component(t.flowSource(n.Srcs[0]), 0)
		b := component(t.flowSource(n.Srcs[1]), 0)
		scratch = t.alloc.Reserve(isa.BankPredicate).Num
		neg := t.compare(n.Token.Comparison(), scratch, a, b)
		t.emitRaw(newInst(isa.ANDP, predResult(scratch), predOperand(scratch, neg), cond))
		cond = predOperand(scratch, false)
	}

	// The top level goes last: for BREAK it is the condition itself.
	for i := rep.frame; i < len(t.preds); i++ {
		f := &t.preds[i]
		t.emitRaw(newInst(isa.ANDP, predResult(f.Reg), frameOperand(*f), negate(cond)))
		f.Negate = false
	}
	rep.breakSeen = true

	if len(t.preds)-rep.frame == 1 {
		loop := t.preds[rep.frame].Reg
		j := t.emitRaw(jump(isa.Predication{Enabled: true, Negate: true, Reg: loop}, isa.BranchAll))
		rep.breaks = append(rep.breaks, j)
	}

	if scratch >= 0 {
		t.alloc.Release(predReg(scratch))
	}
}

// closeJump patches jump j to the current end of code, or removes it when
// the distance is under the threshold.
func (t *Translator) closeJump(j int) {
	off := len(t.code) - j
	if off < t.jumpThreshold {
		Trace("remove short jump", "index", j, "distance", off)
		t.deleteInstruction(j)
		return
	}
	t.code[j].JumpOffset = off
	t.lastJumpTarget = len(t.code)
}

func (t *Translator) deleteInstruction(j int) {
	for i := range t.code {
		inst := &t.code[i]
		if i == j || !inst.IsJump() || inst.JumpOffset == isa.UnpatchedJump {
			continue
		}
		target := i + inst.JumpOffset
		switch {
		case i < j && target > j:
			inst.JumpOffset--
		case i > j && target <= j:
			inst.JumpOffset++
		}
	}
	t.code = append(t.code[:j], t.code[j+1:]...)

	shift := func(x *int) {
		if *x > j {
			*x--
		}
	}
	for _, b := range t.blocks {
		shift(&b.jump)
		shift(&b.start)
		for i := range b.breaks {
			shift(&b.breaks[i])
		}
	}
	shift(&t.lastJumpTarget)
}
