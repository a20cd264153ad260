package translator

import (
	"github.com/attila-gpu/attila-sim-sub005/ir"
	"github.com/attila-gpu/attila-sim-sub005/isa"
	"github.com/attila-gpu/attila-sim-sub005/srcisa"
)

type handler func(t *Translator, n *ir.Instruction, ops *operands)

var directOps = map[srcisa.Opcode]isa.Opcode{
	srcisa.OpNop:  isa.NOP,
	srcisa.OpMov:  isa.MOV,
	srcisa.OpMova: isa.ARL,
	srcisa.OpAdd:  isa.ADD,
	srcisa.OpMad:  isa.MAD,
	srcisa.OpMul:  isa.MUL,
	srcisa.OpRcp:  isa.RCP,
	srcisa.OpRsq:  isa.RSQ,
	srcisa.OpDp3:  isa.DP3,
	srcisa.OpDp4:  isa.DP4,
	srcisa.OpMin:  isa.MIN,
	srcisa.OpMax:  isa.MAX,
	srcisa.OpSlt:  isa.SLT,
	srcisa.OpSge:  isa.SGE,
	srcisa.OpExp:  isa.EX2,
	srcisa.OpExpP: isa.EXP,
	srcisa.OpLog:  isa.LG2,
	srcisa.OpLogP: isa.LOG,
	srcisa.OpLit:  isa.LIT,
	srcisa.OpDst:  isa.DST,
	srcisa.OpFrc:  isa.FRC,
	srcisa.OpDsx:  isa.DDX,
	srcisa.OpDsy:  isa.DDY,
}

var emulations = map[srcisa.Opcode]handler{
	srcisa.OpSub:     emulateSub,
	srcisa.OpLrp:     emulateLrp,
	srcisa.OpPow:     emulatePow,
	srcisa.OpNrm:     emulateNrm,
	srcisa.OpCmp:     emulateCmp,
	srcisa.OpDp2Add:  emulateDp2Add,
	srcisa.OpAbs:     emulateAbs,
	srcisa.OpSinCos:  emulateSinCos,
	srcisa.OpCrs:     emulateCrs,
	srcisa.OpSetP:    emulateSetP,
	srcisa.OpM4x4:    emulateMatrix,
	srcisa.OpM4x3:    emulateMatrix,
	srcisa.OpM3x4:    emulateMatrix,
	srcisa.OpM3x3:    emulateMatrix,
	srcisa.OpM3x2:    emulateMatrix,
	srcisa.OpTex:     translateTex,
	srcisa.OpTexLdl:  translateTex,
	srcisa.OpTexKill: translateKill,
}

func handlerFor(n *ir.Instruction) handler {
	if op, ok := directOps[n.Op]; ok {
		return direct(op)
	}
	return emulations[n.Op]
}

func direct(op isa.Opcode) handler {
	return func(t *Translator, n *ir.Instruction, ops *operands) {
		inst := newInst(op, ops.res, ops.src...)
		if op == isa.MOV && ops.res.Reg.Bank == isa.BankAddress {
			inst.Op = isa.ARL
		}
		inst.Rel = ops.rel
		t.emit(inst)
	}
}

func translateTex(t *Translator, n *ir.Instruction, ops *operands) {
	op := isa.TEX
	switch {
	case n.Op == srcisa.OpTexLdl:
		op = isa.TXL
	case n.Token.Control()&srcisa.TexLoadProject != 0:
		op = isa.TXP
	case n.Token.Control()&srcisa.TexLoadBias != 0:
		op = isa.TXB
	}
	inst := newInst(op, ops.res, ops.src[0], ops.src[1])
	inst.Rel = ops.rel
	t.emit(inst)
}

func translateKill(t *Translator, n *ir.Instruction, ops *operands) {
	t.emit(newInst(isa.KIL, isa.Result{}, ops.src[0]))
}
