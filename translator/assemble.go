package translator

import (
	"sort"

	"github.com/attila-gpu/attila-sim-sub005/ir"
	"github.com/attila-gpu/attila-sim-sub005/isa"
)

func (t *Translator) assemble(p *ir.Program) *isa.Program {
	l := t.alloc.Layout()

	prog := &isa.Program{
		Version:                 t.version,
		Instructions:            append([]isa.Instruction(nil), t.code...),
		Constants:               append([]isa.ConstantDecl(nil), t.constants...),
		Samplers:                append([]isa.SamplerDecl(nil), t.samplers...),
		Inputs:                  t.ioDecls(isa.BankInput),
		Outputs:                 t.ioDecls(isa.BankOutput),
		AlphaTest:               isa.AlphaTest{RefConst: -1, AuxConst: -1},
		Fog:                     isa.Fog{ColorConst: -1},
		Untranslated:            t.untranslated,
		UntranslatedControlFlow: t.untranslatedFlow,
	}
	sort.SliceStable(prog.Constants, func(i, j int) bool {
		return prog.Constants[i].Target < prog.Constants[j].Target
	})
	sort.SliceStable(prog.Samplers, func(i, j int) bool {
		return prog.Samplers[i].Unit < prog.Samplers[j].Unit
	})

	if t.opts.AlphaFunc != isa.AlphaDisabled {
		prog.AlphaTest = isa.AlphaTest{Func: t.opts.AlphaFunc, RefConst: l.AlphaRef, AuxConst: l.AlphaAux}
	}
	if t.opts.Fog {
		prog.Fog = isa.Fog{Enabled: true, ColorConst: l.FogColor}
	}
	if t.disassemble {
		prog.Disassembly = p.Listing()
	}
	return prog
}

func (t *Translator) ioDecls(b isa.Bank) []isa.IODecl {
	var decls []isa.IODecl
	for _, u := range t.alloc.Usages(b) {
		decls = append(decls, isa.IODecl{Usage: u.Usage, Index: u.Index, Target: u.Reg.Num})
	}
	return decls
}
