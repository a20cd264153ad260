package isa

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Dump renders the program as tables: instructions, then declarations.
func (p *Program) Dump(w io.Writer) {
	code := table.NewWriter()
	code.SetOutputMirror(w)
	code.SetTitle(fmt.Sprintf("%s (%d instructions)", p.Version, len(p.Instructions)))
	code.AppendHeader(table.Row{"#", "Instruction", "Target"})
	for i, inst := range p.Instructions {
		target := ""
		if inst.IsJump() && inst.JumpOffset != UnpatchedJump {
			target = fmt.Sprintf("%d", i+inst.JumpOffset)
		}
		code.AppendRow(table.Row{i, inst.String(), target})
	}
	code.Render()

	decls := table.NewWriter()
	decls.SetOutputMirror(w)
	decls.SetTitle("Declarations")
	decls.AppendHeader(table.Row{"Kind", "Source", "Target", "Value"})
	for _, c := range p.Constants {
		value := ""
		if c.HasValue {
			value = fmt.Sprintf("(%g, %g, %g, %g)",
				c.FloatValue(0), c.FloatValue(1), c.FloatValue(2), c.FloatValue(3))
		}
		decls.AppendRow(table.Row{"const", fmt.Sprintf("%s%d", c.Kind, c.Source), fmt.Sprintf("c%d", c.Target), value})
	}
	for _, d := range p.Inputs {
		decls.AppendRow(table.Row{"input", fmt.Sprintf("%s%d", d.Usage, d.Index), fmt.Sprintf("i%d", d.Target), ""})
	}
	for _, d := range p.Outputs {
		decls.AppendRow(table.Row{"output", fmt.Sprintf("%s%d", d.Usage, d.Index), fmt.Sprintf("o%d", d.Target), ""})
	}
	for _, s := range p.Samplers {
		decls.AppendRow(table.Row{"sampler", fmt.Sprintf("s%d", s.Source), fmt.Sprintf("t%d", s.Unit), s.Type.String()})
	}
	if p.AlphaTest.Func != AlphaDisabled {
		decls.AppendRow(table.Row{"alpha", p.AlphaTest.Func.String(),
			fmt.Sprintf("c%d", p.AlphaTest.RefConst), fmt.Sprintf("aux c%d", p.AlphaTest.AuxConst)})
	}
	if p.Fog.Enabled {
		decls.AppendRow(table.Row{"fog", "", fmt.Sprintf("c%d", p.Fog.ColorConst), ""})
	}
	decls.AppendFooter(table.Row{"untranslated", p.Untranslated, "flow", p.UntranslatedControlFlow})
	decls.Render()
}
