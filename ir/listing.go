package ir

import (
	"fmt"
	"strings"

	"github.com/attila-gpu/attila-sim-sub005/srcisa"
)

// Listing renders the program in assembler syntax, one node per line.
func (p *Program) Listing() string {
	var b strings.Builder
	fmt.Fprintln(&b, p.Version.Version)
	for _, n := range p.Nodes {
		if s := listNode(n); s != "" {
			fmt.Fprintf(&b, "    %s\n", s)
		}
	}
	fmt.Fprintln(&b, "end")
	return b.String()
}

func listNode(n Node) string {
	switch n := n.(type) {
	case *Comment:
		return fmt.Sprintf("// %d words", len(n.Data))

	case *Declaration:
		if n.Sampler != nil {
			return fmt.Sprintf("dcl_%s %s", n.Sampler.Token.TextureType(), dest(n.Dst))
		}
		u := n.Semantic.Token
		return fmt.Sprintf("dcl_%s%s %s", u.Usage(), index(u.UsageIndex()), dest(n.Dst))

	case *Definition:
		vals := make([]string, len(n.Literals))
		for i, l := range n.Literals {
			switch l := l.(type) {
			case *FloatLiteral:
				vals[i] = fmt.Sprint(l.Value)
			case *IntLiteral:
				vals[i] = fmt.Sprint(l.Value)
			case *BoolLiteral:
				vals[i] = fmt.Sprint(l.Value)
			}
		}
		return fmt.Sprintf("%s %s, %s", n.Op, dest(n.Dst), strings.Join(vals, ", "))

	case *Instruction:
		name := n.Op.String()
		switch n.Op {
		case srcisa.OpIfc, srcisa.OpBreakC, srcisa.OpSetP:
			name += "_" + n.Token.Comparison().String()
		}

		var params []string
		if n.Dst != nil {
			params = append(params, dest(n.Dst))
		}
		for _, s := range n.Srcs {
			params = append(params, source(s))
		}

		line := name
		if n.Pred != nil {
			line = "(" + source(n.Pred) + ") " + line
		}
		if len(params) > 0 {
			line += " " + strings.Join(params, ", ")
		}
		return line
	}
	return ""
}

func index(i int) string {
	if i == 0 {
		return ""
	}
	return fmt.Sprint(i)
}

const components = "xyzw"

func dest(p *DestParam) string {
	t := p.Token
	s := fmt.Sprintf("%s%d", t.RegType(), t.RegNum())
	if m := t.WriteMask(); m != srcisa.MaskXYZW {
		s += "."
		for c := 0; c < 4; c++ {
			if m.Has(c) {
				s += components[c : c+1]
			}
		}
	}
	if t.ResultModifier()&srcisa.ResultSaturate != 0 {
		s = "sat " + s
	}
	return s
}

func source(p *SourceParam) string {
	t := p.Token
	reg := fmt.Sprintf("%s%d", t.RegType(), t.RegNum())
	if t.Relative() {
		addr := "a0.x"
		if p.Rel != nil {
			rt := p.Rel.Token
			addr = fmt.Sprintf("%s%d.%c", rt.RegType(), rt.RegNum(), components[rt.Swizzle().Component(0)])
		}
		reg = fmt.Sprintf("%s[%s+%d]", t.RegType(), addr, t.RegNum())
	}
	if s := t.Swizzle(); s != srcisa.SwizzleXYZW {
		reg += "."
		for c := 0; c < 4; c++ {
			reg += components[s.Component(c) : s.Component(c)+1]
		}
	}

	switch t.SourceModifier() {
	case srcisa.ModNeg:
		return "-" + reg
	case srcisa.ModAbs:
		return "|" + reg + "|"
	case srcisa.ModAbsNeg:
		return "-|" + reg + "|"
	case srcisa.ModNot:
		return "!" + reg
	}
	return reg
}
