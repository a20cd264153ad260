// Package ir holds the tree built from a shader token stream. The node set is
// closed: consumers dispatch with a type switch over the variants below.
package ir

import (
	"github.com/attila-gpu/attila-sim-sub005/srcisa"
)

// Node is one element of the decoded tree.
type Node interface {
	// Offset is the byte offset of the node's first token in the stream.
	Offset() int
	// Children returns the nodes owned by this node, in stream order.
	Children() []Node

	node()
}

type base struct{ offset int }

func (b base) Offset() int { return b.offset }

// Program is the root of a decoded shader.
type Program struct {
	Version *Version
	Nodes   []Node
	End     *End
}

// Version is the leading version token.
type Version struct {
	base
	Token   srcisa.Token
	Version srcisa.Version
}

// Instruction is an executable opcode with its parameters.
type Instruction struct {
	base
	Token srcisa.Token
	Op    srcisa.Opcode
	Dst   *DestParam
	// Pred is set for predicated instructions.
	Pred *SourceParam
	Srcs []*SourceParam
}

// Declaration binds a register to a semantic or a sampler type.
type Declaration struct {
	base
	Token srcisa.Token
	// Semantic is set for ordinary registers, Sampler for sampler registers.
	Semantic *Semantic
	Sampler  *SamplerInfo
	Dst      *DestParam
}

// Definition gives a constant register a literal value.
type Definition struct {
	base
	Token    srcisa.Token
	Op       srcisa.Opcode
	Dst      *DestParam
	Literals []Node
}

// End is the terminating token.
type End struct {
	base
	Token srcisa.Token
}

// Comment is a comment block.
type Comment struct {
	base
	Token srcisa.Token
	Data  []*CommentData
}

// CommentData is one raw word of a comment block.
type CommentData struct {
	base
	Token srcisa.Token
}

// SourceParam is a source operand.
type SourceParam struct {
	base
	Token srcisa.Token
	Rel   *RelativeAddressing
}

// DestParam is a destination operand.
type DestParam struct {
	base
	Token srcisa.Token
	Rel   *RelativeAddressing
}

// RelativeAddressing is the address register token of a relative operand.
type RelativeAddressing struct {
	base
	Token srcisa.Token
}

// Semantic is the usage token of a declaration.
type Semantic struct {
	base
	Token srcisa.Token
}

// SamplerInfo is the texture type token of a sampler declaration.
type SamplerInfo struct {
	base
	Token srcisa.Token
}

// BoolLiteral is a DEFB value.
type BoolLiteral struct {
	base
	Token srcisa.Token
	Value bool
}

// FloatLiteral is a DEF component.
type FloatLiteral struct {
	base
	Token srcisa.Token
	Value float32
}

// IntLiteral is a DEFI component.
type IntLiteral struct {
	base
	Token srcisa.Token
	Value int32
}

func (*Version) node()            {}
func (*Instruction) node()        {}
func (*Declaration) node()        {}
func (*Definition) node()         {}
func (*End) node()                {}
func (*Comment) node()            {}
func (*CommentData) node()        {}
func (*SourceParam) node()        {}
func (*DestParam) node()          {}
func (*RelativeAddressing) node() {}
func (*Semantic) node()           {}
func (*SamplerInfo) node()        {}
func (*BoolLiteral) node()        {}
func (*FloatLiteral) node()       {}
func (*IntLiteral) node()         {}

func (*Version) Children() []Node            { return nil }
func (*End) Children() []Node                { return nil }
func (*CommentData) Children() []Node        { return nil }
func (*RelativeAddressing) Children() []Node { return nil }
func (*Semantic) Children() []Node           { return nil }
func (*SamplerInfo) Children() []Node        { return nil }
func (*BoolLiteral) Children() []Node        { return nil }
func (*FloatLiteral) Children() []Node       { return nil }
func (*IntLiteral) Children() []Node         { return nil }

func (n *Instruction) Children() []Node {
	var out []Node
	if n.Dst != nil {
		out = append(out, n.Dst)
	}
	if n.Pred != nil {
		out = append(out, n.Pred)
	}
	for _, s := range n.Srcs {
		out = append(out, s)
	}
	return out
}

func (n *Declaration) Children() []Node {
	out := make([]Node, 0, 2)
	if n.Semantic != nil {
		out = append(out, n.Semantic)
	}
	if n.Sampler != nil {
		out = append(out, n.Sampler)
	}
	return append(out, n.Dst)
}

func (n *Definition) Children() []Node {
	out := make([]Node, 0, len(n.Literals)+1)
	if n.Dst != nil {
		out = append(out, n.Dst)
	}
	return append(out, n.Literals...)
}

func (n *Comment) Children() []Node {
	out := make([]Node, len(n.Data))
	for i, d := range n.Data {
		out[i] = d
	}
	return out
}

func (n *SourceParam) Children() []Node {
	if n.Rel == nil {
		return nil
	}
	return []Node{n.Rel}
}

func (n *DestParam) Children() []Node {
	if n.Rel == nil {
		return nil
	}
	return []Node{n.Rel}
}

// Walk visits n and its descendants in stream order. Children of a node are
// skipped when fn returns false for it.
func Walk(n Node, fn func(Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children() {
		Walk(c, fn)
	}
}

// Walk visits every node of the program in stream order.
func (p *Program) Walk(fn func(Node) bool) {
	Walk(p.Version, fn)
	for _, n := range p.Nodes {
		Walk(n, fn)
	}
	if p.End != nil {
		Walk(p.End, fn)
	}
}
