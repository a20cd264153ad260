package isa

import (
	"fmt"
	"math"

	"github.com/attila-gpu/attila-sim-sub005/srcisa"
)

// ConstantKind tells which source bank a constant declaration came from.
type ConstantKind uint8

const (
	ConstFloat ConstantKind = iota
	ConstInt
	ConstBool
	// ConstInternal marks constants created by the translator itself.
	ConstInternal
)

func (k ConstantKind) String() string {
	switch k {
	case ConstFloat:
		return "c"
	case ConstInt:
		return "i"
	case ConstBool:
		return "b"
	default:
		return "k"
	}
}

// ConstantDecl binds a source constant to a target constant register.
type ConstantDecl struct {
	Target   int
	Kind     ConstantKind
	Source   int
	HasValue bool
	// Value holds the literal as float32 bits. Integer and boolean
	// literals are stored converted to float.
	Value [4]uint32
}

// FloatValue returns component i of the literal as a float.
func (d ConstantDecl) FloatValue(i int) float32 {
	return math.Float32frombits(d.Value[i])
}

// IODecl binds a semantic usage to an input or output register.
type IODecl struct {
	Usage  srcisa.Usage
	Index  int
	Target int
}

// SamplerDecl binds a source sampler to a texture unit.
type SamplerDecl struct {
	Source int
	Unit   int
	Type   srcisa.TextureType
}

// AlphaFunc is the comparison of an emulated alpha test.
type AlphaFunc uint8

const (
	AlphaDisabled AlphaFunc = iota
	AlphaNever
	AlphaLess
	AlphaEqual
	AlphaLessEqual
	AlphaGreater
	AlphaNotEqual
	AlphaGreaterEqual
	AlphaAlways
)

var alphaFuncNames = map[AlphaFunc]string{
	AlphaDisabled:     "disabled",
	AlphaNever:        "never",
	AlphaLess:         "less",
	AlphaEqual:        "equal",
	AlphaLessEqual:    "lessequal",
	AlphaGreater:      "greater",
	AlphaNotEqual:     "notequal",
	AlphaGreaterEqual: "greaterequal",
	AlphaAlways:       "always",
}

func (f AlphaFunc) String() string {
	if s, ok := alphaFuncNames[f]; ok {
		return s
	}
	return fmt.Sprintf("alpha(%d)", uint8(f))
}

// ParseAlphaFunc is the inverse of AlphaFunc.String.
func ParseAlphaFunc(s string) (AlphaFunc, error) {
	for f, name := range alphaFuncNames {
		if name == s {
			return f, nil
		}
	}
	return AlphaDisabled, fmt.Errorf("unknown alpha function %q", s)
}

// AlphaTest records an emulated alpha test. The reference value is read from
// RefConst.x; AuxConst is a second constant the consumer may fill.
type AlphaTest struct {
	Func     AlphaFunc
	RefConst int
	AuxConst int
}

// Fog records emulated per-pixel fog. ColorConst holds the fog colour in xyz.
type Fog struct {
	Enabled    bool
	ColorConst int
}

// Program is a translated shader ready for the shader core.
type Program struct {
	Version      srcisa.Version
	Instructions []Instruction
	Constants    []ConstantDecl
	Inputs       []IODecl
	Outputs      []IODecl
	Samplers     []SamplerDecl
	AlphaTest    AlphaTest
	Fog          Fog

	// Untranslated counts source instructions replaced by a NOP.
	Untranslated int
	// UntranslatedControlFlow is set when any of those was a flow opcode.
	UntranslatedControlFlow bool

	// Disassembly is an optional listing of the source program.
	Disassembly string
}

// Input returns the input register bound to a usage.
func (p *Program) Input(u srcisa.Usage, index int) (int, bool) {
	return findIO(p.Inputs, u, index)
}

// Output returns the output register bound to a usage.
func (p *Program) Output(u srcisa.Usage, index int) (int, bool) {
	return findIO(p.Outputs, u, index)
}

func findIO(decls []IODecl, u srcisa.Usage, index int) (int, bool) {
	for _, d := range decls {
		if d.Usage == u && d.Index == index {
			return d.Target, true
		}
	}
	return 0, false
}

// Constant returns the declaration of target constant register n.
func (p *Program) Constant(n int) (ConstantDecl, bool) {
	for _, d := range p.Constants {
		if d.Target == n {
			return d, true
		}
	}
	return ConstantDecl{}, false
}

// Degraded reports whether any source instruction was not translated.
func (p *Program) Degraded() bool {
	return p.Untranslated > 0 || p.UntranslatedControlFlow
}
