package srcisa

import "fmt"

// Opcode is the operation of an instruction token.
type Opcode int

const (
	OpNop          Opcode = 0
	OpMov          Opcode = 1
	OpAdd          Opcode = 2
	OpSub          Opcode = 3
	OpMad          Opcode = 4
	OpMul          Opcode = 5
	OpRcp          Opcode = 6
	OpRsq          Opcode = 7
	OpDp3          Opcode = 8
	OpDp4          Opcode = 9
	OpMin          Opcode = 10
	OpMax          Opcode = 11
	OpSlt          Opcode = 12
	OpSge          Opcode = 13
	OpExp          Opcode = 14
	OpLog          Opcode = 15
	OpLit          Opcode = 16
	OpDst          Opcode = 17
	OpLrp          Opcode = 18
	OpFrc          Opcode = 19
	OpM4x4         Opcode = 20
	OpM4x3         Opcode = 21
	OpM3x4         Opcode = 22
	OpM3x3         Opcode = 23
	OpM3x2         Opcode = 24
	OpCall         Opcode = 25
	OpCallNZ       Opcode = 26
	OpLoop         Opcode = 27
	OpRet          Opcode = 28
	OpEndLoop      Opcode = 29
	OpLabel        Opcode = 30
	OpDcl          Opcode = 31
	OpPow          Opcode = 32
	OpCrs          Opcode = 33
	OpSgn          Opcode = 34
	OpAbs          Opcode = 35
	OpNrm          Opcode = 36
	OpSinCos       Opcode = 37
	OpRep          Opcode = 38
	OpEndRep       Opcode = 39
	OpIf           Opcode = 40
	OpIfc          Opcode = 41
	OpElse         Opcode = 42
	OpEndIf        Opcode = 43
	OpBreak        Opcode = 44
	OpBreakC       Opcode = 45
	OpMova         Opcode = 46
	OpDefB         Opcode = 47
	OpDefI         Opcode = 48
	OpTexCoord     Opcode = 64
	OpTexKill      Opcode = 65
	OpTex          Opcode = 66
	OpTexBem       Opcode = 67
	OpTexBemL      Opcode = 68
	OpTexReg2AR    Opcode = 69
	OpTexReg2GB    Opcode = 70
	OpTexM3x2Pad   Opcode = 71
	OpTexM3x2Tex   Opcode = 72
	OpTexM3x3Pad   Opcode = 73
	OpTexM3x3Tex   Opcode = 74
	OpTexM3x3Spec  Opcode = 76
	OpTexM3x3VSpec Opcode = 77
	OpExpP         Opcode = 78
	OpLogP         Opcode = 79
	OpCnd          Opcode = 80
	OpDef          Opcode = 81
	OpTexReg2RGB   Opcode = 82
	OpTexDp3Tex    Opcode = 83
	OpTexM3x2Depth Opcode = 84
	OpTexDp3       Opcode = 85
	OpTexM3x3      Opcode = 86
	OpTexDepth     Opcode = 87
	OpCmp          Opcode = 88
	OpBem          Opcode = 89
	OpDp2Add       Opcode = 90
	OpDsx          Opcode = 91
	OpDsy          Opcode = 92
	OpTexLdd       Opcode = 93
	OpSetP         Opcode = 94
	OpTexLdl       Opcode = 95
	OpBreakP       Opcode = 96
	OpPhase        Opcode = 0xFFFD
	OpComment      Opcode = 0xFFFE
	OpEnd          Opcode = 0xFFFF
)

// Arity is the parameter layout of an opcode.
type Arity struct {
	Dst int
	Src int
}

type opInfo struct {
	name  string
	arity Arity
	flow  bool
}

var opTable = map[Opcode]opInfo{
	OpNop:          {"nop", Arity{0, 0}, false},
	OpMov:          {"mov", Arity{1, 1}, false},
	OpAdd:          {"add", Arity{1, 2}, false},
	OpSub:          {"sub", Arity{1, 2}, false},
	OpMad:          {"mad", Arity{1, 3}, false},
	OpMul:          {"mul", Arity{1, 2}, false},
	OpRcp:          {"rcp", Arity{1, 1}, false},
	OpRsq:          {"rsq", Arity{1, 1}, false},
	OpDp3:          {"dp3", Arity{1, 2}, false},
	OpDp4:          {"dp4", Arity{1, 2}, false},
	OpMin:          {"min", Arity{1, 2}, false},
	OpMax:          {"max", Arity{1, 2}, false},
	OpSlt:          {"slt", Arity{1, 2}, false},
	OpSge:          {"sge", Arity{1, 2}, false},
	OpExp:          {"exp", Arity{1, 1}, false},
	OpLog:          {"log", Arity{1, 1}, false},
	OpLit:          {"lit", Arity{1, 1}, false},
	OpDst:          {"dst", Arity{1, 2}, false},
	OpLrp:          {"lrp", Arity{1, 3}, false},
	OpFrc:          {"frc", Arity{1, 1}, false},
	OpM4x4:         {"m4x4", Arity{1, 2}, false},
	OpM4x3:         {"m4x3", Arity{1, 2}, false},
	OpM3x4:         {"m3x4", Arity{1, 2}, false},
	OpM3x3:         {"m3x3", Arity{1, 2}, false},
	OpM3x2:         {"m3x2", Arity{1, 2}, false},
	OpCall:         {"call", Arity{0, 1}, true},
	OpCallNZ:       {"callnz", Arity{0, 2}, true},
	OpLoop:         {"loop", Arity{0, 2}, true},
	OpRet:          {"ret", Arity{0, 0}, true},
	OpEndLoop:      {"endloop", Arity{0, 0}, true},
	OpLabel:        {"label", Arity{0, 1}, true},
	OpDcl:          {"dcl", Arity{1, 0}, false},
	OpPow:          {"pow", Arity{1, 2}, false},
	OpCrs:          {"crs", Arity{1, 2}, false},
	OpSgn:          {"sgn", Arity{1, 3}, false},
	OpAbs:          {"abs", Arity{1, 1}, false},
	OpNrm:          {"nrm", Arity{1, 1}, false},
	OpSinCos:       {"sincos", Arity{1, 3}, false},
	OpRep:          {"rep", Arity{0, 1}, true},
	OpEndRep:       {"endrep", Arity{0, 0}, true},
	OpIf:           {"if", Arity{0, 1}, true},
	OpIfc:          {"ifc", Arity{0, 2}, true},
	OpElse:         {"else", Arity{0, 0}, true},
	OpEndIf:        {"endif", Arity{0, 0}, true},
	OpBreak:        {"break", Arity{0, 0}, true},
	OpBreakC:       {"breakc", Arity{0, 2}, true},
	OpMova:         {"mova", Arity{1, 1}, false},
	OpDefB:         {"defb", Arity{1, 0}, false},
	OpDefI:         {"defi", Arity{1, 0}, false},
	OpTexCoord:     {"texcoord", Arity{1, 0}, false},
	OpTexKill:      {"texkill", Arity{1, 0}, false},
	OpTex:          {"texld", Arity{1, 2}, false},
	OpTexBem:       {"texbem", Arity{1, 1}, false},
	OpTexBemL:      {"texbeml", Arity{1, 1}, false},
	OpTexReg2AR:    {"texreg2ar", Arity{1, 1}, false},
	OpTexReg2GB:    {"texreg2gb", Arity{1, 1}, false},
	OpTexM3x2Pad:   {"texm3x2pad", Arity{1, 1}, false},
	OpTexM3x2Tex:   {"texm3x2tex", Arity{1, 1}, false},
	OpTexM3x3Pad:   {"texm3x3pad", Arity{1, 1}, false},
	OpTexM3x3Tex:   {"texm3x3tex", Arity{1, 1}, false},
	OpTexM3x3Spec:  {"texm3x3spec", Arity{1, 2}, false},
	OpTexM3x3VSpec: {"texm3x3vspec", Arity{1, 1}, false},
	OpExpP:         {"expp", Arity{1, 1}, false},
	OpLogP:         {"logp", Arity{1, 1}, false},
	OpCnd:          {"cnd", Arity{1, 3}, false},
	OpDef:          {"def", Arity{1, 0}, false},
	OpTexReg2RGB:   {"texreg2rgb", Arity{1, 1}, false},
	OpTexDp3Tex:    {"texdp3tex", Arity{1, 1}, false},
	OpTexM3x2Depth: {"texm3x2depth", Arity{1, 1}, false},
	OpTexDp3:       {"texdp3", Arity{1, 1}, false},
	OpTexM3x3:      {"texm3x3", Arity{1, 1}, false},
	OpTexDepth:     {"texdepth", Arity{1, 0}, false},
	OpCmp:          {"cmp", Arity{1, 3}, false},
	OpBem:          {"bem", Arity{1, 2}, false},
	OpDp2Add:       {"dp2add", Arity{1, 3}, false},
	OpDsx:          {"dsx", Arity{1, 1}, false},
	OpDsy:          {"dsy", Arity{1, 1}, false},
	OpTexLdd:       {"texldd", Arity{1, 4}, false},
	OpSetP:         {"setp", Arity{1, 2}, false},
	OpTexLdl:       {"texldl", Arity{1, 2}, false},
	OpBreakP:       {"breakp", Arity{0, 1}, true},
	OpPhase:        {"phase", Arity{0, 0}, false},
	OpComment:      {"comment", Arity{0, 0}, false},
	OpEnd:          {"end", Arity{0, 0}, false},
}

func (op Opcode) String() string {
	if info, ok := opTable[op]; ok {
		return info.name
	}
	return fmt.Sprintf("op(%d)", int(op))
}

// Known reports whether the opcode appears in the opcode table.
func (op Opcode) Known() bool {
	_, ok := opTable[op]
	return ok
}

// IsControlFlow reports whether the opcode changes the flow of execution.
func (op Opcode) IsControlFlow() bool { return opTable[op].flow }

// ArityFor returns the parameter layout of op for a shader version. The
// second result is false for opcodes missing from the table.
func ArityFor(op Opcode, v Version) (Arity, bool) {
	info, ok := opTable[op]
	if !ok {
		return Arity{}, false
	}

	a := info.arity
	switch op {
	case OpSinCos:
		if v.AtLeast(3, 0) {
			a.Src = 1
		}
	case OpTex:
		switch {
		case v.Type == PixelShader && !v.AtLeast(1, 4):
			a.Src = 0
		case v.Type == PixelShader && !v.AtLeast(2, 0):
			a.Src = 1
		}
	case OpTexCoord:
		if v.Type == PixelShader && v.AtLeast(1, 4) {
			a.Src = 1
		}
	}

	return a, true
}

// DefinitionLiterals returns the literal count and kind of a definition opcode.
func DefinitionLiterals(op Opcode) (count int, kind LiteralKind, ok bool) {
	switch op {
	case OpDef:
		return 4, LiteralFloat, true
	case OpDefI:
		return 4, LiteralInt, true
	case OpDefB:
		return 1, LiteralBool, true
	default:
		return 0, 0, false
	}
}

// LiteralKind is the element type of a definition.
type LiteralKind int

const (
	LiteralFloat LiteralKind = iota
	LiteralInt
	LiteralBool
)
