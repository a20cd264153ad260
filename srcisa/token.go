// Package srcisa describes the legacy shader bytecode that the translator
// consumes: token layout, opcodes, register types, usages and the per-version
// arity tables.
package srcisa

import "fmt"

// Token is one 32-bit word of a shader bytecode stream.
type Token uint32

// ShaderType tells vertex and pixel programs apart.
type ShaderType int

const (
	VertexShader ShaderType = iota
	PixelShader
)

// Name returns the short name of the shader type.
func (t ShaderType) Name() string {
	switch t {
	case VertexShader:
		return "vs"
	case PixelShader:
		return "ps"
	default:
		panic("invalid shader type")
	}
}

// Version is the shader model of a program.
type Version struct {
	Type  ShaderType
	Major int
	Minor int
}

// AtLeast reports whether the version is major.minor or newer.
func (v Version) AtLeast(major, minor int) bool {
	if v.Major != major {
		return v.Major > major
	}
	return v.Minor >= minor
}

func (v Version) String() string {
	return fmt.Sprintf("%s_%d_%d", v.Type.Name(), v.Major, v.Minor)
}

const (
	vertexVersionMarker = 0xFFFE0000
	pixelVersionMarker  = 0xFFFF0000

	// EndToken terminates every program.
	EndToken Token = 0x0000FFFF
)

// VersionToken builds the first token of a program.
func VersionToken(v Version) Token {
	marker := uint32(vertexVersionMarker)
	if v.Type == PixelShader {
		marker = pixelVersionMarker
	}
	return Token(marker | uint32(v.Major&0xFF)<<8 | uint32(v.Minor&0xFF))
}

// ParseVersion interprets a version token.
func ParseVersion(t Token) (Version, bool) {
	v := Version{Major: int(t>>8) & 0xFF, Minor: int(t) & 0xFF}
	switch uint32(t) & 0xFFFF0000 {
	case vertexVersionMarker:
		v.Type = VertexShader
	case pixelVersionMarker:
		v.Type = PixelShader
	default:
		return Version{}, false
	}
	return v, true
}

// Instruction token fields.
const (
	opcodeMask       = 0x0000FFFF
	controlShift     = 16
	controlMask      = 0x00FF0000
	lengthShift      = 24
	lengthMask       = 0x0F000000
	predicatedBit    = 1 << 28
	commentSizeShift = 16
	commentSizeMask  = 0x7FFF0000
)

// Opcode returns the opcode of an instruction token.
func (t Token) Opcode() Opcode { return Opcode(uint32(t) & opcodeMask) }

// Control returns the opcode specific control bits (bits 16-23).
func (t Token) Control() int { return int(uint32(t)&controlMask) >> controlShift }

// Comparison returns the comparison encoded in the control bits.
func (t Token) Comparison() Comparison { return Comparison(t.Control() & 0x7) }

// Length returns the instruction length field of shader model 2+ tokens.
func (t Token) Length() int { return int(uint32(t)&lengthMask) >> lengthShift }

// Predicated reports whether the instruction carries a predicate operand.
func (t Token) Predicated() bool { return uint32(t)&predicatedBit != 0 }

// CommentSize returns the number of data tokens that follow a comment token.
func (t Token) CommentSize() int {
	return int(uint32(t)&commentSizeMask) >> commentSizeShift
}

// InstructionToken builds an opcode token.
func InstructionToken(op Opcode, control, length int, predicated bool) Token {
	t := uint32(op)&opcodeMask |
		uint32(control)<<controlShift&controlMask |
		uint32(length)<<lengthShift&lengthMask
	if predicated {
		t |= predicatedBit
	}
	return Token(t)
}

// CommentToken builds a comment header for size data tokens.
func CommentToken(size int) Token {
	return Token(uint32(OpComment) | uint32(size)<<commentSizeShift&commentSizeMask)
}

// Comparison is the relational operator of IFC, BREAKC and SETP.
type Comparison int

const (
	CmpGT Comparison = 1
	CmpEQ Comparison = 2
	CmpGE Comparison = 3
	CmpLT Comparison = 4
	CmpNE Comparison = 5
	CmpLE Comparison = 6
)

var comparisonNames = map[Comparison]string{
	CmpGT: "gt", CmpEQ: "eq", CmpGE: "ge", CmpLT: "lt", CmpNE: "ne", CmpLE: "le",
}

func (c Comparison) String() string {
	if n, ok := comparisonNames[c]; ok {
		return n
	}
	return fmt.Sprintf("cmp(%d)", int(c))
}

// Texture load control bits.
const (
	TexLoadProject = 1
	TexLoadBias    = 2
)
