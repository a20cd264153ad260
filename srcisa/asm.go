package srcisa

import "math"

// Dst returns a destination token writing all four components.
func Dst(rt RegType, num int) Token { return DestToken(rt, num, MaskXYZW, 0) }

// Src returns a source token with the identity swizzle and no modifier.
func Src(rt RegType, num int) Token { return SourceToken(rt, num, SwizzleXYZW, ModNone) }

// Masked replaces the write mask of a destination token.
func (t Token) Masked(m WriteMask) Token {
	return t&^maskBits | Token(uint32(m)<<maskShift&maskBits)
}

// Saturated sets the saturate result modifier of a destination token.
func (t Token) Saturated() Token {
	return t | Token(uint32(ResultSaturate)<<resultModShift)
}

// Swizzled replaces the swizzle of a source token.
func (t Token) Swizzled(s Swizzle) Token {
	return t&^swizzleBits | Token(uint32(s)<<swizzleShift&swizzleBits)
}

// Modified replaces the source modifier of a source token.
func (t Token) Modified(m SourceModifier) Token {
	return t&^srcModMaskBits | Token(uint32(m)<<srcModShift&srcModMaskBits)
}

// RelativeToken builds the address token that follows a relative source on
// shader model 2 and later, selecting component comp of the address register.
func RelativeToken(rt RegType, num, comp int) Token {
	return SourceToken(rt, num, Replicate(comp), ModNone)
}

// Assembler appends tokens of one program. It is used by tests and tools that
// need bytecode without a compiler.
type Assembler struct {
	version Version
	tokens  []uint32
}

// NewAssembler starts a program of the given version.
func NewAssembler(v Version) *Assembler {
	a := &Assembler{version: v}
	a.raw(VersionToken(v))
	return a
}

func (a *Assembler) raw(ts ...Token) {
	for _, t := range ts {
		a.tokens = append(a.tokens, uint32(t))
	}
}

func (a *Assembler) lengthField(n int) int {
	if !a.version.AtLeast(2, 0) {
		return 0
	}
	return n
}

// Raw appends tokens verbatim.
func (a *Assembler) Raw(ts ...Token) *Assembler {
	a.raw(ts...)
	return a
}

// Op appends an instruction followed by its parameter tokens.
func (a *Assembler) Op(op Opcode, params ...Token) *Assembler {
	return a.OpControl(op, 0, params...)
}

// OpControl appends an instruction with control bits, such as a comparison.
func (a *Assembler) OpControl(op Opcode, control int, params ...Token) *Assembler {
	a.raw(InstructionToken(op, control, a.lengthField(len(params)), false))
	a.raw(params...)
	return a
}

// Predicated appends an instruction executed under pred. The predicate token
// follows the destination as the instruction stream requires.
func (a *Assembler) Predicated(op Opcode, pred, dst Token, srcs ...Token) *Assembler {
	a.raw(InstructionToken(op, 0, a.lengthField(len(srcs)+2), true))
	a.raw(dst, pred)
	a.raw(srcs...)
	return a
}

// Dcl declares a register with a semantic or sampler token.
func (a *Assembler) Dcl(decl, dst Token) *Assembler {
	return a.Op(OpDcl, decl, dst)
}

// Def defines a float constant.
func (a *Assembler) Def(dst Token, x, y, z, w float32) *Assembler {
	return a.Op(OpDef, dst,
		Token(math.Float32bits(x)), Token(math.Float32bits(y)),
		Token(math.Float32bits(z)), Token(math.Float32bits(w)))
}

// DefI defines an integer constant.
func (a *Assembler) DefI(dst Token, x, y, z, w int32) *Assembler {
	return a.Op(OpDefI, dst, Token(uint32(x)), Token(uint32(y)), Token(uint32(z)), Token(uint32(w)))
}

// DefB defines a boolean constant.
func (a *Assembler) DefB(dst Token, b bool) *Assembler {
	v := Token(0)
	if b {
		v = 1
	}
	return a.Op(OpDefB, dst, v)
}

// Comment appends a comment block.
func (a *Assembler) Comment(data ...uint32) *Assembler {
	a.raw(CommentToken(len(data)))
	a.tokens = append(a.tokens, data...)
	return a
}

// Tokens returns the tokens appended so far, without an end token.
func (a *Assembler) Tokens() []uint32 {
	return append([]uint32(nil), a.tokens...)
}

// End terminates the program and returns its tokens.
func (a *Assembler) End() []uint32 {
	a.raw(EndToken)
	return a.Tokens()
}
