package srcisa

import "fmt"

// RegType is the register file a parameter token refers to.
type RegType int

const (
	RegTemp       RegType = 0
	RegInput      RegType = 1
	RegConst      RegType = 2
	RegAddr       RegType = 3 // vertex shaders; RegTexture in pixel shaders
	RegRastOut    RegType = 4
	RegAttrOut    RegType = 5
	RegOutput     RegType = 6 // vs_3_0 o#; texcoord outputs before 3.0
	RegConstInt   RegType = 7
	RegColorOut   RegType = 8
	RegDepthOut   RegType = 9
	RegSampler    RegType = 10
	RegConst2     RegType = 11
	RegConst3     RegType = 12
	RegConst4     RegType = 13
	RegConstBool  RegType = 14
	RegLoop       RegType = 15
	RegTempFloat  RegType = 16
	RegMiscType   RegType = 17
	RegLabel      RegType = 18
	RegPredicate  RegType = 19
	RegTexture            = RegAddr
	RegTexCrdOut          = RegOutput
)

var regTypeNames = map[RegType]string{
	RegTemp: "r", RegInput: "v", RegConst: "c", RegAddr: "a", RegRastOut: "oRast",
	RegAttrOut: "oD", RegOutput: "o", RegConstInt: "i", RegColorOut: "oC",
	RegDepthOut: "oDepth", RegSampler: "s", RegConst2: "c2", RegConst3: "c3",
	RegConst4: "c4", RegConstBool: "b", RegLoop: "aL", RegTempFloat: "half",
	RegMiscType: "vMisc", RegLabel: "l", RegPredicate: "p",
}

func (r RegType) String() string {
	if n, ok := regTypeNames[r]; ok {
		return n
	}
	return fmt.Sprintf("reg(%d)", int(r))
}

// Rasterizer output numbers (RegRastOut).
const (
	RastPosition  = 0
	RastFog       = 1
	RastPointSize = 2
)

// Misc type numbers (RegMiscType).
const (
	MiscPosition = 0
	MiscFace     = 1
)

// Parameter token fields.
const (
	paramBit        = 1 << 31
	regNumMask      = 0x000007FF
	regTypeLowShift = 28
	regTypeLowMask  = 0x70000000
	regTypeHiShift  = 8 // bits 11-12 carry type bits 3-4
	regTypeHiMask   = 0x00001800
	relativeBit     = 1 << 13

	maskShift      = 16
	maskBits       = 0x000F0000
	resultModShift = 20
	resultModMask  = 0x00F00000
	shiftShift     = 24
	shiftMask      = 0x0F000000

	swizzleShift   = 16
	swizzleBits    = 0x00FF0000
	srcModShift    = 24
	srcModMaskBits = 0x0F000000
)

// IsParam reports whether the token is a parameter token.
func (t Token) IsParam() bool { return uint32(t)&paramBit != 0 }

// RegNum returns the register number of a parameter token.
func (t Token) RegNum() int { return int(uint32(t) & regNumMask) }

// RegType returns the register type of a parameter token.
func (t Token) RegType() RegType {
	lo := (uint32(t) & regTypeLowMask) >> regTypeLowShift
	hi := (uint32(t) & regTypeHiMask) >> regTypeHiShift
	return RegType(lo | hi)
}

// Relative reports whether the parameter uses relative addressing.
func (t Token) Relative() bool { return uint32(t)&relativeBit != 0 }

// WriteMask returns the destination write mask, x in bit 0.
func (t Token) WriteMask() WriteMask { return WriteMask((uint32(t) & maskBits) >> maskShift) }

// ResultModifier returns the destination result modifier bits.
func (t Token) ResultModifier() ResultModifier {
	return ResultModifier((uint32(t) & resultModMask) >> resultModShift)
}

// Shift returns the destination shift scale (ps_1_x only).
func (t Token) Shift() int { return int((uint32(t) & shiftMask) >> shiftShift) }

// Swizzle returns the source swizzle, x selector in the lowest two bits.
func (t Token) Swizzle() Swizzle { return Swizzle((uint32(t) & swizzleBits) >> swizzleShift) }

// SourceModifier returns the source modifier of a source token.
func (t Token) SourceModifier() SourceModifier {
	return SourceModifier((uint32(t) & srcModMaskBits) >> srcModShift)
}

func regBits(rt RegType, num int) uint32 {
	r := uint32(rt)
	return paramBit |
		uint32(num)&regNumMask |
		(r<<regTypeLowShift)&regTypeLowMask |
		(r<<regTypeHiShift)&regTypeHiMask
}

// DestToken builds a destination parameter token.
func DestToken(rt RegType, num int, mask WriteMask, mod ResultModifier) Token {
	return Token(regBits(rt, num) |
		uint32(mask)<<maskShift&maskBits |
		uint32(mod)<<resultModShift&resultModMask)
}

// SourceToken builds a source parameter token.
func SourceToken(rt RegType, num int, swz Swizzle, mod SourceModifier) Token {
	return Token(regBits(rt, num) |
		uint32(swz)<<swizzleShift&swizzleBits |
		uint32(mod)<<srcModShift&srcModMaskBits)
}

// WithRelative sets the relative addressing bit on a parameter token.
func (t Token) WithRelative() Token { return t | relativeBit }

// WithRegNum returns the parameter token with its register number replaced.
func (t Token) WithRegNum(num int) Token {
	return t&^regNumMask | Token(uint32(num)&regNumMask)
}

// WriteMask selects the written components of a destination, x in bit 0.
type WriteMask uint8

const (
	MaskX    WriteMask = 1
	MaskY    WriteMask = 2
	MaskZ    WriteMask = 4
	MaskW    WriteMask = 8
	MaskXYZ            = MaskX | MaskY | MaskZ
	MaskXYZW           = MaskXYZ | MaskW
)

// Has reports whether component c (0=x..3=w) is written.
func (m WriteMask) Has(c int) bool { return m&(1<<uint(c)) != 0 }

// Swizzle holds four two-bit component selectors, x selector lowest.
type Swizzle uint8

// Identity swizzle and the replicating ones.
const (
	SwizzleXYZW Swizzle = 0xE4
	SwizzleXXXX Swizzle = 0x00
	SwizzleYYYY Swizzle = 0x55
	SwizzleZZZZ Swizzle = 0xAA
	SwizzleWWWW Swizzle = 0xFF
)

// MakeSwizzle packs four component selectors.
func MakeSwizzle(x, y, z, w int) Swizzle {
	return Swizzle(x&3 | (y&3)<<2 | (z&3)<<4 | (w&3)<<6)
}

// Replicate returns the swizzle selecting component c in every slot.
func Replicate(c int) Swizzle { return MakeSwizzle(c, c, c, c) }

// Component returns the selector for output slot i.
func (s Swizzle) Component(i int) int { return int(s>>(2*uint(i))) & 3 }

// SourceModifier alters a source operand value.
type SourceModifier int

const (
	ModNone    SourceModifier = 0
	ModNeg     SourceModifier = 1
	ModBias    SourceModifier = 2
	ModBiasNeg SourceModifier = 3
	ModSign    SourceModifier = 4
	ModSignNeg SourceModifier = 5
	ModComp    SourceModifier = 6
	ModX2      SourceModifier = 7
	ModX2Neg   SourceModifier = 8
	ModDZ      SourceModifier = 9
	ModDW      SourceModifier = 10
	ModAbs     SourceModifier = 11
	ModAbsNeg  SourceModifier = 12
	ModNot     SourceModifier = 13
)

// ResultModifier bits of a destination.
type ResultModifier int

const (
	ResultSaturate         ResultModifier = 1
	ResultPartialPrecision ResultModifier = 2
	ResultCentroid         ResultModifier = 4
)

// Usage is the semantic of a declared input or output register.
type Usage int

const (
	UsagePosition     Usage = 0
	UsageBlendWeight  Usage = 1
	UsageBlendIndices Usage = 2
	UsageNormal       Usage = 3
	UsagePointSize    Usage = 4
	UsageTexCoord     Usage = 5
	UsageTangent      Usage = 6
	UsageBinormal     Usage = 7
	UsageTessFactor   Usage = 8
	UsagePositionT    Usage = 9
	UsageColor        Usage = 10
	UsageFog          Usage = 11
	UsageDepth        Usage = 12
	UsageSample       Usage = 13
	// UsageFace is not encodable in a DCL token; vFace is a misc register.
	UsageFace Usage = 14
)

var usageNames = map[Usage]string{
	UsagePosition: "position", UsageBlendWeight: "blendweight",
	UsageBlendIndices: "blendindices", UsageNormal: "normal",
	UsagePointSize: "psize", UsageTexCoord: "texcoord", UsageTangent: "tangent",
	UsageBinormal: "binormal", UsageTessFactor: "tessfactor",
	UsagePositionT: "positiont", UsageColor: "color", UsageFog: "fog",
	UsageDepth: "depth", UsageSample: "sample", UsageFace: "face",
}

func (u Usage) String() string {
	if n, ok := usageNames[u]; ok {
		return n
	}
	return fmt.Sprintf("usage(%d)", int(u))
}

// TextureType is the dimensionality of a declared sampler.
type TextureType int

const (
	TextureUnknown TextureType = 0
	Texture2D      TextureType = 2
	TextureCube    TextureType = 3
	TextureVolume  TextureType = 4
)

func (t TextureType) String() string {
	switch t {
	case Texture2D:
		return "2d"
	case TextureCube:
		return "cube"
	case TextureVolume:
		return "volume"
	default:
		return "unknown"
	}
}

// Declaration token fields.
const (
	usageMask        = 0x0000001F
	usageIndexShift  = 16
	usageIndexMask   = 0x000F0000
	textureTypeShift = 27
	textureTypeMask  = 0x78000000
)

// Usage returns the usage of a declaration token.
func (t Token) Usage() Usage { return Usage(uint32(t) & usageMask) }

// UsageIndex returns the usage index of a declaration token.
func (t Token) UsageIndex() int { return int((uint32(t) & usageIndexMask) >> usageIndexShift) }

// TextureType returns the sampler type of a sampler declaration token.
func (t Token) TextureType() TextureType {
	return TextureType((uint32(t) & textureTypeMask) >> textureTypeShift)
}

// SemanticToken builds the declaration token of an ordinary register.
func SemanticToken(u Usage, index int) Token {
	return Token(paramBit | uint32(u)&usageMask | uint32(index)<<usageIndexShift&usageIndexMask)
}

// SamplerToken builds the declaration token of a sampler register.
func SamplerToken(tt TextureType) Token {
	return Token(paramBit | uint32(tt)<<textureTypeShift&textureTypeMask)
}
