package regalloc

import (
	"github.com/attila-gpu/attila-sim-sub005/isa"
	"github.com/attila-gpu/attila-sim-sub005/srcisa"
)

// Register file sizes of the shader core.
const (
	NumTemps        = 48
	NumFloatConsts  = 256
	ConstPoolFirst  = NumFloatConsts
	ConstPoolSize   = 40
	NumVertexInputs = 16
	NumInterpolated = 20
	NumColorOutputs = 4
	NumPredicates   = 32
	NumSamplers     = 16
	NumAddress      = 1
)

// Interpolated attribute slots shared by vertex outputs and pixel inputs.
const (
	SlotPosition = 0
	SlotColor0   = 1
	SlotColor1   = 2
	SlotFog      = 3
	SlotPointSz  = 4
	SlotTexCoord = 5
	maxTexCoords = 10
)

// Pixel output slots.
const (
	SlotDepth    = 0
	SlotColorOut = 1
)

// UsageKey names a semantic usage within a bank.
type UsageKey struct {
	Bank  isa.Bank
	Usage srcisa.Usage
	Index int
}

// BankLayout sizes one pool.
type BankLayout struct {
	First int
	Size  int
}

// Layout describes the pools of one program. Fixed maps usages to the ids
// reserved for them; Reserved ids are taken in Begin and returned in End.
type Layout struct {
	Version srcisa.Version
	Banks   map[isa.Bank]BankLayout
	Fixed   map[UsageKey]int

	// Constant registers for the fixed-function appendix, -1 when unused.
	AlphaRef int
	AlphaAux int
	FogColor int
}

// Reserved returns the constant registers held for the whole program.
func (l Layout) Reserved() []isa.Reg {
	var regs []isa.Reg
	for _, id := range []int{l.AlphaRef, l.AlphaAux, l.FogColor} {
		if id >= 0 {
			regs = append(regs, isa.Reg{Bank: isa.BankConstant, Num: id})
		}
	}
	return regs
}

func interpolatedFixed(bank isa.Bank, last srcisa.Usage) map[UsageKey]int {
	fixed := map[UsageKey]int{
		{bank, srcisa.UsagePosition, 0}: SlotPosition,
		{bank, srcisa.UsageColor, 0}:    SlotColor0,
		{bank, srcisa.UsageColor, 1}:    SlotColor1,
		{bank, srcisa.UsageFog, 0}:      SlotFog,
		{bank, last, 0}:                 SlotPointSz,
	}
	for i := 0; i < maxTexCoords; i++ {
		fixed[UsageKey{bank, srcisa.UsageTexCoord, i}] = SlotTexCoord + i
	}
	return fixed
}

// LayoutFor builds the layout of a program of version v.
func LayoutFor(v srcisa.Version, alpha, fog bool) Layout {
	l := Layout{
		Version: v,
		Banks: map[isa.Bank]BankLayout{
			isa.BankTemp:      {0, NumTemps},
			isa.BankConstant:  {ConstPoolFirst, ConstPoolSize},
			isa.BankAddress:   {0, NumAddress},
			isa.BankPredicate: {0, NumPredicates},
			isa.BankTexture:   {0, NumSamplers},
		},
		AlphaRef: -1,
		AlphaAux: -1,
		FogColor: -1,
	}

	next := ConstPoolFirst + ConstPoolSize - 1
	if alpha {
		l.AlphaRef, l.AlphaAux = next, next-1
		next -= 2
	}
	if fog {
		l.FogColor = next
	}

	if v.Type == srcisa.VertexShader {
		l.Banks[isa.BankInput] = BankLayout{0, NumVertexInputs}
		l.Banks[isa.BankOutput] = BankLayout{0, NumInterpolated}
		l.Fixed = interpolatedFixed(isa.BankOutput, srcisa.UsagePointSize)
		return l
	}

	l.Banks[isa.BankInput] = BankLayout{0, NumInterpolated}
	l.Banks[isa.BankOutput] = BankLayout{0, 1 + NumColorOutputs}
	l.Fixed = interpolatedFixed(isa.BankInput, srcisa.UsageFace)
	l.Fixed[UsageKey{isa.BankOutput, srcisa.UsageDepth, 0}] = SlotDepth
	for i := 0; i < NumColorOutputs; i++ {
		l.Fixed[UsageKey{isa.BankOutput, srcisa.UsageColor, i}] = SlotColorOut + i
	}
	return l
}

func (l Layout) fixedIDs(b isa.Bank) []int {
	var ids []int
	for k, id := range l.Fixed {
		if k.Bank == b {
			ids = append(ids, id)
		}
	}
	for _, r := range l.Reserved() {
		if r.Bank == b {
			ids = append(ids, r.Num)
		}
	}
	return ids
}
