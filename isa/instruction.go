package isa

import (
	"fmt"
	"math"
	"strings"
)

// UnpatchedJump is the offset a jump carries until its target is known.
const UnpatchedJump = math.MinInt32

// Operand is a source operand.
type Operand struct {
	Reg      Reg
	Negate   bool
	Absolute bool
	Swizzle  Swizzle
	// Relative marks the operand as indexed by the instruction's RelAddr.
	Relative bool
}

// Result is the written register of an instruction.
type Result struct {
	Reg      Reg
	Mask     Mask
	Saturate bool
}

// Predication gates an instruction on a predicate register.
type Predication struct {
	Enabled bool
	Negate  bool
	Reg     int
}

func (p Predication) String() string {
	if !p.Enabled {
		return ""
	}
	if p.Negate {
		return fmt.Sprintf("(!p%d)", p.Reg)
	}
	return fmt.Sprintf("(p%d)", p.Reg)
}

// RelAddr describes relative addressing: the operand register number is
// offset by component Component of address register Reg, plus Offset.
type RelAddr struct {
	Enabled   bool
	Reg       int
	Component int
	Offset    int
}

// BranchMode selects when a predicated jump is taken.
type BranchMode uint8

const (
	// BranchAll jumps when the predicate holds on every active lane.
	BranchAll BranchMode = iota
	// BranchAny jumps when the predicate holds on at least one lane.
	BranchAny
)

func (m BranchMode) String() string {
	if m == BranchAny {
		return "any"
	}
	return "all"
}

// Instruction is one target instruction. Once appended to a program only
// JumpOffset and End change.
type Instruction struct {
	Op     Opcode
	Src    [3]Operand
	Res    Result
	Pred   Predication
	Rel    RelAddr
	Branch BranchMode
	// JumpOffset is relative to the jump itself: target = index + offset.
	JumpOffset int
	End        bool
}

// Nop returns an unpredicated NOP.
func Nop() Instruction { return Instruction{Op: NOP} }

// IsJump reports whether the instruction is a JMP.
func (inst Instruction) IsJump() bool { return inst.Op == JMP }

// Sources returns the operands the opcode reads.
func (inst Instruction) Sources() []Operand {
	return inst.Src[:inst.Op.NumSources()]
}

func (o Operand) format(rel RelAddr) string {
	var b strings.Builder
	if o.Negate {
		b.WriteByte('-')
	}
	if o.Absolute {
		b.WriteByte('|')
	}
	if o.Relative && rel.Enabled {
		fmt.Fprintf(&b, "%s[a%d.%c%+d]", o.Reg.Bank, rel.Reg, componentNames[rel.Component&3], rel.Offset)
	} else {
		b.WriteString(o.Reg.String())
	}
	if o.Absolute {
		b.WriteByte('|')
	}
	if o.Swizzle != XYZW {
		b.WriteByte('.')
		b.WriteString(o.Swizzle.String())
	}
	return b.String()
}

func (inst Instruction) String() string {
	var b strings.Builder
	if p := inst.Pred.String(); p != "" {
		b.WriteString(p)
		b.WriteByte(' ')
	}
	b.WriteString(inst.Op.String())

	switch {
	case inst.Op == JMP:
		if inst.JumpOffset == UnpatchedJump {
			b.WriteString(" ?")
		} else {
			fmt.Fprintf(&b, " %+d", inst.JumpOffset)
		}
		fmt.Fprintf(&b, " [%s]", inst.Branch)
	default:
		sep := " "
		if inst.Op.HasResult() {
			if inst.Res.Saturate {
				b.WriteString("_SAT")
			}
			fmt.Fprintf(&b, " %s", inst.Res.Reg)
			if inst.Res.Mask != MaskXYZW {
				fmt.Fprintf(&b, ".%s", inst.Res.Mask)
			}
			sep = ", "
		}
		for _, o := range inst.Sources() {
			b.WriteString(sep)
			b.WriteString(o.format(inst.Rel))
			sep = ", "
		}
	}

	if inst.End {
		b.WriteString(" end")
	}
	return b.String()
}
