package isa

import (
	"fmt"
	"strings"
)

// Bank is a target register file.
type Bank uint8

const (
	BankNone Bank = iota
	BankInput
	BankOutput
	BankConstant
	BankTemp
	BankAddress
	BankPredicate
	BankTexture
	numBanks
)

// Banks lists every allocatable bank.
var Banks = []Bank{
	BankInput, BankOutput, BankConstant, BankTemp,
	BankAddress, BankPredicate, BankTexture,
}

var bankNames = [numBanks]string{
	BankNone:      "-",
	BankInput:     "i",
	BankOutput:    "o",
	BankConstant:  "c",
	BankTemp:      "r",
	BankAddress:   "a",
	BankPredicate: "p",
	BankTexture:   "t",
}

func (b Bank) String() string {
	if b < numBanks {
		return bankNames[b]
	}
	return fmt.Sprintf("bank%d", uint8(b))
}

// Reg identifies a register in the target register space.
type Reg struct {
	Bank Bank
	Num  int
}

func (r Reg) String() string {
	if r.Bank == BankNone {
		return "-"
	}
	return fmt.Sprintf("%s%d", r.Bank, r.Num)
}

// Swizzle selects source components. The selector of the x slot is held in
// the two most significant bits, so the enumeration runs XXXX, XXXY, ...
// WWWW.
type Swizzle uint8

const (
	XXXX Swizzle = 0x00
	YYYY Swizzle = 0x55
	ZZZZ Swizzle = 0xAA
	WWWW Swizzle = 0xFF
	XYZW Swizzle = 0x1B
)

// NewSwizzle builds a swizzle from four selectors (0=x .. 3=w).
func NewSwizzle(x, y, z, w int) Swizzle {
	return Swizzle((x&3)<<6 | (y&3)<<4 | (z&3)<<2 | w&3)
}

// ReplicateComponent returns the swizzle broadcasting component c.
func ReplicateComponent(c int) Swizzle { return NewSwizzle(c, c, c, c) }

// Component returns the source component read by slot i.
func (s Swizzle) Component(i int) int { return int(s>>(6-2*uint(i))) & 3 }

// Compose returns the swizzle of reading s through an outer selection.
func (s Swizzle) Compose(outer Swizzle) Swizzle {
	return NewSwizzle(
		s.Component(outer.Component(0)),
		s.Component(outer.Component(1)),
		s.Component(outer.Component(2)),
		s.Component(outer.Component(3)))
}

const componentNames = "xyzw"

func (s Swizzle) String() string {
	var b strings.Builder
	for i := 0; i < 4; i++ {
		b.WriteByte(componentNames[s.Component(i)])
	}
	return b.String()
}

// Mask selects written result components. X is the most significant bit, so
// the enumeration runs NNNN, NNNW, NNZN, ... XYZW.
type Mask uint8

const (
	MaskW    Mask = 1
	MaskZ    Mask = 2
	MaskY    Mask = 4
	MaskX    Mask = 8
	MaskXYZ       = MaskX | MaskY | MaskZ
	MaskXYZW      = MaskXYZ | MaskW
)

// MaskComponent returns the mask writing only component c.
func MaskComponent(c int) Mask { return MaskX >> uint(c) }

// Has reports whether component c is written.
func (m Mask) Has(c int) bool { return m&MaskComponent(c) != 0 }

func (m Mask) String() string {
	var b strings.Builder
	for c := 0; c < 4; c++ {
		if m.Has(c) {
			b.WriteByte(componentNames[c])
		}
	}
	return b.String()
}
