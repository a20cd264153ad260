// Package isa defines the simulator-native shader instruction set: three
// sources, one result, explicit register banks and per-instruction
// predication. There is no structured control flow; JMP with a relative
// offset is the only branch.
package isa

import "fmt"

// Opcode is a target operation.
type Opcode uint8

const (
	NOP Opcode = iota
	ADD
	ANDP
	ARL
	CMP
	COS
	DDX
	DDY
	DP3
	DP4
	DPH
	DST
	END
	EX2
	EXP
	FLR
	FRC
	JMP
	KIL
	KILP
	LG2
	LIT
	LOG
	MAD
	MAX
	MIN
	MOV
	MUL
	RCP
	RSQ
	SETPEQ
	SETPGT
	SETPLT
	SGE
	SIN
	SLT
	TEX
	TXB
	TXL
	TXP
	numOpcodes
)

type opInfo struct {
	name    string
	srcs    int
	result  bool
	texture bool
}

var opInfos = [numOpcodes]opInfo{
	NOP:    {"NOP", 0, false, false},
	ADD:    {"ADD", 2, true, false},
	ANDP:   {"ANDP", 2, true, false},
	ARL:    {"ARL", 1, true, false},
	CMP:    {"CMP", 3, true, false},
	COS:    {"COS", 1, true, false},
	DDX:    {"DDX", 1, true, false},
	DDY:    {"DDY", 1, true, false},
	DP3:    {"DP3", 2, true, false},
	DP4:    {"DP4", 2, true, false},
	DPH:    {"DPH", 2, true, false},
	DST:    {"DST", 2, true, false},
	END:    {"END", 0, false, false},
	EX2:    {"EX2", 1, true, false},
	EXP:    {"EXP", 1, true, false},
	FLR:    {"FLR", 1, true, false},
	FRC:    {"FRC", 1, true, false},
	JMP:    {"JMP", 0, false, false},
	KIL:    {"KIL", 1, false, false},
	KILP:   {"KILP", 1, false, false},
	LG2:    {"LG2", 1, true, false},
	LIT:    {"LIT", 1, true, false},
	LOG:    {"LOG", 1, true, false},
	MAD:    {"MAD", 3, true, false},
	MAX:    {"MAX", 2, true, false},
	MIN:    {"MIN", 2, true, false},
	MOV:    {"MOV", 1, true, false},
	MUL:    {"MUL", 2, true, false},
	RCP:    {"RCP", 1, true, false},
	RSQ:    {"RSQ", 1, true, false},
	SETPEQ: {"SETPEQ", 2, true, false},
	SETPGT: {"SETPGT", 2, true, false},
	SETPLT: {"SETPLT", 2, true, false},
	SGE:    {"SGE", 2, true, false},
	SIN:    {"SIN", 1, true, false},
	SLT:    {"SLT", 2, true, false},
	TEX:    {"TEX", 2, true, true},
	TXB:    {"TXB", 2, true, true},
	TXL:    {"TXL", 2, true, true},
	TXP:    {"TXP", 2, true, true},
}

func (op Opcode) String() string {
	if op < numOpcodes {
		return opInfos[op].name
	}
	return fmt.Sprintf("OP%d", uint8(op))
}

// Valid reports whether op is a defined opcode.
func (op Opcode) Valid() bool { return op < numOpcodes }

// NumSources returns how many source operands op reads.
func (op Opcode) NumSources() int { return opInfos[op].srcs }

// HasResult reports whether op writes a result register.
func (op Opcode) HasResult() bool { return opInfos[op].result }

// IsTexture reports whether op samples a texture unit.
func (op Opcode) IsTexture() bool { return opInfos[op].texture }

// IsSetPredicate reports whether op writes a predicate register.
func (op Opcode) IsSetPredicate() bool {
	return op == SETPEQ || op == SETPGT || op == SETPLT || op == ANDP
}
