// Package verify provides debugging tools for translated shader programs.
//
// It implements two complementary verification stages:
//
// 1. Static Lint (lint.go): structural, flow and declaration checks
//   - STRUCT checks: opcode validity, register bounds, writable result banks
//   - FLOW checks: every jump patched and inside the program, end marker
//   - DECL checks: declared registers inside their banks, fixed-function
//     constants present when the appendix uses them
//
// 2. Functional Simulator (funcsim.go): runs the program on a shader core
//   - Ticks the core directly, without an event loop, up to a step limit
//   - Reports programs that do not terminate or that fault on execution
//
// # Usage Example
//
//	prog, err := tr.Translate(tokens, translator.Options{})
//	if err != nil {
//	    panic(err)
//	}
//
//	report := verify.GenerateReport(prog, 10000)
//	report.WriteReport(os.Stdout)
package verify

import (
	"fmt"

	"github.com/attila-gpu/attila-sim-sub005/isa"
	"github.com/attila-gpu/attila-sim-sub005/regalloc"
)

// IssueType categorizes lint issues
type IssueType string

const (
	IssueStruct IssueType = "STRUCT" // Malformed instruction or register
	IssueFlow   IssueType = "FLOW"   // Jump or end marker error
	IssueDecl   IssueType = "DECL"   // Declaration error
)

// Issue represents a single lint issue
type Issue struct {
	Type    IssueType              // STRUCT, FLOW or DECL
	Index   int                    // Instruction index or -1
	Message string                 // Human-readable description
	Details map[string]interface{} // Additional structured data
}

func (i Issue) String() string {
	if i.Index < 0 {
		return fmt.Sprintf("[%s] %s", i.Type, i.Message)
	}
	return fmt.Sprintf("[%s] #%d: %s", i.Type, i.Index, i.Message)
}

// bankSizes bounds the register numbers of each bank.
var bankSizes = map[isa.Bank]int{
	isa.BankInput:     max(regalloc.NumVertexInputs, regalloc.NumInterpolated),
	isa.BankOutput:    regalloc.NumInterpolated,
	isa.BankConstant:  regalloc.ConstPoolFirst + regalloc.ConstPoolSize,
	isa.BankTemp:      regalloc.NumTemps,
	isa.BankAddress:   regalloc.NumAddress,
	isa.BankPredicate: regalloc.NumPredicates,
	isa.BankTexture:   regalloc.NumSamplers,
}

func inBank(r isa.Reg) bool {
	n, ok := bankSizes[r.Bank]
	return ok && r.Num >= 0 && r.Num < n
}
