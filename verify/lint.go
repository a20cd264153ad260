package verify

import (
	"fmt"

	"github.com/attila-gpu/attila-sim-sub005/isa"
)

// RunLint performs static lint checks on a translated program.
// It validates instruction structure (STRUCT), jumps and the end marker
// (FLOW) and the declaration tables (DECL).
// Returns a list of issues found, or empty list if no issues.
func RunLint(prog *isa.Program) []Issue {
	var issues []Issue

	for i, inst := range prog.Instructions {
		issues = append(issues, lintInstruction(i, inst, len(prog.Instructions))...)
	}

	// FLOW: the core stops at the end marker, not at the end of the list
	n := len(prog.Instructions)
	if n == 0 {
		issues = append(issues, Issue{Type: IssueFlow, Index: -1, Message: "empty program"})
	} else if last := prog.Instructions[n-1]; !last.End && last.Op != isa.END {
		issues = append(issues, Issue{
			Type:    IssueFlow,
			Index:   n - 1,
			Message: "last instruction does not end the program",
		})
	}

	issues = append(issues, lintDeclarations(prog)...)

	return issues
}

func structIssue(i int, format string, args ...interface{}) Issue {
	return Issue{Type: IssueStruct, Index: i, Message: fmt.Sprintf(format, args...)}
}

func lintInstruction(i int, inst isa.Instruction, n int) []Issue {
	var issues []Issue

	if !inst.Op.Valid() {
		return []Issue{structIssue(i, "invalid opcode %s", inst.Op)}
	}

	if inst.Op == isa.JMP {
		switch target := i + inst.JumpOffset; {
		case inst.JumpOffset == isa.UnpatchedJump:
			issues = append(issues, Issue{Type: IssueFlow, Index: i, Message: "jump was never patched"})
		case target < 0 || target >= n:
			issues = append(issues, Issue{
				Type:    IssueFlow,
				Index:   i,
				Message: fmt.Sprintf("jump target %d outside the program", target),
				Details: map[string]interface{}{"offset": inst.JumpOffset, "length": n},
			})
		}
	}

	if inst.Op.HasResult() {
		want := resultBanks(inst.Op)
		r := inst.Res.Reg
		switch {
		case !want[r.Bank]:
			issues = append(issues, structIssue(i, "%s cannot write %s", inst.Op, r))
		case !inBank(r):
			issues = append(issues, structIssue(i, "result %s out of range", r))
		case inst.Res.Mask == 0:
			issues = append(issues, structIssue(i, "empty write mask"))
		}
	}

	for s, o := range inst.Sources() {
		want := sourceBanks(inst.Op, s)
		switch {
		case !want[o.Reg.Bank]:
			issues = append(issues, structIssue(i, "%s cannot read %s as operand %d", inst.Op, o.Reg, s))
		case o.Relative && inst.Rel.Enabled:
		case !inBank(o.Reg):
			issues = append(issues, structIssue(i, "operand %s out of range", o.Reg))
		}
	}

	if inst.Pred.Enabled && !inBank(isa.Reg{Bank: isa.BankPredicate, Num: inst.Pred.Reg}) {
		issues = append(issues, structIssue(i, "predicate p%d out of range", inst.Pred.Reg))
	}
	if inst.Rel.Enabled && !inBank(isa.Reg{Bank: isa.BankAddress, Num: inst.Rel.Reg}) {
		issues = append(issues, structIssue(i, "address register a%d out of range", inst.Rel.Reg))
	}

	return issues
}

func banks(bs ...isa.Bank) map[isa.Bank]bool {
	m := make(map[isa.Bank]bool, len(bs))
	for _, b := range bs {
		m[b] = true
	}
	return m
}

var (
	valueBanks     = banks(isa.BankInput, isa.BankConstant, isa.BankTemp)
	predicateBanks = banks(isa.BankPredicate)
)

func resultBanks(op isa.Opcode) map[isa.Bank]bool {
	switch {
	case op.IsSetPredicate():
		return predicateBanks
	case op == isa.ARL:
		return banks(isa.BankAddress)
	default:
		return banks(isa.BankTemp, isa.BankOutput)
	}
}

func sourceBanks(op isa.Opcode, s int) map[isa.Bank]bool {
	switch {
	case op == isa.ANDP || op == isa.KILP:
		return predicateBanks
	case op.IsTexture() && s == 1:
		return banks(isa.BankTexture)
	default:
		return valueBanks
	}
}

func declIssue(format string, args ...interface{}) Issue {
	return Issue{Type: IssueDecl, Index: -1, Message: fmt.Sprintf(format, args...)}
}

func lintDeclarations(prog *isa.Program) []Issue {
	var issues []Issue

	seen := make(map[int]bool)
	for _, c := range prog.Constants {
		r := isa.Reg{Bank: isa.BankConstant, Num: c.Target}
		if !inBank(r) {
			issues = append(issues, declIssue("constant %s%d bound to %s out of range", c.Kind, c.Source, r))
		}
		if seen[c.Target] {
			issues = append(issues, declIssue("constant register %s declared twice", r))
		}
		seen[c.Target] = true
	}

	for _, d := range prog.Inputs {
		if !inBank(isa.Reg{Bank: isa.BankInput, Num: d.Target}) {
			issues = append(issues, declIssue("input %s%d bound to i%d out of range", d.Usage, d.Index, d.Target))
		}
	}
	for _, d := range prog.Outputs {
		if !inBank(isa.Reg{Bank: isa.BankOutput, Num: d.Target}) {
			issues = append(issues, declIssue("output %s%d bound to o%d out of range", d.Usage, d.Index, d.Target))
		}
	}
	for _, s := range prog.Samplers {
		if !inBank(isa.Reg{Bank: isa.BankTexture, Num: s.Unit}) {
			issues = append(issues, declIssue("sampler s%d bound to unit %d out of range", s.Source, s.Unit))
		}
	}

	if prog.AlphaTest.Func != isa.AlphaDisabled &&
		!inBank(isa.Reg{Bank: isa.BankConstant, Num: prog.AlphaTest.RefConst}) {
		issues = append(issues, declIssue("alpha test %s without a reference constant", prog.AlphaTest.Func))
	}
	if prog.Fog.Enabled && !inBank(isa.Reg{Bank: isa.BankConstant, Num: prog.Fog.ColorConst}) {
		issues = append(issues, declIssue("fog without a colour constant"))
	}

	return issues
}
