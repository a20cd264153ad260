package verify

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/attila-gpu/attila-sim-sub005/isa"
)

// ReportLanes is the SIMD width of the report's functional simulation.
const ReportLanes = 4

// VerificationReport represents a complete verification report
type VerificationReport struct {
	Program       *isa.Program
	LintIssues    []Issue
	StructIssues  []Issue
	FlowIssues    []Issue
	DeclIssues    []Issue
	SimulationErr error
	SimulationOK  bool
	Steps         int
}

// GenerateReport runs both lint and functional simulation, returns a report
func GenerateReport(prog *isa.Program, maxSimSteps int) *VerificationReport {
	report := &VerificationReport{Program: prog}

	report.LintIssues = RunLint(prog)
	for _, issue := range report.LintIssues {
		switch issue.Type {
		case IssueStruct:
			report.StructIssues = append(report.StructIssues, issue)
		case IssueFlow:
			report.FlowIssues = append(report.FlowIssues, issue)
		default:
			report.DeclIssues = append(report.DeclIssues, issue)
		}
	}

	// Malformed programs would only fault in the simulator.
	if len(report.StructIssues) > 0 || len(report.FlowIssues) > 0 {
		report.SimulationErr = fmt.Errorf("skipped: program has %d structural and %d flow issues",
			len(report.StructIssues), len(report.FlowIssues))
		return report
	}

	fs := NewFunctionalSimulator(prog, ReportLanes)
	report.SimulationErr = fs.Run(maxSimSteps)
	report.SimulationOK = report.SimulationErr == nil
	report.Steps = fs.Steps()

	return report
}

// IssueTable renders the lint issues as a table.
func IssueTable(issues []Issue) string {
	t := table.NewWriter()
	t.SetTitle("Lint Issues")
	t.AppendHeader(table.Row{"Type", "Inst", "Message"})
	for _, issue := range issues {
		idx := "-"
		if issue.Index >= 0 {
			idx = fmt.Sprint(issue.Index)
		}
		t.AppendRow(table.Row{issue.Type, idx, issue.Message})
	}
	return t.Render()
}

// WriteReport writes a formatted report to a writer
func (r *VerificationReport) WriteReport(w io.Writer) {
	separator := strings.Repeat("=", 60)

	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, "SHADER PROGRAM VERIFICATION REPORT")
	fmt.Fprintln(w, separator)

	p := r.Program
	fmt.Fprintf(w, "\n%s: %d instructions, %d constants, %d inputs, %d outputs\n",
		p.Version, len(p.Instructions), len(p.Constants), len(p.Inputs), len(p.Outputs))
	if p.Degraded() {
		fmt.Fprintf(w, "⚠ %d source instructions untranslated (control flow: %v)\n",
			p.Untranslated, p.UntranslatedControlFlow)
	}

	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "STAGE 1: STATIC LINT CHECKS")
	fmt.Fprintln(w, separator)

	if len(r.LintIssues) == 0 {
		fmt.Fprintln(w, "✓ No lint issues found!")
	} else {
		fmt.Fprintf(w, "⚠ Found %d lint issues:\n\n", len(r.LintIssues))
		fmt.Fprintln(w, IssueTable(r.LintIssues))
	}

	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "STAGE 2: FUNCTIONAL SIMULATION")
	fmt.Fprintln(w, separator)

	if r.SimulationOK {
		fmt.Fprintf(w, "✓ Simulation completed in %d steps\n", r.Steps)
	} else {
		fmt.Fprintf(w, "⚠ Simulation error: %v\n", r.SimulationErr)
	}

	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "VERIFICATION SUMMARY")
	fmt.Fprintln(w, separator)

	fmt.Fprintf(w, "Lint Result: %d issues detected (%d STRUCT, %d FLOW, %d DECL)\n",
		len(r.LintIssues), len(r.StructIssues), len(r.FlowIssues), len(r.DeclIssues))
	simStatus := "SUCCESS"
	if !r.SimulationOK {
		simStatus = "FAILED: " + r.SimulationErr.Error()
	}
	fmt.Fprintf(w, "Simulation Result: %s\n", simStatus)
	fmt.Fprintln(w)
}

// Passed reports whether lint found nothing and the simulation ended.
func (r *VerificationReport) Passed() bool {
	return len(r.LintIssues) == 0 && r.SimulationOK
}

// SaveReportToFile writes the report to a new file.
func (r *VerificationReport) SaveReportToFile(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	r.WriteReport(file)
	return nil
}
