// Command shaderxlate translates a legacy shader token file into a program
// for the shader core and optionally lints, dumps and runs it.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/tebeka/atexit"
	"golang.org/x/term"

	"github.com/attila-gpu/attila-sim-sub005/api"
	"github.com/attila-gpu/attila-sim-sub005/config"
	"github.com/attila-gpu/attila-sim-sub005/core"
	"github.com/attila-gpu/attila-sim-sub005/isa"
	"github.com/attila-gpu/attila-sim-sub005/verify"
)

var (
	configFile = flag.String("config", "", "YAML options file")
	hexInput   = flag.Bool("hex", false, "read the input as hex text even if it looks binary")
	outFile    = flag.String("o", "", "write the encoded program to this file")
	alphaFunc  = flag.String("alpha", "", "override the alpha test function")
	fog        = flag.Bool("fog", false, "emulate per-pixel fog")
	dump       = flag.Bool("dump", false, "print the program tables")
	listing    = flag.Bool("listing", false, "print the source listing")
	run        = flag.Bool("run", false, "run one batch of ramp inputs on a shader core")
	report     = flag.String("report", "", "write a verification report to this file")
	maxSteps   = flag.Int("steps", 100000, "instruction limit of the verification run")
	trace      = flag.Bool("trace", false, "log every emitted and retired instruction")
	verbose    = flag.Bool("v", false, "log translation progress")
)

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "shaderxlate: "+format+"\n", args...)
	atexit.Exit(1)
}

func setupLogging() {
	level := slog.LevelWarn
	switch {
	case *trace:
		level = core.LevelTrace
	case *verbose:
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(h))
}

func loadOptions() config.Options {
	opts := config.Default()
	if *configFile != "" {
		var err error
		if opts, err = config.LoadFile(*configFile); err != nil {
			fatal("%v", err)
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "alpha":
			opts.AlphaFunc = *alphaFunc
		case "fog":
			opts.Fog = *fog
		case "dump":
			opts.Dump = *dump
		case "listing":
			opts.Disassemble = *listing
		}
	})

	if err := opts.Validate(); err != nil {
		fatal("%v", err)
	}
	return opts
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: shaderxlate [flags] tokens-file\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		atexit.Exit(2)
	}

	setupLogging()
	opts := loadOptions()

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fatal("%v", err)
	}
	tokens, err := readTokens(data, *hexInput)
	if err != nil {
		fatal("%s: %v", flag.Arg(0), err)
	}

	engine := sim.NewSerialEngine()
	device := config.NewDeviceBuilder().
		WithOptions(opts).
		WithEngine(engine).
		Build("Device")

	prog, err := device.Driver.Translate(tokens, opts.Translation())
	if err != nil {
		fatal("%s: %v", flag.Arg(0), err)
	}
	if prog.Degraded() {
		slog.Warn("untranslated instructions",
			"count", prog.Untranslated,
			"controlFlow", prog.UntranslatedControlFlow)
	}

	if opts.Disassemble {
		fmt.Print(prog.Disassembly)
	}
	if opts.Dump {
		prog.Dump(os.Stdout)
	}

	if *outFile != "" {
		if err := writeProgram(*outFile, prog); err != nil {
			fatal("%v", err)
		}
	}

	code := 0
	if opts.Lint {
		for _, issue := range verify.RunLint(prog) {
			fmt.Fprintln(os.Stderr, issue)
			code = 1
		}
	}

	if *report != "" {
		r := verify.GenerateReport(prog, *maxSteps)
		if err := r.SaveReportToFile(*report); err != nil {
			fatal("%v", err)
		}
		if !r.Passed() {
			code = 1
		}
	}

	if *run {
		runRamp(device, prog, opts, tokens)
	}

	atexit.Exit(code)
}

func writeProgram(path string, prog *isa.Program) error {
	bin, err := prog.MarshalBinary()
	if err != nil {
		return err
	}
	return os.WriteFile(path, bin, 0o644)
}

// runRamp feeds element i the value (i, i, i, 1) on every input, one element
// per lane, and prints the outputs.
func runRamp(device *config.Device, prog *isa.Program, opts config.Options, tokens []uint32) {
	n := device.Core.NumLanes()

	b := &api.Batch{
		Tokens:   tokens,
		Options:  opts.Translation(),
		AlphaRef: opts.AlphaRef,
		FogColor: opts.FogColor,
	}
	for _, in := range prog.Inputs {
		values := make([][4]float32, n)
		for i := range values {
			x := float32(i)
			values[i] = [4]float32{x, x, x, 1}
		}
		b.Inputs = append(b.Inputs, api.Attribute{
			Semantic: api.Semantic{Usage: in.Usage, Index: in.Index},
			Values:   values,
		})
	}

	if err := device.Driver.Submit(b); err != nil {
		fatal("%v", err)
	}
	device.Driver.Run()

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 20 {
		t.SetAllowedRowLength(width)
	}
	t.SetTitle(fmt.Sprintf("%s on %d lanes", prog.Version, n))
	t.AppendHeader(table.Row{"Element", "Output", "X", "Y", "Z", "W"})
	for e, el := range b.Results {
		if el.Killed {
			t.AppendRow(table.Row{e, "killed"})
			continue
		}
		for _, o := range prog.Outputs {
			v := el.Outputs[api.Semantic{Usage: o.Usage, Index: o.Index}]
			t.AppendRow(table.Row{e, fmt.Sprintf("%s%d", o.Usage, o.Index), v[0], v[1], v[2], v[3]})
		}
	}
	t.Render()
}
