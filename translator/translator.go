// Package translator turns decoded shader programs into target programs. A
// Translator walks the tree once, in program order, lowering structured
// control flow to predication and jumps as it goes.
package translator

import (
	"fmt"
	"log/slog"

	"github.com/attila-gpu/attila-sim-sub005/ir"
	"github.com/attila-gpu/attila-sim-sub005/isa"
	"github.com/attila-gpu/attila-sim-sub005/regalloc"
	"github.com/attila-gpu/attila-sim-sub005/srcisa"
)

// Options select the fixed-function emulation appended to a program.
type Options struct {
	AlphaFunc isa.AlphaFunc
	Fog       bool
}

// Translator holds the state of one translation pass. It may be reused for
// many programs but must not be used from two goroutines at once.
type Translator struct {
	jumpThreshold int
	disassemble   bool
	alloc         *regalloc.Allocator

	opts    Options
	version srcisa.Version

	code   []isa.Instruction
	preds  []isa.Predication
	blocks []*block

	// instPred overrides the frame predicate while a predicated source
	// instruction is emitted.
	instPred *isa.Predication

	lastJumpTarget   int
	untranslated     int
	untranslatedFlow bool

	constants  []isa.ConstantDecl
	samplers   []isa.SamplerDecl
	intValues  map[int][4]int32
	control    isa.Reg
	hasControl bool
	held       []isa.Reg
	colorAlias bool

	// parked holds control registers released inside a REP. The loop header
	// rewrites them on every iteration, so they stay reserved until the
	// outermost REP closes.
	parked []isa.Reg

	offset int
	op     srcisa.Opcode
}

// Translate decodes a token stream and translates it.
func (t *Translator) Translate(tokens []uint32, opts Options) (*isa.Program, error) {
	p, _, err := ir.Decode(tokens)
	if err != nil {
		return nil, fmt.Errorf("translate: %w", err)
	}
	return t.TranslateProgram(p, opts)
}

// TranslateProgram translates a decoded program. Faults abort the pass and
// are returned as *Fault; no program is returned with them.
func (t *Translator) TranslateProgram(p *ir.Program, opts Options) (prog *isa.Program, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		switch f := r.(type) {
		case *Fault:
			err = f
		case *regalloc.Fault:
			err = &Fault{Offset: t.offset, Op: t.op, Msg: "register allocation", Err: f}
		default:
			panic(r)
		}
		prog = nil
		slog.Error("translation aborted", "version", t.version, "err", err)
	}()

	t.begin(p.Version, opts)
	for _, n := range p.Nodes {
		t.visit(n)
	}

	t.offset, t.op = p.End.Offset(), srcisa.OpEnd
	t.finish()
	prog = t.assemble(p)
	t.end()

	slog.Debug("translated program",
		"version", prog.Version,
		"instructions", len(prog.Instructions),
		"untranslated", prog.Untranslated)
	return prog, nil
}

// Stats returns the per-bank counters of the last translation.
func (t *Translator) Stats() map[isa.Bank]regalloc.PoolStats {
	return t.alloc.Stats()
}

func (t *Translator) begin(v *ir.Version, opts Options) {
	t.offset, t.op = v.Offset(), 0
	version := v.Version

	switch {
	case version.Type == srcisa.PixelShader && !version.AtLeast(2, 0):
		t.unsupported("shader model %s", version)
	case version.Major > 3:
		t.unsupported("shader model %s", version)
	case version.Type == srcisa.VertexShader && (opts.AlphaFunc != isa.AlphaDisabled || opts.Fog):
		t.unsupported("alpha test and fog emulation need a pixel shader, got %s", version)
	case opts.Fog && version.AtLeast(3, 0):
		t.unsupported("fog emulation on %s", version)
	}

	alpha := opts.AlphaFunc != isa.AlphaDisabled
	t.alloc.Begin(regalloc.LayoutFor(version, alpha, opts.Fog))

	t.opts = opts
	t.version = version
	t.code = nil
	t.preds = []isa.Predication{{}}
	t.blocks = nil
	t.instPred = nil
	t.lastJumpTarget = -1
	t.untranslated = 0
	t.untranslatedFlow = false
	t.constants = nil
	t.samplers = nil
	t.intValues = make(map[int][4]int32)
	t.hasControl = false
	t.held = nil
	t.parked = nil
	t.colorAlias = alpha || opts.Fog

	slog.Debug("translating program", "version", version, "alpha", opts.AlphaFunc, "fog", opts.Fog)
}

func (t *Translator) end() {
	for _, r := range t.held {
		t.alloc.Release(r)
	}
	t.held = nil
	t.alloc.End()
}

func (t *Translator) visit(n ir.Node) {
	t.offset = n.Offset()

	switch n := n.(type) {
	case *ir.Comment:
	case *ir.Declaration:
		t.op = srcisa.OpDcl
		t.declare(n)
	case *ir.Definition:
		t.op = n.Op
		t.define(n)
	case *ir.Instruction:
		t.op = n.Op
		t.instruction(n)
	default:
		t.fatal("unexpected %T in instruction stream", n)
	}
}

func (t *Translator) instruction(n *ir.Instruction) {
	switch n.Op {
	case srcisa.OpIf, srcisa.OpIfc, srcisa.OpElse, srcisa.OpEndIf,
		srcisa.OpRep, srcisa.OpEndRep, srcisa.OpBreak, srcisa.OpBreakC:
		t.controlFlow(n)
		return
	case srcisa.OpPhase:
		return
	}

	if n.Op.IsControlFlow() {
		t.untranslatedFlow = true
		t.skip(n, skipf("%s is not lowered", n.Op))
		return
	}

	if err := t.translate(n); err != nil {
		t.skip(n, err)
	}
}

func (t *Translator) skip(n *ir.Instruction, err error) {
	t.untranslated++
	slog.Warn("instruction replaced by NOP",
		"op", n.Op.String(), "offset", n.Offset(), "reason", err)
	t.emit(isa.Nop())
}

// translate resolves every operand before anything is emitted, so a failed
// instruction leaves no partial sequence behind.
func (t *Translator) translate(n *ir.Instruction) error {
	h := handlerFor(n)
	if h == nil {
		return skipf("no translation for %s", n.Op)
	}
	if n.Op == srcisa.OpSetP {
		if _, _, ok := comparison(n.Token.Comparison()); !ok {
			return skipf("comparison %d", n.Token.Comparison())
		}
	}

	ops, err := t.operands(n)
	if err != nil {
		return err
	}

	done, err := t.predicate(n)
	if err != nil {
		return err
	}
	h(t, n, ops)
	done()
	return nil
}
