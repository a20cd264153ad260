// Package api defines the host driver API for the shader core.
package api

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/attila-gpu/attila-sim-sub005/isa"
	"github.com/attila-gpu/attila-sim-sub005/srcisa"
	"github.com/attila-gpu/attila-sim-sub005/translator"
)

// ShaderCore is the part of a shader core the driver programs.
type ShaderCore interface {
	NumLanes() int
	MapProgram(prog *isa.Program)
	SetInput(lane, reg int, v [4]float32)
	SetConstant(reg int, v [4]float32)
	Output(lane, reg int) [4]float32
	Killed(lane int) bool
	Done() bool
}

// Semantic names an input or output attribute.
type Semantic struct {
	Usage srcisa.Usage
	Index int
}

// Attribute carries the values of one input attribute, one per element.
type Attribute struct {
	Semantic
	Values [][4]float32
}

// Element is the result of running the program for one element.
type Element struct {
	Outputs map[Semantic][4]float32
	Killed  bool
}

// Batch is a shader invocation over a list of elements.
type Batch struct {
	Tokens  []uint32
	Options translator.Options

	Inputs []Attribute
	// Constants are indexed by source float constant number.
	Constants map[int][4]float32
	// IntConstants and BoolConstants set the i# and b# registers the
	// program does not define itself.
	IntConstants  map[int][4]int32
	BoolConstants map[int]bool

	AlphaRef float32
	FogColor [4]float32

	// Program is set by Submit.
	Program *isa.Program
	// Results is filled by Run, one entry per element.
	Results []Element
}

// constant returns the host value of a source constant register. Integers
// and booleans live in the float constant bank.
func (b *Batch) constant(kind isa.ConstantKind, num int) ([4]float32, bool) {
	switch kind {
	case isa.ConstFloat:
		v, ok := b.Constants[num]
		return v, ok
	case isa.ConstInt:
		v, ok := b.IntConstants[num]
		return [4]float32{float32(v[0]), float32(v[1]), float32(v[2]), float32(v[3])}, ok
	case isa.ConstBool:
		v, ok := b.BoolConstants[num]
		if v {
			return [4]float32{1, 0, 0, 0}, ok
		}
		return [4]float32{}, ok
	}
	return [4]float32{}, false
}

// Driver provides the interface to control a shader core.
type Driver interface {
	// RegisterCore sets the core that runs the submitted batches.
	RegisterCore(core ShaderCore)

	// Translate converts a token stream into a program. Repeated requests
	// with the same tokens and options return the same program.
	Translate(tokens []uint32, opts translator.Options) (*isa.Program, error)

	// Submit translates the batch program and queues the batch.
	Submit(b *Batch) error

	// Run will run all the batches that have been submitted to the driver.
	Run()
}

type driverImpl struct {
	*sim.TickingComponent

	core  ShaderCore
	cache *programCache

	tasks []*batchTask
}

type batchTask struct {
	batch    *Batch
	elements int
	group    int
	running  bool
}

func (t *batchTask) isFinished(lanes int) bool {
	return t.group*lanes >= t.elements
}

// RegisterCore sets the core that runs the submitted batches.
func (d *driverImpl) RegisterCore(core ShaderCore) {
	d.core = core
}

// Translate converts a token stream, reusing earlier translations.
func (d *driverImpl) Translate(
	tokens []uint32,
	opts translator.Options,
) (*isa.Program, error) {
	return d.cache.get(tokens, opts)
}

// Submit translates the batch program and queues the batch.
func (d *driverImpl) Submit(b *Batch) error {
	elements := -1
	for _, a := range b.Inputs {
		if elements >= 0 && len(a.Values) != elements {
			return fmt.Errorf("attribute %v has %d values, want %d",
				a.Semantic, len(a.Values), elements)
		}
		elements = len(a.Values)
	}
	if elements < 0 {
		elements = 1
	}

	prog, err := d.Translate(b.Tokens, b.Options)
	if err != nil {
		return fmt.Errorf("translate: %w", err)
	}

	b.Program = prog
	b.Results = make([]Element, elements)
	d.tasks = append(d.tasks, &batchTask{batch: b, elements: elements})

	return nil
}

// Tick runs the driver for one cycle.
func (d *driverImpl) Tick() (madeProgress bool) {
	if len(d.tasks) == 0 {
		return false
	}

	task := d.tasks[0]
	if !task.running {
		d.dispatch(task)
		return true
	}

	if !d.core.Done() {
		return true
	}

	d.collect(task)
	task.running = false
	task.group++

	if task.isFinished(d.core.NumLanes()) {
		d.tasks = d.tasks[1:]
	}

	return true
}

// dispatch maps the batch program and feeds the next group of elements.
func (d *driverImpl) dispatch(task *batchTask) {
	b := task.batch
	prog := b.Program
	lanes := d.core.NumLanes()

	d.core.MapProgram(prog)

	for _, c := range prog.Constants {
		if c.HasValue {
			continue
		}
		if v, ok := b.constant(c.Kind, c.Source); ok {
			d.core.SetConstant(c.Target, v)
		}
	}
	if prog.AlphaTest.Func != isa.AlphaDisabled {
		d.core.SetConstant(prog.AlphaTest.RefConst, [4]float32{b.AlphaRef, 0, 0, 0})
	}
	if prog.Fog.Enabled {
		d.core.SetConstant(prog.Fog.ColorConst, b.FogColor)
	}

	for _, a := range b.Inputs {
		reg, ok := prog.Input(a.Usage, a.Index)
		if !ok {
			continue
		}
		for l := 0; l < lanes; l++ {
			if e := task.group*lanes + l; e < len(a.Values) {
				d.core.SetInput(l, reg, a.Values[e])
			}
		}
	}

	task.running = true

	Trace("Batch",
		"Behavior", "Dispatch",
		"Driver", d.Name(),
		"Group", task.group,
		"Elements", task.elements,
	)
}

func (d *driverImpl) collect(task *batchTask) {
	b := task.batch
	lanes := d.core.NumLanes()

	for l := 0; l < lanes; l++ {
		e := task.group*lanes + l
		if e >= task.elements {
			break
		}

		el := Element{
			Outputs: make(map[Semantic][4]float32, len(b.Program.Outputs)),
			Killed:  d.core.Killed(l),
		}
		for _, o := range b.Program.Outputs {
			el.Outputs[Semantic{o.Usage, o.Index}] = d.core.Output(l, o.Target)
		}
		b.Results[e] = el
	}
}

// Run runs all the batches in the driver.
func (d *driverImpl) Run() {
	d.TickLater()
	if err := d.Engine.Run(); err != nil {
		panic(err)
	}
}
