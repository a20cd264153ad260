package verify

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/attila-gpu/attila-sim-sub005/core"
	"github.com/attila-gpu/attila-sim-sub005/isa"
)

// FunctionalSimulator runs a program on a private shader core by ticking it
// directly. Inputs and constants default to zero.
type FunctionalSimulator struct {
	prog  *isa.Program
	core  *core.Core
	steps int

	inputs    map[[2]int][4]float32
	constants map[int][4]float32
}

// NewFunctionalSimulator creates a simulator with the given number of lanes.
func NewFunctionalSimulator(prog *isa.Program, lanes int) *FunctionalSimulator {
	c := core.NewBuilder().
		WithEngine(sim.NewSerialEngine()).
		WithLanes(lanes).
		Build("FuncSim.Core")

	return &FunctionalSimulator{
		prog:      prog,
		core:      c,
		inputs:    make(map[[2]int][4]float32),
		constants: make(map[int][4]float32),
	}
}

// PreloadInput sets an input register of one lane before the run.
func (fs *FunctionalSimulator) PreloadInput(lane, reg int, v [4]float32) {
	fs.inputs[[2]int{lane, reg}] = v
}

// PreloadConstant sets a constant register before the run.
func (fs *FunctionalSimulator) PreloadConstant(reg int, v [4]float32) {
	fs.constants[reg] = v
}

// Run executes the program for up to maxSteps instructions.
// Returns an error if the program faults or does not reach its end.
func (fs *FunctionalSimulator) Run(maxSteps int) (err error) {
	if fs.prog == nil {
		return fmt.Errorf("FunctionalSimulator not properly initialized")
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("execution fault after %d steps: %v", fs.steps, r)
		}
	}()

	fs.core.MapProgram(fs.prog)
	for k, v := range fs.inputs {
		fs.core.SetInput(k[0], k[1], v)
	}
	for reg, v := range fs.constants {
		fs.core.SetConstant(reg, v)
	}

	for fs.steps = 0; fs.steps < maxSteps && !fs.core.Done(); fs.steps++ {
		fs.core.Tick()
	}

	if !fs.core.Done() {
		return fmt.Errorf("program did not end within %d steps", maxSteps)
	}
	return nil
}

// Steps returns the number of instructions the last run executed.
func (fs *FunctionalSimulator) Steps() int {
	return fs.steps
}

// Output returns an output register of one lane after the run.
func (fs *FunctionalSimulator) Output(lane, reg int) [4]float32 {
	return fs.core.Output(lane, reg)
}

// Killed reports whether a lane was discarded during the run.
func (fs *FunctionalSimulator) Killed(lane int) bool {
	return fs.core.Killed(lane)
}
