// Package core provides a functional shader core. It executes translated
// programs one instruction per cycle over a group of SIMD lanes.
package core

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/attila-gpu/attila-sim-sub005/isa"
)

// HookPosInstRetired marks the completion of an instruction. The hook item is
// the retired isa.Instruction.
var HookPosInstRetired = &sim.HookPos{Name: "Inst Retired"}

type Core struct {
	*sim.TickingComponent

	state coreState
	emu   instEmulator
}

// NumLanes returns how many lanes execute each instruction.
func (c *Core) NumLanes() int {
	return len(c.state.Lanes)
}

// MapProgram sets the program that the core needs to run and restarts it
// from the first instruction. Constants with literal values are loaded; lane
// registers are cleared.
func (c *Core) MapProgram(prog *isa.Program) {
	c.state.Code = prog
	c.state.PC = 0
	c.state.Done = len(prog.Instructions) == 0
	c.state.Retired = 0
	c.state.Taken = 0

	for i := range c.state.Constants {
		c.state.Constants[i] = vec{}
	}
	for i := range c.state.Lanes {
		c.state.Lanes[i] = laneState{}
	}
	for _, d := range prog.Constants {
		if d.HasValue {
			c.SetConstant(d.Target, vec{d.FloatValue(0), d.FloatValue(1), d.FloatValue(2), d.FloatValue(3)})
		}
	}

	Trace("Program",
		"Behavior", "MapProgram",
		"Core", c.Name(),
		"Instructions", len(prog.Instructions),
	)

	if !c.state.Done {
		c.TickLater()
	}
}

// SetInput writes an input register of one lane.
func (c *Core) SetInput(lane, reg int, v [4]float32) {
	c.state.Lanes[lane].Inputs[reg] = v
}

// SetConstant writes a constant register shared by all lanes.
func (c *Core) SetConstant(reg int, v [4]float32) {
	if reg < 0 || reg >= len(c.state.Constants) {
		panic(fmt.Sprintf("constant register %d out of range", reg))
	}
	c.state.Constants[reg] = v
}

// Output returns an output register of one lane.
func (c *Core) Output(lane, reg int) [4]float32 {
	return c.state.Lanes[lane].Outputs[reg]
}

// Temp returns a temporary register of one lane.
func (c *Core) Temp(lane, reg int) [4]float32 {
	return c.state.Lanes[lane].Temps[reg]
}

// Killed reports whether a lane was discarded by KIL or KILP.
func (c *Core) Killed(lane int) bool {
	return c.state.Lanes[lane].Killed
}

// Done reports whether the mapped program reached its end.
func (c *Core) Done() bool {
	return c.state.Done
}

// Retired returns the number of instructions executed since MapProgram.
func (c *Core) Retired() uint64 {
	return c.state.Retired
}

// Tick runs the core for one cycle.
func (c *Core) Tick() (madeProgress bool) {
	if c.state.Code == nil || c.state.Done {
		return false
	}

	pc := c.state.PC
	inst := c.state.Code.Instructions[pc]
	c.emu.RunInst(&c.state)

	Trace("Inst",
		"Time", float64(c.Engine.CurrentTime()*1e9),
		"Core", c.Name(),
		"PC", pc,
		"Inst", inst.String(),
	)
	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    HookPosInstRetired,
		Item:   inst,
	})

	if c.state.Done {
		LogState(c.Name(), &c.state)
		PrintState(c.Name(), &c.state)
	}

	return true
}
