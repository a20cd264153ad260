package core

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/attila-gpu/attila-sim-sub005/regalloc"
)

// Builder can create new cores.
type Builder struct {
	engine  sim.Engine
	freq    sim.Freq
	lanes   int
	sampler Sampler
}

// WithEngine sets the engine.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the core.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithLanes sets how many shader threads execute each instruction together.
func (b Builder) WithLanes(lanes int) Builder {
	if lanes < 1 {
		panic("Need at least 1 lane")
	}
	b.lanes = lanes
	return b
}

// WithSampler sets the texture unit the TEX family reads from.
func (b Builder) WithSampler(s Sampler) Builder {
	b.sampler = s
	return b
}

func NewBuilder() Builder {
	return Builder{
		freq:  1 * sim.GHz,
		lanes: 4, // one quad
	}
}

// Build creates a core.
func (b Builder) Build(name string) *Core {
	c := &Core{}

	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)
	c.state = coreState{
		Constants: make([]vec, regalloc.ConstPoolFirst+regalloc.ConstPoolSize),
		Lanes:     make([]laneState, b.lanes),
	}

	sampler := b.sampler
	if sampler == nil {
		sampler = CoordSampler{}
	}
	c.emu = newInstEmulator(sampler)

	return c
}
