package api

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/attila-gpu/attila-sim-sub005/translator"
)

// DriverBuilder creates a new instance of Driver.
type DriverBuilder struct {
	engine     sim.Engine
	freq       sim.Freq
	translator translator.Builder
}

// MakeDriverBuilder returns a builder with a 1 GHz driver and a default
// translator.
func MakeDriverBuilder() DriverBuilder {
	return DriverBuilder{
		freq:       1 * sim.GHz,
		translator: translator.NewBuilder(),
	}
}

// WithEngine sets the engine.
func (b DriverBuilder) WithEngine(engine sim.Engine) DriverBuilder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the driver.
func (b DriverBuilder) WithFreq(freq sim.Freq) DriverBuilder {
	b.freq = freq
	return b
}

// WithTranslator sets how the driver's translator is built.
func (b DriverBuilder) WithTranslator(t translator.Builder) DriverBuilder {
	b.translator = t
	return b
}

// Build create a driver.
func (b DriverBuilder) Build(name string) Driver {
	d := &driverImpl{
		cache: newProgramCache(b.translator.Build()),
	}

	d.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, d)

	return d
}
