package config

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/attila-gpu/attila-sim-sub005/api"
	"github.com/attila-gpu/attila-sim-sub005/core"
	"github.com/attila-gpu/attila-sim-sub005/translator"
)

// Device is a shader core with the driver that feeds it.
type Device struct {
	Name   string
	Core   *core.Core
	Driver api.Driver
}

// DeviceBuilder can build shader devices.
type DeviceBuilder struct {
	engine     sim.Engine
	freq       sim.Freq
	lanes      int
	translator translator.Builder
}

// NewDeviceBuilder returns a builder with the default options applied.
func NewDeviceBuilder() DeviceBuilder {
	return DeviceBuilder{}.WithOptions(Default())
}

// WithEngine sets the engine that drives the device simulation.
func (d DeviceBuilder) WithEngine(engine sim.Engine) DeviceBuilder {
	d.engine = engine
	return d
}

// WithFreq sets the frequency of the device.
func (d DeviceBuilder) WithFreq(freq sim.Freq) DeviceBuilder {
	d.freq = freq
	return d
}

// WithLanes sets the SIMD width of the core.
func (d DeviceBuilder) WithLanes(lanes int) DeviceBuilder {
	d.lanes = lanes
	return d
}

// WithOptions applies the frequency, lanes and translator settings.
func (d DeviceBuilder) WithOptions(o Options) DeviceBuilder {
	d.freq = sim.Freq(o.FreqGHz) * sim.GHz
	d.lanes = o.Lanes
	d.translator = o.Translator()
	return d
}

// Build creates a shader device.
func (d DeviceBuilder) Build(name string) *Device {
	if d.engine == nil {
		panic(fmt.Sprintf("device %s has no engine", name))
	}

	dev := &Device{Name: name}

	dev.Core = core.NewBuilder().
		WithEngine(d.engine).
		WithFreq(d.freq).
		WithLanes(d.lanes).
		Build(name + ".Core")

	dev.Driver = api.MakeDriverBuilder().
		WithEngine(d.engine).
		WithFreq(d.freq).
		WithTranslator(d.translator).
		Build(name + ".Driver")
	dev.Driver.RegisterCore(dev.Core)

	return dev
}
