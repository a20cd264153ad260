package main

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/tebeka/atexit"

	"github.com/attila-gpu/attila-sim-sub005/api"
	"github.com/attila-gpu/attila-sim-sub005/config"
	"github.com/attila-gpu/attila-sim-sub005/srcisa"
)

var vs20 = srcisa.Version{Type: srcisa.VertexShader, Major: 2, Minor: 0}

var passThroughShader = srcisa.NewAssembler(vs20).
	Dcl(srcisa.SemanticToken(srcisa.UsagePosition, 0), srcisa.Dst(srcisa.RegInput, 0)).
	Dcl(srcisa.SemanticToken(srcisa.UsageTexCoord, 0), srcisa.Dst(srcisa.RegInput, 1)).
	Op(srcisa.OpMov, srcisa.Dst(srcisa.RegRastOut, srcisa.RastPosition), srcisa.Src(srcisa.RegInput, 0)).
	Op(srcisa.OpMov, srcisa.Dst(srcisa.RegTexCrdOut, 0), srcisa.Src(srcisa.RegInput, 1)).
	End()

func passThrough(driver api.Driver) {
	length := 8
	position := api.Semantic{Usage: srcisa.UsagePosition}
	texCoord := api.Semantic{Usage: srcisa.UsageTexCoord}

	pos := make([][4]float32, length)
	tex := make([][4]float32, length)
	for i := 0; i < length; i++ {
		pos[i] = [4]float32{float32(i), float32(-i), 0, 1}
		tex[i] = [4]float32{float32(i) / float32(length), 0, 0, 1}
	}

	b := &api.Batch{
		Tokens: passThroughShader,
		Inputs: []api.Attribute{
			{Semantic: position, Values: pos},
			{Semantic: texCoord, Values: tex},
		},
	}
	if err := driver.Submit(b); err != nil {
		panic(err)
	}

	driver.Run()

	for i, e := range b.Results {
		fmt.Println(i, e.Outputs[position], e.Outputs[texCoord])
	}
}

func main() {
	engine := sim.NewSerialEngine()

	device := config.NewDeviceBuilder().
		WithEngine(engine).
		WithFreq(1 * sim.GHz).
		WithLanes(4).
		Build("Device")

	passThrough(device.Driver)

	atexit.Exit(0)
}
