package main

import (
	"fmt"
	"math/rand"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/tebeka/atexit"

	"github.com/attila-gpu/attila-sim-sub005/api"
	"github.com/attila-gpu/attila-sim-sub005/config"
	"github.com/attila-gpu/attila-sim-sub005/srcisa"
)

var ps20 = srcisa.Version{Type: srcisa.PixelShader, Major: 2, Minor: 0}

// max(v0, 0) per component
var reluShader = srcisa.NewAssembler(ps20).
	Def(srcisa.Dst(srcisa.RegConst, 0), 0, 0, 0, 0).
	Op(srcisa.OpMax, srcisa.Dst(srcisa.RegTemp, 0), srcisa.Src(srcisa.RegInput, 0), srcisa.Src(srcisa.RegConst, 0)).
	Op(srcisa.OpMov, srcisa.Dst(srcisa.RegColorOut, 0), srcisa.Src(srcisa.RegTemp, 0)).
	End()

func relu(driver api.Driver) {
	length := 16
	color := api.Semantic{Usage: srcisa.UsageColor}

	src := make([][4]float32, length)
	for i := range src {
		for c := range src[i] {
			src[i][c] = -10 + rand.Float32()*20
		}
	}

	b := &api.Batch{
		Tokens: reluShader,
		Inputs: []api.Attribute{{Semantic: color, Values: src}},
	}
	if err := driver.Submit(b); err != nil {
		panic(err)
	}

	driver.Run()

	for i, e := range b.Results {
		fmt.Println(src[i], e.Outputs[color])
	}
}

func main() {
	engine := sim.NewSerialEngine()

	device := config.NewDeviceBuilder().
		WithEngine(engine).
		WithFreq(1 * sim.GHz).
		WithLanes(8).
		Build("Device")

	relu(device.Driver)

	atexit.Exit(0)
}
