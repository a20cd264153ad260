package core

import (
	"fmt"
	"math"

	"github.com/attila-gpu/attila-sim-sub005/isa"
	"github.com/attila-gpu/attila-sim-sub005/regalloc"
)

type vec = [4]float32

// Sampler returns the texel a texture instruction reads.
type Sampler interface {
	Sample(unit int, op isa.Opcode, coord [4]float32) [4]float32
}

// CoordSampler returns the texture coordinate as the texel.
type CoordSampler struct{}

// Sample implements Sampler.
func (CoordSampler) Sample(_ int, _ isa.Opcode, coord [4]float32) [4]float32 {
	return coord
}

const numIORegs = max(regalloc.NumVertexInputs, regalloc.NumInterpolated)

type laneState struct {
	Temps   [regalloc.NumTemps]vec
	Inputs  [numIORegs]vec
	Outputs [numIORegs]vec
	Preds   [regalloc.NumPredicates]bool
	Addr    [4]int32
	Killed  bool
}

type coreState struct {
	Code *isa.Program
	PC   int
	Done bool

	Constants []vec
	Lanes     []laneState

	Retired uint64
	Taken   uint64
}

type aluFunc func(a, b, c vec) vec

type instEmulator struct {
	alu     map[isa.Opcode]aluFunc
	sampler Sampler
}

func newInstEmulator(sampler Sampler) instEmulator {
	return instEmulator{
		sampler: sampler,
		alu: map[isa.Opcode]aluFunc{
			isa.ADD: func(a, b, _ vec) vec { return zip(a, b, func(x, y float32) float32 { return x + y }) },
			isa.MUL: func(a, b, _ vec) vec { return zip(a, b, func(x, y float32) float32 { return x * y }) },
			isa.MAD: func(a, b, c vec) vec {
				return vec{a[0]*b[0] + c[0], a[1]*b[1] + c[1], a[2]*b[2] + c[2], a[3]*b[3] + c[3]}
			},
			isa.MOV: func(a, _, _ vec) vec { return a },
			isa.MIN: func(a, b, _ vec) vec { return zip(a, b, func(x, y float32) float32 { return min(x, y) }) },
			isa.MAX: func(a, b, _ vec) vec { return zip(a, b, func(x, y float32) float32 { return max(x, y) }) },
			isa.SLT: func(a, b, _ vec) vec { return zip(a, b, func(x, y float32) float32 { return boolf(x < y) }) },
			isa.SGE: func(a, b, _ vec) vec { return zip(a, b, func(x, y float32) float32 { return boolf(x >= y) }) },
			isa.DP3: func(a, b, _ vec) vec { return splat(a[0]*b[0] + a[1]*b[1] + a[2]*b[2]) },
			isa.DP4: func(a, b, _ vec) vec { return splat(a[0]*b[0] + a[1]*b[1] + a[2]*b[2] + a[3]*b[3]) },
			isa.DPH: func(a, b, _ vec) vec { return splat(a[0]*b[0] + a[1]*b[1] + a[2]*b[2] + b[3]) },
			isa.DST: func(a, b, _ vec) vec { return vec{1, a[1] * b[1], a[2], b[3]} },
			isa.CMP: func(a, b, c vec) vec {
				var r vec
				for i := range r {
					if a[i] < 0 {
						r[i] = b[i]
					} else {
						r[i] = c[i]
					}
				}
				return r
			},
			isa.RCP: func(a, _, _ vec) vec { return splat(1 / a[0]) },
			isa.RSQ: func(a, _, _ vec) vec { return splat(f32(1 / math.Sqrt(math.Abs(float64(a[0]))))) },
			isa.EX2: func(a, _, _ vec) vec { return splat(f32(math.Exp2(float64(a[0])))) },
			isa.LG2: func(a, _, _ vec) vec { return splat(f32(math.Log2(math.Abs(float64(a[0]))))) },
			isa.EXP: func(a, _, _ vec) vec {
				fl := math.Floor(float64(a[0]))
				return vec{f32(math.Exp2(fl)), a[0] - f32(fl), f32(math.Exp2(float64(a[0]))), 1}
			},
			isa.LOG: func(a, _, _ vec) vec {
				x := math.Abs(float64(a[0]))
				fl := math.Floor(math.Log2(x))
				return vec{f32(fl), f32(x / math.Exp2(fl)), f32(math.Log2(x)), 1}
			},
			isa.FRC: func(a, _, _ vec) vec { return each(a, func(x float32) float32 { return x - f32(math.Floor(float64(x))) }) },
			isa.FLR: func(a, _, _ vec) vec { return each(a, func(x float32) float32 { return f32(math.Floor(float64(x))) }) },
			isa.SIN: func(a, _, _ vec) vec { return splat(f32(math.Sin(float64(a[0])))) },
			isa.COS: func(a, _, _ vec) vec { return splat(f32(math.Cos(float64(a[0])))) },
			isa.LIT: lit,
		},
	}
}

func lit(a, _, _ vec) vec {
	r := vec{1, 0, 0, 1}
	if a[0] > 0 {
		r[1] = a[0]
		if a[1] > 0 {
			p := math.Max(-128, math.Min(128, float64(a[3])))
			r[2] = f32(math.Pow(float64(a[1]), p))
		}
	}
	return r
}

func f32(x float64) float32 { return float32(x) }

func boolf(b bool) float32 {
	if b {
		return 1
	}
	return 0
}

func splat(x float32) vec { return vec{x, x, x, x} }

func each(a vec, f func(float32) float32) vec {
	return vec{f(a[0]), f(a[1]), f(a[2]), f(a[3])}
}

func zip(a, b vec, f func(x, y float32) float32) vec {
	return vec{f(a[0], b[0]), f(a[1], b[1]), f(a[2], b[2]), f(a[3], b[3])}
}

// RunInst executes the instruction at the program counter on every lane and
// moves the program counter.
func (i instEmulator) RunInst(state *coreState) {
	inst := state.Code.Instructions[state.PC]
	next := state.PC + 1

	switch {
	case inst.Op == isa.NOP:
	case inst.Op == isa.END:
		state.Done = true
	case inst.Op == isa.JMP:
		if i.branchTaken(inst, state) {
			next = state.PC + inst.JumpOffset
			state.Taken++
		}
	case inst.Op == isa.KIL:
		i.forActive(inst, state, func(l int) {
			a := state.read(l, inst, inst.Src[0])
			if a[0] < 0 || a[1] < 0 || a[2] < 0 || a[3] < 0 {
				state.Lanes[l].Killed = true
			}
		})
	case inst.Op == isa.KILP:
		i.forActive(inst, state, func(l int) {
			if state.readPred(l, inst.Src[0]) {
				state.Lanes[l].Killed = true
			}
		})
	case inst.Op == isa.SETPEQ, inst.Op == isa.SETPGT, inst.Op == isa.SETPLT:
		i.forActive(inst, state, func(l int) {
			a := state.read(l, inst, inst.Src[0])[0]
			b := state.read(l, inst, inst.Src[1])[0]
			state.Lanes[l].Preds[inst.Res.Reg.Num] = compare(inst.Op, a, b)
		})
	case inst.Op == isa.ANDP:
		i.forActive(inst, state, func(l int) {
			state.Lanes[l].Preds[inst.Res.Reg.Num] =
				state.readPred(l, inst.Src[0]) && state.readPred(l, inst.Src[1])
		})
	case inst.Op == isa.ARL:
		i.forActive(inst, state, func(l int) {
			a := state.read(l, inst, inst.Src[0])
			for c := 0; c < 4; c++ {
				if inst.Res.Mask.Has(c) {
					state.Lanes[l].Addr[c] = int32(math.Floor(float64(a[c])))
				}
			}
		})
	case inst.Op == isa.DDX, inst.Op == isa.DDY:
		i.runDerivative(inst, state)
	case inst.Op.IsTexture():
		unit := inst.Src[1].Reg.Num
		i.forActive(inst, state, func(l int) {
			coord := state.read(l, inst, inst.Src[0])
			state.write(l, inst.Res, i.sampler.Sample(unit, inst.Op, coord))
		})
	default:
		f, ok := i.alu[inst.Op]
		if !ok {
			panic(fmt.Sprintf("unknown instruction %s at %d", inst.Op, state.PC))
		}
		i.forActive(inst, state, func(l int) {
			var src [3]vec
			for s, o := range inst.Sources() {
				src[s] = state.read(l, inst, o)
			}
			state.write(l, inst.Res, f(src[0], src[1], src[2]))
		})
	}

	if inst.End && next == state.PC+1 {
		state.Done = true
	}
	state.PC = next
	if state.PC < 0 || state.PC >= len(state.Code.Instructions) {
		state.Done = true
	}
	state.Retired++
}

func compare(op isa.Opcode, a, b float32) bool {
	switch op {
	case isa.SETPEQ:
		return a == b
	case isa.SETPGT:
		return a > b
	default:
		return a < b
	}
}

func (i instEmulator) forActive(inst isa.Instruction, state *coreState, f func(lane int)) {
	for l := range state.Lanes {
		if state.active(l, inst.Pred) {
			f(l)
		}
	}
}

// branchTaken evaluates the jump predicate over the lanes still running.
func (i instEmulator) branchTaken(inst isa.Instruction, state *coreState) bool {
	if inst.JumpOffset == isa.UnpatchedJump {
		panic(fmt.Sprintf("unpatched jump at %d", state.PC))
	}
	if !inst.Pred.Enabled {
		return true
	}

	anyTrue, allTrue := false, true
	for l := range state.Lanes {
		if state.Lanes[l].Killed {
			continue
		}
		v := state.Lanes[l].Preds[inst.Pred.Reg] != inst.Pred.Negate
		anyTrue = anyTrue || v
		allTrue = allTrue && v
	}

	if inst.Branch == isa.BranchAny {
		return anyTrue
	}
	return allTrue
}

// runDerivative differences each 2x2 quad of lanes: lanes 0 and 1 form the
// top row, lanes 2 and 3 the bottom row.
func (i instEmulator) runDerivative(inst isa.Instruction, state *coreState) {
	vals := make([]vec, len(state.Lanes))
	for l := range state.Lanes {
		vals[l] = state.read(l, inst, inst.Src[0])
	}

	i.forActive(inst, state, func(l int) {
		var a, b int
		if inst.Op == isa.DDX {
			a, b = l&^1, l|1
		} else {
			a, b = l&^2, l|2
		}
		if b >= len(vals) {
			state.write(l, inst.Res, vec{})
			return
		}
		state.write(l, inst.Res, zip(vals[b], vals[a], func(x, y float32) float32 { return x - y }))
	})
}

func (s *coreState) active(l int, p isa.Predication) bool {
	lane := &s.Lanes[l]
	if lane.Killed {
		return false
	}
	return !p.Enabled || lane.Preds[p.Reg] != p.Negate
}

func (s *coreState) readPred(l int, o isa.Operand) bool {
	if o.Reg.Bank != isa.BankPredicate {
		panic(fmt.Sprintf("%s is not a predicate register", o.Reg))
	}
	return s.Lanes[l].Preds[o.Reg.Num] != o.Negate
}

func (s *coreState) register(l int, inst isa.Instruction, o isa.Operand) vec {
	lane := &s.Lanes[l]
	switch o.Reg.Bank {
	case isa.BankInput:
		return lane.Inputs[o.Reg.Num]
	case isa.BankOutput:
		return lane.Outputs[o.Reg.Num]
	case isa.BankTemp:
		return lane.Temps[o.Reg.Num]
	case isa.BankConstant:
		n := o.Reg.Num
		if o.Relative && inst.Rel.Enabled {
			n = inst.Rel.Offset + int(lane.Addr[inst.Rel.Component&3])
		}
		if n < 0 || n >= len(s.Constants) {
			return vec{}
		}
		return s.Constants[n]
	default:
		panic(fmt.Sprintf("cannot read %s", o.Reg))
	}
}

func (s *coreState) read(l int, inst isa.Instruction, o isa.Operand) vec {
	r := s.register(l, inst, o)

	var v vec
	for i := range v {
		x := r[o.Swizzle.Component(i)]
		if o.Absolute && x < 0 {
			x = -x
		}
		if o.Negate {
			x = -x
		}
		v[i] = x
	}
	return v
}

func (s *coreState) write(l int, res isa.Result, v vec) {
	lane := &s.Lanes[l]

	var dst *vec
	switch res.Reg.Bank {
	case isa.BankTemp:
		dst = &lane.Temps[res.Reg.Num]
	case isa.BankOutput:
		dst = &lane.Outputs[res.Reg.Num]
	default:
		panic(fmt.Sprintf("cannot write %s", res.Reg))
	}

	for c := 0; c < 4; c++ {
		if !res.Mask.Has(c) {
			continue
		}
		x := v[c]
		if res.Saturate {
			x = max(0, min(1, x))
		}
		dst[c] = x
	}
}
