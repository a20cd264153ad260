package isa

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/attila-gpu/attila-sim-sub005/srcisa"
)

var programMagic = [4]byte{'A', 'S', 'H', 'P'}

// ErrBadProgram is returned when a serialized program cannot be read.
var ErrBadProgram = errors.New("malformed program image")

type wireHeader struct {
	Magic        [4]byte
	Version      uint32
	Instructions uint32
	Constants    uint32
	Inputs       uint32
	Outputs      uint32
	Samplers     uint32
	AlphaFunc    uint8
	AlphaRef     int16
	AlphaAux     int16
	FogEnabled   bool
	FogColor     int16
	Untranslated uint32
	UntransFlow  bool
}

type wireOperand struct {
	Bank     uint8
	Num      uint16
	Swizzle  uint8
	Negate   bool
	Absolute bool
	Relative bool
}

type wireInstruction struct {
	Op         uint8
	End        bool
	Branch     uint8
	JumpOffset int32
	ResBank    uint8
	ResNum     uint16
	ResMask    uint8
	Saturate   bool
	PredOn     bool
	PredNeg    bool
	PredReg    uint8
	RelOn      bool
	RelReg     uint8
	RelComp    uint8
	RelOffset  int16
	Src        [3]wireOperand
}

type wireConstant struct {
	Target   uint16
	Kind     uint8
	Source   uint16
	HasValue bool
	Value    [4]uint32
}

type wireIO struct {
	Usage  uint8
	Index  uint8
	Target uint16
}

type wireSampler struct {
	Source uint8
	Unit   uint8
	Type   uint8
}

func toWireOperand(o Operand) wireOperand {
	return wireOperand{
		Bank:     uint8(o.Reg.Bank),
		Num:      uint16(o.Reg.Num),
		Swizzle:  uint8(o.Swizzle),
		Negate:   o.Negate,
		Absolute: o.Absolute,
		Relative: o.Relative,
	}
}

func (w wireOperand) operand() Operand {
	return Operand{
		Reg:      Reg{Bank: Bank(w.Bank), Num: int(w.Num)},
		Swizzle:  Swizzle(w.Swizzle),
		Negate:   w.Negate,
		Absolute: w.Absolute,
		Relative: w.Relative,
	}
}

func toWireInstruction(inst Instruction) wireInstruction {
	w := wireInstruction{
		Op:         uint8(inst.Op),
		End:        inst.End,
		Branch:     uint8(inst.Branch),
		JumpOffset: int32(inst.JumpOffset),
		ResBank:    uint8(inst.Res.Reg.Bank),
		ResNum:     uint16(inst.Res.Reg.Num),
		ResMask:    uint8(inst.Res.Mask),
		Saturate:   inst.Res.Saturate,
		PredOn:     inst.Pred.Enabled,
		PredNeg:    inst.Pred.Negate,
		PredReg:    uint8(inst.Pred.Reg),
		RelOn:      inst.Rel.Enabled,
		RelReg:     uint8(inst.Rel.Reg),
		RelComp:    uint8(inst.Rel.Component),
		RelOffset:  int16(inst.Rel.Offset),
	}
	for i, o := range inst.Src {
		w.Src[i] = toWireOperand(o)
	}
	return w
}

func (w wireInstruction) instruction() Instruction {
	inst := Instruction{
		Op:         Opcode(w.Op),
		End:        w.End,
		Branch:     BranchMode(w.Branch),
		JumpOffset: int(w.JumpOffset),
		Res: Result{
			Reg:      Reg{Bank: Bank(w.ResBank), Num: int(w.ResNum)},
			Mask:     Mask(w.ResMask),
			Saturate: w.Saturate,
		},
		Pred: Predication{Enabled: w.PredOn, Negate: w.PredNeg, Reg: int(w.PredReg)},
		Rel: RelAddr{
			Enabled:   w.RelOn,
			Reg:       int(w.RelReg),
			Component: int(w.RelComp),
			Offset:    int(w.RelOffset),
		},
	}
	for i, o := range w.Src {
		inst.Src[i] = o.operand()
	}
	return inst
}

// MarshalBinary encodes the program as a little-endian image. The source
// disassembly is not part of the image.
func (p *Program) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer

	h := wireHeader{
		Magic:        programMagic,
		Version:      uint32(srcisa.VersionToken(p.Version)),
		Instructions: uint32(len(p.Instructions)),
		Constants:    uint32(len(p.Constants)),
		Inputs:       uint32(len(p.Inputs)),
		Outputs:      uint32(len(p.Outputs)),
		Samplers:     uint32(len(p.Samplers)),
		AlphaFunc:    uint8(p.AlphaTest.Func),
		AlphaRef:     int16(p.AlphaTest.RefConst),
		AlphaAux:     int16(p.AlphaTest.AuxConst),
		FogEnabled:   p.Fog.Enabled,
		FogColor:     int16(p.Fog.ColorConst),
		Untranslated: uint32(p.Untranslated),
		UntransFlow:  p.UntranslatedControlFlow,
	}

	insts := make([]wireInstruction, len(p.Instructions))
	for i, inst := range p.Instructions {
		insts[i] = toWireInstruction(inst)
	}
	consts := make([]wireConstant, len(p.Constants))
	for i, c := range p.Constants {
		consts[i] = wireConstant{
			Target:   uint16(c.Target),
			Kind:     uint8(c.Kind),
			Source:   uint16(c.Source),
			HasValue: c.HasValue,
			Value:    c.Value,
		}
	}
	samplers := make([]wireSampler, len(p.Samplers))
	for i, s := range p.Samplers {
		samplers[i] = wireSampler{Source: uint8(s.Source), Unit: uint8(s.Unit), Type: uint8(s.Type)}
	}

	for _, v := range []any{h, insts, consts, ioToWire(p.Inputs), ioToWire(p.Outputs), samplers} {
		if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
			return nil, fmt.Errorf("encode program: %w", err)
		}
	}
	return buf.Bytes(), nil
}

func ioToWire(decls []IODecl) []wireIO {
	out := make([]wireIO, len(decls))
	for i, d := range decls {
		out[i] = wireIO{Usage: uint8(d.Usage), Index: uint8(d.Index), Target: uint16(d.Target)}
	}
	return out
}

func ioFromWire(ws []wireIO) []IODecl {
	if len(ws) == 0 {
		return nil
	}
	out := make([]IODecl, len(ws))
	for i, w := range ws {
		out[i] = IODecl{Usage: srcisa.Usage(w.Usage), Index: int(w.Index), Target: int(w.Target)}
	}
	return out
}

// UnmarshalBinary decodes an image written by MarshalBinary.
func (p *Program) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)

	var h wireHeader
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return fmt.Errorf("%w: header: %v", ErrBadProgram, err)
	}
	if h.Magic != programMagic {
		return fmt.Errorf("%w: bad magic %q", ErrBadProgram, h.Magic[:])
	}
	v, ok := srcisa.ParseVersion(srcisa.Token(h.Version))
	if !ok {
		return fmt.Errorf("%w: bad version %#08x", ErrBadProgram, h.Version)
	}

	if int(h.Instructions)*binary.Size(wireInstruction{}) > r.Len() {
		return fmt.Errorf("%w: %d instructions do not fit", ErrBadProgram, h.Instructions)
	}

	insts := make([]wireInstruction, h.Instructions)
	consts := make([]wireConstant, h.Constants)
	inputs := make([]wireIO, h.Inputs)
	outputs := make([]wireIO, h.Outputs)
	samplers := make([]wireSampler, h.Samplers)
	for _, v := range []any{insts, consts, inputs, outputs, samplers} {
		if err := binary.Read(r, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("%w: %v", ErrBadProgram, err)
		}
	}

	*p = Program{
		Version:                 v,
		AlphaTest:               AlphaTest{Func: AlphaFunc(h.AlphaFunc), RefConst: int(h.AlphaRef), AuxConst: int(h.AlphaAux)},
		Fog:                     Fog{Enabled: h.FogEnabled, ColorConst: int(h.FogColor)},
		Untranslated:            int(h.Untranslated),
		UntranslatedControlFlow: h.UntransFlow,
		Inputs:                  ioFromWire(inputs),
		Outputs:                 ioFromWire(outputs),
	}
	for _, w := range insts {
		p.Instructions = append(p.Instructions, w.instruction())
	}
	for _, w := range consts {
		p.Constants = append(p.Constants, ConstantDecl{
			Target:   int(w.Target),
			Kind:     ConstantKind(w.Kind),
			Source:   int(w.Source),
			HasValue: w.HasValue,
			Value:    w.Value,
		})
	}
	for _, w := range samplers {
		p.Samplers = append(p.Samplers, SamplerDecl{Source: int(w.Source), Unit: int(w.Unit), Type: srcisa.TextureType(w.Type)})
	}
	return nil
}
