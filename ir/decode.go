package ir

import (
	"errors"
	"fmt"
	"math"

	"github.com/attila-gpu/attila-sim-sub005/srcisa"
)

// Decode errors.
var (
	ErrTruncated     = errors.New("token stream ends before the instruction is complete")
	ErrUnknownOpcode = errors.New("unknown opcode")
	ErrBadVersion    = errors.New("bad version token")
	ErrBadParameter  = errors.New("parameter token expected")
)

type reader struct {
	data []uint32
	pos  int
}

func (r *reader) offset() int { return r.pos * 4 }

func (r *reader) next() (srcisa.Token, error) {
	if r.pos >= len(r.data) {
		return 0, ErrTruncated
	}
	t := srcisa.Token(r.data[r.pos])
	r.pos++
	return t, nil
}

func (r *reader) param() (srcisa.Token, error) {
	t, err := r.next()
	if err != nil {
		return 0, err
	}
	if !t.IsParam() {
		return 0, fmt.Errorf("%w at token %d: %#08x", ErrBadParameter, r.pos-1, uint32(t))
	}
	return t, nil
}

type decoder struct {
	r       reader
	version srcisa.Version
}

// Decode builds the tree of a shader token stream. It returns the program and
// the number of tokens consumed up to and including the end token.
func Decode(tokens []uint32) (*Program, int, error) {
	d := &decoder{r: reader{data: tokens}}
	p := &Program{}

	off := d.r.offset()
	vt, err := d.r.next()
	if err != nil {
		return nil, 0, fmt.Errorf("version: %w", err)
	}
	v, ok := srcisa.ParseVersion(vt)
	if !ok {
		return nil, 0, fmt.Errorf("%w: %#08x", ErrBadVersion, uint32(vt))
	}
	d.version = v
	p.Version = &Version{base: base{off}, Token: vt, Version: v}

	for {
		off := d.r.offset()
		t, err := d.r.next()
		if err != nil {
			return nil, 0, fmt.Errorf("instruction %d: %w", len(p.Nodes), err)
		}

		if t == srcisa.EndToken {
			p.End = &End{base: base{off}, Token: t}
			return p, d.r.pos, nil
		}

		n, err := d.decodeOne(t, off)
		if err != nil {
			return nil, 0, fmt.Errorf("instruction %d (%s) at byte %d: %w",
				len(p.Nodes), t.Opcode(), off, err)
		}
		p.Nodes = append(p.Nodes, n)
	}
}

func (d *decoder) decodeOne(t srcisa.Token, off int) (Node, error) {
	op := t.Opcode()

	switch op {
	case srcisa.OpComment:
		return d.comment(t, off)
	case srcisa.OpDcl:
		return d.declaration(t, off)
	case srcisa.OpDef, srcisa.OpDefI, srcisa.OpDefB:
		return d.definition(t, off)
	}

	arity, ok := srcisa.ArityFor(op, d.version)
	if !ok {
		return nil, fmt.Errorf("%w %d", ErrUnknownOpcode, int(op))
	}

	inst := &Instruction{base: base{off}, Token: t, Op: op}
	var err error
	if arity.Dst > 0 {
		if inst.Dst, err = d.dest(); err != nil {
			return nil, err
		}
	}
	if t.Predicated() {
		if inst.Pred, err = d.source(); err != nil {
			return nil, err
		}
	}
	for i := 0; i < arity.Src; i++ {
		s, err := d.source()
		if err != nil {
			return nil, err
		}
		inst.Srcs = append(inst.Srcs, s)
	}

	return inst, nil
}

func (d *decoder) comment(t srcisa.Token, off int) (Node, error) {
	c := &Comment{base: base{off}, Token: t}
	for i := 0; i < t.CommentSize(); i++ {
		doff := d.r.offset()
		dt, err := d.r.next()
		if err != nil {
			return nil, err
		}
		c.Data = append(c.Data, &CommentData{base: base{doff}, Token: dt})
	}
	return c, nil
}

func (d *decoder) declaration(t srcisa.Token, off int) (Node, error) {
	doff := d.r.offset()
	decl, err := d.r.param()
	if err != nil {
		return nil, err
	}

	dst, err := d.dest()
	if err != nil {
		return nil, err
	}

	n := &Declaration{base: base{off}, Token: t, Dst: dst}
	if dst.Token.RegType() == srcisa.RegSampler {
		n.Sampler = &SamplerInfo{base: base{doff}, Token: decl}
	} else {
		n.Semantic = &Semantic{base: base{doff}, Token: decl}
	}
	return n, nil
}

func (d *decoder) definition(t srcisa.Token, off int) (Node, error) {
	count, kind, _ := srcisa.DefinitionLiterals(t.Opcode())

	dst, err := d.dest()
	if err != nil {
		return nil, err
	}

	n := &Definition{base: base{off}, Token: t, Op: t.Opcode(), Dst: dst}
	for i := 0; i < count; i++ {
		loff := d.r.offset()
		lt, err := d.r.next()
		if err != nil {
			return nil, err
		}
		switch kind {
		case srcisa.LiteralFloat:
			n.Literals = append(n.Literals,
				&FloatLiteral{base: base{loff}, Token: lt, Value: math.Float32frombits(uint32(lt))})
		case srcisa.LiteralInt:
			n.Literals = append(n.Literals,
				&IntLiteral{base: base{loff}, Token: lt, Value: int32(lt)})
		case srcisa.LiteralBool:
			n.Literals = append(n.Literals,
				&BoolLiteral{base: base{loff}, Token: lt, Value: lt != 0})
		}
	}
	return n, nil
}

func (d *decoder) dest() (*DestParam, error) {
	off := d.r.offset()
	t, err := d.r.param()
	if err != nil {
		return nil, err
	}
	p := &DestParam{base: base{off}, Token: t}
	if t.Relative() && d.version.AtLeast(3, 0) {
		if p.Rel, err = d.relative(); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (d *decoder) source() (*SourceParam, error) {
	off := d.r.offset()
	t, err := d.r.param()
	if err != nil {
		return nil, err
	}
	p := &SourceParam{base: base{off}, Token: t}
	if t.Relative() && d.version.AtLeast(2, 0) {
		if p.Rel, err = d.relative(); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (d *decoder) relative() (*RelativeAddressing, error) {
	off := d.r.offset()
	t, err := d.r.param()
	if err != nil {
		return nil, err
	}
	return &RelativeAddressing{base: base{off}, Token: t}, nil
}
