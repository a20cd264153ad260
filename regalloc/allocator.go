package regalloc

import (
	"fmt"
	"sort"

	"github.com/attila-gpu/attila-sim-sub005/isa"
	"github.com/attila-gpu/attila-sim-sub005/srcisa"
)

// SourceReg identifies a register of the source program.
type SourceReg struct {
	Type srcisa.RegType
	Num  int
}

func (r SourceReg) String() string { return fmt.Sprintf("%s%d", r.Type, r.Num) }

type binding struct {
	reg   isa.Reg
	owned bool
}

// UsageBinding is a usage together with the register that serves it.
type UsageBinding struct {
	Usage srcisa.Usage
	Index int
	Reg   isa.Reg
}

// Allocator owns the pools of one program and the registration map. It is
// reset by Begin and torn down by End.
type Allocator struct {
	layout   Layout
	pools    map[isa.Bank]*Pool
	mappings map[SourceReg]binding
	usages   map[UsageKey]binding
	held     []isa.Reg
}

// NewAllocator creates an allocator with no pools; call Begin before use.
func NewAllocator() *Allocator {
	return &Allocator{}
}

// Begin rebuilds every pool from the layout and takes its reserved ids.
func (a *Allocator) Begin(l Layout) {
	a.layout = l
	a.pools = make(map[isa.Bank]*Pool)
	a.mappings = make(map[SourceReg]binding)
	a.usages = make(map[UsageKey]binding)
	a.held = nil

	for _, b := range isa.Banks {
		bl, ok := l.Banks[b]
		if !ok {
			continue
		}
		a.pools[b] = NewPool(b, bl.First, bl.Size, l.fixedIDs(b)...)
	}

	for _, r := range l.Reserved() {
		a.pool(r.Bank).ReserveID(r.Num)
		a.held = append(a.held, r)
	}
}

// End releases every mapping, usage and held register.
func (a *Allocator) End() {
	for _, src := range a.sortedMappings() {
		a.Unmap(src)
	}
	for _, k := range a.sortedUsages() {
		b := a.usages[k]
		delete(a.usages, k)
		if b.owned {
			a.pool(b.reg.Bank).Release(b.reg.Num)
		}
	}
	for _, r := range a.held {
		a.pool(r.Bank).Release(r.Num)
	}
	a.held = nil
}

// Layout returns the layout given to Begin.
func (a *Allocator) Layout() Layout { return a.layout }

// Pool returns the pool of bank b.
func (a *Allocator) Pool(b isa.Bank) *Pool { return a.pool(b) }

func (a *Allocator) pool(b isa.Bank) *Pool {
	p, ok := a.pools[b]
	if !ok {
		fault(b, "no pool for bank")
	}
	return p
}

// Reserve takes the lowest free register of bank b.
func (a *Allocator) Reserve(b isa.Bank) isa.Reg {
	return isa.Reg{Bank: b, Num: a.pool(b).Reserve()}
}

// ReserveID takes a specific register.
func (a *Allocator) ReserveID(r isa.Reg) {
	a.pool(r.Bank).ReserveID(r.Num)
}

// Release returns a register taken by Reserve or ReserveID.
func (a *Allocator) Release(r isa.Reg) {
	a.pool(r.Bank).Release(r.Num)
}

// Map records that src lives in dst. A pooled dst must already be reserved;
// the mapping owns it unless a usage record does.
func (a *Allocator) Map(src SourceReg, dst isa.Reg) {
	if prev, ok := a.mappings[src]; ok {
		fault(dst.Bank, "%s is already mapped to %s", src, prev.reg)
	}

	owned := false
	if p := a.pool(dst.Bank); p.Contains(dst.Num) {
		if !p.IsReserved(dst.Num) {
			fault(dst.Bank, "%s mapped to unreserved %s", src, dst)
		}
		owned = !a.usageOwns(dst)
	}
	a.mappings[src] = binding{reg: dst, owned: owned}
}

func (a *Allocator) usageOwns(r isa.Reg) bool {
	for _, b := range a.usages {
		if b.reg == r && b.owned {
			return true
		}
	}
	return false
}

// Unmap drops the mapping of src and releases its register if the mapping
// owned it.
func (a *Allocator) Unmap(src SourceReg) isa.Reg {
	b, ok := a.mappings[src]
	if !ok {
		fault(isa.BankNone, "%s is not mapped", src)
	}
	delete(a.mappings, src)
	if b.owned {
		a.pool(b.reg.Bank).Release(b.reg.Num)
	}
	return b.reg
}

// Lookup returns the register src is mapped to.
func (a *Allocator) Lookup(src SourceReg) (isa.Reg, bool) {
	b, ok := a.mappings[src]
	return b.reg, ok
}

// ReserveUsage reserves the register serving a usage of bank b: the fixed id
// of the layout when there is one, the lowest generic id otherwise.
func (a *Allocator) ReserveUsage(b isa.Bank, u srcisa.Usage, index int) isa.Reg {
	k := UsageKey{Bank: b, Usage: u, Index: index}
	if id, ok := a.layout.Fixed[k]; ok {
		return a.ReserveUsageAt(b, u, index, id)
	}
	return a.ReserveUsageAt(b, u, index, -1)
}

// ReserveUsageAt is ReserveUsage with an explicit id; -1 picks a generic one.
func (a *Allocator) ReserveUsageAt(b isa.Bank, u srcisa.Usage, index, id int) isa.Reg {
	k := UsageKey{Bank: b, Usage: u, Index: index}
	if prev, ok := a.usages[k]; ok {
		fault(b, "usage %s%d already served by %s", u, index, prev.reg)
	}

	p := a.pool(b)
	if id < 0 {
		id = p.Reserve()
	} else {
		p.ReserveID(id)
	}
	r := isa.Reg{Bank: b, Num: id}
	a.usages[k] = binding{reg: r, owned: true}
	return r
}

// UsageReg returns the register serving a usage.
func (a *Allocator) UsageReg(b isa.Bank, u srcisa.Usage, index int) (isa.Reg, bool) {
	bd, ok := a.usages[UsageKey{Bank: b, Usage: u, Index: index}]
	return bd.reg, ok
}

// Usages lists the usages of bank b ordered by register.
func (a *Allocator) Usages(b isa.Bank) []UsageBinding {
	var out []UsageBinding
	for k, bd := range a.usages {
		if k.Bank == b {
			out = append(out, UsageBinding{Usage: k.Usage, Index: k.Index, Reg: bd.reg})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Reg.Num < out[j].Reg.Num })
	return out
}

// Stats returns the counters of every pool.
func (a *Allocator) Stats() map[isa.Bank]PoolStats {
	s := make(map[isa.Bank]PoolStats, len(a.pools))
	for b, p := range a.pools {
		s[b] = p.Stats()
	}
	return s
}

func (a *Allocator) sortedMappings() []SourceReg {
	keys := make([]SourceReg, 0, len(a.mappings))
	for k := range a.mappings {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Type != keys[j].Type {
			return keys[i].Type < keys[j].Type
		}
		return keys[i].Num < keys[j].Num
	})
	return keys
}

func (a *Allocator) sortedUsages() []UsageKey {
	keys := make([]UsageKey, 0, len(a.usages))
	for k := range a.usages {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Bank != keys[j].Bank {
			return keys[i].Bank < keys[j].Bank
		}
		if keys[i].Usage != keys[j].Usage {
			return keys[i].Usage < keys[j].Usage
		}
		return keys[i].Index < keys[j].Index
	})
	return keys
}
