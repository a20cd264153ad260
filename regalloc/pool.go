// Package regalloc hands out target registers bank by bank and keeps the
// mapping from source registers to the registers they were given.
package regalloc

import (
	"fmt"

	"github.com/attila-gpu/attila-sim-sub005/isa"
)

// Fault is the panic value of an allocator invariant violation.
type Fault struct {
	Bank isa.Bank
	Msg  string
}

func (f *Fault) Error() string {
	return fmt.Sprintf("regalloc: bank %s: %s", f.Bank, f.Msg)
}

func fault(b isa.Bank, format string, args ...any) {
	panic(&Fault{Bank: b, Msg: fmt.Sprintf(format, args...)})
}

// PoolStats counts the transitions of a pool.
type PoolStats struct {
	Reserves int
	Releases int
	InUse    int
	Free     int
}

// Pool is the set of registers of one bank. Ids run from First to
// First+Size-1. Fixed ids are only reachable through ReserveID.
type Pool struct {
	bank     isa.Bank
	first    int
	reserved []bool
	fixed    []bool

	reserves int
	releases int
}

// NewPool creates a pool with every id available.
func NewPool(bank isa.Bank, first, size int, fixed ...int) *Pool {
	p := &Pool{
		bank:     bank,
		first:    first,
		reserved: make([]bool, size),
		fixed:    make([]bool, size),
	}
	for _, id := range fixed {
		if !p.Contains(id) {
			fault(bank, "fixed id %d outside [%d, %d)", id, first, first+size)
		}
		p.fixed[id-first] = true
	}
	return p
}

// Bank returns the bank the pool serves.
func (p *Pool) Bank() isa.Bank { return p.bank }

// Contains reports whether id belongs to the pool.
func (p *Pool) Contains(id int) bool {
	return id >= p.first && id < p.first+len(p.reserved)
}

// IsFixed reports whether id is held back for a fixed usage.
func (p *Pool) IsFixed(id int) bool {
	return p.Contains(id) && p.fixed[id-p.first]
}

// IsReserved reports whether id is currently reserved.
func (p *Pool) IsReserved(id int) bool {
	return p.Contains(id) && p.reserved[id-p.first]
}

// Reserve takes the lowest available non-fixed id.
func (p *Pool) Reserve() int {
	for i, r := range p.reserved {
		if !r && !p.fixed[i] {
			p.reserved[i] = true
			p.reserves++
			return p.first + i
		}
	}
	fault(p.bank, "pool exhausted (%d registers)", len(p.reserved))
	return -1
}

// ReserveID takes a specific id, fixed or not.
func (p *Pool) ReserveID(id int) {
	if !p.Contains(id) {
		fault(p.bank, "id %d is not in the pool", id)
	}
	if p.reserved[id-p.first] {
		fault(p.bank, "id %d is already reserved", id)
	}
	p.reserved[id-p.first] = true
	p.reserves++
}

// Release returns id to the pool.
func (p *Pool) Release(id int) {
	if !p.IsReserved(id) {
		fault(p.bank, "release of id %d which is not reserved", id)
	}
	p.reserved[id-p.first] = false
	p.releases++
}

// Stats returns the transition counters.
func (p *Pool) Stats() PoolStats {
	s := PoolStats{Reserves: p.reserves, Releases: p.releases}
	for _, r := range p.reserved {
		if r {
			s.InUse++
		} else {
			s.Free++
		}
	}
	return s
}

// InUse lists the reserved ids in ascending order.
func (p *Pool) InUse() []int {
	var ids []int
	for i, r := range p.reserved {
		if r {
			ids = append(ids, p.first+i)
		}
	}
	return ids
}
