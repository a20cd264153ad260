package translator

import "github.com/attila-gpu/attila-sim-sub005/regalloc"

// DefaultJumpThreshold is the shortest forward jump kept in the output.
const DefaultJumpThreshold = 4

// Builder can create new translators.
type Builder struct {
	jumpThreshold int
	disassemble   bool
}

// NewBuilder returns a builder with the default settings.
func NewBuilder() Builder {
	return Builder{jumpThreshold: DefaultJumpThreshold}
}

// WithJumpThreshold sets the distance under which forward jumps are removed.
func (b Builder) WithJumpThreshold(n int) Builder {
	if n < 1 {
		panic("jump threshold must be positive")
	}
	b.jumpThreshold = n
	return b
}

// WithDisassembly makes translated programs carry a source listing.
func (b Builder) WithDisassembly(on bool) Builder {
	b.disassemble = on
	return b
}

// Build creates a translator.
func (b Builder) Build() *Translator {
	return &Translator{
		jumpThreshold: b.jumpThreshold,
		disassemble:   b.disassemble,
		alloc:         regalloc.NewAllocator(),
	}
}
