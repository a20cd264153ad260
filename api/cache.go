package api

import (
	"encoding/binary"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/attila-gpu/attila-sim-sub005/isa"
	"github.com/attila-gpu/attila-sim-sub005/translator"
)

// programCache keeps one translation per token stream and option set. The
// translator is not reentrant, so every translation holds the lock.
type programCache struct {
	lock       sync.Mutex
	translator *translator.Translator
	programs   map[uint64]*isa.Program

	hits, misses int
}

func newProgramCache(t *translator.Translator) *programCache {
	return &programCache{
		translator: t,
		programs:   make(map[uint64]*isa.Program),
	}
}

func cacheKey(tokens []uint32, opts translator.Options) uint64 {
	h := xxhash.New()

	buf := make([]byte, 0, 4*len(tokens)+2)
	for _, t := range tokens {
		buf = binary.LittleEndian.AppendUint32(buf, t)
	}
	buf = append(buf, byte(opts.AlphaFunc))
	if opts.Fog {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}

	_, _ = h.Write(buf)
	return h.Sum64()
}

func (c *programCache) get(tokens []uint32, opts translator.Options) (*isa.Program, error) {
	key := cacheKey(tokens, opts)

	c.lock.Lock()
	defer c.lock.Unlock()

	if p, ok := c.programs[key]; ok {
		c.hits++
		return p, nil
	}

	p, err := c.translator.Translate(tokens, opts)
	if err != nil {
		return nil, err
	}
	c.misses++
	c.programs[key] = p

	return p, nil
}

func (c *programCache) stats() (hits, misses int) {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.hits, c.misses
}
