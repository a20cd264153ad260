package main

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// readTokens decodes a token file. Binary files hold little-endian 32-bit
// tokens; text files hold whitespace separated hex words, with or without
// a 0x prefix, and may carry # comments.
func readTokens(data []byte, hex bool) ([]uint32, error) {
	if hex || looksLikeText(data) {
		return parseHex(string(data))
	}

	if len(data)%4 != 0 {
		return nil, fmt.Errorf("binary token file is %d bytes, not a multiple of 4", len(data))
	}
	toks := make([]uint32, len(data)/4)
	for i := range toks {
		toks[i] = binary.LittleEndian.Uint32(data[4*i:])
	}
	return toks, nil
}

func looksLikeText(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	return bytes.IndexFunc(data, func(r rune) bool {
		return !unicode.IsSpace(r) && !unicode.IsPrint(r)
	}) < 0
}

func parseHex(s string) ([]uint32, error) {
	var toks []uint32
	for n, line := range strings.Split(s, "\n") {
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		for _, w := range strings.Fields(line) {
			w = strings.TrimPrefix(strings.TrimPrefix(w, "0x"), "0X")
			v, err := strconv.ParseUint(w, 16, 32)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", n+1, err)
			}
			toks = append(toks, uint32(v))
		}
	}
	return toks, nil
}
