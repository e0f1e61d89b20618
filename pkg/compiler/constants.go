package compiler

import (
	"encoding/binary"
	"math"
)

// ----------------------------------------------------------------------------
// Constant pool emission

// Grounded in original_source/compiler.c's constant-pool writers: each kind
// pads to its own natural alignment before writing (spec §4.3's "the
// constant pool aligns every entry to its value's natural width so the VM
// can read it back with a single typed load"), then returns the offset the
// corresponding PUSH instruction's payload should carry.

func appendUint32LE(buf []byte, word uint32) []byte {
	tmp := make([]byte, 4)
	binary.LittleEndian.PutUint32(tmp, word)
	return append(buf, tmp...)
}

// emitConstant pads the constant pool to align, then appends a size-byte
// entry built by write, returning the offset (relative to the start of the
// constants region) where the entry begins.
func (c *Compiler) emitConstant(size, align uint32, write func(buf []byte)) uint32 {
	if align > 1 {
		for uint32(len(c.constants))%align != 0 {
			c.constants = append(c.constants, 0)
		}
	}
	offset := uint32(len(c.constants))
	entry := make([]byte, size)
	write(entry)
	c.constants = append(c.constants, entry...)
	return offset
}

func (c *Compiler) emitInteger(v int32) uint32 {
	return c.emitConstant(4, 4, func(b []byte) { binary.LittleEndian.PutUint32(b, uint32(v)) })
}

func (c *Compiler) emitFloat(v float64) uint32 {
	return c.emitConstant(8, 8, func(b []byte) { binary.LittleEndian.PutUint64(b, math.Float64bits(v)) })
}

func (c *Compiler) emitBool(v bool) uint32 {
	return c.emitConstant(1, 1, func(b []byte) {
		if v {
			b[0] = 1
		}
	})
}

// emitString lays out a string constant as a 4-byte little-endian length
// prefix followed by the raw bytes, aligned to 4 (spec §4.3; mirrors
// pkg/vm.readString's decode).
func (c *Compiler) emitString(s string) uint32 {
	total := 4 + uint32(len(s))
	return c.emitConstant(total, 4, func(b []byte) {
		binary.LittleEndian.PutUint32(b[0:4], uint32(len(s)))
		copy(b[4:], s)
	})
}
