// Package ast implements the tagged AST node family and the growable byte
// arena that backs it (spec §3, §4.1).
//
// Per the design notes' redesign guidance for managed-memory targets, Refs
// never become raw pointers: they stay integer offsets for the node's whole
// lifetime and are dereferenced through the Arena, not through unsafe
// pointer arithmetic. Resolve (below) is therefore a plain tree walk rather
// than a pointer-fixup pass, but it keeps the same contract: idempotent,
// and required to run exactly once on the root after parsing completes.
package ast

import (
	"encoding/binary"
	"math"
)

// Ref is a byte offset into an Arena. NoRef marks an absent optional child
// (If.Else, For.Step).
type Ref uint32

const NoRef Ref = 0xFFFFFFFF

// Arena is the growable byte buffer (VSD: variable-size, dynamic) backing
// every AST node. Allocation returns an offset, never a pointer, so the
// buffer is free to grow (and reallocate) at any time without
// invalidating anything stored so far.
type Arena struct {
	data     []byte
	used     uint32
	resolved bool
}

// NewArena returns an Arena with a small initial capacity; it grows on
// demand the same way Allocate describes.
func NewArena() *Arena {
	return &Arena{data: make([]byte, 0, 256)}
}

// Allocate reserves n bytes at the end of the arena and returns their
// offset. Growth doubles capacity, or grows exactly enough to satisfy the
// request, whichever is larger — mirrors the teacher's utils.Stack growth
// policy, generalized from element count to byte count.
func (a *Arena) Allocate(n uint32) Ref {
	off := a.used
	needed := a.used + n
	if needed > uint32(cap(a.data)) {
		newCap := uint32(cap(a.data)) * 2
		if needed > newCap {
			newCap = needed
		}
		grown := make([]byte, len(a.data), newCap)
		copy(grown, a.data)
		a.data = grown
	}
	a.data = a.data[:needed]
	a.used = needed
	return Ref(off)
}

// Len reports how many bytes of the arena are currently in use.
func (a *Arena) Len() uint32 { return a.used }

// Bytes exposes the arena's backing slice up to its in-use length, for
// readers (print.go, the compiler) that need random access by offset.
func (a *Arena) Bytes() []byte { return a.data[:a.used] }

func (a *Arena) writeU8(off Ref, v uint8)    { a.data[off] = v }
func (a *Arena) readU8(off Ref) uint8        { return a.data[off] }
func (a *Arena) writeU32(off Ref, v uint32)  { binary.LittleEndian.PutUint32(a.data[off:], v) }
func (a *Arena) readU32(off Ref) uint32      { return binary.LittleEndian.Uint32(a.data[off:]) }
func (a *Arena) writeI32(off Ref, v int32)   { a.writeU32(off, uint32(v)) }
func (a *Arena) readI32(off Ref) int32       { return int32(a.readU32(off)) }
func (a *Arena) writeF64(off Ref, v float64) { binary.LittleEndian.PutUint64(a.data[off:], math.Float64bits(v)) }
func (a *Arena) readF64(off Ref) float64     { return math.Float64frombits(binary.LittleEndian.Uint64(a.data[off:])) }
func (a *Arena) writeRef(off Ref, v Ref)     { a.writeU32(off, uint32(v)) }
func (a *Arena) readRef(off Ref) Ref         { return Ref(a.readU32(off)) }
