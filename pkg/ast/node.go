package ast

import "github.com/lgleznah/pinCky/pkg/token"

// Kind is the 7-bit node-kind field of a node's tag byte (spec §3's node
// table). Adapted from the teacher's Expression/Statement marker-interface
// split in what used to be pkg/jack/jack.go: there the split was Go's type
// system (separate interfaces implemented by separate structs); here,
// since every node lives in one arena, the split is instead the high bit
// of a single tag byte.
type Kind uint8

const (
	Integer Kind = iota
	Float
	Bool
	String
	Identifier
	BinOp
	UnOp
	Grouping
	StatementList
	Print
	Assignment
	If
	While
	For
)

const stmtBit = 0x80

func tag(k Kind) uint8 {
	if isStatement(k) {
		return stmtBit | uint8(k)
	}
	return uint8(k)
}

func isStatement(k Kind) bool {
	switch k {
	case StatementList, Print, Assignment, If, While, For:
		return true
	default:
		return false
	}
}

// KindOf decodes the node kind from a node header at off.
func (a *Arena) KindOf(off Ref) Kind { return Kind(a.readU8(off) &^ stmtBit) }

// IsStatement reports whether the node at off is a Statement, vs. an
// Expression, per the tag byte's high bit.
func (a *Arena) IsStatement(off Ref) bool { return a.readU8(off)&stmtBit != 0 }

// LineOf decodes the source line recorded in a node header at off.
func (a *Arena) LineOf(off Ref) int32 { return a.readI32(off + 1) }

const headerSize = 5 // 1 tag byte + 4-byte line

func (a *Arena) writeHeader(off Ref, k Kind, line int32) {
	a.writeU8(off, tag(k))
	a.writeI32(off+1, line)
}

// --- Integer ----------------------------------------------------------

func (a *Arena) InitInteger(value int32, line int32) Ref {
	off := a.Allocate(headerSize + 4)
	a.writeHeader(off, Integer, line)
	a.writeI32(off+headerSize, value)
	return off
}

func (a *Arena) IntegerValue(off Ref) int32 { return a.readI32(off + headerSize) }

// --- Float --------------------------------------------------------------

func (a *Arena) InitFloat(value float64, line int32) Ref {
	off := a.Allocate(headerSize + 8)
	a.writeHeader(off, Float, line)
	a.writeF64(off+headerSize, value)
	return off
}

func (a *Arena) FloatValue(off Ref) float64 { return a.readF64(off + headerSize) }

// --- Bool -----------------------------------------------------------------

func (a *Arena) InitBool(value bool, line int32) Ref {
	off := a.Allocate(headerSize + 1)
	a.writeHeader(off, Bool, line)
	if value {
		a.writeU8(off+headerSize, 1)
	}
	return off
}

func (a *Arena) BoolValue(off Ref) bool { return a.readU8(off+headerSize) != 0 }

// --- String / Identifier ---------------------------------------------------
// Both kinds carry a {pointer, length} view borrowed from the source
// buffer (spec §3); here that's a (start, length) pair of byte offsets
// into the source text handed to the parser, since Go string slicing is
// already zero-copy and needs no further indirection once materialized.

func (a *Arena) initSlice(k Kind, start, length uint32, line int32) Ref {
	off := a.Allocate(headerSize + 8)
	a.writeHeader(off, k, line)
	a.writeU32(off+headerSize, start)
	a.writeU32(off+headerSize+4, length)
	return off
}

func (a *Arena) InitString(start, length uint32, line int32) Ref {
	return a.initSlice(String, start, length, line)
}

func (a *Arena) InitIdentifier(start, length uint32, line int32) Ref {
	return a.initSlice(Identifier, start, length, line)
}

// SliceBounds returns the (start, length) pair recorded for a String or
// Identifier node; callers resolve it against the original source buffer.
func (a *Arena) SliceBounds(off Ref) (start, length uint32) {
	return a.readU32(off + headerSize), a.readU32(off + headerSize + 4)
}

func (a *Arena) Text(off Ref, source []byte) string {
	start, length := a.SliceBounds(off)
	return string(source[start : start+length])
}

// --- BinOp / UnOp -----------------------------------------------------------

func (a *Arena) InitBinOp(op token.Kind, left, right Ref, line int32) Ref {
	off := a.Allocate(headerSize + 9)
	a.writeHeader(off, BinOp, line)
	a.writeU8(off+headerSize, uint8(op))
	a.writeRef(off+headerSize+1, left)
	a.writeRef(off+headerSize+5, right)
	return off
}

func (a *Arena) BinOpParts(off Ref) (op token.Kind, left, right Ref) {
	return token.Kind(a.readU8(off + headerSize)), a.readRef(off + headerSize + 1), a.readRef(off + headerSize + 5)
}

func (a *Arena) InitUnOp(op token.Kind, operand Ref, line int32) Ref {
	off := a.Allocate(headerSize + 5)
	a.writeHeader(off, UnOp, line)
	a.writeU8(off+headerSize, uint8(op))
	a.writeRef(off+headerSize+1, operand)
	return off
}

func (a *Arena) UnOpParts(off Ref) (op token.Kind, operand Ref) {
	return token.Kind(a.readU8(off + headerSize)), a.readRef(off + headerSize + 1)
}

// --- Grouping ---------------------------------------------------------------

func (a *Arena) InitGrouping(inner Ref, line int32) Ref {
	off := a.Allocate(headerSize + 4)
	a.writeHeader(off, Grouping, line)
	a.writeRef(off+headerSize, inner)
	return off
}

func (a *Arena) GroupingInner(off Ref) Ref { return a.readRef(off + headerSize) }

// --- StatementList (variable size) ------------------------------------------

func (a *Arena) InitStatementList(children []Ref, line int32) Ref {
	off := a.Allocate(headerSize + 4 + uint32(len(children))*4)
	a.writeHeader(off, StatementList, line)
	a.writeU32(off+headerSize, uint32(len(children)))
	for i, c := range children {
		a.writeRef(off+headerSize+4+Ref(i)*4, c)
	}
	return off
}

func (a *Arena) StatementListChildren(off Ref) []Ref {
	count := a.readU32(off + headerSize)
	out := make([]Ref, count)
	for i := uint32(0); i < count; i++ {
		out[i] = a.readRef(off + headerSize + 4 + Ref(i)*4)
	}
	return out
}

// --- Print -----------------------------------------------------------------

func (a *Arena) InitPrint(breakLine bool, expr Ref, line int32) Ref {
	off := a.Allocate(headerSize + 5)
	a.writeHeader(off, Print, line)
	if breakLine {
		a.writeU8(off+headerSize, 1)
	}
	a.writeRef(off+headerSize+1, expr)
	return off
}

func (a *Arena) PrintParts(off Ref) (breakLine bool, expr Ref) {
	return a.readU8(off+headerSize) != 0, a.readRef(off + headerSize + 1)
}

// --- Assignment --------------------------------------------------------------

func (a *Arena) InitAssignment(lhs, rhs Ref, line int32) Ref {
	off := a.Allocate(headerSize + 8)
	a.writeHeader(off, Assignment, line)
	a.writeRef(off+headerSize, lhs)
	a.writeRef(off+headerSize+4, rhs)
	return off
}

func (a *Arena) AssignmentParts(off Ref) (lhs, rhs Ref) {
	return a.readRef(off + headerSize), a.readRef(off + headerSize + 4)
}

// --- If ------------------------------------------------------------------

func (a *Arena) InitIf(condition, then, els Ref, line int32) Ref {
	off := a.Allocate(headerSize + 12)
	a.writeHeader(off, If, line)
	a.writeRef(off+headerSize, condition)
	a.writeRef(off+headerSize+4, then)
	a.writeRef(off+headerSize+8, els)
	return off
}

func (a *Arena) IfParts(off Ref) (condition, then, els Ref) {
	return a.readRef(off + headerSize), a.readRef(off + headerSize + 4), a.readRef(off + headerSize + 8)
}

// --- While -----------------------------------------------------------------

func (a *Arena) InitWhile(condition, body Ref, line int32) Ref {
	off := a.Allocate(headerSize + 8)
	a.writeHeader(off, While, line)
	a.writeRef(off+headerSize, condition)
	a.writeRef(off+headerSize+4, body)
	return off
}

func (a *Arena) WhileParts(off Ref) (condition, body Ref) {
	return a.readRef(off + headerSize), a.readRef(off + headerSize + 4)
}

// --- For -------------------------------------------------------------------

func (a *Arena) InitFor(init, stop, step, body Ref, line int32) Ref {
	off := a.Allocate(headerSize + 16)
	a.writeHeader(off, For, line)
	a.writeRef(off+headerSize, init)
	a.writeRef(off+headerSize+4, stop)
	a.writeRef(off+headerSize+8, step)
	a.writeRef(off+headerSize+12, body)
	return off
}

func (a *Arena) ForParts(off Ref) (init, stop, step, body Ref) {
	return a.readRef(off + headerSize), a.readRef(off + headerSize + 4),
		a.readRef(off + headerSize + 8), a.readRef(off + headerSize + 12)
}

// Size reports the total byte length (header + payload) of the node at
// off, the arena analog of the teacher's per-instruction size accounting
// in what used to be pkg/hack/codegen.go (now pkg/vm/dispatch.go).
func (a *Arena) Size(off Ref) uint32 {
	switch a.KindOf(off) {
	case Integer:
		return headerSize + 4
	case Float:
		return headerSize + 8
	case Bool:
		return headerSize + 1
	case String, Identifier:
		return headerSize + 8
	case BinOp:
		return headerSize + 9
	case UnOp:
		return headerSize + 5
	case Grouping:
		return headerSize + 4
	case StatementList:
		count := a.readU32(off + headerSize)
		return headerSize + 4 + count*4
	case Print:
		return headerSize + 5
	case Assignment:
		return headerSize + 8
	case If:
		return headerSize + 12
	case While:
		return headerSize + 8
	case For:
		return headerSize + 16
	default:
		return headerSize
	}
}

// Resolve walks every child Ref embedded in the subtree rooted at off,
// recursing into children, and marks the arena as resolved. Unlike the
// spec's pointer-fixup resolve, no conversion takes place here (Refs are
// never turned into raw pointers — see the package comment's redesign
// note); the pass keeps the same contract (runs once, after parsing,
// idempotent). It does not check Refs against the arena's bounds or node
// boundaries.
func (a *Arena) Resolve(off Ref) {
	if off == NoRef {
		return
	}
	switch a.KindOf(off) {
	case BinOp:
		_, l, r := a.BinOpParts(off)
		a.Resolve(l)
		a.Resolve(r)
	case UnOp:
		_, operand := a.UnOpParts(off)
		a.Resolve(operand)
	case Grouping:
		a.Resolve(a.GroupingInner(off))
	case StatementList:
		for _, c := range a.StatementListChildren(off) {
			a.Resolve(c)
		}
	case Print:
		_, expr := a.PrintParts(off)
		a.Resolve(expr)
	case Assignment:
		lhs, rhs := a.AssignmentParts(off)
		a.Resolve(lhs)
		a.Resolve(rhs)
	case If:
		cond, then, els := a.IfParts(off)
		a.Resolve(cond)
		a.Resolve(then)
		a.Resolve(els)
	case While:
		cond, body := a.WhileParts(off)
		a.Resolve(cond)
		a.Resolve(body)
	case For:
		init, stop, step, body := a.ForParts(off)
		a.Resolve(init)
		a.Resolve(stop)
		a.Resolve(step)
		a.Resolve(body)
	}
	a.resolved = true
}

// Resolved reports whether Resolve has run at least once.
func (a *Arena) Resolved() bool { return a.resolved }
