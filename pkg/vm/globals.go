package vm

import "github.com/lgleznah/pinCky/pkg/value"

// Globals is the VM's global-variable environment (spec §3 "Globals
// table"). Per the design notes' redesign guidance ("a flat ordered map
// from symbol id to boxed value; compile assigns contiguous ids, VM
// indexes directly"), this is a growable slice of boxed value.Result
// indexed directly by the compiler's symbol id, rather than a byte arena
// of offsets — Go already boxes Result for us, so the indirection the
// spec's C model needs has no work left to do in this target language.
type Globals struct {
	slots []value.Result
}

// Get returns the current value of global id, or value.None if it has
// never been stored to (e.g. a forward reference within a single
// expression, which the compiler itself already rejects at compile time).
func (g *Globals) Get(id uint32) value.Result {
	g.grow(id)
	return g.slots[id]
}

// Set stores v into global id, taking ownership per spec §4.4's
// STORE_GLOBAL rule: any previous String value in the slot is simply
// replaced (Go's GC reclaims it; no explicit free is performed).
func (g *Globals) Set(id uint32, v value.Result) {
	g.grow(id)
	g.slots[id] = v
}

func (g *Globals) grow(id uint32) {
	for uint32(len(g.slots)) <= id {
		g.slots = append(g.slots, value.NewNone())
	}
}
