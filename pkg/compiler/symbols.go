package compiler

import "fmt"

// ----------------------------------------------------------------------------
// Symbol table

// Adapted from what used to be pkg/jack/scopes.go's ScopeTable: there,
// RegisterVariable/ResolveVariable managed four nested scopes (static,
// field, local, parameter) each backed by its own stack, because Jack has
// lexical scoping. Pinky has none — every identifier lives in one flat
// global table (spec §3 "Globals table", §4.3's assign-on-first-use rule) —
// so the four scopes collapse to the one map RegisterVariable/
// ResolveVariable used per-scope, and ids are handed out in assignment
// order rather than declaration order.
type SymbolTable struct {
	ids  map[string]uint32
	next uint32
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{ids: map[string]uint32{}}
}

// Declare returns name's symbol id, assigning the next contiguous id the
// first time name is seen (spec §4.3: "the compiler assigns a symbol its id
// the first time it appears as an assignment's left-hand side"). Declaring
// an already-known name is a no-op that just returns its existing id.
func (st *SymbolTable) Declare(name string) uint32 {
	if id, ok := st.ids[name]; ok {
		return id
	}
	id := st.next
	st.ids[name] = id
	st.next++
	return id
}

// Resolve looks up an already-declared identifier, for use on the
// right-hand side of an expression. The compiler reports every miss as a
// CompilerError (spec §4.3: reading a never-assigned identifier is a
// compile-time error, not a runtime None).
func (st *SymbolTable) Resolve(name string) (uint32, error) {
	id, ok := st.ids[name]
	if !ok {
		return 0, fmt.Errorf("use of undeclared identifier '%s'", name)
	}
	return id, nil
}

// Count reports how many distinct symbols have been declared so far.
func (st *SymbolTable) Count() uint32 { return st.next }
