package compiler_test

import (
	"testing"

	"github.com/lgleznah/pinCky/pkg/compiler"
)

func TestSymbolTableAssignsContiguousIds(t *testing.T) {
	st := compiler.NewSymbolTable()

	if id := st.Declare("x"); id != 0 {
		t.Fatalf("expected first declared symbol to get id 0, got %d", id)
	}
	if id := st.Declare("y"); id != 1 {
		t.Fatalf("expected second declared symbol to get id 1, got %d", id)
	}
	if id := st.Declare("x"); id != 0 {
		t.Fatalf("re-declaring 'x' should return its existing id 0, got %d", id)
	}
	if st.Count() != 2 {
		t.Fatalf("expected 2 distinct symbols, got %d", st.Count())
	}
}

func TestSymbolTableResolveUndeclaredFails(t *testing.T) {
	st := compiler.NewSymbolTable()
	st.Declare("x")

	if _, err := st.Resolve("x"); err != nil {
		t.Fatalf("expected 'x' to resolve, got error: %v", err)
	}
	if _, err := st.Resolve("y"); err == nil {
		t.Fatalf("expected resolving an undeclared identifier to fail")
	}
}
