package compiler_test

import (
	"bytes"
	"testing"

	"github.com/lgleznah/pinCky/pkg/compiler"
	"github.com/lgleznah/pinCky/pkg/lexer"
	"github.com/lgleznah/pinCky/pkg/parser"
	"github.com/lgleznah/pinCky/pkg/vm"
)

func run(t *testing.T, source string) string {
	t.Helper()
	src := []byte(source)

	tokens, err := lexer.Scan(src)
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	tree, root, err := parser.Parse(tokens, src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	image, err := compiler.Compile(tree, root, src)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}

	var out bytes.Buffer
	if err := vm.New(image, &out).Run(); err != nil {
		t.Fatalf("runtime error: %v", err)
	}
	return out.String()
}

func TestCompileArithmeticPrecedence(t *testing.T) {
	if got, want := run(t, "println 1+2*3"), "7\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCompileExponentRightAssociative(t *testing.T) {
	if got, want := run(t, "println 2^3^2"), "512\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCompileAssignmentAndReload(t *testing.T) {
	if got, want := run(t, "x := 41\nx := x+1\nprintln x"), "42\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCompileIfElse(t *testing.T) {
	source := `
x := 5
if x > 3 then
  println "big"
else
  println "small"
end
`
	if got, want := run(t, source), "big\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCompileWhileLoop(t *testing.T) {
	source := `
i := 0
sum := 0
while i < 5 do
  sum := sum+i
  i := i+1
end
println sum
`
	if got, want := run(t, source), "10\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCompileForLoopDefaultStep(t *testing.T) {
	source := `
total := 0
for i := 0, 5 do
  total := total+i
end
println total
`
	if got, want := run(t, source), "10\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCompileForLoopExplicitStep(t *testing.T) {
	source := `
total := 0
for i := 0, 10, 2 do
  total := total+i
end
println total
`
	if got, want := run(t, source), "20\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCompileStringConcatWithNonString(t *testing.T) {
	if got, want := run(t, `println "n=" + 7`), "n=7\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCompileIfWithNonBoolConditionCastsLikeAnyOtherValue(t *testing.T) {
	// JMPZ casts its condition the same way any other value casts to bool
	// (spec §4.4's ToBool, Float's >= 0 quirk included), not a strict-Bool
	// check, matching pkg/interp's behavior for the same program.
	if got, want := run(t, "if 0.0 then println 1 else println 2 end"), "1\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got, want := run(t, "if -0.5 then println 1 else println 2 end"), "2\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCompileUndeclaredIdentifierIsCompileError(t *testing.T) {
	src := []byte("println x")
	tokens, err := lexer.Scan(src)
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	tree, root, err := parser.Parse(tokens, src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if _, err := compiler.Compile(tree, root, src); err == nil {
		t.Fatalf("expected a compile error for an undeclared identifier")
	}
}
