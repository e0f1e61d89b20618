package diagnostics_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lgleznah/pinCky/pkg/compiler"
	"github.com/lgleznah/pinCky/pkg/diagnostics"
	"github.com/lgleznah/pinCky/pkg/lexer"
	"github.com/lgleznah/pinCky/pkg/parser"
)

func compileSource(t *testing.T, source string) []byte {
	t.Helper()
	tokens, err := lexer.Scan([]byte(source))
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	tree, root, err := parser.Parse(tokens, []byte(source))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	image, err := compiler.Compile(tree, root, []byte(source))
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	return image
}

func TestDisassembleRendersPushAndHalt(t *testing.T) {
	image := compileSource(t, "println 7")

	var out bytes.Buffer
	if err := diagnostics.Disassemble(image, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rendered := out.String()
	for _, want := range []string{"IPUSH", "PRINTLN", "HALT", "int@"} {
		if !strings.Contains(rendered, want) {
			t.Errorf("expected disassembly to mention %q, got:\n%s", want, rendered)
		}
	}
}

func TestDisassembleRendersJumpTargets(t *testing.T) {
	image := compileSource(t, "if true then println 1 end")

	var out bytes.Buffer
	if err := diagnostics.Disassemble(image, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(out.String(), "JMPZ") {
		t.Errorf("expected the if-statement's guard jump to appear, got:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "-> ") {
		t.Errorf("expected the jump's target address to be rendered, got:\n%s", out.String())
	}
}

func TestDisassembleRejectsTruncatedImage(t *testing.T) {
	if err := diagnostics.Disassemble([]byte{1, 2, 3}, &bytes.Buffer{}); err == nil {
		t.Fatalf("expected an image shorter than the header to fail")
	}
}
