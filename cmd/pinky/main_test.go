package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

// captureStdout temporarily redirects os.Stdout (Handler writes straight to
// it, matching the teacher's hack_assembler/vm_translator commands) and
// returns whatever was written during fn.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	w.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("reading captured stdout: %v", err)
	}
	return string(out)
}

func writeSource(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "program.pinky")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing fixture source: %v", err)
	}
	return path
}

func TestHandlerRunsCompiledByDefault(t *testing.T) {
	path := writeSource(t, "println 1+2*3")

	var status int
	out := captureStdout(t, func() {
		status = Handler([]string{path}, map[string]string{})
	})

	if status != 0 {
		t.Fatalf("expected exit status 0, got %d", status)
	}
	if out != "7\n" {
		t.Errorf("got %q, want %q", out, "7\n")
	}
}

func TestHandlerTreeWalk(t *testing.T) {
	path := writeSource(t, "println 1+2*3")

	var status int
	out := captureStdout(t, func() {
		status = Handler([]string{path}, map[string]string{"tree-walk": ""})
	})

	if status != 0 {
		t.Fatalf("expected exit status 0, got %d", status)
	}
	if out != "7\n" {
		t.Errorf("got %q, want %q", out, "7\n")
	}
}

func TestHandlerDisasm(t *testing.T) {
	path := writeSource(t, "println 7")

	var status int
	out := captureStdout(t, func() {
		status = Handler([]string{path}, map[string]string{"disasm": ""})
	})

	if status != 0 {
		t.Fatalf("expected exit status 0, got %d", status)
	}
	if len(out) == 0 {
		t.Errorf("expected non-empty disassembly output")
	}
}

func TestHandlerMissingSourceFails(t *testing.T) {
	status := Handler(nil, map[string]string{})
	if status == 0 {
		t.Fatalf("expected a missing source argument to fail")
	}
}

func TestHandlerUnreadableFileFails(t *testing.T) {
	status := Handler([]string{filepath.Join(t.TempDir(), "missing.pinky")}, map[string]string{})
	if status == 0 {
		t.Fatalf("expected an unreadable source file to fail")
	}
}
