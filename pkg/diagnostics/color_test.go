package diagnostics_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/lgleznah/pinCky/pkg/diagnostics"
)

func TestPrintIncludesErrorClassMessage(t *testing.T) {
	cases := []error{
		&diagnostics.LexerError{Line: 1, Column: 2, Msg: "unexpected character"},
		&diagnostics.SyntaxError{Line: 3, Msg: "expected expression"},
		&diagnostics.CompilerError{Line: 4, Msg: "use of undeclared identifier 'x'"},
		&diagnostics.RuntimeError{Msg: "division by zero"},
		errors.New("plain error"),
	}

	for _, err := range cases {
		var out bytes.Buffer
		diagnostics.Print(&out, err)
		if !strings.Contains(out.String(), err.Error()) {
			t.Errorf("Print(%v) = %q, expected it to contain the error's message", err, out.String())
		}
	}
}
