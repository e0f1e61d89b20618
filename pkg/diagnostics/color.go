package diagnostics

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Print writes err to w with a colorized class prefix, the Go counterpart of
// original_source/compiler.c's hand-rolled ANSI escapes in print_code. Each
// error class gets its own color (spec §A); w is always stdout in cmd/pinky
// (spec §6: "All are written to stdout; exit code 1").
func Print(w io.Writer, err error) {
	switch err.(type) {
	case *LexerError:
		color.New(color.FgYellow).Fprintln(w, err.Error())
	case *SyntaxError:
		color.New(color.FgMagenta).Fprintln(w, err.Error())
	case *CompilerError:
		color.New(color.FgRed).Fprintln(w, err.Error())
	case *RuntimeError:
		color.New(color.FgRed, color.Bold).Fprintln(w, err.Error())
	default:
		fmt.Fprintln(w, err.Error())
	}
}
