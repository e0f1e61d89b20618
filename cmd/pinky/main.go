package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/lgleznah/pinCky/pkg/compiler"
	"github.com/lgleznah/pinCky/pkg/diagnostics"
	"github.com/lgleznah/pinCky/pkg/interp"
	"github.com/lgleznah/pinCky/pkg/lexer"
	"github.com/lgleznah/pinCky/pkg/parser"
	"github.com/lgleznah/pinCky/pkg/vm"

	"github.com/teris-io/cli"
)

var Description = strings.ReplaceAll(`
Pinky runs programs written in the Pinky scripting language. By default it
lexes, parses and compiles the given source file to a bytecode image and
executes it on the stack-based VM; '--tree-walk' instead walks the parsed
AST directly, skipping compilation entirely.
`, "\n", " ")

var Pinky = cli.New(Description).
	WithArg(cli.NewArg("source", "The Pinky (.pinky) source file to run")).
	WithOption(cli.NewOption("tree-walk", "Executes via the tree-walking interpreter instead of the bytecode VM").
		WithType(cli.TypeBool)).
	WithOption(cli.NewOption("disasm", "Prints the compiled bytecode image instead of running it").
		WithType(cli.TypeBool)).
	WithAction(Handler)

func Handler(args []string, options map[string]string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stdout, "ERROR: no source file provided, use --help")
		return -1
	}

	source, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stdout, "ERROR: unable to open source file: %s\n", err)
		return -1
	}

	tokens, err := lexer.Scan(source)
	if err != nil {
		diagnostics.Print(os.Stdout, err)
		return 1
	}

	tree, root, err := parser.Parse(tokens, source)
	if err != nil {
		diagnostics.Print(os.Stdout, err)
		return 1
	}

	_, treeWalk := options["tree-walk"]
	_, disasm := options["disasm"]

	if disasm {
		if treeWalk {
			fmt.Fprintln(os.Stdout, "ERROR: --disasm has no effect together with --tree-walk")
			return -1
		}
		image, err := compiler.Compile(tree, root, source)
		if err != nil {
			diagnostics.Print(os.Stdout, err)
			return 1
		}
		if err := diagnostics.Disassemble(image, os.Stdout); err != nil {
			diagnostics.Print(os.Stdout, err)
			return 1
		}
		return 0
	}

	if treeWalk {
		if err := interp.Run(tree, root, source, os.Stdout); err != nil {
			diagnostics.Print(os.Stdout, err)
			return 1
		}
		return 0
	}

	image, err := compiler.Compile(tree, root, source)
	if err != nil {
		diagnostics.Print(os.Stdout, err)
		return 1
	}
	if err := vm.New(image, os.Stdout).Run(); err != nil {
		diagnostics.Print(os.Stdout, err)
		return 1
	}
	return 0
}

func main() { os.Exit(Pinky.Run(os.Args, os.Stdout)) }
