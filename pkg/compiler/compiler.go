// Package compiler lowers a parsed Pinky program (an *ast.Arena rooted at a
// StatementList) into a compiled program image ready for pkg/vm (spec §4.3).
//
// Adapted from what used to be pkg/jack/lowering.go and pkg/asm/lowering.go:
// the teacher's toolchain lowered Jack source down through a VM-language
// intermediate representation and then down again through Hack assembly,
// with a dedicated Lowerer per stage. Pinky only has one IR-less hop — AST
// straight to bytecode — so the two Lowerers collapse into a single
// Compiler that both emits instructions (this file, lowering.go) and
// performs the one remaining resolution pass Hack's assembler used to do
// for labels (labels.go), then assembles the final image (image.go).
package compiler

import (
	"github.com/lgleznah/pinCky/pkg/ast"
	"github.com/lgleznah/pinCky/pkg/vm"
)

// Compiler accumulates a constant pool and a code buffer while walking the
// AST, resolving identifiers through a flat SymbolTable and deferring jump
// target resolution to the image-assembly pass (grounded on the teacher's
// temp_constants/temp_code/label_addrs split from original_source/compiler.c).
type Compiler struct {
	tree   *ast.Arena
	source []byte

	constants []byte
	code      []byte

	symbols *SymbolTable

	nextLabel  uint32
	labelAddrs map[uint32]uint32
	patches    []patch

	nextForID   uint32
	nextDiscard uint32
}

func newCompiler(tree *ast.Arena, source []byte) *Compiler {
	return &Compiler{
		tree:       tree,
		source:     source,
		symbols:    NewSymbolTable(),
		labelAddrs: map[uint32]uint32{},
	}
}

// Compile lowers the program rooted at root into a program image (spec §4.3
// step 6). root must be a resolved ast.StatementList node.
func Compile(tree *ast.Arena, root ast.Ref, source []byte) ([]byte, error) {
	c := newCompiler(tree, source)
	if err := c.lowerStatementList(root); err != nil {
		return nil, err
	}
	c.emitOp(vm.HALT, 0)
	return c.assembleImage()
}

// emitOp appends a fully-resolved instruction word to the code buffer.
func (c *Compiler) emitOp(op vm.Opcode, payload uint32) {
	c.code = appendUint32LE(c.code, vm.EncodeInstruction(op, payload))
}
