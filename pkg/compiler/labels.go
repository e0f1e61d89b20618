package compiler

import (
	"encoding/binary"

	"github.com/lgleznah/pinCky/pkg/diagnostics"
	"github.com/lgleznah/pinCky/pkg/vm"
)

// ----------------------------------------------------------------------------
// Label patching

// Adapted from what used to be pkg/asm/lowering.go's Lowerer: there, a
// single DFS pass collected every LabelDecl's position into a symbol table
// while converting the rest of the program, and A-instructions referencing a
// label were left for the Hack assembler's own resolution pass to chase
// through that table. Pinky's compiler folds both halves into one
// structure: newLabel/placeLabel build the same kind of "name/id to
// position" table (spec §4.3's label discipline), and patchJumps is the
// rewrite pass that once did what the Hack assembler did for A-instructions,
// now applied directly to JMP/JMPZ payloads after the whole program image
// has been assembled.

// newLabel reserves a fresh label id, to be placed (recorded as a code
// position) exactly once before the image is assembled.
func (c *Compiler) newLabel() uint32 {
	id := c.nextLabel
	c.nextLabel++
	return id
}

// placeLabel records the label's code-relative address as the current end
// of the code buffer — the equivalent of a LabelDecl statement's position
// in the teacher's asm.Program.
func (c *Compiler) placeLabel(id uint32) {
	c.labelAddrs[id] = uint32(len(c.code))
}

// emitJump appends a JMP/JMPZ instruction whose payload is, for now, just
// the label id; the patch records where to come back and overwrite it once
// every label has been placed.
func (c *Compiler) emitJump(op vm.Opcode, labelID uint32) {
	c.patches = append(c.patches, patch{codeOffset: uint32(len(c.code)), labelID: labelID})
	c.emitOp(op, labelID)
}

// patchJumps rewrites every recorded jump's payload from a label id to the
// label's final absolute image address (code-relative address plus the
// header and constant-pool size), the last step of spec §4.3's image
// assembly. image must already contain the final constants+code layout;
// codeStart is the absolute offset where the code region begins.
func patchJumps(image []byte, codeStart uint32, labelAddrs map[uint32]uint32, patches []patch) error {
	for _, p := range patches {
		relAddr, ok := labelAddrs[p.labelID]
		if !ok {
			return &diagnostics.CompilerError{Msg: "internal error: label referenced by a jump was never placed"}
		}
		absAddr := codeStart + relAddr

		instrOff := codeStart + p.codeOffset
		word := binary.LittleEndian.Uint32(image[instrOff:])
		op, _ := vm.DecodeInstruction(word)
		binary.LittleEndian.PutUint32(image[instrOff:], vm.EncodeInstruction(op, absAddr))
	}
	return nil
}
