package compiler

// ----------------------------------------------------------------------------
// Instruction bookkeeping

// Adapted from what used to be pkg/asm/asm.go's Statement marker-interface
// split (LabelDecl/AInstruction/CInstruction there, resolved in a later
// lowering pass into hack.Instruction words): here the compiler emits every
// instruction as a final 4-byte word immediately, through vm.EncodeInstruction,
// except that jump payloads are not yet known at emission time. A patch
// records where such a word landed in the code buffer so a later pass (see
// labels.go) can rewrite its payload once the label's address is known — the
// same "emit now, resolve later" split the teacher used for labels, just
// narrowed to the one field that still needs it.
type patch struct {
	codeOffset uint32 // byte offset into Compiler.code where the instruction word starts
	labelID    uint32 // label whose resolved address replaces the placeholder payload
}
