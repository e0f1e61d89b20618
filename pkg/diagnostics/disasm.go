package diagnostics

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/fatih/color"
	"github.com/lgleznah/pinCky/pkg/vm"
)

// ----------------------------------------------------------------------------
// Disassembler

// Adapted from what used to be pkg/asm/codegen.go's CodeGenerator: there,
// each in-memory Statement converted to one line of Hack assembly text via a
// per-kind Generate method. A compiled Pinky image has no statement list to
// walk — just a flat instruction stream — so Disassemble folds the same
// one-opcode-to-one-line conversion into a single fetch loop, grounded in
// original_source/compiler.c's print_code, colorized the way original_source
// colorized its own disassembly dump.

// Disassemble writes a human-readable listing of image to w: one header
// line with constants_size and the code size, then one colorized line per
// instruction. Constant-pool values appear only inline, as the operands of
// the PUSH instructions that reference them; the pool is not dumped on its
// own.
func Disassemble(image []byte, w io.Writer) error {
	if len(image) < vm.HeaderSize {
		return fmt.Errorf("image too small to contain a header: %d bytes", len(image))
	}
	constantsSize := binary.LittleEndian.Uint32(image[0:4])
	codeStart := vm.HeaderSize + constantsSize

	bold := color.New(color.Bold)
	bold.Fprintf(w, "; constants_size=%d code_size=%d\n", constantsSize, uint32(len(image))-codeStart)

	mnemonic := color.New(color.FgCyan)
	operand := color.New(color.FgYellow)

	for pc := codeStart; pc+vm.InstructionSize <= uint32(len(image)); pc += vm.InstructionSize {
		word := binary.LittleEndian.Uint32(image[pc:])
		op, payload := vm.DecodeInstruction(word)

		fmt.Fprintf(w, "%06d  ", pc-codeStart)
		mnemonic.Fprintf(w, "%-12s", op.String())
		operand.Fprintf(w, "%s\n", describeOperand(image, codeStart, op, payload))
	}
	return nil
}

// describeOperand renders an instruction's 24-bit payload the way it will
// actually be used at runtime: a constant-pool value for the PUSH family, a
// code address for jumps, a bare symbol id for globals, nothing otherwise.
func describeOperand(image []byte, codeStart uint32, op vm.Opcode, payload uint32) string {
	constOff := vm.HeaderSize + payload
	switch op {
	case vm.IPUSH:
		return fmt.Sprintf("%d               ; int@%d", int32(binary.LittleEndian.Uint32(image[constOff:])), payload)
	case vm.FPUSH:
		bits := binary.LittleEndian.Uint64(image[constOff:])
		return fmt.Sprintf("%g               ; float@%d", math.Float64frombits(bits), payload)
	case vm.BPUSH:
		return fmt.Sprintf("%t               ; bool@%d", image[constOff] != 0, payload)
	case vm.SPUSH:
		length := binary.LittleEndian.Uint32(image[constOff:])
		return fmt.Sprintf("%q         ; string@%d", image[constOff+4:constOff+4+length], payload)
	case vm.LOAD_GLOBAL, vm.STORE_GLOBAL:
		return fmt.Sprintf("$%d", payload)
	case vm.JMP, vm.JMPZ:
		return fmt.Sprintf("-> %06d", payload-codeStart)
	default:
		return ""
	}
}
