package vm

// ----------------------------------------------------------------------------
// VM

// Adapted in place from what used to be pkg/vm/vm.go (the nand2tetris VM
// translator's Program/Module/Operation/MemoryOp model): same package,
// same "a program is a flat in-memory structure executed by a small
// interpreter" shape, now holding Pinky's fetch-decode-execute loop over a
// compiled program image (spec §4.4) instead of Hack-VM memory-segment
// operations.

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/lgleznah/pinCky/pkg/diagnostics"
	"github.com/lgleznah/pinCky/pkg/value"
)

// MaxStackDepth bounds the operand stack (spec §4.4: "the operand stack
// has a fixed byte capacity; writing beyond it is fatal"). Go already
// boxes each value.Result, so the bound here is expressed in depth rather
// than bytes, but the "fixed capacity, overflow is fatal" contract holds.
const MaxStackDepth = 1 << 16

// VM executes a compiled program image against an operand stack and a
// globals environment (spec §4.4).
type VM struct {
	image   []byte
	pc      uint32
	stack   []value.Result
	globals Globals
	out     io.Writer
}

// New constructs a VM ready to run image, writing PRINT/PRINTLN output to
// out. pc starts at the first code-section instruction, immediately after
// the header and the constant pool (spec §4.4).
func New(image []byte, out io.Writer) *VM {
	constantsSize := binary.LittleEndian.Uint32(image[0:4])
	return &VM{
		image: image,
		pc:    HeaderSize + constantsSize,
		out:   out,
		stack: make([]value.Result, 0, 64),
	}
}

func (vm *VM) push(v value.Result) error {
	if len(vm.stack) >= MaxStackDepth {
		return &diagnostics.RuntimeError{Msg: "operand stack overflow"}
	}
	vm.stack = append(vm.stack, v)
	return nil
}

func (vm *VM) pop() (value.Result, error) {
	if len(vm.stack) == 0 {
		return value.Result{}, &diagnostics.RuntimeError{Msg: "operand stack underflow"}
	}
	top := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	return top, nil
}

// constantOffset returns the absolute image offset of a constant-pool
// payload: payloads are recorded relative to the start of the constants
// region (spec §8's testable property phrases alignment in exactly those
// terms), which itself begins right after the 8-byte header.
func (vm *VM) constantOffset(payload uint32) uint32 { return HeaderSize + payload }

func (vm *VM) readInt(payload uint32) int32 {
	off := vm.constantOffset(payload)
	return int32(binary.LittleEndian.Uint32(vm.image[off:]))
}

func (vm *VM) readFloat(payload uint32) float64 {
	off := vm.constantOffset(payload)
	bits := binary.LittleEndian.Uint64(vm.image[off:])
	return math.Float64frombits(bits)
}

func (vm *VM) readBool(payload uint32) bool {
	return vm.image[vm.constantOffset(payload)] != 0
}

func (vm *VM) readString(payload uint32) string {
	off := vm.constantOffset(payload)
	length := binary.LittleEndian.Uint32(vm.image[off:])
	// Converting a []byte slice to a string copies, giving each SPUSH its
	// own heap allocation — the Go-native counterpart of spec §5's "deep
	// copy from the constant pool" acquisition rule.
	return string(vm.image[off+4 : off+4+length])
}

// Run executes the fetch-decode-execute loop until HALT or a fatal error.
func (vm *VM) Run() error {
	for {
		if vm.pc+InstructionSize > uint32(len(vm.image)) {
			return &diagnostics.RuntimeError{Msg: "program counter ran past the end of the image"}
		}
		word := binary.LittleEndian.Uint32(vm.image[vm.pc:])
		op, payload := DecodeInstruction(word)
		vm.pc += InstructionSize

		switch op {
		case NPUSH:
			if err := vm.push(value.NewNone()); err != nil {
				return err
			}
		case IPUSH:
			if err := vm.push(value.NewInt(vm.readInt(payload))); err != nil {
				return err
			}
		case FPUSH:
			if err := vm.push(value.NewFloat(vm.readFloat(payload))); err != nil {
				return err
			}
		case BPUSH:
			if err := vm.push(value.NewBool(vm.readBool(payload))); err != nil {
				return err
			}
		case SPUSH:
			if err := vm.push(value.NewString(vm.readString(payload))); err != nil {
				return err
			}

		case OR, AND:
			r, err := vm.pop()
			if err != nil {
				return err
			}
			l, err := vm.pop()
			if err != nil {
				return err
			}
			var result bool
			if op == OR {
				result = l.ToBool() || r.ToBool()
			} else {
				result = l.ToBool() && r.ToBool()
			}
			if err := vm.push(value.NewBool(result)); err != nil {
				return err
			}

		case ADD, SUB, MUL, DIV, MOD, EXP, EQ, NE, GT, GE, LT, LE:
			r, err := vm.pop()
			if err != nil {
				return err
			}
			l, err := vm.pop()
			if err != nil {
				return err
			}
			result, err := TableFor(op)[l.Kind][r.Kind](l, r)
			if err != nil {
				return &diagnostics.RuntimeError{Msg: err.Error()}
			}
			if err := vm.push(result); err != nil {
				return err
			}

		case NUMNEG:
			v, err := vm.pop()
			if err != nil {
				return err
			}
			switch v.Kind {
			case value.Int:
				err = vm.push(value.NewInt(-v.I))
			case value.Float:
				err = vm.push(value.NewFloat(-v.F))
			default:
				return &diagnostics.RuntimeError{Msg: fmt.Sprintf("unsupported operand for unary '-': %s", v.Kind)}
			}
			if err != nil {
				return err
			}

		case BOOLNEG:
			v, err := vm.pop()
			if err != nil {
				return err
			}
			if err := vm.push(value.NewBool(!v.ToBool())); err != nil {
				return err
			}

		case LOAD_GLOBAL:
			if err := vm.push(vm.globals.Get(payload)); err != nil {
				return err
			}

		case STORE_GLOBAL:
			v, err := vm.pop()
			if err != nil {
				return err
			}
			vm.globals.Set(payload, v)

		case JMP:
			vm.pc = payload

		case JMPZ:
			v, err := vm.pop()
			if err != nil {
				return err
			}
			// Conditions cast via the same rules as any other value (spec
			// §4.4's ToBool, including the Float >= 0 quirk), matching
			// pkg/interp and the AND/OR cases above — not a strict Bool
			// check.
			if !v.ToBool() {
				vm.pc = payload
			}

		case HALT:
			return nil

		case PRINT:
			v, err := vm.pop()
			if err != nil {
				return err
			}
			fmt.Fprint(vm.out, v.ToString())

		case PRINTLN:
			v, err := vm.pop()
			if err != nil {
				return err
			}
			fmt.Fprintln(vm.out, v.ToString())

		default:
			return &diagnostics.RuntimeError{Msg: fmt.Sprintf("unrecognized opcode 0x%02x", uint8(op))}
		}
	}
}
