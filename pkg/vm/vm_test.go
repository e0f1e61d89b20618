package vm_test

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/lgleznah/pinCky/pkg/vm"
)

// imageBuilder hand-assembles a program image without going through
// pkg/compiler, to exercise the VM's fetch-decode-execute loop in
// isolation against images built one instruction at a time.
type imageBuilder struct {
	constants []byte
	code      []byte
}

func (b *imageBuilder) constInt(v int32) uint32 {
	off := uint32(len(b.constants))
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, uint32(v))
	b.constants = append(b.constants, buf...)
	return off
}

func (b *imageBuilder) constBool(v bool) uint32 {
	off := uint32(len(b.constants))
	var by byte
	if v {
		by = 1
	}
	b.constants = append(b.constants, by)
	for len(b.constants)%4 != 0 {
		b.constants = append(b.constants, 0)
	}
	return off
}

func (b *imageBuilder) constFloat(v float64) uint32 {
	for len(b.constants)%8 != 0 {
		b.constants = append(b.constants, 0)
	}
	off := uint32(len(b.constants))
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
	b.constants = append(b.constants, buf...)
	return off
}

func (b *imageBuilder) op(op vm.Opcode, payload uint32) {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, vm.EncodeInstruction(op, payload))
	b.code = append(b.code, buf...)
}

func (b *imageBuilder) build() []byte {
	for len(b.constants)%4 != 0 {
		b.constants = append(b.constants, 0)
	}
	image := make([]byte, vm.HeaderSize+len(b.constants)+len(b.code))
	binary.LittleEndian.PutUint32(image[0:4], uint32(len(b.constants)))
	copy(image[vm.HeaderSize:], b.constants)
	copy(image[vm.HeaderSize+len(b.constants):], b.code)
	return image
}

func TestVMPushPrintHalt(t *testing.T) {
	b := &imageBuilder{}
	off := b.constInt(7)
	b.op(vm.IPUSH, off)
	b.op(vm.PRINTLN, 0)
	b.op(vm.HALT, 0)

	var out bytes.Buffer
	if err := vm.New(b.build(), &out).Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := out.String(), "7\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestVMGlobalsStoreAndLoad(t *testing.T) {
	b := &imageBuilder{}
	off := b.constInt(99)
	b.op(vm.IPUSH, off)
	b.op(vm.STORE_GLOBAL, 0)
	b.op(vm.LOAD_GLOBAL, 0)
	b.op(vm.PRINTLN, 0)
	b.op(vm.HALT, 0)

	var out bytes.Buffer
	if err := vm.New(b.build(), &out).Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := out.String(), "99\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestVMJmpzSkipsWhenConditionFalse(t *testing.T) {
	b := &imageBuilder{}
	falseOff := b.constBool(false)
	skipped := b.constInt(1)
	landed := b.constInt(2)

	b.op(vm.BPUSH, falseOff)
	// JMPZ payload gets patched below once the jump target is known.
	jmpzAt := len(b.code)
	b.op(vm.JMPZ, 0)
	b.op(vm.IPUSH, skipped)
	b.op(vm.PRINTLN, 0)

	target := uint32(vm.HeaderSize + len(b.constants) + len(b.code))
	b.op(vm.IPUSH, landed)
	b.op(vm.PRINTLN, 0)
	b.op(vm.HALT, 0)

	image := b.build()
	binary.LittleEndian.PutUint32(image[vm.HeaderSize+len(b.constants)+jmpzAt:], vm.EncodeInstruction(vm.JMPZ, target))

	var out bytes.Buffer
	if err := vm.New(image, &out).Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := out.String(), "2\n"; got != want {
		t.Errorf("got %q, want %q — JMPZ should have skipped the first branch", got, want)
	}
}

func TestVMStackUnderflowIsRuntimeError(t *testing.T) {
	b := &imageBuilder{}
	b.op(vm.PRINTLN, 0) // nothing pushed yet

	if err := vm.New(b.build(), &bytes.Buffer{}).Run(); err == nil {
		t.Fatalf("expected popping an empty stack to fail")
	}
}

func TestVMUnrecognizedOpcodeIsRuntimeError(t *testing.T) {
	b := &imageBuilder{}
	b.op(vm.Opcode(0xFE), 0)

	if err := vm.New(b.build(), &bytes.Buffer{}).Run(); err == nil {
		t.Fatalf("expected an unrecognized opcode to fail")
	}
}
