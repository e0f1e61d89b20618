package compiler

import (
	"encoding/binary"

	"github.com/lgleznah/pinCky/pkg/vm"
)

// ----------------------------------------------------------------------------
// Program image assembly

// Grounded in original_source/compiler.c's compile_code(): pad the constant
// pool to a 4-byte boundary, write the 8-byte header (constants_size plus
// 4 reserved bytes), copy the constants region, copy the code region, then
// patch every recorded jump's payload from a label id to its final absolute
// address (spec §4.3 step 6).
func (c *Compiler) assembleImage() ([]byte, error) {
	for len(c.constants)%4 != 0 {
		c.constants = append(c.constants, 0)
	}
	constantsSize := uint32(len(c.constants))

	image := make([]byte, vm.HeaderSize+constantsSize+uint32(len(c.code)))
	binary.LittleEndian.PutUint32(image[0:4], constantsSize)
	// image[4:8] stays zero: reserved padding for f64 alignment (spec §3).

	copy(image[vm.HeaderSize:], c.constants)
	codeStart := vm.HeaderSize + constantsSize
	copy(image[codeStart:], c.code)

	if err := patchJumps(image, codeStart, c.labelAddrs, c.patches); err != nil {
		return nil, err
	}
	return image, nil
}
