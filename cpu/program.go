package cpu

import (
	"iter"
)

// Link is an operand byte to be patched with the address of a label.
type Link struct {
	Index int    // Byte within Opcode.Bytes.
	Label string // Label to resolve.
}

// Opcode represents a line of loaded or assembled code with its source
// location and generated bytes.
type Opcode struct {
	LineNo  int
	Address int
	Words   []string
	Bytes   []uint8
	Links   []Link
}

type Program struct {
	Opcodes []Opcode
}

type Debug struct {
	*Opcode
	Index int
}

// Debug finds the source line that generated the byte at address.
func (prog *Program) Debug(address int) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if address >= op.Address && address < op.Address+len(op.Bytes) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  address - op.Address,
			}
			break
		}
	}

	return
}

// Size returns the length of the memory image.
func (prog *Program) Size() (size int) {
	for address := range prog.Bytes() {
		size = max(size, address+1)
	}

	return
}

// Binary returns the memory image of the program, starting at address 0.
func (prog *Program) Binary() (bins []uint8) {
	bins = make([]uint8, prog.Size())
	for address, value := range prog.Bytes() {
		bins[address] = value
	}

	return
}

// Bytes iterates over every address and byte of the program.
func (prog *Program) Bytes() iter.Seq2[int, uint8] {
	return func(yield func(address int, value uint8) bool) {
		for _, op := range prog.Opcodes {
			for n, value := range op.Bytes {
				if !yield(op.Address+n, value) {
					return
				}
			}
		}
	}
}
