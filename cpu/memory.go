package cpu

import (
	"errors"
)

const (
	MEMORY_SIZE = 256 // Addressable bytes.
)

// Memory is the flat, byte addressed RAM of the machine.
type Memory struct {
	Data [MEMORY_SIZE]uint8
}

// Read returns the byte at address.
func (mem *Memory) Read(address int) (value uint8, err error) {
	if address < 0 || address >= len(mem.Data) {
		err = errors.Join(ErrOutOfBounds, ErrAddress(address))
		return
	}

	value = mem.Data[address]
	return
}

// Write stores a byte at address.
func (mem *Memory) Write(address int, value uint8) (err error) {
	if address < 0 || address >= len(mem.Data) {
		err = errors.Join(ErrOutOfBounds, ErrAddress(address))
		return
	}

	mem.Data[address] = value
	return
}

// Load copies a program image to memory, starting at address 0.
func (mem *Memory) Load(image []uint8) (err error) {
	if len(image) > len(mem.Data) {
		err = ErrProgramSize
		return
	}

	copy(mem.Data[:], image)
	return
}

// Reset zeros all of memory.
func (mem *Memory) Reset() {
	clear(mem.Data[:])
}
