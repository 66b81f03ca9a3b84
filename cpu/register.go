package cpu

import (
	"errors"
)

const (
	REGISTER_COUNT = 8    // General purpose registers, r0-r7.
	SP             = 7    // Register holding the stack pointer.
	STACK_START    = 0xf4 // Reset value of the stack pointer.
)

// RegisterFile is the 8-bit register bank. All arithmetic on registers
// wraps modulo 256.
type RegisterFile struct {
	Data [REGISTER_COUNT]uint8
}

// Get returns the value of a register.
func (rf *RegisterFile) Get(index int) (value uint8, err error) {
	if index < 0 || index >= len(rf.Data) {
		err = errors.Join(ErrOutOfBounds, ErrRegister(index))
		return
	}

	value = rf.Data[index]
	return
}

// Set writes the value of a register.
func (rf *RegisterFile) Set(index int, value uint8) (err error) {
	if index < 0 || index >= len(rf.Data) {
		err = errors.Join(ErrOutOfBounds, ErrRegister(index))
		return
	}

	rf.Data[index] = value
	return
}

// Reset clears all registers and points SP at the top of the stack.
func (rf *RegisterFile) Reset() {
	clear(rf.Data[:])
	rf.Data[SP] = STACK_START
}
