// Package io provides the output channels of the LS-8 emulator.
// A Tape receives the values printed by PRN, one decimal value per line,
// and a Trace receives the per-cycle register dump used for debugging.
package io

// Channel defines the interface for byte output channels driven by the CPU.
type Channel interface {
	// Rewind resets the channel to its initial state.
	Rewind()
	// Send writes a single value to the channel.
	Send(value uint8) error
}
