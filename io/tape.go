package io

import (
	"fmt"
	"io"
)

// Tape is the printer channel. Every value sent is written to Output as
// a decimal integer followed by a newline.
type Tape struct {
	Output io.Writer

	lines int
}

// Rewind clears the line counter. Output already written is not recalled.
func (tc *Tape) Rewind() {
	tc.lines = 0
}

// Send writes a value to the output stream.
func (tc *Tape) Send(value uint8) (err error) {
	if tc.Output == nil {
		err = ErrChannelDetached
		return
	}

	_, err = fmt.Fprintf(tc.Output, "%d\n", value)
	if err != nil {
		return
	}

	tc.lines++
	return
}

// Lines returns the number of values written since the last rewind.
func (tc *Tape) Lines() int {
	return tc.lines
}
