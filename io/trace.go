package io

import (
	"fmt"
	"io"
)

// Trace records one line of CPU state per cycle.
// A Trace with no Output discards everything.
type Trace struct {
	Output io.Writer
}

// Enabled returns true if trace lines have somewhere to go.
func (tr *Trace) Enabled() bool {
	return tr != nil && tr.Output != nil
}

// Record writes a single state line.
func (tr *Trace) Record(state string) (err error) {
	if !tr.Enabled() {
		return
	}

	_, err = fmt.Fprintln(tr.Output, state)
	return
}
