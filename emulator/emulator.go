// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"maps"

	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/internal"
	"github.com/ezrec/ls8/io"
)

const (
	DEFAULT_MAX_TICKS = 1 << 20 // Tick limit used by NewEmulator.
)

var _emulator_defines = map[string]string{
	"MAX_TICKS": fmt.Sprintf("%v", DEFAULT_MAX_TICKS),
}

// Emulator state. CPU + program + output channels.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	Strict   bool         // If set, stack faults stop the run.
	MaxTicks int          // If positive, Run stops with ErrTickLimit after this many ticks.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.

	Tape  io.Tape  // PRN output channel.
	Trace io.Trace // Per-cycle state dump.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:      cpu.NewCpu(),
		Program:  &cpu.Program{},
		MaxTicks: DEFAULT_MAX_TICKS,
	}

	emu.Cpu.Output = &emu.Tape

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
	)
}

// Reset the emulator, and load the program into memory.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Strict = emu.Strict

	image := emu.Program.Binary()
	if len(image) > cpu.MEMORY_SIZE {
		err = cpu.ErrProgramSize
		return
	}

	err = emu.Cpu.Load(image)
	return
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Pc returns current program counter.
func (emu *Emulator) Pc() int {
	return emu.Cpu.Pc
}

// LineNo returns the source line number for the current instruction.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.Pc)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single tick of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	pc := emu.Cpu.Pc
	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{Address: pc, LineNo: lineno, Err: err}
		}
	}()

	err = emu.Trace.Record(emu.Cpu.String())
	if err != nil {
		return
	}

	err = emu.Cpu.Tick()
	if errors.Is(err, cpu.ErrHalted) {
		err = nil
		done = true
		return
	}
	if err != nil {
		return
	}

	done = emu.Cpu.Halted
	return
}

// Run ticks the emulator until the program halts, an error occurs, the
// context is cancelled, or MaxTicks is exceeded.
func (emu *Emulator) Run(ctx context.Context) (err error) {
	start := emu.Cpu.Ticks

	for {
		err = ctx.Err()
		if err != nil {
			return
		}

		if emu.MaxTicks > 0 && emu.Cpu.Ticks-start >= emu.MaxTicks {
			err = &ErrRuntime{Address: emu.Cpu.Pc, LineNo: emu.LineNo(), Err: ErrTickLimit}
			return
		}

		var done bool
		done, err = emu.Tick()
		if err != nil || done {
			return
		}
	}
}
