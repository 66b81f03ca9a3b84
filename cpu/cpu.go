package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
	"strings"

	"github.com/ezrec/ls8/io"
)

// Channel is an output channel interface.
type Channel io.Channel

var _cpu_defines = func() (defines map[string]string) {
	defines = map[string]string{
		"SP":          fmt.Sprintf("R%d", SP),
		"STACK_START": fmt.Sprintf("%#x", STACK_START),
		"MEMORY_SIZE": fmt.Sprintf("%d", MEMORY_SIZE),
	}
	for name, code := range mnemonics {
		defines["OP_"+name] = fmt.Sprintf("%#x", uint8(code))
	}
	return
}()

// Cpu is the simulation context for the LS-8 processor.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.
	Strict  bool // Set to make stack overflow and underflow fatal.

	Pc       int          // Program counter.
	Flags    uint8        // Flags register. Reserved, never written by an instruction.
	Register RegisterFile // Register bank.
	Memory   Memory       // Main memory.

	StackLimit uint8 // Lowest address the stack may grow down to.

	Halted bool    // Set once HLT has executed.
	Ticks  int     // Executed instruction counter.
	Faults []error // Recovered stack faults since reset.

	Output Channel // Destination of PRN.
}

// NewCpu creates a new CPU in its reset state.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}
	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// String returns the trace line for the current CPU state: the PC, the
// three bytes of memory at the PC, and all registers.
func (cpu *Cpu) String() string {
	var text strings.Builder

	fmt.Fprintf(&text, "TRACE: %02X | %02X %02X %02X |",
		cpu.Pc,
		cpu.Memory.Data[(cpu.Pc+0)%MEMORY_SIZE],
		cpu.Memory.Data[(cpu.Pc+1)%MEMORY_SIZE],
		cpu.Memory.Data[(cpu.Pc+2)%MEMORY_SIZE],
	)

	for _, reg := range cpu.Register.Data {
		fmt.Fprintf(&text, " %02X", reg)
	}

	return text.String()
}

// Reset the CPU state.
// - Zeros memory, flags and statistics.
// - Clears the registers and sets SP to STACK_START.
// - Sets the PC to 0.
// - Rewinds the output channel.
//
// StackLimit is configuration and is kept.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Memory.Reset()
	cpu.Register.Reset()
	cpu.Pc = 0
	cpu.Flags = 0
	cpu.Halted = false
	cpu.Ticks = 0
	cpu.Faults = nil

	if cpu.Output != nil {
		cpu.Output.Rewind()
	}
}

// Load resets the CPU and copies a program image to address 0. The stack
// limit is raised to the end of the image, so pushes never overwrite code.
func (cpu *Cpu) Load(image []uint8) (err error) {
	cpu.Reset()

	err = cpu.Memory.Load(image)
	if err != nil {
		return
	}

	cpu.StackLimit = uint8(min(len(image), STACK_START))
	return
}

// Fetch reads the opcode at the PC, and the operand bytes that follow it.
func (cpu *Cpu) Fetch() (code Code, operands []uint8, err error) {
	value, err := cpu.Memory.Read(cpu.Pc)
	if err != nil {
		return
	}
	code = Code(value)

	count := code.OperandCount()
	if count > MAX_OPERANDS {
		err = errors.Join(ErrOpcodeArity, ErrUnsupportedOpcode)
		return
	}

	operands = make([]uint8, count)
	for n := range count {
		operands[n], err = cpu.Memory.Read(cpu.Pc + 1 + n)
		if err != nil {
			return
		}
	}

	return
}

// Tick executes a single CPU instruction cycle.
// Once halted, every further tick returns ErrHalted.
func (cpu *Cpu) Tick() (err error) {
	if cpu.Halted {
		err = ErrHalted
		return
	}

	code, operands, err := cpu.Fetch()
	if err != nil {
		err = errors.Join(ErrOpcode{Pc: cpu.Pc, Code: code}, err)
		return
	}

	err = cpu.Execute(code, operands)
	return
}

// Execute executes a single decoded instruction at the current PC.
// On error the PC is left on the failing instruction.
func (cpu *Cpu) Execute(code Code, operands []uint8) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode{Pc: cpu.Pc, Code: code}, err)
		}
	}()

	if cpu.Verbose {
		log.Printf("cpu: %02x: %v % x", cpu.Pc, code, operands)
	}

	if len(operands) != code.OperandCount() {
		err = errors.Join(ErrOpcodeArity, ErrUnsupportedOpcode)
		return
	}

	next_pc := cpu.nextPc(operands)

	switch code.Class() {
	case OP_ALU:
		err = cpu.alu(code, operands)
	case OP_PC:
		next_pc, err = cpu.dispatch(code, operands)
	case OP_HALT:
		if cpu.Verbose {
			log.Printf("cpu: halt")
		}
		cpu.Halted = true
		cpu.Ticks++
		return
	case OP_INST:
		next_pc, err = cpu.dispatch(code, operands)
	}

	err = cpu.fault(err)
	if err != nil {
		return
	}

	if next_pc >= MEMORY_SIZE {
		next_pc = 0
	}

	cpu.Pc = next_pc
	cpu.Ticks++

	return
}

// fault applies the stack fault policy. Unless the CPU is strict, stack
// overflow and underflow are logged, recorded in Faults, and execution
// continues.
func (cpu *Cpu) fault(err error) error {
	if err == nil || cpu.Strict {
		return err
	}

	if !errors.Is(err, ErrStackOverflow) && !errors.Is(err, ErrStackUnderflow) {
		return err
	}

	log.Printf("cpu: %02x: %v", cpu.Pc, err)
	cpu.Faults = append(cpu.Faults, err)

	return nil
}
