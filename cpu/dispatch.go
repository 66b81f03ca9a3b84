package cpu

import (
	"errors"
)

// Instruction is an entry in the instruction or set-PC dispatch tables.
type Instruction struct {
	Name  string // Mnemonic.
	Arity int    // Operand bytes consumed.

	// Exec runs the instruction. For set-PC instructions the returned
	// address replaces the automatic PC advance.
	Exec func(cpu *Cpu, operands []uint8) (next_pc int, err error)
}

// instTable is indexed by the opcode identifier. HALT_ID is never looked
// up, as HLT is decoded before dispatch.
var instTable = [ID_MASK + 1]*Instruction{
	INST_OP_LDI:  {Name: "LDI", Arity: 2, Exec: (*Cpu).execLdi},
	INST_OP_PUSH: {Name: "PUSH", Arity: 1, Exec: (*Cpu).execPush},
	INST_OP_POP:  {Name: "POP", Arity: 1, Exec: (*Cpu).execPop},
	INST_OP_PRN:  {Name: "PRN", Arity: 1, Exec: (*Cpu).execPrn},
}

// pcTable holds the instructions that set the PC themselves.
var pcTable = [ID_MASK + 1]*Instruction{
	PC_OP_JMP: {Name: "JMP", Arity: 1, Exec: (*Cpu).execJmp},
}

// LookupInstruction returns the dispatch table entry for a non-ALU opcode.
func LookupInstruction(code Code) (inst *Instruction, ok bool) {
	switch code.Class() {
	case OP_INST:
		inst = instTable[code.Id()]
	case OP_PC:
		inst = pcTable[code.Id()]
	}

	ok = inst != nil
	return
}

// dispatch runs a non-ALU instruction, returning the address of the next
// instruction.
func (cpu *Cpu) dispatch(code Code, operands []uint8) (next_pc int, err error) {
	class_err := ErrOpcodeOp
	if code.Class() == OP_PC {
		class_err = ErrOpcodePc
	}

	inst, ok := LookupInstruction(code)
	if !ok {
		err = errors.Join(class_err, ErrUnsupportedOpcode)
		return
	}

	if len(operands) != inst.Arity {
		err = errors.Join(class_err, ErrOpcodeArity, ErrUnsupportedOpcode)
		return
	}

	next_pc, err = inst.Exec(cpu, operands)
	return
}

// nextPc is the address following the current instruction.
func (cpu *Cpu) nextPc(operands []uint8) int {
	return cpu.Pc + len(operands) + 1
}

// execLdi loads an immediate into a register.
func (cpu *Cpu) execLdi(operands []uint8) (next_pc int, err error) {
	next_pc = cpu.nextPc(operands)
	err = cpu.Register.Set(int(operands[0]), operands[1])
	return
}

// execPrn sends a register to the tape channel.
func (cpu *Cpu) execPrn(operands []uint8) (next_pc int, err error) {
	next_pc = cpu.nextPc(operands)

	value, err := cpu.Register.Get(int(operands[0]))
	if err != nil {
		return
	}

	if cpu.Output == nil {
		err = ErrChannelInvalid
		return
	}

	err = cpu.Output.Send(value)
	return
}

func (cpu *Cpu) execPush(operands []uint8) (next_pc int, err error) {
	next_pc = cpu.nextPc(operands)
	err = cpu.Push(int(operands[0]))
	return
}

func (cpu *Cpu) execPop(operands []uint8) (next_pc int, err error) {
	next_pc = cpu.nextPc(operands)
	err = cpu.Pop(int(operands[0]))
	return
}

// execJmp moves the PC to the address held in a register.
func (cpu *Cpu) execJmp(operands []uint8) (next_pc int, err error) {
	value, err := cpu.Register.Get(int(operands[0]))
	if err != nil {
		return
	}

	next_pc = int(value)
	return
}
