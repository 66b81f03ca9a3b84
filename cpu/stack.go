package cpu

// Push copies a register onto the stack. The stack grows down from
// STACK_START and may not reach below StackLimit; an overflowing push
// leaves both memory and SP untouched.
func (cpu *Cpu) Push(reg int) (err error) {
	value, err := cpu.Register.Get(reg)
	if err != nil {
		return
	}

	sp := cpu.Register.Data[SP]
	if sp <= cpu.StackLimit {
		err = ErrStackOverflow
		return
	}

	sp--
	err = cpu.Memory.Write(int(sp), value)
	if err != nil {
		return
	}
	cpu.Register.Data[SP] = sp

	return
}

// Pop copies the top of the stack into a register. Popping past
// STACK_START still performs the register write, then resets SP to
// STACK_START and reports ErrStackUnderflow.
func (cpu *Cpu) Pop(reg int) (err error) {
	sp := cpu.Register.Data[SP]

	value, err := cpu.Memory.Read(int(sp))
	if err != nil {
		return
	}

	err = cpu.Register.Set(reg, value)
	if err != nil {
		return
	}

	// Re-read SP, as reg may have been SP itself.
	next := int(cpu.Register.Data[SP]) + 1
	if next > STACK_START {
		cpu.Register.Data[SP] = STACK_START
		err = ErrStackUnderflow
		return
	}
	cpu.Register.Data[SP] = uint8(next)

	return
}

// StackDepth returns the number of bytes currently on the stack.
func (cpu *Cpu) StackDepth() int {
	return STACK_START - int(cpu.Register.Data[SP])
}
