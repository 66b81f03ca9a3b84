package cpu

import (
	"errors"
	"log"
)

// AluOp is an entry in the ALU dispatch table.
type AluOp struct {
	Name  string                 // Mnemonic.
	Arity int                    // Register operands consumed.
	Do    func(a, b uint8) uint8 // Result, stored back into the first register.
}

// aluTable is indexed by the opcode identifier. Empty slots are
// unsupported operations.
var aluTable = [ID_MASK + 1]*AluOp{
	ALU_OP_ADD: {Name: "ADD", Arity: 2, Do: func(a, b uint8) uint8 { return a + b }},
	ALU_OP_MUL: {Name: "MUL", Arity: 2, Do: func(a, b uint8) uint8 { return a * b }},
}

// LookupAlu returns the ALU table entry for an opcode.
func LookupAlu(code Code) (op *AluOp, ok bool) {
	op = aluTable[code.Id()]
	ok = op != nil
	return
}

// alu performs the ALU operation selected by code on the registers named
// by operands.
func (cpu *Cpu) alu(code Code, operands []uint8) (err error) {
	op, ok := LookupAlu(code)
	if !ok {
		err = errors.Join(ErrOpcodeAlu, ErrUnsupportedOpcode)
		return
	}

	if len(operands) != op.Arity {
		err = errors.Join(ErrOpcodeAlu, ErrOpcodeArity, ErrUnsupportedOpcode)
		return
	}

	reg_a := int(operands[0])
	a, err := cpu.Register.Get(reg_a)
	if err != nil {
		err = errors.Join(ErrOpcodeAlu, err)
		return
	}

	var b uint8
	if op.Arity > 1 {
		b, err = cpu.Register.Get(int(operands[1]))
		if err != nil {
			err = errors.Join(ErrOpcodeAlu, err)
			return
		}
	}

	if cpu.Verbose {
		log.Printf("cpu: alu %v r%d=%d r%d=%d", op.Name, reg_a, a, operands[len(operands)-1], b)
	}

	err = cpu.Register.Set(reg_a, op.Do(a, b))
	return
}
