package cpu

import (
	"fmt"
	"maps"
	"slices"
)

// Opcode bitfields.
const (
	OPERAND_SHIFT = 6           // Operand count lives in the top two bits.
	ALU_BIT       = 0b0010_0000 // Route to the ALU table.
	PC_BIT        = 0b0001_0000 // Instruction sets the PC itself.
	ID_MASK       = 0b0000_1111 // Dispatch table index.

	HALT_ID      = 0b0001 // Identifier reserved for HLT.
	MAX_OPERANDS = 2      // Operand count 3 is not a valid encoding.
)

// CodeClass is the dispatch class of an opcode.
type CodeClass int

const (
	OP_INST = CodeClass(0) // inst
	OP_ALU  = CodeClass(1) // alu
	OP_PC   = CodeClass(2) // pc
	OP_HALT = CodeClass(3) // halt
)

var _CodeClass_name = [...]string{"inst", "alu", "pc", "halt"}

func (cc CodeClass) String() string {
	if cc < 0 || int(cc) >= len(_CodeClass_name) {
		return fmt.Sprintf("CodeClass(%d)", int(cc))
	}
	return _CodeClass_name[cc]
}

// CodeAluOp is an ALU table identifier.
type CodeAluOp uint8

const (
	ALU_OP_ADD = CodeAluOp(0b0000) // add
	ALU_OP_MUL = CodeAluOp(0b0010) // mul
)

// CodeInstOp is an instruction table identifier.
type CodeInstOp uint8

const (
	INST_OP_LDI  = CodeInstOp(0b0010) // ldi
	INST_OP_PUSH = CodeInstOp(0b0101) // push
	INST_OP_POP  = CodeInstOp(0b0110) // pop
	INST_OP_PRN  = CodeInstOp(0b0111) // prn
)

// CodePcOp is a set-PC table identifier.
type CodePcOp uint8

const (
	PC_OP_JMP = CodePcOp(0b0100) // jmp
)

// Code is a single opcode byte.
type Code uint8

// Complete opcode encodings.
const (
	HLT  = Code(0b00000001)
	LDI  = Code(0b10000010)
	PRN  = Code(0b01000111)
	PUSH = Code(0b01000101)
	POP  = Code(0b01000110)
	ADD  = Code(0b10100000)
	MUL  = Code(0b10100010)
	JMP  = Code(0b01010100)
)

// mnemonics maps assembler names to opcodes.
var mnemonics = map[string]Code{
	"HLT":  HLT,
	"LDI":  LDI,
	"PRN":  PRN,
	"PUSH": PUSH,
	"POP":  POP,
	"ADD":  ADD,
	"MUL":  MUL,
	"JMP":  JMP,
}

// OperandKind is what an assembler argument must encode.
type OperandKind int

const (
	OPERAND_REGISTER  = OperandKind(0) // register
	OPERAND_IMMEDIATE = OperandKind(1) // immediate
)

var _OperandKind_name = [...]string{"register", "immediate"}

func (kind OperandKind) String() string {
	if kind < 0 || int(kind) >= len(_OperandKind_name) {
		return fmt.Sprintf("OperandKind(%d)", int(kind))
	}
	return _OperandKind_name[kind]
}

// operandKinds lists the operand kinds of each named opcode, in order.
var operandKinds = map[Code][]OperandKind{
	HLT:  {},
	LDI:  {OPERAND_REGISTER, OPERAND_IMMEDIATE},
	PRN:  {OPERAND_REGISTER},
	PUSH: {OPERAND_REGISTER},
	POP:  {OPERAND_REGISTER},
	ADD:  {OPERAND_REGISTER, OPERAND_REGISTER},
	MUL:  {OPERAND_REGISTER, OPERAND_REGISTER},
	JMP:  {OPERAND_REGISTER},
}

// OperandKinds returns the operand kinds of a named opcode.
func (code Code) OperandKinds() (kinds []OperandKind, ok bool) {
	kinds, ok = operandKinds[code]
	return
}

var codeNames = func() (names map[Code]string) {
	names = make(map[Code]string, len(mnemonics))
	for name, code := range mnemonics {
		names[code] = name
	}
	return
}()

// Mnemonics returns the sorted list of assembler mnemonics.
func Mnemonics() []string {
	return slices.Sorted(maps.Keys(mnemonics))
}

// makeCode assembles the opcode bitfields.
func makeCode(operands int, flags uint8, id uint8) Code {
	return Code((uint8(operands) << OPERAND_SHIFT) | flags | (id & ID_MASK))
}

// MakeCodeAlu creates an ALU opcode.
func MakeCodeAlu(op CodeAluOp, operands int) Code {
	return makeCode(operands, ALU_BIT, uint8(op))
}

// MakeCodeInst creates an instruction table opcode.
func MakeCodeInst(op CodeInstOp, operands int) Code {
	return makeCode(operands, 0, uint8(op))
}

// MakeCodePc creates a set-PC opcode.
func MakeCodePc(op CodePcOp, operands int) Code {
	return makeCode(operands, PC_BIT, uint8(op))
}

// OperandCount returns the number of operand bytes following the opcode.
func (code Code) OperandCount() int {
	return int(code >> OPERAND_SHIFT)
}

// IsAlu returns true if the opcode routes to the ALU.
func (code Code) IsAlu() bool {
	return (code & ALU_BIT) != 0
}

// SetsPc returns true if the opcode moves the PC itself.
func (code Code) SetsPc() bool {
	return (code & PC_BIT) != 0
}

// Id returns the dispatch table identifier.
func (code Code) Id() uint8 {
	return uint8(code & ID_MASK)
}

// Class returns the dispatch class. The ALU bit wins over the set-PC bit,
// and HLT is only recognised when neither is set.
func (code Code) Class() CodeClass {
	switch {
	case code.IsAlu():
		return OP_ALU
	case code.SetsPc():
		return OP_PC
	case code.Id() == HALT_ID:
		return OP_HALT
	default:
		return OP_INST
	}
}

// String returns the mnemonic, or the decoded fields of an unnamed opcode.
func (code Code) String() string {
	name, ok := codeNames[code]
	if ok {
		return name
	}

	return fmt.Sprintf("%v.%x/%d", code.Class(), code.Id(), code.OperandCount())
}
