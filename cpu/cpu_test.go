package cpu

import (
	"bytes"
	"fmt"
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/ls8/io"
)

// runImage loads an image and ticks until halt, error, or limit.
func runImage(t *testing.T, image []uint8, limit int) (cp *Cpu, output string, err error) {
	cp = NewCpu()
	tape_output := &bytes.Buffer{}
	cp.Output = &io.Tape{Output: tape_output}

	assert.NoError(t, cp.Load(image))

	for range limit {
		err = cp.Tick()
		if err != nil || cp.Halted {
			break
		}
	}

	output = tape_output.String()
	return
}

func TestCpu_Reset(t *testing.T) {
	assert := assert.New(t)

	cp := NewCpu()
	assert.Equal(0, cp.Pc)
	assert.Equal(uint8(0), cp.Flags)
	assert.Equal(uint8(STACK_START), cp.Register.Data[SP])
	assert.False(cp.Halted)

	cp.Pc = 10
	cp.Flags = 3
	cp.Ticks = 7
	cp.Halted = true
	cp.Register.Data[0] = 42
	cp.Memory.Data[99] = 1
	cp.StackLimit = 12
	cp.Reset()

	assert.Equal(0, cp.Pc)
	assert.Equal(uint8(0), cp.Flags)
	assert.Equal(0, cp.Ticks)
	assert.False(cp.Halted)
	assert.Equal(uint8(0), cp.Register.Data[0])
	assert.Equal(uint8(0), cp.Memory.Data[99])
	assert.Equal(uint8(12), cp.StackLimit)
}

func TestCpu_PrintEight(t *testing.T) {
	assert := assert.New(t)

	image := []uint8{
		0b10000010, 0, 8, // LDI R0,8
		0b01000111, 0, // PRN R0
		0b00000001, // HLT
	}

	cp, output, err := runImage(t, image, 10)
	assert.NoError(err)
	assert.True(cp.Halted)
	assert.Equal("8\n", output)
	assert.Equal(3, cp.Ticks)
}

func TestCpu_Multiply(t *testing.T) {
	assert := assert.New(t)

	image := []uint8{
		uint8(LDI), 0, 5,
		uint8(LDI), 1, 6,
		uint8(MUL), 0, 1,
		uint8(PRN), 0,
		uint8(HLT),
	}

	cp, output, err := runImage(t, image, 10)
	assert.NoError(err)
	assert.True(cp.Halted)
	assert.Equal("30\n", output)
}

func TestCpu_Halt(t *testing.T) {
	assert := assert.New(t)

	cp, output, err := runImage(t, []uint8{uint8(HLT)}, 10)
	assert.NoError(err)
	assert.True(cp.Halted)
	assert.Equal(1, cp.Ticks)
	assert.Equal("", output)

	reset := NewCpu()
	reset.Memory.Data[0] = uint8(HLT)
	assert.Equal(reset.Register, cp.Register)
	assert.Equal(reset.Memory, cp.Memory)

	// Halted CPUs stay halted.
	err = cp.Tick()
	assert.ErrorIs(err, ErrHalted)
	assert.Equal(1, cp.Ticks)
}

func TestCpu_HaltWithOperands(t *testing.T) {
	assert := assert.New(t)

	// Identifier 0b0001 halts whatever the operand count.
	cp, _, err := runImage(t, []uint8{0b01000001, 0xff}, 10)
	assert.NoError(err)
	assert.True(cp.Halted)
}

func TestCpu_PcAdvance(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name    string
		program []uint8
		pc      int
	}){
		{"ldi", []uint8{uint8(LDI), 1, 2}, 3},
		{"prn", []uint8{uint8(PRN), 1}, 2},
		{"push", []uint8{uint8(PUSH), 1}, 2},
		{"pop", []uint8{uint8(POP), 1}, 2},
		{"add", []uint8{uint8(ADD), 1, 2}, 3},
		{"mul", []uint8{uint8(MUL), 1, 2}, 3},
	}

	for _, entry := range table {
		cp := NewCpu()
		cp.Output = &io.Tape{Output: &bytes.Buffer{}}
		assert.NoError(cp.Load(entry.program), entry.name)
		assert.NoError(cp.Tick(), entry.name)
		assert.Equal(entry.pc, cp.Pc, entry.name)
		assert.Equal(1, cp.Ticks, entry.name)
	}
}

func TestCpu_PcWrap(t *testing.T) {
	assert := assert.New(t)

	cp := NewCpu()
	cp.Memory.Data[253] = uint8(LDI)
	cp.Memory.Data[254] = 0
	cp.Memory.Data[255] = 9
	cp.Pc = 253

	assert.NoError(cp.Tick())
	assert.Equal(0, cp.Pc)
	assert.Equal(uint8(9), cp.Register.Data[0])

	cp.Pc = 254
	cp.Memory.Data[254] = uint8(PUSH)
	cp.Memory.Data[255] = 0
	assert.NoError(cp.Tick())
	assert.Equal(0, cp.Pc)
}

func TestCpu_OperandPastMemory(t *testing.T) {
	assert := assert.New(t)

	cp := NewCpu()
	cp.Memory.Data[255] = uint8(PRN)
	cp.Pc = 255

	err := cp.Tick()
	assert.ErrorIs(err, ErrOutOfBounds)
	assert.ErrorIs(err, ErrOpcode{})
	assert.Equal(255, cp.Pc)
}

func TestCpu_Jump(t *testing.T) {
	assert := assert.New(t)

	image := []uint8{
		uint8(LDI), 2, 7, // 0: LDI R2,7
		uint8(JMP), 2, // 3: JMP R2
		uint8(HLT), // 5: skipped
		uint8(HLT), // 6: skipped
		uint8(LDI), 0, 99, // 7: LDI R0,99
		uint8(PRN), 0, // 10: PRN R0
		uint8(HLT), // 12: HLT
	}

	cp := NewCpu()
	tape_output := &bytes.Buffer{}
	cp.Output = &io.Tape{Output: tape_output}
	assert.NoError(cp.Load(image))

	assert.NoError(cp.Tick())
	assert.Equal(3, cp.Pc)
	assert.NoError(cp.Tick())
	assert.Equal(7, cp.Pc)

	for !cp.Halted {
		assert.NoError(cp.Tick())
	}
	assert.Equal("99\n", tape_output.String())
	assert.Equal(12, cp.Pc)
}

func TestCpu_Unsupported(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name    string
		program []uint8
	}){
		{"alu_id", []uint8{uint8(MakeCodeAlu(CodeAluOp(0b1111), 2)), 0, 1}},
		{"alu_arity", []uint8{uint8(MakeCodeAlu(ALU_OP_ADD, 1)), 0}},
		{"inst_id", []uint8{uint8(MakeCodeInst(CodeInstOp(0b0000), 0))}},
		{"inst_arity", []uint8{uint8(MakeCodeInst(INST_OP_LDI, 1)), 0}},
		{"pc_id", []uint8{uint8(MakeCodePc(CodePcOp(0b0000), 1)), 0}},
		{"pc_arity", []uint8{uint8(MakeCodePc(PC_OP_JMP, 0))}},
		{"operands_3", []uint8{0b11000010, 0, 0, 0}},
	}

	for _, entry := range table {
		cp, _, err := runImage(t, entry.program, 1)
		assert.ErrorIs(err, ErrUnsupportedOpcode, entry.name)
		assert.ErrorIs(err, ErrOpcode{}, entry.name)
		assert.Equal(0, cp.Pc, entry.name)
		assert.Equal(0, cp.Ticks, entry.name)
		assert.False(cp.Halted, entry.name)
	}
}

func TestCpu_BadRegister(t *testing.T) {
	assert := assert.New(t)

	_, _, err := runImage(t, []uint8{uint8(LDI), 8, 1}, 1)
	assert.ErrorIs(err, ErrOutOfBounds)

	_, _, err = runImage(t, []uint8{uint8(ADD), 0, 200}, 1)
	assert.ErrorIs(err, ErrOutOfBounds)
	assert.ErrorIs(err, ErrOpcodeAlu)
}

func TestCpu_PrnWithoutChannel(t *testing.T) {
	assert := assert.New(t)

	cp := NewCpu()
	assert.NoError(cp.Load([]uint8{uint8(PRN), 0}))
	err := cp.Tick()
	assert.ErrorIs(err, ErrChannelInvalid)
}

func TestCpu_LdiPrn(t *testing.T) {
	assert := assert.New(t)

	for reg := range REGISTER_COUNT - 1 {
		for _, value := range []uint8{0, 1, 127, 128, 255} {
			image := []uint8{uint8(LDI), uint8(reg), value, uint8(PRN), uint8(reg), uint8(HLT)}
			_, output, err := runImage(t, image, 10)
			assert.NoError(err)
			assert.Equal(fmt.Sprintf("%d\n", value), output)
		}
	}
}

func TestCpu_Execute(t *testing.T) {
	assert := assert.New(t)

	cp := NewCpu()
	cp.Register.Data[3] = 4

	err := cp.Execute(ADD, []uint8{3, 3})
	assert.NoError(err)
	assert.Equal(uint8(8), cp.Register.Data[3])
	assert.Equal(3, cp.Pc)

	// Operand slice must match the operand count.
	err = cp.Execute(ADD, []uint8{3})
	assert.ErrorIs(err, ErrOpcodeArity)
	assert.Equal(3, cp.Pc)
}

func TestCpu_String(t *testing.T) {
	assert := assert.New(t)

	cp := NewCpu()
	assert.NoError(cp.Load([]uint8{0x82, 0x00, 0x08}))
	cp.Register.Data[1] = 0xab

	assert.Equal("TRACE: 00 | 82 00 08 | 00 AB 00 00 00 00 00 F4", cp.String())

	cp.Pc = 255
	assert.Equal("TRACE: FF | 00 82 00 | 00 AB 00 00 00 00 00 F4", cp.String())
}

func TestCpu_Defines(t *testing.T) {
	assert := assert.New(t)

	cp := NewCpu()
	defines := maps.Collect(cp.Defines())

	assert.Equal("R7", defines["SP"])
	assert.Equal("0xf4", defines["STACK_START"])
	assert.Equal("256", defines["MEMORY_SIZE"])
	assert.Equal("0x82", defines["OP_LDI"])
	assert.Equal("0x1", defines["OP_HLT"])
}
