package cpu

import (
	"errors"

	"github.com/ezrec/ls8/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrHalted         = errors.New(f("halted"))
	ErrStackOverflow  = errors.New(f("stack overflow"))
	ErrStackUnderflow = errors.New(f("stack underflow"))
	ErrOutOfBounds    = errors.New(f("out of bounds"))
	ErrChannelInvalid = errors.New(f("channel invalid"))
	ErrProgramSize    = errors.New(f("program larger than memory"))

	// Instruction decode errors
	ErrUnsupportedOpcode = errors.New(f("unsupported opcode"))
	ErrOpcodeAlu         = errors.New(f("alu"))
	ErrOpcodePc          = errors.New(f("pc"))
	ErrOpcodeOp          = errors.New(f("op"))
	ErrOpcodeArity       = errors.New(f("operand count"))

	// Loader errors
	ErrParseBinary = errors.New(f("not an 8 bit binary literal"))

	// Assembler errors
	ErrEquateSyntax    = errors.New(f(".equ syntax"))
	ErrEquateDuplicate = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate  = errors.New(f("label duplicated"))
	ErrOpcodeInvalid   = errors.New(f("opcode invalid"))
	ErrOpcodeArgs      = errors.New(f("wrong number of arguments"))
	ErrRegisterInvalid = errors.New(f("register invalid"))
	ErrValueRange      = errors.New(f("value out of byte range"))
)

// ErrOpcode identifies the instruction that failed to execute.
type ErrOpcode struct {
	Pc   int
	Code Code
}

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0x%02x %v at 0x%02x", uint8(eo.Code), eo.Code.String(), eo.Pc)
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

// ErrAddress is a memory address that was out of range.
type ErrAddress int

func (ea ErrAddress) Error() string {
	return f("address 0x%x", int(ea))
}

// ErrRegister is a register index that was out of range.
type ErrRegister int

func (er ErrRegister) Error() string {
	return f("register r%d", int(er))
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
