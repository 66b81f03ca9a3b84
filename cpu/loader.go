package cpu

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

const (
	BINARY_WIDTH = 8 // Characters of a binary literal line.
)

// LoadProgram reads a binary literal program: one byte per line, written
// as the first eight characters of the line in base 2. Blank lines, and
// lines starting with '#', are skipped. Anything after the literal is
// ignored.
func LoadProgram(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
			prog = nil
		}
	}()

	prog = &Program{}
	address := 0

	for scanner.Scan() {
		lineno += 1
		line = strings.TrimSpace(scanner.Text())

		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}

		if len(line) < BINARY_WIDTH {
			err = ErrParseBinary
			return
		}

		literal := line[:BINARY_WIDTH]
		var value uint64
		value, err = strconv.ParseUint(literal, 2, 8)
		if err != nil {
			err = ErrParseBinary
			return
		}

		if address >= MEMORY_SIZE {
			err = ErrProgramSize
			return
		}

		prog.Opcodes = append(prog.Opcodes, Opcode{
			LineNo:  lineno,
			Address: address,
			Words:   []string{literal},
			Bytes:   []uint8{uint8(value)},
		})
		address++
	}

	err = scanner.Err()
	return
}
