// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = func() (equ map[string]string) {
	equ = maps.Clone(_cpu_defines)
	equ["LINENO"] = "0"
	return
}()

var (
	reParen    = regexp.MustCompile(`\$\([^\$]*\)`)
	reRegister = regexp.MustCompile(`^[Rr][0-9]+$`)
	reLabel    = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// Assembler is a single pass assembler for the LS-8 system.
//
// Each line is `[label:]... MNEMONIC [arg[, arg]]`, where an argument is a
// register (r0-r7), a number, an equate, a label, or a `$(...)` expression.
// Comments start with ';' or '#'.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of labels to addresses.
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the byte value of a number. Negative numbers down to
// -128 are stored as two's complement.
func (asm *Assembler) valueOf(word string) (value uint8, err error) {
	v64, err := strconv.ParseInt(word, 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	if v64 > 0xff || v64 < -0x80 {
		err = ErrValueRange
		return
	}

	value = uint8(v64)
	return
}

// registerOf returns the index of a register name.
func registerOf(word string) (index uint8, ok bool, err error) {
	if !reRegister.MatchString(word) {
		return
	}

	ok = true
	n, err := strconv.Atoi(word[1:])
	if err != nil || n >= REGISTER_COUNT {
		err = ErrRegisterInvalid
		return
	}

	index = uint8(n)
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		v64, perr := strconv.ParseInt(str, 0, 64)
		if perr != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	// Labels defined so far are also usable.
	for key, address := range asm.Label {
		pred[key] = starlark.MakeInt(address)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// splitWords splits a line on whitespace and commas.
func splitWords(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return unicode.IsSpace(r) || r == ','
	})
}

// parseLine parses a single line into words, handling expressions,
// equates and labels.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	line = reParen.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	words = splitWords(line)

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		asm.Label[label] = asm.currentAddress()
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	return
}

// currentAddress gets the address of the next emitted byte.
func (asm *Assembler) currentAddress() int {
	if len(asm.Opcode) == 0 {
		return 0
	}

	last := asm.Opcode[len(asm.Opcode)-1]

	return last.Address + len(last.Bytes)
}

// Parse parses an input stream into a Program containing opcodes.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Label = make(map[string]int, 16)
	asm.Opcode = asm.Opcode[:0]
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		if n := strings.IndexAny(text, ";#"); n >= 0 {
			text = text[:n]
		}
		line = strings.TrimSpace(text)

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if asm.currentAddress() > MEMORY_SIZE {
		err = ErrProgramSize
		return
	}

	// Final linking of labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		for _, link := range op.Links {
			address, ok := asm.Label[link.Label]
			if !ok {
				lineno = op.LineNo
				line = strings.Join(op.Words, " ")
				err = ErrLabelMissing(link.Label)
				return
			}
			op.Bytes[link.Index] = uint8(address)
		}
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}

// operand encodes a single argument word, returning the link label if
// the word is a label to be resolved after parsing.
func (asm *Assembler) operand(word string) (value uint8, label string, is_reg bool, err error) {
	value, is_reg, err = registerOf(word)
	if is_reg || err != nil {
		return
	}

	value, err = asm.valueOf(word)
	if err == nil {
		return
	}

	if _, is_num := err.(ErrParseNumber); is_num && reLabel.MatchString(word) {
		err = nil
		label = word
	}

	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	// no-op
	if len(words) == 0 {
		return
	}

	var bytes []uint8
	var links []Link

	var args []string
	var kinds []OperandKind
	mnemonic := strings.ToUpper(words[0])

	switch mnemonic {
	case ".DB":
		args = words[1:]
		if len(args) == 0 {
			err = ErrOpcodeArgs
			return
		}
	default:
		code, ok := mnemonics[mnemonic]
		if !ok {
			err = ErrOpcodeInvalid
			return
		}
		args = words[1:]
		if len(args) != code.OperandCount() {
			err = ErrOpcodeArgs
			return
		}
		kinds, _ = code.OperandKinds()
		bytes = append(bytes, uint8(code))
	}

	for n, arg := range args {
		var value uint8
		var label string
		var is_reg bool
		value, label, is_reg, err = asm.operand(arg)
		if err != nil {
			return
		}
		if n < len(kinds) {
			switch {
			case kinds[n] == OPERAND_REGISTER && !is_reg:
				err = ErrRegisterInvalid
				return
			case kinds[n] == OPERAND_IMMEDIATE && is_reg:
				err = ErrOpcodeArgs
				return
			}
		}
		if len(label) != 0 {
			links = append(links, Link{Index: len(bytes), Label: label})
		}
		bytes = append(bytes, value)
	}

	opcode := Opcode{
		LineNo:  lineno,
		Address: asm.currentAddress(),
		Words:   words,
		Bytes:   bytes,
		Links:   links,
	}
	asm.Opcode = append(asm.Opcode, opcode)

	return
}
