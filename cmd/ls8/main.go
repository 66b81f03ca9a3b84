// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"iter"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/emulator"
	"github.com/ezrec/ls8/translate"
)

var f = translate.From

var (
	ErrUsage = errors.New(f("usage: ls8 [options] <program>"))
)

// loadProgram reads a program file. Files ending in .asm are assembled,
// anything else is read as binary literals.
func loadProgram(path string, defines iter.Seq2[string, string]) (prog *cpu.Program, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	if filepath.Ext(path) != ".asm" {
		prog, err = cpu.LoadProgram(inf)
		return
	}

	asm := &cpu.Assembler{}
	for key, value := range defines {
		asm.Predefine(key, value)
	}
	prog, err = asm.Parse(inf)
	return
}

// run executes the command line. Usage errors return ErrUsage, leaving
// the exit status to main.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) (err error) {
	flags := flag.NewFlagSet(args[0], flag.ContinueOnError)
	flags.SetOutput(stderr)

	var verbose bool
	var trace bool
	var strict bool
	var ticks int
	var timeout time.Duration
	var lang string

	flags.BoolVar(&verbose, "v", false, "Verbose mode")
	flags.BoolVar(&trace, "t", false, "Trace every cycle to stderr")
	flags.BoolVar(&strict, "s", false, "Stop on stack overflow or underflow")
	flags.IntVar(&ticks, "n", emulator.DEFAULT_MAX_TICKS, "Maximum ticks, 0 for no limit")
	flags.DurationVar(&timeout, "timeout", 0, "Wall clock limit, 0 for no limit")
	flags.StringVar(&lang, "lang", "", "Message language (BCP 47) for runtime and syntax errors")

	err = flags.Parse(args[1:])
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			err = errors.Join(ErrUsage, err)
		}
		return
	}

	if flags.NArg() != 1 {
		fmt.Fprintln(stderr, ErrUsage)
		flags.PrintDefaults()
		err = ErrUsage
		return
	}

	if len(lang) != 0 {
		err = translate.SetLanguage(lang)
		if err != nil {
			return
		}
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.Strict = strict
	emu.MaxTicks = ticks
	emu.Tape.Output = stdout
	if trace {
		emu.Trace.Output = stderr
	}

	path := flags.Arg(0)
	emu.Program, err = loadProgram(path, emu.Defines())
	if err != nil {
		err = fmt.Errorf("%v: %w", path, err)
		return
	}

	err = emu.Reset()
	if err != nil {
		return
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	err = emu.Run(ctx)
	if err != nil {
		return
	}

	if verbose {
		log.Printf("ls8: halted after %d ticks", emu.Ticks())
	}

	return
}

func main() {
	err := run(context.Background(), os.Args, os.Stdout, os.Stderr)
	switch {
	case err == nil:
	case errors.Is(err, flag.ErrHelp):
		os.Exit(2)
	case errors.Is(err, ErrUsage):
		os.Exit(2)
	default:
		log.Fatalf("%v: %v", os.Args[0], err)
	}
}
