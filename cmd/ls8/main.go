// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"maps"
	"os"
	"os/signal"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/emulator"
)

func main() {
	var assemble bool
	var list bool
	var defines bool
	var strict bool
	var wrap bool
	var trace bool
	var verbose bool
	var steps int
	predefine := map[string]string{}

	flag.BoolVar(&assemble, "a", false, "Program is LS8 assembly, not a binary listing")
	flag.BoolVar(&list, "l", false, "List the disassembled program, do not execute")
	flag.BoolVar(&defines, "defines", false, "Print the assembler predefines, and exit")
	flag.BoolVar(&strict, "strict", false, "Unsupported opcodes are fatal")
	flag.BoolVar(&wrap, "wrap", false, "Mask register values to 8 bits")
	flag.BoolVar(&trace, "trace", false, "Print a trace line before each instruction")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.IntVar(&steps, "steps", 0, "Maximum instructions to execute (0 is unlimited)")
	flag.Func("D", "Assembler predefine NAME=VALUE", func(arg string) error {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || len(name) == 0 {
			return errors.New("expected NAME=VALUE")
		}
		predefine[name] = value
		return nil
	})

	flag.Parse()

	emu := emulator.NewEmulator(os.Stdout)

	if defines {
		all := maps.Collect(emu.Defines())
		for _, name := range slices.Sorted(maps.Keys(all)) {
			fmt.Printf("%v=%v\n", name, all[name])
		}
		return
	}

	if flag.NArg() != 1 {
		log.Fatalf("%v: expected one program file, got %v", os.Args[0], flag.Args())
	}

	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	filename := flag.Arg(0)
	inf, err := os.Open(filename)
	if err != nil {
		log.Fatalf("%v: %v", filename, err)
	}
	defer inf.Close()

	var prog *cpu.Program
	if assemble {
		asm := &cpu.Assembler{Verbose: verbose}
		for name, value := range predefine {
			asm.Predefine(name, value)
		}
		prog, err = asm.Parse(inf)
	} else {
		ld := &cpu.Loader{Verbose: verbose}
		prog, err = ld.Parse(inf)
	}
	if err != nil {
		log.Fatalf("%v: %v", filename, err)
	}

	if list {
		for address, in := range prog.Disassemble() {
			var source string
			if dbg := prog.Debug(address); dbg.Line != nil {
				source = dbg.Text
			}
			fmt.Printf("%02X: %-12v ; %v\n", address, in.String(), source)
		}
		return
	}

	emu.Program = prog
	emu.Verbose = verbose
	emu.Strict = strict
	emu.Wrap = wrap

	err = emu.Reset()
	if err != nil {
		log.Fatalf("%v: %v", filename, err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if !trace {
		err = emu.Run(ctx, steps)
		if err != nil {
			log.Fatalf("%v: %v", filename, err)
		}
		return
	}

	for n := 0; steps <= 0 || n < steps; n++ {
		fmt.Fprintln(os.Stderr, emu.Cpu.Trace())
		done, err := emu.Tick()
		if err != nil {
			log.Fatalf("%v: %v", filename, err)
		}
		if done {
			return
		}
		if ctx.Err() != nil {
			log.Fatalf("%v: %v", filename, ctx.Err())
		}
	}
	log.Fatalf("%v: %v", filename, cpu.ErrStepLimit)
}
