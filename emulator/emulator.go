// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator runs LS8 programs: a CPU, its console, and the program
// listing the CPU was loaded from.
package emulator

import (
	"context"
	"fmt"
	goio "io"
	"iter"
	"maps"

	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/internal"
	"github.com/ezrec/ls8/io"
)

var _emulator_defines = map[string]string{
	"MEMORY_SIZE":    fmt.Sprintf("%v", cpu.MEMORY_SIZE),
	"REGISTER_COUNT": fmt.Sprintf("%v", cpu.REGISTER_COUNT),
}

// Emulator state. CPU + console + program listing.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	Strict   bool         // If set, unsupported opcodes are fatal.
	Wrap     bool         // If set, registers are masked to 8 bits.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.

	Terminal io.Terminal // Console for the PRN instruction.
}

// NewEmulator creates a new emulator printing to output.
func NewEmulator(output goio.Writer) (emu *Emulator) {
	emu = &Emulator{
		Program: &cpu.Program{},
	}

	emu.Terminal.Output = output
	emu.Cpu = cpu.NewCpu(&emu.Terminal)

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		cpu.Defines(),
	)
}

// Reset the CPU, and load the program into memory.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Strict = emu.Strict
	emu.Cpu.Wrap = emu.Wrap

	emu.Cpu.Reset()
	emu.Terminal.Lines = 0

	err = emu.Cpu.Load(emu.Program.Binary())
	return
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Pc returns current program counter.
func (emu *Emulator) Pc() int {
	return emu.Cpu.Pc
}

// Instruction returns the instruction at the current program counter.
func (emu *Emulator) Instruction() (in cpu.Instruction, err error) {
	in, err = emu.Cpu.Fetch()
	return
}

// LineNo returns the current line number for the executing instruction.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.Pc)
	if dbg.Line == nil {
		return 0
	}

	return dbg.LineNo
}

// wrapErr attaches the source location of pc to err.
func (emu *Emulator) wrapErr(pc int, lineno int, err error) error {
	if err == nil {
		return nil
	}
	return &ErrRuntime{LineNo: lineno, Pc: pc, Err: err}
}

// Tick performs a single tick of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	emu.Cpu.Verbose = emu.Verbose

	if emu.Cpu.State == cpu.STATE_HALTED {
		done = true
		return
	}

	pc := emu.Cpu.Pc
	lineno := emu.LineNo()

	err = emu.wrapErr(pc, lineno, emu.Cpu.Tick())
	if err != nil {
		return
	}

	done = emu.Cpu.State == cpu.STATE_HALTED
	return
}

// Run executes the program until it halts.
// A positive steps limits the number of instructions executed.
func (emu *Emulator) Run(ctx context.Context, steps int) (err error) {
	for n := 0; ; n++ {
		if steps > 0 && n >= steps {
			err = emu.wrapErr(emu.Cpu.Pc, emu.LineNo(), cpu.ErrStepLimit)
			return
		}

		err = ctx.Err()
		if err != nil {
			return
		}

		var done bool
		done, err = emu.Tick()
		if err != nil || done {
			return
		}
	}
}
