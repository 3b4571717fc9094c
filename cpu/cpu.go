package cpu

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ezrec/ls8/io"
)

// Console is the device the PRN instruction prints to.
type Console io.Console

// State is the execution state of the CPU.
type State int

const (
	STATE_RUNNING = State(0)
	STATE_HALTED  = State(1)
)

func (st State) String() string {
	switch st {
	case STATE_RUNNING:
		return "running"
	case STATE_HALTED:
		return "halted"
	}
	return fmt.Sprintf("State(%d)", int(st))
}

// Cpu is the simulation context for the LS8 processor.
type Cpu struct {
	Verbose bool // Set to enable per-cycle debug logging.
	Strict  bool // Set to fail on unsupported opcodes, instead of skipping them.
	Wrap    bool // Set to mask every register write to 8 bits.

	Log     logrus.FieldLogger // Diagnostic logger. nil uses the logrus standard logger.
	Console Console            // PRN output device.

	Pc       int          // Program counter.
	Memory   Memory       // Memory bank.
	Register RegisterFile // Register bank.
	Flags    Flags        // Condition flags, set by CMP.
	State    State        // Execution state.

	Ticks int // Instructions executed since reset.
}

// NewCpu creates a new CPU printing to console.
// A nil console prints to standard output.
func NewCpu(console Console) (cpu *Cpu) {
	if console == nil {
		console = &io.Terminal{Output: os.Stdout}
	}

	cpu = &Cpu{
		Console: console,
	}

	return
}

// loggerOf returns log, or the logrus standard logger if log is nil.
func loggerOf(log logrus.FieldLogger) logrus.FieldLogger {
	if log == nil {
		return logrus.StandardLogger()
	}
	return log
}

func (cpu *Cpu) logger() logrus.FieldLogger {
	return loggerOf(cpu.Log)
}

// Reset the CPU state.
// - Clears memory, registers and flags.
// - Zeros the statistics counter.
// - Sets the PC to 0 and the state to running.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		cpu.logger().Debug("cpu: reset")
	}

	cpu.Memory.Reset()
	cpu.Register.Reset()
	cpu.Flags = 0
	cpu.Pc = 0
	cpu.State = STATE_RUNNING
	cpu.Ticks = 0
}

// Load writes a program image into memory, starting at address 0.
func (cpu *Cpu) Load(image []byte) (err error) {
	if len(image) > MEMORY_SIZE {
		err = ErrProgramSize
		return
	}

	err = cpu.Memory.Load(0, image)
	return
}

// Trace returns a single line dump of the PC, the next three memory bytes,
// and the register bank.
func (cpu *Cpu) Trace() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "TRACE: %02X | %02X %02X %02X |", cpu.Pc,
		cpu.peek(0), cpu.peek(1), cpu.peek(2))
	for _, value := range cpu.Register.Data {
		fmt.Fprintf(&sb, " %02X", value)
	}

	return sb.String()
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	regs := []string{
		"pc",
		"state",
		"flags",
		"r0", "r1", "r2", "r3", "r4", "r5", "r6", "r7",
	}
	for _, reg := range regs {
		var strval string
		switch reg {
		case "pc":
			strval = fmt.Sprintf("%02X", cpu.Pc)
		case "state":
			strval = cpu.State.String()
		case "flags":
			strval = fmt.Sprintf("%03b", byte(cpu.Flags&FLAG_MASK))
		default:
			val := cpu.Register.Data[byte(reg[1]-'0')]
			strval = fmt.Sprintf("%02X (%d)", val, val)
		}
		text += fmt.Sprintf("% 5s: %v\n", reg, strval)
	}

	return
}

// peek returns the memory byte at offset from the PC, wrapping at the end
// of memory.
func (cpu *Cpu) peek(offset int) (value byte) {
	value, _ = cpu.Memory.Read((cpu.Pc + offset) % MEMORY_SIZE)
	return
}

// Fetch reads the opcode at the PC and the two bytes following it, and
// decodes them.
//
// The operand bytes are always read, whether or not the opcode uses them.
// Addresses wrap at the end of memory.
func (cpu *Cpu) Fetch() (in Instruction, err error) {
	var code [3]byte
	for n := range code {
		code[n], err = cpu.Memory.Read((cpu.Pc + n) % MEMORY_SIZE)
		if err != nil {
			return
		}
	}

	in = Decode(code[0], code[1], code[2])
	return
}

// Tick executes a single CPU instruction cycle.
func (cpu *Cpu) Tick() (err error) {
	if cpu.State == STATE_HALTED {
		err = ErrHalted
		return
	}

	in, err := cpu.Fetch()
	if err != nil {
		return
	}

	if cpu.Verbose {
		cpu.logger().WithFields(logrus.Fields{
			"pc":     cpu.Pc,
			"opcode": fmt.Sprintf("%02x", byte(in.Opcode)),
		}).Debug(cpu.Trace())
	}

	err = cpu.Execute(in)
	return
}

// Execute executes a single decoded instruction at the current PC, then
// advances the PC past it.
func (cpu *Cpu) Execute(in Instruction) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrInstruction{Pc: cpu.Pc, Instruction: in}, err)
		}
	}()

	switch op := in.Operation.(type) {
	case nil:
		if cpu.Strict {
			err = ErrOpcodeUnsupported
			return
		}
		cpu.logger().WithFields(logrus.Fields{
			"pc":     cpu.Pc,
			"opcode": fmt.Sprintf("%02x", byte(in.Opcode)),
		}).Warn(f("unsupported operation"))
	case AluOperation:
		err = cpu.Alu(op.Op, op.RegA, op.RegB)
	case DirectOperation:
		switch op.Kind {
		case DIRECT_LDI:
			err = cpu.ldi(op.ArgA, op.ArgB)
		case DIRECT_PRN:
			err = cpu.prn(op.ArgA)
		case DIRECT_HLT:
			cpu.hlt()
		default:
			err = ErrOpcodeUnsupported
		}
	default:
		err = ErrOpcodeUnsupported
	}
	if err != nil {
		return
	}

	cpu.Pc = (cpu.Pc + in.Width()) % MEMORY_SIZE
	cpu.Ticks++

	return
}

// Run ticks the CPU until it halts.
//
// If steps is positive, at most that many instructions are executed before
// ErrStepLimit is returned. The context is checked before every instruction.
func (cpu *Cpu) Run(ctx context.Context, steps int) (err error) {
	for n := 0; cpu.State == STATE_RUNNING; n++ {
		if steps > 0 && n >= steps {
			err = ErrStepLimit
			return
		}

		err = ctx.Err()
		if err != nil {
			return
		}

		err = cpu.Tick()
		if err != nil {
			return
		}
	}

	return
}

// setRegister stores a result, masking it to 8 bits in Wrap mode.
func (cpu *Cpu) setRegister(index int, value int) error {
	if cpu.Wrap {
		value &= 0xff
	}
	return cpu.Register.Set(index, value)
}

// ldi loads an immediate value into a register.
func (cpu *Cpu) ldi(reg, value byte) error {
	return cpu.setRegister(int(reg), int(value))
}

// prn prints the value of a register.
func (cpu *Cpu) prn(reg byte) (err error) {
	value, err := cpu.Register.Get(int(reg))
	if err != nil {
		return
	}

	if cpu.Console == nil {
		err = io.ErrConsoleMissing
		return
	}

	err = cpu.Console.Print(value)
	return
}

// hlt stops the execution loop.
func (cpu *Cpu) hlt() {
	cpu.State = STATE_HALTED
}
