package cpu

import (
	"errors"

	"github.com/ezrec/ls8/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrAddress           = errors.New(f("address out of range"))
	ErrRegister          = errors.New(f("register out of range"))
	ErrOpcodeUnsupported = errors.New(f("opcode unsupported"))
	ErrAluUnsupported    = errors.New(f("alu operation unsupported"))
	ErrDivisionByZero    = errors.New(f("division by zero"))
	ErrHalted            = errors.New(f("halted"))
	ErrStepLimit         = errors.New(f("step limit reached"))

	// Loader and assembler errors
	ErrProgramSize     = errors.New(f("program exceeds memory"))
	ErrEquateSyntax    = errors.New(f(".equ syntax"))
	ErrEquateDuplicate = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate  = errors.New(f("label duplicated"))
	ErrOpcodeInvalid   = errors.New(f("opcode invalid"))
	ErrRegisterInvalid = errors.New(f("register invalid"))
	ErrOperandCount    = errors.New(f("operand count"))
	ErrImmediateRange  = errors.New(f("immediate out of range"))
)

// ErrInstruction carries the location and operands of a failed instruction.
type ErrInstruction struct {
	Pc          int
	Instruction Instruction
}

func (ei ErrInstruction) Error() string {
	in := ei.Instruction
	return f("pc 0x%02x opcode 0x%02x operands 0x%02x 0x%02x (%v)",
		ei.Pc, in.Opcode, in.A, in.B, in.String())
}

func (ei ErrInstruction) Is(err error) (ok bool) {
	_, ok = err.(ErrInstruction)
	return
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
