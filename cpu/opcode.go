package cpu

import (
	"fmt"
)

// Opcode is an LS8 instruction byte.
//
// Bits 7-6 hold the operand count, and bit 5 marks an ALU operation.
// The full byte is the dispatch key.
type Opcode byte

// Direct (non-ALU) opcodes.
const (
	OP_HLT = Opcode(0b00000001)
	OP_LDI = Opcode(0b10000010)
	OP_PRN = Opcode(0b01000111)
)

// AluOp is an ALU operation selector. Its value is the opcode itself.
type AluOp Opcode

// ALU opcodes.
const (
	ALU_ADD = AluOp(0b10100000)
	ALU_SUB = AluOp(0b10100001)
	ALU_MUL = AluOp(0b10100010)
	ALU_DIV = AluOp(0b10100011)
	ALU_CMP = AluOp(0b10100111)
	ALU_AND = AluOp(0b10101000)
	ALU_OR  = AluOp(0b10101010)
	ALU_XOR = AluOp(0b10101011)
	ALU_SHL = AluOp(0b10101100)
	ALU_SHR = AluOp(0b10101101)
	ALU_INC = AluOp(0b01100101)
	ALU_DEC = AluOp(0b01100110)
	ALU_NOT = AluOp(0b01101001)
)

var aluName = map[AluOp]string{
	ALU_ADD: "ADD",
	ALU_SUB: "SUB",
	ALU_MUL: "MUL",
	ALU_DIV: "DIV",
	ALU_CMP: "CMP",
	ALU_AND: "AND",
	ALU_OR:  "OR",
	ALU_XOR: "XOR",
	ALU_SHL: "SHL",
	ALU_SHR: "SHR",
	ALU_INC: "INC",
	ALU_DEC: "DEC",
	ALU_NOT: "NOT",
}

func (op AluOp) String() string {
	name, ok := aluName[op]
	if !ok {
		return fmt.Sprintf("AluOp(0x%02x)", byte(op))
	}
	return name
}

// DirectKind identifies a non-ALU operation.
type DirectKind int

const (
	DIRECT_HLT = DirectKind(iota)
	DIRECT_LDI
	DIRECT_PRN
)

var directName = [...]string{
	DIRECT_HLT: "HLT",
	DIRECT_LDI: "LDI",
	DIRECT_PRN: "PRN",
}

func (kind DirectKind) String() string {
	if kind < 0 || int(kind) >= len(directName) {
		return fmt.Sprintf("DirectKind(%d)", int(kind))
	}
	return directName[kind]
}

// Operands returns the operand count encoded in bits 7-6.
func (op Opcode) Operands() int {
	return int(op >> 6)
}

// IsAlu returns true if bit 5 marks the opcode for ALU dispatch.
func (op Opcode) IsAlu() bool {
	return (op>>5)&1 == 1
}

// Width returns the instruction width in bytes, opcode included.
func (op Opcode) Width() int {
	return op.Operands() + 1
}

// Mnemonic returns the assembly name of a supported opcode.
func (op Opcode) Mnemonic() (name string, ok bool) {
	entry := dispatch[op]
	if !entry.valid {
		return
	}
	if entry.alu {
		return AluOp(op).String(), true
	}
	return entry.kind.String(), true
}

// Operation is a decoded instruction's behavior. It is either an
// AluOperation or a DirectOperation.
type Operation interface {
	isOperation()
}

// AluOperation is routed through the ALU, with the opcode as selector.
type AluOperation struct {
	Op   AluOp
	RegA byte
	RegB byte
}

// DirectOperation is executed by its own handler.
type DirectOperation struct {
	Kind DirectKind
	ArgA byte
	ArgB byte
}

func (AluOperation) isOperation()    {}
func (DirectOperation) isOperation() {}

type dispatchEntry struct {
	valid bool
	alu   bool
	kind  DirectKind
}

// dispatch is the opcode to handler table.
var dispatch = func() (table [256]dispatchEntry) {
	for op := range aluName {
		table[op] = dispatchEntry{valid: true, alu: true}
	}
	table[OP_HLT] = dispatchEntry{valid: true, kind: DIRECT_HLT}
	table[OP_LDI] = dispatchEntry{valid: true, kind: DIRECT_LDI}
	table[OP_PRN] = dispatchEntry{valid: true, kind: DIRECT_PRN}
	return
}()

// Instruction is a decoded instruction.
type Instruction struct {
	Opcode    Opcode
	A         byte      // Candidate operand A.
	B         byte      // Candidate operand B.
	Operation Operation // nil if the opcode is unsupported.
}

// Decode resolves an opcode and its two candidate operands to an Instruction.
//
// Opcodes absent from the dispatch table decode with a nil Operation.
func Decode(opcode, a, b byte) (in Instruction) {
	op := Opcode(opcode)
	in = Instruction{Opcode: op, A: a, B: b}

	entry := dispatch[op]
	switch {
	case !entry.valid:
		// unsupported
	case entry.alu:
		in.Operation = AluOperation{Op: AluOp(op), RegA: a, RegB: b}
	default:
		in.Operation = DirectOperation{Kind: entry.kind, ArgA: a, ArgB: b}
	}

	return
}

// Supported returns true if the instruction has a handler.
func (in Instruction) Supported() bool {
	return in.Operation != nil
}

// Width returns the number of bytes the PC advances past this instruction.
func (in Instruction) Width() int {
	return in.Opcode.Width()
}

// Bytes returns the encoded bytes used by the instruction.
// Only the two candidate operands are decoded, so at most three bytes
// are returned.
func (in Instruction) Bytes() []byte {
	return []byte{byte(in.Opcode), in.A, in.B}[:min(in.Width(), 3)]
}

// String returns the assembly language representation of this instruction.
func (in Instruction) String() (out string) {
	name, ok := in.Opcode.Mnemonic()
	if !ok {
		return fmt.Sprintf(".byte 0x%02x", byte(in.Opcode))
	}

	switch op := in.Operation.(type) {
	case DirectOperation:
		switch op.Kind {
		case DIRECT_LDI:
			return fmt.Sprintf("%v R%d,%d", name, op.ArgA, op.ArgB)
		case DIRECT_PRN:
			return fmt.Sprintf("%v R%d", name, op.ArgA)
		}
		return name
	case AluOperation:
		switch in.Opcode.Operands() {
		case 1:
			return fmt.Sprintf("%v R%d", name, op.RegA)
		case 2:
			if op.Op == ALU_SHL || op.Op == ALU_SHR {
				return fmt.Sprintf("%v R%d,%d", name, op.RegA, op.RegB)
			}
			return fmt.Sprintf("%v R%d,R%d", name, op.RegA, op.RegB)
		}
	}

	return name
}
