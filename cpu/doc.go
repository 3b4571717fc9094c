// Package cpu implements the LS8 microprocessor, its program loader, and
// an assembler for the LS8 instruction set.
//
// The CPU consists of a 256 byte memory, a program counter (PC), eight
// general-purpose registers (R0-R7), an ALU, and a three bit flags register
// set by the CMP instruction.
//
// Opcodes are self-describing: the upper two bits give the operand count,
// and bit 5 marks an ALU operation. The loader accepts the line-oriented
// binary listing format, while the assembler accepts mnemonics with
// constants and compile-time expression evaluation.
package cpu
