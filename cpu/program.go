package cpu

import (
	"iter"
)

// Line is a single source line of a program, and the bytes it produced.
type Line struct {
	LineNo  int    // Source line number, starting at 1.
	Address int    // Memory address of the first byte.
	Text    string // Source text.
	Data    []byte // Generated bytes.
}

// Program is a loaded program listing.
type Program struct {
	Lines []Line
}

type Debug struct {
	*Line
	Index int
}

// Debug finds the source line that produced the byte at address pc.
func (prog *Program) Debug(pc int) (dbg Debug) {
	for n, line := range prog.Lines {
		if pc >= line.Address && pc < line.Address+len(line.Data) {
			dbg = Debug{
				Line:  &prog.Lines[n],
				Index: pc - line.Address,
			}
			break
		}
	}

	return
}

// Size returns the size of the program image in bytes.
func (prog *Program) Size() (size int) {
	for _, line := range prog.Lines {
		size = max(size, line.Address+len(line.Data))
	}
	return
}

// Binary returns the memory image of the program, starting at address 0.
func (prog *Program) Binary() (bin []byte) {
	bin = make([]byte, prog.Size())
	for _, line := range prog.Lines {
		copy(bin[line.Address:], line.Data)
	}

	return
}

// Disassemble walks the program image an instruction at a time, yielding
// the address and decoded instruction. Operands past the end of the image
// read as zero, as they would from a freshly reset memory.
func (prog *Program) Disassemble() iter.Seq2[int, Instruction] {
	return func(yield func(address int, in Instruction) bool) {
		bin := prog.Binary()
		at := func(address int) byte {
			if address < len(bin) {
				return bin[address]
			}
			return 0
		}
		for address := 0; address < len(bin); {
			in := Decode(at(address), at(address+1), at(address+2))
			if !yield(address, in) {
				return
			}
			address += in.Width()
		}
	}
}
