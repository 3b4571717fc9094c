// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/ls8/internal"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":         "0",
	"MEMORY_SIZE":    fmt.Sprintf("%v", MEMORY_SIZE),
	"REGISTER_COUNT": fmt.Sprintf("%v", REGISTER_COUNT),
}

// mnemonicMap maps upper case mnemonics to opcodes.
var mnemonicMap = func() map[string]Opcode {
	mnemonics := map[string]Opcode{}
	for n := range len(dispatch) {
		op := Opcode(n)
		name, ok := op.Mnemonic()
		if ok {
			mnemonics[name] = op
		}
	}
	return mnemonics
}()

// Defines returns the opcode equates, as OP_<MNEMONIC> names.
func Defines() iter.Seq2[string, string] {
	return func(yield func(name, value string) bool) {
		for name, op := range mnemonicMap {
			if !yield("OP_"+name, fmt.Sprintf("%#x", byte(op))) {
				return
			}
		}
	}
}

// Assembler is a single pass assembler for the LS8 instruction set.
type Assembler struct {
	Verbose bool               // If set, verbosely logs the assembler actions.
	Log     logrus.FieldLogger // Verbose logger. nil uses the logrus standard logger.
	Lines   []Line             // List of generated lines.

	predefine map[string]string // Predefines
	Equate    map[string]string // Map of equates, including labels.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value int, err error) {
	v64, err := strconv.ParseInt(word, 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	value = int(v64)
	return
}

// immediateOf returns the byte value of a word, which may be negative
// down to -128.
func (asm *Assembler) immediateOf(word string) (value byte, err error) {
	v, err := asm.valueOf(word)
	if err != nil {
		return
	}

	if v < -0x80 || v > 0xff {
		err = ErrImmediateRange
		return
	}

	value = byte(v)
	return
}

// registerOf returns the register index named by a word.
func (asm *Assembler) registerOf(word string) (reg byte, err error) {
	if len(word) == 2 && (word[0] == 'r' || word[0] == 'R') &&
		word[1] >= '0' && word[1] < '0'+REGISTER_COUNT {
		reg = word[1] - '0'
		return
	}

	err = ErrRegisterInvalid
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var v int
		v, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt(v)
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
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = int(st_int64)
	return
}

var (
	reCharacter  = regexp.MustCompile(`'\\?[^']'`)
	reExpression = regexp.MustCompile(`\$\([^\$]*\)`)
)

// parseLine expands a line of source text into words.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	line = reCharacter.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "t":
				str = "\t"
			case "0":
				str = "\x00"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Strip comments
	if n := strings.IndexAny(line, ";#"); n >= 0 {
		line = line[:n]
	}

	// Do $() evaluations
	line = reExpression.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%v", value)
	})
	if err != nil {
		return
	}

	words = strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})

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
		_, ok := asm.Equate[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		asm.Equate[label] = fmt.Sprintf("%v", asm.currentAddress())
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

// currentAddress gets the next address to assemble to.
func (asm *Assembler) currentAddress() int {
	if len(asm.Lines) == 0 {
		return 0
	}

	last := asm.Lines[len(asm.Lines)-1]

	return last.Address + len(last.Data)
}

// Defines returns the equates an assembly starts with.
func (asm *Assembler) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(sysEquate),
		Defines(),
		maps.All(asm.predefine),
	)
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var text string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: text, Err: err}
		}
	}()

	asm.Lines = asm.Lines[:0]
	asm.Equate = maps.Collect(asm.Defines())

	for scanner.Scan() {
		text = scanner.Text()
		lineno += 1

		if asm.Verbose {
			loggerOf(asm.Log).WithField("line", lineno).Debug(text)
		}

		var words []string
		words, err = asm.parseLine(text, lineno)
		if err != nil {
			return
		}

		var data []byte
		data, err = asm.parseWords(words)
		if err != nil {
			return
		}
		if len(data) == 0 {
			continue
		}

		address := asm.currentAddress()
		if address+len(data) > MEMORY_SIZE {
			err = ErrProgramSize
			return
		}

		asm.Lines = append(asm.Lines, Line{
			LineNo:  lineno,
			Address: address,
			Text:    text,
			Data:    data,
		})
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	prog = &Program{
		Lines: slices.Clone(asm.Lines),
	}

	return
}

// parseWords assembles the words of a line into bytes.
func (asm *Assembler) parseWords(words []string) (data []byte, err error) {
	// no-op
	if len(words) == 0 {
		return
	}

	if words[0] == ".byte" {
		if len(words) < 2 {
			err = ErrOperandCount
			return
		}
		for _, word := range words[1:] {
			var value byte
			value, err = asm.immediateOf(word)
			if err != nil {
				return
			}
			data = append(data, value)
		}
		return
	}

	op, ok := mnemonicMap[strings.ToUpper(words[0])]
	if !ok {
		err = ErrOpcodeInvalid
		return
	}

	args := words[1:]
	if len(args) != op.Operands() {
		err = ErrOperandCount
		return
	}

	data = append(data, byte(op))
	for n, arg := range args {
		var value byte
		if asm.registerOperand(op, n) {
			value, err = asm.registerOf(arg)
		} else {
			value, err = asm.immediateOf(arg)
		}
		if err != nil {
			return
		}
		data = append(data, value)
	}

	return
}

// registerOperand returns true if operand n of op names a register.
func (asm *Assembler) registerOperand(op Opcode, n int) bool {
	switch op {
	case OP_LDI, Opcode(ALU_SHL), Opcode(ALU_SHR):
		return n == 0
	}
	return true
}
