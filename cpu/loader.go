package cpu

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Loader reads programs in the LS8 binary listing format.
//
// Each line holds one byte, written as eight '0' or '1' digits, optionally
// followed by a '#' comment. Lines that do not parse are skipped, and do
// not advance the load address.
type Loader struct {
	Verbose bool               // If set, logs every skipped line.
	Log     logrus.FieldLogger // Verbose logger. nil uses the logrus standard logger.
}

// parseBinary parses the code portion of a listing line as a byte.
// Single '_' separators between digits are allowed.
func parseBinary(text string) (value byte, ok bool) {
	code, _, _ := strings.Cut(text, "#")
	code = strings.TrimSpace(code)
	if !strings.HasPrefix(code, "0b") && !strings.HasPrefix(code, "0B") {
		if strings.HasPrefix(code, "_") {
			return
		}
		code = "0b" + code
	}

	// Base 0 for the Go literal '_' rules.
	v64, err := strconv.ParseUint(code, 0, 8)
	if err != nil {
		return
	}

	return byte(v64), true
}

// Parse parses an input stream into a Program.
func (ld *Loader) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var text string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: text, Err: err}
			prog = nil
		}
	}()

	prog = &Program{}
	address := 0

	for scanner.Scan() {
		text = scanner.Text()
		lineno += 1

		value, ok := parseBinary(text)
		if !ok {
			if ld.Verbose {
				loggerOf(ld.Log).WithField("line", lineno).Debugf("loader: skip '%v'", text)
			}
			continue
		}

		if address >= MEMORY_SIZE {
			err = ErrProgramSize
			return
		}

		prog.Lines = append(prog.Lines, Line{
			LineNo:  lineno,
			Address: address,
			Text:    text,
			Data:    []byte{value},
		})
		address++
	}

	err = scanner.Err()
	return
}
