// Package io provides the console implementations for the LS8 emulator.
// It includes a line-oriented terminal writing to any io.Writer, and a
// recorder that keeps printed values in memory.
package io

import (
	"io"
	"strconv"
)

// Console defines the interface for the device the PRN instruction prints to.
type Console interface {
	// Print emits a single value.
	Print(value int) error
}

// Terminal writes each printed value as a decimal line to Output.
type Terminal struct {
	Output io.Writer

	Lines int // Count of lines written.
}

var _ Console = (*Terminal)(nil)

// Print writes value in decimal, followed by a newline.
func (tc *Terminal) Print(value int) (err error) {
	if tc.Output == nil {
		err = ErrConsoleMissing
		return
	}

	_, err = io.WriteString(tc.Output, strconv.Itoa(value)+"\n")
	if err != nil {
		return
	}

	tc.Lines++
	return
}

// Recorder keeps every printed value, in order.
type Recorder struct {
	Values []int
}

var _ Console = (*Recorder)(nil)

// Print appends value to the recording.
func (rc *Recorder) Print(value int) error {
	rc.Values = append(rc.Values, value)
	return nil
}

// Rewind discards the recording.
func (rc *Recorder) Rewind() {
	rc.Values = rc.Values[:0]
}
