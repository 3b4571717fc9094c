package cpu

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func FuzzCpu(f *testing.F) {
	for n := range 256 {
		op := Opcode(n)
		if _, ok := op.Mnemonic(); !ok {
			continue
		}
		f.Add(byte(op), byte(0), byte(1), int64(8), int64(9))
		f.Add(byte(op), byte(1), byte(0), int64(-1), int64(0))
		f.Add(byte(op), byte(7), byte(9), int64(0x7f), int64(0x80))
	}

	f.Fuzz(func(t *testing.T, opcode, a, b byte, ra, rb int64) {
		assert := assert.New(t)

		cpu, console, _ := newTestCpu(opcode, a, b)
		for n := range cpu.Register.Data {
			if n%2 == 0 {
				cpu.Register.Data[n] = int(ra)
			} else {
				cpu.Register.Data[n] = int(rb)
			}
		}
		pre := cpu.Register
		in := Decode(opcode, a, b)

		err := cpu.Tick()

		code_str := fmt.Sprintf("0x%02x 0x%02x 0x%02x (%v)\ncpu:%v", opcode, a, b, in, cpu.String())

		if err != nil {
			assert.ErrorIs(err, ErrInstruction{}, code_str)
			switch {
			case errors.Is(err, ErrRegister):
				assert.True(a >= REGISTER_COUNT || b >= REGISTER_COUNT, code_str)
			case errors.Is(err, ErrDivisionByZero):
				assert.Equal(ALU_DIV, AluOp(opcode), code_str)
				assert.Equal(0, pre.Data[b], code_str)
			default:
				assert.NoError(err, code_str)
			}
			assert.Equal(0, cpu.Pc, code_str)
			assert.Equal(pre, cpu.Register, code_str)
			return
		}

		assert.Equal(in.Width()%MEMORY_SIZE, cpu.Pc, code_str)

		switch op := in.Operation.(type) {
		case nil:
			assert.Equal(pre, cpu.Register, code_str)
		case DirectOperation:
			switch op.Kind {
			case DIRECT_HLT:
				assert.Equal(STATE_HALTED, cpu.State, code_str)
			case DIRECT_LDI:
				assert.Equal(int(b), cpu.Register.Data[a], code_str)
			case DIRECT_PRN:
				assert.Equal([]int{pre.Data[a]}, console.Values, code_str)
			}
		case AluOperation:
			if op.Op == ALU_CMP {
				assert.Equal(compareFlags(pre.Data[a], pre.Data[b]), cpu.Flags, code_str)
				assert.Equal(pre, cpu.Register, code_str)
				return
			}
			var value int
			if int(b) < REGISTER_COUNT {
				value = pre.Data[b]
			}
			expected, _ := doAlu(op.Op, pre.Data[a], value, b)
			assert.Equal(expected, cpu.Register.Data[a], code_str)
		}
	})
}
