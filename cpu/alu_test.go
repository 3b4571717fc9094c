package cpu

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAlu(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name     string
		op       AluOp
		a, b     int
		reg_b    byte
		expected int
	}){
		{"add", ALU_ADD, 8, 9, 1, 17},
		{"sub", ALU_SUB, 8, 9, 1, -1},
		{"mul", ALU_MUL, 8, 9, 1, 72},
		{"mul_big", ALU_MUL, 200, 200, 1, 40000},
		{"div", ALU_DIV, 9, 2, 1, 4},
		{"div_neg", ALU_DIV, -7, 2, 1, -4},
		{"div_neg_divisor", ALU_DIV, 7, -2, 1, -4},
		{"div_both_neg", ALU_DIV, -7, -2, 1, 3},
		{"div_exact_neg", ALU_DIV, -8, 2, 1, -4},
		{"and", ALU_AND, 0b1100, 0b1010, 1, 0b1000},
		{"or", ALU_OR, 0b1100, 0b1010, 1, 0b1110},
		{"xor", ALU_XOR, 0b1100, 0b1010, 1, 0b0110},
		{"not", ALU_NOT, 0b1100, 0, 1, -13},
		{"inc", ALU_INC, 255, 0, 1, 256},
		{"dec", ALU_DEC, 0, 0, 1, -1},
		// Shift count is the raw operand, not the register content.
		{"shl", ALU_SHL, 3, 100, 2, 12},
		{"shr", ALU_SHR, 12, 100, 2, 3},
		{"shr_neg", ALU_SHR, -5, 100, 1, -3},
		{"shl_wide", ALU_SHL, 1, 0, 70, 0},
	}

	for _, entry := range table {
		cpu := NewCpu(nil)
		cpu.Register.Data[0] = entry.a
		if entry.reg_b < REGISTER_COUNT {
			cpu.Register.Data[entry.reg_b] = entry.b
		}

		err := cpu.Alu(entry.op, 0, entry.reg_b)
		assert.NoError(err, entry.name)
		assert.Equal(entry.expected, cpu.Register.Data[0], entry.name)
		assert.Equal(Flags(0), cpu.Flags, entry.name)
	}
}

func TestAlu_Exact(t *testing.T) {
	assert := assert.New(t)

	for range 1000 {
		a := rand.Intn(1<<16) - 1<<15
		b := rand.Intn(1<<16) - 1<<15

		for op, expected := range map[AluOp]int{
			ALU_ADD: a + b,
			ALU_SUB: a - b,
			ALU_MUL: a * b,
		} {
			cpu := NewCpu(nil)
			cpu.Register.Data[3] = a
			cpu.Register.Data[4] = b
			assert.NoError(cpu.Alu(op, 3, 4))
			assert.Equal(expected, cpu.Register.Data[3], "%v %v %v", a, op, b)
			assert.Equal(b, cpu.Register.Data[4])
		}

		if b == 0 {
			continue
		}
		cpu := NewCpu(nil)
		cpu.Register.Data[3] = a
		cpu.Register.Data[4] = b
		assert.NoError(cpu.Alu(ALU_DIV, 3, 4))
		q := cpu.Register.Data[3]
		// floor: q*b <= a < (q+1)*b for positive b, and mirrored for negative b.
		r := a - q*b
		if b > 0 {
			assert.True(r >= 0 && r < b, "%v / %v = %v", a, b, q)
		} else {
			assert.True(r <= 0 && r > b, "%v / %v = %v", a, b, q)
		}
	}
}

func TestAlu_DivisionByZero(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(nil)
	cpu.Register.Data[0] = 10
	cpu.Register.Data[1] = 0

	err := cpu.Alu(ALU_DIV, 0, 1)
	assert.ErrorIs(err, ErrDivisionByZero)
	assert.Equal(10, cpu.Register.Data[0])
}

func TestAlu_Cmp(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		a, b  int
		flags Flags
	}){
		{5, 5, 0b001},
		{3, 5, 0b100},
		{5, 3, 0b010},
	}

	for _, entry := range table {
		cpu := NewCpu(nil)
		cpu.Register.Data[2] = entry.a
		cpu.Register.Data[6] = entry.b

		assert.NoError(cpu.Alu(ALU_CMP, 2, 6))
		assert.Equal(entry.flags, cpu.Flags, "%v %v", entry.a, entry.b)
		assert.Equal(entry.a, cpu.Register.Data[2])
		assert.Equal(entry.b, cpu.Register.Data[6])
	}
}

func TestAlu_Unsupported(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(nil)
	for _, op := range []AluOp{0, AluOp(OP_LDI), 0b10111111, 0xff} {
		assert.ErrorIs(cpu.Alu(op, 0, 1), ErrAluUnsupported, op.String())
	}
}

func TestAlu_Register(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(nil)
	assert.ErrorIs(cpu.Alu(ALU_ADD, 8, 0), ErrRegister)
	assert.ErrorIs(cpu.Alu(ALU_ADD, 0, 8), ErrRegister)
	assert.ErrorIs(cpu.Alu(ALU_INC, 9, 0), ErrRegister)

	// Unary operations and shifts do not dereference operand B.
	assert.NoError(cpu.Alu(ALU_INC, 0, 0xff))
	assert.NoError(cpu.Alu(ALU_SHL, 0, 0xff))
}

func TestAlu_Wrap(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(nil)
	cpu.Wrap = true
	cpu.Register.Data[0] = 200
	cpu.Register.Data[1] = 100

	assert.NoError(cpu.Alu(ALU_ADD, 0, 1))
	assert.Equal(44, cpu.Register.Data[0])

	assert.NoError(cpu.Alu(ALU_SUB, 0, 1))
	assert.Equal(200, cpu.Register.Data[0])

	assert.NoError(cpu.Alu(ALU_NOT, 0, 0))
	assert.Equal(55, cpu.Register.Data[0])
}
