package cpu

// floorDiv divides a by b, rounding toward negative infinity.
func floorDiv(a, b int) (q int) {
	q = a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return
}

// doAlu performs the requested ALU action, and returns the output value.
//
// 'count' is the raw operand B byte, used as the shift count by SHL and SHR.
func doAlu(op AluOp, input, value int, count byte) (output int, err error) {
	switch op {
	case ALU_ADD:
		output = input + value
	case ALU_SUB:
		output = input - value
	case ALU_MUL:
		output = input * value
	case ALU_DIV:
		if value == 0 {
			err = ErrDivisionByZero
			return
		}
		output = floorDiv(input, value)
	case ALU_AND:
		output = input & value
	case ALU_OR:
		output = input | value
	case ALU_XOR:
		output = input ^ value
	case ALU_NOT:
		output = ^input
	case ALU_SHL:
		output = input << count
	case ALU_SHR:
		output = input >> count
	case ALU_INC:
		output = input + 1
	case ALU_DEC:
		output = input - 1
	default:
		err = ErrAluUnsupported
	}

	return
}

// Alu applies an ALU operation to register reg_a, with reg_b as the second
// operand register.
//
// CMP updates the flags register and leaves the registers untouched. For
// SHL and SHR, reg_b is the shift count itself rather than a register. The
// unary operations ignore reg_b.
func (cpu *Cpu) Alu(op AluOp, reg_a, reg_b byte) (err error) {
	if _, ok := aluName[op]; !ok {
		err = ErrAluUnsupported
		return
	}

	input, err := cpu.Register.Get(int(reg_a))
	if err != nil {
		return
	}

	var value int
	switch op {
	case ALU_SHL, ALU_SHR, ALU_NOT, ALU_INC, ALU_DEC:
		// reg_b is not a register reference.
	default:
		value, err = cpu.Register.Get(int(reg_b))
		if err != nil {
			return
		}
	}

	if op == ALU_CMP {
		cpu.Flags = compareFlags(input, value)
		return
	}

	output, err := doAlu(op, input, value, reg_b)
	if err != nil {
		return
	}

	err = cpu.setRegister(int(reg_a), output)
	return
}
