package vm

// executeMulDiv implements the M extension. Division and remainder
// follow the RISC-V convention of never trapping: division by zero
// yields an all-ones quotient and the dividend as remainder, and the
// single signed overflow case (INT_MIN / -1) yields INT_MIN with a
// zero remainder, both checked before any host division is attempted.
func (vm *VM) executeMulDiv(inst Instruction) error {
	a := vm.Regs.Read(inst.Rs1)
	b := vm.Regs.Read(inst.Rs2)

	var result Word
	switch inst.Op {
	case OpMUL:
		result = a * b

	case OpMULH:
		result = Word((int64(int32(a)) * int64(int32(b))) >> 32)

	case OpMULHSU:
		result = Word((int64(int32(a)) * int64(b)) >> 32)

	case OpMULHU:
		result = Word((uint64(a) * uint64(b)) >> 32)

	case OpDIV:
		sa, sb := int32(a), int32(b)
		switch {
		case sb == 0:
			result = 0xFFFFFFFF
		case sa == -2147483648 && sb == -1:
			result = 0x80000000
		default:
			result = Word(sa / sb)
		}

	case OpDIVU:
		if b == 0 {
			result = 0xFFFFFFFF
		} else {
			result = a / b
		}

	case OpREM:
		sa, sb := int32(a), int32(b)
		switch {
		case sb == 0:
			result = a
		case sa == -2147483648 && sb == -1:
			result = 0
		default:
			result = Word(sa % sb)
		}

	case OpREMU:
		if b == 0 {
			result = a
		} else {
			result = a % b
		}
	}

	vm.Regs.Write(inst.Rd, result)
	vm.Regs.IncrementPC()
	return nil
}
