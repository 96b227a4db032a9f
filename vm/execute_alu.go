package vm

// executeALU implements the integer-register-immediate and
// integer-register-register instruction classes. Shift amounts use
// only the low 5 bits of the shift source, per the base ISA.
func (vm *VM) executeALU(inst Instruction) error {
	a := vm.Regs.Read(inst.Rs1)

	var b Word
	switch inst.Op {
	case OpADDI, OpSLTI, OpSLTIU, OpXORI, OpORI, OpANDI, OpSLLI, OpSRLI, OpSRAI:
		b = inst.Imm
	default:
		b = vm.Regs.Read(inst.Rs2)
	}

	var result Word
	switch inst.Op {
	case OpADDI, OpADD:
		result = a + b
	case OpSUB:
		result = a - b
	case OpSLTI, OpSLT:
		if int32(a) < int32(b) {
			result = 1
		}
	case OpSLTIU, OpSLTU:
		if a < b {
			result = 1
		}
	case OpXORI, OpXOR:
		result = a ^ b
	case OpORI, OpOR:
		result = a | b
	case OpANDI, OpAND:
		result = a & b
	case OpSLLI, OpSLL:
		result = a << (b & shamtMask)
	case OpSRLI, OpSRL:
		result = a >> (b & shamtMask)
	case OpSRAI, OpSRA:
		result = Word(int32(a) >> (b & shamtMask))
	}

	vm.Regs.Write(inst.Rd, result)
	vm.Regs.IncrementPC()
	return nil
}
