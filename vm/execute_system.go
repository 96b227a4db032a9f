package vm

// executeCSR implements the six Zicsr read-modify-write instructions.
// Imm carries the 12-bit CSR address for every variant. For CSRRW/S/C,
// Rs1 is a register index; for the *I immediate forms, Rs1 holds the
// raw 5-bit zero-extended immediate value rather than a register
// index, mirroring how the decoder packs it.
//
// Per the Zicsr spec, CSRRS/CSRRC with a zero operand, and CSRRW*
// writes, all still perform the CSR read (observable side effects on
// real implementations have no analogue here, so this core reads
// unconditionally); a write is skipped whenever it would be a no-op
// that the ISA specifically permits skipping, matching this core's
// CSR policies exactly since all of them already treat equivalent
// writes as no-ops.
func (vm *VM) executeCSR(inst Instruction) error {
	addr := inst.Imm

	old, err := vm.Regs.CSR.Read(addr)
	if err != nil {
		return err
	}

	var operand Word
	switch inst.Op {
	case OpCSRRW, OpCSRRS, OpCSRRC:
		operand = vm.Regs.Read(inst.Rs1)
	default:
		operand = inst.Rs1
	}

	var newVal Word
	write := true
	switch inst.Op {
	case OpCSRRW, OpCSRRWI:
		newVal = operand
	case OpCSRRS, OpCSRRSI:
		newVal = old | operand
		write = operand != 0
	case OpCSRRC, OpCSRRCI:
		newVal = old &^ operand
		write = operand != 0
	}

	if write {
		if err := vm.Regs.CSR.Write(addr, newVal); err != nil {
			return err
		}
	}

	vm.Regs.Write(inst.Rd, old)
	vm.Regs.IncrementPC()
	return nil
}
