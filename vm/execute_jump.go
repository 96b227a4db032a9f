package vm

// executeJump implements JAL and JALR. Both link PC+4 into rd; JALR
// computes its target before writing rd so that `jalr x1, x1, 0` (a
// self-referencing link register) is well defined.
func (vm *VM) executeJump(inst Instruction) error {
	link := vm.Regs.PC + InstructionSize

	switch inst.Op {
	case OpJAL:
		target := vm.Regs.PC + inst.Imm
		vm.Regs.Write(inst.Rd, link)
		vm.Regs.PC = target

	case OpJALR:
		target := (vm.Regs.Read(inst.Rs1) + inst.Imm) &^ 1
		vm.Regs.Write(inst.Rd, link)
		vm.Regs.PC = target
	}
	return nil
}
