package vm

// executeBranch implements the six conditional branches. BLT/BGE
// compare as signed two's-complement values; BLTU/BGEU compare as
// unsigned. A taken branch sets PC to PC + sign-extended immediate; an
// untaken branch simply falls through.
func (vm *VM) executeBranch(inst Instruction) error {
	a := vm.Regs.Read(inst.Rs1)
	b := vm.Regs.Read(inst.Rs2)

	var taken bool
	switch inst.Op {
	case OpBEQ:
		taken = a == b
	case OpBNE:
		taken = a != b
	case OpBLT:
		taken = int32(a) < int32(b)
	case OpBGE:
		taken = int32(a) >= int32(b)
	case OpBLTU:
		taken = a < b
	case OpBGEU:
		taken = a >= b
	}

	if vm.Stats != nil {
		vm.Stats.RecordBranch(taken)
	}

	if taken {
		vm.Regs.PC += inst.Imm
	} else {
		vm.Regs.IncrementPC()
	}
	return nil
}
