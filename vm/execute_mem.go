package vm

import "fmt"

// executeMemOp implements the five loads and three stores. Addresses
// are computed as rs1 + sign-extended immediate; LB/LH sign-extend
// their loaded width to 32 bits, LBU/LHU zero-extend, and LW loads the
// full word.
func (vm *VM) executeMemOp(inst Instruction) error {
	switch inst.Op {
	case OpLB, OpLH, OpLW, OpLBU, OpLHU:
		addr := vm.Regs.Read(inst.Rs1) + inst.Imm
		v, err := vm.loadValue(inst.Op, addr)
		if err != nil {
			return err
		}
		vm.Regs.Write(inst.Rd, v)
		if vm.Stats != nil {
			vm.Stats.RecordMemoryRead(memWidth(inst.Op))
		}

	case OpSB, OpSH, OpSW:
		addr := vm.Regs.Read(inst.Rs1) + inst.Imm
		v := vm.Regs.Read(inst.Rs2)
		if err := vm.storeValue(inst.Op, addr, v); err != nil {
			return err
		}
		if vm.Stats != nil {
			vm.Stats.RecordMemoryWrite(memWidth(inst.Op))
		}

	default:
		return fmt.Errorf("unreachable: %s is not a memory op", inst.Op)
	}

	vm.Regs.IncrementPC()
	return nil
}

// memWidth returns the access width in bytes of a load or store op.
func memWidth(op Op) uint64 {
	switch op {
	case OpLB, OpLBU, OpSB:
		return 1
	case OpLH, OpLHU, OpSH:
		return 2
	default:
		return 4
	}
}

func (vm *VM) loadValue(op Op, addr Word) (Word, error) {
	switch op {
	case OpLB:
		v, err := vm.Memory.ReadByte(addr)
		return signExtend(v, 8), err
	case OpLH:
		v, err := vm.Memory.ReadHalfword(addr)
		return signExtend(v, 16), err
	case OpLW:
		return vm.Memory.ReadWord(addr)
	case OpLBU:
		return vm.Memory.ReadByte(addr)
	case OpLHU:
		return vm.Memory.ReadHalfword(addr)
	default:
		return 0, fmt.Errorf("unreachable: %s is not a load", op)
	}
}

func (vm *VM) storeValue(op Op, addr Word, v Word) error {
	switch op {
	case OpSB:
		return vm.Memory.WriteByte(addr, v&0xFF)
	case OpSH:
		return vm.Memory.WriteHalfword(addr, v&0xFFFF)
	case OpSW:
		return vm.Memory.WriteWord(addr, v)
	default:
		return fmt.Errorf("unreachable: %s is not a store", op)
	}
}
