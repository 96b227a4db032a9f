package vm

import "testing"

func TestExecuteBranchSignedVsUnsigned(t *testing.T) {
	v := newTestVM()
	v.Regs.Write(1, 0xFFFFFFFF) // -1
	v.Regs.Write(2, 1)
	startPC := v.Regs.PC

	if err := v.executeBranch(Instruction{Op: OpBLT, Rs1: 1, Rs2: 2, Imm: 100}); err != nil {
		t.Fatalf("executeBranch: %v", err)
	}
	if v.Regs.PC != startPC+100 {
		t.Fatalf("BLT(-1, 1) should be taken; PC = 0x%X, want 0x%X", v.Regs.PC, startPC+100)
	}

	v.Regs.PC = startPC
	if err := v.executeBranch(Instruction{Op: OpBLTU, Rs1: 1, Rs2: 2, Imm: 100}); err != nil {
		t.Fatalf("executeBranch: %v", err)
	}
	if v.Regs.PC != startPC+InstructionSize {
		t.Fatalf("BLTU(0xFFFFFFFF, 1) should not be taken; PC = 0x%X", v.Regs.PC)
	}
}

func TestExecuteJALRClearsLowBit(t *testing.T) {
	v := newTestVM()
	v.Regs.Write(1, 0x2000_0011)
	if err := v.executeJump(Instruction{Op: OpJALR, Rd: 5, Rs1: 1, Imm: 0}); err != nil {
		t.Fatalf("executeJump: %v", err)
	}
	if v.Regs.PC != 0x2000_0010 {
		t.Fatalf("JALR target = 0x%X, want 0x20000010 (low bit cleared)", v.Regs.PC)
	}
	if got := v.Regs.Read(5); got != ROMBase+InstructionSize {
		t.Fatalf("JALR link = 0x%X, want 0x%X", got, ROMBase+InstructionSize)
	}
}

func TestExecuteJALRSelfReferencingLink(t *testing.T) {
	v := newTestVM()
	v.Regs.Write(1, ROMBase)
	if err := v.executeJump(Instruction{Op: OpJALR, Rd: 1, Rs1: 1, Imm: 0}); err != nil {
		t.Fatalf("executeJump: %v", err)
	}
	if v.Regs.PC != ROMBase {
		t.Fatalf("PC = 0x%X, want the target computed before rd was overwritten (0x%X)", v.Regs.PC, ROMBase)
	}
	if got := v.Regs.Read(1); got != ROMBase+InstructionSize {
		t.Fatalf("x1 = 0x%X, want 0x%X", got, ROMBase+InstructionSize)
	}
}
