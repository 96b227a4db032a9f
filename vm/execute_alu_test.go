package vm

import "testing"

func newTestVM() *VM {
	return NewVM(make([]byte, 64))
}

func TestExecuteALUImmediate(t *testing.T) {
	v := newTestVM()
	v.Regs.Write(1, 10)
	if err := v.executeALU(Instruction{Op: OpADDI, Rd: 2, Rs1: 1, Imm: signExtend(0xFFF, 12)}); err != nil {
		t.Fatalf("executeALU: %v", err)
	}
	if got := v.Regs.Read(2); got != 9 {
		t.Fatalf("ADDI 10 + (-1) = %d, want 9", got)
	}
}

func TestExecuteSLTSigned(t *testing.T) {
	v := newTestVM()
	v.Regs.Write(1, 0xFFFFFFFF) // -1
	v.Regs.Write(2, 1)
	if err := v.executeALU(Instruction{Op: OpSLT, Rd: 3, Rs1: 1, Rs2: 2}); err != nil {
		t.Fatalf("executeALU: %v", err)
	}
	if got := v.Regs.Read(3); got != 1 {
		t.Fatalf("SLT(-1, 1) = %d, want 1", got)
	}
}

func TestExecuteSLTUUnsigned(t *testing.T) {
	v := newTestVM()
	v.Regs.Write(1, 0xFFFFFFFF)
	v.Regs.Write(2, 1)
	if err := v.executeALU(Instruction{Op: OpSLTU, Rd: 3, Rs1: 1, Rs2: 2}); err != nil {
		t.Fatalf("executeALU: %v", err)
	}
	if got := v.Regs.Read(3); got != 0 {
		t.Fatalf("SLTU(0xFFFFFFFF, 1) = %d, want 0", got)
	}
}

func TestExecuteSRAKeepsSign(t *testing.T) {
	v := newTestVM()
	v.Regs.Write(1, 0x80000000)
	v.Regs.Write(2, 4)
	if err := v.executeALU(Instruction{Op: OpSRA, Rd: 3, Rs1: 1, Rs2: 2}); err != nil {
		t.Fatalf("executeALU: %v", err)
	}
	if got := v.Regs.Read(3); got != 0xF8000000 {
		t.Fatalf("SRA(0x80000000, 4) = 0x%08X, want 0xF8000000", got)
	}
}

func TestExecuteSLLUsesLow5BitsOfShamt(t *testing.T) {
	v := newTestVM()
	v.Regs.Write(1, 1)
	v.Regs.Write(2, 0xFFFFFFE1) // low 5 bits = 1
	if err := v.executeALU(Instruction{Op: OpSLL, Rd: 3, Rs1: 1, Rs2: 2}); err != nil {
		t.Fatalf("executeALU: %v", err)
	}
	if got := v.Regs.Read(3); got != 2 {
		t.Fatalf("SLL(1, masked-shamt) = %d, want 2", got)
	}
}

func TestExecuteWriteToX0IsDiscarded(t *testing.T) {
	v := newTestVM()
	v.Regs.Write(1, 5)
	if err := v.executeALU(Instruction{Op: OpADDI, Rd: 0, Rs1: 1, Imm: 1}); err != nil {
		t.Fatalf("executeALU: %v", err)
	}
	if got := v.Regs.Read(0); got != 0 {
		t.Fatalf("x0 = %d after write, want 0", got)
	}
}
