package vm

import "fmt"

// State is the coarse run state of a VM, mirroring the teacher's
// Running/Halted/Error state machine.
type State int

const (
	StateRunning State = iota
	StateHalted
	StateError
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateHalted:
		return "halted"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// VM is the complete simulator: registers (with embedded CSR file) and
// memory, plus the bookkeeping the executor needs to run, trace, and
// stop a program. It is not goroutine-safe; a single goroutine should
// drive Step/Run for the lifetime of a run.
type VM struct {
	Regs   *RegisterFile
	Memory *Memory

	State State
	// LastError holds the fatal error that put the VM into StateError.
	LastError error

	// CycleLimit halts the run with ErrCycleLimitExceeded once reached.
	// Zero means unlimited.
	CycleLimit uint64

	// InstructionLog records the PC of every executed instruction, for
	// diagnostics.
	InstructionLog []Word

	// Trace, when non-nil, receives a record of every executed
	// instruction (see trace.go).
	Trace *ExecutionTrace
	// Stats, when non-nil, accumulates instruction-mix and cycle
	// counters (see statistics.go).
	Stats *Statistics
}

// NewVM constructs a VM over the given ROM image with x2 (the stack
// pointer) initialized to the top of RAM, per spec.md section 6.
func NewVM(romImage []byte) *VM {
	regs := NewRegisterFile()
	regs.PC = ROMBase
	regs.Write(2, RAMBase+RAMSize)

	mem := NewMemory(romImage)

	return &VM{
		Regs:   regs,
		Memory: mem,
		State:  StateRunning,
	}
}

// Fetch reads the 32-bit word at the current PC.
func (vm *VM) Fetch() (Word, error) {
	w, err := vm.Memory.ReadWord(vm.Regs.PC)
	if err != nil {
		return 0, fmt.Errorf("fetch failed at PC=0x%08X: %w", vm.Regs.PC, err)
	}
	return w, nil
}

// Step executes exactly one fetch-decode-execute cycle. It returns
// ErrCycleLimitExceeded if CycleLimit was reached, or any fatal decode
// or execution error. A halt (ECALL/EBREAK) is signaled by vm.State
// becoming StateHalted; Step returns a nil error in that case.
func (vm *VM) Step() error {
	if vm.State != StateRunning {
		return fmt.Errorf("vm: Step called while not running (state=%s)", vm.State)
	}

	if vm.CycleLimit > 0 && vm.Regs.Cycles >= vm.CycleLimit {
		vm.State = StateError
		vm.LastError = ErrCycleLimitExceeded
		return vm.LastError
	}

	pc := vm.Regs.PC
	vm.InstructionLog = append(vm.InstructionLog, pc)
	if vm.Stats != nil {
		vm.Stats.RecordFetch(pc)
	}

	w, err := vm.Fetch()
	if err != nil {
		vm.State = StateError
		vm.LastError = err
		return err
	}

	inst, err := Decode(w)
	if err != nil {
		vm.State = StateError
		vm.LastError = fmt.Errorf("decode failed at PC=0x%08X: %w", pc, err)
		return vm.LastError
	}

	if err := vm.execute(inst); err != nil {
		vm.State = StateError
		vm.LastError = fmt.Errorf("execute failed at PC=0x%08X (%s): %w", pc, inst.Op, err)
		return vm.LastError
	}

	vm.Regs.Cycles++

	if vm.Trace != nil {
		vm.Trace.Record(pc, w, inst)
		vm.Trace.RecordRegisters(vm.Regs.Cycles, vm.Regs)
	}
	if vm.Stats != nil {
		vm.Stats.Record(inst.Op)
	}

	if inst.Op == OpECALL || inst.Op == OpEBREAK {
		vm.State = StateHalted
	}

	return nil
}

// Run steps the VM until it halts (ECALL/EBREAK) or encounters a
// fatal error, including a cycle-limit overrun.
func (vm *VM) Run() error {
	for vm.State == StateRunning {
		if err := vm.Step(); err != nil {
			return err
		}
	}
	return nil
}

// execute dispatches a decoded instruction to the category-specific
// executor. Every instruction advances PC by one instruction width
// except jumps, taken branches and MRET (which set PC themselves) and
// ECALL/EBREAK (which leave PC on the halting instruction).
func (vm *VM) execute(inst Instruction) error {
	switch inst.Op {
	case OpLUI, OpAUIPC:
		return vm.executeUpperImm(inst)

	case OpJAL, OpJALR:
		return vm.executeJump(inst)

	case OpBEQ, OpBNE, OpBLT, OpBGE, OpBLTU, OpBGEU:
		return vm.executeBranch(inst)

	case OpLB, OpLH, OpLW, OpLBU, OpLHU, OpSB, OpSH, OpSW:
		return vm.executeMemOp(inst)

	case OpADDI, OpSLTI, OpSLTIU, OpXORI, OpORI, OpANDI, OpSLLI, OpSRLI, OpSRAI,
		OpADD, OpSUB, OpSLL, OpSLT, OpSLTU, OpXOR, OpSRL, OpSRA, OpOR, OpAND:
		return vm.executeALU(inst)

	case OpMUL, OpMULH, OpMULHSU, OpMULHU, OpDIV, OpDIVU, OpREM, OpREMU:
		return vm.executeMulDiv(inst)

	case OpFENCE:
		vm.Regs.IncrementPC()
		return nil

	case OpECALL, OpEBREAK:
		// Halt is observed by the caller (Step); no register state changes.
		return nil

	case OpMRET:
		mepc, err := vm.Regs.CSR.Read(CSRMepc)
		if err != nil {
			return err
		}
		vm.Regs.PC = mepc
		return nil

	case OpCSRRW, OpCSRRS, OpCSRRC, OpCSRRWI, OpCSRRSI, OpCSRRCI:
		return vm.executeCSR(inst)

	default:
		return fmt.Errorf("unreachable: no executor for op %s", inst.Op)
	}
}
