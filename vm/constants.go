package vm

// Word is the native 32-bit architectural value: a register, an
// immediate, an address, or a CSR contents.
type Word = uint32

const (
	// NumRegisters is the number of general purpose registers,
	// x0 through x31. x0 is hardwired to zero.
	NumRegisters = 32

	// InstructionSize is the width in bytes of every RV32I/M/Zicsr
	// instruction. Compressed (C) encodings are out of scope.
	InstructionSize = 4
)

// Memory map constants (spec.md section 6).
const (
	ROMBase  = Word(0x2000_0000)
	RAMBase  = Word(0x8000_0000)
	RAMSize  = Word(4096)
	MMIOBase = Word(0x6000_0000)
	MMIOSize = Word(1)
)

// Instruction field bit positions and masks, named per the RISC-V
// base instruction formats (spec.md section 4.1).
const (
	opcodeShift = 0
	opcodeMask  = 0x7F

	rdShift  = 7
	rdMask   = 0x1F
	rs1Shift = 15
	rs1Mask  = 0x1F
	rs2Shift = 20
	rs2Mask  = 0x1F

	funct3Shift = 12
	funct3Mask  = 0x7
	funct7Shift = 25
	funct7Mask  = 0x7F

	shamtMask = 0x1F // low 5 bits of the I-immediate for shift instructions
)

// DefaultMaxCycles bounds a run that never halts on its own (a guard
// against runaway guest programs, not part of the architectural model).
const DefaultMaxCycles = uint64(10_000_000)
