package vm

import "fmt"

// opcodeOf, rdOf, rs1Of, rs2Of, funct3Of and funct7Of bit-slice the
// fixed fields shared by every 32-bit RISC-V instruction encoding.
func opcodeOf(w Word) Word  { return (w >> opcodeShift) & opcodeMask }
func rdOf(w Word) Word      { return (w >> rdShift) & rdMask }
func rs1Of(w Word) Word     { return (w >> rs1Shift) & rs1Mask }
func rs2Of(w Word) Word     { return (w >> rs2Shift) & rs2Mask }
func funct3Of(w Word) Word  { return (w >> funct3Shift) & funct3Mask }
func funct7Of(w Word) Word  { return (w >> funct7Shift) & funct7Mask }

// immI extracts and sign-extends the I-type immediate (bits 31:20).
func immI(w Word) Word {
	return signExtend(w>>20, 12)
}

// immS extracts and sign-extends the S-type immediate.
func immS(w Word) Word {
	v := ((w >> 25) << 5) | ((w >> 7) & 0x1F)
	return signExtend(v, 12)
}

// immB extracts and sign-extends the B-type immediate. The encoded
// immediate is always even: bit 0 is implicitly zero.
func immB(w Word) Word {
	bit12 := (w >> 31) & 0x1
	bit11 := (w >> 7) & 0x1
	bits10_5 := (w >> 25) & 0x3F
	bits4_1 := (w >> 8) & 0xF
	v := (bit12 << 12) | (bit11 << 11) | (bits10_5 << 5) | (bits4_1 << 1)
	return signExtend(v, 13)
}

// immU extracts the U-type immediate: the raw upper 20 bits, already
// in place with the low 12 bits zero. No sign extension is needed.
func immU(w Word) Word {
	return w & 0xFFFFF000
}

// immJ extracts and sign-extends the J-type immediate. Like immB, the
// encoded immediate is always even.
func immJ(w Word) Word {
	bit20 := (w >> 31) & 0x1
	bits19_12 := (w >> 12) & 0xFF
	bit11 := (w >> 20) & 0x1
	bits10_1 := (w >> 21) & 0x3FF
	v := (bit20 << 20) | (bits19_12 << 12) | (bit11 << 11) | (bits10_1 << 1)
	return signExtend(v, 21)
}

// signExtend treats the low `bits` bits of v as a two's-complement
// value and sign-extends it to the full 32 bits using bit (bits-1).
func signExtend(v Word, bits uint) Word {
	shift := 32 - bits
	return Word(int32(v<<shift) >> shift)
}

// DecodeError reports a word the decoder could not turn into an
// instruction, naming the word and the reason.
type DecodeError struct {
	Word   Word
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error at word 0x%08X: %s", e.Word, e.Reason)
}

// Decode maps a 32-bit word to a tagged instruction, or to a
// *DecodeError describing why no instruction could be produced.
func Decode(w Word) (Instruction, error) {
	if w&0x3 != 0x3 {
		return Instruction{}, &DecodeError{w, "not a 32-bit base encoding (low two bits must be 11)"}
	}

	opcode := opcodeOf(w)
	f3 := funct3Of(w)
	f7 := funct7Of(w)
	rd, rs1, rs2 := rdOf(w), rs1Of(w), rs2Of(w)

	switch opcode {
	case opLoad:
		op, ok := loadOps[f3]
		if !ok {
			return Instruction{}, unassignedFunct3(w, "LOAD", f3)
		}
		return Instruction{Op: op, Rd: rd, Rs1: rs1, Imm: immI(w)}, nil

	case opMiscMem:
		if f3 != 0 {
			return Instruction{}, unassignedFunct3(w, "MISC-MEM", f3)
		}
		return Instruction{Op: OpFENCE}, nil

	case opOpImm:
		return decodeOpImm(w, f3, rd, rs1)

	case opAuipc:
		return Instruction{Op: OpAUIPC, Rd: rd, Imm: immU(w)}, nil

	case opStore:
		op, ok := storeOps[f3]
		if !ok {
			return Instruction{}, unassignedFunct3(w, "STORE", f3)
		}
		return Instruction{Op: op, Rs1: rs1, Rs2: rs2, Imm: immS(w)}, nil

	case opOp:
		return decodeOp(w, f3, f7, rd, rs1, rs2)

	case opLui:
		return Instruction{Op: OpLUI, Rd: rd, Imm: immU(w)}, nil

	case opBranch:
		op, ok := branchOps[f3]
		if !ok {
			return Instruction{}, unassignedFunct3(w, "BRANCH", f3)
		}
		return Instruction{Op: op, Rs1: rs1, Rs2: rs2, Imm: immB(w)}, nil

	case opJalr:
		if f3 != 0 {
			return Instruction{}, unassignedFunct3(w, "JALR", f3)
		}
		return Instruction{Op: OpJALR, Rd: rd, Rs1: rs1, Imm: immI(w)}, nil

	case opJal:
		return Instruction{Op: OpJAL, Rd: rd, Imm: immJ(w)}, nil

	case opSystem:
		return decodeSystem(w, f3, rd, rs1)

	default:
		return Instruction{}, &DecodeError{w, fmt.Sprintf("opcode class 0x%02X is not implemented (floating-point, atomic, 64-bit, custom, or reserved)", opcode)}
	}
}

func unassignedFunct3(w Word, class string, f3 Word) error {
	return &DecodeError{w, fmt.Sprintf("unassigned funct3 0x%X in %s class", f3, class)}
}

// decodeOpImm handles the OP-IMM opcode class, including the SRLI/SRAI
// ambiguity: the shift-type bit lives in funct7 bit 30 (bit 5 of the
// 7-bit funct7 field) of the original word, never in the immediate's
// value. See SPEC_FULL.md Open Question (a).
func decodeOpImm(w Word, f3, rd, rs1 Word) (Instruction, error) {
	imm := immI(w)
	switch f3 {
	case 0b000:
		return Instruction{Op: OpADDI, Rd: rd, Rs1: rs1, Imm: imm}, nil
	case 0b010:
		return Instruction{Op: OpSLTI, Rd: rd, Rs1: rs1, Imm: imm}, nil
	case 0b011:
		return Instruction{Op: OpSLTIU, Rd: rd, Rs1: rs1, Imm: imm}, nil
	case 0b100:
		return Instruction{Op: OpXORI, Rd: rd, Rs1: rs1, Imm: imm}, nil
	case 0b110:
		return Instruction{Op: OpORI, Rd: rd, Rs1: rs1, Imm: imm}, nil
	case 0b111:
		return Instruction{Op: OpANDI, Rd: rd, Rs1: rs1, Imm: imm}, nil
	case 0b001:
		if funct7Of(w) != 0 {
			return Instruction{}, &DecodeError{w, "SLLI requires funct7 == 0"}
		}
		return Instruction{Op: OpSLLI, Rd: rd, Rs1: rs1, Imm: imm & shamtMask}, nil
	case 0b101:
		switch funct7Of(w) {
		case 0x00:
			return Instruction{Op: OpSRLI, Rd: rd, Rs1: rs1, Imm: imm & shamtMask}, nil
		case 0x20:
			return Instruction{Op: OpSRAI, Rd: rd, Rs1: rs1, Imm: imm & shamtMask}, nil
		default:
			return Instruction{}, &DecodeError{w, "SRLI/SRAI requires funct7 in {0x00, 0x20}"}
		}
	default:
		return Instruction{}, unassignedFunct3(w, "OP-IMM", f3)
	}
}

// decodeOp handles the OP (R-type) opcode class, where funct7 bit 0
// selects between the base RV32I operation and its M-extension
// counterpart for the same funct3.
func decodeOp(w Word, f3, f7, rd, rs1, rs2 Word) (Instruction, error) {
	isM := f7&0x1 == 1
	inst := Instruction{Rd: rd, Rs1: rs1, Rs2: rs2}

	if isM {
		op, ok := mOps[f3]
		if !ok {
			return Instruction{}, unassignedFunct3(w, "OP (M extension)", f3)
		}
		inst.Op = op
		return inst, nil
	}

	switch f3 {
	case 0b000:
		switch f7 {
		case 0x00:
			inst.Op = OpADD
		case 0x20:
			inst.Op = OpSUB
		default:
			return Instruction{}, &DecodeError{w, "ADD/SUB requires funct7 in {0x00, 0x20}"}
		}
	case 0b001:
		inst.Op = OpSLL
	case 0b010:
		inst.Op = OpSLT
	case 0b011:
		inst.Op = OpSLTU
	case 0b100:
		inst.Op = OpXOR
	case 0b101:
		switch f7 {
		case 0x00:
			inst.Op = OpSRL
		case 0x20:
			inst.Op = OpSRA
		default:
			return Instruction{}, &DecodeError{w, "SRL/SRA requires funct7 in {0x00, 0x20}"}
		}
	case 0b110:
		inst.Op = OpOR
	case 0b111:
		inst.Op = OpAND
	default:
		return Instruction{}, unassignedFunct3(w, "OP", f3)
	}
	return inst, nil
}

// decodeSystem handles the SYSTEM opcode class: ECALL/EBREAK/MRET
// (funct3 == 0, selected by the full 12-bit immediate) and the six
// Zicsr instructions (funct3 1-3 and 5-7; funct3 4 is unassigned).
func decodeSystem(w Word, f3, rd, rs1 Word) (Instruction, error) {
	switch f3 {
	case 0b000:
		imm := w >> 20 // unsigned, not sign-extended: a bare selector
		switch imm {
		case 0x000:
			return Instruction{Op: OpECALL}, nil
		case 0x001:
			return Instruction{Op: OpEBREAK}, nil
		case 0x302:
			return Instruction{Op: OpMRET}, nil
		default:
			return Instruction{}, &DecodeError{w, fmt.Sprintf("unknown SYSTEM immediate 0x%03X", imm)}
		}
	case 0b001:
		return Instruction{Op: OpCSRRW, Rd: rd, Rs1: rs1, Imm: w >> 20}, nil
	case 0b010:
		return Instruction{Op: OpCSRRS, Rd: rd, Rs1: rs1, Imm: w >> 20}, nil
	case 0b011:
		return Instruction{Op: OpCSRRC, Rd: rd, Rs1: rs1, Imm: w >> 20}, nil
	case 0b101:
		return Instruction{Op: OpCSRRWI, Rd: rd, Rs1: rs1, Imm: w >> 20}, nil
	case 0b110:
		return Instruction{Op: OpCSRRSI, Rd: rd, Rs1: rs1, Imm: w >> 20}, nil
	case 0b111:
		return Instruction{Op: OpCSRRCI, Rd: rd, Rs1: rs1, Imm: w >> 20}, nil
	default:
		return Instruction{}, unassignedFunct3(w, "SYSTEM", f3)
	}
}
