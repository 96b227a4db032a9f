package vm

// Minimal hand-rolled encoders for building tiny test programs without
// pulling in a full assembler; only the shapes exercised by the
// executor tests are implemented.

func encodeU(opcode, rd Word, imm Word) Word {
	return (imm & 0xFFFFF000) | (rd << 7) | opcode
}

func encodeJ(opcode, rd Word, imm Word) Word {
	bit20 := (imm >> 20) & 0x1
	bits19_12 := (imm >> 12) & 0xFF
	bit11 := (imm >> 11) & 0x1
	bits10_1 := (imm >> 1) & 0x3FF
	enc := (bit20 << 31) | (bits10_1 << 21) | (bit11 << 20) | (bits19_12 << 12) | (rd << 7) | opcode
	return enc
}

func encodeB(opcode, f3, rs1, rs2 Word, imm Word) Word {
	bit12 := (imm >> 12) & 0x1
	bit11 := (imm >> 11) & 0x1
	bits10_5 := (imm >> 5) & 0x3F
	bits4_1 := (imm >> 1) & 0xF
	return (bit12 << 31) | (bits10_5 << 25) | (rs2 << 20) | (rs1 << 15) | (f3 << 12) | (bits4_1 << 8) | (bit11 << 7) | opcode
}

func encodeS(opcode, f3, rs1, rs2 Word, imm Word) Word {
	bits11_5 := (imm >> 5) & 0x7F
	bits4_0 := imm & 0x1F
	return (bits11_5 << 25) | (rs2 << 20) | (rs1 << 15) | (f3 << 12) | (bits4_0 << 7) | opcode
}

func encodeSystem12(opcode, f3, rd, rs1, imm12 Word) Word {
	return (imm12 << 20) | (rs1 << 15) | (f3 << 12) | (rd << 7) | opcode
}

// assemble lays out a sequence of pre-encoded words starting at ROMBase
// into a little-endian byte image sized to hold them.
func assemble(words ...Word) []byte {
	img := make([]byte, len(words)*4)
	for i, w := range words {
		img[i*4+0] = byte(w)
		img[i*4+1] = byte(w >> 8)
		img[i*4+2] = byte(w >> 16)
		img[i*4+3] = byte(w >> 24)
	}
	return img
}
