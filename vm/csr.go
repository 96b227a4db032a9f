package vm

import "fmt"

// csrPolicy governs how a write to a recognized CSR address behaves.
// Reads are always the stored value except for WARL-zero addresses,
// which always read 0 regardless of what (nothing) was ever stored.
type csrPolicy int

const (
	csrReadOnly     csrPolicy = iota // write always fails; value fixed at reset (here, always 0)
	csrIgnoredWrite                  // write succeeds but the stored value stays 0
	csrWarlZero                      // write succeeds but reads always return 0
	csrWritable                      // write stores the given value verbatim
	csrMtvecWrite                    // write must be 4-byte aligned, else fails; otherwise stores verbatim
)

// Recognized CSR addresses (spec.md section 4.4), grounded on the
// original machine-mode CSR set: machine information registers,
// trap-setup registers, and trap-handling registers.
const (
	CSRMvendorid  = Word(0xF11)
	CSRMarchid    = Word(0xF12)
	CSRMimpid     = Word(0xF13)
	CSRMhartid    = Word(0xF14)
	CSRMconfigptr = Word(0xF15)
	CSRMstatus    = Word(0x300)
	CSRMisa       = Word(0x301)
	CSRMedeleg    = Word(0x302)
	CSRMideleg    = Word(0x303)
	CSRMie        = Word(0x304)
	CSRMtvec      = Word(0x305)
	CSRMcounteren = Word(0x306)
	CSRMstatush   = Word(0x310)
	CSRMscratch   = Word(0x340)
	CSRMepc       = Word(0x341)
	CSRMcause     = Word(0x342)
	CSRMtval      = Word(0x343)
	CSRMip        = Word(0x344)
	CSRMtinst     = Word(0x34A)
	CSRMtval2     = Word(0x34B)
)

var csrPolicies = map[Word]csrPolicy{
	CSRMvendorid:  csrReadOnly,
	CSRMarchid:    csrReadOnly,
	CSRMimpid:     csrReadOnly,
	CSRMhartid:    csrReadOnly,
	CSRMconfigptr: csrReadOnly,
	CSRMstatus:    csrIgnoredWrite,
	CSRMisa:       csrWarlZero,
	CSRMedeleg:    csrIgnoredWrite,
	CSRMideleg:    csrIgnoredWrite,
	CSRMie:        csrIgnoredWrite,
	CSRMtvec:      csrMtvecWrite,
	CSRMcounteren: csrIgnoredWrite,
	CSRMstatush:   csrIgnoredWrite,
	CSRMscratch:   csrWritable,
	CSRMepc:       csrWritable,
	CSRMcause:     csrWritable,
	CSRMtval:      csrIgnoredWrite,
	CSRMip:        csrIgnoredWrite,
	CSRMtinst:     csrIgnoredWrite,
	CSRMtval2:     csrIgnoredWrite,
}

// CSRError reports a fault accessing a control-and-status register:
// an unrecognized address, a write to a read-only CSR, or an
// unaligned write to mtvec.
type CSRError struct {
	Addr   Word
	Reason string
}

func (e *CSRError) Error() string {
	return fmt.Sprintf("CSR access fault at 0x%03X: %s", e.Addr, e.Reason)
}

// CSRFile is the 12-bit-addressed control-and-status register space.
type CSRFile struct {
	values map[Word]Word
}

// NewCSRFile returns a CSR file with every recognized address
// initialized to zero.
func NewCSRFile() CSRFile {
	return CSRFile{values: make(map[Word]Word, len(csrPolicies))}
}

// Read returns the value stored at addr, or 0 for a WARL-zero address.
// Accessing an unrecognized address is a *CSRError.
func (c *CSRFile) Read(addr Word) (Word, error) {
	policy, ok := csrPolicies[addr]
	if !ok {
		return 0, &CSRError{addr, "unrecognized CSR address"}
	}
	if policy == csrWarlZero {
		return 0, nil
	}
	return c.values[addr], nil
}

// Write stores v at addr subject to the address's policy. Writing a
// read-only CSR, writing an unaligned value to mtvec, or accessing an
// unrecognized address all return a *CSRError; the stored value is
// left unchanged in every failing case.
func (c *CSRFile) Write(addr Word, v Word) error {
	policy, ok := csrPolicies[addr]
	if !ok {
		return &CSRError{addr, "unrecognized CSR address"}
	}
	switch policy {
	case csrReadOnly:
		return &CSRError{addr, "write to read-only CSR"}
	case csrIgnoredWrite, csrWarlZero:
		// Writes are accepted but have no observable effect: the
		// stored value (if any) stays at its reset value of 0.
		return nil
	case csrMtvecWrite:
		if v&0x3 != 0 {
			return &CSRError{addr, "mtvec write must be 4-byte aligned"}
		}
		c.values[addr] = v
		return nil
	case csrWritable:
		c.values[addr] = v
		return nil
	default:
		return &CSRError{addr, "unknown CSR policy"}
	}
}
