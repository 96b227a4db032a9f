package vm

import (
	"fmt"
	"io"
	"strings"
)

// TraceEntry is a single recorded instruction execution: its sequence
// number, address, raw word, decoded mnemonic, and the registers that
// changed as a result.
type TraceEntry struct {
	Sequence        uint64
	PC              Word
	Word            Word
	Disassembly     string
	RegisterChanges map[string]Word
}

// ExecutionTrace accumulates a log of every instruction a VM executes,
// diffing register state between instructions so each entry only
// reports what actually changed.
type ExecutionTrace struct {
	Enabled    bool
	Writer     io.Writer
	FilterRegs map[string]bool
	MaxEntries int

	entries      []TraceEntry
	lastSnapshot [NumRegisters]Word
}

// NewExecutionTrace returns a trace ready to record, optionally
// mirroring entries to writer as they are flushed.
func NewExecutionTrace(writer io.Writer) *ExecutionTrace {
	return &ExecutionTrace{
		Enabled:    true,
		Writer:     writer,
		FilterRegs: make(map[string]bool),
		MaxEntries: 100000,
		entries:    make([]TraceEntry, 0, 1000),
	}
}

// SetFilterRegisters restricts recorded register changes to the named
// registers (x0..x31); an empty slice tracks every register.
func (t *ExecutionTrace) SetFilterRegisters(regs []string) {
	t.FilterRegs = make(map[string]bool, len(regs))
	for _, r := range regs {
		t.FilterRegs[strings.ToLower(r)] = true
	}
}

// Start resets the trace to a clean slate.
func (t *ExecutionTrace) Start() {
	t.entries = t.entries[:0]
	t.lastSnapshot = [NumRegisters]Word{}
}

// Record appends one entry for the instruction just executed at pc.
// Its register changes are attached afterwards by RecordRegisters.
func (t *ExecutionTrace) Record(pc, word Word, inst Instruction) {
	if !t.Enabled {
		return
	}
	if t.MaxEntries > 0 && len(t.entries) >= t.MaxEntries {
		return
	}

	entry := TraceEntry{
		PC:              pc,
		Word:            word,
		Disassembly:     inst.Op.String(),
		RegisterChanges: make(map[string]Word),
	}
	t.entries = append(t.entries, entry)
}

// RecordRegisters diffs regs against the trace's last snapshot and
// attaches the changes to the most recently recorded entry. Callers
// invoke this after Record with the register file's post-execution
// state.
func (t *ExecutionTrace) RecordRegisters(seq uint64, regs *RegisterFile) {
	if !t.Enabled || len(t.entries) == 0 {
		return
	}
	entry := &t.entries[len(t.entries)-1]
	if entry.Sequence != 0 {
		// Already filled in: Record dropped this instruction because
		// MaxEntries was reached.
		return
	}
	entry.Sequence = seq

	for i := 0; i < NumRegisters; i++ {
		name := fmt.Sprintf("x%d", i)
		if len(t.FilterRegs) > 0 && !t.FilterRegs[name] {
			continue
		}
		v := regs.Read(Word(i))
		if v != t.lastSnapshot[i] {
			entry.RegisterChanges[name] = v
			t.lastSnapshot[i] = v
		}
	}
}

// Flush writes every recorded entry to the trace's writer, one line
// each.
func (t *ExecutionTrace) Flush() error {
	if t.Writer == nil {
		return nil
	}
	for _, entry := range t.entries {
		if err := t.writeEntry(entry); err != nil {
			return err
		}
	}
	return nil
}

func (t *ExecutionTrace) writeEntry(entry TraceEntry) error {
	line := fmt.Sprintf("[%06d] 0x%08X: %08X  %-8s", entry.Sequence, entry.PC, entry.Word, entry.Disassembly)

	if len(entry.RegisterChanges) > 0 {
		changes := make([]string, 0, len(entry.RegisterChanges))
		for name, v := range entry.RegisterChanges {
			changes = append(changes, fmt.Sprintf("%s=0x%08X", name, v))
		}
		line += " | " + strings.Join(changes, " ")
	} else {
		line += " | (no changes)"
	}
	line += "\n"

	_, err := t.Writer.Write([]byte(line))
	return err
}

// GetEntries returns every entry recorded so far.
func (t *ExecutionTrace) GetEntries() []TraceEntry {
	return t.entries
}

// Clear discards all recorded entries without resetting the register
// snapshot baseline.
func (t *ExecutionTrace) Clear() {
	t.entries = t.entries[:0]
}
