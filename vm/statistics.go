package vm

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"
)

// InstructionStats tracks how often a single mnemonic was executed.
type InstructionStats struct {
	Mnemonic string
	Count    uint64
}

// HotPathEntry names an address and how many times it was fetched.
type HotPathEntry struct {
	PC    Word
	Count uint64
}

// Statistics accumulates an instruction mix, branch outcome counts,
// memory traffic, and a hot-path table over the lifetime of a run.
type Statistics struct {
	Enabled bool

	TotalInstructions  uint64
	TotalCycles        uint64
	ExecutionTime      time.Duration
	InstructionsPerSec float64

	InstructionCounts map[string]uint64

	BranchCount       uint64
	BranchTakenCount  uint64
	BranchMissedCount uint64

	MemoryReads  uint64
	MemoryWrites uint64
	BytesRead    uint64
	BytesWritten uint64

	HotPath map[Word]uint64

	startTime time.Time
}

// NewStatistics returns a statistics tracker ready to record.
func NewStatistics() *Statistics {
	return &Statistics{
		Enabled:           true,
		InstructionCounts: make(map[string]uint64),
		HotPath:           make(map[Word]uint64),
	}
}

// Start resets every counter and begins timing a fresh run.
func (s *Statistics) Start() {
	s.startTime = time.Now()
	s.TotalInstructions = 0
	s.TotalCycles = 0
	s.InstructionCounts = make(map[string]uint64)
	s.BranchCount = 0
	s.BranchTakenCount = 0
	s.BranchMissedCount = 0
	s.MemoryReads = 0
	s.MemoryWrites = 0
	s.BytesRead = 0
	s.BytesWritten = 0
	s.HotPath = make(map[Word]uint64)
}

// Record tallies one executed instruction by mnemonic. The executor
// calls this once per retired instruction, after Step has already
// advanced the cycle counter.
func (s *Statistics) Record(op Op) {
	if !s.Enabled {
		return
	}
	s.TotalInstructions++
	s.TotalCycles++
	s.InstructionCounts[op.String()]++
}

// RecordFetch tallies a hot-path hit at pc.
func (s *Statistics) RecordFetch(pc Word) {
	if !s.Enabled {
		return
	}
	s.HotPath[pc]++
}

// RecordBranch tallies a conditional branch outcome.
func (s *Statistics) RecordBranch(taken bool) {
	if !s.Enabled {
		return
	}
	s.BranchCount++
	if taken {
		s.BranchTakenCount++
	} else {
		s.BranchMissedCount++
	}
}

// RecordMemoryRead tallies a memory read of the given width in bytes.
func (s *Statistics) RecordMemoryRead(bytes uint64) {
	if !s.Enabled {
		return
	}
	s.MemoryReads++
	s.BytesRead += bytes
}

// RecordMemoryWrite tallies a memory write of the given width in
// bytes.
func (s *Statistics) RecordMemoryWrite(bytes uint64) {
	if !s.Enabled {
		return
	}
	s.MemoryWrites++
	s.BytesWritten += bytes
}

// Finalize stops the clock and computes the instructions-per-second
// rate. Call once after a run completes.
func (s *Statistics) Finalize() {
	s.ExecutionTime = time.Since(s.startTime)
	if s.ExecutionTime.Seconds() > 0 {
		s.InstructionsPerSec = float64(s.TotalInstructions) / s.ExecutionTime.Seconds()
	}
}

// GetTopInstructions returns the n most frequently executed mnemonics,
// most frequent first.
func (s *Statistics) GetTopInstructions(n int) []InstructionStats {
	stats := make([]InstructionStats, 0, len(s.InstructionCounts))
	for mnemonic, count := range s.InstructionCounts {
		stats = append(stats, InstructionStats{Mnemonic: mnemonic, Count: count})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Count > stats[j].Count })
	if n > 0 && len(stats) > n {
		stats = stats[:n]
	}
	return stats
}

// GetTopHotPath returns the n most frequently fetched addresses, most
// frequent first.
func (s *Statistics) GetTopHotPath(n int) []HotPathEntry {
	entries := make([]HotPathEntry, 0, len(s.HotPath))
	for pc, count := range s.HotPath {
		entries = append(entries, HotPathEntry{PC: pc, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Count > entries[j].Count })
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// ExportJSON writes the full statistics snapshot as JSON.
func (s *Statistics) ExportJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// ExportCSV writes the instruction mix as a two-column CSV table.
func (s *Statistics) ExportCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"mnemonic", "count"}); err != nil {
		return err
	}
	for _, stat := range s.GetTopInstructions(0) {
		if err := cw.Write([]string{stat.Mnemonic, fmt.Sprintf("%d", stat.Count)}); err != nil {
			return err
		}
	}
	return nil
}

// String renders a short human-readable summary.
func (s *Statistics) String() string {
	return fmt.Sprintf(
		"instructions=%d cycles=%d ips=%.0f branches=%d (taken=%d missed=%d) mem(reads=%d writes=%d bytesR=%d bytesW=%d)",
		s.TotalInstructions, s.TotalCycles, s.InstructionsPerSec,
		s.BranchCount, s.BranchTakenCount, s.BranchMissedCount,
		s.MemoryReads, s.MemoryWrites, s.BytesRead, s.BytesWritten,
	)
}
