package debugger

import (
	"testing"

	"github.com/lookbusy1344/rv32i-sim/vm"
)

func TestAddRecordsCommand(t *testing.T) {
	h := NewCommandHistory()
	h.Add("step", 0x2000_0000)

	if h.Size() != 1 {
		t.Fatalf("expected size 1, got %d", h.Size())
	}
	if got := h.GetLast(); got != "step" {
		t.Fatalf("expected last command %q, got %q", "step", got)
	}
}

func TestAddIgnoresEmptyCommand(t *testing.T) {
	h := NewCommandHistory()
	h.Add("", 0x2000_0000)

	if h.Size() != 0 {
		t.Fatalf("expected empty command to be ignored, got size %d", h.Size())
	}
}

func TestAddCollapsesImmediateRepeat(t *testing.T) {
	h := NewCommandHistory()
	h.Add("step", 0x2000_0000)
	h.Add("step", 0x2000_0004)

	if h.Size() != 1 {
		t.Fatalf("expected repeated command to collapse into one entry, got size %d", h.Size())
	}
}

func TestAddAllowsRepeatAfterDifferentCommand(t *testing.T) {
	h := NewCommandHistory()
	h.Add("step", 0x2000_0000)
	h.Add("info registers", 0x2000_0004)
	h.Add("step", 0x2000_0008)

	if h.Size() != 3 {
		t.Fatalf("expected 3 entries, got %d", h.Size())
	}
}

func TestPreviousAndNextNavigate(t *testing.T) {
	h := NewCommandHistory()
	h.Add("break 0x20000010", 0)
	h.Add("step", 0x2000_0000)
	h.Add("continue", 0x2000_0004)

	if got := h.Previous(); got != "continue" {
		t.Fatalf("expected %q, got %q", "continue", got)
	}
	if got := h.Previous(); got != "step" {
		t.Fatalf("expected %q, got %q", "step", got)
	}
	if got := h.Previous(); got != "break 0x20000010" {
		t.Fatalf("expected %q, got %q", "break 0x20000010", got)
	}
	if got := h.Previous(); got != "" {
		t.Fatalf("expected empty string at start of history, got %q", got)
	}

	if got := h.Next(); got != "step" {
		t.Fatalf("expected %q, got %q", "step", got)
	}
}

func TestNextAtEndOfHistoryReturnsEmpty(t *testing.T) {
	h := NewCommandHistory()
	h.Add("step", 0x2000_0000)

	if got := h.Next(); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestGetAllReturnsCommandsInOrder(t *testing.T) {
	h := NewCommandHistory()
	h.Add("step", 0x2000_0000)
	h.Add("continue", 0x2000_0004)

	all := h.GetAll()
	if len(all) != 2 || all[0] != "step" || all[1] != "continue" {
		t.Fatalf("unexpected history order: %v", all)
	}
}

func TestAtPCReturnsCommandsIssuedAtThatAddress(t *testing.T) {
	h := NewCommandHistory()
	loopTop := vm.Word(0x2000_0010)

	h.Add("break 0x20000020", loopTop)
	h.Add("print x5", loopTop)
	h.Add("continue", loopTop+4)
	h.Add("print x5", loopTop) // revisiting the loop body on a later iteration

	hits := h.AtPC(loopTop)
	if len(hits) != 3 {
		t.Fatalf("expected 3 commands recorded at 0x%08X, got %v", loopTop, hits)
	}
	if hits[0] != "break 0x20000020" || hits[1] != "print x5" || hits[2] != "print x5" {
		t.Fatalf("unexpected command set at PC: %v", hits)
	}

	if hits := h.AtPC(0xDEAD0000); hits != nil {
		t.Fatalf("expected no commands at an address never visited, got %v", hits)
	}
}

func TestClearResetsHistory(t *testing.T) {
	h := NewCommandHistory()
	h.Add("step", 0x2000_0000)
	h.Clear()

	if h.Size() != 0 {
		t.Fatalf("expected size 0 after Clear, got %d", h.Size())
	}
	if got := h.GetLast(); got != "" {
		t.Fatalf("expected empty last command after Clear, got %q", got)
	}
}

func TestSearchMatchesPrefix(t *testing.T) {
	h := NewCommandHistory()
	h.Add("break 0x1000", 0)
	h.Add("break 0x2000", 0)
	h.Add("step", 0)

	results := h.Search("break")
	if len(results) != 2 {
		t.Fatalf("expected 2 matches for prefix %q, got %v", "break", results)
	}
}
