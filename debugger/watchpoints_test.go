package debugger

import (
	"testing"

	"github.com/lookbusy1344/rv32i-sim/vm"
)

func TestAddWatchpointOnRegister(t *testing.T) {
	wm := NewWatchpointManager()
	wp := wm.AddWatchpoint(WatchReadWrite, "x5", 0, true, 5)

	if wp.Register != 5 || !wp.IsRegister {
		t.Fatalf("expected register watchpoint on x5, got %+v", wp)
	}
	if wm.Count() != 1 {
		t.Fatalf("expected 1 watchpoint, got %d", wm.Count())
	}
}

func TestInitializeWatchpointSeedsValueWithoutHit(t *testing.T) {
	machine := vm.NewVM(make([]byte, 64))
	machine.Regs.Write(5, 42)

	wm := NewWatchpointManager()
	wp := wm.AddWatchpoint(WatchReadWrite, "x5", 0, true, 5)

	if err := wm.InitializeWatchpoint(wp.ID, machine); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, changed := wm.CheckWatchpoints(machine); changed {
		t.Fatal("expected no change immediately after initialization")
	}
}

func TestCheckWatchpointsDetectsRegisterChange(t *testing.T) {
	machine := vm.NewVM(make([]byte, 64))
	machine.Regs.Write(5, 42)

	wm := NewWatchpointManager()
	wp := wm.AddWatchpoint(WatchReadWrite, "x5", 0, true, 5)
	_ = wm.InitializeWatchpoint(wp.ID, machine)

	machine.Regs.Write(5, 99)
	hit, changed := wm.CheckWatchpoints(machine)
	if !changed || hit == nil || hit.ID != wp.ID {
		t.Fatalf("expected watchpoint %d to fire, got hit=%v changed=%v", wp.ID, hit, changed)
	}
	if hit.HitCount != 1 {
		t.Fatalf("expected hit count 1, got %d", hit.HitCount)
	}
}

func TestCheckWatchpointsIgnoresDisabled(t *testing.T) {
	machine := vm.NewVM(make([]byte, 64))
	machine.Regs.Write(5, 42)

	wm := NewWatchpointManager()
	wp := wm.AddWatchpoint(WatchReadWrite, "x5", 0, true, 5)
	_ = wm.InitializeWatchpoint(wp.ID, machine)
	wp.Enabled = false

	machine.Regs.Write(5, 99)
	if _, changed := wm.CheckWatchpoints(machine); changed {
		t.Fatal("expected disabled watchpoint not to fire")
	}
}

func TestCheckWatchpointsOnMemoryWord(t *testing.T) {
	machine := vm.NewVM(make([]byte, 64))
	addr := vm.RAMBase

	wm := NewWatchpointManager()
	wp := wm.AddWatchpoint(WatchWrite, "0x80000000", addr, false, 0)
	_ = wm.InitializeWatchpoint(wp.ID, machine)

	if err := machine.Memory.WriteWord(addr, 0xCAFEBABE); err != nil {
		t.Fatalf("unexpected error writing memory: %v", err)
	}

	hit, changed := wm.CheckWatchpoints(machine)
	if !changed || hit == nil || hit.ID != wp.ID {
		t.Fatalf("expected memory watchpoint to fire, got hit=%v changed=%v", hit, changed)
	}
}

func TestDeleteWatchpointUnknownIDFails(t *testing.T) {
	wm := NewWatchpointManager()
	if err := wm.DeleteWatchpoint(7); err == nil {
		t.Fatal("expected error deleting unknown watchpoint")
	}
}

func TestClearRemovesAllWatchpoints(t *testing.T) {
	wm := NewWatchpointManager()
	wm.AddWatchpoint(WatchReadWrite, "x1", 0, true, 1)
	wm.AddWatchpoint(WatchReadWrite, "x2", 0, true, 2)
	wm.Clear()

	if wm.Count() != 0 {
		t.Fatalf("expected 0 watchpoints after Clear, got %d", wm.Count())
	}
}
