// Package debugger implements an interactive command debugger over a
// running VM: breakpoints, watchpoints, single-stepping, and register
// and memory inspection, grounded on the same command-dispatch shape
// the teacher emulator's debugger uses.
package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lookbusy1344/rv32i-sim/vm"
)

// StepMode names how the debugger should advance execution on the
// next continue.
type StepMode int

const (
	StepNone StepMode = iota
	StepSingle
)

// Debugger wraps a VM with breakpoints, watchpoints, history, and a
// text command interface.
type Debugger struct {
	VM *vm.VM

	Breakpoints *BreakpointManager
	Watchpoints *WatchpointManager
	History     *CommandHistory

	Running  bool
	StepMode StepMode

	// Symbols maps a label to the address it resolves to, loaded from
	// a companion symbol file if one was given.
	Symbols map[string]vm.Word

	LastCommand string
	Output      strings.Builder
}

// NewDebugger returns a debugger attached to machine with no
// breakpoints, watchpoints, or history yet.
func NewDebugger(machine *vm.VM) *Debugger {
	return &Debugger{
		VM:          machine,
		Breakpoints: NewBreakpointManager(),
		Watchpoints: NewWatchpointManager(),
		History:     NewCommandHistory(),
		Symbols:     make(map[string]vm.Word),
	}
}

// LoadSymbols installs a label table for address resolution.
func (d *Debugger) LoadSymbols(symbols map[string]vm.Word) {
	d.Symbols = symbols
}

// ResolveAddress resolves a symbol name, or failing that a decimal or
// 0x-prefixed hexadecimal literal, to an address.
func (d *Debugger) ResolveAddress(s string) (vm.Word, error) {
	if addr, ok := d.Symbols[s]; ok {
		return addr, nil
	}

	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err := strconv.ParseUint(s[2:], 16, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid address %q: %w", s, err)
		}
		return vm.Word(v), nil
	}

	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q: %w", s, err)
	}
	return vm.Word(v), nil
}

// ExecuteCommand parses and dispatches one command line. An empty
// line repeats the last non-empty command, matching gdb's convention
// for step/next.
func (d *Debugger) ExecuteCommand(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		line = d.LastCommand
	}
	if line != "" {
		d.History.Add(line, d.VM.Regs.PC)
		d.LastCommand = line
	}

	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}
	return d.handleCommand(strings.ToLower(parts[0]), parts[1:])
}

func (d *Debugger) handleCommand(cmd string, args []string) error {
	switch cmd {
	case "run", "r":
		return d.cmdRun()
	case "continue", "c":
		return d.cmdContinue()
	case "step", "s", "si":
		return d.cmdStep()

	case "break", "b":
		return d.cmdBreak(args, false)
	case "tbreak", "tb":
		return d.cmdBreak(args, true)
	case "delete", "d":
		return d.cmdDelete(args)
	case "enable":
		return d.cmdEnableDisable(args, true)
	case "disable":
		return d.cmdEnableDisable(args, false)

	case "watch", "w":
		return d.cmdWatch(args)

	case "print", "p":
		return d.cmdPrint(args)
	case "info", "i":
		return d.cmdInfo(args)

	case "help", "h", "?":
		return d.cmdHelp()

	default:
		return fmt.Errorf("unknown command: %s (type 'help' for available commands)", cmd)
	}
}

// ShouldBreak reports whether execution should stop at the VM's
// current PC, and why.
func (d *Debugger) ShouldBreak() (bool, string) {
	pc := d.VM.Regs.PC

	if d.StepMode == StepSingle {
		d.StepMode = StepNone
		return true, "single step"
	}

	if bp := d.Breakpoints.GetBreakpoint(pc); bp != nil && bp.Enabled {
		processed := d.Breakpoints.ProcessHit(pc)
		return true, fmt.Sprintf("breakpoint %d", processed.ID)
	}

	if wp, changed := d.Watchpoints.CheckWatchpoints(d.VM); wp != nil && changed {
		return true, fmt.Sprintf("watchpoint %d: %s", wp.ID, wp.Expression)
	}

	return false, ""
}

// GetOutput drains and returns everything written via Printf/Println
// since the last call.
func (d *Debugger) GetOutput() string {
	out := d.Output.String()
	d.Output.Reset()
	return out
}

func (d *Debugger) Printf(format string, args ...interface{}) {
	fmt.Fprintf(&d.Output, format, args...)
}

func (d *Debugger) Println(args ...interface{}) {
	fmt.Fprintln(&d.Output, args...)
}
