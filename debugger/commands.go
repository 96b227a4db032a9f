package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lookbusy1344/rv32i-sim/vm"
)

func (d *Debugger) cmdRun() error {
	d.VM.Regs.Reset()
	d.VM.Regs.PC = vm.ROMBase
	d.VM.Regs.Write(2, vm.RAMBase+vm.RAMSize)
	d.VM.State = vm.StateRunning
	d.Running = true
	d.StepMode = StepNone

	d.Println("Starting program execution...")
	return nil
}

func (d *Debugger) cmdContinue() error {
	if d.VM.State == vm.StateHalted {
		return fmt.Errorf("program is not running")
	}
	d.VM.State = vm.StateRunning
	d.Running = true
	d.StepMode = StepNone

	d.Println("Continuing...")
	return nil
}

func (d *Debugger) cmdStep() error {
	d.StepMode = StepSingle
	d.Running = true
	return nil
}

func (d *Debugger) cmdBreak(args []string, temporary bool) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: break <address|label> [if <condition>]")
	}

	address, err := d.ResolveAddress(args[0])
	if err != nil {
		return err
	}

	var condition string
	if len(args) > 1 && strings.ToLower(args[1]) == "if" {
		condition = strings.Join(args[2:], " ")
	}

	bp := d.Breakpoints.AddBreakpoint(address, temporary, condition)
	if condition != "" {
		d.Printf("Breakpoint %d at 0x%08X (condition: %s)\n", bp.ID, address, condition)
	} else {
		d.Printf("Breakpoint %d at 0x%08X\n", bp.ID, address)
	}
	return nil
}

func (d *Debugger) cmdDelete(args []string) error {
	if len(args) == 0 {
		d.Breakpoints.Clear()
		d.Println("All breakpoints deleted")
		return nil
	}

	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid breakpoint ID: %s", args[0])
	}
	if err := d.Breakpoints.DeleteBreakpoint(id); err != nil {
		return err
	}
	d.Printf("Breakpoint %d deleted\n", id)
	return nil
}

func (d *Debugger) cmdEnableDisable(args []string, enable bool) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: enable|disable <breakpoint-id>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid breakpoint ID: %s", args[0])
	}

	var opErr error
	if enable {
		opErr = d.Breakpoints.EnableBreakpoint(id)
	} else {
		opErr = d.Breakpoints.DisableBreakpoint(id)
	}
	if opErr != nil {
		return opErr
	}

	if enable {
		d.Printf("Breakpoint %d enabled\n", id)
	} else {
		d.Printf("Breakpoint %d disabled\n", id)
	}
	return nil
}

// cmdWatch sets a watchpoint on a register (e.g. "x5") or a memory
// word (e.g. "0x80000010").
func (d *Debugger) cmdWatch(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: watch <register|address>")
	}

	expr := args[0]
	if strings.HasPrefix(expr, "x") {
		n, err := strconv.Atoi(expr[1:])
		if err != nil || n < 0 || n >= vm.NumRegisters {
			return fmt.Errorf("invalid register %q", expr)
		}
		wp := d.Watchpoints.AddWatchpoint(WatchReadWrite, expr, 0, true, n)
		_ = d.Watchpoints.InitializeWatchpoint(wp.ID, d.VM)
		d.Printf("Watchpoint %d on register %s\n", wp.ID, expr)
		return nil
	}

	addr, err := d.ResolveAddress(expr)
	if err != nil {
		return err
	}
	wp := d.Watchpoints.AddWatchpoint(WatchReadWrite, expr, addr, false, 0)
	_ = d.Watchpoints.InitializeWatchpoint(wp.ID, d.VM)
	d.Printf("Watchpoint %d on memory 0x%08X\n", wp.ID, addr)
	return nil
}

// cmdPrint shows a register's value. "print pc" and "print csr:<addr>"
// are also recognized.
func (d *Debugger) cmdPrint(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: print <register|pc|csr:<addr>>")
	}

	expr := args[0]
	switch {
	case expr == "pc":
		d.Printf("pc = 0x%08X\n", d.VM.Regs.PC)
	case strings.HasPrefix(expr, "x"):
		n, err := strconv.Atoi(expr[1:])
		if err != nil || n < 0 || n >= vm.NumRegisters {
			return fmt.Errorf("invalid register %q", expr)
		}
		d.Printf("%s = 0x%08X\n", expr, d.VM.Regs.Read(vm.Word(n)))
	case strings.HasPrefix(expr, "csr:"):
		addr, err := d.ResolveAddress(expr[len("csr:"):])
		if err != nil {
			return err
		}
		v, err := d.VM.Regs.CSR.Read(addr)
		if err != nil {
			return err
		}
		d.Printf("csr 0x%03X = 0x%08X\n", addr, v)
	default:
		return fmt.Errorf("unrecognized expression %q", expr)
	}
	return nil
}

// cmdInfo reports summary state: registers, breakpoints, or
// watchpoints.
func (d *Debugger) cmdInfo(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: info <registers|breakpoints|watchpoints>")
	}

	switch args[0] {
	case "registers", "reg":
		for i := 0; i < vm.NumRegisters; i++ {
			d.Printf("x%-2d = 0x%08X  ", i, d.VM.Regs.Read(vm.Word(i)))
			if i%4 == 3 {
				d.Println()
			}
		}
		d.Printf("pc  = 0x%08X\n", d.VM.Regs.PC)

	case "breakpoints", "break":
		for _, bp := range d.Breakpoints.GetAllBreakpoints() {
			d.Printf("%d: 0x%08X enabled=%v hits=%d\n", bp.ID, bp.Address, bp.Enabled, bp.HitCount)
		}

	case "watchpoints", "watch":
		for _, wp := range d.Watchpoints.GetAllWatchpoints() {
			d.Printf("%d: %s hits=%d\n", wp.ID, wp.Expression, wp.HitCount)
		}

	default:
		return fmt.Errorf("unknown info topic: %s", args[0])
	}
	return nil
}

func (d *Debugger) cmdHelp() error {
	d.Println("Commands: run, continue, step, break <addr>, tbreak <addr>, delete [id],")
	d.Println("          enable <id>, disable <id>, watch <reg|addr>, print <expr>,")
	d.Println("          info <registers|breakpoints|watchpoints>, help")
	return nil
}
