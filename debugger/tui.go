package debugger

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/lookbusy1344/rv32i-sim/vm"
)

// TUI is the full-screen text interface over a Debugger: a
// disassembly/trace panel, a register panel, a memory panel, an
// output log, and a command line, wired together with tview.
type TUI struct {
	Debugger *Debugger
	App      *tview.Application
	Pages    *tview.Pages

	MainLayout *tview.Flex
	LeftPanel  *tview.Flex
	RightPanel *tview.Flex

	TraceView       *tview.TextView
	RegisterView    *tview.TextView
	MemoryView      *tview.TextView
	BreakpointsView *tview.TextView
	OutputView      *tview.TextView
	CommandInput    *tview.InputField

	MemoryAddress vm.Word
}

// NewTUI builds and wires every panel of the debugger's full-screen
// view.
func NewTUI(d *Debugger) *TUI {
	t := &TUI{
		Debugger: d,
		App:      tview.NewApplication(),
	}
	t.initializeViews()
	t.buildLayout()
	t.setupKeyBindings()
	return t
}

func (t *TUI) initializeViews() {
	t.TraceView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.TraceView.SetBorder(true).SetTitle(" Trace ")

	t.RegisterView = tview.NewTextView().SetDynamicColors(true)
	t.RegisterView.SetBorder(true).SetTitle(" Registers ")

	t.MemoryView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(false)
	t.MemoryView.SetBorder(true).SetTitle(" Memory ")

	t.BreakpointsView = tview.NewTextView().SetDynamicColors(true)
	t.BreakpointsView.SetBorder(true).SetTitle(" Breakpoints ")

	t.OutputView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.OutputView.SetBorder(true).SetTitle(" Output ")

	t.CommandInput = tview.NewInputField().SetLabel("(rv32i-sim) ")
	t.CommandInput.SetBorder(true)
	t.CommandInput.SetDoneFunc(t.handleCommand)
}

func (t *TUI) buildLayout() {
	t.LeftPanel = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.TraceView, 0, 3, false).
		AddItem(t.MemoryView, 0, 2, false)

	t.RightPanel = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.RegisterView, 12, 0, false).
		AddItem(t.BreakpointsView, 0, 1, false)

	mainContent := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(t.LeftPanel, 0, 2, false).
		AddItem(t.RightPanel, 0, 1, false)

	t.MainLayout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(mainContent, 0, 4, false).
		AddItem(t.OutputView, 8, 0, false).
		AddItem(t.CommandInput, 3, 0, true)

	t.Pages = tview.NewPages().AddPage("main", t.MainLayout, true, true)
}

func (t *TUI) setupKeyBindings() {
	t.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyF1:
			t.executeCommand("help")
			return nil
		case tcell.KeyF5:
			t.executeCommand("continue")
			return nil
		case tcell.KeyF9:
			t.executeCommand("break")
			return nil
		case tcell.KeyF11:
			t.executeCommand("step")
			return nil
		case tcell.KeyCtrlC:
			t.App.Stop()
			return nil
		case tcell.KeyCtrlL:
			t.RefreshAll()
			return nil
		}
		return event
	})
}

func (t *TUI) handleCommand(key tcell.Key) {
	if key != tcell.KeyEnter {
		return
	}
	cmd := t.CommandInput.GetText()
	if cmd == "" {
		return
	}
	t.executeCommand(cmd)
	t.CommandInput.SetText("")
}

func (t *TUI) executeCommand(cmd string) {
	t.Debugger.Output.Reset()
	err := t.Debugger.ExecuteCommand(cmd)
	output := t.Debugger.GetOutput()

	if err != nil {
		t.WriteOutput(fmt.Sprintf("[red]error:[white] %v\n", err))
	}
	if output != "" {
		t.WriteOutput(output)
	}
	t.RefreshAll()
}

// WriteOutput appends text to the output log and scrolls to the end.
func (t *TUI) WriteOutput(text string) {
	_, _ = t.OutputView.Write([]byte(text))
	t.OutputView.ScrollToEnd()
}

// RefreshAll redraws every panel from current VM state.
func (t *TUI) RefreshAll() {
	t.UpdateRegisterView()
	t.UpdateMemoryView()
	t.UpdateBreakpointsView()
}

// UpdateRegisterView redraws the 32 x-registers (8 rows of 4), the
// program counter, and the cycle count.
func (t *TUI) UpdateRegisterView() {
	regs := t.Debugger.VM.Regs
	var lines []string

	for row := 0; row < 8; row++ {
		var cols []string
		for col := 0; col < 4; col++ {
			i := row*4 + col
			cols = append(cols, fmt.Sprintf("x%-2d: 0x%08X", i, regs.Read(vm.Word(i))))
		}
		lines = append(lines, strings.Join(cols, "  "))
	}

	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("pc: 0x%08X   cycles: %d", regs.PC, regs.Cycles))

	t.RegisterView.SetText(strings.Join(lines, "\n"))
}

// UpdateMemoryView dumps 16 rows of 16 bytes starting at MemoryAddress
// (or the PC, if unset).
func (t *TUI) UpdateMemoryView() {
	addr := t.MemoryAddress
	if addr == 0 {
		addr = t.Debugger.VM.Regs.PC
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("[yellow]address: 0x%08X[white]", addr))

	for row := 0; row < 16; row++ {
		rowAddr := addr + vm.Word(row*16)
		var bytes []string
		for col := 0; col < 16; col++ {
			b, err := t.Debugger.VM.Memory.ReadByte(rowAddr + vm.Word(col))
			if err != nil {
				bytes = append(bytes, "??")
				continue
			}
			bytes = append(bytes, fmt.Sprintf("%02X", b))
		}
		lines = append(lines, fmt.Sprintf("0x%08X: %s", rowAddr, strings.Join(bytes, " ")))
	}

	t.MemoryView.SetText(strings.Join(lines, "\n"))
}

// UpdateBreakpointsView lists every breakpoint and its hit count.
func (t *TUI) UpdateBreakpointsView() {
	var lines []string
	for _, bp := range t.Debugger.Breakpoints.GetAllBreakpoints() {
		status := "enabled"
		if !bp.Enabled {
			status = "disabled"
		}
		lines = append(lines, fmt.Sprintf("#%d 0x%08X %s hits=%d", bp.ID, bp.Address, status, bp.HitCount))
	}
	t.BreakpointsView.SetText(strings.Join(lines, "\n"))
}

// Run starts the tview event loop. It blocks until the application is
// stopped (Ctrl+C or a fatal draw error).
func (t *TUI) Run() error {
	t.RefreshAll()
	return t.App.SetRoot(t.Pages, true).SetFocus(t.CommandInput).Run()
}

// Stop tears down the tview application.
func (t *TUI) Stop() {
	t.App.Stop()
}
