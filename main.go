package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/lookbusy1344/rv32i-sim/config"
	"github.com/lookbusy1344/rv32i-sim/debugger"
	"github.com/lookbusy1344/rv32i-sim/loader"
	"github.com/lookbusy1344/rv32i-sim/vm"
)

// Version information, overridable at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		debugMode   = flag.Bool("debug", false, "Start in interactive debugger mode")
		tuiMode     = flag.Bool("tui", false, "Use the full-screen TUI debugger")
		maxCycles   = flag.Uint64("max-cycles", 0, "Maximum cycles before halting with an error (default: config max_cycles)")
		verboseMode = flag.Bool("verbose", false, "Verbose output")
		configPath  = flag.String("config", "", "Path to a config.toml (default: platform config directory)")

		enableTrace = flag.Bool("trace", false, "Enable execution trace")
		traceFile   = flag.String("trace-file", "", "Trace output file (default: trace.log)")
		traceFilter = flag.String("trace-filter", "", "Filter trace by register, comma-separated (e.g. x1,x2)")

		enableStats = flag.Bool("stats", false, "Enable performance statistics")
		statsFile   = flag.String("stats-file", "", "Statistics output file (default: stats.json)")
		statsFormat = flag.String("stats-format", "", "Statistics format (json, csv) (default: config format, else json)")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("rv32i-sim %s (commit %s, built %s)\n", Version, Commit, Date)
		return
	}

	if flag.NArg() == 0 {
		printUsage()
		os.Exit(1)
	}
	romPath := flag.Arg(0)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rv32i-sim: %v\n", err)
		os.Exit(1)
	}

	machine, err := loader.LoadFile(romPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rv32i-sim: %v\n", err)
		os.Exit(1)
	}

	if *maxCycles > 0 {
		machine.CycleLimit = *maxCycles
	} else {
		machine.CycleLimit = cfg.Execution.MaxCycles
	}

	machine.Memory.Output = func(b byte) {
		fmt.Fprint(os.Stdout, string(rune(b)))
	}

	if *enableTrace || cfg.Execution.EnableTrace {
		trace := vm.NewExecutionTrace(nil)
		if *traceFilter != "" {
			trace.SetFilterRegisters(strings.Split(*traceFilter, ","))
		}
		trace.Start()
		machine.Trace = trace
		defer flushTrace(trace, firstNonEmpty(*traceFile, cfg.Trace.OutputFile))
	}

	if *enableStats || cfg.Execution.EnableStats {
		stats := vm.NewStatistics()
		stats.Start()
		machine.Stats = stats
		defer flushStats(stats, firstNonEmpty(*statsFile, cfg.Statistics.OutputFile), statsFormatOrDefault(*statsFormat, cfg.Statistics.Format))
	}

	switch {
	case *tuiMode:
		runTUI(machine)
	case *debugMode:
		runDebugREPL(machine)
	default:
		runHeadless(machine, *verboseMode)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: rv32i-sim [flags] <rom-image>")
	flag.PrintDefaults()
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFrom(path)
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func statsFormatOrDefault(a, b string) string {
	if a != "" {
		return a
	}
	if b != "" {
		return b
	}
	return "json"
}

func runHeadless(machine *vm.VM, verbose bool) {
	err := machine.Run()
	if verbose {
		fmt.Fprintf(os.Stderr, "\nfinal state: %s, cycles: %d\n", machine.State, machine.Regs.Cycles)
	}
	if err != nil && machine.State == vm.StateError {
		fmt.Fprintf(os.Stderr, "rv32i-sim: %v\n", err)
		os.Exit(1)
	}
}

func runDebugREPL(machine *vm.VM) {
	d := debugger.NewDebugger(machine)
	fmt.Println("rv32i-sim debugger. Type 'help' for commands.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("(rv32i-sim) ")
		if !scanner.Scan() {
			break
		}
		if err := d.ExecuteCommand(scanner.Text()); err != nil {
			fmt.Println("error:", err)
		}
		fmt.Print(d.GetOutput())

		if d.Running && machine.State == vm.StateRunning {
			runUntilStopOrBreak(d)
		}
	}
}

func runUntilStopOrBreak(d *debugger.Debugger) {
	for d.VM.State == vm.StateRunning {
		if err := d.VM.Step(); err != nil {
			break
		}
		if stop, reason := d.ShouldBreak(); stop {
			fmt.Println(reason)
			d.Running = false
			return
		}
	}
}

func runTUI(machine *vm.VM) {
	d := debugger.NewDebugger(machine)
	t := debugger.NewTUI(d)
	if err := t.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "rv32i-sim: tui: %v\n", err)
		os.Exit(1)
	}
}

func flushTrace(trace *vm.ExecutionTrace, path string) {
	if path == "" {
		return
	}
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rv32i-sim: opening trace file: %v\n", err)
		return
	}
	defer f.Close()
	trace.Writer = f
	if err := trace.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "rv32i-sim: flushing trace: %v\n", err)
	}
}

func flushStats(stats *vm.Statistics, path, format string) {
	stats.Finalize()
	if path == "" {
		return
	}
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rv32i-sim: opening statistics file: %v\n", err)
		return
	}
	defer f.Close()

	var exportErr error
	switch format {
	case "csv":
		exportErr = stats.ExportCSV(f)
	default:
		exportErr = stats.ExportJSON(f)
	}
	if exportErr != nil {
		fmt.Fprintf(os.Stderr, "rv32i-sim: exporting statistics: %v\n", exportErr)
	}
}
