// Package config loads and saves the simulator's TOML configuration
// file, mirroring the layout and platform-specific path conventions
// the teacher emulator uses for its own config.toml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config is the complete simulator configuration.
type Config struct {
	Execution struct {
		MaxCycles   uint64 `toml:"max_cycles"`
		StackSize   uint   `toml:"stack_size"`
		EnableTrace bool   `toml:"enable_trace"`
		EnableStats bool   `toml:"enable_stats"`
	} `toml:"execution"`

	Debugger struct {
		HistorySize   int  `toml:"history_size"`
		ShowRegisters bool `toml:"show_registers"`
		ShowCSRs      bool `toml:"show_csrs"`
	} `toml:"debugger"`

	Display struct {
		ColorOutput   bool `toml:"color_output"`
		DisasmContext int  `toml:"disasm_context"`
	} `toml:"display"`

	Trace struct {
		OutputFile string `toml:"output_file"`
		FilterRegs string `toml:"filter_registers"` // comma-separated: "x1,x2"
		MaxEntries int    `toml:"max_entries"`
	} `toml:"trace"`

	Statistics struct {
		OutputFile     string `toml:"output_file"`
		Format         string `toml:"format"` // json or csv
		CollectHotPath bool   `toml:"collect_hotpath"`
	} `toml:"statistics"`
}

// DefaultConfig returns the configuration a fresh install starts with.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Execution.MaxCycles = 10_000_000
	cfg.Execution.StackSize = 4096
	cfg.Execution.EnableTrace = false
	cfg.Execution.EnableStats = false

	cfg.Debugger.HistorySize = 1000
	cfg.Debugger.ShowRegisters = true
	cfg.Debugger.ShowCSRs = false

	cfg.Display.ColorOutput = true
	cfg.Display.DisasmContext = 5

	cfg.Trace.OutputFile = "trace.log"
	cfg.Trace.FilterRegs = ""
	cfg.Trace.MaxEntries = 100000

	cfg.Statistics.OutputFile = "stats.json"
	cfg.Statistics.Format = "json"
	cfg.Statistics.CollectHotPath = true

	return cfg
}

// GetConfigPath returns the platform-specific config file location,
// creating its containing directory if necessary.
func GetConfigPath() string {
	var dir string

	switch runtime.GOOS {
	case "windows":
		dir = os.Getenv("APPDATA")
		if dir == "" {
			dir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		dir = filepath.Join(dir, "rv32i-sim")

	case "darwin", "linux":
		home, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		dir = filepath.Join(home, ".config", "rv32i-sim")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "config.toml"
	}
	return filepath.Join(dir, "config.toml")
}

// Load reads the configuration from the default path, returning
// defaults unmodified if no file exists yet.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom reads the configuration from path, layering its contents
// over DefaultConfig.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo writes the configuration to path as TOML.
func (c *Config) SaveTo(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("config: creating %s: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("config: creating %s: %w", path, err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("config: encoding %s: %w", path, err)
	}
	return nil
}
