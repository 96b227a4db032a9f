// Package loader reads a raw flat binary image from disk and wires it
// into a freshly constructed VM, the way the ARM teacher's loader
// wires a parsed assembly program into VM memory -- except here there
// is no assembly text or symbol table to process, only bytes destined
// for ROM.
package loader

import (
	"fmt"
	"io"
	"os"

	"github.com/lookbusy1344/rv32i-sim/vm"
)

// MaxImageSize bounds how large a ROM image this loader will accept,
// guarding against accidentally trying to map a multi-gigabyte file
// into the fixed ROM region.
const MaxImageSize = 16 * 1024 * 1024

// LoadFile reads the named file and constructs a VM over its
// contents.
func LoadFile(path string) (*vm.VM, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loader: opening %s: %w", path, err)
	}
	defer f.Close()

	return Load(f)
}

// Load reads a ROM image from r and constructs a VM over it. The
// image must be non-empty and no larger than MaxImageSize.
func Load(r io.Reader) (*vm.VM, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("loader: reading image: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("loader: image is empty")
	}
	if len(data) > MaxImageSize {
		return nil, fmt.Errorf("loader: image exceeds %d bytes", MaxImageSize)
	}

	return vm.NewVM(data), nil
}
