package debugger

import (
	"fmt"
	"sync"

	"github.com/lookbusy1344/rv32i-sim/vm"
)

// WatchType names what a watchpoint is nominally watching for.
// Detection is value-change based regardless of type: there is no
// memory-access-layer hook to distinguish a read from a write, so
// WatchRead and WatchWrite both fire on any change, same as
// WatchReadWrite.
type WatchType int

const (
	WatchWrite WatchType = iota
	WatchRead
	WatchReadWrite
)

// Watchpoint monitors a register or a memory word for a value change.
type Watchpoint struct {
	ID         int
	Type       WatchType
	Expression string
	Address    vm.Word
	IsRegister bool
	Register   int
	Enabled    bool
	LastValue  vm.Word
	HitCount   int
}

// WatchpointManager owns the set of watchpoints for one debugging
// session, keyed by ID.
type WatchpointManager struct {
	mu          sync.RWMutex
	watchpoints map[int]*Watchpoint
	nextID      int
}

// NewWatchpointManager returns an empty watchpoint manager.
func NewWatchpointManager() *WatchpointManager {
	return &WatchpointManager{
		watchpoints: make(map[int]*Watchpoint),
		nextID:      1,
	}
}

// AddWatchpoint registers a new watchpoint.
func (wm *WatchpointManager) AddWatchpoint(wpType WatchType, expression string, address vm.Word, isRegister bool, register int) *Watchpoint {
	wm.mu.Lock()
	defer wm.mu.Unlock()

	wp := &Watchpoint{
		ID: wm.nextID, Type: wpType, Expression: expression,
		Address: address, IsRegister: isRegister, Register: register, Enabled: true,
	}
	wm.watchpoints[wp.ID] = wp
	wm.nextID++
	return wp
}

// DeleteWatchpoint removes a watchpoint by ID.
func (wm *WatchpointManager) DeleteWatchpoint(id int) error {
	wm.mu.Lock()
	defer wm.mu.Unlock()

	if _, exists := wm.watchpoints[id]; !exists {
		return fmt.Errorf("watchpoint %d not found", id)
	}
	delete(wm.watchpoints, id)
	return nil
}

// GetAllWatchpoints returns every watchpoint, in no particular order.
func (wm *WatchpointManager) GetAllWatchpoints() []*Watchpoint {
	wm.mu.RLock()
	defer wm.mu.RUnlock()

	result := make([]*Watchpoint, 0, len(wm.watchpoints))
	for _, wp := range wm.watchpoints {
		result = append(result, wp)
	}
	return result
}

// CheckWatchpoints returns the first enabled watchpoint whose current
// value differs from its last known value, updating that value as it
// goes.
func (wm *WatchpointManager) CheckWatchpoints(machine *vm.VM) (*Watchpoint, bool) {
	wm.mu.Lock()
	defer wm.mu.Unlock()

	for _, wp := range wm.watchpoints {
		if !wp.Enabled {
			continue
		}

		var current vm.Word
		if wp.IsRegister {
			current = machine.Regs.Read(vm.Word(wp.Register))
		} else {
			v, err := machine.Memory.ReadWord(wp.Address)
			if err != nil {
				continue
			}
			current = v
		}

		if current != wp.LastValue {
			wp.HitCount++
			wp.LastValue = current
			return wp, true
		}
	}
	return nil, false
}

// InitializeWatchpoint seeds a watchpoint's last-known value without
// treating that seed as a hit.
func (wm *WatchpointManager) InitializeWatchpoint(id int, machine *vm.VM) error {
	wm.mu.Lock()
	defer wm.mu.Unlock()

	wp, exists := wm.watchpoints[id]
	if !exists {
		return fmt.Errorf("watchpoint %d not found", id)
	}

	if wp.IsRegister {
		wp.LastValue = machine.Regs.Read(vm.Word(wp.Register))
		return nil
	}
	v, err := machine.Memory.ReadWord(wp.Address)
	if err != nil {
		return fmt.Errorf("initializing watchpoint: %w", err)
	}
	wp.LastValue = v
	return nil
}

// Clear removes every watchpoint.
func (wm *WatchpointManager) Clear() {
	wm.mu.Lock()
	defer wm.mu.Unlock()
	wm.watchpoints = make(map[int]*Watchpoint)
}

// Count returns the number of watchpoints currently set.
func (wm *WatchpointManager) Count() int {
	wm.mu.RLock()
	defer wm.mu.RUnlock()
	return len(wm.watchpoints)
}
