package robot

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Priority constants for driver registration.
// Higher priority values override lower priority drivers with the same name.
const (
	// PriorityDefault is used by in-tree reference drivers.
	PriorityDefault = 0

	// PriorityOverride is used by private vendor drivers to replace an
	// in-tree driver of the same name at compile time.
	PriorityOverride = 100
)

// Config carries the per-robot settings a driver needs to construct a Robot.
// Secret and Endpoint are opaque to this package; their meaning is driver
// specific.
type Config struct {
	Name     string
	Serial   string
	Secret   string
	Endpoint string
	Settings map[string]string
}

// Factory constructs a Robot from its configuration.
type Factory func(cfg Config, logger *zap.Logger) (Robot, error)

// DriverInfo describes a registered driver.
type DriverInfo struct {
	Name        string
	Description string
	Priority    int
	Factory     Factory
}

// Registry manages driver registration. It supports priority-based override,
// allowing private vendor implementations to replace in-tree ones through
// import ordering.
type Registry struct {
	mu      sync.RWMutex
	drivers map[string]DriverInfo
}

// NewRegistry creates an empty driver registry.
func NewRegistry() *Registry {
	return &Registry{drivers: make(map[string]DriverInfo)}
}

// Register adds a driver to the registry. When a driver with the same name
// already exists, the one with higher priority wins; equal priority lets the
// later registration win.
func (r *Registry) Register(info DriverInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if info.Name == "" {
		return fmt.Errorf("driver name cannot be empty")
	}
	if info.Factory == nil {
		return fmt.Errorf("driver %s: factory cannot be nil", info.Name)
	}

	existing, exists := r.drivers[info.Name]
	if exists && info.Priority < existing.Priority {
		return nil
	}

	r.drivers[info.Name] = info
	return nil
}

// Open constructs a Robot using the named driver.
func (r *Registry) Open(driver string, cfg Config, logger *zap.Logger) (Robot, error) {
	r.mu.RLock()
	info, ok := r.drivers[driver]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
	return info.Factory(cfg, logger)
}

// Drivers returns the names of all registered drivers, sorted.
func (r *Registry) Drivers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.drivers))
	for name := range r.drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clear removes all registered drivers. Useful for testing.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drivers = make(map[string]DriverInfo)
}

// Global registry instance. Drivers register themselves from init()
// functions; cmd selects them by name from configuration.
var globalRegistry = NewRegistry()

// Register adds a driver to the global registry.
func Register(info DriverInfo) error {
	return globalRegistry.Register(info)
}

// Open constructs a Robot using a driver from the global registry.
func Open(driver string, cfg Config, logger *zap.Logger) (Robot, error) {
	return globalRegistry.Open(driver, cfg, logger)
}

// Drivers returns all driver names from the global registry.
func Drivers() []string {
	return globalRegistry.Drivers()
}
