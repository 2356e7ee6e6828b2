package svgige

import (
	"fmt"
	"sort"
	"sync"
)

// DriverFactory constructs a Driver. Factories are invoked once per Open
// call so each caller gets an independent driver instance.
type DriverFactory func() Driver

var (
	registryMu sync.RWMutex
	registry   = make(map[string]DriverFactory)
)

// Register makes a driver available under the given name. SDK bindings call
// this from their init function. Registering a duplicate name panics.
func Register(name string, factory DriverFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[name]; exists {
		panic("svgige: driver " + name + " registered twice")
	}
	registry[name] = factory
}

// Open constructs the named driver.
func Open(name string) (Driver, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("svgige: unknown driver %q (available: %v)", name, Drivers())
	}
	return factory(), nil
}

// Drivers returns the registered driver names, sorted.
func Drivers() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
