package adapter

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]func(*slog.Logger) Adapter)
)

// Register adds an adapter factory to the registry.
// Called by adapter implementations in their init() functions.
func Register(name string, factory func(*slog.Logger) Adapter) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

func factoryFor(name string) (func(*slog.Logger) Adapter, error) {
	registryMu.RLock()
	f, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, &UnknownAdapterError{Type: name, Available: ListAdapters()}
	}
	return f, nil
}

// NewAdapter creates a new, unconnected adapter for cfg.Driver.
// The logger parameter is passed to the adapter constructor (nil uses discard logger).
func NewAdapter(cfg Config, logger *slog.Logger) (Adapter, error) {
	if cfg.Driver == "" {
		return nil, fmt.Errorf("adapter driver not specified")
	}
	factory, err := factoryFor(cfg.Driver)
	if err != nil {
		return nil, err
	}
	return factory(logger), nil
}

// Capabilities describes what a registered driver offers without
// opening a database.
type Capabilities struct {
	Name    string
	Dialect string

	// Backup is set for drivers with an online page-level backup API.
	Backup bool
	// VacuumInto is set when VACUUM INTO can stand in for a backup.
	VacuumInto bool
	// Pragmas is set when PRAGMA statements and pragma functions work.
	Pragmas bool
}

// String renders the driver name followed by its backup paths,
// e.g. "sqlite (backup, vacuum into)".
func (c Capabilities) String() string {
	var extra []string
	if c.Backup {
		extra = append(extra, "backup")
	}
	if c.VacuumInto {
		extra = append(extra, "vacuum into")
	}
	if len(extra) == 0 {
		return c.Name
	}
	return c.Name + " (" + strings.Join(extra, ", ") + ")"
}

// Lookup reports the capabilities of the named driver.
func Lookup(name string) (Capabilities, error) {
	factory, err := factoryFor(name)
	if err != nil {
		return Capabilities{}, err
	}
	caps := Capabilities{Name: name}
	a := factory(nil)
	if a == nil {
		return caps, nil
	}
	_, caps.Backup = a.(Backuper)
	if d := a.Dialect(); d != nil {
		caps.Dialect = d.Name
		caps.VacuumInto = d.VacuumInto
		caps.Pragmas = d.Pragmas
	}
	return caps, nil
}

// ListAdapters returns all registered adapter names (sorted).
func ListAdapters() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnknownAdapterError is returned when an unknown adapter type is requested.
type UnknownAdapterError struct {
	Type      string
	Available []string
}

func (e *UnknownAdapterError) Error() string {
	return fmt.Sprintf("unknown driver %q\nAvailable drivers: %v\nHint: pass --driver or set driver in sqlsh.yaml", e.Type, e.Available)
}
