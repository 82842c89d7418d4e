package core

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	registry   = make(map[string]ImporterDefinition)
	registryMu sync.RWMutex
)

// Register adds an importer definition to the registry.
// Panics if an importer with the same node name is already registered,
// or if the definition has no check.
func Register(def ImporterDefinition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	key := strings.ToLower(def.Info.NodeName)
	if key == "" {
		panic("importer registered without a node name")
	}
	if _, exists := registry[key]; exists {
		panic(fmt.Sprintf("importer already registered: %s", def.Info.NodeName))
	}
	if def.Check == nil {
		panic(fmt.Sprintf("importer %s has no check", def.Info.NodeName))
	}

	// Default the primary table to the first declared table
	if def.Info.PrimaryTable == "" && len(def.Tables) > 0 {
		def.Info.PrimaryTable = def.Tables[0].Name
	}

	registry[key] = def
}

// Get returns an importer definition by node name (case-insensitive).
// Returns false if not found.
func Get(name string) (ImporterDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[strings.ToLower(name)]
	return def, ok
}

// All returns all registered importer definitions.
// Sorted by node name for consistent ordering.
func All() []ImporterDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]ImporterDefinition, 0, len(registry))
	for _, def := range registry {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Info.NodeName < result[j].Info.NodeName
	})

	return result
}

// Count returns the number of registered importers.
func Count() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// Clear removes all registered importers.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]ImporterDefinition)
}
