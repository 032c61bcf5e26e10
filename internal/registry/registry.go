// Package registry provides a global registry for level factories.
// Levels register themselves in init() functions, allowing the host
// to discover and instantiate them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/jumpnbump/internal/game"
)

// Level is a playable level the state machine can run.
type Level interface {
	game.Level

	// ID returns a unique identifier used on the command line (e.g. "arena").
	ID() string

	// Title returns a human-readable name for display.
	Title() string
}

// LevelInfo contains metadata about a registered level.
type LevelInfo struct {
	ID    string
	Title string
}

// Factory creates a new instance of a level.
type Factory func() Level

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a level factory to the registry.
// Panics if a level with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: level %q already registered", id))
	}

	factories[id] = f
	titles[id] = f().Title()
}

// List returns all registered levels, sorted by ID.
func List() []LevelInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]LevelInfo, 0, len(factories))
	for id := range factories {
		result = append(result, LevelInfo{ID: id, Title: titles[id]})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Create instantiates a level by its ID.
func Create(id string) (Level, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown level %q", id)
	}
	return f(), nil
}

// Exists checks if a level with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
