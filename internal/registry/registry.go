// Package registry provides a global registry for scene factories.
// Scenes register themselves in init() functions, allowing the platform
// to discover and instantiate them without hardcoded dependencies.
package registry

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/jam-starter/internal/config"
	"github.com/vovakirdan/jam-starter/internal/core"
	"github.com/vovakirdan/jam-starter/internal/gamestate"
)

// ErrUnknownScene is returned by Create for an unregistered id.
var ErrUnknownScene = errors.New("registry: unknown scene")

// Scene is the interface every playable scene implements.
// Scenes contain pure logic with no external dependencies (especially no Bubble Tea).
// The platform handles input mapping, timing, and rendering.
type Scene interface {
	// ID returns a unique identifier (e.g., "main", "topdown").
	// Used for CLI commands and score storage.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Reset starts a new run.
	// Called once at start and again when restarting after game over.
	Reset(cfg core.RuntimeConfig)

	// Step advances the simulation by one fixed tick.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current state into the provided screen buffer.
	Render(dst *core.Screen)

	// State returns the current status (score, lives, game over, paused).
	State() core.GameState
}

// Env carries the shared dependencies a factory wires into a scene.
type Env struct {
	Config config.JamConfig
	State  *gamestate.State
	Logger *log.Logger
}

// DefaultEnv returns an Env with the embedded config, an in-memory state
// and a discarding logger.
func DefaultEnv() Env {
	return Env{
		Config: config.DefaultJamConfig(),
		State:  gamestate.New(nil),
		Logger: log.New(io.Discard),
	}
}

// SceneInfo contains metadata about a registered scene.
type SceneInfo struct {
	ID    string
	Title string
}

// Factory creates a new scene instance from env.
type Factory func(env Env) Scene

type entry struct {
	title   string
	factory Factory
}

var (
	entries = make(map[string]entry)
	mu      sync.RWMutex
)

// Register adds a scene factory to the registry.
// Panics if a scene with the same ID is already registered.
func Register(id, title string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := entries[id]; exists {
		panic(fmt.Sprintf("registry: scene %q already registered", id))
	}
	entries[id] = entry{title: title, factory: f}
}

// List returns information about all registered scenes, sorted by ID.
func List() []SceneInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]SceneInfo, 0, len(entries))
	for id, e := range entries {
		result = append(result, SceneInfo{ID: id, Title: e.title})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a scene by its ID.
func Create(id string, env Env) (Scene, error) {
	mu.RLock()
	e, ok := entries[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownScene, id)
	}
	if env.Logger == nil {
		env.Logger = log.New(io.Discard)
	}
	if env.State == nil {
		env.State = gamestate.New(nil)
	}
	return e.factory(env), nil
}

// Exists checks if a scene with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := entries[id]
	return ok
}
