package tui

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/jam-starter/internal/config"
	"github.com/vovakirdan/jam-starter/internal/gamestate"
	"github.com/vovakirdan/jam-starter/internal/registry"
	"github.com/vovakirdan/jam-starter/internal/storage"
)

// storeTimeout bounds every save or load issued from the tick loop.
const storeTimeout = 2 * time.Second

// Runtime bundles what a host needs to build scenes.
type Runtime struct {
	Config config.JamConfig
	Store  *storage.Store // nil runs without persistence
	Logger *log.Logger
}

func (r Runtime) logger() *log.Logger {
	if r.Logger == nil {
		return log.New(io.Discard)
	}
	return r.Logger
}

// NewScene creates a scene by id with a fresh game state loaded from the
// store, if any. A failed load is logged and play continues.
func (r Runtime) NewScene(id string) (registry.Scene, *gamestate.State, error) {
	var store gamestate.Store
	if r.Store != nil {
		store = r.Store
	}

	state := gamestate.New(store,
		gamestate.WithLives(r.Config.Player.Lives),
		gamestate.WithScene(id),
		gamestate.WithLogger(r.logger()),
	)
	if store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		if err := state.Load(ctx); err != nil {
			r.logger().Warn("could not load save data", "err", err)
		}
	}

	sc, err := registry.Create(id, registry.Env{
		Config: r.Config,
		State:  state,
		Logger: r.logger(),
	})
	if err != nil {
		return nil, nil, err
	}
	return sc, state, nil
}
