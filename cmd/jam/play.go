package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/jam-starter/internal/platform/tui"
	"github.com/vovakirdan/jam-starter/internal/registry"
)

var playCmd = &cobra.Command{
	Use:   "play <scene>",
	Short: "Play a scene",
	Long: `Start playing the specified scene.

Difficulty options:
  easy   - Start at lowest difficulty with two extra lives
  normal - Start at 30% difficulty, progresses to max
  hard   - Start at 70% difficulty with one life less
  fixed  - No progression, stays at the config's initial level

Examples:
  jam play main
  jam play topdown --difficulty easy
  jam play main --config ./my-jam.toml
  jam play main --seed 42 --fps 30`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func runPlay(_ *cobra.Command, args []string) error {
	sceneID := args[0]
	if !registry.Exists(sceneID) {
		return fmt.Errorf("unknown scene %q, run 'jam list' to see available scenes", sceneID)
	}

	logger, closeLog := newLogger()
	defer closeLog()
	rt := openRuntime(logger)
	defer closeRuntime(rt)

	sc, state, err := rt.NewScene(sceneID)
	if err != nil {
		return fmt.Errorf("creating scene: %w", err)
	}

	logger.Info("starting scene", "scene", sceneID, "mode", rt.Config.Player.Mode, "fps", flagFPS)
	if _, err := tui.Run(sc, state, runtimeConfig(), logger); err != nil {
		return fmt.Errorf("running scene: %w", err)
	}
	return nil
}
