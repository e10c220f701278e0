// jam is a terminal game-jam starter: a character controller, a pooled
// enemy spawner and a persistent game state behind a TUI.
//
// Usage:
//
//	jam                     - Scene picker menu
//	jam list                - List available scenes
//	jam play <scene>        - Play a scene directly
//	jam scores [scene]      - Show high scores
//	jam save show|reset|export|import
//	jam serve               - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>      - Set tick rate (default: 60)
//	--seed <value>    - Set RNG seed for reproducible runs
//	--db <path>       - Set save file path (default: ~/.jam/save.db)
//	--config <path>   - Use a custom YAML or TOML scene config
//	--difficulty <p>  - Difficulty preset: easy, normal, hard, fixed
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/jam-starter/internal/config"
	"github.com/vovakirdan/jam-starter/internal/core"
	"github.com/vovakirdan/jam-starter/internal/platform/tui"
	"github.com/vovakirdan/jam-starter/internal/storage"

	// Import scenes to register them
	_ "github.com/vovakirdan/jam-starter/internal/scene"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string

	// Set by the persistent pre-run
	jamConfig config.JamConfig
	logLevel  = log.InfoLevel
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "jam",
	Short: "Jam Starter - a terminal action game template",
	Long: `Jam Starter is a small action game for the terminal built to be
forked during a game jam: a platformer or top-down hero, waves of pooled
enemies, and a save file that remembers your best runs.

Without a subcommand it opens the scene picker menu.

Controls:
  A/D, Left/Right  - Move
  W/S, Up/Down     - Move (top-down)
  Space/Z          - Jump
  J/X              - Attack
  P                - Pause
  R                - Restart (after game over)
  Esc/B            - Back to menu (paused or game over)
  Q/Ctrl+C         - Quit

Examples:
  jam
  jam play main --difficulty hard
  jam play topdown --seed 42
  jam scores main
  jam serve --ssh :2222`,
	PersistentPreRunE: setup,
	SilenceUsage:      true,
	RunE:              runMenu,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", storage.DefaultPath, "Path to save file")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom scene config (YAML or TOML)")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(serveCmd)
}

// setup applies environment overrides to flags the user did not set, then
// loads the scene config.
func setup(cmd *cobra.Command, _ []string) error {
	env, err := config.LoadEnv()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if env.FPS > 0 && !flags.Changed("fps") {
		flagFPS = env.FPS
	}
	if env.Seed != 0 && !flags.Changed("seed") {
		flagSeed = env.Seed
	}
	if env.DBPath != "" && !flags.Changed("db") {
		flagDBPath = env.DBPath
	}
	if env.ConfigPath != "" && !flags.Changed("config") {
		flagConfig = env.ConfigPath
	}
	if env.Preset != "" && !flags.Changed("difficulty") {
		flagDifficulty = env.Preset
	}
	if lvl, err := log.ParseLevel(env.LogLevel); err == nil {
		logLevel = lvl
	}

	preset := config.ParsePreset(flagDifficulty)
	if flagDifficulty != "" && preset == "" {
		return fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed)", flagDifficulty)
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	config.ApplyPreset(&cfg, preset)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	jamConfig = cfg
	return nil
}

// newLogger returns a logger for commands that own the terminal. Output
// goes to ~/.jam/jam.log so it never tears the alt screen. The returned
// func closes the log file.
func newLogger() (*log.Logger, func()) {
	opts := log.Options{ReportTimestamp: true, Level: logLevel, Prefix: "jam"}
	f, err := openLogFile()
	if err != nil {
		return log.NewWithOptions(os.Stderr, opts), func() {}
	}
	return log.NewWithOptions(f, opts), func() {
		//nolint:errcheck // nothing left to report to
		f.Close()
	}
}

func openLogFile() (*os.File, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(home, ".jam")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, "jam.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

// runtimeConfig sizes the screen from the terminal.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// openRuntime opens the save file; play continues without persistence if
// it cannot be opened.
func openRuntime(logger *log.Logger) tui.Runtime {
	store := tui.OpenStore(flagDBPath, logger)
	if store == nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open save file %s, scores will not be kept\n", flagDBPath)
	}
	return tui.Runtime{Config: jamConfig, Store: store, Logger: logger}
}

func closeRuntime(rt tui.Runtime) {
	if rt.Store != nil {
		rt.Store.Close()
	}
}

func runMenu(_ *cobra.Command, _ []string) error {
	logger, closeLog := newLogger()
	defer closeLog()
	rt := openRuntime(logger)
	defer closeRuntime(rt)

	cfg := runtimeConfig()
	best := bestFunc(rt)

	for {
		result, err := tui.RunMenu(cfg, best)
		if err != nil {
			return err
		}
		cfg = result.Config

		if result.Quit {
			return nil
		}

		if result.WantsScoreboard {
			goBack, err := tui.RunScoreboard(rt.Store, cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				return err
			}
			if goBack {
				continue
			}
			return nil
		}

		sc, state, err := rt.NewScene(result.SceneID)
		if err != nil {
			logger.Error("cannot create scene", "scene", result.SceneID, "err", err)
			continue
		}

		back, err := tui.Run(sc, state, cfg, logger)
		if err != nil {
			return err
		}
		if !back {
			return nil
		}
	}
}

// bestFunc reports the stored high score per scene for the menu.
func bestFunc(rt tui.Runtime) tui.BestFunc {
	if rt.Store == nil {
		return nil
	}
	return func(sceneID string) int {
		ctx, cancel := commandContext()
		defer cancel()
		high, err := rt.Store.HighScore(ctx, sceneID)
		if err != nil {
			rt.Logger.Warn("could not read high score", "scene", sceneID, "err", err)
		}
		return high
	}
}
