package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/jam-starter/internal/registry"
	"github.com/vovakirdan/jam-starter/internal/storage"
)

const commandTimeout = 5 * time.Second

var (
	flagScoresLimit int
	flagScoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [scene]",
	Short: "Show high scores",
	Long: `Display the best finished runs, for one scene or for all of them.

Examples:
  jam scores
  jam scores main
  jam scores topdown --limit 25
  jam scores main --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", storage.DefaultScoreLimit, "Number of scores to show")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete the recorded scores instead of showing them")
}

func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), commandTimeout)
}

func runScores(_ *cobra.Command, args []string) error {
	sceneID := ""
	title := "All scenes"
	if len(args) == 1 {
		sceneID = args[0]
		info, ok := sceneInfo(sceneID)
		if !ok {
			return fmt.Errorf("unknown scene %q, run 'jam list' to see available scenes", sceneID)
		}
		title = info.Title
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening save file: %w", err)
	}
	defer store.Close()

	ctx, cancel := commandContext()
	defer cancel()

	if flagScoresClear {
		if err := store.ClearScores(ctx, sceneID); err != nil {
			return err
		}
		fmt.Printf("Scores cleared: %s\n", title)
		return nil
	}

	scores, err := store.TopScores(ctx, sceneID, flagScoresLimit)
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}

	fmt.Printf("High Scores - %s\n", title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'jam play main' to set the first high score!")
		return nil
	}

	fmt.Printf("  %-4s  %-10s  %-8s  %-8s  %s\n", "Rank", "Score", "Scene", "Run", "Date")
	fmt.Printf("  %-4s  %-10s  %-8s  %-8s  %s\n", "----", "-----", "-----", "---", "----")
	for i, entry := range scores {
		run := entry.RunID
		if len(run) > 8 {
			run = run[:8]
		}
		fmt.Printf("  %-4d  %-10d  %-8s  %-8s  %s\n",
			i+1, entry.Score, entry.SceneID, run, entry.CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	fmt.Printf("Best: %d\n", scores[0].Score)
	return nil
}

func sceneInfo(id string) (registry.SceneInfo, bool) {
	for _, info := range registry.List() {
		if info.ID == id {
			return info, true
		}
	}
	return registry.SceneInfo{}, false
}
