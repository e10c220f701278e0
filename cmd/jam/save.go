package main

import (
	"fmt"
	"io"
	"os"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/jam-starter/internal/storage"
)

var flagResetScores bool

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Inspect and manage the save file",
	Long: `Inspect and manage the key-value save data (high score, last run,
settings) kept in the save file.

Examples:
  jam save show
  jam save export backup.json
  jam save import backup.json
  jam save reset --scores`,
}

var saveShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print every save key",
	Args:  cobra.NoArgs,
	RunE:  runSaveShow,
}

var saveResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the save data",
	Args:  cobra.NoArgs,
	RunE:  runSaveReset,
}

var saveExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write the save data as JSON (stdout if no file)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSaveExport,
}

var saveImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the save data from a JSON export ('-' reads stdin)",
	Args:  cobra.ExactArgs(1),
	RunE:  runSaveImport,
}

func init() {
	saveResetCmd.Flags().BoolVar(&flagResetScores, "scores", false, "Also delete every recorded score")

	saveCmd.AddCommand(saveShowCmd)
	saveCmd.AddCommand(saveResetCmd)
	saveCmd.AddCommand(saveExportCmd)
	saveCmd.AddCommand(saveImportCmd)
}

func withStore(fn func(*storage.Store) error) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening save file: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func runSaveShow(_ *cobra.Command, _ []string) error {
	return withStore(func(store *storage.Store) error {
		ctx, cancel := commandContext()
		defer cancel()

		data, err := store.All(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("Save file: %s\n\n", store.Path())
		if len(data) == 0 {
			fmt.Println("No save data yet.")
			return nil
		}

		keys := slices.Sorted(maps.Keys(data))
		width := 0
		for _, k := range keys {
			width = max(width, len(k))
		}
		for _, k := range keys {
			fmt.Printf("  %-*s  %s\n", width, k, data[k])
		}
		return nil
	})
}

func runSaveReset(_ *cobra.Command, _ []string) error {
	return withStore(func(store *storage.Store) error {
		ctx, cancel := commandContext()
		defer cancel()

		if err := store.ClearSave(ctx); err != nil {
			return err
		}
		if flagResetScores {
			if err := store.ClearScores(ctx, ""); err != nil {
				return err
			}
			fmt.Println("Save data and scores deleted.")
			return nil
		}
		fmt.Println("Save data deleted.")
		return nil
	})
}

func runSaveExport(_ *cobra.Command, args []string) error {
	return withStore(func(store *storage.Store) error {
		ctx, cancel := commandContext()
		defer cancel()

		if len(args) == 0 {
			return store.ExportJSON(ctx, os.Stdout)
		}

		f, err := os.Create(args[0])
		if err != nil {
			return err
		}
		if err := store.ExportJSON(ctx, f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Save data exported to %s\n", args[0])
		return nil
	})
}

func runSaveImport(_ *cobra.Command, args []string) error {
	var r io.Reader = os.Stdin
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	return withStore(func(store *storage.Store) error {
		ctx, cancel := commandContext()
		defer cancel()

		if err := store.ImportJSON(ctx, r); err != nil {
			return err
		}
		fmt.Println("Save data imported.")
		return nil
	})
}
