package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
	if store.Path() != dbPath {
		t.Errorf("Path() = %q, want %q", store.Path(), dbPath)
	}
}

func TestStoreNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		in   string
		want string
	}{
		{"/tmp/a.db", "/tmp/a.db"},
		{"rel/a.db", "rel/a.db"},
		{"~/.jam/a.db", filepath.Join(home, ".jam/a.db")},
		{"", filepath.Join(home, ".jam/save.db")},
	}

	for _, tt := range tests {
		got, err := ExpandPath(tt.in)
		if err != nil {
			t.Fatalf("ExpandPath(%q) failed: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStoreSaveData(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, ok, err := store.Get(ctx, "high_score"); err != nil || ok {
		t.Fatalf("Get() on empty store = ok %v, err %v", ok, err)
	}

	if err := store.Set(ctx, "high_score", "10"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := store.Set(ctx, "high_score", "25"); err != nil {
		t.Fatalf("Set() overwrite failed: %v", err)
	}

	v, ok, err := store.Get(ctx, "high_score")
	if err != nil || !ok {
		t.Fatalf("Get() = ok %v, err %v", ok, err)
	}
	if v != "25" {
		t.Errorf("Expected 25, got %s", v)
	}

	if err := store.SetMany(ctx, map[string]string{"runs": "3", "setting.volume": "7"}); err != nil {
		t.Fatalf("SetMany() failed: %v", err)
	}
	all, err := store.All(ctx)
	if err != nil {
		t.Fatalf("All() failed: %v", err)
	}
	if len(all) != 3 || all["runs"] != "3" || all["setting.volume"] != "7" {
		t.Errorf("All() = %v", all)
	}

	if err := store.Delete(ctx, "runs"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if err := store.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete() of missing key failed: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "runs"); ok {
		t.Error("Expected runs to be deleted")
	}
}

func TestStoreClearSaveKeepsScores(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, "high_score", "10"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := store.SaveScore(ctx, "run-1", "main", 10); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	if err := store.ClearSave(ctx); err != nil {
		t.Fatalf("ClearSave() failed: %v", err)
	}

	all, _ := store.All(ctx)
	if len(all) != 0 {
		t.Errorf("Expected empty save data, got %v", all)
	}
	high, _ := store.HighScore(ctx, "main")
	if high != 10 {
		t.Errorf("Expected scores to survive ClearSave, high = %d", high)
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i, score := range []int{100, 50, 200} {
		if err := store.SaveScore(ctx, fmt.Sprintf("main-%d", i), "main", score); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}
	if err := store.SaveScore(ctx, "topdown-0", "topdown", 500); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	scores, err := store.TopScores(ctx, "main", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}

	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}

	// Should be sorted descending
	if scores[0].Score != 200 || scores[1].Score != 100 || scores[2].Score != 50 {
		t.Errorf("Unexpected order: %d, %d, %d", scores[0].Score, scores[1].Score, scores[2].Score)
	}
	if scores[0].RunID != "main-2" || scores[0].SceneID != "main" {
		t.Errorf("Unexpected entry: %+v", scores[0])
	}
	if scores[0].CreatedAt.IsZero() {
		t.Error("Expected CreatedAt to be set")
	}

	all, err := store.TopScores(ctx, "", 10)
	if err != nil {
		t.Fatalf("TopScores(all) failed: %v", err)
	}
	if len(all) != 4 || all[0].Score != 500 {
		t.Errorf("Expected 4 scores led by 500, got %d", len(all))
	}
}

func TestStoreSaveScoreOncePerRun(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.SaveScore(ctx, "run-1", "main", 10); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}
	if err := store.SaveScore(ctx, "run-1", "main", 99); err != nil {
		t.Fatalf("SaveScore() duplicate failed: %v", err)
	}

	scores, _ := store.AllScores(ctx, "main")
	if len(scores) != 1 || scores[0].Score != 10 {
		t.Errorf("Expected single score 10, got %+v", scores)
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i := range 20 {
		if err := store.SaveScore(ctx, fmt.Sprintf("run-%d", i), "main", i*10); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}

	scores, err := store.TopScores(ctx, "main", 5)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 5 {
		t.Errorf("Expected 5 scores, got %d", len(scores))
	}
	if scores[0].Score != 190 {
		t.Errorf("Expected highest score to be 190, got %d", scores[0].Score)
	}

	def, _ := store.TopScores(ctx, "main", 0)
	if len(def) != DefaultScoreLimit {
		t.Errorf("Expected default limit %d, got %d", DefaultScoreLimit, len(def))
	}

	all, _ := store.AllScores(ctx, "main")
	if len(all) != 20 {
		t.Errorf("Expected 20 scores, got %d", len(all))
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	high, err := store.HighScore(ctx, "main")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected 0 for no scores, got %d", high)
	}

	store.SaveScore(ctx, "a", "main", 100)
	store.SaveScore(ctx, "b", "main", 300)
	store.SaveScore(ctx, "c", "topdown", 900)

	high, _ = store.HighScore(ctx, "main")
	if high != 300 {
		t.Errorf("Expected high score 300, got %d", high)
	}
	high, _ = store.HighScore(ctx, "")
	if high != 900 {
		t.Errorf("Expected overall high score 900, got %d", high)
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	store.SaveScore(ctx, "a", "main", 100)
	store.SaveScore(ctx, "b", "topdown", 200)

	if err := store.ClearScores(ctx, "main"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	scores, _ := store.AllScores(ctx, "main")
	if len(scores) != 0 {
		t.Errorf("Expected 0 scores after clear, got %d", len(scores))
	}
	scores, _ = store.AllScores(ctx, "topdown")
	if len(scores) != 1 {
		t.Errorf("Expected other scene untouched, got %d", len(scores))
	}
}

func TestStoreExportImport(t *testing.T) {
	src := openTestStore(t)
	dst := openTestStore(t)
	ctx := context.Background()

	src.SetMany(ctx, map[string]string{"high_score": "42", "runs": "2"})
	dst.Set(ctx, "stale", "x")

	var buf bytes.Buffer
	if err := src.ExportJSON(ctx, &buf); err != nil {
		t.Fatalf("ExportJSON() failed: %v", err)
	}
	if !strings.Contains(buf.String(), `"high_score": "42"`) {
		t.Errorf("Unexpected export:\n%s", buf.String())
	}

	if err := dst.ImportJSON(ctx, &buf); err != nil {
		t.Fatalf("ImportJSON() failed: %v", err)
	}
	all, _ := dst.All(ctx)
	if len(all) != 2 || all["high_score"] != "42" || all["runs"] != "2" {
		t.Errorf("Imported data = %v", all)
	}
}

func TestStoreImportRejectsBadInput(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	store.Set(ctx, "high_score", "5")

	inputs := []string{
		"not json",
		`{"version": 99, "data": {"high_score": "1"}}`,
	}
	for _, in := range inputs {
		if err := store.ImportJSON(ctx, strings.NewReader(in)); err == nil {
			t.Errorf("ImportJSON(%q) should fail", in)
		}
	}

	v, _, _ := store.Get(ctx, "high_score")
	if v != "5" {
		t.Errorf("Failed import must keep existing data, got %q", v)
	}
}
