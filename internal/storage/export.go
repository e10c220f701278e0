package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// ExportVersion is the current save export format.
const ExportVersion = 1

// SaveExport is the JSON document written by ExportJSON.
type SaveExport struct {
	Version    int               `json:"version"`
	ExportedAt time.Time         `json:"exported_at"`
	Data       map[string]string `json:"data"`
}

// ExportJSON writes the save data as an indented JSON document.
func (s *Store) ExportJSON(ctx context.Context, w io.Writer) error {
	data, err := s.All(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	doc := SaveExport{Version: ExportVersion, ExportedAt: time.Now().UTC(), Data: data}
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("storage: cannot encode save: %w", err)
	}
	return nil
}

// ImportJSON replaces the save data with a document written by ExportJSON.
// The import is atomic: on any error the existing save data is kept.
func (s *Store) ImportJSON(ctx context.Context, r io.Reader) error {
	var doc SaveExport
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return fmt.Errorf("storage: cannot decode save: %w", err)
	}
	if doc.Version != ExportVersion {
		return fmt.Errorf("storage: unsupported save version %d", doc.Version)
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM save_data"); err != nil {
			return fmt.Errorf("storage: cannot clear save data: %w", err)
		}
		return setAll(ctx, tx, doc.Data)
	})
}
