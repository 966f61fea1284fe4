// Package media stores image references shared by works, artists and
// expertise pages. Files themselves live outside the database.
package media

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"portfolio/pkg/models"
)

// Replace points an owner at a new image. An existing asset is updated in
// place; an empty path removes it. It returns the asset id to store on the
// owner row (NULL when there is no image).
func Replace(ctx context.Context, tx *sql.Tx, currentID sql.NullString, path, alt string) (sql.NullString, error) {
	path = strings.TrimSpace(path)
	alt = strings.TrimSpace(alt)

	if path == "" {
		if currentID.Valid {
			if _, err := tx.ExecContext(ctx, `DELETE FROM media_assets WHERE id = ?`, currentID.String); err != nil {
				return sql.NullString{}, fmt.Errorf("delete media asset: %w", err)
			}
		}
		return sql.NullString{}, nil
	}

	if currentID.Valid {
		if _, err := tx.ExecContext(ctx, `
			UPDATE media_assets SET path = ?, alt = ? WHERE id = ?
		`, path, alt, currentID.String); err != nil {
			return sql.NullString{}, fmt.Errorf("update media asset: %w", err)
		}
		return currentID, nil
	}

	id := uuid.NewString()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO media_assets (id, path, alt) VALUES (?, ?, ?)
	`, id, path, alt); err != nil {
		return sql.NullString{}, fmt.Errorf("insert media asset: %w", err)
	}
	return sql.NullString{String: id, Valid: true}, nil
}

// Delete removes an asset if id is set.
func Delete(ctx context.Context, tx *sql.Tx, id sql.NullString) error {
	if !id.Valid {
		return nil
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM media_assets WHERE id = ?`, id.String); err != nil {
		return fmt.Errorf("delete media asset: %w", err)
	}
	return nil
}

// FromColumns builds an asset from LEFT JOIN columns; nil when absent.
func FromColumns(id, path, alt sql.NullString) *models.MediaAsset {
	if !id.Valid || !path.Valid {
		return nil
	}
	return &models.MediaAsset{ID: id.String, Path: path.String, Alt: alt.String}
}
