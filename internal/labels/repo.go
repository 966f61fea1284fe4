package labels

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"portfolio/pkg/database"
	"portfolio/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

func (r *Repo) List(ctx context.Context) ([]models.Label, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, slug, name, website_url
		FROM labels
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list labels: %w", err)
	}
	defer rows.Close()

	out := make([]models.Label, 0)
	for rows.Next() {
		var (
			l   models.Label
			url sql.NullString
		)
		if err := rows.Scan(&l.ID, &l.Slug, &l.Name, &url); err != nil {
			return nil, fmt.Errorf("scan label: %w", err)
		}
		l.WebsiteURL = url.String
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (*models.Label, error) {
	var (
		l   models.Label
		url sql.NullString
	)
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, slug, name, website_url FROM labels WHERE id = ?
	`, id).Scan(&l.ID, &l.Slug, &l.Name, &url)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get label: %w", err)
	}
	l.WebsiteURL = url.String
	return &l, nil
}

func (r *Repo) Create(ctx context.Context, l models.Label) (*models.Label, error) {
	l.ID = uuid.NewString()
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO labels (id, slug, name, website_url) VALUES (?, ?, ?, ?)
	`, l.ID, l.Slug, l.Name, database.NullString(l.WebsiteURL))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, database.ErrConflict
		}
		return nil, fmt.Errorf("insert label: %w", err)
	}
	return &l, nil
}

func (r *Repo) Update(ctx context.Context, l models.Label) (*models.Label, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE labels SET slug = ?, name = ?, website_url = ? WHERE id = ?
	`, l.Slug, l.Name, database.NullString(l.WebsiteURL), l.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, database.ErrConflict
		}
		return nil, fmt.Errorf("update label: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, database.ErrNotFound
	}
	return &l, nil
}

// Delete detaches the label from its works (ON DELETE SET NULL).
func (r *Repo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM labels WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete label: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
