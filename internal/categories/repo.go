package categories

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

type Input struct {
	Slug         string
	SortOrder    int
	Translations []models.CategoryTranslation
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

func (r *Repo) List(ctx context.Context) ([]models.Category, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, slug, sort_order
		FROM categories
		ORDER BY sort_order ASC, slug ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Slug, &c.SortOrder); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}

	trs, err := r.translations(ctx)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Translations = trs[out[i].ID]
	}
	return out, nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (*models.Category, error) {
	var c models.Category
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, slug, sort_order FROM categories WHERE id = ?
	`, id).Scan(&c.ID, &c.Slug, &c.SortOrder)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}

	trs, err := r.translations(ctx)
	if err != nil {
		return nil, err
	}
	c.Translations = trs[c.ID]
	return &c, nil
}

// WorkCounts returns the number of published works per category id.
func (r *Repo) WorkCounts(ctx context.Context) (map[string]int, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT category_id, COUNT(*)
		FROM works
		WHERE published = 1 AND category_id IS NOT NULL
		GROUP BY category_id
	`)
	if err != nil {
		return nil, fmt.Errorf("count works per category: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("scan category count: %w", err)
		}
		out[id] = n
	}
	return out, rows.Err()
}

func (r *Repo) Create(ctx context.Context, in Input) (*models.Category, error) {
	id := uuid.NewString()
	err := database.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO categories (id, slug, sort_order) VALUES (?, ?, ?)
		`, id, in.Slug, in.SortOrder); err != nil {
			return fmt.Errorf("insert category: %w", err)
		}
		return replaceTranslations(ctx, tx, id, in.Translations)
	})
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, database.ErrConflict
		}
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *Repo) Update(ctx context.Context, id string, in Input) (*models.Category, error) {
	err := database.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE categories SET slug = ?, sort_order = ? WHERE id = ?
		`, in.Slug, in.SortOrder, id)
		if err != nil {
			return fmt.Errorf("update category: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return database.ErrNotFound
		}
		return replaceTranslations(ctx, tx, id, in.Translations)
	})
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, database.ErrConflict
		}
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete fails with database.ErrConflict while works still use the category.
func (r *Repo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return false, database.ErrConflict
		}
		return false, fmt.Errorf("delete category: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *Repo) translations(ctx context.Context) (map[string][]models.CategoryTranslation, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT category_id, locale, name
		FROM category_translations
		ORDER BY category_id, locale
	`)
	if err != nil {
		return nil, fmt.Errorf("list category translations: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]models.CategoryTranslation)
	for rows.Next() {
		var id string
		var t models.CategoryTranslation
		if err := rows.Scan(&id, &t.Locale, &t.Name); err != nil {
			return nil, fmt.Errorf("scan category translation: %w", err)
		}
		out[id] = append(out[id], t)
	}
	return out, rows.Err()
}

func replaceTranslations(ctx context.Context, tx *sql.Tx, id string, trs []models.CategoryTranslation) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM category_translations WHERE category_id = ?`, id); err != nil {
		return fmt.Errorf("clear category translations: %w", err)
	}
	for _, t := range trs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO category_translations (category_id, locale, name) VALUES (?, ?, ?)
		`, id, t.Locale, t.Name); err != nil {
			return fmt.Errorf("insert category translation: %w", err)
		}
	}
	return nil
}
