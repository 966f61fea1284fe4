package expertises

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"portfolio/internal/media"
	"portfolio/pkg/database"
	"portfolio/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

type Input struct {
	Slug         string
	SortOrder    int
	ImagePath    string
	ImageAlt     string
	Translations []models.ExpertiseTranslation
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

const selectExpertise = `
	SELECT e.id, e.slug, e.sort_order, m.id, m.path, m.alt
	FROM expertises e
	LEFT JOIN media_assets m ON m.id = e.image_id
`

type scanner interface {
	Scan(dest ...any) error
}

func scanExpertise(s scanner) (models.Expertise, error) {
	var (
		e                            models.Expertise
		mediaID, mediaPath, mediaAlt sql.NullString
	)
	if err := s.Scan(&e.ID, &e.Slug, &e.SortOrder, &mediaID, &mediaPath, &mediaAlt); err != nil {
		return e, err
	}
	e.Image = media.FromColumns(mediaID, mediaPath, mediaAlt)
	return e, nil
}

func (r *Repo) List(ctx context.Context) ([]models.Expertise, error) {
	rows, err := r.DB.QueryContext(ctx, selectExpertise+` ORDER BY e.sort_order ASC, e.slug ASC`)
	if err != nil {
		return nil, fmt.Errorf("list expertises: %w", err)
	}
	defer rows.Close()

	out := make([]models.Expertise, 0)
	for rows.Next() {
		e, err := scanExpertise(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expertise: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}

	trs, err := r.translations(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Translations = trs[out[i].ID]
	}
	return out, nil
}

func (r *Repo) GetBySlug(ctx context.Context, slug string) (*models.Expertise, error) {
	return r.getOne(ctx, `e.slug = ?`, slug)
}

func (r *Repo) GetByID(ctx context.Context, id string) (*models.Expertise, error) {
	return r.getOne(ctx, `e.id = ?`, id)
}

func (r *Repo) getOne(ctx context.Context, where string, arg any) (*models.Expertise, error) {
	e, err := scanExpertise(r.DB.QueryRowContext(ctx, selectExpertise+` WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get expertise: %w", err)
	}
	trs, err := r.translations(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	e.Translations = trs[e.ID]
	return &e, nil
}

func (r *Repo) Create(ctx context.Context, in Input) (*models.Expertise, error) {
	id := uuid.NewString()
	err := database.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		imageID, err := media.Replace(ctx, tx, sql.NullString{}, in.ImagePath, in.ImageAlt)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO expertises (id, slug, image_id, sort_order) VALUES (?, ?, ?, ?)
		`, id, in.Slug, imageID, in.SortOrder); err != nil {
			return fmt.Errorf("insert expertise: %w", err)
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

func (r *Repo) Update(ctx context.Context, id string, in Input) (*models.Expertise, error) {
	err := database.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		var current sql.NullString
		if err := tx.QueryRowContext(ctx, `SELECT image_id FROM expertises WHERE id = ?`, id).Scan(&current); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return database.ErrNotFound
			}
			return fmt.Errorf("load expertise: %w", err)
		}
		imageID, err := media.Replace(ctx, tx, current, in.ImagePath, in.ImageAlt)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE expertises SET slug = ?, image_id = ?, sort_order = ? WHERE id = ?
		`, in.Slug, imageID, in.SortOrder, id); err != nil {
			return fmt.Errorf("update expertise: %w", err)
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

func (r *Repo) Delete(ctx context.Context, id string) (bool, error) {
	found := false
	err := database.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		var imageID sql.NullString
		if err := tx.QueryRowContext(ctx, `SELECT image_id FROM expertises WHERE id = ?`, id).Scan(&imageID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil
			}
			return fmt.Errorf("load expertise: %w", err)
		}
		found = true
		if _, err := tx.ExecContext(ctx, `DELETE FROM expertises WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete expertise: %w", err)
		}
		return media.Delete(ctx, tx, imageID)
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

func (r *Repo) translations(ctx context.Context, id string) (map[string][]models.ExpertiseTranslation, error) {
	q := `SELECT expertise_id, locale, title, description, content FROM expertise_translations`
	var args []any
	if id != "" {
		q += ` WHERE expertise_id = ?`
		args = append(args, id)
	}
	q += ` ORDER BY expertise_id, locale`

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list expertise translations: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]models.ExpertiseTranslation)
	for rows.Next() {
		var (
			expertiseID          string
			t                    models.ExpertiseTranslation
			description, content sql.NullString
		)
		if err := rows.Scan(&expertiseID, &t.Locale, &t.Title, &description, &content); err != nil {
			return nil, fmt.Errorf("scan expertise translation: %w", err)
		}
		t.Description = description.String
		t.Content = content.String
		out[expertiseID] = append(out[expertiseID], t)
	}
	return out, rows.Err()
}

func replaceTranslations(ctx context.Context, tx *sql.Tx, id string, trs []models.ExpertiseTranslation) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM expertise_translations WHERE expertise_id = ?`, id); err != nil {
		return fmt.Errorf("clear expertise translations: %w", err)
	}
	for _, t := range trs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO expertise_translations (expertise_id, locale, title, description, content)
			VALUES (?, ?, ?, ?, ?)
		`, id, t.Locale, t.Title, database.NullString(t.Description), database.NullString(t.Content)); err != nil {
			return fmt.Errorf("insert expertise translation: %w", err)
		}
	}
	return nil
}
