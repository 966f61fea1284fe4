package artists

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
	Name         string
	ImagePath    string
	ImageAlt     string
	WebsiteURL   string
	SpotifyURL   string
	InstagramURL string
	YoutubeURL   string
	Translations []models.ArtistTranslation
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

const selectArtist = `
	SELECT a.id, a.slug, a.name, a.website_url, a.spotify_url, a.instagram_url, a.youtube_url, a.created_at,
	       m.id, m.path, m.alt
	FROM artists a
	LEFT JOIN media_assets m ON m.id = a.image_id
`

type scanner interface {
	Scan(dest ...any) error
}

func scanArtist(s scanner) (models.Artist, error) {
	var (
		a                                models.Artist
		website, spotify, insta, youtube sql.NullString
		mediaID, mediaPath, mediaAlt     sql.NullString
	)
	if err := s.Scan(&a.ID, &a.Slug, &a.Name, &website, &spotify, &insta, &youtube, &a.CreatedAt,
		&mediaID, &mediaPath, &mediaAlt); err != nil {
		return a, err
	}
	a.WebsiteURL = website.String
	a.SpotifyURL = spotify.String
	a.InstagramURL = insta.String
	a.YoutubeURL = youtube.String
	a.Image = media.FromColumns(mediaID, mediaPath, mediaAlt)
	return a, nil
}

func (r *Repo) List(ctx context.Context) ([]models.Artist, error) {
	rows, err := r.DB.QueryContext(ctx, selectArtist+` ORDER BY a.name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list artists: %w", err)
	}
	defer rows.Close()

	out := make([]models.Artist, 0)
	for rows.Next() {
		a, err := scanArtist(rows)
		if err != nil {
			return nil, fmt.Errorf("scan artist: %w", err)
		}
		out = append(out, a)
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

func (r *Repo) GetBySlug(ctx context.Context, slug string) (*models.Artist, error) {
	return r.getOne(ctx, `a.slug = ?`, slug)
}

func (r *Repo) GetByID(ctx context.Context, id string) (*models.Artist, error) {
	return r.getOne(ctx, `a.id = ?`, id)
}

func (r *Repo) getOne(ctx context.Context, where string, arg any) (*models.Artist, error) {
	a, err := scanArtist(r.DB.QueryRowContext(ctx, selectArtist+` WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get artist: %w", err)
	}
	trs, err := r.translations(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	a.Translations = trs[a.ID]
	return &a, nil
}

func (r *Repo) Create(ctx context.Context, in Input) (*models.Artist, error) {
	id := uuid.NewString()
	err := database.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		imageID, err := media.Replace(ctx, tx, sql.NullString{}, in.ImagePath, in.ImageAlt)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO artists (id, slug, name, image_id, website_url, spotify_url, instagram_url, youtube_url)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, id, in.Slug, in.Name, imageID,
			database.NullString(in.WebsiteURL), database.NullString(in.SpotifyURL),
			database.NullString(in.InstagramURL), database.NullString(in.YoutubeURL)); err != nil {
			return fmt.Errorf("insert artist: %w", err)
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

func (r *Repo) Update(ctx context.Context, id string, in Input) (*models.Artist, error) {
	err := database.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		var current sql.NullString
		if err := tx.QueryRowContext(ctx, `SELECT image_id FROM artists WHERE id = ?`, id).Scan(&current); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return database.ErrNotFound
			}
			return fmt.Errorf("load artist: %w", err)
		}

		imageID, err := media.Replace(ctx, tx, current, in.ImagePath, in.ImageAlt)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE artists
			SET slug = ?, name = ?, image_id = ?, website_url = ?, spotify_url = ?, instagram_url = ?, youtube_url = ?
			WHERE id = ?
		`, in.Slug, in.Name, imageID,
			database.NullString(in.WebsiteURL), database.NullString(in.SpotifyURL),
			database.NullString(in.InstagramURL), database.NullString(in.YoutubeURL), id); err != nil {
			return fmt.Errorf("update artist: %w", err)
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

// Delete removes the artist, its credits and its image.
func (r *Repo) Delete(ctx context.Context, id string) (bool, error) {
	found := false
	err := database.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		var imageID sql.NullString
		if err := tx.QueryRowContext(ctx, `SELECT image_id FROM artists WHERE id = ?`, id).Scan(&imageID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil
			}
			return fmt.Errorf("load artist: %w", err)
		}
		found = true
		if _, err := tx.ExecContext(ctx, `DELETE FROM artists WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete artist: %w", err)
		}
		return media.Delete(ctx, tx, imageID)
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

// translations loads bios for one artist, or for all when id is "".
func (r *Repo) translations(ctx context.Context, id string) (map[string][]models.ArtistTranslation, error) {
	q := `SELECT artist_id, locale, bio FROM artist_translations`
	var args []any
	if id != "" {
		q += ` WHERE artist_id = ?`
		args = append(args, id)
	}
	q += ` ORDER BY artist_id, locale`

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list artist translations: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]models.ArtistTranslation)
	for rows.Next() {
		var (
			artistID string
			t        models.ArtistTranslation
			bio      sql.NullString
		)
		if err := rows.Scan(&artistID, &t.Locale, &bio); err != nil {
			return nil, fmt.Errorf("scan artist translation: %w", err)
		}
		t.Bio = bio.String
		out[artistID] = append(out[artistID], t)
	}
	return out, rows.Err()
}

func replaceTranslations(ctx context.Context, tx *sql.Tx, id string, trs []models.ArtistTranslation) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM artist_translations WHERE artist_id = ?`, id); err != nil {
		return fmt.Errorf("clear artist translations: %w", err)
	}
	for _, t := range trs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO artist_translations (artist_id, locale, bio) VALUES (?, ?, ?)
		`, id, t.Locale, database.NullString(t.Bio)); err != nil {
			return fmt.Errorf("insert artist translation: %w", err)
		}
	}
	return nil
}
