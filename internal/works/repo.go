package works

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"portfolio/internal/media"
	"portfolio/pkg/database"
	"portfolio/pkg/models"
)

// ErrUnknownReference is returned when a write names a category, label or
// artist that does not exist.
var ErrUnknownReference = errors.New("unknown category, label or artist")

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

type ContributionInput struct {
	ArtistID string
	Role     string
}

type Input struct {
	Slug          string
	CategoryID    string
	LabelID       string
	CoverPath     string
	CoverAlt      string
	Year          *int
	ExternalURL   string
	YoutubeURL    string
	SpotifyURL    string
	SortOrder     int
	Published     bool
	Translations  []models.WorkTranslation
	Contributions []ContributionInput
}

// ListQuery filters List. Category is a category slug; Q matches the slug
// or any translated title.
type ListQuery struct {
	Category      string
	Q             string
	PublishedOnly bool
	Limit         int
	Offset        int
}

const selectWork = `
	SELECT w.id, w.slug, w.year, w.external_url, w.youtube_url, w.spotify_url,
	       w.sort_order, w.published, w.created_at, w.updated_at,
	       c.id, c.slug, c.sort_order,
	       l.id, l.slug, l.name, l.website_url,
	       m.id, m.path, m.alt
	FROM works w
	LEFT JOIN categories c ON c.id = w.category_id
	LEFT JOIN labels l ON l.id = w.label_id
	LEFT JOIN media_assets m ON m.id = w.cover_image_id
`

const displayOrder = ` ORDER BY w.sort_order ASC, w.slug ASC`

type scanner interface {
	Scan(dest ...any) error
}

func scanWork(s scanner) (models.Work, error) {
	var (
		w                            models.Work
		year                         sql.NullInt64
		external, youtube, spotify   sql.NullString
		catID, catSlug               sql.NullString
		catOrder                     sql.NullInt64
		labelID, labelSlug           sql.NullString
		labelName, labelURL          sql.NullString
		mediaID, mediaPath, mediaAlt sql.NullString
	)
	if err := s.Scan(
		&w.ID, &w.Slug, &year, &external, &youtube, &spotify,
		&w.SortOrder, &w.Published, &w.CreatedAt, &w.UpdatedAt,
		&catID, &catSlug, &catOrder,
		&labelID, &labelSlug, &labelName, &labelURL,
		&mediaID, &mediaPath, &mediaAlt,
	); err != nil {
		return w, err
	}

	if year.Valid {
		y := int(year.Int64)
		w.Year = &y
	}
	w.ExternalURL = external.String
	w.YoutubeURL = youtube.String
	w.SpotifyURL = spotify.String
	if catID.Valid {
		w.Category = &models.Category{ID: catID.String, Slug: catSlug.String, SortOrder: int(catOrder.Int64)}
	}
	if labelID.Valid {
		w.Label = &models.Label{ID: labelID.String, Slug: labelSlug.String, Name: labelName.String, WebsiteURL: labelURL.String}
	}
	w.CoverImage = media.FromColumns(mediaID, mediaPath, mediaAlt)
	return w, nil
}

// query loads works matching where, then attaches translations and credits.
func (r *Repo) query(ctx context.Context, tail string, args ...any) ([]models.Work, error) {
	rows, err := r.DB.QueryContext(ctx, selectWork+tail, args...)
	if err != nil {
		return nil, fmt.Errorf("list works: %w", err)
	}

	out := make([]models.Work, 0)
	for rows.Next() {
		w, err := scanWork(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan work: %w", err)
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("rows err: %w", err)
	}
	rows.Close()

	if err := r.attach(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) ListPublished(ctx context.Context) ([]models.Work, error) {
	return r.query(ctx, ` WHERE w.published = 1`+displayOrder)
}

// PublishedByArtist lists published works crediting the artist.
func (r *Repo) PublishedByArtist(ctx context.Context, artistID string) ([]models.Work, error) {
	return r.query(ctx, `
		WHERE w.published = 1
		  AND w.id IN (SELECT work_id FROM contributions WHERE artist_id = ?)
	`+displayOrder, artistID)
}

// List returns one page of works and the total number of matches.
func (r *Repo) List(ctx context.Context, q ListQuery) ([]models.Work, int, error) {
	var (
		conds []string
		args  []any
	)
	if q.PublishedOnly {
		conds = append(conds, `w.published = 1`)
	}
	if s := strings.TrimSpace(q.Category); s != "" {
		conds = append(conds, `c.slug = ?`)
		args = append(args, s)
	}
	if s := strings.TrimSpace(q.Q); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		conds = append(conds, `(w.slug LIKE ? OR EXISTS (
			SELECT 1 FROM work_translations t WHERE t.work_id = w.id AND LOWER(t.title) LIKE ?))`)
		args = append(args, like, like)
	}

	where := ""
	if len(conds) > 0 {
		where = ` WHERE ` + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM works w LEFT JOIN categories c ON c.id = w.category_id
	`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count works: %w", err)
	}

	tail := where + displayOrder
	if q.Limit > 0 {
		tail += ` LIMIT ? OFFSET ?`
		args = append(args, q.Limit, q.Offset)
	}
	ws, err := r.query(ctx, tail, args...)
	if err != nil {
		return nil, 0, err
	}
	return ws, total, nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (*models.Work, error) {
	return r.getOne(ctx, ` WHERE w.id = ?`, id)
}

func (r *Repo) getOne(ctx context.Context, tail string, arg any) (*models.Work, error) {
	ws, err := r.query(ctx, tail, arg)
	if err != nil {
		return nil, err
	}
	if len(ws) == 0 {
		return nil, nil
	}
	return &ws[0], nil
}

func (r *Repo) attach(ctx context.Context, ws []models.Work) error {
	if len(ws) == 0 {
		return nil
	}

	workIDs := make([]any, 0, len(ws))
	catSeen := make(map[string]struct{})
	var catIDs []any
	for _, w := range ws {
		workIDs = append(workIDs, w.ID)
		if w.Category != nil {
			if _, ok := catSeen[w.Category.ID]; !ok {
				catSeen[w.Category.ID] = struct{}{}
				catIDs = append(catIDs, w.Category.ID)
			}
		}
	}

	trs, err := r.translations(ctx, workIDs)
	if err != nil {
		return err
	}
	catTrs, err := r.categoryTranslations(ctx, catIDs)
	if err != nil {
		return err
	}
	credits, err := r.contributions(ctx, workIDs)
	if err != nil {
		return err
	}

	for i := range ws {
		ws[i].Translations = trs[ws[i].ID]
		if ws[i].Translations == nil {
			ws[i].Translations = []models.WorkTranslation{}
		}
		ws[i].Contributions = credits[ws[i].ID]
		if ws[i].Contributions == nil {
			ws[i].Contributions = []models.Contribution{}
		}
		if ws[i].Category != nil {
			ws[i].Category.Translations = catTrs[ws[i].Category.ID]
		}
	}
	return nil
}

func (r *Repo) translations(ctx context.Context, ids []any) (map[string][]models.WorkTranslation, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT work_id, locale, title, description
		FROM work_translations
		WHERE work_id IN (`+database.Placeholders(len(ids))+`)
		ORDER BY work_id, locale
	`, ids...)
	if err != nil {
		return nil, fmt.Errorf("list work translations: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]models.WorkTranslation)
	for rows.Next() {
		var (
			workID string
			t      models.WorkTranslation
			desc   sql.NullString
		)
		if err := rows.Scan(&workID, &t.Locale, &t.Title, &desc); err != nil {
			return nil, fmt.Errorf("scan work translation: %w", err)
		}
		t.Description = desc.String
		out[workID] = append(out[workID], t)
	}
	return out, rows.Err()
}

func (r *Repo) categoryTranslations(ctx context.Context, ids []any) (map[string][]models.CategoryTranslation, error) {
	out := make(map[string][]models.CategoryTranslation)
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.DB.QueryContext(ctx, `
		SELECT category_id, locale, name
		FROM category_translations
		WHERE category_id IN (`+database.Placeholders(len(ids))+`)
		ORDER BY category_id, locale
	`, ids...)
	if err != nil {
		return nil, fmt.Errorf("list category translations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			catID string
			t     models.CategoryTranslation
		)
		if err := rows.Scan(&catID, &t.Locale, &t.Name); err != nil {
			return nil, fmt.Errorf("scan category translation: %w", err)
		}
		out[catID] = append(out[catID], t)
	}
	return out, rows.Err()
}

func (r *Repo) contributions(ctx context.Context, ids []any) (map[string][]models.Contribution, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT ct.work_id, ct.artist_id, ct.role, ct.sort_order,
		       a.slug, a.name, a.website_url, a.spotify_url, a.instagram_url, a.youtube_url
		FROM contributions ct
		JOIN artists a ON a.id = ct.artist_id
		WHERE ct.work_id IN (`+database.Placeholders(len(ids))+`)
		ORDER BY ct.work_id, ct.sort_order, a.name
	`, ids...)
	if err != nil {
		return nil, fmt.Errorf("list contributions: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]models.Contribution)
	for rows.Next() {
		var (
			workID                           string
			ct                               models.Contribution
			a                                models.Artist
			website, spotify, insta, youtube sql.NullString
		)
		if err := rows.Scan(&workID, &ct.ArtistID, &ct.Role, &ct.SortOrder,
			&a.Slug, &a.Name, &website, &spotify, &insta, &youtube); err != nil {
			return nil, fmt.Errorf("scan contribution: %w", err)
		}
		a.ID = ct.ArtistID
		a.WebsiteURL = website.String
		a.SpotifyURL = spotify.String
		a.InstagramURL = insta.String
		a.YoutubeURL = youtube.String
		ct.Artist = &a
		out[workID] = append(out[workID], ct)
	}
	return out, rows.Err()
}

func (r *Repo) Create(ctx context.Context, in Input) (*models.Work, error) {
	id := uuid.NewString()
	err := database.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		coverID, err := media.Replace(ctx, tx, sql.NullString{}, in.CoverPath, in.CoverAlt)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO works (id, slug, category_id, label_id, cover_image_id, year,
			                   external_url, youtube_url, spotify_url, sort_order, published)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, append([]any{id}, in.columns(coverID)...)...); err != nil {
			return fmt.Errorf("insert work: %w", err)
		}
		return replaceChildren(ctx, tx, id, in)
	})
	if err := mapWriteErr(err); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *Repo) Update(ctx context.Context, id string, in Input) (*models.Work, error) {
	err := database.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		var current sql.NullString
		if err := tx.QueryRowContext(ctx, `SELECT cover_image_id FROM works WHERE id = ?`, id).Scan(&current); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return database.ErrNotFound
			}
			return fmt.Errorf("load work: %w", err)
		}
		coverID, err := media.Replace(ctx, tx, current, in.CoverPath, in.CoverAlt)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE works
			SET slug = ?, category_id = ?, label_id = ?, cover_image_id = ?, year = ?,
			    external_url = ?, youtube_url = ?, spotify_url = ?, sort_order = ?, published = ?,
			    updated_at = CURRENT_TIMESTAMP
			WHERE id = ?
		`, append(in.columns(coverID), id)...); err != nil {
			return fmt.Errorf("update work: %w", err)
		}
		return replaceChildren(ctx, tx, id, in)
	})
	if err := mapWriteErr(err); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a work with its translations, credits and cover.
func (r *Repo) Delete(ctx context.Context, id string) (bool, error) {
	found := false
	err := database.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		var coverID sql.NullString
		if err := tx.QueryRowContext(ctx, `SELECT cover_image_id FROM works WHERE id = ?`, id).Scan(&coverID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil
			}
			return fmt.Errorf("load work: %w", err)
		}
		found = true
		if _, err := tx.ExecContext(ctx, `DELETE FROM works WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete work: %w", err)
		}
		return media.Delete(ctx, tx, coverID)
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

func (in Input) columns(coverID sql.NullString) []any {
	var year sql.NullInt64
	if in.Year != nil {
		year = sql.NullInt64{Int64: int64(*in.Year), Valid: true}
	}
	return []any{
		in.Slug,
		database.NullString(in.CategoryID),
		database.NullString(in.LabelID),
		coverID,
		year,
		database.NullString(in.ExternalURL),
		database.NullString(in.YoutubeURL),
		database.NullString(in.SpotifyURL),
		in.SortOrder,
		in.Published,
	}
}

func replaceChildren(ctx context.Context, tx *sql.Tx, id string, in Input) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM work_translations WHERE work_id = ?`, id); err != nil {
		return fmt.Errorf("clear work translations: %w", err)
	}
	for _, t := range in.Translations {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO work_translations (work_id, locale, title, description) VALUES (?, ?, ?, ?)
		`, id, t.Locale, t.Title, database.NullString(t.Description)); err != nil {
			return fmt.Errorf("insert work translation: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM contributions WHERE work_id = ?`, id); err != nil {
		return fmt.Errorf("clear contributions: %w", err)
	}
	for i, ct := range in.Contributions {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO contributions (work_id, artist_id, role, sort_order) VALUES (?, ?, ?, ?)
		`, id, ct.ArtistID, ct.Role, i); err != nil {
			return fmt.Errorf("insert contribution: %w", err)
		}
	}
	return nil
}

func mapWriteErr(err error) error {
	switch {
	case err == nil:
		return nil
	case database.IsUniqueViolation(err):
		return database.ErrConflict
	case database.IsForeignKeyViolation(err):
		return ErrUnknownReference
	default:
		return err
	}
}
