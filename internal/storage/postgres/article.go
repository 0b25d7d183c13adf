package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"edition_collector/internal/domain"
)

const articleInsertColumns = 9

type ArticleStore struct {
	db *sqlx.DB
}

func NewArticleStore(db *sqlx.DB) *ArticleStore {
	return &ArticleStore{db: db}
}

type articleRow struct {
	ID           int64     `db:"id"`
	EditionID    int64     `db:"edition_id"`
	Source       string    `db:"source"`
	Title        string    `db:"title"`
	URL          string    `db:"url"`
	ThumbnailURL *string   `db:"thumbnail_url"`
	Excerpt      *string   `db:"excerpt"`
	Score        float64   `db:"score"`
	ExternalID   string    `db:"external_id"`
	Metadata     []byte    `db:"metadata"`
	CreatedAt    time.Time `db:"created_at"`
}

// InsertBatch writes all articles of an edition in a single statement.
// Duplicates of (source, external_id) within the edition are ignored.
func (s *ArticleStore) InsertBatch(ctx context.Context, editionID int64, articles []domain.Article) (int64, error) {
	if len(articles) == 0 {
		return 0, nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO articles (
		edition_id, source, title, url, thumbnail_url, excerpt, score, external_id, metadata
	) VALUES `)
	valueArgs := make([]any, 0, len(articles)*articleInsertColumns)

	for i, a := range articles {
		meta, err := marshalMetadata(a.Metadata)
		if err != nil {
			return 0, fmt.Errorf("marshal metadata for %s/%s: %w", a.Source, a.ExternalID, err)
		}

		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for col := 0; col < articleInsertColumns; col++ {
			if col > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("$")
			sb.WriteString(strconv.Itoa(i*articleInsertColumns + col + 1))
		}
		sb.WriteString(")")

		valueArgs = append(valueArgs,
			editionID,
			a.Source,
			a.Title,
			a.URL,
			a.ThumbnailURL,
			a.Excerpt,
			a.Score,
			a.ExternalID,
			string(meta),
		)
	}
	sb.WriteString(" ON CONFLICT (edition_id, source, external_id) DO NOTHING")

	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, sb.String(), valueArgs...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListByEdition returns an edition's articles grouped by source, best first.
func (s *ArticleStore) ListByEdition(ctx context.Context, editionID int64) ([]domain.Article, error) {
	query := `
		SELECT id, edition_id, source, title, url, thumbnail_url, excerpt, score,
			external_id, metadata, created_at
		FROM articles
		WHERE edition_id = $1
		ORDER BY source, score DESC, id`

	var rows []articleRow
	if err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &rows, query, editionID); err != nil {
		return nil, err
	}

	articles := make([]domain.Article, 0, len(rows))
	for _, r := range rows {
		a := domain.Article{
			ID:           r.ID,
			EditionID:    r.EditionID,
			Source:       domain.Source(r.Source),
			Title:        r.Title,
			URL:          r.URL,
			ThumbnailURL: r.ThumbnailURL,
			Excerpt:      r.Excerpt,
			Score:        r.Score,
			ExternalID:   r.ExternalID,
			CreatedAt:    r.CreatedAt,
		}
		if len(r.Metadata) > 0 {
			if err := json.Unmarshal(r.Metadata, &a.Metadata); err != nil {
				return nil, fmt.Errorf("decode metadata for article %d: %w", r.ID, err)
			}
		}
		articles = append(articles, a)
	}
	return articles, nil
}

func marshalMetadata(m map[string]any) ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}
