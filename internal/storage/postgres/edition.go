package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"edition_collector/internal/domain"
)

const uniqueViolation = "23505"

const editionColumns = `id, type, date::text AS date, status, published_at, created_at`

type EditionStore struct {
	db *sqlx.DB
}

func NewEditionStore(db *sqlx.DB) *EditionStore {
	return &EditionStore{db: db}
}

func (s *EditionStore) GetBySlot(ctx context.Context, slot domain.Slot) (*domain.Edition, error) {
	query := `SELECT ` + editionColumns + ` FROM editions WHERE type = $1 AND date = $2`
	return s.get(ctx, query, slot.Type, slot.Date)
}

func (s *EditionStore) GetLatestPublished(ctx context.Context) (*domain.Edition, error) {
	query := `
		SELECT ` + editionColumns + `
		FROM editions
		WHERE status = 'published'
		ORDER BY published_at DESC
		LIMIT 1`
	return s.get(ctx, query)
}

// Create inserts a draft edition. The unique (type, date) constraint decides
// concurrent creates: the loser gets domain.ErrEditionExists.
func (s *EditionStore) Create(ctx context.Context, slot domain.Slot) (*domain.Edition, error) {
	query := `
		INSERT INTO editions (type, date, status)
		VALUES ($1, $2, 'draft')
		RETURNING ` + editionColumns

	var e domain.Edition
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &e, query, slot.Type, slot.Date)
	if isUniqueViolation(err) {
		return nil, domain.ErrEditionExists
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Publish moves a draft to published. Editions already published or missing
// yield domain.ErrEditionNotFound.
func (s *EditionStore) Publish(ctx context.Context, id int64, at time.Time) error {
	query := `
		UPDATE editions
		SET status = 'published', published_at = $2
		WHERE id = $1 AND status = 'draft'`

	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, query, id, at)
	if err != nil {
		return err
	}
	return expectOne(res)
}

// Delete removes a draft edition and, by cascade, its articles.
func (s *EditionStore) Delete(ctx context.Context, id int64) error {
	res, err := GetExecutor(ctx, s.db).ExecContext(ctx,
		`DELETE FROM editions WHERE id = $1 AND status = 'draft'`, id)
	if err != nil {
		return err
	}
	return expectOne(res)
}

// ListDrafts returns drafts created before the given time, oldest first.
func (s *EditionStore) ListDrafts(ctx context.Context, createdBefore time.Time) ([]domain.Edition, error) {
	query := `
		SELECT ` + editionColumns + `
		FROM editions
		WHERE status = 'draft' AND created_at < $1
		ORDER BY created_at`

	var editions []domain.Edition
	err := s.db.SelectContext(ctx, &editions, query, createdBefore)
	return editions, err
}

func (s *EditionStore) get(ctx context.Context, query string, args ...any) (*domain.Edition, error) {
	var e domain.Edition
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &e, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrEditionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrEditionNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
