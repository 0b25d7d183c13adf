package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"edition_collector/internal/domain"
)

type SourceHealthStore struct {
	db *sqlx.DB
}

func NewSourceHealthStore(db *sqlx.DB) *SourceHealthStore {
	return &SourceHealthStore{db: db}
}

// Record upserts the latest fetch result of every source in results.
func (s *SourceHealthStore) Record(ctx context.Context, results map[domain.Source]domain.SourceResult, at time.Time) error {
	query := `
		INSERT INTO source_health (
			source, last_status, last_count, last_origin, last_error,
			last_attempt_at, last_success_at, consecutive_failures
		) VALUES (
			$1, $2, $3, $4, NULLIF($5::text, ''), $6,
			CASE WHEN $2::text = 'success' THEN $6::timestamptz END,
			CASE WHEN $2::text = 'success' THEN 0 ELSE 1 END
		)
		ON CONFLICT (source) DO UPDATE SET
			last_status = EXCLUDED.last_status,
			last_count = EXCLUDED.last_count,
			last_origin = EXCLUDED.last_origin,
			last_error = EXCLUDED.last_error,
			last_attempt_at = EXCLUDED.last_attempt_at,
			last_success_at = COALESCE(EXCLUDED.last_success_at, source_health.last_success_at),
			consecutive_failures = CASE
				WHEN EXCLUDED.last_status = 'success' THEN 0
				ELSE source_health.consecutive_failures + 1
			END`

	exec := GetExecutor(ctx, s.db)
	for src, r := range results {
		if _, err := exec.ExecContext(ctx, query,
			src, r.Status, r.Count, r.Origin, r.Error, at,
		); err != nil {
			return err
		}
	}
	return nil
}

func (s *SourceHealthStore) List(ctx context.Context) ([]domain.SourceHealth, error) {
	query := `
		SELECT source, last_status, last_count, last_origin, last_error,
			last_attempt_at, last_success_at, consecutive_failures
		FROM source_health
		ORDER BY source`

	var health []domain.SourceHealth
	err := s.db.SelectContext(ctx, &health, query)
	return health, err
}
