package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"edition_collector/internal/domain"
)

type EditionStore interface {
	GetBySlot(ctx context.Context, slot domain.Slot) (*domain.Edition, error)
	Create(ctx context.Context, slot domain.Slot) (*domain.Edition, error)
	Publish(ctx context.Context, id int64, at time.Time) error
	Delete(ctx context.Context, id int64) error
}

type ArticleStore interface {
	InsertBatch(ctx context.Context, editionID int64, articles []domain.Article) (int64, error)
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ArticleSource is a platform fetcher. Fetch never fails; problems are
// reported through FetchOutcome.Err.
type ArticleSource interface {
	Source() domain.Source
	Fetch(ctx context.Context) domain.FetchOutcome
}

// WidgetFetcher fills its part of the snapshot.
type WidgetFetcher interface {
	Name() string
	Fetch(ctx context.Context, snap *domain.WidgetSnapshot) error
}

type Publisher interface {
	PublishEdition(ctx context.Context, edition *domain.Edition, counts map[domain.Source]int) error
}

type SourceHealthRecorder interface {
	Record(ctx context.Context, results map[domain.Source]domain.SourceResult, at time.Time) error
}
