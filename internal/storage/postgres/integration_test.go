//go:build integration

package postgres

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"edition_collector/internal/domain"
)

type PostgresIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *postgres.PostgresContainer
	db        *sqlx.DB
}

func (s *PostgresIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()

	migrationsPath, err := filepath.Abs("../../../migrations")
	s.Require().NoError(err)

	container, err := postgres.Run(s.ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		postgres.WithInitScripts(
			filepath.Join(migrationsPath, "001_create_editions.up.sql"),
			filepath.Join(migrationsPath, "002_create_articles.up.sql"),
			filepath.Join(migrationsPath, "003_create_source_health.up.sql"),
		),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	connStr, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := sqlx.Connect("postgres", connStr)
	s.Require().NoError(err)
	s.db = db
}

func (s *PostgresIntegrationSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *PostgresIntegrationSuite) SetupTest() {
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM articles")
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM editions")
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM source_health")
}

func TestPostgresIntegrationSuite(t *testing.T) {
	suite.Run(t, new(PostgresIntegrationSuite))
}

var morning = domain.Slot{Type: domain.EditionMorning, Date: "2026-02-07"}

func strPtr(s string) *string {
	return &s
}

func (s *PostgresIntegrationSuite) TestEditionStore_CreateAndGet() {
	store := NewEditionStore(s.db)

	created, err := store.Create(s.ctx, morning)
	s.Require().NoError(err)
	s.Greater(created.ID, int64(0))
	s.Equal(domain.EditionDraft, created.Status)
	s.Equal("2026-02-07", created.Date)
	s.Nil(created.PublishedAt)

	got, err := store.GetBySlot(s.ctx, morning)
	s.NoError(err)
	s.Equal(created.ID, got.ID)

	_, err = store.GetBySlot(s.ctx, domain.Slot{Type: domain.EditionEvening, Date: "2026-02-07"})
	s.ErrorIs(err, domain.ErrEditionNotFound)
}

func (s *PostgresIntegrationSuite) TestEditionStore_CreateDuplicate() {
	store := NewEditionStore(s.db)

	_, err := store.Create(s.ctx, morning)
	s.Require().NoError(err)

	_, err = store.Create(s.ctx, morning)
	s.ErrorIs(err, domain.ErrEditionExists)
}

func (s *PostgresIntegrationSuite) TestEditionStore_ConcurrentCreateOneWinner() {
	store := NewEditionStore(s.db)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		exists  int
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Create(s.ctx, morning)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case err == domain.ErrEditionExists:
				exists++
			}
		}()
	}
	wg.Wait()

	s.Equal(1, created)
	s.Equal(7, exists)

	var count int
	s.NoError(s.db.GetContext(s.ctx, &count, "SELECT COUNT(*) FROM editions"))
	s.Equal(1, count)
}

func (s *PostgresIntegrationSuite) TestEditionStore_PublishOnce() {
	store := NewEditionStore(s.db)
	now := time.Now().UTC().Truncate(time.Microsecond)

	e, err := store.Create(s.ctx, morning)
	s.Require().NoError(err)

	s.NoError(store.Publish(s.ctx, e.ID, now))
	s.ErrorIs(store.Publish(s.ctx, e.ID, now), domain.ErrEditionNotFound)

	latest, err := store.GetLatestPublished(s.ctx)
	s.Require().NoError(err)
	s.Equal(e.ID, latest.ID)
	s.Equal(domain.EditionPublished, latest.Status)
	s.Require().NotNil(latest.PublishedAt)
	s.WithinDuration(now, *latest.PublishedAt, time.Second)

	s.ErrorIs(store.Delete(s.ctx, e.ID), domain.ErrEditionNotFound)
}

func (s *PostgresIntegrationSuite) TestEditionStore_ListDrafts() {
	store := NewEditionStore(s.db)

	draft, err := store.Create(s.ctx, morning)
	s.Require().NoError(err)
	published, err := store.Create(s.ctx, domain.Slot{Type: domain.EditionEvening, Date: "2026-02-07"})
	s.Require().NoError(err)
	s.Require().NoError(store.Publish(s.ctx, published.ID, time.Now()))

	drafts, err := store.ListDrafts(s.ctx, time.Now().Add(time.Minute))
	s.NoError(err)
	s.Require().Len(drafts, 1)
	s.Equal(draft.ID, drafts[0].ID)

	drafts, err = store.ListDrafts(s.ctx, time.Now().Add(-time.Hour))
	s.NoError(err)
	s.Empty(drafts)
}

func (s *PostgresIntegrationSuite) TestArticleStore_InsertBatchAndList() {
	editions := NewEditionStore(s.db)
	store := NewArticleStore(s.db)

	e, err := editions.Create(s.ctx, morning)
	s.Require().NoError(err)

	articles := []domain.Article{
		{Source: domain.SourceHackerNews, Title: "HN 1", URL: "https://a", ExternalID: "1", Score: 40, Metadata: map[string]any{"comments": 10}},
		{Source: domain.SourceHackerNews, Title: "HN 2", URL: "https://b", ExternalID: "2", Score: 90},
		{Source: domain.SourceYouTube, Title: "Video", URL: "https://c", ExternalID: "v", Score: 100, ThumbnailURL: strPtr("https://img"), Excerpt: strPtr("text")},
		{Source: domain.SourceHackerNews, Title: "HN 1 dup", URL: "https://a", ExternalID: "1", Score: 40},
	}

	n, err := store.InsertBatch(s.ctx, e.ID, articles)
	s.NoError(err)
	s.Equal(int64(3), n)

	got, err := store.ListByEdition(s.ctx, e.ID)
	s.NoError(err)
	s.Require().Len(got, 3)
	s.Equal("2", got[0].ExternalID)
	s.Equal("1", got[1].ExternalID)
	s.Equal(float64(10), got[1].Metadata["comments"])
	s.Equal(domain.SourceYouTube, got[2].Source)
	s.Equal("https://img", *got[2].ThumbnailURL)
}

func (s *PostgresIntegrationSuite) TestArticleStore_CascadeDelete() {
	editions := NewEditionStore(s.db)
	store := NewArticleStore(s.db)

	e, err := editions.Create(s.ctx, morning)
	s.Require().NoError(err)
	_, err = store.InsertBatch(s.ctx, e.ID, []domain.Article{
		{Source: domain.SourceReddit, Title: "t", URL: "https://r", ExternalID: "r1", Score: 1},
	})
	s.Require().NoError(err)

	s.NoError(editions.Delete(s.ctx, e.ID))

	var count int
	s.NoError(s.db.GetContext(s.ctx, &count, "SELECT COUNT(*) FROM articles"))
	s.Equal(0, count)
}

func (s *PostgresIntegrationSuite) TestSourceHealthStore_Record() {
	store := NewSourceHealthStore(s.db)
	now := time.Now().UTC().Truncate(time.Microsecond)

	err := store.Record(s.ctx, map[domain.Source]domain.SourceResult{
		domain.SourceGitHub: {Status: domain.SourceSuccess, Count: 5, Origin: domain.OriginUpstream},
		domain.SourceReddit: {Status: domain.SourceFailure, Origin: domain.OriginNone, Error: "rate limited"},
	}, now)
	s.Require().NoError(err)

	err = store.Record(s.ctx, map[domain.Source]domain.SourceResult{
		domain.SourceReddit: {Status: domain.SourceFailure, Origin: domain.OriginNone, Error: "timeout"},
	}, now.Add(time.Hour))
	s.Require().NoError(err)

	health, err := store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(health, 2)

	s.Equal(domain.SourceGitHub, health[0].Source)
	s.Equal(0, health[0].ConsecutiveFailures)
	s.NotNil(health[0].LastSuccessAt)
	s.Nil(health[0].LastError)

	s.Equal(domain.SourceReddit, health[1].Source)
	s.Equal(2, health[1].ConsecutiveFailures)
	s.Nil(health[1].LastSuccessAt)
	s.Equal("timeout", *health[1].LastError)
}

func (s *PostgresIntegrationSuite) TestTransaction_PublishWithArticles() {
	tm := NewTransactionManager(s.db)
	editions := NewEditionStore(s.db)
	articles := NewArticleStore(s.db)

	e, err := editions.Create(s.ctx, morning)
	s.Require().NoError(err)

	err = tm.WithTransaction(s.ctx, func(ctx context.Context) error {
		if _, err := articles.InsertBatch(ctx, e.ID, []domain.Article{
			{Source: domain.SourceLobsters, Title: "t", URL: "https://l", ExternalID: "l1", Score: 3},
		}); err != nil {
			return err
		}
		return editions.Publish(ctx, e.ID, time.Now())
	})
	s.NoError(err)

	got, err := editions.GetBySlot(s.ctx, morning)
	s.NoError(err)
	s.Equal(domain.EditionPublished, got.Status)
}

func (s *PostgresIntegrationSuite) TestTransaction_Rollback() {
	tm := NewTransactionManager(s.db)
	editions := NewEditionStore(s.db)
	articles := NewArticleStore(s.db)

	e, err := editions.Create(s.ctx, morning)
	s.Require().NoError(err)

	err = tm.WithTransaction(s.ctx, func(ctx context.Context) error {
		if _, err := articles.InsertBatch(ctx, e.ID, []domain.Article{
			{Source: domain.SourceLobsters, Title: "t", URL: "https://l", ExternalID: "l1", Score: 3},
		}); err != nil {
			return err
		}
		return context.Canceled
	})
	s.ErrorIs(err, context.Canceled)

	var count int
	s.NoError(s.db.GetContext(s.ctx, &count, "SELECT COUNT(*) FROM articles"))
	s.Equal(0, count)

	got, err := editions.GetBySlot(s.ctx, morning)
	s.NoError(err)
	s.Equal(domain.EditionDraft, got.Status)
}
