package source

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"edition_collector/internal/cache"
	"edition_collector/internal/domain"
)

type FetcherTestSuite struct {
	suite.Suite
	ctx    context.Context
	store  *cache.MemoryStore
	now    time.Time
	logger *slog.Logger
	calls  atomic.Int32
}

func (s *FetcherTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2026, 2, 7, 6, 0, 0, 0, time.UTC)
	s.store = cache.NewMemoryStore(24 * time.Hour)
	s.store.SetClock(func() time.Time { return s.now })
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	s.calls.Store(0)
}

func TestFetcherTestSuite(t *testing.T) {
	suite.Run(t, new(FetcherTestSuite))
}

func (s *FetcherTestSuite) definition(fetch FetchFunc) Definition {
	return Definition{
		Source: domain.SourceHackerNews,
		TTL:    30 * time.Minute,
		Limit:  3,
		Retry:  RetryPolicy{MaxRetries: 3, BaseDelay: time.Millisecond, MaxDelay: 10 * time.Millisecond},
		Fetch: func(ctx context.Context, req Request) ([]domain.Article, error) {
			s.calls.Add(1)
			return fetch(ctx, req)
		},
	}
}

func articles(ids ...string) []domain.Article {
	out := make([]domain.Article, 0, len(ids))
	for i, id := range ids {
		out = append(out, domain.Article{
			Title:      "title " + id,
			URL:        "https://example.com/" + id,
			ExternalID: id,
			Score:      float64(i * 10),
		})
	}
	return out
}

func (s *FetcherTestSuite) TestFetch_UpstreamSuccessWritesCache() {
	f := New(s.definition(func(context.Context, Request) ([]domain.Article, error) {
		return articles("a", "b"), nil
	}), s.store, s.logger)

	out := f.Fetch(s.ctx)

	s.NoError(out.Err)
	s.Equal(domain.OriginUpstream, out.Origin)
	s.Len(out.Articles, 2)
	s.Equal(domain.SourceHackerNews, out.Articles[0].Source)

	cached, ok := cache.GetJSON[[]domain.Article](s.ctx, s.store, "source:hackernews")
	s.True(ok)
	s.Len(cached, 2)
}

func (s *FetcherTestSuite) TestFetch_FreshCacheShortCircuits() {
	cache.SetJSON(s.ctx, s.store, "source:hackernews", articles("cached"), time.Hour)

	f := New(s.definition(func(context.Context, Request) ([]domain.Article, error) {
		return articles("upstream"), nil
	}), s.store, s.logger)

	out := f.Fetch(s.ctx)

	s.Equal(domain.OriginCache, out.Origin)
	s.Equal("cached", out.Articles[0].ExternalID)
	s.Equal(int32(0), s.calls.Load())
}

func (s *FetcherTestSuite) TestFetch_StaleFallbackOnFailure() {
	cache.SetJSON(s.ctx, s.store, "source:hackernews", articles("prior"), 30*time.Minute)
	s.now = s.now.Add(2 * time.Hour)

	f := New(s.definition(func(context.Context, Request) ([]domain.Article, error) {
		return nil, &StatusError{StatusCode: http.StatusInternalServerError}
	}), s.store, s.logger)

	got := f.FetchArticles(s.ctx)

	s.Len(got, 1)
	s.Equal("prior", got[0].ExternalID)

	out := f.Fetch(s.ctx)
	s.Equal(domain.OriginStale, out.Origin)
	s.Error(out.Err)
}

func (s *FetcherTestSuite) TestFetch_LongRetryAfterFallsBackBeforeDeadline() {
	cache.SetJSON(s.ctx, s.store, "source:hackernews", articles("prior"), 30*time.Minute)
	s.now = s.now.Add(2 * time.Hour)

	def := s.definition(func(context.Context, Request) ([]domain.Article, error) {
		return nil, &RateLimitError{StatusCode: http.StatusTooManyRequests, RetryAfter: 30 * time.Second}
	})
	def.Retry.MaxDelay = time.Minute
	f := New(def, s.store, s.logger)

	ctx, cancel := context.WithTimeout(s.ctx, 200*time.Millisecond)
	defer cancel()

	out := f.Fetch(ctx)

	s.NoError(ctx.Err())
	s.Equal(domain.OriginStale, out.Origin)
	s.Require().Len(out.Articles, 1)
	s.Equal("prior", out.Articles[0].ExternalID)
	s.Equal(int32(1), s.calls.Load())
}

func (s *FetcherTestSuite) TestFetch_NoCacheReturnsEmpty() {
	f := New(s.definition(func(context.Context, Request) ([]domain.Article, error) {
		return nil, errors.New("boom")
	}), s.store, s.logger)

	out := f.Fetch(s.ctx)

	s.NotNil(out.Articles)
	s.Empty(out.Articles)
	s.Equal(domain.OriginNone, out.Origin)
	s.EqualError(out.Err, "boom")
}

func (s *FetcherTestSuite) TestFetch_MissingCredentialSkipsNetwork() {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	client := NewClient(time.Second)
	def := s.definition(func(ctx context.Context, req Request) ([]domain.Article, error) {
		var out []domain.Article
		return out, client.GetJSON(ctx, srv.URL, nil, &out)
	})
	def.RequiresCredential = true

	out := New(def, s.store, s.logger).Fetch(s.ctx)

	s.Empty(out.Articles)
	s.ErrorIs(out.Err, domain.ErrMissingCredential)
	s.Equal(int32(0), s.calls.Load())
	s.Equal(int32(0), hits.Load())
}

func (s *FetcherTestSuite) TestFetch_RetriesRateLimit() {
	f := New(s.definition(func(context.Context, Request) ([]domain.Article, error) {
		if s.calls.Load() < 3 {
			return nil, &RateLimitError{StatusCode: http.StatusTooManyRequests}
		}
		return articles("a"), nil
	}), s.store, s.logger)

	out := f.Fetch(s.ctx)

	s.NoError(out.Err)
	s.Len(out.Articles, 1)
	s.Equal(int32(3), s.calls.Load())
}

func (s *FetcherTestSuite) TestFetch_RetryCeiling() {
	f := New(s.definition(func(context.Context, Request) ([]domain.Article, error) {
		return nil, &RateLimitError{StatusCode: http.StatusForbidden}
	}), s.store, s.logger)

	out := f.Fetch(s.ctx)

	var rle *RateLimitError
	s.ErrorAs(out.Err, &rle)
	s.Equal(int32(4), s.calls.Load())
}

func (s *FetcherTestSuite) TestFetch_NonRateLimitNotRetried() {
	f := New(s.definition(func(context.Context, Request) ([]domain.Article, error) {
		return nil, &StatusError{StatusCode: http.StatusBadGateway}
	}), s.store, s.logger)

	f.Fetch(s.ctx)

	s.Equal(int32(1), s.calls.Load())
}

func (s *FetcherTestSuite) TestFetch_CapsAndDropsInvalid() {
	f := New(s.definition(func(context.Context, Request) ([]domain.Article, error) {
		raw := articles("a", "", "c", "d", "e")
		return raw, nil
	}), s.store, s.logger)

	got := f.FetchArticles(s.ctx)

	s.Len(got, 3)
	s.Equal([]string{"a", "c", "d"}, []string{got[0].ExternalID, got[1].ExternalID, got[2].ExternalID})
}

func (s *FetcherTestSuite) TestFetch_UnavailableCache() {
	f := New(s.definition(func(context.Context, Request) ([]domain.Article, error) {
		return articles("a"), nil
	}), cache.NopStore{}, s.logger)

	s.Len(f.FetchArticles(s.ctx), 1)
	s.Len(f.FetchArticles(s.ctx), 1)
	s.Equal(int32(2), s.calls.Load())
}
