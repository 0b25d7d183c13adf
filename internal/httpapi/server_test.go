package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"edition_collector/internal/cache"
	"edition_collector/internal/domain"
)

type fakeCollector struct {
	calls  int
	result *domain.RunResult
	err    error
	ctx    context.Context
}

func (f *fakeCollector) Collect(ctx context.Context, _ time.Time) (*domain.RunResult, error) {
	f.calls++
	f.ctx = ctx
	return f.result, f.err
}

type fakeEditions struct {
	bySlot map[domain.Slot]*domain.Edition
	latest *domain.Edition
	err    error
}

func (f *fakeEditions) GetBySlot(_ context.Context, slot domain.Slot) (*domain.Edition, error) {
	if f.err != nil {
		return nil, f.err
	}
	if e, ok := f.bySlot[slot]; ok {
		return e, nil
	}
	return nil, domain.ErrEditionNotFound
}

func (f *fakeEditions) GetLatestPublished(context.Context) (*domain.Edition, error) {
	if f.latest == nil {
		return nil, domain.ErrEditionNotFound
	}
	return f.latest, nil
}

type fakeArticles map[int64][]domain.Article

func (f fakeArticles) ListByEdition(_ context.Context, id int64) ([]domain.Article, error) {
	return f[id], nil
}

type fakeHealth []domain.SourceHealth

func (f fakeHealth) List(context.Context) ([]domain.SourceHealth, error) {
	return f, nil
}

type ServerTestSuite struct {
	suite.Suite
	collector *fakeCollector
	editions  *fakeEditions
	cache     *cache.MemoryStore
	clock     time.Time
	server    *Server
}

var (
	publishedAt = time.Date(2026, 2, 6, 23, 0, 5, 0, time.UTC)
	morning     = domain.Slot{Type: domain.EditionMorning, Date: "2026-02-07"}
	evening     = domain.Slot{Type: domain.EditionEvening, Date: "2026-02-07"}
)

func (s *ServerTestSuite) SetupTest() {
	s.collector = &fakeCollector{}
	published := &domain.Edition{ID: 1, Type: morning.Type, Date: morning.Date, Status: domain.EditionPublished, PublishedAt: &publishedAt}
	s.editions = &fakeEditions{
		bySlot: map[domain.Slot]*domain.Edition{
			morning: published,
			evening: {ID: 2, Type: evening.Type, Date: evening.Date, Status: domain.EditionDraft},
		},
		latest: published,
	}
	s.clock = time.Now()
	s.cache = cache.NewMemoryStore(time.Hour)
	s.cache.SetClock(func() time.Time { return s.clock })

	articles := fakeArticles{1: {
		{Source: domain.SourceHackerNews, Title: "a", URL: "https://a", ExternalID: "1", Score: 90},
		{Source: domain.SourceGitHub, Title: "b", URL: "https://b", ExternalID: "2", Score: 80},
		{Source: domain.SourceHackerNews, Title: "c", URL: "https://c", ExternalID: "3", Score: 70},
	}}

	s.server = NewServer(Config{CronSecret: "s3cret", RunTimeout: time.Minute}, Deps{
		Collector: s.collector,
		Editions:  s.editions,
		Articles:  articles,
		Health:    fakeHealth{{Source: domain.SourceGitHub, LastStatus: domain.SourceSuccess, LastCount: 5}},
		Cache:     s.cache,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func (s *ServerTestSuite) do(method, target, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	s.server.Handler().ServeHTTP(rec, req)
	return rec
}

func (s *ServerTestSuite) TestCollect_Unauthorized() {
	for _, auth := range []string{"", "Bearer wrong", "s3cret", "Basic s3cret", "Bearer "} {
		rec := s.do(http.MethodPost, "/api/cron/collect", auth)
		s.Equal(http.StatusUnauthorized, rec.Code, "auth %q", auth)
	}
	s.Zero(s.collector.calls)
}

func (s *ServerTestSuite) TestCollect_EmptySecretRejectsAll() {
	s.server = NewServer(Config{}, Deps{Collector: s.collector}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	rec := s.do(http.MethodPost, "/api/cron/collect", "Bearer anything")
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Zero(s.collector.calls)
}

func (s *ServerTestSuite) TestCollect_Success() {
	id := int64(42)
	s.collector.result = &domain.RunResult{
		Status:    domain.RunSuccess,
		EditionID: &id,
		Edition:   morning,
		Sources: map[domain.Source]domain.SourceResult{
			domain.SourceGitHub: {Status: domain.SourceFailure, Error: "status 500"},
		},
		Articles: 8,
	}

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		rec := s.do(method, "/api/cron/collect", "Bearer s3cret")
		s.Equal(http.StatusOK, rec.Code)

		var body domain.RunResult
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		s.Equal(domain.RunSuccess, body.Status)
		s.Equal(int64(42), *body.EditionID)
		s.Equal(morning, body.Edition)
		s.Equal("status 500", body.Sources[domain.SourceGitHub].Error)
	}

	s.Equal(2, s.collector.calls)
	_, hasDeadline := s.collector.ctx.Deadline()
	s.True(hasDeadline)
}

func (s *ServerTestSuite) TestCollect_Skipped() {
	s.collector.result = &domain.RunResult{Status: domain.RunSkipped, Edition: morning}

	rec := s.do(http.MethodPost, "/api/cron/collect", "Bearer s3cret")

	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"status":"skipped"`)
}

func (s *ServerTestSuite) TestCollect_Failure() {
	s.collector.result = &domain.RunResult{Status: domain.RunFailure, Edition: morning, Error: "insert articles: disk full"}
	s.collector.err = errors.New("insert articles: disk full")

	rec := s.do(http.MethodPost, "/api/cron/collect", "Bearer s3cret")

	s.Equal(http.StatusInternalServerError, rec.Code)
	s.Contains(rec.Body.String(), "disk full")
}

func (s *ServerTestSuite) TestLatestEdition() {
	rec := s.do(http.MethodGet, "/api/editions/latest", "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var body struct {
		ID       int64                              `json:"id"`
		Type     domain.EditionType                 `json:"type"`
		Articles map[domain.Source][]domain.Article `json:"articles"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal(int64(1), body.ID)
	s.Equal(domain.EditionMorning, body.Type)
	s.Len(body.Articles[domain.SourceHackerNews], 2)
	s.Len(body.Articles[domain.SourceGitHub], 1)
}

func (s *ServerTestSuite) TestLatestEdition_None() {
	s.editions.latest = nil

	rec := s.do(http.MethodGet, "/api/editions/latest", "")
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *ServerTestSuite) TestEditionBySlot() {
	tests := []struct {
		target string
		code   int
	}{
		{target: "/api/editions/morning/2026-02-07", code: http.StatusOK},
		{target: "/api/editions/evening/2026-02-07", code: http.StatusNotFound},
		{target: "/api/editions/morning/2026-02-08", code: http.StatusNotFound},
		{target: "/api/editions/noon/2026-02-07", code: http.StatusBadRequest},
		{target: "/api/editions/morning/07-02-2026", code: http.StatusBadRequest},
	}

	for _, tt := range tests {
		rec := s.do(http.MethodGet, tt.target, "")
		s.Equal(tt.code, rec.Code, tt.target)
	}
}

func (s *ServerTestSuite) TestEditionBySlot_StoreError() {
	s.editions.err = errors.New("connection reset")

	rec := s.do(http.MethodGet, "/api/editions/morning/2026-02-07", "")
	s.Equal(http.StatusInternalServerError, rec.Code)
	s.NotContains(rec.Body.String(), "connection reset")
}

func (s *ServerTestSuite) TestWidgets() {
	rec := s.do(http.MethodGet, "/api/widgets", "")
	s.Equal(http.StatusNotFound, rec.Code)

	snap := domain.WidgetSnapshot{Weather: &domain.Weather{Location: "Tokyo"}, FetchedAt: publishedAt}
	cache.SetJSON(context.Background(), s.cache, cache.WidgetsKey, snap, time.Hour)

	rec = s.do(http.MethodGet, "/api/widgets", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"stale":false`)
	s.Contains(rec.Body.String(), `"location":"Tokyo"`)

	s.clock = s.clock.Add(90 * time.Minute)
	rec = s.do(http.MethodGet, "/api/widgets", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"stale":true`)
}

func (s *ServerTestSuite) TestSourceHealth() {
	rec := s.do(http.MethodGet, "/api/sources/health", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"source":"github"`)
}

func (s *ServerTestSuite) TestHealthzAndMetrics() {
	rec := s.do(http.MethodGet, "/healthz", "")
	s.Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/metrics", "")
	s.Equal(http.StatusOK, rec.Code)
}
