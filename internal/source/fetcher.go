// Package source implements the cache-first, retrying, stale-tolerant fetch
// skeleton shared by every platform. Platform packages only supply a
// Definition with the upstream call and the mapping to domain.Article.
package source

import (
	"context"
	"log/slog"
	"time"

	"edition_collector/internal/cache"
	"edition_collector/internal/domain"
)

const staleReadTimeout = 2 * time.Second

// Request carries the per-call parameters handed to a FetchFunc.
type Request struct {
	Limit      int
	Credential string
}

// FetchFunc performs one upstream call and maps the response. It may return
// more than Limit articles; the fetcher caps the result.
type FetchFunc func(ctx context.Context, req Request) ([]domain.Article, error)

// Definition configures one platform.
type Definition struct {
	Source             domain.Source
	TTL                time.Duration
	Limit              int
	RequiresCredential bool
	Credential         string
	Retry              RetryPolicy
	Fetch              FetchFunc
}

// Settings holds the configuration common to every platform package.
type Settings struct {
	BaseURL    string
	Limit      int
	TTL        time.Duration
	Credential string
	Retry      RetryPolicy
}

// Define builds a Definition from common settings.
func Define(src domain.Source, s Settings, requiresCredential bool, fetch FetchFunc) Definition {
	return Definition{
		Source:             src,
		TTL:                s.TTL,
		Limit:              s.Limit,
		RequiresCredential: requiresCredential,
		Credential:         s.Credential,
		Retry:              s.Retry,
		Fetch:              fetch,
	}
}

func (d Definition) CacheKey() string {
	return cache.SourceKey(d.Source.String())
}

type Fetcher struct {
	def    Definition
	cache  cache.Store
	logger *slog.Logger
}

func New(def Definition, store cache.Store, logger *slog.Logger) *Fetcher {
	if store == nil {
		store = cache.NopStore{}
	}
	return &Fetcher{
		def:    def,
		cache:  store,
		logger: logger.With("source", def.Source.String()),
	}
}

func (f *Fetcher) Source() domain.Source {
	return f.def.Source
}

// FetchArticles returns the source's articles. It never fails; the empty
// list is the last resort.
func (f *Fetcher) FetchArticles(ctx context.Context) []domain.Article {
	return f.Fetch(ctx).Articles
}

// Fetch runs the full cache-first algorithm and reports where the articles
// came from. Outcome.Err is set when the upstream call did not succeed, even
// if stale articles were served.
func (f *Fetcher) Fetch(ctx context.Context) domain.FetchOutcome {
	key := f.def.CacheKey()

	if articles, ok := cache.GetJSON[[]domain.Article](ctx, f.cache, key); ok {
		f.logger.Debug("cache hit", "count", len(articles))
		return domain.FetchOutcome{Articles: articles, Origin: domain.OriginCache}
	}

	articles, err := f.fetchUpstream(ctx)
	if err == nil {
		cache.SetJSON(ctx, f.cache, key, articles, f.def.TTL)
		f.logger.Debug("fetched from upstream", "count", len(articles))
		return domain.FetchOutcome{Articles: articles, Origin: domain.OriginUpstream}
	}

	staleCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), staleReadTimeout)
	defer cancel()

	if stale, ok := cache.GetStaleJSON[[]domain.Article](staleCtx, f.cache, key); ok {
		f.logger.Warn("upstream failed, serving stale cache", "count", len(stale), "error", err)
		return domain.FetchOutcome{Articles: stale, Origin: domain.OriginStale, Err: err}
	}

	f.logger.Warn("upstream failed, no cached data", "error", err)
	return domain.FetchOutcome{Articles: []domain.Article{}, Origin: domain.OriginNone, Err: err}
}

func (f *Fetcher) fetchUpstream(ctx context.Context) ([]domain.Article, error) {
	if f.def.RequiresCredential && f.def.Credential == "" {
		return nil, domain.ErrMissingCredential
	}

	req := Request{Limit: f.def.Limit, Credential: f.def.Credential}

	var raw []domain.Article
	err := Retry(ctx, f.def.Retry, f.logger, func(ctx context.Context) error {
		var err error
		raw, err = f.def.Fetch(ctx, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	return f.sanitize(raw), nil
}

// sanitize drops articles that violate the Article invariants and applies
// the result cap.
func (f *Fetcher) sanitize(raw []domain.Article) []domain.Article {
	articles := make([]domain.Article, 0, min(len(raw), max(f.def.Limit, 0)))
	for _, a := range raw {
		if len(articles) >= f.def.Limit {
			break
		}
		a.Source = f.def.Source
		if !a.Valid() {
			f.logger.Debug("dropping invalid article", "external_id", a.ExternalID, "title", a.Title)
			continue
		}
		articles = append(articles, a)
	}
	return articles
}
