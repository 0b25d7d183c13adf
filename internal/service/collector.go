package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"edition_collector/internal/cache"
	"edition_collector/internal/config"
	"edition_collector/internal/domain"
	"edition_collector/internal/metrics"
	"edition_collector/internal/scoring"
)

const (
	defaultFetchTimeout = 20 * time.Second
	defaultWidgetTTL    = 12 * time.Hour
	sideEffectTimeout   = 5 * time.Second
	staleReadTimeout    = 2 * time.Second
)

// ErrEmptyEdition is returned when no source contributed an article and the
// empty edition policy does not allow publishing.
var ErrEmptyEdition = errors.New("no articles collected")

// SourceSpec binds a fetcher to its normalization range and top-K.
type SourceSpec struct {
	Fetcher ArticleSource
	Range   scoring.Range
	TopK    int
}

type Options struct {
	Location     *time.Location
	CutoverHour  int
	FetchTimeout time.Duration
	WidgetTTL    time.Duration
	EmptyPolicy  config.EmptyEditionPolicy
}

// Deps are the collaborators of a Collector. Cache, Publisher and Health are
// optional.
type Deps struct {
	Editions  EditionStore
	Articles  ArticleStore
	TxManager TransactionManager
	Sources   []SourceSpec
	Widgets   []WidgetFetcher
	Cache     cache.Store
	Publisher Publisher
	Health    SourceHealthRecorder
}

// Collector builds at most one edition per slot from all configured sources.
type Collector struct {
	editions  EditionStore
	articles  ArticleStore
	txManager TransactionManager
	sources   []SourceSpec
	widgets   []WidgetFetcher
	cache     cache.Store
	publisher Publisher
	health    SourceHealthRecorder
	opts      Options
	logger    *slog.Logger
}

func NewCollector(deps Deps, opts Options, logger *slog.Logger) *Collector {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = defaultFetchTimeout
	}
	if opts.WidgetTTL <= 0 {
		opts.WidgetTTL = defaultWidgetTTL
	}
	if opts.EmptyPolicy == "" {
		opts.EmptyPolicy = config.EmptyPublish
	}
	store := deps.Cache
	if store == nil {
		store = cache.NopStore{}
	}

	return &Collector{
		editions:  deps.Editions,
		articles:  deps.Articles,
		txManager: deps.TxManager,
		sources:   deps.Sources,
		widgets:   deps.Widgets,
		cache:     store,
		publisher: deps.Publisher,
		health:    deps.Health,
		opts:      opts,
		logger:    logger.With("component", "collector"),
	}
}

// sourceRun is what one source contributed to a run.
type sourceRun struct {
	source   domain.Source
	result   domain.SourceResult
	selected []domain.Article
}

type widgetRun struct {
	name   string
	result domain.WidgetResult
	snap   domain.WidgetSnapshot
}

// Collect runs one collection for the slot that now falls into. The returned
// result is never nil; a non-nil error accompanies every failure result.
func (c *Collector) Collect(ctx context.Context, now time.Time) (*domain.RunResult, error) {
	start := time.Now()
	slot := domain.SlotAt(now, c.opts.Location, c.opts.CutoverHour)
	logger := c.logger.With("run_id", uuid.NewString(), "edition", slot.String())
	result := &domain.RunResult{Edition: slot}

	logger.Info("starting collection", "sources", len(c.sources), "widgets", len(c.widgets))

	existing, err := c.editions.GetBySlot(ctx, slot)
	switch {
	case err == nil:
		logger.Info("edition already exists, skipping", "edition_id", existing.ID, "status", existing.Status)
		result.Status = domain.RunSkipped
		result.EditionID = &existing.ID
		return c.finish(logger, result, start), nil
	case !errors.Is(err, domain.ErrEditionNotFound):
		return c.fail(logger, result, start, fmt.Errorf("check existing edition: %w", err))
	}

	draft, err := c.editions.Create(ctx, slot)
	if errors.Is(err, domain.ErrEditionExists) {
		logger.Info("edition created concurrently, skipping")
		result.Status = domain.RunSkipped
		return c.finish(logger, result, start), nil
	}
	if err != nil {
		return c.fail(logger, result, start, fmt.Errorf("create draft: %w", err))
	}
	result.EditionID = &draft.ID
	logger = logger.With("edition_id", draft.ID)

	sources, widgets := c.fanOut(ctx, logger)

	result.Sources = make(map[domain.Source]domain.SourceResult, len(sources))
	counts := make(map[domain.Source]int, len(sources))
	var union []domain.Article
	for _, sr := range sources {
		result.Sources[sr.source] = sr.result
		if len(sr.selected) > 0 {
			counts[sr.source] = len(sr.selected)
		}
		union = append(union, sr.selected...)
	}

	if len(widgets) > 0 {
		result.Widgets = make(map[string]domain.WidgetResult, len(widgets))
		for _, w := range widgets {
			result.Widgets[w.name] = w.result
		}
		c.cacheWidgets(ctx, logger, widgets, now)
	}

	c.recordHealth(ctx, logger, result.Sources, now)

	if len(union) == 0 && c.opts.EmptyPolicy != config.EmptyPublish {
		return c.handleEmpty(ctx, logger, result, start, draft.ID)
	}

	publishedAt := now.UTC()
	err = c.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if len(union) > 0 {
			if _, err := c.articles.InsertBatch(txCtx, draft.ID, union); err != nil {
				return fmt.Errorf("insert articles: %w", err)
			}
		}
		if err := c.editions.Publish(txCtx, draft.ID, publishedAt); err != nil {
			return fmt.Errorf("publish edition: %w", err)
		}
		return nil
	})
	if err != nil {
		return c.fail(logger, result, start, err)
	}

	result.Status = domain.RunSuccess
	result.Articles = len(union)
	metrics.RecordEditionArticles(len(union))
	if len(union) == 0 {
		logger.Warn("published edition without articles")
	}

	draft.Status = domain.EditionPublished
	draft.PublishedAt = &publishedAt
	c.notify(ctx, logger, draft, counts)

	return c.finish(logger, result, start), nil
}

// fanOut runs every source and widget fetcher concurrently and waits for all
// of them. Neither kind can fail the group.
func (c *Collector) fanOut(ctx context.Context, logger *slog.Logger) ([]sourceRun, []widgetRun) {
	sources := make([]sourceRun, len(c.sources))
	widgets := make([]widgetRun, len(c.widgets))

	var wg sync.WaitGroup
	for i, spec := range c.sources {
		wg.Go(func() {
			sources[i] = c.runSource(ctx, logger, spec)
		})
	}
	for i, w := range c.widgets {
		wg.Go(func() {
			widgets[i] = c.runWidget(ctx, logger, w)
		})
	}
	wg.Wait()

	return sources, widgets
}

type guarded[T any] struct {
	value T
	err   error
}

// guard runs fn under the per-fetcher timeout and converts a panic into an
// error. A fetcher that ignores its context is abandoned once the timeout
// elapses.
func guard[T any](ctx context.Context, timeout time.Duration, fn func(ctx context.Context) T) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan guarded[T], 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- guarded[T]{err: fmt.Errorf("panic: %v", p)}
			}
		}()
		done <- guarded[T]{value: fn(ctx)}
	}()

	select {
	case g := <-done:
		return g.value, g.err
	case <-ctx.Done():
		var zero T
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, fmt.Errorf("timed out after %s: %w", timeout, ctx.Err())
		}
		return zero, ctx.Err()
	}
}

func (c *Collector) runSource(ctx context.Context, logger *slog.Logger, spec SourceSpec) sourceRun {
	src := spec.Fetcher.Source()
	start := time.Now()

	out, err := guard(ctx, c.opts.FetchTimeout, spec.Fetcher.Fetch)
	if err != nil {
		out = c.staleFallback(ctx, src, err)
	}

	run := sourceRun{source: src}
	if out.Err != nil && len(out.Articles) == 0 {
		run.result = domain.SourceResult{Status: domain.SourceFailure, Origin: out.Origin, Error: out.Err.Error()}
		logger.Warn("source failed", "source", src, "error", out.Err)
	} else {
		run.selected = scoring.TopK(scoring.Normalize(dedupe(out.Articles), spec.Range), spec.TopK)
		run.result = domain.SourceResult{Status: domain.SourceSuccess, Count: len(run.selected), Origin: out.Origin}
		if out.Err != nil {
			run.result.Error = out.Err.Error()
		}
		logger.Info("source collected", "source", src, "count", len(run.selected), "origin", out.Origin)
	}

	metrics.RecordSourceFetch(src.String(), string(run.result.Status), string(run.result.Origin), time.Since(start))
	return run
}

// staleFallback serves the source's stale cache entry after its fetcher was
// abandoned, since the fetcher's own fallback never reached the caller.
func (c *Collector) staleFallback(ctx context.Context, src domain.Source, err error) domain.FetchOutcome {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), staleReadTimeout)
	defer cancel()

	stale, ok := cache.GetStaleJSON[[]domain.Article](ctx, c.cache, cache.SourceKey(src.String()))
	if !ok || len(stale) == 0 {
		return domain.FetchOutcome{Origin: domain.OriginNone, Err: err}
	}
	return domain.FetchOutcome{Articles: stale, Origin: domain.OriginStale, Err: err}
}

func (c *Collector) runWidget(ctx context.Context, logger *slog.Logger, w WidgetFetcher) widgetRun {
	run := widgetRun{name: w.Name()}

	type fetched struct {
		snap domain.WidgetSnapshot
		err  error
	}
	out, err := guard(ctx, c.opts.FetchTimeout, func(ctx context.Context) fetched {
		var f fetched
		f.err = w.Fetch(ctx, &f.snap)
		return f
	})
	if err == nil {
		err = out.err
	}

	if err != nil {
		run.result = domain.WidgetResult{Status: domain.SourceFailure, Error: err.Error()}
		logger.Warn("widget failed", "widget", run.name, "error", err)
		return run
	}

	run.snap = out.snap
	run.result = domain.WidgetResult{Status: domain.SourceSuccess}
	return run
}

// cacheWidgets merges the successful widget parts into one snapshot and
// caches it. Nothing is written when every widget failed, so the previous
// snapshot stays readable.
func (c *Collector) cacheWidgets(ctx context.Context, logger *slog.Logger, widgets []widgetRun, now time.Time) {
	snap := domain.WidgetSnapshot{FetchedAt: now.UTC()}
	ok := false
	for _, w := range widgets {
		if w.result.Status != domain.SourceSuccess {
			continue
		}
		ok = true
		if w.snap.Weather != nil {
			snap.Weather = w.snap.Weather
		}
		if w.snap.Quotes != nil {
			snap.Quotes = w.snap.Quotes
		}
	}
	if !ok {
		return
	}

	cache.SetJSON(ctx, c.cache, cache.WidgetsKey, snap, c.opts.WidgetTTL)
	logger.Debug("widget snapshot cached")
}

func (c *Collector) recordHealth(ctx context.Context, logger *slog.Logger, results map[domain.Source]domain.SourceResult, now time.Time) {
	if c.health == nil || len(results) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()

	if err := c.health.Record(ctx, results, now.UTC()); err != nil {
		logger.Warn("failed to record source health", "error", err)
	}
}

func (c *Collector) notify(ctx context.Context, logger *slog.Logger, edition *domain.Edition, counts map[domain.Source]int) {
	if c.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()

	if err := c.publisher.PublishEdition(ctx, edition, counts); err != nil {
		logger.Warn("failed to publish edition notification", "error", err)
	}
}

func (c *Collector) handleEmpty(ctx context.Context, logger *slog.Logger, result *domain.RunResult, start time.Time, draftID int64) (*domain.RunResult, error) {
	if c.opts.EmptyPolicy == config.EmptyKeepDraft {
		return c.fail(logger, result, start, fmt.Errorf("%w: edition kept as draft", ErrEmptyEdition))
	}

	if err := c.editions.Delete(ctx, draftID); err != nil {
		return c.fail(logger, result, start, fmt.Errorf("discard empty draft: %w", err))
	}
	result.EditionID = nil
	return c.fail(logger, result, start, fmt.Errorf("%w: draft discarded", ErrEmptyEdition))
}

func (c *Collector) fail(logger *slog.Logger, result *domain.RunResult, start time.Time, err error) (*domain.RunResult, error) {
	result.Status = domain.RunFailure
	result.Error = err.Error()
	result.Finish(start)

	logger.Error("collection failed",
		"error", err,
		"sources", result.Sources,
		"elapsed_ms", result.ElapsedMs,
	)
	metrics.RecordRun(string(result.Status), time.Since(start))
	return result, err
}

func (c *Collector) finish(logger *slog.Logger, result *domain.RunResult, start time.Time) *domain.RunResult {
	result.Finish(start)

	failed := 0
	for _, sr := range result.Sources {
		if sr.Status == domain.SourceFailure {
			failed++
		}
	}
	logger.Info("collection completed",
		"status", result.Status,
		"articles", result.Articles,
		"failed_sources", failed,
		"elapsed_ms", result.ElapsedMs,
	)
	metrics.RecordRun(string(result.Status), time.Since(start))
	return result
}

// dedupe keeps the first article per (source, external id). It runs before
// top-K so duplicates never take a slot.
func dedupe(articles []domain.Article) []domain.Article {
	type key struct {
		source domain.Source
		id     string
	}
	seen := make(map[key]struct{}, len(articles))
	out := make([]domain.Article, 0, len(articles))
	for _, a := range articles {
		k := key{a.Source, a.ExternalID}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, a)
	}
	return out
}
