package main

import (
	"log/slog"
	"time"

	"edition_collector/internal/cache"
	"edition_collector/internal/config"
	"edition_collector/internal/domain"
	"edition_collector/internal/service"
	"edition_collector/internal/source"
	"edition_collector/internal/source/bluesky"
	"edition_collector/internal/source/github"
	"edition_collector/internal/source/hackernews"
	"edition_collector/internal/source/hatena"
	"edition_collector/internal/source/lobsters"
	"edition_collector/internal/source/producthunt"
	"edition_collector/internal/source/reddit"
	"edition_collector/internal/source/rss"
	"edition_collector/internal/source/youtube"
	"edition_collector/internal/widget"
)

func retryPolicy(cfg config.RetryConfig) source.RetryPolicy {
	return source.RetryPolicy{
		MaxRetries: cfg.MaxRetries,
		BaseDelay:  cfg.BaseDelay,
		MaxDelay:   cfg.MaxDelay,
	}
}

func definition(src domain.Source, sc config.SourceConfig, settings source.Settings, client *source.Client, logger *slog.Logger) source.Definition {
	switch src {
	case domain.SourceHackerNews:
		return hackernews.Definition(settings, client)
	case domain.SourceGitHub:
		return github.Definition(github.Config{Settings: settings}, client)
	case domain.SourceReddit:
		return reddit.Definition(reddit.Config{Settings: settings, Subreddits: sc.Subreddits}, client)
	case domain.SourceRSS:
		return rss.Definition(rss.Config{Settings: settings, Feeds: sc.Feeds}, client, logger)
	case domain.SourceHatena:
		return hatena.Definition(settings, client)
	case domain.SourceLobsters:
		return lobsters.Definition(settings, client)
	case domain.SourceBluesky:
		return bluesky.Definition(bluesky.Config{Settings: settings, Query: sc.Query}, client)
	case domain.SourceYouTube:
		return youtube.Definition(youtube.Config{Settings: settings, RegionCode: sc.RegionCode, CategoryID: sc.CategoryID}, client)
	default:
		return producthunt.Definition(settings, client)
	}
}

func buildSources(cfg *config.Config, store cache.Store, logger *slog.Logger) []service.SourceSpec {
	client := source.NewClient(cfg.Collector.HTTPTimeout)
	retry := retryPolicy(cfg.Retry)

	specs := make([]service.SourceSpec, 0, len(domain.AllSources))
	for _, src := range domain.AllSources {
		sc := cfg.Source(src)
		if !sc.IsEnabled() {
			logger.Info("source disabled", "source", src)
			continue
		}

		settings := source.Settings{
			BaseURL:    sc.BaseURL,
			Limit:      sc.Limit,
			TTL:        sc.TTL,
			Credential: sc.Credential,
			Retry:      retry,
		}
		def := definition(src, sc, settings, client, logger)

		specs = append(specs, service.SourceSpec{
			Fetcher: source.New(def, store, logger),
			Range:   *sc.Range,
			TopK:    sc.TopK,
		})
	}
	return specs
}

func buildWidgets(cfg *config.Config, loc *time.Location, logger *slog.Logger) []service.WidgetFetcher {
	client := source.NewClient(cfg.Collector.HTTPTimeout)
	retry := retryPolicy(cfg.Retry)

	var widgets []service.WidgetFetcher

	w := cfg.Widgets.Weather
	if w.Enabled == nil || *w.Enabled {
		widgets = append(widgets, widget.NewWeatherFetcher(widget.WeatherConfig{
			BaseURL:   w.BaseURL,
			Location:  w.Location,
			Latitude:  w.Latitude,
			Longitude: w.Longitude,
			Timezone:  loc.String(),
			Retry:     retry,
		}, client, logger))
	}

	m := cfg.Widgets.Market
	if m.Enabled == nil || *m.Enabled {
		widgets = append(widgets, widget.NewMarketFetcher(widget.MarketConfig{
			BaseURL: m.BaseURL,
			APIKey:  m.APIKey,
			Symbols: m.Symbols,
			Retry:   retry,
		}, client, logger))
	}

	return widgets
}
