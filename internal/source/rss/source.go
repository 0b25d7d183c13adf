// Package rss fetches configured tech blog feeds. Feeds carry no engagement
// numbers, so the native score is freshness: hours left in a 48 hour window.
package rss

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"edition_collector/internal/domain"
	"edition_collector/internal/source"
)

const freshnessWindow = 48 * time.Hour

type Config struct {
	source.Settings
	Feeds []string
	Now   func() time.Time
}

func Definition(cfg Config, client *source.Client, logger *slog.Logger) source.Definition {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	logger = logger.With("source", domain.SourceRSS.String())

	return source.Define(domain.SourceRSS, cfg.Settings, false, func(ctx context.Context, req source.Request) ([]domain.Article, error) {
		if len(cfg.Feeds) == 0 {
			return []domain.Article{}, nil
		}

		parser := gofeed.NewParser()
		now := cfg.Now()

		var (
			articles []domain.Article
			errs     []error
		)
		for _, feedURL := range cfg.Feeds {
			body, err := client.GetBody(ctx, feedURL, map[string]string{"Accept": "application/rss+xml, application/atom+xml, application/xml"})
			if err != nil {
				errs = append(errs, fmt.Errorf("fetch %s: %w", feedURL, err))
				continue
			}
			feed, err := parser.ParseString(string(body))
			if err != nil {
				errs = append(errs, fmt.Errorf("parse %s: %w", feedURL, err))
				continue
			}
			articles = append(articles, transform(feed, now)...)
		}

		if len(errs) == len(cfg.Feeds) {
			return nil, errors.Join(errs...)
		}
		for _, err := range errs {
			logger.Warn("feed skipped", "error", err)
		}

		slices.SortStableFunc(articles, func(a, b domain.Article) int {
			switch {
			case a.Score > b.Score:
				return -1
			case a.Score < b.Score:
				return 1
			}
			return 0
		})
		return articles, nil
	})
}

func transform(feed *gofeed.Feed, now time.Time) []domain.Article {
	articles := make([]domain.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		published := now
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			published = *item.UpdatedParsed
		}

		age := now.Sub(published)
		if age > freshnessWindow {
			continue
		}

		id := item.GUID
		if id == "" {
			id = item.Link
		}

		desc := item.Description
		if desc == "" {
			desc = item.Content
		}

		meta := map[string]any{
			"feed":        feed.Title,
			"publishedAt": published.UTC().Format(time.RFC3339),
		}
		if item.Author != nil && item.Author.Name != "" {
			meta["author"] = item.Author.Name
		}

		articles = append(articles, domain.Article{
			Title:        strings.TrimSpace(item.Title),
			URL:          item.Link,
			ThumbnailURL: source.FirstURL(imageURL(item)),
			Excerpt:      source.Excerpt(desc),
			Score:        freshness(age),
			ExternalID:   source.HashID(id),
			Metadata:     meta,
		})
	}
	return articles
}

func freshness(age time.Duration) float64 {
	left := (freshnessWindow - max(age, 0)).Hours()
	return max(left, 0)
}

// imageURL picks the item image, then media:thumbnail, then media:content
// images, then image enclosures.
func imageURL(item *gofeed.Item) string {
	if item.Image != nil && valid(item.Image.URL) {
		return item.Image.URL
	}
	if media, ok := item.Extensions["media"]; ok {
		for _, thumb := range media["thumbnail"] {
			if u := thumb.Attrs["url"]; valid(u) {
				return u
			}
		}
		for _, content := range media["content"] {
			if content.Attrs["medium"] == "image" && valid(content.Attrs["url"]) {
				return content.Attrs["url"]
			}
		}
	}
	for _, enc := range item.Enclosures {
		if strings.HasPrefix(enc.Type, "image/") && valid(enc.URL) {
			return enc.URL
		}
	}
	return ""
}

func valid(raw string) bool {
	return source.HTTPURL(raw) != ""
}
