// Package hatena fetches Hatena Bookmark hot entries from the category RDF
// feed. The bookmark count comes from the hatena: namespace extension.
package hatena

import (
	"context"
	"strconv"
	"strings"

	"github.com/mmcdole/gofeed"

	"edition_collector/internal/domain"
	"edition_collector/internal/source"
)

const DefaultBaseURL = "https://b.hatena.ne.jp/hotentry/it.rss"

func Definition(cfg source.Settings, client *source.Client) source.Definition {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	return source.Define(domain.SourceHatena, cfg, false, func(ctx context.Context, req source.Request) ([]domain.Article, error) {
		body, err := client.GetBody(ctx, cfg.BaseURL, map[string]string{"Accept": "application/rss+xml, application/xml"})
		if err != nil {
			return nil, err
		}

		feed, err := gofeed.NewParser().ParseString(string(body))
		if err != nil {
			return nil, err
		}
		return transform(feed.Items), nil
	})
}

func transform(items []*gofeed.Item) []domain.Article {
	articles := make([]domain.Article, 0, len(items))
	for _, item := range items {
		count, _ := strconv.Atoi(extension(item, "bookmarkcount"))

		meta := map[string]any{
			"bookmarks": count,
		}
		if len(item.Categories) > 0 {
			meta["category"] = item.Categories[0]
		}

		articles = append(articles, domain.Article{
			Title:        strings.TrimSpace(item.Title),
			URL:          item.Link,
			ThumbnailURL: source.FirstURL(extension(item, "imageurl")),
			Excerpt:      source.Excerpt(item.Description),
			Score:        float64(max(count, 0)),
			ExternalID:   source.HashID(item.Link),
			Metadata:     meta,
		})
	}
	return articles
}

func extension(item *gofeed.Item, name string) string {
	values := item.Extensions["hatena"][name]
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0].Value)
}
