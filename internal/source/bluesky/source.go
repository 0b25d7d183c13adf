// Package bluesky searches top posts for a query. The search endpoint needs
// an access token; without one the fetcher never calls out.
package bluesky

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"edition_collector/internal/domain"
	"edition_collector/internal/source"
)

const (
	DefaultBaseURL = "https://api.bsky.app"
	DefaultQuery   = "programming"
	postURLFormat  = "https://bsky.app/profile/%s/post/%s"
	titleLength    = 100
)

type Config struct {
	source.Settings
	Query string
}

func Definition(cfg Config, client *source.Client) source.Definition {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Query == "" {
		cfg.Query = DefaultQuery
	}

	return source.Define(domain.SourceBluesky, cfg.Settings, true, func(ctx context.Context, req source.Request) ([]domain.Article, error) {
		q := url.Values{}
		q.Set("q", cfg.Query)
		q.Set("sort", "top")
		q.Set("limit", strconv.Itoa(req.Limit))

		headers := map[string]string{"Authorization": "Bearer " + req.Credential}

		var resp searchResponse
		if err := client.GetJSON(ctx, cfg.BaseURL+"/xrpc/app.bsky.feed.searchPosts?"+q.Encode(), headers, &resp); err != nil {
			return nil, err
		}
		return transform(resp.Posts), nil
	})
}

func transform(posts []post) []domain.Article {
	articles := make([]domain.Article, 0, len(posts))
	for _, p := range posts {
		text := strings.TrimSpace(p.Record.Text)
		title, _, _ := strings.Cut(text, "\n")
		if title == "" && p.Embed != nil && p.Embed.External != nil {
			title = p.Embed.External.Title
		}

		articles = append(articles, domain.Article{
			Title:        source.Truncate(title, titleLength),
			URL:          postURL(p),
			ThumbnailURL: thumbnail(p.Embed),
			Excerpt:      source.Excerpt(text),
			Score:        float64(max(p.LikeCount+p.RepostCount, 0)),
			ExternalID:   p.URI,
			Metadata: map[string]any{
				"author":      p.Author.Handle,
				"displayName": p.Author.DisplayName,
				"likes":       p.LikeCount,
				"reposts":     p.RepostCount,
				"replies":     p.ReplyCount,
			},
		})
	}
	return articles
}

// postURL builds the web URL from an at:// URI, whose last segment is the
// record key.
func postURL(p post) string {
	idx := strings.LastIndex(p.URI, "/")
	if idx < 0 || p.Author.Handle == "" {
		return ""
	}
	return fmt.Sprintf(postURLFormat, p.Author.Handle, p.URI[idx+1:])
}

func thumbnail(e *embed) *string {
	if e == nil {
		return nil
	}
	var candidates []string
	if e.External != nil {
		candidates = append(candidates, e.External.Thumb)
	}
	for _, img := range e.Images {
		candidates = append(candidates, img.Thumb, img.Fullsize)
	}
	return source.FirstURL(candidates...)
}
