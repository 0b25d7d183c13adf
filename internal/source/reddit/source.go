// Package reddit fetches the day's top posts from a set of subreddits.
package reddit

import (
	"context"
	"fmt"
	"html"
	"strings"

	"edition_collector/internal/domain"
	"edition_collector/internal/source"
)

const (
	DefaultBaseURL = "https://www.reddit.com"
	permalinkBase  = "https://www.reddit.com"
)

var DefaultSubreddits = []string{"programming", "golang", "webdev"}

type Config struct {
	source.Settings
	Subreddits []string
}

func Definition(cfg Config, client *source.Client) source.Definition {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if len(cfg.Subreddits) == 0 {
		cfg.Subreddits = DefaultSubreddits
	}

	return source.Define(domain.SourceReddit, cfg.Settings, false, func(ctx context.Context, req source.Request) ([]domain.Article, error) {
		// Over-fetch: stickied and NSFW posts are dropped after the call.
		url := fmt.Sprintf("%s/r/%s/top.json?t=day&limit=%d",
			cfg.BaseURL, strings.Join(cfg.Subreddits, "+"), req.Limit*2)

		var resp listing
		if err := client.GetJSON(ctx, url, nil, &resp); err != nil {
			return nil, err
		}

		posts := make([]post, 0, len(resp.Data.Children))
		for _, c := range resp.Data.Children {
			posts = append(posts, c.Data)
		}
		return transform(posts), nil
	})
}

func transform(posts []post) []domain.Article {
	articles := make([]domain.Article, 0, len(posts))
	for _, p := range posts {
		if p.Over18 || p.Stickied {
			continue
		}

		discussion := permalinkBase + p.Permalink
		link := source.HTTPURL(p.URL)
		if link == "" {
			link = discussion
		}

		a := domain.Article{
			Title:        html.UnescapeString(p.Title),
			URL:          link,
			ThumbnailURL: source.FirstURL(previewURL(p.Preview), p.Thumbnail),
			Excerpt:      source.Excerpt(p.Selftext),
			Score:        float64(max(p.Score, 0)),
			ExternalID:   p.ID,
			Metadata: map[string]any{
				"comments":      p.NumComments,
				"subreddit":     p.Subreddit,
				"author":        p.Author,
				"discussionUrl": discussion,
			},
		}
		articles = append(articles, a)
	}
	return articles
}

// previewURL returns the full-size preview image. Reddit HTML-escapes it.
func previewURL(p *preview) string {
	if p == nil || len(p.Images) == 0 {
		return ""
	}
	return html.UnescapeString(p.Images[0].Source.URL)
}
