// Package hackernews fetches front page stories through the Algolia HN API.
package hackernews

import (
	"context"
	"fmt"

	"edition_collector/internal/domain"
	"edition_collector/internal/source"
)

const (
	DefaultBaseURL = "https://hn.algolia.com/api/v1"
	itemURL        = "https://news.ycombinator.com/item?id="
)

type searchResponse struct {
	Hits []hit `json:"hits"`
}

type hit struct {
	ObjectID    string  `json:"objectID"`
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Points      int     `json:"points"`
	NumComments int     `json:"num_comments"`
	Author      string  `json:"author"`
	StoryText   *string `json:"story_text"`
	CreatedAtI  int64   `json:"created_at_i"`
}

func Definition(cfg source.Settings, client *source.Client) source.Definition {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	return source.Define(domain.SourceHackerNews, cfg, false, func(ctx context.Context, req source.Request) ([]domain.Article, error) {
		url := fmt.Sprintf("%s/search?tags=front_page&hitsPerPage=%d", cfg.BaseURL, req.Limit)

		var resp searchResponse
		if err := client.GetJSON(ctx, url, nil, &resp); err != nil {
			return nil, err
		}
		return transform(resp.Hits), nil
	})
}

func transform(hits []hit) []domain.Article {
	articles := make([]domain.Article, 0, len(hits))
	for _, h := range hits {
		discussion := itemURL + h.ObjectID
		link := h.URL
		if link == "" {
			link = discussion
		}

		a := domain.Article{
			Title:      h.Title,
			URL:        link,
			Score:      float64(max(h.Points, 0)),
			ExternalID: h.ObjectID,
			Metadata: map[string]any{
				"comments":      h.NumComments,
				"author":        h.Author,
				"discussionUrl": discussion,
				"createdAt":     h.CreatedAtI,
			},
		}
		if h.StoryText != nil {
			a.Excerpt = source.Excerpt(*h.StoryText)
		}
		articles = append(articles, a)
	}
	return articles
}
