// Package lobsters fetches the hottest stories from Lobsters.
package lobsters

import (
	"context"

	"edition_collector/internal/domain"
	"edition_collector/internal/source"
)

const DefaultBaseURL = "https://lobste.rs"

type story struct {
	ShortID      string   `json:"short_id"`
	Title        string   `json:"title"`
	URL          string   `json:"url"`
	Score        int      `json:"score"`
	CommentCount int      `json:"comment_count"`
	CommentsURL  string   `json:"comments_url"`
	Description  string   `json:"description_plain"`
	Tags         []string `json:"tags"`
}

func Definition(cfg source.Settings, client *source.Client) source.Definition {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	return source.Define(domain.SourceLobsters, cfg, false, func(ctx context.Context, req source.Request) ([]domain.Article, error) {
		var stories []story
		if err := client.GetJSON(ctx, cfg.BaseURL+"/hottest.json", nil, &stories); err != nil {
			return nil, err
		}
		return transform(stories), nil
	})
}

func transform(stories []story) []domain.Article {
	articles := make([]domain.Article, 0, len(stories))
	for _, s := range stories {
		link := s.URL
		if link == "" {
			link = s.CommentsURL
		}
		articles = append(articles, domain.Article{
			Title:      s.Title,
			URL:        link,
			Excerpt:    source.Excerpt(s.Description),
			Score:      float64(max(s.Score, 0)),
			ExternalID: s.ShortID,
			Metadata: map[string]any{
				"comments":      s.CommentCount,
				"discussionUrl": s.CommentsURL,
				"tags":          s.Tags,
			},
		})
	}
	return articles
}
