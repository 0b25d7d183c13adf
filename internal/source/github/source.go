// Package github fetches the most starred repositories created in the last
// week. A token is optional and only raises the rate limit.
package github

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"edition_collector/internal/domain"
	"edition_collector/internal/source"
)

const (
	DefaultBaseURL = "https://api.github.com"
	openGraphURL   = "https://opengraph.githubassets.com/1/"
	lookback       = 7 * 24 * time.Hour
)

type Config struct {
	source.Settings
	Now func() time.Time
}

func Definition(cfg Config, client *source.Client) source.Definition {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return source.Define(domain.SourceGitHub, cfg.Settings, false, func(ctx context.Context, req source.Request) ([]domain.Article, error) {
		since := cfg.Now().Add(-lookback).UTC().Format(domain.DateLayout)
		q := url.Values{}
		q.Set("q", "created:>"+since)
		q.Set("sort", "stars")
		q.Set("order", "desc")
		q.Set("per_page", strconv.Itoa(req.Limit))

		headers := map[string]string{
			"Accept":               "application/vnd.github+json",
			"X-GitHub-Api-Version": "2022-11-28",
		}
		if req.Credential != "" {
			headers["Authorization"] = "Bearer " + req.Credential
		}

		var resp searchResponse
		if err := client.GetJSON(ctx, fmt.Sprintf("%s/search/repositories?%s", cfg.BaseURL, q.Encode()), headers, &resp); err != nil {
			return nil, err
		}
		return transform(resp.Items), nil
	})
}

func transform(repos []repository) []domain.Article {
	articles := make([]domain.Article, 0, len(repos))
	for _, r := range repos {
		a := domain.Article{
			Title:        r.FullName,
			URL:          r.HTMLURL,
			ThumbnailURL: source.FirstURL(r.Owner.AvatarURL, openGraphURL+r.FullName),
			Score:        float64(max(r.StargazersCount, 0)),
			ExternalID:   strconv.FormatInt(r.ID, 10),
			Metadata: map[string]any{
				"stars":  r.StargazersCount,
				"forks":  r.ForksCount,
				"owner":  r.Owner.Login,
				"topics": r.Topics,
			},
		}
		if r.ID == 0 {
			a.ExternalID = ""
		}
		if r.Description != nil {
			a.Excerpt = source.Excerpt(*r.Description)
		}
		if r.Language != nil {
			a.Metadata["language"] = *r.Language
		}
		articles = append(articles, a)
	}
	return articles
}
