// Package youtube fetches the most popular videos of a category through the
// Data API v3. An API key is required.
package youtube

import (
	"context"
	"net/url"
	"strconv"

	"edition_collector/internal/domain"
	"edition_collector/internal/source"
)

const (
	DefaultBaseURL    = "https://www.googleapis.com/youtube/v3"
	DefaultRegionCode = "JP"
	// DefaultCategoryID is "Science & Technology".
	DefaultCategoryID = "28"
	watchURL          = "https://www.youtube.com/watch?v="
)

type Config struct {
	source.Settings
	RegionCode string
	CategoryID string
}

func Definition(cfg Config, client *source.Client) source.Definition {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.RegionCode == "" {
		cfg.RegionCode = DefaultRegionCode
	}
	if cfg.CategoryID == "" {
		cfg.CategoryID = DefaultCategoryID
	}

	return source.Define(domain.SourceYouTube, cfg.Settings, true, func(ctx context.Context, req source.Request) ([]domain.Article, error) {
		q := url.Values{}
		q.Set("part", "snippet,statistics,contentDetails")
		q.Set("chart", "mostPopular")
		q.Set("regionCode", cfg.RegionCode)
		q.Set("videoCategoryId", cfg.CategoryID)
		q.Set("maxResults", strconv.Itoa(req.Limit))
		q.Set("key", req.Credential)

		var resp videoListResponse
		if err := client.GetJSON(ctx, cfg.BaseURL+"/videos?"+q.Encode(), nil, &resp); err != nil {
			return nil, err
		}
		return transform(resp.Items), nil
	})
}

func transform(videos []video) []domain.Article {
	articles := make([]domain.Article, 0, len(videos))
	for _, v := range videos {
		views := parseCount(v.Statistics.ViewCount)
		articles = append(articles, domain.Article{
			Title:        v.Snippet.Title,
			URL:          watchURL + v.ID,
			ThumbnailURL: bestThumbnail(v.Snippet.Thumbnails),
			Excerpt:      source.Excerpt(v.Snippet.Description),
			Score:        float64(views),
			ExternalID:   v.ID,
			Metadata: map[string]any{
				"channel":     v.Snippet.ChannelTitle,
				"views":       views,
				"likes":       parseCount(v.Statistics.LikeCount),
				"comments":    parseCount(v.Statistics.CommentCount),
				"duration":    v.ContentDetails.Duration,
				"publishedAt": v.Snippet.PublishedAt,
			},
		})
	}
	return articles
}

// bestThumbnail prefers maxres, then high, medium and default.
func bestThumbnail(t thumbnails) *string {
	var candidates []string
	for _, th := range []*thumbnail{t.Maxres, t.High, t.Medium, t.Default} {
		if th != nil {
			candidates = append(candidates, th.URL)
		}
	}
	return source.FirstURL(candidates...)
}

func parseCount(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
