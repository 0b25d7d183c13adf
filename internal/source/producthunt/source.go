// Package producthunt fetches today's most voted launches through the
// Product Hunt GraphQL API. A developer token is required.
package producthunt

import (
	"context"
	"errors"
	"strings"

	"edition_collector/internal/domain"
	"edition_collector/internal/source"
)

const DefaultBaseURL = "https://api.producthunt.com/v2/api/graphql"

const postsQuery = `query TopPosts($first: Int!) {
  posts(order: VOTES, first: $first) {
    edges {
      node {
        id
        name
        tagline
        url
        votesCount
        commentsCount
        thumbnail { url }
      }
    }
  }
}`

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLResponse struct {
	Data struct {
		Posts struct {
			Edges []struct {
				Node node `json:"node"`
			} `json:"edges"`
		} `json:"posts"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type node struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Tagline       string `json:"tagline"`
	URL           string `json:"url"`
	VotesCount    int    `json:"votesCount"`
	CommentsCount int    `json:"commentsCount"`
	Thumbnail     *struct {
		URL string `json:"url"`
	} `json:"thumbnail"`
}

func Definition(cfg source.Settings, client *source.Client) source.Definition {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	return source.Define(domain.SourceProductHunt, cfg, true, func(ctx context.Context, req source.Request) ([]domain.Article, error) {
		body := graphQLRequest{
			Query:     postsQuery,
			Variables: map[string]any{"first": req.Limit},
		}
		headers := map[string]string{"Authorization": "Bearer " + req.Credential}

		var resp graphQLResponse
		if err := client.PostJSON(ctx, cfg.BaseURL, headers, body, &resp); err != nil {
			return nil, err
		}
		if len(resp.Errors) > 0 {
			msgs := make([]string, len(resp.Errors))
			for i, e := range resp.Errors {
				msgs[i] = e.Message
			}
			return nil, errors.New("graphql: " + strings.Join(msgs, "; "))
		}

		nodes := make([]node, 0, len(resp.Data.Posts.Edges))
		for _, e := range resp.Data.Posts.Edges {
			nodes = append(nodes, e.Node)
		}
		return transform(nodes), nil
	})
}

func transform(nodes []node) []domain.Article {
	articles := make([]domain.Article, 0, len(nodes))
	for _, n := range nodes {
		a := domain.Article{
			Title:      n.Name,
			URL:        n.URL,
			Excerpt:    source.Excerpt(n.Tagline),
			Score:      float64(max(n.VotesCount, 0)),
			ExternalID: n.ID,
			Metadata: map[string]any{
				"votes":    n.VotesCount,
				"comments": n.CommentsCount,
				"tagline":  n.Tagline,
			},
		}
		if n.Thumbnail != nil {
			a.ThumbnailURL = source.FirstURL(n.Thumbnail.URL)
		}
		articles = append(articles, a)
	}
	return articles
}
