// Package scoring maps native engagement numbers onto a shared 0-100 scale
// and selects the best articles per source.
package scoring

import (
	"math"
	"slices"

	"edition_collector/internal/domain"
)

// Range is the native score interval mapped onto 0-100. Max is a
// conservative "high engagement" estimate, not a true maximum.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

var DefaultRanges = map[domain.Source]Range{
	domain.SourceHackerNews:  {Min: 0, Max: 500},
	domain.SourceGitHub:      {Min: 0, Max: 2000},
	domain.SourceReddit:      {Min: 0, Max: 3000},
	domain.SourceRSS:         {Min: 0, Max: 48},
	domain.SourceHatena:      {Min: 0, Max: 1000},
	domain.SourceLobsters:    {Min: 0, Max: 100},
	domain.SourceBluesky:     {Min: 0, Max: 500},
	domain.SourceYouTube:     {Min: 0, Max: 1_000_000},
	domain.SourceProductHunt: {Min: 0, Max: 600},
}

// Scale maps a single raw score.
func (r Range) Scale(raw float64) float64 {
	if math.IsNaN(raw) || raw <= r.Min {
		return 0
	}
	if r.Max <= r.Min {
		return 100
	}
	v := math.Round(100 * (raw - r.Min) / (r.Max - r.Min))
	return math.Max(0, math.Min(100, v))
}

// Normalize returns a copy of articles with every score mapped through rng.
func Normalize(articles []domain.Article, rng Range) []domain.Article {
	out := make([]domain.Article, len(articles))
	for i, a := range articles {
		a.Score = rng.Scale(a.Score)
		out[i] = a
	}
	return out
}

// TopK returns the k highest scored articles, ties kept in input order.
func TopK(articles []domain.Article, k int) []domain.Article {
	if k <= 0 {
		return []domain.Article{}
	}
	sorted := slices.Clone(articles)
	slices.SortStableFunc(sorted, func(a, b domain.Article) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return 0
	})
	if len(sorted) > k {
		sorted = sorted[:k]
	}
	return sorted
}
