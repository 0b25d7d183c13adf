package domain

import (
	"errors"
	"time"
)

// Source identifies an upstream platform.
type Source string

const (
	SourceHackerNews  Source = "hackernews"
	SourceGitHub      Source = "github"
	SourceReddit      Source = "reddit"
	SourceRSS         Source = "rss"
	SourceHatena      Source = "hatena"
	SourceLobsters    Source = "lobsters"
	SourceBluesky     Source = "bluesky"
	SourceYouTube     Source = "youtube"
	SourceProductHunt Source = "producthunt"
)

// AllSources lists every supported platform in display order.
var AllSources = []Source{
	SourceHackerNews,
	SourceGitHub,
	SourceReddit,
	SourceRSS,
	SourceHatena,
	SourceLobsters,
	SourceBluesky,
	SourceYouTube,
	SourceProductHunt,
}

func (s Source) String() string {
	return string(s)
}

func (s Source) Valid() bool {
	for _, known := range AllSources {
		if s == known {
			return true
		}
	}
	return false
}

var (
	ErrEditionExists     = errors.New("edition already exists for slot")
	ErrEditionNotFound   = errors.New("edition not found")
	ErrMissingCredential = errors.New("missing credential")
)

// Article is a normalized item fetched from a source. Score holds the native
// engagement value until the scoring stage replaces it with a 0-100 value.
type Article struct {
	ID           int64          `json:"id,omitempty" db:"id"`
	EditionID    int64          `json:"editionId,omitempty" db:"edition_id"`
	Source       Source         `json:"source" db:"source"`
	Title        string         `json:"title" db:"title"`
	URL          string         `json:"url" db:"url"`
	ThumbnailURL *string        `json:"thumbnailUrl,omitempty" db:"thumbnail_url"`
	Excerpt      *string        `json:"excerpt,omitempty" db:"excerpt"`
	Score        float64        `json:"score" db:"score"`
	ExternalID   string         `json:"externalId" db:"external_id"`
	Metadata     map[string]any `json:"metadata,omitempty" db:"-"`
	CreatedAt    time.Time      `json:"createdAt,omitzero" db:"created_at"`
}

// Valid reports whether the article satisfies the invariants required for
// persistence.
func (a Article) Valid() bool {
	return a.ExternalID != "" && a.Score >= 0 && a.Title != "" && a.URL != ""
}
