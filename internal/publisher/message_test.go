package publisher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"edition_collector/internal/domain"
)

func TestNewMessage(t *testing.T) {
	at := time.Date(2026, 2, 7, 17, 0, 3, 0, time.FixedZone("JST", 9*3600))
	edition := &domain.Edition{ID: 7, Type: domain.EditionEvening, Date: "2026-02-07", PublishedAt: &at}

	msg := newMessage(edition, map[domain.Source]int{domain.SourceGitHub: 5, domain.SourceYouTube: 3})

	assert.Equal(t, int64(7), msg.EditionID)
	assert.Equal(t, domain.EditionEvening, msg.Type)
	assert.Equal(t, 8, msg.ArticleCount)
	assert.Equal(t, time.UTC, msg.PublishedAt.Location())
	assert.True(t, at.Equal(msg.PublishedAt))
}

func TestNewMessage_Empty(t *testing.T) {
	msg := newMessage(&domain.Edition{ID: 1, Type: domain.EditionMorning, Date: "2026-02-07"}, map[domain.Source]int{})

	assert.Zero(t, msg.ArticleCount)
	assert.True(t, msg.PublishedAt.IsZero())
}
