package bluesky

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edition_collector/internal/source"
)

func TestDefinition_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/xrpc/app.bsky.feed.searchPosts", r.URL.Path)
		assert.Equal(t, "golang", r.URL.Query().Get("q"))
		assert.Equal(t, "top", r.URL.Query().Get("sort"))
		assert.Equal(t, "Bearer bsky-token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"posts":[
			{"uri":"at://did:plc:abc/app.bsky.feed.post/3kxyz","cid":"c1","author":{"handle":"gopher.bsky.social","displayName":"Gopher"},
			 "record":{"text":"Generics are great\nsecond line"},"likeCount":120,"repostCount":30,"replyCount":4,
			 "embed":{"external":{"uri":"https://go.dev","title":"Go","thumb":"https://cdn.bsky.app/thumb.jpg"}}},
			{"uri":"at://did:plc:def/app.bsky.feed.post/3kabc","author":{"handle":"img.bsky.social"},
			 "record":{"text":"Look"},"likeCount":5,"embed":{"images":[{"thumb":"https://cdn.bsky.app/img.jpg","fullsize":"https://cdn.bsky.app/full.jpg"}]}}
		]}`))
	}))
	defer srv.Close()

	def := Definition(Config{Settings: source.Settings{BaseURL: srv.URL, Limit: 3}, Query: "golang"}, source.NewClient(time.Second))
	articles, err := def.Fetch(context.Background(), source.Request{Limit: 3, Credential: "bsky-token"})

	require.NoError(t, err)
	require.Len(t, articles, 2)

	assert.True(t, def.RequiresCredential)
	assert.Equal(t, "Generics are great", articles[0].Title)
	assert.Equal(t, "https://bsky.app/profile/gopher.bsky.social/post/3kxyz", articles[0].URL)
	assert.Equal(t, float64(150), articles[0].Score)
	assert.Equal(t, "https://cdn.bsky.app/thumb.jpg", *articles[0].ThumbnailURL)
	assert.Equal(t, "at://did:plc:abc/app.bsky.feed.post/3kxyz", articles[0].ExternalID)
	assert.Equal(t, "https://cdn.bsky.app/img.jpg", *articles[1].ThumbnailURL)
}
