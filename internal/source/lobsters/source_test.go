package lobsters

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
		assert.Equal(t, "/hottest.json", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"short_id":"abc123","title":"Linkers explained","url":"https://example.com/linkers","score":42,"comment_count":7,"comments_url":"https://lobste.rs/s/abc123","tags":["compilers"]},
			{"short_id":"def456","title":"Ask: editors","url":"","score":12,"comment_count":30,"comments_url":"https://lobste.rs/s/def456","description_plain":"Which one?"}
		]`))
	}))
	defer srv.Close()

	def := Definition(source.Settings{BaseURL: srv.URL, Limit: 5}, source.NewClient(time.Second))
	articles, err := def.Fetch(context.Background(), source.Request{Limit: 5})

	require.NoError(t, err)
	require.Len(t, articles, 2)
	assert.Equal(t, "abc123", articles[0].ExternalID)
	assert.Equal(t, float64(42), articles[0].Score)
	assert.Equal(t, []string{"compilers"}, articles[0].Metadata["tags"])
	assert.Equal(t, "https://lobste.rs/s/def456", articles[1].URL)
	assert.Equal(t, "Which one?", *articles[1].Excerpt)
}
