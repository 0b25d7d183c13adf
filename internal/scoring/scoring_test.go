package scoring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"edition_collector/internal/domain"
)

func scored(scores ...float64) []domain.Article {
	out := make([]domain.Article, len(scores))
	for i, s := range scores {
		out[i] = domain.Article{ExternalID: fmt.Sprintf("id-%d", i), Score: s}
	}
	return out
}

func scores(articles []domain.Article) []float64 {
	out := make([]float64, len(articles))
	for i, a := range articles {
		out[i] = a.Score
	}
	return out
}

func ids(articles []domain.Article) []string {
	out := make([]string, len(articles))
	for i, a := range articles {
		out[i] = a.ExternalID
	}
	return out
}

func TestNormalize_ClampsAboveMax(t *testing.T) {
	got := Normalize(scored(0, 250, 600), Range{Min: 0, Max: 500})

	assert.Equal(t, []float64{0, 50, 100}, scores(got))
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	in := scored(250)
	Normalize(in, Range{Min: 0, Max: 500})

	assert.Equal(t, float64(250), in[0].Score)
}

func TestNormalize_BoundsForEverySource(t *testing.T) {
	raws := []float64{0, 1, 3, 47, 499, 1999, 1e6, 5e9}
	for src, rng := range DefaultRanges {
		for _, raw := range raws {
			v := rng.Scale(raw)
			assert.GreaterOrEqual(t, v, float64(0), "source %s raw %v", src, raw)
			assert.LessOrEqual(t, v, float64(100), "source %s raw %v", src, raw)
		}
	}
	assert.Len(t, DefaultRanges, len(domain.AllSources))
}

func TestScale_AtOrBelowMinIsZero(t *testing.T) {
	rng := Range{Min: 10, Max: 110}

	assert.Equal(t, float64(0), rng.Scale(10))
	assert.Equal(t, float64(0), rng.Scale(3))
	assert.Equal(t, float64(50), rng.Scale(60))
}

func TestScale_Rounds(t *testing.T) {
	rng := Range{Min: 0, Max: 3}

	assert.Equal(t, float64(33), rng.Scale(1))
	assert.Equal(t, float64(67), rng.Scale(2))
}

func TestScale_DegenerateRange(t *testing.T) {
	rng := Range{Min: 5, Max: 5}

	assert.Equal(t, float64(0), rng.Scale(5))
	assert.Equal(t, float64(100), rng.Scale(6))
}

func TestTopK_SortsDescendingStable(t *testing.T) {
	in := scored(10, 50, 30, 50, 10)

	got := TopK(in, 3)

	assert.Equal(t, []string{"id-1", "id-3", "id-2"}, ids(got))
}

func TestTopK_Deterministic(t *testing.T) {
	in := scored(5, 5, 5, 9, 1, 5)

	first := TopK(in, 4)
	for range 10 {
		assert.Equal(t, ids(first), ids(TopK(in, 4)))
	}
	assert.Equal(t, []string{"id-3", "id-0", "id-1", "id-2"}, ids(first))
}

func TestTopK_Bounds(t *testing.T) {
	in := scored(1, 2)

	assert.Len(t, TopK(in, 5), 2)
	assert.Empty(t, TopK(in, 0))
	assert.Empty(t, TopK(nil, 3))
	assert.Equal(t, []string{"id-0", "id-1"}, ids(in))
}
