package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrendingScore(t *testing.T) {
	// Searches weigh 0.7, posts 0.3.
	assert.InDelta(t, 0.0, TrendingScore(0, 0), 1e-9)
	assert.InDelta(t, 0.7, TrendingScore(1, 0), 1e-9)
	assert.InDelta(t, 0.3, TrendingScore(0, 1), 1e-9)
	assert.InDelta(t, 10.0, TrendingScore(10, 10), 1e-9)
	assert.InDelta(t, 76.0, TrendingScore(100, 20), 1e-9)

	// A searched-for topic outranks a merely posted-about one.
	assert.Greater(t, TrendingScore(50, 0), TrendingScore(0, 50))
}

func TestNormalizeTopic(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"GoLang", "golang"},
		{"#sunset", "sunset"},
		{"#Travel  ", "travel"},
		{"coffee", "coffee"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeTopic(tt.in))
	}
}
