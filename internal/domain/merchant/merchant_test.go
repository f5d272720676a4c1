package merchant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey_NormalizesCaseAndWhitespace(t *testing.T) {
	assert.Equal(t, "whole foods market", Key("  WHOLE   Foods\tMarket "))
	assert.Equal(t, "", Key("   "))
}

func TestAliasTable_Resolve(t *testing.T) {
	aliases := AliasTable{
		"netflix.com 844-505-2993": "Netflix",
	}

	key, display := aliases.Resolve("NETFLIX.COM  844-505-2993")
	assert.Equal(t, "netflix", key)
	assert.Equal(t, "Netflix", display)

	// Unknown merchants fall back to plain normalization.
	key, display = aliases.Resolve("  Corner Bakery ")
	assert.Equal(t, "corner bakery", key)
	assert.Equal(t, "Corner Bakery", display)
}

func TestAliasTable_NilTableIsSafe(t *testing.T) {
	var aliases AliasTable

	key, display := aliases.Resolve("Spotify AB")

	assert.Equal(t, "spotify ab", key)
	assert.Equal(t, "Spotify AB", display)
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		min  float64
		max  float64
	}{
		{"identical", "Netflix", "netflix", 1, 1},
		{"containment", "Whole Foods", "WHOLE FOODS MARKET #123", 1, 1},
		{"token overlap", "AMZN Amazon Prime", "Amazon Prime Video", 0.5, 1},
		{"typo", "Spotify AB", "Spotfy AB", 0.5, 1},
		{"unrelated", "Netflix", "Totally Different Vendor", 0, 0.49},
		{"empty", "", "Netflix", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Similarity(tt.a, tt.b)
			assert.GreaterOrEqual(t, got, tt.min)
			assert.LessOrEqual(t, got, tt.max)
		})
	}
}
