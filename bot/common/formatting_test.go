package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatGems(t *testing.T) {
	tests := []struct {
		amount   int64
		expected string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-2500, "-2,500"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatGems(tt.amount))
		})
	}
}

func TestFormatSignedGems(t *testing.T) {
	assert.Equal(t, "+1,500", FormatSignedGems(1500))
	assert.Equal(t, "-20", FormatSignedGems(-20))
	assert.Equal(t, "0", FormatSignedGems(0))
}

func TestFormatMultiplier(t *testing.T) {
	assert.Equal(t, "2.5x", FormatMultiplier(2.5))
	assert.Equal(t, "100x", FormatMultiplier(100))
	assert.Equal(t, "0.3x", FormatMultiplier(0.3))
}

func TestFormatDiscordTimestamp(t *testing.T) {
	at := time.Unix(1700000000, 0)
	assert.Equal(t, "<t:1700000000:R>", FormatDiscordTimestamp(at, "R"))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0s", FormatDuration(-time.Second))
	assert.Equal(t, "45s", FormatDuration(45*time.Second))
	assert.Equal(t, "4m 05s", FormatDuration(4*time.Minute+5*time.Second))
	assert.Equal(t, "1s", FormatDuration(700*time.Millisecond))
}

func TestParseCustomID(t *testing.T) {
	id := CustomID("bj", "hit", "abc-123")
	assert.Equal(t, "bj_hit_abc-123", id)

	parts, ok := ParseCustomID(id, "bj", 3)
	assert.True(t, ok)
	assert.Equal(t, []string{"bj", "hit", "abc-123"}, parts)

	_, ok = ParseCustomID(id, "mines", 3)
	assert.False(t, ok, "wrong prefix")

	_, ok = ParseCustomID(id, "bj", 4)
	assert.False(t, ok, "wrong part count")
}
