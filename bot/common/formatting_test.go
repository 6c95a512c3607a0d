package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatBalance(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-2500, "-2,500"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatBalance(tt.in))
	}
}

func TestFormatOddsAndDelta(t *testing.T) {
	assert.Equal(t, "50.0%", FormatOdds(0.5))
	assert.Equal(t, "33.3%", FormatOdds(1.0/3))
	assert.Equal(t, "+10", FormatDelta(10))
	assert.Equal(t, "-10", FormatDelta(-10))
	assert.Equal(t, "0", FormatDelta(0))
}

func TestFormatDiscordTimestamp(t *testing.T) {
	ts := time.Unix(1700000000, 0)
	assert.Equal(t, "<t:1700000000:R>", FormatDiscordTimestamp(ts, "R"))
	assert.Equal(t, "<@42>", Mention("42"))
}
