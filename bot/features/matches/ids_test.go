package matches

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCustomIDRoundTrip(t *testing.T) {
	id := customID(actionBetModal, "1234567890", "A")
	assert.Equal(t, "match_betmodal_1234567890_A", id)

	action, args, ok := parseCustomID(id)
	assert.True(t, ok)
	assert.Equal(t, actionBetModal, action)
	assert.Equal(t, []string{"1234567890", "A"}, args)
}

func TestParseCustomID_Rejects(t *testing.T) {
	for _, id := range []string{"", "match", "match_join", "stats_lb_1", "match_join_", "match__1"} {
		_, _, ok := parseCustomID(id)
		assert.False(t, ok, id)
	}
}
