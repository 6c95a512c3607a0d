package admin

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestPartitionForDelete(t *testing.T) {
	now := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	msgs := []*discordgo.Message{
		{ID: "1", Timestamp: now.Add(-time.Minute)},
		{ID: "2", Timestamp: now.Add(-13 * 24 * time.Hour)},
		{ID: "3", Timestamp: now.Add(-15 * 24 * time.Hour)},
	}

	bulk, single := partitionForDelete(msgs, now)
	assert.Equal(t, []string{"1", "2"}, bulk)
	assert.Equal(t, []string{"3"}, single)
}

func TestPartitionForDelete_SingleRecent(t *testing.T) {
	now := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	msgs := []*discordgo.Message{
		{ID: "1", Timestamp: now.Add(-time.Minute)},
		{ID: "2", Timestamp: now.Add(-20 * 24 * time.Hour)},
	}

	bulk, single := partitionForDelete(msgs, now)
	assert.Empty(t, bulk)
	assert.ElementsMatch(t, []string{"1", "2"}, single)

	bulk, single = partitionForDelete(nil, now)
	assert.Empty(t, bulk)
	assert.Empty(t, single)
}
