package models

// PendingGame is the durable record of a lobby that is still waiting for players
type PendingGame struct {
	GameType  Variant  `db:"game_type"`
	Players   []string `db:"players"`
	ChannelID string   `db:"channel_id"`
}

// Course is a minigolf course a match can be played on
type Course struct {
	Name     string `db:"name"`
	ImageURL string `db:"image_url"`
}
