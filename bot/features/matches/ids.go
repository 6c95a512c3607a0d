package matches

import "strings"

// Custom IDs have the form match_<action>_<arg>[_<arg>...]. Lobby ids are
// message snowflakes and choices are "1".."3", "A" or "B", so "_" never
// appears inside an argument.
const (
	idPrefix = "match"

	actionStart    = "start"
	actionJoin     = "join"
	actionLeave    = "leave"
	actionBet      = "bet"
	actionBetModal = "betmodal"
	actionEnd      = "end"
	actionVote     = "vote"

	amountInputID = "bet_amount"
)

// Prefix is how the bot routes component and modal interactions to this feature
const Prefix = idPrefix + "_"

func customID(action string, args ...string) string {
	return strings.Join(append([]string{idPrefix, action}, args...), "_")
}

func parseCustomID(id string) (action string, args []string, ok bool) {
	parts := strings.Split(id, "_")
	if len(parts) < 3 || parts[0] != idPrefix {
		return "", nil, false
	}
	for _, p := range parts[1:] {
		if p == "" {
			return "", nil, false
		}
	}
	return parts[1], parts[2:], true
}
