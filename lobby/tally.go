package lobby

import (
	"sort"

	"puttbot/models"
)

// Tally decides a match from the participants' votes. No votes is no result;
// a tie between the two most voted choices is a draw; otherwise the plurality wins.
func Tally(votes map[string]string) models.Result {
	counts := make(map[string]int)
	for _, choice := range votes {
		counts[choice]++
	}
	if len(counts) == 0 {
		return models.Result{Kind: models.ResultNone}
	}

	choices := make([]string, 0, len(counts))
	for c := range counts {
		choices = append(choices, c)
	}
	sort.Slice(choices, func(i, j int) bool {
		if counts[choices[i]] == counts[choices[j]] {
			return choices[i] < choices[j]
		}
		return counts[choices[i]] > counts[choices[j]]
	})

	if len(choices) > 1 && counts[choices[0]] == counts[choices[1]] {
		return models.Result{Kind: models.ResultDraw}
	}
	return models.Result{Kind: models.ResultWin, Choice: choices[0]}
}
