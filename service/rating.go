package service

import (
	"fmt"
	"math"

	"puttbot/models"
)

// ExpectedScore is the Elo probability that a player rated a beats one rated b
func ExpectedScore(a, b float64) float64 {
	return 1 / (1 + math.Pow(10, (b-a)/400))
}

// WinProbabilities returns the win probability of every outcome of a match,
// in the order of variant.Choices(). Ratings are in seat order.
func WinProbabilities(variant models.Variant, ratings []int64) ([]float64, error) {
	if len(ratings) != variant.Capacity() {
		return nil, fmt.Errorf("%w: %s needs %d ratings, got %d", ErrInvalidInput, variant, variant.Capacity(), len(ratings))
	}

	switch variant {
	case models.VariantSingles:
		p := ExpectedScore(float64(ratings[0]), float64(ratings[1]))
		return []float64{p, 1 - p}, nil

	case models.VariantDoubles:
		teamA := float64(ratings[0]+ratings[1]) / 2
		teamB := float64(ratings[2]+ratings[3]) / 2
		p := ExpectedScore(teamA, teamB)
		return []float64{p, 1 - p}, nil

	case models.VariantTriples:
		// shift by the max rating so large ratings cannot overflow
		maxRating := float64(ratings[0])
		for _, r := range ratings[1:] {
			maxRating = math.Max(maxRating, float64(r))
		}
		weights := make([]float64, len(ratings))
		var total float64
		for i, r := range ratings {
			weights[i] = math.Pow(10, (float64(r)-maxRating)/400)
			total += weights[i]
		}
		for i := range weights {
			weights[i] /= total
		}
		return weights, nil
	}

	return nil, fmt.Errorf("%w: unknown variant %q", ErrInvalidInput, variant)
}

// OddsFor returns the win probability of a single outcome label
func OddsFor(variant models.Variant, ratings []int64, choice string) (float64, error) {
	probs, err := WinProbabilities(variant, ratings)
	if err != nil {
		return 0, err
	}
	for i, c := range variant.Choices() {
		if c == choice {
			return probs[i], nil
		}
	}
	return 0, fmt.Errorf("%w: %q is not an outcome of %s", ErrInvalidInput, choice, variant)
}

// Payout is what a winning bet of amount at the given odds returns, stake included
func Payout(amount int64, odds float64) int64 {
	if odds <= 0 {
		return amount
	}
	return int64(math.Floor(float64(amount) / odds))
}

// RatingPolicy decides how much a player's rank moves after a decisive match
type RatingPolicy interface {
	Name() string
	// Delta returns the rank change for a player rated own who met an
	// opponent (or opposing side average) rated opponent. won is the result.
	Delta(own, opponent float64, won bool) int64
}

// FlatPolicy moves every winner up and every loser down by the same step
type FlatPolicy struct {
	Step int64
}

func (p FlatPolicy) Name() string { return "flat" }

func (p FlatPolicy) Delta(_, _ float64, won bool) int64 {
	if won {
		return p.Step
	}
	return -p.Step
}

// EloPolicy scales the change by how unexpected the result was
type EloPolicy struct {
	K float64
}

func (p EloPolicy) Name() string { return "elo" }

func (p EloPolicy) Delta(own, opponent float64, won bool) int64 {
	score := 0.0
	if won {
		score = 1
	}
	return int64(math.Round(p.K * (score - ExpectedScore(own, opponent))))
}

// NewRatingPolicy returns the policy selected by name
func NewRatingPolicy(name string, step int64, k float64) (RatingPolicy, error) {
	switch name {
	case "", "flat":
		return FlatPolicy{Step: step}, nil
	case "elo":
		return EloPolicy{K: k}, nil
	}
	return nil, fmt.Errorf("unknown rating policy %q", name)
}

// ApplyResult updates the seated players' records for a match result and
// returns the per-player changes. A result with no votes changes nothing.
func ApplyResult(policy RatingPolicy, variant models.Variant, players []*models.Player, result models.Result) []models.PlayerChange {
	switch result.Kind {
	case models.ResultDraw:
		changes := make([]models.PlayerChange, 0, len(players))
		for _, p := range players {
			p.Draws++
			p.GamesPlayed++
			p.CurrentStreak = 0
			changes = append(changes, models.PlayerChange{PlayerID: p.ID, Draw: true, NewRank: p.Rank})
		}
		return changes

	case models.ResultWin:
		winnerSeats := map[int]bool{}
		for _, seat := range variant.SeatsFor(result.Choice) {
			winnerSeats[seat] = true
		}

		var winnerSum, loserSum float64
		var winnerCount, loserCount int
		for i, p := range players {
			if winnerSeats[i] {
				winnerSum += float64(p.Rank)
				winnerCount++
			} else {
				loserSum += float64(p.Rank)
				loserCount++
			}
		}
		winnerMean, loserMean := mean(winnerSum, winnerCount), mean(loserSum, loserCount)

		changes := make([]models.PlayerChange, 0, len(players))
		for i, p := range players {
			p.GamesPlayed++
			won := winnerSeats[i]
			var delta int64
			if won {
				delta = policy.Delta(float64(p.Rank), loserMean, true)
				p.Trophies++
				p.Wins++
				p.CurrentStreak++
				if p.CurrentStreak > p.BestStreak {
					p.BestStreak = p.CurrentStreak
				}
			} else {
				delta = policy.Delta(float64(p.Rank), winnerMean, false)
				p.Losses++
				p.CurrentStreak = 0
			}
			p.Rank += delta
			changes = append(changes, models.PlayerChange{PlayerID: p.ID, Won: won, RankDelta: delta, NewRank: p.Rank})
		}
		return changes
	}
	return nil
}

func mean(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
