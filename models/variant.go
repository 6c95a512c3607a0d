package models

import "fmt"

// Variant is the match format of a lobby
type Variant string

const (
	VariantSingles Variant = "singles"
	VariantDoubles Variant = "doubles"
	VariantTriples Variant = "triples"
)

// Variants lists every supported variant
var Variants = []Variant{VariantSingles, VariantDoubles, VariantTriples}

// ParseVariant validates a variant name
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(s); v {
	case VariantSingles, VariantDoubles, VariantTriples:
		return v, nil
	}
	return "", fmt.Errorf("unknown variant %q", s)
}

// Capacity returns the number of players needed to lock a lobby in
func (v Variant) Capacity() int {
	switch v {
	case VariantSingles:
		return 2
	case VariantDoubles:
		return 4
	case VariantTriples:
		return 3
	}
	return 0
}

// IsTeam reports whether outcomes are decided per team rather than per player
func (v Variant) IsTeam() bool {
	return v == VariantDoubles
}

// Choices returns the outcome labels bettors and voters pick from.
// "1".."3" refer to players by seat, "A" and "B" to doubles teams.
func (v Variant) Choices() []string {
	switch v {
	case VariantSingles:
		return []string{"1", "2"}
	case VariantDoubles:
		return []string{TeamA, TeamB}
	case VariantTriples:
		return []string{"1", "2", "3"}
	}
	return nil
}

// IsChoice reports whether c is a valid outcome label for the variant
func (v Variant) IsChoice(c string) bool {
	for _, choice := range v.Choices() {
		if choice == c {
			return true
		}
	}
	return false
}

// Title returns the human readable name, e.g. "Singles"
func (v Variant) Title() string {
	switch v {
	case VariantSingles:
		return "Singles"
	case VariantDoubles:
		return "Doubles"
	case VariantTriples:
		return "Triples"
	}
	return string(v)
}

const (
	TeamA = "A"
	TeamB = "B"
)

// SeatsFor returns the seat indexes a choice stands for
func (v Variant) SeatsFor(choice string) []int {
	if v.IsTeam() {
		switch choice {
		case TeamA:
			return []int{0, 1}
		case TeamB:
			return []int{2, 3}
		}
		return nil
	}
	if !v.IsChoice(choice) {
		return nil
	}
	return []int{int(choice[0] - '1')}
}

// ChoiceForSeat returns the outcome label a seated player votes or is bet on as
func (v Variant) ChoiceForSeat(seat int) string {
	if v.IsTeam() {
		if seat < 2 {
			return TeamA
		}
		return TeamB
	}
	return fmt.Sprintf("%d", seat+1)
}
