package core

const (
	MoodHappy   Mood = "happy"
	MoodWorried Mood = "worried"
	MoodSad     Mood = "sad"
)

// Mood is the three-level classification of spending intensity relative to
// available funds.
type Mood string

// BaseMoneyCents picks the denominator for the mood percentage: the user's
// total account balance when positive, otherwise their declared monthly
// income, otherwise one cent. The floor is deliberate, not an accident: it
// keeps the division total.
func BaseMoneyCents(totalBalanceCents, monthlyIncomeCents int64) int64 {
	if totalBalanceCents > 0 {
		return totalBalanceCents
	}
	if monthlyIncomeCents > 0 {
		return monthlyIncomeCents
	}
	return 1
}

// PercentConsumed is expense over base, as a percentage.
func PercentConsumed(expenseCents, baseCents int64) float64 {
	return float64(expenseCents) / float64(baseCents) * 100
}

// MoodFor is a total step function over the consumed percentage:
// below 30% happy, 30% to below 60% worried, 60% and above sad.
func MoodFor(percent float64) Mood {
	switch {
	case percent >= 60:
		return MoodSad
	case percent >= 30:
		return MoodWorried
	default:
		return MoodHappy
	}
}
