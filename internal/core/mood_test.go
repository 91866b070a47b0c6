package core

import "testing"

func TestMoodForBoundaries(t *testing.T) {
	cases := []struct {
		percent float64
		want    Mood
	}{
		{0, MoodHappy},
		{29.99, MoodHappy},
		{30.00, MoodWorried},
		{45, MoodWorried},
		{59.99, MoodWorried},
		{60.00, MoodSad},
		{150, MoodSad},
	}
	for _, tc := range cases {
		if got := MoodFor(tc.percent); got != tc.want {
			t.Errorf("MoodFor(%.2f) = %s, want %s", tc.percent, got, tc.want)
		}
	}
}

func TestMoodMonotonic(t *testing.T) {
	severity := map[Mood]int{MoodHappy: 0, MoodWorried: 1, MoodSad: 2}
	prev := MoodHappy
	for p := 0.0; p <= 120; p += 0.25 {
		cur := MoodFor(p)
		if severity[cur] < severity[prev] {
			t.Fatalf("mood regressed from %s to %s at %.2f%%", prev, cur, p)
		}
		prev = cur
	}
}

func TestBaseMoneyCents(t *testing.T) {
	cases := []struct {
		balance, income, want int64
	}{
		{10000, 5000, 10000}, // positive balance wins
		{0, 5000, 5000},      // fall back to declared income
		{-200, 5000, 5000},   // negative balance is not a base
		{0, 0, 1},            // explicit floor, never divide by zero
	}
	for _, tc := range cases {
		if got := BaseMoneyCents(tc.balance, tc.income); got != tc.want {
			t.Errorf("BaseMoneyCents(%d, %d) = %d, want %d", tc.balance, tc.income, got, tc.want)
		}
	}
}

func TestPercentConsumed(t *testing.T) {
	if got := PercentConsumed(3000, 10000); got != 30 {
		t.Fatalf("got %.2f, want 30", got)
	}
	if got := PercentConsumed(0, 1); got != 0 {
		t.Fatalf("got %.2f, want 0", got)
	}
}
