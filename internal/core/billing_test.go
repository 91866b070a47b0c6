package core

import "testing"

func TestStatementWindow(t *testing.T) {
	cases := []struct {
		name       string
		closingDay int
		month      int
		year       int
		wantStart  Date
		wantEnd    Date
	}{
		{"mid-month closing", 10, 11, 2025, NewDate(2025, 10, 10), NewDate(2025, 11, 9)},
		{"closing day 1 underflows to previous month", 1, 11, 2025, NewDate(2025, 10, 1), NewDate(2025, 10, 31)},
		{"closing day 31 against february", 31, 2, 2025, NewDate(2025, 1, 31), NewDate(2025, 3, 2)},
		{"closing day 31 against leap february", 31, 2, 2024, NewDate(2024, 1, 31), NewDate(2024, 3, 1)},
		{"closing day 31 against april", 31, 4, 2025, NewDate(2025, 3, 31), NewDate(2025, 4, 30)},
		{"january reference rolls start into previous year", 10, 1, 2025, NewDate(2024, 12, 10), NewDate(2025, 1, 9)},
		{"closing day 1 in january", 1, 1, 2025, NewDate(2024, 12, 1), NewDate(2024, 12, 31)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := Statement(tc.closingDay, tc.month, tc.year)
			if !w.Start.Equal(tc.wantStart.Time) {
				t.Errorf("start = %s, want %s", w.Start, tc.wantStart)
			}
			if !w.End.Equal(tc.wantEnd.Time) {
				t.Errorf("end = %s, want %s", w.End, tc.wantEnd)
			}
		})
	}
}

func TestStatementStatus(t *testing.T) {
	// Closing day 5, reference November: window Oct 5 - Nov 4.
	w := Statement(5, 11, 2025)

	cases := []struct {
		today Date
		want  CycleStatus
	}{
		{NewDate(2025, 11, 4), CycleOpen},
		{NewDate(2025, 11, 5), CycleClosed},
		{NewDate(2025, 11, 6), CycleClosed},
		{NewDate(2025, 10, 1), CycleOpen}, // before the window still reads open
	}
	for _, tc := range cases {
		if got := w.Status(tc.today); got != tc.want {
			t.Errorf("status(today=%s) = %s, want %s", tc.today, got, tc.want)
		}
	}
}

func TestStatementContains(t *testing.T) {
	w := Statement(10, 11, 2025) // Oct 10 - Nov 9

	cases := []struct {
		d    Date
		want bool
	}{
		{NewDate(2025, 10, 10), true},
		{NewDate(2025, 11, 9), true},
		{NewDate(2025, 10, 9), false},
		{NewDate(2025, 11, 10), false},
	}
	for _, tc := range cases {
		if got := w.Contains(tc.d); got != tc.want {
			t.Errorf("contains(%s) = %v, want %v", tc.d, got, tc.want)
		}
	}
}

func TestOpeningPurchaseDate(t *testing.T) {
	cases := []struct {
		name       string
		closingDay int
		today      Date
		want       Date
	}{
		{"cycle still open, dated today", 20, NewDate(2025, 11, 10), NewDate(2025, 11, 10)},
		{"on the closing day itself, dated today", 20, NewDate(2025, 11, 20), NewDate(2025, 11, 20)},
		{"cycle already closed, backdated before closing", 5, NewDate(2025, 11, 10), NewDate(2025, 11, 4)},
		{"closing day 31 in a short month", 31, NewDate(2025, 4, 15), NewDate(2025, 4, 15)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := OpeningPurchaseDate(tc.closingDay, tc.today)
			if !got.Equal(tc.want.Time) {
				t.Errorf("got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestMakeDateNormalization(t *testing.T) {
	cases := []struct {
		y, m, d int
		want    Date
	}{
		{2025, 11, 0, NewDate(2025, 10, 31)},
		{2025, 3, 0, NewDate(2025, 2, 28)},
		{2024, 3, 0, NewDate(2024, 2, 29)},
		{2025, 2, 30, NewDate(2025, 3, 2)},
		{2025, 0, 15, NewDate(2024, 12, 15)},
		{2025, 13, 15, NewDate(2026, 1, 15)},
		{2025, 1, -1, NewDate(2024, 12, 30)},
	}
	for _, tc := range cases {
		if got := makeDate(tc.y, tc.m, tc.d); !got.Equal(tc.want.Time) {
			t.Errorf("makeDate(%d, %d, %d) = %s, want %s", tc.y, tc.m, tc.d, got, tc.want)
		}
	}
}

func TestMonthRange(t *testing.T) {
	first, last := MonthRange(2025, 2)
	if first.String() != "2025-02-01" || last.String() != "2025-02-28" {
		t.Fatalf("got [%s, %s]", first, last)
	}
	first, last = MonthRange(2024, 2)
	if first.String() != "2024-02-01" || last.String() != "2024-02-29" {
		t.Fatalf("leap year: got [%s, %s]", first, last)
	}
}
