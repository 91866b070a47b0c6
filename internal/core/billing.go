package core

// Billing-cycle calculator. Everything here is a pure function of its
// arguments: a card's closing day, the statement's reference month/year and
// the caller-supplied "today". No clock access, no state.

const (
	CycleOpen   CycleStatus = "open"
	CycleClosed CycleStatus = "closed"
)

type (
	CycleStatus string

	// StatementWindow is the inclusive [Start, End] date range of one
	// credit-card billing cycle.
	StatementWindow struct {
		Start Date
		End   Date
	}
)

// daysIn returns the number of days in the given month/year.
func daysIn(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	default:
		if year%4 == 0 && (year%100 != 0 || year%400 == 0) {
			return 29
		}
		return 28
	}
}

// makeDate normalizes out-of-range month and day values into the adjacent
// months the way conventional calendars (and the usual date libraries) do:
// month 0 is December of the previous year, day 0 is the last day of the
// previous month, and a day beyond the month's length rolls forward. The
// rollover is spelled out here instead of leaning on time.Date so the
// statement arithmetic has one documented behavior.
func makeDate(year, month, day int) Date {
	for month < 1 {
		month += 12
		year--
	}
	for month > 12 {
		month -= 12
		year++
	}
	for day < 1 {
		month--
		if month < 1 {
			month = 12
			year--
		}
		day += daysIn(year, month)
	}
	for day > daysIn(year, month) {
		day -= daysIn(year, month)
		month++
		if month > 12 {
			month = 1
			year++
		}
	}
	return NewDate(year, month, day)
}

// Statement maps a closing day and a reference month/year to the statement
// window: purchases from closing day of the previous month through the day
// before closing day of the reference month belong to the statement.
func Statement(closingDay, month, year int) StatementWindow {
	return StatementWindow{
		Start: makeDate(year, month-1, closingDay),
		End:   makeDate(year, month, closingDay-1),
	}
}

// Status reports whether the statement is still accumulating purchases.
// Open while today has not passed the window's end; no grace period.
func (w StatementWindow) Status(today Date) CycleStatus {
	if today.After(w.End.Time) {
		return CycleClosed
	}
	return CycleOpen
}

// Contains reports whether d falls inside the window, bounds included.
func (w StatementWindow) Contains(d Date) bool {
	return !d.Before(w.Start.Time) && !d.After(w.End.Time)
}

// OpeningPurchaseDate decides which statement a card's opening amount lands
// in at card-creation time. If the current cycle already closed this month,
// the synthetic transaction is backdated to the day before this month's
// closing so it falls inside the statement the user means; otherwise it is
// dated today.
func OpeningPurchaseDate(closingDay int, today Date) Date {
	thisMonthClosing := makeDate(today.Year(), int(today.Month()), closingDay)
	if today.After(thisMonthClosing.Time) {
		return thisMonthClosing.AddDays(-1)
	}
	return today
}

// MonthRange returns the first and last day of a calendar month.
func MonthRange(year, month int) (Date, Date) {
	return NewDate(year, month, 1), NewDate(year, month, daysIn(year, month))
}
