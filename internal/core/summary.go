package core

// Derived read models produced by the aggregation side. None of these are
// ever stored; they are recomputed from the transaction set on every read.

// MonthlySummary is the income/expense partition of one calendar month.
type MonthlySummary struct {
	Income  Money
	Expense Money
}

// Net is income minus expense, in signed cents.
func (s MonthlySummary) Net() int64 {
	return s.Income.Cents - s.Expense.Cents
}

// CategorySummary is one row of the expense breakdown for a month.
type CategorySummary struct {
	CategoryID int64
	Name       string
	Icon       string
	Total      Money
	Count      int
	Percent    float64
}

// Invoice is a card's derived statement for one reference month.
type Invoice struct {
	Card   CreditCard
	Window StatementWindow
	Status CycleStatus
	Total  Money
}

// Dashboard is the month-at-a-glance read model.
type Dashboard struct {
	TotalBalance    int64 // signed cents across all accounts
	Summary         MonthlySummary
	PercentConsumed float64
	Mood            Mood
	Categories      []CategorySummary
}

// MonthlyReport is the detailed month read model.
type MonthlyReport struct {
	Month        int
	Year         int
	Summary      MonthlySummary
	Categories   []CategorySummary
	Transactions []Transaction
}
