package services

import (
	"context"
	"fmt"
	"time"

	"grana/internal/core"
	"grana/internal/storage"
)

// Reports is the aggregation side: dashboards, monthly reports and card
// invoices, all recomputed from the transaction set on every call. The
// clock is injected so statement status is testable.
type Reports struct {
	storage *storage.Repository
	now     func() time.Time
}

func NewReports(storage *storage.Repository) *Reports {
	return &Reports{storage: storage, now: time.Now}
}

// Dashboard assembles the month-at-a-glance view: total balance, monthly
// totals, spending mood and the expense breakdown by category.
func (r *Reports) Dashboard(ctx context.Context, userID int64, year, month int) (*core.Dashboard, error) {
	if err := validatePeriod(year, month); err != nil {
		return nil, err
	}

	user, err := r.storage.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	balance, err := r.storage.TotalBalanceCents(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary, err := r.storage.MonthlyTotals(ctx, userID, year, month)
	if err != nil {
		return nil, err
	}
	categories, err := r.categorySums(ctx, userID, year, month, summary.Expense.Cents)
	if err != nil {
		return nil, err
	}

	base := core.BaseMoneyCents(balance, user.MonthlyIncomeCents)
	percent := core.PercentConsumed(summary.Expense.Cents, base)

	return &core.Dashboard{
		TotalBalance:    balance,
		Summary:         summary,
		PercentConsumed: percent,
		Mood:            core.MoodFor(percent),
		Categories:      categories,
	}, nil
}

// MonthlyReport is the dashboard plus the month's full transaction list.
func (r *Reports) MonthlyReport(ctx context.Context, userID int64, year, month int) (*core.MonthlyReport, error) {
	if err := validatePeriod(year, month); err != nil {
		return nil, err
	}

	summary, err := r.storage.MonthlyTotals(ctx, userID, year, month)
	if err != nil {
		return nil, err
	}
	categories, err := r.categorySums(ctx, userID, year, month, summary.Expense.Cents)
	if err != nil {
		return nil, err
	}
	transactions, err := r.storage.ListTransactions(ctx, userID, year, month)
	if err != nil {
		return nil, err
	}

	return &core.MonthlyReport{
		Month:        month,
		Year:         year,
		Summary:      summary,
		Categories:   categories,
		Transactions: transactions,
	}, nil
}

// CardInvoices derives the statement of every card for the reference month.
func (r *Reports) CardInvoices(ctx context.Context, userID int64, year, month int) ([]core.Invoice, error) {
	if err := validatePeriod(year, month); err != nil {
		return nil, err
	}

	cards, err := r.storage.ListCards(ctx, userID)
	if err != nil {
		return nil, err
	}

	today := core.Today(r.now())
	invoices := make([]core.Invoice, 0, len(cards))
	for _, card := range cards {
		window := core.Statement(card.ClosingDay, month, year)
		total, err := r.storage.SumCardWindow(ctx, userID, card.ID, window)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, core.Invoice{
			Card:   card,
			Window: window,
			Status: window.Status(today),
			Total:  core.Money{Cents: total},
		})
	}
	return invoices, nil
}

// CardInvoice derives one card's statement plus its transaction list.
func (r *Reports) CardInvoice(ctx context.Context, userID, cardID int64, year, month int) (*core.Invoice, []core.Transaction, error) {
	if err := validatePeriod(year, month); err != nil {
		return nil, nil, err
	}

	card, err := r.storage.GetCard(ctx, userID, cardID)
	if err != nil {
		return nil, nil, err
	}

	window := core.Statement(card.ClosingDay, month, year)
	total, err := r.storage.SumCardWindow(ctx, userID, cardID, window)
	if err != nil {
		return nil, nil, err
	}
	transactions, err := r.storage.ListCardWindow(ctx, userID, cardID, window)
	if err != nil {
		return nil, nil, err
	}

	invoice := &core.Invoice{
		Card:   *card,
		Window: window,
		Status: window.Status(core.Today(r.now())),
		Total:  core.Money{Cents: total},
	}
	return invoice, transactions, nil
}

func (r *Reports) categorySums(ctx context.Context, userID int64, year, month int, totalExpenseCents int64) ([]core.CategorySummary, error) {
	sums, err := r.storage.CategorySums(ctx, userID, year, month)
	if err != nil {
		return nil, err
	}
	if totalExpenseCents > 0 {
		for i := range sums {
			sums[i].Percent = float64(sums[i].Total.Cents) / float64(totalExpenseCents) * 100
		}
	}
	return sums, nil
}

func validatePeriod(year, month int) error {
	if year < 1 || month < 1 || month > 12 {
		return fmt.Errorf("year %d month %d: %w", year, month, core.ErrMissingPeriod)
	}
	return nil
}
