package http

import (
	"time"

	"grana/internal/core"
)

// Wire shapes of the JSON API. Amounts always travel as cents plus a
// pre-formatted string, so clients never re-implement currency formatting.

type moneyJSON struct {
	Cents     int64  `json:"cents"`
	Formatted string `json:"formatted"`
}

func money(cents int64) moneyJSON {
	return moneyJSON{Cents: cents, Formatted: core.FormatCents(cents)}
}

type userJSON struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	MonthlyIncome moneyJSON `json:"monthly_income"`
	CreatedAt     time.Time `json:"created_at"`
}

func toUserJSON(u *core.User) userJSON {
	return userJSON{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		MonthlyIncome: money(u.MonthlyIncomeCents),
		CreatedAt:     u.CreatedAt,
	}
}

type accountJSON struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Balance   moneyJSON `json:"balance"`
	Protected bool      `json:"protected"`
	CreatedAt time.Time `json:"created_at"`
}

func toAccountJSON(a core.Account) accountJSON {
	return accountJSON{
		ID:        a.ID,
		Name:      a.Name,
		Balance:   money(a.Balance.Cents),
		Protected: a.Protected,
		CreatedAt: a.CreatedAt,
	}
}

type cardJSON struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	ClosingDay int       `json:"closing_day"`
	CreatedAt  time.Time `json:"created_at"`
}

func toCardJSON(c core.CreditCard) cardJSON {
	return cardJSON{ID: c.ID, Name: c.Name, ClosingDay: c.ClosingDay, CreatedAt: c.CreatedAt}
}

type categoryJSON struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
	Kind string `json:"kind"`
}

func toCategoryJSON(c core.Category) categoryJSON {
	return categoryJSON{ID: c.ID, Name: c.Name, Icon: c.Icon, Kind: string(c.Kind)}
}

type originJSON struct {
	Kind string `json:"kind"`
	ID   int64  `json:"id"`
}

type transactionJSON struct {
	ID                int64      `json:"id"`
	Description       string     `json:"description"`
	Amount            moneyJSON  `json:"amount"`
	Kind              string     `json:"kind"`
	Date              string     `json:"date"`
	Origin            originJSON `json:"origin"`
	CategoryID        int64      `json:"category_id,omitempty"`
	Recurring         bool       `json:"recurring"`
	RecurringSourceID int64      `json:"recurring_source_id,omitempty"`
	AttachmentRef     string     `json:"attachment_ref,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

func toTransactionJSON(t core.Transaction) transactionJSON {
	return transactionJSON{
		ID:                t.ID,
		Description:       t.Description,
		Amount:            money(t.Amount.Cents),
		Kind:              string(t.Kind),
		Date:              t.Date.String(),
		Origin:            originJSON{Kind: string(t.Origin.Kind), ID: t.Origin.ID},
		CategoryID:        t.CategoryID,
		Recurring:         t.Recurring,
		RecurringSourceID: t.RecurringSourceID,
		AttachmentRef:     t.AttachmentRef,
		CreatedAt:         t.CreatedAt,
	}
}

func toTransactionsJSON(txs []core.Transaction) []transactionJSON {
	out := make([]transactionJSON, 0, len(txs))
	for _, t := range txs {
		out = append(out, toTransactionJSON(t))
	}
	return out
}

type categorySummaryJSON struct {
	CategoryID int64     `json:"category_id"`
	Name       string    `json:"name"`
	Icon       string    `json:"icon"`
	Total      moneyJSON `json:"total"`
	Count      int       `json:"count"`
	Percent    float64   `json:"percent"`
}

func toCategorySummariesJSON(sums []core.CategorySummary) []categorySummaryJSON {
	out := make([]categorySummaryJSON, 0, len(sums))
	for _, s := range sums {
		out = append(out, categorySummaryJSON{
			CategoryID: s.CategoryID,
			Name:       s.Name,
			Icon:       s.Icon,
			Total:      money(s.Total.Cents),
			Count:      s.Count,
			Percent:    s.Percent,
		})
	}
	return out
}

type summaryJSON struct {
	Income  moneyJSON `json:"income"`
	Expense moneyJSON `json:"expense"`
	Net     moneyJSON `json:"net"`
}

func toSummaryJSON(s core.MonthlySummary) summaryJSON {
	return summaryJSON{
		Income:  money(s.Income.Cents),
		Expense: money(s.Expense.Cents),
		Net:     money(s.Net()),
	}
}

type dashboardJSON struct {
	TotalBalance    moneyJSON             `json:"total_balance"`
	Summary         summaryJSON           `json:"summary"`
	PercentConsumed float64               `json:"percent_consumed"`
	Mood            string                `json:"mood"`
	Categories      []categorySummaryJSON `json:"categories"`
}

type invoiceJSON struct {
	Card   cardJSON  `json:"card"`
	Start  string    `json:"start"`
	End    string    `json:"end"`
	Status string    `json:"status"`
	Total  moneyJSON `json:"total"`
}

func toInvoiceJSON(inv core.Invoice) invoiceJSON {
	return invoiceJSON{
		Card:   toCardJSON(inv.Card),
		Start:  inv.Window.Start.String(),
		End:    inv.Window.End.String(),
		Status: string(inv.Status),
		Total:  money(inv.Total.Cents),
	}
}
