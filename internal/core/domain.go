package core

import (
	"fmt"
	"strings"
	"time"
)

const (
	Income  TxKind = "income"
	Expense TxKind = "expense"
)

const (
	OriginAccount OriginKind = "account"
	OriginCard    OriginKind = "credit_card"
)

type (
	TxKind     string
	OriginKind string

	// Date is a calendar day with no time-of-day component. All dates are
	// normalized to midnight UTC so comparisons are pure day comparisons.
	Date struct {
		time.Time
	}

	// Origin is the account or credit card a transaction is charged
	// against. Exactly one of the two kinds is set; every branch on an
	// Origin switches exhaustively on Kind.
	Origin struct {
		Kind OriginKind
		ID   int64
	}

	User struct {
		ID                 int64
		Name               string
		Email              string
		PasswordHash       string
		MonthlyIncomeCents int64
		CreatedAt          time.Time
	}

	// Account is a cash or bank holding. Balance is mutated only by the
	// ledger; the protected wallet created at registration can never be
	// renamed or deleted.
	Account struct {
		ID        int64
		UserID    int64
		Name      string
		Balance   Money
		Protected bool
		CreatedAt time.Time
	}

	// CreditCard carries no stored balance; the outstanding amount of any
	// statement is always derived from transactions.
	CreditCard struct {
		ID         int64
		UserID     int64
		Name       string
		ClosingDay int
		CreatedAt  time.Time
	}

	Category struct {
		ID     int64
		UserID int64
		Name   string
		Icon   string
		Kind   TxKind
	}

	// Transaction is the atomic financial event. Amount is always a
	// non-negative magnitude; direction is carried by Kind.
	Transaction struct {
		ID                 int64
		UserID             int64
		CategoryID         int64 // 0 = uncategorized
		Description        string
		Amount             Money
		Kind               TxKind
		Date               Date
		Origin             Origin
		Recurring          bool
		RecurringSourceID  int64 // 0 unless materialized from a recurring transaction
		AttachmentRef      string
		CreatedAt          time.Time
	}
)

// TransactionUpdate is a partial change to an existing transaction. Nil
// fields are left alone. Amount, kind and origin may be present only when
// they match the stored value; the ledger refuses to rewrite them.
type TransactionUpdate struct {
	Description *string
	CategoryID  *int64
	Date        *Date
	Recurring   *bool
	AmountCents *int64
	Kind        *TxKind
	Origin      *Origin
}

// AccountRef builds an account-kind origin.
func AccountRef(id int64) Origin { return Origin{Kind: OriginAccount, ID: id} }

// CardRef builds a credit-card-kind origin.
func CardRef(id int64) Origin { return Origin{Kind: OriginCard, ID: id} }

func (k TxKind) Validate() error {
	switch k {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidKind
	}
}

func (o Origin) Validate() error {
	if o.ID <= 0 {
		return ErrInvalidOrigin
	}
	switch o.Kind {
	case OriginAccount, OriginCard:
		return nil
	default:
		return ErrInvalidOrigin
	}
}

// NewDate builds a Date from year, month (1-12) and day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today truncates t to its calendar day.
func Today(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t.UTC()}, nil
}

func (d Date) String() string { return d.Format("2006-01-02") }

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// AddDays returns the date n days away, in the conventional calendar sense.
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

func (u User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return ErrEmptyName
	}
	if !strings.Contains(u.Email, "@") {
		return ErrInvalidInput
	}
	if u.MonthlyIncomeCents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (c CreditCard) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if c.ClosingDay < 1 || c.ClosingDay > 31 {
		return ErrInvalidClosingDay
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	return c.Kind.Validate()
}

func (t Transaction) Validate() error {
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return fmt.Errorf("%w: description too long (max 200 characters)", ErrInvalidInput)
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if err := t.Kind.Validate(); err != nil {
		return err
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	return t.Origin.Validate()
}

// SignedCents is the balance effect of the transaction: +amount for income,
// -amount for expense.
func (t Transaction) SignedCents() int64 {
	if t.Kind == Expense {
		return -t.Amount.Cents
	}
	return t.Amount.Cents
}
