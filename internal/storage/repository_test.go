package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"grana/internal/core"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "grana.db"))
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func newTestUser(t *testing.T, repo *Repository) *core.User {
	t.Helper()
	u := &core.User{
		Name:         "Ana",
		Email:        "ana@example.com",
		PasswordHash: "x",
	}
	if err := repo.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return u
}

func wallet(t *testing.T, repo *Repository, userID int64) *core.Account {
	t.Helper()
	accounts, err := repo.ListAccounts(context.Background(), userID)
	if err != nil {
		t.Fatalf("ListAccounts: %v", err)
	}
	for i := range accounts {
		if accounts[i].Protected {
			return &accounts[i]
		}
	}
	t.Fatal("no protected wallet found")
	return nil
}

func TestCreateUserSeedsWalletAndCategories(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	u := newTestUser(t, repo)

	w := wallet(t, repo, u.ID)
	if w.Name != WalletName {
		t.Errorf("wallet name = %q, want %q", w.Name, WalletName)
	}
	if w.Balance.Cents != 0 {
		t.Errorf("wallet balance = %d, want 0", w.Balance.Cents)
	}

	categories, err := repo.ListCategories(ctx, u.ID, "")
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if len(categories) != len(defaultCategories) {
		t.Errorf("got %d categories, want %d", len(categories), len(defaultCategories))
	}

	incomes, err := repo.ListCategories(ctx, u.ID, core.Income)
	if err != nil {
		t.Fatalf("ListCategories(income): %v", err)
	}
	if len(incomes) != 2 {
		t.Errorf("got %d income categories, want 2", len(incomes))
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	repo := newTestRepo(t)
	newTestUser(t, repo)

	dup := &core.User{Name: "Bia", Email: "ana@example.com", PasswordHash: "y"}
	err := repo.CreateUser(context.Background(), dup)
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Errorf("duplicate email: got %v, want ErrInvalidInput", err)
	}
}

func TestInsertTransactionMovesBalance(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	u := newTestUser(t, repo)
	w := wallet(t, repo, u.ID)

	income := &core.Transaction{
		UserID:      u.ID,
		Description: "salário",
		Amount:      core.Money{Cents: 10000},
		Kind:        core.Income,
		Date:        core.NewDate(2026, 8, 5),
		Origin:      core.AccountRef(w.ID),
	}
	if err := repo.InsertTransaction(ctx, income); err != nil {
		t.Fatalf("insert income: %v", err)
	}
	if income.ID == 0 {
		t.Error("transaction ID not assigned")
	}

	expense := &core.Transaction{
		UserID:      u.ID,
		Description: "mercado",
		Amount:      core.Money{Cents: 4000},
		Kind:        core.Expense,
		Date:        core.NewDate(2026, 8, 10),
		Origin:      core.AccountRef(w.ID),
	}
	if err := repo.InsertTransaction(ctx, expense); err != nil {
		t.Fatalf("insert expense: %v", err)
	}

	got, err := repo.GetAccount(ctx, u.ID, w.ID)
	if err != nil {
		t.Fatalf("GetAccount: %v", err)
	}
	if got.Balance.Cents != 6000 {
		t.Errorf("balance = %d, want 6000", got.Balance.Cents)
	}
}

func TestDeleteTransactionReversesBalance(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	u := newTestUser(t, repo)
	w := wallet(t, repo, u.ID)

	tx := &core.Transaction{
		UserID:      u.ID,
		Description: "jantar",
		Amount:      core.Money{Cents: 2500},
		Kind:        core.Expense,
		Date:        core.NewDate(2026, 8, 12),
		Origin:      core.AccountRef(w.ID),
	}
	if err := repo.InsertTransaction(ctx, tx); err != nil {
		t.Fatalf("insert: %v", err)
	}

	deleted, err := repo.DeleteTransaction(ctx, u.ID, tx.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted.Description != "jantar" {
		t.Errorf("deleted description = %q", deleted.Description)
	}

	got, err := repo.GetAccount(ctx, u.ID, w.ID)
	if err != nil {
		t.Fatalf("GetAccount: %v", err)
	}
	if got.Balance.Cents != 0 {
		t.Errorf("balance after reversal = %d, want 0", got.Balance.Cents)
	}

	if _, err := repo.GetTransaction(ctx, u.ID, tx.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("get after delete: got %v, want ErrNotFound", err)
	}
}

func TestCardTransactionDoesNotTouchBalances(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	u := newTestUser(t, repo)
	w := wallet(t, repo, u.ID)

	card := &core.CreditCard{UserID: u.ID, Name: "Nubank", ClosingDay: 10}
	if err := repo.CreateCard(ctx, card); err != nil {
		t.Fatalf("CreateCard: %v", err)
	}

	tx := &core.Transaction{
		UserID:      u.ID,
		Description: "streaming",
		Amount:      core.Money{Cents: 3990},
		Kind:        core.Expense,
		Date:        core.NewDate(2026, 8, 20),
		Origin:      core.CardRef(card.ID),
	}
	if err := repo.InsertTransaction(ctx, tx); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := repo.GetAccount(ctx, u.ID, w.ID)
	if err != nil {
		t.Fatalf("GetAccount: %v", err)
	}
	if got.Balance.Cents != 0 {
		t.Errorf("balance = %d, want 0: card purchases must not move accounts", got.Balance.Cents)
	}

	if _, err := repo.DeleteTransaction(ctx, u.ID, tx.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, _ = repo.GetAccount(ctx, u.ID, w.ID)
	if got.Balance.Cents != 0 {
		t.Errorf("balance after card delete = %d, want 0", got.Balance.Cents)
	}
}

func TestInsertTransactionUnknownOrigin(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	u := newTestUser(t, repo)

	tx := &core.Transaction{
		UserID:      u.ID,
		Description: "fantasma",
		Amount:      core.Money{Cents: 100},
		Kind:        core.Expense,
		Date:        core.NewDate(2026, 8, 1),
		Origin:      core.AccountRef(999),
	}
	if err := repo.InsertTransaction(ctx, tx); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("unknown origin: got %v, want ErrNotFound", err)
	}
	if tx.ID != 0 {
		t.Error("failed insert must not assign an ID")
	}
}

func TestProtectedWalletIsImmutable(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	u := newTestUser(t, repo)
	w := wallet(t, repo, u.ID)

	if err := repo.RenameAccount(ctx, u.ID, w.ID, "Outra"); !errors.Is(err, core.ErrProtectedAccount) {
		t.Errorf("rename wallet: got %v, want ErrProtectedAccount", err)
	}
	if err := repo.DeleteAccount(ctx, u.ID, w.ID); !errors.Is(err, core.ErrProtectedAccount) {
		t.Errorf("delete wallet: got %v, want ErrProtectedAccount", err)
	}

	got, _ := repo.GetAccount(ctx, u.ID, w.ID)
	if got.Name != WalletName {
		t.Errorf("wallet name changed to %q", got.Name)
	}
}

func TestDeleteAccountWithTransactions(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	u := newTestUser(t, repo)

	acc := &core.Account{UserID: u.ID, Name: "Poupança"}
	if err := repo.CreateAccount(ctx, acc); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}

	tx := &core.Transaction{
		UserID:      u.ID,
		Description: "depósito",
		Amount:      core.Money{Cents: 500},
		Kind:        core.Income,
		Date:        core.NewDate(2026, 8, 1),
		Origin:      core.AccountRef(acc.ID),
	}
	if err := repo.InsertTransaction(ctx, tx); err != nil {
		t.Fatalf("insert: %v", err)
	}

	if err := repo.DeleteAccount(ctx, u.ID, acc.ID); !errors.Is(err, core.ErrAccountInUse) {
		t.Errorf("delete in-use account: got %v, want ErrAccountInUse", err)
	}

	if _, err := repo.DeleteTransaction(ctx, u.ID, tx.ID); err != nil {
		t.Fatalf("delete transaction: %v", err)
	}
	if err := repo.DeleteAccount(ctx, u.ID, acc.ID); err != nil {
		t.Errorf("delete emptied account: %v", err)
	}
}

func TestUpdateTransactionMutableFields(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	u := newTestUser(t, repo)
	w := wallet(t, repo, u.ID)

	tx := &core.Transaction{
		UserID:      u.ID,
		Description: "uber",
		Amount:      core.Money{Cents: 1800},
		Kind:        core.Expense,
		Date:        core.NewDate(2026, 8, 3),
		Origin:      core.AccountRef(w.ID),
	}
	if err := repo.InsertTransaction(ctx, tx); err != nil {
		t.Fatalf("insert: %v", err)
	}

	tx.Description = "uber para o aeroporto"
	tx.Date = core.NewDate(2026, 8, 4)
	tx.Recurring = true
	if err := repo.UpdateTransaction(ctx, tx); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := repo.GetTransaction(ctx, u.ID, tx.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Description != "uber para o aeroporto" || got.Date.String() != "2026-08-04" || !got.Recurring {
		t.Errorf("updated transaction = %+v", got)
	}
	if got.Amount.Cents != 1800 {
		t.Errorf("amount changed to %d", got.Amount.Cents)
	}
}

func TestMonthlyTotalsAndCategorySums(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	u := newTestUser(t, repo)
	w := wallet(t, repo, u.ID)

	categories, _ := repo.ListCategories(ctx, u.ID, core.Expense)
	food, transport := categories[0], categories[1]

	insert := func(desc string, cents int64, kind core.TxKind, d core.Date, categoryID int64) {
		t.Helper()
		tx := &core.Transaction{
			UserID:      u.ID,
			CategoryID:  categoryID,
			Description: desc,
			Amount:      core.Money{Cents: cents},
			Kind:        kind,
			Date:        d,
			Origin:      core.AccountRef(w.ID),
		}
		if err := repo.InsertTransaction(ctx, tx); err != nil {
			t.Fatalf("insert %s: %v", desc, err)
		}
	}

	insert("salário", 300000, core.Income, core.NewDate(2026, 8, 5), 0)
	insert("almoço", 5000, core.Expense, core.NewDate(2026, 8, 6), food.ID)
	insert("jantar", 7000, core.Expense, core.NewDate(2026, 8, 7), food.ID)
	insert("ônibus", 2000, core.Expense, core.NewDate(2026, 8, 8), transport.ID)
	// outside the month, must not count
	insert("julho", 99900, core.Expense, core.NewDate(2026, 7, 8), food.ID)

	totals, err := repo.MonthlyTotals(ctx, u.ID, 2026, 8)
	if err != nil {
		t.Fatalf("MonthlyTotals: %v", err)
	}
	if totals.Income.Cents != 300000 || totals.Expense.Cents != 14000 {
		t.Errorf("totals = %+v, want income 300000 expense 14000", totals)
	}

	sums, err := repo.CategorySums(ctx, u.ID, 2026, 8)
	if err != nil {
		t.Fatalf("CategorySums: %v", err)
	}
	if len(sums) != 2 {
		t.Fatalf("got %d category sums, want 2", len(sums))
	}
	if sums[0].Name != food.Name || sums[0].Total.Cents != 12000 || sums[0].Count != 2 {
		t.Errorf("top category = %+v, want %s 12000 x2", sums[0], food.Name)
	}
	if sums[1].Name != transport.Name || sums[1].Total.Cents != 2000 {
		t.Errorf("second category = %+v, want %s 2000", sums[1], transport.Name)
	}
}

func TestSumCardWindow(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	u := newTestUser(t, repo)

	card := &core.CreditCard{UserID: u.ID, Name: "Visa", ClosingDay: 10}
	if err := repo.CreateCard(ctx, card); err != nil {
		t.Fatalf("CreateCard: %v", err)
	}

	insert := func(desc string, cents int64, d core.Date) {
		t.Helper()
		tx := &core.Transaction{
			UserID:      u.ID,
			Description: desc,
			Amount:      core.Money{Cents: cents},
			Kind:        core.Expense,
			Date:        d,
			Origin:      core.CardRef(card.ID),
		}
		if err := repo.InsertTransaction(ctx, tx); err != nil {
			t.Fatalf("insert %s: %v", desc, err)
		}
	}

	// window for closing day 10, month 8: jul 10 .. aug 9
	w := core.Statement(card.ClosingDay, 8, 2026)
	insert("dentro, primeiro dia", 1000, w.Start)
	insert("dentro, último dia", 2000, w.End)
	insert("fora, dia do fechamento", 4000, w.End.AddDays(1))
	insert("fora, antes da janela", 8000, w.Start.AddDays(-1))

	total, err := repo.SumCardWindow(ctx, u.ID, card.ID, w)
	if err != nil {
		t.Fatalf("SumCardWindow: %v", err)
	}
	if total != 3000 {
		t.Errorf("window total = %d, want 3000", total)
	}

	inside, err := repo.ListCardWindow(ctx, u.ID, card.ID, w)
	if err != nil {
		t.Fatalf("ListCardWindow: %v", err)
	}
	if len(inside) != 2 {
		t.Errorf("got %d transactions in window, want 2", len(inside))
	}
}

func TestListRecurringDue(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	u := newTestUser(t, repo)
	w := wallet(t, repo, u.ID)

	rec := &core.Transaction{
		UserID:      u.ID,
		Description: "aluguel",
		Amount:      core.Money{Cents: 150000},
		Kind:        core.Expense,
		Date:        core.NewDate(2026, 7, 31),
		Origin:      core.AccountRef(w.ID),
		Recurring:   true,
	}
	if err := repo.InsertTransaction(ctx, rec); err != nil {
		t.Fatalf("insert recurring: %v", err)
	}
	oneOff := &core.Transaction{
		UserID:      u.ID,
		Description: "presente",
		Amount:      core.Money{Cents: 5000},
		Kind:        core.Expense,
		Date:        core.NewDate(2026, 7, 15),
		Origin:      core.AccountRef(w.ID),
	}
	if err := repo.InsertTransaction(ctx, oneOff); err != nil {
		t.Fatalf("insert one-off: %v", err)
	}

	julFirst, julLast := core.MonthRange(2026, 7)
	augFirst, augLast := core.MonthRange(2026, 8)

	due, err := repo.ListRecurringDue(ctx, julFirst, julLast, augFirst, augLast)
	if err != nil {
		t.Fatalf("ListRecurringDue: %v", err)
	}
	if len(due) != 1 || due[0].ID != rec.ID {
		t.Fatalf("due = %+v, want just the recurring transaction", due)
	}

	// materialize the copy; the series is then satisfied for august
	copyTx := &core.Transaction{
		UserID:            u.ID,
		Description:       rec.Description,
		Amount:            rec.Amount,
		Kind:              rec.Kind,
		Date:              core.NewDate(2026, 8, 31),
		Origin:            rec.Origin,
		Recurring:         true,
		RecurringSourceID: rec.ID,
	}
	if err := repo.InsertTransaction(ctx, copyTx); err != nil {
		t.Fatalf("insert copy: %v", err)
	}

	due, err = repo.ListRecurringDue(ctx, julFirst, julLast, augFirst, augLast)
	if err != nil {
		t.Fatalf("ListRecurringDue after copy: %v", err)
	}
	if len(due) != 0 {
		t.Errorf("due after copy = %+v, want none", due)
	}

	// september sees the august copy as the one to repeat
	sepFirst, sepLast := core.MonthRange(2026, 9)
	due, err = repo.ListRecurringDue(ctx, augFirst, augLast, sepFirst, sepLast)
	if err != nil {
		t.Fatalf("ListRecurringDue for september: %v", err)
	}
	if len(due) != 1 || due[0].ID != copyTx.ID {
		t.Fatalf("september due = %+v, want the august copy", due)
	}
}

func TestBalanceScenario(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	u := newTestUser(t, repo)
	w := wallet(t, repo, u.ID)

	post := func(desc string, cents int64, kind core.TxKind) *core.Transaction {
		t.Helper()
		tx := &core.Transaction{
			UserID:      u.ID,
			Description: desc,
			Amount:      core.Money{Cents: cents},
			Kind:        kind,
			Date:        core.NewDate(2026, 8, 15),
			Origin:      core.AccountRef(w.ID),
		}
		if err := repo.InsertTransaction(ctx, tx); err != nil {
			t.Fatalf("insert %s: %v", desc, err)
		}
		return tx
	}
	balance := func() int64 {
		t.Helper()
		a, err := repo.GetAccount(ctx, u.ID, w.ID)
		if err != nil {
			t.Fatalf("GetAccount: %v", err)
		}
		return a.Balance.Cents
	}

	post("depósito", 10000, core.Income)
	if got := balance(); got != 10000 {
		t.Fatalf("after income: %d, want 10000", got)
	}
	exp := post("compras", 4000, core.Expense)
	if got := balance(); got != 6000 {
		t.Fatalf("after expense: %d, want 6000", got)
	}
	if _, err := repo.DeleteTransaction(ctx, u.ID, exp.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := balance(); got != 10000 {
		t.Fatalf("after reversal: %d, want 10000", got)
	}

	total, err := repo.TotalBalanceCents(ctx, u.ID)
	if err != nil {
		t.Fatalf("TotalBalanceCents: %v", err)
	}
	if total != 10000 {
		t.Errorf("total balance = %d, want 10000", total)
	}
}
