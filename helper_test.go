package bahi

import (
	"testing"

	"github.com/shopspring/decimal"
)

// recordingNotifier captures change events for assertions.
type recordingNotifier struct {
	events []ChangeEvent
}

func (n *recordingNotifier) Notify(ev ChangeEvent) { n.events = append(n.events, ev) }

func (n *recordingNotifier) actions(entity string) []string {
	var out []string
	for _, ev := range n.events {
		if ev.Entity == entity {
			out = append(out, ev.Action)
		}
	}
	return out
}

// newTestLedger builds an INR ledger with a small chart of accounts:
// a bank and a broker under assets, a salary income, a fees expense and a
// card liability.
func newTestLedger(t *testing.T, notifier Notifier) *Ledger {
	t.Helper()
	l := NewLedger("INR", notifier)
	chart := []Account{
		{Code: "assets", Name: "Assets", Type: Asset},
		{Code: "assets:bank", Name: "Bank", Type: Asset, ParentCode: "assets"},
		{Code: "assets:broker", Name: "Broker", Type: Asset, ParentCode: "assets"},
		{Code: "income:salary", Name: "Salary", Type: Income},
		{Code: "expenses:fees", Name: "Fees", Type: Expense},
		{Code: "liabilities:card", Name: "Credit Card", Type: Liability},
	}
	for _, a := range chart {
		if _, err := l.AddAccount(a); err != nil {
			t.Fatalf("AddAccount(%s) error = %v", a.Code, err)
		}
	}
	return l
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// debit and credit build single-sided journal lines in INR.
func debit(account, amount string) JournalLine {
	return JournalLine{AccountCode: account, Debit: dec(amount), Currency: "INR"}
}

func credit(account, amount string) JournalLine {
	return JournalLine{AccountCode: account, Credit: dec(amount), Currency: "INR"}
}

func countJournals(l *Ledger) int {
	n := 0
	for range l.Journals() {
		n++
	}
	return n
}
