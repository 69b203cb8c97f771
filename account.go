package bahi

import "fmt"

// AccountType classifies accounts in the chart of accounts.
type AccountType int

const (
	Asset AccountType = iota
	Liability
	Income
	Expense
	Equity
)

func (t AccountType) String() string {
	switch t {
	case Asset:
		return "asset"
	case Liability:
		return "liability"
	case Income:
		return "income"
	case Expense:
		return "expense"
	case Equity:
		return "equity"
	default:
		return "unknown"
	}
}

// ParseAccountType parses a string into an AccountType.
func ParseAccountType(s string) (AccountType, error) {
	switch s {
	case "asset":
		return Asset, nil
	case "liability":
		return Liability, nil
	case "income":
		return Income, nil
	case "expense":
		return Expense, nil
	case "equity":
		return Equity, nil
	default:
		return 0, fmt.Errorf("unknown account type: %q", s)
	}
}

// NormalBalance returns the sign convention for the account type:
// +1 for debit-normal accounts (asset, expense), -1 for credit-normal
// accounts (liability, income, equity).
func (t AccountType) NormalBalance() int {
	switch t {
	case Liability, Income, Equity:
		return -1
	default:
		return 1
	}
}

// Account is a node in the chart of accounts. Code is globally unique and
// becomes immutable once a posted journal line references the account.
type Account struct {
	ID         int64
	Code       string
	Name       string
	Type       AccountType
	ParentCode string // empty for top-level accounts
	Currency   string
	Active     bool
}
