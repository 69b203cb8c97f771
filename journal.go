package bahi

import (
	"github.com/shopspring/decimal"

	"github.com/bahi-dev/bahi/date"
)

// JournalID identifies a posted journal. IDs are opaque and unique for the
// lifetime of the ledger.
type JournalID string

// Reference links a journal to the external record it was derived from
// (a parsed statement row, an import batch entry). It is opaque to the
// ledger.
type Reference struct {
	Type string `json:"type,omitempty"`
	ID   string `json:"id,omitempty"`
}

// String renders the reference as type:id, or empty when unset.
func (r Reference) String() string {
	if r.Type == "" && r.ID == "" {
		return ""
	}
	return r.Type + ":" + r.ID
}

// JournalLine is one side of a double-entry posting. Exactly one of
// Debit/Credit is nonzero. ExchangeRate converts the line amount to the
// ledger's settlement currency; it may be left zero for lines already in
// the settlement currency.
type JournalLine struct {
	AccountCode  string          `json:"account"`
	Debit        decimal.Decimal `json:"debit,omitempty"`
	Credit       decimal.Decimal `json:"credit,omitempty"`
	Currency     string          `json:"currency"`
	ExchangeRate decimal.Decimal `json:"exchangeRate,omitempty"`
	Narration    string          `json:"narration,omitempty"`
}

// settlementRate returns the effective conversion rate for the line, or
// false when the line is foreign and carries no rate.
func (l JournalLine) settlementRate(settlement string) (decimal.Decimal, bool) {
	if !l.ExchangeRate.IsZero() {
		return l.ExchangeRate, true
	}
	if l.Currency == settlement || l.Currency == "" {
		return decimal.NewFromInt(1), true
	}
	return decimal.Decimal{}, false
}

// Journal is a posted, immutable double-entry record. Correction is only
// possible through Ledger.ReverseJournal, which creates a new mirrored
// journal linked back to the original.
type Journal struct {
	ID          JournalID
	Date        date.Date
	Description string
	Reference   Reference
	Lines       []JournalLine

	// Reversed is true once a reversal journal has been posted against
	// this one. ReversalOf is set on the reversal itself.
	Reversed   bool
	ReversalOf JournalID
}

// balanceTolerance is the maximum allowed difference between converted
// debit and credit totals.
var balanceTolerance = decimal.NewFromFloat(0.01)

// checkBalanced verifies the hard balance invariant: each line converted
// to the settlement currency, total debits must equal total credits within
// tolerance.
func checkBalanced(lines []JournalLine, settlement string) error {
	debits := decimal.Zero
	credits := decimal.Zero
	for _, l := range lines {
		rate, ok := l.settlementRate(settlement)
		if !ok {
			return errValidation("exchangeRate", "line on %s in %s has no conversion rate to %s", l.AccountCode, l.Currency, settlement)
		}
		debits = debits.Add(l.Debit.Mul(rate))
		credits = credits.Add(l.Credit.Mul(rate))
	}
	if debits.Sub(credits).Abs().GreaterThan(balanceTolerance) {
		return &UnbalancedEntryError{Debits: debits, Credits: credits}
	}
	return nil
}
