package bahi

import (
	"fmt"
	"iter"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bahi-dev/bahi/date"
)

// SettlementCurrency is the currency all journal lines are normalized to
// for balance validation and gain reporting.
const SettlementCurrency = "INR"

// ReversalPair links an original journal to the journal that reversed it.
type ReversalPair struct {
	Original JournalID
	Reversal JournalID
}

// Ledger is the double-entry journal and its chart of accounts. It is the
// system of record: journals are immutable once posted, and balances are
// always computed on demand from posted lines, never from a running
// counter.
//
// A Ledger is single-writer: postings are sequential, indivisible
// operations. Callers running independent import batches concurrently must
// give each batch its own Ledger or serialize access.
type Ledger struct {
	settlement string
	notifier   Notifier

	accounts      map[string]*Account // by code
	children      map[string][]string // parent code -> child codes
	nextAccountID int64

	journals   []*Journal
	index      map[JournalID]*Journal
	referenced map[string]bool // account codes referenced by posted lines
	reversals  []ReversalPair
}

// NewLedger creates an empty ledger settling in currency. A nil notifier
// disables change notifications.
func NewLedger(settlement string, notifier Notifier) *Ledger {
	if settlement == "" {
		settlement = SettlementCurrency
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Ledger{
		settlement: settlement,
		notifier:   notifier,
		accounts:   make(map[string]*Account),
		children:   make(map[string][]string),
		index:      make(map[JournalID]*Journal),
		referenced: make(map[string]bool),
	}
}

// Settlement returns the ledger's settlement currency.
func (l *Ledger) Settlement() string { return l.settlement }

// AddAccount registers an account in the chart. The code must be unique,
// the parent (if any) must already exist, and the parent chain must not
// cycle.
func (l *Ledger) AddAccount(a Account) (Account, error) {
	if a.Code == "" {
		return Account{}, errValidation("code", "account code is required")
	}
	if _, exists := l.accounts[a.Code]; exists {
		return Account{}, errValidation("code", "account code %q already exists", a.Code)
	}
	if a.Currency == "" {
		a.Currency = l.settlement
	}
	if err := ValidateCurrency(a.Currency); err != nil {
		return Account{}, errValidation("currency", "%v", err)
	}
	if a.ParentCode != "" {
		if _, ok := l.accounts[a.ParentCode]; !ok {
			return Account{}, errValidation("parent", "unknown parent account %q", a.ParentCode)
		}
		if err := l.checkNoCycle(a.Code, a.ParentCode); err != nil {
			return Account{}, err
		}
	}
	l.nextAccountID++
	a.ID = l.nextAccountID
	a.Active = true
	l.accounts[a.Code] = &a
	if a.ParentCode != "" {
		l.children[a.ParentCode] = append(l.children[a.ParentCode], a.Code)
	}
	l.notifier.Notify(ChangeEvent{Entity: "account", ID: a.Code, Action: "create", New: a.Name})
	return a, nil
}

// checkNoCycle walks the parent chain from parent and fails if it reaches code.
func (l *Ledger) checkNoCycle(code, parent string) error {
	for p := parent; p != ""; {
		if p == code {
			return errValidation("parent", "account %q would create a cycle", code)
		}
		acc, ok := l.accounts[p]
		if !ok {
			return nil
		}
		p = acc.ParentCode
	}
	return nil
}

// Account returns the account with the given code, or false if unknown.
func (l *Ledger) Account(code string) (Account, bool) {
	a, ok := l.accounts[code]
	if !ok {
		return Account{}, false
	}
	return *a, true
}

// Accounts iterates over the chart of accounts in code order.
func (l *Ledger) Accounts() iter.Seq[Account] {
	codes := make([]string, 0, len(l.accounts))
	for code := range l.accounts {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return func(yield func(Account) bool) {
		for _, code := range codes {
			if !yield(*l.accounts[code]) {
				return
			}
		}
	}
}

// Deactivate marks an account inactive. Postings to an inactive account
// are rejected; its history remains queryable.
func (l *Ledger) Deactivate(code string) error {
	a, ok := l.accounts[code]
	if !ok {
		return errValidation("code", "unknown account %q", code)
	}
	if !a.Active {
		return nil
	}
	a.Active = false
	l.notifier.Notify(ChangeEvent{Entity: "account", ID: code, Action: "deactivate", Old: "active", New: "inactive"})
	return nil
}

// PostJournal validates and posts a balanced journal. On any rejection
// nothing is recorded: the journal and all its lines are committed
// atomically or not at all.
func (l *Ledger) PostJournal(on date.Date, description string, lines []JournalLine, ref Reference) (JournalID, error) {
	if on.IsZero() {
		return "", errValidation("date", "journal date is required")
	}
	if len(lines) < 2 {
		return "", errValidation("lines", "a journal needs at least 2 lines, got %d", len(lines))
	}
	for i, line := range lines {
		if err := l.validateLine(i, line); err != nil {
			return "", err
		}
	}
	if err := checkBalanced(lines, l.settlement); err != nil {
		return "", err
	}
	j := &Journal{
		ID:          JournalID(uuid.NewString()),
		Date:        on,
		Description: description,
		Reference:   ref,
		Lines:       append([]JournalLine(nil), lines...),
	}
	l.commit(j, "post")
	return j.ID, nil
}

func (l *Ledger) validateLine(i int, line JournalLine) error {
	field := fmt.Sprintf("lines[%d]", i)
	acc, ok := l.accounts[line.AccountCode]
	if !ok {
		return errValidation(field, "unknown account %q", line.AccountCode)
	}
	if !acc.Active {
		return errValidation(field, "account %q is inactive", line.AccountCode)
	}
	if line.Debit.IsNegative() || line.Credit.IsNegative() {
		return errValidation(field, "debit and credit must not be negative")
	}
	hasDebit := !line.Debit.IsZero()
	hasCredit := !line.Credit.IsZero()
	if hasDebit == hasCredit {
		return errValidation(field, "exactly one of debit or credit must be set")
	}
	if line.Currency != "" {
		if err := ValidateCurrency(line.Currency); err != nil {
			return errValidation(field, "%v", err)
		}
	}
	return nil
}

// commit appends the journal and emits the change notification. All
// validation happens before commit; commit itself cannot fail.
func (l *Ledger) commit(j *Journal, action string) {
	l.journals = append(l.journals, j)
	l.index[j.ID] = j
	for _, line := range j.Lines {
		l.referenced[line.AccountCode] = true
	}
	l.notifier.Notify(ChangeEvent{Entity: "journal", ID: string(j.ID), Action: action, New: j.Description})
}

// ReverseJournal posts a new journal mirroring the target (every line's
// debit and credit swapped, same date and conversion rates) and marks the
// original reversed. A journal can be reversed at most once, and a
// reversal cannot itself be reversed.
func (l *Ledger) ReverseJournal(id JournalID) (JournalID, error) {
	orig, ok := l.index[id]
	if !ok {
		return "", errValidation("id", "unknown journal %q", id)
	}
	if orig.Reversed || orig.ReversalOf != "" {
		return "", &AlreadyReversedError{ID: id}
	}
	mirrored := make([]JournalLine, len(orig.Lines))
	for i, line := range orig.Lines {
		line.Debit, line.Credit = line.Credit, line.Debit
		mirrored[i] = line
	}
	rev := &Journal{
		ID:          JournalID(uuid.NewString()),
		Date:        orig.Date,
		Description: "reversal of: " + orig.Description,
		Reference:   orig.Reference,
		Lines:       mirrored,
		ReversalOf:  orig.ID,
	}
	// Reversals bypass the inactive-account check: a correction must be
	// possible even after the account was closed.
	orig.Reversed = true
	l.commit(rev, "reverse")
	l.reversals = append(l.reversals, ReversalPair{Original: orig.ID, Reversal: rev.ID})
	l.notifier.Notify(ChangeEvent{Entity: "journal", ID: string(orig.ID), Action: "mark-reversed", Old: "open", New: string(rev.ID)})
	return rev.ID, nil
}

// Journal returns the posted journal with the given id.
func (l *Ledger) Journal(id JournalID) (*Journal, bool) {
	j, ok := l.index[id]
	return j, ok
}

// Journals iterates over all posted journals in posting order.
func (l *Ledger) Journals() iter.Seq[*Journal] {
	return func(yield func(*Journal) bool) {
		for _, j := range l.journals {
			if !yield(j) {
				return
			}
		}
	}
}

// Reversals returns the reversal log: every (original, reversal) pair in
// posting order.
func (l *Ledger) Reversals() []ReversalPair {
	return append([]ReversalPair(nil), l.reversals...)
}

// AccountBalance computes the balance of an account as of a date by
// folding over all posted lines with date <= asOf. The raw debit-credit
// sum is flipped for credit-normal account types, so a liability with
// more credits than debits reports a positive balance.
//
// With includeDescendants the fold covers the account's full subtree; the
// sign convention is applied per line, using the line's own account type.
// Amounts are summed in each account's native currency, which the posting
// convention keeps equal to the line currency.
func (l *Ledger) AccountBalance(code string, asOf date.Date, includeDescendants bool) (decimal.Decimal, error) {
	if _, ok := l.accounts[code]; !ok {
		return decimal.Decimal{}, errValidation("code", "unknown account %q", code)
	}
	scope := map[string]bool{code: true}
	if includeDescendants {
		l.collectSubtree(code, scope)
	}
	balance := decimal.Zero
	for _, j := range l.journals {
		if j.Date.After(asOf) {
			continue
		}
		for _, line := range j.Lines {
			if !scope[line.AccountCode] {
				continue
			}
			sign := decimal.NewFromInt(int64(l.accounts[line.AccountCode].Type.NormalBalance()))
			balance = balance.Add(line.Debit.Sub(line.Credit).Mul(sign))
		}
	}
	return balance, nil
}

// collectSubtree adds the transitive closure of code's children to scope.
func (l *Ledger) collectSubtree(code string, scope map[string]bool) {
	for _, child := range l.children[code] {
		if scope[child] {
			continue
		}
		scope[child] = true
		l.collectSubtree(child, scope)
	}
}
