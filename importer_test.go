package bahi

import (
	"context"
	"errors"
	"testing"

	"github.com/bahi-dev/bahi/date"
)

func TestImportBatch_PartialFailure(t *testing.T) {
	l := newTestLedger(t, nil)
	intents := []TransactionIntent{
		{
			Date: date.MustParse("2024-04-01"), Description: "salary",
			Reference: Reference{Type: "payslip", ID: "1"},
			Lines:     []JournalLine{debit("assets:bank", "50000"), credit("income:salary", "50000")},
		},
		{
			Date: date.MustParse("2024-04-02"), Description: "unbalanced",
			Reference: Reference{Type: "row", ID: "2"},
			Lines:     []JournalLine{debit("assets:bank", "100"), credit("income:salary", "90")},
		},
		{
			Date: date.MustParse("2024-04-03"), Description: "fee",
			Reference: Reference{Type: "row", ID: "3"},
			Lines:     []JournalLine{debit("expenses:fees", "250"), credit("assets:bank", "250")},
		},
	}

	result, err := ImportBatch(context.Background(), l, intents, nil)
	if err != nil {
		t.Fatalf("ImportBatch() error = %v", err)
	}
	if len(result.Posted) != 2 {
		t.Errorf("posted %d journals, want 2", len(result.Posted))
	}
	if len(result.Failures) != 1 {
		t.Fatalf("recorded %d failures, want 1", len(result.Failures))
	}
	f := result.Failures[0]
	if f.Index != 1 || f.Reference.ID != "2" {
		t.Errorf("failure = %+v, want index 1 reference row:2", f)
	}
	var unbalanced *UnbalancedEntryError
	if !errors.As(f.Err, &unbalanced) {
		t.Errorf("failure error = %v, want UnbalancedEntryError", f.Err)
	}

	// the failure rolled back nothing: the journal after it still posted
	if got := countJournals(l); got != 2 {
		t.Errorf("journal count = %d, want 2", got)
	}
}

func TestImportBatch_Cancellation(t *testing.T) {
	l := newTestLedger(t, nil)
	intents := []TransactionIntent{
		{
			Date: date.MustParse("2024-04-01"), Description: "salary",
			Lines: []JournalLine{debit("assets:bank", "50000"), credit("income:salary", "50000")},
		},
		{
			Date: date.MustParse("2024-04-02"), Description: "never posted",
			Lines: []JournalLine{debit("expenses:fees", "250"), credit("assets:bank", "250")},
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := ImportBatch(ctx, l, intents, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("ImportBatch() error = %v, want context.Canceled", err)
	}
	// cancellation happens before the post step: nothing committed here,
	// and nothing already committed would have been rolled back
	if len(result.Posted) != 0 || countJournals(l) != 0 {
		t.Errorf("posted %d journals after cancellation, want 0", len(result.Posted))
	}
}
