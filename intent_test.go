package bahi

import (
	"context"
	"strings"
	"testing"

	"github.com/bahi-dev/bahi/date"
)

func TestDecodeIntents(t *testing.T) {
	stream := `{"date":"2024-04-01","description":"salary","reference":{"type":"payslip","id":"2024-04"},"lines":[{"account":"assets:bank","debit":50000,"currency":"INR"},{"account":"income:salary","credit":50000,"currency":"INR"}]}

{"date":"2024-04-05","description":"USD buy","lines":[{"account":"assets:broker","debit":100,"currency":"USD","exchangeRate":83.5},{"account":"assets:bank","credit":8350,"currency":"INR"}]}
`
	intents, err := DecodeIntents(strings.NewReader(stream))
	if err != nil {
		t.Fatalf("DecodeIntents() error = %v", err)
	}
	if len(intents) != 2 {
		t.Fatalf("DecodeIntents() returned %d intents, want 2 (empty line skipped)", len(intents))
	}
	if intents[0].Reference.ID != "2024-04" || len(intents[0].Lines) != 2 {
		t.Errorf("intents[0] = %+v, want payslip reference and 2 lines", intents[0])
	}
	if !intents[1].Lines[0].ExchangeRate.Equal(dec("83.5")) {
		t.Errorf("exchange rate = %s, want 83.5", intents[1].Lines[0].ExchangeRate)
	}

	// the decoded intents post cleanly
	l := newTestLedger(t, nil)
	result, err := ImportBatch(context.Background(), l, intents, nil)
	if err != nil {
		t.Fatalf("ImportBatch() error = %v", err)
	}
	if len(result.Failures) != 0 {
		t.Fatalf("ImportBatch() failures = %+v, want none", result.Failures)
	}
}

func TestDecodeIntents_BadLine(t *testing.T) {
	if _, err := DecodeIntents(strings.NewReader("not json\n")); err == nil {
		t.Error("DecodeIntents() expected error on malformed line")
	}
}

func TestEncodeIntents_RoundTrip(t *testing.T) {
	intents := []TransactionIntent{
		{
			Date:        date.MustParse("2024-04-01"),
			Description: "fee",
			Lines:       []JournalLine{debit("expenses:fees", "250"), credit("assets:bank", "250")},
		},
	}
	var sb strings.Builder
	if err := EncodeIntents(&sb, intents); err != nil {
		t.Fatalf("EncodeIntents() error = %v", err)
	}
	back, err := DecodeIntents(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatalf("DecodeIntents() error = %v", err)
	}
	if len(back) != 1 || back[0].Description != "fee" || !back[0].Lines[0].Debit.Equal(dec("250")) {
		t.Errorf("round trip = %+v, want the original intent", back)
	}
}
