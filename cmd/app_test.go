package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bahi-dev/bahi"
	"github.com/bahi-dev/bahi/date"
)

// pointFilesAt redirects the app files into a temp directory for the test.
func pointFilesAt(t *testing.T, dir string) {
	t.Helper()
	oldConfig, oldAccounts, oldLedger, oldRates, oldTrades := *configFile, *accountsFile, *ledgerFile, *ratesFile, *tradesFile
	*configFile = filepath.Join(dir, "bahi.toml")
	*accountsFile = filepath.Join(dir, "accounts.jsonl")
	*ledgerFile = filepath.Join(dir, "journal.jsonl")
	*ratesFile = filepath.Join(dir, "rates.jsonl")
	*tradesFile = filepath.Join(dir, "trades.jsonl")
	t.Cleanup(func() {
		*configFile, *accountsFile, *ledgerFile, *ratesFile, *tradesFile = oldConfig, oldAccounts, oldLedger, oldRates, oldTrades
	})
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func TestLoadSystem_ReplaysAllFiles(t *testing.T) {
	dir := t.TempDir()
	pointFilesAt(t, dir)

	writeFile(t, *accountsFile, `{"code":"assets","name":"Assets","type":"asset"}
{"code":"assets:bank","name":"Bank","type":"asset","parent":"assets"}
{"code":"assets:broker","name":"Broker","type":"asset","parent":"assets"}
{"code":"income:salary","name":"Salary","type":"income"}
`)
	writeFile(t, *ratesFile, `{"date":"2024-06-01","currency":"USD","rate":83.5,"source":"rbi"}
`)
	writeFile(t, *ledgerFile, `{"date":"2024-04-01","description":"salary","lines":[{"account":"assets:bank","debit":50000,"currency":"INR"},{"account":"income:salary","credit":50000,"currency":"INR"}]}
`)
	writeFile(t, *tradesFile, `{"kind":"acquire","date":"2024-01-01","description":"buy","lines":[{"account":"assets:broker","debit":1000,"currency":"INR"},{"account":"assets:bank","credit":1000,"currency":"INR"}],"holding":"TCS","account":"assets:broker","quantity":10,"unitCost":100,"currency":"INR"}
{"kind":"dispose","date":"2024-06-01","description":"sell","lines":[{"account":"assets:bank","debit":480,"currency":"INR"},{"account":"assets:broker","credit":480,"currency":"INR"}],"holding":"TCS","account":"assets:broker","assetClass":"domestic-equity","quantity":4,"unitPrice":120,"currency":"INR"}
`)

	s, events, err := LoadSystem()
	if err != nil {
		t.Fatalf("LoadSystem() error = %v", err)
	}

	// the journal, the acquisition and the disposal all posted
	n := 0
	for range s.Ledger.Journals() {
		n++
	}
	if n != 3 {
		t.Errorf("replayed %d journals, want 3", n)
	}
	balance, err := s.Ledger.AccountBalance("assets", date.MustParse("2024-06-30"), true)
	if err != nil {
		t.Fatalf("AccountBalance() error = %v", err)
	}
	// the buy and sell move money between the two asset accounts, so the
	// subtree total is just the salary
	if !balance.Equal(bahi.Q(50000).Decimal()) {
		t.Errorf("assets subtree balance = %s, want 50000", balance)
	}

	// the disposal realized 4*(120-100) = 80 short term
	if len(events) != 1 {
		t.Fatalf("replayed %d gain events, want 1", len(events))
	}
	if !events[0].Gain.Equal(bahi.M(80.00, "INR")) {
		t.Errorf("gain = %s, want 80.00 INR", events[0].Gain.Decimal())
	}
	if snap := s.Position("TCS", "assets:broker").Snapshot(); !snap.TotalQuantity.Equal(bahi.Q(6)) {
		t.Errorf("remaining quantity = %s, want 6", snap.TotalQuantity)
	}

	// the stored rate is visible through the replayed store
	rate, err := s.Rates.Rate(date.MustParse("2024-06-03"), "USD")
	if err != nil {
		t.Fatalf("Rate() error = %v", err)
	}
	if rate.String() != "83.5" {
		t.Errorf("rate = %s, want 83.5", rate)
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	pointFilesAt(t, t.TempDir())
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg == nil || cfg.SettlementCurrency != "INR" {
		t.Fatalf("LoadConfig() = %+v, want the defaults when no file exists", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadSystem_MissingFilesAreEmpty(t *testing.T) {
	pointFilesAt(t, t.TempDir())
	s, events, err := LoadSystem()
	if err != nil {
		t.Fatalf("LoadSystem() error = %v", err)
	}
	if len(events) != 0 {
		t.Errorf("replayed %d gain events from nothing, want 0", len(events))
	}
	for range s.Ledger.Journals() {
		t.Fatal("replayed a journal from nothing")
	}
}

func TestParseReference(t *testing.T) {
	ref, err := parseReference("invoice:2024-042")
	if err != nil {
		t.Fatalf("parseReference() error = %v", err)
	}
	if ref.Type != "invoice" || ref.ID != "2024-042" {
		t.Errorf("parseReference() = %+v, want invoice:2024-042", ref)
	}
	if _, err := parseReference("no-separator"); err == nil {
		t.Error("parseReference() expected error without a colon")
	}
	if ref, err := parseReference(""); err != nil || ref != (bahi.Reference{}) {
		t.Errorf("parseReference(\"\") = %+v, %v, want zero reference", ref, err)
	}
}
