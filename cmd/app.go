// Package cmd implements the CLI application to manage a ledger.
package cmd

import (
	"bufio"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/bahi-dev/bahi"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package calls Register() to declare subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&postCmd{}, "journal")
	c.Register(&importCmd{}, "journal")
	c.Register(&reverseCmd{}, "journal")
	c.Register(&txCmd{}, "journal")
	c.Register(&balanceCmd{}, "journal")

	c.Register(&addRateCmd{}, "rates")
	c.Register(&importRatesCmd{}, "rates")

	c.Register(&lotsCmd{}, "holdings")
	c.Register(&gainsCmd{}, "holdings")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "bahi.toml", "Path to the configuration file (TOML format)")
var accountsFile = flag.String("accounts-file", "accounts.jsonl", "Path to the chart of accounts (JSONL format)")
var ledgerFile = flag.String("ledger-file", "journal.jsonl", "Path to the journal file containing transaction intents (JSONL format)")
var ratesFile = flag.String("rates-file", "rates.jsonl", "Path to the exchange rate file (JSONL format)")
var tradesFile = flag.String("trades-file", "trades.jsonl", "Path to the trade file containing acquisitions and disposals (JSONL format)")
var verbose = flag.Bool("v", false, "Log every committed mutation while replaying")

// LoadConfig reads the app configuration, falling back to the defaults
// when the file does not exist.
func LoadConfig() (*bahi.Config, error) {
	cfg, err := bahi.LoadConfig(*configFile)
	if errors.Is(err, fs.ErrNotExist) {
		return bahi.DefaultConfig(), nil
	}
	return cfg, err
}

// decodeFile decodes a JSONL file with the given decoder, treating a
// missing file as an empty stream.
func decodeFile[T any](filename string, decode func(f *os.File) ([]T, error)) ([]T, error) {
	f, err := os.Open(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decode(f)
}

// LoadSystem rebuilds the full system state by replaying the chart of
// accounts, the stored rates, the journal and the trade files.
func LoadSystem() (*bahi.System, []bahi.CapitalGainEvent, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	var notifier bahi.Notifier
	if *verbose {
		notifier = bahi.NewLogNotifier(cfg.LogLevel)
	}
	s, err := bahi.NewSystem(cfg, notifier)
	if err != nil {
		return nil, nil, err
	}

	accounts, err := decodeFile(*accountsFile, func(f *os.File) ([]bahi.Account, error) { return bahi.DecodeAccounts(f) })
	if err != nil {
		return nil, nil, fmt.Errorf("reading %q: %w", *accountsFile, err)
	}
	for _, a := range accounts {
		if _, err := s.Ledger.AddAccount(a); err != nil {
			return nil, nil, fmt.Errorf("replaying account %q: %w", a.Code, err)
		}
	}

	rates, err := decodeFile(*ratesFile, func(f *os.File) ([]bahi.ExchangeRate, error) { return bahi.DecodeRates(f) })
	if err != nil {
		return nil, nil, fmt.Errorf("reading %q: %w", *ratesFile, err)
	}
	if err := s.Rates.ImportRates(rates); err != nil {
		return nil, nil, fmt.Errorf("replaying rates: %w", err)
	}

	intents, err := decodeFile(*ledgerFile, func(f *os.File) ([]bahi.TransactionIntent, error) { return bahi.DecodeIntents(f) })
	if err != nil {
		return nil, nil, fmt.Errorf("reading %q: %w", *ledgerFile, err)
	}
	for i, intent := range intents {
		if _, err := s.Ledger.PostJournal(intent.Date, intent.Description, intent.Lines, intent.Reference); err != nil {
			return nil, nil, fmt.Errorf("replaying journal line %d: %w", i+1, err)
		}
	}

	events, err := replayTrades(s)
	if err != nil {
		return nil, nil, err
	}
	return s, events, nil
}

func replayTrades(s *bahi.System) ([]bahi.CapitalGainEvent, error) {
	f, err := os.Open(*tradesFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var events []bahi.CapitalGainEvent
	scanner := bufio.NewScanner(f)
	n := 0
	for scanner.Scan() {
		n++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		// each line carries a kind discriminator selecting the payload
		var kind struct {
			Kind string `json:"kind"`
		}
		if err := json.Unmarshal(line, &kind); err != nil {
			return nil, fmt.Errorf("could not decode trade line %d: %w", n, err)
		}
		switch kind.Kind {
		case "acquire":
			var acq bahi.AcquisitionIntent
			if err := json.Unmarshal(line, &acq); err != nil {
				return nil, fmt.Errorf("could not decode acquisition line %d: %w", n, err)
			}
			if _, err := s.Acquire(acq); err != nil {
				return nil, fmt.Errorf("replaying trade line %d: %w", n, err)
			}
		case "dispose":
			var dis bahi.DisposalIntent
			if err := json.Unmarshal(line, &dis); err != nil {
				return nil, fmt.Errorf("could not decode disposal line %d: %w", n, err)
			}
			_, evs, err := s.Dispose(dis)
			if err != nil {
				return nil, fmt.Errorf("replaying trade line %d: %w", n, err)
			}
			events = append(events, evs...)
		default:
			return nil, fmt.Errorf("trade line %d: unknown kind %q", n, kind.Kind)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// appendLine appends a single JSON document to a JSONL file, creating
// the file if it does not exist.
func appendLine(filename string, v any) error {
	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening %q: %w", filename, err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(v)
}

// AppendIntent appends a validated transaction intent to the app journal file.
func AppendIntent(intent bahi.TransactionIntent) subcommands.ExitStatus {
	if err := appendLine(*ledgerFile, intent); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing to journal file: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Successfully appended transaction to %s\n", *ledgerFile)
	return subcommands.ExitSuccess
}
