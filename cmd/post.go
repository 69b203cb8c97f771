package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/bahi-dev/bahi"
	"github.com/bahi-dev/bahi/date"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type postCmd struct {
	date     string
	memo     string
	debitAc  string
	creditAc string
	amount   string
	currency string
	rate     string
	ref      string
}

func (*postCmd) Name() string     { return "post" }
func (*postCmd) Synopsis() string { return "post a simple two-line journal entry" }
func (*postCmd) Usage() string {
	return `bahi post -dr <account> -cr <account> -a <amount> [-c <currency>] [-rate <rate>] [-d <date>] [-m <memo>] [-ref <type:id>]

  Posts a balanced journal debiting one account and crediting another,
  then appends it to the journal file. The entry is validated against the
  replayed ledger first, so a rejected entry is never recorded.
`
}

func (p *postCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.date, "d", "", "Journal date. Defaults to today.")
	f.StringVar(&p.memo, "m", "", "Description of the entry.")
	f.StringVar(&p.debitAc, "dr", "", "Account to debit.")
	f.StringVar(&p.creditAc, "cr", "", "Account to credit.")
	f.StringVar(&p.amount, "a", "", "Amount, same on both sides.")
	f.StringVar(&p.currency, "c", "", "Currency of both lines. Defaults to the settlement currency.")
	f.StringVar(&p.rate, "rate", "", "Conversion rate into the settlement currency, when the currency differs.")
	f.StringVar(&p.ref, "ref", "", "External reference as type:id, e.g. invoice:2024-042.")
}

func (p *postCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.debitAc == "" || p.creditAc == "" || p.amount == "" {
		fmt.Fprintln(os.Stderr, "Error: -dr, -cr and -a are required.")
		return subcommands.ExitUsageError
	}
	on := date.Today()
	if p.date != "" {
		var err error
		if on, err = date.Parse(p.date); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	amount, err := decimal.NewFromString(p.amount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing amount: %v\n", err)
		return subcommands.ExitUsageError
	}
	var rate decimal.Decimal
	if p.rate != "" {
		if rate, err = decimal.NewFromString(p.rate); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing rate: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	ref, err := parseReference(p.ref)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	intent := bahi.TransactionIntent{
		Date:        on,
		Description: p.memo,
		Reference:   ref,
		Lines: []bahi.JournalLine{
			{AccountCode: p.debitAc, Debit: amount, Currency: p.currency, ExchangeRate: rate},
			{AccountCode: p.creditAc, Credit: amount, Currency: p.currency, ExchangeRate: rate},
		},
	}

	s, _, err := LoadSystem()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if _, err := s.Ledger.PostJournal(intent.Date, intent.Description, intent.Lines, intent.Reference); err != nil {
		fmt.Fprintf(os.Stderr, "Error posting journal: %v\n", err)
		return subcommands.ExitFailure
	}
	return AppendIntent(intent)
}

// parseReference parses a type:id pair, both parts required when set.
func parseReference(s string) (bahi.Reference, error) {
	if s == "" {
		return bahi.Reference{}, nil
	}
	typ, id, ok := strings.Cut(s, ":")
	if !ok || typ == "" || id == "" {
		return bahi.Reference{}, fmt.Errorf("Error: reference must be type:id, got %q", s)
	}
	return bahi.Reference{Type: typ, ID: id}, nil
}
