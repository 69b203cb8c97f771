package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/bahi-dev/bahi"
	"github.com/bahi-dev/bahi/date"
	"github.com/google/subcommands"
)

type txCmd struct {
	start string
	end   string
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list posted journals" }
func (*txCmd) Usage() string {
	return `bahi tx [-s <start_date>] [-e <end_date>]

  Lists the posted journals in posting order, optionally restricted to a
  date range. An omitted bound leaves that side of the range open.
`
}

func (p *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.start, "s", "", "Start date of the range, inclusive.")
	f.StringVar(&p.end, "e", "", "End date of the range, inclusive.")
}

func (p *txCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var r date.Range
	var err error
	if p.start != "" {
		if r.From, err = date.Parse(p.start); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing start date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	if p.end != "" {
		if r.To, err = date.Parse(p.end); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing end date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	s, _, err := LoadSystem()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	for j := range s.Ledger.Journals() {
		if !r.Contains(j.Date) {
			continue
		}
		printJournal(j)
	}
	return subcommands.ExitSuccess
}

func printJournal(j *bahi.Journal) {
	header := fmt.Sprintf("%s  %s", j.Date, j.Description)
	if ref := j.Reference.String(); ref != "" {
		header += "  [" + ref + "]"
	}
	if j.Reversed {
		header += "  (reversed)"
	}
	fmt.Println(header)
	for _, line := range j.Lines {
		side, amount := "Dr", line.Debit
		if amount.IsZero() {
			side, amount = "Cr", line.Credit
		}
		fmt.Printf("    %-2s %-30s %12s %s\n", side, line.AccountCode, amount, line.Currency)
	}
}
