package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/bahi-dev/bahi/date"
	"github.com/google/subcommands"
)

type gainsCmd struct {
	start string
	end   string
}

func (*gainsCmd) Name() string     { return "gains" }
func (*gainsCmd) Synopsis() string { return "report realized capital gains and the taxable totals" }
func (*gainsCmd) Usage() string {
	return `bahi gains [-s <start_date>] [-e <end_date>]

  Replays the trade file and reports every realized gain event in the
  range, one line per matched lot, followed by the short and long term
  totals with the long-term exemption applied.
`
}

func (p *gainsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.start, "s", "", "Start date of the range, inclusive.")
	f.StringVar(&p.end, "e", "", "End date of the range, inclusive.")
}

func (p *gainsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	s, events, err := LoadSystem()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	n := 0
	for _, ev := range events {
		if !r.Contains(ev.DisposalDate) {
			continue
		}
		events[n] = ev
		n++
		fmt.Printf("%s  %-12s %8s units held %4dd (%s)  proceeds %s  cost %s  gain %s\n",
			ev.DisposalDate, ev.Holding, ev.Quantity, ev.HoldingDays, ev.Term,
			ev.Proceeds, ev.AdjustedCost, ev.Gain)
	}
	summary := s.Summarize(events[:n])
	fmt.Printf("\nshort term: %s (taxable %s)\n", summary.ShortTotal, summary.ShortTaxable)
	fmt.Printf("long term:  %s (taxable %s after %s exemption)\n", summary.LongTotal, summary.LongTaxable, s.Exemption())
	return subcommands.ExitSuccess
}
