package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/bahi-dev/bahi"
	"github.com/bahi-dev/bahi/date"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type addRateCmd struct {
	date     string
	currency string
	rate     string
	source   string
}

func (*addRateCmd) Name() string     { return "add-rate" }
func (*addRateCmd) Synopsis() string { return "record an exchange rate into the settlement currency" }
func (*addRateCmd) Usage() string {
	return `bahi add-rate -c <currency> -r <rate> [-d <date>] [-source <source>]

  Records the conversion rate of one unit of the currency into the
  settlement currency on the date. Recording the same (date, currency)
  again replaces the stored rate.
`
}

func (p *addRateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.date, "d", "", "Rate date. Defaults to today.")
	f.StringVar(&p.currency, "c", "", "Currency the rate converts from.")
	f.StringVar(&p.rate, "r", "", "Units of settlement currency per unit of the currency.")
	f.StringVar(&p.source, "source", "manual", "Where the rate came from.")
}

func (p *addRateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.currency == "" || p.rate == "" {
		fmt.Fprintln(os.Stderr, "Error: -c and -r are required.")
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
	rate, err := decimal.NewFromString(p.rate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing rate: %v\n", err)
		return subcommands.ExitUsageError
	}

	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	// validate against a scratch store before touching the rates file
	scratch := bahi.NewRates(cfg.SettlementCurrency, cfg.RateLookbackDays, nil)
	if err := scratch.AddRate(on, p.currency, rate, p.source); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	er := bahi.ExchangeRate{Date: on, Currency: p.currency, Rate: rate, Source: p.source}
	if err := appendLine(*ratesFile, er); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing to rates file: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Recorded %s@%s = %s into %s\n", p.currency, on, rate, *ratesFile)
	return subcommands.ExitSuccess
}
