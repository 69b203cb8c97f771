package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/bahi-dev/bahi"
	"github.com/google/subcommands"
)

type importRatesCmd struct {
	file     string
	currency string
	source   string
	items    string
	date     string
	rate     string
}

func (*importRatesCmd) Name() string     { return "import-rates" }
func (*importRatesCmd) Synopsis() string { return "extract exchange rates from a JSON feed dump" }
func (*importRatesCmd) Usage() string {
	return `bahi import-rates -f <file> -c <currency> [-items <path>] [-date <path>] [-rate <path>] [-source <source>]

  Extracts per-day rates from a JSON document using jsonpath expressions
  and appends them to the rates file. The default paths fit feeds shaped
  like {"data": [{"day": "2024-04-01", "close": 83.5}, ...]}.
`
}

func (p *importRatesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.file, "f", "", "JSON file holding the feed dump.")
	f.StringVar(&p.currency, "c", "", "Currency the feed quotes.")
	f.StringVar(&p.source, "source", "feed", "Where the rates came from.")
	f.StringVar(&p.items, "items", "$.data", "jsonpath to the array of per-day records.")
	f.StringVar(&p.date, "date", "$.day", "jsonpath to the date within a record.")
	f.StringVar(&p.rate, "rate", "$.close", "jsonpath to the rate within a record.")
}

func (p *importRatesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.file == "" || p.currency == "" {
		fmt.Fprintln(os.Stderr, "Error: -f and -c are required.")
		return subcommands.ExitUsageError
	}
	in, err := os.Open(p.file)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer in.Close()

	feed := bahi.RateFeed{
		Currency: p.currency,
		Source:   p.source,
		Items:    p.items,
		Date:     p.date,
		Rate:     p.rate,
	}
	rates, err := bahi.DecodeRateFeed(in, feed)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	out, err := os.OpenFile(*ratesFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening rates file: %v\n", err)
		return subcommands.ExitFailure
	}
	defer out.Close()
	if err := bahi.EncodeRates(out, rates); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing to rates file: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Imported %d %s rates into %s\n", len(rates), p.currency, *ratesFile)
	return subcommands.ExitSuccess
}
