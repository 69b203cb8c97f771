package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/bahi-dev/bahi/date"
	"github.com/google/subcommands"
)

type balanceCmd struct {
	account  string
	date     string
	children bool
}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "compute an account balance as of a date" }
func (*balanceCmd) Usage() string {
	return `bahi balance -a <account> [-d <date>] [-children]

  Folds the posted journal lines of the account (and, with -children, its
  whole subtree) up to the date. Asset and expense accounts report debits
  positive; liability, income and equity accounts report credits positive.
`
}

func (p *balanceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.account, "a", "", "Account code to balance.")
	f.StringVar(&p.date, "d", "", "As-of date. Defaults to today.")
	f.BoolVar(&p.children, "children", false, "Include the account's descendants.")
}

func (p *balanceCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.account == "" {
		fmt.Fprintln(os.Stderr, "Error: -a is required.")
		return subcommands.ExitUsageError
	}
	asOf := date.Today()
	if p.date != "" {
		var err error
		if asOf, err = date.Parse(p.date); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	s, _, err := LoadSystem()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	balance, err := s.Ledger.AccountBalance(p.account, asOf, p.children)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	account, _ := s.Ledger.Account(p.account)
	fmt.Printf("%s as of %s: %s %s\n", p.account, asOf, balance, account.Currency)
	return subcommands.ExitSuccess
}
