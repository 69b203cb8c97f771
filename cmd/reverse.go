package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/bahi-dev/bahi"
	"github.com/google/subcommands"
)

type reverseCmd struct {
	ref string
}

func (*reverseCmd) Name() string     { return "reverse" }
func (*reverseCmd) Synopsis() string { return "reverse a posted journal by its external reference" }
func (*reverseCmd) Usage() string {
	return `bahi reverse -ref <type:id>

  Posts a mirrored journal against the entry carrying the reference and
  appends it to the journal file. The original is never edited; an entry
  already reversed is rejected.
`
}

func (p *reverseCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.ref, "ref", "", "External reference of the journal to reverse, as type:id.")
}

func (p *reverseCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ref, err := parseReference(p.ref)
	if err != nil || p.ref == "" {
		fmt.Fprintln(os.Stderr, "Error: -ref type:id is required.")
		return subcommands.ExitUsageError
	}

	s, _, err := LoadSystem()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	// Replayed reversals carry a reference of type "reversal" pointing at
	// the original's reference, so they are told apart from the original
	// and a second reverse of the same entry is refused.
	reversalRef := bahi.Reference{Type: "reversal", ID: ref.String()}
	var target *bahi.Journal
	for j := range s.Ledger.Journals() {
		if j.Reference == reversalRef {
			fmt.Fprintf(os.Stderr, "Error: journal %s is already reversed\n", ref)
			return subcommands.ExitFailure
		}
		if j.Reference == ref {
			target = j
		}
	}
	if target == nil {
		fmt.Fprintf(os.Stderr, "Error: no journal with reference %s\n", ref)
		return subcommands.ExitFailure
	}

	revID, err := s.Ledger.ReverseJournal(target.ID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reversing journal: %v\n", err)
		return subcommands.ExitFailure
	}
	rev, _ := s.Ledger.Journal(revID)
	return AppendIntent(bahi.TransactionIntent{
		Date:        rev.Date,
		Description: rev.Description,
		Reference:   reversalRef,
		Lines:       rev.Lines,
	})
}
