package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/bahi-dev/bahi"
	"github.com/google/subcommands"
)

type importCmd struct {
	file string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import a batch of transaction intents from a JSONL file" }
func (*importCmd) Usage() string {
	return `bahi import -f <file>

  Posts every intent in the file against the replayed ledger. A rejected
  intent is reported and skipped; the rest of the batch still posts. Only
  accepted intents are appended to the journal file.
`
}

func (p *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.file, "f", "", "JSONL file of transaction intents to import.")
}

func (p *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.file == "" {
		fmt.Fprintln(os.Stderr, "Error: -f is required.")
		return subcommands.ExitUsageError
	}
	in, err := os.Open(p.file)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer in.Close()
	intents, err := bahi.DecodeIntents(in)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	s, _, err := LoadSystem()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	result, err := bahi.ImportBatch(ctx, s.Ledger, intents, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	failed := make(map[int]bool, len(result.Failures))
	for _, failure := range result.Failures {
		failed[failure.Index] = true
		fmt.Fprintf(os.Stderr, "intent %d (%s): %v\n", failure.Index+1, failure.Reference, failure.Err)
	}
	for i, intent := range intents {
		if failed[i] {
			continue
		}
		if err := appendLine(*ledgerFile, intent); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing to journal file: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	fmt.Printf("Imported %d of %d intents into %s\n", len(result.Posted), len(intents), *ledgerFile)
	if len(result.Failures) > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
