package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type lotsCmd struct {
	holding string
}

func (*lotsCmd) Name() string     { return "lots" }
func (*lotsCmd) Synopsis() string { return "list the open cost-basis lots per holding" }
func (*lotsCmd) Usage() string {
	return `bahi lots [-holding <id>]

  Replays the trade file and lists every open lot in matching order,
  oldest first, with the position's total and weighted average cost.
`
}

func (p *lotsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.holding, "holding", "", "Only show this holding.")
}

func (p *lotsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, _, err := LoadSystem()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	for _, pos := range s.Positions() {
		if p.holding != "" && pos.Holding() != p.holding {
			continue
		}
		snap := pos.Snapshot()
		if snap.TotalQuantity.IsZero() {
			continue
		}
		fmt.Printf("%s in %s: %s units, avg cost %s\n", pos.Holding(), pos.Account(), snap.TotalQuantity, snap.WeightedAverageCost)
		for _, l := range pos.Lots() {
			fmt.Printf("    %s  %10s @ %s\n", l.Acquired, l.Quantity, l.UnitCost)
		}
	}
	return subcommands.ExitSuccess
}
