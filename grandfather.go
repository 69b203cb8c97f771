package bahi

import (
	"github.com/bahi-dev/bahi/date"
)

// GrandfatheredCost is the regulatory fair-market-value record for a
// holding as of a fixed cutoff date. It applies to lots acquired on or
// before the cutoff, is consulted only at disposal time, and never
// mutates a lot's stored unit cost.
type GrandfatheredCost struct {
	Cutoff     date.Date `json:"cutoff" toml:"cutoff"`
	FMVPerUnit Money     `json:"-" toml:"-"`
}

// AdjustedCost returns the per-unit cost basis to use for a disposal.
//
// Lots acquired after the cutoff keep their actual cost. For lots
// acquired on or before the cutoff the fair market value at the cutoff is
// substituted when favorable, capped at the sale price: the override can
// never manufacture a loss from a genuine gain, and never reduces the
// cost below the real purchase price.
//
//	max(actualCost, min(fmvAtCutoff, salePrice))
func AdjustedCost(actualCost Money, acquired, cutoff date.Date, fmvAtCutoff, salePrice Money) Money {
	if acquired.After(cutoff) {
		return actualCost
	}
	return Max(actualCost, Min(fmvAtCutoff, salePrice))
}
