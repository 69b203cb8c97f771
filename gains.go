package bahi

import (
	"fmt"

	"github.com/bahi-dev/bahi/date"
)

// Term buckets a capital gain by holding period.
type Term int

const (
	Short Term = iota
	Long
)

func (t Term) String() string {
	switch t {
	case Short:
		return "short"
	case Long:
		return "long"
	default:
		return "unknown"
	}
}

// AssetClass keys the holding-period policy. It is a closed set: an
// instrument of a new class must register a policy entry, the classifier
// never guesses.
type AssetClass int

const (
	DomesticEquity AssetClass = iota
	EquityFund
	DebtFund
	Gold
	ForeignEquity
	Unlisted
)

func (c AssetClass) String() string {
	switch c {
	case DomesticEquity:
		return "domestic-equity"
	case EquityFund:
		return "equity-fund"
	case DebtFund:
		return "debt-fund"
	case Gold:
		return "gold"
	case ForeignEquity:
		return "foreign-equity"
	case Unlisted:
		return "unlisted"
	default:
		return "unknown"
	}
}

// ParseAssetClass parses a string into an AssetClass.
func ParseAssetClass(s string) (AssetClass, error) {
	switch s {
	case "domestic-equity":
		return DomesticEquity, nil
	case "equity-fund":
		return EquityFund, nil
	case "debt-fund":
		return DebtFund, nil
	case "gold":
		return Gold, nil
	case "foreign-equity":
		return ForeignEquity, nil
	case "unlisted":
		return Unlisted, nil
	default:
		return 0, fmt.Errorf("unknown asset class: %q", s)
	}
}

// HoldingPolicy supplies the per-asset-class holding-period threshold in
// days. Thresholds are injected from configuration; there is no built-in
// default for an unregistered class.
type HoldingPolicy struct {
	thresholds map[AssetClass]int
}

// NewHoldingPolicy builds a policy from explicit threshold entries.
func NewHoldingPolicy(thresholds map[AssetClass]int) HoldingPolicy {
	own := make(map[AssetClass]int, len(thresholds))
	for class, days := range thresholds {
		own[class] = days
	}
	return HoldingPolicy{thresholds: own}
}

// ThresholdFor returns the holding-period threshold in days for a class.
// An unregistered class is a hard failure, not a default.
func (p HoldingPolicy) ThresholdFor(class AssetClass) (int, error) {
	days, ok := p.thresholds[class]
	if !ok {
		return 0, errValidation("assetClass", "no holding policy registered for %s", class)
	}
	return days, nil
}

// ClassifyTerm buckets a holding period: strictly more days than the
// threshold is long term, the threshold itself is still short term.
func ClassifyTerm(acquired, disposed date.Date, thresholdDays int) Term {
	if date.DaysBetween(acquired, disposed) > thresholdDays {
		return Long
	}
	return Short
}

// CapitalGainEvent is the derived record of one lot match of a disposal,
// with all amounts converted to the settlement currency. It is produced
// per disposal and consumed by aggregation; it is not primary state.
type CapitalGainEvent struct {
	DisposalDate    date.Date
	Holding         string
	AcquisitionDate date.Date
	Quantity        Quantity
	Proceeds        Money
	AdjustedCost    Money
	HoldingDays     int
	Term            Term
	Gain            Money
}

// ComputeGain returns proceeds minus adjusted cost minus the incidental
// costs attributable to this match.
func ComputeGain(match LotMatch, adjustedCost, incidentalCosts Money) Money {
	return match.Proceeds.Sub(adjustedCost).Sub(incidentalCosts)
}

// GainsSummary aggregates capital gain events per term bucket.
type GainsSummary struct {
	ShortTotal   Money
	LongTotal    Money
	ShortTaxable Money // short-term gains are taxable in full
	LongTaxable  Money // max(0, LongTotal - exemption)
	ShortCount   int
	LongCount    int
}

// Aggregate sums gains per term bucket. For the long-term bucket, taxable
// is the total above the exemption threshold, floored at zero. It is a
// pure fold over the events; no hidden state.
func Aggregate(events []CapitalGainEvent, longTermExemption Money) GainsSummary {
	var s GainsSummary
	for _, ev := range events {
		switch ev.Term {
		case Long:
			s.LongTotal = s.LongTotal.Add(ev.Gain)
			s.LongCount++
		default:
			s.ShortTotal = s.ShortTotal.Add(ev.Gain)
			s.ShortCount++
		}
	}
	s.ShortTaxable = s.ShortTotal
	s.LongTaxable = Max(M(0, longTermExemption.Currency()), s.LongTotal.Sub(longTermExemption))
	return s
}
