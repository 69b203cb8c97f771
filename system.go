package bahi

import (
	"sort"

	"github.com/bahi-dev/bahi/date"
)

// System wires the kernel components together: the ledger of record, the
// exchange-rate store, the per-holding positions, the holding-period
// policy and the grandfathering records. It owns the disposal pipeline:
// lot matching, cost-basis adjustment, term classification and currency
// conversion into the settlement currency.
//
// A System is built explicitly from configuration and is caller-owned;
// there is no process-wide instance.
type System struct {
	Ledger *Ledger
	Rates  *Rates
	Policy HoldingPolicy

	cutoff    date.Date
	exemption Money
	notifier  Notifier

	positions map[positionKey]*Position
	fmv       map[string]GrandfatheredCost // by holding
}

type positionKey struct {
	holding string
	account string
}

// NewSystem builds a System from configuration. A nil notifier disables
// change notifications; a nil config uses the defaults.
func NewSystem(cfg *Config, notifier Notifier) (*System, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	policy, err := cfg.Policy()
	if err != nil {
		return nil, err
	}
	cutoff, err := cfg.Cutoff()
	if err != nil {
		return nil, err
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	fmv := make(map[string]GrandfatheredCost, len(cfg.FMV))
	for _, f := range cfg.FMV {
		currency := f.Currency
		if currency == "" {
			currency = cfg.SettlementCurrency
		}
		fmv[f.Holding] = GrandfatheredCost{Cutoff: cutoff, FMVPerUnit: M(f.Value, currency)}
	}
	return &System{
		Ledger:    NewLedger(cfg.SettlementCurrency, notifier),
		Rates:     NewRates(cfg.SettlementCurrency, cfg.RateLookbackDays, notifier),
		Policy:    policy,
		cutoff:    cutoff,
		exemption: cfg.Exemption(),
		notifier:  notifier,
		positions: make(map[positionKey]*Position),
		fmv:       fmv,
	}, nil
}

// Position returns the position for (holding, account), creating it empty
// on first use.
func (s *System) Position(holding, account string) *Position {
	key := positionKey{holding: holding, account: account}
	pos, ok := s.positions[key]
	if !ok {
		pos = NewPosition(holding, account, s.notifier)
		s.positions[key] = pos
	}
	return pos
}

// Positions returns every tracked position, sorted by holding then
// account.
func (s *System) Positions() []*Position {
	out := make([]*Position, 0, len(s.positions))
	for _, pos := range s.positions {
		out = append(out, pos)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].holding != out[j].holding {
			return out[i].holding < out[j].holding
		}
		return out[i].account < out[j].account
	})
	return out
}

// SetFMV records the fair market value per unit of a holding at the
// grandfathering cutoff. Disposals of lots acquired on or before the
// cutoff will consider it when adjusting the cost basis.
func (s *System) SetFMV(holding string, perUnit Money) {
	s.fmv[holding] = GrandfatheredCost{Cutoff: s.cutoff, FMVPerUnit: perUnit}
}

// Grandfathered returns the grandfathering record on file for a holding.
func (s *System) Grandfathered(holding string) (GrandfatheredCost, bool) {
	gc, ok := s.fmv[holding]
	return gc, ok
}

// Exemption returns the configured long-term exemption threshold.
func (s *System) Exemption() Money { return s.exemption }

// Acquire posts the intent's journal and opens a cost-basis lot. The
// journal is posted first; the lot is only recorded when the posting
// succeeds, so a rejected intent leaves no trace.
func (s *System) Acquire(intent AcquisitionIntent) (JournalID, error) {
	if !intent.Quantity.IsPositive() {
		return "", errValidation("quantity", "acquisition quantity must be positive, got %s", intent.Quantity)
	}
	if intent.UnitCost.IsNegative() {
		return "", errValidation("unitCost", "acquisition unit cost must not be negative, got %s", intent.UnitCost)
	}
	id, err := s.Ledger.PostJournal(intent.Date, intent.Description, intent.Lines, intent.Reference)
	if err != nil {
		return "", err
	}
	// AddLot cannot fail after the quantity and cost checks above.
	if err := s.Position(intent.Holding, intent.Account).AddLot(intent.Date, intent.Quantity, intent.UnitCostMoney()); err != nil {
		return "", err
	}
	return id, nil
}

// Dispose runs the full disposal pipeline: match the sold quantity
// against open lots (FIFO), adjust each matched lot's cost basis through
// grandfathering when applicable, classify the term per the holding
// policy, and convert proceeds, cost and gain into the settlement
// currency at the disposal date.
//
// The journal is posted between the availability check and the lot
// consumption: a rejected posting leaves the position untouched, and the
// single-writer model guarantees the match cannot fail after the check.
func (s *System) Dispose(intent DisposalIntent) (JournalID, []CapitalGainEvent, error) {
	class, err := ParseAssetClass(intent.AssetClass)
	if err != nil {
		return "", nil, errValidation("assetClass", "%v", err)
	}
	threshold, err := s.Policy.ThresholdFor(class)
	if err != nil {
		return "", nil, err
	}
	if !intent.Quantity.IsPositive() {
		return "", nil, errValidation("quantity", "disposal quantity must be positive, got %s", intent.Quantity)
	}
	pos := s.Position(intent.Holding, intent.Account)
	for _, l := range pos.Lots() {
		if c := l.UnitCost.Currency(); c != "" && c != intent.Currency {
			return "", nil, errValidation("currency", "lots held in %s but sale priced in %s; a holding is tracked in one currency", c, intent.Currency)
		}
	}
	if available := pos.Remaining(); available.LessThan(intent.Quantity) {
		return "", nil, &InsufficientLotsError{Holding: intent.Holding, Requested: intent.Quantity, Available: available}
	}

	// Resolve the settlement rate before posting anything: a missing rate
	// must abort the whole disposal, not leave a posted journal behind.
	currency := intent.Currency
	if currency == "" {
		currency = s.Rates.settlement
	}
	rate, err := s.Rates.Rate(intent.Date, currency)
	if err != nil {
		return "", nil, err
	}
	settle := func(m Money) Money {
		return M(m.Decimal().Mul(rate).Round(2), s.Rates.settlement)
	}

	id, err := s.Ledger.PostJournal(intent.Date, intent.Description, intent.Lines, intent.Reference)
	if err != nil {
		return "", nil, err
	}

	unitPrice := intent.UnitPriceMoney()
	matches, err := pos.MatchSale(intent.Date, intent.Quantity, unitPrice)
	if err != nil {
		return "", nil, err
	}

	events := make([]CapitalGainEvent, 0, len(matches))
	for _, match := range matches {
		perUnit := match.UnitCost
		if gc, ok := s.fmv[intent.Holding]; ok && !gc.Cutoff.IsZero() {
			perUnit = AdjustedCost(match.UnitCost, match.Acquired, gc.Cutoff, gc.FMVPerUnit, unitPrice)
		}
		costTotal := perUnit.Mul(match.Quantity)
		// incidental costs are allocated across matches by quantity share
		incidental := intent.IncidentalMoney().Mul(match.Quantity).Div(intent.Quantity)
		gain := ComputeGain(match, costTotal, incidental)

		events = append(events, CapitalGainEvent{
			DisposalDate:    intent.Date,
			Holding:         intent.Holding,
			AcquisitionDate: match.Acquired,
			Quantity:        match.Quantity,
			Proceeds:        settle(match.Proceeds),
			AdjustedCost:    settle(costTotal),
			HoldingDays:     date.DaysBetween(match.Acquired, intent.Date),
			Term:            ClassifyTerm(match.Acquired, intent.Date, threshold),
			Gain:            settle(gain),
		})
	}
	return id, events, nil
}

// Summarize aggregates capital gain events using the configured long-term
// exemption threshold.
func (s *System) Summarize(events []CapitalGainEvent) GainsSummary {
	return Aggregate(events, s.exemption)
}
