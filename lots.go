package bahi

import (
	"github.com/bahi-dev/bahi/date"
)

// lot is a single acquisition of a holding. Remaining decreases as sales
// consume the lot; a fully consumed lot is removed from its position.
type lot struct {
	acquired  date.Date
	quantity  Quantity
	unitCost  Money
	remaining Quantity
}

// LotMatch records the part of a sale matched against one lot.
type LotMatch struct {
	Acquired date.Date
	Quantity Quantity
	UnitCost Money
	Proceeds Money // this match's share of the sale proceeds
}

// PositionSnapshot is a derived, read-only view of a position. It never
// drives matching order.
type PositionSnapshot struct {
	TotalQuantity       Quantity
	WeightedAverageCost Money
}

// Position holds the FIFO-ordered open lots of one holding in one account.
// It is single-writer: matches and additions are sequential, indivisible
// operations.
type Position struct {
	holding  string
	account  string
	lots     []lot
	notifier Notifier
}

// NewPosition creates an empty position for a holding in an account.
// A nil notifier disables change notifications.
func NewPosition(holding, account string, notifier Notifier) *Position {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Position{holding: holding, account: account, notifier: notifier}
}

// Holding returns the identity of the held instrument.
func (p *Position) Holding() string { return p.holding }

// Account returns the account code the position is held in.
func (p *Position) Account() string { return p.account }

// AddLot appends an acquisition to the tail of the position's lot
// sequence. Quantity must be positive.
func (p *Position) AddLot(on date.Date, quantity Quantity, unitCost Money) error {
	if !quantity.IsPositive() {
		return errValidation("quantity", "lot quantity must be positive, got %s", quantity)
	}
	if unitCost.IsNegative() {
		return errValidation("unitCost", "lot unit cost must not be negative")
	}
	p.lots = append(p.lots, lot{acquired: on, quantity: quantity, unitCost: unitCost, remaining: quantity})
	p.notifier.Notify(ChangeEvent{
		Entity: "lot",
		ID:     p.holding + "@" + on.String(),
		Action: "create",
		New:    quantity.String(),
	})
	return nil
}

// Remaining returns the total unconsumed quantity across all lots.
func (p *Position) Remaining() Quantity {
	total := Q(0)
	for _, l := range p.lots {
		total = total.Add(l.remaining)
	}
	return total
}

// MatchSale consumes quantity from the open lots, oldest first, and
// returns the ordered matches. The call is all-or-nothing: when the
// position holds less than the requested quantity it fails with
// InsufficientLotsError and mutates no lot state.
func (p *Position) MatchSale(on date.Date, quantity Quantity, unitPrice Money) ([]LotMatch, error) {
	if !quantity.IsPositive() {
		return nil, errValidation("quantity", "sale quantity must be positive, got %s", quantity)
	}
	if available := p.Remaining(); available.LessThan(quantity) {
		return nil, &InsufficientLotsError{Holding: p.holding, Requested: quantity, Available: available}
	}

	// Plan the consumption over lot indices first, then commit. The
	// availability check above guarantees the plan completes, so the
	// stored lots are never left half consumed.
	type draw struct {
		index int
		taken Quantity
	}
	var plan []draw
	needed := quantity
	for i := range p.lots {
		if needed.IsZero() {
			break
		}
		if p.lots[i].remaining.IsZero() {
			continue
		}
		taken := minQuantity(p.lots[i].remaining, needed)
		plan = append(plan, draw{index: i, taken: taken})
		needed = needed.Sub(taken)
	}

	matches := make([]LotMatch, 0, len(plan))
	for _, d := range plan {
		l := &p.lots[d.index]
		l.remaining = l.remaining.Sub(d.taken)
		matches = append(matches, LotMatch{
			Acquired: l.acquired,
			Quantity: d.taken,
			UnitCost: l.unitCost,
			Proceeds: unitPrice.Mul(d.taken),
		})
	}
	p.compact()
	p.notifier.Notify(ChangeEvent{
		Entity: "lot",
		ID:     p.holding + "@" + on.String(),
		Action: "consume",
		Old:    quantity.Add(p.Remaining()).String(),
		New:    p.Remaining().String(),
	})
	return matches, nil
}

// compact removes fully consumed lots, keeping a partially consumed lot
// with its remainder at the head.
func (p *Position) compact() {
	open := p.lots[:0]
	for _, l := range p.lots {
		if !l.remaining.IsZero() {
			open = append(open, l)
		}
	}
	p.lots = open
}

// Snapshot returns the total open quantity and the weighted average cost
// of the remaining lots.
func (p *Position) Snapshot() PositionSnapshot {
	total := Q(0)
	cost := Money{}
	for _, l := range p.lots {
		total = total.Add(l.remaining)
		cost = cost.Add(l.unitCost.Mul(l.remaining))
	}
	snap := PositionSnapshot{TotalQuantity: total}
	if !total.IsZero() {
		snap.WeightedAverageCost = cost.Div(total)
	}
	return snap
}

// Lots returns a copy of the open lots in FIFO order, for reporting.
func (p *Position) Lots() []LotMatch {
	out := make([]LotMatch, 0, len(p.lots))
	for _, l := range p.lots {
		out = append(out, LotMatch{Acquired: l.acquired, Quantity: l.remaining, UnitCost: l.unitCost})
	}
	return out
}
