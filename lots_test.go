package bahi

import (
	"errors"
	"testing"

	"github.com/bahi-dev/bahi/date"
)

func TestPosition_MatchSale_FIFO(t *testing.T) {
	p := NewPosition("RELIANCE", "assets:broker", nil)
	if err := p.AddLot(date.MustParse("2024-01-01"), Q(10), M(100, "INR")); err != nil {
		t.Fatalf("AddLot() error = %v", err)
	}
	if err := p.AddLot(date.MustParse("2024-02-01"), Q(5), M(110, "INR")); err != nil {
		t.Fatalf("AddLot() error = %v", err)
	}

	matches, err := p.MatchSale(date.MustParse("2024-06-01"), Q(12), M(120, "INR"))
	if err != nil {
		t.Fatalf("MatchSale() error = %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("MatchSale() returned %d matches, want 2", len(matches))
	}
	// oldest lot fully consumed first
	if matches[0].Acquired.String() != "2024-01-01" || !matches[0].Quantity.Equal(Q(10)) || !matches[0].UnitCost.Equal(M(100, "INR")) {
		t.Errorf("matches[0] = %+v, want 10 units of the 2024-01-01 lot at 100", matches[0])
	}
	if matches[1].Acquired.String() != "2024-02-01" || !matches[1].Quantity.Equal(Q(2)) || !matches[1].UnitCost.Equal(M(110, "INR")) {
		t.Errorf("matches[1] = %+v, want 2 units of the 2024-02-01 lot at 110", matches[1])
	}
	// proceeds are split by matched quantity
	if !matches[0].Proceeds.Equal(M(1200, "INR")) || !matches[1].Proceeds.Equal(M(240, "INR")) {
		t.Errorf("proceeds = %s, %s, want 1200 and 240", matches[0].Proceeds, matches[1].Proceeds)
	}

	// the partially consumed lot keeps its remainder at the head
	open := p.Lots()
	if len(open) != 1 || open[0].Acquired.String() != "2024-02-01" || !open[0].Quantity.Equal(Q(3)) {
		t.Errorf("open lots = %+v, want a single 3-unit remainder of the 2024-02-01 lot", open)
	}
}

func TestPosition_MatchSale_InsufficientLots(t *testing.T) {
	p := NewPosition("TCS", "assets:broker", nil)
	if err := p.AddLot(date.MustParse("2024-01-01"), Q(5), M(100, "INR")); err != nil {
		t.Fatalf("AddLot() error = %v", err)
	}
	if err := p.AddLot(date.MustParse("2024-02-01"), Q(3), M(110, "INR")); err != nil {
		t.Fatalf("AddLot() error = %v", err)
	}
	before := p.Snapshot()

	_, err := p.MatchSale(date.MustParse("2024-06-01"), Q(10), M(120, "INR"))
	var insufficient *InsufficientLotsError
	if !errors.As(err, &insufficient) {
		t.Fatalf("MatchSale() error = %v, want InsufficientLotsError", err)
	}
	if !insufficient.Requested.Equal(Q(10)) || !insufficient.Available.Equal(Q(8)) {
		t.Errorf("InsufficientLotsError = %+v, want requested 10 available 8", insufficient)
	}

	// the failed call mutated no lot state
	after := p.Snapshot()
	if !after.TotalQuantity.Equal(before.TotalQuantity) || !after.WeightedAverageCost.Equal(before.WeightedAverageCost) {
		t.Errorf("position changed after failed match: before %+v, after %+v", before, after)
	}
	if got := len(p.Lots()); got != 2 {
		t.Errorf("open lots after failed match = %d, want 2", got)
	}
}

func TestPosition_AddLot_Rejections(t *testing.T) {
	p := NewPosition("TCS", "assets:broker", nil)
	var verr *ValidationError
	if err := p.AddLot(date.Today(), Q(0), M(100, "INR")); !errors.As(err, &verr) {
		t.Errorf("AddLot(zero quantity) error = %v, want ValidationError", err)
	}
	if err := p.AddLot(date.Today(), Q(-5), M(100, "INR")); !errors.As(err, &verr) {
		t.Errorf("AddLot(negative quantity) error = %v, want ValidationError", err)
	}
	if err := p.AddLot(date.Today(), Q(5), M(-1, "INR")); !errors.As(err, &verr) {
		t.Errorf("AddLot(negative cost) error = %v, want ValidationError", err)
	}
}

func TestPosition_Snapshot(t *testing.T) {
	p := NewPosition("INFY", "assets:broker", nil)
	empty := p.Snapshot()
	if !empty.TotalQuantity.IsZero() {
		t.Errorf("empty snapshot quantity = %s, want 0", empty.TotalQuantity)
	}

	if err := p.AddLot(date.MustParse("2024-01-01"), Q(10), M(100, "INR")); err != nil {
		t.Fatalf("AddLot() error = %v", err)
	}
	if err := p.AddLot(date.MustParse("2024-02-01"), Q(5), M(110, "INR")); err != nil {
		t.Fatalf("AddLot() error = %v", err)
	}
	snap := p.Snapshot()
	if !snap.TotalQuantity.Equal(Q(15)) {
		t.Errorf("snapshot quantity = %s, want 15", snap.TotalQuantity)
	}
	// (10*100 + 5*110) / 15 = 103.33
	if got := snap.WeightedAverageCost.Decimal().Round(2); !got.Equal(dec("103.33")) {
		t.Errorf("weighted average cost = %s, want 103.33", got)
	}

	// a partial sale shifts the average toward the newer lot
	if _, err := p.MatchSale(date.MustParse("2024-03-01"), Q(10), M(120, "INR")); err != nil {
		t.Fatalf("MatchSale() error = %v", err)
	}
	snap = p.Snapshot()
	if !snap.TotalQuantity.Equal(Q(5)) || !snap.WeightedAverageCost.Equal(M(110, "INR")) {
		t.Errorf("snapshot after sale = %+v, want 5 units at 110", snap)
	}
}
