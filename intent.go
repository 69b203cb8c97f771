package bahi

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/bahi-dev/bahi/date"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// TransactionIntent is the normalized record produced by statement
// parsers and importers. Its lines are passed directly to PostJournal.
type TransactionIntent struct {
	Date        date.Date     `json:"date"`
	Description string        `json:"description"`
	Reference   Reference     `json:"reference,omitempty"`
	Lines       []JournalLine `json:"lines"`
}

// AcquisitionIntent is a transaction intent that additionally opens a
// cost-basis lot for a holding.
type AcquisitionIntent struct {
	TransactionIntent
	Holding  string          `json:"holding"`
	Account  string          `json:"account"`
	Quantity Quantity        `json:"quantity"`
	UnitCost decimal.Decimal `json:"unitCost"`
	Currency string          `json:"currency"`
}

// UnitCostMoney returns the per-unit acquisition cost as Money.
func (a AcquisitionIntent) UnitCostMoney() Money { return M(a.UnitCost, a.Currency) }

// DisposalIntent is a transaction intent that additionally consumes lots
// of a holding and yields capital gain events.
type DisposalIntent struct {
	TransactionIntent
	Holding         string          `json:"holding"`
	Account         string          `json:"account"`
	AssetClass      string          `json:"assetClass"`
	Quantity        Quantity        `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	Currency        string          `json:"currency"`
	IncidentalCosts decimal.Decimal `json:"incidentalCosts,omitempty"`
}

// UnitPriceMoney returns the per-unit sale price as Money.
func (d DisposalIntent) UnitPriceMoney() Money { return M(d.UnitPrice, d.Currency) }

// IncidentalMoney returns the disposal's incidental costs as Money.
func (d DisposalIntent) IncidentalMoney() Money { return M(d.IncidentalCosts, d.Currency) }

// DecodeIntents decodes transaction intents from a JSONL stream, one
// intent per line. Empty lines are skipped.
func DecodeIntents(r io.Reader) ([]TransactionIntent, error) {
	var intents []TransactionIntent
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var intent TransactionIntent
		if err := json.Unmarshal(line, &intent); err != nil {
			return nil, fmt.Errorf("could not decode intent line %q: %w", string(line), err)
		}
		intents = append(intents, intent)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return intents, nil
}

// EncodeIntents writes transaction intents as a JSONL stream.
func EncodeIntents(w io.Writer, intents []TransactionIntent) error {
	enc := json.NewEncoder(w)
	for _, intent := range intents {
		if err := enc.Encode(intent); err != nil {
			return err
		}
	}
	return nil
}
