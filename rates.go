package bahi

import (
	"github.com/shopspring/decimal"

	"github.com/bahi-dev/bahi/date"
)

// DefaultRateLookbackDays bounds how far back the converter searches for
// the nearest earlier rate when no rate exists on the requested date.
const DefaultRateLookbackDays = 7

// ExchangeRate is a historical conversion rate into the settlement
// currency, unique per (date, currency). Rates are never mutated, only
// upserted.
type ExchangeRate struct {
	Date     date.Date       `json:"date"`
	Currency string          `json:"currency"`
	Rate     decimal.Decimal `json:"rate"`
	Source   string          `json:"source,omitempty"`
}

type rateKey struct {
	on  date.Date
	cur string
}

// Rates is the historical exchange-rate store. Lookup applies an explicit
// fallback policy: the nearest earlier rate within a bounded lookback
// window. It never silently defaults to 1.0.
type Rates struct {
	settlement string
	lookback   int
	notifier   Notifier
	rates      map[rateKey]ExchangeRate
}

// NewRates creates an empty rate store converting into settlement, with
// the given fallback lookback window in days. A nil notifier disables
// change notifications.
func NewRates(settlement string, lookbackDays int, notifier Notifier) *Rates {
	if settlement == "" {
		settlement = SettlementCurrency
	}
	if lookbackDays <= 0 {
		lookbackDays = DefaultRateLookbackDays
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Rates{
		settlement: settlement,
		lookback:   lookbackDays,
		notifier:   notifier,
		rates:      make(map[rateKey]ExchangeRate),
	}
}

// AddRate upserts the rate for (on, currency). A later call with the same
// key replaces the stored rate; the store never holds duplicates.
func (r *Rates) AddRate(on date.Date, currency string, rate decimal.Decimal, source string) error {
	if on.IsZero() {
		return errValidation("date", "rate date is required")
	}
	if err := ValidateCurrency(currency); err != nil {
		return errValidation("currency", "%v", err)
	}
	if !rate.IsPositive() {
		return errValidation("rate", "rate must be positive, got %s", rate)
	}
	key := rateKey{on: on, cur: currency}
	old := ""
	if prev, ok := r.rates[key]; ok {
		old = prev.Rate.String()
	}
	r.rates[key] = ExchangeRate{Date: on, Currency: currency, Rate: rate, Source: source}
	r.notifier.Notify(ChangeEvent{
		Entity: "rate",
		ID:     currency + "@" + on.String(),
		Action: "upsert",
		Old:    old,
		New:    rate.String(),
	})
	return nil
}

// Rate returns the conversion rate from currency into the settlement
// currency on a date. When no rate exists on the exact date it falls back
// to the nearest earlier rate within the lookback window, and fails with
// RateNotFoundError beyond that. Settlement to settlement is identity.
func (r *Rates) Rate(on date.Date, currency string) (decimal.Decimal, error) {
	if currency == r.settlement {
		return decimal.NewFromInt(1), nil
	}
	if err := ValidateCurrency(currency); err != nil {
		return decimal.Decimal{}, errValidation("currency", "%v", err)
	}
	for back := 0; back <= r.lookback; back++ {
		if er, ok := r.rates[rateKey{on: on.Add(-back), cur: currency}]; ok {
			return er.Rate, nil
		}
	}
	return decimal.Decimal{}, &RateNotFoundError{Currency: currency, On: on, Lookback: r.lookback}
}

// Lookup returns the full stored record backing Rate, including which date
// the fallback resolved to and the rate's source, for audit trails. It
// resolves exactly like Rate: identity for the settlement currency, then
// the nearest earlier record within the lookback window.
func (r *Rates) Lookup(on date.Date, currency string) (ExchangeRate, error) {
	if currency == r.settlement {
		return ExchangeRate{Date: on, Currency: currency, Rate: decimal.NewFromInt(1), Source: "identity"}, nil
	}
	if err := ValidateCurrency(currency); err != nil {
		return ExchangeRate{}, errValidation("currency", "%v", err)
	}
	for back := 0; back <= r.lookback; back++ {
		if er, ok := r.rates[rateKey{on: on.Add(-back), cur: currency}]; ok {
			return er, nil
		}
	}
	return ExchangeRate{}, &RateNotFoundError{Currency: currency, On: on, Lookback: r.lookback}
}

// Convert converts an amount of currency into the settlement currency on a
// date, rounded to 2 decimal places, half away from zero.
func (r *Rates) Convert(amount decimal.Decimal, currency string, on date.Date) (decimal.Decimal, error) {
	rate, err := r.Rate(on, currency)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return amount.Mul(rate).Round(2), nil
}

// ConvertMoney is Convert for Money values; it returns the amount in the
// settlement currency.
func (r *Rates) ConvertMoney(m Money, on date.Date) (Money, error) {
	v, err := r.Convert(m.Decimal(), m.Currency(), on)
	if err != nil {
		return Money{}, err
	}
	return M(v, r.settlement), nil
}
