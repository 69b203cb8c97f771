package bahi

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"

	"github.com/bahi-dev/bahi/date"
)

// RateFeed describes how to extract exchange rates from a JSON feed.
// Items selects the per-day records; Date and Rate are evaluated against
// each record. Rate feeds in the wild disagree on everything, so the
// paths are configuration, not code.
type RateFeed struct {
	Currency string `json:"currency" toml:"currency"`
	Source   string `json:"source" toml:"source"`
	Items    string `json:"items" toml:"items"` // jsonpath to the array of records
	Date     string `json:"date" toml:"date"`   // jsonpath to the date within a record
	Rate     string `json:"rate" toml:"rate"`   // jsonpath to the rate within a record
}

// DecodeRateFeed reads a JSON document and extracts exchange rates
// according to the feed description.
func DecodeRateFeed(r io.Reader, feed RateFeed) ([]ExchangeRate, error) {
	if err := ValidateCurrency(feed.Currency); err != nil {
		return nil, errValidation("currency", "%v", err)
	}
	var jobj any
	if err := json.NewDecoder(r).Decode(&jobj); err != nil {
		return nil, fmt.Errorf("decoding %s feed: %w", feed.Currency, err)
	}
	jval, err := jsonpath.Get(feed.Items, jobj)
	if err != nil {
		return nil, fmt.Errorf("extracting items %q: %w", feed.Items, err)
	}
	items, ok := jval.([]any)
	if !ok {
		// jsonpath is never clear about whether it returns a list or a
		// single answer; accept a lone record too.
		items = []any{jval}
	}
	rates := make([]ExchangeRate, 0, len(items))
	for i, item := range items {
		on, err := feedDate(item, feed.Date)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		rate, err := feedRate(item, feed.Rate)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		rates = append(rates, ExchangeRate{Date: on, Currency: feed.Currency, Rate: rate, Source: feed.Source})
	}
	return rates, nil
}

func feedDate(item any, path string) (date.Date, error) {
	jval, err := jsonpath.Get(path, item)
	if err != nil {
		return date.Date{}, fmt.Errorf("extracting date %q: %w", path, err)
	}
	str, ok := jval.(string)
	if !ok {
		return date.Date{}, fmt.Errorf("date at %q is not a string: %v", path, jval)
	}
	return date.Parse(str)
}

func feedRate(item any, path string) (decimal.Decimal, error) {
	jval, err := jsonpath.Get(path, item)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("extracting rate %q: %w", path, err)
	}
	switch v := jval.(type) {
	case float64:
		return decimal.NewFromFloat(v), nil
	case string:
		// some feeds return the value as a string, comma decimal separator included
		v = strings.ReplaceAll(v, ",", ".")
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("rate at %q is not a number: %q", path, v)
		}
		return decimal.NewFromFloat(f), nil
	default:
		return decimal.Decimal{}, fmt.Errorf("rate at %q is neither float nor string: %v", path, jval)
	}
}

// DecodeRates decodes exchange rates from a JSONL stream, one rate per
// line, as produced by EncodeRates or hand-maintained rate files.
func DecodeRates(r io.Reader) ([]ExchangeRate, error) {
	var rates []ExchangeRate
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var er ExchangeRate
		if err := json.Unmarshal(line, &er); err != nil {
			return nil, fmt.Errorf("could not decode rate line %q: %w", string(line), err)
		}
		rates = append(rates, er)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return rates, nil
}

// EncodeRates writes exchange rates as a JSONL stream.
func EncodeRates(w io.Writer, rates []ExchangeRate) error {
	enc := json.NewEncoder(w)
	for _, er := range rates {
		if err := enc.Encode(er); err != nil {
			return err
		}
	}
	return nil
}

// ImportRates upserts all the given rates into the store, stopping at the
// first invalid one.
func (r *Rates) ImportRates(rates []ExchangeRate) error {
	for _, er := range rates {
		if err := r.AddRate(er.Date, er.Currency, er.Rate, er.Source); err != nil {
			return fmt.Errorf("importing %s@%s: %w", er.Currency, er.Date, err)
		}
	}
	return nil
}
