package bahi

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// accountRecord is the JSONL representation of a chart-of-accounts entry.
type accountRecord struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Parent   string `json:"parent,omitempty"`
	Currency string `json:"currency,omitempty"`
}

// DecodeAccounts decodes a chart of accounts from a JSONL stream, one
// account per line. Parents must appear before their children, which a
// chart written top-down naturally satisfies.
func DecodeAccounts(r io.Reader) ([]Account, error) {
	var accounts []Account
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec accountRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("could not decode account line %q: %w", string(line), err)
		}
		typ, err := ParseAccountType(rec.Type)
		if err != nil {
			return nil, fmt.Errorf("account %q: %w", rec.Code, err)
		}
		accounts = append(accounts, Account{
			Code:       rec.Code,
			Name:       rec.Name,
			Type:       typ,
			ParentCode: rec.Parent,
			Currency:   rec.Currency,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return accounts, nil
}

// EncodeAccounts writes a chart of accounts as a JSONL stream.
func EncodeAccounts(w io.Writer, accounts []Account) error {
	enc := json.NewEncoder(w)
	for _, a := range accounts {
		rec := accountRecord{Code: a.Code, Name: a.Name, Type: a.Type.String(), Parent: a.ParentCode, Currency: a.Currency}
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return nil
}
