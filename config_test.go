package bahi

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() error = %v", err)
	}
	if cfg.SettlementCurrency != "INR" {
		t.Errorf("SettlementCurrency = %q, want INR", cfg.SettlementCurrency)
	}
	policy, err := cfg.Policy()
	if err != nil {
		t.Fatalf("Policy() error = %v", err)
	}
	days, err := policy.ThresholdFor(DebtFund)
	if err != nil {
		t.Fatalf("ThresholdFor(DebtFund) error = %v", err)
	}
	if days != 1095 {
		t.Errorf("debt-fund threshold = %d, want 1095", days)
	}
	cutoff, err := cfg.Cutoff()
	if err != nil {
		t.Fatalf("Cutoff() error = %v", err)
	}
	if cutoff.String() != "2018-01-31" {
		t.Errorf("cutoff = %s, want 2018-01-31", cutoff)
	}
	if !cfg.Exemption().Equal(M(100000, "INR")) {
		t.Errorf("exemption = %s, want 100000 INR", cfg.Exemption().Decimal())
	}
}

func TestLoadConfig(t *testing.T) {
	content := `
settlement_currency = "INR"
rate_lookback_days = 14

[grandfathering]
cutoff = "2018-01-31"
long_term_exemption = 125000.0

[[holding_policy]]
asset_class = "domestic-equity"
threshold_days = 365

[[holding_policy]]
asset_class = "unlisted"
threshold_days = 730
`
	path := filepath.Join(t.TempDir(), "bahi.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.RateLookbackDays != 14 {
		t.Errorf("RateLookbackDays = %d, want 14", cfg.RateLookbackDays)
	}
	if !cfg.Exemption().Equal(M(125000, "INR")) {
		t.Errorf("exemption = %s, want 125000", cfg.Exemption().Decimal())
	}
	// the file's policy list replaces the default one entirely
	policy, err := cfg.Policy()
	if err != nil {
		t.Fatalf("Policy() error = %v", err)
	}
	if _, err := policy.ThresholdFor(DebtFund); err == nil {
		t.Error("expected debt-fund to be unregistered with this config")
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{name: "unknown asset class", content: "[[holding_policy]]\nasset_class = \"hybrid\"\nthreshold_days = 365\n"},
		{name: "bad cutoff", content: "[grandfathering]\ncutoff = \"soon\"\n"},
		{name: "negative lookback", content: "rate_lookback_days = -1\n"},
		{name: "zero threshold", content: "[[holding_policy]]\nasset_class = \"gold\"\nthreshold_days = 0\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bahi.toml")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatalf("writing config: %v", err)
			}
			if _, err := LoadConfig(path); err == nil {
				t.Error("LoadConfig() expected error")
			}
		})
	}
}
