package bahi

import (
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/bahi-dev/bahi/date"
)

// Config holds the reviewable policy knobs of the kernel: settlement
// currency, rate fallback window, grandfathering cutoff and exemption,
// and the per-asset-class holding-period thresholds. Every threshold is
// an explicit entry; there is no implicit default class.
type Config struct {
	SettlementCurrency string                `toml:"settlement_currency"`
	RateLookbackDays   int                   `toml:"rate_lookback_days"`
	LogLevel           string                `toml:"log_level"`
	Grandfathering     GrandfatheringConfig  `toml:"grandfathering"`
	HoldingPolicies    []HoldingPolicyConfig `toml:"holding_policy"`
	FMV                []FMVConfig           `toml:"fmv"`
}

// GrandfatheringConfig sets the regulatory cost-basis override.
type GrandfatheringConfig struct {
	Cutoff            string  `toml:"cutoff"` // ISO date; lots acquired on or before it qualify
	LongTermExemption float64 `toml:"long_term_exemption"`
}

// HoldingPolicyConfig is one explicit holding-period threshold entry.
type HoldingPolicyConfig struct {
	AssetClass    string `toml:"asset_class"`
	ThresholdDays int    `toml:"threshold_days"`
}

// FMVConfig records a holding's fair market value per unit at the
// grandfathering cutoff. An empty currency means the settlement currency.
type FMVConfig struct {
	Holding  string  `toml:"holding"`
	Value    float64 `toml:"value"`
	Currency string  `toml:"currency"`
}

// DefaultConfig returns the configuration for Indian capital-gains rules:
// INR settlement, the 2018-01-31 grandfathering cutoff with the 1 lakh
// long-term exemption, and the standard holding thresholds per class.
func DefaultConfig() *Config {
	return &Config{
		SettlementCurrency: SettlementCurrency,
		RateLookbackDays:   DefaultRateLookbackDays,
		LogLevel:           "info",
		Grandfathering: GrandfatheringConfig{
			Cutoff:            "2018-01-31",
			LongTermExemption: 100000,
		},
		HoldingPolicies: []HoldingPolicyConfig{
			{AssetClass: "domestic-equity", ThresholdDays: 365},
			{AssetClass: "equity-fund", ThresholdDays: 365},
			{AssetClass: "debt-fund", ThresholdDays: 1095},
			{AssetClass: "gold", ThresholdDays: 1095},
			{AssetClass: "foreign-equity", ThresholdDays: 730},
			{AssetClass: "unlisted", ThresholdDays: 730},
		},
	}
}

// LoadConfig reads a TOML configuration file over the defaults: fields
// absent from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %q: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if err := ValidateCurrency(c.SettlementCurrency); err != nil {
		return err
	}
	if c.RateLookbackDays <= 0 {
		return fmt.Errorf("rate_lookback_days must be positive, got %d", c.RateLookbackDays)
	}
	if c.Grandfathering.Cutoff != "" {
		if _, err := date.Parse(c.Grandfathering.Cutoff); err != nil {
			return fmt.Errorf("grandfathering cutoff: %w", err)
		}
	}
	if c.Grandfathering.LongTermExemption < 0 {
		return fmt.Errorf("long_term_exemption must not be negative")
	}
	seen := make(map[string]bool)
	for _, p := range c.HoldingPolicies {
		if _, err := ParseAssetClass(p.AssetClass); err != nil {
			return err
		}
		if seen[p.AssetClass] {
			return fmt.Errorf("duplicate holding policy for %s", p.AssetClass)
		}
		seen[p.AssetClass] = true
		if p.ThresholdDays <= 0 {
			return fmt.Errorf("threshold for %s must be positive, got %d", p.AssetClass, p.ThresholdDays)
		}
	}
	for _, f := range c.FMV {
		if f.Holding == "" {
			return fmt.Errorf("fmv entry is missing a holding")
		}
		if f.Value < 0 {
			return fmt.Errorf("fmv for %s must not be negative", f.Holding)
		}
		if f.Currency != "" {
			if err := ValidateCurrency(f.Currency); err != nil {
				return err
			}
		}
	}
	return nil
}

// Policy builds the HoldingPolicy from the configured entries.
func (c *Config) Policy() (HoldingPolicy, error) {
	thresholds := make(map[AssetClass]int, len(c.HoldingPolicies))
	for _, p := range c.HoldingPolicies {
		class, err := ParseAssetClass(p.AssetClass)
		if err != nil {
			return HoldingPolicy{}, err
		}
		thresholds[class] = p.ThresholdDays
	}
	return NewHoldingPolicy(thresholds), nil
}

// Cutoff returns the parsed grandfathering cutoff date, or a zero date
// when grandfathering is disabled.
func (c *Config) Cutoff() (date.Date, error) {
	if c.Grandfathering.Cutoff == "" {
		return date.Date{}, nil
	}
	return date.Parse(c.Grandfathering.Cutoff)
}

// Exemption returns the long-term exemption threshold in the settlement
// currency.
func (c *Config) Exemption() Money {
	return M(c.Grandfathering.LongTermExemption, c.SettlementCurrency)
}
