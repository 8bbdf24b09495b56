// Package matcher pairs bank statement transactions with trust ledger
// transactions for a single reconciliation run.
//
// The matcher is a three-pass greedy algorithm. Exact-key passes run first
// to minimize false positives before any fuzzy heuristics apply:
//  1. Check-number pass: equal check numbers with amounts within tolerance
//  2. Reference pass: equal reference strings with amounts within tolerance
//  3. Fuzzy pass: amount within tolerance, dates within the day window,
//     and compatible transaction types
//
// Each pass consumes only transactions left unmatched by prior passes, and a
// transaction matched in any pass is never revisited. The matcher is
// intentionally first-fit rather than optimal bipartite matching; this
// mirrors how human reconcilers triage a bank statement and keeps results
// stable and explainable.
//
// Example usage:
//
//	m := matcher.NewMatcher(matcher.DefaultConfig())
//	result := m.Match(data.BankTransactions, data.LedgerTransactions)
//	for _, u := range result.Unmatched {
//		fmt.Println(u.TransactionID(), u.Reason)
//	}
package matcher

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Config holds the tolerances governing transaction matching.
// Pass an explicit Config into NewMatcher rather than relying on package
// globals so tests can run with alternate thresholds deterministically.
type Config struct {
	// BalanceTolerance is the absolute amount difference (in account
	// currency) under which two amounts are considered equal.
	BalanceTolerance decimal.Decimal `json:"balance_tolerance"`

	// DateMatchToleranceDays is the calendar-day window for the fuzzy pass.
	// Calendar days, not business days.
	DateMatchToleranceDays int `json:"date_match_tolerance_days"`

	// AmountMatchTolerancePercent is reserved for a percentage-based
	// fuzzy-amount mode. No matching behavior reads it today; only the
	// absolute BalanceTolerance is consulted.
	AmountMatchTolerancePercent float64 `json:"amount_match_tolerance_percent"`
}

// DefaultConfig returns the matching tolerances used for state-bar trust
// account reconciliation: a one-cent balance tolerance and a five-day
// fuzzy-match window.
func DefaultConfig() *Config {
	return &Config{
		BalanceTolerance:            decimal.NewFromFloat(0.01),
		DateMatchToleranceDays:      5,
		AmountMatchTolerancePercent: 0,
	}
}

// Validate checks if the matching configuration is valid
func (c *Config) Validate() error {
	if c.BalanceTolerance.IsNegative() {
		return fmt.Errorf("balance tolerance cannot be negative: %s", c.BalanceTolerance)
	}

	if c.DateMatchToleranceDays < 0 {
		return fmt.Errorf("date match tolerance days cannot be negative: %d", c.DateMatchToleranceDays)
	}

	if c.AmountMatchTolerancePercent < 0.0 || c.AmountMatchTolerancePercent > 100.0 {
		return fmt.Errorf("amount match tolerance percent must be between 0.0 and 100.0: %f",
			c.AmountMatchTolerancePercent)
	}

	return nil
}

// Clone creates a copy of the matching configuration
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	return &Config{
		BalanceTolerance:            c.BalanceTolerance,
		DateMatchToleranceDays:      c.DateMatchToleranceDays,
		AmountMatchTolerancePercent: c.AmountMatchTolerancePercent,
	}
}

// String returns a human-readable description of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{BalanceTolerance: %s, DateTolerance: %d days}",
		c.BalanceTolerance.String(), c.DateMatchToleranceDays)
}
