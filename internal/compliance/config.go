// Package compliance implements the trust account reconciliation and
// compliance engine: three-way balance validation, zero-balance-principle
// enforcement, reconciliation scheduling checks, compliance scoring, and
// report generation.
//
// Every entry point is a pure function of its input snapshot. Business-rule
// violations are never errors; they come back as structured findings on the
// ComplianceReport. The engine performs no I/O, keeps no state between runs,
// and is safe to invoke concurrently from one goroutine per account.
package compliance

import (
	"fmt"

	"github.com/shopspring/decimal"

	"trust-reconciliation-service/internal/matcher"
)

// Config carries every threshold the engine consults. Components receive it
// explicitly so tests can exercise alternate thresholds without touching
// package state.
type Config struct {
	// BalanceTolerance is the absolute difference under which two balances
	// are treated as in agreement during three-way reconciliation.
	BalanceTolerance decimal.Decimal `json:"balance_tolerance"`

	// Negative client balance severity bands, compared against |balance|.
	NegativeCriticalAmount decimal.Decimal `json:"negative_critical_amount"`
	NegativeErrorAmount    decimal.Decimal `json:"negative_error_amount"`

	// Reconciliation overdue severity bands, in days past the due date.
	OverdueCriticalDays int `json:"overdue_critical_days"`
	OverdueErrorDays    int `json:"overdue_error_days"`
	OverdueWarningDays  int `json:"overdue_warning_days"`

	// MaterialUnmatchedAmount is the floor above which an unmatched
	// transaction affects the score and can surface as an issue.
	MaterialUnmatchedAmount decimal.Decimal `json:"material_unmatched_amount"`

	// MaxUnmatchedIssues caps how many unmatched transactions become
	// ComplianceIssue entries. The cap bounds report size; it is not a
	// representativeness guarantee.
	MaxUnmatchedIssues int `json:"max_unmatched_issues"`

	// Matching holds the tolerances handed to the transaction matcher.
	Matching *matcher.Config `json:"matching"`
}

// DefaultConfig returns the thresholds mandated by common state-bar trust
// accounting guidance.
func DefaultConfig() *Config {
	return &Config{
		BalanceTolerance:        decimal.NewFromFloat(0.01),
		NegativeCriticalAmount:  decimal.NewFromInt(1000),
		NegativeErrorAmount:     decimal.NewFromInt(100),
		OverdueCriticalDays:     30,
		OverdueErrorDays:        14,
		OverdueWarningDays:      7,
		MaterialUnmatchedAmount: decimal.NewFromInt(100),
		MaxUnmatchedIssues:      10,
		Matching:                matcher.DefaultConfig(),
	}
}

// Validate checks if the configuration is internally consistent
func (c *Config) Validate() error {
	if c.BalanceTolerance.IsNegative() {
		return fmt.Errorf("balance tolerance cannot be negative: %s", c.BalanceTolerance)
	}

	if c.NegativeErrorAmount.GreaterThan(c.NegativeCriticalAmount) {
		return fmt.Errorf("negative balance error band (%s) cannot exceed the critical band (%s)",
			c.NegativeErrorAmount, c.NegativeCriticalAmount)
	}

	if c.OverdueWarningDays > c.OverdueErrorDays || c.OverdueErrorDays > c.OverdueCriticalDays {
		return fmt.Errorf("overdue bands must be ordered warning <= error <= critical, got %d/%d/%d",
			c.OverdueWarningDays, c.OverdueErrorDays, c.OverdueCriticalDays)
	}

	if c.MaxUnmatchedIssues < 0 {
		return fmt.Errorf("max unmatched issues cannot be negative: %d", c.MaxUnmatchedIssues)
	}

	if c.Matching == nil {
		return fmt.Errorf("matching configuration is required")
	}
	if err := c.Matching.Validate(); err != nil {
		return fmt.Errorf("invalid matching configuration: %w", err)
	}

	return nil
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	clone := *c
	clone.Matching = c.Matching.Clone()
	return &clone
}
