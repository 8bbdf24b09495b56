package models

import (
	"fmt"
	"strings"
)

// InputValidation is the result of pre-flight validation of a
// ReconciliationData snapshot. It never carries a Go error: input-shape
// problems are reported as plain strings so callers can surface all of
// them at once.
type InputValidation struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// ValidateReconciliationInput checks that a snapshot has the minimum shape
// the compliance engine assumes: account identity, a parseable
// reconciliation date, a non-negative bank statement balance, and a client
// ledger list. The engine itself does not re-validate; callers are expected
// to run this first.
//
// Business-rule violations (negative client balances, discrepancies) are
// NOT input errors; they are findings the engine reports.
func ValidateReconciliationInput(data *ReconciliationData) InputValidation {
	result := InputValidation{Errors: []string{}}

	if data == nil {
		result.Errors = append(result.Errors, "reconciliation data is required")
		return result
	}

	if strings.TrimSpace(data.AccountID) == "" {
		result.Errors = append(result.Errors, "accountId is required")
	}

	if data.ReconciliationDate.IsZero() {
		result.Errors = append(result.Errors, "reconciliationDate is required and must be a valid date")
	}

	if data.BankStatementBalance.IsNegative() {
		result.Errors = append(result.Errors, "bankStatementBalance must be a non-negative amount")
	}

	if data.ClientLedgers == nil {
		result.Errors = append(result.Errors, "clientLedgers must be provided as a list")
	}

	if data.ReconciliationFrequency != "" && !data.ReconciliationFrequency.IsValid() {
		result.Errors = append(result.Errors,
			fmt.Sprintf("reconciliationFrequency '%s' is not one of daily, weekly, monthly, quarterly",
				data.ReconciliationFrequency))
	}

	result.Valid = len(result.Errors) == 0
	return result
}
