package compliance

import (
	"github.com/shopspring/decimal"

	"trust-reconciliation-service/internal/models"
)

// ThreeWayInput bundles the balances compared during three-way
// reconciliation. The optional adjustment fields default to zero.
type ThreeWayInput struct {
	BankStatementBalance   decimal.Decimal
	TrustLedgerBalance     decimal.Decimal
	ClientLedgers          []*models.ClientLedgerEntry
	OutstandingDeposits    decimal.Decimal
	OutstandingWithdrawals decimal.Decimal
	BankAdjustments        decimal.Decimal
}

// ThreeWayResult is the outcome of comparing the bank statement, the firm's
// trust ledger, and the summed client sub-ledgers.
type ThreeWayResult struct {
	BankStatementBalance   decimal.Decimal `json:"bank_statement_balance"`
	AdjustedBankBalance    decimal.Decimal `json:"adjusted_bank_balance"`
	TrustLedgerBalance     decimal.Decimal `json:"trust_ledger_balance"`
	ClientLedgersTotal     decimal.Decimal `json:"client_ledgers_total"`
	BankLedgerDifference   decimal.Decimal `json:"bank_ledger_difference"`
	LedgerClientDifference decimal.Decimal `json:"ledger_client_difference"`
	DiscrepancyAmount      decimal.Decimal `json:"discrepancy_amount"`
	IsReconciled           bool            `json:"is_reconciled"`
	DiscrepancyReason      string          `json:"discrepancy_reason,omitempty"`
}

// EvaluateThreeWay performs the three-way balance comparison. It is total:
// degenerate inputs (zero balances, empty ledgers) still produce a result.
//
// The bank balance is first adjusted for outstanding items the bank has not
// yet seen:
//
//	adjusted = statement + outstanding deposits - outstanding withdrawals + adjustments
//
// The account reconciles iff the adjusted bank balance agrees with the trust
// ledger AND the trust ledger agrees with the client ledger total, both
// within tolerance.
func EvaluateThreeWay(cfg *Config, in ThreeWayInput) *ThreeWayResult {
	adjusted := in.BankStatementBalance.
		Add(in.OutstandingDeposits).
		Sub(in.OutstandingWithdrawals).
		Add(in.BankAdjustments)

	clientTotal := decimal.Zero
	for _, ledger := range in.ClientLedgers {
		clientTotal = clientTotal.Add(ledger.Balance)
	}

	bankLedgerDiff := adjusted.Sub(in.TrustLedgerBalance).Abs()
	ledgerClientDiff := in.TrustLedgerBalance.Sub(clientTotal).Abs()

	bankAgrees := bankLedgerDiff.LessThanOrEqual(cfg.BalanceTolerance)
	clientAgrees := ledgerClientDiff.LessThanOrEqual(cfg.BalanceTolerance)

	result := &ThreeWayResult{
		BankStatementBalance:   in.BankStatementBalance,
		AdjustedBankBalance:    adjusted,
		TrustLedgerBalance:     in.TrustLedgerBalance,
		ClientLedgersTotal:     clientTotal,
		BankLedgerDifference:   bankLedgerDiff,
		LedgerClientDifference: ledgerClientDiff,
		DiscrepancyAmount:      decimal.Max(bankLedgerDiff, ledgerClientDiff),
		IsReconciled:           bankAgrees && clientAgrees,
	}

	switch {
	case result.IsReconciled:
		// No reason needed when everything agrees.
	case !bankAgrees && !clientAgrees:
		result.DiscrepancyReason = "Adjusted bank balance does not agree with the trust ledger, " +
			"and the trust ledger does not agree with the client ledger total."
	case !bankAgrees:
		result.DiscrepancyReason = "Adjusted bank balance does not agree with the trust ledger balance."
	default:
		result.DiscrepancyReason = "Trust ledger balance does not agree with the sum of client ledger balances."
	}

	return result
}
