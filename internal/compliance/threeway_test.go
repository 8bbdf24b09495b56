package compliance

import (
	"testing"

	"github.com/shopspring/decimal"

	"trust-reconciliation-service/internal/models"
)

func clientEntry(id string, balance float64) *models.ClientLedgerEntry {
	return &models.ClientLedgerEntry{
		ClientID:   id,
		ClientName: "Client " + id,
		Balance:    decimal.NewFromFloat(balance),
	}
}

func TestEvaluateThreeWayReconciled(t *testing.T) {
	result := EvaluateThreeWay(DefaultConfig(), ThreeWayInput{
		BankStatementBalance: decimal.NewFromFloat(50000.00),
		TrustLedgerBalance:   decimal.NewFromFloat(50000.00),
		ClientLedgers: []*models.ClientLedgerEntry{
			clientEntry("C1", 30000.00),
			clientEntry("C2", 20000.00),
		},
	})

	if !result.IsReconciled {
		t.Fatalf("expected reconciled, got discrepancy %s (%s)",
			result.DiscrepancyAmount, result.DiscrepancyReason)
	}
	if result.DiscrepancyReason != "" {
		t.Errorf("expected empty reason when reconciled, got %q", result.DiscrepancyReason)
	}
	if !result.DiscrepancyAmount.IsZero() {
		t.Errorf("expected zero discrepancy, got %s", result.DiscrepancyAmount)
	}
}

func TestEvaluateThreeWayOutstandingItems(t *testing.T) {
	// Statement 50000, ledger 49500, one deposit of 500 still in transit:
	// the unadjusted comparison would be off by 1000.
	result := EvaluateThreeWay(DefaultConfig(), ThreeWayInput{
		BankStatementBalance: decimal.NewFromFloat(50000.00),
		TrustLedgerBalance:   decimal.NewFromFloat(49500.00),
		ClientLedgers: []*models.ClientLedgerEntry{
			clientEntry("C1", 49500.00),
		},
		OutstandingDeposits: decimal.NewFromFloat(500.00),
	})

	if !result.AdjustedBankBalance.Equal(decimal.NewFromFloat(50500.00)) {
		t.Errorf("expected adjusted balance 50500.00, got %s", result.AdjustedBankBalance)
	}
	if result.IsReconciled {
		t.Fatal("expected not reconciled")
	}
	if !result.BankLedgerDifference.Equal(decimal.NewFromFloat(1000.00)) {
		t.Errorf("expected bank/ledger difference 1000.00, got %s", result.BankLedgerDifference)
	}
	if !result.DiscrepancyAmount.Equal(decimal.NewFromFloat(1000.00)) {
		t.Errorf("expected discrepancy 1000.00, got %s", result.DiscrepancyAmount)
	}
}

func TestEvaluateThreeWayWithdrawalsAndAdjustments(t *testing.T) {
	result := EvaluateThreeWay(DefaultConfig(), ThreeWayInput{
		BankStatementBalance: decimal.NewFromFloat(10000.00),
		TrustLedgerBalance:   decimal.NewFromFloat(9250.00),
		ClientLedgers: []*models.ClientLedgerEntry{
			clientEntry("C1", 9250.00),
		},
		OutstandingDeposits:    decimal.NewFromFloat(200.00),
		OutstandingWithdrawals: decimal.NewFromFloat(1000.00),
		BankAdjustments:        decimal.NewFromFloat(50.00),
	})

	if !result.AdjustedBankBalance.Equal(decimal.NewFromFloat(9250.00)) {
		t.Errorf("expected adjusted balance 9250.00, got %s", result.AdjustedBankBalance)
	}
	if !result.IsReconciled {
		t.Errorf("expected reconciled after adjustments, discrepancy %s", result.DiscrepancyAmount)
	}
}

func TestEvaluateThreeWayToleranceBoundary(t *testing.T) {
	tests := []struct {
		name           string
		ledgerBalance  float64
		wantReconciled bool
	}{
		{"exactly at tolerance", 9999.99, true},
		{"just past tolerance", 9999.98, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := EvaluateThreeWay(DefaultConfig(), ThreeWayInput{
				BankStatementBalance: decimal.NewFromFloat(10000.00),
				TrustLedgerBalance:   decimal.NewFromFloat(tt.ledgerBalance),
				ClientLedgers: []*models.ClientLedgerEntry{
					clientEntry("C1", tt.ledgerBalance),
				},
			})

			if result.IsReconciled != tt.wantReconciled {
				t.Errorf("IsReconciled = %v, want %v (difference %s)",
					result.IsReconciled, tt.wantReconciled, result.BankLedgerDifference)
			}
		})
	}
}

func TestEvaluateThreeWayClientTotalMismatch(t *testing.T) {
	result := EvaluateThreeWay(DefaultConfig(), ThreeWayInput{
		BankStatementBalance: decimal.NewFromFloat(20000.00),
		TrustLedgerBalance:   decimal.NewFromFloat(20000.00),
		ClientLedgers: []*models.ClientLedgerEntry{
			clientEntry("C1", 12000.00),
			clientEntry("C2", 7500.00),
		},
	})

	if result.IsReconciled {
		t.Fatal("expected not reconciled")
	}
	if !result.LedgerClientDifference.Equal(decimal.NewFromFloat(500.00)) {
		t.Errorf("expected ledger/client difference 500.00, got %s", result.LedgerClientDifference)
	}
	if result.DiscrepancyReason == "" {
		t.Error("expected a discrepancy reason")
	}
	// Bank and ledger agree, so the reason should point at the client total.
	if result.BankLedgerDifference.GreaterThan(decimal.NewFromFloat(0.01)) {
		t.Errorf("bank/ledger difference should be within tolerance, got %s", result.BankLedgerDifference)
	}
}

func TestEvaluateThreeWayDiscrepancyIsMaxOfDifferences(t *testing.T) {
	result := EvaluateThreeWay(DefaultConfig(), ThreeWayInput{
		BankStatementBalance: decimal.NewFromFloat(10000.00),
		TrustLedgerBalance:   decimal.NewFromFloat(9700.00),
		ClientLedgers: []*models.ClientLedgerEntry{
			clientEntry("C1", 9000.00),
		},
	})

	// Bank vs ledger: 300. Ledger vs clients: 700. Max wins.
	if !result.DiscrepancyAmount.Equal(decimal.NewFromFloat(700.00)) {
		t.Errorf("expected discrepancy 700.00, got %s", result.DiscrepancyAmount)
	}
}

func TestEvaluateThreeWayEmptyClientLedgers(t *testing.T) {
	result := EvaluateThreeWay(DefaultConfig(), ThreeWayInput{
		BankStatementBalance: decimal.Zero,
		TrustLedgerBalance:   decimal.Zero,
		ClientLedgers:        nil,
	})

	if !result.IsReconciled {
		t.Error("zero balances with no clients should reconcile")
	}
	if !result.ClientLedgersTotal.IsZero() {
		t.Errorf("expected zero client total, got %s", result.ClientLedgersTotal)
	}
}
