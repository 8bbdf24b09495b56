package compliance

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"trust-reconciliation-service/internal/models"
)

func TestDetectNegativeBalancesSeverityBands(t *testing.T) {
	tests := []struct {
		name    string
		balance float64
		want    models.Severity
	}{
		{"just under error band", -99.99, models.SeverityWarning},
		{"exactly at error band", -100.00, models.SeverityError},
		{"between bands", -999.99, models.SeverityError},
		{"exactly at critical band", -1000.00, models.SeverityCritical},
		{"deep shortfall", -25000.00, models.SeverityCritical},
		{"tiny shortfall", -0.01, models.SeverityWarning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violators := DetectNegativeBalances(DefaultConfig(), []*models.ClientLedgerEntry{
				clientEntry("C1", tt.balance),
			})

			if len(violators) != 1 {
				t.Fatalf("expected 1 violator, got %d", len(violators))
			}
			if violators[0].Severity != tt.want {
				t.Errorf("severity = %s, want %s", violators[0].Severity, tt.want)
			}
		})
	}
}

func TestDetectNegativeBalancesSkipsNonNegative(t *testing.T) {
	violators := DetectNegativeBalances(DefaultConfig(), []*models.ClientLedgerEntry{
		clientEntry("C1", 0),
		clientEntry("C2", 1500.00),
	})

	if len(violators) != 0 {
		t.Errorf("expected no violators, got %d", len(violators))
	}
}

func TestDetectNegativeBalancesOrdering(t *testing.T) {
	violators := DetectNegativeBalances(DefaultConfig(), []*models.ClientLedgerEntry{
		clientEntry("warn-small", -10.00),
		clientEntry("crit-small", -1000.00),
		clientEntry("err", -500.00),
		clientEntry("crit-big", -8000.00),
		clientEntry("warn-big", -50.00),
	})

	want := []string{"crit-big", "crit-small", "err", "warn-big", "warn-small"}
	if len(violators) != len(want) {
		t.Fatalf("expected %d violators, got %d", len(want), len(violators))
	}
	for i, id := range want {
		if violators[i].ClientID != id {
			t.Errorf("position %d: got %s, want %s", i, violators[i].ClientID, id)
		}
	}
}

func TestNegativeBalanceViolationMessage(t *testing.T) {
	violators := DetectNegativeBalances(DefaultConfig(), []*models.ClientLedgerEntry{
		{
			ClientID:   "CLT-042",
			ClientName: "Doe Estate",
			Balance:    decimal.NewFromFloat(-250.75),
		},
	})

	if len(violators) != 1 {
		t.Fatalf("expected 1 violator, got %d", len(violators))
	}

	v := violators[0]
	if !strings.Contains(v.Violation, "Doe Estate") || !strings.Contains(v.Violation, "CLT-042") {
		t.Errorf("violation should identify the client: %q", v.Violation)
	}
	if !strings.Contains(v.Violation, "$250.75") {
		t.Errorf("violation should state the shortfall: %q", v.Violation)
	}
}

func TestHasCriticalViolation(t *testing.T) {
	none := DetectNegativeBalances(DefaultConfig(), []*models.ClientLedgerEntry{
		clientEntry("C1", -50.00),
	})
	if HasCriticalViolation(none) {
		t.Error("warning-only violators should not be critical")
	}

	some := DetectNegativeBalances(DefaultConfig(), []*models.ClientLedgerEntry{
		clientEntry("C1", -50.00),
		clientEntry("C2", -5000.00),
	})
	if !HasCriticalViolation(some) {
		t.Error("expected critical violation to be detected")
	}
}
