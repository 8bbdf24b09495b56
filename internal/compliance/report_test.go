package compliance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"trust-reconciliation-service/internal/models"
)

func cleanSnapshot() *models.ReconciliationData {
	last := time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)
	return &models.ReconciliationData{
		AccountID:            "TRUST-001",
		AccountName:          "Firm IOLTA Account",
		ReconciliationDate:   time.Date(2024, 7, 31, 0, 0, 0, 0, time.UTC),
		BankStatementBalance: decimal.NewFromFloat(50000.00),
		TrustLedgerBalance:   decimal.NewFromFloat(50000.00),
		ClientLedgers: []*models.ClientLedgerEntry{
			clientEntry("C1", 30000.00),
			clientEntry("C2", 20000.00),
		},
		LastReconciliationDate:  &last,
		ReconciliationFrequency: models.FrequencyMonthly,
		PerformedBy:             "bookkeeper",
	}
}

func testGenerator() *Generator {
	return NewGeneratorWithDeps(nil,
		fixedClock{at: time.Date(2024, 8, 1, 12, 0, 0, 0, time.UTC)},
		&sequenceIDs{})
}

func TestGenerateReportCleanAccount(t *testing.T) {
	report := testGenerator().GenerateReport(cleanSnapshot())

	if report.ComplianceScore != 100 {
		t.Errorf("expected score 100, got %d", report.ComplianceScore)
	}
	if report.ComplianceStatus != StatusCompliant {
		t.Errorf("expected compliant, got %s", report.ComplianceStatus)
	}
	if len(report.ComplianceIssues) != 0 {
		t.Errorf("expected no issues, got %d", len(report.ComplianceIssues))
	}
	if report.OverdraftDetected {
		t.Error("no negative balances expected")
	}
	if report.ReconciliationPeriod != "July 2024" {
		t.Errorf("expected period 'July 2024', got %q", report.ReconciliationPeriod)
	}
	if report.GeneratedBy != "bookkeeper" {
		t.Errorf("expected generated_by from snapshot, got %q", report.GeneratedBy)
	}

	wantDue := time.Date(2024, 8, 30, 0, 0, 0, 0, time.UTC)
	if !report.NextReconciliationDue.Equal(wantDue) {
		t.Errorf("next due = %s, want %s", report.NextReconciliationDue, wantDue)
	}

	if len(report.Recommendations) != 2 {
		t.Fatalf("expected good-standing and retention recommendations, got %v", report.Recommendations)
	}
	if !strings.Contains(report.Recommendations[0], "good standing") {
		t.Errorf("unexpected first recommendation: %q", report.Recommendations[0])
	}
}

func TestGenerateReportDeterministic(t *testing.T) {
	first := testGenerator().GenerateReport(cleanSnapshot())
	second := testGenerator().GenerateReport(cleanSnapshot())

	a, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal first: %v", err)
	}
	b, err := json.Marshal(second)
	if err != nil {
		t.Fatalf("marshal second: %v", err)
	}

	if !bytes.Equal(a, b) {
		t.Error("same snapshot and dependencies must produce identical reports")
	}

	if !strings.HasPrefix(first.ReportID, "TRST-20240801T120000Z-") {
		t.Errorf("unexpected report id: %s", first.ReportID)
	}
}

func TestGenerateReportNegativeBalanceIssues(t *testing.T) {
	data := cleanSnapshot()
	data.ClientLedgers = append(data.ClientLedgers, clientEntry("C3", -2500.00))

	report := testGenerator().GenerateReport(data)

	if !report.OverdraftDetected {
		t.Fatal("expected overdraft detection")
	}
	if report.ComplianceStatus != StatusNonCompliant {
		t.Errorf("critical violator should force non_compliant, got %s", report.ComplianceStatus)
	}

	var issue *ComplianceIssue
	for _, i := range report.ComplianceIssues {
		if i.Type == models.IssueNegativeBalance {
			issue = i
			break
		}
	}
	if issue == nil {
		t.Fatal("expected a negative_balance issue")
	}
	if issue.Severity != models.SeverityCritical {
		t.Errorf("expected critical issue, got %s", issue.Severity)
	}
	if issue.AffectedEntity != "C3" {
		t.Errorf("expected affected entity C3, got %s", issue.AffectedEntity)
	}
	if issue.RegulatoryReference == "" {
		t.Error("negative balance issues should cite the rule")
	}
}

func TestGenerateReportDiscrepancyIssueSeverity(t *testing.T) {
	tests := []struct {
		name          string
		ledgerBalance float64
		want          models.Severity
	}{
		{"material discrepancy", 49800.00, models.SeverityError},
		{"minor discrepancy", 49999.95, models.SeverityWarning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := cleanSnapshot()
			data.TrustLedgerBalance = decimal.NewFromFloat(tt.ledgerBalance)

			report := testGenerator().GenerateReport(data)

			var issue *ComplianceIssue
			for _, i := range report.ComplianceIssues {
				if i.Type == models.IssueDiscrepancyDetected {
					issue = i
					break
				}
			}
			if issue == nil {
				t.Fatal("expected a discrepancy_detected issue")
			}
			if issue.Severity != tt.want {
				t.Errorf("severity = %s, want %s", issue.Severity, tt.want)
			}
		})
	}
}

func TestGenerateReportUnmatchedIssueCap(t *testing.T) {
	data := cleanSnapshot()
	for i := 0; i < 12; i++ {
		data.BankTransactions = append(data.BankTransactions, &models.BankTransaction{
			TransactionID: fmt.Sprintf("BT%03d", i),
			Date:          data.ReconciliationDate,
			Amount:        decimal.NewFromFloat(400.00),
			Type:          models.TransactionTypeCredit,
			Cleared:       true,
		})
	}

	report := testGenerator().GenerateReport(data)

	if report.UnmatchedTransactionCount != 12 {
		t.Fatalf("expected 12 unmatched transactions, got %d", report.UnmatchedTransactionCount)
	}

	unmatchedIssues := 0
	for _, i := range report.ComplianceIssues {
		if i.Type == models.IssueUnmatchedTransaction {
			unmatchedIssues++
		}
	}
	if unmatchedIssues != 10 {
		t.Errorf("expected issue cap of 10, got %d", unmatchedIssues)
	}
}

func TestGenerateReportOverdueIssue(t *testing.T) {
	data := cleanSnapshot()
	last := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	data.LastReconciliationDate = &last

	report := testGenerator().GenerateReport(data)

	var issue *ComplianceIssue
	for _, i := range report.ComplianceIssues {
		if i.Type == models.IssueReconciliationOverdue {
			issue = i
			break
		}
	}
	if issue == nil {
		t.Fatal("expected a reconciliation_overdue issue")
	}
	if issue.Severity != models.SeverityCritical {
		t.Errorf("61 days past due should be critical, got %s", issue.Severity)
	}
	if issue.AffectedEntity != "TRUST-001" {
		t.Errorf("expected account as affected entity, got %s", issue.AffectedEntity)
	}
}

func TestRecommendationOrdering(t *testing.T) {
	data := cleanSnapshot()
	data.ClientLedgers = append(data.ClientLedgers, clientEntry("C3", -2500.00))
	data.TrustLedgerBalance = decimal.NewFromFloat(47500.00)
	data.LastReconciliationDate = nil

	report := testGenerator().GenerateReport(data)

	recs := report.Recommendations
	if len(recs) < 3 {
		t.Fatalf("expected multiple recommendations, got %v", recs)
	}
	if !strings.HasPrefix(recs[0], "URGENT") || !strings.Contains(recs[0], "negative balance") {
		t.Errorf("negative balances must lead: %q", recs[0])
	}
	if !strings.HasPrefix(recs[1], "URGENT") || !strings.Contains(recs[1], "overdue") {
		t.Errorf("critical overdue must follow: %q", recs[1])
	}
	last := recs[len(recs)-1]
	if !strings.Contains(last, "Retain this report") {
		t.Errorf("retention reminder must be last: %q", last)
	}
	for _, rec := range recs {
		if strings.Contains(rec, "good standing") {
			t.Errorf("good-standing fallback must not appear with findings: %q", rec)
		}
	}
}

func TestDiscrepancyDirectionGuidance(t *testing.T) {
	// Bank above ledger.
	high := cleanSnapshot()
	high.TrustLedgerBalance = decimal.NewFromFloat(49000.00)
	high.ClientLedgers = []*models.ClientLedgerEntry{clientEntry("C1", 49000.00)}

	report := testGenerator().GenerateReport(high)
	found := false
	for _, rec := range report.Recommendations {
		if strings.Contains(rec, "bank balance exceeds the trust ledger") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected bank-over-ledger guidance in %v", report.Recommendations)
	}

	// Ledger above bank.
	low := cleanSnapshot()
	low.TrustLedgerBalance = decimal.NewFromFloat(51000.00)
	low.ClientLedgers = []*models.ClientLedgerEntry{clientEntry("C1", 51000.00)}

	report = testGenerator().GenerateReport(low)
	found = false
	for _, rec := range report.Recommendations {
		if strings.Contains(rec, "trust ledger exceeds the adjusted bank balance") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected ledger-over-bank guidance in %v", report.Recommendations)
	}
}

func TestActivitySummaryLedgerOnly(t *testing.T) {
	data := cleanSnapshot()
	date := data.ReconciliationDate
	data.LedgerTransactions = []*models.LedgerTransaction{
		{TransactionID: "LT001", Date: date, Amount: decimal.NewFromFloat(5000.00), Type: models.LedgerEntryDeposit, Reconciled: true},
		{TransactionID: "LT002", Date: date, Amount: decimal.NewFromFloat(1200.00), Type: models.LedgerEntryWithdrawal, Reconciled: true},
		{TransactionID: "LT003", Date: date, Amount: decimal.NewFromFloat(300.00), Type: models.LedgerEntryTransfer, Reconciled: false},
	}
	// Bank transactions must not leak into the activity summary.
	data.BankTransactions = []*models.BankTransaction{
		{TransactionID: "BT001", Date: date, Amount: decimal.NewFromFloat(99999.00), Type: models.TransactionTypeCredit, Cleared: true},
	}

	report := testGenerator().GenerateReport(data)
	s := report.Summary

	if !s.TotalDeposits.Equal(decimal.NewFromFloat(5000.00)) {
		t.Errorf("deposits = %s, want 5000.00", s.TotalDeposits)
	}
	if !s.TotalWithdrawals.Equal(decimal.NewFromFloat(1200.00)) {
		t.Errorf("withdrawals = %s, want 1200.00", s.TotalWithdrawals)
	}
	if !s.NetChange.Equal(decimal.NewFromFloat(3800.00)) {
		t.Errorf("net change = %s, want 3800.00", s.NetChange)
	}
	if s.TransactionCount != 3 {
		t.Errorf("transaction count = %d, want 3", s.TransactionCount)
	}
	if s.ReconciledCount != 2 || s.PendingCount != 1 {
		t.Errorf("reconciled/pending = %d/%d, want 2/1", s.ReconciledCount, s.PendingCount)
	}
}
