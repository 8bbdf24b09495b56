package reporter

import (
	"time"

	"trust-reconciliation-service/internal/compliance"
)

// FlatReport is a flattened, string-keyed projection of a compliance report
// suitable for archival rows and external export pipelines that cannot
// handle nested structures. Amounts serialize as fixed two-decimal strings,
// dates as ISO-8601.
type FlatReport struct {
	ReportID             string `json:"report_id"`
	GeneratedAt          string `json:"generated_at"`
	AccountID            string `json:"account_id"`
	AccountName          string `json:"account_name,omitempty"`
	ReconciliationDate   string `json:"reconciliation_date"`
	ReconciliationPeriod string `json:"reconciliation_period"`

	BankStatementBalance string `json:"bank_statement_balance"`
	AdjustedBankBalance  string `json:"adjusted_bank_balance"`
	TrustLedgerBalance   string `json:"trust_ledger_balance"`
	ClientLedgersTotal   string `json:"client_ledgers_total"`
	DiscrepancyAmount    string `json:"discrepancy_amount"`
	IsReconciled         bool   `json:"is_reconciled"`

	ClientCount            int  `json:"client_count"`
	NegativeBalanceClients int  `json:"negative_balance_clients"`
	OverdraftDetected      bool `json:"overdraft_detected"`

	MatchedPairs          int `json:"matched_pairs"`
	UnmatchedTransactions int `json:"unmatched_transactions"`

	ReconciliationOverdue bool   `json:"reconciliation_overdue"`
	DaysOverdue           int    `json:"days_overdue"`
	NextReconciliationDue string `json:"next_reconciliation_due"`

	ComplianceScore  int    `json:"compliance_score"`
	ComplianceStatus string `json:"compliance_status"`
	IssueCount       int    `json:"issue_count"`
	CriticalIssues   int    `json:"critical_issues"`
}

// SerializeReconciliationReport flattens a compliance report into a
// FlatReport
func SerializeReconciliationReport(report *compliance.ComplianceReport) *FlatReport {
	if report == nil {
		return nil
	}

	critical := 0
	for _, issue := range report.ComplianceIssues {
		if issue.Severity.Rank() == 0 {
			critical++
		}
	}

	tw := report.ThreeWayReconciliation

	return &FlatReport{
		ReportID:             report.ReportID,
		GeneratedAt:          report.GeneratedAt.Format(time.RFC3339),
		AccountID:            report.AccountID,
		AccountName:          report.AccountName,
		ReconciliationDate:   report.ReconciliationDate.Format("2006-01-02"),
		ReconciliationPeriod: report.ReconciliationPeriod,

		BankStatementBalance: tw.BankStatementBalance.StringFixed(2),
		AdjustedBankBalance:  tw.AdjustedBankBalance.StringFixed(2),
		TrustLedgerBalance:   tw.TrustLedgerBalance.StringFixed(2),
		ClientLedgersTotal:   tw.ClientLedgersTotal.StringFixed(2),
		DiscrepancyAmount:    tw.DiscrepancyAmount.StringFixed(2),
		IsReconciled:         tw.IsReconciled,

		ClientCount:            report.ClientCount,
		NegativeBalanceClients: len(report.NegativeBalanceClients),
		OverdraftDetected:      report.OverdraftDetected,

		MatchedPairs:          report.MatchResult.Summary.MatchedPairs,
		UnmatchedTransactions: report.UnmatchedTransactionCount,

		ReconciliationOverdue: report.ReconciliationOverdue.IsOverdue,
		DaysOverdue:           report.ReconciliationOverdue.DaysOverdue,
		NextReconciliationDue: report.NextReconciliationDue.Format("2006-01-02"),

		ComplianceScore:  report.ComplianceScore,
		ComplianceStatus: string(report.ComplianceStatus),
		IssueCount:       len(report.ComplianceIssues),
		CriticalIssues:   critical,
	}
}
