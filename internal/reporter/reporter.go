// Package reporter renders compliance reports for human and machine
// consumption.
//
// Supported output formats:
//   - Console: sectioned plain-text output for terminal review
//   - JSON: the full report structure for programmatic consumption
//   - CSV: one row per compliance issue for spreadsheet triage
package reporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"trust-reconciliation-service/internal/compliance"
)

// OutputFormat represents the supported report output formats
type OutputFormat string

const (
	FormatConsole OutputFormat = "console"
	FormatJSON    OutputFormat = "json"
	FormatCSV     OutputFormat = "csv"
)

// IsValid checks if the output format is supported
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatConsole, FormatJSON, FormatCSV:
		return true
	default:
		return false
	}
}

// ReportConfig holds configuration options for report rendering
type ReportConfig struct {
	Format OutputFormat `json:"format"`

	IncludeClientLedgers   bool `json:"include_client_ledgers"`
	IncludeUnmatched       bool `json:"include_unmatched"`
	IncludeRecommendations bool `json:"include_recommendations"`

	CSVDelimiter rune `json:"csv_delimiter"`
	CSVHeaders   bool `json:"csv_headers"`
}

// DefaultReportConfig returns a default report configuration
func DefaultReportConfig() *ReportConfig {
	return &ReportConfig{
		Format:                 FormatConsole,
		IncludeClientLedgers:   true,
		IncludeUnmatched:       true,
		IncludeRecommendations: true,
		CSVDelimiter:           ',',
		CSVHeaders:             true,
	}
}

// Validate validates the report configuration
func (c *ReportConfig) Validate() error {
	if !c.Format.IsValid() {
		return fmt.Errorf("invalid output format: %s", c.Format)
	}
	return nil
}

// Renderer writes compliance reports in the configured format
type Renderer struct {
	config *ReportConfig
}

// NewRenderer creates a renderer with the specified configuration
func NewRenderer(config *ReportConfig) (*Renderer, error) {
	if config == nil {
		config = DefaultReportConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid report configuration: %w", err)
	}

	return &Renderer{config: config}, nil
}

// Render writes the report to the provided writer in the configured format
func (r *Renderer) Render(report *compliance.ComplianceReport, writer io.Writer) error {
	if report == nil {
		return fmt.Errorf("compliance report cannot be nil")
	}

	switch r.config.Format {
	case FormatConsole:
		return r.renderConsole(report, writer)
	case FormatJSON:
		return r.renderJSON(report, writer)
	case FormatCSV:
		return r.renderCSV(report, writer)
	default:
		return fmt.Errorf("unsupported output format: %s", r.config.Format)
	}
}

func (r *Renderer) renderConsole(report *compliance.ComplianceReport, w io.Writer) error {
	fmt.Fprintf(w, "TRUST ACCOUNT COMPLIANCE REPORT\n")
	fmt.Fprintf(w, "Report ID: %s\n", report.ReportID)
	fmt.Fprintf(w, "Generated: %s\n", report.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Account:   %s", report.AccountID)
	if report.AccountName != "" {
		fmt.Fprintf(w, " (%s)", report.AccountName)
	}
	fmt.Fprintf(w, "\nPeriod:    %s\n\n", report.ReconciliationPeriod)

	fmt.Fprintf(w, "=== COMPLIANCE STANDING ===\n")
	fmt.Fprintf(w, "Score:  %d/100\n", report.ComplianceScore)
	fmt.Fprintf(w, "Status: %s\n\n", strings.ToUpper(string(report.ComplianceStatus)))

	tw := report.ThreeWayReconciliation
	fmt.Fprintf(w, "=== THREE-WAY RECONCILIATION ===\n")
	fmt.Fprintf(w, "Bank Statement Balance:  %s\n", tw.BankStatementBalance.StringFixed(2))
	fmt.Fprintf(w, "Adjusted Bank Balance:   %s\n", tw.AdjustedBankBalance.StringFixed(2))
	fmt.Fprintf(w, "Trust Ledger Balance:    %s\n", tw.TrustLedgerBalance.StringFixed(2))
	fmt.Fprintf(w, "Client Ledgers Total:    %s\n", tw.ClientLedgersTotal.StringFixed(2))
	if tw.IsReconciled {
		fmt.Fprintf(w, "Result: RECONCILED\n\n")
	} else {
		fmt.Fprintf(w, "Result: NOT RECONCILED (discrepancy %s)\n", tw.DiscrepancyAmount.StringFixed(2))
		fmt.Fprintf(w, "Reason: %s\n\n", tw.DiscrepancyReason)
	}

	if r.config.IncludeClientLedgers {
		fmt.Fprintf(w, "=== CLIENT LEDGERS (%d) ===\n", report.ClientCount)
		for _, entry := range report.ClientLedgers {
			marker := " "
			if entry.Balance.IsNegative() {
				marker = "!"
			}
			fmt.Fprintf(w, "%s %-12s %-30s %12s\n", marker, entry.ClientID, entry.ClientName, entry.Balance.StringFixed(2))
		}
		fmt.Fprintf(w, "  %-43s %12s\n\n", "TOTAL", report.ClientLedgersTotal.StringFixed(2))
	}

	if len(report.NegativeBalanceClients) > 0 {
		fmt.Fprintf(w, "=== NEGATIVE CLIENT BALANCES (%d) ===\n", len(report.NegativeBalanceClients))
		for _, v := range report.NegativeBalanceClients {
			fmt.Fprintf(w, "[%s] %s: %s\n", strings.ToUpper(string(v.Severity)), v.ClientID, v.Balance.StringFixed(2))
		}
		fmt.Fprintf(w, "\n")
	}

	fmt.Fprintf(w, "=== TRANSACTION MATCHING ===\n")
	summary := report.MatchResult.Summary
	fmt.Fprintf(w, "Bank Transactions:   %d\n", summary.TotalBankTransactions)
	fmt.Fprintf(w, "Ledger Transactions: %d\n", summary.TotalLedgerTransactions)
	fmt.Fprintf(w, "Matched Pairs:       %d (check#: %d, reference: %d, fuzzy: %d)\n",
		summary.MatchedPairs, summary.CheckNumberMatches, summary.ReferenceMatches, summary.FuzzyMatches)
	fmt.Fprintf(w, "Unmatched:           %d bank, %d ledger\n\n", summary.UnmatchedBank, summary.UnmatchedLedger)

	if r.config.IncludeUnmatched && len(report.MatchResult.Unmatched) > 0 {
		fmt.Fprintf(w, "=== UNMATCHED TRANSACTIONS ===\n")
		for _, u := range report.MatchResult.Unmatched {
			fmt.Fprintf(w, "%-6s %-16s %12s  %s\n", u.Source, u.TransactionID(), u.Amount().StringFixed(2), u.Reason)
		}
		fmt.Fprintf(w, "\n")
	}

	overdue := report.ReconciliationOverdue
	fmt.Fprintf(w, "=== RECONCILIATION SCHEDULE ===\n")
	fmt.Fprintf(w, "%s\n", overdue.Message)
	fmt.Fprintf(w, "Next reconciliation due: %s\n\n", report.NextReconciliationDue.Format("2006-01-02"))

	if len(report.ComplianceIssues) > 0 {
		fmt.Fprintf(w, "=== COMPLIANCE ISSUES (%d) ===\n", len(report.ComplianceIssues))
		for _, issue := range report.ComplianceIssues {
			fmt.Fprintf(w, "[%s] %s\n", strings.ToUpper(string(issue.Severity)), issue.Title)
			fmt.Fprintf(w, "    %s\n", issue.Description)
			fmt.Fprintf(w, "    Recommendation: %s\n", issue.Recommendation)
		}
		fmt.Fprintf(w, "\n")
	}

	if r.config.IncludeRecommendations && len(report.Recommendations) > 0 {
		fmt.Fprintf(w, "=== RECOMMENDATIONS ===\n")
		for i, rec := range report.Recommendations {
			fmt.Fprintf(w, "%d. %s\n", i+1, rec)
		}
	}

	return nil
}

func (r *Renderer) renderJSON(report *compliance.ComplianceReport, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

func (r *Renderer) renderCSV(report *compliance.ComplianceReport, w io.Writer) error {
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = r.config.CSVDelimiter
	defer csvWriter.Flush()

	if r.config.CSVHeaders {
		headers := []string{
			"Report_ID",
			"Account_ID",
			"Issue_ID",
			"Type",
			"Severity",
			"Title",
			"Affected_Entity",
			"Recommendation",
		}
		if err := csvWriter.Write(headers); err != nil {
			return fmt.Errorf("failed to write CSV headers: %w", err)
		}
	}

	for _, issue := range report.ComplianceIssues {
		record := []string{
			report.ReportID,
			report.AccountID,
			issue.IssueID,
			string(issue.Type),
			string(issue.Severity),
			issue.Title,
			issue.AffectedEntity,
			issue.Recommendation,
		}
		if err := csvWriter.Write(record); err != nil {
			return fmt.Errorf("failed to write issue record: %w", err)
		}
	}

	if err := csvWriter.Write([]string{
		report.ReportID,
		report.AccountID,
		"",
		"summary",
		"",
		fmt.Sprintf("Compliance score %d (%s)", report.ComplianceScore, report.ComplianceStatus),
		"",
		strconv.Itoa(len(report.ComplianceIssues)) + " issue(s)",
	}); err != nil {
		return fmt.Errorf("failed to write summary record: %w", err)
	}

	return nil
}
