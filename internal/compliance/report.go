package compliance

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"trust-reconciliation-service/internal/matcher"
	"trust-reconciliation-service/internal/models"
)

// regulatoryReference cites the model rule most trust accounting regimes
// derive their three-way reconciliation requirement from.
const regulatoryReference = "ABA Model Rule 1.15 (Safekeeping Property)"

// ComplianceIssue is one actionable finding on a report
type ComplianceIssue struct {
	IssueID             string           `json:"issue_id"`
	Type                models.IssueType `json:"type"`
	Severity            models.Severity  `json:"severity"`
	Title               string           `json:"title"`
	Description         string           `json:"description"`
	AffectedEntity      string           `json:"affected_entity,omitempty"`
	DetectedAt          time.Time        `json:"detected_at"`
	Recommendation      string           `json:"recommendation"`
	RegulatoryReference string           `json:"regulatory_reference,omitempty"`
}

// ActivitySummary aggregates the period's trust ledger activity. Bank-side
// activity is deliberately excluded: the ledger is the firm's book of record.
type ActivitySummary struct {
	TotalDeposits    decimal.Decimal `json:"total_deposits"`
	TotalWithdrawals decimal.Decimal `json:"total_withdrawals"`
	NetChange        decimal.Decimal `json:"net_change"`
	TransactionCount int             `json:"transaction_count"`
	ReconciledCount  int             `json:"reconciled_count"`
	PendingCount     int             `json:"pending_count"`
}

// ComplianceReport is the complete outcome of one reconciliation run
type ComplianceReport struct {
	ReportID             string    `json:"report_id"`
	GeneratedAt          time.Time `json:"generated_at"`
	GeneratedBy          string    `json:"generated_by,omitempty"`
	AccountID            string    `json:"account_id"`
	AccountName          string    `json:"account_name,omitempty"`
	ReconciliationDate   time.Time `json:"reconciliation_date"`
	ReconciliationPeriod string    `json:"reconciliation_period"`

	ThreeWayReconciliation *ThreeWayResult `json:"three_way_reconciliation"`

	ClientLedgers      []*models.ClientLedgerEntry `json:"client_ledgers"`
	ClientLedgersTotal decimal.Decimal             `json:"client_ledgers_total"`
	ClientCount        int                         `json:"client_count"`

	NegativeBalanceClients []*NegativeBalanceClient `json:"negative_balance_clients"`
	OverdraftDetected      bool                     `json:"overdraft_detected"`

	MatchResult               *matcher.Result `json:"match_result"`
	MatchedTransactionCount   int             `json:"matched_transaction_count"`
	UnmatchedTransactionCount int             `json:"unmatched_transaction_count"`

	ReconciliationOverdue *OverdueResult `json:"reconciliation_overdue"`
	NextReconciliationDue time.Time      `json:"next_reconciliation_due"`

	ComplianceIssues []*ComplianceIssue `json:"compliance_issues"`
	ComplianceScore  int                `json:"compliance_score"`
	ComplianceStatus ComplianceStatus   `json:"compliance_status"`

	Summary         *ActivitySummary `json:"summary"`
	Recommendations []string         `json:"recommendations"`
	AuditNotes      string           `json:"audit_notes,omitempty"`
}

// Generator builds compliance reports from reconciliation snapshots. Time
// and identifier generation are injected so two generators given the same
// snapshot and the same dependencies produce identical reports.
type Generator struct {
	cfg     *Config
	matcher *matcher.Matcher
	clock   Clock
	ids     IDGenerator
}

// NewGenerator creates a report generator with production dependencies
// (system clock, random UUIDs). A nil config falls back to DefaultConfig.
func NewGenerator(cfg *Config) *Generator {
	return NewGeneratorWithDeps(cfg, SystemClock{}, UUIDGenerator{})
}

// NewGeneratorWithDeps creates a report generator with explicit clock and
// identifier dependencies.
func NewGeneratorWithDeps(cfg *Config, clock Clock, ids IDGenerator) *Generator {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg = cfg.Clone()

	return &Generator{
		cfg:     cfg,
		matcher: matcher.NewMatcher(cfg.Matching),
		clock:   clock,
		ids:     ids,
	}
}

// Config returns a copy of the generator's configuration
func (g *Generator) Config() *Config {
	return g.cfg.Clone()
}

// GenerateReport runs the full compliance pipeline over one snapshot:
// three-way reconciliation, negative balance detection, transaction
// matching, overdue checking, scoring, and report assembly. The snapshot is
// treated as read-only.
func (g *Generator) GenerateReport(data *models.ReconciliationData) *ComplianceReport {
	now := g.clock.Now().UTC()

	threeWay := EvaluateThreeWay(g.cfg, ThreeWayInput{
		BankStatementBalance:   data.BankStatementBalance,
		TrustLedgerBalance:     data.TrustLedgerBalance,
		ClientLedgers:          data.ClientLedgers,
		OutstandingDeposits:    data.OutstandingDeposits,
		OutstandingWithdrawals: data.OutstandingWithdrawals,
		BankAdjustments:        data.BankAdjustments,
	})

	violators := DetectNegativeBalances(g.cfg, data.ClientLedgers)
	matchResult := g.matcher.Match(data.BankTransactions, data.LedgerTransactions)
	overdue := CheckReconciliationOverdue(g.cfg, data.LastReconciliationDate, data.Frequency(), data.ReconciliationDate)

	issues := g.buildIssues(data, now, threeWay, violators, matchResult, overdue)
	score := ComputeComplianceScore(g.cfg, threeWay, violators, matchResult.Unmatched, overdue)

	return &ComplianceReport{
		ReportID:             g.newReportID(now),
		GeneratedAt:          now,
		GeneratedBy:          data.PerformedBy,
		AccountID:            data.AccountID,
		AccountName:          data.AccountName,
		ReconciliationDate:   data.ReconciliationDate,
		ReconciliationPeriod: data.ReconciliationDate.Format("January 2006"),

		ThreeWayReconciliation: threeWay,

		ClientLedgers:      data.ClientLedgers,
		ClientLedgersTotal: threeWay.ClientLedgersTotal,
		ClientCount:        len(data.ClientLedgers),

		NegativeBalanceClients: violators,
		OverdraftDetected:      len(violators) > 0,

		MatchResult:               matchResult,
		MatchedTransactionCount:   matchResult.Summary.MatchedTransactionCount(),
		UnmatchedTransactionCount: len(matchResult.Unmatched),

		ReconciliationOverdue: overdue,
		NextReconciliationDue: data.ReconciliationDate.AddDate(0, 0, data.Frequency().Days()),

		ComplianceIssues: issues,
		ComplianceScore:  score,
		ComplianceStatus: DeriveComplianceStatus(score, violators),

		Summary:         summarizeActivity(data.LedgerTransactions),
		Recommendations: g.buildRecommendations(threeWay, violators, matchResult, overdue),
		AuditNotes:      data.Notes,
	}
}

// newReportID builds a sortable report identifier: a timestamp prefix for
// humans, a UUID fragment for uniqueness.
func (g *Generator) newReportID(now time.Time) string {
	token := g.ids.NewID()
	token = strings.ReplaceAll(token, "-", "")
	if len(token) > 8 {
		token = token[:8]
	}
	return fmt.Sprintf("TRST-%s-%s", now.Format("20060102T150405Z"), token)
}

func (g *Generator) newIssueID() string {
	token := strings.ReplaceAll(g.ids.NewID(), "-", "")
	if len(token) > 8 {
		token = token[:8]
	}
	return "ISS-" + token
}

// buildIssues assembles the issue list in presentation order: negative
// balances first (already severity-sorted), then the overdue finding, then
// the balance discrepancy, then material unmatched transactions up to the
// configured cap.
func (g *Generator) buildIssues(
	data *models.ReconciliationData,
	now time.Time,
	threeWay *ThreeWayResult,
	violators []*NegativeBalanceClient,
	matchResult *matcher.Result,
	overdue *OverdueResult,
) []*ComplianceIssue {

	issues := []*ComplianceIssue{}

	for _, v := range violators {
		issues = append(issues, &ComplianceIssue{
			IssueID:        g.newIssueID(),
			Type:           models.IssueNegativeBalance,
			Severity:       v.Severity,
			Title:          fmt.Sprintf("Negative client balance: %s", v.ClientName),
			Description:    v.Violation,
			AffectedEntity: v.ClientID,
			DetectedAt:     now,
			Recommendation: fmt.Sprintf("Deposit $%s of firm funds to cure the shortfall for client %s, then investigate the disbursement that caused it.",
				v.Balance.Abs().StringFixed(2), v.ClientID),
			RegulatoryReference: regulatoryReference,
		})
	}

	if overdue.IsOverdue {
		issues = append(issues, &ComplianceIssue{
			IssueID:             g.newIssueID(),
			Type:                models.IssueReconciliationOverdue,
			Severity:            overdue.Severity,
			Title:               "Reconciliation schedule not met",
			Description:         overdue.Message,
			AffectedEntity:      data.AccountID,
			DetectedAt:          now,
			Recommendation:      "Complete a three-way reconciliation and record the completion date.",
			RegulatoryReference: regulatoryReference,
		})
	}

	if !threeWay.IsReconciled {
		severity := models.SeverityWarning
		if threeWay.DiscrepancyAmount.GreaterThanOrEqual(g.cfg.NegativeErrorAmount) {
			severity = models.SeverityError
		}
		issues = append(issues, &ComplianceIssue{
			IssueID:  g.newIssueID(),
			Type:     models.IssueDiscrepancyDetected,
			Severity: severity,
			Title:    "Three-way reconciliation discrepancy",
			Description: fmt.Sprintf("%s Discrepancy amount: $%s.",
				threeWay.DiscrepancyReason, threeWay.DiscrepancyAmount.StringFixed(2)),
			AffectedEntity:      data.AccountID,
			DetectedAt:          now,
			Recommendation:      "Trace the discrepancy to specific transactions before signing off on this period.",
			RegulatoryReference: regulatoryReference,
		})
	}

	reported := 0
	for _, u := range matchResult.Unmatched {
		if reported >= g.cfg.MaxUnmatchedIssues {
			break
		}
		if u.Amount().Abs().LessThan(g.cfg.MaterialUnmatchedAmount) {
			continue
		}

		issues = append(issues, &ComplianceIssue{
			IssueID:  g.newIssueID(),
			Type:     models.IssueUnmatchedTransaction,
			Severity: models.SeverityWarning,
			Title:    fmt.Sprintf("Unmatched %s transaction %s", u.Source, u.TransactionID()),
			Description: fmt.Sprintf("Transaction %s for $%s has no counterpart (%s).",
				u.TransactionID(), u.Amount().Abs().StringFixed(2), u.Reason),
			AffectedEntity: u.TransactionID(),
			DetectedAt:     now,
			Recommendation: "Locate the missing counterpart entry or document why none exists.",
		})
		reported++
	}

	return issues
}

// buildRecommendations produces ordered, human-readable next steps. Urgent
// items lead; the record retention reminder is always last.
func (g *Generator) buildRecommendations(
	threeWay *ThreeWayResult,
	violators []*NegativeBalanceClient,
	matchResult *matcher.Result,
	overdue *OverdueResult,
) []string {

	recs := []string{}
	hasFindings := false

	if len(violators) > 0 {
		hasFindings = true
		recs = append(recs, fmt.Sprintf(
			"URGENT: %d client ledger(s) carry a negative balance. Restore the affected funds immediately and document the corrective deposits.",
			len(violators)))
	}

	if overdue.IsOverdue && overdue.Severity == models.SeverityCritical {
		hasFindings = true
		recs = append(recs, "URGENT: the reconciliation schedule is critically overdue. Complete a full three-way reconciliation before processing further disbursements.")
	}

	if !threeWay.IsReconciled {
		hasFindings = true
		if threeWay.AdjustedBankBalance.GreaterThan(threeWay.TrustLedgerBalance) {
			recs = append(recs, fmt.Sprintf(
				"The adjusted bank balance exceeds the trust ledger by $%s. Look for deposits not yet recorded in the ledger or duplicated ledger disbursements.",
				threeWay.BankLedgerDifference.StringFixed(2)))
		} else if threeWay.AdjustedBankBalance.LessThan(threeWay.TrustLedgerBalance) {
			recs = append(recs, fmt.Sprintf(
				"The trust ledger exceeds the adjusted bank balance by $%s. Look for ledger deposits the bank never received or disbursements not yet recorded in the ledger.",
				threeWay.BankLedgerDifference.StringFixed(2)))
		}
		if threeWay.LedgerClientDifference.GreaterThan(g.cfg.BalanceTolerance) {
			recs = append(recs, fmt.Sprintf(
				"The trust ledger and the client ledger total differ by $%s. Re-allocate unassigned transactions to client sub-ledgers.",
				threeWay.LedgerClientDifference.StringFixed(2)))
		}
	}

	if matchResult.Summary.UnmatchedBank > 0 {
		hasFindings = true
		recs = append(recs, fmt.Sprintf(
			"Review %d bank transaction(s) with no ledger counterpart; each must be recorded or explained.",
			matchResult.Summary.UnmatchedBank))
	}
	if matchResult.Summary.UnmatchedLedger > 0 {
		hasFindings = true
		recs = append(recs, fmt.Sprintf(
			"Review %d ledger transaction(s) with no bank counterpart; verify they are outstanding items rather than recording errors.",
			matchResult.Summary.UnmatchedLedger))
	}

	if overdue.IsOverdue && overdue.Severity != models.SeverityCritical {
		hasFindings = true
		recs = append(recs, fmt.Sprintf(
			"Reconciliation is %d day(s) past due. Bring the schedule current and confirm the %s cadence is still appropriate.",
			overdue.DaysOverdue, overdue.Frequency))
	}

	if !hasFindings {
		recs = append(recs, "Account is in good standing. Continue reconciling on the current schedule.")
	}

	recs = append(recs, "Retain this report and all supporting records for the period required by your jurisdiction (commonly five years).")
	return recs
}

// summarizeActivity aggregates ledger transactions for the period. Transfers
// and adjustments move money between sub-ledgers without changing the
// account total, so only deposits and withdrawals feed the net change.
func summarizeActivity(ledger []*models.LedgerTransaction) *ActivitySummary {
	s := &ActivitySummary{
		TotalDeposits:    decimal.Zero,
		TotalWithdrawals: decimal.Zero,
		TransactionCount: len(ledger),
	}

	for _, lt := range ledger {
		switch lt.Type {
		case models.LedgerEntryDeposit:
			s.TotalDeposits = s.TotalDeposits.Add(lt.Amount)
		case models.LedgerEntryWithdrawal:
			s.TotalWithdrawals = s.TotalWithdrawals.Add(lt.Amount)
		}

		if lt.Reconciled {
			s.ReconciledCount++
		} else {
			s.PendingCount++
		}
	}

	s.NetChange = s.TotalDeposits.Sub(s.TotalWithdrawals)
	return s
}
