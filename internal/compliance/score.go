package compliance

import (
	"trust-reconciliation-service/internal/matcher"
	"trust-reconciliation-service/internal/models"
)

// ComplianceStatus is the overall standing derived from the score and the
// violation set
type ComplianceStatus string

const (
	StatusCompliant    ComplianceStatus = "compliant"
	StatusNeedsReview  ComplianceStatus = "needs_review"
	StatusNonCompliant ComplianceStatus = "non_compliant"
)

// String returns the string representation of ComplianceStatus
func (s ComplianceStatus) String() string {
	return string(s)
}

// Score deduction weights. These are fixed by the scoring model rather than
// configurable: the bands that feed them (discrepancy size, severity) are
// what Config controls.
const (
	deductDiscrepancyLarge  = 30
	deductDiscrepancyMedium = 20
	deductDiscrepancySmall  = 10

	deductNegativeCritical = 25
	deductNegativeError    = 15
	deductNegativeWarning  = 5

	deductPerUnmatched = 2
	unmatchedDeductCap = 20

	deductOverdueCritical = 25
	deductOverdueError    = 15
	deductOverdueWarning  = 5
)

// ComputeComplianceScore converts the findings of a reconciliation run into
// a 0-100 score. The score starts at 100 and loses points for an
// unreconciled three-way comparison, each negative client balance, material
// unmatched transactions (capped), and an overdue reconciliation schedule.
func ComputeComplianceScore(
	cfg *Config,
	threeWay *ThreeWayResult,
	violators []*NegativeBalanceClient,
	unmatched []*matcher.UnmatchedTransaction,
	overdue *OverdueResult,
) int {

	score := 100

	if threeWay != nil && !threeWay.IsReconciled {
		switch {
		case threeWay.DiscrepancyAmount.GreaterThanOrEqual(cfg.NegativeCriticalAmount):
			score -= deductDiscrepancyLarge
		case threeWay.DiscrepancyAmount.GreaterThanOrEqual(cfg.NegativeErrorAmount):
			score -= deductDiscrepancyMedium
		default:
			score -= deductDiscrepancySmall
		}
	}

	for _, v := range violators {
		switch v.Severity {
		case models.SeverityCritical:
			score -= deductNegativeCritical
		case models.SeverityError:
			score -= deductNegativeError
		default:
			score -= deductNegativeWarning
		}
	}

	unmatchedPenalty := 0
	for _, u := range unmatched {
		if u.Amount().Abs().GreaterThanOrEqual(cfg.MaterialUnmatchedAmount) {
			unmatchedPenalty += deductPerUnmatched
		}
	}
	if unmatchedPenalty > unmatchedDeductCap {
		unmatchedPenalty = unmatchedDeductCap
	}
	score -= unmatchedPenalty

	if overdue != nil && overdue.IsOverdue {
		switch overdue.Severity {
		case models.SeverityCritical:
			score -= deductOverdueCritical
		case models.SeverityError:
			score -= deductOverdueError
		case models.SeverityWarning:
			score -= deductOverdueWarning
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return score
}

// DeriveComplianceStatus maps a score and the negative-balance violations to
// an overall status. Any critical violator forces non-compliance regardless
// of score.
func DeriveComplianceStatus(score int, violators []*NegativeBalanceClient) ComplianceStatus {
	if score >= 95 && len(violators) == 0 {
		return StatusCompliant
	}
	if score < 70 || HasCriticalViolation(violators) {
		return StatusNonCompliant
	}
	return StatusNeedsReview
}
