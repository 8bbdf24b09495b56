package compliance

import (
	"fmt"
	"time"

	"trust-reconciliation-service/internal/models"
)

// OverdueResult describes whether the account's periodic reconciliation is
// overdue and how badly.
type OverdueResult struct {
	IsOverdue               bool                           `json:"is_overdue"`
	DaysOverdue             int                            `json:"days_overdue"`
	NextDueDate             time.Time                      `json:"next_due_date"`
	Severity                models.Severity                `json:"severity"`
	RequiresImmediateAction bool                           `json:"requires_immediate_action"`
	Message                 string                         `json:"message"`
	LastReconciled          *time.Time                     `json:"last_reconciled,omitempty"`
	Frequency               models.ReconciliationFrequency `json:"frequency"`
}

// CheckReconciliationOverdue computes how far past its reconciliation
// schedule the account has drifted, as of referenceDate. An account that has
// never been reconciled is always a critical finding: its due date is pinned
// to the first day of the reference month.
func CheckReconciliationOverdue(
	cfg *Config,
	lastReconciled *time.Time,
	frequency models.ReconciliationFrequency,
	referenceDate time.Time,
) *OverdueResult {

	if lastReconciled == nil {
		firstOfMonth := time.Date(referenceDate.Year(), referenceDate.Month(), 1, 0, 0, 0, 0, referenceDate.Location())
		return &OverdueResult{
			IsOverdue:               true,
			DaysOverdue:             daysBetweenFloored(referenceDate, firstOfMonth),
			NextDueDate:             firstOfMonth,
			Severity:                models.SeverityCritical,
			RequiresImmediateAction: true,
			Message:                 "Account has never been reconciled. Complete an initial three-way reconciliation immediately.",
			Frequency:               frequency,
		}
	}

	nextDue := lastReconciled.AddDate(0, 0, frequency.Days())
	daysOverdue := daysBetweenFloored(referenceDate, nextDue)
	isOverdue := daysOverdue > 0

	severity := models.SeverityInfo
	switch {
	case daysOverdue >= cfg.OverdueCriticalDays:
		severity = models.SeverityCritical
	case daysOverdue >= cfg.OverdueErrorDays:
		severity = models.SeverityError
	case daysOverdue >= cfg.OverdueWarningDays:
		severity = models.SeverityWarning
	}

	result := &OverdueResult{
		IsOverdue:               isOverdue,
		DaysOverdue:             daysOverdue,
		NextDueDate:             nextDue,
		Severity:                severity,
		RequiresImmediateAction: severity == models.SeverityCritical || severity == models.SeverityError,
		LastReconciled:          lastReconciled,
		Frequency:               frequency,
	}

	if isOverdue {
		result.Message = fmt.Sprintf("Reconciliation is %d day(s) overdue. Last reconciled %s; next reconciliation was due %s.",
			daysOverdue, lastReconciled.Format("2006-01-02"), nextDue.Format("2006-01-02"))
	} else {
		result.DaysOverdue = 0
		result.Message = fmt.Sprintf("Reconciliation is current. Last reconciled %s.", lastReconciled.Format("2006-01-02"))
	}

	return result
}

// daysBetweenFloored returns floor((a-b) / 24h). Negative when a precedes b.
func daysBetweenFloored(a, b time.Time) int {
	diff := a.Sub(b)
	days := int(diff.Hours() / 24)
	if diff < 0 && diff.Hours()/24 != float64(days) {
		days--
	}
	return days
}
