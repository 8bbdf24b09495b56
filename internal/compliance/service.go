package compliance

import (
	"strings"
	"time"

	"trust-reconciliation-service/internal/models"
	"trust-reconciliation-service/pkg/errors"
	"trust-reconciliation-service/pkg/logger"
)

// Service runs the compliance pipeline with pre-flight validation and
// structured logging around the pure engine.
type Service struct {
	generator *Generator
	log       logger.Logger
}

// NewService creates a compliance service. A nil logger falls back to the
// global logger.
func NewService(generator *Generator, log logger.Logger) *Service {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Service{
		generator: generator,
		log:       log.WithComponent("compliance"),
	}
}

// Audit validates the snapshot and, if it is well formed, produces a
// compliance report. A rejected snapshot returns a validation error listing
// every problem found; findings inside a well-formed snapshot never cause
// an error.
func (s *Service) Audit(data *models.ReconciliationData) (*ComplianceReport, error) {
	accountID := ""
	if data != nil {
		accountID = data.AccountID
	}
	log := s.log.WithField("account_id", accountID)

	validation := models.ValidateReconciliationInput(data)
	if !validation.Valid {
		log.WithField("problems", len(validation.Errors)).Warn("Snapshot rejected by pre-flight validation")
		return nil, errors.AuditError(errors.CodeSnapshotInvalid, "pre-flight validation", nil).
			WithContext("problems", strings.Join(validation.Errors, "; "))
	}

	log.WithFields(logger.Fields{
		"client_ledgers":      len(data.ClientLedgers),
		"bank_transactions":   len(data.BankTransactions),
		"ledger_transactions": len(data.LedgerTransactions),
	}).Info("Starting compliance audit")

	start := time.Now()
	report := s.generator.GenerateReport(data)

	log.WithFields(logger.Fields{
		"report_id":         report.ReportID,
		"compliance_score":  report.ComplianceScore,
		"compliance_status": report.ComplianceStatus,
		"issues":            len(report.ComplianceIssues),
		"reconciled":        report.ThreeWayReconciliation.IsReconciled,
		"duration":          time.Since(start).String(),
	}).Info("Compliance audit complete")

	return report, nil
}
