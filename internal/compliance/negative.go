package compliance

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"trust-reconciliation-service/internal/models"
)

// NegativeBalanceClient records one violation of the zero-balance principle:
// a client sub-ledger that has gone negative, implying another client's funds
// were spent.
type NegativeBalanceClient struct {
	ClientID   string          `json:"client_id"`
	ClientName string          `json:"client_name"`
	CaseID     string          `json:"case_id,omitempty"`
	Balance    decimal.Decimal `json:"balance"`
	Severity   models.Severity `json:"severity"`
	Violation  string          `json:"violation"`
}

// DetectNegativeBalances scans the client ledgers for negative balances and
// classifies each violator by the magnitude of the shortfall. The output is
// sorted by severity (critical first) and, within a severity, by descending
// absolute balance; report presentation depends on this ordering.
func DetectNegativeBalances(cfg *Config, ledgers []*models.ClientLedgerEntry) []*NegativeBalanceClient {
	violators := []*NegativeBalanceClient{}

	for _, entry := range ledgers {
		if !entry.Balance.IsNegative() {
			continue
		}

		shortfall := entry.Balance.Abs()
		violators = append(violators, &NegativeBalanceClient{
			ClientID:   entry.ClientID,
			ClientName: entry.ClientName,
			CaseID:     entry.CaseID,
			Balance:    entry.Balance,
			Severity:   classifyShortfall(cfg, shortfall),
			Violation: fmt.Sprintf(
				"Client ledger for %s (%s) is negative by $%s. Funds belonging to other clients may have been used.",
				entry.ClientName, entry.ClientID, shortfall.StringFixed(2)),
		})
	}

	sort.SliceStable(violators, func(i, j int) bool {
		ri, rj := violators[i].Severity.Rank(), violators[j].Severity.Rank()
		if ri != rj {
			return ri < rj
		}
		return violators[i].Balance.Abs().GreaterThan(violators[j].Balance.Abs())
	})

	return violators
}

// classifyShortfall maps an absolute shortfall to a severity band
func classifyShortfall(cfg *Config, shortfall decimal.Decimal) models.Severity {
	switch {
	case shortfall.GreaterThanOrEqual(cfg.NegativeCriticalAmount):
		return models.SeverityCritical
	case shortfall.GreaterThanOrEqual(cfg.NegativeErrorAmount):
		return models.SeverityError
	default:
		return models.SeverityWarning
	}
}

// HasCriticalViolation reports whether any violator in the list is critical
func HasCriticalViolation(violators []*NegativeBalanceClient) bool {
	for _, v := range violators {
		if v.Severity == models.SeverityCritical {
			return true
		}
	}
	return false
}
